package snapshot

import (
	"sort"
	"time"

	"github.com/mycontent/recserve/core"
	"github.com/mycontent/recserve/index"
	"github.com/mycontent/recserve/model"
	"github.com/mycontent/recserve/train"
)

// Version 是快照格式版本，字段变更时递增。
const Version = 1

// Snapshot 是一次训练产出的完整服务状态：
// 模型因子、ID 映射、两个方向的交互矩阵、全量已读集、热门表。
// 所有字段都是定形的，缺一不可，加载时由 Validate 把关。
type Snapshot struct {
	Version   int       `json:"version"`
	CreatedAt time.Time `json:"created_at"`

	Oracle   *model.ALS             `json:"oracle"`
	Index    *index.IdentifierIndex `json:"index"`
	UserItem *core.SparseMatrix     `json:"user_item"`
	ItemUser *core.SparseMatrix     `json:"item_user"`

	// SeenSets 是全量口径：低活用户也在内
	SeenSets   map[int64][]int64 `json:"seen_sets"`
	Popularity map[int64]int64   `json:"popularity"`
	AllItems   []int64           `json:"all_items"`
}

// Build 从训练数据集和已训练模型组装快照。
func Build(ds *train.Dataset, oracle *model.ALS) *Snapshot {
	seen := make(map[int64][]int64, len(ds.SeenSets))
	for userID, set := range ds.SeenSets {
		ids := make([]int64, 0, len(set))
		for id := range set {
			ids = append(ids, id)
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		seen[userID] = ids
	}

	return &Snapshot{
		Version:    Version,
		CreatedAt:  time.Now().UTC(),
		Oracle:     oracle,
		Index:      ds.Index,
		UserItem:   ds.UserItem,
		ItemUser:   ds.ItemUser,
		SeenSets:   seen,
		Popularity: ds.Popularity,
		AllItems:   ds.AllItems,
	}
}

// Validate 检查快照的完整性与内部一致性。
// 任何缺失或维度不一致都按损坏处理，绝不带病上线。
func (s *Snapshot) Validate() error {
	if s == nil {
		return corrupt("snapshot is nil")
	}
	if s.Version != Version {
		return corrupt("unsupported snapshot version")
	}
	if s.Oracle == nil {
		return corrupt("missing oracle")
	}
	if !s.Oracle.Trained() {
		return corrupt("oracle is not trained")
	}
	if s.Index == nil {
		return corrupt("missing identifier index")
	}
	if s.UserItem == nil || s.ItemUser == nil {
		return corrupt("missing interaction matrix")
	}
	if s.SeenSets == nil || s.Popularity == nil || len(s.AllItems) == 0 {
		return corrupt("missing serving tables")
	}

	users := len(s.Index.IndexToUser)
	items := len(s.Index.IndexToItem)
	if s.UserItem.RowCount != users || s.UserItem.ColCount != items {
		return corrupt("user-item matrix does not match index dimensions")
	}
	if s.ItemUser.RowCount != items || s.ItemUser.ColCount != users {
		return corrupt("item-user matrix does not match index dimensions")
	}
	if len(s.Oracle.UserFactors) != users || len(s.Oracle.ItemFactors) != items {
		return corrupt("factor dimensions do not match index")
	}
	return nil
}

// SeenIndex 把快照中的列表形式已读集还原为集合形式。
func (s *Snapshot) SeenIndex() map[int64]map[int64]struct{} {
	out := make(map[int64]map[int64]struct{}, len(s.SeenSets))
	for userID, ids := range s.SeenSets {
		set := make(map[int64]struct{}, len(ids))
		for _, id := range ids {
			set[id] = struct{}{}
		}
		out[userID] = set
	}
	return out
}

func corrupt(msg string) error {
	return core.NewDomainError(core.ModuleSnapshot, core.ErrorCodeCorrupt, msg)
}
