package train

import (
	"github.com/mycontent/recserve/core"
	"github.com/mycontent/recserve/index"
)

// DefaultMinActivity 是最小活跃度阈值：一个用户的累计点击数达到该值
// 才进入因子训练矩阵。低于阈值的用户被静默剔除，服务期走热门路径。
// 这是精度/覆盖率的取舍：稀疏的单点击历史只会给因子估计增加噪声。
const DefaultMinActivity = 5

// Dataset 是一次训练窗口的完整产出，快照直接由它加上已训练的 oracle 构成。
//
// 注意两组口径：
//   - 矩阵与映射只覆盖通过活跃度过滤的用户
//   - SeenSets / Popularity / AllItems 覆盖过滤前的全部聚合交互，
//     这样低活用户在服务期仍有已读集可供排除
type Dataset struct {
	Index    *index.IdentifierIndex
	UserItem *core.SparseMatrix
	ItemUser *core.SparseMatrix

	// SeenSets: userID -> 已交互文章集合，训练期派生一次，之后只读。
	SeenSets map[int64]map[int64]struct{}

	// Popularity: articleID -> 交互过该文章的用户数（聚合对计数）。
	Popularity map[int64]int64

	// AllItems 已知文章全集（热门 fallback 的候选池）。
	AllItems []int64
}

// BuildOptions 控制数据集构建。
type BuildOptions struct {
	// MinActivity 最小活跃度（累计点击数）；<=0 时取 DefaultMinActivity。
	MinActivity float64
}

// Build 从聚合交互构建训练数据集。
// interactions 需已按 (user, item) 聚合（见 Aggregate）。
func Build(interactions []Interaction, opts BuildOptions) *Dataset {
	minActivity := opts.MinActivity
	if minActivity <= 0 {
		minActivity = DefaultMinActivity
	}

	ds := &Dataset{
		SeenSets:   make(map[int64]map[int64]struct{}),
		Popularity: make(map[int64]int64),
	}

	// 全量口径：已读集、热门表、文章全集（过滤前派生）
	itemSet := make(map[int64]struct{})
	userClicks := make(map[int64]float64)
	for _, in := range interactions {
		if in.Weight <= 0 {
			continue
		}
		seen := ds.SeenSets[in.UserID]
		if seen == nil {
			seen = make(map[int64]struct{})
			ds.SeenSets[in.UserID] = seen
		}
		seen[in.ArticleID] = struct{}{}
		ds.Popularity[in.ArticleID]++
		itemSet[in.ArticleID] = struct{}{}
		userClicks[in.UserID] += in.Weight
	}
	ds.AllItems = make([]int64, 0, len(itemSet))
	for it := range itemSet {
		ds.AllItems = append(ds.AllItems, it)
	}

	// 训练口径：只保留活跃用户的交互
	filtered := make([]Interaction, 0, len(interactions))
	userIDs := make([]int64, 0)
	trainItems := make([]int64, 0)
	for _, in := range interactions {
		if in.Weight <= 0 || userClicks[in.UserID] < minActivity {
			continue
		}
		filtered = append(filtered, in)
		userIDs = append(userIDs, in.UserID)
		trainItems = append(trainItems, in.ArticleID)
	}

	ds.Index = index.Build(userIDs, trainItems)

	entries := make([]core.Entry, 0, len(filtered))
	for _, in := range filtered {
		uIdx, ok := ds.Index.LookupUser(in.UserID)
		if !ok {
			continue
		}
		iIdx, ok := ds.Index.LookupItem(in.ArticleID)
		if !ok {
			continue
		}
		entries = append(entries, core.Entry{Row: uIdx, Col: iIdx, Value: in.Weight})
	}
	ds.UserItem = core.NewSparseMatrix(ds.Index.Users(), ds.Index.Items(), entries)
	ds.ItemUser = ds.UserItem.Transpose()
	return ds
}
