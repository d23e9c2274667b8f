package serving

import (
	"context"

	"go.uber.org/zap"

	"github.com/mycontent/recserve/core"
	"github.com/mycontent/recserve/feature"
	"github.com/mycontent/recserve/filter"
	"github.com/mycontent/recserve/pipeline"
	"github.com/mycontent/recserve/recall"
	"github.com/mycontent/recserve/rerank"
	"github.com/mycontent/recserve/snapshot"
)

// Engine 是加载完成的推荐引擎：持有快照派生的只读状态，
// 并把一次请求编排成 召回 → 过滤 → 截断 → 富化 的 Pipeline。
type Engine struct {
	snap      *snapshot.Snapshot
	generator *recall.Generator
	enricher  *feature.Enricher
	popular   *recall.Popular
	pipe      *pipeline.Pipeline
	seen      map[int64]map[int64]struct{}
}

// NewEngine 从快照组装引擎。ruleExpr 为空时跳过规则过滤。
func NewEngine(snap *snapshot.Snapshot, catalog core.MetadataCatalog, logger *zap.Logger, ruleExpr string) *Engine {
	seen := snap.SeenIndex()
	popular := &recall.Popular{
		Popularity: snap.Popularity,
		AllItems:   snap.AllItems,
	}
	gen := &recall.Generator{
		Index:    snap.Index,
		Oracle:   snap.Oracle,
		UserItem: snap.UserItem,
		Popular:  popular,
		Seen:     seen,
		Logger:   logger,
	}

	filters := []filter.Filter{&filter.SeenFilter{Seen: seen}}
	if ruleExpr != "" {
		filters = append(filters, &filter.RuleFilter{Expr: ruleExpr})
	}

	pipe := &pipeline.Pipeline{Nodes: []pipeline.Node{
		&recall.CandidateNode{Generator: gen},
		&filter.FilterNode{Filters: filters},
		&rerank.TopNNode{},
		&feature.EnrichNode{Catalog: catalog},
	}}

	return &Engine{
		snap:      snap,
		generator: gen,
		enricher:  &feature.Enricher{Catalog: catalog},
		popular:   popular,
		pipe:      pipe,
		seen:      seen,
	}
}

// Recommend 执行一次推荐，返回截断后的候选与召回路径。
// n 由调用方裁剪到合理区间。
func (e *Engine) Recommend(ctx context.Context, userID int64, n int, excludeSeen bool) ([]*core.Item, recall.Outcome, error) {
	rctx := &core.RecommendContext{
		UserID:      userID,
		N:           n,
		ExcludeSeen: excludeSeen,
	}

	items, err := e.pipe.Run(ctx, rctx, nil)
	if err != nil {
		return nil, "", err
	}

	outcome := recall.OutcomeModel
	if lbl, ok := rctx.GetLabel("recall_outcome"); ok {
		outcome = recall.Outcome(lbl.Value)
	}
	return items, outcome, nil
}

// Recommendation 是富化后的完整推荐响应。
type Recommendation struct {
	UserID          int64                   `json:"user_id"`
	Recommendations []feature.EnrichedItem  `json:"recommendations"`
	Count           int                     `json:"count"`
	Outcome         recall.Outcome          `json:"model_status"`
	Diversity       feature.DiversityReport `json:"diversity"`
}

// RecommendEnriched 推荐并补全元数据、计算多样性指标。
func (e *Engine) RecommendEnriched(ctx context.Context, userID int64, n int, excludeSeen bool) (*Recommendation, error) {
	items, outcome, err := e.Recommend(ctx, userID, n, excludeSeen)
	if err != nil {
		return nil, err
	}

	enriched, err := e.enricher.Enrich(ctx, items)
	if err != nil {
		// 元数据目录故障时降级为裸条目，推荐本身不受影响
		enriched = make([]feature.EnrichedItem, 0, len(items))
		for _, it := range items {
			if it != nil {
				enriched = append(enriched, feature.EnrichedItem{ArticleID: it.ID, Score: it.Score})
			}
		}
	}

	return &Recommendation{
		UserID:          userID,
		Recommendations: enriched,
		Count:           len(enriched),
		Outcome:         outcome,
		Diversity:       feature.MeasureDiversity(enriched),
	}, nil
}

// UserInfo 描述一个用户在当前模型中的状态。
type UserInfo struct {
	UserID    int64   `json:"user_id"`
	IsKnown   bool    `json:"is_known"`
	ItemsSeen []int64 `json:"items_seen"`
}

// UserInfo 返回用户状态。未知用户不是错误，IsKnown=false。
func (e *Engine) UserInfo(userID int64) UserInfo {
	_, known := e.snap.Index.LookupUser(userID)
	info := UserInfo{UserID: userID, IsKnown: known}
	if ids, ok := e.snap.SeenSets[userID]; ok {
		info.ItemsSeen = ids
	} else {
		info.ItemsSeen = []int64{}
	}
	return info
}

// Users 返回训练映射中的用户 ID 分页视图和总数。
func (e *Engine) Users(limit, offset int) ([]int64, int) {
	all := e.snap.Index.IndexToUser
	total := len(all)
	if offset < 0 {
		offset = 0
	}
	if offset >= total {
		return []int64{}, total
	}
	end := total
	if limit > 0 && offset+limit < total {
		end = offset + limit
	}
	out := make([]int64, end-offset)
	copy(out, all[offset:end])
	return out, total
}

// ModelInfo 描述当前加载的模型。
type ModelInfo struct {
	IsTrained       bool               `json:"is_trained"`
	NUsers          int                `json:"n_users"`
	NItems          int                `json:"n_items"`
	Hyperparameters map[string]float64 `json:"hyperparameters"`
}

func (e *Engine) ModelInfo() ModelInfo {
	return ModelInfo{
		IsTrained:       e.snap.Oracle.Trained(),
		NUsers:          len(e.snap.Index.IndexToUser),
		NItems:          len(e.snap.Index.IndexToItem),
		Hyperparameters: e.snap.Oracle.Hyperparameters(),
	}
}

// PopularArticles 返回热门表前 n 篇（不做已读排除）。
func (e *Engine) PopularArticles(n int) []*core.Item {
	return e.popular.Rank(nil, n)
}
