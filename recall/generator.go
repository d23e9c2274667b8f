package recall

import (
	"go.uber.org/zap"

	"github.com/mycontent/recserve/core"
	"github.com/mycontent/recserve/index"
	"github.com/mycontent/recserve/pkg/utils"
)

// Outcome 标记一次候选生成走了哪条路径。
// 调用方据此做观测与打点；降级不是错误，不会以 error 形式透出。
type Outcome string

const (
	// OutcomeModel 隐因子模型路径
	OutcomeModel Outcome = "model"
	// OutcomeFallbackUnknown 用户不在训练映射中，走热门路径
	OutcomeFallbackUnknown Outcome = "fallback_unknown_user"
	// OutcomeFallbackOracle 打分调用失败，降级到热门路径
	OutcomeFallbackOracle Outcome = "fallback_oracle_error"
)

// Generator 是候选生成器：编排隐因子路径与热门 fallback。
//
// 纯函数语义：对固定快照与相同输入，输出完全确定，无副作用。
// 每个请求至多进入一次冷启动分支（未知用户 与 打分失败 互斥）。
type Generator struct {
	Index    *index.IdentifierIndex
	Oracle   core.FactorOracle
	UserItem *core.SparseMatrix

	Popular *Popular

	// Seen: userID -> 已读文章集合，全量口径（含低活用户），只读。
	Seen map[int64]map[int64]struct{}

	// Logger 可为 nil；降级事件按 Warn 级别记录。
	Logger *zap.Logger
}

// Recommend 生成至多 n 条候选（文章 ID 级别，已按语义排除与截断）。
//
// 已知用户：向 oracle 请求 n + |seen| 个候选（over-fetch 抵消排除损耗），
// 翻译回文章 ID，丢弃无法映射的下标，按需剔除已读，截断到 n。
// 未知用户或打分失败：热门表降序（同热度按 ID 升序）。
//
// n 由调用方裁剪到合理区间；池子小于 n 时返回更少条目，不是错误。
func (g *Generator) Recommend(userID int64, n int, excludeSeen bool) ([]*core.Item, Outcome) {
	if n <= 0 {
		return nil, OutcomeModel
	}

	uIdx, known := g.Index.LookupUser(userID)
	if !known {
		return g.fallback(userID, n, excludeSeen, OutcomeFallbackUnknown, nil)
	}

	seen := g.Seen[userID]
	fetchN := n + len(seen)

	scored, err := g.Oracle.Recommend(uIdx, g.UserItem.RowMap(uIdx), fetchN)
	if err != nil {
		return g.fallback(userID, n, excludeSeen, OutcomeFallbackOracle, err)
	}

	out := make([]*core.Item, 0, n)
	for _, s := range scored {
		id, ok := g.Index.ItemAt(s.Index)
		if !ok {
			// 下标映射不上说明快照内部状态过期，跳过而不是中断
			continue
		}
		if excludeSeen {
			if _, ok := seen[id]; ok {
				continue
			}
		}
		it := core.NewItem(id)
		it.Score = s.Score
		it.PutLabel("recall_source", utils.Label{Value: "als", Source: "recall"})
		out = append(out, it)
		if len(out) == n {
			break
		}
	}
	return out, OutcomeModel
}

// Candidates 返回 over-fetch 规模、未做排除与截断的候选，
// 供 Pipeline 形态使用：排除交给 filter.seen，截断交给 rerank.topn。
func (g *Generator) Candidates(userID int64, n int) ([]*core.Item, Outcome) {
	if n <= 0 {
		return nil, OutcomeModel
	}

	uIdx, known := g.Index.LookupUser(userID)
	if !known {
		return g.Popular.Rank(nil, n+len(g.Seen[userID])), OutcomeFallbackUnknown
	}

	seen := g.Seen[userID]
	fetchN := n + len(seen)

	scored, err := g.Oracle.Recommend(uIdx, g.UserItem.RowMap(uIdx), fetchN)
	if err != nil {
		g.logFallback(userID, err)
		return g.Popular.Rank(nil, fetchN), OutcomeFallbackOracle
	}

	out := make([]*core.Item, 0, len(scored))
	for _, s := range scored {
		id, ok := g.Index.ItemAt(s.Index)
		if !ok {
			continue
		}
		it := core.NewItem(id)
		it.Score = s.Score
		it.PutLabel("recall_source", utils.Label{Value: "als", Source: "recall"})
		out = append(out, it)
	}
	return out, OutcomeModel
}

func (g *Generator) fallback(userID int64, n int, excludeSeen bool, outcome Outcome, cause error) ([]*core.Item, Outcome) {
	if outcome == OutcomeFallbackOracle {
		g.logFallback(userID, cause)
	}
	var seen map[int64]struct{}
	if excludeSeen {
		seen = g.Seen[userID]
	}
	items := g.Popular.Rank(seen, n)
	for _, it := range items {
		it.PutLabel("fallback_reason", utils.Label{Value: string(outcome), Source: "recall"})
	}
	return items, outcome
}

func (g *Generator) logFallback(userID int64, cause error) {
	if g.Logger == nil {
		return
	}
	g.Logger.Warn("factor scoring failed, serving popularity fallback",
		zap.Int64("user_id", userID),
		zap.Error(cause),
	)
}
