package rerank

import (
	"context"

	"github.com/mycontent/recserve/core"
	"github.com/mycontent/recserve/pipeline"
)

// TopNNode 是 Top-N 截断节点，在过滤之后截取前 N 个物品。
// N 取自节点配置；N <= 0 时回退到请求上下文的 rctx.N。
type TopNNode struct {
	N int
}

func (n *TopNNode) Name() string {
	return "rerank.topn"
}

func (n *TopNNode) Kind() pipeline.Kind {
	return pipeline.KindReRank
}

func (n *TopNNode) Process(
	_ context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	limit := n.N
	if limit <= 0 && rctx != nil {
		limit = rctx.N
	}
	if limit <= 0 || len(items) <= limit {
		return items, nil
	}
	return items[:limit], nil
}
