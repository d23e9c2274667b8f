package pipeline

import (
	"context"

	"github.com/mycontent/recserve/core"
)

// Pipeline 把推荐服务逻辑拆成可组合的 Node 链：
// 召回 → 已读过滤 → 规则过滤 → 截断 → 富化。
type Pipeline struct {
	Nodes []Node
}

func (p *Pipeline) Run(
	ctx context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	cur := items
	for _, node := range p.Nodes {
		next, err := node.Process(ctx, rctx, cur)
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return cur, nil
}
