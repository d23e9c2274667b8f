package recall

import (
	"context"

	"github.com/mycontent/recserve/core"
	"github.com/mycontent/recserve/pipeline"
	"github.com/mycontent/recserve/pkg/utils"
)

// CandidateNode 把 Generator 接入 Pipeline：
// 产出 over-fetch 规模的候选，已读排除与截断由下游 Node 完成。
type CandidateNode struct {
	Generator *Generator
}

func (n *CandidateNode) Name() string        { return "recall.candidates" }
func (n *CandidateNode) Kind() pipeline.Kind { return pipeline.KindRecall }

func (n *CandidateNode) Process(
	_ context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	items, outcome := n.Generator.Candidates(rctx.UserID, rctx.N)
	rctx.PutLabel("recall_outcome", utils.Label{Value: string(outcome), Source: "recall"})
	return items, nil
}
