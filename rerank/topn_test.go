package rerank

import (
	"context"
	"testing"

	"github.com/mycontent/recserve/core"
)

func TestTopNNode(t *testing.T) {
	items := []*core.Item{core.NewItem(1), core.NewItem(2), core.NewItem(3)}

	node := &TopNNode{N: 2}
	out, err := node.Process(context.Background(), nil, items)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 2 || out[0].ID != 1 || out[1].ID != 2 {
		t.Errorf("unexpected truncation: %v", out)
	}

	// N 未配置时取请求上下文的 N
	node = &TopNNode{}
	out, _ = node.Process(context.Background(), &core.RecommendContext{N: 1}, items)
	if len(out) != 1 {
		t.Errorf("expected rctx.N truncation, got %d items", len(out))
	}

	// 池子不足时不报错
	out, _ = node.Process(context.Background(), &core.RecommendContext{N: 10}, items)
	if len(out) != 3 {
		t.Errorf("short pool should pass through, got %d", len(out))
	}
}
