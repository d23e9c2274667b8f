package filter

import (
	"context"
	"testing"

	"github.com/mycontent/recserve/core"
)

func TestSeenFilter(t *testing.T) {
	f := &SeenFilter{
		Seen: map[int64]map[int64]struct{}{
			3: {10: {}, 20: {}, 30: {}},
		},
	}

	rctx := &core.RecommendContext{UserID: 3, ExcludeSeen: true}
	for _, tc := range []struct {
		itemID int64
		want   bool
	}{
		{10, true},
		{20, true},
		{99, false},
	} {
		got, err := f.ShouldFilter(context.Background(), rctx, core.NewItem(tc.itemID))
		if err != nil {
			t.Fatal(err)
		}
		if got != tc.want {
			t.Errorf("item %d: filter = %v, want %v", tc.itemID, got, tc.want)
		}
	}

	// 不排除已读时全部保留
	rctx.ExcludeSeen = false
	got, _ := f.ShouldFilter(context.Background(), rctx, core.NewItem(10))
	if got {
		t.Error("exclude_seen=false should keep seen items")
	}

	// 无已读记录的用户全部保留
	rctx = &core.RecommendContext{UserID: 999, ExcludeSeen: true}
	got, _ = f.ShouldFilter(context.Background(), rctx, core.NewItem(10))
	if got {
		t.Error("user without seen set should keep all items")
	}
}

func TestRuleFilter(t *testing.T) {
	rctx := &core.RecommendContext{UserID: 1}

	item := core.NewItem(10)
	item.Score = 0.8
	item.Meta["category_id"] = int64(281)

	f := &RuleFilter{Expr: `item.score > 0.5`}
	got, err := f.ShouldFilter(context.Background(), rctx, item)
	if err != nil {
		t.Fatal(err)
	}
	if got {
		t.Error("item passing the rule should be kept")
	}

	f = &RuleFilter{Expr: `item.meta.category_id == 100`}
	got, err = f.ShouldFilter(context.Background(), rctx, item)
	if err != nil {
		t.Fatal(err)
	}
	if !got {
		t.Error("item failing the rule should be filtered")
	}

	// 空表达式恒保留
	f = &RuleFilter{}
	got, _ = f.ShouldFilter(context.Background(), rctx, item)
	if got {
		t.Error("empty expr should keep everything")
	}
}

type alwaysFilter struct{}

func (alwaysFilter) Name() string { return "filter.always" }
func (alwaysFilter) ShouldFilter(context.Context, *core.RecommendContext, *core.Item) (bool, error) {
	return true, nil
}

func TestFilterNode(t *testing.T) {
	node := &FilterNode{Filters: []Filter{
		&SeenFilter{Seen: map[int64]map[int64]struct{}{1: {10: {}}}},
	}}
	rctx := &core.RecommendContext{UserID: 1, ExcludeSeen: true}

	items := []*core.Item{core.NewItem(10), core.NewItem(20), nil, core.NewItem(30)}
	out, err := node.Process(context.Background(), rctx, items)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 2 || out[0].ID != 20 || out[1].ID != 30 {
		t.Errorf("unexpected output: %v", out)
	}

	node.Filters = append(node.Filters, alwaysFilter{})
	out, _ = node.Process(context.Background(), rctx, items)
	if len(out) != 0 {
		t.Errorf("always-filter should remove everything, got %d items", len(out))
	}
}
