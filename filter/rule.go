package filter

import (
	"context"

	"github.com/mycontent/recserve/core"
	"github.com/mycontent/recserve/pkg/dsl"
)

// RuleFilter 是规则过滤器，使用 CEL 表达式判断是否保留物品。
// 表达式为真时保留，为假时过滤。表达式求值失败时保留物品，
// 规则配置错误不应该击穿整条推荐链路。
type RuleFilter struct {
	// Expr 是 CEL 表达式，例如 `item.meta.category_id != 0`
	Expr string
}

func (f *RuleFilter) Name() string {
	return "filter.rule"
}

func (f *RuleFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil {
		return true, nil
	}
	if f.Expr == "" {
		return false, nil
	}

	keep, err := dsl.NewEval(item, rctx).Evaluate(f.Expr)
	if err != nil {
		return false, err
	}
	return !keep, nil
}
