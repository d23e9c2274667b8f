package filter

import (
	"context"

	"github.com/mycontent/recserve/core"
)

// SeenFilter 过滤用户已经读过的文章。
// 已读集来自训练数据的全量口径，低活用户也有已读集。
// 仅在请求显式要求排除已读（rctx.ExcludeSeen）时生效。
type SeenFilter struct {
	// Seen 是 用户 ID -> 已读文章 ID 集合
	Seen map[int64]map[int64]struct{}
}

func (f *SeenFilter) Name() string {
	return "filter.seen"
}

func (f *SeenFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil {
		return true, nil
	}
	if rctx == nil || !rctx.ExcludeSeen {
		return false, nil
	}
	seen, ok := f.Seen[rctx.UserID]
	if !ok {
		return false, nil
	}
	_, hit := seen[item.ID]
	return hit, nil
}
