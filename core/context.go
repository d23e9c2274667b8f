package core

import "github.com/mycontent/recserve/pkg/utils"

// RecommendContext 承载一次推荐请求的全部输入，贯穿整个 Pipeline 透传。
// 核心语义：UserID 是外部用户 ID（非矩阵下标）；N 由调用方裁剪到 [1,50]，
// 链路内部不再二次裁剪。
type RecommendContext struct {
	UserID      int64
	N           int
	ExcludeSeen bool

	// Labels 是请求级标签，可驱动整个 Pipeline 行为，
	// 例如 fallback 原因、新用户标记等。
	Labels map[string]utils.Label

	// Params 请求级上下文参数（规则过滤表达式、调试开关等）。
	Params map[string]any
}

// PutLabel 写入请求级 Label。
func (rctx *RecommendContext) PutLabel(key string, lbl utils.Label) {
	if rctx.Labels == nil {
		rctx.Labels = make(map[string]utils.Label)
	}
	if old, ok := rctx.Labels[key]; ok {
		rctx.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	rctx.Labels[key] = lbl
}

// GetLabel 获取请求级 Label。
func (rctx *RecommendContext) GetLabel(key string) (utils.Label, bool) {
	if rctx.Labels == nil {
		return utils.Label{}, false
	}
	lbl, ok := rctx.Labels[key]
	return lbl, ok
}
