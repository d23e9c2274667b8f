// Package recserve 是一个文章推荐服务引擎。
//
// 设计要点：
// - 离线训练 / 在线服务分离：训练产出不可变快照，服务侧一次性加载后只读
// - Pipeline-first: 服务链路通过 Node 串联（Recall → Filter → ReRank → PostProcess）
// - 降级优先于报错：未知用户走热门 fallback，元数据缺失按未命中处理
package recserve

import "github.com/mycontent/recserve/pipeline"

// 轻量 facade：便于直接 import 根包使用核心抽象。
type Pipeline = pipeline.Pipeline
type Node = pipeline.Node
type Kind = pipeline.Kind

const (
	KindRecall      = pipeline.KindRecall
	KindFilter      = pipeline.KindFilter
	KindReRank      = pipeline.KindReRank
	KindPostProcess = pipeline.KindPostProcess
)
