package config

import (
	"github.com/mycontent/recserve/core"
	"github.com/mycontent/recserve/feature"
	"github.com/mycontent/recserve/filter"
	"github.com/mycontent/recserve/pipeline"
	"github.com/mycontent/recserve/pkg/conv"
	"github.com/mycontent/recserve/recall"
	"github.com/mycontent/recserve/rerank"
)

// Runtime 是 Node 构建所需的运行期依赖。
// YAML 只描述链路结构与参数，状态对象（生成器、已读集、目录）
// 由快照加载后注入。
type Runtime struct {
	Generator *recall.Generator
	Seen      map[int64]map[int64]struct{}
	Catalog   core.MetadataCatalog
}

// DefaultFactory 返回一个包含所有内置 Node 的默认工厂。
func DefaultFactory(rt *Runtime) *pipeline.NodeFactory {
	factory := pipeline.NewNodeFactory()

	factory.Register("recall.candidates", func(map[string]any) (pipeline.Node, error) {
		return &recall.CandidateNode{Generator: rt.Generator}, nil
	})

	factory.Register("filter.seen", func(map[string]any) (pipeline.Node, error) {
		return &filter.FilterNode{Filters: []filter.Filter{
			&filter.SeenFilter{Seen: rt.Seen},
		}}, nil
	})

	factory.Register("filter.rule", func(config map[string]any) (pipeline.Node, error) {
		return &filter.FilterNode{Filters: []filter.Filter{
			&filter.RuleFilter{Expr: conv.ConfigGet[string](config, "expr", "")},
		}}, nil
	})

	factory.Register("rerank.topn", func(config map[string]any) (pipeline.Node, error) {
		return &rerank.TopNNode{N: int(conv.ConfigGetInt64(config, "n", 0))}, nil
	})

	factory.Register("feature.enrich", func(map[string]any) (pipeline.Node, error) {
		return &feature.EnrichNode{Catalog: rt.Catalog}, nil
	})

	return factory
}
