package feature

import (
	"context"
	"time"

	"github.com/mycontent/recserve/core"
	"github.com/mycontent/recserve/pipeline"
)

// EnrichedItem 是补全元数据后的推荐条目。
// 元数据缺失时只保留 article_id 与 metadata_available=false，
// 绝不编造占位字段。
type EnrichedItem struct {
	ArticleID         int64   `json:"article_id"`
	Score             float64 `json:"score"`
	MetadataAvailable bool    `json:"metadata_available"`

	CategoryID  int64  `json:"category_id,omitempty"`
	PublisherID int64  `json:"publisher_id,omitempty"`
	WordsCount  int64  `json:"words_count,omitempty"`
	CreatedAt   string `json:"created_at,omitempty"`
}

// Enricher 用元数据目录补全推荐条目。
// 目录未命中不是错误：条目保留，仅标记 metadata_available=false。
type Enricher struct {
	Catalog core.MetadataCatalog
}

// Enrich 批量补全。输入顺序原样保留。
func (e *Enricher) Enrich(ctx context.Context, items []*core.Item) ([]EnrichedItem, error) {
	ids := make([]int64, 0, len(items))
	for _, it := range items {
		if it != nil {
			ids = append(ids, it.ID)
		}
	}

	var metas map[int64]core.ArticleMetadata
	if e.Catalog != nil && len(ids) > 0 {
		var err error
		metas, err = e.Catalog.BatchGet(ctx, ids)
		if err != nil {
			return nil, err
		}
	}

	out := make([]EnrichedItem, 0, len(items))
	for _, it := range items {
		if it == nil {
			continue
		}
		enriched := EnrichedItem{ArticleID: it.ID, Score: it.Score}
		if meta, ok := metas[it.ID]; ok {
			enriched.MetadataAvailable = true
			enriched.CategoryID = meta.CategoryID
			enriched.PublisherID = meta.PublisherID
			enriched.WordsCount = meta.WordsCount
			enriched.CreatedAt = FormatCreatedAt(meta.CreatedAtTS)
		}
		out = append(out, enriched)
	}
	return out, nil
}

// FormatCreatedAt 将毫秒时间戳格式化为日期字符串。
// 时间戳非法（<=0）时返回空串。
func FormatCreatedAt(ts int64) string {
	if ts <= 0 {
		return ""
	}
	return time.UnixMilli(ts).UTC().Format("2006-01-02")
}

// EnrichNode 是元数据注入节点，把目录中的字段写进 item.Meta，
// 供下游规则过滤和响应组装使用。
type EnrichNode struct {
	Catalog core.MetadataCatalog
}

func (n *EnrichNode) Name() string {
	return "feature.enrich"
}

func (n *EnrichNode) Kind() pipeline.Kind {
	return pipeline.KindPostProcess
}

func (n *EnrichNode) Process(
	ctx context.Context,
	_ *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if n.Catalog == nil || len(items) == 0 {
		return items, nil
	}

	ids := make([]int64, 0, len(items))
	for _, it := range items {
		if it != nil {
			ids = append(ids, it.ID)
		}
	}
	metas, err := n.Catalog.BatchGet(ctx, ids)
	if err != nil {
		// 目录不可用时原样透传，推荐主链路不被元数据拖垮
		return items, nil
	}

	for _, it := range items {
		if it == nil {
			continue
		}
		meta, ok := metas[it.ID]
		it.Meta["metadata_available"] = ok
		if !ok {
			continue
		}
		it.Meta["category_id"] = meta.CategoryID
		it.Meta["publisher_id"] = meta.PublisherID
		it.Meta["words_count"] = meta.WordsCount
		it.Meta["created_at"] = FormatCreatedAt(meta.CreatedAtTS)
	}
	return items, nil
}
