package feast

import (
	"context"

	"github.com/mycontent/recserve/core"
)

// 文章元数据在 Feature Store 中的特征名
const (
	FeatureCategoryID  = "article_stats:category_id"
	FeaturePublisherID = "article_stats:publisher_id"
	FeatureWordsCount  = "article_stats:words_count"
	FeatureCreatedAtTS = "article_stats:created_at_ts"
)

// EntityArticleID 实体键
const EntityArticleID = "article_id"

// Catalog 用 Feature Store 在线特征实现元数据目录。
// 特征缺失（冷启动文章、过期视图）按未命中处理，不报错。
type Catalog struct {
	Client Client

	// Project 覆盖客户端默认项目（可选）
	Project string
}

var _ core.MetadataCatalog = (*Catalog)(nil)

func (c *Catalog) Get(ctx context.Context, articleID int64) (core.ArticleMetadata, bool, error) {
	metas, err := c.BatchGet(ctx, []int64{articleID})
	if err != nil {
		return core.ArticleMetadata{}, false, err
	}
	meta, ok := metas[articleID]
	return meta, ok, nil
}

func (c *Catalog) BatchGet(ctx context.Context, articleIDs []int64) (map[int64]core.ArticleMetadata, error) {
	if len(articleIDs) == 0 {
		return map[int64]core.ArticleMetadata{}, nil
	}

	rows := make([]map[string]interface{}, len(articleIDs))
	for i, id := range articleIDs {
		rows[i] = map[string]interface{}{EntityArticleID: id}
	}

	resp, err := c.Client.GetOnlineFeatures(ctx, &GetOnlineFeaturesRequest{
		Features: []string{
			FeatureCategoryID,
			FeaturePublisherID,
			FeatureWordsCount,
			FeatureCreatedAtTS,
		},
		EntityRows: rows,
		Project:    c.Project,
	})
	if err != nil {
		return nil, core.ErrCatalogUnavailable
	}

	out := make(map[int64]core.ArticleMetadata, len(articleIDs))
	for i, fv := range resp.FeatureVectors {
		if i >= len(articleIDs) {
			break
		}
		category, ok := asInt64(fv.Values[FeatureCategoryID])
		if !ok {
			// 分类缺失视为整条元数据缺失
			continue
		}
		meta := core.ArticleMetadata{
			ArticleID:  articleIDs[i],
			CategoryID: category,
		}
		if v, ok := asInt64(fv.Values[FeaturePublisherID]); ok {
			meta.PublisherID = v
		}
		if v, ok := asInt64(fv.Values[FeatureWordsCount]); ok {
			meta.WordsCount = v
		}
		if v, ok := asInt64(fv.Values[FeatureCreatedAtTS]); ok {
			meta.CreatedAtTS = v
		}
		out[articleIDs[i]] = meta
	}
	return out, nil
}

func asInt64(v interface{}) (int64, bool) {
	switch val := v.(type) {
	case float64:
		return int64(val), true
	case int64:
		return val, true
	case int:
		return int64(val), true
	default:
		return 0, false
	}
}
