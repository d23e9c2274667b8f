package core

import "context"

// ArticleMetadata 是文章目录中的一条描述性记录。
// 目录由外部系统拥有，本仓库只读，用于候选结果的富化。
type ArticleMetadata struct {
	ArticleID   int64 `json:"article_id"`
	CategoryID  int64 `json:"category_id"`
	PublisherID int64 `json:"publisher_id"`
	WordsCount  int64 `json:"words_count"`
	// CreatedAtTS 是毫秒时间戳（与上游点击日志保持一致）。
	CreatedAtTS int64 `json:"created_at_ts"`
}

// MetadataCatalog 是文章元数据目录的领域接口。
//
// 实现：
//   - feature.MemoryCatalog（内存，训练产物/测试）
//   - feature.StoreCatalog（KeyValueStore Hash 后端）
//   - feast.Catalog（Feast 在线特征库后端）
type MetadataCatalog interface {
	// Get 查询单篇文章的元数据。
	// 不存在返回 (zero, false, nil)：缺失元数据是常规分支，不是错误。
	Get(ctx context.Context, articleID int64) (ArticleMetadata, bool, error)

	// BatchGet 批量查询，结果只包含命中的文章。
	BatchGet(ctx context.Context, articleIDs []int64) (map[int64]ArticleMetadata, error)
}

// 元数据相关错误
var (
	// ErrCatalogUnavailable 表示目录后端不可达（区别于单条缺失）
	ErrCatalogUnavailable = NewDomainError(ModuleMetadata, ErrorCodeUnavailable, "metadata: catalog unavailable")
)
