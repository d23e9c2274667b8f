package feature

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/goccy/go-json"
	"golang.org/x/sync/errgroup"

	"github.com/mycontent/recserve/core"
)

// MemoryCatalog 是内存元数据目录，主要用于测试和小数据集。
type MemoryCatalog struct {
	Articles map[int64]core.ArticleMetadata
}

// NewMemoryCatalog 从元数据列表构建内存目录。
func NewMemoryCatalog(articles []core.ArticleMetadata) *MemoryCatalog {
	m := make(map[int64]core.ArticleMetadata, len(articles))
	for _, a := range articles {
		m[a.ArticleID] = a
	}
	return &MemoryCatalog{Articles: m}
}

func (c *MemoryCatalog) Get(_ context.Context, articleID int64) (core.ArticleMetadata, bool, error) {
	meta, ok := c.Articles[articleID]
	return meta, ok, nil
}

func (c *MemoryCatalog) BatchGet(ctx context.Context, articleIDs []int64) (map[int64]core.ArticleMetadata, error) {
	out := make(map[int64]core.ArticleMetadata, len(articleIDs))
	for _, id := range articleIDs {
		if meta, ok, _ := c.Get(ctx, id); ok {
			out[id] = meta
		}
	}
	return out, nil
}

// StoreCatalog 是存储后端的元数据目录，每篇文章是一个 Hash：
// {KeyPrefix}:{article_id} -> JSON 编码的元数据。
// 未命中不是错误，由上层以 metadata_available=false 呈现。
type StoreCatalog struct {
	Store core.KeyValueStore

	// KeyPrefix 默认 "article:meta"
	KeyPrefix string

	// Field 是 Hash 中的字段名，默认 "meta"
	Field string
}

func (c *StoreCatalog) key(articleID int64) string {
	prefix := c.KeyPrefix
	if prefix == "" {
		prefix = "article:meta"
	}
	return fmt.Sprintf("%s:%s", prefix, strconv.FormatInt(articleID, 10))
}

func (c *StoreCatalog) field() string {
	if c.Field == "" {
		return "meta"
	}
	return c.Field
}

func (c *StoreCatalog) Get(ctx context.Context, articleID int64) (core.ArticleMetadata, bool, error) {
	raw, err := c.Store.HGet(ctx, c.key(articleID), c.field())
	if err != nil {
		if core.IsStoreNotFound(err) {
			return core.ArticleMetadata{}, false, nil
		}
		return core.ArticleMetadata{}, false, core.ErrCatalogUnavailable
	}

	var meta core.ArticleMetadata
	if err := json.Unmarshal([]byte(raw), &meta); err != nil {
		// 脏数据按未命中处理，不污染响应
		return core.ArticleMetadata{}, false, nil
	}
	return meta, true, nil
}

// BatchGet 并发拉取各文章的 Hash，限制并发数避免打爆存储。
func (c *StoreCatalog) BatchGet(ctx context.Context, articleIDs []int64) (map[int64]core.ArticleMetadata, error) {
	out := make(map[int64]core.ArticleMetadata, len(articleIDs))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for _, id := range articleIDs {
		id := id
		g.Go(func() error {
			meta, ok, err := c.Get(gctx, id)
			if err != nil {
				return err
			}
			if ok {
				mu.Lock()
				out[id] = meta
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
