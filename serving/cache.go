package serving

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/mycontent/recserve/core"
	"github.com/mycontent/recserve/snapshot"
)

// SnapshotLoader 是快照来源，生产实现为 *snapshot.Store。
type SnapshotLoader interface {
	Load(ctx context.Context) (*snapshot.Snapshot, error)
}

// Cache 是服务侧的模型缓存，两态：未加载 / 已加载。
//
// 语义：
//   - Load 幂等：已加载后再调用直接返回，底层存储不会被重复读取
//   - 加载失败保持未加载态，后续调用可重试
//   - 未加载时 Engine() 返回 ErrModelUnavailable，调用方拒绝服务
type Cache struct {
	Loader  SnapshotLoader
	Catalog core.MetadataCatalog
	Logger  *zap.Logger

	// RuleExpr 可选的规则过滤表达式，透传给引擎
	RuleExpr string

	mu        sync.Mutex
	engine    *Engine
	loadCount int
}

// Load 加载快照并构建服务引擎。重复调用是空操作。
func (c *Cache) Load(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.engine != nil {
		return nil
	}
	c.loadCount++

	snap, err := c.Loader.Load(ctx)
	if err != nil {
		if c.Logger != nil {
			c.Logger.Error("snapshot load failed, cache stays unloaded", zap.Error(err))
		}
		return err
	}

	engine := NewEngine(snap, c.Catalog, c.Logger, c.RuleExpr)
	c.engine = engine

	if c.Logger != nil {
		c.Logger.Info("model snapshot loaded",
			zap.Int("users", len(snap.Index.IndexToUser)),
			zap.Int("items", len(snap.Index.IndexToItem)),
			zap.Time("created_at", snap.CreatedAt),
		)
	}
	return nil
}

// Engine 返回已加载的服务引擎，未加载时返回 ErrModelUnavailable。
func (c *Cache) Engine() (*Engine, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.engine == nil {
		return nil, core.ErrModelUnavailable
	}
	return c.engine, nil
}

// Loaded 返回缓存是否已加载。
func (c *Cache) Loaded() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.engine != nil
}

// LoadCount 返回实际触发底层加载的次数（观测幂等性用）。
func (c *Cache) LoadCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loadCount
}
