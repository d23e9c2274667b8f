package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mycontent/recserve/core"
	"github.com/mycontent/recserve/feast"
	"github.com/mycontent/recserve/feature"
	"github.com/mycontent/recserve/metrics"
	"github.com/mycontent/recserve/service"
	"github.com/mycontent/recserve/serving"
	"github.com/mycontent/recserve/sink"
	"github.com/mycontent/recserve/snapshot"
	"github.com/mycontent/recserve/store"
)

func newServeCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "启动推荐 HTTP 服务",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			logger, err := newLogger(cfg.LogLevel)
			if err != nil {
				return err
			}
			defer logger.Sync()

			return runServe(cmd.Context(), cfg, logger)
		},
	}
}

func runServe(ctx context.Context, cfg *Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	kv, err := store.NewRedisStore(cfg.Redis.Addr, cfg.Redis.DB)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	defer kv.Close()

	catalog, err := newCatalog(cfg, kv)
	if err != nil {
		return err
	}

	blobs, err := newBlobStore(ctx, cfg)
	if err != nil {
		return err
	}
	cache := &serving.Cache{
		Loader:   &snapshot.Store{Blobs: blobs},
		Catalog:  catalog,
		Logger:   logger,
		RuleExpr: cfg.Serving.RuleExpr,
	}
	// 启动时尝试预热，失败不致命：快照可能尚未发布，请求期会拒绝并等待重试。
	if err := cache.Load(ctx); err != nil {
		logger.Warn("模型快照预热失败，服务以未加载态启动", zap.Error(err))
	}

	srv := &service.Server{
		Cache:   cache,
		Sink:    &sink.StoreSink{Store: kv},
		Metrics: metrics.New(nil),
		Logger:  logger,
	}

	httpSrv := &http.Server{
		Addr:    cfg.HTTP.Addr,
		Handler: srv.Router(),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP 服务启动", zap.String("addr", cfg.HTTP.Addr))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("收到退出信号，开始优雅关闭")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpSrv.Shutdown(shutdownCtx)
}

func newCatalog(cfg *Config, kv core.KeyValueStore) (core.MetadataCatalog, error) {
	switch cfg.Catalog.Backend {
	case "", "store":
		return &feature.StoreCatalog{Store: kv}, nil
	case "feast":
		f := cfg.Catalog.Feast
		client, err := feast.NewGrpcClient(f.Host, f.Port, f.Project)
		if err != nil {
			return nil, fmt.Errorf("connect feast: %w", err)
		}
		return &feast.Catalog{Client: client}, nil
	default:
		return nil, fmt.Errorf("unknown catalog backend: %s", cfg.Catalog.Backend)
	}
}
