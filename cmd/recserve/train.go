package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mycontent/recserve/model"
	"github.com/mycontent/recserve/snapshot"
	"github.com/mycontent/recserve/store"
	"github.com/mycontent/recserve/train"
)

func newTrainCommand(configPath *string) *cobra.Command {
	var (
		factors        int
		iterations     int
		regularization float64
		alpha          float64
	)

	cmd := &cobra.Command{
		Use:   "train",
		Short: "从点击日志训练模型并发布快照",
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

			return runTrain(cmd.Context(), cfg, logger, factors, iterations, regularization, alpha)
		},
	}

	cmd.Flags().IntVar(&factors, "factors", 100, "隐因子维数")
	cmd.Flags().IntVar(&iterations, "iterations", 15, "交替最小二乘迭代轮数")
	cmd.Flags().Float64Var(&regularization, "regularization", 0.01, "正则系数")
	cmd.Flags().Float64Var(&alpha, "alpha", 40, "置信度缩放系数")
	return cmd
}

func runTrain(ctx context.Context, cfg *Config, logger *zap.Logger, factors, iterations int, regularization, alpha float64) error {
	kv, err := store.NewRedisStore(cfg.Redis.Addr, cfg.Redis.DB)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	defer kv.Close()

	to := time.Now().UTC()
	from := to.AddDate(0, 0, -cfg.Training.WindowDays)
	source := &train.StoreSource{Store: kv}

	events, err := source.Events(ctx, from, to)
	if err != nil {
		return fmt.Errorf("read click events: %w", err)
	}
	logger.Info("点击日志读取完成",
		zap.Int("events", len(events)),
		zap.Time("from", from),
		zap.Time("to", to))
	if len(events) == 0 {
		return fmt.Errorf("no click events in window [%s, %s)", from.Format("2006-01-02"), to.Format("2006-01-02"))
	}

	interactions := train.Aggregate(events)
	ds := train.Build(interactions, train.BuildOptions{MinActivity: cfg.Training.MinActivity})
	logger.Info("训练矩阵构建完成",
		zap.Int("users", ds.Index.Users()),
		zap.Int("items", ds.Index.Items()))

	oracle := model.NewALS(factors, iterations, regularization, alpha)
	start := time.Now()
	if err := oracle.Fit(ctx, ds.ItemUser); err != nil {
		return fmt.Errorf("fit model: %w", err)
	}
	logger.Info("模型训练完成", zap.Duration("elapsed", time.Since(start)))

	snap := snapshot.Build(ds, oracle)
	blobs, err := newBlobStore(ctx, cfg)
	if err != nil {
		return err
	}
	snapStore := &snapshot.Store{Blobs: blobs}
	if err := snapStore.Save(ctx, snap); err != nil {
		return fmt.Errorf("publish snapshot: %w", err)
	}

	logger.Info("快照已发布",
		zap.String("backend", cfg.Snapshot.Backend),
		zap.Time("created_at", snap.CreatedAt))
	return nil
}

func newBlobStore(ctx context.Context, cfg *Config) (snapshot.BlobStore, error) {
	switch cfg.Snapshot.Backend {
	case "", "file":
		return &snapshot.FileStore{Dir: cfg.Snapshot.Dir}, nil
	case "minio":
		m := cfg.Snapshot.MinIO
		return snapshot.NewMinIOStore(ctx, snapshot.MinIOConfig{
			Endpoint:        m.Endpoint,
			AccessKeyID:     m.AccessKeyID,
			SecretAccessKey: m.SecretAccessKey,
			Bucket:          m.Bucket,
			Region:          m.Region,
			UseSSL:          m.UseSSL,
		})
	default:
		return nil, fmt.Errorf("unknown snapshot backend: %s", cfg.Snapshot.Backend)
	}
}
