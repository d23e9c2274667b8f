package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Config 是进程级配置，来自 YAML 配置文件与环境变量。
type Config struct {
	LogLevel string `mapstructure:"log_level"`

	HTTP struct {
		Addr string `mapstructure:"addr"`
	} `mapstructure:"http"`

	Redis struct {
		Addr string `mapstructure:"addr"`
		DB   int    `mapstructure:"db"`
	} `mapstructure:"redis"`

	Snapshot struct {
		// Backend: file / minio
		Backend string `mapstructure:"backend"`
		Dir     string `mapstructure:"dir"`
		MinIO   struct {
			Endpoint        string `mapstructure:"endpoint"`
			AccessKeyID     string `mapstructure:"access_key_id"`
			SecretAccessKey string `mapstructure:"secret_access_key"`
			Bucket          string `mapstructure:"bucket"`
			Region          string `mapstructure:"region"`
			UseSSL          bool   `mapstructure:"use_ssl"`
		} `mapstructure:"minio"`
	} `mapstructure:"snapshot"`

	Catalog struct {
		// Backend: store / feast
		Backend string `mapstructure:"backend"`
		Feast   struct {
			Host    string `mapstructure:"host"`
			Port    int    `mapstructure:"port"`
			Project string `mapstructure:"project"`
		} `mapstructure:"feast"`
	} `mapstructure:"catalog"`

	Training struct {
		MinActivity float64 `mapstructure:"min_activity"`
		WindowDays  int     `mapstructure:"window_days"`
	} `mapstructure:"training"`

	Serving struct {
		RuleExpr string `mapstructure:"rule_expr"`
	} `mapstructure:"serving"`
}

func newRootCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:           "recserve",
		Short:         "文章推荐服务：隐因子召回 + 热门 fallback",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "recserve.yaml", "配置文件路径")

	cmd.AddCommand(newTrainCommand(&configPath))
	cmd.AddCommand(newServeCommand(&configPath))
	return cmd
}

func loadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix("RECSERVE")
	v.AutomaticEnv()

	v.SetDefault("log_level", "info")
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("snapshot.backend", "file")
	v.SetDefault("snapshot.dir", "./data")
	v.SetDefault("catalog.backend", "store")
	v.SetDefault("training.window_days", 30)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}

func newLogger(level string) (*zap.Logger, error) {
	zapCfg := zap.NewProductionConfig()
	if err := zapCfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return zapCfg.Build()
}
