package main

import (
	"context"

	"github.com/spf13/pflag"

	"github.com/ceyewan/exprbench/bench"
	"github.com/ceyewan/exprbench/clog"
	"github.com/ceyewan/exprbench/config"
	"github.com/ceyewan/exprbench/metrics"
)

// AppConfig exprbench.yaml 的完整结构
//
//	log:
//	  level: info
//	bench:
//	  containers: [slice, dense, lazy]
//	  sizes: [1000, 10000]
//	  iterations: 500
//	  aggregation: violin
//	metrics:
//	  enabled: true
//	  port: 9090
type AppConfig struct {
	Log     clog.Config    `mapstructure:"log"`
	Bench   bench.Config   `mapstructure:"bench"`
	Metrics metrics.Config `mapstructure:"metrics"`
}

func defaultAppConfig() AppConfig {
	return AppConfig{
		Log:     *clog.DefaultConfig(),
		Bench:   bench.DefaultConfig(),
		Metrics: metrics.DefaultConfig(),
	}
}

// loadApp 按 参数 > 环境变量 > 配置文件 > 默认值 的优先级合并配置
//
// flagKeys 为配置 key 到参数名的映射，不存在于 flags 中的参数会被跳过。
func loadApp(ctx context.Context, configDir string, flags *pflag.FlagSet, flagKeys map[string]string) (AppConfig, config.Loader, error) {
	app := defaultAppConfig()

	var paths []string
	if configDir != "" {
		paths = []string{configDir}
	}
	loader, err := config.New(&config.Config{Paths: paths})
	if err != nil {
		return app, nil, err
	}
	for key, name := range flagKeys {
		if f := flags.Lookup(name); f != nil {
			if err := loader.BindFlag(key, f); err != nil {
				return app, nil, err
			}
		}
	}
	if err := loader.Load(ctx); err != nil {
		return app, nil, err
	}
	if err := loader.Unmarshal(&app); err != nil {
		return app, nil, err
	}
	return app, loader, nil
}

// watchLogLevel 配置文件中的 log.level 变化时调整日志级别
func watchLogLevel(ctx context.Context, loader config.Loader, logger clog.Logger) {
	if loader.ConfigFileUsed() == "" {
		return
	}
	ch, err := loader.Watch(ctx, "log.level")
	if err != nil {
		logger.Warn("watch log level", clog.Error(err))
		return
	}
	for ev := range ch {
		s, _ := ev.Value.(string)
		level, err := clog.ParseLevel(s)
		if err != nil {
			logger.Warn("ignore invalid log level", clog.Any("value", ev.Value))
			continue
		}
		if err := logger.SetLevel(level); err == nil {
			logger.Info("log level changed", clog.String("level", level.String()))
		}
	}
}
