package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/ceyewan/exprbench/clog"
	"github.com/ceyewan/exprbench/xerrors"
)

// loader 实现 Loader 接口
type loader struct {
	v         *viper.Viper
	cfg       *Config
	logger    clog.Logger
	fileUsed  string
	mu        sync.RWMutex
	watches   map[string][]chan Event
	oldValues map[string]any
}

func newLoader(cfg *Config, logger clog.Logger) *loader {
	return &loader{
		v:         viper.New(),
		cfg:       cfg,
		logger:    logger,
		watches:   make(map[string][]chan Event),
		oldValues: make(map[string]any),
	}
}

// Load 初始化并从所有来源加载配置
func (l *loader) Load(ctx context.Context) error {
	l.v.SetConfigName(l.cfg.Name)
	l.v.SetConfigType(l.cfg.FileType)
	for _, path := range l.cfg.Paths {
		l.v.AddConfigPath(path)
	}

	// 环境变量：bench.iterations -> EXPRBENCH_BENCH_ITERATIONS
	l.v.SetEnvPrefix(l.cfg.EnvPrefix)
	l.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	l.v.AutomaticEnv()

	// .env 写入进程环境变量，不覆盖已存在的变量
	if err := l.loadDotEnv(); err != nil {
		l.logger.DebugContext(ctx, "no .env file loaded", clog.Error(err))
	}

	fileFound := true
	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return xerrors.WithCode(xerrors.Wrapf(err, "failed to read config file %s", l.cfg.Name), xerrors.CodeInvalidConfig)
		}
		fileFound = false
		l.logger.InfoContext(ctx, "no configuration file found, using flags and environment",
			clog.String("name", l.cfg.Name), clog.Any("paths", l.cfg.Paths))
	}
	l.fileUsed = l.v.ConfigFileUsed()

	if err := l.loadEnvironmentConfig(ctx); err != nil {
		return err
	}

	if err := l.Validate(); err != nil {
		return err
	}

	l.captureCurrentValues()

	if fileFound {
		l.logger.InfoContext(ctx, "configuration loaded", clog.String("file", l.fileUsed))
		l.v.OnConfigChange(func(e fsnotify.Event) {
			if err := l.loadEnvironmentConfig(context.Background()); err != nil {
				l.logger.Warn("reload environment config failed", clog.Error(err))
			}
			l.notifyWatches(e)
		})
		l.v.WatchConfig()
	}
	return nil
}

// loadDotEnv 依次尝试当前目录和每个搜索路径下的 .env
func (l *loader) loadDotEnv() error {
	var envLoaded bool
	var lastErr error

	if err := godotenv.Load(); err == nil {
		envLoaded = true
	} else {
		lastErr = err
	}

	for _, path := range l.cfg.Paths {
		if err := godotenv.Load(filepath.Join(path, ".env")); err == nil {
			envLoaded = true
		} else {
			lastErr = err
		}
	}

	if !envLoaded && lastErr != nil {
		return lastErr
	}
	return nil
}

// loadEnvironmentConfig 合并 <name>.<PREFIX_ENV> 环境特定配置
func (l *loader) loadEnvironmentConfig(ctx context.Context) error {
	env := os.Getenv(fmt.Sprintf("%s_ENV", l.cfg.EnvPrefix))
	if env == "" {
		return nil
	}

	envConfigName := fmt.Sprintf("%s.%s", l.cfg.Name, env)
	l.v.SetConfigName(envConfigName)
	defer l.v.SetConfigName(l.cfg.Name)

	if err := l.v.MergeInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return xerrors.WithCode(xerrors.Wrapf(err, "failed to merge environment config %s", envConfigName), xerrors.CodeInvalidConfig)
		}
		l.logger.InfoContext(ctx, "no environment configuration file found", clog.String("env", env))
		return nil
	}
	l.logger.InfoContext(ctx, "loaded environment configuration", clog.String("env", env))
	return nil
}

// BindFlag 将命令行参数绑定到配置 key
//
// 参数只有被显式设置时才覆盖配置文件和环境变量，否则其默认值作为最低优先级的默认值。
func (l *loader) BindFlag(key string, flag *pflag.Flag) error {
	if flag == nil {
		return xerrors.Wrapf(xerrors.ErrNotFound, "flag for key %q", key)
	}
	return l.v.BindPFlag(key, flag)
}

func (l *loader) captureCurrentValues() {
	l.mu.Lock()
	defer l.mu.Unlock()

	for key := range l.watches {
		l.oldValues[key] = l.v.Get(key)
	}
}

func (l *loader) Get(key string) any {
	return l.v.Get(key)
}

func (l *loader) Unmarshal(v any) error {
	if err := l.v.Unmarshal(v); err != nil {
		return xerrors.WithCode(xerrors.Wrap(err, "unmarshal config"), xerrors.CodeInvalidConfig)
	}
	return nil
}

func (l *loader) UnmarshalKey(key string, v any) error {
	if err := l.v.UnmarshalKey(key, v); err != nil {
		return xerrors.WithCode(xerrors.Wrapf(err, "unmarshal config key %s", key), xerrors.CodeInvalidConfig)
	}
	return nil
}

func (l *loader) ConfigFileUsed() string {
	return l.fileUsed
}

// Watch 订阅特定配置 key 的变更，ctx 结束后通道被关闭
func (l *loader) Watch(ctx context.Context, key string) (<-chan Event, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	ch := make(chan Event, 10)
	l.watches[key] = append(l.watches[key], ch)
	l.oldValues[key] = l.v.Get(key)

	go func() {
		<-ctx.Done()
		l.removeWatch(key, ch)
	}()

	return ch, nil
}

func (l *loader) removeWatch(key string, ch chan Event) {
	l.mu.Lock()
	defer l.mu.Unlock()

	chans := l.watches[key]
	for i, c := range chans {
		if c == ch {
			l.watches[key] = append(chans[:i], chans[i+1:]...)
			break
		}
	}
	if len(l.watches[key]) == 0 {
		delete(l.watches, key)
		delete(l.oldValues, key)
	}
	close(ch)
}

// Validate 配置文件、环境变量和命令行参数都为空时返回错误
func (l *loader) Validate() error {
	if len(l.v.AllSettings()) == 0 {
		return xerrors.WithCode(xerrors.Wrap(xerrors.ErrInvalidConfig, "configuration is empty"), xerrors.CodeInvalidConfig)
	}
	return nil
}

func (l *loader) notifyWatches(_ fsnotify.Event) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for key, channels := range l.watches {
		newValue := l.v.Get(key)
		oldValue := l.oldValues[key]
		if reflect.DeepEqual(oldValue, newValue) {
			continue
		}

		event := Event{
			Key:       key,
			Value:     newValue,
			OldValue:  oldValue,
			Source:    "file",
			Timestamp: time.Now(),
		}
		l.oldValues[key] = newValue

		for _, ch := range channels {
			select {
			case ch <- event:
			default:
				l.logger.Warn("watch channel is full, event dropped", clog.String("key", key))
			}
		}
	}
}
