// Package config 为 exprbench 提供统一的配置加载能力，基于 Viper 实现。
//
// 特性：
//   - 多源配置加载：YAML/JSON 文件、环境变量、.env 文件、命令行参数
//   - 配置优先级：命令行参数（显式设置）> 环境变量 > .env > 环境特定配置 > 基础配置 > 参数默认值
//   - 热更新：监听配置文件变化，例如运行期间调整日志级别
//
// 基本使用：
//
//	loader, _ := config.New(&config.Config{Name: "exprbench"})
//	_ = loader.BindFlag("bench.iterations", cmd.Flags().Lookup("iterations"))
//	if err := loader.Load(ctx); err != nil {
//		return err
//	}
//
//	// Unmarshal 基于全部来源合并后的结果；UnmarshalKey 只读取文件中的小节，
//	// 不包含环境变量和命令行参数对子 key 的覆盖
//	app := AppConfig{Bench: bench.DefaultConfig()}
//	if err := loader.Unmarshal(&app); err != nil {
//		return err
//	}
//
//	// 监听配置变化
//	ch, _ := loader.Watch(ctx, "log.level")
//	for event := range ch {
//		fmt.Printf("配置变化: %s = %v\n", event.Key, event.Value)
//	}
//
// 计时组件是否编译进二进制由构建标签决定，不属于运行期配置。
package config

import (
	"context"
	"time"

	"github.com/spf13/pflag"
)

// Loader 定义配置加载器的核心行为
type Loader interface {
	// Load 加载配置并初始化内部状态
	Load(ctx context.Context) error

	// BindFlag 将命令行参数绑定到配置 key，应在 Load 之前调用
	BindFlag(key string, flag *pflag.Flag) error

	// Get 获取原始配置值
	Get(key string) any

	// Unmarshal 将整个配置反序列化到结构体
	Unmarshal(v any) error

	// UnmarshalKey 将指定 Key 的配置反序列化到结构体
	UnmarshalKey(key string, v any) error

	// Watch 监听配置变化，通过 context 取消监听
	Watch(ctx context.Context, key string) (<-chan Event, error)

	// Validate 验证当前配置的有效性
	Validate() error

	// ConfigFileUsed 返回实际读取的配置文件，未找到时为空
	ConfigFileUsed() string
}

// Event 配置变更事件
type Event struct {
	Key       string
	Value     any
	OldValue  any
	Source    string // "file"
	Timestamp time.Time
}
