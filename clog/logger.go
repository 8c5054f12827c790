// Package clog 为 exprbench 提供基于 slog 的结构化日志组件。
//
// 特性：
//   - 抽象接口，不暴露底层实现（slog）
//   - 层级命名空间，每个组件通过 WithNamespace 标识自己
//   - 运行期可调整日志级别
//   - 函数式选项模式
//
// 基本使用：
//
//	logger, _ := clog.New(&clog.Config{
//	    Level:  "info",
//	    Format: "console",
//	    Output: "stderr",
//	})
//	logger.Info("suite finished", clog.String("container", "dense"), clog.Int("sizes", 10))
//
// 计时组件、指标发布器和基准驱动都通过 WithLogger 选项接收 Logger，
// 未注入时使用 Discard()。
package clog

import "context"

// Logger 日志接口
//
// 支持四个级别：Debug、Info、Warn、Error，每个级别都有带 Context 的版本。
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)

	DebugContext(ctx context.Context, msg string, fields ...Field)
	InfoContext(ctx context.Context, msg string, fields ...Field)
	WarnContext(ctx context.Context, msg string, fields ...Field)
	ErrorContext(ctx context.Context, msg string, fields ...Field)

	// With 创建一个带有预设字段的子 Logger
	With(fields ...Field) Logger

	// WithNamespace 创建一个扩展命名空间的子 Logger
	//
	// 示例：
	//   logger.WithNamespace("bench").WithNamespace("dense")
	//   // 最终命名空间为 "bench.dense"
	WithNamespace(parts ...string) Logger

	// SetLevel 动态调整日志级别，对共享同一 handler 的子 Logger 同时生效
	SetLevel(level Level) error

	// Flush 强制同步缓冲区
	Flush()
}
