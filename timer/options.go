package timer

import (
	"time"

	"github.com/ceyewan/exprbench/clog"
)

// Option 配置 Registry 的选项函数类型
type Option func(*options)

type options struct {
	clock  Clock
	logger clog.Logger
}

// WithClock 注入时钟，主要用于测试中模拟耗时
//
// 时钟必须单调，否则计算出的耗时可能为负数。nil 会被忽略。
func WithClock(clock Clock) Option {
	return func(o *options) {
		if clock != nil {
			o.clock = clock
		}
	}
}

// WithLogger 注入日志记录器，组件会自动添加 "timer" 命名空间
//
// 计时路径上从不写日志，只有 Clear 等低频操作会输出 debug 日志。
func WithLogger(logger clog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger.WithNamespace("timer")
		}
	}
}

func applyOptions(opts ...Option) *options {
	o := &options{
		clock:  time.Now,
		logger: clog.Discard(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}
