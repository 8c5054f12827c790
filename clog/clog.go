package clog

import "github.com/ceyewan/exprbench/xerrors"

// New 创建一个新的 Logger 实例
//
// config 为 nil 时使用 DefaultConfig()。
func New(config *Config, opts ...Option) (Logger, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.validate(); err != nil {
		return nil, xerrors.Wrap(xerrors.WithCode(err, xerrors.CodeInvalidConfig), "invalid log config")
	}
	return newLogger(config, applyOptions(opts...))
}

// Must 类似 New，但出错时 panic，仅用于初始化阶段
func Must(config *Config, opts ...Option) Logger {
	return xerrors.Must(New(config, opts...))
}
