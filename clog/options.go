package clog

import "bytes"

// NamespaceKey 日志中命名空间的字段名
const NamespaceKey = "namespace"

// Option 函数式选项，用于配置 Logger 实例
type Option func(*options)

type options struct {
	namespaceParts []string
	buffer         *bytes.Buffer // Output 为 "buffer" 时的写入目标，测试用
}

// WithNamespace 设置日志命名空间，多级命名空间以 "." 连接
func WithNamespace(parts ...string) Option {
	return func(o *options) {
		o.namespaceParts = append(o.namespaceParts, parts...)
	}
}

// WithBuffer 将日志写入 buf，需要配合 Output: "buffer" 使用
func WithBuffer(buf *bytes.Buffer) Option {
	return func(o *options) {
		o.buffer = buf
	}
}

func applyOptions(opts ...Option) *options {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}
