// Package xerrors 提供 exprbench 统一的错误处理工具。
//
// 各组件通过 Wrap/Wrapf 为错误补充上下文，用哨兵错误表达可判定的失败类别，
// 需要机器可读分类时用 WithCode 附加错误码。计时组件本身没有错误路径。
package xerrors

import (
	"errors"
	"fmt"
)

// 哨兵错误
var (
	// ErrInvalidConfig 配置缺失或取值非法
	ErrInvalidConfig = errors.New("invalid config")
	// ErrUnknownContainer 未知的容器类型
	ErrUnknownContainer = errors.New("unknown container")
	// ErrUnknownFormula 未知的公式名称
	ErrUnknownFormula = errors.New("unknown formula")
	// ErrSizeMismatch 参与运算的向量长度不一致
	ErrSizeMismatch = errors.New("vector size mismatch")
	// ErrNotFound 配置文件等资源不存在
	ErrNotFound = errors.New("not found")
)

// 错误码
const (
	CodeInvalidConfig = "INVALID_CONFIG"
	CodeBenchFailed   = "BENCH_FAILED"
	CodeExportFailed  = "EXPORT_FAILED"
)

// Wrap 用上下文信息包装错误，保留错误链
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// Wrapf 用格式化的上下文信息包装错误
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// WithCode 用错误码包装错误
func WithCode(err error, code string) error {
	if err == nil {
		return nil
	}
	return &CodedError{Code: code, Cause: err}
}

// CodedError 带有机器可读错误码的错误
type CodedError struct {
	Code  string
	Cause error
}

func (e *CodedError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %v", e.Code, e.Cause)
	}
	return fmt.Sprintf("[%s]", e.Code)
}

func (e *CodedError) Unwrap() error {
	return e.Cause
}

// GetCode 从错误链中提取最外层的错误码，没有时返回空串
func GetCode(err error) string {
	var coded *CodedError
	if errors.As(err, &coded) {
		return coded.Code
	}
	return ""
}

// Must 如果 err 不为 nil 则 panic，仅用于初始化阶段
func Must[T any](v T, err error) T {
	if err != nil {
		panic(fmt.Sprintf("must: %v", err))
	}
	return v
}

// MultiError 合并多个错误
type MultiError struct {
	Errors []error
}

func (m *MultiError) Error() string {
	switch len(m.Errors) {
	case 0:
		return "no errors"
	case 1:
		return m.Errors[0].Error()
	default:
		return fmt.Sprintf("%v (and %d more errors)", m.Errors[0], len(m.Errors)-1)
	}
}

func (m *MultiError) Unwrap() []error {
	return m.Errors
}

// Combine 将多个错误合并为一个，忽略 nil
func Combine(errs ...error) error {
	var nonNil []error
	for _, err := range errs {
		if err != nil {
			nonNil = append(nonNil, err)
		}
	}
	switch len(nonNil) {
	case 0:
		return nil
	case 1:
		return nonNil[0]
	default:
		return &MultiError{Errors: nonNil}
	}
}

// 标准库函数再导出
var (
	New  = errors.New
	Is   = errors.Is
	As   = errors.As
	Join = errors.Join
)
