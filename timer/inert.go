//go:build notimer

package timer

// 空实现：与 active.go 的导出 API 完全一致，调用点无需任何条件代码。
// 不读时钟、不查 map、不分配内存。

// Enabled 报告计时是否编译进二进制，使用 `-tags notimer` 构建时为 false
const Enabled = false

// Registry 空注册表，不持有任何状态
type Registry[T any, P Counter[T]] struct{}

// New 创建空注册表，选项被忽略
func New[T any, P Counter[T]](opts ...Option) *Registry[T, P] {
	return &Registry[T, P]{}
}

// Start 返回空 Scope
func (r *Registry[T, P]) Start(label string) Scope { return Scope{} }

// Measure 直接执行 fn
func (r *Registry[T, P]) Measure(label string, fn func() error) error { return fn() }

// Snapshot 总是返回空
func (r *Registry[T, P]) Snapshot() []Entry[T] { return nil }

// Lookup 总是返回 false
func (r *Registry[T, P]) Lookup(label string) (T, bool) {
	var zero T
	return zero, false
}

// Len 总是返回 0
func (r *Registry[T, P]) Len() int { return 0 }

// Clear 空操作
func (r *Registry[T, P]) Clear() {}

// Scope 空计时
type Scope struct{}

// Stop 空操作
func (Scope) Stop() {}
