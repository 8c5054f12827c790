//go:build !notimer

package timer

import (
	"maps"
	"slices"
	"time"

	"github.com/ceyewan/exprbench/clog"
)

// Enabled 报告计时是否编译进二进制，使用 `-tags notimer` 构建时为 false
const Enabled = true

// Registry 标签到聚合策略实例的映射，持有所有策略实例
//
// 同一标签在两次 Clear 之间总是对应同一个实例，因此多个调用点的采样会累积在一起。
// 注册表不做同步，只能在单个 goroutine 中使用。
type Registry[T any, P Counter[T]] struct {
	times  map[string]P
	clock  Clock
	logger clog.Logger
}

// New 创建注册表，T 决定聚合策略
//
//	reg := timer.New[timer.Violin]()
func New[T any, P Counter[T]](opts ...Option) *Registry[T, P] {
	o := applyOptions(opts...)
	return &Registry[T, P]{
		times:  make(map[string]P),
		clock:  o.clock,
		logger: o.logger,
	}
}

// Start 开始一次计时
//
// 查找（或创建）label 对应的策略实例，返回绑定到该实例的 Scope。
// 起始时间在所有内部工作完成之后才读取，查找 map 的开销不计入采样。
// 返回值应立即 defer：
//
//	defer reg.Start("label").Stop()
func (r *Registry[T, P]) Start(label string) Scope {
	store, ok := r.times[label]
	if !ok {
		store = P(new(T))
		r.times[label] = store
	}
	return Scope{store: store, clock: r.clock, start: r.clock()}
}

// Measure 在 label 下计时执行 fn，并返回 fn 的错误
//
// fn 返回错误或 panic 时依然会提交恰好一次采样，panic 会在提交后继续传播。
func (r *Registry[T, P]) Measure(label string, fn func() error) error {
	defer r.Start(label).Stop()
	return fn()
}

// Snapshot 返回按标签排序的只读副本，不修改注册表
func (r *Registry[T, P]) Snapshot() []Entry[T] {
	if len(r.times) == 0 {
		return nil
	}
	entries := make([]Entry[T], 0, len(r.times))
	for _, label := range slices.Sorted(maps.Keys(r.times)) {
		entries = append(entries, Entry[T]{Label: label, Value: r.times[label].Snapshot()})
	}
	return entries
}

// Lookup 返回单个标签的状态副本
func (r *Registry[T, P]) Lookup(label string) (T, bool) {
	store, ok := r.times[label]
	if !ok {
		var zero T
		return zero, false
	}
	return store.Snapshot(), true
}

// Len 返回当前持有的标签数量
func (r *Registry[T, P]) Len() int {
	return len(r.times)
}

// Clear 丢弃所有标签及其累积的数据
//
// 仍在计时中的 Scope 会继续写入已被丢弃的实例，其结果不可见。
// 调用方应保证所有 Scope 结束后再 Clear。
func (r *Registry[T, P]) Clear() {
	r.logger.Debug("clear timers", clog.Int("labels", len(r.times)))
	clear(r.times)
}

// Scope 一次进行中的计时
//
// 值类型，不在堆上分配。Stop 计算 now - start 并向绑定的策略提交一次采样。
// 零值 Scope 的 Stop 不做任何事。
type Scope struct {
	store Submitter
	clock Clock
	start time.Time
}

// Stop 结束计时并提交采样，每个 Scope 只应调用一次
func (s Scope) Stop() {
	if s.store == nil {
		return
	}
	s.store.Submit(s.clock().Sub(s.start))
}
