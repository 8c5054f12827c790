// Package timer 提供按标签聚合的作用域计时能力，用于在基准测试中为代码片段埋点。
//
// 特性：
//   - 作用域计时：Start 返回的 Scope 通过 defer 在作用域退出时提交一次耗时，
//     无论是正常返回、提前返回还是 panic
//   - 可插拔聚合策略：Cumulative 只保留总耗时与次数，Violin 保留每一次采样
//   - 编译期开关：使用 `-tags notimer` 构建时整个组件替换为空实现，
//     不读时钟、不查 map、不分配内存
//   - 显式注册表：Registry 由调用方创建并传递，不存在进程级全局状态
//
// 基本使用：
//
//	reg := timer.NewCumulative()
//	for i := 0; i < n; i++ {
//	    func() {
//	        defer reg.Start("abxpy").Stop()
//	        compute()
//	    }()
//	}
//	for _, e := range reg.Snapshot() {
//	    fmt.Println(e.Label, e.Value.Total, e.Value.Count)
//	}
//	reg.Clear()
//
// 并发说明：组件不做任何同步，只能在单个 goroutine 中使用。
// 加锁会重新引入编译期开关所要消除的开销，因此这是约定而非缺陷。
package timer

import (
	"slices"
	"time"
)

// Submitter 接收一次耗时采样
//
// Submit 没有返回值也不会失败，0 耗时同样是合法输入。
type Submitter interface {
	Submit(d time.Duration)
}

// Counter 聚合策略的类型约束
//
// T 为策略的值类型，*T 负责接收采样，Snapshot 返回与内部状态脱离的副本。
// Registry 依据该约束在首次使用某个标签时创建 T 的零值。
type Counter[T any] interface {
	*T
	Submitter
	Snapshot() T
}

// Cumulative 累计策略：只保留总耗时与采样次数，空间 O(1)
//
// 零值即初始状态：Total = 0，Count = 0。
type Cumulative struct {
	Total time.Duration
	Count int
}

// Submit 累加一次采样
func (c *Cumulative) Submit(d time.Duration) {
	c.Total += d
	c.Count++
}

// Snapshot 返回当前状态的副本
func (c Cumulative) Snapshot() Cumulative {
	return c
}

// Mean 返回平均耗时，没有采样时返回 0
func (c Cumulative) Mean() time.Duration {
	if c.Count == 0 {
		return 0
	}
	return c.Total / time.Duration(c.Count)
}

// Violin 小提琴策略：按提交顺序保留每一次采样，空间 O(n)，用于分布分析
type Violin struct {
	Samples []time.Duration
}

// Submit 追加一次采样
func (v *Violin) Submit(d time.Duration) {
	v.Samples = append(v.Samples, d)
}

// Snapshot 返回采样序列的拷贝，调用方修改副本不会影响注册表
func (v Violin) Snapshot() Violin {
	return Violin{Samples: slices.Clone(v.Samples)}
}

// Len 返回采样次数
func (v Violin) Len() int {
	return len(v.Samples)
}

// Total 返回所有采样之和
func (v Violin) Total() time.Duration {
	var total time.Duration
	for _, d := range v.Samples {
		total += d
	}
	return total
}

// Entry 快照中的一项：标签及其聚合状态
type Entry[T any] struct {
	Label string
	Value T
}

// Clock 单调时钟，默认 time.Now（携带单调读数）
type Clock func() time.Time

// CumulativeRegistry 使用 Cumulative 策略的注册表
type CumulativeRegistry = Registry[Cumulative, *Cumulative]

// ViolinRegistry 使用 Violin 策略的注册表
type ViolinRegistry = Registry[Violin, *Violin]

// NewCumulative 创建 Cumulative 策略的注册表
func NewCumulative(opts ...Option) *CumulativeRegistry {
	return New[Cumulative](opts...)
}

// NewViolin 创建 Violin 策略的注册表
func NewViolin(opts ...Option) *ViolinRegistry {
	return New[Violin](opts...)
}
