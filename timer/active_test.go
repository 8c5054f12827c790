//go:build !notimer

package timer

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ceyewan/exprbench/clog"
)

// fakeClock 手动推进的时钟，用于模拟耗时
type fakeClock struct {
	now   time.Time
	reads int
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Unix(0, 0)}
}

func (c *fakeClock) Now() time.Time {
	c.reads++
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

func TestEnabled(t *testing.T) {
	assert.True(t, Enabled)
}

func TestRegistry_CumulativeScenario(t *testing.T) {
	clock := newFakeClock()
	reg := NewCumulative(WithClock(clock.Now))
	step := 7 * time.Millisecond

	for i := 0; i < 3; i++ {
		func() {
			defer reg.Start("op").Stop()
			clock.Advance(step)
		}()
	}

	got, ok := reg.Lookup("op")
	require.True(t, ok)
	assert.Equal(t, 3*step, got.Total)
	assert.Equal(t, 3, got.Count)
	assert.Equal(t, step, got.Mean())
}

func TestRegistry_ViolinScenario(t *testing.T) {
	clock := newFakeClock()
	reg := NewViolin(WithClock(clock.Now))
	t1, t2 := 3*time.Millisecond, 11*time.Millisecond

	for _, d := range []time.Duration{t1, t2} {
		func() {
			defer reg.Start("op").Stop()
			clock.Advance(d)
		}()
	}

	snap := reg.Snapshot()
	require.Len(t, snap, 1)
	assert.Equal(t, "op", snap[0].Label)
	assert.Equal(t, []time.Duration{t1, t2}, snap[0].Value.Samples)
}

func TestRegistry_SameLabelAccumulates(t *testing.T) {
	clock := newFakeClock()
	reg := NewCumulative(WithClock(clock.Now))

	// 两个调用点共享同一标签
	first := func() {
		defer reg.Start("shared").Stop()
		clock.Advance(time.Millisecond)
	}
	second := func() {
		defer reg.Start("shared").Stop()
		clock.Advance(2 * time.Millisecond)
	}
	first()
	second()

	assert.Equal(t, 1, reg.Len())
	got, _ := reg.Lookup("shared")
	assert.Equal(t, Cumulative{Total: 3 * time.Millisecond, Count: 2}, got)
}

func TestRegistry_SnapshotSortedAndReadOnly(t *testing.T) {
	clock := newFakeClock()
	reg := NewViolin(WithClock(clock.Now))

	for _, label := range []string{"zeta", "alpha", "mid"} {
		s := reg.Start(label)
		clock.Advance(time.Millisecond)
		s.Stop()
	}

	snap := reg.Snapshot()
	require.Len(t, snap, 3)
	assert.Equal(t, "alpha", snap[0].Label)
	assert.Equal(t, "mid", snap[1].Label)
	assert.Equal(t, "zeta", snap[2].Label)

	snap[0].Value.Samples[0] = time.Hour
	again := reg.Snapshot()
	assert.Equal(t, []time.Duration{time.Millisecond}, again[0].Value.Samples)
	assert.Equal(t, 3, reg.Len())
}

func TestRegistry_Clear(t *testing.T) {
	clock := newFakeClock()
	reg := NewCumulative(WithClock(clock.Now))

	for i := 0; i < 4; i++ {
		s := reg.Start("op")
		clock.Advance(time.Millisecond)
		s.Stop()
	}
	reg.Start("other").Stop()
	require.Equal(t, 2, reg.Len())

	reg.Clear()
	for i := 0; i < 3; i++ {
		assert.Empty(t, reg.Snapshot())
	}
	assert.Zero(t, reg.Len())
	_, ok := reg.Lookup("op")
	assert.False(t, ok)

	// 清空后同名标签从零开始
	s := reg.Start("op")
	clock.Advance(5 * time.Millisecond)
	s.Stop()

	got, ok := reg.Lookup("op")
	require.True(t, ok)
	assert.Equal(t, Cumulative{Total: 5 * time.Millisecond, Count: 1}, got)
}

func TestRegistry_NestedScopes(t *testing.T) {
	clock := newFakeClock()
	reg := NewViolin(WithClock(clock.Now))

	func() {
		defer reg.Start("outer").Stop()
		clock.Advance(time.Millisecond)
		func() {
			defer reg.Start("inner").Stop()
			clock.Advance(2 * time.Millisecond)
		}()
		clock.Advance(4 * time.Millisecond)
	}()

	outer, _ := reg.Lookup("outer")
	inner, _ := reg.Lookup("inner")
	assert.Equal(t, []time.Duration{7 * time.Millisecond}, outer.Samples)
	assert.Equal(t, []time.Duration{2 * time.Millisecond}, inner.Samples)
}

func TestRegistry_OverlappingScopesStopOutOfOrder(t *testing.T) {
	clock := newFakeClock()
	reg := NewCumulative(WithClock(clock.Now))

	a := reg.Start("a")
	clock.Advance(time.Millisecond)
	b := reg.Start("b")
	clock.Advance(time.Millisecond)
	a.Stop() // a 先于 b 结束
	clock.Advance(time.Millisecond)
	b.Stop()

	gotA, _ := reg.Lookup("a")
	gotB, _ := reg.Lookup("b")
	assert.Equal(t, Cumulative{Total: 2 * time.Millisecond, Count: 1}, gotA)
	assert.Equal(t, Cumulative{Total: 2 * time.Millisecond, Count: 1}, gotB)
}

func TestRegistry_PanicStillSubmits(t *testing.T) {
	clock := newFakeClock()
	reg := NewViolin(WithClock(clock.Now))

	func() {
		defer func() {
			assert.Equal(t, "boom", recover())
		}()
		defer reg.Start("failing").Stop()
		clock.Advance(3 * time.Millisecond)
		panic("boom")
	}()

	got, ok := reg.Lookup("failing")
	require.True(t, ok)
	assert.Equal(t, []time.Duration{3 * time.Millisecond}, got.Samples)
}

func TestRegistry_Measure(t *testing.T) {
	clock := newFakeClock()
	reg := NewCumulative(WithClock(clock.Now))
	errFailed := errors.New("failed")

	err := reg.Measure("ok", func() error {
		clock.Advance(time.Millisecond)
		return nil
	})
	require.NoError(t, err)

	err = reg.Measure("err", func() error {
		clock.Advance(2 * time.Millisecond)
		return errFailed
	})
	assert.ErrorIs(t, err, errFailed)

	assert.PanicsWithValue(t, "boom", func() {
		_ = reg.Measure("panic", func() error {
			clock.Advance(4 * time.Millisecond)
			panic("boom")
		})
	})

	snap := reg.Snapshot()
	require.Len(t, snap, 3)
	assert.Equal(t, Entry[Cumulative]{Label: "err", Value: Cumulative{Total: 2 * time.Millisecond, Count: 1}}, snap[0])
	assert.Equal(t, Entry[Cumulative]{Label: "ok", Value: Cumulative{Total: time.Millisecond, Count: 1}}, snap[1])
	assert.Equal(t, Entry[Cumulative]{Label: "panic", Value: Cumulative{Total: 4 * time.Millisecond, Count: 1}}, snap[2])
}

func TestRegistry_ClockReadOncePerEdge(t *testing.T) {
	clock := newFakeClock()
	reg := NewCumulative(WithClock(clock.Now))

	s := reg.Start("op")
	assert.Equal(t, 1, clock.reads)
	s.Stop()
	assert.Equal(t, 2, clock.reads)
}

func TestRegistry_RealClock(t *testing.T) {
	reg := NewCumulative()

	func() {
		defer reg.Start("sleep").Stop()
		time.Sleep(2 * time.Millisecond)
	}()

	got, ok := reg.Lookup("sleep")
	require.True(t, ok)
	assert.Equal(t, 1, got.Count)
	assert.GreaterOrEqual(t, got.Total, 2*time.Millisecond)
}

func TestRegistry_StartStopDoesNotAllocate(t *testing.T) {
	reg := NewCumulative()
	reg.Start("op").Stop()

	allocs := testing.AllocsPerRun(100, func() {
		reg.Start("op").Stop()
	})
	assert.Zero(t, allocs)
}

func TestRegistry_CustomCounter(t *testing.T) {
	clock := newFakeClock()
	reg := New[maxCounter](WithClock(clock.Now))

	for _, d := range []time.Duration{time.Millisecond, 5 * time.Millisecond, 2 * time.Millisecond} {
		s := reg.Start("op")
		clock.Advance(d)
		s.Stop()
	}

	got, _ := reg.Lookup("op")
	assert.Equal(t, 5*time.Millisecond, got.max)
}

func TestScope_ZeroValueStop(t *testing.T) {
	assert.NotPanics(t, func() {
		var s Scope
		s.Stop()
	})
}

func TestRegistry_ClearLogs(t *testing.T) {
	var buf bytes.Buffer
	logger, err := clog.New(&clog.Config{Level: "debug", Format: "json", Output: "buffer"}, clog.WithBuffer(&buf))
	require.NoError(t, err)

	reg := NewCumulative(WithLogger(logger))
	reg.Start("op").Stop()
	reg.Clear()

	assert.Contains(t, buf.String(), "clear timers")
	assert.Contains(t, buf.String(), `"namespace":"timer"`)
}

// maxCounter 只保留最大耗时的自定义策略
type maxCounter struct {
	max time.Duration
}

func (m *maxCounter) Submit(d time.Duration) {
	if d > m.max {
		m.max = d
	}
}

func (m maxCounter) Snapshot() maxCounter {
	return m
}
