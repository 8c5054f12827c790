//go:build notimer

package timer

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// 运行方式：go test -tags notimer ./timer/...

func TestEnabled(t *testing.T) {
	assert.False(t, Enabled)
}

func TestInert_NeverTouchesState(t *testing.T) {
	clock := func() time.Time {
		t.Fatal("inert registry must not read the clock")
		return time.Time{}
	}
	reg := NewViolin(WithClock(clock))

	for i := 0; i < 3; i++ {
		func() {
			defer reg.Start("op").Stop()
		}()
	}

	assert.Empty(t, reg.Snapshot())
	assert.Zero(t, reg.Len())
	_, ok := reg.Lookup("op")
	assert.False(t, ok)

	reg.Clear()
	assert.Empty(t, reg.Snapshot())
	assert.Zero(t, reg.Len())
}

func TestInert_MeasureRunsFn(t *testing.T) {
	reg := NewCumulative()
	errFailed := errors.New("failed")

	called := 0
	err := reg.Measure("op", func() error {
		called++
		return errFailed
	})

	assert.ErrorIs(t, err, errFailed)
	assert.Equal(t, 1, called)
	assert.Zero(t, reg.Len())
}

func TestInert_ZeroAllocs(t *testing.T) {
	reg := NewCumulative()

	allocs := testing.AllocsPerRun(100, func() {
		reg.Start("op").Stop()
		_ = reg.Snapshot()
		reg.Clear()
	})
	assert.Zero(t, allocs)
}
