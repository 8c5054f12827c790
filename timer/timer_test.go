package timer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// 策略本身与构建标签无关，两种构建下都会运行

func TestCumulative_Submit(t *testing.T) {
	tests := []struct {
		name      string
		durations []time.Duration
		wantTotal time.Duration
	}{
		{name: "empty", durations: nil, wantTotal: 0},
		{name: "single zero", durations: []time.Duration{0}, wantTotal: 0},
		{name: "mixed", durations: []time.Duration{time.Millisecond, 0, 3 * time.Microsecond, time.Second}, wantTotal: time.Second + time.Millisecond + 3*time.Microsecond},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c Cumulative
			for _, d := range tt.durations {
				c.Submit(d)
			}
			assert.Equal(t, tt.wantTotal, c.Total)
			assert.Equal(t, len(tt.durations), c.Count)
		})
	}
}

func TestCumulative_Mean(t *testing.T) {
	var c Cumulative
	assert.Zero(t, c.Mean())

	c.Submit(2 * time.Millisecond)
	c.Submit(4 * time.Millisecond)
	assert.Equal(t, 3*time.Millisecond, c.Mean())
}

func TestViolin_SubmitKeepsOrder(t *testing.T) {
	durations := []time.Duration{5 * time.Millisecond, time.Millisecond, 0, 3 * time.Millisecond}

	var v Violin
	for _, d := range durations {
		v.Submit(d)
	}

	assert.Equal(t, len(durations), v.Len())
	assert.Equal(t, durations, v.Samples)
	assert.Equal(t, 9*time.Millisecond, v.Total())
}

func TestViolin_SnapshotIsDetached(t *testing.T) {
	var v Violin
	v.Submit(time.Millisecond)

	snap := v.Snapshot()
	snap.Samples[0] = time.Hour
	v.Submit(2 * time.Millisecond)

	assert.Equal(t, []time.Duration{time.Millisecond, 2 * time.Millisecond}, v.Samples)
	assert.Equal(t, []time.Duration{time.Hour}, snap.Samples)
}
