package bench

import (
	"math"
	"slices"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/ceyewan/exprbench/timer"
	"github.com/ceyewan/exprbench/vector"
)

// Result 某个容器在某个长度下的一组计时
type Result struct {
	RunID       string
	Container   vector.Kind
	Size        int
	Aggregation Aggregation
	// Timings 按标签排序
	Timings []Timing
}

// Timing 单个标签的计时结果
//
// Samples 只在 violin 聚合下非空。
type Timing struct {
	Label   string
	Total   time.Duration
	Count   int
	Samples []time.Duration
}

// Mean 平均耗时
func (t Timing) Mean() time.Duration {
	if t.Count == 0 {
		return 0
	}
	return t.Total / time.Duration(t.Count)
}

// Quantile 返回第 p 分位的耗时（0 <= p <= 1），没有逐次采样时返回 0
func (t Timing) Quantile(p float64) time.Duration {
	if len(t.Samples) == 0 {
		return 0
	}
	xs := seconds(t.Samples)
	slices.Sort(xs)
	return fromSeconds(stat.Quantile(p, stat.Empirical, xs, nil))
}

// StdDev 返回逐次采样的标准差，少于两个采样时返回 0
func (t Timing) StdDev() time.Duration {
	if len(t.Samples) < 2 {
		return 0
	}
	return fromSeconds(stat.StdDev(seconds(t.Samples), nil))
}

func cumulativeTiming(e timer.Entry[timer.Cumulative]) Timing {
	return Timing{Label: e.Label, Total: e.Value.Total, Count: e.Value.Count}
}

func violinTiming(e timer.Entry[timer.Violin]) Timing {
	return Timing{
		Label:   e.Label,
		Total:   e.Value.Total(),
		Count:   e.Value.Len(),
		Samples: e.Value.Samples,
	}
}

func seconds(ds []time.Duration) []float64 {
	out := make([]float64, len(ds))
	for i, d := range ds {
		out[i] = d.Seconds()
	}
	return out
}

func fromSeconds(s float64) time.Duration {
	return time.Duration(math.Round(s * float64(time.Second)))
}
