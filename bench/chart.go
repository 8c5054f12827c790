package bench

import (
	"fmt"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/ceyewan/exprbench/vector"
	"github.com/ceyewan/exprbench/xerrors"
)

// ChartConfig 图表尺寸
type ChartConfig struct {
	Width  vg.Length
	Height vg.Length
}

// DefaultChartConfig 返回默认图表尺寸
func DefaultChartConfig() ChartConfig {
	return ChartConfig{
		Width:  10 * vg.Inch,
		Height: 6 * vg.Inch,
	}
}

// RenderCharts 为每个容器绘制图表，返回写入的文件路径
//
//   - <container>_total.png：每个标签的总耗时随长度变化的折线（对数横轴）
//   - <container>_box.png：最大长度下每个标签逐次耗时的箱线图，仅 violin 聚合
//
// 没有任何 Timing 的容器（例如 notimer 构建）不产生图表。
func RenderCharts(dir string, results []Result, cfg ChartConfig) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, xerrors.WithCode(xerrors.Wrapf(err, "create output dir %s", dir), xerrors.CodeExportFailed)
	}
	var paths []string
	for _, kind := range containersOf(results) {
		rs := byContainer(results, kind)
		if !hasTimings(rs) {
			continue
		}

		filename := filepath.Join(dir, string(kind)+"_total.png")
		if err := totalChart(kind, rs, cfg, filename); err != nil {
			return paths, xerrors.WithCode(xerrors.Wrapf(err, "render %s", filename), xerrors.CodeExportFailed)
		}
		paths = append(paths, filename)

		last := rs[len(rs)-1]
		if last.Aggregation != AggregationViolin {
			continue
		}
		filename = filepath.Join(dir, string(kind)+"_box.png")
		if err := boxChart(kind, last, cfg, filename); err != nil {
			return paths, xerrors.WithCode(xerrors.Wrapf(err, "render %s", filename), xerrors.CodeExportFailed)
		}
		paths = append(paths, filename)
	}
	return paths, nil
}

func totalChart(kind vector.Kind, rs []Result, cfg ChartConfig, filename string) error {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s: total time vs size", kind)
	p.X.Label.Text = "Size"
	p.Y.Label.Text = "Total (s)"
	p.X.Scale = plot.LogScale{}
	p.X.Tick.Marker = plot.LogTicks{Prec: -1}

	series := make(map[string]plotter.XYs)
	var order []string
	for _, r := range rs {
		for _, t := range r.Timings {
			if _, ok := series[t.Label]; !ok {
				order = append(order, t.Label)
			}
			series[t.Label] = append(series[t.Label], plotter.XY{X: float64(r.Size), Y: t.Total.Seconds()})
		}
	}

	for i, label := range order {
		line, points, err := plotter.NewLinePoints(series[label])
		if err != nil {
			return err
		}
		c := plotutil.Color(i)
		line.Color = c
		line.Width = vg.Points(2)
		points.Color = c
		points.Shape = plotutil.Shape(i)
		points.Radius = vg.Points(3)

		p.Add(line, points)
		p.Legend.Add(label, line, points)
	}
	p.Legend.Top = true
	p.Legend.Left = true

	p.Add(plotter.NewGrid())
	return p.Save(cfg.Width, cfg.Height, filename)
}

func boxChart(kind vector.Kind, r Result, cfg ChartConfig, filename string) error {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s: per-call time, size %d", kind, r.Size)
	p.Y.Label.Text = "Duration (µs)"

	labels := make([]string, 0, len(r.Timings))
	for i, t := range r.Timings {
		if len(t.Samples) == 0 {
			continue
		}
		vs := make(plotter.Values, len(t.Samples))
		for j, d := range t.Samples {
			vs[j] = float64(d.Nanoseconds()) / 1e3
		}
		box, err := plotter.NewBoxPlot(vg.Points(30), float64(len(labels)), vs)
		if err != nil {
			return err
		}
		box.FillColor = plotutil.Color(i)
		p.Add(box)
		labels = append(labels, t.Label)
	}
	p.NominalX(labels...)

	p.Add(plotter.NewGrid())
	return p.Save(cfg.Width, cfg.Height, filename)
}

func hasTimings(rs []Result) bool {
	for _, r := range rs {
		if len(r.Timings) > 0 {
			return true
		}
	}
	return false
}
