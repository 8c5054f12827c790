// Package metrics 将计时快照发布为 OpenTelemetry 指标，并以 Prometheus 格式暴露。
//
// 每次 Clear 之前，基准驱动把注册表快照交给 Publisher：
//   - Cumulative：累加总耗时与次数，记录平均耗时
//   - Violin：每一次采样都记录到直方图，同时累加总耗时与次数
//
// 指标写入独立的 prometheus.Registry，不污染全局默认注册表：
//
//	pub, _ := metrics.New(&metrics.Config{Enabled: true, Port: 9090, Path: "/metrics"})
//	defer pub.Shutdown(ctx)
//	go pub.Serve(ctx)
//	pub.PublishViolin(ctx, reg.Snapshot(), metrics.L("container", "dense"))
package metrics

import (
	"context"
	"net/http"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	otelruntime "go.opentelemetry.io/contrib/instrumentation/runtime"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.20.0"

	"github.com/ceyewan/exprbench/clog"
	"github.com/ceyewan/exprbench/timer"
	"github.com/ceyewan/exprbench/xerrors"
)

// 指标名称，Prometheus 导出时会追加单位与 _total 后缀
const (
	MetricDuration = "exprbench.timer.duration"
	MetricTotal    = "exprbench.timer.total"
	MetricSamples  = "exprbench.timer.samples"
	MetricMean     = "exprbench.timer.mean"
)

// 1µs 到约 16s 的指数桶
var durationBuckets = func() []float64 {
	b := make([]float64, 0, 25)
	for v := 1e-6; v < 20; v *= 2 {
		b = append(b, v)
	}
	return b
}()

// Publisher 计时快照的发布者
type Publisher interface {
	// PublishCumulative 发布 Cumulative 快照，labels 附加在每个标签的指标上
	PublishCumulative(ctx context.Context, entries []timer.Entry[timer.Cumulative], labels ...Label)
	// PublishViolin 发布 Violin 快照，每次采样都进入直方图
	PublishViolin(ctx context.Context, entries []timer.Entry[timer.Violin], labels ...Label)
	// Handler 返回 Prometheus 抓取端点
	Handler() http.Handler
	// Serve 在配置的端口上提供抓取端点，直到 ctx 结束
	Serve(ctx context.Context) error
	// Shutdown 刷新并关闭 MeterProvider
	Shutdown(ctx context.Context) error
}

// New 创建 Publisher
//
// cfg.Enabled 为 false 时返回 Discard()。
func New(cfg *Config, opts ...Option) (Publisher, error) {
	if cfg == nil {
		return nil, xerrors.Wrap(xerrors.ErrInvalidConfig, "metrics config is required")
	}
	if !cfg.Enabled {
		return Discard(), nil
	}
	if err := cfg.validate(); err != nil {
		return nil, xerrors.WithCode(err, xerrors.CodeInvalidConfig)
	}
	o := applyOptions(opts...)

	res, err := resource.New(context.Background(),
		resource.WithAttributes(
			semconv.ServiceNameKey.String(cfg.ServiceName),
			semconv.ServiceVersionKey.String(cfg.Version),
		),
	)
	if err != nil {
		return nil, xerrors.Wrap(err, "create resource")
	}

	registry := promclient.NewRegistry()
	exporter, err := prometheus.New(prometheus.WithRegisterer(registry))
	if err != nil {
		return nil, xerrors.Wrap(err, "create prometheus exporter")
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(exporter),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(mp)

	if cfg.Runtime {
		if err := otelruntime.Start(otelruntime.WithMeterProvider(mp)); err != nil {
			_ = mp.Shutdown(context.Background())
			return nil, xerrors.Wrap(err, "start runtime instrumentation")
		}
	}

	p := &publisher{
		cfg:      *cfg,
		provider: mp,
		handler:  promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		logger:   o.logger,
	}
	if err := p.initInstruments(mp.Meter("exprbench")); err != nil {
		_ = mp.Shutdown(context.Background())
		return nil, err
	}

	o.logger.Info("metrics publisher created",
		clog.String("service", cfg.ServiceName),
		clog.Bool("runtime", cfg.Runtime))
	return p, nil
}

// Must 类似 New，但出错时 panic
func Must(cfg *Config, opts ...Option) Publisher {
	return xerrors.Must(New(cfg, opts...))
}

type publisher struct {
	cfg      Config
	provider *sdkmetric.MeterProvider
	handler  http.Handler
	logger   clog.Logger

	duration metric.Float64Histogram
	total    metric.Float64Counter
	samples  metric.Int64Counter
	mean     metric.Float64Gauge
}

func (p *publisher) initInstruments(m metric.Meter) error {
	var err error
	if p.duration, err = m.Float64Histogram(MetricDuration,
		metric.WithDescription("Duration of each timed scope."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(durationBuckets...),
	); err != nil {
		return xerrors.Wrap(err, "create duration histogram")
	}
	if p.total, err = m.Float64Counter(MetricTotal,
		metric.WithDescription("Accumulated time spent under a label."),
		metric.WithUnit("s"),
	); err != nil {
		return xerrors.Wrap(err, "create total counter")
	}
	if p.samples, err = m.Int64Counter(MetricSamples,
		metric.WithDescription("Number of timed scopes under a label."),
	); err != nil {
		return xerrors.Wrap(err, "create samples counter")
	}
	if p.mean, err = m.Float64Gauge(MetricMean,
		metric.WithDescription("Mean duration of the latest snapshot."),
		metric.WithUnit("s"),
	); err != nil {
		return xerrors.Wrap(err, "create mean gauge")
	}
	return nil
}

func (p *publisher) PublishCumulative(ctx context.Context, entries []timer.Entry[timer.Cumulative], labels ...Label) {
	for _, e := range entries {
		attrs := metric.WithAttributes(toAttributes(e.Label, labels)...)
		p.total.Add(ctx, e.Value.Total.Seconds(), attrs)
		p.samples.Add(ctx, int64(e.Value.Count), attrs)
		p.mean.Record(ctx, e.Value.Mean().Seconds(), attrs)
	}
	p.logger.DebugContext(ctx, "published cumulative snapshot", clog.Int("labels", len(entries)))
}

func (p *publisher) PublishViolin(ctx context.Context, entries []timer.Entry[timer.Violin], labels ...Label) {
	for _, e := range entries {
		attrs := metric.WithAttributes(toAttributes(e.Label, labels)...)
		for _, d := range e.Value.Samples {
			p.duration.Record(ctx, d.Seconds(), attrs)
		}
		total := e.Value.Total()
		p.total.Add(ctx, total.Seconds(), attrs)
		p.samples.Add(ctx, int64(e.Value.Len()), attrs)
		if n := e.Value.Len(); n > 0 {
			p.mean.Record(ctx, total.Seconds()/float64(n), attrs)
		}
	}
	p.logger.DebugContext(ctx, "published violin snapshot", clog.Int("labels", len(entries)))
}

func (p *publisher) Handler() http.Handler {
	return p.handler
}

func (p *publisher) Shutdown(ctx context.Context) error {
	if err := p.provider.Shutdown(ctx); err != nil {
		return xerrors.WithCode(xerrors.Wrap(err, "shutdown meter provider"), xerrors.CodeExportFailed)
	}
	return nil
}
