// Package bench 比较不同数值容器在线性组合公式上的耗时。
//
// 对每个容器、每个向量长度，Suite 将每个（公式, 求值方式）组合重复 Iterations 次，
// 每次在标签 "<formula>_<strategy>" 下计时。计时范围包括公式求值、
// 对结果逐元素应用 f(u) = 4.2*u 以及求和校验。每个长度结束后取一次快照，
// 可选地发布为指标，然后清空注册表，保证不同长度的数据互不混合。
//
//	suite, _ := bench.NewSuite(cfg, bench.WithLogger(logger))
//	results, err := suite.Run(ctx)
//	bench.WriteTables(cfg.OutputDir, results)
package bench

import (
	"context"
	"strconv"

	"github.com/google/uuid"

	"github.com/ceyewan/exprbench/clog"
	"github.com/ceyewan/exprbench/metrics"
	"github.com/ceyewan/exprbench/timer"
	"github.com/ceyewan/exprbench/vector"
	"github.com/ceyewan/exprbench/xerrors"
)

// Suite 一次基准运行
type Suite struct {
	cfg       Config
	runID     string
	cases     []benchCase
	logger    clog.Logger
	publisher metrics.Publisher
	clock     timer.Clock
}

type benchCase struct {
	label    string
	formula  Formula
	strategy Strategy
}

// Option 配置 Suite 的选项函数类型
type Option func(*Suite)

// WithLogger 注入日志记录器，组件会自动添加 "bench" 命名空间
func WithLogger(logger clog.Logger) Option {
	return func(s *Suite) {
		if logger != nil {
			s.logger = logger.WithNamespace("bench")
		}
	}
}

// WithPublisher 每个长度结束时把快照交给 pub
func WithPublisher(pub metrics.Publisher) Option {
	return func(s *Suite) {
		if pub != nil {
			s.publisher = pub
		}
	}
}

// WithClock 为计时注册表注入时钟
func WithClock(clock timer.Clock) Option {
	return func(s *Suite) {
		s.clock = clock
	}
}

// WithRunID 指定运行 ID，默认生成 UUID
func WithRunID(id string) Option {
	return func(s *Suite) {
		if id != "" {
			s.runID = id
		}
	}
}

// NewSuite 校验配置并创建 Suite
func NewSuite(cfg Config, opts ...Option) (*Suite, error) {
	if err := cfg.Validate(); err != nil {
		return nil, xerrors.WithCode(err, xerrors.CodeInvalidConfig)
	}
	s := &Suite{
		cfg:       cfg,
		runID:     uuid.NewString(),
		logger:    clog.Discard(),
		publisher: metrics.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	for _, f := range cfg.formulas() {
		for _, st := range cfg.strategies() {
			s.cases = append(s.cases, benchCase{label: f.Name + "_" + string(st), formula: f, strategy: st})
		}
	}
	return s, nil
}

// RunID 返回本次运行的 ID
func (s *Suite) RunID() string {
	return s.runID
}

// Labels 返回所有计时标签，顺序与执行顺序一致
func (s *Suite) Labels() []string {
	labels := make([]string, len(s.cases))
	for i, c := range s.cases {
		labels[i] = c.label
	}
	return labels
}

// Run 依次在每个容器、每个长度上运行全部公式
//
// 每个长度开始前检查 ctx，取消时返回已完成部分的结果和 ctx 的错误。
// 使用 notimer 构建时计时被编译为空操作，结果中不含任何 Timing。
func (s *Suite) Run(ctx context.Context) ([]Result, error) {
	s.logger.InfoContext(ctx, "bench started",
		clog.String("run_id", s.runID),
		clog.String("aggregation", string(s.cfg.Aggregation)),
		clog.Bool("timer_enabled", timer.Enabled),
		clog.Int("cases", len(s.cases)))

	tOpts := []timer.Option{timer.WithLogger(s.logger), timer.WithClock(s.clock)}
	if s.cfg.Aggregation == AggregationViolin {
		return run(ctx, s, timer.NewViolin(tOpts...), violinTiming, s.publisher.PublishViolin)
	}
	return run(ctx, s, timer.NewCumulative(tOpts...), cumulativeTiming, s.publisher.PublishCumulative)
}

func run[T any, P timer.Counter[T]](
	ctx context.Context,
	s *Suite,
	reg *timer.Registry[T, P],
	toTiming func(timer.Entry[T]) Timing,
	publish func(context.Context, []timer.Entry[T], ...metrics.Label),
) ([]Result, error) {
	results := make([]Result, 0, len(s.cfg.kinds())*len(s.cfg.Sizes))
	for _, kind := range s.cfg.kinds() {
		be, err := vector.For(kind)
		if err != nil {
			return results, err
		}
		for _, n := range s.cfg.Sizes {
			if err := ctx.Err(); err != nil {
				s.logger.WarnContext(ctx, "bench canceled", clog.String("container", string(kind)), clog.Int("size", n))
				return results, xerrors.Wrap(err, "bench canceled")
			}
			if err := s.runSize(reg, be, n); err != nil {
				return results, err
			}

			entries := reg.Snapshot()
			publish(ctx, entries,
				metrics.L(metrics.LabelContainer, string(kind)),
				metrics.L(metrics.LabelSize, strconv.Itoa(n)),
				metrics.L(metrics.LabelRunID, s.runID))

			res := Result{
				RunID:       s.runID,
				Container:   kind,
				Size:        n,
				Aggregation: s.cfg.Aggregation,
				Timings:     make([]Timing, 0, len(entries)),
			}
			for _, e := range entries {
				res.Timings = append(res.Timings, toTiming(e))
			}
			results = append(results, res)
			reg.Clear()

			s.logger.DebugContext(ctx, "size finished",
				clog.String("container", string(kind)),
				clog.Int("size", n),
				clog.Int("labels", len(res.Timings)))
		}
		s.logger.InfoContext(ctx, "container finished", clog.String("container", string(kind)))
	}
	return results, nil
}

func scale(u float64) float64 { return 4.2 * u }

// measurer 由任意策略的 timer.Registry 实现
type measurer interface {
	Measure(label string, fn func() error) error
}

func (s *Suite) runSize(reg measurer, be vector.Backend, n int) error {
	xs, ys := vector.Fixture(n)
	x, y := be.New(xs), be.New(ys)
	a, b := s.cfg.A, s.cfg.B

	for i := 0; i < s.cfg.Iterations; i++ {
		for _, c := range s.cases {
			err := reg.Measure(c.label, func() error {
				u := c.formula.Eval(be, c.strategy, a, b, x, y)
				if vector.Sum(be.Map(scale, u)) == 0 {
					return xerrors.Wrapf(errZeroSum, "%s on %s, size %d", c.label, be.Kind(), n)
				}
				return nil
			})
			if err != nil {
				return xerrors.WithCode(err, xerrors.CodeBenchFailed)
			}
		}
	}
	return nil
}

var errZeroSum = xerrors.New("formula result sums to zero")
