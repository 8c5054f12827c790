package bench

import (
	"slices"

	"github.com/ceyewan/exprbench/vector"
	"github.com/ceyewan/exprbench/xerrors"
)

// Aggregation 计时的聚合方式
type Aggregation string

const (
	// AggregationCumulative 每个标签只保留累计时长和次数
	AggregationCumulative Aggregation = "cumulative"
	// AggregationViolin 每个标签保留每一次的时长，用于分布分析
	AggregationViolin Aggregation = "violin"
)

// Config 基准测试配置
type Config struct {
	// Containers 参与比较的容器，见 vector.Kind
	Containers []string `mapstructure:"containers" json:"containers" yaml:"containers"`
	// Sizes 向量长度，逐个运行，每个长度之间清空计时器
	Sizes []int `mapstructure:"sizes" json:"sizes" yaml:"sizes"`
	// Iterations 每个长度下每个公式的重复次数
	Iterations int `mapstructure:"iterations" json:"iterations" yaml:"iterations"`
	// Formulas 参与比较的公式名称，为空时使用全部内置公式
	Formulas []string `mapstructure:"formulas" json:"formulas" yaml:"formulas"`
	// Strategies 求值方式，为空时使用 container 和 auto
	Strategies  []string    `mapstructure:"strategies" json:"strategies" yaml:"strategies"`
	Aggregation Aggregation `mapstructure:"aggregation" json:"aggregation" yaml:"aggregation"`
	// A, B 公式中的标量系数
	A float64 `mapstructure:"a" json:"a" yaml:"a"`
	B float64 `mapstructure:"b" json:"b" yaml:"b"`
	// OutputDir 结果表格和图表的输出目录，为空时不写文件
	OutputDir string `mapstructure:"output_dir" json:"output_dir" yaml:"output_dir"`
	Charts    bool   `mapstructure:"charts" json:"charts" yaml:"charts"`
}

// DefaultConfig 返回默认配置：abxpy2 在三种容器、50 到 1e6 共十个长度上各重复 5000 次
func DefaultConfig() Config {
	return Config{
		Containers:  []string{string(vector.KindSlice), string(vector.KindDense), string(vector.KindLazy)},
		Sizes:       []int{50, 100, 250, 500, 1_000, 10_000, 50_000, 100_000, 500_000, 1_000_000},
		Iterations:  5000,
		Formulas:    []string{"abxpy2"},
		Aggregation: AggregationCumulative,
		A:           1.1,
		B:           1.2,
		OutputDir:   "results",
	}
}

// Validate 校验配置
func (c *Config) Validate() error {
	if len(c.Containers) == 0 {
		return xerrors.Wrap(xerrors.ErrInvalidConfig, "containers is required")
	}
	for _, name := range c.Containers {
		if _, err := vector.ParseKind(name); err != nil {
			return err
		}
	}
	if len(c.Sizes) == 0 {
		return xerrors.Wrap(xerrors.ErrInvalidConfig, "sizes is required")
	}
	for _, n := range c.Sizes {
		if n <= 0 {
			return xerrors.Wrapf(xerrors.ErrInvalidConfig, "size must be positive, got %d", n)
		}
	}
	if c.Iterations <= 0 {
		return xerrors.Wrapf(xerrors.ErrInvalidConfig, "iterations must be positive, got %d", c.Iterations)
	}
	for _, name := range c.Formulas {
		if _, err := LookupFormula(name); err != nil {
			return err
		}
	}
	for _, s := range c.Strategies {
		if _, err := ParseStrategy(s); err != nil {
			return err
		}
	}
	switch c.Aggregation {
	case AggregationCumulative, AggregationViolin:
	case "":
		c.Aggregation = AggregationCumulative
	default:
		return xerrors.Wrapf(xerrors.ErrInvalidConfig, "unknown aggregation %q", c.Aggregation)
	}
	if c.Charts && c.OutputDir == "" {
		return xerrors.Wrap(xerrors.ErrInvalidConfig, "charts require output_dir")
	}
	return nil
}

func (c *Config) kinds() []vector.Kind {
	kinds := make([]vector.Kind, 0, len(c.Containers))
	for _, name := range c.Containers {
		k, _ := vector.ParseKind(name)
		if !slices.Contains(kinds, k) {
			kinds = append(kinds, k)
		}
	}
	return kinds
}

func (c *Config) formulas() []Formula {
	if len(c.Formulas) == 0 {
		return Formulas()
	}
	out := make([]Formula, 0, len(c.Formulas))
	for _, name := range c.Formulas {
		f, _ := LookupFormula(name)
		out = append(out, f)
	}
	return out
}

func (c *Config) strategies() []Strategy {
	if len(c.Strategies) == 0 {
		return []Strategy{StrategyContainer, StrategyAuto}
	}
	out := make([]Strategy, 0, len(c.Strategies))
	for _, s := range c.Strategies {
		out = append(out, Strategy(s))
	}
	return out
}
