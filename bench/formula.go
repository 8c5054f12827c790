package bench

import (
	"github.com/ceyewan/exprbench/vector"
	"github.com/ceyewan/exprbench/xerrors"
)

// Strategy 公式结果的求值方式
type Strategy string

const (
	// StrategyContainer 将结果强制为容器本身的类型，Lazy 容器会在此处完成求值
	StrategyContainer Strategy = "container"
	// StrategyAuto 保留运算返回的原始形式，Lazy 容器的求值推迟到后续使用时
	StrategyAuto Strategy = "auto"
)

// ParseStrategy 解析求值方式
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case StrategyContainer, StrategyAuto:
		return Strategy(s), nil
	default:
		return "", xerrors.Wrapf(xerrors.ErrInvalidConfig, "unknown strategy %q", s)
	}
}

// Formula 一个线性组合公式
type Formula struct {
	Name  string
	Expr  string
	apply func(be vector.Backend, a, b float64, x, y vector.Vector) vector.Vector
}

// Eval 在 be 上按 strategy 计算公式
func (f Formula) Eval(be vector.Backend, strategy Strategy, a, b float64, x, y vector.Vector) vector.Vector {
	u := f.apply(be, a, b, x, y)
	if strategy == StrategyContainer {
		return be.Materialize(u)
	}
	return u
}

var formulas = []Formula{
	{
		Name: "axpy",
		Expr: "a*x + y",
		apply: func(be vector.Backend, a, _ float64, x, y vector.Vector) vector.Vector {
			return be.Add(be.Scale(a, x), y)
		},
	},
	{
		Name: "abxpy",
		Expr: "a*b*x + y",
		apply: func(be vector.Backend, a, b float64, x, y vector.Vector) vector.Vector {
			return be.Add(be.Scale(a*b, x), y)
		},
	},
	{
		Name: "abxpy2",
		Expr: "a*(b*x) + y",
		apply: func(be vector.Backend, a, b float64, x, y vector.Vector) vector.Vector {
			return be.Add(be.Scale(a, be.Scale(b, x)), y)
		},
	},
	{
		Name: "axbpy",
		Expr: "a*x*b + y",
		apply: func(be vector.Backend, a, b float64, x, y vector.Vector) vector.Vector {
			return be.Add(be.Scale(b, be.Scale(a, x)), y)
		},
	},
}

// Formulas 返回所有内置公式
func Formulas() []Formula {
	return append([]Formula(nil), formulas...)
}

// LookupFormula 按名称查找公式
func LookupFormula(name string) (Formula, error) {
	for _, f := range formulas {
		if f.Name == name {
			return f, nil
		}
	}
	return Formula{}, xerrors.Wrapf(xerrors.ErrUnknownFormula, "lookup %q", name)
}
