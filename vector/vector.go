// Package vector 提供基准测试所比较的数值容器及其求值策略。
//
// 三种容器：
//   - Slice：[]float64，每个运算立即分配临时结果（eager）
//   - Dense：gonum mat.VecDense，运算走 BLAS 路径
//   - Lazy：表达式树，Scale/Add/Map 只构建节点，Materialize 时单次遍历融合求值
//
// 所有容器都实现 Vector，通过 Backend 以统一方式参与公式运算：
//
//	be, _ := vector.For(vector.KindDense)
//	x, y := be.New(xs), be.New(ys)
//	u := be.Add(be.Scale(a, x), y) // a*x + y
//	total := vector.Sum(be.Materialize(u))
//
// 长度不一致的运算会 panic（与 gonum 的 mat.ErrShape 行为一致），
// panic 值包装了 xerrors.ErrSizeMismatch。
package vector

import (
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/ceyewan/exprbench/xerrors"
)

// Vector 只读的一维数值序列
type Vector interface {
	Len() int
	At(i int) float64
}

// Kind 容器类型
type Kind string

const (
	KindSlice Kind = "slice"
	KindDense Kind = "dense"
	KindLazy  Kind = "lazy"
)

// Kinds 返回所有支持的容器类型，顺序固定
func Kinds() []Kind {
	return []Kind{KindSlice, KindDense, KindLazy}
}

// ParseKind 解析容器类型名称（不区分大小写）
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindSlice, KindDense, KindLazy:
		return k, nil
	default:
		return "", xerrors.Wrapf(xerrors.ErrUnknownContainer, "parse %q", s)
	}
}

// Backend 某种容器上的基本运算
//
// Scale/Add/Map 的结果可能是未求值的形式（Lazy），Materialize 将其强制为容器本身的类型。
// 参数可以是任意 Vector，不属于本容器时会先拷贝转换。
type Backend interface {
	Kind() Kind
	New(data []float64) Vector
	Scale(a float64, x Vector) Vector
	Add(x, y Vector) Vector
	Map(f func(float64) float64, x Vector) Vector
	Materialize(v Vector) Vector
}

// For 返回 kind 对应的 Backend
func For(kind Kind) (Backend, error) {
	switch kind {
	case KindSlice:
		return sliceBackend{}, nil
	case KindDense:
		return denseBackend{}, nil
	case KindLazy:
		return lazyBackend{}, nil
	default:
		return nil, xerrors.Wrapf(xerrors.ErrUnknownContainer, "backend %q", kind)
	}
}

// Sum 返回所有元素之和，未求值的表达式会在遍历中逐元素求值
func Sum(v Vector) float64 {
	switch t := v.(type) {
	case Slice:
		return floats.Sum(t)
	case *Dense:
		if t.vec == nil {
			return 0
		}
		return mat.Sum(t.vec)
	default:
		var s float64
		for i, n := 0, v.Len(); i < n; i++ {
			s += v.At(i)
		}
		return s
	}
}

// ToSlice 拷贝出 v 的全部元素
func ToSlice(v Vector) []float64 {
	out := make([]float64, v.Len())
	switch t := v.(type) {
	case Slice:
		copy(out, t)
	case *Dense:
		if t.vec != nil {
			mat.Col(out, 0, t.vec)
		}
	default:
		for i := range out {
			out[i] = v.At(i)
		}
	}
	return out
}

// Fixture 生成长度为 n 的基准输入：
// x[i] = (0.1 + i) / n，y[i] = cos(x[i])² / x[i]
func Fixture(n int) (x, y []float64) {
	x = make([]float64, n)
	y = make([]float64, n)
	if n == 0 {
		return x, y
	}
	for i := range x {
		x[i] = 0.1 + float64(i)
	}
	floats.Scale(1/float64(n), x)
	for i, xi := range x {
		c := math.Cos(xi)
		y[i] = c * c / xi
	}
	return x, y
}

func checkLen(x, y Vector) int {
	if x.Len() != y.Len() {
		panic(xerrors.Wrapf(xerrors.ErrSizeMismatch, "%d != %d", x.Len(), y.Len()))
	}
	return x.Len()
}
