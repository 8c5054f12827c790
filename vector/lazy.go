package vector

// Expr 未求值的表达式节点，At 按需逐元素计算
//
// 表达式树在 Materialize 时通过一次遍历写入结果，不产生中间临时向量。
type Expr interface {
	Vector
	depth() int
}

// Leaf 已求值的数据
type Leaf []float64

func (l Leaf) Len() int         { return len(l) }
func (l Leaf) At(i int) float64 { return l[i] }
func (l Leaf) depth() int       { return 0 }

type scaled struct {
	a float64
	x Vector
}

func (e scaled) Len() int         { return e.x.Len() }
func (e scaled) At(i int) float64 { return e.a * e.x.At(i) }
func (e scaled) depth() int       { return depthOf(e.x) + 1 }

type added struct {
	x, y Vector
}

func (e added) Len() int         { return e.x.Len() }
func (e added) At(i int) float64 { return e.x.At(i) + e.y.At(i) }
func (e added) depth() int       { return max(depthOf(e.x), depthOf(e.y)) + 1 }

type mapped struct {
	f func(float64) float64
	x Vector
}

func (e mapped) Len() int         { return e.x.Len() }
func (e mapped) At(i int) float64 { return e.f(e.x.At(i)) }
func (e mapped) depth() int       { return depthOf(e.x) + 1 }

// Depth 返回表达式树的深度，已求值的数据深度为 0
func Depth(v Vector) int {
	return depthOf(v)
}

func depthOf(v Vector) int {
	if e, ok := v.(Expr); ok {
		return e.depth()
	}
	return 0
}

type lazyBackend struct{}

func (lazyBackend) Kind() Kind { return KindLazy }

func (lazyBackend) New(data []float64) Vector {
	return Leaf(append([]float64(nil), data...))
}

func (lazyBackend) Scale(a float64, x Vector) Vector {
	return scaled{a: a, x: x}
}

func (lazyBackend) Add(x, y Vector) Vector {
	checkLen(x, y)
	return added{x: x, y: y}
}

func (lazyBackend) Map(f func(float64) float64, x Vector) Vector {
	return mapped{f: f, x: x}
}

func (lazyBackend) Materialize(v Vector) Vector {
	if l, ok := v.(Leaf); ok {
		return l
	}
	out := make(Leaf, v.Len())
	for i := range out {
		out[i] = v.At(i)
	}
	return out
}
