package vector

import "gonum.org/v1/gonum/mat"

// Dense 基于 gonum mat.VecDense 的容器
type Dense struct {
	vec *mat.VecDense
}

// NewDense 拷贝 data 构造 Dense，空数据得到长度为 0 的向量
func NewDense(data []float64) *Dense {
	if len(data) == 0 {
		return &Dense{}
	}
	return &Dense{vec: mat.NewVecDense(len(data), append([]float64(nil), data...))}
}

func (d *Dense) Len() int {
	if d.vec == nil {
		return 0
	}
	return d.vec.Len()
}

func (d *Dense) At(i int) float64 { return d.vec.AtVec(i) }

// Raw 返回底层 VecDense，长度为 0 时为 nil
func (d *Dense) Raw() *mat.VecDense { return d.vec }

type denseBackend struct{}

func (denseBackend) Kind() Kind { return KindDense }

func (denseBackend) New(data []float64) Vector { return NewDense(data) }

func (denseBackend) Scale(a float64, x Vector) Vector {
	dx := asDense(x)
	if dx.vec == nil {
		return &Dense{}
	}
	var out mat.VecDense
	out.ScaleVec(a, dx.vec)
	return &Dense{vec: &out}
}

func (denseBackend) Add(x, y Vector) Vector {
	checkLen(x, y)
	dx, dy := asDense(x), asDense(y)
	if dx.vec == nil {
		return &Dense{}
	}
	var out mat.VecDense
	out.AddVec(dx.vec, dy.vec)
	return &Dense{vec: &out}
}

func (denseBackend) Map(f func(float64) float64, x Vector) Vector {
	data := make([]float64, x.Len())
	for i := range data {
		data[i] = f(x.At(i))
	}
	if len(data) == 0 {
		return &Dense{}
	}
	return &Dense{vec: mat.NewVecDense(len(data), data)}
}

func (denseBackend) Materialize(v Vector) Vector {
	return asDense(v)
}

func asDense(v Vector) *Dense {
	if d, ok := v.(*Dense); ok {
		return d
	}
	return NewDense(ToSlice(v))
}
