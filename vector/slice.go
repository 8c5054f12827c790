package vector

import "gonum.org/v1/gonum/floats"

// Slice []float64 容器，每次运算都会分配一个新的结果
type Slice []float64

func (s Slice) Len() int { return len(s) }

func (s Slice) At(i int) float64 { return s[i] }

type sliceBackend struct{}

func (sliceBackend) Kind() Kind { return KindSlice }

func (sliceBackend) New(data []float64) Vector {
	return Slice(append([]float64(nil), data...))
}

func (sliceBackend) Scale(a float64, x Vector) Vector {
	out := Slice(ToSlice(x))
	floats.Scale(a, out)
	return out
}

func (sliceBackend) Add(x, y Vector) Vector {
	checkLen(x, y)
	out := Slice(ToSlice(x))
	floats.Add(out, asSlice(y))
	return out
}

func (sliceBackend) Map(f func(float64) float64, x Vector) Vector {
	out := make(Slice, x.Len())
	for i := range out {
		out[i] = f(x.At(i))
	}
	return out
}

func (sliceBackend) Materialize(v Vector) Vector {
	return asSlice(v)
}

// asSlice 已是 Slice 时直接返回，否则拷贝
func asSlice(v Vector) Slice {
	if s, ok := v.(Slice); ok {
		return s
	}
	return Slice(ToSlice(v))
}
