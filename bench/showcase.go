package bench

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ceyewan/exprbench/vector"
)

// Showcase 在 x = y = [0 1 2]、a = 2、b = 1 上演示每个容器、每个公式的结果
//
// 两种求值方式在任何容器上都应给出相同的数值，即 [0 3 6]。
func Showcase(w io.Writer) error {
	x := []float64{0, 1, 2}
	y := []float64{0, 1, 2}
	a, b := 2.0, 1.0

	for i, kind := range vector.Kinds() {
		be, err := vector.For(kind)
		if err != nil {
			return err
		}
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s:\n", kind)

		vx, vy := be.New(x), be.New(y)
		for _, f := range formulas {
			for _, st := range []Strategy{StrategyContainer, StrategyAuto} {
				u := f.Eval(be, st, a, b, vx, vy)
				if _, err := fmt.Fprintf(w, "[%-9s] %-11s \t%s\n", st, f.Expr, display(u)); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func display(v vector.Vector) string {
	parts := make([]string, v.Len())
	for i := range parts {
		parts[i] = strconv.FormatFloat(v.At(i), 'g', -1, 64)
	}
	return strings.Join(parts, " ")
}
