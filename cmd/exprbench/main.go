// Command exprbench 比较不同数值容器在线性组合公式上的求值耗时。
//
//	exprbench show
//	exprbench run --containers slice,dense --sizes 1000,100000 --iterations 500 --charts
//	exprbench run --aggregation violin --metrics --serve
//
// 使用 `go build -tags notimer` 构建时计时被编译为空操作，可用于测量埋点本身的开销。
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "exprbench:", err)
		stop()
		os.Exit(1)
	}
}
