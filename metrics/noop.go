package metrics

import (
	"context"
	"net/http"

	"github.com/ceyewan/exprbench/timer"
)

// Discard 返回不做任何事的 Publisher，Handler 总是返回 404
func Discard() Publisher {
	return noopPublisher{}
}

type noopPublisher struct{}

func (noopPublisher) PublishCumulative(context.Context, []timer.Entry[timer.Cumulative], ...Label) {}
func (noopPublisher) PublishViolin(context.Context, []timer.Entry[timer.Violin], ...Label)         {}
func (noopPublisher) Handler() http.Handler                                                        { return http.NotFoundHandler() }
func (noopPublisher) Shutdown(context.Context) error                                               { return nil }

// Serve 阻塞直到 ctx 结束
func (noopPublisher) Serve(ctx context.Context) error {
	<-ctx.Done()
	return nil
}
