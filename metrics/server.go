package metrics

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/ceyewan/exprbench/clog"
	"github.com/ceyewan/exprbench/xerrors"
)

const shutdownTimeout = 5 * time.Second

func (p *publisher) Serve(ctx context.Context) error {
	if p.cfg.Port <= 0 {
		return xerrors.Wrap(xerrors.ErrInvalidConfig, "metrics port is required to serve")
	}
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", p.cfg.Port))
	if err != nil {
		return xerrors.Wrapf(err, "listen on port %d", p.cfg.Port)
	}
	return serve(ctx, ln, p.cfg.Path, p.handler, p.logger)
}

func serve(ctx context.Context, ln net.Listener, path string, h http.Handler, logger clog.Logger) error {
	mux := http.NewServeMux()
	mux.Handle(path, h)
	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("metrics server shutdown", clog.Error(err))
		}
	}()

	logger.Info("serving metrics", clog.String("addr", ln.Addr().String()), clog.String("path", path))
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return xerrors.Wrap(err, "serve metrics")
	}
	return nil
}
