package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/rafflefi/backend/internal/common"
	"github.com/rafflefi/backend/pkg/prometheus"
	"github.com/rafflefi/backend/pkg/xcontext"

	"golang.org/x/sync/errgroup"
)

// servePrometheus exposes the metrics of this process until ctx is done. It
// does nothing if no prometheus port is configured.
func (s *srv) servePrometheus(ctx context.Context, g *errgroup.Group) {
	cfg := xcontext.Configs(s.ctx).PrometheusServer
	if cfg.Port == "" {
		return
	}

	server := &http.Server{
		Addr:              cfg.Address(),
		Handler:           prometheus.NewHandler(common.PromCollectors()...),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g.Go(func() error {
		xcontext.Logger(s.ctx).Infof("Starting prometheus on %s", cfg.Address())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
}
