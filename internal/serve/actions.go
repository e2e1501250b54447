package serve

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/eventscope/internal/common"
	"github.com/dtnitsch/eventscope/pkg/metrics"
	"github.com/dtnitsch/eventscope/pkg/pipeline"
	"github.com/dtnitsch/eventscope/pkg/server"
)

// ServeAction serves the dashboard API until SIGINT/SIGTERM.
func ServeAction(c *cli.Context) error {
	logger := common.NewLogger(c)

	cfg, mapping, err := common.LoadRuntime(c)
	if err != nil {
		return err
	}
	if c.IsSet("listen") {
		cfg.Server.ListenAddress = c.String("listen")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	p := pipeline.New(cfg, mapping, logger, m)

	// Fail fast on a broken deployment instead of on the first request.
	if _, err := p.Build(c.Context); err != nil {
		return fmt.Errorf("initial load failed: %w", err)
	}

	srv := &http.Server{
		Addr:         cfg.Server.ListenAddress,
		Handler:      server.New(p, logger, reg, cfg.Server.AllowedOrigins).Routes(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening",
			"addr", srv.Addr,
			"mapping_keys", mapping.Len(),
			"tag_scope", cfg.Views.TagScope,
			"geofence", cfg.Geofence.Enabled,
		)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("shutdown complete")
	return nil
}
