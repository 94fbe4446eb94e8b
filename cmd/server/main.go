// Command server runs the InkLine HTTP API.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	mongo "inkline/internal/clients/mongo"
	"inkline/internal/config"
	"inkline/internal/logger"

	"github.com/grafana/pyroscope-go"
	_ "go.uber.org/automaxprocs"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 25 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.New(os.Stderr, "bootstrap: ", log.LstdFlags).Printf("config load failed: %v", err)
		os.Exit(1)
	}
	logg, _ := logger.Init(cfg)

	if err := run(ctx, cfg, logg); err != nil {
		logg.Error("fatal", "err", err)
		os.Exit(1)
	}
	logg.Info("graceful shutdown complete")
}

func run(ctx context.Context, cfg config.Config, logg *slog.Logger) error {
	defer startProfiler(cfg, logg)()

	if _, _, err := mongo.Init(ctx, cfg, logg); err != nil {
		return fmt.Errorf("mongo init: %w", err)
	}

	app, err := setupRouter(ctx, cfg)
	if err != nil {
		_ = mongo.Shutdown(context.Background())
		return fmt.Errorf("router setup: %w", err)
	}

	logg.Info("starting InkLine", "port", cfg.AppPort, "quota", cfg.NoteQuota, "quota_scope", cfg.QuotaScope)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := app.Listen(fmt.Sprintf(":%d", cfg.AppPort))
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			return err
		}
		return mongo.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// startProfiler pushes continuous profiles when PYROSCOPE_SERVER_ADDRESS is
// set. The returned func stops it.
func startProfiler(cfg config.Config, logg *slog.Logger) func() {
	if cfg.PyroscopeAddress == "" {
		return func() {}
	}
	profiler, err := pyroscope.Start(pyroscope.Config{
		ApplicationName: "inkline.server",
		ServerAddress:   cfg.PyroscopeAddress,
		ProfileTypes: []pyroscope.ProfileType{
			pyroscope.ProfileCPU,
			pyroscope.ProfileAllocSpace,
			pyroscope.ProfileInuseSpace,
			pyroscope.ProfileGoroutines,
		},
	})
	if err != nil {
		logg.Warn("pyroscope disabled", "err", err)
		return func() {}
	}
	logg.Info("continuous profiling enabled", "server", cfg.PyroscopeAddress)
	return func() { _ = profiler.Stop() }
}
