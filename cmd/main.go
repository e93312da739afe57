package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/okian/vitrine/internal/adapters/http/api"
	"github.com/okian/vitrine/internal/adapters/http/site"
	"github.com/okian/vitrine/internal/adapters/http/swagger"
	"github.com/okian/vitrine/internal/adapters/probe"
	service "github.com/okian/vitrine/internal/app"
	"github.com/okian/vitrine/internal/config"
	"github.com/okian/vitrine/internal/domain/binder"
	"github.com/okian/vitrine/internal/domain/payload"
	"github.com/okian/vitrine/internal/skin"
	"github.com/okian/vitrine/pkg/logger"
	"github.com/okian/vitrine/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout               = 10 * time.Second
	writeTimeout              = 15 * time.Second
	idleTimeout               = 60 * time.Second
	readHeaderTimeout         = 5 * time.Second
	shutdownTimeout           = 30 * time.Second
	systemMetricsInterval     = 10 * time.Second
	serviceMetricsInterval    = 5 * time.Second
	nanosecondsPerMillisecond = 1e6
)

func main() {
	if err := run(); err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
}

func run() error {
	// Text logging until the configured format is known.
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := logger.Init(logger.WithFormat(cfg.LogFormat)); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	log := logger.Get()
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}
	if cfg.RuntimeMetrics {
		metrics.RegisterRuntimeCollectors()
	}

	svc, err := buildService(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to build service: %w", err)
	}
	// Probe workers outlive the signal so in-flight pages finish during
	// server shutdown; the deferred Stop drains them.
	if err := svc.Start(context.WithoutCancel(ctx)); err != nil {
		return fmt.Errorf("failed to start service: %w", err)
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := svc.Stop(stopCtx); err != nil {
			log.Error(stopCtx, "service stop failed", logger.Error(err))
		}
	}()

	go startSystemMetricsUpdater(ctx)
	go startServiceMetricsUpdater(ctx, svc)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newMux(ctx, svc, log),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("HTTP server failed: %w", err)
		}
	}
	log.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(shutdownCtx, "server shutdown failed", logger.Error(err))
	}
	log.Info(shutdownCtx, "server stopped")
	return nil
}

// buildService assembles the page service from configuration.
func buildService(cfg *config.Config, log logger.Logger) (*service.Service, error) {
	skins, err := skin.NewRegistry(skin.WithDefault(cfg.DefaultSkin))
	if err != nil {
		return nil, err
	}
	prober, err := probe.New(
		probe.WithEnabled(cfg.ProbeEnabled),
		probe.WithWorkers(cfg.ProbeWorkers),
		probe.WithQueueSize(cfg.ProbeQueueSize),
		probe.WithTimeout(cfg.ProbeTimeout()),
		probe.WithCacheSize(cfg.ProbeCacheSize),
		probe.WithCacheTTL(cfg.ProbeCacheTTL()),
		probe.WithAllowPrivateNetworks(cfg.ProbeAllowPrivate),
		probe.WithLogger(log),
	)
	if err != nil {
		return nil, err
	}
	return service.New(
		service.WithLogger(log),
		service.WithSkins(skins),
		service.WithDecoder(payload.NewDecoder(payload.WithParam(cfg.PayloadParam), payload.WithLogger(log))),
		service.WithWriter(binder.NewWriter(binder.WithRequiredSlots(cfg.RequiredSlots...), binder.WithLogger(log))),
		service.WithProber(prober),
		service.WithPlaceholders(cfg.Placeholders),
		service.WithContactMessage(cfg.ContactMessage),
		service.WithPublicBaseURL(cfg.PublicBaseURL),
	)
}

// newMux registers every route on a fresh mux.
func newMux(ctx context.Context, svc *service.Service, log logger.Logger) *http.ServeMux {
	mux := http.NewServeMux()
	swagger.Register(ctx, mux)
	site.Register(ctx, mux)
	api.NewServer(svc, api.WithLogger(log)).Register(ctx, mux)
	return mux
}

// startSystemMetricsUpdater starts a background goroutine that updates system metrics.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

// startServiceMetricsUpdater starts a background goroutine that updates service metrics.
func startServiceMetricsUpdater(ctx context.Context, svc *service.Service) {
	ticker := time.NewTicker(serviceMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateServiceMetrics(svc)
		}
	}
}

// updateSystemMetrics updates system-level metrics.
func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())

	if m.NumGC > 0 {
		avgPauseMs := float64(m.PauseTotalNs) / float64(m.NumGC) / nanosecondsPerMillisecond
		metrics.RecordSystemGCPauseTime(avgPauseMs)
	}
}

// updateServiceMetrics refreshes the probe gauges from service stats.
func updateServiceMetrics(svc *service.Service) {
	st := svc.GetStats().Probe
	metrics.UpdateProbeQueueSize(st.QueueLen)
	metrics.UpdateProbeQueueCapacity(st.QueueCap)
	metrics.UpdateProbeWorkers(st.Workers)
}
