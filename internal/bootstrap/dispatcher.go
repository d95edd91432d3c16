package bootstrap

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/brightside-platform/alert-service/config"
	"github.com/brightside-platform/alert-service/internal/core"
	"github.com/brightside-platform/alert-service/internal/data"
	"github.com/brightside-platform/alert-service/internal/observability/metrics"
	"github.com/brightside-platform/alert-service/internal/service"
	"github.com/brightside-platform/alert-service/internal/transport/smtpmail"
)

// DispatcherOptions carries the wiring inputs for BuildDispatcher. Recorder
// and Metrics are optional; a nil Transport is replaced by an SMTP client
// built from the config.
type DispatcherOptions struct {
	Config    config.AppConfig
	Logger    *slog.Logger
	Transport core.MessageTransport
	Recorder  core.DispatchRecorder
	Metrics   *metrics.DispatchMetrics
}

// BuildDispatcher assembles the alert dispatch pipeline from configuration.
// Configuration problems (missing SMTP credentials) are not fatal here: they
// travel into the dispatcher as its ConfigErr so every dispatch reports an
// invalid_configuration outcome instead of the process refusing to start.
func BuildDispatcher(opts DispatcherOptions) (*service.AlertDispatcher, error) {
	cfg := opts.Config
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	configErr := cfg.SMTP.Validate()

	transport := opts.Transport
	if transport == nil && configErr == nil {
		client, err := smtpmail.NewClient(smtpmail.Config{
			Addr:     cfg.SMTP.Addr(),
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			Timeout:  cfg.SMTP.Timeout,
		})
		if err != nil {
			return nil, err
		}
		transport = client
	}

	from := cfg.Alerts.DefaultFrom
	if from == "" {
		from = cfg.SMTP.Username
	}

	limiter := service.NewRateLimiter(service.RateLimiterOptions{
		Window:       cfg.Alerts.RateWindow,
		MaxPerWindow: cfg.Alerts.MaxPerWindow,
	})

	return service.NewAlertDispatcher(service.AlertDispatcherOptions{
		Limiter:         limiter,
		Selector:        service.NewContactSelector(cfg.Alerts.DefaultRelationships),
		Transport:       transport,
		Recorder:        opts.Recorder,
		Metrics:         opts.Metrics,
		Logger:          logger,
		Enabled:         cfg.Alerts.Enabled,
		FromAddress:     from,
		DeliveryTimeout: cfg.Alerts.DeliveryTimeout,
		ConfigErr:       configErr,
	}), nil
}

// BuildRecorder returns the audit trail recorder when the audit database is
// enabled, or nil when dispatch outcomes should not be persisted.
func BuildRecorder(ctx context.Context, cfg config.DBConfig, logger *slog.Logger) (*data.DispatchAuditRepo, *sql.DB, error) {
	if !cfg.Enabled {
		return nil, nil, nil
	}

	db, err := ConnectDB(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	if err := EnsureAuditSchema(ctx, db, logger); err != nil {
		closeErr := db.Close()
		if closeErr != nil && logger != nil {
			logger.Warn("db close failed", "error", closeErr)
		}
		return nil, nil, err
	}

	return data.NewDispatchAuditRepo(db), db, nil
}

// BuildDirectory selects the contact directory adapter: Redis when enabled,
// otherwise nil so the caller falls back to JSON input.
func BuildDirectory(cfg config.RedisConfig, logger *slog.Logger) (core.ContactDirectory, func() error, error) {
	if !cfg.Enabled {
		return nil, nil, nil
	}

	client, err := ConnectRedis(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	return data.NewRedisDirectory(client), client.Close, nil
}

// StartMetricsServer exposes the dispatch metrics over HTTP when enabled.
// The returned registry is nil when metrics are disabled.
func StartMetricsServer(cfg config.ObservabilityConfig, logger *slog.Logger) (*prometheus.Registry, *metrics.DispatchMetrics) {
	if !cfg.MetricsEnabled {
		return nil, nil
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	dispatchMetrics := metrics.NewDispatchMetrics(registry)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	server := &http.Server{
		Addr:              cfg.MetricsAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			if logger != nil {
				logger.Error("metrics server failed", "addr", cfg.MetricsAddr, "error", err)
			}
		}
	}()

	if logger != nil {
		logger.Info("metrics server listening", "addr", cfg.MetricsAddr)
	}

	return registry, dispatchMetrics
}
