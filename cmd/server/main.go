// Package main runs the HTTP API: Blueprint, synastry and layer computation,
// snapshot history and verification, and the transit websocket stream.
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"cosmic-blueprint/internal/api"
	"cosmic-blueprint/internal/bootstrap"
	"cosmic-blueprint/internal/config"
	"cosmic-blueprint/internal/logging"
	"cosmic-blueprint/internal/observability"
)

const shutdownTimeout = 30 * time.Second

func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		logging.Must("error", "console").Fatal("load config", zap.Error(err))
	}

	// Flags override the environment
	flag.StringVar(&cfg.HTTPAddr, "addr", cfg.HTTPAddr, "HTTP listen address")
	flag.StringVar(&cfg.PostgresDSN, "postgres-dsn", cfg.PostgresDSN, "PostgreSQL connection string")
	flag.StringVar(&cfg.ClickhouseDSN, "clickhouse-dsn", cfg.ClickhouseDSN, "ClickHouse connection string")
	flag.StringVar(&cfg.RedisURL, "redis-url", cfg.RedisURL, "Redis URL for the Blueprint cache")
	flag.BoolVar(&cfg.UseMemory, "use-memory", cfg.UseMemory, "Use in-memory storage instead of PostgreSQL/ClickHouse")
	flag.DurationVar(&cfg.TransitInterval, "transit-interval", cfg.TransitInterval, "Transit stream push interval")
	flag.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	flag.Parse()

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		logging.Must("error", "console").Fatal("create logger", zap.Error(err))
	}
	defer logger.Sync()

	if err := cfg.Validate(); err != nil {
		logger.Fatal("invalid config", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metrics := observability.NewMetrics("", prometheus.DefaultRegisterer)

	svc, closeStores, err := bootstrap.NewService(ctx, cfg, logger, metrics)
	if err != nil {
		logger.Fatal("create service", zap.Error(err))
	}
	defer closeStores()

	srv := &http.Server{
		Addr: cfg.HTTPAddr,
		Handler: api.NewRouter(api.Options{
			Service:         svc,
			Logger:          logger,
			Metrics:         metrics,
			MetricsHandler:  observability.Handler(),
			TransitInterval: cfg.TransitInterval,
			RequestTimeout:  30 * time.Second,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			logger.Error("http server error", zap.Error(err))
			closeStores()
			os.Exit(1)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}

	logger.Info("shutdown complete")
}
