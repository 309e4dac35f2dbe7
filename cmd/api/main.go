package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"taskboard/internal/adapter/database"
	apihttp "taskboard/internal/adapter/http"
	"taskboard/internal/core/port"
	coretelemetry "taskboard/internal/core/telemetry"
	"taskboard/pkg/config"
	"taskboard/pkg/logger"
	"taskboard/pkg/telemetry"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()

	if err != nil {
		return err
	}

	appLogger, err := logger.New(cfg.ServiceName, cfg.Log.Level, cfg.Log.LokiURL)

	if err != nil {
		return err
	}

	defer appLogger.Sync()

	var (
		registry = prometheus.NewRegistry()
		probe    port.Telemetry
		tel      *telemetry.Telemetry
	)

	if cfg.Telemetry.Enabled {
		tel, err = telemetry.Init(ctx, telemetry.Config{
			ServiceName:    cfg.ServiceName,
			ServiceVersion: cfg.Version,
			Environment:    cfg.Environment,
			MetricsPort:    cfg.Telemetry.MetricsPort,
			OTLPEndpoint:   cfg.Telemetry.OTLPEndpoint,
		}, appLogger.Zap())

		if err != nil {
			return err
		}

		registry = tel.PrometheusRegistry
		probe = coretelemetry.NewOTELProbe(slog.Default())
	} else {
		probe = coretelemetry.NewNoOpProbe()
	}

	metrics := telemetry.NewAppMetrics(registry)
	metrics.StartSystemMetrics(ctx, 15*time.Second)

	store, err := database.Open(ctx, cfg, appLogger, probe)

	if err != nil {
		return err
	}

	limiter, err := apihttp.NewRateLimitStore(ctx, cfg, appLogger)

	if err != nil {
		store.Close()
		return err
	}

	container := apihttp.NewContainer(store, cfg, appLogger, metrics, probe)
	server := apihttp.NewServer(cfg, container, appLogger, metrics, limiter)

	errCh := make(chan error, 1)

	go func() {
		errCh <- server.Start()
	}()

	select {
	case err = <-errCh:
	case <-ctx.Done():
		appLogger.Info(ctx, "Shutting down gracefully...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	errs := []error{err, server.Shutdown(shutdownCtx), store.Close()}

	if tel != nil {
		errs = append(errs, tel.Shutdown(shutdownCtx))
	}

	if err := errors.Join(errs...); err != nil {
		appLogger.Error(shutdownCtx, "Shutdown finished with errors", zap.Error(err))
		return err
	}

	return nil
}
