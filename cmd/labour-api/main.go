package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/labour-insights-service/internal/adapter/filecache"
	httpadapter "github.com/couchcryptid/labour-insights-service/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/labour-insights-service/internal/adapter/kafka"
	"github.com/couchcryptid/labour-insights-service/internal/adapter/statcan"
	"github.com/couchcryptid/labour-insights-service/internal/config"
	"github.com/couchcryptid/labour-insights-service/internal/domain"
	"github.com/couchcryptid/labour-insights-service/internal/observability"
	"github.com/couchcryptid/labour-insights-service/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	// Refresh notifications are feature-flagged via KAFKA_BROKERS.
	var (
		notifier filecache.RefreshNotifier
		writer   *kafkaadapter.Writer
	)
	if cfg.NotifyEnabled() {
		writer = kafkaadapter.NewWriter(cfg, logger)
		notifier = writer
		logger.Info("refresh notifications enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaRefreshTopic)
	} else {
		logger.Info("refresh notifications disabled")
	}

	client := statcan.NewClient(domain.SourceURL, domain.FetchTimeout, logger)
	loader := filecache.NewLoader(client, cfg.CacheDir, notifier, logger, metrics)
	svc := pipeline.New(loader, logger, metrics)

	srv := httpadapter.NewServer(cfg.HTTPAddr, svc, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("http server listening", "addr", cfg.HTTPAddr)
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	go svc.Warm(ctx)

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
