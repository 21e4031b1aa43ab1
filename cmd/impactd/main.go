package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/joho/godotenv"

	"github.com/couchcryptid/storm-impact-report/internal/adapter/csvsource"
	httpadapter "github.com/couchcryptid/storm-impact-report/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/storm-impact-report/internal/adapter/kafka"
	"github.com/couchcryptid/storm-impact-report/internal/config"
	"github.com/couchcryptid/storm-impact-report/internal/domain"
	"github.com/couchcryptid/storm-impact-report/internal/observability"
	"github.com/couchcryptid/storm-impact-report/internal/pipeline"
)

func main() {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := sharedobs.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.FetchEnabled {
		fetcher := csvsource.NewFetcher(cfg.SourceURL, cfg.FetchTimeout, logger)
		if _, err := fetcher.Ensure(ctx, cfg.SourcePath); err != nil {
			logger.Error("source fetch failed", "error", err, "url", cfg.SourceURL)
			os.Exit(1)
		}
	}

	source := csvsource.NewReader(cfg.SourcePath, logger)
	transformer := pipeline.NewTransformer(logger, metrics)

	// Leave the interface nil (not a typed nil) when publishing is disabled.
	var publisher pipeline.ReportPublisher
	var writer *kafkaadapter.Writer
	if cfg.PublishEnabled {
		writer = kafkaadapter.NewWriter(cfg, logger)
		publisher = writer
		logger.Info("kafka publishing enabled", "topic", cfg.KafkaReportTopic, "brokers", cfg.KafkaBrokers)
	} else {
		logger.Info("kafka publishing disabled")
	}

	p := pipeline.New(source, transformer, publisher, logger, metrics, domain.ReportOptions{
		TopN:      cfg.TopN,
		DamageKey: cfg.DamageKey,
	})

	srv := httpadapter.NewServer(cfg.HTTPAddr, p, p, logger)

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Build the report once; the server keeps serving it until shutdown.
	go func() {
		if _, err := p.Run(ctx); err != nil {
			logger.Error("pipeline error", "error", err)
		}
	}()

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
