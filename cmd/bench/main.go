package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonboulle/clockwork"

	httpadapter "github.com/couchcryptid/motion-bench-service/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/motion-bench-service/internal/adapter/kafka"
	"github.com/couchcryptid/motion-bench-service/internal/advect"
	"github.com/couchcryptid/motion-bench-service/internal/bench"
	"github.com/couchcryptid/motion-bench-service/internal/config"
	"github.com/couchcryptid/motion-bench-service/internal/flow"
	"github.com/couchcryptid/motion-bench-service/internal/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	// Initialize the results sink (feature-flagged via KAFKA_ENABLED).
	var publisher bench.ResultPublisher
	var writer *kafkaadapter.Writer
	if cfg.KafkaEnabled {
		writer = kafkaadapter.NewWriter(cfg, logger)
		publisher = writer
		logger.Info("kafka results sink enabled", "topic", cfg.KafkaResultsTopic)
	} else {
		logger.Info("kafka results sink disabled")
	}

	runner := bench.New(
		advect.New(),
		flow.NewRegistry(),
		publisher,
		logger,
		metrics,
		clockwork.NewRealClock(),
		cfg,
	)

	srv := httpadapter.NewServer(cfg.HTTPAddr, runner, runner, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Start benchmark runner.
	go func() {
		if err := runner.Run(ctx); err != nil {
			logger.Error("benchmark runner error", "error", err)
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
