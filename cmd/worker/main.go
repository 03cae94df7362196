package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Raymond9734/print-connect-backend/internal/app"
	"github.com/Raymond9734/print-connect-backend/internal/config"
	"github.com/Raymond9734/print-connect-backend/internal/service"
	"github.com/Raymond9734/print-connect-backend/internal/worker"
)

func main() {
	// Initialize logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	logger.Info("starting Print Connect notification worker")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := app.CheckWorker(cfg); err != nil {
		logger.Error("invalid worker configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	backend, err := app.OpenBackend(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to open store", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer backend.Close()

	queueClient, _, err := app.OpenQueue(cfg, logger)
	if err != nil {
		logger.Error("failed to open queue", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer queueClient.Close()

	processor, err := worker.NewNotificationProcessor(
		backend.Repos.Orders,
		backend.Repos.Providers,
		service.NewTemplateService(),
		service.DefaultNotificationTemplates,
		worker.NewLogNotifier(1.0, logger),
		logger,
	)
	if err != nil {
		logger.Error("failed to build notification processor", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Start consuming notifications
	consumerErrors := make(chan error, 1)
	go func() {
		logger.Info("starting notification consumer",
			slog.Int("concurrency", cfg.Worker.Concurrency),
		)
		consumerErrors <- queueClient.Consume(ctx, processor.Process, cfg.Worker.Concurrency)
	}()

	// Wait for interrupt signal or consumer error
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-consumerErrors:
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("consumer error", slog.String("error", err.Error()))
			os.Exit(1)
		}

	case sig := <-quit:
		logger.Info("shutting down worker", slog.String("signal", sig.String()))

		// Consume drains in-flight jobs before returning
		cancel()

		select {
		case <-consumerErrors:
		case <-time.After(10 * time.Second):
			logger.Warn("timed out waiting for in-flight jobs")
		}

		logger.Info("worker stopped gracefully")
	}
}
