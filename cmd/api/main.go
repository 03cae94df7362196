package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Raymond9734/print-connect-backend/internal/app"
	"github.com/Raymond9734/print-connect-backend/internal/config"
	"github.com/Raymond9734/print-connect-backend/internal/handler"
	"github.com/Raymond9734/print-connect-backend/internal/metrics"
	"github.com/Raymond9734/print-connect-backend/internal/service"
	"github.com/Raymond9734/print-connect-backend/internal/worker"
)

func main() {
	// Initialize logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	logger.Info("starting Print Connect API server")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Open the data store
	backend, err := app.OpenBackend(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to open store", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer backend.Close()

	// Connect to the notification queue
	queueClient, inProcess, err := app.OpenQueue(cfg, logger)
	if err != nil {
		logger.Error("failed to open queue", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer queueClient.Close()

	repos := backend.Repos

	// Initialize services
	api := service.NewMockAPI(repos.Providers, repos.Orders, service.APIOptions{
		FetchDelay:  cfg.Mock.FetchDelay,
		SubmitDelay: cfg.Mock.SubmitDelay,
	}, logger)
	catalogSvc := service.NewCatalogService(api, repos.Providers, logger)
	orderSvc := service.NewOrderService(api, repos.Providers, repos.Orders, queueClient, logger)
	userSvc := service.NewUserService(repos.Users)

	// Without Redis there is no separate worker; consume in-process
	consumerDone := make(chan struct{})
	if inProcess {
		processor, err := worker.NewNotificationProcessor(
			repos.Orders,
			repos.Providers,
			service.NewTemplateService(),
			service.DefaultNotificationTemplates,
			worker.NewLogNotifier(1.0, logger),
			logger,
		)
		if err != nil {
			logger.Error("failed to build notification processor", slog.String("error", err.Error()))
			os.Exit(1)
		}
		go func() {
			defer close(consumerDone)
			if err := queueClient.Consume(ctx, processor.Process, cfg.Worker.Concurrency); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("in-process consumer stopped", slog.String("error", err.Error()))
			}
		}()
	} else {
		close(consumerDone)
	}

	// A nil *db.DB must not become a non-nil HealthChecker
	var dbHealth handler.HealthChecker
	if backend.DB != nil {
		dbHealth = backend.DB
	}

	router := handler.NewRouter(handler.Handlers{
		Health:   handler.NewHealthHandler(dbHealth, queueClient, logger),
		Provider: handler.NewProviderHandler(catalogSvc, logger),
		Order:    handler.NewOrderHandler(orderSvc, userSvc, logger),
		Metrics:  metrics.Handler(),
	}, logger)

	// Create server
	addr := fmt.Sprintf(":%d", cfg.API.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("API server listening",
			slog.String("addr", addr),
			slog.String("store", cfg.Store.Backend),
			slog.Bool("in_process_queue", inProcess),
		)
		serverErrors <- server.ListenAndServe()
	}()

	// Wait for interrupt signal or server error
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)

	case sig := <-quit:
		logger.Info("shutting down server", slog.String("signal", sig.String()))

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown failed", slog.String("error", err.Error()))
			os.Exit(1)
		}

		cancel()
		<-consumerDone

		logger.Info("server stopped gracefully")
	}
}
