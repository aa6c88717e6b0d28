package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/BarthGve/budget-wizard-fr-sub000/internal/amqp"
	"github.com/BarthGve/budget-wizard-fr-sub000/internal/config"
	apphttp "github.com/BarthGve/budget-wizard-fr-sub000/internal/http"
	applog "github.com/BarthGve/budget-wizard-fr-sub000/internal/log"
	"github.com/BarthGve/budget-wizard-fr-sub000/internal/services"
	"github.com/BarthGve/budget-wizard-fr-sub000/internal/storage"
)

func main() {
	// Load .env for local development; absent in production.
	_ = godotenv.Load()

	logger := applog.New(applog.DefaultConfig()).WithComponent("api")
	applog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	// AMQP is optional: without a broker credits still work, snapshots just
	// wait for the periodic fallback.
	var publisher services.EventPublisher
	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Warn("AMQP unavailable, credit events disabled", "error", err)
	} else {
		defer amqpClient.Close()
		publisher = amqpClient
	}

	creditSvc := services.NewCreditService(repo, publisher)
	srv := apphttp.NewServer(":"+cfg.Port, repo, creditSvc)

	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		cancel()
	}()

	logger.Info("Starting budget-wizard server", "port", cfg.Port, "db", cfg.SQLiteDBPath)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}
