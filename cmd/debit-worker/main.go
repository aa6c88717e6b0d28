package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"github.com/BarthGve/budget-wizard-fr-sub000/internal/config"
	"github.com/BarthGve/budget-wizard-fr-sub000/internal/core"
	applog "github.com/BarthGve/budget-wizard-fr-sub000/internal/log"
	"github.com/BarthGve/budget-wizard-fr-sub000/internal/services"
	"github.com/BarthGve/budget-wizard-fr-sub000/internal/storage"
)

func main() {
	// Load .env for local development; absent in production.
	_ = godotenv.Load()

	logger := applog.New(applog.DefaultConfig()).WithComponent("debit-worker")
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

	processor := services.NewDebitProcessor(repo)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	run := func() {
		now := time.Now()
		due, err := processor.ProcessDueCharges(ctx, now)
		if err != nil {
			logger.Error("Debit run failed", "error", err)
			return
		}
		logger.Info("Debit run completed", "date", now.Format("2006-01-02"), "due_charges", len(due))
		for _, d := range due {
			logger.Info("Charge due today",
				"charge_id", d.Charge.ID,
				"name", d.Charge.Name,
				"amount", core.FormatEuros(d.Charge.Amount.Cents),
				"description", d.Debit.Description)
		}
	}

	// Catch up immediately so a late deploy does not skip today's debits.
	run()

	scheduler := cron.New()
	if _, err := scheduler.AddFunc(cfg.DebitCronSpec, run); err != nil {
		logger.Error("Invalid cron spec", "error", err, "spec", cfg.DebitCronSpec)
		os.Exit(1)
	}
	scheduler.Start()
	logger.Info("Debit worker started", "cron", cfg.DebitCronSpec, "db", cfg.SQLiteDBPath)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	logger.Info("Shutdown signal received", "signal", sig.String())

	stopCtx := scheduler.Stop()
	cancel()
	select {
	case <-stopCtx.Done():
	case <-time.After(30 * time.Second):
		logger.Warn("Timed out waiting for running jobs")
	}
	logger.Info("Debit worker stopped gracefully")
}
