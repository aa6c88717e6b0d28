package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/BarthGve/budget-wizard-fr-sub000/internal/amqp"
	"github.com/BarthGve/budget-wizard-fr-sub000/internal/config"
	applog "github.com/BarthGve/budget-wizard-fr-sub000/internal/log"
	"github.com/BarthGve/budget-wizard-fr-sub000/internal/sheets"
	"github.com/BarthGve/budget-wizard-fr-sub000/internal/sheets/google"
	"github.com/BarthGve/budget-wizard-fr-sub000/internal/storage"
	"github.com/BarthGve/budget-wizard-fr-sub000/internal/worker"
)

func main() {
	// Load .env for local development; absent in production.
	_ = godotenv.Load()

	logger := applog.New(applog.DefaultConfig()).WithComponent("snapshot-worker")
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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// The Sheets export is optional; without a spreadsheet the snapshots
	// still land in SQLite.
	var report sheets.ReportWriter
	if cfg.GoogleSpreadsheetID != "" {
		client, err := google.NewFromEnv(ctx)
		if err != nil {
			logger.Warn("Google Sheets export disabled", "error", err)
		} else {
			report = client
		}
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to connect to AMQP", "error", err, "url", cfg.AMQPURL)
		os.Exit(1)
	}
	defer amqpClient.Close()

	if err := amqpClient.SetPrefetch(cfg.SnapshotBatchSize); err != nil {
		logger.Warn("Failed to set consumer prefetch", "error", err)
	}

	snapshotWorker := worker.NewSnapshotWorker(repo, report)

	// First snapshot at startup so a fresh deployment reports immediately.
	if err := snapshotWorker.TakeSnapshots(ctx); err != nil {
		logger.Error("Initial snapshot failed", "error", err)
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return amqpClient.ConsumeCreditEvents(gctx, func(msg *amqp.CreditEventMessage) error {
			return snapshotWorker.HandleCreditEvent(gctx, msg)
		})
	})

	g.Go(func() error {
		ticker := time.NewTicker(cfg.SnapshotInterval)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return gctx.Err()
			case <-ticker.C:
				if err := snapshotWorker.TakeSnapshots(gctx); err != nil {
					logger.Error("Periodic snapshot failed", "error", err)
				}
			}
		}
	})

	logger.Info("Snapshot worker started",
		"queue", cfg.AMQPQueue,
		"interval", cfg.SnapshotInterval.String(),
		"sheets_export", report != nil)

	if err := g.Wait(); err != nil && ctx.Err() == nil {
		logger.Error("Snapshot worker error", "error", err)
		os.Exit(1)
	}
	logger.Info("Snapshot worker stopped gracefully")
}
