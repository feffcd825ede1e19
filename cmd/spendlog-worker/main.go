package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"spendlog/internal/amqp"
	"spendlog/internal/config"
	"spendlog/internal/export/sheets"
	applog "spendlog/internal/log"
	"spendlog/internal/storage"
	"spendlog/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := applog.New(applog.DefaultConfig()).WithComponent(applog.ComponentWorker)
	applog.SetDefault(logger)

	logger.Info("Starting spendlog-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL must be set for the worker")
		os.Exit(1)
	}

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Sheets export is optional; the audit table alone is a valid setup
	var exporter worker.EventExporter
	if cfg.ExportSpreadsheetID != "" {
		exp, err := sheets.NewFromEnv(ctx, cfg.ExportSpreadsheetID, cfg.ExportSheetName)
		if err != nil {
			logger.Error("Failed to initialize Google Sheets exporter", "error", err)
			os.Exit(1)
		}
		exporter = exp
		logger.Info("Google Sheets export enabled", "spreadsheet_id", cfg.ExportSpreadsheetID, "sheet", cfg.ExportSheetName)
	} else {
		logger.Info("Google Sheets export disabled - no EXPORT_SPREADSHEET_ID provided")
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	auditWorker := worker.NewAuditWorker(repo, exporter, cfg.SweepInterval, cfg.SweepBatch)

	logger.Info("Consuming expense events", "queue", cfg.AMQPQueue, "sweep_interval", cfg.SweepInterval.String())
	if err := auditWorker.Run(ctx, amqpClient); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker stopped with error", "error", err)
		os.Exit(1)
	}

	logger.Info("Worker stopped gracefully")
}
