package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"finanzas/internal/amqp"
	"finanzas/internal/config"
	"finanzas/internal/export"
	gsheet "finanzas/internal/export/google"
	"finanzas/internal/ledger"
	applog "finanzas/internal/log"
	"finanzas/internal/storage"
	"finanzas/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	// Setup structured logging
	logger := applog.New(applog.Config{
		Level:     slog.LevelInfo,
		Component: applog.ComponentWorker,
	})
	applog.SetDefault(logger)

	logger.Info("Starting finanzas-worker")

	// Load configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	// Ledger file store (shared with the server through the filesystem)
	store := ledger.NewStore(cfg.DataFile)

	// Mirror database
	mirror, err := storage.NewMirrorRepository(cfg.MirrorDBPath)
	if err != nil {
		logger.Error("Failed to initialize mirror repository", "error", err, "path", cfg.MirrorDBPath)
		os.Exit(1)
	}
	defer mirror.Close()

	// Google Sheets summary exporter (optional)
	var exporter export.SummaryAppender
	if cfg.GoogleSpreadsheetID != "" {
		client, err := gsheet.NewFromEnv(context.Background())
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", "error", err)
			os.Exit(1)
		}
		exporter = client
		logger.Info("Google Sheets exporter initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	} else {
		logger.Info("Google Sheets export disabled - no GOOGLE_SPREADSHEET_ID provided")
	}

	// AMQP client for consuming change messages
	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	// Cancel on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	mirrorWorker := worker.NewMirrorWorker(store, mirror, exporter)

	// Startup refresh so the mirror reflects the current file immediately
	logger.Info("Performing startup mirror refresh...")
	if err := mirrorWorker.Refresh(ctx); err != nil {
		logger.Error("Startup mirror refresh failed", "error", err)
		// Don't exit - continue with normal operation
	}

	g, gctx := errgroup.WithContext(ctx)

	// Consume change messages
	g.Go(func() error {
		err := amqpClient.ConsumeLedgerChanges(gctx, func(msg *amqp.LedgerChangeMessage) error {
			return mirrorWorker.HandleChange(gctx, msg)
		})
		if err != nil && err != context.Canceled {
			return err
		}
		return nil
	})

	// Periodic refresh covers missed messages
	g.Go(func() error {
		ticker := time.NewTicker(cfg.MirrorInterval)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				if err := mirrorWorker.Refresh(gctx); err != nil {
					logger.Error("Periodic mirror refresh failed", "error", err)
				}
			}
		}
	})

	if err := g.Wait(); err != nil {
		logger.Error("Worker stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("Worker shutdown complete")
}
