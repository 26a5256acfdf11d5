package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"ledger/internal/amqp"
	"ledger/internal/backend"
	"ledger/internal/config"
	applog "ledger/internal/log"
	gsheet "ledger/internal/sheets/google"
	"ledger/internal/worker"
)

func main() {
	_ = godotenv.Load()

	logger := applog.NewFromEnv()
	logger.Info("starting ledger-mirror")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("configuration validation failed", "error", err)
		os.Exit(1)
	}
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the mirror worker")
		os.Exit(1)
	}
	if cfg.GoogleSpreadsheetID == "" {
		logger.Error("GOOGLE_SPREADSHEET_ID is required for the mirror worker")
		os.Exit(1)
	}

	kv, err := backend.Open(backend.Config{
		Type:         backend.Type(cfg.DataBackend),
		SQLiteDBPath: cfg.SQLiteDBPath,
	}, applog.WithComponent(logger, applog.ComponentStorage))
	if err != nil {
		logger.Error("failed to open storage backend", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	defer kv.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	mirror, err := gsheet.NewFromEnv(ctx, applog.WithComponent(logger, applog.ComponentSheets))
	if err != nil {
		logger.Error("failed to initialize spreadsheet client", "error", err)
		os.Exit(1)
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue,
		applog.WithComponent(logger, applog.ComponentAMQP))
	if err != nil {
		logger.Error("failed to connect to AMQP", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	w := worker.NewMirrorWorker(kv, mirror, applog.WithComponent(logger, applog.ComponentWorker))

	// Full refresh at startup so events missed while down are not lost.
	startupCtx, startupCancel := context.WithTimeout(ctx, time.Minute)
	if err := w.MirrorAll(startupCtx); err != nil {
		logger.Error("startup mirror failed", "error", err)
	}
	startupCancel()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return amqpClient.ConsumeSnapshots(ctx, func(msg *amqp.SnapshotMessage) error {
			return w.HandleSnapshot(ctx, msg)
		})
	})

	g.Go(func() error {
		ticker := time.NewTicker(cfg.MirrorInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
				if err := w.MirrorAll(ctx); err != nil {
					logger.Error("periodic mirror failed", "error", err)
				}
			}
		}
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("mirror worker stopped", "error", err)
		os.Exit(1)
	}
	logger.Info("mirror worker stopped gracefully")
}
