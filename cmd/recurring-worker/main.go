package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"plenio/internal/cli"
	"plenio/internal/services"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	logger.Info("Starting recurring-worker")

	cfg := cli.LoadAndValidateConfig(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	result := cli.InitBackend(ctx, logger, cfg)
	defer cli.CleanupBackend(logger, result)

	// AMQP client so materialized transactions emit events like any other
	amqpClient := cli.InitOptionalAMQP(logger, cfg)
	if amqpClient != nil {
		defer amqpClient.Close()
	}

	txnService := services.NewTransactionService(result.Backend, amqpClient)
	processor := services.NewRecurringProcessor(result.Backend, txnService)

	logger.Info("Recurring transaction processor configured",
		"interval", cfg.RecurringInterval,
		"backend", cfg.DataBackend)

	// Run initial processing on startup
	if count, err := processor.ProcessDue(ctx, time.Now()); err != nil {
		logger.Error("Initial processing failed", "error", err)
	} else {
		logger.Info("Initial processing complete", "transactions_created", count)
	}

	ticker := time.NewTicker(cfg.RecurringInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Recurring-worker shutdown complete")
			return
		case now := <-ticker.C:
			count, err := processor.ProcessDue(ctx, now)
			if err != nil {
				logger.Error("Periodic processing failed", "error", err)
				continue
			}
			logger.Info("Periodic processing complete",
				"transactions_created", count,
				"next_check", now.Add(cfg.RecurringInterval).Format("15:04:05"))
		}
	}
}
