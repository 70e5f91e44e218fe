package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"plenio/internal/amqp"
	"plenio/internal/cli"
	"plenio/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	logger.Info("Starting plenio-worker")

	cfg := cli.LoadAndValidateConfig(logger)
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the alert worker")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	result := cli.InitBackend(ctx, logger, cfg)
	defer cli.CleanupBackend(logger, result)

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	alertWorker := worker.NewAlertWorker(result.Backend)

	// Consume until the context is cancelled, reconnecting on broker failures
	for {
		err := amqpClient.ConsumeTransactionEvents(ctx, func(event *amqp.TransactionEvent) error {
			return alertWorker.HandleTransactionEvent(ctx, event)
		})
		if err == nil || errors.Is(err, context.Canceled) || ctx.Err() != nil {
			break
		}

		logger.Error("Message consumption failed, reconnecting", "error", err)
		if err := amqpClient.Reconnect(ctx); err != nil {
			logger.Error("Reconnect failed", "error", err)
			break
		}
	}

	logger.Info("Worker shutdown complete")
}
