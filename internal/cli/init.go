// Package cli provides common initialization utilities shared by
// cmd/plenio, cmd/plenio-worker, and cmd/recurring-worker.
package cli

import (
	"context"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"plenio/internal/amqp"
	"plenio/internal/backend"
	"plenio/internal/config"
)

// SetupLogger initializes structured logging with default settings.
// Returns the configured logger and sets it as the default logger.
func SetupLogger() *slog.Logger {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration and validates it.
// Returns the config or exits the process on validation failure.
func LoadAndValidateConfig(logger *slog.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	return cfg
}

// InitBackend builds the configured data backend via the factory.
// Returns the backend result or exits the process on failure.
func InitBackend(ctx context.Context, logger *slog.Logger, cfg *config.Config) *backend.BackendResult {
	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Backend configuration failed", "error", err)
		os.Exit(1)
	}
	result, err := backend.NewFactory(logger).CreateBackend(ctx, backendCfg)
	if err != nil {
		logger.Error("Failed to initialize data backend", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	return result
}

// CleanupBackend runs the backend's cleanup func, logging failures.
func CleanupBackend(logger *slog.Logger, result *backend.BackendResult) {
	if result == nil || result.Cleanup == nil {
		return
	}
	if err := result.Cleanup(); err != nil {
		logger.Error("Backend cleanup error", "error", err)
	}
}

// InitOptionalAMQP connects to the broker when AMQP_URL is configured.
// A connection failure downgrades to nil rather than aborting: the caller
// keeps working without events.
func InitOptionalAMQP(logger *slog.Logger, cfg *config.Config) *amqp.Client {
	if cfg.AMQPURL == "" {
		logger.Info("AMQP disabled - transaction events will not be published")
		return nil
	}
	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Warn("Failed to initialize AMQP client, continuing without events", "error", err)
		return nil
	}
	logger.Info("AMQP client initialized", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	return client
}
