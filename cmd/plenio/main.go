package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"plenio/internal/auth"
	"plenio/internal/cli"
	apphttp "plenio/internal/http"
	"plenio/internal/services"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	result := cli.InitBackend(ctx, logger, cfg)
	defer cli.CleanupBackend(logger, result)

	amqpClient := cli.InitOptionalAMQP(logger, cfg)
	if amqpClient != nil {
		defer amqpClient.Close()
	}

	// Token verification
	var verifier auth.Verifier
	switch cfg.AuthMode {
	case "insecure":
		logger.Warn("Running with insecure auth - tokens are taken as user IDs")
		verifier = auth.InsecureVerifier{}
	default:
		var err error
		verifier, err = auth.NewFirebaseVerifier(ctx, cfg.FirebaseProjectID, cfg.FirebaseCredentials)
		if err != nil {
			logger.Error("Failed to initialize Firebase auth", "error", err)
			os.Exit(1)
		}
	}

	txnService := services.NewTransactionService(result.Backend, amqpClient)

	srv := apphttp.NewServer(apphttp.Options{
		Addr:      ":" + cfg.Port,
		CacheSize: cfg.CacheSize,
		CacheTTL:  cfg.CacheTTL,
	}, result.Backend, txnService, verifier)

	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting plenio server", "port", cfg.Port, "backend", cfg.DataBackend, "auth_mode", cfg.AuthMode)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", "error", err)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}
