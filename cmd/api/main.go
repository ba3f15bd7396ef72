package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/goldenage-community/goldenage-backend/config"
	"github.com/goldenage-community/goldenage-backend/internal/bootstrap"
	"github.com/goldenage-community/goldenage-backend/internal/logging"
	"github.com/goldenage-community/goldenage-backend/internal/snapshots"
)

const serviceName = "goldenage-backend"

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

// run owns every resource the server opens, so deferred cleanup happens
// before main decides the exit code.
func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := logging.New(cfg.App.LogLevel, cfg.App.Environment).With("service", serviceName)
	slog.SetDefault(logger)
	bootstrap.SetGinMode(cfg)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	storage, err := bootstrap.OpenStorage(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to open %s snapshot storage: %w", cfg.Storage.Backend, err)
	}
	defer storage.Close()

	verifier, err := bootstrap.NewVerifier(ctx, cfg.Auth)
	if err != nil {
		return fmt.Errorf("failed to initialize %s auth: %w", cfg.Auth.Provider, err)
	}

	if cfg.Retention.Keep > 0 {
		scheduler, err := snapshots.StartRetention(&snapshots.Pruner{
			Store:  storage.Store,
			Keep:   cfg.Retention.Keep,
			Logger: logger.With("component", "retention"),
		}, cfg.Retention.Schedule)
		if err != nil {
			return fmt.Errorf("failed to start retention: %w", err)
		}
		defer scheduler.Stop()
	}

	r, err := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName: serviceName,
		Config:      cfg,
		Storage:     storage,
		Verifier:    verifier,
		Logger:      logger,
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("listening", "port", cfg.Server.Port, "env", cfg.App.Environment, "backend", cfg.Storage.Backend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	slog.Info("server stopped")
	return nil
}
