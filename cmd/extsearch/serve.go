package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/extsearch/internal/app"
	"github.com/kailas-cloud/extsearch/internal/config"
	"github.com/kailas-cloud/extsearch/internal/metrics"
	chiTransport "github.com/kailas-cloud/extsearch/internal/transport/chi"
	"github.com/kailas-cloud/extsearch/internal/version"
)

func serveCmd(env *string) *cobra.Command {
	var (
		port        int
		ensureIndex bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(*env, port, ensureIndex)
		},
	}
	cmd.Flags().IntVar(&port, "port", 0, "Override http.port")
	cmd.Flags().BoolVar(&ensureIndex, "ensure-index", false, "Create the configured index when it is missing")

	return cmd
}

func runServe(env string, port int, ensureIndex bool) error {
	cfg, logger, err := setup(env)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	if port > 0 {
		cfg.HTTP.Port = port
	}

	logger.Info("Starting extsearch API server",
		zap.Stringer("build", version.Get()),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("backend_driver", cfg.Backend.Driver),
		zap.String("index", cfg.Repository.IndexName),
	)

	ctx := context.Background()
	store, err := app.Connect(ctx, &cfg)
	if err != nil {
		return err
	}
	logger.Info("Connected to search backend")

	metrics.Register()

	a := app.Wire(store, &cfg, logger)
	defer a.Close()

	if ensureIndex || cfg.Backend.Driver == config.DriverBleve {
		if err := a.Indexes.EnsureIndex(ctx); err != nil {
			return fmt.Errorf("ensure index: %w", err)
		}
	}

	server := chiTransport.NewServer(a.Search, a.Documents, a.Health, logger).WithBatch(a.Batch)
	handler := chiTransport.NewRouter(server, cfg.Auth.APIKeys, logger)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-quit:
		logger.Info("Received shutdown signal")
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
	return nil
}
