// Package main is the entry point for the extsearch CLI.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/extsearch/internal/app"
	"github.com/kailas-cloud/extsearch/internal/config"
	logpkg "github.com/kailas-cloud/extsearch/internal/logger"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var env string

	cmd := &cobra.Command{
		Use:   "extsearch",
		Short: "Full-text search with resolved highlight offsets",
		Long: `extsearch queries an external full-text search backend (Elasticsearch,
Redis with RediSearch, or an embedded bleve index) and resolves the backend's
highlight fragments into exact character offsets of the original documents.

Configuration is read from config/<env>.yaml; ENV selects the environment
(default: local) and a .env file in the working directory is loaded first.

The bleve driver keeps its index in process memory. It works with serve only;
search, text and index need the elastic or redis driver.`,
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVar(&env, "env", config.GetEnv(), "Configuration environment (config/<env>.yaml)")

	cmd.AddCommand(serveCmd(&env))
	cmd.AddCommand(searchCmd(&env))
	cmd.AddCommand(textCmd(&env))
	cmd.AddCommand(indexCmd(&env))
	cmd.AddCommand(versionCmd())

	return cmd
}

// setup loads configuration and the logger for env.
func setup(env string) (config.Config, *zap.Logger, error) {
	cfg, err := config.Load(env)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("load config: %w", err)
	}
	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("create logger: %w", err)
	}
	return cfg, logger, nil
}

// errEphemeralBackend rejects one-shot commands on the in-process bleve index,
// which is gone when the command exits.
var errEphemeralBackend = errors.New(
	"backend driver bleve keeps its index in process memory: use serve, or the elastic or redis driver")

// checkOneShot reports whether cfg can back a command that exits after one call.
func checkOneShot(cfg *config.Config) error {
	if cfg.Backend.Driver == config.DriverBleve {
		return errEphemeralBackend
	}
	return nil
}

// connect loads configuration and wires the services against a ready backend.
// It is used by one-shot commands only.
func connect(ctx context.Context, env string) (*app.App, *zap.Logger, error) {
	cfg, logger, err := setup(env)
	if err != nil {
		return nil, nil, err
	}
	if err := checkOneShot(&cfg); err != nil {
		return nil, nil, err
	}
	store, err := app.Connect(ctx, &cfg)
	if err != nil {
		return nil, nil, err
	}
	return app.Wire(store, &cfg, logger), logger, nil
}
