// Package logger builds zap loggers and carries request-scoped loggers in
// contexts.
package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/kailas-cloud/extsearch/internal/version"
)

// Service is stamped on every line as the "service" field.
const Service = "extsearch"

// NewLogger creates a zap logger for the given environment.
// prod writes JSON, local and dev write colored console output.
// A non-empty level (debug, info, warn, error) replaces the environment default.
func NewLogger(env, level string) (*zap.Logger, error) {
	cfg, err := newConfig(env, level)
	if err != nil {
		return nil, err
	}
	l, err := cfg.Build(zap.AddStacktrace(zapcore.ErrorLevel))
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return l, nil
}

func newConfig(env, level string) (zap.Config, error) {
	var cfg zap.Config
	switch env {
	case "prod":
		cfg = zap.NewProductionConfig()
	case "local", "dev":
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	default:
		return cfg, fmt.Errorf("unknown environment %q for logger", env)
	}

	if level != "" {
		var lvl zapcore.Level
		if err := lvl.UnmarshalText([]byte(level)); err != nil {
			return cfg, fmt.Errorf("invalid log level %q: %w", level, err)
		}
		cfg.Level = zap.NewAtomicLevelAt(lvl)
	}

	cfg.InitialFields = map[string]any{
		"service": Service,
		"version": version.Version,
	}
	return cfg, nil
}
