package bootstrap

import (
	"context"
	"fmt"

	"github.com/oshokin/ollama-bootstrap/internal/config"
	"github.com/oshokin/ollama-bootstrap/internal/logger"
	"github.com/oshokin/ollama-bootstrap/internal/service/common"
	"github.com/oshokin/ollama-bootstrap/internal/service/installer"
	"github.com/oshokin/ollama-bootstrap/internal/service/puller"
	"github.com/oshokin/ollama-bootstrap/internal/service/supervisor"
)

// Options are inputs accepted by the bootstrap entry point.
type Options struct {
	// ConfigPath is the optional path to settings YAML file.
	ConfigPath string
	// BestEffort overrides the configured failure policy when true,
	// reproducing the original script's ignore-everything behavior.
	BestEffort bool
}

// Run executes the full bootstrap and is the public entry point for the CLI.
func Run(ctx context.Context, opts *Options) error {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "up")

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	if opts.BestEffort {
		cfg.BestEffort = true
	}

	sup, err := supervisor.NewWithDefaults(cfg)
	if err != nil {
		return err
	}

	runner := common.NewExecRunner()
	service := NewService(
		cfg,
		installer.NewService(cfg, runner),
		puller.NewService(cfg, runner),
		sup,
	)

	if err = service.Up(ctx); err != nil {
		logger.ErrorKV(ctx, "Bootstrap failed", "error", err)
		return err
	}

	logger.Info(ctx, "Bootstrap completed")

	return nil
}
