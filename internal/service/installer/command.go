package installer

import (
	"context"
	"fmt"

	"github.com/oshokin/ollama-bootstrap/internal/config"
	"github.com/oshokin/ollama-bootstrap/internal/logger"
	"github.com/oshokin/ollama-bootstrap/internal/service/common"
)

// Options are inputs accepted by the installer entry point.
type Options struct {
	// ConfigPath is the optional path to settings YAML file.
	ConfigPath string
	// Force reinstalls even when the binary is already present.
	Force bool
}

// Run executes the installer and is the public entry point for the CLI.
func Run(ctx context.Context, opts *Options) error {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "installer")

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	service := NewService(cfg, common.NewExecRunner())

	if opts.Force {
		err = service.Install(ctx)
	} else {
		err = service.Ensure(ctx)
	}

	if err != nil {
		logger.ErrorKV(ctx, "Install failed", "error", err)
		return err
	}

	logger.Info(ctx, "Install completed")

	return nil
}
