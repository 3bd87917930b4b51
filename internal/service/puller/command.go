package puller

import (
	"context"
	"fmt"

	"github.com/oshokin/ollama-bootstrap/internal/config"
	"github.com/oshokin/ollama-bootstrap/internal/logger"
	"github.com/oshokin/ollama-bootstrap/internal/service/common"
)

// Options are inputs accepted by the puller entry point.
type Options struct {
	// ConfigPath is the optional path to settings YAML file.
	ConfigPath string
	// Models optionally overrides the configured artifact list.
	Models []string
}

// Run executes the pulls and is the public entry point for the CLI.
func Run(ctx context.Context, opts *Options) error {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "puller")

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	runner := common.NewExecRunner()

	// Fail with an attributable message instead of the original script's
	// later "command not found".
	if _, err = runner.LookPath(cfg.Executable); err != nil {
		return fmt.Errorf("server binary is not installed: %w", err)
	}

	service := NewService(cfg, runner)

	results, err := service.PullAll(ctx, opts.Models, cfg.BestEffort)
	if err != nil {
		logger.ErrorKV(ctx, "Pulls failed", "error", err)
		return err
	}

	if failed := Failed(results); len(failed) > 0 {
		logger.WarnKV(ctx, "Pulls finished with failures", "failed", len(failed), "total", len(results))
		return nil
	}

	logger.InfoKV(ctx, "All models pulled", "total", len(results))

	return nil
}
