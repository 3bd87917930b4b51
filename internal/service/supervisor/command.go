package supervisor

import (
	"context"
	"fmt"
	"time"

	"github.com/oshokin/ollama-bootstrap/internal/config"
	"github.com/oshokin/ollama-bootstrap/internal/logger"
	"github.com/oshokin/ollama-bootstrap/internal/ollama"
	"github.com/oshokin/ollama-bootstrap/internal/repository/state"
	"github.com/oshokin/ollama-bootstrap/internal/service/common"
)

// Options are inputs accepted by the supervisor entry points.
type Options struct {
	// ConfigPath is the optional path to settings YAML file.
	ConfigPath string
}

// NewFromConfig loads settings and wires the production dependencies.
func NewFromConfig(path string) (*Service, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	return NewWithDefaults(cfg)
}

// NewWithDefaults wires the production dependencies around existing settings.
func NewWithDefaults(cfg *config.Config) (*Service, error) {
	client, err := ollama.NewClient(cfg.BaseURL, ollama.WithCallTimeout(cfg.Timeout))
	if err != nil {
		return nil, fmt.Errorf("build API client: %w", err)
	}

	return NewService(
		cfg,
		common.NewExecRunner(),
		state.NewFileRepository(cfg.StateFile),
		client,
	), nil
}

// RunServe starts the detached server and waits until it answers the probe.
func RunServe(ctx context.Context, opts *Options) error {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "serve")

	service, err := NewFromConfig(opts.ConfigPath)
	if err != nil {
		return err
	}

	process, err := service.Start(ctx)
	if err != nil {
		return err
	}

	if err = service.WaitReady(ctx); err != nil {
		logger.ErrorKV(ctx, "Server started but never became ready",
			"pid", process.PID, "log_file", process.LogFile)

		return err
	}

	logger.InfoKV(ctx, "Server is serving", "pid", process.PID, "log_file", process.LogFile)

	return nil
}

// RunStatus reports the recorded process and the API health.
func RunStatus(ctx context.Context, opts *Options) error {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "status")

	service, err := NewFromConfig(opts.ConfigPath)
	if err != nil {
		return err
	}

	status, err := service.Status(ctx)
	if err != nil {
		return err
	}

	if status.Process != nil {
		logger.InfoKV(ctx, "Recorded process",
			"pid", status.Process.PID,
			"running", status.Running,
			"started_at", status.Process.StartedAt.Format(time.RFC3339),
			"log_file", status.Process.LogFile)
	} else {
		logger.Info(ctx, "No recorded process")
	}

	if !status.Healthy {
		logger.Info(ctx, "API is not answering")
		return nil
	}

	logger.InfoKV(ctx, "API is healthy", "version", status.Version)

	for _, model := range status.Models {
		logger.InfoKV(ctx, "Cached model", "name", model.Name, "size", model.Size)
	}

	return nil
}

// RunStop terminates the recorded server process.
func RunStop(ctx context.Context, opts *Options) error {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "stop")

	service, err := NewFromConfig(opts.ConfigPath)
	if err != nil {
		return err
	}

	if err = service.Stop(ctx); err != nil {
		return err
	}

	logger.Info(ctx, "Server stopped")

	return nil
}
