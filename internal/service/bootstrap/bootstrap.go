package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"github.com/oshokin/ollama-bootstrap/internal/config"
	domain "github.com/oshokin/ollama-bootstrap/internal/domain/runtime"
	"github.com/oshokin/ollama-bootstrap/internal/logger"
	"github.com/oshokin/ollama-bootstrap/internal/ollama"
	"github.com/oshokin/ollama-bootstrap/internal/service/puller"
	"github.com/oshokin/ollama-bootstrap/internal/service/supervisor"
)

// Step failure classes. Each step of the original script could fail
// silently; here every class is distinguishable for the caller.
var (
	// ErrInstallFailed marks a failure while provisioning the binary.
	ErrInstallFailed = errors.New("install step failed")
	// ErrPullFailed marks a failure while downloading model artifacts.
	ErrPullFailed = errors.New("pull step failed")
	// ErrStartFailed marks a failure while launching the server.
	ErrStartFailed = errors.New("server start failed")
	// ErrProbeFailed marks a server that never answered the liveness probe.
	ErrProbeFailed = errors.New("liveness probe failed")
)

// Installer provisions the server binary.
type Installer interface {
	Ensure(ctx context.Context) error
}

// Puller downloads model artifacts.
type Puller interface {
	PullAll(ctx context.Context, models []string, bestEffort bool) ([]puller.Result, error)
}

// Supervisor manages the detached server lifecycle.
type Supervisor interface {
	Start(ctx context.Context) (*domain.ServerProcess, error)
	WaitReady(ctx context.Context) error
	Status(ctx context.Context) (*supervisor.Status, error)
}

// Service runs the end-to-end flow of the original setup script:
// install, pull artifacts in order, start the server, wait until it answers,
// then report. The failure policy is explicit: strict mode stops at the first
// failed step, best-effort mode logs failures and keeps going the way the
// original script did.
type Service struct {
	// cfg holds the model list and the failure policy.
	cfg *config.Config
	// installer provisions the binary.
	installer Installer
	// puller downloads the artifacts.
	puller Puller
	// supervisor starts and probes the server.
	supervisor Supervisor
}

// NewService wires the step implementations into the orchestrator.
func NewService(cfg *config.Config, inst Installer, pull Puller, sup Supervisor) *Service {
	return &Service{
		cfg:        cfg,
		installer:  inst,
		puller:     pull,
		supervisor: sup,
	}
}

// Up executes the bootstrap sequence. The returned error is nil when the
// server ended up ready (strict mode) or when best-effort mode ran to the
// end regardless of step outcomes.
//
//nolint:cyclop // The step sequence reads best as one linear function.
func (s *Service) Up(ctx context.Context) error {
	bestEffort := s.cfg.BestEffort
	if bestEffort {
		logger.Warn(ctx, "Best-effort mode: step failures will be logged and ignored")
	}

	// Step 1: provision the binary.
	if err := s.installer.Ensure(ctx); err != nil {
		if !bestEffort {
			return fmt.Errorf("%w: %v", ErrInstallFailed, err)
		}

		logger.ErrorKV(ctx, "Install failed, continuing", "error", err)
	}

	// Step 2: pull artifacts in configured order.
	results, err := s.puller.PullAll(ctx, nil, bestEffort)
	if err != nil && !bestEffort {
		return fmt.Errorf("%w: %v", ErrPullFailed, err)
	}

	if failed := puller.Failed(results); len(failed) > 0 {
		for _, result := range failed {
			logger.WarnKV(ctx, "Artifact missing after pulls", "model", result.Model, "error", result.Err)
		}
	}

	// Step 3: start the server. An already-running server is fine here:
	// `up` is idempotent and proceeds to the probe.
	if _, err = s.supervisor.Start(ctx); err != nil {
		if errors.Is(err, supervisor.ErrAlreadyRunning) {
			logger.Info(ctx, "Server already running, skipping start")
		} else if !bestEffort {
			return fmt.Errorf("%w: %v", ErrStartFailed, err)
		} else {
			logger.ErrorKV(ctx, "Start failed, continuing", "error", err)
		}
	}

	// Steps 4-5: readiness gate instead of a blind sleep.
	if err = s.supervisor.WaitReady(ctx); err != nil {
		if !bestEffort {
			return fmt.Errorf("%w: %v", ErrProbeFailed, err)
		}

		logger.ErrorKV(ctx, "Server never answered the probe", "error", err)
	}

	// Step 6: announce, with an honest summary instead of an unconditional
	// success line.
	s.announce(ctx)

	return nil
}

// announce reports the final state of the runtime: version, cached models,
// and which configured models are missing.
func (s *Service) announce(ctx context.Context) {
	status, err := s.supervisor.Status(ctx)
	if err != nil || !status.Healthy {
		logger.Warn(ctx, "Bootstrap finished but the server is not answering")
		return
	}

	for _, model := range s.cfg.Models {
		if ollama.HasModel(status.Models, model) {
			continue
		}

		logger.WarnKV(ctx, "Configured model is not in the server cache", "model", model)
	}

	logger.InfoKV(ctx, "Ollama is ready",
		"version", status.Version,
		"models", len(status.Models),
		"log_file", s.cfg.LogFile)
}
