package puller

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/oshokin/ollama-bootstrap/internal/config"
	"github.com/oshokin/ollama-bootstrap/internal/logger"
	"github.com/oshokin/ollama-bootstrap/internal/service/common"
)

// errNoModels is returned when there is nothing to pull.
var errNoModels = errors.New("no models configured")

// Result records the outcome of a single artifact pull.
type Result struct {
	// Model is the artifact identifier that was pulled.
	Model string
	// Duration is how long the pull took.
	Duration time.Duration
	// Err is the pull failure, nil on success.
	Err error
}

// Service downloads model artifacts through the server CLI, one at a time,
// in the configured order. The original script did exactly this with four
// consecutive pull invocations; order is preserved even though the pulls are
// independent of each other.
type Service struct {
	// cfg holds the executable name, the model list and the pull timeout.
	cfg *config.Config
	// runner executes the pull subcommand.
	runner common.Runner
}

// NewService builds a puller for the provided settings.
func NewService(cfg *config.Config, runner common.Runner) *Service {
	return &Service{
		cfg:    cfg,
		runner: runner,
	}
}

// PullAll pulls every listed model sequentially. In strict mode (bestEffort
// false) it stops at the first failure; otherwise it keeps going and reports
// every outcome, the way the original script ignored pull exit codes.
func (s *Service) PullAll(ctx context.Context, models []string, bestEffort bool) ([]Result, error) {
	if len(models) == 0 {
		models = s.cfg.Models
	}

	if len(models) == 0 {
		return nil, errNoModels
	}

	results := make([]Result, 0, len(models))

	for _, model := range models {
		result := s.pull(ctx, model)
		results = append(results, result)

		if result.Err == nil {
			continue
		}

		if !bestEffort {
			return results, fmt.Errorf("pull %s: %w", model, result.Err)
		}

		logger.WarnKV(ctx, "Pull failed, continuing", "model", model, "error", result.Err)
	}

	return results, nil
}

// pull downloads a single artifact with the configured per-model timeout.
func (s *Service) pull(ctx context.Context, model string) Result {
	logger.InfoKV(ctx, "Pulling model", "model", model)

	pullCtx, cancel := context.WithTimeout(ctx, s.cfg.PullTimeout)
	defer cancel()

	started := time.Now()
	output, err := s.runner.Run(pullCtx, s.cfg.Executable, "pull", model)
	elapsed := time.Since(started)

	if err != nil {
		return Result{
			Model:    model,
			Duration: elapsed,
			Err:      fmt.Errorf("%w: %s", err, lastLine(output)),
		}
	}

	logger.InfoKV(ctx, "Model pulled", "model", model, "duration", elapsed.String())

	return Result{
		Model:    model,
		Duration: elapsed,
	}
}

// Failed returns the subset of results that carry an error.
func Failed(results []Result) []Result {
	var failed []Result

	for _, result := range results {
		if result.Err != nil {
			failed = append(failed, result)
		}
	}

	return failed
}

// lastLine extracts the final non-empty output line for error messages.
// Pull progress output is long; only the last line carries the failure.
func lastLine(output []byte) string {
	lines := strings.Split(strings.TrimSpace(string(output)), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}

	return ""
}
