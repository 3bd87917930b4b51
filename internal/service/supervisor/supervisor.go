package supervisor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mitchellh/go-ps"

	"github.com/oshokin/ollama-bootstrap/internal/config"
	domain "github.com/oshokin/ollama-bootstrap/internal/domain/runtime"
	"github.com/oshokin/ollama-bootstrap/internal/logger"
	"github.com/oshokin/ollama-bootstrap/internal/ollama"
	"github.com/oshokin/ollama-bootstrap/internal/repository/state"
	"github.com/oshokin/ollama-bootstrap/internal/service/common"
)

// logFilePermissions is used when creating the server log file.
const logFilePermissions os.FileMode = 0o644

var (
	// ErrAlreadyRunning is returned when a managed server is already alive.
	ErrAlreadyRunning = errors.New("server is already running")
	// ErrNotRunning is returned when no managed server process is recorded.
	ErrNotRunning = errors.New("server is not running")
	// errProcessMismatch is returned when the recorded PID belongs to
	// a different executable, so signaling it would hit an innocent process.
	errProcessMismatch = errors.New("recorded pid belongs to another executable")
)

// Status is a point-in-time view of the managed server.
type Status struct {
	// Process is the recorded process, nil when none was started by us.
	Process *domain.ServerProcess
	// Running reports whether the recorded PID is alive and still resolves
	// to the expected executable.
	Running bool
	// Healthy reports whether the HTTP API answered the probe.
	Healthy bool
	// Version is the server-reported version, empty when unhealthy.
	Version string
	// Models lists the artifacts in the server cache, nil when unhealthy.
	Models []ollama.Model
}

// Service owns the lifecycle of the detached model server: start with log
// redirection and a persisted handle, readiness polling, status and stop.
type Service struct {
	// cfg holds the executable name, log/state file paths and timeouts.
	cfg *config.Config
	// runner launches the detached serve process.
	runner common.Runner
	// repo persists the process record between invocations.
	repo state.Repository
	// client probes the server HTTP API.
	client *ollama.Client
}

// NewService builds a supervisor for the provided settings.
func NewService(cfg *config.Config, runner common.Runner, repo state.Repository, client *ollama.Client) *Service {
	return &Service{
		cfg:    cfg,
		runner: runner,
		repo:   repo,
		client: client,
	}
}

// Start launches the server detached with combined output appended to the
// configured log file and records the process handle. It refuses to start a
// second instance when the recorded process is still alive or when something
// else already answers on the API address.
func (s *Service) Start(ctx context.Context) (*domain.ServerProcess, error) {
	if process, err := s.recordedProcess(ctx); err != nil {
		return nil, err
	} else if process != nil {
		return nil, fmt.Errorf("pid %d: %w", process.PID, ErrAlreadyRunning)
	}

	// The port may be taken by a server this tool never started.
	if err := s.client.Heartbeat(ctx); err == nil {
		return nil, fmt.Errorf("%s answers but is not managed by this tool: %w", s.cfg.BaseURL, ErrAlreadyRunning)
	}

	logFile, err := os.OpenFile(
		filepath.Clean(s.cfg.LogFile),
		os.O_CREATE|os.O_WRONLY|os.O_APPEND,
		logFilePermissions,
	)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	// The parent keeps no handle on the file; the child owns it from here.
	defer func() {
		_ = logFile.Close()
	}()

	actor, err := common.DetectActor()
	if err != nil {
		return nil, err
	}

	logger.InfoKV(ctx, "Starting server", "executable", s.cfg.Executable, "log_file", s.cfg.LogFile)

	pid, err := s.runner.StartDetached(s.cfg.Executable, []string{"serve"}, logFile)
	if err != nil {
		return nil, fmt.Errorf("start server: %w", err)
	}

	process := &domain.ServerProcess{
		PID:        pid,
		Executable: s.cfg.Executable,
		LogFile:    s.cfg.LogFile,
		StartedAt:  time.Now(),
		StartedBy:  actor,
	}

	if err = s.repo.Save(ctx, process); err != nil {
		return nil, fmt.Errorf("record process: %w", err)
	}

	logger.InfoKV(ctx, "Server started", "pid", pid)

	return process, nil
}

// Status inspects the recorded process and probes the HTTP API.
func (s *Service) Status(ctx context.Context) (*Status, error) {
	status := new(Status)

	process, err := s.repo.Load(ctx)
	switch {
	case err == nil:
		status.Process = process.Clone()
		status.Running = s.isProcessAlive(ctx, process)
	case errors.Is(err, state.ErrNotFound):
		// No record; the API probe below still tells us if something answers.
	default:
		return nil, fmt.Errorf("load state: %w", err)
	}

	tags, err := s.client.Tags(ctx)
	if err != nil {
		logger.DebugKV(ctx, "Probe failed", "error", err)
		return status, nil
	}

	status.Healthy = true
	status.Models = tags.Models

	if version, versionErr := s.client.Version(ctx); versionErr == nil {
		status.Version = version
	}

	return status, nil
}

// Stop terminates the recorded server process and clears the record.
// It never signals a PID whose executable no longer matches the record.
func (s *Service) Stop(ctx context.Context) error {
	process, err := s.repo.Load(ctx)
	if err != nil {
		if errors.Is(err, state.ErrNotFound) {
			return ErrNotRunning
		}

		return fmt.Errorf("load state: %w", err)
	}

	alive, err := findProcessByPID(process.PID, process.Executable)
	if err != nil {
		return fmt.Errorf("inspect pid %d: %w", process.PID, err)
	}

	if alive {
		var runningProcess *os.Process

		runningProcess, err = os.FindProcess(process.PID)
		if err != nil {
			return fmt.Errorf("find process %d: %w", process.PID, err)
		}

		if err = runningProcess.Kill(); err != nil {
			return fmt.Errorf("kill process %d: %w", process.PID, err)
		}

		logger.InfoKV(ctx, "Server stopped", "pid", process.PID)
	} else {
		logger.InfoKV(ctx, "Recorded process already gone", "pid", process.PID)
	}

	if err = s.repo.Clear(ctx); err != nil {
		return err
	}

	return nil
}

// recordedProcess returns the recorded process when it is still alive,
// nil when there is no record or the process has exited. A stale record
// is cleared on the way.
func (s *Service) recordedProcess(ctx context.Context) (*domain.ServerProcess, error) {
	process, err := s.repo.Load(ctx)
	if err != nil {
		if errors.Is(err, state.ErrNotFound) {
			return nil, nil
		}

		return nil, fmt.Errorf("load state: %w", err)
	}

	if s.isProcessAlive(ctx, process) {
		return process, nil
	}

	logger.InfoKV(ctx, "Clearing stale process record", "pid", process.PID)

	if err = s.repo.Clear(ctx); err != nil {
		return nil, err
	}

	return nil, nil
}

// isProcessAlive checks the process table for the recorded PID and verifies
// the executable name still matches.
func (s *Service) isProcessAlive(ctx context.Context, process *domain.ServerProcess) bool {
	alive, err := findProcessByPID(process.PID, process.Executable)
	if err != nil {
		logger.WarnKV(ctx, "Process table lookup failed", "pid", process.PID, "error", err)
		return false
	}

	return alive
}

// findProcessByPID reports whether the PID exists and resolves to the
// expected executable name. A live PID with a different name yields
// errProcessMismatch so callers never signal a recycled PID.
func findProcessByPID(pid int, executable string) (bool, error) {
	process, err := ps.FindProcess(pid)
	if err != nil {
		return false, err
	}

	if process == nil {
		return false, nil
	}

	if filepath.Base(process.Executable()) != filepath.Base(executable) {
		return false, fmt.Errorf("pid %d is %q: %w", pid, process.Executable(), errProcessMismatch)
	}

	return true, nil
}
