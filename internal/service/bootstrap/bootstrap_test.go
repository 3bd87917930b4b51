package bootstrap

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/ollama-bootstrap/internal/config"
	domain "github.com/oshokin/ollama-bootstrap/internal/domain/runtime"
	"github.com/oshokin/ollama-bootstrap/internal/ollama"
	"github.com/oshokin/ollama-bootstrap/internal/service/puller"
	"github.com/oshokin/ollama-bootstrap/internal/service/supervisor"
)

// recorder captures the order in which bootstrap steps run.
type recorder struct {
	steps []string
}

type fakeInstaller struct {
	rec *recorder
	err error
}

func (f *fakeInstaller) Ensure(context.Context) error {
	f.rec.steps = append(f.rec.steps, "install")
	return f.err
}

type fakePuller struct {
	rec    *recorder
	models []string
	err    error
}

func (f *fakePuller) PullAll(_ context.Context, models []string, _ bool) ([]puller.Result, error) {
	if len(models) == 0 {
		models = f.models
	}

	results := make([]puller.Result, 0, len(models))
	for _, model := range models {
		f.rec.steps = append(f.rec.steps, "pull "+model)
		results = append(results, puller.Result{Model: model})
	}

	return results, f.err
}

type fakeSupervisor struct {
	rec      *recorder
	startErr error
	readyErr error
	status   *supervisor.Status
}

func (f *fakeSupervisor) Start(context.Context) (*domain.ServerProcess, error) {
	f.rec.steps = append(f.rec.steps, "start")

	if f.startErr != nil {
		return nil, f.startErr
	}

	return &domain.ServerProcess{PID: 123}, nil
}

func (f *fakeSupervisor) WaitReady(context.Context) error {
	f.rec.steps = append(f.rec.steps, "probe")
	return f.readyErr
}

func (f *fakeSupervisor) Status(context.Context) (*supervisor.Status, error) {
	f.rec.steps = append(f.rec.steps, "status")

	if f.status != nil {
		return f.status, nil
	}

	return &supervisor.Status{
		Healthy: true,
		Version: "0.5.7",
		Models:  []ollama.Model{{Name: "mistral:latest"}},
	}, nil
}

// newFixture wires a bootstrap service around fakes and the default model set.
func newFixture(bestEffort bool) (*Service, *recorder, *fakeInstaller, *fakePuller, *fakeSupervisor) {
	cfg := config.Default()
	cfg.BestEffort = bestEffort

	rec := &recorder{}
	inst := &fakeInstaller{rec: rec}
	pull := &fakePuller{rec: rec, models: cfg.Models}
	sup := &fakeSupervisor{rec: rec}

	return NewService(cfg, inst, pull, sup), rec, inst, pull, sup
}

// TestUpHappyPathOrder runs all steps once, in the required order: install,
// pulls in configured order, start, probe, announce.
func TestUpHappyPathOrder(t *testing.T) {
	t.Parallel()

	svc, rec, _, _, _ := newFixture(false)

	require.NoError(t, svc.Up(context.Background()))
	require.Equal(t, []string{
		"install",
		"pull mistral",
		"pull mistral:7b",
		"pull mistral-nemo",
		"pull llama3.2:3b",
		"start",
		"probe",
		"status",
	}, rec.steps)
}

// TestUpStrictInstallFailure stops before any pull when the install step
// fails, closing the original script's regression where a broken install
// endpoint still led to pull attempts and a success message.
func TestUpStrictInstallFailure(t *testing.T) {
	t.Parallel()

	svc, rec, inst, _, _ := newFixture(false)
	inst.err = errors.New("http 500")

	err := svc.Up(context.Background())
	require.ErrorIs(t, err, ErrInstallFailed)
	require.Equal(t, []string{"install"}, rec.steps)
}

// TestUpBestEffortInstallFailure keeps going after a failed install,
// reproducing the original script's behavior behind the explicit flag.
func TestUpBestEffortInstallFailure(t *testing.T) {
	t.Parallel()

	svc, rec, inst, _, _ := newFixture(true)
	inst.err = errors.New("http 500")

	require.NoError(t, svc.Up(context.Background()))
	require.Contains(t, rec.steps, "pull mistral")
	require.Contains(t, rec.steps, "start")
	require.Contains(t, rec.steps, "probe")
}

// TestUpStrictPullFailure aborts before starting the server.
func TestUpStrictPullFailure(t *testing.T) {
	t.Parallel()

	svc, rec, _, pull, _ := newFixture(false)
	pull.err = errors.New("pull mistral-nemo: disk full")

	err := svc.Up(context.Background())
	require.ErrorIs(t, err, ErrPullFailed)
	require.NotContains(t, rec.steps, "start")
}

// TestUpStrictStartFailure surfaces the start failure class.
func TestUpStrictStartFailure(t *testing.T) {
	t.Parallel()

	svc, rec, _, _, sup := newFixture(false)
	sup.startErr = errors.New("port already bound")

	err := svc.Up(context.Background())
	require.ErrorIs(t, err, ErrStartFailed)
	require.NotContains(t, rec.steps, "probe")
}

// TestUpAlreadyRunningProceedsToProbe treats a running server as success
// material: `up` is idempotent.
func TestUpAlreadyRunningProceedsToProbe(t *testing.T) {
	t.Parallel()

	svc, rec, _, _, sup := newFixture(false)
	sup.startErr = supervisor.ErrAlreadyRunning

	require.NoError(t, svc.Up(context.Background()))
	require.Contains(t, rec.steps, "probe")
	require.Contains(t, rec.steps, "status")
}

// TestUpStrictProbeFailure refuses to announce success when the server
// never answered.
func TestUpStrictProbeFailure(t *testing.T) {
	t.Parallel()

	svc, rec, _, _, sup := newFixture(false)
	sup.readyErr = supervisor.ErrNotReady

	err := svc.Up(context.Background())
	require.ErrorIs(t, err, ErrProbeFailed)
	require.NotContains(t, rec.steps, "status")
}

// TestUpBestEffortProbeFailure still reaches the announcement, matching the
// original script's unconditional final message.
func TestUpBestEffortProbeFailure(t *testing.T) {
	t.Parallel()

	svc, rec, _, _, sup := newFixture(true)
	sup.readyErr = supervisor.ErrNotReady
	sup.status = &supervisor.Status{Healthy: false}

	require.NoError(t, svc.Up(context.Background()))
	require.Contains(t, rec.steps, "status")
}
