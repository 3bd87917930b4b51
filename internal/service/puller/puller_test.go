package puller

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/ollama-bootstrap/internal/config"
)

// fakeRunner records pull invocations and fails for configured models.
type fakeRunner struct {
	calls   [][]string
	failFor map[string]error
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) ([]byte, error) {
	f.calls = append(f.calls, append([]string{name}, args...))

	if len(args) == 2 && args[0] == "pull" {
		if err, ok := f.failFor[args[1]]; ok {
			return []byte("pulling manifest\nError: model not found\n"), err
		}
	}

	return []byte("success"), nil
}

func (*fakeRunner) StartDetached(string, []string, *os.File) (int, error) {
	return 0, errors.New("not supported")
}

func (*fakeRunner) LookPath(name string) (string, error) {
	return name, nil
}

// TestPullAllOrder verifies every configured model is pulled exactly once,
// in the listed order.
func TestPullAllOrder(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	runner := &fakeRunner{}
	svc := NewService(cfg, runner)

	results, err := svc.PullAll(context.Background(), nil, false)
	require.NoError(t, err)
	require.Len(t, results, len(config.DefaultModels))

	require.Len(t, runner.calls, len(config.DefaultModels))

	for i, model := range config.DefaultModels {
		require.Equal(t, []string{cfg.Executable, "pull", model}, runner.calls[i])
		require.Equal(t, model, results[i].Model)
		require.NoError(t, results[i].Err)
	}
}

// TestPullAllStrictStopsAtFirstFailure aborts on the first failed pull.
func TestPullAllStrictStopsAtFirstFailure(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	runner := &fakeRunner{
		failFor: map[string]error{"mistral:7b": errors.New("exit status 1")},
	}
	svc := NewService(cfg, runner)

	results, err := svc.PullAll(context.Background(), nil, false)
	require.Error(t, err)

	// mistral succeeded, mistral:7b failed, nothing after was attempted.
	require.Len(t, results, 2)
	require.Len(t, runner.calls, 2)
	require.Error(t, results[1].Err)
	require.Contains(t, results[1].Err.Error(), "model not found")
}

// TestPullAllBestEffortContinues keeps pulling past failures and reports them.
func TestPullAllBestEffortContinues(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	runner := &fakeRunner{
		failFor: map[string]error{"mistral:7b": errors.New("exit status 1")},
	}
	svc := NewService(cfg, runner)

	results, err := svc.PullAll(context.Background(), nil, true)
	require.NoError(t, err)
	require.Len(t, results, len(config.DefaultModels))
	require.Len(t, runner.calls, len(config.DefaultModels))

	failed := Failed(results)
	require.Len(t, failed, 1)
	require.Equal(t, "mistral:7b", failed[0].Model)
}

// TestPullAllExplicitList pulls the given models instead of the configured set.
func TestPullAllExplicitList(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	runner := &fakeRunner{}
	svc := NewService(cfg, runner)

	results, err := svc.PullAll(context.Background(), []string{"qwen2:0.5b"}, false)
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, "qwen2:0.5b", results[0].Model)
}

// TestPullAllNoModels rejects an empty model set.
func TestPullAllNoModels(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.Models = nil
	svc := NewService(cfg, &fakeRunner{})

	_, err := svc.PullAll(context.Background(), nil, false)
	require.Error(t, err)
}
