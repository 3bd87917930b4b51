package state

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	domain "github.com/oshokin/ollama-bootstrap/internal/domain/runtime"
)

// TestFileRepositoryRoundtrip saves a process record and loads it back.
func TestFileRepositoryRoundtrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewFileRepository(filepath.Join(t.TempDir(), "state.json"))

	// Nothing saved yet.
	_, err := repo.Load(ctx)
	require.ErrorIs(t, err, ErrNotFound)

	process := &domain.ServerProcess{
		PID:        1234,
		Executable: "ollama",
		LogFile:    "ollama.log",
		StartedAt:  time.Now().UTC().Truncate(time.Second),
		StartedBy: &domain.Actor{
			Hostname: "workstation",
			Username: "translator",
		},
	}

	require.NoError(t, repo.Save(ctx, process))

	loaded, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, process, loaded)
}

// TestFileRepositorySaveNil rejects nil records.
func TestFileRepositorySaveNil(t *testing.T) {
	t.Parallel()

	repo := NewFileRepository(filepath.Join(t.TempDir(), "state.json"))
	require.Error(t, repo.Save(context.Background(), nil))
}

// TestFileRepositoryClear removes the file and tolerates a missing one.
func TestFileRepositoryClear(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewFileRepository(filepath.Join(t.TempDir(), "state.json"))

	// Clearing a missing file is fine.
	require.NoError(t, repo.Clear(ctx))

	require.NoError(t, repo.Save(ctx, &domain.ServerProcess{PID: 1, Executable: "ollama"}))
	require.NoError(t, repo.Clear(ctx))

	_, err := repo.Load(ctx)
	require.ErrorIs(t, err, ErrNotFound)
}
