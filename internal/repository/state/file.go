package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/oshokin/ollama-bootstrap/internal/config"
	domain "github.com/oshokin/ollama-bootstrap/internal/domain/runtime"
)

// Repository defines persistence operations for the managed process record.
type Repository interface {
	Load(ctx context.Context) (*domain.ServerProcess, error)
	Save(ctx context.Context, process *domain.ServerProcess) error
	Clear(ctx context.Context) error
}

// FileRepository persists the process record to a JSON file on disk.
type FileRepository struct {
	// path is the filesystem location of the JSON state file.
	path string
	// mu protects concurrent access to the state file.
	mu sync.Mutex
}

// ErrNotFound is returned when the state file does not exist yet.
var ErrNotFound = errors.New("state not found")

// errProcessIsNotSet is returned when a nil process record is provided.
var errProcessIsNotSet = errors.New("process record is not set")

// NewFileRepository creates a repository that reads/writes JSON at the provided path.
func NewFileRepository(path string) *FileRepository {
	return &FileRepository{
		path: filepath.Clean(path),
	}
}

// Load reads the process record from disk.
func (r *FileRepository) Load(_ context.Context) (*domain.ServerProcess, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	contents, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("read state file: %w", err)
	}

	var process domain.ServerProcess
	if err = json.Unmarshal(contents, &process); err != nil {
		return nil, fmt.Errorf("decode state file: %w", err)
	}

	return &process, nil
}

// Save writes the process record to disk using JSON representation.
func (r *FileRepository) Save(_ context.Context, process *domain.ServerProcess) error {
	if process == nil {
		return errProcessIsNotSet
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := json.MarshalIndent(process, "", "  ")
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}

	if err = os.WriteFile(r.path, data, config.DefaultFilePermissions); err != nil {
		return fmt.Errorf("write state file: %w", err)
	}

	return nil
}

// Clear removes the state file. A missing file is not an error.
func (r *FileRepository) Clear(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := os.Remove(r.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove state file: %w", err)
	}

	return nil
}
