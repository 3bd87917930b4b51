//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"context"
	"fmt"
	"os"
	"os/exec"
)

// Runner abstracts external command execution so services can be tested
// without a real binary on the PATH. Every invocation reports its outcome;
// nothing is fire-and-forget except StartDetached, which still returns the
// PID so the caller can keep a handle on the child.
type Runner interface {
	// Run executes the command synchronously and returns its combined output.
	// A non-zero exit status is returned as an error wrapping the output.
	Run(ctx context.Context, name string, args ...string) ([]byte, error)

	// StartDetached launches the command in the background with combined
	// stdout/stderr redirected to output, releases the process handle so the
	// child outlives this program, and returns the child PID.
	StartDetached(name string, args []string, output *os.File) (int, error)

	// LookPath resolves the command name against the PATH.
	LookPath(name string) (string, error)
}

// ExecRunner is the production Runner backed by os/exec.
type ExecRunner struct{}

// NewExecRunner returns a Runner backed by os/exec.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// Run executes the command synchronously and returns its combined output.
func (*ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	output, err := cmd.CombinedOutput()
	if err != nil {
		return output, fmt.Errorf("%s: %w", cmd.String(), err)
	}

	return output, nil
}

// StartDetached launches the command in the background.
// The returned PID is the only handle kept: the exec.Cmd is released so the
// child is not reaped by this process and survives its exit.
func (*ExecRunner) StartDetached(name string, args []string, output *os.File) (int, error) {
	cmd := exec.Command(name, args...) //nolint:gosec // Command name comes from validated settings.
	cmd.Stdout = output
	cmd.Stderr = output
	cmd.Stdin = nil

	if err := cmd.Start(); err != nil {
		return 0, fmt.Errorf("start %s: %w", cmd.String(), err)
	}

	pid := cmd.Process.Pid

	if err := cmd.Process.Release(); err != nil {
		return pid, fmt.Errorf("release %s: %w", cmd.String(), err)
	}

	return pid, nil
}

// LookPath resolves the command name against the PATH.
func (*ExecRunner) LookPath(name string) (string, error) {
	path, err := exec.LookPath(name)
	if err != nil {
		return "", fmt.Errorf("look up %s: %w", name, err)
	}

	return path, nil
}
