package runtime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestActorClone verifies that Clone returns a deep copy and handles nil safely.
func TestActorClone(t *testing.T) {
	t.Parallel()
	require.Nil(t, (*Actor)(nil).Clone())

	a := &Actor{
		Hostname: "workstation",
		Username: "translator",
	}

	b := a.Clone()

	require.Equal(t, a, b)
	require.NotSame(t, a, b)
}

// TestServerProcessClone verifies that Clone copies fields and deep-copies StartedBy.
func TestServerProcessClone(t *testing.T) {
	t.Parallel()
	require.Nil(t, (*ServerProcess)(nil).Clone())

	p := &ServerProcess{
		PID:        4242,
		Executable: "ollama",
		LogFile:    "ollama.log",
		StartedAt:  time.Now().UTC().Truncate(time.Second),
		StartedBy: &Actor{
			Hostname: "workstation",
			Username: "translator",
		},
	}

	c := p.Clone()
	require.Equal(t, p, c)
	require.NotSame(t, p, c)

	// Ensure actor pointer is cloned.
	require.NotSame(t, p.StartedBy, c.StartedBy)
}
