package supervisor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/oshokin/ollama-bootstrap/internal/logger"
)

const (
	// initialProbeInterval is the delay before the first readiness retry.
	initialProbeInterval = 500 * time.Millisecond

	// maxProbeInterval caps the exponential backoff between probes.
	maxProbeInterval = 5 * time.Second
)

// ErrNotReady is returned when the server did not answer the probe within
// the readiness timeout.
var ErrNotReady = errors.New("server did not become ready")

// WaitReady polls the tags endpoint until the server answers or the
// readiness timeout elapses. This replaces the original script's fixed
// five-second sleep with an actual readiness signal.
func (s *Service) WaitReady(ctx context.Context) error {
	deadline := time.Now().Add(s.cfg.ReadinessTimeout)

	waitCtx, cancel := context.WithDeadline(ctx, deadline)
	defer cancel()

	interval := initialProbeInterval

	var (
		attempts int
		lastErr  error
	)

	for {
		attempts++

		_, err := s.client.Tags(waitCtx)
		if err == nil {
			logger.InfoKV(ctx, "Server is ready", "attempts", attempts)
			return nil
		}

		lastErr = err

		logger.DebugKV(ctx, "Server not ready yet", "attempt", attempts, "retry_in", interval.String())

		select {
		case <-waitCtx.Done():
			return fmt.Errorf("%w after %d attempts within %s: %v",
				ErrNotReady, attempts, s.cfg.ReadinessTimeout, lastErr)
		case <-time.After(interval):
		}

		interval *= 2
		if interval > maxProbeInterval {
			interval = maxProbeInterval
		}
	}
}
