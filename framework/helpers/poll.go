package helpers

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrPollTimeout is returned by Poll when the condition was never satisfied in time.
var ErrPollTimeout = errors.New("condition not satisfied before timeout")

// DefaultPollInterval is how often Poll re-evaluates a condition against the live page.
const DefaultPollInterval = 100 * time.Millisecond

// Poll evaluates check immediately and then at intervals until it reports done, the timeout
// elapses, or ctx ends. An error from check does not stop polling; the last such error is
// wrapped into the timeout error so the caller can see what the final observation was.
func Poll(
	ctx context.Context,
	timeout time.Duration,
	interval time.Duration,
	check func() (bool, error),
) error {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var lastErr error
	for {
		done, err := check()
		if err == nil && done {
			return nil
		}
		lastErr = err
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-deadline.C:
			if lastErr != nil {
				return fmt.Errorf("%w after %s: %w", ErrPollTimeout, timeout, lastErr)
			}
			return fmt.Errorf("%w after %s", ErrPollTimeout, timeout)
		case <-ticker.C:
		}
	}
}
