// Package retry re-invokes vendor calls that fail transiently.
package retry

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"time"
)

const (
	DefaultAttempts = 3
	DefaultDelay    = time.Second
)

type Policy struct {
	Attempts int
	Delay    time.Duration
}

func DefaultPolicy() Policy {
	return Policy{Attempts: DefaultAttempts, Delay: DefaultDelay}
}

// temporary is implemented by errors that know whether a retry can help,
// such as the normalized vendor error.
type temporary interface {
	Temporary() bool
}

// IsTransient reports whether err is a network failure or a vendor 5xx.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var t temporary
	if errors.As(err, &t) {
		return t.Temporary()
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}

// Do calls fn until it succeeds, fails permanently, or Attempts calls have
// been made. The delay between calls is fixed. The last error is returned
// unchanged on exhaustion.
func Do(ctx context.Context, p Policy, fn func(ctx context.Context) error) error {
	attempts := p.Attempts
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		err = fn(ctx)
		if err == nil || !IsTransient(err) {
			return err
		}
		if attempt == attempts {
			break
		}

		slog.Warn("transient vendor failure, retrying", "attempt", attempt, "max_attempts", attempts, "delay", p.Delay, "error", err)

		timer := time.NewTimer(p.Delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return errors.Join(err, ctx.Err())
		case <-timer.C:
		}
	}

	return err
}
