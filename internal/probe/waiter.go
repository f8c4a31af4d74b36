package probe

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/vk/waitgate/internal/ctxlog"
)

const (
	// DefaultInterval is the delay between connection attempts.
	DefaultInterval = time.Second
	// DefaultConnectTimeout bounds a single attempt so that one hung dial
	// cannot stall the whole gate.
	DefaultConnectTimeout = 3 * time.Second
)

// ErrDeadlineExceeded is returned when the overall deadline elapsed before
// the endpoint accepted a connection.
var ErrDeadlineExceeded = errors.New("endpoint did not become reachable before the deadline")

// Waiter polls a TCP endpoint until it accepts a connection. The zero value
// uses the default interval and attempt timeout.
type Waiter struct {
	// Interval is the delay between attempts.
	Interval time.Duration
	// ConnectTimeout bounds each individual attempt.
	ConnectTimeout time.Duration
}

// Wait blocks until ep accepts a TCP connection, the context's deadline
// expires, or the context is cancelled. The connection is closed as soon as
// it is established; no bytes are exchanged. With no context deadline the
// loop retries indefinitely and cancellation is the only failure exit.
func (w *Waiter) Wait(ctx context.Context, ep Endpoint) error {
	logger := ctxlog.FromContext(ctx)

	interval := w.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	connectTimeout := w.ConnectTimeout
	if connectTimeout <= 0 {
		connectTimeout = DefaultConnectTimeout
	}

	started := time.Now()
	for attempts := 1; ; attempts++ {
		attempt := w.attempt(ctx, ep, connectTimeout)
		if attempt.Outcome == Success {
			logger.Info("Endpoint is reachable.",
				"endpoint", ep.Addr(),
				"latency", attempt.Latency.Round(time.Microsecond),
				"attempts", attempts,
			)
			return nil
		}

		// A cancelled or expired context also surfaces as a failed dial,
		// so check it before sleeping rather than retrying pointlessly.
		if err := ctx.Err(); err != nil {
			return w.failure(ep, started, err)
		}

		// One line per attempt keeps the log rate at the poll interval.
		logger.Info("Waiting for endpoint...",
			"endpoint", ep.Addr(),
			"outcome", attempt.Outcome.String(),
			"error", attempt.Err,
			"elapsed", time.Since(started).Round(time.Millisecond),
		)

		timer := time.NewTimer(interval)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return w.failure(ep, started, ctx.Err())
		}
	}
}

// attempt performs one dial. The connection, if any, is closed before the
// attempt returns, so no handle outlives a single iteration.
func (w *Waiter) attempt(ctx context.Context, ep Endpoint, timeout time.Duration) Attempt {
	dialer := net.Dialer{Timeout: timeout}

	attempt := Attempt{Endpoint: ep, StartedAt: time.Now()}
	conn, err := dialer.DialContext(ctx, "tcp", ep.Addr())
	attempt.Latency = time.Since(attempt.StartedAt)

	if err != nil {
		attempt.Outcome = classify(err)
		attempt.Err = err
		return attempt
	}

	_ = conn.Close()
	attempt.Outcome = Success
	return attempt
}

func (w *Waiter) failure(ep Endpoint, started time.Time, cause error) error {
	elapsed := time.Since(started).Round(time.Millisecond)
	if errors.Is(cause, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s after %s", ErrDeadlineExceeded, ep.Addr(), elapsed)
	}
	return fmt.Errorf("wait for %s aborted after %s: %w", ep.Addr(), elapsed, cause)
}
