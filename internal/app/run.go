package app

import (
	"context"
	"time"

	"github.com/vk/waitgate/internal/ctxlog"
)

// Run polls every configured endpoint in order until each accepts a TCP
// connection, then replaces the gate process with the configured command.
// On success it does not return. It returns an error when the deadline
// expires, the context is cancelled, or the command cannot be started; the
// command is never executed on a failed wait.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	started := time.Now()

	if a.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.config.Timeout)
		defer cancel()
		a.logger.Debug("Deadline configured.", "timeout", a.config.Timeout)
	}

	a.logger.Info("⏳ Waiting for endpoints...",
		"count", len(a.config.Endpoints),
		"interval", a.config.Interval,
	)

	for _, ep := range a.config.Endpoints {
		if err := a.waiter.Wait(ctx, ep); err != nil {
			a.logger.Error("Gate failed before the command could start.",
				"endpoint", ep.Addr(),
				"elapsed", time.Since(started).Round(time.Millisecond),
				"error", err,
			)
			return err
		}
	}

	a.logger.Info("✅ All endpoints reachable, handing over.",
		"command", a.config.Command[0],
		"elapsed", time.Since(started).Round(time.Millisecond),
	)

	if err := a.execFn(a.config.Command); err != nil {
		a.logger.Error("Failed to start the command.",
			"command", a.config.Command[0],
			"error", err,
		)
		return err
	}
	return nil
}
