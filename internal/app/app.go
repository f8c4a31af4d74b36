package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/waitgate/internal/ctxlog"
	"github.com/vk/waitgate/internal/execer"
	"github.com/vk/waitgate/internal/probe"
	"github.com/vk/waitgate/internal/waitfile"
)

// App encapsulates the gate's dependencies, configuration, and lifecycle.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	config *Config
	waiter *probe.Waiter

	// execFn performs the final handoff. Tests substitute it; everything
	// else uses execer.Exec.
	execFn func(argv []string) error
}

// NewApp is the constructor for the gate. It builds an isolated logger,
// loads and merges the wait file when one was named, and validates the
// resulting endpoint set.
func NewApp(outW io.Writer, config *Config) (*App, error) {
	logger := newLogger(config.LogLevel, config.LogFormat, outW)
	logger.Debug("Logger configured successfully.")

	if config.WaitfilePath != "" {
		ctx := ctxlog.WithLogger(context.Background(), logger)
		wf, err := waitfile.Load(ctx, config.WaitfilePath)
		if err != nil {
			return nil, fmt.Errorf("failed to load wait file: %w", err)
		}
		config.applyWaitfile(wf)
		logger.Debug("Wait file merged into configuration.", "endpoints", len(config.Endpoints))
	}

	if len(config.Endpoints) == 0 {
		return nil, fmt.Errorf("no endpoints to wait for")
	}
	if err := validateEndpoints(config.Endpoints); err != nil {
		return nil, err
	}

	return &App{
		outW:   outW,
		logger: logger,
		config: config,
		waiter: &probe.Waiter{
			Interval:       config.Interval,
			ConnectTimeout: config.ConnectTimeout,
		},
		execFn: execer.Exec,
	}, nil
}
