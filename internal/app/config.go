package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/vk/waitgate/internal/probe"
	"github.com/vk/waitgate/internal/waitfile"
)

// Config holds everything one gate invocation needs: the endpoints to poll,
// the command to hand over to, and the polling parameters. It is constructed
// once from process arguments and consumed by a single run.
type Config struct {
	// Endpoints given on the command line. More may be merged in from a
	// wait file by NewApp.
	Endpoints []probe.Endpoint
	// Command is the argv vector to exec once every endpoint is reachable.
	Command []string
	// WaitfilePath optionally names an HCL wait file or directory.
	WaitfilePath string

	// Timeout bounds the whole wait. Zero means wait forever; callers
	// requiring bounded startup must set it.
	Timeout time.Duration
	// Interval is the delay between connection attempts.
	Interval time.Duration
	// ConnectTimeout bounds a single connection attempt.
	ConnectTimeout time.Duration

	// The *Set fields record whether the matching value came from an
	// explicit flag, so wait-file settings know not to override it.
	TimeoutSet        bool
	IntervalSet       bool
	ConnectTimeoutSet bool

	LogFormat string
	LogLevel  string
}

// NewConfig validates a Config assembled from command-line input. Endpoint
// presence is only checked when no wait file will contribute more.
func NewConfig(cfg Config) (*Config, error) {
	if len(cfg.Command) == 0 {
		return nil, errors.New("a command to run after the wait is required")
	}
	if cfg.WaitfilePath == "" && len(cfg.Endpoints) == 0 {
		return nil, errors.New("an endpoint (host and port) or a wait file is required")
	}
	if cfg.Interval < 0 {
		return nil, errors.New("interval must be positive")
	}
	if cfg.ConnectTimeout < 0 {
		return nil, errors.New("connect-timeout must be positive")
	}
	if cfg.Timeout < 0 {
		return nil, errors.New("timeout must not be negative")
	}
	if err := validateEndpoints(cfg.Endpoints); err != nil {
		return nil, err
	}

	if cfg.Interval == 0 {
		cfg.Interval = probe.DefaultInterval
	}
	if cfg.ConnectTimeout == 0 {
		cfg.ConnectTimeout = probe.DefaultConnectTimeout
	}
	return &cfg, nil
}

// applyWaitfile merges a loaded wait file into the config. File endpoints
// are appended after any command-line endpoint; file settings fill in only
// the values no explicit flag already set.
func (c *Config) applyWaitfile(wf *waitfile.Waitfile) {
	c.Endpoints = append(c.Endpoints, wf.Endpoints...)
	if !c.IntervalSet && wf.Interval > 0 {
		c.Interval = wf.Interval
	}
	if !c.TimeoutSet && wf.Timeout > 0 {
		c.Timeout = wf.Timeout
	}
	if !c.ConnectTimeoutSet && wf.ConnectTimeout > 0 {
		c.ConnectTimeout = wf.ConnectTimeout
	}
}

func validateEndpoints(endpoints []probe.Endpoint) error {
	for _, ep := range endpoints {
		if err := ep.Validate(); err != nil {
			return fmt.Errorf("endpoint %s: %w", ep.Addr(), err)
		}
	}
	return nil
}
