// Package probe implements the TCP reachability check at the heart of the
// gate: a sequential polling loop that dials an endpoint until it accepts a
// connection, the overall deadline expires, or the context is cancelled.
package probe

import (
	"errors"
	"net"
	"strconv"
	"time"
)

// Endpoint identifies the TCP listener the gate waits for. Host and Port are
// fixed for the lifetime of one invocation.
type Endpoint struct {
	Host string
	Port int
}

// Addr returns the endpoint in dialable host:port form.
func (e Endpoint) Addr() string {
	return net.JoinHostPort(e.Host, strconv.Itoa(e.Port))
}

// Validate reports whether the endpoint can be dialled at all.
func (e Endpoint) Validate() error {
	if e.Host == "" {
		return errors.New("endpoint host must not be empty")
	}
	if e.Port < 1 || e.Port > 65535 {
		return errors.New("endpoint port must be in range 1-65535")
	}
	return nil
}

// Outcome classifies a single connection attempt.
type Outcome int

const (
	// Success means the endpoint accepted a TCP connection.
	Success Outcome = iota
	// ConnectionRefused covers refused and otherwise unreachable endpoints.
	ConnectionRefused
	// Timeout means the attempt did not complete within its own timeout.
	Timeout
	// ResolutionFailure means the endpoint's name could not be resolved.
	// The orchestration layer may not have published the DNS record yet,
	// so this is just as recoverable as a refused connection.
	ResolutionFailure
)

// String returns the outcome in the form used in waiting log lines.
func (o Outcome) String() string {
	switch o {
	case Success:
		return "success"
	case ConnectionRefused:
		return "connection refused"
	case Timeout:
		return "timeout"
	case ResolutionFailure:
		return "resolution failure"
	default:
		return "unknown"
	}
}

// Attempt records one connection attempt against an endpoint. Attempts are
// transient; nothing is persisted across them.
type Attempt struct {
	Endpoint  Endpoint
	StartedAt time.Time
	Latency   time.Duration
	Outcome   Outcome
	Err       error
}

// classify maps a dial error onto the attempt outcome taxonomy. Every
// non-success outcome is handled identically by the wait loop; the
// classification only feeds the log line.
func classify(err error) Outcome {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return ResolutionFailure
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return Timeout
	}
	return ConnectionRefused
}
