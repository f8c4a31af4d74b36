package app

import (
	"bytes"
	"net"
	"os"
	"sync"
	"testing"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// SetupGateTest builds an App around the given config with log capture and a
// debug log level, for use in package tests.
func SetupGateTest(t *testing.T, config Config) (*App, *SafeBuffer) {
	t.Helper()

	logBuffer := &SafeBuffer{}
	config.LogLevel = "debug"

	validated, err := NewConfig(config)
	if err != nil {
		t.Fatalf("invalid test config: %v", err)
	}
	gate, err := NewApp(logBuffer, validated)
	if err != nil {
		t.Fatalf("failed to build test app: %v", err)
	}

	t.Cleanup(func() {
		if os.Getenv("WAITGATE_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logBuffer.String())
		}
	})

	return gate, logBuffer
}

// StartListener opens a TCP listener on a loopback port chosen by the kernel
// and returns its port. The listener is closed when the test finishes.
func StartListener(t *testing.T) (net.Listener, int) {
	t.Helper()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to start listener: %v", err)
	}
	t.Cleanup(func() { _ = listener.Close() })
	return listener, listener.Addr().(*net.TCPAddr).Port
}

// ClosedPort returns a loopback port that was just released, so connecting
// to it is expected to be refused.
func ClosedPort(t *testing.T) int {
	t.Helper()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to reserve port: %v", err)
	}
	port := listener.Addr().(*net.TCPAddr).Port
	_ = listener.Close()
	return port
}
