package probe

import (
	"errors"
	"net"
	"os"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestEndpoint_Addr(t *testing.T) {
	t.Parallel()

	require.Equal(t, "db:5432", Endpoint{Host: "db", Port: 5432}.Addr())
	require.Equal(t, "[::1]:80", Endpoint{Host: "::1", Port: 80}.Addr())
}

func TestEndpoint_Validate(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		ep      Endpoint
		wantErr bool
	}{
		{"valid", Endpoint{Host: "db", Port: 5432}, false},
		{"min port", Endpoint{Host: "db", Port: 1}, false},
		{"max port", Endpoint{Host: "db", Port: 65535}, false},
		{"empty host", Endpoint{Host: "", Port: 5432}, true},
		{"port zero", Endpoint{Host: "db", Port: 0}, true},
		{"port too large", Endpoint{Host: "db", Port: 65536}, true},
		{"negative port", Endpoint{Host: "db", Port: -1}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			err := tc.ep.Validate()

			if tc.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

// timeoutErr is a minimal net.Error whose Timeout() reports true.
type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestClassify(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		err  error
		want Outcome
	}{
		{
			name: "dns failure",
			err:  &net.OpError{Op: "dial", Err: &net.DNSError{Err: "no such host", Name: "db"}},
			want: ResolutionFailure,
		},
		{
			name: "timeout",
			err:  &net.OpError{Op: "dial", Err: timeoutErr{}},
			want: Timeout,
		},
		{
			name: "connection refused",
			err:  &net.OpError{Op: "dial", Err: os.NewSyscallError("connect", syscall.ECONNREFUSED)},
			want: ConnectionRefused,
		},
		{
			name: "anything else",
			err:  errors.New("network is unreachable"),
			want: ConnectionRefused,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			require.Equal(t, tc.want, classify(tc.err))
		})
	}
}

func TestOutcome_String(t *testing.T) {
	t.Parallel()

	require.Equal(t, "success", Success.String())
	require.Equal(t, "connection refused", ConnectionRefused.String())
	require.Equal(t, "timeout", Timeout.String())
	require.Equal(t, "resolution failure", ResolutionFailure.String())
	require.Equal(t, "unknown", Outcome(42).String())
}

func TestWaiter_AttemptClosesConnection(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	listener, port := startListener(t)
	w := &Waiter{}

	// --- Act ---
	attempt := w.attempt(t.Context(), Endpoint{Host: "127.0.0.1", Port: port}, time.Second)

	// --- Assert ---
	require.Equal(t, Success, attempt.Outcome)
	require.NoError(t, attempt.Err)

	// The probe side closed immediately; accepting and reading must see EOF
	// promptly, proving no connection was left open.
	conn, err := listener.Accept()
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	buf := make([]byte, 1)
	n, err := conn.Read(buf)
	require.Zero(t, n, "the probe must not send any bytes")
	require.Error(t, err, "expected EOF from the closed probe connection")
}
