package cli

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vk/waitgate/internal/probe"
)

func TestParse_PositionalEndpointAndCommand(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}

	config, shouldExit, err := Parse([]string{"db", "5432", "--", "server", "-p", "8000"}, out)

	require.NoError(t, err)
	require.False(t, shouldExit)
	require.Equal(t, []probe.Endpoint{{Host: "db", Port: 5432}}, config.Endpoints)
	require.Equal(t, []string{"server", "-p", "8000"}, config.Command)
	require.Equal(t, time.Duration(0), config.Timeout, "the default is to wait forever")
	require.Equal(t, probe.DefaultInterval, config.Interval)
}

func TestParse_CommandWithoutSeparator(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}

	config, shouldExit, err := Parse([]string{"db", "5432", "server"}, out)

	require.NoError(t, err)
	require.False(t, shouldExit)
	require.Equal(t, []string{"server"}, config.Command)
}

func TestParse_FlagsBeforePositionals(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}

	config, _, err := Parse([]string{"-t", "30s", "-i", "250ms", "db", "5432", "--", "true"}, out)

	require.NoError(t, err)
	require.Equal(t, 30*time.Second, config.Timeout)
	require.Equal(t, 250*time.Millisecond, config.Interval)
	require.True(t, config.TimeoutSet)
	require.True(t, config.IntervalSet)
	require.False(t, config.ConnectTimeoutSet)
}

func TestParse_WaitfileMode(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}

	config, _, err := Parse([]string{"-waitfile", "deps.hcl", "--", "server"}, out)

	require.NoError(t, err)
	require.Empty(t, config.Endpoints)
	require.Equal(t, "deps.hcl", config.WaitfilePath)
	require.Equal(t, []string{"server"}, config.Command)
}

func TestParse_WaitfileRejectsPositionals(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}

	_, _, err := Parse([]string{"-waitfile", "deps.hcl", "db", "5432", "--", "server"}, out)

	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	require.Equal(t, CodeUsage, exitErr.Code)
	require.Contains(t, exitErr.Message, "cannot be combined")
}

func TestParse_UsageErrors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		args []string
	}{
		{"missing port", []string{"db"}},
		{"port not numeric", []string{"db", "http", "--", "true"}},
		{"port out of range", []string{"db", "70000", "--", "true"}},
		{"port zero", []string{"db", "0", "--", "true"}},
		{"missing command", []string{"db", "5432"}},
		{"missing command after separator", []string{"db", "5432", "--"}},
		{"extra positional", []string{"db", "5432", "extra", "--", "true"}},
		{"bad log format", []string{"-log-format", "xml", "db", "5432", "--", "true"}},
		{"bad log level", []string{"-log-level", "loud", "db", "5432", "--", "true"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			out := &bytes.Buffer{}

			_, _, err := Parse(tc.args, out)

			var exitErr *ExitError
			require.ErrorAs(t, err, &exitErr, "expected a usage error")
			require.Equal(t, CodeUsage, exitErr.Code)
		})
	}
}

func TestParse_HelpExitsCleanly(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}

	config, shouldExit, err := Parse([]string{"-h"}, out)

	require.NoError(t, err)
	require.True(t, shouldExit)
	require.Nil(t, config)
	require.Contains(t, out.String(), "Exit codes:")
}
