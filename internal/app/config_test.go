package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vk/waitgate/internal/probe"
)

func TestNewConfig_Defaults(t *testing.T) {
	t.Parallel()

	config, err := NewConfig(Config{
		Endpoints: []probe.Endpoint{{Host: "db", Port: 5432}},
		Command:   []string{"server"},
	})

	require.NoError(t, err)
	require.Equal(t, probe.DefaultInterval, config.Interval)
	require.Equal(t, probe.DefaultConnectTimeout, config.ConnectTimeout)
	require.Zero(t, config.Timeout, "no deadline by default: the gate waits as long as needed")
}

func TestNewConfig_Validation(t *testing.T) {
	t.Parallel()

	endpoint := []probe.Endpoint{{Host: "db", Port: 5432}}

	cases := []struct {
		name string
		cfg  Config
	}{
		{"missing command", Config{Endpoints: endpoint}},
		{"no endpoint and no wait file", Config{Command: []string{"server"}}},
		{"negative interval", Config{Endpoints: endpoint, Command: []string{"server"}, Interval: -time.Second}},
		{"negative connect timeout", Config{Endpoints: endpoint, Command: []string{"server"}, ConnectTimeout: -time.Second}},
		{"negative timeout", Config{Endpoints: endpoint, Command: []string{"server"}, Timeout: -time.Second}},
		{"bad endpoint port", Config{Endpoints: []probe.Endpoint{{Host: "db", Port: 0}}, Command: []string{"server"}}},
		{"bad endpoint host", Config{Endpoints: []probe.Endpoint{{Host: "", Port: 5432}}, Command: []string{"server"}}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := NewConfig(tc.cfg)

			require.Error(t, err)
		})
	}
}

func TestNewConfig_WaitfileAloneIsEnough(t *testing.T) {
	t.Parallel()

	config, err := NewConfig(Config{
		Command:      []string{"server"},
		WaitfilePath: "deps.hcl",
	})

	require.NoError(t, err)
	require.Empty(t, config.Endpoints, "endpoints arrive later, from the wait file")
}
