//go:build unix

package execer

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExec_MissingBinary(t *testing.T) {
	t.Parallel()

	// A path that cannot resolve must fail before any process replacement
	// happens, with the error class that maps to the exec-failure exit code.
	err := Exec([]string{"/nonexistent/definitely-missing-binary"})

	require.Error(t, err)
	require.ErrorIs(t, err, ErrExecFailed)
}

func TestExec_UnresolvableName(t *testing.T) {
	t.Parallel()

	err := Exec([]string{"waitgate-test-binary-that-does-not-exist"})

	require.Error(t, err)
	require.ErrorIs(t, err, ErrExecFailed)
}
