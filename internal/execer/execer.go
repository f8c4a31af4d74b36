// Package execer transfers control from the gate to the target command once
// every endpoint is reachable. On unix this is a true process-image
// replacement; elsewhere the observable equivalent is provided by spawning
// the command and propagating its streams, signals, and exit code.
package execer

import "errors"

// ErrExecFailed marks a command that could not be started at all, as opposed
// to a dependency that never became ready. The two conditions map to
// different exit codes so operators can tell them apart.
var ErrExecFailed = errors.New("command could not be started")
