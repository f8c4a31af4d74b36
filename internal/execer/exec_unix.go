//go:build unix

package execer

import (
	"fmt"
	"os"
	"os/exec"
	"syscall"
)

// Exec replaces the current process image with argv, inheriting the standard
// streams and environment. It does not return on success: the gate's PID
// becomes the command's PID, so the supervisor observes a single logical
// process throughout. argv[0] is resolved via PATH here and nowhere earlier;
// the endpoint check never depends on the command being resolvable.
func Exec(argv []string) error {
	path, err := exec.LookPath(argv[0])
	if err != nil {
		return fmt.Errorf("%w: %v", ErrExecFailed, err)
	}
	if err := syscall.Exec(path, argv, os.Environ()); err != nil {
		return fmt.Errorf("%w: exec %s: %v", ErrExecFailed, path, err)
	}
	return nil
}
