//go:build unix

package procutil

import (
	"os"
	"os/exec"
	"syscall"

	"golang.org/x/sys/unix"
)

// Exec replaces the current process with program. It returns only when
// the program cannot be found or launched.
func Exec(program string, args []string) error {
	path, err := exec.LookPath(program)
	if err != nil {
		return classify(program, err)
	}
	argv := append([]string{program}, args...)
	if err := unix.Exec(path, argv, os.Environ()); err != nil { // #nosec G204 -- running the user's own command is the point
		return classify(program, err)
	}
	return nil
}

func errnoName(errno syscall.Errno) string {
	if name := unix.ErrnoName(errno); name != "" {
		return name
	}
	return errno.Error()
}
