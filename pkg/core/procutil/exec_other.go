//go:build !unix

package procutil

import (
	"errors"
	"os"
	"os/exec"
	"syscall"
)

// Exec runs program to completion with this process's stdio. Platforms
// without exec cannot replace the process, so a non-zero exit comes back
// as an ExecError of kind Exited.
func Exec(program string, args []string) error {
	path, err := exec.LookPath(program)
	if err != nil {
		return classify(program, err)
	}
	cmd := exec.Command(path, args...) // #nosec G204 -- running the user's own command is the point
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Env = os.Environ()
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return &ExecError{Kind: Exited, Program: program, Code: exitErr.ExitCode(), Err: err}
		}
		return classify(program, err)
	}
	return nil
}

func errnoName(errno syscall.Errno) string {
	return errno.Error()
}
