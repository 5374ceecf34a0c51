// Package procutil launches the rewritten command.
package procutil

import (
	"errors"
	"fmt"
	"io/fs"
	"os/exec"
	"syscall"
)

// ErrKind classifies a failed launch.
type ErrKind int

const (
	// NotFound means no executable by that name exists.
	NotFound ErrKind = iota + 1
	// Other is any other launch failure.
	Other
	// Exited means the command ran and exited non-zero (platforms without exec).
	Exited
)

// ExecError reports why a command could not replace this process.
type ExecError struct {
	Kind    ErrKind
	Program string
	Code    int    // exit status to propagate
	Name    string // errno identifier, e.g. EACCES
	Err     error
}

func (e *ExecError) Error() string {
	switch e.Kind {
	case NotFound:
		return e.Program + ": command not found"
	case Exited:
		return fmt.Sprintf("%s: exit status %d", e.Program, e.Code)
	default:
		return fmt.Sprintf("%s: %s: %v", e.Name, e.Program, e.Err)
	}
}

func (e *ExecError) Unwrap() error { return e.Err }

// Executor runs program with args. On platforms with exec it only returns
// on failure: success replaces the calling process.
type Executor func(program string, args []string) error

// classify turns a lookup or launch error into an ExecError.
func classify(program string, err error) *ExecError {
	if errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist) {
		return &ExecError{
			Kind:    NotFound,
			Program: program,
			Code:    int(syscall.ENOENT),
			Name:    errnoName(syscall.ENOENT),
			Err:     err,
		}
	}
	var errno syscall.Errno
	if !errors.As(err, &errno) && errors.Is(err, fs.ErrPermission) {
		errno = syscall.EACCES
	}
	if errno == 0 {
		return &ExecError{Kind: Other, Program: program, Code: 1, Name: "Error", Err: err}
	}
	return &ExecError{
		Kind:    Other,
		Program: program,
		Code:    int(errno),
		Name:    errnoName(errno),
		Err:     errno,
	}
}
