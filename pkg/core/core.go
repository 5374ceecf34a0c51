// Package core provides the I/O plumbing shared by the sub applet and its collaborators.
package core

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// Exit codes following POSIX conventions
const (
	ExitSuccess = 0
	ExitFailure = 1
)

// Stdio holds the standard I/O streams for an applet.
// This allows for easy testing by injecting mock streams.
type Stdio struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// DefaultStdio returns Stdio configured with os.Stdin, os.Stdout, os.Stderr.
func DefaultStdio() *Stdio {
	return &Stdio{
		In:  os.Stdin,
		Out: os.Stdout,
		Err: os.Stderr,
	}
}

// Errorf writes a formatted error message to stderr.
func (s *Stdio) Errorf(format string, args ...any) {
	fmt.Fprintf(s.Err, format, args...)
}

// Warnf writes a "Warning: " prefixed line to stderr.
func (s *Stdio) Warnf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintf(s.Err, "Warning: %s\n", strings.TrimSuffix(msg, "\n"))
}

// Printf writes a formatted message to stdout.
func (s *Stdio) Printf(format string, args ...any) {
	fmt.Fprintf(s.Out, format, args...)
}

// Print writes a message to stdout.
func (s *Stdio) Print(args ...any) {
	fmt.Fprint(s.Out, args...)
}

// Println writes a message to stdout with a newline.
func (s *Stdio) Println(args ...any) {
	fmt.Fprintln(s.Out, args...)
}

// Fail prints "applet: err" and returns ExitFailure.
func Fail(stdio *Stdio, applet string, err error) int {
	stdio.Errorf("%s: %v\n", applet, err)
	return ExitFailure
}

// Plural returns "s" unless n is exactly one.
func Plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
