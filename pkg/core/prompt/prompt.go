// Package prompt reads answers from the user: a line editor with history
// on a terminal, plain line reads otherwise.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"golang.org/x/term"

	"github.com/rcarmo/go-sub/pkg/core"
)

// ErrAborted is returned when the user cancels a prompt with Ctrl+C.
var ErrAborted = errors.New("prompt aborted")

// Reader reads one line of input after showing a prompt.
type Reader interface {
	ReadLine(prompt string) (string, error)
	Close() error
}

// Options configure New.
type Options struct {
	// HistoryFile is loaded and saved by the terminal reader. Empty disables history.
	HistoryFile string
}

// New returns a Terminal when stdio.In is a terminal, Lines otherwise.
func New(stdio *core.Stdio, opts Options) Reader {
	if isTerminal(stdio.In) {
		return NewTerminal(opts.HistoryFile)
	}
	return NewLines(stdio.In, stdio.Out)
}

func isTerminal(r io.Reader) bool {
	if f, ok := r.(*os.File); ok {
		return term.IsTerminal(int(f.Fd()))
	}
	return false
}

// Terminal is a line editor with history navigation.
type Terminal struct {
	line        *liner.State
	historyFile string
}

// NewTerminal puts the terminal into line-editing mode; Close restores it.
func NewTerminal(historyFile string) *Terminal {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)
	t := &Terminal{line: line, historyFile: historyFile}
	if historyFile != "" {
		if f, err := os.Open(historyFile); err == nil {
			_, _ = line.ReadHistory(f)
			f.Close()
		}
	}
	return t
}

// ReadLine implements Reader.
func (t *Terminal) ReadLine(prompt string) (string, error) {
	input, err := t.line.Prompt(prompt)
	if err != nil {
		if errors.Is(err, liner.ErrPromptAborted) {
			return "", ErrAborted
		}
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		t.line.AppendHistory(input)
	}
	return input, nil
}

// Close saves history and restores the terminal.
func (t *Terminal) Close() error {
	if t.historyFile != "" {
		if err := os.MkdirAll(filepath.Dir(t.historyFile), 0700); err == nil {
			if f, err := os.OpenFile(t.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600); err == nil {
				_, _ = t.line.WriteHistory(f)
				f.Close()
			}
		}
	}
	return t.line.Close()
}

// Lines reads newline-terminated answers from a plain stream.
type Lines struct {
	in  *bufio.Reader
	out io.Writer
}

// NewLines reads from in and writes prompts to out.
func NewLines(in io.Reader, out io.Writer) *Lines {
	return &Lines{in: bufio.NewReader(in), out: out}
}

// ReadLine implements Reader. A final line without a newline is returned
// as-is; io.EOF is returned only when nothing was read.
func (l *Lines) ReadLine(prompt string) (string, error) {
	fmt.Fprint(l.out, prompt)
	line, err := l.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// Close implements Reader.
func (l *Lines) Close() error { return nil }
