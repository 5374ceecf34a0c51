package sub

import (
	"errors"
	"strings"

	"github.com/rcarmo/go-sub/pkg/core"
	"github.com/rcarmo/go-sub/pkg/core/clipboard"
	"github.com/rcarmo/go-sub/pkg/core/procutil"
	"github.com/rcarmo/go-sub/pkg/core/prompt"
	"github.com/rcarmo/go-sub/pkg/subst"
)

// runner carries one invocation's stdio and the lazily opened prompt.
type runner struct {
	stdio  *core.Stdio
	env    *Env
	reader prompt.Reader
	clip   clipboard.Provider
}

func (r *runner) clipboardProvider() clipboard.Provider {
	if r.clip == nil {
		r.clip = r.env.Clipboard()
	}
	return r.clip
}

func (r *runner) readLine(p string) (string, error) {
	if r.reader == nil {
		opts := prompt.Options{}
		if r.env.Config != nil {
			opts.HistoryFile = r.env.Config.HistoryFile
		}
		r.reader = r.env.Prompt(r.stdio, opts)
	}
	return r.reader.ReadLine(p)
}

// closePrompt restores the terminal. It must run before exec: a replaced
// process never reaches deferred calls.
func (r *runner) closePrompt() {
	if r.reader != nil {
		_ = r.reader.Close()
		r.reader = nil
	}
}

// dispatch takes the terminal action for the final vector. Precedence:
// empty vector, confirmation, print and/or copy, execute.
func (r *runner) dispatch(words []string, flags subst.FlagSet) int {
	stdio := r.stdio
	line := strings.Join(words, " ")

	if flags.Copy {
		if err := r.clipboardProvider().Available(); err != nil {
			stdio.Warnf("%v; printing the command instead", err)
			flags.Copy = false
			flags.OutputOnly = true
		}
	}

	if len(words) == 0 {
		code := core.ExitSuccess
		if flags.Copy {
			code = r.copy("\n")
		}
		if flags.OutputOnly {
			stdio.Println()
		} else {
			stdio.Println("Nothing to execute")
		}
		return code
	}

	if flags.Interactive {
		ok, code := r.confirm(line)
		if !ok {
			return code
		}
	}

	if flags.OutputOnly || flags.Copy {
		code := core.ExitSuccess
		if flags.OutputOnly {
			stdio.Println(line)
		}
		if flags.Copy {
			code = r.copy(line)
		}
		return code
	}

	if !flags.Interactive {
		stdio.Println(line)
	}
	return r.execute(words)
}

// confirm asks before running. Anything but y or yes declines.
func (r *runner) confirm(line string) (bool, int) {
	answer, err := r.readLine("Execute: " + line + "? [y/N] ")
	if err != nil {
		return false, r.promptFailed(err)
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, core.ExitSuccess
	}
	return false, core.ExitSuccess
}

func (r *runner) copy(text string) int {
	if err := r.clipboardProvider().Copy(text); err != nil {
		r.stdio.Errorf("%s: copy to clipboard failed: %v\n", applet, err)
		return core.ExitFailure
	}
	r.stdio.Println("Copied")
	return core.ExitSuccess
}

func (r *runner) passThrough(words []string) int {
	if len(words) == 0 {
		r.stdio.Println("Nothing to execute")
		return core.ExitSuccess
	}
	return r.execute(words)
}

func (r *runner) execute(words []string) int {
	r.closePrompt()
	err := r.env.Exec(words[0], words[1:])
	if err == nil {
		return core.ExitSuccess
	}
	var execErr *procutil.ExecError
	if errors.As(err, &execErr) {
		if execErr.Kind != procutil.Exited {
			r.stdio.Errorf("%v\n", execErr)
		}
		return execErr.Code
	}
	return core.Fail(r.stdio, applet, err)
}
