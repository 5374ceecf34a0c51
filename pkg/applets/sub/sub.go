// Package sub implements the sub command: rewrite a command line with
// pattern/replacement/flags specs, then run, print or copy the result.
package sub

import (
	"errors"
	"io"
	"strings"

	"github.com/rcarmo/go-sub/pkg/core"
	"github.com/rcarmo/go-sub/pkg/core/clipboard"
	"github.com/rcarmo/go-sub/pkg/core/config"
	"github.com/rcarmo/go-sub/pkg/core/fs"
	"github.com/rcarmo/go-sub/pkg/core/procutil"
	"github.com/rcarmo/go-sub/pkg/core/prompt"
	"github.com/rcarmo/go-sub/pkg/subst"
)

const applet = "sub"

// Env holds the collaborators a run talks to.
type Env struct {
	Config    *config.Config
	Prompt    func(stdio *core.Stdio, opts prompt.Options) prompt.Reader
	Clipboard func() clipboard.Provider
	Exec      procutil.Executor
	List      subst.Lister
}

// DefaultEnv wires the real terminal, clipboard, process and filesystem.
func DefaultEnv(cfg *config.Config) *Env {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Env{
		Config:    cfg,
		Prompt:    prompt.New,
		Clipboard: clipboard.Detect,
		Exec:      procutil.Exec,
		List:      fs.ListDir,
	}
}

// Run executes the sub command with the given arguments.
//
// Usage:
//
//	sub COMMAND [ARGS...] -- SPEC [SPEC...]
//
// With no arguments the command line and a single spec are read from
// prompts. Without "--" the arguments are run unchanged.
func Run(stdio *core.Stdio, args []string) int {
	cfg, err := config.LoadDefault()
	if err != nil {
		stdio.Warnf("config: %v", err)
	}
	return RunWith(stdio, args, DefaultEnv(cfg))
}

// RunWith is Run with explicit collaborators.
func RunWith(stdio *core.Stdio, args []string, env *Env) int {
	if len(args) > 0 && (args[0] == "--help" || args[0] == "-h") {
		printUsage(stdio)
		return core.ExitSuccess
	}

	r := &runner{stdio: stdio, env: env}
	defer r.closePrompt()

	inv, code, ok := r.invocation(args)
	if !ok {
		return code
	}
	if inv.passThrough {
		return r.passThrough(inv.words)
	}

	specs := make([]*subst.Spec, 0, len(inv.specs))
	for _, raw := range inv.specs {
		spec, err := subst.Parse(raw)
		if err != nil {
			return core.Fail(stdio, applet, err)
		}
		if w := spec.Warning(); w != "" {
			stdio.Warnf("%s", w)
		}
		specs = append(specs, spec)
	}

	var defaults subst.FlagSet
	if env.Config != nil {
		var unknown string
		defaults, unknown = env.Config.DefaultFlags()
		if unknown != "" {
			stdio.Warnf("config: unknown flag%s: %s", core.Plural(len([]rune(unknown))), unknown)
		}
	}
	res := subst.Chain(inv.words, specs, defaults)
	flags := res.Flags
	if inv.prompted {
		flags.Interactive = true
	}

	words := res.Words
	if flags.ExpandStar {
		expanded, err := subst.Expand(words, env.List)
		if err != nil {
			stdio.Warnf("cannot expand %s: %v", subst.Star, err)
		} else {
			words = expanded
		}
	}

	report(stdio, res, flags)
	return r.dispatch(words, flags)
}

// invocation is one parsed command line.
type invocation struct {
	words       []string
	specs       []string
	passThrough bool
	prompted    bool // read from prompts because no arguments were given
}

// invocation splits args at the last "--". ok is false when the run is
// already over, with code as its exit status.
func (r *runner) invocation(args []string) (inv invocation, code int, ok bool) {
	if len(args) == 0 {
		return r.promptInvocation()
	}

	split := -1
	for i := len(args) - 1; i >= 0; i-- {
		if args[i] == "--" {
			split = i
			break
		}
	}
	if split < 0 {
		return invocation{words: args, passThrough: true}, core.ExitSuccess, true
	}

	words := args[:split]
	rest := args[split+1:]
	if len(rest) == 0 {
		return invocation{words: words, passThrough: true}, core.ExitSuccess, true
	}
	specs, ignored := splitSpecs(rest)
	if len(ignored) > 0 {
		r.stdio.Warnf("ignoring everything after pattern: %s", strings.Join(ignored, " "))
	}
	return invocation{words: words, specs: specs}, core.ExitSuccess, true
}

// splitSpecs takes the first token as a spec, then every following token
// while it still looks like one.
func splitSpecs(tokens []string) (specs, ignored []string) {
	specs = []string{tokens[0]}
	for i := 1; i < len(tokens); i++ {
		if !strings.Contains(tokens[i], "/") {
			return specs, tokens[i:]
		}
		specs = append(specs, tokens[i])
	}
	return specs, nil
}

func (r *runner) promptInvocation() (invocation, int, bool) {
	line, err := r.readLine("cmd: ")
	if err != nil {
		return invocation{}, r.promptFailed(err), false
	}
	spec, err := r.readLine("sub: ")
	if err != nil {
		return invocation{}, r.promptFailed(err), false
	}
	return invocation{
		words:    strings.Fields(line),
		specs:    []string{strings.TrimSpace(spec)},
		prompted: true,
	}, core.ExitSuccess, true
}

// promptFailed treats end of input and Ctrl+C as the user walking away.
func (r *runner) promptFailed(err error) int {
	if errors.Is(err, io.EOF) || errors.Is(err, prompt.ErrAborted) {
		r.stdio.Println()
		return core.ExitSuccess
	}
	return core.Fail(r.stdio, applet, err)
}

func report(stdio *core.Stdio, res subst.Result, flags subst.FlagSet) {
	if flags.Debug {
		for _, spec := range res.Specs {
			stdio.Printf("Pattern: %s\n", spec)
		}
	}
	if flags.Verbose {
		for _, n := range res.Counts {
			stdio.Printf("%d replacement%s\n", n, core.Plural(n))
		}
		if len(res.Counts) > 1 {
			total := res.Total()
			stdio.Printf("%d replacement%s total\n", total, core.Plural(total))
		}
	}
}

func printUsage(stdio *core.Stdio) {
	stdio.Println("Usage: sub COMMAND [ARGS...] -- SPEC [SPEC...]")
	stdio.Println()
	stdio.Println("Rewrite COMMAND with each SPEC in turn, then run it.")
	stdio.Println("SPEC is pattern/replacement/flags. The pattern is a regular expression;")
	stdio.Println(`the replacement may use \1..\9, \0 and \k<name>. An empty replacement`)
	stdio.Println("deletes the match, and a word rewritten to nothing is dropped.")
	stdio.Println("Without arguments, the command and one spec are read from prompts.")
	stdio.Println()
	stdio.Println("Flags:")
	for _, c := range subst.Codes() {
		stdio.Printf("  %c  %s\n", c.Char, c.Help)
	}
}
