package sub_test

import (
	"errors"
	"reflect"
	"testing"

	"github.com/rcarmo/go-sub/pkg/applets/sub"
	"github.com/rcarmo/go-sub/pkg/core"
	"github.com/rcarmo/go-sub/pkg/core/clipboard"
	"github.com/rcarmo/go-sub/pkg/core/config"
	"github.com/rcarmo/go-sub/pkg/core/fs"
	"github.com/rcarmo/go-sub/pkg/core/procutil"
	"github.com/rcarmo/go-sub/pkg/core/prompt"
	"github.com/rcarmo/go-sub/pkg/testutil"
)

type fakeExec struct {
	called  bool
	program string
	args    []string
	err     error
	// closedFirst records whether the prompt was closed before exec.
	closedFirst bool
	reader      *trackingReader
}

func (f *fakeExec) exec(program string, args []string) error {
	f.called = true
	f.program = program
	f.args = append([]string(nil), args...)
	if f.reader != nil {
		f.closedFirst = f.reader.closed
	}
	return f.err
}

type fakeClipboard struct {
	unavailable bool
	err         error
	copied      bool
	text        string
}

func (c *fakeClipboard) Available() error {
	if c.unavailable {
		return clipboard.Unavailable{Reason: "install xclip, xsel or wl-clipboard"}.Available()
	}
	return nil
}

func (c *fakeClipboard) Copy(text string) error {
	if c.err != nil {
		return c.err
	}
	c.copied = true
	c.text = text
	return nil
}

type trackingReader struct {
	*prompt.Lines
	closed bool
}

func (r *trackingReader) Close() error {
	r.closed = true
	return nil
}

type fixture struct {
	env   *sub.Env
	exec  *fakeExec
	clip  *fakeClipboard
	cfg   *config.Config
	opens int
}

func newFixture() *fixture {
	f := &fixture{exec: &fakeExec{}, clip: &fakeClipboard{}, cfg: &config.Config{}}
	f.env = &sub.Env{
		Config: f.cfg,
		Prompt: func(stdio *core.Stdio, _ prompt.Options) prompt.Reader {
			f.opens++
			r := &trackingReader{Lines: prompt.NewLines(stdio.In, stdio.Out)}
			f.exec.reader = r
			return r
		},
		Clipboard: func() clipboard.Provider { return f.clip },
		Exec:      f.exec.exec,
		List:      fs.ListDir,
	}
	return f
}

func (f *fixture) run(stdio *core.Stdio, args []string) int {
	return sub.RunWith(stdio, args, f.env)
}

// runFresh gives every table case its own collaborators.
func runFresh(stdio *core.Stdio, args []string) int {
	return newFixture().run(stdio, args)
}

func TestSub(t *testing.T) {
	tests := []testutil.AppletTestCase{
		{Name: "output_only", Args: []string{"ls", "-al", "--", "l//o"}, WantCode: core.ExitSuccess, WantOut: "s -a\n", NoErr: true},
		{Name: "unknown_flag_warns", Args: []string{"ls", "-al", "--", "l//oX"}, WantCode: core.ExitSuccess, WantOut: "s -a\n", WantErr: "Warning: unknown flag: X\n"},
		{Name: "unknown_flags_warns_plural", Args: []string{"ls", "-al", "--", "l//oXY"}, WantCode: core.ExitSuccess, WantOut: "s -a\n", WantErr: "Warning: unknown flags: XY\n"},
		{Name: "repeated_flag_no_warning", Args: []string{"ls", "-al", "--", "l//oo"}, WantCode: core.ExitSuccess, WantOut: "s -a\n", NoErr: true},
		{Name: "first_matching_word", Args: []string{"wget", "https://wget.com", "--", "wget/curl/fo"}, WantCode: core.ExitSuccess, WantOut: "curl https://wget.com\n", NoErr: true},
		{Name: "last_matching_word", Args: []string{"ls", "-al", "--", "l//lo"}, WantCode: core.ExitSuccess, WantOut: "ls -a\n", NoErr: true},
		{Name: "literal", Args: []string{"cp", "here.txt", "there.txt", "--", "./_/Lo"}, WantCode: core.ExitSuccess, WantOut: "cp here_txt there_txt\n"},
		{Name: "ignorecase", Args: []string{"cp", "here.txt", "there.txt", "--", "CP/mv/io"}, WantCode: core.ExitSuccess, WantOut: "mv here.txt there.txt\n"},
		{Name: "general", Args: []string{"cp", "here.txt", "there.txt", "--", "./_/go"}, WantCode: core.ExitSuccess, WantOut: "__ ________ _________\n"},
		{Name: "chain", Args: []string{"ls", "-al", "--", "l/HI/", "hi/HEY/io"}, WantCode: core.ExitSuccess, WantOut: "HEYs -aHEY\n", NoErr: true},
		{Name: "global_flag_on_first_spec", Args: []string{"ls", "-al", "--", "l/HI/o", "hi/HEY/i"}, WantCode: core.ExitSuccess, WantOut: "HEYs -aHEY\n"},
		{Name: "flags_only_spec", Args: []string{"ls", "-al", "--", "//o"}, WantCode: core.ExitSuccess, WantOut: "ls -al\n"},
		{Name: "earlier_dashdash_is_a_word", Args: []string{"git", "log", "--", "file", "--", "file/other/o"}, WantCode: core.ExitSuccess, WantOut: "git log -- other\n"},
		{Name: "verbose", Args: []string{"ls", "-al", "--", "l//ov"}, WantCode: core.ExitSuccess, WantOut: "2 replacements\ns -a\n"},
		{Name: "verbose_singular", Args: []string{"ls", "--", "l//ov"}, WantCode: core.ExitSuccess, WantOut: "1 replacement\ns\n"},
		{Name: "verbose_last", Args: []string{"ls", "-al", "--", "l//olv"}, WantCode: core.ExitSuccess, WantOut: "1 replacement\nls -a\n"},
		{Name: "verbose_chain", Args: []string{"ls", "-al", "--", "l/HI/v", "hi/HEY/io"}, WantCode: core.ExitSuccess, WantOut: "2 replacements\n2 replacements\n4 replacements total\nHEYs -aHEY\n"},
		{Name: "debug", Args: []string{"cp", "here.txt", "--", "CP/mv/iDo"}, WantCode: core.ExitSuccess, WantOut: "Pattern: /CP/i\nmv here.txt\n"},
		{Name: "invalid_pattern", Args: []string{"ls", "--", ""}, WantCode: core.ExitFailure, WantErr: "sub: incorrect pattern"},
		{Name: "invalid_pattern_slashes", Args: []string{"ls", "--", "//"}, WantCode: core.ExitFailure, WantErr: "incorrect pattern"},
		{Name: "unknown_flags_only_is_invalid", Args: testutil.Invocation("ls", "/x/Z"), WantCode: core.ExitFailure, WantErr: "sub: incorrect pattern"},
		{Name: "last_match_drops_every_deletion", Args: testutil.Invocation("a x b x", "x//lo"), WantCode: core.ExitSuccess, WantOut: "a b\n", NoErr: true},
		{Name: "verbose_last_after_deletion", Args: testutil.Invocation("a ab", "a//lov"), WantCode: core.ExitSuccess, WantOut: "1 replacement\nb\n"},
		{Name: "bad_regexp", Args: []string{"ls", "--", "(/x/"}, WantCode: core.ExitFailure, WantErr: "invalid pattern"},
		{Name: "ignored_tail", Args: []string{"ls", "-al", "--", "l//o", "extra", "stuff/x"}, WantCode: core.ExitSuccess, WantOut: "s -a\n", WantErr: "Warning: ignoring everything after pattern: extra stuff/x\n"},
		{Name: "nothing_to_execute", Args: []string{"ls", "--", "ls//"}, WantCode: core.ExitSuccess, WantOut: "Nothing to execute\n"},
		{Name: "nothing_output_only", Args: []string{"ls", "--", "ls//o"}, WantCode: core.ExitSuccess, WantOut: "\n"},
		{Name: "help", Args: []string{"--help"}, WantCode: core.ExitSuccess, WantOutSub: "Usage: sub COMMAND"},
		{Name: "help_short", Args: []string{"-h", "--", "x/y/"}, WantCode: core.ExitSuccess, WantOutSub: "  I  ask for confirmation before running\n"},
		{
			Name:     "expand_star",
			Args:     []string{"echo", "*", "--", "x/y/eo"},
			Files:    map[string]string{"b.txt": "", "a.txt": "", ".hidden": ""},
			WantCode: core.ExitSuccess,
			WantOut:  "echo a.txt b.txt\n",
		},
		{
			Name:     "expand_star_declared_on_any_spec",
			Args:     []string{"echo", "*", "--", "x/y/e", "echo/printf/o"},
			Files:    map[string]string{"a.txt": ""},
			WantCode: core.ExitSuccess,
			WantOut:  "printf a.txt\n",
		},
		{
			Name:     "star_kept_without_flag",
			Args:     []string{"echo", "*", "--", "x/y/o"},
			Files:    map[string]string{"a.txt": ""},
			WantCode: core.ExitSuccess,
			WantOut:  "echo *\n",
		},
		{
			Name:     "star_must_be_whole_word",
			Args:     []string{"echo", "*.txt", "a*", "--", "x/y/eo"},
			Files:    map[string]string{"a.txt": ""},
			WantCode: core.ExitSuccess,
			WantOut:  "echo *.txt a*\n",
		},
		{Name: "star_in_empty_dir", Args: []string{"echo", "*", "--", "x/y/eo"}, WantCode: core.ExitSuccess, WantOut: "echo\n"},
		{Name: "star_produced_by_substitution", Args: []string{"echo", "all", "--", "all/*/", "//eo"}, Files: map[string]string{"z": ""}, WantCode: core.ExitSuccess, WantOut: "echo z\n"},
		{Name: "interactive_yes", Args: []string{"ls", "-al", "--", "l//oI"}, Input: "y\n", WantCode: core.ExitSuccess, WantOut: "Execute: s -a? [y/N] s -a\n"},
		{Name: "interactive_yes_word", Args: []string{"ls", "-al", "--", "l//oI"}, Input: " YES \n", WantCode: core.ExitSuccess, WantOut: "Execute: s -a? [y/N] s -a\n"},
		{Name: "interactive_no", Args: []string{"ls", "-al", "--", "l//oI"}, Input: "n\n", WantCode: core.ExitSuccess, WantOut: "Execute: s -a? [y/N] "},
		{Name: "interactive_eof", Args: []string{"ls", "-al", "--", "l//oI"}, WantCode: core.ExitSuccess, WantOut: "Execute: s -a? [y/N] \n"},
		{Name: "execute_prints_line", Args: []string{"echo", "hi", "--", "hi/ho/"}, WantCode: core.ExitSuccess, WantOut: "echo ho\n", NoErr: true},
		{Name: "pass_through_prints_nothing", Args: []string{"ls", "-al"}, WantCode: core.ExitSuccess, NoErr: true},
		{Name: "pass_through_empty", Args: []string{"--"}, WantCode: core.ExitSuccess, WantOut: "Nothing to execute\n"},
	}
	testutil.RunAppletTests(t, runFresh, tests)
}

func TestExecuteReceivesRewrittenVector(t *testing.T) {
	f := newFixture()
	out, errBuf, code := testutil.CaptureAndRun(t, f.run, []string{"cp", "here.txt", "there.txt", "--", "cp/mv/"}, "")
	testutil.AssertExitCode(t, code, core.ExitSuccess)
	testutil.AssertOutput(t, out.String(), "mv here.txt there.txt\n")
	testutil.AssertOutput(t, errBuf.String(), "")
	if !f.exec.called || f.exec.program != "mv" || !reflect.DeepEqual(f.exec.args, []string{"here.txt", "there.txt"}) {
		t.Errorf("exec got %q %q", f.exec.program, f.exec.args)
	}
}

func TestPassThrough(t *testing.T) {
	f := newFixture()
	out, _, code := testutil.CaptureAndRun(t, f.run, []string{"ls", "-al", "/tmp"}, "")
	testutil.AssertExitCode(t, code, core.ExitSuccess)
	testutil.AssertOutput(t, out.String(), "")
	if f.exec.program != "ls" || !reflect.DeepEqual(f.exec.args, []string{"-al", "/tmp"}) {
		t.Errorf("exec got %q %q", f.exec.program, f.exec.args)
	}
}

func TestPassThroughWhenNoSpecFollowsSeparator(t *testing.T) {
	f := newFixture()
	_, _, code := testutil.CaptureAndRun(t, f.run, []string{"ls", "-al", "--"}, "")
	testutil.AssertExitCode(t, code, core.ExitSuccess)
	if f.exec.program != "ls" || !reflect.DeepEqual(f.exec.args, []string{"-al"}) {
		t.Errorf("exec got %q %q", f.exec.program, f.exec.args)
	}
}

func TestCommandNotFound(t *testing.T) {
	f := newFixture()
	f.exec.err = &procutil.ExecError{Kind: procutil.NotFound, Program: "xxxs", Code: 2, Name: "ENOENT"}
	out, errBuf, code := testutil.CaptureAndRun(t, f.run, []string{"ls", "-al", "--", "l/xxx/"}, "")
	testutil.AssertExitCode(t, code, 2)
	testutil.AssertOutput(t, out.String(), "xxxs -axxx\n")
	testutil.AssertOutput(t, errBuf.String(), "xxxs: command not found\n")
}

func TestExecFailureUsesErrno(t *testing.T) {
	f := newFixture()
	f.exec.err = &procutil.ExecError{Kind: procutil.Other, Program: "./x", Code: 13, Name: "EACCES", Err: errors.New("permission denied")}
	_, errBuf, code := testutil.CaptureAndRun(t, f.run, []string{"./x", "--", "y/z/"}, "")
	testutil.AssertExitCode(t, code, 13)
	testutil.AssertOutput(t, errBuf.String(), "EACCES: ./x: permission denied\n")
}

func TestExitedCommandPropagatesStatus(t *testing.T) {
	f := newFixture()
	f.exec.err = &procutil.ExecError{Kind: procutil.Exited, Program: "false", Code: 3}
	_, errBuf, code := testutil.CaptureAndRun(t, f.run, []string{"false"}, "")
	testutil.AssertExitCode(t, code, 3)
	testutil.AssertOutput(t, errBuf.String(), "")
}

func TestExecUnexpectedError(t *testing.T) {
	f := newFixture()
	f.exec.err = errors.New("boom")
	_, errBuf, code := testutil.CaptureAndRun(t, f.run, []string{"true"}, "")
	testutil.AssertExitCode(t, code, core.ExitFailure)
	testutil.AssertOutput(t, errBuf.String(), "sub: boom\n")
}

func TestCopy(t *testing.T) {
	f := newFixture()
	out, _, code := testutil.CaptureAndRun(t, f.run, []string{"ls", "-al", "--", "l//c"}, "")
	testutil.AssertExitCode(t, code, core.ExitSuccess)
	testutil.AssertOutput(t, out.String(), "Copied\n")
	testutil.AssertOutput(t, f.clip.text, "s -a")
	if f.exec.called {
		t.Error("copy must not execute")
	}
}

func TestCopyAndPrint(t *testing.T) {
	f := newFixture()
	out, _, code := testutil.CaptureAndRun(t, f.run, []string{"ls", "-al", "--", "l//co"}, "")
	testutil.AssertExitCode(t, code, core.ExitSuccess)
	testutil.AssertOutput(t, out.String(), "s -a\nCopied\n")
	testutil.AssertOutput(t, f.clip.text, "s -a")
}

func TestCopyEmptyVector(t *testing.T) {
	f := newFixture()
	out, _, code := testutil.CaptureAndRun(t, f.run, []string{"ls", "--", "ls//c"}, "")
	testutil.AssertExitCode(t, code, core.ExitSuccess)
	testutil.AssertOutput(t, out.String(), "Copied\nNothing to execute\n")
	testutil.AssertOutput(t, f.clip.text, "\n")
}

func TestCopyUnavailableFallsBackToOutput(t *testing.T) {
	f := newFixture()
	f.clip.unavailable = true
	out, errBuf, code := testutil.CaptureAndRun(t, f.run, []string{"ls", "-al", "--", "l//c"}, "")
	testutil.AssertExitCode(t, code, core.ExitSuccess)
	testutil.AssertOutput(t, out.String(), "s -a\n")
	testutil.AssertOutput(t, errBuf.String(), "Warning: clipboard unavailable: install xclip, xsel or wl-clipboard; printing the command instead\n")
	if f.clip.copied || f.exec.called {
		t.Error("unavailable clipboard must neither copy nor execute")
	}
}

func TestCopyFailure(t *testing.T) {
	f := newFixture()
	f.clip.err = errors.New("xclip exited 1")
	out, errBuf, code := testutil.CaptureAndRun(t, f.run, []string{"ls", "-al", "--", "l//co"}, "")
	testutil.AssertExitCode(t, code, core.ExitFailure)
	testutil.AssertOutput(t, out.String(), "s -a\n")
	testutil.AssertOutput(t, errBuf.String(), "sub: copy to clipboard failed: xclip exited 1\n")
}

func TestInteractiveDeclineDoesNothing(t *testing.T) {
	f := newFixture()
	_, _, code := testutil.CaptureAndRun(t, f.run, []string{"rm", "-rf", "x", "--", "x/y/I"}, "no\n")
	testutil.AssertExitCode(t, code, core.ExitSuccess)
	if f.exec.called {
		t.Error("declined command must not execute")
	}
}

func TestInteractiveConfirmExecutes(t *testing.T) {
	f := newFixture()
	out, _, code := testutil.CaptureAndRun(t, f.run, []string{"rm", "x", "--", "x/y/I"}, "y\n")
	testutil.AssertExitCode(t, code, core.ExitSuccess)
	testutil.AssertOutput(t, out.String(), "Execute: rm y? [y/N] ")
	if !f.exec.called || f.exec.program != "rm" {
		t.Errorf("exec got %q %q", f.exec.program, f.exec.args)
	}
	if !f.exec.closedFirst {
		t.Error("prompt must be closed before exec")
	}
}

func TestPromptedInvocation(t *testing.T) {
	f := newFixture()
	out, _, code := testutil.CaptureAndRun(t, f.run, nil, "ls -al\nl//\ny\n")
	testutil.AssertExitCode(t, code, core.ExitSuccess)
	testutil.AssertOutput(t, out.String(), "cmd: sub: Execute: s -a? [y/N] ")
	if f.exec.program != "s" || !reflect.DeepEqual(f.exec.args, []string{"-a"}) {
		t.Errorf("exec got %q %q", f.exec.program, f.exec.args)
	}
	if f.opens != 1 {
		t.Errorf("prompt opened %d times, want 1", f.opens)
	}
}

func TestPromptedInvocationDeclined(t *testing.T) {
	f := newFixture()
	_, _, code := testutil.CaptureAndRun(t, f.run, nil, "ls -al\nl//\n\n")
	testutil.AssertExitCode(t, code, core.ExitSuccess)
	if f.exec.called {
		t.Error("empty answer must decline")
	}
}

func TestPromptedInvocationEOF(t *testing.T) {
	f := newFixture()
	out, _, code := testutil.CaptureAndRun(t, f.run, nil, "")
	testutil.AssertExitCode(t, code, core.ExitSuccess)
	testutil.AssertOutput(t, out.String(), "cmd: \n")
}

func TestPromptedInvocationEmptySpec(t *testing.T) {
	f := newFixture()
	_, errBuf, code := testutil.CaptureAndRun(t, f.run, nil, "ls\n\n")
	testutil.AssertExitCode(t, code, core.ExitFailure)
	testutil.AssertOutputContains(t, errBuf.String(), "incorrect pattern")
}

func TestConfigDefaultFlags(t *testing.T) {
	f := newFixture()
	f.cfg.Flags = "ov"
	out, _, code := testutil.CaptureAndRun(t, f.run, []string{"ls", "-al", "--", "l//"}, "")
	testutil.AssertExitCode(t, code, core.ExitSuccess)
	testutil.AssertOutput(t, out.String(), "2 replacements\ns -a\n")
}

func TestConfigUnknownFlag(t *testing.T) {
	f := newFixture()
	f.cfg.Flags = "og"
	out, errBuf, _ := testutil.CaptureAndRun(t, f.run, []string{"ls", "-al", "--", "l//"}, "")
	testutil.AssertOutput(t, out.String(), "s -a\n")
	testutil.AssertOutput(t, errBuf.String(), "Warning: config: unknown flag: g\n")
}

func TestNilConfig(t *testing.T) {
	f := newFixture()
	f.env.Config = nil
	out, _, code := testutil.CaptureAndRun(t, f.run, []string{"ls", "-al", "--", "l//o"}, "")
	testutil.AssertExitCode(t, code, core.ExitSuccess)
	testutil.AssertOutput(t, out.String(), "s -a\n")
}
