// Package subst implements the substitution engine behind the sub applet:
// parsing "pattern/replacement/flags" specs, applying them word by word to an
// argument vector, chaining several specs, and expanding a lone "*".
package subst

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrInvalidPattern is returned for a spec with neither a pattern nor flags.
var ErrInvalidPattern = errors.New("incorrect pattern, format is: prev_pat/new[/flags]")

// PatternError reports a pattern the regexp engine refused.
type PatternError struct {
	Pattern string
	Err     error
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("invalid pattern %q: %v", e.Pattern, e.Err)
}

func (e *PatternError) Unwrap() error { return e.Err }

// Spec is one parsed substitution directive.
type Spec struct {
	Pattern     string  // pattern text as written, surrounding blanks removed
	Replacement string  // replacement text, back-references in \N form
	Flags       FlagSet // recognized flag codes
	Unknown     string  // flag characters that matched no code

	re       *regexp.Regexp
	template string
}

// Parse turns "prev/new/flags" into a Spec. Missing parts are empty.
// An empty pattern is accepted only when at least one known flag is set, so
// global flags can be declared on a spec of their own.
func Parse(raw string) (*Spec, error) {
	parts := strings.SplitN(raw, "/", 3)
	for len(parts) < 3 {
		parts = append(parts, "")
	}

	flagText := strings.TrimSpace(parts[2])
	flags, unknown := ParseFlags(flagText)
	s := &Spec{
		Pattern:     trimPart(parts[0]),
		Replacement: trimPart(parts[1]),
		Flags:       flags,
		Unknown:     unknown,
	}

	if s.Pattern == "" {
		if s.Flags == (FlagSet{}) {
			return nil, ErrInvalidPattern
		}
		return s, nil
	}

	source := s.Pattern
	if flags.Literal {
		source = regexp.QuoteMeta(source)
	}
	if flags.IgnoreCase {
		source = "(?i)" + source
	}
	re, err := regexp.Compile(source)
	if err != nil {
		return nil, &PatternError{Pattern: s.Pattern, Err: err}
	}
	s.re = re
	s.template = goTemplate(s.Replacement)
	return s, nil
}

// trimPart strips surrounding blanks. A part made only of blanks is kept
// as-is: " " is a meaningful pattern or replacement.
func trimPart(part string) string {
	trimmed := strings.TrimSpace(part)
	if trimmed == "" {
		return part
	}
	return trimmed
}

// Regexp returns the compiled pattern, or nil for a flags-only spec.
func (s *Spec) Regexp() *regexp.Regexp {
	return s.re
}

// String renders the compiled pattern for debug output, e.g. /cp/i.
func (s *Spec) String() string {
	if s.re == nil {
		return "//"
	}
	source := s.re.String()
	opts := ""
	if s.Flags.IgnoreCase {
		source = strings.TrimPrefix(source, "(?i)")
		opts = "i"
	}
	return "/" + source + "/" + opts
}

// Warning describes the unknown flag characters, or "" when there are none.
func (s *Spec) Warning() string {
	if s.Unknown == "" {
		return ""
	}
	return fmt.Sprintf("unknown flag%s: %s", pluralRunes(s.Unknown), s.Unknown)
}

// WithFlags returns a copy of s carrying flags.
func (s *Spec) WithFlags(flags FlagSet) *Spec {
	c := *s
	c.Flags = flags
	return &c
}

func pluralRunes(s string) string {
	if len([]rune(s)) == 1 {
		return ""
	}
	return "s"
}

// goTemplate converts a replacement using \N, \0, \& and \k<name>
// back-references into a regexp.Expand template. A bare $ is literal.
func goTemplate(repl string) string {
	var b strings.Builder
	b.Grow(len(repl))
	for i := 0; i < len(repl); i++ {
		ch := repl[i]
		switch ch {
		case '$':
			b.WriteString("$$")
		case '\\':
			if i+1 >= len(repl) {
				b.WriteByte('\\')
				continue
			}
			next := repl[i+1]
			switch {
			case next >= '0' && next <= '9':
				b.WriteString("${")
				b.WriteByte(next)
				b.WriteByte('}')
				i++
			case next == '&':
				b.WriteString("${0}")
				i++
			case next == '\\':
				b.WriteByte('\\')
				i++
			case next == 'k' && i+2 < len(repl) && repl[i+2] == '<':
				end := strings.IndexByte(repl[i+3:], '>')
				if end < 0 {
					b.WriteByte('\\')
					continue
				}
				b.WriteString("${" + repl[i+3:i+3+end] + "}")
				i += 3 + end
			default:
				b.WriteByte('\\')
			}
		default:
			b.WriteByte(ch)
		}
	}
	return b.String()
}
