package subst

import "strings"

// word is one vector element during a single Apply. A pending word had a
// substitution that changed it; which side survives is decided at the end.
type word struct {
	original  string
	rewritten string
	pending   bool
}

// Apply runs spec over words and returns the new vector with the number of
// replacements made. words is never modified. Replacements are only counted
// when spec carries the verbose flag.
//
// A word whose rewrite is empty or blank is dropped first. With the
// last-match flag only the rightmost remaining changed word then keeps its
// rewrite; every other changed word reverts to its original.
func Apply(words []string, spec *Spec) ([]string, int) {
	re := spec.Regexp()
	if re == nil {
		return append([]string(nil), words...), 0
	}
	flags := spec.Flags

	pending := make([]word, 0, len(words))
	count := 0
	stopped := false
	for _, w := range words {
		if stopped || !re.MatchString(w) {
			pending = append(pending, word{original: w})
			continue
		}
		if flags.First {
			stopped = true
		}

		rewritten, n := spec.rewrite(w)
		if flags.Verbose && !flags.Last && (rewritten != w || (rewritten == "" && spec.Replacement == "")) {
			count += n
		}
		if rewritten != w {
			pending = append(pending, word{original: w, rewritten: rewritten, pending: true})
		} else {
			pending = append(pending, word{original: w})
		}
	}

	kept := pending[:0]
	for _, w := range pending {
		if w.pending && strings.TrimSpace(w.rewritten) == "" {
			continue
		}
		kept = append(kept, w)
	}

	last := -1
	if flags.Last {
		for i := len(kept) - 1; i >= 0; i-- {
			if kept[i].pending {
				last = i
				break
			}
		}
	}

	out := make([]string, 0, len(kept))
	for i, w := range kept {
		switch {
		case !w.pending:
			out = append(out, w.original)
		case flags.Last && i != last:
			out = append(out, w.original)
		default:
			if flags.Last && flags.Verbose {
				count++
			}
			out = append(out, w.rewritten)
		}
	}
	return out, count
}

// rewrite substitutes the first match in s, or every match with the
// general flag, and reports how many occurrences were replaced.
func (spec *Spec) rewrite(s string) (string, int) {
	re := spec.re
	if spec.Flags.General {
		n := len(re.FindAllStringIndex(s, -1))
		return re.ReplaceAllString(s, spec.template), n
	}
	loc := re.FindStringSubmatchIndex(s)
	if loc == nil {
		return s, 0
	}
	repl := re.ExpandString(nil, spec.template, s, loc)
	return s[:loc[0]] + string(repl) + s[loc[1]:], 1
}
