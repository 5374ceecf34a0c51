package subst

import "strings"

// FlagSet holds the switches a spec can carry. The first group shapes a
// single substitution; the second group applies to the whole run no matter
// which spec of a chain declares it.
type FlagSet struct {
	General    bool // g: replace every occurrence within a word
	First      bool // f: stop after the first matching word
	Last       bool // l: keep only the rightmost matching word's rewrite
	Literal    bool // L: pattern is plain text
	IgnoreCase bool // i: case-insensitive match
	ExpandStar bool // e: replace a lone * with the directory listing

	OutputOnly  bool // o: print instead of executing
	Copy        bool // c: copy to the clipboard instead of executing
	Interactive bool // I: ask before executing
	Verbose     bool // v: report replacement counts
	Debug       bool // D: print the compiled pattern
}

// Code documents one flag character.
type Code struct {
	Char byte
	Help string
}

var flagCodes = []struct {
	Code
	set func(*FlagSet)
}{
	{Code{'g', "replace every match within a word, not just the first"}, func(f *FlagSet) { f.General = true }},
	{Code{'f', "only rewrite the first matching word"}, func(f *FlagSet) { f.First = true }},
	{Code{'l', "only rewrite the last matching word"}, func(f *FlagSet) { f.Last = true }},
	{Code{'L', "treat the pattern as literal text"}, func(f *FlagSet) { f.Literal = true }},
	{Code{'i', "ignore case when matching"}, func(f *FlagSet) { f.IgnoreCase = true }},
	{Code{'e', "expand a lone * to the current directory listing"}, func(f *FlagSet) { f.ExpandStar = true }},
	{Code{'o', "print the command instead of running it"}, func(f *FlagSet) { f.OutputOnly = true }},
	{Code{'c', "copy the command to the clipboard instead of running it"}, func(f *FlagSet) { f.Copy = true }},
	{Code{'I', "ask for confirmation before running"}, func(f *FlagSet) { f.Interactive = true }},
	{Code{'v', "report the number of replacements"}, func(f *FlagSet) { f.Verbose = true }},
	{Code{'D', "print the compiled pattern"}, func(f *FlagSet) { f.Debug = true }},
}

// Codes lists the recognized flag characters in table order.
func Codes() []Code {
	out := make([]Code, 0, len(flagCodes))
	for _, fc := range flagCodes {
		out = append(out, fc.Code)
	}
	return out
}

// ParseFlags scans text against the code table. Every occurrence of a known
// code is consumed; whatever is left is returned as unknown.
func ParseFlags(text string) (FlagSet, string) {
	var flags FlagSet
	rest := text
	for _, fc := range flagCodes {
		if strings.IndexByte(rest, fc.Char) < 0 {
			continue
		}
		fc.set(&flags)
		rest = strings.ReplaceAll(rest, string(fc.Char), "")
	}
	return flags, rest
}

// Globals keeps only the members that apply to a whole run.
// ExpandStar is included: expansion runs once, after the last spec.
func (f FlagSet) Globals() FlagSet {
	return FlagSet{
		ExpandStar:  f.ExpandStar,
		OutputOnly:  f.OutputOnly,
		Copy:        f.Copy,
		Interactive: f.Interactive,
		Verbose:     f.Verbose,
		Debug:       f.Debug,
	}
}

// WithGlobals returns f with its run-wide members replaced by g's.
func (f FlagSet) WithGlobals(g FlagSet) FlagSet {
	f.ExpandStar = g.ExpandStar
	f.OutputOnly = g.OutputOnly
	f.Copy = g.Copy
	f.Interactive = g.Interactive
	f.Verbose = g.Verbose
	f.Debug = g.Debug
	return f
}

// MergeGlobals folds the run-wide flags of every set, in order. A flag set
// true by any of them stays true: flag strings can only declare, so a later
// spec that omits a code does not clear it.
func MergeGlobals(sets ...FlagSet) FlagSet {
	var out FlagSet
	for _, f := range sets {
		out = merge(out, f.Globals())
	}
	return out
}

func merge(a, b FlagSet) FlagSet {
	return FlagSet{
		General:     a.General || b.General,
		First:       a.First || b.First,
		Last:        a.Last || b.Last,
		Literal:     a.Literal || b.Literal,
		IgnoreCase:  a.IgnoreCase || b.IgnoreCase,
		ExpandStar:  a.ExpandStar || b.ExpandStar,
		OutputOnly:  a.OutputOnly || b.OutputOnly,
		Copy:        a.Copy || b.Copy,
		Interactive: a.Interactive || b.Interactive,
		Verbose:     a.Verbose || b.Verbose,
		Debug:       a.Debug || b.Debug,
	}
}
