package subst

// Result is the outcome of running a chain of specs.
type Result struct {
	Words  []string
	Counts []int   // replacements per spec, in chain order
	Specs  []*Spec // the specs as applied, run-wide flags merged in
	Flags  FlagSet // merged run-wide flags
}

// Total sums the per-spec counts.
func (r Result) Total() int {
	total := 0
	for _, n := range r.Counts {
		total += n
	}
	return total
}

// Chain applies specs in order, feeding each output vector to the next
// spec. Run-wide flags declared by any spec, or by defaults, are merged
// first and take effect on every spec of the chain.
func Chain(words []string, specs []*Spec, defaults FlagSet) Result {
	sets := make([]FlagSet, 0, len(specs)+1)
	sets = append(sets, defaults)
	for _, spec := range specs {
		sets = append(sets, spec.Flags)
	}
	globals := MergeGlobals(sets...)

	res := Result{
		Words:  append([]string(nil), words...),
		Counts: make([]int, 0, len(specs)),
		Specs:  make([]*Spec, 0, len(specs)),
		Flags:  globals,
	}
	for _, spec := range specs {
		applied := spec.WithFlags(spec.Flags.WithGlobals(globals))
		next, n := Apply(res.Words, applied)
		res.Words = next
		res.Counts = append(res.Counts, n)
		res.Specs = append(res.Specs, applied)
	}
	return res
}
