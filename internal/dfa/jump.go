package dfa

// Jump is the transition record TransitionEmitter's gen_goto consumes:
// one destination plus the side effects that fire on the way there
// (spec.md §4.2). It is distinct from Span because a dispatch's
// fallback transition is also a Jump without being a literal Span of any
// state's Go.
type Jump struct {
	To   *State
	Tags *TagCommand
	Skip bool
	// EOF marks a transition that must be wrapped in YYFILL handling
	// before it can proceed (gen_fill's envelope).
	EOF bool
}

// SameAs reports whether two jumps are observably identical: same
// destination, same tag-command pointer, neither skips. Used by
// gen_fill_fallback's elision rule (SPEC_FULL.md item 1).
func (j Jump) SameAs(other Jump) bool {
	return j.To == other.To && j.Tags == other.Tags && !j.Skip && !other.Skip
}
