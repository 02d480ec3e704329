package dfa

// Span is one half-open character range of a dispatch, [Lb, Ub), to a
// destination state. Tags fires on this specific transition, distinct
// from any tag id hoisted onto the whole Go dispatch.
type Span struct {
	Lb, Ub rune
	To     *State
	Tags   *TagCommand
}

// Go is a state's outgoing dispatch: its spans plus an optional id
// hoisted onto every span alike (spec.md §3 invariant: "If tags have
// been hoisted onto the dispatch, the fallback's tag id equals the
// hoisted id").
type Go struct {
	Spans    []Span
	TagHoist *TagCommand
}

// IsEndState reports whether a dispatch has exactly one span, to a state
// whose action is RULE or ACCEPT — the spec.md §3 "end state" invariant.
func (g *Go) IsEndState() bool {
	if len(g.Spans) != 1 {
		return false
	}
	to := g.Spans[0].To
	return to != nil && (to.Action.Kind == ActionRule || to.Action.Kind == ActionAccept)
}
