package dfa

// State is one DFA node. Next links states in emission order — the order
// GOTO_LABEL, LOOP_SWITCH and REC_FUNC all walk when assembling a block
// (spec.md §5 ordering guarantee).
type State struct {
	Label  *Label
	Action Action
	Go     Go

	// FillLabel is this state's resumption point id, if any state's
	// YYFILL can jump back into it.
	FillLabel *Label
	// FillState is the state that "owns" this state's fill: the state
	// whose FillLabel index is the resumption id used by gen_goto_after_fill.
	FillState *State
	// Fill is the number of bytes this state's YYFILL call must
	// guarantee are available (from.fill in spec.md §4.2).
	Fill int

	Next *State
}

// Adfa is one DFA: an ordered singly-linked list of states (Head) plus
// its rule table, start condition name (empty for an unconditioned
// block), bitmap dispatch tables and the per-DFA initial label used by
// GOTO_LABEL when there are incoming transitions to the initial state.
type Adfa struct {
	Head  *State
	Rules []Rule
	Cond  string // "" if this DFA has no start condition

	// Tags is this DFA's tag pool, indexed the way Rule.LTag/HTag range
	// into it; RULE actions finalize a sub-slice of it via TagEmitter.
	Tags []*Tag

	InitialLabel *Label
	Bitmap       *CodeBitmap
}

// States returns the state list as a slice, in emission order.
func (a *Adfa) States() []*State {
	var out []*State
	for s := a.Head; s != nil; s = s.Next {
		out = append(out, s)
	}
	return out
}
