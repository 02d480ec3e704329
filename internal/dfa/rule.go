package dfa

// SourceLoc is a source location attached to a user semantic action, used
// only for #line emission and diagnostics; it carries no behavior of its
// own.
type SourceLoc struct {
	File string
	Line int
}

// SemAct is a rule's semantic action: either verbatim user source text,
// or an autogenerated `:=>` transition to another condition.
type SemAct struct {
	Text     string
	Cond     string // target condition for an autogenerated transition
	Autogen  bool
	Loc      SourceLoc
}

// Rule is one accept rule of a DFA: a contiguous tag range plus the
// action that fires when it matches.
type Rule struct {
	LTag, HTag int // [LTag, HTag) tag range, in tag-pool indices
	NCap       int // capture-group count; 0 if the rule has none
	SemAct     *SemAct
}

// Tags returns the rule's tag range as a half-open [lo, hi) pair.
func (r *Rule) Tags() (lo, hi int) {
	return r.LTag, r.HTag
}
