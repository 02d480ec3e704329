package dfa

// AcceptTrans is one (target, tags) pair of an AcceptTable, indexed by the
// yyaccept register at runtime.
type AcceptTrans struct {
	State *State
	Tags  *TagCommand
}

// AcceptTable is the sequence AcceptTrans entries a SAVE-rooted dispatch
// restores from, keyed by the yyaccept value stored at the matching SAVE
// state.
type AcceptTable struct {
	Entries []AcceptTrans
}

// HasTags reports whether any entry carries a non-nil tag-command list;
// emit_accept's computed-goto form is only legal when this is false
// (spec.md §4.4 step 3).
func (a *AcceptTable) HasTags() bool {
	for _, e := range a.Entries {
		if e.Tags != nil {
			return true
		}
	}
	return false
}
