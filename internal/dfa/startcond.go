package dfa

// StartCond is a named automaton subset ("start condition"), selected at
// runtime via YYGETCONDITION and dispatched via switch, nested ifs, or a
// computed-goto table.
//
// ID is globally unique across the whole run: two blocks may declare a
// condition with the same prefixed name only if they agree on ID, or
// DirectiveExpander fails with a diagnostic (spec.md §7 kind (c), §8
// invariant). The diagnostic names the condition and both conflicting
// IDs; it does not name the blocks involved.
//
// Number is the block-local sequential position used by GOTO_LABEL's
// enum rendering; LOOP_SWITCH/REC_FUNC instead render ID directly
// (SPEC_FULL.md "Condition enum numbering difference between shapes").
type StartCond struct {
	Name   string
	Prefix string
	ID     int
	Number int
}

// EnumElem returns the rendered enum element name for this condition
// (prefix+Name), used both as the Go switch-case string/int literal and
// as the C-style enum element the original renders.
func (c StartCond) EnumElem() string {
	return c.Prefix + c.Name
}
