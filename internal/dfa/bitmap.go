package dfa

// CodeBmState is one DFA state participating in a packed bitmap dispatch
// table (spec.md §4.3 Bitmap form; SPEC_FULL.md item 4). Offset/Mask are
// supplied with the state; the dispatch emitter reads them as given and
// does not compute them or pack states into a table itself.
type CodeBmState struct {
	State  *State
	Go     *Go
	Offset uint32
	Mask   uint32
	Next   *CodeBmState
}

// CodeBitmap is the per-DFA bitmap table descriptor: the linked list of
// participating states, the character-range width, and whether the table
// ended up used at all (an unused bitmap is simply dropped).
type CodeBitmap struct {
	States  *CodeBmStateList
	NChars  uint32
	Used    bool
}

// CodeBmStateList is a tiny head wrapper so CodeBitmap.States can be
// nil-checked the same way the original's linked list is.
type CodeBmStateList struct {
	Head *CodeBmState
}
