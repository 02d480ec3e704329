package dfa

// TagCommandKind discriminates the three tag-command forms from
// spec.md §3.
type TagCommandKind int

const (
	// CmdCopy is lhs <- rhs.
	CmdCopy TagCommandKind = iota
	// CmdSet writes the current cursor, or null, to lhs; History carries
	// the (possibly empty) list of prior values being superseded.
	CmdSet
	// CmdAdd is an optional lhs <- rhs copy followed by appending to a
	// tag's history.
	CmdAdd
)

// TagCommand is one node of the linked list TransitionEmitter/TagEmitter
// walk. Next forms the list; a nil Next terminates it.
type TagCommand struct {
	Kind TagCommandKind

	Lhs *Tag
	Rhs *Tag // nil for a Set command that writes null

	// Negative is only meaningful for CmdSet: true writes null, false
	// writes the cursor. gen_settags batches adjacent negative and
	// positive Set commands into two groups, negatives emitted first.
	Negative bool

	// History holds the versions being pushed, most recent first;
	// iteration over it in gen_settags happens in reverse, stopping at
	// TagverZero. Negative entries are TagverBottom.
	History []int

	Next *TagCommand
}

// Walk calls fn for every command starting at c, in list order.
func (c *TagCommand) Walk(fn func(*TagCommand)) {
	for n := c; n != nil; n = n.Next {
		fn(n)
	}
}
