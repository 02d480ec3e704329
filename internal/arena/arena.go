package arena

// Arena is the bump allocator OutputArena owns for the duration of one
// codegen pass (spec.md §5: "no operation inside a block may outlive the
// block's code tree"). Go's GC makes a literal bump allocator unnecessary
// for correctness, but batching allocations the way the original's
// OutAllocator does keeps node construction in one place and gives
// DirectiveExpander a single owner to invalidate between runs.
type Arena struct {
	nodes []*Code
}

// New returns a fresh, empty Arena.
func New() *Arena {
	return &Arena{}
}

// Alloc allocates and tracks a new Code node of the given kind.
func (a *Arena) Alloc(kind Kind) *Code {
	c := &Code{Kind: kind}
	a.nodes = append(a.nodes, c)
	return c
}

// Track registers an already-built node with the arena, so that a
// subsequent Reset also invalidates it. Use for nodes built with the
// package-level constructors (List, Text, ...) instead of Alloc.
func (a *Arena) Track(c *Code) *Code {
	a.nodes = append(a.nodes, c)
	return c
}

// Reset releases every node this arena produced. Codegen.io must not
// retain any *Code from before a Reset; this mirrors the per-invocation
// arena lifetime spec.md §5 describes.
func (a *Arena) Reset() {
	a.nodes = a.nodes[:0]
}

// Len reports how many nodes this arena currently owns, mostly useful
// for tests asserting that a pass didn't leak unexpected allocations.
func (a *Arena) Len() int {
	return len(a.nodes)
}
