// Package dfa is the data model consumed by the codegen core: states,
// transitions, tag commands, accept tables, start conditions and the
// block/output containers that DirectiveExpander aggregates across.
//
// Everything here is produced upstream by regex parsing, NFA->DFA
// construction and DFA optimization — none of that is implemented in this
// module. Callers hand the emitter packages an already-built *dfa.Adfa.
package dfa

// Label names a DFA state or a fill resumption point. Index is a stable
// numeric id assigned by the (external) optimizer; Used records whether
// any transition actually targets it, which drives label/case elision in
// every one of the three control-flow shapes.
type Label struct {
	Index uint32
	Used  bool
}

// NoLabel marks the absence of a label (e.g. "no getstate case for this
// save index").
const NoLabel uint32 = ^uint32(0)
