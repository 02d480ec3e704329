// Package arena implements the OutputArena & CodeTree component
// (spec.md §2/§9): a bump-allocated tree of abstract code nodes that the
// emitter packages build and DirectiveExpander later rewrites in place.
//
// Code is deliberately a tagged mutable cell rather than an interface
// hierarchy per-kind: spec.md §9 calls out that cross-block aggregation
// rewrites placeholder leaves without touching tree linkage, which needs
// pointer identity, not value types. Only internal/directive is expected
// to mutate a Code node after it has been linked into a tree; every other
// package treats the tree as immutable once built, per spec.md §5.
package arena

import "github.com/dave/jennifer/jen"

// Kind discriminates the node variants the spec names: statement lists,
// switches/cases, branches, arrays, function defs, tail-calls, gotos,
// labels, raw text, and the cross-block placeholders DirectiveExpander
// rewrites.
type Kind int

const (
	KindEmpty Kind = iota
	KindText        // opaque text, rendered as a // comment (e.g. an expanded directive listing)
	KindRaw         // a single jen.Code leaf built directly by an emitter
	KindList        // an ordered sequence of child Code nodes
	KindBlock       // a braced/indented wrapper around a KindList
	KindIf          // condition + then branch + optional else branch
	KindSwitch      // tag expression + cases
	KindCase        // one case of a KindSwitch: either numeric or string label
	KindLoop        // an unconditional loop wrapping one KindList body
	KindGoto        // a jump to a named label
	KindLabel       // a numeric or string label declaration
	KindTailCall    // REC_FUNC: a call that is the last statement of its function
	KindFuncDef     // a function definition: name, params, body
	KindVarDecl     // a local variable declaration
	KindArray       // a table literal (bitmaps, computed-goto tables, accept tables)
	KindRecFuncs    // REC_FUNC: the set of mutually tail-calling function defs for one block

	// Cross-block placeholders (spec.md §4.8): emitted empty by BlockCodegen,
	// rewritten in place by DirectiveExpander once all blocks are processed.
	KindSTags
	KindMTags
	KindCondEnum
	KindMaxFill
	KindMaxNMatch
	KindStateGoto
)

// Code is one node of the tree. Only the fields relevant to Kind are
// populated; the zero value of the others is inert.
type Code struct {
	Kind Kind

	Text string   // KindText, KindLabel (string form), KindGoto target
	Raw  jen.Code // KindRaw

	Children []*Code // KindList, KindBlock, KindRecFuncs

	// KindIf
	Cond     jen.Code
	Then     *Code
	Else     *Code

	// KindSwitch / KindCase
	SwitchOn jen.Code
	Cases    []*Code
	CaseNum  int
	CaseStr  string
	IsDefault bool

	// KindFuncDef
	FuncName   string
	FuncParams []jen.Code
	FuncResult jen.Code
	Body       *Code

	// KindTailCall
	CallName string
	CallArgs []jen.Code

	// KindVarDecl
	VarType jen.Code
	VarName string
	VarInit jen.Code

	// KindArray
	ArrayName     string
	ArrayType     jen.Code
	ArrayElems    []string
	ArrayTabulate bool

	// Cross-block placeholder payload: which directive produced it and
	// the options needed to expand it later (block-name filter, format
	// template). Populated by BlockCodegen, consumed by
	// internal/directive.
	Placeholder *PlaceholderSpec
}

// PlaceholderSpec captures everything a cross-block directive needs once
// all blocks have been processed: an optional explicit block-name filter
// (nil means "all blocks"), and an optional user-supplied format template
// for STAGS/MTAGS/MAXFILL/MAXNMATCH.
type PlaceholderSpec struct {
	BlockNames []string
	Format     string
	Sigil      string
	DirectiveName string // for error messages, e.g. "getstate:re2c"
}

// List builds a KindList node from already-constructed children.
func List(children ...*Code) *Code {
	return &Code{Kind: KindList, Children: children}
}

// Text builds an opaque KindText leaf.
func Text(s string) *Code {
	return &Code{Kind: KindText, Text: s}
}

// RawCode wraps a single jen.Code value as a KindRaw leaf.
func RawCode(c jen.Code) *Code {
	return &Code{Kind: KindRaw, Raw: c}
}

// Goto builds a jump to label.
func Goto(label string) *Code {
	return &Code{Kind: KindGoto, Text: label}
}

// NumLabel builds a numeric label declaration, e.g. "yy3:".
func NumLabel(name string) *Code {
	return &Code{Kind: KindLabel, Text: name}
}

// Empty returns a node that renders to nothing; used where an optional
// emission step is skipped so callers can still append unconditionally.
func Empty() *Code {
	return &Code{Kind: KindEmpty}
}
