package dfa

import (
	"github.com/dave/jennifer/jen"

	"github.com/gz83/lexgen/internal/arena"
	"github.com/gz83/lexgen/internal/options"
)

// BlockKind distinguishes a block that generates code from one that only
// `use:re2c`-includes another block's tag/condition data (spec.md §3).
type BlockKind int

const (
	BlockCode BlockKind = iota
	BlockUse
)

// FnCommon is the REC_FUNC parameter/argument scaffolding shared by every
// state function of a block: the parameter list, the matching argument
// list for tail calls, and the yych-carrying variants used when a state
// needs the peek value passed in (need_yych_arg, spec.md §4.6 step 5).
type FnCommon struct {
	Name   string
	Type   jen.Code // nil for a void/bool-returning function, depending on target
	Params []jen.Code
	Args   []jen.Code

	ParamsYych []jen.Code
	ArgsYych   []jen.Code
}

// OutputBlock holds one input block's accumulated state: its own option
// snapshot, its DFAs, and everything DirectiveExpander later aggregates
// across blocks.
type OutputBlock struct {
	Opts *options.Options
	Kind BlockKind

	DFAs []*Adfa

	STags []string
	MTags []string
	Conds []StartCond

	// FillGoto maps a storable-state save index to the code fragment
	// YYGETSTATE dispatch jumps to for that index (spec.md §4.7).
	FillGoto map[int]*arena.Code

	StartLabel *Label

	UsedYYAccept bool
	MaxFill      int
	MaxNMatch    int

	FnCommon *FnCommon

	// Code accumulates this block's placeholder and content nodes in
	// emission order, exactly the list codegen_generate_block walks.
	Code []*arena.Code
}

// NewOutputBlock returns an OutputBlock ready to accumulate codegen
// output under opts.
func NewOutputBlock(opts *options.Options, kind BlockKind) *OutputBlock {
	return &OutputBlock{
		Opts:     opts,
		Kind:     kind,
		FillGoto: make(map[int]*arena.Code),
	}
}
