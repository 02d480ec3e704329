// Package shape centralizes the one piece of logic every emitter needs
// to branch on: how "jump to state X" renders under each of the three
// control-flow shapes (spec.md §4.2 step 3, §4.6). Keeping it in one
// place is what lets TransitionEmitter, DispatchEmitter and BlockCodegen
// agree on the exact rendering without triplicating the switch.
package shape

import (
	"github.com/dave/jennifer/jen"

	"github.com/gz83/lexgen/internal/arena"
	"github.com/gz83/lexgen/internal/codegen"
	"github.com/gz83/lexgen/internal/dfa"
	"github.com/gz83/lexgen/internal/options"
)

// JumpTo renders a jump to label under opts.CodeModel:
//   - GOTO_LABEL: a goto to the label name.
//   - LOOP_SWITCH: assign the state variable then continue the dispatch loop.
//   - REC_FUNC: a tail call to the state's function, with args (the
//     function's own argument list, including the optional yych carry).
func JumpTo(opts *options.Options, label *dfa.Label, args []jen.Code) *arena.Code {
	name := codegen.StateLabelName(opts.LabelPrefix, label.Index)
	switch opts.CodeModel {
	case options.GotoLabel:
		return arena.Goto(name)
	case options.LoopSwitch:
		return arena.List(
			arena.RawCode(jen.Id(opts.VarState).Op("=").Lit(int(label.Index))),
			arena.RawCode(jen.Continue()),
		)
	case options.RecFunc:
		return &arena.Code{Kind: arena.KindTailCall, CallName: name, CallArgs: args}
	default:
		return arena.Empty()
	}
}

// TailCallName renders just the function name a REC_FUNC tail call
// targets, for callers (e.g. the per-condition entry functions) that
// build the call node themselves.
func TailCallName(opts *options.Options, label *dfa.Label) string {
	return codegen.StateLabelName(opts.LabelPrefix, label.Index)
}
