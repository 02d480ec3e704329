// Package block implements BlockCodegen (spec.md §4.6/§4.7): assembling
// a single block's DFAs into one of the three control-flow shapes, plus
// the storable-state YYGETSTATE dispatch that resumes a suspended call.
package block

import (
	"sort"

	"github.com/dave/jennifer/jen"

	"github.com/gz83/lexgen/internal/arena"
	"github.com/gz83/lexgen/internal/codegen"
	"github.com/gz83/lexgen/internal/dfa"
	"github.com/gz83/lexgen/internal/dispatch"
	"github.com/gz83/lexgen/internal/options"
	"github.com/gz83/lexgen/internal/scratch"
	"github.com/gz83/lexgen/internal/state"
)

// Builder is BlockCodegen.
type Builder struct {
	Opts  *options.Options
	Buf   *scratch.Buffer
	State *state.Emitter
	Dispatch *dispatch.Emitter
}

// New returns a block.Builder sharing the rest of the pass's emitters.
func New(opts *options.Options, buf *scratch.Buffer, st *state.Emitter, disp *dispatch.Emitter) *Builder {
	return &Builder{Opts: opts, Buf: buf, State: st, Dispatch: disp}
}

// EmitState renders one state's full body: its label/prologue
// (StateEmitter) followed by its outgoing dispatch (DispatchEmitter),
// except for ACCEPT and RULE states whose prologue already is the
// state's entire body.
func (b *Builder) EmitState(a *dfa.Adfa, s *dfa.State) []*arena.Code {
	var out []*arena.Code
	out = append(out, b.State.EmitLabel(s)...)
	out = append(out, b.State.EmitAction(a, s)...)
	switch s.Action.Kind {
	case dfa.ActionAccept, dfa.ActionRule:
		return out
	default:
		form := b.Dispatch.ChooseForm(s, a.Bitmap)
		out = append(out, b.Dispatch.Emit(s, form, a.Bitmap)...)
		return out
	}
}

// EmitDFA assembles one DFA into the configured control-flow shape.
func (b *Builder) EmitDFA(a *dfa.Adfa) *arena.Code {
	switch b.Opts.CodeModel {
	case options.LoopSwitch:
		return b.emitLoopSwitch(a)
	case options.RecFunc:
		return b.emitRecFunc(a)
	default:
		return b.emitGotoLabel(a)
	}
}

// emitGotoLabel implements the GOTO_LABEL shape: states concatenated in
// emission order, each carrying its own label node (elided by
// StateEmitter when unused).
func (b *Builder) emitGotoLabel(a *dfa.Adfa) *arena.Code {
	var body []*arena.Code
	if a.InitialLabel != nil && a.InitialLabel.Used {
		body = append(body, arena.NumLabel(codegen.StateLabelName(b.Opts.LabelPrefix, a.InitialLabel.Index)))
	}
	for _, s := range a.States() {
		body = append(body, b.EmitState(a, s)...)
	}
	return arena.List(body...)
}

// switchCase is one group of states sharing a single yystate case or
// REC_FUNC function body: an anchor state (whose label is the case/
// function index) plus any immediately following states whose label is
// unused, folded in rather than given their own case (pass2_generate.cc
// gen_dfa_as_switch_cases/gen_dfa_as_recursive_functions, both at
// :1947/:1991: "as long as the following state has no incoming
// transitions, generate it as a continuation of the current state").
type switchCase struct {
	index int
	body  []*arena.Code
}

func labelUsed(s *dfa.State) bool {
	return s.Label != nil && s.Label.Used
}

func (b *Builder) switchGroups(a *dfa.Adfa) []switchCase {
	var groups []switchCase
	states := a.States()
	for i := 0; i < len(states); {
		s := states[i]
		body := b.EmitState(a, s)
		i++
		for i < len(states) && !labelUsed(states[i]) {
			body = append(body, b.EmitState(a, states[i])...)
			i++
		}
		index := 0
		if s.Label != nil {
			index = int(s.Label.Index)
		}
		groups = append(groups, switchCase{index: index, body: body})
	}
	return groups
}

// emitLoopSwitch implements the LOOP_SWITCH shape: a single `for { switch
// yystate { case N: ... } }` dispatch loop, one case per group of states
// folded by switchGroups.
func (b *Builder) emitLoopSwitch(a *dfa.Adfa) *arena.Code {
	groups := b.switchGroups(a)
	cases := make([]jen.Code, 0, len(groups))
	for _, g := range groups {
		cases = append(cases, jen.Case(jen.Lit(g.index)).Block(rawAll(g.body)...))
	}
	loopBody := arena.RawCode(jen.Switch(jen.Id(b.Opts.VarState)).Block(cases...))
	return &arena.Code{Kind: arena.KindLoop, Children: []*arena.Code{loopBody}}
}

// emitLoopSwitchWithStorableState is the LOOP_SWITCH form of
// gen_storable_state_cases (pass2_generate.cc:1278): under storable
// state, YYGETSTATE() resumption is not a standalone switch but extra
// cases folded into this same yystate switch, with the DFA's own case 0
// widened into the composite range `-1, 0` so a fresh entry (-1) and a
// first-entry (0) state share one case body.
func (b *Builder) emitLoopSwitchWithStorableState(a *dfa.Adfa, blk *dfa.OutputBlock) *arena.Code {
	groups := b.switchGroups(a)

	cases := make([]jen.Code, 0, len(groups)+len(blk.FillGoto)+1)
	for i, g := range groups {
		if i == 0 && g.index == 0 {
			cases = append(cases, jen.Case(jen.Lit(-1), jen.Lit(0)).Block(rawAll(g.body)...))
		} else {
			cases = append(cases, jen.Case(jen.Lit(g.index)).Block(rawAll(g.body)...))
		}
	}

	indices := make([]int, 0, len(blk.FillGoto))
	for idx := range blk.FillGoto {
		indices = append(indices, idx)
	}
	sort.Ints(indices)
	for _, idx := range indices {
		cases = append(cases, jen.Case(jen.Lit(idx)).Block(rawAll([]*arena.Code{blk.FillGoto[idx]})...))
	}
	if b.Opts.StateAbort {
		cases = append(cases, jen.Default().Block(jen.Panic(jen.Lit("lexgen: invalid stored state"))))
	}

	loopBody := arena.RawCode(jen.Switch(jen.Id(b.Opts.VarState)).Block(cases...))
	return &arena.Code{Kind: arena.KindLoop, Children: []*arena.Code{loopBody}}
}

// emitRecFunc implements the REC_FUNC shape: one function per group of
// states folded by switchGroups, mutually tail-calling. Each function's
// body is the group's own EmitState output. The functions are emitted
// without parameters: FnCommon is not consulted, so no yych value is
// carried from one function into the next.
func (b *Builder) emitRecFunc(a *dfa.Adfa) *arena.Code {
	groups := b.switchGroups(a)
	fns := make([]*arena.Code, 0, len(groups))
	for _, g := range groups {
		fns = append(fns, &arena.Code{
			Kind:     arena.KindFuncDef,
			FuncName: codegen.StateLabelName(b.Opts.LabelPrefix, uint32(g.index)),
			Body:     arena.List(g.body...),
		})
	}
	return &arena.Code{Kind: arena.KindRecFuncs, Children: fns}
}

// EmitBlock implements codegen_generate_block for one OutputBlock: one
// assembled shape per DFA, preceded by the storable-state resumption
// dispatch when configured, and — under StartConditions — the
// per-condition entry glue. Under LOOP_SWITCH, storable-state resumption
// is not a separate dispatch: it folds into the first DFA's own yystate
// switch (gen_storable_state_cases only ever touches the switch that
// wrap_dfas_in_loop_switch builds, pass2_generate.cc:1983); GOTO_LABEL
// and REC_FUNC keep the standalone YYGETSTATE switch emitted up front.
func (b *Builder) EmitBlock(blk *dfa.OutputBlock) []*arena.Code {
	var out []*arena.Code
	mergeStorable := b.Opts.StorableState && b.Opts.CodeModel == options.LoopSwitch
	if b.Opts.StorableState && !mergeStorable {
		out = append(out, b.emitStateGoto(blk)...)
	}
	for i, a := range blk.DFAs {
		out = append(out, b.condEntry(a))
		if mergeStorable && i == 0 {
			out = append(out, b.emitLoopSwitchWithStorableState(a, blk))
		} else {
			out = append(out, b.EmitDFA(a))
		}
	}
	blk.Code = append(blk.Code, out...)
	return out
}

// condEntry emits the glue that routes into a under StartConditions:
// a labeled entry point under GOTO_LABEL, nothing extra under
// LOOP_SWITCH (the caller seeds yystate/yycond before the loop starts),
// and a dedicated entry function under REC_FUNC.
func (b *Builder) condEntry(a *dfa.Adfa) *arena.Code {
	if !b.Opts.StartConditions || a.Cond == "" {
		return arena.Empty()
	}
	switch b.Opts.CodeModel {
	case options.GotoLabel:
		return arena.NumLabel(b.Opts.CondLabelPrefix + a.Cond)
	case options.RecFunc:
		target := ""
		if a.Head != nil && a.Head.Label != nil {
			target = codegen.StateLabelName(b.Opts.LabelPrefix, a.Head.Label.Index)
		}
		return &arena.Code{
			Kind:     arena.KindFuncDef,
			FuncName: codegen.CondFuncName(b.Opts.CondLabelPrefix, a.Cond),
			Body:     arena.List(&arena.Code{Kind: arena.KindTailCall, CallName: target}),
		}
	default:
		return arena.Empty()
	}
}

// emitStateGoto implements gen_state_goto (spec.md §4.7): dispatch on
// YYGETSTATE() into the right resumption point, or the block's start
// label for a fresh (-1) state.
func (b *Builder) emitStateGoto(blk *dfa.OutputBlock) []*arena.Code {
	indices := make([]int, 0, len(blk.FillGoto))
	for idx := range blk.FillGoto {
		indices = append(indices, idx)
	}
	sort.Ints(indices)

	var cases []jen.Code
	startBody := jen.Goto().Id("yyStart")
	if blk.StartLabel != nil {
		startBody = jen.Goto().Id(codegen.StateLabelName(b.Opts.LabelPrefix, blk.StartLabel.Index))
	}
	cases = append(cases, jen.Case(jen.Lit(-1)).Block(startBody))
	for _, idx := range indices {
		cases = append(cases, jen.Case(jen.Lit(idx)).Block(rawAll([]*arena.Code{blk.FillGoto[idx]})...))
	}
	if b.Opts.StateAbort {
		cases = append(cases, jen.Default().Block(jen.Panic(jen.Lit("lexgen: invalid stored state"))))
	}
	return []*arena.Code{arena.RawCode(jen.Switch(jen.Id("YYGETSTATE").Call()).Block(cases...))}
}

func rawAll(codes []*arena.Code) []jen.Code {
	out := make([]jen.Code, 0, len(codes))
	for _, c := range codes {
		out = append(out, leaf(c))
	}
	return out
}

func leaf(c *arena.Code) jen.Code {
	switch c.Kind {
	case arena.KindRaw:
		return c.Raw
	case arena.KindGoto:
		return jen.Goto().Id(c.Text)
	case arena.KindLabel:
		return jen.Id(c.Text).Op(":")
	case arena.KindText:
		return jen.Comment(c.Text)
	case arena.KindTailCall:
		return jen.Return(jen.Id(c.CallName).Call(c.CallArgs...))
	case arena.KindEmpty:
		return jen.Empty()
	case arena.KindList:
		var s []jen.Code
		for _, ch := range c.Children {
			s = append(s, leaf(ch))
		}
		return jen.Null().Add(s...)
	default:
		return jen.Comment("unrenderable nested arena.Code node")
	}
}
