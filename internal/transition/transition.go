// Package transition implements TransitionEmitter (spec.md §4.2): one
// DFA transition's tag ops, skip, the jump itself, and YYFILL/fallback
// handling.
package transition

import (
	"github.com/dave/jennifer/jen"

	"github.com/gz83/lexgen/internal/arena"
	"github.com/gz83/lexgen/internal/dfa"
	"github.com/gz83/lexgen/internal/options"
	"github.com/gz83/lexgen/internal/scratch"
	"github.com/gz83/lexgen/internal/shape"
	"github.com/gz83/lexgen/internal/tags"
)

// Emitter is TransitionEmitter.
type Emitter struct {
	Opts *options.Options
	Buf  *scratch.Buffer
	Tags *tags.Emitter

	// RecFuncArgs builds the argument list for a REC_FUNC tail call to
	// the given state. When nil, tail calls carry no arguments;
	// pkg/lexgen constructs the emitter with nil.
	RecFuncArgs func(to *dfa.State) []jen.Code
}

// New returns a transition.Emitter sharing opts/buf/tagEmitter with the
// rest of the pass.
func New(opts *options.Options, buf *scratch.Buffer, tagEmitter *tags.Emitter, recFuncArgs func(*dfa.State) []jen.Code) *Emitter {
	return &Emitter{Opts: opts, Buf: buf, Tags: tagEmitter, RecFuncArgs: recFuncArgs}
}

// EmitGoto implements gen_goto: emits one transition from `from` along
// `jump`.
func (e *Emitter) EmitGoto(from *dfa.State, jump dfa.Jump) []*arena.Code {
	var out []*arena.Code

	out = append(out, e.Tags.EmitSetTags(jump.Tags)...)

	if jump.Skip {
		out = append(out, arena.RawCode(jen.Id("YYSKIP").Call()))
	}

	elided := e.elideJump(from, jump)
	if !elided && jump.To != nil && jump.To.Label != nil && jump.To.Label.Used {
		out = append(out, shape.JumpTo(e.Opts, jump.To.Label, e.args(jump.To)))
	}

	if jump.EOF {
		return []*arena.Code{arena.List(e.EmitFill(from, jump, out)...)}
	}
	return out
}

func (e *Emitter) args(to *dfa.State) []jen.Code {
	if e.RecFuncArgs == nil {
		return nil
	}
	return e.RecFuncArgs(to)
}

// elideJump reports whether the jump is elided because control flow
// naturally falls through. Under GOTO_LABEL this holds when the
// destination is the next state in emission order and its label is
// unused (so no code emits between `from` and it, per spec.md §4.2's
// elision rule). Under
// REC_FUNC, elision is only permitted for tunneling-introduced split
// states (destination's label unused and it's the immediate Next), never
// across the YYFILL branches.
func (e *Emitter) elideJump(from *dfa.State, jump dfa.Jump) bool {
	if jump.To == nil {
		return false
	}
	if e.Opts.CodeModel == options.GotoLabel {
		return from.Next == jump.To && !jump.To.Label.Used
	}
	if e.Opts.CodeModel == options.RecFunc {
		return from.Next == jump.To && !jump.To.Label.Used && !jump.EOF
	}
	// LOOP_SWITCH never elides a genuine cross-state jump: the switch
	// body for `from` ends regardless, so the state-merging done by
	// BlockCodegen (not here) is what avoids the trip through the
	// dispatcher, not jump-level elision.
	return false
}

// LessThan renders the `need` bytes-available guard expression,
// less_than(need) from spec.md §4.2.
func (e *Emitter) LessThan(need int) jen.Code {
	return jen.Id("limit").Op("-").Id("cursor").Op("<").Lit(need)
}

// EmitFill implements gen_fill: the heart of end-of-input handling. tail
// is the transition body gen_goto already built (tag ops, YYSKIP, the
// jump itself) for the case where there's already enough input; gen_fill
// weaves it back in rather than dropping it (pass2_generate.cc:718,
// :650-656): appended straight after the fill when there's no
// less_than(need) guard, or as the else-branch when there is one.
func (e *Emitter) EmitFill(from *dfa.State, jump dfa.Jump, tail []*arena.Code) []*arena.Code {
	need := 1
	if !e.Opts.FillEOF {
		need = from.Fill
	}

	if !e.Opts.FillEnable {
		if !e.Opts.FillEOF || e.Opts.StorableState {
			return tail
		}
		fallback := e.emitFallback(from, jump)
		if !e.Opts.FillCheck || len(fallback) == 0 {
			return append(fallback, tail...)
		}
		return []*arena.Code{arena.RawCode(
			jen.If(e.LessThan(need)).Block(e.rawList(fallback)...).Else().Block(e.rawList(tail)...),
		)}
	}

	var body []*arena.Code
	if e.Opts.StorableState {
		owner := from
		if from.FillState != nil {
			owner = from.FillState
		}
		body = append(body, arena.RawCode(jen.Id("YYSETSTATE").Call(jen.Lit(int(owner.FillLabel.Index)))))
	}

	fillCall := e.fillCallExpr(need)
	if e.Opts.FillEOF && !e.Opts.StorableState {
		// YYFILL returns a success code; branch on failure to fallback,
		// on success to the resumption point.
		body = append(body, arena.RawCode(jen.Id("call").Op(":=").Add(fillCall)))
		body = append(body, arena.RawCode(
			jen.If(jen.Id("call").Op("!=").Lit(0)).Block(
				e.rawList(e.emitFallback(from, jump))...,
			).Else().Block(
				e.rawList(e.EmitGotoAfterFill(from))...,
			),
		))
	} else {
		body = append(body, arena.RawCode(fillCall))
		body = append(body, e.EmitGotoAfterFill(from)...)
	}

	if !e.Opts.FillCheck {
		return append(body, tail...)
	}
	return []*arena.Code{arena.RawCode(
		jen.If(e.LessThan(need)).Block(e.rawList(body)...).Else().Block(e.rawList(tail)...),
	)}
}

func (e *Emitter) fillCallExpr(need int) jen.Code {
	if e.Opts.FillEOF {
		return jen.Id("YYFILL").Call()
	}
	if e.Opts.FillParamEnable {
		return jen.Id("YYFILL").Call(jen.Lit(need))
	}
	return jen.Id("YYFILL").Call()
}

func (e *Emitter) rawList(codes []*arena.Code) []jen.Code {
	out := make([]jen.Code, 0, len(codes))
	for _, c := range codes {
		out = append(out, renderLeaf(c))
	}
	return out
}

// renderLeaf is a narrow escape hatch used only while composing jen.If
// bodies inline above; full tree rendering goes through internal/render.
func renderLeaf(c *arena.Code) jen.Code {
	if c.Kind == arena.KindRaw {
		return c.Raw
	}
	return jen.Comment("unrenderable nested arena.Code in inline fill body")
}

// emitFallback implements gen_fill_fallback: the transition taken when
// YYFILL fails under the EOF rule. Elided when it would duplicate jump
// and we are not in REC_FUNC-with-fills.
func (e *Emitter) emitFallback(from *dfa.State, jump dfa.Jump) []*arena.Code {
	fb := e.fallbackStateWithEOFRule(from)
	fallbackJump := dfa.Jump{To: fb, Tags: jump.Tags}

	if fallbackJump.SameAs(jump) && !(e.Opts.CodeModel == options.RecFunc && e.Opts.FillEnable) {
		return nil
	}
	if fb == nil || fb.Label == nil || !fb.Label.Used {
		return nil
	}
	return []*arena.Code{shape.JumpTo(e.Opts, fb.Label, e.args(fb))}
}

// fallbackStateWithEOFRule finds the state the EOF rule falls back to:
// the destination of from's own accept-or-rule span when from is an end
// state, or from itself otherwise.
func (e *Emitter) fallbackStateWithEOFRule(from *dfa.State) *dfa.State {
	if from.Go.IsEndState() {
		return from.Go.Spans[0].To
	}
	return from
}

// EmitGotoAfterFill implements gen_goto_after_fill: jump to
// from.FillState.FillLabel. With storable state and the EOF rule, this
// is itself inlined as an if/else resolving fill failure without
// jumping mid-state.
func (e *Emitter) EmitGotoAfterFill(from *dfa.State) []*arena.Code {
	if from.FillState == nil || from.FillState.FillLabel == nil {
		return nil
	}
	if e.Opts.StorableState && e.Opts.FillEOF {
		return []*arena.Code{arena.RawCode(
			jen.If(e.LessThan(1)).Block(
				e.rawList(e.emitFallback(from, dfa.Jump{}))...,
			).Else().Block(
				jen.Goto().Id(codegenLabel(e.Opts, from.FillState.FillLabel)),
			),
		)}
	}
	return []*arena.Code{arena.Goto(codegenLabel(e.Opts, from.FillState.FillLabel))}
}

func codegenLabel(opts *options.Options, label *dfa.Label) string {
	return shape.TailCallName(opts, label)
}
