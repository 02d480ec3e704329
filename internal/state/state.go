// Package state implements StateEmitter (spec.md §4.5): per-state
// prologue selection keyed on the state's action kind, plus the peek
// omission rule every prologue shares.
package state

import (
	"strconv"

	"github.com/dave/jennifer/jen"

	"github.com/gz83/lexgen/internal/arena"
	"github.com/gz83/lexgen/internal/codegen"
	"github.com/gz83/lexgen/internal/dfa"
	"github.com/gz83/lexgen/internal/dispatch"
	"github.com/gz83/lexgen/internal/options"
	"github.com/gz83/lexgen/internal/scratch"
	"github.com/gz83/lexgen/internal/tags"
	"github.com/gz83/lexgen/internal/transition"
)

// Emitter is StateEmitter.
type Emitter struct {
	Opts    *options.Options
	Buf     *scratch.Buffer
	Tags    *tags.Emitter
	Trans   *transition.Emitter
	Dispatch *dispatch.Emitter

	// AcceptOnEntry renders one accept-table entry's body; injected so
	// this package doesn't depend on how a block wires EmitGoto targets
	// across DFAs.
	AcceptOnEntry func(dfa.AcceptTrans) []*arena.Code
}

// NeedsPeek implements the peek-omission rule: a MOVE state never peeks
// (it relies on the previous yych); a state whose single transition
// targets a non-MOVE state also skips peek (the tunneling
// pre-condition — the destination will peek for itself).
func NeedsPeek(s *dfa.State) bool {
	if s.Action.Kind == dfa.ActionMove {
		return false
	}
	if len(s.Go.Spans) == 1 {
		to := s.Go.Spans[0].To
		if to != nil && to.Action.Kind != dfa.ActionMove {
			return false
		}
	}
	return true
}

// EmitLabel emits the state's label declaration (if used, and only under
// GOTO_LABEL; the other shapes carry no per-state label) — the first
// half of emit_state — and, when debug is enabled, a debug hook call.
func (e *Emitter) EmitLabel(s *dfa.State) []*arena.Code {
	var out []*arena.Code
	if s.Label != nil && s.Label.Used && e.Opts.CodeModel == options.GotoLabel {
		out = append(out, arena.NumLabel(codegen.StateLabelName(e.Opts.LabelPrefix, s.Label.Index)))
	}
	if e.Opts.Debug {
		out = append(out, arena.RawCode(jen.Id("YYDEBUG").Call(jen.Lit(int(labelIndex(s))), jen.Id(e.Opts.VarChar))))
	}
	return out
}

func labelIndex(s *dfa.State) uint32 {
	if s.Label == nil {
		return dfa.NoLabel
	}
	return s.Label.Index
}

func (e *Emitter) skip() *arena.Code {
	return arena.RawCode(jen.Id("YYSKIP").Call())
}

func (e *Emitter) backup() *arena.Code {
	return arena.RawCode(jen.Id("marker").Op("=").Id("cursor"))
}

func (e *Emitter) peek() *arena.Code {
	return arena.RawCode(jen.Id(e.Opts.VarChar).Op("=").Id("YYPEEK").Call())
}

func (e *Emitter) fillAndLabel(s *dfa.State) []*arena.Code {
	if s.FillLabel == nil {
		return nil
	}
	return []*arena.Code{arena.NumLabel(codegen.StateLabelName(e.Opts.LabelPrefix, s.FillLabel.Index))}
}

// EmitAction implements emit_action: the kind-specific prologue.
func (e *Emitter) EmitAction(from *dfa.Adfa, s *dfa.State) []*arena.Code {
	switch s.Action.Kind {
	case dfa.ActionMatch:
		return e.emitMatch(s)
	case dfa.ActionInitial:
		return e.emitInitial(from, s)
	case dfa.ActionSave:
		return e.emitSave(s)
	case dfa.ActionMove:
		return nil
	case dfa.ActionAccept:
		return e.Dispatch.EmitAccept(s.Action.Accept, e.AcceptOnEntry)
	case dfa.ActionRule:
		return e.emitRule(from, s)
	default:
		return nil
	}
}

func (e *Emitter) emitMatch(s *dfa.State) []*arena.Code {
	var out []*arena.Code
	if !e.Opts.EagerSkip {
		out = append(out, e.skip())
	}
	out = append(out, e.fillAndLabel(s)...)
	if NeedsPeek(s) {
		out = append(out, e.peek())
	}
	return out
}

func (e *Emitter) emitInitial(from *dfa.Adfa, s *dfa.State) []*arena.Code {
	var out []*arena.Code
	multiAccept := countAcceptEntries(from) > 1
	if multiAccept && s.Action.SaveIdx != dfa.NoSave {
		out = append(out, arena.RawCode(jen.Id(e.Opts.VarAccept).Op("=").Lit(s.Action.SaveIdx)))
	}
	if !e.Opts.EagerSkip {
		out = append(out, e.skip())
	}
	if s.Label != nil && s.Label.Used {
		out = append(out, arena.NumLabel(codegen.StateLabelName(e.Opts.LabelPrefix, s.Label.Index)))
	}
	out = append(out, e.fillAndLabel(s)...)
	out = append(out, e.backup())
	if NeedsPeek(s) {
		out = append(out, e.peek())
	}
	if e.Opts.Debug {
		out = append(out, arena.RawCode(jen.Id("YYDEBUG").Call(jen.Lit(int(labelIndex(s))), jen.Id(e.Opts.VarChar))))
	}
	return out
}

func (e *Emitter) emitSave(s *dfa.State) []*arena.Code {
	var out []*arena.Code
	if s.Action.SaveIdx != dfa.NoSave {
		out = append(out, arena.RawCode(jen.Id(e.Opts.VarAccept).Op("=").Lit(s.Action.SaveIdx)))
	}
	if !e.Opts.EagerSkip {
		out = append(out, e.skip())
	}
	out = append(out, e.backup())
	out = append(out, e.fillAndLabel(s)...)
	if NeedsPeek(s) {
		out = append(out, e.peek())
	}
	return out
}

func (e *Emitter) emitRule(from *dfa.Adfa, s *dfa.State) []*arena.Code {
	rule := s.Action.Rule
	var out []*arena.Code
	out = append(out, e.Tags.EmitFinTags(rule, from.Tags)...)

	if rule.SemAct == nil || rule.SemAct.Autogen {
		// Autogenerated `:=>` transition to the next condition.
		target := ""
		if rule.SemAct != nil {
			target = rule.SemAct.Cond
		}
		out = append(out, e.emitCondGoto(target))
		return out
	}

	if e.Opts.LineDirs {
		out = append(out, arena.RawCode(jen.Op("//line "+rule.SemAct.Loc.File+":"+strconv.Itoa(rule.SemAct.Loc.Line)+"\n")))
	}
	// The semantic action is verbatim user source; it must be inserted
	// as-is, never wrapped as a Go comment.
	out = append(out, arena.RawCode(jen.Op(rule.SemAct.Text)))
	return out
}

// emitCondGoto emits the shape-specific `:=>cond` transition: a
// cond:goto template under GOTO_LABEL, a yystate assignment + continue
// under LOOP_SWITCH, or a tail call to the condition's entry function
// under REC_FUNC.
func (e *Emitter) emitCondGoto(cond string) *arena.Code {
	if cond == "" {
		return arena.Empty()
	}
	switch e.Opts.CodeModel {
	case options.GotoLabel:
		return arena.Goto(e.Opts.CondLabelPrefix + cond)
	case options.LoopSwitch:
		return arena.List(
			arena.RawCode(jen.Id(e.Opts.VarCond).Op("=").Lit(cond)),
			arena.RawCode(jen.Continue()),
		)
	case options.RecFunc:
		return &arena.Code{Kind: arena.KindTailCall, CallName: codegen.CondFuncName(e.Opts.CondLabelPrefix, cond)}
	default:
		return arena.Empty()
	}
}

func countAcceptEntries(a *dfa.Adfa) int {
	max := 0
	for _, s := range a.States() {
		if s.Action.Kind == dfa.ActionAccept && s.Action.Accept != nil {
			n := len(s.Action.Accept.Entries)
			if n > max {
				max = n
			}
		}
	}
	return max
}
