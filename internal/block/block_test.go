package block

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gz83/lexgen/internal/arena"
	"github.com/gz83/lexgen/internal/dfa"
	"github.com/gz83/lexgen/internal/dispatch"
	"github.com/gz83/lexgen/internal/options"
	"github.com/gz83/lexgen/internal/render"
	"github.com/gz83/lexgen/internal/scratch"
	"github.com/gz83/lexgen/internal/shape"
	"github.com/gz83/lexgen/internal/state"
	"github.com/gz83/lexgen/internal/tags"
	"github.com/gz83/lexgen/internal/transition"
)

// renderCodes renders a []*arena.Code to gofmt'd Go source for substring
// assertions. Individual raw fragments in the tree are only valid Go once
// assembled with their siblings, so this goes through the same
// lower/statements pipeline internal/render uses rather than formatting
// each node in isolation (which fmt's %#v on jen.Code cannot do: it
// neither recurses into pointer elements of a slice nor can format
// incomplete fragments).
func renderCodes(codes []*arena.Code) string {
	r := render.New("x")
	r.AddBlock(&dfa.OutputBlock{Code: codes})
	out, err := r.Render()
	if err != nil {
		return fmt.Sprintf("<render error: %v>", err)
	}
	return out
}

func newBuilder(opts *options.Options) *Builder {
	buf := scratch.New()
	tagE := tags.New(opts, buf)
	transE := transition.New(opts, buf, tagE, nil)
	dispE := dispatch.New(opts, buf, transE)
	stateE := &state.Emitter{
		Opts:          opts,
		Buf:           buf,
		Tags:          tagE,
		Trans:         transE,
		Dispatch:      dispE,
		AcceptOnEntry: func(dfa.AcceptTrans) []*arena.Code { return nil },
	}
	return New(opts, buf, stateE, dispE)
}

func twoStateDFA() *dfa.Adfa {
	l0 := &dfa.Label{Index: 0, Used: true}
	l1 := &dfa.Label{Index: 1, Used: true}
	s1 := &dfa.State{
		Label:  l1,
		Action: dfa.Action{Kind: dfa.ActionRule, Rule: &dfa.Rule{SemAct: &dfa.SemAct{Text: "return TOKEN"}}},
	}
	s0 := &dfa.State{
		Label:  l0,
		Action: dfa.Action{Kind: dfa.ActionMatch},
		Go:     dfa.Go{Spans: []dfa.Span{{Lb: 'a', Ub: 'b', To: s1}}},
		Next:   s1,
	}
	return &dfa.Adfa{Head: s0}
}

// tunneledDFA models a MOVE-chain state (l1) folded by an upstream
// tunneling pass: it has no incoming transitions of its own, so its
// label is unused, and its code must be folded into the case/function
// of the state ahead of it (l0) rather than getting a case of its own.
func tunneledDFA() *dfa.Adfa {
	l0 := &dfa.Label{Index: 0, Used: true}
	l1 := &dfa.Label{Index: 1, Used: false}
	l2 := &dfa.Label{Index: 2, Used: true}
	s2 := &dfa.State{
		Label:  l2,
		Action: dfa.Action{Kind: dfa.ActionRule, Rule: &dfa.Rule{SemAct: &dfa.SemAct{Text: "return TOKEN"}}},
	}
	s1 := &dfa.State{
		Label:  l1,
		Action: dfa.Action{Kind: dfa.ActionMatch},
		Go:     dfa.Go{Spans: []dfa.Span{{Lb: 'b', Ub: 'c', To: s2}}},
		Next:   s2,
	}
	s0 := &dfa.State{
		Label:  l0,
		Action: dfa.Action{Kind: dfa.ActionMatch},
		Go:     dfa.Go{Spans: []dfa.Span{{Lb: 'a', Ub: 'b', To: s1}}},
		Next:   s1,
	}
	return &dfa.Adfa{Head: s0}
}

func TestEmitLoopSwitchFoldsUnusedLabelIntoPriorCase(t *testing.T) {
	opts := options.NewOptions()
	opts.CodeModel = options.LoopSwitch
	b := newBuilder(opts)
	groups := b.switchGroups(tunneledDFA())
	require.Len(t, groups, 2)
	assert.Equal(t, 0, groups[0].index)
	assert.Equal(t, 2, groups[1].index)

	rendered := renderCodes([]*arena.Code{b.emitLoopSwitch(tunneledDFA())})
	assert.NotContains(t, rendered, "case 1:")
}

func TestEmitRecFuncFoldsUnusedLabelIntoPriorFunction(t *testing.T) {
	opts := options.NewOptions()
	opts.CodeModel = options.RecFunc
	b := newBuilder(opts)
	out := b.emitRecFunc(tunneledDFA())
	require.Len(t, out.Children, 2)
	assert.Equal(t, "yy0", out.Children[0].FuncName)
	assert.Equal(t, "yy2", out.Children[1].FuncName)
}

func TestEmitLoopSwitchWithStorableStateMergesRangeCase(t *testing.T) {
	opts := options.NewOptions()
	opts.CodeModel = options.LoopSwitch
	opts.StorableState = true
	b := newBuilder(opts)
	blk := dfa.NewOutputBlock(opts, dfa.BlockCode)
	blk.DFAs = []*dfa.Adfa{twoStateDFA()}
	blk.FillGoto = map[int]*arena.Code{5: arena.NumLabel("resume5")}

	out := b.EmitBlock(blk)
	require.Len(t, out, 2) // condEntry (empty) + merged loop; no standalone getstate switch

	rendered := renderCodes(out)
	assert.Contains(t, rendered, "case -1, 0:")
	assert.Contains(t, rendered, "case 5:")
}

func TestEmitBlockLoopSwitchStorableStateOnlyMergesFirstDFA(t *testing.T) {
	opts := options.NewOptions()
	opts.CodeModel = options.LoopSwitch
	opts.StorableState = true
	b := newBuilder(opts)
	blk := dfa.NewOutputBlock(opts, dfa.BlockCode)
	blk.DFAs = []*dfa.Adfa{twoStateDFA(), twoStateDFA()}

	out := b.EmitBlock(blk)
	// one standalone switch per DFA is still emitted for LOOP_SWITCH; the
	// composite -1|0 range only needs to show up once, on the first.
	rendered := renderCodes(out)
	assert.Contains(t, rendered, "-1")
	assert.Equal(t, 1, strings.Count(rendered, "case -1, 0:"))
}

func TestEmitDFAGotoLabel(t *testing.T) {
	opts := options.NewOptions()
	b := newBuilder(opts)
	a := twoStateDFA()
	out := b.EmitDFA(a)
	require.Equal(t, arena.KindList, out.Kind)
	assert.NotEmpty(t, out.Children)
}

func TestEmitDFALoopSwitch(t *testing.T) {
	opts := options.NewOptions()
	opts.CodeModel = options.LoopSwitch
	b := newBuilder(opts)
	a := twoStateDFA()
	out := b.EmitDFA(a)
	require.Equal(t, arena.KindLoop, out.Kind)
	require.Len(t, out.Children, 1)
}

func TestEmitDFARecFunc(t *testing.T) {
	opts := options.NewOptions()
	opts.CodeModel = options.RecFunc
	b := newBuilder(opts)
	a := twoStateDFA()
	out := b.EmitDFA(a)
	require.Equal(t, arena.KindRecFuncs, out.Kind)
	assert.Len(t, out.Children, 2)
}

func TestEmitStateGotoStartCase(t *testing.T) {
	opts := options.NewOptions()
	opts.StorableState = true
	b := newBuilder(opts)
	blk := dfa.NewOutputBlock(opts, dfa.BlockCode)
	blk.StartLabel = &dfa.Label{Index: 0, Used: true}
	out := b.emitStateGoto(blk)
	require.Len(t, out, 1)
	assert.Equal(t, arena.KindRaw, out[0].Kind)
}

func TestCondEntryGotoLabel(t *testing.T) {
	opts := options.NewOptions()
	opts.StartConditions = true
	b := newBuilder(opts)
	a := twoStateDFA()
	a.Cond = "INITIAL"
	out := b.condEntry(a)
	assert.Equal(t, arena.KindLabel, out.Kind)
	assert.Equal(t, "yyc_INITIAL", out.Text)
}

func TestCondEntryNoStartConditions(t *testing.T) {
	opts := options.NewOptions()
	b := newBuilder(opts)
	a := twoStateDFA()
	a.Cond = "INITIAL"
	out := b.condEntry(a)
	assert.Equal(t, arena.KindEmpty, out.Kind)
}

func TestShapeHelperStillAgreesWithBlockLabelNaming(t *testing.T) {
	opts := options.NewOptions()
	label := &dfa.Label{Index: 4, Used: true}
	assert.Equal(t, "yy4", shape.TailCallName(opts, label))
}
