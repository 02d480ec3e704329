package dispatch

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gz83/lexgen/internal/arena"
	"github.com/gz83/lexgen/internal/dfa"
	"github.com/gz83/lexgen/internal/options"
	"github.com/gz83/lexgen/internal/scratch"
	"github.com/gz83/lexgen/internal/tags"
	"github.com/gz83/lexgen/internal/transition"
)

func newEmitter(opts *options.Options) *Emitter {
	tagEmitter := tags.New(opts, scratch.New())
	trans := transition.New(opts, scratch.New(), tagEmitter, nil)
	return New(opts, scratch.New(), trans)
}

func span(lb, ub rune, to *dfa.State) dfa.Span {
	return dfa.Span{Lb: lb, Ub: ub, To: to}
}

func TestChooseFormBitmapTakesPriority(t *testing.T) {
	opts := options.NewOptions()
	opts.Bitmaps = true
	e := newEmitter(opts)
	from := &dfa.State{Go: dfa.Go{Spans: []dfa.Span{span('a', 'z', nil)}}}
	bm := &dfa.CodeBitmap{Used: true}
	assert.Equal(t, options.DispatchBitmap, e.ChooseForm(from, bm))
}

func TestChooseFormComputedGotoAboveThresholdUnderGotoLabel(t *testing.T) {
	opts := options.NewOptions()
	opts.ComputedGotos = true
	opts.ComputedGotosThreshold = 2
	e := newEmitter(opts)
	spans := make([]dfa.Span, 3)
	for i := range spans {
		spans[i] = span(rune(i), rune(i+1), nil)
	}
	from := &dfa.State{Go: dfa.Go{Spans: spans}}
	assert.Equal(t, options.DispatchComputedGoto, e.ChooseForm(from, nil))
}

func TestChooseFormLinearIfForNarrowFanout(t *testing.T) {
	e := newEmitter(options.NewOptions())
	from := &dfa.State{Go: dfa.Go{Spans: []dfa.Span{span('a', 'b', nil), span('b', 'c', nil)}}}
	assert.Equal(t, options.DispatchLinearIf, e.ChooseForm(from, nil))
}

func TestChooseFormBinaryIfForWideFanoutWhenEnabled(t *testing.T) {
	opts := options.NewOptions()
	opts.NestedIfs = true
	e := newEmitter(opts)
	spans := make([]dfa.Span, 5)
	for i := range spans {
		spans[i] = span(rune(i), rune(i+1), nil)
	}
	from := &dfa.State{Go: dfa.Go{Spans: spans}}
	assert.Equal(t, options.DispatchBinaryIf, e.ChooseForm(from, nil))
}

func TestChooseFormSwitchForWideFanoutWhenNestedIfsDisabled(t *testing.T) {
	e := newEmitter(options.NewOptions())
	spans := make([]dfa.Span, 5)
	for i := range spans {
		spans[i] = span(rune(i), rune(i+1), nil)
	}
	from := &dfa.State{Go: dfa.Go{Spans: spans}}
	assert.Equal(t, options.DispatchSwitch, e.ChooseForm(from, nil))
}

func TestEmitEmptySpansReturnsNil(t *testing.T) {
	e := newEmitter(options.NewOptions())
	assert.Nil(t, e.Emit(&dfa.State{}, options.DispatchSwitch, nil))
}

func TestEmitLinearIfLastSpanFallsThroughUnderGotoLabel(t *testing.T) {
	e := newEmitter(options.NewOptions())
	to := &dfa.State{Label: &dfa.Label{Index: 1, Used: true}}
	from := &dfa.State{Go: dfa.Go{Spans: []dfa.Span{span('a', 'b', to)}}}
	out := e.Emit(from, options.DispatchLinearIf, nil)
	require.Len(t, out, 1)
	assert.Equal(t, arena.KindGoto, out[0].Kind)
}

func TestEmitSwitchBuildsOneCasePerSpan(t *testing.T) {
	e := newEmitter(options.NewOptions())
	to1 := &dfa.State{Label: &dfa.Label{Index: 1, Used: true}}
	to2 := &dfa.State{Label: &dfa.Label{Index: 2, Used: true}}
	from := &dfa.State{Go: dfa.Go{Spans: []dfa.Span{span('a', 'b', to1), span('b', 'c', to2), span('c', 'd', nil)}}}
	out := e.Emit(from, options.DispatchSwitch, nil)
	require.Len(t, out, 1)
	assert.Equal(t, arena.KindRaw, out[0].Kind)
}

func TestEmitComputedGotoBuildsArrayLookupAndSwitch(t *testing.T) {
	e := newEmitter(options.NewOptions())
	to := &dfa.State{Label: &dfa.Label{Index: 7, Used: true}}
	from := &dfa.State{Go: dfa.Go{Spans: []dfa.Span{span('a', 'c', to)}}}
	out := e.Emit(from, options.DispatchComputedGoto, nil)
	require.Len(t, out, 3)
	assert.Equal(t, arena.KindArray, out[0].Kind)
	assert.Len(t, out[0].ArrayElems, 256)
}

func TestEmitAcceptSingleEntryCallsOnEntryDirectly(t *testing.T) {
	e := newEmitter(options.NewOptions())
	acc := &dfa.AcceptTable{Entries: []dfa.AcceptTrans{{}}}
	called := 0
	out := e.EmitAccept(acc, func(dfa.AcceptTrans) []*arena.Code {
		called++
		return []*arena.Code{arena.RawCode(nil)}
	})
	assert.Equal(t, 1, called)
	require.Len(t, out, 2)
}

func TestEmitAcceptSwitchFormUsesDefaultForLastEntry(t *testing.T) {
	opts := options.NewOptions()
	e := newEmitter(opts)
	acc := &dfa.AcceptTable{Entries: []dfa.AcceptTrans{{}, {}, {}}}
	out := e.EmitAccept(acc, func(dfa.AcceptTrans) []*arena.Code {
		return nil
	})
	require.Len(t, out, 2)
	assert.Equal(t, arena.KindRaw, out[1].Kind)
}

func TestEmitAcceptComputedGotoRejectedWhenTagged(t *testing.T) {
	opts := options.NewOptions()
	opts.ComputedGotos = true
	opts.ComputedGotosThreshold = 2
	e := newEmitter(opts)
	acc := &dfa.AcceptTable{Entries: []dfa.AcceptTrans{
		{Tags: &dfa.TagCommand{Kind: dfa.CmdSet}}, {}, {},
	}}
	out := e.EmitAccept(acc, func(dfa.AcceptTrans) []*arena.Code { return nil })
	// HasTags() is true, so it must fall through to nested-if/switch, not
	// the computed-goto table.
	require.Len(t, out, 2)
}

func TestRangeCondCollapsesToEqualityForWidthOne(t *testing.T) {
	e := newEmitter(options.NewOptions())
	cond := e.rangeCond(span('a', 'b', nil))
	rendered := fmt.Sprintf("%#v", cond)
	assert.Contains(t, rendered, "==")
}
