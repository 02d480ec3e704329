// Package dispatch implements DispatchEmitter (spec.md §4.3/§4.4): a
// state's outgoing dispatch, and the accept-register dispatch a SAVE
// chain restores from.
package dispatch

import (
	"sort"
	"strconv"

	"github.com/dave/jennifer/jen"

	"github.com/gz83/lexgen/internal/arena"
	"github.com/gz83/lexgen/internal/dfa"
	"github.com/gz83/lexgen/internal/options"
	"github.com/gz83/lexgen/internal/scratch"
	"github.com/gz83/lexgen/internal/transition"
)

// Form names the five dispatch shapes; re-exported from options for
// convenience at call sites that only import this package.
type Form = options.DispatchForm

// Emitter is DispatchEmitter.
type Emitter struct {
	Opts  *options.Options
	Buf   *scratch.Buffer
	Trans *transition.Emitter
}

// New returns a dispatch.Emitter sharing state with the rest of the pass.
func New(opts *options.Options, buf *scratch.Buffer, trans *transition.Emitter) *Emitter {
	return &Emitter{Opts: opts, Buf: buf, Trans: trans}
}

// ChooseForm picks one of the five forms for a state's dispatch. The
// upstream optimizer is expected to have already decided this in a full
// pipeline; absent that input, this applies the same shape of heuristic
// the original uses (bitmap tables take priority when present and
// enabled, then computed gotos above the configured threshold, then
// nested/binary ifs for wide fan-out, else a plain switch).
func (e *Emitter) ChooseForm(from *dfa.State, bitmap *dfa.CodeBitmap) options.DispatchForm {
	n := len(from.Go.Spans)
	switch {
	case e.Opts.Bitmaps && bitmap != nil && bitmap.Used:
		return options.DispatchBitmap
	case e.Opts.ComputedGotos && n >= e.Opts.ComputedGotosThreshold && e.Opts.CodeModel == options.GotoLabel:
		return options.DispatchComputedGoto
	case e.Opts.NestedIfs && n > 2:
		return options.DispatchBinaryIf
	case n <= 2:
		return options.DispatchLinearIf
	default:
		return options.DispatchSwitch
	}
}

// Emit renders from's dispatch using the given form, plus the fallback
// jump taken when no span matches.
func (e *Emitter) Emit(from *dfa.State, form options.DispatchForm, bitmap *dfa.CodeBitmap) []*arena.Code {
	spans := from.Go.Spans
	if len(spans) == 0 {
		return nil
	}
	switch form {
	case options.DispatchLinearIf:
		return e.emitLinearIf(from, spans)
	case options.DispatchBinaryIf:
		return []*arena.Code{e.emitBinaryIf(from, spans)}
	case options.DispatchBitmap:
		return e.emitBitmap(from, spans, bitmap)
	case options.DispatchComputedGoto:
		return e.emitComputedGoto(from, spans)
	default:
		return e.emitSwitch(from, spans)
	}
}

func (e *Emitter) charExpr(r rune) *jen.Statement {
	if e.Opts.BitmapsHex {
		return jen.Lit(scratch.PrintHex(uint32(r)))
	}
	return jen.LitRune(r)
}

// emitLinearIf implements the "linear ifs" form: a sequence of
// `if cond { goto ... }` statements, with the last (unconditional) span
// falling through, per spec.md §4.3. Under REC_FUNC the last span is
// wrapped in its own `if` as well, since every branch must itself be a
// tail call; the result is a run of separate `if` statements, not an
// if/else-if/else chain.
func (e *Emitter) emitLinearIf(from *dfa.State, spans []dfa.Span) []*arena.Code {
	var out []*arena.Code
	for i, sp := range spans {
		last := i == len(spans)-1
		body := e.Trans.EmitGoto(from, dfa.Jump{To: sp.To, Tags: sp.Tags})
		if last && e.Opts.CodeModel != options.RecFunc {
			out = append(out, body...)
			continue
		}
		cond := e.rangeCond(sp)
		out = append(out, arena.RawCode(
			jen.If(cond).Block(rawAll(body)...),
		))
	}
	return out
}

// emitBinaryIf implements recursive bisection over the spans' midpoint,
// for wide fan-out dispatches.
func (e *Emitter) emitBinaryIf(from *dfa.State, spans []dfa.Span) *arena.Code {
	if len(spans) == 1 {
		return arena.List(e.Trans.EmitGoto(from, dfa.Jump{To: spans[0].To, Tags: spans[0].Tags})...)
	}
	mid := len(spans) / 2
	lo, hi := spans[:mid], spans[mid:]
	cond := jen.Id(e.Opts.VarChar).Op("<").Add(e.charExpr(hi[0].Lb))
	return arena.RawCode(
		jen.If(cond).Block(rawAll([]*arena.Code{e.emitBinaryIf(from, lo)})...).
			Else().Block(rawAll([]*arena.Code{e.emitBinaryIf(from, hi)})...),
	)
}

// emitSwitch implements the tagless-switch form: one case per span's
// range test, Go having no native case-range syntax.
func (e *Emitter) emitSwitch(from *dfa.State, spans []dfa.Span) []*arena.Code {
	var cases []jen.Code
	for _, sp := range spans {
		body := e.Trans.EmitGoto(from, dfa.Jump{To: sp.To, Tags: sp.Tags})
		cases = append(cases, jen.Case(e.rangeCond(sp)).Block(rawAll(body)...))
	}
	return []*arena.Code{arena.RawCode(jen.Switch().Block(cases...))}
}

// emitBitmap implements the packed bitmap form (SPEC_FULL.md item 4):
// `bitmap[offset+yych] & mask` against the table gen_bitmap packs up to
// 8 states into. The high-byte guard for non-ASCII fall-through is
// emitted as a separate leading branch when nchars < the full range.
func (e *Emitter) emitBitmap(from *dfa.State, spans []dfa.Span, bitmap *dfa.CodeBitmap) []*arena.Code {
	var bm *dfa.CodeBmState
	for b := bitmap.States.Head; b != nil; b = b.Next {
		if b.State == from {
			bm = b
			break
		}
	}
	if bm == nil {
		return e.emitSwitch(from, spans)
	}

	var hi jen.Code
	if bitmap.NChars < 256 {
		hi = jen.If(jen.Id(e.Opts.VarChar).Op(">").Lit(bitmap.NChars - 1)).Block(
			rawAll(e.Trans.EmitGoto(from, e.fallbackJump(from)))...,
		)
	}

	test := jen.Id(e.Opts.VarBitmaps).Index(jen.Lit(int(bm.Offset)).Op("+").Id(e.Opts.VarChar)).
		Op("&").Lit(int(bm.Mask))
	if e.Opts.ImplicitBoolConversion {
		test = jen.Parens(test).Op("!=").Lit(0)
	}

	onMatch := spans[0].To
	var tags *dfa.TagCommand
	if len(spans) > 0 {
		tags = spans[0].Tags
	}
	body := jen.If(test).Block(rawAll(e.Trans.EmitGoto(from, dfa.Jump{To: onMatch, Tags: tags}))...).
		Else().Block(rawAll(e.Trans.EmitGoto(from, e.fallbackJump(from)))...)

	if hi != nil {
		return []*arena.Code{arena.RawCode(hi), arena.RawCode(body)}
	}
	return []*arena.Code{arena.RawCode(body)}
}

// emitComputedGoto implements the computed-goto form. Go has no
// indirect-goto/label-address primitive, so the table holds target state
// indices rather than label addresses, and dispatch is the same
// lookup-then-switch idiom the teacher itself uses for its instruction
// dispatcher (internal/compiler/instructions.go's generateStepSelector):
// look the index up, then switch on it to the right label/tailcall/case.
func (e *Emitter) emitComputedGoto(from *dfa.State, spans []dfa.Span) []*arena.Code {
	table := make([]string, 256)
	for i := range table {
		table[i] = "-1"
	}
	byIndex := map[int]dfa.Span{}
	for _, sp := range spans {
		lo, hi := clampByte(sp.Lb), clampByte(sp.Ub)
		idx := -1
		if sp.To != nil && sp.To.Label != nil {
			idx = int(sp.To.Label.Index)
		}
		for c := lo; c < hi; c++ {
			table[c] = strconv.Itoa(idx)
		}
		if idx >= 0 {
			byIndex[idx] = sp
		}
	}

	arrName := e.Buf.Str(e.Opts.LabelPrefix).Cstr("cgoto").Flush()
	elems := make([]string, len(table))
	copy(elems, table)

	var cases []jen.Code
	indices := make([]int, 0, len(byIndex))
	for idx := range byIndex {
		indices = append(indices, idx)
	}
	sort.Ints(indices)
	for _, idx := range indices {
		sp := byIndex[idx]
		cases = append(cases, jen.Case(jen.Lit(idx)).Block(
			rawAll(e.Trans.EmitGoto(from, dfa.Jump{To: sp.To, Tags: sp.Tags}))...,
		))
	}
	cases = append(cases, jen.Default().Block(
		rawAll(e.Trans.EmitGoto(from, e.fallbackJump(from)))...,
	))

	arr := &arena.Code{
		Kind:       arena.KindArray,
		ArrayName:  arrName,
		ArrayElems: elems,
	}
	lookup := arena.RawCode(jen.Id("idx").Op(":=").Id(arrName).Index(jen.Id(e.Opts.VarChar)))
	sw := arena.RawCode(jen.Switch(jen.Id("idx")).Block(cases...))
	return []*arena.Code{arr, lookup, sw}
}

func (e *Emitter) fallbackJump(from *dfa.State) dfa.Jump {
	return dfa.Jump{To: from, EOF: from.Fill > 0}
}

// rangeCond renders a span's character-range test, `lb <= yych && yych <
// ub`, collapsing to equality when the range has width 1.
func (e *Emitter) rangeCond(sp dfa.Span) jen.Code {
	yych := jen.Id(e.Opts.VarChar)
	if sp.Ub-sp.Lb == 1 {
		return yych.Clone().Op("==").Add(e.charExpr(sp.Lb))
	}
	return e.charExpr(sp.Lb).Op("<=").Add(yych).Op("&&").Add(yych).Op("<").Add(e.charExpr(sp.Ub))
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

func clampByte(r rune) int {
	if r < 0 {
		return 0
	}
	if r > 255 {
		return 256
	}
	return int(r)
}
