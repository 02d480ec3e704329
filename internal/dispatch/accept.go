package dispatch

import (
	"github.com/dave/jennifer/jen"

	"github.com/gz83/lexgen/internal/arena"
	"github.com/gz83/lexgen/internal/dfa"
)

// EmitAccept implements emit_accept (spec.md §4.4): the action taken
// when a rule is accepted via the yyaccept register. onEntry renders the
// body for one accept-table entry (its tag ops plus the jump to its
// target state); callers pass in a closure rather than this package
// reaching into transition.Emitter directly, since the entry's jump
// target may be in a different DFA/block than the accept state itself.
func (e *Emitter) EmitAccept(acc *dfa.AcceptTable, onEntry func(dfa.AcceptTrans) []*arena.Code) []*arena.Code {
	var out []*arena.Code

	// Step 1: restore cursor from marker.
	out = append(out, arena.RawCode(jen.Id("cursor").Op("=").Id("marker")))

	n := len(acc.Entries)
	switch {
	case n == 1:
		out = append(out, onEntry(acc.Entries[0])...)
	case e.Opts.ComputedGotos && n >= e.Opts.ComputedGotosThreshold && !acc.HasTags():
		out = append(out, e.emitAcceptComputedGoto(acc, onEntry)...)
	case e.Opts.NestedIfs || n == 2:
		out = append(out, e.emitAcceptNestedIf(acc, onEntry, 0, n-1)...)
	default:
		out = append(out, e.emitAcceptSwitch(acc, onEntry)...)
	}
	return out
}

// emitAcceptComputedGoto renders the computed-goto form as a switch on
// yyaccept with one case per entry; no address table is built (Go has no
// label-address table).
func (e *Emitter) emitAcceptComputedGoto(acc *dfa.AcceptTable, onEntry func(dfa.AcceptTrans) []*arena.Code) []*arena.Code {
	var cases []jen.Code
	for i, entry := range acc.Entries {
		cases = append(cases, jen.Case(jen.Lit(i)).Block(rawAll(onEntry(entry))...))
	}
	return []*arena.Code{arena.RawCode(jen.Switch(jen.Id(e.Opts.VarAccept)).Block(cases...))}
}

// emitAcceptNestedIf builds the recursive binary-if form over
// [lo, hi]: equality tests at leaves, <= comparisons at internal nodes.
func (e *Emitter) emitAcceptNestedIf(acc *dfa.AcceptTable, onEntry func(dfa.AcceptTrans) []*arena.Code, lo, hi int) []*arena.Code {
	if lo == hi {
		return onEntry(acc.Entries[lo])
	}
	if hi == lo+1 {
		return []*arena.Code{arena.RawCode(
			jen.If(jen.Id(e.Opts.VarAccept).Op("==").Lit(lo)).
				Block(rawAll(onEntry(acc.Entries[lo]))...).
				Else().
				Block(rawAll(onEntry(acc.Entries[hi]))...),
		)}
	}
	mid := (lo + hi) / 2
	cond := jen.Id(e.Opts.VarAccept).Op("<=").Lit(mid)
	return []*arena.Code{arena.RawCode(
		jen.If(cond).
			Block(rawAll(e.emitAcceptNestedIf(acc, onEntry, lo, mid))...).
			Else().
			Block(rawAll(e.emitAcceptNestedIf(acc, onEntry, mid+1, hi))...),
	)}
}

// emitAcceptSwitch builds switch(yyaccept) { case 0: ...; default: ...; }
// with the last entry as default.
func (e *Emitter) emitAcceptSwitch(acc *dfa.AcceptTable, onEntry func(dfa.AcceptTrans) []*arena.Code) []*arena.Code {
	n := len(acc.Entries)
	var cases []jen.Code
	for i := 0; i < n-1; i++ {
		cases = append(cases, jen.Case(jen.Lit(i)).Block(rawAll(onEntry(acc.Entries[i]))...))
	}
	cases = append(cases, jen.Default().Block(rawAll(onEntry(acc.Entries[n-1]))...))
	return []*arena.Code{arena.RawCode(jen.Switch(jen.Id(e.Opts.VarAccept)).Block(cases...))}
}
