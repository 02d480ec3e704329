// Package directive implements DirectiveExpander (spec.md §4.8): the
// pass that runs once every block has been codegen'd, rewriting the
// cross-block placeholder nodes BlockCodegen left behind (STAGS, MTAGS,
// COND_ENUM, MAXFILL, MAXNMATCH, STATE_GOTO) in place.
package directive

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/dave/jennifer/jen"

	"github.com/gz83/lexgen/internal/arena"
	"github.com/gz83/lexgen/internal/dfa"
	"github.com/gz83/lexgen/internal/options"
)

// EmptyDirectiveTargetError is spec.md §7 error kind (b): a directive
// found nothing to aggregate, either because it resolved to no blocks or
// because the blocks it resolved to produced no code for it.
type EmptyDirectiveTargetError struct {
	Directive string
}

func (e *EmptyDirectiveTargetError) Error() string {
	return "`" + e.Directive + "` directive matched no blocks producing code"
}

// CondCollisionError is spec.md §7 error kind (c): the same start
// condition name reappears across blocks with a different number.
type CondCollisionError struct {
	Name     string
	FirstID  int
	SecondID int
}

func (e *CondCollisionError) Error() string {
	return fmt.Sprintf("condition %q has conflicting ids %d and %d across blocks", e.Name, e.FirstID, e.SecondID)
}

// Expand walks every block's accumulated Code list in o and rewrites any
// placeholder node it finds, in emission order, cblocks then hblocks
// (spec.md §5's fixed cross-block order).
func Expand(o *dfa.Output) error {
	for _, blk := range o.AllBlocks() {
		for _, node := range blk.Code {
			if err := walk(o, node); err != nil {
				return err
			}
		}
	}
	return nil
}

// ConditionOrderWarning reports the diagnostic text for spec.md §9's
// condition-order Open Question, or "" when no warning applies. The gate
// is two-part, not a loose "multiple conditions exist": dispatch must
// actually be order-sensitive (nested ifs, or computed gotos across more
// than one condition) and the caller must not have already pinned the
// enum order in an external header.
func ConditionOrderWarning(o *dfa.Output) string {
	if o.Global.ExternalCondEnum {
		return ""
	}

	var conds []dfa.StartCond
	nestedIfs := false
	for _, blk := range o.AllBlocks() {
		conds = append(conds, blk.Conds...)
		if blk.Opts.NestedIfs {
			nestedIfs = true
		}
	}
	if len(conds) < 2 {
		return ""
	}
	orderSensitive := nestedIfs || (o.Global.ComputedGotos && len(conds) > 1)
	if !orderSensitive {
		return ""
	}
	return "condition order affects generated dispatch; declare the enum in an external header to pin it, or accept the block-visitation order"
}

func walk(o *dfa.Output, n *arena.Code) error {
	if n == nil {
		return nil
	}
	switch n.Kind {
	case arena.KindSTags:
		return expandTags(o, n, func(b *dfa.OutputBlock) []string { return b.STags })
	case arena.KindMTags:
		return expandTags(o, n, func(b *dfa.OutputBlock) []string { return b.MTags })
	case arena.KindCondEnum:
		return expandCondEnum(o, n)
	case arena.KindMaxFill:
		return expandMax(o, n, func(b *dfa.OutputBlock) int { return b.MaxFill })
	case arena.KindMaxNMatch:
		return expandMax(o, n, func(b *dfa.OutputBlock) int { return b.MaxNMatch })
	case arena.KindStateGoto:
		return expandStateGoto(o, n)
	}
	for _, c := range n.Children {
		if err := walk(o, c); err != nil {
			return err
		}
	}
	if err := walk(o, n.Then); err != nil {
		return err
	}
	if err := walk(o, n.Else); err != nil {
		return err
	}
	for _, c := range n.Cases {
		if err := walk(o, c); err != nil {
			return err
		}
	}
	return walk(o, n.Body)
}

func expandTags(o *dfa.Output, n *arena.Code, sel func(*dfa.OutputBlock) []string) error {
	blocks, err := o.FindBlocks(n.Placeholder.BlockNames, n.Placeholder.DirectiveName)
	if err != nil {
		return err
	}
	seen := map[string]bool{}
	var names []string
	for _, b := range blocks {
		for _, t := range sel(b) {
			if !seen[t] {
				seen[t] = true
				names = append(names, t)
			}
		}
	}
	sort.Strings(names)

	joined := ""
	for i, name := range names {
		if i > 0 {
			joined += ", "
		}
		joined += name
	}
	format := n.Placeholder.Format
	if format == "" {
		format = n.Placeholder.Sigil
	}
	text := argsubst(format, n.Placeholder.Sigil, joined)
	*n = arena.Code{Kind: arena.KindText, Text: text}
	return nil
}

func argsubst(format, sigil, value string) string {
	if format == "" {
		return value
	}
	out := ""
	for i := 0; i < len(format); {
		if sigil != "" && i+len(sigil) <= len(format) && format[i:i+len(sigil)] == sigil {
			out += value
			i += len(sigil)
			continue
		}
		out += string(format[i])
		i++
	}
	return out
}

// expandCondEnum implements the COND_ENUM placeholder: a formatted list
// of start-condition names numbered sequentially under GOTO_LABEL, or by
// their own cond.ID under LOOP_SWITCH/REC_FUNC (spec.md §4.8),
// failing on a prefixed name reused with a conflicting id across blocks.
func expandCondEnum(o *dfa.Output, n *arena.Code) error {
	blocks, err := o.FindBlocks(n.Placeholder.BlockNames, n.Placeholder.DirectiveName)
	if err != nil {
		return err
	}

	ids := map[string]int{}
	var order []dfa.StartCond
	for _, b := range blocks {
		for _, c := range b.Conds {
			key := c.EnumElem()
			if prior, ok := ids[key]; ok {
				if prior != c.ID {
					return &CondCollisionError{Name: c.Name, FirstID: prior, SecondID: c.ID}
				}
				continue
			}
			ids[key] = c.ID
			order = append(order, c)
		}
	}

	var elems []string
	for i, c := range order {
		num := c.ID
		if o.Global.CodeModel == options.GotoLabel {
			num = i
		}
		elems = append(elems, fmt.Sprintf("%s = %d", c.EnumElem(), num))
	}

	text := ""
	for i, e := range elems {
		if i > 0 {
			text += ",\n"
		}
		text += e
	}
	*n = arena.Code{Kind: arena.KindText, Text: text}
	return nil
}

func expandMax(o *dfa.Output, n *arena.Code, sel func(*dfa.OutputBlock) int) error {
	blocks, err := o.FindBlocks(n.Placeholder.BlockNames, n.Placeholder.DirectiveName)
	if err != nil {
		return err
	}
	if len(blocks) == 0 {
		return &EmptyDirectiveTargetError{Directive: n.Placeholder.DirectiveName}
	}
	max := 0
	for _, b := range blocks {
		if v := sel(b); v > max {
			max = v
		}
	}
	text := strconv.Itoa(max)
	if n.Placeholder.Format != "" {
		text = argsubst(n.Placeholder.Format, n.Placeholder.Sigil, text)
	}
	*n = arena.Code{Kind: arena.KindText, Text: text}
	return nil
}

// expandStateGoto merges the fill_goto maps of every targeted block into
// a single YYGETSTATE switch, the cross-block form of gen_state_goto
// (spec.md §4.7) used when a directive names blocks explicitly rather
// than relying on BlockCodegen's own per-block emission.
func expandStateGoto(o *dfa.Output, n *arena.Code) error {
	blocks, err := o.FindBlocks(n.Placeholder.BlockNames, n.Placeholder.DirectiveName)
	if err != nil {
		return err
	}
	merged := map[int]*arena.Code{}
	var indices []int
	for _, b := range blocks {
		for idx, code := range b.FillGoto {
			if _, ok := merged[idx]; !ok {
				merged[idx] = code
				indices = append(indices, idx)
			}
		}
	}
	if len(indices) == 0 {
		return &EmptyDirectiveTargetError{Directive: n.Placeholder.DirectiveName}
	}
	sort.Ints(indices)

	var cases []jen.Code
	cases = append(cases, jen.Case(jen.Lit(-1)).Block(jen.Goto().Id("yyStart")))
	for _, idx := range indices {
		cases = append(cases, jen.Case(jen.Lit(idx)).Block(leaf(merged[idx])))
	}
	*n = arena.Code{Kind: arena.KindRaw, Raw: jen.Switch(jen.Id("YYGETSTATE").Call()).Block(cases...)}
	return nil
}

func leaf(c *arena.Code) jen.Code {
	if c == nil {
		return jen.Empty()
	}
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
