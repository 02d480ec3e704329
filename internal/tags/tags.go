// Package tags implements TagEmitter (spec.md §4.1): translating
// tag-command sequences into code-tree fragments, and finalizing a rule's
// tags into user-visible names/captures when it fires.
package tags

import (
	"fmt"

	"github.com/dave/jennifer/jen"

	"github.com/gz83/lexgen/internal/arena"
	"github.com/gz83/lexgen/internal/dfa"
	"github.com/gz83/lexgen/internal/options"
	"github.com/gz83/lexgen/internal/scratch"
)

// Emitter is TagEmitter: stateless except for the scratch buffer it
// shares with the rest of the pass.
type Emitter struct {
	Opts *options.Options
	Buf  *scratch.Buffer
}

// New returns a tags.Emitter sharing buf and opts with the rest of the
// pass.
func New(opts *options.Options, buf *scratch.Buffer) *Emitter {
	return &Emitter{Opts: opts, Buf: buf}
}

// VarName returns a tag's mangled variable name, {prefix}[m]{ver}.
func (e *Emitter) VarName(t *dfa.Tag) string {
	m := ""
	if t.History {
		m = "m"
	}
	return fmt.Sprintf("%s%s%d", e.Opts.TagsPrefix, m, t.Ver)
}

// VarExpr returns the tag variable's rendered expression, applying the
// TagsExpression sigil template if one is configured.
func (e *Emitter) VarExpr(t *dfa.Tag) string {
	name := e.VarName(t)
	if e.Opts.TagsExpression == "" {
		return name
	}
	return scratch.ArgSubst(e.Opts.TagsExpression, e.Opts.APISigil, "tag", true, name)
}

// EmitSetTags implements gen_settags: emits the effects of one
// tag-command list rooted at cmds. Returns nil for an empty list.
func (e *Emitter) EmitSetTags(cmds *dfa.TagCommand) []*arena.Code {
	if cmds == nil {
		return nil
	}
	if e.Opts.UseCtxMarker {
		return []*arena.Code{e.emitCtxMarker()}
	}

	var out []*arena.Code
	var pendingNeg, pendingPos []*dfa.TagCommand

	flushDefaultSetGroup := func() {
		if len(pendingNeg) == 0 && len(pendingPos) == 0 {
			return
		}
		if len(pendingNeg) > 0 {
			out = append(out, e.emitSetGroup(pendingNeg, true))
			pendingNeg = nil
		}
		if len(pendingPos) > 0 {
			out = append(out, e.emitSetGroup(pendingPos, false))
			pendingPos = nil
		}
	}

	cmds.Walk(func(c *dfa.TagCommand) {
		switch c.Kind {
		case dfa.CmdCopy:
			flushDefaultSetGroup()
			out = append(out, e.emitCopy(c))
		case dfa.CmdAdd:
			flushDefaultSetGroup()
			out = append(out, e.emitAdd(c)...)
		case dfa.CmdSet:
			if e.Opts.API == options.APICustom {
				flushDefaultSetGroup()
				out = append(out, e.emitCustomSet(c))
				return
			}
			// DEFAULT API: batch adjacent Set commands, preserving
			// source order within each group; negatives emitted
			// before positives once the run of Set commands ends.
			if c.Negative {
				pendingNeg = append(pendingNeg, c)
			} else {
				pendingPos = append(pendingPos, c)
			}
		}
	})
	flushDefaultSetGroup()
	return out
}

func (e *Emitter) emitCtxMarker() *arena.Code {
	if e.Opts.APIStyle == options.StyleFreeform {
		return arena.RawCode(jen.Id("YYBACKUPCTX").Call())
	}
	return arena.RawCode(jen.Id("ctxmarker").Op("=").Id("cursor"))
}

func (e *Emitter) emitCopy(c *dfa.TagCommand) *arena.Code {
	lhs := e.VarExpr(c.Lhs)
	rhs := e.VarExpr(c.Rhs)
	return arena.RawCode(jen.Id(lhs).Op("=").Id(rhs))
}

// emitAdd implements the "add with history" primitive: an optional copy
// followed by, for each history entry in reverse (stopping at
// TagverZero), a YYMTAGP (positive) or YYMTAGN (negative) call.
func (e *Emitter) emitAdd(c *dfa.TagCommand) []*arena.Code {
	var out []*arena.Code
	if c.Rhs != nil {
		out = append(out, e.emitCopy(c))
	}
	name := e.VarName(c.Lhs)
	for i := len(c.History) - 1; i >= 0; i-- {
		v := c.History[i]
		if v == dfa.TagverZero {
			break
		}
		if v == dfa.TagverBottom {
			out = append(out, arena.RawCode(jen.Id("YYMTAGN").Call(jen.Id(name))))
		} else {
			out = append(out, arena.RawCode(jen.Id("YYMTAGP").Call(jen.Id(name))))
		}
	}
	return out
}

// emitCustomSet implements a CUSTOM-api Set command: one YY[SM]TAG[PN]
// call per command, chosen by whether the tag is a multi-tag (S vs M)
// and whether the write is negative (N) or positive (P).
func (e *Emitter) emitCustomSet(c *dfa.TagCommand) *arena.Code {
	fn := "YYSTAG"
	if c.Lhs.History {
		fn = "YYMTAG"
	}
	if c.Negative {
		fn += "N"
	} else {
		fn += "P"
	}
	return arena.RawCode(jen.Id(fn).Call(jen.Id(e.VarName(c.Lhs))))
}

// emitSetGroup implements the DEFAULT-api batched form: one assignment
// per command in the group, negatives writing null, positives writing
// the cursor, in source order.
func (e *Emitter) emitSetGroup(group []*dfa.TagCommand, negative bool) *arena.Code {
	var stmts []jen.Code
	rhs := "cursor"
	if negative {
		rhs = "nil"
	}
	for _, c := range group {
		stmts = append(stmts, jen.Id(e.VarName(c.Lhs)).Op("=").Id(rhs))
	}
	return arena.RawCode(jen.Null().Add(stmts...))
}

// EmitFinTags implements gen_fintags: finalizes tag variables into
// user-visible names/captures when rule fires, given the DFA's full tag
// pool; the rule's own tags are pool[rule.LTag:rule.HTag].
func (e *Emitter) EmitFinTags(rule *dfa.Rule, pool []*dfa.Tag) []*arena.Code {
	var out []*arena.Code

	if rule.NCap > 0 {
		out = append(out, arena.RawCode(jen.Id("yynmatch").Op("=").Lit(rule.NCap)))
	}

	var varOps, fixOps, trailOps, fixPost []*arena.Code
	var negtag *dfa.Tag

	lo, hi := rule.Tags()
	for i := lo; i < hi; i++ {
		if i >= len(pool) {
			break
		}
		t := pool[i]
		if t.Kind == dfa.TagFictive {
			continue
		}
		switch t.Kind {
		case dfa.TagVariable:
			varOps = append(varOps, e.emitAssignAll(t, e.VarExpr(t))...)
		case dfa.TagTrailing:
			trailOps = append(trailOps, e.emitRestoreCursor(t))
		case dfa.TagFixed:
			switch {
			case t.Dist == 0:
				fixOps = append(fixOps, e.emitAssignAll(t, e.baseExpr(t))...)
			case t.Toplevel:
				fixOps = append(fixOps, e.emitAssignAll(t, fmt.Sprintf("%s-%d", e.baseExpr(t), t.Dist))...)
			default:
				// Nested: assign base first, then a guarded
				// subtraction (or, under CUSTOM api, defer the
				// subtraction to fixpost against a chosen negtag
				// sentinel — the first nested base encountered).
				fixOps = append(fixOps, e.emitAssignAll(t, e.baseExpr(t))...)
				if e.Opts.API == options.APICustom {
					if negtag == nil {
						negtag = t.Base
					}
					fixPost = append(fixPost, e.emitGuardedSubtractCustom(t, negtag))
				} else {
					fixOps = append(fixOps, e.emitGuardedSubtractDefault(t))
				}
			}
		}
	}

	out = append(out, varOps...)
	out = append(out, fixOps...)
	out = append(out, trailOps...)

	if negtag != nil {
		fn := "YYSTAGN"
		if negtag.History {
			fn = "YYMTAGN"
		}
		out = append(out, arena.RawCode(jen.Id(fn).Call(jen.Id(e.VarName(negtag)))))
		out = append(out, fixPost...)
	}

	return out
}

func (e *Emitter) baseExpr(t *dfa.Tag) string {
	if t.Base == nil {
		return "cursor"
	}
	return e.VarExpr(t.Base)
}

// emitRestoreCursor restores the cursor from ctxmarker (old-style) or
// from the tag's own expression (versioned tags), the last step of
// gen_fintags per spec.md §4.1's ordering rationale.
func (e *Emitter) emitRestoreCursor(t *dfa.Tag) *arena.Code {
	if e.Opts.UseCtxMarker {
		return arena.RawCode(jen.Id("cursor").Op("=").Id("ctxmarker"))
	}
	return arena.RawCode(jen.Id("cursor").Op("=").Id(e.VarExpr(t)))
}

// emitAssignAll assigns valueExpr to every expansion of t: a capture tag
// maps to yypmatch[lo..hi step 2], a named tag to its own variable/field.
func (e *Emitter) emitAssignAll(t *dfa.Tag, valueExpr string) []*arena.Code {
	if t.Capture {
		var out []*arena.Code
		for i := t.CaptureLo; i < t.CaptureHi; i += 2 {
			out = append(out, arena.RawCode(
				jen.Id("yypmatch").Index(jen.Lit(i)).Op("=").Id(valueExpr),
			))
		}
		return out
	}
	return []*arena.Code{arena.RawCode(jen.Id(t.Name).Op("=").Id(valueExpr))}
}

// emitGuardedSubtractDefault emits the DEFAULT-api guarded nested-base
// subtraction: if base != nil, subtract dist from the first expansion
// then replicate it to the rest.
func (e *Emitter) emitGuardedSubtractDefault(t *dfa.Tag) *arena.Code {
	base := e.baseExpr(t)
	first := t.Name
	if t.Capture {
		first = fmt.Sprintf("yypmatch[%d]", t.CaptureLo)
	}
	then := []jen.Code{jen.Id(first).Op("-=").Lit(t.Dist)}
	if t.Capture {
		for i := t.CaptureLo + 2; i < t.CaptureHi; i += 2 {
			then = append(then, jen.Id(fmt.Sprintf("yypmatch[%d]", i)).Op("=").Id(first))
		}
	}
	return arena.RawCode(
		jen.If(jen.Id(base).Op("!=").Nil()).Block(then...),
	)
}

// emitGuardedSubtractCustom builds the CUSTOM-api fixpost entry: a
// deferred YYSHIFTSTAG(first, -dist) guarded by comparison against the
// chosen negtag sentinel, executed once after the negtag write.
func (e *Emitter) emitGuardedSubtractCustom(t *dfa.Tag, negtag *dfa.Tag) *arena.Code {
	first := t.Name
	if t.Capture {
		first = fmt.Sprintf("yypmatch[%d]", t.CaptureLo)
	}
	return arena.RawCode(
		jen.If(jen.Id(first).Op("!=").Id(e.VarName(negtag))).Block(
			jen.Id("YYSHIFTSTAG").Call(jen.Id(first), jen.Lit(-t.Dist)),
		),
	)
}
