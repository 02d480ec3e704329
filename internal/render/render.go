// Package render is the default implementation of the reference
// renderer spec.md §6 describes as a consumed-from-the-renderer
// collaborator: it lowers an immutable arena.Code tree into a
// *jen.File, the same accumulate-then-Save shape the teacher's
// Compiler uses for its own generated file (internal/compiler/compiler.go).
//
// The contract is opaque on purpose — a front end wiring its own
// formatter only needs to satisfy the same render_code_array_elem /
// render_code_type_yytarget / argsubst surface spec.md §6 names. This
// implementation exists so the rest of the module has something
// concrete to render against and test.
package render

import (
	"bytes"

	"github.com/dave/jennifer/jen"

	"github.com/gz83/lexgen/internal/arena"
	"github.com/gz83/lexgen/internal/dfa"
)

// Renderer accumulates lowered blocks into one *jen.File, mirroring the
// teacher's Compiler.file field.
type Renderer struct {
	file *jen.File
}

// New returns a Renderer for the given package name.
func New(pkg string) *Renderer {
	return &Renderer{file: jen.NewFile(pkg)}
}

// File returns the accumulated *jen.File.
func (r *Renderer) File() *jen.File {
	return r.file
}

// AddBlock lowers every top-level node of blk.Code and appends the
// resulting declarations to the file, in emission order.
func (r *Renderer) AddBlock(blk *dfa.OutputBlock) {
	for _, c := range blk.Code {
		r.addTopLevel(c)
	}
}

// addTopLevel appends one top-level Code node. KindFuncDef and
// KindRecFuncs become genuine Go declarations; everything else is
// wrapped into a fallback function so the file stays compilable even
// when a block produced only a bare statement list (e.g. a single
// GOTO_LABEL block with no wrapping func emitted upstream).
func (r *Renderer) addTopLevel(c *arena.Code) {
	switch c.Kind {
	case arena.KindFuncDef:
		r.file.Add(lowerFuncDef(c))
	case arena.KindRecFuncs:
		for _, fn := range c.Children {
			r.file.Add(lowerFuncDef(fn))
		}
	case arena.KindEmpty:
		// nothing to add
	default:
		r.file.Add(jen.Func().Id("yylex").Params().Block(statements(c)...))
	}
}

// Render renders the accumulated file as gofmt'd Go source.
func (r *Renderer) Render() (string, error) {
	var buf bytes.Buffer
	if err := r.file.Render(&buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func lowerFuncDef(c *arena.Code) *jen.Statement {
	stmt := jen.Func().Id(c.FuncName).Params(c.FuncParams...)
	if c.FuncResult != nil {
		stmt = stmt.Params(c.FuncResult)
	}
	return stmt.Block(statements(c.Body)...)
}

// statements flattens a Code subtree into the []jen.Code a jen.Block
// wants, descending through KindList/KindBlock wrappers without adding
// braces of their own (the enclosing construct already supplies them).
func statements(c *arena.Code) []jen.Code {
	if c == nil {
		return nil
	}
	switch c.Kind {
	case arena.KindList, arena.KindBlock:
		var out []jen.Code
		for _, ch := range c.Children {
			out = append(out, lower(ch))
		}
		return out
	default:
		return []jen.Code{lower(c)}
	}
}

// lower renders one Code node to a single jen.Code statement; this is
// the canonical, exhaustive version of the narrow leaf()/renderLeaf()
// escape hatches the emitter packages keep locally for their own
// inline jen.If/jen.Switch construction.
func lower(c *arena.Code) jen.Code {
	if c == nil {
		return jen.Empty()
	}
	switch c.Kind {
	case arena.KindEmpty:
		return jen.Empty()
	case arena.KindText:
		return jen.Comment(c.Text)
	case arena.KindRaw:
		return c.Raw
	case arena.KindGoto:
		return jen.Goto().Id(c.Text)
	case arena.KindLabel:
		return jen.Id(c.Text).Op(":")
	case arena.KindList, arena.KindBlock:
		return jen.Null().Add(statements(c)...)
	case arena.KindLoop:
		return jen.For().Block(statements(firstChild(c))...)
	case arena.KindIf:
		stmt := jen.If(c.Cond).Block(statements(c.Then)...)
		if c.Else != nil {
			stmt = stmt.Else().Block(statements(c.Else)...)
		}
		return stmt
	case arena.KindSwitch:
		var cases []jen.Code
		for _, cs := range c.Cases {
			cases = append(cases, lowerCase(cs))
		}
		if c.SwitchOn != nil {
			return jen.Switch(c.SwitchOn).Block(cases...)
		}
		return jen.Switch().Block(cases...)
	case arena.KindTailCall:
		return jen.Return(jen.Id(c.CallName).Call(c.CallArgs...))
	case arena.KindVarDecl:
		stmt := jen.Var().Id(c.VarName)
		if c.VarType != nil {
			stmt = stmt.Add(c.VarType)
		}
		if c.VarInit != nil {
			stmt = stmt.Op("=").Add(c.VarInit)
		}
		return stmt
	case arena.KindArray:
		return lowerArray(c)
	case arena.KindFuncDef:
		return lowerFuncDef(c)
	case arena.KindRecFuncs:
		var out []jen.Code
		for _, fn := range c.Children {
			out = append(out, lowerFuncDef(fn))
		}
		return jen.Null().Add(out...)
	default:
		return jen.Comment("lexgen: unrenderable Code kind")
	}
}

func lowerCase(c *arena.Code) jen.Code {
	body := statements(c.Body)
	if c.IsDefault {
		return jen.Default().Block(body...)
	}
	if c.CaseStr != "" {
		return jen.Case(jen.Lit(c.CaseStr)).Block(body...)
	}
	return jen.Case(jen.Lit(c.CaseNum)).Block(body...)
}

func lowerArray(c *arena.Code) jen.Code {
	elems := make([]jen.Code, len(c.ArrayElems))
	for i, e := range c.ArrayElems {
		elems[i] = jen.Op(e)
	}
	arrType := jen.Index().Int()
	if c.ArrayType != nil {
		arrType = jen.Index().Add(c.ArrayType)
	}
	return jen.Var().Id(c.ArrayName).Op("=").Add(arrType).Values(elems...)
}

func firstChild(c *arena.Code) *arena.Code {
	if len(c.Children) == 0 {
		return nil
	}
	return c.Children[0]
}
