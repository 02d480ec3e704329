// Package scratch implements the ScratchBuffer component (spec.md §2): a
// reusable text assembler for identifier/expression formatting, plus the
// named-sigil substitution rule the renderer's templates rely on
// (spec.md §6 argsubst contract).
package scratch

import (
	"fmt"
	"strconv"
	"strings"
)

// Buffer is a reusable string builder. Every formatting method returns
// the receiver so calls chain the way the original's Scratchbuf methods
// do (buf.str(...).cstr(...).flush()). Flush returns the accumulated text
// and resets the buffer, invalidating any string returned by a prior
// Flush per spec.md §5 ("the ScratchBuf's contents are invalidated on
// each flush").
type Buffer struct {
	b strings.Builder
}

// New returns an empty Buffer.
func New() *Buffer {
	return &Buffer{}
}

// Str appends s verbatim.
func (buf *Buffer) Str(s string) *Buffer {
	buf.b.WriteString(s)
	return buf
}

// Cstr appends a C-style string literal's contents verbatim (kept
// distinct from Str only to mirror the original's naming; Go has no
// separate "C string" representation to distinguish).
func (buf *Buffer) Cstr(s string) *Buffer {
	buf.b.WriteString(s)
	return buf
}

// U32 appends the decimal rendering of a uint32.
func (buf *Buffer) U32(v uint32) *Buffer {
	buf.b.WriteString(strconv.FormatUint(uint64(v), 10))
	return buf
}

// U64 appends the decimal rendering of a uint64.
func (buf *Buffer) U64(v uint64) *Buffer {
	buf.b.WriteString(strconv.FormatUint(v, 10))
	return buf
}

// Label appends a label's rendered index, e.g. "3" for label-prefix
// purposes; callers prepend the prefix separately via Str.
func (buf *Buffer) Label(index uint32) *Buffer {
	return buf.U32(index)
}

// Flush returns the accumulated text and resets the buffer.
func (buf *Buffer) Flush() string {
	s := buf.b.String()
	buf.b.Reset()
	return s
}

// PrintCharOrHex renders a rune either as a quoted character literal or
// as a hex literal, depending on asHex, matching print_char_or_hex's
// contract from the renderer interface (spec.md §6).
func PrintCharOrHex(r rune, asHex bool) string {
	if asHex {
		return PrintHex(uint32(r))
	}
	return strconv.QuoteRune(r)
}

// PrintHex renders v as a Go hex literal, e.g. "0x41".
func PrintHex(v uint32) string {
	return fmt.Sprintf("0x%X", v)
}

// PrintSpan renders a half-open character range [lb, ub) for diagnostics
// and comments, e.g. "[0x41-0x5B)".
func PrintSpan(lb, ub rune, asHex bool) string {
	return fmt.Sprintf("[%s-%s)", PrintCharOrHex(lb, asHex), PrintCharOrHex(ub, asHex))
}

// ArgSubst implements the named-sigil substitution rule from spec.md §6:
// replace every occurrence of sigil+name in template with value's string
// form. When allowUnnamed is true and the template contains no named
// occurrence of name, a single bare sigil is substituted instead.
// The template is not inspected for other names: under allowUnnamed a
// bare sigil is substituted even in a template that takes more than one
// argument.
func ArgSubst(template, sigil, name string, allowUnnamed bool, value string) string {
	named := sigil + name
	if strings.Contains(template, named) {
		return strings.ReplaceAll(template, named, value)
	}
	if allowUnnamed && strings.Contains(template, sigil) {
		return strings.Replace(template, sigil, value, 1)
	}
	return template
}
