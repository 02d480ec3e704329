// Package codegen provides small naming and casing helpers shared by the
// emitter packages. It carries no DFA or Code-tree state of its own.
package codegen

import "fmt"

// Default identifier names, matching the defaults options.NewOptions sets
// in options.Options' Var* fields. Nothing substitutes these when an
// option is left empty.
const (
	DefaultVarChar        = "yych"
	DefaultVarAccept      = "yyaccept"
	DefaultVarState       = "yystate"
	DefaultVarCond        = "yycond"
	DefaultVarBitmaps     = "yybm"
	DefaultLabelPrefix    = "yy"
	DefaultCondLabelPrefix = "yyc_"
	DefaultTagsPrefix     = "yyt"
	DefaultStepSelectName = "YYGETSTATE_STEP"
)

// StateLabelName returns the label/function name for DFA state index i,
// e.g. "yy3".
func StateLabelName(prefix string, index uint32) string {
	return fmt.Sprintf("%s%d", prefix, index)
}

// CondFuncName returns the per-condition entry function name used in
// REC_FUNC mode, e.g. "yyc_INITIAL".
func CondFuncName(prefix, cond string) string {
	return prefix + cond
}

// LowerFirst converts the first character of a string to lowercase.
func LowerFirst(s string) string {
	if s == "" {
		return s
	}
	if c := s[0]; c >= 'A' && c <= 'Z' {
		return string(c|0x20) + s[1:]
	}
	return s
}

// UpperFirst converts the first character of a string to uppercase.
func UpperFirst(s string) string {
	if s == "" {
		return s
	}
	if c := s[0]; c >= 'a' && c <= 'z' {
		return string(c&^0x20) + s[1:]
	}
	return s
}
