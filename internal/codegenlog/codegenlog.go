// Package codegenlog provides verbose diagnostic output for the codegen
// pass (pkg/lexgen logs per-block progress and the condition-order
// warning through it), the same bespoke enabled/io.Writer logger shape
// the teacher used for its own analysis logging (formerly
// internal/compiler/logger.go).
package codegenlog

import (
	"fmt"
	"io"
	"os"
)

// Logger gates formatted output behind an enabled flag.
type Logger struct {
	enabled bool
	out     io.Writer
}

// New returns a Logger writing to os.Stderr when enabled is true.
func New(enabled bool) *Logger {
	return &Logger{
		enabled: enabled,
		out:     os.Stderr,
	}
}

// SetOutput redirects the logger's output.
func (l *Logger) SetOutput(w io.Writer) {
	l.out = w
}

// Log prints a formatted message if the logger is enabled.
func (l *Logger) Log(format string, args ...interface{}) {
	if l.enabled {
		fmt.Fprintf(l.out, "[lexgen] "+format+"\n", args...)
	}
}

// Section prints a section header if the logger is enabled.
func (l *Logger) Section(name string) {
	if l.enabled {
		fmt.Fprintf(l.out, "\n[lexgen] === %s ===\n", name)
	}
}

// Enabled reports whether the logger is enabled.
func (l *Logger) Enabled() bool {
	return l.enabled
}
