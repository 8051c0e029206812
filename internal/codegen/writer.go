package codegen

import (
	"fmt"
	"strings"
)

// Writer accumulates indented lines of generated source.
type Writer struct {
	sb     strings.Builder
	unit   string
	indent int
}

// NewWriter returns a writer using unit as one indentation step.
func NewWriter(unit string) *Writer {
	return &Writer{unit: unit}
}

// Indent increases the indentation level.
func (w *Writer) Indent() { w.indent++ }

// Dedent decreases the indentation level.
func (w *Writer) Dedent() {
	if w.indent > 0 {
		w.indent--
	}
}

// Line writes one indented line.
func (w *Writer) Line(s string) {
	if s == "" {
		w.sb.WriteByte('\n')
		return
	}
	for i := 0; i < w.indent; i++ {
		w.sb.WriteString(w.unit)
	}
	w.sb.WriteString(s)
	w.sb.WriteByte('\n')
}

// Linef writes one indented formatted line.
func (w *Writer) Linef(format string, args ...any) {
	w.Line(fmt.Sprintf(format, args...))
}

// String returns everything written so far.
func (w *Writer) String() string {
	return w.sb.String()
}
