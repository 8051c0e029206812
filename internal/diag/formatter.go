package diag

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Formatter renders diagnostics with source code snippets and underlines.
type Formatter struct {
	out         io.Writer
	sourceCache map[string]string // source text by filename

	errStyle  lipgloss.Style
	warnStyle lipgloss.Style
	posStyle  lipgloss.Style
	gutter    lipgloss.Style
}

// NewFormatter creates a formatter writing to out.
func NewFormatter(out io.Writer) *Formatter {
	return &Formatter{
		out:         out,
		sourceCache: make(map[string]string),
		errStyle:    lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		warnStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),
		posStyle:    lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		gutter:      lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	}
}

// AddSource registers source text so snippets can be rendered for spans that
// reference filename. The pipeline works on in-memory source, so the caller
// provides it rather than the formatter reading files.
func (f *Formatter) AddSource(filename, src string) {
	f.sourceCache[filename] = src
}

// FormatAll renders every diagnostic in order.
func (f *Formatter) FormatAll(ds []Diagnostic) {
	for _, d := range ds {
		f.Format(d)
	}
}

// Format renders a single diagnostic.
func (f *Formatter) Format(d Diagnostic) {
	f.printHeader(d)

	src, ok := f.sourceCache[d.Span.Filename]
	if ok && d.Span.IsValid() {
		f.printSnippet(src, d.Span)
	} else if d.Span.IsValid() {
		fmt.Fprintf(f.out, "  %s %s\n", f.gutter.Render("-->"), f.posStyle.Render(d.Span.String()))
	}

	for _, note := range d.Notes {
		fmt.Fprintf(f.out, "  = note: %s\n", note)
	}
	if d.Suggestion != "" {
		fmt.Fprintf(f.out, "help: %s\n", d.Suggestion)
	}
	fmt.Fprintln(f.out)
}

func (f *Formatter) printHeader(d Diagnostic) {
	style := f.errStyle
	if d.Severity == SeverityWarning {
		style = f.warnStyle
	}
	severity := string(d.Severity)
	if d.Code != "" {
		fmt.Fprintf(f.out, "%s: %s\n", style.Render(fmt.Sprintf("%s[%s]", severity, d.Code)), d.Message)
	} else {
		fmt.Fprintf(f.out, "%s: %s\n", style.Render(severity), d.Message)
	}
}

func (f *Formatter) printSnippet(src string, span Span) {
	lines := strings.Split(src, "\n")
	if span.Line < 1 || span.Line > len(lines) {
		return
	}
	lineContent := lines[span.Line-1]
	lineNum := fmt.Sprintf("%d", span.Line)
	pad := strings.Repeat(" ", len(lineNum))

	fmt.Fprintf(f.out, "  %s %s\n", f.gutter.Render("-->"), f.posStyle.Render(span.String()))
	fmt.Fprintf(f.out, " %s %s\n", pad, f.gutter.Render("|"))
	fmt.Fprintf(f.out, " %s %s %s\n", f.posStyle.Render(lineNum), f.gutter.Render("|"), lineContent)

	width := span.End - span.Start
	if width < 1 {
		width = 1
	}
	if span.Column-1+width > len(lineContent) {
		width = max(1, len(lineContent)-(span.Column-1))
	}
	underline := strings.Repeat(" ", max(0, span.Column-1)) + strings.Repeat("^", width)
	fmt.Fprintf(f.out, " %s %s %s\n", pad, f.gutter.Render("|"), f.errStyle.Render(underline))
}
