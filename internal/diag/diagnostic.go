package diag

import "fmt"

// Stage identifies which compiler phase produced the diagnostic.
type Stage string

const (
	StageLexer   Stage = "lexer"
	StageParser  Stage = "parser"
	StageSema    Stage = "sema"
	StageCodegen Stage = "codegen"
	StageDriver  Stage = "driver"
)

// Severity captures how impactful the diagnostic is.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Code is a stable identifier for a diagnostic.
type Code string

const (
	// Lexer errors
	CodeLexUnterminatedString Code = "LEX_UNTERMINATED_STRING"
	CodeLexBadIndent          Code = "LEX_BAD_INDENT"
	CodeLexIllegalRune        Code = "LEX_ILLEGAL_RUNE"

	// Parser errors
	CodeParseUnexpectedToken Code = "PARSE_UNEXPECTED_TOKEN"

	// Semantic errors
	CodeSemaUndefinedName    Code = "SEMA_UNDEFINED_NAME"
	CodeSemaRedeclared       Code = "SEMA_REDECLARED"
	CodeSemaShadowed         Code = "SEMA_SHADOWED"
	CodeSemaTypeMismatch     Code = "SEMA_TYPE_MISMATCH"
	CodeSemaArgumentMismatch Code = "SEMA_ARGUMENT_MISMATCH"
	CodeSemaUnknownLibrary   Code = "SEMA_UNKNOWN_LIBRARY"
	CodeSemaNotCallable      Code = "SEMA_NOT_CALLABLE"
	CodeSemaNotAssignable    Code = "SEMA_NOT_ASSIGNABLE"

	// Generation errors
	CodeGenUnsupportedBackend Code = "GEN_UNSUPPORTED_BACKEND"
	CodeGenInternal           Code = "GEN_INTERNAL"
)

// Span represents a location in source code.
type Span struct {
	Filename string
	Line     int
	Column   int
	Start    int
	End      int
}

// String returns a human-readable representation of the span.
func (s Span) String() string {
	if s.Filename != "" {
		return fmt.Sprintf("%s:%d:%d", s.Filename, s.Line, s.Column)
	}
	return fmt.Sprintf("%d:%d", s.Line, s.Column)
}

// IsValid returns true if the span has valid location information.
func (s Span) IsValid() bool {
	return s.Line > 0 && s.Column > 0
}

// Diagnostic is a compiler diagnostic surfaced to end-users.
type Diagnostic struct {
	Stage      Stage
	Severity   Severity
	Code       Code
	Message    string
	Span       Span
	Suggestion string   // Optional suggestion for fixing the error
	Notes      []string // Additional notes to display
}

// WithSuggestion returns a new diagnostic with the given suggestion.
func (d Diagnostic) WithSuggestion(suggestion string) Diagnostic {
	d.Suggestion = suggestion
	return d
}

// WithNote adds a note to the diagnostic.
func (d Diagnostic) WithNote(note string) Diagnostic {
	d.Notes = append(d.Notes, note)
	return d
}

// Errorf builds an error-severity diagnostic.
func Errorf(stage Stage, code Code, span Span, format string, args ...any) Diagnostic {
	return Diagnostic{
		Stage:    stage,
		Severity: SeverityError,
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		Span:     span,
	}
}

// Warnf builds a warning-severity diagnostic.
func Warnf(stage Stage, code Code, span Span, format string, args ...any) Diagnostic {
	return Diagnostic{
		Stage:    stage,
		Severity: SeverityWarning,
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		Span:     span,
	}
}

// List is an ordered, append-only accumulator of diagnostics shared by every
// compiler phase. The zero value is ready to use.
type List struct {
	items []Diagnostic
}

// Add appends diagnostics to the list, preserving order.
func (l *List) Add(ds ...Diagnostic) {
	l.items = append(l.items, ds...)
}

// Len returns the number of accumulated diagnostics.
func (l *List) Len() int { return len(l.items) }

// All returns the accumulated diagnostics in insertion order.
func (l *List) All() []Diagnostic { return l.items }

// Since returns the diagnostics appended after the first n entries. Used by
// interactive sessions to separate one entry's diagnostics from the shared
// history.
func (l *List) Since(n int) []Diagnostic {
	if n >= len(l.items) {
		return nil
	}
	return l.items[n:]
}

// HasErrors reports whether any accumulated diagnostic has error severity.
func (l *List) HasErrors() bool {
	for _, d := range l.items {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

// ErrorCount returns the number of error-severity diagnostics.
func (l *List) ErrorCount() int {
	n := 0
	for _, d := range l.items {
		if d.Severity == SeverityError {
			n++
		}
	}
	return n
}
