package driver

import (
	"fmt"

	"github.com/prose-lang/prose/internal/catalogue"
	"github.com/prose-lang/prose/internal/codegen"
	"github.com/prose-lang/prose/internal/diag"
	"github.com/prose-lang/prose/internal/parser"
	"github.com/prose-lang/prose/internal/sema"
)

// Session is an interactive compilation loop. The module scope persists
// across entries, so a function defined in one entry is callable from the
// next, and the diagnostics history accumulates across the whole session.
type Session struct {
	backend  string
	analyzer *sema.Analyzer
	history  diag.List
	entries  int
}

// EvalResult is the outcome of one session entry.
type EvalResult struct {
	// Diagnostics holds only this entry's findings.
	Diagnostics []diag.Diagnostic
	// Output is the generated source for the session backend, empty when
	// the entry had errors.
	Output string
}

// HasErrors reports whether this entry produced any error.
func (r *EvalResult) HasErrors() bool {
	for _, d := range r.Diagnostics {
		if d.Severity == diag.SeverityError {
			return true
		}
	}
	return false
}

// NewSession starts a session generating code for the named backend.
func NewSession(cat catalogue.Catalogue, backend string) (*Session, error) {
	if _, err := codegen.NewEmitter(backend); err != nil {
		return nil, err
	}
	return &Session{
		backend:  backend,
		analyzer: sema.New(cat),
	}, nil
}

// Backend returns the session's target backend.
func (s *Session) Backend() string { return s.backend }

// History returns every diagnostic reported since the session started.
func (s *Session) History() []diag.Diagnostic {
	return s.history.All()
}

// Eval compiles one entry against the persistent session scope.
func (s *Session) Eval(input string) *EvalResult {
	s.entries++
	filename := fmt.Sprintf("<session:%d>", s.entries)
	mark := s.history.Len()

	ps := parser.New(input, parser.WithFilename(filename))
	file := ps.ParseFile()
	for _, lexErr := range ps.LexErrors() {
		s.history.Add(lexErr.ToDiagnostic())
	}
	for _, parseErr := range ps.Errors() {
		s.history.Add(parseErr.ToDiagnostic())
	}

	info, semaDiags := s.analyzer.Check(file)
	s.history.Add(semaDiags...)

	res := &EvalResult{Diagnostics: s.history.Since(mark)}
	if res.HasErrors() {
		return res
	}

	out, err := codegen.Generate(s.backend, file, info)
	if err != nil {
		if genErr, ok := err.(*codegen.Error); ok {
			s.history.Add(genErr.Diagnostic)
		} else {
			s.history.Add(diag.Errorf(diag.StageDriver, diag.CodeGenInternal, diag.Span{}, "backend %s: %v", s.backend, err))
		}
		res.Diagnostics = s.history.Since(mark)
		return res
	}

	res.Output = out
	return res
}
