// Package driver sequences the compiler phases: tokenize, parse, analyze,
// generate. It owns the state machine the command-line front end and the
// interactive session both run on.
package driver

import (
	"errors"
	"fmt"

	"github.com/prose-lang/prose/internal/ast"
	"github.com/prose-lang/prose/internal/catalogue"
	"github.com/prose-lang/prose/internal/codegen"
	"github.com/prose-lang/prose/internal/diag"
	"github.com/prose-lang/prose/internal/parser"
	"github.com/prose-lang/prose/internal/sema"
)

// State is one stop of the compilation state machine.
type State int

const (
	StateInit State = iota
	StateTokenizing
	StateParsing
	StateAnalyzing
	StateGenerating
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateInit:
		return "init"
	case StateTokenizing:
		return "tokenizing"
	case StateParsing:
		return "parsing"
	case StateAnalyzing:
		return "analyzing"
	case StateGenerating:
		return "generating"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Result is the outcome of one compilation.
type Result struct {
	// State is the final state: StateDone or StateFailed.
	State State
	// Trace lists every state visited, in order.
	Trace []State
	// Diagnostics holds everything reported by any phase, in phase order.
	Diagnostics []diag.Diagnostic
	// Outputs maps backend name to generated source, one entry per backend
	// that succeeded.
	Outputs map[string]string
	// File and Info expose the parsed tree and analysis results.
	File *ast.File
	Info *sema.Info
}

// HasErrors reports whether any diagnostic is an error.
func (r *Result) HasErrors() bool {
	for _, d := range r.Diagnostics {
		if d.Severity == diag.SeverityError {
			return true
		}
	}
	return false
}

// Pipeline compiles sources for a fixed set of backends.
type Pipeline struct {
	cat      catalogue.Catalogue
	backends []string
}

// NewPipeline validates the backend names up front so a typo fails at
// configuration time, not on the first compile.
func NewPipeline(cat catalogue.Catalogue, backends []string) (*Pipeline, error) {
	if cat == nil {
		return nil, errors.New("driver: catalogue is required")
	}
	if len(backends) == 0 {
		return nil, errors.New("driver: at least one backend is required")
	}
	for _, name := range backends {
		if _, err := codegen.NewEmitter(name); err != nil {
			return nil, err
		}
	}
	return &Pipeline{cat: cat, backends: backends}, nil
}

// Backends returns the configured backend names.
func (p *Pipeline) Backends() []string {
	return p.backends
}

// Compile runs the full state machine over one source file. Lexical, parse
// and semantic diagnostics are all collected before the driver decides
// whether to generate, so a broken file reports everything it can in one
// run. Any error diagnostic fails the compilation and skips generation.
func (p *Pipeline) Compile(filename, source string) *Result {
	res := &Result{
		Trace:   []State{StateInit},
		Outputs: make(map[string]string),
	}
	step := func(s State) {
		res.Trace = append(res.Trace, s)
		res.State = s
	}

	step(StateTokenizing)
	step(StateParsing)
	ps := parser.New(source, parser.WithFilename(filename))
	res.File = ps.ParseFile()
	for _, lexErr := range ps.LexErrors() {
		res.Diagnostics = append(res.Diagnostics, lexErr.ToDiagnostic())
	}
	for _, parseErr := range ps.Errors() {
		res.Diagnostics = append(res.Diagnostics, parseErr.ToDiagnostic())
	}

	// Recovery leaves placeholders behind, so analysis still runs over a
	// broken file and surfaces its own findings alongside the parse errors.
	step(StateAnalyzing)
	analyzer := sema.New(p.cat)
	info, semaDiags := analyzer.Check(res.File)
	res.Info = info
	res.Diagnostics = append(res.Diagnostics, semaDiags...)

	if res.HasErrors() {
		step(StateFailed)
		return res
	}

	step(StateGenerating)
	for _, backend := range p.backends {
		out, err := codegen.Generate(backend, res.File, res.Info)
		if err != nil {
			var genErr *codegen.Error
			if errors.As(err, &genErr) {
				res.Diagnostics = append(res.Diagnostics, genErr.Diagnostic)
			} else {
				res.Diagnostics = append(res.Diagnostics, diag.Errorf(diag.StageDriver, diag.CodeGenInternal, diag.Span{}, "backend %s: %v", backend, err))
			}
			continue
		}
		res.Outputs[backend] = out
	}

	if len(res.Outputs) == 0 {
		step(StateFailed)
		return res
	}
	step(StateDone)
	return res
}
