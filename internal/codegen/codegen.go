// Package codegen lowers a checked AST to source text for one of the
// registered target languages. A single dispatch walks the tree by node
// kind; everything target-specific lives behind the Emitter interface, so
// adding a backend never touches the walk.
package codegen

import (
	"github.com/prose-lang/prose/internal/ast"
	"github.com/prose-lang/prose/internal/diag"
	"github.com/prose-lang/prose/internal/sema"
)

// Emitter renders target-language text for each node kind. Statement
// methods write through g.W(); expression methods return the rendered
// fragment so emitters can compose operands freely.
type Emitter interface {
	// Name is the backend's registry key, e.g. "python".
	Name() string
	// Ext is the file extension for generated sources, without the dot.
	Ext() string

	Begin(g *Gen, imports []string) error
	End(g *Gen) error
	// BeginMain and EndMain bracket the file's top-level statements.
	BeginMain(g *Gen) error
	EndMain(g *Gen) error
	// GlobalDecl is called during the definitions pass for every top-level
	// variable declaration, before BeginMain. Targets whose main block opens
	// a new scope hoist the declaration here; the initializer still runs in
	// source order inside main (see Gen.IsGlobal).
	GlobalDecl(g *Gen, s *ast.VariableDecl) error

	FunctionDef(g *Gen, s *ast.FunctionDef) error
	ClassDef(g *Gen, s *ast.ClassDef) error
	VariableDecl(g *Gen, s *ast.VariableDecl) error
	Assignment(g *Gen, s *ast.Assignment) error
	If(g *Gen, s *ast.If) error
	While(g *Gen, s *ast.While) error
	ForEach(g *Gen, s *ast.ForEach) error
	Return(g *Gen, s *ast.Return) error
	ExprStmt(g *Gen, s *ast.ExprStmt) error

	Ident(g *Gen, e *ast.Ident) (string, error)
	NumberLit(g *Gen, e *ast.NumberLit) (string, error)
	StringLit(g *Gen, e *ast.StringLit) (string, error)
	BoolLit(g *Gen, e *ast.BoolLit) (string, error)
	ListLit(g *Gen, e *ast.ListLit) (string, error)
	ObjectLit(g *Gen, e *ast.ObjectLit) (string, error)
	UnaryOp(g *Gen, e *ast.UnaryOp) (string, error)
	BinaryOp(g *Gen, e *ast.BinaryOp) (string, error)
	Call(g *Gen, e *ast.Call) (string, error)
	Member(g *Gen, e *ast.Member) (string, error)
	Index(g *Gen, e *ast.Index) (string, error)
}

// Gen drives one backend over one file.
type Gen struct {
	em      Emitter
	w       *Writer
	info    *sema.Info
	globals map[*ast.VariableDecl]bool
}

// W returns the output writer.
func (g *Gen) W() *Writer { return g.w }

// Info returns the semantic results for the file being generated.
func (g *Gen) Info() *sema.Info { return g.info }

// IsGlobal reports whether the declaration appeared at the top level of the
// file, so its GlobalDecl hook has already run.
func (g *Gen) IsGlobal(s *ast.VariableDecl) bool { return g.globals[s] }

// TypeOf returns the checked type of an expression, or Unknown when the
// analyzer recorded nothing for it.
func (g *Gen) TypeOf(e ast.Expr) sema.Type {
	if g.info != nil {
		if t, ok := g.info.Types[e]; ok && t != nil {
			return t
		}
	}
	return sema.TypeUnknown
}

func (g *Gen) internalf(span diag.Span, format string, args ...any) error {
	d := diag.Errorf(diag.StageCodegen, diag.CodeGenInternal, span, format, args...)
	return &Error{Diagnostic: d}
}

// Error wraps a codegen diagnostic so failures abort only the backend that
// hit them.
type Error struct {
	Diagnostic diag.Diagnostic
}

func (e *Error) Error() string {
	return e.Diagnostic.Message
}

// Generate renders file for the named backend. Generation assumes the file
// is free of parse and semantic errors; placeholders left by recovery abort
// with an internal error.
func Generate(backend string, file *ast.File, info *sema.Info) (string, error) {
	em, err := NewEmitter(backend)
	if err != nil {
		return "", err
	}
	return run(em, file, info)
}

func run(em Emitter, file *ast.File, info *sema.Info) (string, error) {
	g := &Gen{
		em:      em,
		w:       NewWriter(defaultIndent(em)),
		info:    info,
		globals: make(map[*ast.VariableDecl]bool),
	}

	var imports []string
	if info != nil {
		imports = info.Imports
	}

	if err := em.Begin(g, imports); err != nil {
		return "", err
	}

	// Definitions first, then the file's script body in source order.
	// Top-level variable declarations are both: the declaration is offered
	// to the emitter up front, the initializer runs in the body.
	var body []ast.Stmt
	for _, stmt := range file.Stmts {
		switch s := stmt.(type) {
		case *ast.FunctionDef, *ast.ClassDef, *ast.Import:
			if err := g.Stmt(stmt); err != nil {
				return "", err
			}
		case *ast.VariableDecl:
			g.globals[s] = true
			if err := em.GlobalDecl(g, s); err != nil {
				return "", err
			}
			body = append(body, stmt)
		default:
			body = append(body, stmt)
		}
	}

	if err := em.BeginMain(g); err != nil {
		return "", err
	}
	for _, stmt := range body {
		if err := g.Stmt(stmt); err != nil {
			return "", err
		}
	}
	if err := em.EndMain(g); err != nil {
		return "", err
	}

	if err := em.End(g); err != nil {
		return "", err
	}

	return g.w.String(), nil
}

func defaultIndent(em Emitter) string {
	if em.Ext() == "go" {
		return "\t"
	}
	return "    "
}

// Stmt dispatches one statement to the emitter by node kind.
func (g *Gen) Stmt(stmt ast.Stmt) error {
	switch s := stmt.(type) {
	case *ast.FunctionDef:
		return g.em.FunctionDef(g, s)
	case *ast.ClassDef:
		return g.em.ClassDef(g, s)
	case *ast.VariableDecl:
		return g.em.VariableDecl(g, s)
	case *ast.Assignment:
		return g.em.Assignment(g, s)
	case *ast.If:
		return g.em.If(g, s)
	case *ast.While:
		return g.em.While(g, s)
	case *ast.ForEach:
		return g.em.ForEach(g, s)
	case *ast.Return:
		return g.em.Return(g, s)
	case *ast.Import:
		// Imports are rendered by Begin.
		return nil
	case *ast.ExprStmt:
		return g.em.ExprStmt(g, s)
	default:
		return g.internalf(toDiagSpan(stmt), "cannot generate code for %T", stmt)
	}
}

// Block emits every statement of a block.
func (g *Gen) Block(block *ast.Block) error {
	if block == nil {
		return nil
	}
	for _, stmt := range block.Stmts {
		if err := g.Stmt(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Expr dispatches one expression to the emitter by node kind.
func (g *Gen) Expr(expr ast.Expr) (string, error) {
	switch e := expr.(type) {
	case *ast.Ident:
		return g.em.Ident(g, e)
	case *ast.NumberLit:
		return g.em.NumberLit(g, e)
	case *ast.StringLit:
		return g.em.StringLit(g, e)
	case *ast.BoolLit:
		return g.em.BoolLit(g, e)
	case *ast.ListLit:
		return g.em.ListLit(g, e)
	case *ast.ObjectLit:
		return g.em.ObjectLit(g, e)
	case *ast.UnaryOp:
		return g.em.UnaryOp(g, e)
	case *ast.BinaryOp:
		return g.em.BinaryOp(g, e)
	case *ast.Call:
		return g.em.Call(g, e)
	case *ast.Member:
		return g.em.Member(g, e)
	case *ast.Index:
		return g.em.Index(g, e)
	default:
		return "", g.internalf(toDiagSpan(expr), "cannot generate code for %T", expr)
	}
}

func toDiagSpan(n ast.Node) diag.Span {
	span := n.Span()
	return diag.Span{
		Filename: span.Filename,
		Line:     span.Line,
		Column:   span.Column,
		Start:    span.Start,
		End:      span.End,
	}
}
