package codegen

import (
	"strconv"
	"strings"

	"github.com/prose-lang/prose/internal/ast"
	"github.com/prose-lang/prose/internal/lexer"
)

func init() {
	Register("python", func() Emitter { return &pythonEmitter{} })
}

// pythonEmitter targets CPython 3. Library imports resolve against the
// prose_runtime package; everything else lowers to plain Python.
type pythonEmitter struct{}

func (*pythonEmitter) Name() string { return "python" }
func (*pythonEmitter) Ext() string  { return "py" }

func (*pythonEmitter) Begin(g *Gen, imports []string) error {
	w := g.W()
	w.Line("# Code generated by the Prose compiler. Do not edit.")
	for _, name := range imports {
		w.Linef("from prose_runtime.%s import *", name)
	}
	w.Line("")
	return nil
}

func (*pythonEmitter) End(*Gen) error       { return nil }
func (*pythonEmitter) BeginMain(*Gen) error { return nil }
func (*pythonEmitter) EndMain(*Gen) error   { return nil }

// Top-level statements already run at module scope.
func (*pythonEmitter) GlobalDecl(*Gen, *ast.VariableDecl) error { return nil }

func (e *pythonEmitter) block(g *Gen, block *ast.Block) error {
	g.W().Indent()
	defer g.W().Dedent()
	if block == nil || len(block.Stmts) == 0 {
		g.W().Line("pass")
		return nil
	}
	return g.Block(block)
}

func (e *pythonEmitter) FunctionDef(g *Gen, s *ast.FunctionDef) error {
	g.W().Linef("def %s(%s):", s.Name.Name, paramNames(s.Params))
	if err := e.block(g, s.Body); err != nil {
		return err
	}
	g.W().Line("")
	return nil
}

func (e *pythonEmitter) ClassDef(g *Gen, s *ast.ClassDef) error {
	w := g.W()
	w.Linef("class %s:", s.Name.Name)
	w.Indent()

	if s.Ctor == nil && len(s.Methods) == 0 {
		w.Line("pass")
		w.Dedent()
		w.Line("")
		return nil
	}

	if s.Ctor != nil {
		params := paramNames(s.Ctor.Params)
		if params != "" {
			params = ", " + params
		}
		w.Linef("def __init__(self%s):", params)
		if err := e.block(g, s.Ctor.Body); err != nil {
			return err
		}
	}

	for _, method := range s.Methods {
		params := paramNames(method.Params)
		if params != "" {
			params = ", " + params
		}
		w.Linef("def %s(self%s):", method.Name.Name, params)
		if err := e.block(g, method.Body); err != nil {
			return err
		}
	}

	w.Dedent()
	w.Line("")
	return nil
}

func (*pythonEmitter) VariableDecl(g *Gen, s *ast.VariableDecl) error {
	value := "None"
	if s.Value != nil {
		var err error
		value, err = g.Expr(s.Value)
		if err != nil {
			return err
		}
	}
	g.W().Linef("%s = %s", s.Name.Name, value)
	return nil
}

func (*pythonEmitter) Assignment(g *Gen, s *ast.Assignment) error {
	target, err := g.Expr(s.Target)
	if err != nil {
		return err
	}
	value, err := g.Expr(s.Value)
	if err != nil {
		return err
	}
	g.W().Linef("%s = %s", target, value)
	return nil
}

func (e *pythonEmitter) If(g *Gen, s *ast.If) error {
	cond, err := g.Expr(s.Cond)
	if err != nil {
		return err
	}
	g.W().Linef("if %s:", cond)
	if err := e.block(g, s.Then); err != nil {
		return err
	}

	for _, arm := range s.ElseIfs {
		armCond, err := g.Expr(arm.Cond)
		if err != nil {
			return err
		}
		g.W().Linef("elif %s:", armCond)
		if err := e.block(g, arm.Body); err != nil {
			return err
		}
	}

	if s.Else != nil {
		g.W().Line("else:")
		if err := e.block(g, s.Else); err != nil {
			return err
		}
	}
	return nil
}

func (e *pythonEmitter) While(g *Gen, s *ast.While) error {
	cond, err := g.Expr(s.Cond)
	if err != nil {
		return err
	}
	g.W().Linef("while %s:", cond)
	return e.block(g, s.Body)
}

func (e *pythonEmitter) ForEach(g *Gen, s *ast.ForEach) error {
	seq, err := g.Expr(s.Seq)
	if err != nil {
		return err
	}
	g.W().Linef("for %s in %s:", s.Iter.Name, seq)
	return e.block(g, s.Body)
}

func (*pythonEmitter) Return(g *Gen, s *ast.Return) error {
	if s.Value == nil {
		g.W().Line("return")
		return nil
	}
	value, err := g.Expr(s.Value)
	if err != nil {
		return err
	}
	g.W().Linef("return %s", value)
	return nil
}

func (*pythonEmitter) ExprStmt(g *Gen, s *ast.ExprStmt) error {
	expr, err := g.Expr(s.Expr)
	if err != nil {
		return err
	}
	g.W().Line(expr)
	return nil
}

func (*pythonEmitter) Ident(g *Gen, e *ast.Ident) (string, error) {
	if e.Name == "this" {
		return "self", nil
	}
	return e.Name, nil
}

func (*pythonEmitter) NumberLit(g *Gen, e *ast.NumberLit) (string, error) {
	return e.Text, nil
}

func (*pythonEmitter) StringLit(g *Gen, e *ast.StringLit) (string, error) {
	return strconv.Quote(e.Value), nil
}

func (*pythonEmitter) BoolLit(g *Gen, e *ast.BoolLit) (string, error) {
	if e.Value {
		return "True", nil
	}
	return "False", nil
}

func (*pythonEmitter) ListLit(g *Gen, e *ast.ListLit) (string, error) {
	elems, err := exprList(g, e.Elems)
	if err != nil {
		return "", err
	}
	return "[" + elems + "]", nil
}

func (*pythonEmitter) ObjectLit(g *Gen, e *ast.ObjectLit) (string, error) {
	parts := make([]string, len(e.Fields))
	for i, field := range e.Fields {
		value, err := g.Expr(field.Value)
		if err != nil {
			return "", err
		}
		parts[i] = strconv.Quote(field.Key.Name) + ": " + value
	}
	return "{" + strings.Join(parts, ", ") + "}", nil
}

func (*pythonEmitter) UnaryOp(g *Gen, e *ast.UnaryOp) (string, error) {
	inner, err := operand(g, e.Expr)
	if err != nil {
		return "", err
	}
	if e.Op == lexer.NOT {
		return "not " + inner, nil
	}
	return string(e.Op) + inner, nil
}

func (*pythonEmitter) BinaryOp(g *Gen, e *ast.BinaryOp) (string, error) {
	left, err := operand(g, e.Left)
	if err != nil {
		return "", err
	}
	right, err := operand(g, e.Right)
	if err != nil {
		return "", err
	}

	op := string(e.Op)
	switch e.Op {
	case lexer.AND:
		op = "and"
	case lexer.OR:
		op = "or"
	}
	return left + " " + op + " " + right, nil
}

func (*pythonEmitter) Call(g *Gen, e *ast.Call) (string, error) {
	callee, err := g.Expr(e.Callee)
	if err != nil {
		return "", err
	}
	args, err := exprList(g, e.Args)
	if err != nil {
		return "", err
	}
	return callee + "(" + args + ")", nil
}

func (*pythonEmitter) Member(g *Gen, e *ast.Member) (string, error) {
	target, err := operand(g, e.Target)
	if err != nil {
		return "", err
	}
	return target + "." + e.Field.Name, nil
}

func (*pythonEmitter) Index(g *Gen, e *ast.Index) (string, error) {
	target, err := operand(g, e.Target)
	if err != nil {
		return "", err
	}
	key, err := g.Expr(e.Key)
	if err != nil {
		return "", err
	}
	return target + "[" + key + "]", nil
}
