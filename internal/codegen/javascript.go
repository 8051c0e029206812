package codegen

import (
	"strconv"
	"strings"

	"github.com/prose-lang/prose/internal/ast"
	"github.com/prose-lang/prose/internal/lexer"
)

func init() {
	Register("javascript", func() Emitter { return &jsEmitter{} })
}

// jsEmitter targets Node-flavoured JavaScript. Library imports land on
// globalThis so generated calls stay bare names, matching the other
// backends.
type jsEmitter struct{}

func (*jsEmitter) Name() string { return "javascript" }
func (*jsEmitter) Ext() string  { return "js" }

func (*jsEmitter) Begin(g *Gen, imports []string) error {
	w := g.W()
	w.Line("// Code generated by the Prose compiler. Do not edit.")
	w.Line("\"use strict\";")
	for _, name := range imports {
		w.Linef("Object.assign(globalThis, require(\"prose_runtime/%s\"));", name)
	}
	w.Line("")
	return nil
}

func (*jsEmitter) End(*Gen) error       { return nil }
func (*jsEmitter) BeginMain(*Gen) error { return nil }
func (*jsEmitter) EndMain(*Gen) error   { return nil }

// Top-level statements already run at module scope.
func (*jsEmitter) GlobalDecl(*Gen, *ast.VariableDecl) error { return nil }

func (e *jsEmitter) block(g *Gen, block *ast.Block) error {
	g.W().Indent()
	err := g.Block(block)
	g.W().Dedent()
	return err
}

func (e *jsEmitter) FunctionDef(g *Gen, s *ast.FunctionDef) error {
	g.W().Linef("function %s(%s) {", s.Name.Name, paramNames(s.Params))
	if err := e.block(g, s.Body); err != nil {
		return err
	}
	g.W().Line("}")
	g.W().Line("")
	return nil
}

func (e *jsEmitter) ClassDef(g *Gen, s *ast.ClassDef) error {
	w := g.W()
	w.Linef("class %s {", s.Name.Name)
	w.Indent()

	if s.Ctor != nil {
		w.Linef("constructor(%s) {", paramNames(s.Ctor.Params))
		if err := e.block(g, s.Ctor.Body); err != nil {
			return err
		}
		w.Line("}")
	}

	for _, method := range s.Methods {
		w.Linef("%s(%s) {", method.Name.Name, paramNames(method.Params))
		if err := e.block(g, method.Body); err != nil {
			return err
		}
		w.Line("}")
	}

	w.Dedent()
	w.Line("}")
	w.Line("")
	return nil
}

func (*jsEmitter) VariableDecl(g *Gen, s *ast.VariableDecl) error {
	if s.Value == nil {
		g.W().Linef("let %s;", s.Name.Name)
		return nil
	}
	value, err := g.Expr(s.Value)
	if err != nil {
		return err
	}
	g.W().Linef("let %s = %s;", s.Name.Name, value)
	return nil
}

func (*jsEmitter) Assignment(g *Gen, s *ast.Assignment) error {
	target, err := g.Expr(s.Target)
	if err != nil {
		return err
	}
	value, err := g.Expr(s.Value)
	if err != nil {
		return err
	}
	g.W().Linef("%s = %s;", target, value)
	return nil
}

func (e *jsEmitter) If(g *Gen, s *ast.If) error {
	w := g.W()
	cond, err := g.Expr(s.Cond)
	if err != nil {
		return err
	}
	w.Linef("if (%s) {", cond)
	if err := e.block(g, s.Then); err != nil {
		return err
	}

	for _, arm := range s.ElseIfs {
		armCond, err := g.Expr(arm.Cond)
		if err != nil {
			return err
		}
		w.Linef("} else if (%s) {", armCond)
		if err := e.block(g, arm.Body); err != nil {
			return err
		}
	}

	if s.Else != nil {
		w.Line("} else {")
		if err := e.block(g, s.Else); err != nil {
			return err
		}
	}
	w.Line("}")
	return nil
}

func (e *jsEmitter) While(g *Gen, s *ast.While) error {
	cond, err := g.Expr(s.Cond)
	if err != nil {
		return err
	}
	g.W().Linef("while (%s) {", cond)
	if err := e.block(g, s.Body); err != nil {
		return err
	}
	g.W().Line("}")
	return nil
}

func (e *jsEmitter) ForEach(g *Gen, s *ast.ForEach) error {
	seq, err := g.Expr(s.Seq)
	if err != nil {
		return err
	}
	g.W().Linef("for (const %s of %s) {", s.Iter.Name, seq)
	if err := e.block(g, s.Body); err != nil {
		return err
	}
	g.W().Line("}")
	return nil
}

func (*jsEmitter) Return(g *Gen, s *ast.Return) error {
	if s.Value == nil {
		g.W().Line("return;")
		return nil
	}
	value, err := g.Expr(s.Value)
	if err != nil {
		return err
	}
	g.W().Linef("return %s;", value)
	return nil
}

func (*jsEmitter) ExprStmt(g *Gen, s *ast.ExprStmt) error {
	expr, err := g.Expr(s.Expr)
	if err != nil {
		return err
	}
	g.W().Line(expr + ";")
	return nil
}

func (*jsEmitter) Ident(g *Gen, e *ast.Ident) (string, error) {
	return e.Name, nil
}

func (*jsEmitter) NumberLit(g *Gen, e *ast.NumberLit) (string, error) {
	return e.Text, nil
}

func (*jsEmitter) StringLit(g *Gen, e *ast.StringLit) (string, error) {
	return strconv.Quote(e.Value), nil
}

func (*jsEmitter) BoolLit(g *Gen, e *ast.BoolLit) (string, error) {
	return strconv.FormatBool(e.Value), nil
}

func (*jsEmitter) ListLit(g *Gen, e *ast.ListLit) (string, error) {
	elems, err := exprList(g, e.Elems)
	if err != nil {
		return "", err
	}
	return "[" + elems + "]", nil
}

func (*jsEmitter) ObjectLit(g *Gen, e *ast.ObjectLit) (string, error) {
	parts := make([]string, len(e.Fields))
	for i, field := range e.Fields {
		value, err := g.Expr(field.Value)
		if err != nil {
			return "", err
		}
		parts[i] = field.Key.Name + ": " + value
	}
	return "{" + strings.Join(parts, ", ") + "}", nil
}

func (*jsEmitter) UnaryOp(g *Gen, e *ast.UnaryOp) (string, error) {
	inner, err := operand(g, e.Expr)
	if err != nil {
		return "", err
	}
	if e.Op == lexer.NOT {
		return "!" + inner, nil
	}
	return string(e.Op) + inner, nil
}

func (*jsEmitter) BinaryOp(g *Gen, e *ast.BinaryOp) (string, error) {
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
		op = "&&"
	case lexer.OR:
		op = "||"
	case lexer.EQ:
		op = "==="
	case lexer.NOT_EQ:
		op = "!=="
	}
	return left + " " + op + " " + right, nil
}

func (*jsEmitter) Call(g *Gen, e *ast.Call) (string, error) {
	args, err := exprList(g, e.Args)
	if err != nil {
		return "", err
	}
	if isPrintCall(e) {
		return "console.log(" + args + ")", nil
	}
	callee, err := g.Expr(e.Callee)
	if err != nil {
		return "", err
	}
	if _, ok := calleeClass(g, e); ok {
		return "new " + callee + "(" + args + ")", nil
	}
	return callee + "(" + args + ")", nil
}

func (*jsEmitter) Member(g *Gen, e *ast.Member) (string, error) {
	target, err := operand(g, e.Target)
	if err != nil {
		return "", err
	}
	return target + "." + e.Field.Name, nil
}

func (*jsEmitter) Index(g *Gen, e *ast.Index) (string, error) {
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
