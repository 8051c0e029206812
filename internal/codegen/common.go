package codegen

import (
	"strings"

	"github.com/prose-lang/prose/internal/ast"
	"github.com/prose-lang/prose/internal/sema"
)

// operand renders a sub-expression, parenthesizing compound operands so the
// target language reproduces the parsed grouping regardless of its own
// precedence table.
func operand(g *Gen, e ast.Expr) (string, error) {
	s, err := g.Expr(e)
	if err != nil {
		return "", err
	}
	switch e.(type) {
	case *ast.BinaryOp, *ast.UnaryOp:
		return "(" + s + ")", nil
	}
	return s, nil
}

// exprList renders a comma-separated expression list.
func exprList(g *Gen, exprs []ast.Expr) (string, error) {
	parts := make([]string, len(exprs))
	for i, e := range exprs {
		s, err := g.Expr(e)
		if err != nil {
			return "", err
		}
		parts[i] = s
	}
	return strings.Join(parts, ", "), nil
}

// calleeClass returns the class being constructed when a call's callee is a
// plain name that the analyzer resolved to a class.
func calleeClass(g *Gen, e *ast.Call) (*sema.Class, bool) {
	if _, ok := e.Callee.(*ast.Ident); !ok {
		return nil, false
	}
	class, ok := g.TypeOf(e.Callee).(*sema.Class)
	return class, ok
}

// isPrintCall reports whether the call is the built-in print.
func isPrintCall(e *ast.Call) bool {
	ident, ok := e.Callee.(*ast.Ident)
	return ok && ident.Name == "print"
}

// returnsValue reports whether a function body contains a return with a
// value, so backends that need a result type can fall back to a dynamic one
// for unannotated functions.
func returnsValue(body *ast.Block) bool {
	found := false
	ast.Walk(body, func(n ast.Node) bool {
		if ret, ok := n.(*ast.Return); ok && ret.Value != nil {
			found = true
		}
		return !found
	})
	return found
}

// paramNames renders a bare parameter name list.
func paramNames(params []*ast.Param) string {
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = p.Name.Name
	}
	return strings.Join(parts, ", ")
}
