package codegen

import (
	"strconv"
	"strings"

	"github.com/prose-lang/prose/internal/ast"
	"github.com/prose-lang/prose/internal/lexer"
	"github.com/prose-lang/prose/internal/sema"
)

func init() {
	Register("go", func() Emitter { return &goEmitter{} })
}

// goEmitter targets Go. Generated files are a single package main; library
// imports become dot imports of the runtime module so calls keep their bare
// names, and dynamically typed slots lower to any.
type goEmitter struct{}

func (*goEmitter) Name() string { return "go" }
func (*goEmitter) Ext() string  { return "go" }

func (*goEmitter) Begin(g *Gen, imports []string) error {
	w := g.W()
	w.Line("// Code generated by the Prose compiler. DO NOT EDIT.")
	w.Line("")
	w.Line("package main")
	w.Line("")
	w.Line("import (")
	w.Indent()
	w.Line("\"fmt\"")
	for _, name := range imports {
		w.Linef(". \"prose_runtime/%s\"", name)
	}
	w.Dedent()
	w.Line(")")
	w.Line("")
	w.Line("var _ = fmt.Sprint")
	w.Line("")
	return nil
}

func (*goEmitter) End(*Gen) error { return nil }

func (*goEmitter) BeginMain(g *Gen) error {
	g.W().Line("func main() {")
	g.W().Indent()
	return nil
}

func (*goEmitter) EndMain(g *Gen) error {
	g.W().Dedent()
	g.W().Line("}")
	return nil
}

// goType lowers a syntactic type annotation. Names that are not built in
// are assumed to be classes, which lower to pointers to their struct.
func goType(t ast.TypeExpr) string {
	switch t := t.(type) {
	case nil:
		return "any"
	case *ast.NamedType:
		switch t.Name.Name {
		case "Integer":
			return "int"
		case "Float":
			return "float64"
		case "String":
			return "string"
		case "Boolean":
			return "bool"
		case "Any", "Unknown":
			return "any"
		case "Nothing":
			return ""
		case "Object":
			return "map[string]any"
		case "List":
			return "[]any"
		default:
			return "*" + t.Name.Name
		}
	case *ast.ListType:
		return "[]" + goType(t.Elem)
	default:
		return "any"
	}
}

func goParams(params []*ast.Param) string {
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = p.Name.Name + " " + goType(p.Type)
	}
	return strings.Join(parts, ", ")
}

func goResult(ret ast.TypeExpr, body *ast.Block) string {
	if ret != nil {
		if t := goType(ret); t != "" {
			return " " + t
		}
		return ""
	}
	if returnsValue(body) {
		return " any"
	}
	return ""
}

func (e *goEmitter) block(g *Gen, block *ast.Block) error {
	g.W().Indent()
	err := g.Block(block)
	g.W().Dedent()
	return err
}

func (e *goEmitter) FunctionDef(g *Gen, s *ast.FunctionDef) error {
	g.W().Linef("func %s(%s)%s {", s.Name.Name, goParams(s.Params), goResult(s.Return, s.Body))
	if err := e.block(g, s.Body); err != nil {
		return err
	}
	g.W().Line("}")
	g.W().Line("")
	return nil
}

func (e *goEmitter) ClassDef(g *Gen, s *ast.ClassDef) error {
	w := g.W()

	w.Linef("type %s struct {", s.Name.Name)
	w.Indent()
	for _, field := range s.Fields {
		w.Linef("%s %s", field.Name.Name, goType(field.Type))
	}
	w.Dedent()
	w.Line("}")
	w.Line("")

	var ctorParams []*ast.Param
	if s.Ctor != nil {
		ctorParams = s.Ctor.Params
	}
	w.Linef("func New%s(%s) *%s {", s.Name.Name, goParams(ctorParams), s.Name.Name)
	w.Indent()
	w.Linef("this := &%s{}", s.Name.Name)
	w.Dedent()
	if s.Ctor != nil {
		if err := e.block(g, s.Ctor.Body); err != nil {
			return err
		}
	}
	w.Indent()
	w.Line("return this")
	w.Dedent()
	w.Line("}")
	w.Line("")

	for _, method := range s.Methods {
		w.Linef("func (this *%s) %s(%s)%s {", s.Name.Name, method.Name.Name, goParams(method.Params), goResult(method.Return, method.Body))
		if err := e.block(g, method.Body); err != nil {
			return err
		}
		w.Line("}")
		w.Line("")
	}

	return nil
}

// GlobalDecl hoists a top-level declaration to a package-level var so
// functions emitted alongside it can reference the name; the initializer
// stays in main, in source order.
func (*goEmitter) GlobalDecl(g *Gen, s *ast.VariableDecl) error {
	t := goType(s.Type)
	if s.Type == nil && s.Value != nil {
		t = goSemaType(g.TypeOf(s.Value))
	}
	g.W().Linef("var %s %s", s.Name.Name, t)
	g.W().Line("")
	return nil
}

func (*goEmitter) VariableDecl(g *Gen, s *ast.VariableDecl) error {
	w := g.W()

	if g.IsGlobal(s) {
		if s.Value == nil {
			return nil
		}
		value, err := g.Expr(s.Value)
		if err != nil {
			return err
		}
		w.Linef("%s = %s", s.Name.Name, value)
		return nil
	}

	if s.Value == nil {
		w.Linef("var %s %s", s.Name.Name, goType(s.Type))
	} else {
		value, err := g.Expr(s.Value)
		if err != nil {
			return err
		}
		if s.Type == nil {
			w.Linef("%s := %s", s.Name.Name, value)
		} else {
			w.Linef("var %s %s = %s", s.Name.Name, goType(s.Type), value)
		}
	}

	// Keep the compiler quiet about script variables that are only read
	// later in the session or not at all.
	w.Linef("_ = %s", s.Name.Name)
	return nil
}

func (*goEmitter) Assignment(g *Gen, s *ast.Assignment) error {
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

func (e *goEmitter) If(g *Gen, s *ast.If) error {
	w := g.W()
	cond, err := g.Expr(s.Cond)
	if err != nil {
		return err
	}
	w.Linef("if %s {", cond)
	if err := e.block(g, s.Then); err != nil {
		return err
	}

	for _, arm := range s.ElseIfs {
		armCond, err := g.Expr(arm.Cond)
		if err != nil {
			return err
		}
		w.Linef("} else if %s {", armCond)
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

func (e *goEmitter) While(g *Gen, s *ast.While) error {
	cond, err := g.Expr(s.Cond)
	if err != nil {
		return err
	}
	g.W().Linef("for %s {", cond)
	if err := e.block(g, s.Body); err != nil {
		return err
	}
	g.W().Line("}")
	return nil
}

func (e *goEmitter) ForEach(g *Gen, s *ast.ForEach) error {
	seq, err := g.Expr(s.Seq)
	if err != nil {
		return err
	}
	g.W().Linef("for _, %s := range %s {", s.Iter.Name, seq)
	if err := e.block(g, s.Body); err != nil {
		return err
	}
	g.W().Line("}")
	return nil
}

func (*goEmitter) Return(g *Gen, s *ast.Return) error {
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

func (*goEmitter) ExprStmt(g *Gen, s *ast.ExprStmt) error {
	expr, err := g.Expr(s.Expr)
	if err != nil {
		return err
	}
	g.W().Line(expr)
	return nil
}

func (*goEmitter) Ident(g *Gen, e *ast.Ident) (string, error) {
	return e.Name, nil
}

func (*goEmitter) NumberLit(g *Gen, e *ast.NumberLit) (string, error) {
	return e.Text, nil
}

func (*goEmitter) StringLit(g *Gen, e *ast.StringLit) (string, error) {
	return strconv.Quote(e.Value), nil
}

func (*goEmitter) BoolLit(g *Gen, e *ast.BoolLit) (string, error) {
	return strconv.FormatBool(e.Value), nil
}

// goSemaType lowers a checked type so literals can carry the element type
// the analyzer inferred rather than falling back to any.
func goSemaType(t sema.Type) string {
	switch t := t.(type) {
	case *sema.List:
		return "[]" + goSemaType(t.Elem)
	case *sema.Class:
		return "*" + t.Name
	case *sema.Object:
		return "map[string]any"
	default:
		switch t {
		case sema.TypeInteger:
			return "int"
		case sema.TypeFloat:
			return "float64"
		case sema.TypeString:
			return "string"
		case sema.TypeBoolean:
			return "bool"
		}
		return "any"
	}
}

func (*goEmitter) ListLit(g *Gen, e *ast.ListLit) (string, error) {
	elems, err := exprList(g, e.Elems)
	if err != nil {
		return "", err
	}
	elem := "any"
	if list, ok := g.TypeOf(e).(*sema.List); ok {
		elem = goSemaType(list.Elem)
	}
	return "[]" + elem + "{" + elems + "}", nil
}

func (*goEmitter) ObjectLit(g *Gen, e *ast.ObjectLit) (string, error) {
	parts := make([]string, len(e.Fields))
	for i, field := range e.Fields {
		value, err := g.Expr(field.Value)
		if err != nil {
			return "", err
		}
		parts[i] = strconv.Quote(field.Key.Name) + ": " + value
	}
	return "map[string]any{" + strings.Join(parts, ", ") + "}", nil
}

func (*goEmitter) UnaryOp(g *Gen, e *ast.UnaryOp) (string, error) {
	inner, err := operand(g, e.Expr)
	if err != nil {
		return "", err
	}
	if e.Op == lexer.NOT {
		return "!" + inner, nil
	}
	return string(e.Op) + inner, nil
}

func (*goEmitter) BinaryOp(g *Gen, e *ast.BinaryOp) (string, error) {
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
	}
	return left + " " + op + " " + right, nil
}

func (*goEmitter) Call(g *Gen, e *ast.Call) (string, error) {
	args, err := exprList(g, e.Args)
	if err != nil {
		return "", err
	}
	if isPrintCall(e) {
		return "fmt.Println(" + args + ")", nil
	}
	if class, ok := calleeClass(g, e); ok {
		return "New" + class.Name + "(" + args + ")", nil
	}
	callee, err := g.Expr(e.Callee)
	if err != nil {
		return "", err
	}
	return callee + "(" + args + ")", nil
}

func (*goEmitter) Member(g *Gen, e *ast.Member) (string, error) {
	target, err := operand(g, e.Target)
	if err != nil {
		return "", err
	}
	return target + "." + e.Field.Name, nil
}

func (*goEmitter) Index(g *Gen, e *ast.Index) (string, error) {
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
