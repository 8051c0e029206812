package parser

import (
	"testing"

	"github.com/prose-lang/prose/internal/ast"
	"github.com/prose-lang/prose/internal/lexer"
)

func parseFile(t *testing.T, input string) *ast.File {
	t.Helper()

	p := New(input, WithFilename("test.prose"))
	file := p.ParseFile()
	if len(p.Errors()) != 0 {
		t.Fatalf("unexpected parse errors: %v", p.Errors())
	}
	if file == nil {
		t.Fatalf("ParseFile returned nil")
	}
	return file
}

func singleStmt(t *testing.T, input string) ast.Stmt {
	t.Helper()

	file := parseFile(t, input)
	if len(file.Stmts) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(file.Stmts))
	}
	return file.Stmts[0]
}

func assertIdent(t *testing.T, expr ast.Expr, name string) {
	t.Helper()

	ident, ok := expr.(*ast.Ident)
	if !ok {
		t.Fatalf("expected *ast.Ident, got %T", expr)
	}
	if ident.Name != name {
		t.Fatalf("ident name wrong. expected=%q, got=%q", name, ident.Name)
	}
}

func assertNumber(t *testing.T, expr ast.Expr, text string) {
	t.Helper()

	num, ok := expr.(*ast.NumberLit)
	if !ok {
		t.Fatalf("expected *ast.NumberLit, got %T", expr)
	}
	if num.Text != text {
		t.Fatalf("number text wrong. expected=%q, got=%q", text, num.Text)
	}
}

func TestParseVariableDecl(t *testing.T) {
	stmt := singleStmt(t, "create total as Integer to 10\n")

	decl, ok := stmt.(*ast.VariableDecl)
	if !ok {
		t.Fatalf("expected *ast.VariableDecl, got %T", stmt)
	}
	assertIdent(t, decl.Name, "total")

	named, ok := decl.Type.(*ast.NamedType)
	if !ok {
		t.Fatalf("expected *ast.NamedType, got %T", decl.Type)
	}
	if named.Name.Name != "Integer" {
		t.Fatalf("type name wrong, got %q", named.Name.Name)
	}
	assertNumber(t, decl.Value, "10")
}

func TestParseVariableDecl_Untyped(t *testing.T) {
	stmt := singleStmt(t, "create x to 1\n")

	decl := stmt.(*ast.VariableDecl)
	if decl.Type != nil {
		t.Fatalf("expected nil type, got %T", decl.Type)
	}
	assertNumber(t, decl.Value, "1")
}

func TestParseVariableDecl_ListType(t *testing.T) {
	stmt := singleStmt(t, "create names as List of String\n")

	decl := stmt.(*ast.VariableDecl)
	list, ok := decl.Type.(*ast.ListType)
	if !ok {
		t.Fatalf("expected *ast.ListType, got %T", decl.Type)
	}
	elem, ok := list.Elem.(*ast.NamedType)
	if !ok {
		t.Fatalf("expected *ast.NamedType element, got %T", list.Elem)
	}
	if elem.Name.Name != "String" {
		t.Fatalf("element type wrong, got %q", elem.Name.Name)
	}
}

func TestParseAssignment(t *testing.T) {
	stmt := singleStmt(t, "set total to total + 1\n")

	assign, ok := stmt.(*ast.Assignment)
	if !ok {
		t.Fatalf("expected *ast.Assignment, got %T", stmt)
	}
	assertIdent(t, assign.Target, "total")

	bin, ok := assign.Value.(*ast.BinaryOp)
	if !ok {
		t.Fatalf("expected *ast.BinaryOp, got %T", assign.Value)
	}
	if bin.Op != lexer.PLUS {
		t.Fatalf("op wrong, got %q", bin.Op)
	}
}

func TestParseAssignment_MemberTarget(t *testing.T) {
	stmt := singleStmt(t, "set this.name to \"Ada\"\n")

	assign := stmt.(*ast.Assignment)
	member, ok := assign.Target.(*ast.Member)
	if !ok {
		t.Fatalf("expected *ast.Member target, got %T", assign.Target)
	}
	assertIdent(t, member.Target, "this")
	if member.Field.Name != "name" {
		t.Fatalf("field wrong, got %q", member.Field.Name)
	}
}

func TestParseAssignment_IndexTarget(t *testing.T) {
	stmt := singleStmt(t, "set items[0] to 5\n")

	assign := stmt.(*ast.Assignment)
	if _, ok := assign.Target.(*ast.Index); !ok {
		t.Fatalf("expected *ast.Index target, got %T", assign.Target)
	}
}

func TestParseFunctionDef(t *testing.T) {
	input := "define function add that takes a as Integer, b as Integer and returns Integer:\n" +
		"    return a + b\n"

	stmt := singleStmt(t, input)
	fn, ok := stmt.(*ast.FunctionDef)
	if !ok {
		t.Fatalf("expected *ast.FunctionDef, got %T", stmt)
	}
	if fn.Name.Name != "add" {
		t.Fatalf("name wrong, got %q", fn.Name.Name)
	}
	if len(fn.Params) != 2 {
		t.Fatalf("expected 2 params, got %d", len(fn.Params))
	}
	if fn.Params[0].Name.Name != "a" || fn.Params[1].Name.Name != "b" {
		t.Fatalf("param names wrong: %q, %q", fn.Params[0].Name.Name, fn.Params[1].Name.Name)
	}
	if fn.Return == nil {
		t.Fatalf("expected a return type")
	}
	if len(fn.Body.Stmts) != 1 {
		t.Fatalf("expected 1 body statement, got %d", len(fn.Body.Stmts))
	}
	if _, ok := fn.Body.Stmts[0].(*ast.Return); !ok {
		t.Fatalf("expected *ast.Return in body, got %T", fn.Body.Stmts[0])
	}
}

func TestParseFunctionDef_NoParamsNoReturn(t *testing.T) {
	input := "define function greet:\n" +
		"    print(\"hi\")\n"

	stmt := singleStmt(t, input)
	fn := stmt.(*ast.FunctionDef)
	if len(fn.Params) != 0 {
		t.Fatalf("expected no params, got %d", len(fn.Params))
	}
	if fn.Return != nil {
		t.Fatalf("expected no return type, got %T", fn.Return)
	}
}

func TestParseFunctionDef_UntypedParam(t *testing.T) {
	input := "define function show that takes value:\n" +
		"    print(value)\n"

	stmt := singleStmt(t, input)
	fn := stmt.(*ast.FunctionDef)
	if len(fn.Params) != 1 {
		t.Fatalf("expected 1 param, got %d", len(fn.Params))
	}
	if fn.Params[0].Type != nil {
		t.Fatalf("expected untyped param, got %T", fn.Params[0].Type)
	}
}

func TestParseClassDef(t *testing.T) {
	input := "define class Point:\n" +
		"    create x as Integer\n" +
		"    create y as Integer\n" +
		"    define constructor that takes x as Integer, y as Integer:\n" +
		"        set this.x to x\n" +
		"        set this.y to y\n" +
		"    define function sum and returns Integer:\n" +
		"        return this.x + this.y\n"

	stmt := singleStmt(t, input)
	class, ok := stmt.(*ast.ClassDef)
	if !ok {
		t.Fatalf("expected *ast.ClassDef, got %T", stmt)
	}
	if class.Name.Name != "Point" {
		t.Fatalf("name wrong, got %q", class.Name.Name)
	}
	if len(class.Fields) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(class.Fields))
	}
	if class.Ctor == nil {
		t.Fatalf("expected a constructor")
	}
	if len(class.Ctor.Params) != 2 {
		t.Fatalf("expected 2 constructor params, got %d", len(class.Ctor.Params))
	}
	if len(class.Methods) != 1 {
		t.Fatalf("expected 1 method, got %d", len(class.Methods))
	}
	if class.Methods[0].Name.Name != "sum" {
		t.Fatalf("method name wrong, got %q", class.Methods[0].Name.Name)
	}
}

func TestParseIf_ElseIfElse(t *testing.T) {
	input := "if score is greater than 90:\n" +
		"    print(\"A\")\n" +
		"else if score is greater than 80:\n" +
		"    print(\"B\")\n" +
		"else:\n" +
		"    print(\"C\")\n"

	stmt := singleStmt(t, input)
	cond, ok := stmt.(*ast.If)
	if !ok {
		t.Fatalf("expected *ast.If, got %T", stmt)
	}

	bin := cond.Cond.(*ast.BinaryOp)
	if bin.Op != lexer.GT {
		t.Fatalf("condition op wrong, got %q", bin.Op)
	}
	if len(cond.ElseIfs) != 1 {
		t.Fatalf("expected 1 else-if arm, got %d", len(cond.ElseIfs))
	}
	if cond.Else == nil {
		t.Fatalf("expected an else block")
	}
}

func TestParseWhile(t *testing.T) {
	input := "while count is less than 10:\n" +
		"    set count to count + 1\n"

	stmt := singleStmt(t, input)
	loop, ok := stmt.(*ast.While)
	if !ok {
		t.Fatalf("expected *ast.While, got %T", stmt)
	}
	if loop.Cond.(*ast.BinaryOp).Op != lexer.LT {
		t.Fatalf("condition op wrong")
	}
	if len(loop.Body.Stmts) != 1 {
		t.Fatalf("expected 1 body statement, got %d", len(loop.Body.Stmts))
	}
}

func TestParseForEach(t *testing.T) {
	input := "for each item in items:\n" +
		"    print(item)\n"

	stmt := singleStmt(t, input)
	loop, ok := stmt.(*ast.ForEach)
	if !ok {
		t.Fatalf("expected *ast.ForEach, got %T", stmt)
	}
	if loop.Iter.Name != "item" {
		t.Fatalf("iterator wrong, got %q", loop.Iter.Name)
	}
	assertIdent(t, loop.Seq, "items")
}

func TestParseImport(t *testing.T) {
	stmt := singleStmt(t, "import math\n")

	imp, ok := stmt.(*ast.Import)
	if !ok {
		t.Fatalf("expected *ast.Import, got %T", stmt)
	}
	if imp.Name.Name != "math" {
		t.Fatalf("import name wrong, got %q", imp.Name.Name)
	}
}

func TestParseBareIsBecomesEquality(t *testing.T) {
	input := "if x is 5:\n    return x\n"

	stmt := singleStmt(t, input)
	bin := stmt.(*ast.If).Cond.(*ast.BinaryOp)
	if bin.Op != lexer.EQ {
		t.Fatalf("expected IS to normalize to EQ, got %q", bin.Op)
	}
}

func TestParsePrecedence(t *testing.T) {
	// a + b * c parses as a + (b * c)
	stmt := singleStmt(t, "set r to a + b * c\n")

	outer := stmt.(*ast.Assignment).Value.(*ast.BinaryOp)
	if outer.Op != lexer.PLUS {
		t.Fatalf("outer op wrong, got %q", outer.Op)
	}
	inner, ok := outer.Right.(*ast.BinaryOp)
	if !ok || inner.Op != lexer.STAR {
		t.Fatalf("expected inner product on the right, got %T", outer.Right)
	}
}

func TestParsePrecedence_Grouped(t *testing.T) {
	// (a + b) * c parses as (a + b) * c
	stmt := singleStmt(t, "set r to (a + b) * c\n")

	outer := stmt.(*ast.Assignment).Value.(*ast.BinaryOp)
	if outer.Op != lexer.STAR {
		t.Fatalf("outer op wrong, got %q", outer.Op)
	}
	if _, ok := outer.Left.(*ast.BinaryOp); !ok {
		t.Fatalf("expected grouped sum on the left, got %T", outer.Left)
	}
}

func TestParsePrecedence_Logical(t *testing.T) {
	// a is 1 and b is 2 or c parses as ((a == 1) and (b == 2)) or c
	stmt := singleStmt(t, "set r to a is 1 and b is 2 or c\n")

	outer := stmt.(*ast.Assignment).Value.(*ast.BinaryOp)
	if outer.Op != lexer.OR {
		t.Fatalf("outer op wrong, got %q", outer.Op)
	}
	left := outer.Left.(*ast.BinaryOp)
	if left.Op != lexer.AND {
		t.Fatalf("left op wrong, got %q", left.Op)
	}
}

func TestParseUnary(t *testing.T) {
	stmt := singleStmt(t, "set r to not done and -x is 1\n")

	outer := stmt.(*ast.Assignment).Value.(*ast.BinaryOp)
	if outer.Op != lexer.AND {
		t.Fatalf("outer op wrong, got %q", outer.Op)
	}
	if outer.Left.(*ast.UnaryOp).Op != lexer.NOT {
		t.Fatalf("expected not on the left")
	}
}

func TestParseCallChain(t *testing.T) {
	stmt := singleStmt(t, "print(point.sum(), items[1])\n")

	call := stmt.(*ast.ExprStmt).Expr.(*ast.Call)
	assertIdent(t, call.Callee, "print")
	if len(call.Args) != 2 {
		t.Fatalf("expected 2 args, got %d", len(call.Args))
	}

	method := call.Args[0].(*ast.Call)
	member := method.Callee.(*ast.Member)
	if member.Field.Name != "sum" {
		t.Fatalf("method name wrong, got %q", member.Field.Name)
	}
	if _, ok := call.Args[1].(*ast.Index); !ok {
		t.Fatalf("expected index arg, got %T", call.Args[1])
	}
}

func TestParseListLiteral(t *testing.T) {
	stmt := singleStmt(t, "create xs to [1, 2, 3]\n")

	list := stmt.(*ast.VariableDecl).Value.(*ast.ListLit)
	if len(list.Elems) != 3 {
		t.Fatalf("expected 3 elements, got %d", len(list.Elems))
	}
}

func TestParseObjectLiteral(t *testing.T) {
	stmt := singleStmt(t, "create p to {name: \"Ada\", age: 36}\n")

	obj := stmt.(*ast.VariableDecl).Value.(*ast.ObjectLit)
	if len(obj.Fields) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(obj.Fields))
	}
	if obj.Fields[0].Key.Name != "name" || obj.Fields[1].Key.Name != "age" {
		t.Fatalf("field keys wrong: %q, %q", obj.Fields[0].Key.Name, obj.Fields[1].Key.Name)
	}
}

func TestParseRecovery_MultipleErrors(t *testing.T) {
	input := "set x 1\n" +
		"set y to 2\n" +
		"create as\n" +
		"set z to 3\n"

	p := New(input)
	file := p.ParseFile()

	if len(p.Errors()) < 2 {
		t.Fatalf("expected at least 2 parse errors, got %d: %v", len(p.Errors()), p.Errors())
	}
	if len(file.Stmts) != 4 {
		t.Fatalf("expected 4 statements with placeholders, got %d", len(file.Stmts))
	}
	if _, ok := file.Stmts[0].(*ast.BadStmt); !ok {
		t.Fatalf("expected BadStmt first, got %T", file.Stmts[0])
	}
	if _, ok := file.Stmts[1].(*ast.Assignment); !ok {
		t.Fatalf("expected good assignment second, got %T", file.Stmts[1])
	}
	if _, ok := file.Stmts[2].(*ast.BadStmt); !ok {
		t.Fatalf("expected BadStmt third, got %T", file.Stmts[2])
	}
	if _, ok := file.Stmts[3].(*ast.Assignment); !ok {
		t.Fatalf("expected good assignment last, got %T", file.Stmts[3])
	}
}

func TestParseRecovery_BrokenHeaderSkipsBlock(t *testing.T) {
	input := "if x 5:\n" +
		"    print(1)\n" +
		"set y to 2\n"

	p := New(input)
	file := p.ParseFile()

	if len(p.Errors()) == 0 {
		t.Fatalf("expected parse errors")
	}
	if len(file.Stmts) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(file.Stmts))
	}
	if _, ok := file.Stmts[0].(*ast.BadStmt); !ok {
		t.Fatalf("expected BadStmt first, got %T", file.Stmts[0])
	}
	if _, ok := file.Stmts[1].(*ast.Assignment); !ok {
		t.Fatalf("expected the assignment to survive, got %T", file.Stmts[1])
	}
}

func TestParseRecovery_InsideBlock(t *testing.T) {
	input := "define function f:\n" +
		"    set x 1\n" +
		"    return 2\n"

	p := New(input)
	file := p.ParseFile()

	if len(p.Errors()) == 0 {
		t.Fatalf("expected parse errors")
	}
	fn, ok := file.Stmts[0].(*ast.FunctionDef)
	if !ok {
		t.Fatalf("expected *ast.FunctionDef, got %T", file.Stmts[0])
	}
	if len(fn.Body.Stmts) != 2 {
		t.Fatalf("expected 2 body statements, got %d", len(fn.Body.Stmts))
	}
	if _, ok := fn.Body.Stmts[1].(*ast.Return); !ok {
		t.Fatalf("expected the return to survive, got %T", fn.Body.Stmts[1])
	}
}

func TestParseErrorSpans(t *testing.T) {
	input := "set x to 1\nset y 2\n"

	p := New(input, WithFilename("main.prose"))
	p.ParseFile()

	if len(p.Errors()) == 0 {
		t.Fatalf("expected parse errors")
	}
	err := p.Errors()[0]
	if err.Span.Line != 2 {
		t.Fatalf("expected error on line 2, got %d", err.Span.Line)
	}
	if err.Span.Filename != "main.prose" {
		t.Fatalf("expected filename on span, got %q", err.Span.Filename)
	}
}

func TestParseBadNodesAreWalkable(t *testing.T) {
	input := "set x 1\nset y to 2\n"

	p := New(input)
	file := p.ParseFile()

	bad := 0
	ast.Walk(file, func(n ast.Node) bool {
		if _, ok := n.(*ast.BadStmt); ok {
			bad++
		}
		return true
	})
	if bad != 1 {
		t.Fatalf("expected 1 BadStmt in the tree, got %d", bad)
	}
}
