package sema

import (
	"github.com/prose-lang/prose/internal/ast"
	"github.com/prose-lang/prose/internal/diag"
	"github.com/prose-lang/prose/internal/lexer"
)

// checkStmt type-checks one statement. fn carries the signature of the
// enclosing function, or nil at module level.
func (a *Analyzer) checkStmt(stmt ast.Stmt, scope *Scope, fn *Function) {
	switch s := stmt.(type) {
	case *ast.FunctionDef:
		a.checkFunctionDef(s, scope)

	case *ast.ClassDef:
		a.checkClassDef(s, scope)

	case *ast.VariableDecl:
		a.checkVariableDecl(s, scope)

	case *ast.Assignment:
		target := a.checkAssignTarget(s.Target, scope)
		value := a.checkExpr(s.Value, scope)
		if !Compatible(value, target) {
			a.errorf(diag.CodeSemaTypeMismatch, s.Value.Span(), "cannot assign %s to a %s target", value, target)
		}

	case *ast.If:
		a.checkCondition(s.Cond, scope)
		a.checkBlock(s.Then, NewScope(scope), fn)
		for _, arm := range s.ElseIfs {
			a.checkCondition(arm.Cond, scope)
			a.checkBlock(arm.Body, NewScope(scope), fn)
		}
		if s.Else != nil {
			a.checkBlock(s.Else, NewScope(scope), fn)
		}

	case *ast.While:
		a.checkCondition(s.Cond, scope)
		a.checkBlock(s.Body, NewScope(scope), fn)

	case *ast.ForEach:
		seq := a.checkExpr(s.Seq, scope)
		var elem Type = TypeUnknown
		switch t := seq.(type) {
		case *List:
			elem = asType(t.Elem)
		case *Primitive:
			if t == TypeString {
				elem = TypeString
			} else if t != TypeUnknown {
				a.errorf(diag.CodeSemaTypeMismatch, s.Seq.Span(), "cannot iterate over %s", seq)
			}
		default:
			a.errorf(diag.CodeSemaTypeMismatch, s.Seq.Span(), "cannot iterate over %s", seq)
		}
		body := NewScope(scope)
		a.declare(body, &Symbol{Name: s.Iter.Name, Kind: SymbolVariable, Type: elem, Span: s.Iter.Span()})
		a.checkBlock(s.Body, body, fn)

	case *ast.Return:
		if fn == nil {
			a.errorf(diag.CodeSemaTypeMismatch, s.Span(), "return is only allowed inside a function")
			if s.Value != nil {
				a.checkExpr(s.Value, scope)
			}
			return
		}
		if s.Value == nil {
			if fn.Result != TypeVoid && fn.Result != TypeUnknown {
				a.errorf(diag.CodeSemaTypeMismatch, s.Span(), "%s must return a %s", fn.Name, fn.Result)
			}
			return
		}
		value := a.checkExpr(s.Value, scope)
		if fn.Result == TypeVoid {
			a.errorf(diag.CodeSemaTypeMismatch, s.Value.Span(), "%s does not declare a return type", fn.Name)
		} else if !Compatible(value, fn.Result) {
			a.errorf(diag.CodeSemaTypeMismatch, s.Value.Span(), "%s must return %s, not %s", fn.Name, fn.Result, value)
		}

	case *ast.Import:
		if scope != a.module {
			a.errorf(diag.CodeSemaUnknownLibrary, s.Span(), "import is only allowed at the top level")
		}
		// Top-level imports were resolved during declaration.

	case *ast.ExprStmt:
		a.checkExpr(s.Expr, scope)

	case *ast.BadStmt:
		// Already reported by the parser.
	}
}

func (a *Analyzer) checkBlock(block *ast.Block, scope *Scope, fn *Function) {
	if block == nil {
		return
	}
	for _, stmt := range block.Stmts {
		a.checkStmt(stmt, scope, fn)
	}
}

func (a *Analyzer) checkCondition(cond ast.Expr, scope *Scope) {
	t := a.checkExpr(cond, scope)
	if t != TypeBoolean && t != TypeUnknown {
		a.errorf(diag.CodeSemaTypeMismatch, cond.Span(), "condition must be a Boolean, not %s", t)
	}
}

func (a *Analyzer) checkFunctionDef(def *ast.FunctionDef, scope *Scope) {
	var fnType *Function
	if sym, ok := scope.LookupLocal(def.Name.Name); ok && sym.Kind == SymbolFunction {
		fnType, _ = sym.Type.(*Function)
	}
	if fnType == nil {
		// Nested definition: not hoisted, declared where it appears.
		fnType = a.functionType(def.Name.Name, def.Params, def.Return)
		a.declare(scope, &Symbol{
			Name: def.Name.Name,
			Kind: SymbolFunction,
			Type: fnType,
			Span: def.Name.Span(),
		})
	}

	body := NewScope(scope)
	a.declareParams(body, def.Params, fnType)
	a.checkBlock(def.Body, body, fnType)
}

func (a *Analyzer) checkClassDef(def *ast.ClassDef, scope *Scope) {
	class, ok := a.classes[def.Name.Name]
	if !ok {
		return
	}

	if def.Ctor != nil && class.Ctor != nil {
		body := NewScope(scope)
		a.declareThis(body, class, def.Ctor.Span())
		a.declareParams(body, def.Ctor.Params, class.Ctor)
		ctor := &Function{Name: class.Name, Params: class.Ctor.Params, Result: TypeVoid}
		a.checkBlock(def.Ctor.Body, body, ctor)
	}

	for _, method := range def.Methods {
		fnType, ok := class.Methods[method.Name.Name]
		if !ok {
			continue
		}
		body := NewScope(scope)
		a.declareThis(body, class, method.Name.Span())
		a.declareParams(body, method.Params, fnType)
		a.checkBlock(method.Body, body, fnType)
	}
}

func (a *Analyzer) declareThis(scope *Scope, class *Class, span lexer.Span) {
	scope.Define(&Symbol{Name: "this", Kind: SymbolVariable, Type: class, Span: span})
}

func (a *Analyzer) declareParams(scope *Scope, params []*ast.Param, fnType *Function) {
	for i, p := range params {
		var t Type = TypeUnknown
		if i < len(fnType.Params) {
			t = asType(fnType.Params[i])
		}
		a.declare(scope, &Symbol{Name: p.Name.Name, Kind: SymbolVariable, Type: t, Span: p.Name.Span()})
	}
}

func (a *Analyzer) checkVariableDecl(decl *ast.VariableDecl, scope *Scope) {
	declared := a.resolveType(decl.Type)

	if decl.Value != nil {
		value := a.checkExpr(decl.Value, scope)
		if decl.Type == nil {
			declared = value
		} else if !Compatible(value, declared) {
			a.errorf(diag.CodeSemaTypeMismatch, decl.Value.Span(), "cannot initialize a %s with %s", declared, value)
		}
	}

	a.declare(scope, &Symbol{
		Name: decl.Name.Name,
		Kind: SymbolVariable,
		Type: declared,
		Span: decl.Name.Span(),
	})
}

// checkAssignTarget resolves the type of an assignment target. Plain names
// must already be declared; member and index targets are checked like
// expressions.
func (a *Analyzer) checkAssignTarget(target ast.Expr, scope *Scope) Type {
	if ident, ok := target.(*ast.Ident); ok {
		sym, found := scope.Lookup(ident.Name)
		if !found {
			a.reportUndefined(ident, scope)
			return TypeUnknown
		}
		if sym.Kind != SymbolVariable {
			a.errorf(diag.CodeSemaNotAssignable, ident.Span(), "cannot assign to %s %s", sym.Kind, ident.Name)
			return TypeUnknown
		}
		a.info.Uses[ident] = sym
		return a.setType(target, asType(sym.Type))
	}
	return a.checkExpr(target, scope)
}

func (a *Analyzer) setType(expr ast.Expr, t Type) Type {
	a.info.Types[expr] = t
	return t
}

// asType guards against nil slots in older symbol data.
func asType(t Type) Type {
	if t == nil {
		return TypeUnknown
	}
	return t
}

func (a *Analyzer) reportUndefined(ident *ast.Ident, scope *Scope) {
	d := a.errorf(diag.CodeSemaUndefinedName, ident.Span(), "undefined name %s", ident.Name)

	var candidates []string
	for s := scope; s != nil; s = s.Parent {
		for name := range s.Symbols {
			candidates = append(candidates, name)
		}
	}
	if suggestion := closestName(ident.Name, candidates); suggestion != "" {
		d.Suggestion = "did you mean " + suggestion + "?"
	}
}

func (a *Analyzer) checkExpr(expr ast.Expr, scope *Scope) Type {
	switch e := expr.(type) {
	case *ast.Ident:
		sym, ok := scope.Lookup(e.Name)
		if !ok {
			a.reportUndefined(e, scope)
			return a.setType(e, TypeUnknown)
		}
		a.info.Uses[e] = sym
		return a.setType(e, asType(sym.Type))

	case *ast.NumberLit:
		if e.IsFloat {
			return a.setType(e, TypeFloat)
		}
		return a.setType(e, TypeInteger)

	case *ast.StringLit:
		return a.setType(e, TypeString)

	case *ast.BoolLit:
		return a.setType(e, TypeBoolean)

	case *ast.ListLit:
		elem := Type(nil)
		for _, item := range e.Elems {
			t := a.checkExpr(item, scope)
			if elem == nil {
				elem = t
			} else if !Equal(elem, t) {
				elem = TypeUnknown
			}
		}
		if elem == nil {
			elem = TypeUnknown
		}
		return a.setType(e, &List{Elem: elem})

	case *ast.ObjectLit:
		fields := make(map[string]Type, len(e.Fields))
		for _, field := range e.Fields {
			fields[field.Key.Name] = a.checkExpr(field.Value, scope)
		}
		return a.setType(e, &Object{Fields: fields})

	case *ast.UnaryOp:
		return a.setType(e, a.checkUnary(e, scope))

	case *ast.BinaryOp:
		return a.setType(e, a.checkBinary(e, scope))

	case *ast.Call:
		return a.setType(e, a.checkCall(e, scope))

	case *ast.Member:
		return a.setType(e, a.checkMember(e, scope))

	case *ast.Index:
		return a.setType(e, a.checkIndex(e, scope))

	case *ast.BadExpr:
		return a.setType(e, TypeUnknown)

	default:
		return TypeUnknown
	}
}

func (a *Analyzer) checkUnary(e *ast.UnaryOp, scope *Scope) Type {
	operand := a.checkExpr(e.Expr, scope)

	switch e.Op {
	case lexer.MINUS:
		if IsNumeric(operand) || operand == TypeUnknown {
			return operand
		}
		a.errorf(diag.CodeSemaTypeMismatch, e.Span(), "cannot negate %s", operand)
		return TypeUnknown
	case lexer.NOT:
		if operand != TypeBoolean && operand != TypeUnknown {
			a.errorf(diag.CodeSemaTypeMismatch, e.Span(), "not expects a Boolean, got %s", operand)
		}
		return TypeBoolean
	default:
		return TypeUnknown
	}
}

func (a *Analyzer) checkBinary(e *ast.BinaryOp, scope *Scope) Type {
	left := a.checkExpr(e.Left, scope)
	right := a.checkExpr(e.Right, scope)

	switch e.Op {
	case lexer.PLUS, lexer.MINUS, lexer.STAR, lexer.SLASH, lexer.PERCENT:
		if left == TypeUnknown || right == TypeUnknown {
			return TypeUnknown
		}
		if e.Op == lexer.PLUS && left == TypeString && right == TypeString {
			return TypeString
		}
		if IsNumeric(left) && IsNumeric(right) {
			if left == TypeFloat || right == TypeFloat {
				return TypeFloat
			}
			return TypeInteger
		}
		a.errorf(diag.CodeSemaTypeMismatch, e.Span(), "operator %s is not defined for %s and %s", e.Op, left, right)
		return TypeUnknown

	case lexer.LT, lexer.LE, lexer.GT, lexer.GE:
		ordered := (IsNumeric(left) && IsNumeric(right)) ||
			(left == TypeString && right == TypeString) ||
			left == TypeUnknown || right == TypeUnknown
		if !ordered {
			a.errorf(diag.CodeSemaTypeMismatch, e.Span(), "cannot compare %s with %s", left, right)
		}
		return TypeBoolean

	case lexer.EQ, lexer.NOT_EQ:
		if !Compatible(left, right) && !Compatible(right, left) {
			a.errorf(diag.CodeSemaTypeMismatch, e.Span(), "cannot compare %s with %s", left, right)
		}
		return TypeBoolean

	case lexer.AND, lexer.OR:
		for _, side := range []struct {
			t    Type
			span lexer.Span
		}{{left, e.Left.Span()}, {right, e.Right.Span()}} {
			if side.t != TypeBoolean && side.t != TypeUnknown {
				a.errorf(diag.CodeSemaTypeMismatch, side.span, "%s expects Boolean operands, got %s", e.Op, side.t)
			}
		}
		return TypeBoolean

	default:
		return TypeUnknown
	}
}

func (a *Analyzer) checkCall(e *ast.Call, scope *Scope) Type {
	callee := a.checkExpr(e.Callee, scope)

	args := make([]Type, len(e.Args))
	for i, arg := range e.Args {
		args[i] = a.checkExpr(arg, scope)
	}

	switch c := callee.(type) {
	case *Function:
		a.checkArguments(c.Name, c.Params, args, e)
		return asType(c.Result)

	case *Class:
		var params []Type
		if c.Ctor != nil {
			params = c.Ctor.Params
		}
		a.checkArguments(c.Name, params, args, e)
		return c

	case *Primitive:
		if c == TypeUnknown {
			return TypeUnknown
		}
	}

	a.errorf(diag.CodeSemaNotCallable, e.Callee.Span(), "%s is not callable", callee)
	return TypeUnknown
}

func (a *Analyzer) checkArguments(name string, params []Type, args []Type, call *ast.Call) {
	if len(args) != len(params) {
		a.errorf(diag.CodeSemaArgumentMismatch, call.Span(), "%s expects %d argument(s), got %d", name, len(params), len(args))
		return
	}
	for i, arg := range args {
		if !Compatible(arg, asType(params[i])) {
			a.errorf(diag.CodeSemaArgumentMismatch, call.Args[i].Span(), "argument %d of %s must be %s, not %s", i+1, name, params[i], arg)
		}
	}
}

func (a *Analyzer) checkMember(e *ast.Member, scope *Scope) Type {
	target := a.checkExpr(e.Target, scope)

	switch t := target.(type) {
	case *Class:
		if field, ok := t.Fields[e.Field.Name]; ok {
			return asType(field)
		}
		if method, ok := t.Methods[e.Field.Name]; ok {
			return method
		}
		a.errorf(diag.CodeSemaUndefinedName, e.Field.Span(), "%s has no member %s", t.Name, e.Field.Name)
		return TypeUnknown

	case *Object:
		if field, ok := t.Fields[e.Field.Name]; ok {
			return asType(field)
		}
		return TypeUnknown

	case *Primitive:
		if t == TypeUnknown {
			return TypeUnknown
		}
	}

	a.errorf(diag.CodeSemaUndefinedName, e.Field.Span(), "%s has no member %s", target, e.Field.Name)
	return TypeUnknown
}

func (a *Analyzer) checkIndex(e *ast.Index, scope *Scope) Type {
	target := a.checkExpr(e.Target, scope)
	key := a.checkExpr(e.Key, scope)

	switch t := target.(type) {
	case *List:
		if key != TypeInteger && key != TypeUnknown {
			a.errorf(diag.CodeSemaTypeMismatch, e.Key.Span(), "list index must be an Integer, not %s", key)
		}
		return asType(t.Elem)

	case *Object:
		return TypeUnknown

	case *Primitive:
		if t == TypeString {
			if key != TypeInteger && key != TypeUnknown {
				a.errorf(diag.CodeSemaTypeMismatch, e.Key.Span(), "string index must be an Integer, not %s", key)
			}
			return TypeString
		}
		if t == TypeUnknown {
			return TypeUnknown
		}
	}

	a.errorf(diag.CodeSemaTypeMismatch, e.Target.Span(), "%s cannot be indexed", target)
	return TypeUnknown
}
