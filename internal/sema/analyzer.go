// Package sema resolves names and checks types over a parsed file. Prose is
// gradually typed: annotated declarations are checked strictly, everything
// else flows through as Unknown and is accepted wherever it lands.
package sema

import (
	"fmt"

	"github.com/prose-lang/prose/internal/ast"
	"github.com/prose-lang/prose/internal/catalogue"
	"github.com/prose-lang/prose/internal/diag"
	"github.com/prose-lang/prose/internal/lexer"
)

// Info carries the analyzer's findings for one checked file.
type Info struct {
	// Types records the resolved type of every checked expression.
	Types map[ast.Expr]Type
	// Uses links every resolved identifier to its symbol.
	Uses map[*ast.Ident]*Symbol
	// Imports lists the library names imported by the file, in order.
	Imports []string
}

// Analyzer checks files against a module scope that persists across calls,
// so a session can feed it one input at a time and later inputs see earlier
// definitions.
type Analyzer struct {
	cat     catalogue.Catalogue
	module  *Scope
	classes map[string]*Class

	diags []diag.Diagnostic
	info  *Info
}

// New returns an analyzer with a fresh module scope resolving imports
// against cat.
func New(cat catalogue.Catalogue) *Analyzer {
	a := &Analyzer{
		cat:     cat,
		module:  NewScope(nil),
		classes: make(map[string]*Class),
	}

	// print is available without any import.
	a.module.Define(&Symbol{
		Name: "print",
		Kind: SymbolBuiltin,
		Type: &Function{Name: "print", Params: []Type{TypeUnknown}, Result: TypeVoid},
	})

	return a
}

// ModuleScope exposes the persistent module scope.
func (a *Analyzer) ModuleScope() *Scope {
	return a.module
}

// Check analyzes one file. Declarations are hoisted first so later
// statements can reference functions and classes defined further down.
func (a *Analyzer) Check(file *ast.File) (*Info, []diag.Diagnostic) {
	a.diags = nil
	a.info = &Info{
		Types: make(map[ast.Expr]Type),
		Uses:  make(map[*ast.Ident]*Symbol),
	}

	// Pass 1a: class shells, so types can reference classes in any order.
	for _, stmt := range file.Stmts {
		if def, ok := stmt.(*ast.ClassDef); ok {
			a.declareClassShell(def)
		}
	}

	// Pass 1b: imports, class members and function signatures.
	for _, stmt := range file.Stmts {
		switch s := stmt.(type) {
		case *ast.Import:
			a.declareImport(s)
		case *ast.ClassDef:
			a.fillClass(s)
		case *ast.FunctionDef:
			a.declare(a.module, &Symbol{
				Name: s.Name.Name,
				Kind: SymbolFunction,
				Type: a.functionType(s.Name.Name, s.Params, s.Return),
				Span: s.Name.Span(),
			})
		}
	}

	// Pass 2: check every statement.
	for _, stmt := range file.Stmts {
		a.checkStmt(stmt, a.module, nil)
	}

	return a.info, a.diags
}

func (a *Analyzer) errorf(code diag.Code, span lexer.Span, format string, args ...any) *diag.Diagnostic {
	d := diag.Errorf(diag.StageSema, code, toDiagSpan(span), format, args...)
	a.diags = append(a.diags, d)
	return &a.diags[len(a.diags)-1]
}

func (a *Analyzer) warnf(code diag.Code, span lexer.Span, format string, args ...any) *diag.Diagnostic {
	d := diag.Warnf(diag.StageSema, code, toDiagSpan(span), format, args...)
	a.diags = append(a.diags, d)
	return &a.diags[len(a.diags)-1]
}

func toDiagSpan(span lexer.Span) diag.Span {
	return diag.Span{
		Filename: span.Filename,
		Line:     span.Line,
		Column:   span.Column,
		Start:    span.Start,
		End:      span.End,
	}
}

// declare binds sym, reporting a redeclaration error for same-scope
// conflicts and a shadowing warning when an enclosing binding is hidden.
// Library exports and built-ins may be redefined freely, with a warning.
func (a *Analyzer) declare(scope *Scope, sym *Symbol) {
	if existing, ok := scope.LookupLocal(sym.Name); ok {
		if existing.Kind == SymbolLibraryExport || existing.Kind == SymbolBuiltin {
			a.warnf(diag.CodeSemaShadowed, sym.Span, "%s hides the %s of the same name", sym.Name, existing.Kind)
		} else {
			d := a.errorf(diag.CodeSemaRedeclared, sym.Span, "%s is already declared in this scope", sym.Name)
			if prev := toDiagSpan(existing.Span); prev.IsValid() {
				d.Notes = append(d.Notes, fmt.Sprintf("previous declaration at %s", prev))
			}
			return
		}
	} else if scope.Parent != nil {
		if outer, ok := scope.Parent.Lookup(sym.Name); ok {
			a.warnf(diag.CodeSemaShadowed, sym.Span, "%s shadows a %s from an enclosing scope", sym.Name, outer.Kind)
		}
	}
	scope.Define(sym)
}

func (a *Analyzer) declareImport(imp *ast.Import) {
	name := imp.Name.Name
	lib, ok := a.cat.Lookup(name)
	if !ok {
		d := a.errorf(diag.CodeSemaUnknownLibrary, imp.Name.Span(), "unknown library %s", name)
		if suggestion := closestName(name, a.cat.Names()); suggestion != "" {
			d.Suggestion = fmt.Sprintf("did you mean %s?", suggestion)
		}
		return
	}

	a.info.Imports = append(a.info.Imports, name)

	for _, sig := range lib.Exports {
		if existing, ok := a.module.LookupLocal(sig.Name); ok && existing.Kind != SymbolLibraryExport && existing.Kind != SymbolBuiltin {
			a.warnf(diag.CodeSemaShadowed, imp.Name.Span(), "import of %s does not replace your definition of %s", name, sig.Name)
			continue
		}
		a.module.Define(&Symbol{
			Name: sig.Name,
			Kind: SymbolLibraryExport,
			Type: signatureType(sig),
		})
	}
}

func signatureType(sig catalogue.Signature) *Function {
	params := make([]Type, len(sig.Params))
	for i, p := range sig.Params {
		params[i] = typeByName(p)
	}
	var result Type = TypeVoid
	if sig.Result != "" {
		result = typeByName(sig.Result)
	}
	return &Function{Name: sig.Name, Params: params, Result: result}
}

func typeByName(name string) Type {
	if t, ok := PrimitiveByName(name); ok {
		return t
	}
	return TypeUnknown
}

func (a *Analyzer) declareClassShell(def *ast.ClassDef) {
	name := def.Name.Name
	class := &Class{
		Name:    name,
		Fields:  make(map[string]Type),
		Methods: make(map[string]*Function),
	}
	a.declare(a.module, &Symbol{
		Name: name,
		Kind: SymbolClass,
		Type: class,
		Span: def.Name.Span(),
	})
	a.classes[name] = class
}

func (a *Analyzer) fillClass(def *ast.ClassDef) {
	class, ok := a.classes[def.Name.Name]
	if !ok {
		return
	}

	for _, field := range def.Fields {
		if _, exists := class.Fields[field.Name.Name]; exists {
			a.errorf(diag.CodeSemaRedeclared, field.Name.Span(), "field %s is already declared in class %s", field.Name.Name, class.Name)
			continue
		}
		class.Fields[field.Name.Name] = a.resolveType(field.Type)
	}

	if def.Ctor != nil {
		class.Ctor = a.functionType(class.Name, def.Ctor.Params, nil)
	}

	for _, method := range def.Methods {
		if _, exists := class.Methods[method.Name.Name]; exists {
			a.errorf(diag.CodeSemaRedeclared, method.Name.Span(), "method %s is already declared in class %s", method.Name.Name, class.Name)
			continue
		}
		class.Methods[method.Name.Name] = a.functionType(method.Name.Name, method.Params, method.Return)
	}
}

func (a *Analyzer) functionType(name string, params []*ast.Param, ret ast.TypeExpr) *Function {
	fn := &Function{Name: name, Result: TypeVoid}
	for _, p := range params {
		fn.Params = append(fn.Params, a.resolveType(p.Type))
	}
	if ret != nil {
		fn.Result = a.resolveType(ret)
	}
	return fn
}

// resolveType maps a syntactic type annotation to a semantic type. A nil
// annotation means the slot is dynamically typed.
func (a *Analyzer) resolveType(t ast.TypeExpr) Type {
	switch t := t.(type) {
	case nil:
		return TypeUnknown
	case *ast.NamedType:
		if typ, ok := PrimitiveByName(t.Name.Name); ok {
			return typ
		}
		if class, ok := a.classes[t.Name.Name]; ok {
			return class
		}
		if sym, ok := a.module.Lookup(t.Name.Name); ok && sym.Kind == SymbolClass {
			if class, ok := sym.Type.(*Class); ok {
				return class
			}
		}
		a.errorf(diag.CodeSemaUndefinedName, t.Span(), "unknown type %s", t.Name.Name)
		return TypeUnknown
	case *ast.ListType:
		return &List{Elem: a.resolveType(t.Elem)}
	default:
		return TypeUnknown
	}
}

// closestName returns the candidate nearest to name, if any is close enough
// to plausibly be a typo.
func closestName(name string, candidates []string) string {
	best := ""
	bestDist := 3 // more than two edits away is not a useful suggestion
	for _, cand := range candidates {
		if d := editDistance(name, cand); d < bestDist {
			best = cand
			bestDist = d
		}
	}
	return best
}

func editDistance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	prev := make([]int, len(rb)+1)
	cur := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		cur[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			cur[j] = min(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}
	return prev[len(rb)]
}
