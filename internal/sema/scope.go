package sema

import "github.com/prose-lang/prose/internal/lexer"

// SymbolKind classifies what a name is bound to.
type SymbolKind int

const (
	SymbolVariable SymbolKind = iota
	SymbolFunction
	SymbolClass
	SymbolLibraryExport
	SymbolBuiltin
)

func (k SymbolKind) String() string {
	switch k {
	case SymbolVariable:
		return "variable"
	case SymbolFunction:
		return "function"
	case SymbolClass:
		return "class"
	case SymbolLibraryExport:
		return "library function"
	case SymbolBuiltin:
		return "built-in"
	default:
		return "symbol"
	}
}

// Symbol is one named entity.
type Symbol struct {
	Name string
	Kind SymbolKind
	Type Type
	Span lexer.Span
}

// Scope is a lexical scope chained to its parent. The module scope has a nil
// parent; function bodies, blocks and class bodies each open a child scope.
type Scope struct {
	Parent  *Scope
	Symbols map[string]*Symbol
}

// NewScope returns a scope chained to parent.
func NewScope(parent *Scope) *Scope {
	return &Scope{
		Parent:  parent,
		Symbols: make(map[string]*Symbol),
	}
}

// Define binds sym in this scope, replacing any same-scope binding.
func (s *Scope) Define(sym *Symbol) {
	s.Symbols[sym.Name] = sym
}

// LookupLocal finds a binding in this scope only.
func (s *Scope) LookupLocal(name string) (*Symbol, bool) {
	sym, ok := s.Symbols[name]
	return sym, ok
}

// Lookup finds a binding in this scope or any enclosing scope.
func (s *Scope) Lookup(name string) (*Symbol, bool) {
	for scope := s; scope != nil; scope = scope.Parent {
		if sym, ok := scope.Symbols[name]; ok {
			return sym, true
		}
	}
	return nil, false
}
