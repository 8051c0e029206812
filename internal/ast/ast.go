package ast

import "github.com/prose-lang/prose/internal/lexer"

// Node represents any AST node with an associated source span.
type Node interface {
	Span() lexer.Span
}

// Expr represents an expression node.
type Expr interface {
	Node
	exprNode()
}

// Stmt represents a statement node.
type Stmt interface {
	Node
	stmtNode()
}

// TypeExpr represents a type annotation expression.
type TypeExpr interface {
	Node
	typeNode()
}

// File represents a parsed compilation unit: a flat sequence of top-level
// statements and definitions in source order.
type File struct {
	Stmts []Stmt
	span  lexer.Span
}

// Span returns the span covering the entire file.
func (f *File) Span() lexer.Span { return f.span }

// NewFile constructs a file node with the provided span.
func NewFile(stmts []Stmt, span lexer.Span) *File {
	return &File{Stmts: stmts, span: span}
}

// SetSpan updates the file span.
func (f *File) SetSpan(span lexer.Span) {
	f.span = span
}

// Param represents a function parameter. Type is nil when the parameter
// carries no annotation and stays dynamically typed.
type Param struct {
	Name *Ident
	Type TypeExpr
	span lexer.Span
}

// Span returns the parameter span.
func (p *Param) Span() lexer.Span { return p.span }

// NewParam constructs a parameter node.
func NewParam(name *Ident, typ TypeExpr, span lexer.Span) *Param {
	return &Param{Name: name, Type: typ, span: span}
}

// Block represents an indented statement block.
type Block struct {
	Stmts []Stmt
	span  lexer.Span
}

// Span returns the block span.
func (b *Block) Span() lexer.Span { return b.span }

// NewBlock constructs a block node.
func NewBlock(stmts []Stmt, span lexer.Span) *Block {
	return &Block{Stmts: stmts, span: span}
}

// SetSpan updates the block span.
func (b *Block) SetSpan(span lexer.Span) {
	b.span = span
}

// FunctionDef represents a function definition. Return is nil for functions
// that declare no result type.
type FunctionDef struct {
	Name   *Ident
	Params []*Param
	Return TypeExpr
	Body   *Block
	span   lexer.Span
}

// Span returns the definition span.
func (d *FunctionDef) Span() lexer.Span { return d.span }

// NewFunctionDef constructs a function definition node.
func NewFunctionDef(name *Ident, params []*Param, ret TypeExpr, body *Block, span lexer.Span) *FunctionDef {
	return &FunctionDef{
		Name:   name,
		Params: params,
		Return: ret,
		Body:   body,
		span:   span,
	}
}

// SetSpan updates the definition span.
func (d *FunctionDef) SetSpan(span lexer.Span) {
	d.span = span
}

// stmtNode marks FunctionDef as a statement.
func (*FunctionDef) stmtNode() {}

// FieldDecl represents a field declaration inside a class body.
type FieldDecl struct {
	Name *Ident
	Type TypeExpr
	span lexer.Span
}

// Span returns the declaration span.
func (d *FieldDecl) Span() lexer.Span { return d.span }

// stmtNode marks FieldDecl as a statement.
func (*FieldDecl) stmtNode() {}

// NewFieldDecl constructs a field declaration node.
func NewFieldDecl(name *Ident, typ TypeExpr, span lexer.Span) *FieldDecl {
	return &FieldDecl{Name: name, Type: typ, span: span}
}

// ConstructorDef represents a class constructor.
type ConstructorDef struct {
	Params []*Param
	Body   *Block
	span   lexer.Span
}

// Span returns the definition span.
func (d *ConstructorDef) Span() lexer.Span { return d.span }

// NewConstructorDef constructs a constructor definition node.
func NewConstructorDef(params []*Param, body *Block, span lexer.Span) *ConstructorDef {
	return &ConstructorDef{Params: params, Body: body, span: span}
}

// stmtNode marks ConstructorDef as a statement.
func (*ConstructorDef) stmtNode() {}

// ClassDef represents a class definition with fields, an optional
// constructor and methods.
type ClassDef struct {
	Name    *Ident
	Fields  []*FieldDecl
	Ctor    *ConstructorDef
	Methods []*FunctionDef
	span    lexer.Span
}

// Span returns the definition span.
func (d *ClassDef) Span() lexer.Span { return d.span }

// NewClassDef constructs a class definition node.
func NewClassDef(name *Ident, span lexer.Span) *ClassDef {
	return &ClassDef{Name: name, span: span}
}

// SetSpan updates the definition span.
func (d *ClassDef) SetSpan(span lexer.Span) {
	d.span = span
}

// stmtNode marks ClassDef as a statement.
func (*ClassDef) stmtNode() {}

// VariableDecl represents a variable declaration. Type is nil for untyped
// declarations, Value is nil when no initializer is given.
type VariableDecl struct {
	Name  *Ident
	Type  TypeExpr
	Value Expr
	span  lexer.Span
}

// Span returns the statement span.
func (s *VariableDecl) Span() lexer.Span { return s.span }

// NewVariableDecl constructs a variable declaration node.
func NewVariableDecl(name *Ident, typ TypeExpr, value Expr, span lexer.Span) *VariableDecl {
	return &VariableDecl{Name: name, Type: typ, Value: value, span: span}
}

// SetSpan updates the statement span.
func (s *VariableDecl) SetSpan(span lexer.Span) {
	s.span = span
}

// stmtNode marks VariableDecl as a statement.
func (*VariableDecl) stmtNode() {}

// Assignment represents a set statement. Target is an identifier, a member
// access or an index expression.
type Assignment struct {
	Target Expr
	Value  Expr
	span   lexer.Span
}

// Span returns the statement span.
func (s *Assignment) Span() lexer.Span { return s.span }

// NewAssignment constructs an assignment node.
func NewAssignment(target, value Expr, span lexer.Span) *Assignment {
	return &Assignment{Target: target, Value: value, span: span}
}

// stmtNode marks Assignment as a statement.
func (*Assignment) stmtNode() {}

// ElseIf represents one else-if arm of an if statement.
type ElseIf struct {
	Cond Expr
	Body *Block
	span lexer.Span
}

// Span returns the arm span.
func (s *ElseIf) Span() lexer.Span { return s.span }

// NewElseIf constructs an else-if arm node.
func NewElseIf(cond Expr, body *Block, span lexer.Span) *ElseIf {
	return &ElseIf{Cond: cond, Body: body, span: span}
}

// If represents a conditional statement with optional else-if arms and an
// optional else block.
type If struct {
	Cond    Expr
	Then    *Block
	ElseIfs []*ElseIf
	Else    *Block
	span    lexer.Span
}

// Span returns the statement span.
func (s *If) Span() lexer.Span { return s.span }

// NewIf constructs an if statement node.
func NewIf(cond Expr, then *Block, span lexer.Span) *If {
	return &If{Cond: cond, Then: then, span: span}
}

// SetSpan updates the statement span.
func (s *If) SetSpan(span lexer.Span) {
	s.span = span
}

// stmtNode marks If as a statement.
func (*If) stmtNode() {}

// While represents a while loop.
type While struct {
	Cond Expr
	Body *Block
	span lexer.Span
}

// Span returns the statement span.
func (s *While) Span() lexer.Span { return s.span }

// NewWhile constructs a while loop node.
func NewWhile(cond Expr, body *Block, span lexer.Span) *While {
	return &While{Cond: cond, Body: body, span: span}
}

// stmtNode marks While as a statement.
func (*While) stmtNode() {}

// ForEach represents iteration over a sequence, binding each element to Iter.
type ForEach struct {
	Iter *Ident
	Seq  Expr
	Body *Block
	span lexer.Span
}

// Span returns the statement span.
func (s *ForEach) Span() lexer.Span { return s.span }

// NewForEach constructs a for-each loop node.
func NewForEach(iter *Ident, seq Expr, body *Block, span lexer.Span) *ForEach {
	return &ForEach{Iter: iter, Seq: seq, Body: body, span: span}
}

// stmtNode marks ForEach as a statement.
func (*ForEach) stmtNode() {}

// Return represents a return statement. Value is nil for a bare return.
type Return struct {
	Value Expr
	span  lexer.Span
}

// Span returns the statement span.
func (s *Return) Span() lexer.Span { return s.span }

// NewReturn constructs a return statement node.
func NewReturn(value Expr, span lexer.Span) *Return {
	return &Return{Value: value, span: span}
}

// stmtNode marks Return as a statement.
func (*Return) stmtNode() {}

// Import represents an import statement naming a standard library.
type Import struct {
	Name *Ident
	span lexer.Span
}

// Span returns the statement span.
func (s *Import) Span() lexer.Span { return s.span }

// NewImport constructs an import statement node.
func NewImport(name *Ident, span lexer.Span) *Import {
	return &Import{Name: name, span: span}
}

// stmtNode marks Import as a statement.
func (*Import) stmtNode() {}

// ExprStmt represents an expression used as a statement.
type ExprStmt struct {
	Expr Expr
	span lexer.Span
}

// Span returns the statement span.
func (s *ExprStmt) Span() lexer.Span { return s.span }

// NewExprStmt constructs an expression statement node.
func NewExprStmt(expr Expr, span lexer.Span) *ExprStmt {
	return &ExprStmt{Expr: expr, span: span}
}

// stmtNode marks ExprStmt as a statement.
func (*ExprStmt) stmtNode() {}

// BadStmt is the placeholder left behind when statement parsing fails and
// the parser recovers at the next statement boundary.
type BadStmt struct {
	span lexer.Span
}

// Span returns the statement span.
func (s *BadStmt) Span() lexer.Span { return s.span }

// NewBadStmt constructs a bad statement placeholder.
func NewBadStmt(span lexer.Span) *BadStmt {
	return &BadStmt{span: span}
}

// stmtNode marks BadStmt as a statement.
func (*BadStmt) stmtNode() {}

// NamedType represents a named type reference.
type NamedType struct {
	Name *Ident
	span lexer.Span
}

// Span returns the type span.
func (t *NamedType) Span() lexer.Span { return t.span }

// NewNamedType constructs a named type node.
func NewNamedType(name *Ident, span lexer.Span) *NamedType {
	return &NamedType{Name: name, span: span}
}

// typeNode marks NamedType as a type expression.
func (*NamedType) typeNode() {}

// ListType represents a List of T type annotation.
type ListType struct {
	Elem TypeExpr
	span lexer.Span
}

// Span returns the type span.
func (t *ListType) Span() lexer.Span { return t.span }

// NewListType constructs a list type node.
func NewListType(elem TypeExpr, span lexer.Span) *ListType {
	return &ListType{Elem: elem, span: span}
}

// typeNode marks ListType as a type expression.
func (*ListType) typeNode() {}
