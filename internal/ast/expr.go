package ast

import "github.com/prose-lang/prose/internal/lexer"

// Ident represents an identifier.
type Ident struct {
	Name string
	span lexer.Span
}

// Span returns the identifier span.
func (i *Ident) Span() lexer.Span { return i.span }

// NewIdent constructs an identifier node.
func NewIdent(name string, span lexer.Span) *Ident {
	return &Ident{Name: name, span: span}
}

// exprNode marks Ident as an expression.
func (*Ident) exprNode() {}

// NumberLit represents an integer or floating-point literal. Text preserves
// the literal exactly as written.
type NumberLit struct {
	Text    string
	IsFloat bool
	span    lexer.Span
}

// Span returns the literal span.
func (l *NumberLit) Span() lexer.Span { return l.span }

// NewNumberLit constructs a number literal node.
func NewNumberLit(text string, isFloat bool, span lexer.Span) *NumberLit {
	return &NumberLit{Text: text, IsFloat: isFloat, span: span}
}

// exprNode marks NumberLit as an expression.
func (*NumberLit) exprNode() {}

// StringLit represents a string literal. Value holds the decoded contents.
type StringLit struct {
	Value string
	span  lexer.Span
}

// Span returns the literal span.
func (l *StringLit) Span() lexer.Span { return l.span }

// NewStringLit constructs a string literal node.
func NewStringLit(value string, span lexer.Span) *StringLit {
	return &StringLit{Value: value, span: span}
}

// exprNode marks StringLit as an expression.
func (*StringLit) exprNode() {}

// BoolLit represents a boolean literal.
type BoolLit struct {
	Value bool
	span  lexer.Span
}

// Span returns the literal span.
func (l *BoolLit) Span() lexer.Span { return l.span }

// NewBoolLit constructs a boolean literal node.
func NewBoolLit(value bool, span lexer.Span) *BoolLit {
	return &BoolLit{Value: value, span: span}
}

// exprNode marks BoolLit as an expression.
func (*BoolLit) exprNode() {}

// ListLit represents a list literal.
type ListLit struct {
	Elems []Expr
	span  lexer.Span
}

// Span returns the literal span.
func (l *ListLit) Span() lexer.Span { return l.span }

// NewListLit constructs a list literal node.
func NewListLit(elems []Expr, span lexer.Span) *ListLit {
	return &ListLit{Elems: elems, span: span}
}

// exprNode marks ListLit as an expression.
func (*ListLit) exprNode() {}

// ObjectField is one key-value pair of an object literal.
type ObjectField struct {
	Key   *Ident
	Value Expr
}

// ObjectLit represents an object literal with ordered fields.
type ObjectLit struct {
	Fields []ObjectField
	span   lexer.Span
}

// Span returns the literal span.
func (l *ObjectLit) Span() lexer.Span { return l.span }

// exprNode marks ObjectLit as an expression.
func (*ObjectLit) exprNode() {}

// NewObjectLit constructs an object literal node.
func NewObjectLit(fields []ObjectField, span lexer.Span) *ObjectLit {
	return &ObjectLit{Fields: fields, span: span}
}

// BinaryOp represents an infix binary expression.
type BinaryOp struct {
	Op    lexer.TokenType
	Left  Expr
	Right Expr
	span  lexer.Span
}

// Span returns the expression span.
func (e *BinaryOp) Span() lexer.Span { return e.span }

// NewBinaryOp constructs a binary expression node.
func NewBinaryOp(op lexer.TokenType, left, right Expr, span lexer.Span) *BinaryOp {
	return &BinaryOp{Op: op, Left: left, Right: right, span: span}
}

// exprNode marks BinaryOp as an expression.
func (*BinaryOp) exprNode() {}

// UnaryOp represents a prefix expression (not, unary minus).
type UnaryOp struct {
	Op   lexer.TokenType
	Expr Expr
	span lexer.Span
}

// Span returns the expression span.
func (e *UnaryOp) Span() lexer.Span { return e.span }

// NewUnaryOp constructs a unary expression node.
func NewUnaryOp(op lexer.TokenType, expr Expr, span lexer.Span) *UnaryOp {
	return &UnaryOp{Op: op, Expr: expr, span: span}
}

// exprNode marks UnaryOp as an expression.
func (*UnaryOp) exprNode() {}

// Call represents a function or method call.
type Call struct {
	Callee Expr
	Args   []Expr
	span   lexer.Span
}

// Span returns the expression span.
func (e *Call) Span() lexer.Span { return e.span }

// NewCall constructs a call expression node.
func NewCall(callee Expr, args []Expr, span lexer.Span) *Call {
	return &Call{Callee: callee, Args: args, span: span}
}

// exprNode marks Call as an expression.
func (*Call) exprNode() {}

// Member represents a field or method access expression.
type Member struct {
	Target Expr
	Field  *Ident
	span   lexer.Span
}

// Span returns the expression span.
func (e *Member) Span() lexer.Span { return e.span }

// NewMember constructs a member access node.
func NewMember(target Expr, field *Ident, span lexer.Span) *Member {
	return &Member{Target: target, Field: field, span: span}
}

// exprNode marks Member as an expression.
func (*Member) exprNode() {}

// Index represents an index expression.
type Index struct {
	Target Expr
	Key    Expr
	span   lexer.Span
}

// Span returns the expression span.
func (e *Index) Span() lexer.Span { return e.span }

// NewIndex constructs an index expression node.
func NewIndex(target, key Expr, span lexer.Span) *Index {
	return &Index{Target: target, Key: key, span: span}
}

// exprNode marks Index as an expression.
func (*Index) exprNode() {}

// BadExpr is the placeholder produced when expression parsing fails.
type BadExpr struct {
	span lexer.Span
}

// Span returns the expression span.
func (e *BadExpr) Span() lexer.Span { return e.span }

// NewBadExpr constructs a bad expression placeholder.
func NewBadExpr(span lexer.Span) *BadExpr {
	return &BadExpr{span: span}
}

// exprNode marks BadExpr as an expression.
func (*BadExpr) exprNode() {}
