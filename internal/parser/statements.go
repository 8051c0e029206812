package parser

import (
	"strings"

	"github.com/prose-lang/prose/internal/ast"
	"github.com/prose-lang/prose/internal/lexer"
)

// parseStatement dispatches on the current token. Statement parsers follow a
// shared convention: they are entered with curTok on the statement's first
// token and return with curTok on its final token (the trailing NEWLINE for
// simple statements, the closing DEDENT for block statements). A nil return
// means the statement could not be parsed and the caller must recover.
func (p *Parser) parseStatement() ast.Stmt {
	switch p.curTok.Type {
	case lexer.DEFINE:
		switch p.peekTok.Type {
		case lexer.FUNCTION:
			return p.parseFunctionDef()
		case lexer.CLASS:
			return p.parseClassDef()
		default:
			p.reportError("expected 'function' or 'class' after 'define'", p.peekTok.Span)
			return nil
		}
	case lexer.CREATE:
		return p.parseVariableDecl()
	case lexer.SET:
		return p.parseAssignment()
	case lexer.IF:
		return p.parseIf()
	case lexer.WHILE:
		return p.parseWhile()
	case lexer.FOREACH:
		return p.parseForEach()
	case lexer.RETURN:
		return p.parseReturn()
	case lexer.IMPORT:
		return p.parseImport()
	default:
		return p.parseExprStatement()
	}
}

// parseBlock parses a COLON NEWLINE INDENT ... DEDENT block. It is entered
// with curTok on the token before the colon and returns with curTok on the
// closing DEDENT.
func (p *Parser) parseBlock() *ast.Block {
	if !p.expectPeek(lexer.COLON) {
		return nil
	}
	if !p.expectPeek(lexer.NEWLINE) {
		return nil
	}
	if !p.expectPeek(lexer.INDENT) {
		return nil
	}

	block := ast.NewBlock(nil, p.spanWithFilename(p.curTok.Span))
	p.nextToken()

	for p.curTok.Type != lexer.DEDENT && p.curTok.Type != lexer.EOF {
		if p.curTok.Type == lexer.NEWLINE {
			p.nextToken()
			continue
		}

		stmt := p.parseStatement()
		if stmt == nil {
			stmt = p.recoverStatement()
		}
		block.Stmts = append(block.Stmts, stmt)
		block.SetSpan(mergeSpan(block.Span(), stmt.Span()))
		p.nextToken()
	}

	block.SetSpan(mergeSpan(block.Span(), p.spanWithFilename(p.curTok.Span)))
	return block
}

// parseFunctionDef parses
//
//	define function NAME that takes a as T, b and returns T:
//	    BODY
//
// The parameter list and the result type are both optional.
func (p *Parser) parseFunctionDef() ast.Stmt {
	start := p.curTok.Span

	p.nextToken() // FUNCTION
	if !p.expectPeek(lexer.IDENT) {
		return nil
	}
	name := ast.NewIdent(p.curTok.Value, p.spanWithFilename(p.curTok.Span))

	var params []*ast.Param
	if p.peekTok.Type == lexer.TAKES {
		p.nextToken()
		var ok bool
		params, ok = p.parseParamList()
		if !ok {
			return nil
		}
	}

	var ret ast.TypeExpr
	if p.peekTok.Type == lexer.RETURNS {
		p.nextToken()
		p.nextToken()
		ret = p.parseTypeExpr()
		if ret == nil {
			return nil
		}
	}

	body := p.parseBlock()
	if body == nil {
		return nil
	}

	span := mergeSpan(p.spanWithFilename(start), body.Span())
	return ast.NewFunctionDef(name, params, ret, body, span)
}

// parseParamList parses "a as Integer, b as String, c" style parameter
// lists. It is entered with curTok on the THAT_TAKES phrase and returns with
// curTok on the last token of the final parameter.
func (p *Parser) parseParamList() ([]*ast.Param, bool) {
	var params []*ast.Param

	for {
		if !p.expectPeek(lexer.IDENT) {
			return nil, false
		}
		name := ast.NewIdent(p.curTok.Value, p.spanWithFilename(p.curTok.Span))
		span := name.Span()

		var typ ast.TypeExpr
		if p.peekTok.Type == lexer.AS {
			p.nextToken()
			p.nextToken()
			typ = p.parseTypeExpr()
			if typ == nil {
				return nil, false
			}
			span = mergeSpan(span, typ.Span())
		}

		params = append(params, ast.NewParam(name, typ, span))

		if p.peekTok.Type != lexer.COMMA {
			return params, true
		}
		p.nextToken()
	}
}

// parseTypeExpr parses a type annotation: a plain name, or "List of T". It
// is entered with curTok on the first token of the type and returns with
// curTok on its last token.
func (p *Parser) parseTypeExpr() ast.TypeExpr {
	if p.curTok.Type != lexer.IDENT {
		p.reportError("expected a type name, found "+describeToken(p.curTok.Type), p.curTok.Span)
		return nil
	}

	name := ast.NewIdent(p.curTok.Value, p.spanWithFilename(p.curTok.Span))

	if strings.EqualFold(name.Name, "List") && p.peekTok.Type == lexer.OF {
		start := name.Span()
		p.nextToken() // OF
		p.nextToken()
		elem := p.parseTypeExpr()
		if elem == nil {
			return nil
		}
		return ast.NewListType(elem, mergeSpan(start, elem.Span()))
	}

	return ast.NewNamedType(name, name.Span())
}

// parseClassDef parses
//
//	define class NAME:
//	    create FIELD as T
//	    define constructor that takes ...:
//	    define function METHOD ...:
func (p *Parser) parseClassDef() ast.Stmt {
	start := p.curTok.Span

	p.nextToken() // CLASS
	if !p.expectPeek(lexer.IDENT) {
		return nil
	}
	class := ast.NewClassDef(ast.NewIdent(p.curTok.Value, p.spanWithFilename(p.curTok.Span)), p.spanWithFilename(start))

	if !p.expectPeek(lexer.COLON) {
		return nil
	}
	if !p.expectPeek(lexer.NEWLINE) {
		return nil
	}
	if !p.expectPeek(lexer.INDENT) {
		return nil
	}
	p.nextToken()

	for p.curTok.Type != lexer.DEDENT && p.curTok.Type != lexer.EOF {
		if p.curTok.Type == lexer.NEWLINE {
			p.nextToken()
			continue
		}

		var member ast.Stmt
		switch {
		case p.curTok.Type == lexer.CREATE:
			member = p.parseFieldDecl()
		case p.curTok.Type == lexer.DEFINE && p.peekTok.Type == lexer.CONSTRUCTOR:
			member = p.parseConstructorDef()
		case p.curTok.Type == lexer.DEFINE && p.peekTok.Type == lexer.FUNCTION:
			member = p.parseFunctionDef()
		default:
			p.reportError("expected a field, constructor or method inside class "+class.Name.Name, p.curTok.Span)
		}

		if member == nil {
			member = p.recoverStatement()
		}

		switch m := member.(type) {
		case *ast.FieldDecl:
			class.Fields = append(class.Fields, m)
		case *ast.ConstructorDef:
			if class.Ctor != nil {
				p.reportError("class "+class.Name.Name+" already has a constructor", m.Span())
			} else {
				class.Ctor = m
			}
		case *ast.FunctionDef:
			class.Methods = append(class.Methods, m)
		}

		class.SetSpan(mergeSpan(class.Span(), member.Span()))
		p.nextToken()
	}

	class.SetSpan(mergeSpan(class.Span(), p.spanWithFilename(p.curTok.Span)))
	return class
}

// parseFieldDecl parses "create NAME as TYPE" inside a class body.
func (p *Parser) parseFieldDecl() ast.Stmt {
	start := p.curTok.Span

	if !p.expectPeek(lexer.IDENT) {
		return nil
	}
	name := ast.NewIdent(p.curTok.Value, p.spanWithFilename(p.curTok.Span))

	var typ ast.TypeExpr
	if p.peekTok.Type == lexer.AS {
		p.nextToken()
		p.nextToken()
		typ = p.parseTypeExpr()
		if typ == nil {
			return nil
		}
	}

	if !p.expectPeek(lexer.NEWLINE) {
		return nil
	}

	return ast.NewFieldDecl(name, typ, mergeSpan(p.spanWithFilename(start), p.spanWithFilename(p.curTok.Span)))
}

// parseConstructorDef parses "define constructor that takes ...:" blocks.
func (p *Parser) parseConstructorDef() ast.Stmt {
	start := p.curTok.Span

	p.nextToken() // CONSTRUCTOR

	var params []*ast.Param
	if p.peekTok.Type == lexer.TAKES {
		p.nextToken()
		var ok bool
		params, ok = p.parseParamList()
		if !ok {
			return nil
		}
	}

	body := p.parseBlock()
	if body == nil {
		return nil
	}

	span := mergeSpan(p.spanWithFilename(start), body.Span())
	return ast.NewConstructorDef(params, body, span)
}

// parseVariableDecl parses "create NAME [as TYPE] [to EXPR]".
func (p *Parser) parseVariableDecl() ast.Stmt {
	start := p.curTok.Span

	if !p.expectPeek(lexer.IDENT) {
		return nil
	}
	name := ast.NewIdent(p.curTok.Value, p.spanWithFilename(p.curTok.Span))

	var typ ast.TypeExpr
	if p.peekTok.Type == lexer.AS {
		p.nextToken()
		p.nextToken()
		typ = p.parseTypeExpr()
		if typ == nil {
			return nil
		}
	}

	var value ast.Expr
	if p.peekTok.Type == lexer.TO {
		p.nextToken()
		p.nextToken()
		value = p.parseExpr(precedenceLowest)
		if value == nil {
			return nil
		}
	}

	if !p.expectPeek(lexer.NEWLINE) {
		return nil
	}

	return ast.NewVariableDecl(name, typ, value, mergeSpan(p.spanWithFilename(start), p.spanWithFilename(p.curTok.Span)))
}

// parseAssignment parses "set TARGET to EXPR". The target may be a name, a
// member access or an index expression.
func (p *Parser) parseAssignment() ast.Stmt {
	start := p.curTok.Span

	p.nextToken()
	target := p.parseExpr(precedenceLowest)
	if target == nil {
		return nil
	}

	switch target.(type) {
	case *ast.Ident, *ast.Member, *ast.Index:
	default:
		p.reportError("cannot assign to this expression", target.Span())
	}

	if !p.expectPeek(lexer.TO) {
		return nil
	}
	p.nextToken()

	value := p.parseExpr(precedenceLowest)
	if value == nil {
		return nil
	}

	if !p.expectPeek(lexer.NEWLINE) {
		return nil
	}

	return ast.NewAssignment(target, value, mergeSpan(p.spanWithFilename(start), p.spanWithFilename(p.curTok.Span)))
}

// parseIf parses an if statement with any number of else-if arms and an
// optional trailing else block.
func (p *Parser) parseIf() ast.Stmt {
	start := p.curTok.Span

	p.nextToken()
	cond := p.parseExpr(precedenceLowest)
	if cond == nil {
		return nil
	}

	then := p.parseBlock()
	if then == nil {
		return nil
	}

	stmt := ast.NewIf(cond, then, mergeSpan(p.spanWithFilename(start), then.Span()))

	for p.peekTok.Type == lexer.ELIF {
		p.nextToken()
		armStart := p.curTok.Span

		p.nextToken()
		armCond := p.parseExpr(precedenceLowest)
		if armCond == nil {
			return nil
		}

		armBody := p.parseBlock()
		if armBody == nil {
			return nil
		}

		arm := ast.NewElseIf(armCond, armBody, mergeSpan(p.spanWithFilename(armStart), armBody.Span()))
		stmt.ElseIfs = append(stmt.ElseIfs, arm)
		stmt.SetSpan(mergeSpan(stmt.Span(), armBody.Span()))
	}

	if p.peekTok.Type == lexer.ELSE {
		p.nextToken()
		elseBody := p.parseBlock()
		if elseBody == nil {
			return nil
		}
		stmt.Else = elseBody
		stmt.SetSpan(mergeSpan(stmt.Span(), elseBody.Span()))
	}

	return stmt
}

// parseWhile parses "while COND:" loops.
func (p *Parser) parseWhile() ast.Stmt {
	start := p.curTok.Span

	p.nextToken()
	cond := p.parseExpr(precedenceLowest)
	if cond == nil {
		return nil
	}

	body := p.parseBlock()
	if body == nil {
		return nil
	}

	return ast.NewWhile(cond, body, mergeSpan(p.spanWithFilename(start), body.Span()))
}

// parseForEach parses "for each NAME in EXPR:" loops.
func (p *Parser) parseForEach() ast.Stmt {
	start := p.curTok.Span

	if !p.expectPeek(lexer.IDENT) {
		return nil
	}
	iter := ast.NewIdent(p.curTok.Value, p.spanWithFilename(p.curTok.Span))

	if !p.expectPeek(lexer.IN) {
		return nil
	}
	p.nextToken()

	seq := p.parseExpr(precedenceLowest)
	if seq == nil {
		return nil
	}

	body := p.parseBlock()
	if body == nil {
		return nil
	}

	return ast.NewForEach(iter, seq, body, mergeSpan(p.spanWithFilename(start), body.Span()))
}

// parseReturn parses "return [EXPR]".
func (p *Parser) parseReturn() ast.Stmt {
	start := p.curTok.Span

	if p.peekTok.Type == lexer.NEWLINE {
		p.nextToken()
		return ast.NewReturn(nil, mergeSpan(p.spanWithFilename(start), p.spanWithFilename(p.curTok.Span)))
	}

	p.nextToken()
	value := p.parseExpr(precedenceLowest)
	if value == nil {
		return nil
	}

	if !p.expectPeek(lexer.NEWLINE) {
		return nil
	}

	return ast.NewReturn(value, mergeSpan(p.spanWithFilename(start), p.spanWithFilename(p.curTok.Span)))
}

// parseImport parses "import NAME".
func (p *Parser) parseImport() ast.Stmt {
	start := p.curTok.Span

	if !p.expectPeek(lexer.IDENT) {
		return nil
	}
	name := ast.NewIdent(p.curTok.Value, p.spanWithFilename(p.curTok.Span))

	if !p.expectPeek(lexer.NEWLINE) {
		return nil
	}

	return ast.NewImport(name, mergeSpan(p.spanWithFilename(start), p.spanWithFilename(p.curTok.Span)))
}

// parseExprStatement parses a bare expression used as a statement, most
// commonly a call.
func (p *Parser) parseExprStatement() ast.Stmt {
	start := p.curTok.Span

	expr := p.parseExpr(precedenceLowest)
	if expr == nil {
		return nil
	}

	if !p.expectPeek(lexer.NEWLINE) {
		return nil
	}

	return ast.NewExprStmt(expr, mergeSpan(p.spanWithFilename(start), p.spanWithFilename(p.curTok.Span)))
}
