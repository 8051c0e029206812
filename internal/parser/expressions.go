package parser

import (
	"github.com/prose-lang/prose/internal/ast"
	"github.com/prose-lang/prose/internal/lexer"
)

// parseExpr is the core of the Pratt loop. Expression parsers are entered
// with curTok on the first token of the expression and return with curTok on
// its last token.
func (p *Parser) parseExpr(precedence int) ast.Expr {
	prefix := p.prefixFns[p.curTok.Type]
	if prefix == nil {
		p.reportError("unexpected "+describeToken(p.curTok.Type)+" in expression", p.curTok.Span)
		return nil
	}

	left := prefix()
	if left == nil {
		return nil
	}

	for precedence < p.peekPrecedence() {
		infix := p.infixFns[p.peekTok.Type]
		if infix == nil {
			return left
		}

		p.nextToken()
		left = infix(left)
		if left == nil {
			return nil
		}
	}

	return left
}

func (p *Parser) parseIdentifier() ast.Expr {
	return ast.NewIdent(p.curTok.Value, p.spanWithFilename(p.curTok.Span))
}

func (p *Parser) parseNumberLiteral() ast.Expr {
	return ast.NewNumberLit(p.curTok.Value, p.curTok.Type == lexer.FLOAT, p.spanWithFilename(p.curTok.Span))
}

func (p *Parser) parseStringLiteral() ast.Expr {
	return ast.NewStringLit(p.curTok.Value, p.spanWithFilename(p.curTok.Span))
}

func (p *Parser) parseBoolLiteral() ast.Expr {
	return ast.NewBoolLit(p.curTok.Type == lexer.TRUE, p.spanWithFilename(p.curTok.Span))
}

func (p *Parser) parsePrefixExpr() ast.Expr {
	op := p.curTok.Type
	start := p.curTok.Span

	p.nextToken()
	operand := p.parseExpr(precedencePrefix)
	if operand == nil {
		return nil
	}

	return ast.NewUnaryOp(op, operand, mergeSpan(p.spanWithFilename(start), operand.Span()))
}

// parseInfixExpr builds a binary node. The bare IS keyword is equality in
// disguise, so it is normalized to == here and never reaches later phases.
func (p *Parser) parseInfixExpr(left ast.Expr) ast.Expr {
	op := p.curTok.Type
	if op == lexer.IS {
		op = lexer.EQ
	}
	precedence := p.curPrecedence()

	p.nextToken()
	right := p.parseExpr(precedence)
	if right == nil {
		return nil
	}

	return ast.NewBinaryOp(op, left, right, mergeSpan(left.Span(), right.Span()))
}

func (p *Parser) parseGroupedExpr() ast.Expr {
	p.nextToken()

	expr := p.parseExpr(precedenceLowest)
	if expr == nil {
		return nil
	}

	if !p.expectPeek(lexer.RPAREN) {
		return nil
	}

	return expr
}

func (p *Parser) parseListLiteral() ast.Expr {
	start := p.curTok.Span

	elems, ok := p.parseExprList(lexer.RBRACKET)
	if !ok {
		return nil
	}

	return ast.NewListLit(elems, mergeSpan(p.spanWithFilename(start), p.spanWithFilename(p.curTok.Span)))
}

func (p *Parser) parseObjectLiteral() ast.Expr {
	start := p.curTok.Span
	var fields []ast.ObjectField

	for p.peekTok.Type != lexer.RBRACE {
		if !p.expectPeek(lexer.IDENT) {
			return nil
		}
		key := ast.NewIdent(p.curTok.Value, p.spanWithFilename(p.curTok.Span))

		if !p.expectPeek(lexer.COLON) {
			return nil
		}
		p.nextToken()

		value := p.parseExpr(precedenceLowest)
		if value == nil {
			return nil
		}

		fields = append(fields, ast.ObjectField{Key: key, Value: value})

		if p.peekTok.Type != lexer.COMMA {
			break
		}
		p.nextToken()
	}

	if !p.expectPeek(lexer.RBRACE) {
		return nil
	}

	return ast.NewObjectLit(fields, mergeSpan(p.spanWithFilename(start), p.spanWithFilename(p.curTok.Span)))
}

func (p *Parser) parseCallExpr(callee ast.Expr) ast.Expr {
	args, ok := p.parseExprList(lexer.RPAREN)
	if !ok {
		return nil
	}

	return ast.NewCall(callee, args, mergeSpan(callee.Span(), p.spanWithFilename(p.curTok.Span)))
}

// parseExprList parses a comma-separated expression list up to the closing
// delimiter. It is entered with curTok on the opening delimiter and returns
// with curTok on the closing one.
func (p *Parser) parseExprList(end lexer.TokenType) ([]ast.Expr, bool) {
	var list []ast.Expr

	if p.peekTok.Type == end {
		p.nextToken()
		return list, true
	}

	p.nextToken()
	expr := p.parseExpr(precedenceLowest)
	if expr == nil {
		return nil, false
	}
	list = append(list, expr)

	for p.peekTok.Type == lexer.COMMA {
		p.nextToken()
		p.nextToken()

		expr = p.parseExpr(precedenceLowest)
		if expr == nil {
			return nil, false
		}
		list = append(list, expr)
	}

	if !p.expectPeek(end) {
		return nil, false
	}

	return list, true
}

func (p *Parser) parseIndexExpr(target ast.Expr) ast.Expr {
	p.nextToken()

	key := p.parseExpr(precedenceLowest)
	if key == nil {
		return nil
	}

	if !p.expectPeek(lexer.RBRACKET) {
		return nil
	}

	return ast.NewIndex(target, key, mergeSpan(target.Span(), p.spanWithFilename(p.curTok.Span)))
}

func (p *Parser) parseMemberExpr(target ast.Expr) ast.Expr {
	if !p.expectPeek(lexer.IDENT) {
		return nil
	}

	field := ast.NewIdent(p.curTok.Value, p.spanWithFilename(p.curTok.Span))
	return ast.NewMember(target, field, mergeSpan(target.Span(), field.Span()))
}
