package parser

import (
	"github.com/prose-lang/prose/internal/ast"
	"github.com/prose-lang/prose/internal/diag"
	"github.com/prose-lang/prose/internal/lexer"
)

type (
	prefixParseFn func() ast.Expr
	infixParseFn  func(ast.Expr) ast.Expr
)

type Option func(*options)

type options struct {
	filename string
}

// WithFilename configures the parser to attribute all emitted spans to the
// provided filename.
func WithFilename(name string) Option {
	return func(o *options) {
		o.filename = name
	}
}

const (
	precedenceLowest = iota
	precedenceOr
	precedenceAnd
	precedenceEquality
	precedenceComparison
	precedenceSum
	precedenceProduct
	precedencePrefix
	precedencePostfix
)

var precedences = map[lexer.TokenType]int{
	lexer.OR:       precedenceOr,
	lexer.AND:      precedenceAnd,
	lexer.EQ:       precedenceEquality,
	lexer.NOT_EQ:   precedenceEquality,
	lexer.IS:       precedenceEquality,
	lexer.LT:       precedenceComparison,
	lexer.LE:       precedenceComparison,
	lexer.GT:       precedenceComparison,
	lexer.GE:       precedenceComparison,
	lexer.PLUS:     precedenceSum,
	lexer.MINUS:    precedenceSum,
	lexer.STAR:     precedenceProduct,
	lexer.SLASH:    precedenceProduct,
	lexer.PERCENT:  precedenceProduct,
	lexer.LPAREN:   precedencePostfix,
	lexer.LBRACKET: precedencePostfix,
	lexer.DOT:      precedencePostfix,
}

// ParseError captures a recoverable parsing error with location context.
type ParseError struct {
	Message  string
	Span     lexer.Span
	Severity diag.Severity
}

// ToDiagnostic converts a parse error into a shared diagnostic structure.
func (e ParseError) ToDiagnostic() diag.Diagnostic {
	return diag.Diagnostic{
		Stage:    diag.StageParser,
		Severity: e.Severity,
		Code:     diag.CodeParseUnexpectedToken,
		Message:  e.Message,
		Span: diag.Span{
			Filename: e.Span.Filename,
			Line:     e.Span.Line,
			Column:   e.Span.Column,
			Start:    e.Span.Start,
			End:      e.Span.End,
		},
	}
}

// Parser implements a Pratt-style recursive descent parser for Prose.
// Invariants:
//   - Lookahead: curTok always reflects the token currently under
//     examination; peekTok mirrors the next token pulled from the lexer. The
//     pair forms the parser's sole lookahead window and is only mutated via
//     nextToken.
//   - Diagnostics: errors is an append-only accumulator of recoverable
//     diagnostics. A failed statement is replaced by a BadStmt placeholder
//     and parsing resumes at the next statement boundary, so one malformed
//     line never hides errors further down the file.
//   - Spans: AST node spans are composed via mergeSpan so that tail.End is
//     never less than head.End.
type Parser struct {
	lx      *lexer.Lexer
	curTok  lexer.Token
	peekTok lexer.Token

	errors []ParseError

	filename string

	prefixFns map[lexer.TokenType]prefixParseFn
	infixFns  map[lexer.TokenType]infixParseFn
}

// New returns a parser initialised with the provided source input.
func New(input string, opts ...Option) *Parser {
	cfg := options{}
	for _, opt := range opts {
		opt(&cfg)
	}

	p := &Parser{
		lx:        lexer.New(input),
		prefixFns: make(map[lexer.TokenType]prefixParseFn),
		infixFns:  make(map[lexer.TokenType]infixParseFn),
		filename:  cfg.filename,
	}

	if cfg.filename != "" {
		p.lx.SetFilename(cfg.filename)
	}

	p.registerPrefix(lexer.IDENT, p.parseIdentifier)
	p.registerPrefix(lexer.INT, p.parseNumberLiteral)
	p.registerPrefix(lexer.FLOAT, p.parseNumberLiteral)
	p.registerPrefix(lexer.STRING, p.parseStringLiteral)
	p.registerPrefix(lexer.TRUE, p.parseBoolLiteral)
	p.registerPrefix(lexer.FALSE, p.parseBoolLiteral)
	p.registerPrefix(lexer.MINUS, p.parsePrefixExpr)
	p.registerPrefix(lexer.NOT, p.parsePrefixExpr)
	p.registerPrefix(lexer.LPAREN, p.parseGroupedExpr)
	p.registerPrefix(lexer.LBRACKET, p.parseListLiteral)
	p.registerPrefix(lexer.LBRACE, p.parseObjectLiteral)

	p.registerInfix(lexer.PLUS, p.parseInfixExpr)
	p.registerInfix(lexer.MINUS, p.parseInfixExpr)
	p.registerInfix(lexer.STAR, p.parseInfixExpr)
	p.registerInfix(lexer.SLASH, p.parseInfixExpr)
	p.registerInfix(lexer.PERCENT, p.parseInfixExpr)
	p.registerInfix(lexer.AND, p.parseInfixExpr)
	p.registerInfix(lexer.OR, p.parseInfixExpr)
	p.registerInfix(lexer.EQ, p.parseInfixExpr)
	p.registerInfix(lexer.NOT_EQ, p.parseInfixExpr)
	p.registerInfix(lexer.IS, p.parseInfixExpr)
	p.registerInfix(lexer.LT, p.parseInfixExpr)
	p.registerInfix(lexer.LE, p.parseInfixExpr)
	p.registerInfix(lexer.GT, p.parseInfixExpr)
	p.registerInfix(lexer.GE, p.parseInfixExpr)
	p.registerInfix(lexer.LPAREN, p.parseCallExpr)
	p.registerInfix(lexer.LBRACKET, p.parseIndexExpr)
	p.registerInfix(lexer.DOT, p.parseMemberExpr)

	// Seed curTok/peekTok.
	p.nextToken()
	p.nextToken()

	return p
}

func (p *Parser) registerPrefix(tt lexer.TokenType, fn prefixParseFn) {
	p.prefixFns[tt] = fn
}

func (p *Parser) registerInfix(tt lexer.TokenType, fn infixParseFn) {
	p.infixFns[tt] = fn
}

// Errors returns all recoverable parse errors that were encountered.
func (p *Parser) Errors() []ParseError {
	return p.errors
}

// LexErrors returns errors recorded by the underlying lexer.
func (p *Parser) LexErrors() []lexer.LexError {
	return p.lx.Errors
}

// ParseFile parses a full compilation unit and returns its AST. The returned
// file is never nil; failed statements appear as BadStmt placeholders and the
// corresponding errors are available through Errors().
func (p *Parser) ParseFile() *ast.File {
	file := ast.NewFile(nil, p.spanWithFilename(p.curTok.Span))

	for p.curTok.Type != lexer.EOF {
		if p.curTok.Type == lexer.NEWLINE {
			p.nextToken()
			continue
		}
		// Stray block tokens can show up after indentation errors.
		if p.curTok.Type == lexer.INDENT || p.curTok.Type == lexer.DEDENT {
			p.nextToken()
			continue
		}

		stmt := p.parseStatement()
		if stmt == nil {
			stmt = p.recoverStatement()
		}
		file.Stmts = append(file.Stmts, stmt)
		file.SetSpan(mergeSpan(file.Span(), stmt.Span()))
		p.nextToken()
	}

	file.SetSpan(mergeSpan(file.Span(), p.spanWithFilename(p.curTok.Span)))

	return file
}

// nextToken advances the parser's token window.
// Contract: after calling nextToken, curTok == old(peekTok).
func (p *Parser) nextToken() {
	p.curTok = p.peekTok
	p.peekTok = p.lx.NextToken()
}

// expectPeek asserts that the peek token matches the provided type and, on
// success, promotes it into curTok. On failure an error is recorded and the
// window is left untouched.
func (p *Parser) expectPeek(tt lexer.TokenType) bool {
	if p.peekTok.Type == tt {
		p.nextToken()
		return true
	}

	p.reportError("expected "+describeToken(tt)+", found "+describeToken(p.peekTok.Type), p.peekTok.Span)
	return false
}

func (p *Parser) spanWithFilename(span lexer.Span) lexer.Span {
	if span.Filename == "" && p.filename != "" {
		span.Filename = p.filename
	}
	return span
}

// reportError records a recoverable diagnostic without aborting parsing.
func (p *Parser) reportError(msg string, span lexer.Span) {
	p.errors = append(p.errors, ParseError{
		Message:  msg,
		Span:     p.spanWithFilename(span),
		Severity: diag.SeverityError,
	})
}

// recoverStatement skips tokens until the next statement boundary and
// returns a BadStmt covering the skipped range. Nested INDENT/DEDENT pairs
// belonging to the broken statement are consumed so the enclosing block
// stays balanced.
func (p *Parser) recoverStatement() ast.Stmt {
	span := p.spanWithFilename(p.curTok.Span)
	depth := 0

	for {
		switch p.curTok.Type {
		case lexer.EOF:
			return ast.NewBadStmt(mergeSpan(span, p.spanWithFilename(p.curTok.Span)))
		case lexer.NEWLINE:
			if depth == 0 && p.peekTok.Type != lexer.INDENT {
				return ast.NewBadStmt(mergeSpan(span, p.spanWithFilename(p.curTok.Span)))
			}
		case lexer.INDENT:
			depth++
		case lexer.DEDENT:
			depth--
			if depth <= 0 {
				return ast.NewBadStmt(mergeSpan(span, p.spanWithFilename(p.curTok.Span)))
			}
		}
		p.nextToken()
	}
}

func (p *Parser) peekPrecedence() int {
	if prec, ok := precedences[p.peekTok.Type]; ok {
		return prec
	}
	return precedenceLowest
}

func (p *Parser) curPrecedence() int {
	if prec, ok := precedences[p.curTok.Type]; ok {
		return prec
	}
	return precedenceLowest
}

// mergeSpan assumes start.End <= end.End and returns a span covering both.
func mergeSpan(start, end lexer.Span) lexer.Span {
	span := start
	if end.End > span.End {
		span.End = end.End
	}
	return span
}

func describeToken(tt lexer.TokenType) string {
	switch tt {
	case lexer.NEWLINE:
		return "end of line"
	case lexer.INDENT:
		return "an indented block"
	case lexer.DEDENT:
		return "end of block"
	case lexer.EOF:
		return "end of file"
	case lexer.IDENT:
		return "a name"
	case lexer.INT, lexer.FLOAT:
		return "a number"
	case lexer.STRING:
		return "a string"
	default:
		return "'" + string(tt) + "'"
	}
}
