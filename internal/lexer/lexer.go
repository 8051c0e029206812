package lexer

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/prose-lang/prose/internal/diag"
)

type LexErrorKind int

const (
	ErrUnterminatedString LexErrorKind = iota
	ErrBadIndent
	ErrIllegalRune
)

type LexError struct {
	Kind    LexErrorKind
	Message string
	Span    Span
}

func (k LexErrorKind) diagnosticCode() diag.Code {
	switch k {
	case ErrUnterminatedString:
		return diag.CodeLexUnterminatedString
	case ErrBadIndent:
		return diag.CodeLexBadIndent
	case ErrIllegalRune:
		return diag.CodeLexIllegalRune
	default:
		return diag.Code("LEX_UNKNOWN_ERROR")
	}
}

// ToDiagnostic converts a lexer error into a shared diagnostic structure.
func (e LexError) ToDiagnostic() diag.Diagnostic {
	return diag.Diagnostic{
		Stage:    diag.StageLexer,
		Severity: diag.SeverityError,
		Code:     e.Kind.diagnosticCode(),
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

// Lexer turns Prose source text into a token stream. Indentation is tracked
// with a stack of widths so that INDENT/DEDENT tokens bracket every block;
// multi-word keyword phrases are merged greedily with bounded pushback. The
// lexer holds no process-wide state and is safe to run concurrently across
// independent inputs.
type Lexer struct {
	input    []rune
	pos      int  // index of the current rune
	ch       rune // current rune (0 = EOF)
	line     int  // current line number (1-based)
	column   int  // current column number (1-based)
	filename string

	atLineStart bool
	indents     []int // stack of active indentation widths; indents[0] == 0
	indentUnit  int   // width of one indentation step, fixed by the first indent
	pending     []Token
	lastType    TokenType

	Errors []LexError
}

// New creates a new lexer for the given input.
func New(input string) *Lexer {
	l := &Lexer{
		input:       []rune(input),
		pos:         -1, // start before first rune
		line:        1,
		column:      0, // will be 1 after first read()
		atLineStart: true,
		indents:     []int{0},
	}
	l.read() // move to first character
	return l
}

// SetFilename attributes all emitted spans to the provided filename.
func (l *Lexer) SetFilename(name string) {
	l.filename = name
}

func (l *Lexer) addError(kind LexErrorKind, msg string, span Span) {
	l.Errors = append(l.Errors, LexError{Kind: kind, Message: msg, Span: span})
}

// read advances the lexer to the next character, keeping line/column in sync
// with the position of the character at pos.
func (l *Lexer) read() {
	l.pos++
	prevPos := l.pos - 1
	inputLen := len(l.input)

	if l.pos >= inputLen {
		if prevPos >= 0 && prevPos < inputLen {
			if l.input[prevPos] == '\n' {
				l.line++
				l.column = 1
			} else {
				l.column++
			}
		} else if prevPos < 0 {
			l.column = 1
		}
		l.ch = 0 // EOF
		return
	}

	l.ch = l.input[l.pos]

	if prevPos >= 0 && l.input[prevPos] == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
}

// peek returns the next character without advancing
func (l *Lexer) peek() rune {
	if l.pos+1 >= len(l.input) {
		return 0
	}
	return l.input[l.pos+1]
}

type lexerState struct {
	pos    int
	ch     rune
	line   int
	column int
}

func (l *Lexer) save() lexerState {
	return lexerState{pos: l.pos, ch: l.ch, line: l.line, column: l.column}
}

func (l *Lexer) restore(s lexerState) {
	l.pos, l.ch, l.line, l.column = s.pos, s.ch, s.line, s.column
}

// makeToken creates a token with span information
func (l *Lexer) makeToken(tt TokenType, startLine, startColumn, startPos, endPos int, lexeme, value string) Token {
	return Token{
		Type:   tt,
		Lexeme: lexeme,
		Value:  value,
		Span: Span{
			Filename: l.filename,
			Line:     startLine,
			Column:   startColumn,
			Start:    startPos,
			End:      endPos,
		},
	}
}

// NextToken returns the next token from the input.
func (l *Lexer) NextToken() Token {
	tok := l.nextToken()
	l.lastType = tok.Type
	return tok
}

func (l *Lexer) nextToken() Token {
	for {
		if len(l.pending) > 0 {
			tok := l.pending[0]
			l.pending = l.pending[1:]
			return tok
		}

		if l.lastType == EOF {
			return l.makeToken(EOF, l.line, max(1, l.column), l.pos, l.pos, "", "")
		}

		if l.atLineStart {
			if handled := l.scanIndentation(); handled {
				continue
			}
		}

		// Skip intra-line whitespace.
		for l.ch == ' ' || l.ch == '\t' || l.ch == '\r' {
			l.read()
		}

		switch l.ch {
		case 0:
			l.queueEOF()
			continue

		case '\n':
			startLine, startColumn, startPos := l.line, l.column, l.pos
			l.read()
			l.atLineStart = true
			return l.makeToken(NEWLINE, startLine, startColumn, startPos, l.pos, "\n", "\n")

		case '#':
			for l.ch != '\n' && l.ch != 0 {
				l.read()
			}
			continue

		case '+':
			return l.single(PLUS)
		case '-':
			return l.single(MINUS)
		case '*':
			return l.single(STAR)
		case '/':
			return l.single(SLASH)
		case '%':
			return l.single(PERCENT)
		case ',':
			return l.single(COMMA)
		case ':':
			return l.single(COLON)
		case '.':
			return l.single(DOT)
		case '(':
			return l.single(LPAREN)
		case ')':
			return l.single(RPAREN)
		case '[':
			return l.single(LBRACKET)
		case ']':
			return l.single(RBRACKET)
		case '{':
			return l.single(LBRACE)
		case '}':
			return l.single(RBRACE)

		case '<':
			return l.compareOp(LT, LE)
		case '>':
			return l.compareOp(GT, GE)

		case '=':
			startLine, startColumn, startPos := l.line, l.column, l.pos
			if l.peek() == '=' {
				l.read()
				l.read()
				return l.makeToken(EQ, startLine, startColumn, startPos, l.pos, "==", "==")
			}
			return l.illegal(startLine, startColumn, startPos)

		case '!':
			startLine, startColumn, startPos := l.line, l.column, l.pos
			if l.peek() == '=' {
				l.read()
				l.read()
				return l.makeToken(NOT_EQ, startLine, startColumn, startPos, l.pos, "!=", "!=")
			}
			return l.illegal(startLine, startColumn, startPos)

		case '"', '\'':
			return l.lexString(l.ch)

		default:
			if isLetter(l.ch) {
				return l.lexWord()
			}
			if isDigit(l.ch) {
				return l.lexNumber()
			}
			startLine, startColumn, startPos := l.line, l.column, l.pos
			return l.illegal(startLine, startColumn, startPos)
		}
	}
}

func (l *Lexer) single(tt TokenType) Token {
	startLine, startColumn, startPos := l.line, l.column, l.pos
	lexeme := string(l.ch)
	l.read()
	return l.makeToken(tt, startLine, startColumn, startPos, l.pos, lexeme, lexeme)
}

func (l *Lexer) compareOp(bare, withEq TokenType) Token {
	startLine, startColumn, startPos := l.line, l.column, l.pos
	if l.peek() == '=' {
		lexeme := string(l.ch) + "="
		l.read()
		l.read()
		return l.makeToken(withEq, startLine, startColumn, startPos, l.pos, lexeme, lexeme)
	}
	lexeme := string(l.ch)
	l.read()
	return l.makeToken(bare, startLine, startColumn, startPos, l.pos, lexeme, lexeme)
}

func (l *Lexer) illegal(startLine, startColumn, startPos int) Token {
	lexeme := string(l.ch)
	l.read()
	tok := l.makeToken(ILLEGAL, startLine, startColumn, startPos, l.pos, lexeme, lexeme)
	l.addError(ErrIllegalRune, "illegal character "+strconv.Quote(lexeme), tok.Span)
	return tok
}

// queueEOF closes the file: a trailing NEWLINE if the last line had content,
// one DEDENT per open indentation level, then EOF.
func (l *Lexer) queueEOF() {
	endLine, endColumn, endPos := l.line, max(1, l.column), l.pos
	if l.lastType != "" && l.lastType != NEWLINE && l.lastType != DEDENT && l.lastType != INDENT {
		l.pending = append(l.pending, l.makeToken(NEWLINE, endLine, endColumn, endPos, endPos, "", ""))
	}
	for len(l.indents) > 1 {
		l.indents = l.indents[:len(l.indents)-1]
		l.pending = append(l.pending, l.makeToken(DEDENT, endLine, endColumn, endPos, endPos, "", ""))
	}
	l.pending = append(l.pending, l.makeToken(EOF, endLine, endColumn, endPos, endPos, "", ""))
}

// scanIndentation measures the leading whitespace of a fresh line and
// synthesizes INDENT/DEDENT tokens against the indentation stack. Blank and
// comment-only lines produce no tokens at all, so no INDENT/DEDENT pair is
// ever emitted between two statements at the same depth. Returns true when
// tokens were queued or the line was skipped entirely.
func (l *Lexer) scanIndentation() bool {
	startLine, startColumn, startPos := l.line, l.column, l.pos

	width := 0
	for l.ch == ' ' || l.ch == '\t' {
		width++
		l.read()
	}

	switch l.ch {
	case '\n':
		l.read() // blank line: no tokens
		return true
	case '\r':
		l.read()
		return true
	case '#':
		for l.ch != '\n' && l.ch != 0 {
			l.read()
		}
		return true
	case 0:
		l.atLineStart = false
		return false // EOF handling runs in the main loop
	}

	l.atLineStart = false
	span := Span{Filename: l.filename, Line: startLine, Column: startColumn, Start: startPos, End: l.pos}
	top := l.indents[len(l.indents)-1]

	switch {
	case width > top:
		step := width - top
		if l.indentUnit == 0 {
			l.indentUnit = step
		} else if step != l.indentUnit {
			l.addError(ErrBadIndent, "inconsistent indentation: expected a step of "+strconv.Itoa(l.indentUnit), span)
		}
		l.indents = append(l.indents, width)
		l.pending = append(l.pending, l.makeToken(INDENT, startLine, startColumn, startPos, l.pos, "", ""))

	case width < top:
		for len(l.indents) > 1 && l.indents[len(l.indents)-1] > width {
			l.indents = l.indents[:len(l.indents)-1]
			l.pending = append(l.pending, l.makeToken(DEDENT, startLine, startColumn, startPos, l.pos, "", ""))
		}
		if l.indents[len(l.indents)-1] != width {
			l.addError(ErrBadIndent, "unindent does not match any outer indentation level", span)
			// Resynchronize by accepting the unmatched width as the new level.
			l.indents = append(l.indents, width)
		}
	}

	return len(l.pending) > 0
}

// readIdentifier reads an identifier or keyword word.
func (l *Lexer) readIdentifier() string {
	start := l.pos
	for isLetter(l.ch) || isDigit(l.ch) {
		l.read()
	}
	return string(l.input[start:l.pos])
}

// lexWord reads a word and resolves it against the phrase table first, then
// the keyword table. Phrase matching looks ahead over following words and
// rewinds on failure; longest phrase wins, ties broken by table order.
func (l *Lexer) lexWord() Token {
	startLine, startColumn, startPos := l.line, l.column, l.pos
	word := l.readIdentifier()
	lower := strings.ToLower(word)

	if candidates, ok := phraseHeads[lower]; ok {
		for _, p := range candidates {
			if l.tryPhrase(p) {
				lexeme := string(l.input[startPos:l.pos])
				return l.makeToken(p.tt, startLine, startColumn, startPos, l.pos, lexeme, lexeme)
			}
		}
	}

	tt := LookupIdent(lower)
	return l.makeToken(tt, startLine, startColumn, startPos, l.pos, word, word)
}

// tryPhrase attempts to consume the remaining words of a phrase whose head
// has already been read. On failure the lexer position is restored.
func (l *Lexer) tryPhrase(p phrase) bool {
	saved := l.save()
	for _, want := range p.words[1:] {
		for l.ch == ' ' || l.ch == '\t' {
			l.read()
		}
		if !isLetter(l.ch) {
			l.restore(saved)
			return false
		}
		got := strings.ToLower(l.readIdentifier())
		if got != want {
			l.restore(saved)
			return false
		}
	}
	return true
}

// lexNumber reads an integer or float literal (decimal only).
func (l *Lexer) lexNumber() Token {
	startLine, startColumn, startPos := l.line, l.column, l.pos
	isFloat := false

	for isDigit(l.ch) {
		l.read()
	}
	if l.ch == '.' && isDigit(l.peek()) {
		isFloat = true
		l.read() // consume '.'
		for isDigit(l.ch) {
			l.read()
		}
	}

	lexeme := string(l.input[startPos:l.pos])
	tt := INT
	if isFloat {
		tt = FLOAT
	}
	return l.makeToken(tt, startLine, startColumn, startPos, l.pos, lexeme, lexeme)
}

// lexString reads a string literal, handling escape sequences. An
// unterminated string (newline or EOF before the closing quote) records a
// lexical error and resynchronizes at the next line, returning the partial
// value so the parser can keep going.
func (l *Lexer) lexString(quote rune) Token {
	startLine, startColumn, startPos := l.line, l.column, l.pos
	var decoded []rune

	l.read() // skip opening quote

	for {
		if l.ch == 0 || l.ch == '\n' || l.ch == '\r' {
			span := Span{Filename: l.filename, Line: startLine, Column: startColumn, Start: startPos, End: l.pos}
			l.addError(ErrUnterminatedString, "unterminated string literal", span)
			lexeme := string(l.input[startPos:l.pos])
			return l.makeToken(STRING, startLine, startColumn, startPos, l.pos, lexeme, string(decoded))
		}
		if l.ch == quote {
			l.read() // consume closing quote
			lexeme := string(l.input[startPos:l.pos])
			return l.makeToken(STRING, startLine, startColumn, startPos, l.pos, lexeme, string(decoded))
		}
		if l.ch == '\\' {
			l.read() // skip '\'
			// A line break right after the backslash still ends the
			// literal; let the unterminated check above report it.
			if l.ch == 0 || l.ch == '\n' || l.ch == '\r' {
				continue
			}
			switch l.ch {
			case 'n':
				decoded = append(decoded, '\n')
			case 't':
				decoded = append(decoded, '\t')
			case 'r':
				decoded = append(decoded, '\r')
			case '\\':
				decoded = append(decoded, '\\')
			case '"':
				decoded = append(decoded, '"')
			case '\'':
				decoded = append(decoded, '\'')
			default:
				decoded = append(decoded, '\\', l.ch)
			}
			l.read()
			continue
		}
		decoded = append(decoded, l.ch)
		l.read()
	}
}

func isLetter(ch rune) bool {
	return unicode.IsLetter(ch) || ch == '_'
}

func isDigit(ch rune) bool {
	// Numeric literals are restricted to ASCII digits.
	return ch >= '0' && ch <= '9'
}

