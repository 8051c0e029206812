package lexer

import (
	"testing"
)

type tokenExpectation struct {
	expectedType  TokenType
	expectedValue string
}

func runTokenTest(t *testing.T, input string, tests []tokenExpectation) *Lexer {
	t.Helper()

	l := New(input)
	for i, tt := range tests {
		tok := l.NextToken()

		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - tokentype wrong. expected=%q, got=%q (value=%q)",
				i, tt.expectedType, tok.Type, tok.Value)
		}
		if tok.Value != tt.expectedValue {
			t.Fatalf("tests[%d] - value wrong. expected=%q, got=%q",
				i, tt.expectedValue, tok.Value)
		}
	}
	return l
}

func TestNextToken_Basic(t *testing.T) {
	input := "create total as Integer\n"

	runTokenTest(t, input, []tokenExpectation{
		{CREATE, "create"},
		{IDENT, "total"},
		{AS, "as"},
		{IDENT, "Integer"},
		{NEWLINE, "\n"},
		{EOF, ""},
	})
}

func TestNextToken_SetAndArithmetic(t *testing.T) {
	input := "set total to total + 2 * 3\n"

	runTokenTest(t, input, []tokenExpectation{
		{SET, "set"},
		{IDENT, "total"},
		{TO, "to"},
		{IDENT, "total"},
		{PLUS, "+"},
		{INT, "2"},
		{STAR, "*"},
		{INT, "3"},
		{NEWLINE, "\n"},
		{EOF, ""},
	})
}

func TestPhraseMerging(t *testing.T) {
	tests := []struct {
		input    string
		expected TokenType
	}{
		{"is greater than or equal to", GE},
		{"is less than or equal to", LE},
		{"is greater than", GT},
		{"is less than", LT},
		{"is equal to", EQ},
		{"is not equal to", NOT_EQ},
	}

	for _, tt := range tests {
		l := New("x " + tt.input + " 10")

		tok := l.NextToken()
		if tok.Type != IDENT {
			t.Fatalf("input %q: expected IDENT first, got %q", tt.input, tok.Type)
		}
		tok = l.NextToken()
		if tok.Type != tt.expected {
			t.Fatalf("input %q: expected phrase token %q, got %q", tt.input, tt.expected, tok.Type)
		}
		if tok.Lexeme != tt.input {
			t.Fatalf("input %q: phrase lexeme wrong, got %q", tt.input, tok.Lexeme)
		}
		tok = l.NextToken()
		if tok.Type != INT {
			t.Fatalf("input %q: expected INT after phrase, got %q", tt.input, tok.Type)
		}
	}
}

func TestPhraseFallback_BareIs(t *testing.T) {
	input := "if score is 5:\n"

	runTokenTest(t, input, []tokenExpectation{
		{IF, "if"},
		{IDENT, "score"},
		{IS, "is"},
		{INT, "5"},
		{COLON, ":"},
		{NEWLINE, "\n"},
	})
}

func TestPhraseFallback_PartialMatchRewinds(t *testing.T) {
	// "is greater" without "than" must fall back to IS and keep both words.
	input := "x is greater\n"

	runTokenTest(t, input, []tokenExpectation{
		{IDENT, "x"},
		{IS, "is"},
		{IDENT, "greater"},
		{NEWLINE, "\n"},
	})
}

func TestFunctionHeaderPhrases(t *testing.T) {
	input := "define function add that takes a as Integer, b as Integer and returns Integer:\n"

	runTokenTest(t, input, []tokenExpectation{
		{DEFINE, "define"},
		{FUNCTION, "function"},
		{IDENT, "add"},
		{TAKES, "that takes"},
		{IDENT, "a"},
		{AS, "as"},
		{IDENT, "Integer"},
		{COMMA, ","},
		{IDENT, "b"},
		{AS, "as"},
		{IDENT, "Integer"},
		{RETURNS, "and returns"},
		{IDENT, "Integer"},
		{COLON, ":"},
		{NEWLINE, "\n"},
	})
}

func TestForEachAndElseIfPhrases(t *testing.T) {
	input := "for each item in items:\n    print(item)\nelse if done:\n"

	expected := []TokenType{
		FOREACH, IDENT, IN, IDENT, COLON, NEWLINE,
		INDENT, IDENT, LPAREN, IDENT, RPAREN, NEWLINE,
		DEDENT,
		ELIF, IDENT, COLON, NEWLINE,
		EOF,
	}

	l := New(input)
	for i, want := range expected {
		tok := l.NextToken()
		if tok.Type != want {
			t.Fatalf("step %d - expected token %q, got %q (value=%q)", i, want, tok.Type, tok.Value)
		}
	}
}

func TestIndentation_NestedBlocks(t *testing.T) {
	input := "define function f:\n" +
		"    create x as Integer\n" +
		"    if x:\n" +
		"        return x\n" +
		"    return x\n" +
		"print(1)\n"

	expected := []TokenType{
		DEFINE, FUNCTION, IDENT, COLON, NEWLINE,
		INDENT,
		CREATE, IDENT, AS, IDENT, NEWLINE,
		IF, IDENT, COLON, NEWLINE,
		INDENT,
		RETURN, IDENT, NEWLINE,
		DEDENT,
		RETURN, IDENT, NEWLINE,
		DEDENT,
		IDENT, LPAREN, INT, RPAREN, NEWLINE,
		EOF,
	}

	l := New(input)
	for i, want := range expected {
		tok := l.NextToken()
		if tok.Type != want {
			t.Fatalf("step %d - expected token %q, got %q (value=%q)", i, want, tok.Type, tok.Value)
		}
	}
	if len(l.Errors) != 0 {
		t.Fatalf("expected no lexer errors, got %d: %v", len(l.Errors), l.Errors)
	}
}

func TestIndentation_BlankAndCommentLinesAreInvisible(t *testing.T) {
	input := "if x:\n" +
		"    set a to 1\n" +
		"\n" +
		"  # a comment, indented oddly\n" +
		"    set b to 2\n"

	expected := []TokenType{
		IF, IDENT, COLON, NEWLINE,
		INDENT,
		SET, IDENT, TO, INT, NEWLINE,
		SET, IDENT, TO, INT, NEWLINE,
		DEDENT,
		EOF,
	}

	l := New(input)
	for i, want := range expected {
		tok := l.NextToken()
		if tok.Type != want {
			t.Fatalf("step %d - expected token %q, got %q", i, want, tok.Type)
		}
	}
	if len(l.Errors) != 0 {
		t.Fatalf("expected no lexer errors, got %v", l.Errors)
	}
}

func TestIndentation_MissingFinalNewline(t *testing.T) {
	input := "if x:\n    return x"

	expected := []TokenType{
		IF, IDENT, COLON, NEWLINE,
		INDENT,
		RETURN, IDENT, NEWLINE,
		DEDENT,
		EOF,
	}

	l := New(input)
	for i, want := range expected {
		tok := l.NextToken()
		if tok.Type != want {
			t.Fatalf("step %d - expected token %q, got %q", i, want, tok.Type)
		}
	}
}

func TestIndentation_DedentMismatchRecovers(t *testing.T) {
	input := "if x:\n" +
		"    set a to 1\n" +
		"  set b to 2\n"

	l := New(input)
	for {
		tok := l.NextToken()
		if tok.Type == EOF {
			break
		}
	}

	if len(l.Errors) != 1 {
		t.Fatalf("expected 1 lexer error, got %d: %v", len(l.Errors), l.Errors)
	}
	if l.Errors[0].Kind != ErrBadIndent {
		t.Fatalf("expected ErrBadIndent, got %v", l.Errors[0].Kind)
	}
	if l.Errors[0].Span.Line != 3 {
		t.Fatalf("expected error on line 3, got line %d", l.Errors[0].Span.Line)
	}
}

func TestUnterminatedString_RecoversOnNextLine(t *testing.T) {
	input := "set a to 1\n" +
		"set b to 2\n" +
		"set msg to \"no closing quote\n" +
		"set c to 3\n"

	l := New(input)
	var types []TokenType
	for {
		tok := l.NextToken()
		types = append(types, tok.Type)
		if tok.Type == EOF {
			break
		}
	}

	if len(l.Errors) != 1 {
		t.Fatalf("expected exactly 1 lexer error, got %d: %v", len(l.Errors), l.Errors)
	}
	if l.Errors[0].Kind != ErrUnterminatedString {
		t.Fatalf("expected ErrUnterminatedString, got %v", l.Errors[0].Kind)
	}
	if l.Errors[0].Span.Line != 3 {
		t.Fatalf("expected error on line 3, got line %d", l.Errors[0].Span.Line)
	}

	// The line after the bad string must still tokenize normally.
	sawFinalSet := false
	for i := 0; i+3 < len(types); i++ {
		if types[i] == SET && types[i+1] == IDENT && types[i+2] == TO && types[i+3] == INT {
			sawFinalSet = true
		}
	}
	if !sawFinalSet {
		t.Fatalf("expected statements after the unterminated string to tokenize, got %v", types)
	}
}

func TestUnterminatedString_BackslashBeforeNewline(t *testing.T) {
	input := "set msg to \"trailing\\\n" +
		"set c to 3\n"

	l := New(input)
	var types []TokenType
	for {
		tok := l.NextToken()
		types = append(types, tok.Type)
		if tok.Type == EOF {
			break
		}
	}

	if len(l.Errors) != 1 {
		t.Fatalf("expected exactly 1 lexer error, got %d: %v", len(l.Errors), l.Errors)
	}
	if l.Errors[0].Kind != ErrUnterminatedString {
		t.Fatalf("expected ErrUnterminatedString, got %v", l.Errors[0].Kind)
	}
	if l.Errors[0].Span.Line != 1 {
		t.Fatalf("expected error on line 1, got line %d", l.Errors[0].Span.Line)
	}

	// The escape must not swallow the newline: line 2 tokenizes on its own.
	sawNextLine := false
	for i := 0; i+3 < len(types); i++ {
		if types[i] == SET && types[i+1] == IDENT && types[i+2] == TO && types[i+3] == INT {
			sawNextLine = true
		}
	}
	if !sawNextLine {
		t.Fatalf("expected the line after the bad string to tokenize, got %v", types)
	}
}

func TestStringLiteral_Escapes(t *testing.T) {
	tests := []struct {
		input         string
		expectedValue string
	}{
		{`"hello"`, "hello"},
		{`"a\nb"`, "a\nb"},
		{`"tab\there"`, "tab\there"},
		{`"quote \" inside"`, `quote " inside`},
		{`'single'`, "single"},
	}

	for _, tt := range tests {
		l := New(tt.input)
		tok := l.NextToken()
		if tok.Type != STRING {
			t.Fatalf("input %s: expected STRING, got %q", tt.input, tok.Type)
		}
		if tok.Value != tt.expectedValue {
			t.Fatalf("input %s: value wrong. expected=%q, got=%q", tt.input, tt.expectedValue, tok.Value)
		}
	}
}

func TestNumberLiterals(t *testing.T) {
	input := "1 42 3.14 0.5\n"

	runTokenTest(t, input, []tokenExpectation{
		{INT, "1"},
		{INT, "42"},
		{FLOAT, "3.14"},
		{FLOAT, "0.5"},
		{NEWLINE, "\n"},
	})
}

func TestKeywordsAreCaseInsensitive(t *testing.T) {
	input := "Create X As Integer\n"

	runTokenTest(t, input, []tokenExpectation{
		{CREATE, "Create"},
		{IDENT, "X"},
		{AS, "As"},
		{IDENT, "Integer"},
		{NEWLINE, "\n"},
	})
}

func TestSpanTracking(t *testing.T) {
	input := "set x to 10\n"
	l := New(input)
	l.SetFilename("main.prose")

	tok := l.NextToken() // set
	if tok.Span.Line != 1 || tok.Span.Column != 1 {
		t.Fatalf("span wrong for %q: line=%d column=%d", tok.Value, tok.Span.Line, tok.Span.Column)
	}
	tok = l.NextToken() // x
	if tok.Span.Line != 1 || tok.Span.Column != 5 {
		t.Fatalf("span wrong for %q: line=%d column=%d", tok.Value, tok.Span.Line, tok.Span.Column)
	}
	if tok.Span.Filename != "main.prose" {
		t.Fatalf("filename not propagated, got %q", tok.Span.Filename)
	}
}

func TestIllegalRune(t *testing.T) {
	input := "set x to 1 @\n"

	l := New(input)
	var sawIllegal bool
	for {
		tok := l.NextToken()
		if tok.Type == ILLEGAL {
			sawIllegal = true
		}
		if tok.Type == EOF {
			break
		}
	}
	if !sawIllegal {
		t.Fatalf("expected an ILLEGAL token")
	}
	if len(l.Errors) != 1 || l.Errors[0].Kind != ErrIllegalRune {
		t.Fatalf("expected one ErrIllegalRune, got %v", l.Errors)
	}
}
