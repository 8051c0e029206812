package lexer

// TokenType represents the type of a token
type TokenType string

// Span represents the source location of a token
type Span struct {
	Filename string // optional source filename for diagnostics
	Line     int    // 1-based line number
	Column   int    // 1-based column number
	Start    int    // index in []rune of the original string
	End      int    // exclusive end index
}

// Token represents a lexical token
type Token struct {
	Type   TokenType
	Lexeme string // exact runes from source
	Value  string // decoded value (for strings, same as Lexeme for others)
	Span   Span   // source location information
}

// Token type constants
const (
	// Special tokens
	ILLEGAL TokenType = "ILLEGAL"
	EOF     TokenType = "EOF"
	NEWLINE TokenType = "NEWLINE"
	INDENT  TokenType = "INDENT"
	DEDENT  TokenType = "DEDENT"

	// Identifiers and literals
	IDENT  TokenType = "IDENT"
	INT    TokenType = "INT"
	FLOAT  TokenType = "FLOAT"
	STRING TokenType = "STRING"

	// Operators
	PLUS    TokenType = "+"
	MINUS   TokenType = "-"
	STAR    TokenType = "*"
	SLASH   TokenType = "/"
	PERCENT TokenType = "%"

	EQ     TokenType = "=="
	NOT_EQ TokenType = "!="
	LT     TokenType = "<"
	GT     TokenType = ">"
	LE     TokenType = "<="
	GE     TokenType = ">="

	// Delimiters
	COMMA  TokenType = ","
	COLON  TokenType = ":"
	DOT    TokenType = "."
	LPAREN TokenType = "("
	RPAREN TokenType = ")"
	LBRACE TokenType = "{"
	RBRACE TokenType = "}"

	LBRACKET TokenType = "["
	RBRACKET TokenType = "]"

	// Keywords
	DEFINE      TokenType = "DEFINE"
	FUNCTION    TokenType = "FUNCTION"
	CLASS       TokenType = "CLASS"
	CONSTRUCTOR TokenType = "CONSTRUCTOR"
	CREATE      TokenType = "CREATE"
	SET         TokenType = "SET"
	TO          TokenType = "TO"
	AS          TokenType = "AS"
	OF          TokenType = "OF"
	IF          TokenType = "IF"
	ELSE        TokenType = "ELSE"
	WHILE       TokenType = "WHILE"
	IN          TokenType = "IN"
	RETURN      TokenType = "RETURN"
	IMPORT      TokenType = "IMPORT"
	AND         TokenType = "AND"
	OR          TokenType = "OR"
	NOT         TokenType = "NOT"
	IS          TokenType = "IS"
	TRUE        TokenType = "TRUE"
	FALSE       TokenType = "FALSE"

	// Keywords synthesized from multi-word phrases
	FOREACH TokenType = "FOR_EACH"
	ELIF    TokenType = "ELSE_IF"
	TAKES   TokenType = "THAT_TAKES"
	RETURNS TokenType = "AND_RETURNS"
)

var keywords = map[string]TokenType{
	"define":      DEFINE,
	"function":    FUNCTION,
	"class":       CLASS,
	"constructor": CONSTRUCTOR,
	"create":      CREATE,
	"set":         SET,
	"to":          TO,
	"as":          AS,
	"of":          OF,
	"if":          IF,
	"else":        ELSE,
	"while":       WHILE,
	"in":          IN,
	"return":      RETURN,
	"import":      IMPORT,
	"and":         AND,
	"or":          OR,
	"not":         NOT,
	"is":          IS,
	"true":        TRUE,
	"false":       FALSE,
}

// LookupIdent checks if the identifier is a keyword
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}

// phrase is a multi-word keyword sequence merged into a single token by the
// lexer. Comparison phrases normalize to ordinary operator tokens so the
// grammar never sees them.
type phrase struct {
	words []string
	tt    TokenType
}

// Phrases are tried longest-first; ties are broken by declaration order.
var phrases = []phrase{
	{[]string{"is", "greater", "than", "or", "equal", "to"}, GE},
	{[]string{"is", "less", "than", "or", "equal", "to"}, LE},
	{[]string{"is", "not", "equal", "to"}, NOT_EQ},
	{[]string{"is", "greater", "than"}, GT},
	{[]string{"is", "less", "than"}, LT},
	{[]string{"is", "equal", "to"}, EQ},
	{[]string{"for", "each"}, FOREACH},
	{[]string{"else", "if"}, ELIF},
	{[]string{"that", "takes"}, TAKES},
	{[]string{"and", "returns"}, RETURNS},
}

// phraseHeads indexes phrases by first word, preserving table order so the
// longest-first discipline above carries over to the per-head candidate list.
var phraseHeads = func() map[string][]phrase {
	heads := make(map[string][]phrase)
	for _, p := range phrases {
		heads[p.words[0]] = append(heads[p.words[0]], p)
	}
	return heads
}()
