package token

type TokenType string

const (
	ILLEGAL = "ILLEGAL"
	EOF     = "EOF"

	IDENT  = "IDENT"  // name, count, opts
	INT    = "INT"    // 42
	FLOAT  = "FLOAT"  // 3.14
	STRING = "STRING" // "hello" or 'hello'

	// Keywords (default-value literals)
	TRUE  = "TRUE"
	FALSE = "FALSE"
	NIL   = "NIL"

	COMMA  = ","
	COLON  = ":"
	ASSIGN = "="
	LPAREN = "("
	RPAREN = ")"

	// Markers
	ASTERISK = "*"  // variadic positional, or bare keyword-only marker
	POWER    = "**" // variadic keyword
	SLASH    = "/"  // positional-only marker
)

type Token struct {
	Type    TokenType
	Lexeme  string
	Literal interface{} // parsed value for INT/FLOAT/STRING, lexeme otherwise
	Line    int
	Column  int
}

var keywords = map[string]TokenType{
	"true":  TRUE,
	"false": FALSE,
	"nil":   NIL,
}

// LookupIdent distinguishes literal keywords from plain identifiers.
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}
