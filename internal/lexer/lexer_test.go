package lexer

import (
	"testing"

	"github.com/funvibe/sigbind/internal/token"
)

func TestNextToken(t *testing.T) {
	input := `greet(name: str, excited: bool = false, /, times: int = 1, *rest, **opts)`

	expected := []struct {
		typ    token.TokenType
		lexeme string
	}{
		{token.IDENT, "greet"},
		{token.LPAREN, "("},
		{token.IDENT, "name"},
		{token.COLON, ":"},
		{token.IDENT, "str"},
		{token.COMMA, ","},
		{token.IDENT, "excited"},
		{token.COLON, ":"},
		{token.IDENT, "bool"},
		{token.ASSIGN, "="},
		{token.FALSE, "false"},
		{token.COMMA, ","},
		{token.SLASH, "/"},
		{token.COMMA, ","},
		{token.IDENT, "times"},
		{token.COLON, ":"},
		{token.IDENT, "int"},
		{token.ASSIGN, "="},
		{token.INT, "1"},
		{token.COMMA, ","},
		{token.ASTERISK, "*"},
		{token.IDENT, "rest"},
		{token.COMMA, ","},
		{token.POWER, "**"},
		{token.IDENT, "opts"},
		{token.RPAREN, ")"},
		{token.EOF, ""},
	}

	l := New(input)
	for i, exp := range expected {
		tok := l.NextToken()
		if tok.Type != exp.typ {
			t.Fatalf("token %d: expected type %q, got %q (lexeme %q)", i, exp.typ, tok.Type, tok.Lexeme)
		}
		if tok.Lexeme != exp.lexeme {
			t.Fatalf("token %d: expected lexeme %q, got %q", i, exp.lexeme, tok.Lexeme)
		}
	}
}

func TestLiterals(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		typ   token.TokenType
		value interface{}
	}{
		{"int", "42", token.INT, int64(42)},
		{"negative_int", "-7", token.INT, int64(-7)},
		{"int_underscores", "1_000", token.INT, int64(1000)},
		{"float", "3.14", token.FLOAT, 3.14},
		{"negative_float", "-0.5", token.FLOAT, -0.5},
		{"double_quoted", `"hello world"`, token.STRING, "hello world"},
		{"single_quoted", `'hi'`, token.STRING, "hi"},
		{"escaped_quote", `"say \"hi\""`, token.STRING, `say "hi"`},
		{"escaped_backslash", `'a\\b'`, token.STRING, `a\b`},
		{"true", "true", token.TRUE, "true"},
		{"false", "false", token.FALSE, "false"},
		{"nil", "nil", token.NIL, "nil"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tok := New(tc.input).NextToken()
			if tok.Type != tc.typ {
				t.Fatalf("expected type %q, got %q", tc.typ, tok.Type)
			}
			if tok.Literal != tc.value {
				t.Fatalf("expected literal %v (%T), got %v (%T)", tc.value, tc.value, tok.Literal, tok.Literal)
			}
		})
	}
}

func TestUnterminatedString(t *testing.T) {
	tok := New(`"never closed`).NextToken()
	if tok.Type != token.ILLEGAL {
		t.Fatalf("expected ILLEGAL, got %q", tok.Type)
	}
}

func TestPositions(t *testing.T) {
	l := New("a, b")
	first := l.NextToken()
	if first.Line != 1 || first.Column != 1 {
		t.Fatalf("expected 1:1, got %d:%d", first.Line, first.Column)
	}
	l.NextToken() // comma
	second := l.NextToken()
	if second.Column != 4 {
		t.Fatalf("expected column 4 for %q, got %d", second.Lexeme, second.Column)
	}
}
