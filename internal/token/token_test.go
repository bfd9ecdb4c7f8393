package token_test

import (
	"testing"

	"github.com/angelobarone/minilang-compiler/internal/token"
)

func TestLookupIdent(t *testing.T) {
	cases := map[string]token.TokenType{
		"let":     token.LET,
		"func":    token.FUNC,
		"extern":  token.EXTERN,
		"return":  token.RETURN,
		"if":      token.IF,
		"else":    token.ELSE,
		"while":   token.WHILE,
		"repeat":  token.REPEAT,
		"foobar":  token.ID,
		"letter":  token.ID, // must not prefix-match "let"
	}
	for ident, want := range cases {
		if got := token.LookupIdent(ident); got != want {
			t.Errorf("LookupIdent(%q) = %s, want %s", ident, got, want)
		}
	}
}

func TestTokenString(t *testing.T) {
	tok := token.Token{Type: token.ID, Lexeme: "x", Line: 3, Column: 5}
	got := tok.String()
	want := "Line 3:5, Type: ID, Lexeme: 'x'"
	if got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
