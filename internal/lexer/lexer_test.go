package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gb714us/csharplang/internal/token"
)

func types(toks []token.Token) []token.TokenType {
	out := make([]token.TokenType, len(toks))
	for i, t := range toks {
		out[i] = t.Type
	}
	return out
}

func TestNextToken(t *testing.T) {
	input := `var (a, _) = F(out int x_1);
if (p is Point(0, var y) && y >= 1 || y != 2) {}
from k in xs where k <= 3 select k;`

	want := []token.TokenType{
		token.VAR, token.LPAREN, token.IDENT, token.COMMA, token.DISCARD, token.RPAREN, token.ASSIGN,
		token.IDENT, token.LPAREN, token.OUT, token.IDENT, token.IDENT, token.RPAREN, token.SEMICOLON,
		token.IF, token.LPAREN, token.IDENT, token.IS, token.IDENT, token.LPAREN, token.INT, token.COMMA,
		token.VAR, token.IDENT, token.RPAREN, token.AND, token.IDENT, token.GE, token.INT, token.OR,
		token.IDENT, token.NOT_EQ, token.INT, token.RPAREN, token.LBRACE, token.RBRACE,
		token.FROM, token.IDENT, token.IN, token.IDENT, token.WHERE, token.IDENT, token.LE, token.INT,
		token.SELECT, token.IDENT, token.SEMICOLON,
		token.EOF,
	}
	assert.Equal(t, want, types(New(input).Tokenize()))
}

func TestPositions(t *testing.T) {
	toks := New("a\n  (b, c)").Tokenize()
	require.Len(t, toks, 7)
	assert.Equal(t, 1, toks[0].Line)
	assert.Equal(t, 1, toks[0].Column)
	assert.Equal(t, 2, toks[1].Line)
	assert.Equal(t, 3, toks[1].Column)
	assert.Equal(t, "c", toks[4].Lexeme)
	assert.Equal(t, 7, toks[4].Column)
}

func TestLiterals(t *testing.T) {
	toks := New(`1_000 "a\"b\n" "open`).Tokenize()
	require.Len(t, toks, 4)
	assert.Equal(t, token.INT, toks[0].Type)
	assert.Equal(t, "1000", toks[0].Lexeme)
	assert.Equal(t, token.STRING, toks[1].Type)
	assert.Equal(t, "a\"b\n", toks[1].Lexeme)
	assert.Equal(t, token.ILLEGAL, toks[2].Type)
}

func TestCommentsAreSkipped(t *testing.T) {
	toks := New("a // line\n/* block\n */ b").Tokenize()
	assert.Equal(t, []token.TokenType{token.IDENT, token.IDENT, token.EOF}, types(toks))
	assert.Equal(t, 3, toks[1].Line)
}

func TestIllegalCharacter(t *testing.T) {
	toks := New("a # b").Tokenize()
	assert.Equal(t, []token.TokenType{token.IDENT, token.ILLEGAL, token.IDENT, token.EOF}, types(toks))
	assert.Equal(t, "#", toks[1].Lexeme)
}
