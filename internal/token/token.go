package token

import "fmt"

type TokenType string

const (
	ILLEGAL TokenType = "ILLEGAL"
	EOF     TokenType = "EOF"
	IDENT   TokenType = "IDENT"
	INT     TokenType = "INT"
	STRING  TokenType = "STRING"
	NULL    TokenType = "null"
	TRUE    TokenType = "true"
	FALSE   TokenType = "false"

	LPAREN    TokenType = "("
	RPAREN    TokenType = ")"
	LBRACE    TokenType = "{"
	RBRACE    TokenType = "}"
	LBRACKET  TokenType = "["
	RBRACKET  TokenType = "]"
	COMMA     TokenType = ","
	COLON     TokenType = ":"
	SEMICOLON TokenType = ";"
	DOT       TokenType = "."
	ASSIGN    TokenType = "="
	AND       TokenType = "&&"
	OR        TokenType = "||"
	EQ        TokenType = "=="
	NOT_EQ    TokenType = "!="
	LT        TokenType = "<"
	GT        TokenType = ">"
	LE        TokenType = "<="
	GE        TokenType = ">="
	PLUS      TokenType = "+"
	MINUS     TokenType = "-"
	BANG      TokenType = "!"

	OUT      TokenType = "out"
	IN       TokenType = "in"
	ELSE     TokenType = "else"
	STATIC   TokenType = "static"
	VAR      TokenType = "var"
	IS       TokenType = "is"
	IF       TokenType = "if"
	WHILE    TokenType = "while"
	FOR      TokenType = "for"
	FOREACH  TokenType = "foreach"
	SWITCH   TokenType = "switch"
	CASE     TokenType = "case"
	RETURN   TokenType = "return"
	THROW    TokenType = "throw"
	BREAK    TokenType = "break"
	CONTINUE TokenType = "continue"
	CLASS    TokenType = "class"
	THIS     TokenType = "this"
	BASE     TokenType = "base"
	NEW      TokenType = "new"
	DEFAULT  TokenType = "default"
	WHEN     TokenType = "when"
	FROM     TokenType = "from"
	WHERE    TokenType = "where"
	LET      TokenType = "let"
	SELECT   TokenType = "select"
	DISCARD  TokenType = "_"
)

var keywords = map[string]TokenType{
	"null":     NULL,
	"true":     TRUE,
	"false":    FALSE,
	"out":      OUT,
	"in":       IN,
	"else":     ELSE,
	"static":   STATIC,
	"var":      VAR,
	"is":       IS,
	"if":       IF,
	"while":    WHILE,
	"for":      FOR,
	"foreach":  FOREACH,
	"switch":   SWITCH,
	"case":     CASE,
	"return":   RETURN,
	"throw":    THROW,
	"break":    BREAK,
	"continue": CONTINUE,
	"class":    CLASS,
	"this":     THIS,
	"base":     BASE,
	"new":      NEW,
	"default":  DEFAULT,
	"when":     WHEN,
	"from":     FROM,
	"where":    WHERE,
	"let":      LET,
	"select":   SELECT,
	"_":        DISCARD,
}

// LookupIdent returns the keyword type of ident, or IDENT.
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}

// Token is a lexical token with its source position.
// Line and Column are 1-based; zero values mean the position is unknown
// (synthesized nodes).
type Token struct {
	Type   TokenType
	Lexeme string
	Line   int
	Column int
}

// New creates a token at the given position.
func New(t TokenType, lexeme string, line, column int) Token {
	return Token{Type: t, Lexeme: lexeme, Line: line, Column: column}
}

// HasPosition reports whether the token carries a source position.
func (t Token) HasPosition() bool {
	return t.Line > 0
}

func (t Token) String() string {
	if !t.HasPosition() {
		return t.Lexeme
	}
	return fmt.Sprintf("%s@%d:%d", t.Lexeme, t.Line, t.Column)
}
