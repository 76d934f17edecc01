package lexer

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/gb714us/csharplang/internal/token"
)

type Lexer struct {
	input        string
	position     int  // current position in input (points to current char)
	readPosition int  // current reading position in input (after current char)
	ch           rune // current char under examination
	line         int  // current line number
	column       int  // current column number
}

func New(input string) *Lexer {
	l := &Lexer{input: input, line: 1, column: 0}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line++
		l.column = 0
	}

	if l.readPosition >= len(l.input) {
		l.ch = 0
		l.position = len(l.input)
		l.readPosition = len(l.input) + 1
		l.column++
		return
	}
	r, w := utf8.DecodeRuneInString(l.input[l.readPosition:])
	l.ch = r
	l.position = l.readPosition
	l.readPosition += w
	l.column++
}

// twoChar maps a first character to the tokens it starts when followed by
// a second one.
var twoChar = map[rune]map[rune]token.TokenType{
	'=': {'=': token.EQ},
	'!': {'=': token.NOT_EQ},
	'<': {'=': token.LE},
	'>': {'=': token.GE},
	'&': {'&': token.AND},
	'|': {'|': token.OR},
}

var oneChar = map[rune]token.TokenType{
	'(': token.LPAREN,
	')': token.RPAREN,
	'{': token.LBRACE,
	'}': token.RBRACE,
	'[': token.LBRACKET,
	']': token.RBRACKET,
	',': token.COMMA,
	':': token.COLON,
	';': token.SEMICOLON,
	'.': token.DOT,
	'=': token.ASSIGN,
	'<': token.LT,
	'>': token.GT,
	'+': token.PLUS,
	'-': token.MINUS,
	'!': token.BANG,
}

func (l *Lexer) NextToken() token.Token {
	l.skipWhitespace()
	line, col := l.line, l.column

	switch {
	case l.ch == 0:
		return token.New(token.EOF, "", line, col)
	case l.ch == '"':
		s, ok := l.readString()
		if !ok {
			return token.New(token.ILLEGAL, s, line, col)
		}
		return token.New(token.STRING, s, line, col)
	case isLetter(l.ch):
		ident := l.readIdentifier()
		return token.New(token.LookupIdent(ident), ident, line, col)
	case isDigit(l.ch):
		return token.New(token.INT, l.readNumber(), line, col)
	}

	if seconds, ok := twoChar[l.ch]; ok {
		if tt, ok := seconds[l.peekChar()]; ok {
			lexeme := string(l.ch) + string(l.peekChar())
			l.readChar()
			l.readChar()
			return token.New(tt, lexeme, line, col)
		}
	}
	ch := l.ch
	l.readChar()
	if tt, ok := oneChar[ch]; ok {
		return token.New(tt, string(ch), line, col)
	}
	return token.New(token.ILLEGAL, string(ch), line, col)
}

// Tokenize returns every token of the input, ending with EOF.
func (l *Lexer) Tokenize() []token.Token {
	var toks []token.Token
	for {
		tok := l.NextToken()
		toks = append(toks, tok)
		if tok.Type == token.EOF {
			return toks
		}
	}
}

// readString reads a double-quoted string with C-style escapes. The
// returned value is unescaped; ok is false for an unterminated string.
func (l *Lexer) readString() (string, bool) {
	var sb strings.Builder
	l.readChar() // opening quote
	for {
		switch l.ch {
		case 0, '\n':
			return sb.String(), false
		case '"':
			l.readChar()
			return sb.String(), true
		case '\\':
			l.readChar()
			switch l.ch {
			case 'n':
				sb.WriteRune('\n')
			case 't':
				sb.WriteRune('\t')
			case '0':
				sb.WriteRune(0)
			default:
				sb.WriteRune(l.ch)
			}
		default:
			sb.WriteRune(l.ch)
		}
		l.readChar()
	}
}

func (l *Lexer) readIdentifier() string {
	position := l.position
	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	return l.input[position:l.position]
}

func (l *Lexer) readNumber() string {
	position := l.position
	for isDigit(l.ch) || l.ch == '_' {
		l.readChar()
	}
	return strings.ReplaceAll(l.input[position:l.position], "_", "")
}

func isLetter(ch rune) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_' || (ch >= 0x80 && unicode.IsLetter(ch))
}

func isDigit(ch rune) bool {
	return '0' <= ch && ch <= '9'
}

func (l *Lexer) peekChar() rune {
	if l.readPosition >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPosition:])
	return r
}

func (l *Lexer) skipWhitespace() {
	for {
		for l.ch == ' ' || l.ch == '\t' || l.ch == '\r' || l.ch == '\n' {
			l.readChar()
		}
		if l.ch == '/' {
			if l.peekChar() == '/' {
				for l.ch != '\n' && l.ch != 0 {
					l.readChar()
				}
				continue
			} else if l.peekChar() == '*' {
				l.readChar() // consume /
				l.readChar() // consume *
				for l.ch != 0 {
					if l.ch == '*' && l.peekChar() == '/' {
						l.readChar() // consume *
						l.readChar() // consume /
						break
					}
					l.readChar()
				}
				continue
			}
		}
		break
	}
}
