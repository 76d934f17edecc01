// Package parser builds syntax trees for the statement and expression subset
// the tuple analysis works on: classes with fields, methods and
// constructors; locals, control flow and switch; tuple literals,
// deconstructions, out arguments, patterns and queries.
package parser

import (
	"fmt"

	"github.com/gb714us/csharplang/internal/ast"
	"github.com/gb714us/csharplang/internal/diagnostics"
	"github.com/gb714us/csharplang/internal/token"
)

const MaxRecursionDepth = 500

const (
	_ int = iota
	LOWEST
	ASSIGN      // =
	LOGICAL_OR  // ||
	LOGICAL_AND // &&
	EQUALS      // == !=
	COMPARE     // < > <= >= is
	SUM         // + -
	PREFIX      // -x
	CALL        // f(x) a.b a[i]
)

var precedences = map[token.TokenType]int{
	token.ASSIGN:   ASSIGN,
	token.OR:       LOGICAL_OR,
	token.AND:      LOGICAL_AND,
	token.EQ:       EQUALS,
	token.NOT_EQ:   EQUALS,
	token.LT:       COMPARE,
	token.GT:       COMPARE,
	token.LE:       COMPARE,
	token.GE:       COMPARE,
	token.IS:       COMPARE,
	token.PLUS:     SUM,
	token.MINUS:    SUM,
	token.LPAREN:   CALL,
	token.DOT:      CALL,
	token.LBRACKET: CALL,
}

type (
	prefixParseFn func() ast.Expression
	infixParseFn  func(ast.Expression) ast.Expression
)

type Parser struct {
	tokens []token.Token
	pos    int

	curToken  token.Token
	peekToken token.Token

	errors []*diagnostics.DiagnosticError
	// quiet suppresses errors while the parser speculates; failed records
	// that a speculative parse hit one.
	quiet  int
	failed bool
	depth  int

	prefixParseFns map[token.TokenType]prefixParseFn
	infixParseFns  map[token.TokenType]infixParseFn
}

// New returns a parser over tokens, which must end with EOF.
func New(tokens []token.Token) *Parser {
	if len(tokens) == 0 || tokens[len(tokens)-1].Type != token.EOF {
		tokens = append(tokens, token.New(token.EOF, "", 0, 0))
	}
	p := &Parser{tokens: tokens}

	p.prefixParseFns = map[token.TokenType]prefixParseFn{
		token.IDENT:    p.parseIdentifierOrDeclaration,
		token.INT:      p.parseIntegerLiteral,
		token.STRING:   p.parseStringLiteral,
		token.TRUE:     p.parseBoolean,
		token.FALSE:    p.parseBoolean,
		token.NULL:     p.parseNull,
		token.MINUS:    p.parseNegative,
		token.LPAREN:   p.parseParenthesized,
		token.VAR:      p.parseVarDeclaration,
		token.DISCARD:  p.parseDiscard,
		token.NEW:      p.parseNewExpression,
		token.FROM:     p.parseQueryExpression,
		token.THIS:     p.parseThis,
	}
	p.infixParseFns = map[token.TokenType]infixParseFn{
		token.ASSIGN:   p.parseAssignment,
		token.OR:       p.parseBinary,
		token.AND:      p.parseBinary,
		token.EQ:       p.parseBinary,
		token.NOT_EQ:   p.parseBinary,
		token.LT:       p.parseBinary,
		token.GT:       p.parseBinary,
		token.LE:       p.parseBinary,
		token.GE:       p.parseBinary,
		token.PLUS:     p.parseBinary,
		token.MINUS:    p.parseBinary,
		token.IS:       p.parseIsPattern,
		token.LPAREN:   p.parseCall,
		token.DOT:      p.parseMember,
		token.LBRACKET: p.parseIndex,
	}

	p.pos = -1
	p.nextToken()
	return p
}

// Errors returns the syntax errors found so far.
func (p *Parser) Errors() []*diagnostics.DiagnosticError {
	return p.errors
}

func (p *Parser) nextToken() {
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	p.curToken = p.tokens[p.pos]
	p.peekToken = p.tokenAt(p.pos + 1)
}

func (p *Parser) tokenAt(i int) token.Token {
	if i >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[i]
}

func (p *Parser) reset(pos int) {
	p.pos = pos
	p.curToken = p.tokens[p.pos]
	p.peekToken = p.tokenAt(p.pos + 1)
}

// speculate runs parse without reporting errors. On success the parser
// stays after the parsed construct; otherwise it is rewound.
func (p *Parser) speculate(parse func() bool) bool {
	start, failed := p.pos, p.failed
	p.quiet++
	p.failed = false
	ok := parse() && !p.failed
	p.quiet--
	p.failed = failed
	if !ok {
		p.reset(start)
	}
	return ok
}

func (p *Parser) curTokenIs(t token.TokenType) bool  { return p.curToken.Type == t }
func (p *Parser) peekTokenIs(t token.TokenType) bool { return p.peekToken.Type == t }

// expectPeek advances if the next token has type t and reports an error
// otherwise.
func (p *Parser) expectPeek(t token.TokenType) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.peekError(t)
	return false
}

func (p *Parser) peekError(t token.TokenType) {
	p.addError(diagnostics.NewError(diagnostics.ErrP002, p.peekToken, fmt.Sprintf("'%s'", t), describe(p.peekToken)))
}

func (p *Parser) addError(err *diagnostics.DiagnosticError) {
	if p.quiet > 0 {
		p.failed = true
		return
	}
	p.errors = append(p.errors, err)
}

func (p *Parser) unexpected(tok token.Token) {
	if tok.Type == token.ILLEGAL {
		p.addError(diagnostics.NewError(diagnostics.ErrP003, tok, fmt.Sprintf("'%s'", tok.Lexeme)))
		return
	}
	p.addError(diagnostics.NewError(diagnostics.ErrP001, tok, describe(tok)))
}

func describe(tok token.Token) string {
	switch tok.Type {
	case token.EOF:
		return "end of input"
	case token.IDENT, token.INT:
		return fmt.Sprintf("'%s'", tok.Lexeme)
	case token.STRING:
		return "string literal"
	}
	return fmt.Sprintf("'%s'", tok.Type)
}

func (p *Parser) peekPrecedence() int {
	if prec, ok := precedences[p.peekToken.Type]; ok {
		return prec
	}
	return LOWEST
}

func (p *Parser) curPrecedence() int {
	if prec, ok := precedences[p.curToken.Type]; ok {
		return prec
	}
	return LOWEST
}

// skipToStatementBoundary advances past the next ';' or to the next '}'.
func (p *Parser) skipToStatementBoundary() {
	for !p.curTokenIs(token.EOF) {
		if p.curTokenIs(token.SEMICOLON) {
			return
		}
		if p.peekTokenIs(token.RBRACE) || p.peekTokenIs(token.EOF) {
			return
		}
		p.nextToken()
	}
}

// ParseProgram parses class declarations and top-level statements.
func (p *Parser) ParseProgram() *ast.Program {
	program := &ast.Program{}
	for !p.curTokenIs(token.EOF) {
		if p.curTokenIs(token.CLASS) {
			if cd := p.parseClassDeclaration(); cd != nil {
				program.Classes = append(program.Classes, cd)
			}
		} else if stmt := p.parseStatement(); stmt != nil {
			program.Statements = append(program.Statements, stmt)
		} else {
			p.skipToStatementBoundary()
		}
		p.nextToken()
	}
	return program
}
