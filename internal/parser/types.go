package parser

import (
	"github.com/gb714us/csharplang/internal/ast"
	"github.com/gb714us/csharplang/internal/config"
	"github.com/gb714us/csharplang/internal/token"
)

// parseType parses a type spelling starting at the current token and
// leaves the parser on its last token.
//
//	Type      ::= Named | Tuple | 'var'
//	Named     ::= IDENT ('<' Type (',' Type)* '>')? ('[' ']')*
//	Tuple     ::= '(' Type IDENT? (',' Type IDENT?)+ ')'
func (p *Parser) parseType() ast.Type {
	var t ast.Type
	switch p.curToken.Type {
	case token.VAR:
		return &ast.VarType{Token: p.curToken}
	case token.IDENT:
		t = p.parseNamedType()
	case token.LPAREN:
		t = p.parseTupleType()
	default:
		p.unexpected(p.curToken)
		return nil
	}
	if t == nil {
		return nil
	}
	for p.peekTokenIs(token.LBRACKET) && p.tokenAt(p.pos+2).Type == token.RBRACKET {
		p.nextToken()
		tok := p.curToken
		p.nextToken()
		t = &ast.NamedType{Token: tok, Name: config.ArrayTypeName, Args: []ast.Type{t}}
	}
	return t
}

func (p *Parser) parseNamedType() ast.Type {
	nt := &ast.NamedType{Token: p.curToken, Name: p.curToken.Lexeme}
	if !p.peekTokenIs(token.LT) {
		return nt
	}
	p.nextToken() // <
	for {
		p.nextToken()
		arg := p.parseType()
		if arg == nil {
			return nil
		}
		nt.Args = append(nt.Args, arg)
		if !p.peekTokenIs(token.COMMA) {
			break
		}
		p.nextToken()
	}
	if !p.expectPeek(token.GT) {
		return nil
	}
	return nt
}

func (p *Parser) parseTupleType() ast.Type {
	tt := &ast.TupleType{Token: p.curToken}
	for {
		p.nextToken()
		elem := &ast.TupleTypeElement{Type: p.parseType()}
		if elem.Type == nil {
			return nil
		}
		if p.peekTokenIs(token.IDENT) {
			p.nextToken()
			elem.Name = &ast.Identifier{Token: p.curToken, Value: p.curToken.Lexeme}
		}
		tt.Elements = append(tt.Elements, elem)
		if !p.peekTokenIs(token.COMMA) {
			break
		}
		p.nextToken()
	}
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	return tt
}

// tryParseType parses a type if one starts here and is followed by a token
// of one of the given types. Otherwise the parser is left unmoved.
func (p *Parser) tryParseType(followers ...token.TokenType) ast.Type {
	var t ast.Type
	ok := p.speculate(func() bool {
		t = p.parseType()
		if t == nil {
			return false
		}
		for _, f := range followers {
			if p.peekTokenIs(f) {
				return true
			}
		}
		return false
	})
	if !ok {
		return nil
	}
	return t
}
