package parser

import (
	"github.com/gb714us/csharplang/internal/ast"
	"github.com/gb714us/csharplang/internal/token"
)

// parsePattern parses
//
//	Pattern    ::= '_' | 'var' Designation | Constant
//	             | Type? '(' Subpattern, ... ')' IDENT?
//	             | Type Designation | Type
//	Subpattern ::= (IDENT ':')? Pattern
func (p *Parser) parsePattern() ast.Pattern {
	switch p.curToken.Type {
	case token.DISCARD:
		return &ast.DiscardPattern{Token: p.curToken}
	case token.VAR:
		tok := p.curToken
		p.nextToken()
		d := p.parseDesignation()
		if d == nil {
			return nil
		}
		return &ast.DeclarationPattern{Token: tok, Type: &ast.VarType{Token: tok}, Designation: d}
	case token.LPAREN:
		return p.parsePositionalPattern(nil)
	case token.INT, token.STRING, token.TRUE, token.FALSE, token.NULL, token.MINUS:
		tok := p.curToken
		value := p.prefixParseFns[p.curToken.Type]()
		if value == nil {
			return nil
		}
		return &ast.ConstantPattern{Token: tok, Value: value}
	case token.IDENT:
		t := p.parseType()
		if t == nil {
			return nil
		}
		switch {
		case p.peekTokenIs(token.LPAREN):
			p.nextToken()
			return p.parsePositionalPattern(t)
		case p.peekTokenIs(token.IDENT), p.peekTokenIs(token.DISCARD):
			p.nextToken()
			d := p.parseDesignation()
			if d == nil {
				return nil
			}
			return &ast.DeclarationPattern{Token: t.GetToken(), Type: t, Designation: d}
		}
		return &ast.TypePattern{Token: t.GetToken(), Type: t}
	}
	p.unexpected(p.curToken)
	return nil
}

// parsePositionalPattern starts on '('. typ is the type already parsed
// before it, or nil.
func (p *Parser) parsePositionalPattern(typ ast.Type) ast.Pattern {
	pp := &ast.PositionalPattern{Token: p.curToken, Type: typ}
	if typ != nil {
		pp.Token = typ.GetToken()
	}
	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
	} else {
		for {
			p.nextToken()
			sub := &ast.Subpattern{Token: p.curToken}
			if p.curTokenIs(token.IDENT) && p.peekTokenIs(token.COLON) {
				sub.Name = &ast.Identifier{Token: p.curToken, Value: p.curToken.Lexeme}
				p.nextToken()
				p.nextToken()
			}
			sub.Pattern = p.parsePattern()
			if sub.Pattern == nil {
				return nil
			}
			pp.Subpatterns = append(pp.Subpatterns, sub)
			if !p.peekTokenIs(token.COMMA) {
				break
			}
			p.nextToken()
		}
		if !p.expectPeek(token.RPAREN) {
			return nil
		}
	}
	if p.peekTokenIs(token.IDENT) {
		p.nextToken()
		pp.Designation = &ast.SingleDesignation{
			Token: p.curToken,
			Name:  &ast.Identifier{Token: p.curToken, Value: p.curToken.Lexeme},
		}
	}
	return pp
}
