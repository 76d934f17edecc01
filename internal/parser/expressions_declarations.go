package parser

import (
	"github.com/gb714us/csharplang/internal/ast"
	"github.com/gb714us/csharplang/internal/token"
)

// parseIdentifierOrDeclaration parses a name, or a typed declaration such as
// 'int x' or 'List<int> _' when a type is followed by a designation.
func (p *Parser) parseIdentifierOrDeclaration() ast.Expression {
	if p.peekTokenIs(token.IDENT) || p.peekTokenIs(token.DISCARD) ||
		p.peekTokenIs(token.LT) || p.peekTokenIs(token.LBRACKET) {
		if t := p.tryParseType(token.IDENT, token.DISCARD); t != nil {
			return p.parseDeclarationAfterType(t)
		}
	}
	return &ast.Identifier{Token: p.curToken, Value: p.curToken.Lexeme}
}

// parseDeclarationAfterType expects the parser on the last token of t with
// a single or discard designation next.
func (p *Parser) parseDeclarationAfterType(t ast.Type) ast.Expression {
	p.nextToken()
	d := p.parseDesignation()
	if d == nil {
		return nil
	}
	return &ast.DeclarationExpression{Token: t.GetToken(), Type: t, Designation: d}
}

// parseVarDeclaration parses 'var x', 'var _' and 'var (a, (b, _))'.
func (p *Parser) parseVarDeclaration() ast.Expression {
	vt := &ast.VarType{Token: p.curToken}
	p.nextToken()
	d := p.parseDesignation()
	if d == nil {
		return nil
	}
	return &ast.DeclarationExpression{Token: vt.Token, Type: vt, Designation: d}
}

func (p *Parser) parseDesignation() ast.Designation {
	switch p.curToken.Type {
	case token.IDENT:
		return &ast.SingleDesignation{
			Token: p.curToken,
			Name:  &ast.Identifier{Token: p.curToken, Value: p.curToken.Lexeme},
		}
	case token.DISCARD:
		return &ast.DiscardDesignation{Token: p.curToken}
	case token.LPAREN:
		pd := &ast.ParenthesizedDesignation{Token: p.curToken}
		for {
			p.nextToken()
			el := p.parseDesignation()
			if el == nil {
				return nil
			}
			pd.Elements = append(pd.Elements, el)
			if !p.peekTokenIs(token.COMMA) {
				break
			}
			p.nextToken()
		}
		if !p.expectPeek(token.RPAREN) {
			return nil
		}
		return pd
	}
	p.unexpected(p.curToken)
	return nil
}
