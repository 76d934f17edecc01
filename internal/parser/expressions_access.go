package parser

import (
	"github.com/gb714us/csharplang/internal/ast"
	"github.com/gb714us/csharplang/internal/token"
)

func (p *Parser) parseMember(left ast.Expression) ast.Expression {
	me := &ast.MemberExpression{Token: p.curToken, Left: left}
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	me.Member = &ast.Identifier{Token: p.curToken, Value: p.curToken.Lexeme}
	return me
}

func (p *Parser) parseIndex(left ast.Expression) ast.Expression {
	ie := &ast.IndexExpression{Token: p.curToken, Left: left}
	p.nextToken()
	ie.Index = p.parseExpression(LOWEST)
	if ie.Index == nil {
		return nil
	}
	if !p.expectPeek(token.RBRACKET) {
		return nil
	}
	return ie
}

func (p *Parser) parseCall(function ast.Expression) ast.Expression {
	ce := &ast.CallExpression{Token: p.curToken, Function: function}
	args, ok := p.parseArguments()
	if !ok {
		return nil
	}
	ce.Arguments = args
	return ce
}

// parseArguments parses a parenthesized argument list starting on '(' and
// leaves the parser on ')'. An argument may be passed as out.
func (p *Parser) parseArguments() ([]*ast.Argument, bool) {
	args := []*ast.Argument{}
	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		return args, true
	}
	for {
		p.nextToken()
		arg := &ast.Argument{Token: p.curToken}
		if p.curTokenIs(token.OUT) {
			arg.IsOut = true
			p.nextToken()
		}
		arg.Value = p.parseExpression(LOWEST)
		if arg.Value == nil {
			return nil, false
		}
		args = append(args, arg)
		if !p.peekTokenIs(token.COMMA) {
			break
		}
		p.nextToken()
	}
	if !p.expectPeek(token.RPAREN) {
		return nil, false
	}
	return args, true
}

func (p *Parser) parseNewExpression() ast.Expression {
	ne := &ast.NewExpression{Token: p.curToken}
	p.nextToken()
	ne.Type = p.parseType()
	if ne.Type == nil {
		return nil
	}
	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	args, ok := p.parseArguments()
	if !ok {
		return nil
	}
	ne.Arguments = args
	return ne
}
