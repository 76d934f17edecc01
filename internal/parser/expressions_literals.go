package parser

import (
	"fmt"
	"strconv"

	"github.com/gb714us/csharplang/internal/ast"
	"github.com/gb714us/csharplang/internal/diagnostics"
	"github.com/gb714us/csharplang/internal/token"
)

func (p *Parser) parseIntegerLiteral() ast.Expression {
	value, err := strconv.ParseInt(p.curToken.Lexeme, 10, 64)
	if err != nil {
		p.addError(diagnostics.NewError(diagnostics.ErrP003, p.curToken, fmt.Sprintf("integer literal %s", p.curToken.Lexeme)))
		return nil
	}
	return &ast.IntegerLiteral{Token: p.curToken, Value: value}
}

func (p *Parser) parseStringLiteral() ast.Expression {
	return &ast.StringLiteral{Token: p.curToken, Value: p.curToken.Lexeme}
}

func (p *Parser) parseBoolean() ast.Expression {
	return &ast.BooleanLiteral{Token: p.curToken, Value: p.curTokenIs(token.TRUE)}
}

func (p *Parser) parseNull() ast.Expression {
	return &ast.NullLiteral{Token: p.curToken}
}

func (p *Parser) parseThis() ast.Expression {
	return &ast.Identifier{Token: p.curToken, Value: "this"}
}

func (p *Parser) parseDiscard() ast.Expression {
	return &ast.DiscardExpression{Token: p.curToken}
}

// parseParenthesized parses a parenthesized expression or a tuple literal.
// Tuple elements may be labeled: (x: 1, y: 2).
func (p *Parser) parseParenthesized() ast.Expression {
	if t := p.tryParseType(token.IDENT, token.DISCARD); t != nil {
		return p.parseDeclarationAfterType(t)
	}

	tl := &ast.TupleLiteral{Token: p.curToken}
	for {
		p.nextToken()
		arg := &ast.TupleArgument{Token: p.curToken}
		if p.curTokenIs(token.IDENT) && p.peekTokenIs(token.COLON) {
			arg.Name = &ast.Identifier{Token: p.curToken, Value: p.curToken.Lexeme}
			p.nextToken() // :
			p.nextToken()
		}
		arg.Value = p.parseExpression(LOWEST)
		if arg.Value == nil {
			return nil
		}
		tl.Elements = append(tl.Elements, arg)
		if !p.peekTokenIs(token.COMMA) {
			break
		}
		p.nextToken()
	}
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	if len(tl.Elements) == 1 && tl.Elements[0].Name == nil {
		return tl.Elements[0].Value
	}
	return tl
}
