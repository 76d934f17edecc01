package parser

import (
	"github.com/gb714us/csharplang/internal/ast"
	"github.com/gb714us/csharplang/internal/diagnostics"
	"github.com/gb714us/csharplang/internal/token"
)

func (p *Parser) parseExpression(precedence int) ast.Expression {
	p.depth++
	defer func() { p.depth-- }()

	if p.depth > MaxRecursionDepth {
		p.addError(diagnostics.NewError(diagnostics.ErrP001, p.curToken, "expression nesting"))
		p.skipToStatementBoundary()
		return nil
	}

	prefix := p.prefixParseFns[p.curToken.Type]
	if prefix == nil {
		p.unexpected(p.curToken)
		return nil
	}
	leftExp := prefix()
	if leftExp == nil {
		return nil
	}

	for !p.peekTokenIs(token.SEMICOLON) && precedence < p.peekPrecedence() {
		infix := p.infixParseFns[p.peekToken.Type]
		if infix == nil {
			return leftExp
		}
		p.nextToken()
		leftExp = infix(leftExp)
		if leftExp == nil {
			return nil
		}
	}
	return leftExp
}

func (p *Parser) parseBinary(left ast.Expression) ast.Expression {
	expression := &ast.BinaryExpression{
		Token:    p.curToken,
		Operator: p.curToken.Lexeme,
		Left:     left,
	}
	precedence := p.curPrecedence()
	p.nextToken()
	expression.Right = p.parseExpression(precedence)
	if expression.Right == nil {
		return nil
	}
	return expression
}

// parseAssignment is right-associative: a = b = c is a = (b = c).
func (p *Parser) parseAssignment(left ast.Expression) ast.Expression {
	expression := &ast.AssignmentExpression{Token: p.curToken, Left: left}
	p.nextToken()
	expression.Value = p.parseExpression(ASSIGN - 1)
	if expression.Value == nil {
		return nil
	}
	return expression
}

func (p *Parser) parseIsPattern(left ast.Expression) ast.Expression {
	expression := &ast.IsPatternExpression{Token: p.curToken, Value: left}
	p.nextToken()
	expression.Pattern = p.parsePattern()
	if expression.Pattern == nil {
		return nil
	}
	return expression
}

// parseNegative folds a minus sign into an integer literal; other negated
// operands are not part of the subset.
func (p *Parser) parseNegative() ast.Expression {
	tok := p.curToken
	if !p.expectPeek(token.INT) {
		return nil
	}
	lit := p.parseIntegerLiteral()
	if lit == nil {
		return nil
	}
	il := lit.(*ast.IntegerLiteral)
	il.Token = token.New(token.INT, "-"+il.Token.Lexeme, tok.Line, tok.Column)
	il.Value = -il.Value
	return il
}
