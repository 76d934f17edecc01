package parser

import (
	"github.com/gb714us/csharplang/internal/ast"
	"github.com/gb714us/csharplang/internal/token"
)

// parseQueryExpression parses
//
//	from x in e { from y in e | let y = e | where e } select e
func (p *Parser) parseQueryExpression() ast.Expression {
	qe := &ast.QueryExpression{Token: p.curToken}
	for {
		clause := &ast.QueryClause{Token: p.curToken}
		switch p.curToken.Type {
		case token.FROM:
			if !p.expectPeek(token.IDENT) {
				return nil
			}
			clause.Range = &ast.Identifier{Token: p.curToken, Value: p.curToken.Lexeme}
			if !p.expectPeek(token.IN) {
				return nil
			}
			p.nextToken()
			clause.Value = p.parseExpression(LOWEST)
		case token.LET:
			if !p.expectPeek(token.IDENT) {
				return nil
			}
			clause.Range = &ast.Identifier{Token: p.curToken, Value: p.curToken.Lexeme}
			if !p.expectPeek(token.ASSIGN) {
				return nil
			}
			p.nextToken()
			clause.Value = p.parseExpression(ASSIGN)
		case token.WHERE, token.SELECT:
			p.nextToken()
			clause.Value = p.parseExpression(LOWEST)
		default:
			p.unexpected(p.curToken)
			return nil
		}
		if clause.Value == nil {
			return nil
		}
		qe.Clauses = append(qe.Clauses, clause)
		if clause.Kind() == token.SELECT {
			return qe
		}
		p.nextToken()
	}
}
