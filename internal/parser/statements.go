package parser

import (
	"fmt"

	"github.com/gb714us/csharplang/internal/ast"
	"github.com/gb714us/csharplang/internal/diagnostics"
	"github.com/gb714us/csharplang/internal/token"
)

// parseStatement parses one statement and leaves the parser on its last
// token: ';' or the closing '}'.
func (p *Parser) parseStatement() ast.Statement {
	switch p.curToken.Type {
	case token.LBRACE:
		if block := p.parseBlockStatement(); block != nil {
			return block
		}
		return nil
	case token.IF:
		return p.parseIfStatement()
	case token.WHILE:
		return p.parseWhileStatement()
	case token.FOR:
		return p.parseForStatement()
	case token.FOREACH:
		return p.parseForEachStatement()
	case token.SWITCH:
		return p.parseSwitchStatement()
	case token.RETURN:
		return p.parseReturnStatement()
	case token.THROW:
		return p.parseThrowStatement()
	case token.BREAK:
		stmt := &ast.BreakStatement{Token: p.curToken}
		if !p.expectPeek(token.SEMICOLON) {
			return nil
		}
		return stmt
	case token.CONTINUE:
		stmt := &ast.ContinueStatement{Token: p.curToken}
		if !p.expectPeek(token.SEMICOLON) {
			return nil
		}
		return stmt
	case token.IDENT, token.VAR, token.LPAREN:
		if t := p.tryParseType(token.IDENT); t != nil {
			return p.parseLocalDeclaration(t)
		}
	}
	return p.parseExpressionStatement()
}

func (p *Parser) parseExpressionStatement() ast.Statement {
	stmt := &ast.ExpressionStatement{Token: p.curToken}
	stmt.Expression = p.parseExpression(LOWEST)
	if stmt.Expression == nil {
		return nil
	}
	if !p.expectPeek(token.SEMICOLON) {
		return nil
	}
	return stmt
}

// parseLocalDeclaration expects the parser on the last token of t.
func (p *Parser) parseLocalDeclaration(t ast.Type) ast.Statement {
	ld := &ast.LocalDeclaration{Token: t.GetToken(), Type: t}
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	decls, ok := p.parseDeclarators()
	if !ok {
		return nil
	}
	ld.Declarators = decls
	return ld
}

// parseDeclarators starts on the first declared name and ends on ';'.
//
//	Declarators ::= IDENT ('=' Expr)? (',' IDENT ('=' Expr)?)* ';'
func (p *Parser) parseDeclarators() ([]*ast.Declarator, bool) {
	var decls []*ast.Declarator
	for {
		d := &ast.Declarator{
			Token: p.curToken,
			Name:  &ast.Identifier{Token: p.curToken, Value: p.curToken.Lexeme},
		}
		if p.peekTokenIs(token.ASSIGN) {
			p.nextToken()
			p.nextToken()
			d.Value = p.parseExpression(LOWEST)
			if d.Value == nil {
				return nil, false
			}
		}
		decls = append(decls, d)
		if !p.peekTokenIs(token.COMMA) {
			break
		}
		p.nextToken()
		if !p.expectPeek(token.IDENT) {
			return nil, false
		}
	}
	if !p.expectPeek(token.SEMICOLON) {
		return nil, false
	}
	return decls, true
}

func (p *Parser) parseBlockStatement() *ast.BlockStatement {
	block := &ast.BlockStatement{Token: p.curToken}
	p.nextToken()
	for !p.curTokenIs(token.RBRACE) && !p.curTokenIs(token.EOF) {
		if stmt := p.parseStatement(); stmt != nil {
			block.Statements = append(block.Statements, stmt)
		} else {
			p.skipToStatementBoundary()
		}
		p.nextToken()
	}
	if p.curTokenIs(token.EOF) {
		p.addError(diagnostics.NewError(diagnostics.ErrP002, p.curToken, "'}'", describe(p.curToken)))
		return nil
	}
	block.RBraceToken = p.curToken
	return block
}

// parseCondition parses '(' Expr ')' starting before the '('.
func (p *Parser) parseCondition() ast.Expression {
	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	p.nextToken()
	cond := p.parseExpression(LOWEST)
	if cond == nil {
		return nil
	}
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	return cond
}

// parseBody parses the statement after a control header.
func (p *Parser) parseBody() ast.Statement {
	p.nextToken()
	return p.parseStatement()
}

func (p *Parser) parseIfStatement() ast.Statement {
	stmt := &ast.IfStatement{Token: p.curToken}
	if stmt.Condition = p.parseCondition(); stmt.Condition == nil {
		return nil
	}
	if stmt.Consequence = p.parseBody(); stmt.Consequence == nil {
		return nil
	}
	if p.peekTokenIs(token.ELSE) {
		p.nextToken()
		if stmt.Alternative = p.parseBody(); stmt.Alternative == nil {
			return nil
		}
	}
	return stmt
}

func (p *Parser) parseWhileStatement() ast.Statement {
	stmt := &ast.WhileStatement{Token: p.curToken}
	if stmt.Condition = p.parseCondition(); stmt.Condition == nil {
		return nil
	}
	if stmt.Body = p.parseBody(); stmt.Body == nil {
		return nil
	}
	return stmt
}

// parseForStatement parses for (Init; Condition; Update) Body. Each part may
// be empty.
func (p *Parser) parseForStatement() ast.Statement {
	stmt := &ast.ForStatement{Token: p.curToken}
	if !p.expectPeek(token.LPAREN) {
		return nil
	}

	p.nextToken()
	if !p.curTokenIs(token.SEMICOLON) {
		init := p.parseStatement()
		if init == nil {
			return nil
		}
		switch init.(type) {
		case *ast.LocalDeclaration, *ast.ExpressionStatement:
		default:
			p.errorf(init.GetToken(), "for initializer")
			return nil
		}
		stmt.Init = append(stmt.Init, init)
	}

	if p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
	} else {
		p.nextToken()
		if stmt.Condition = p.parseExpression(LOWEST); stmt.Condition == nil {
			return nil
		}
		if !p.expectPeek(token.SEMICOLON) {
			return nil
		}
	}

	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
	} else {
		for {
			p.nextToken()
			update := p.parseExpression(LOWEST)
			if update == nil {
				return nil
			}
			stmt.Update = append(stmt.Update, update)
			if !p.peekTokenIs(token.COMMA) {
				break
			}
			p.nextToken()
		}
		if !p.expectPeek(token.RPAREN) {
			return nil
		}
	}

	if stmt.Body = p.parseBody(); stmt.Body == nil {
		return nil
	}
	return stmt
}

// parseForEachStatement parses foreach (Variable in Collection) Body where
// Variable is a declaration or a tuple of declarations.
func (p *Parser) parseForEachStatement() ast.Statement {
	stmt := &ast.ForEachStatement{Token: p.curToken}
	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	p.nextToken()
	if stmt.Variable = p.parseExpression(LOWEST); stmt.Variable == nil {
		return nil
	}
	switch stmt.Variable.(type) {
	case *ast.DeclarationExpression, *ast.TupleLiteral:
	default:
		p.errorf(stmt.Variable.GetToken(), "foreach variable %s", describe(stmt.Variable.GetToken()))
		return nil
	}
	if !p.expectPeek(token.IN) {
		return nil
	}
	p.nextToken()
	if stmt.Collection = p.parseExpression(LOWEST); stmt.Collection == nil {
		return nil
	}
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	if stmt.Body = p.parseBody(); stmt.Body == nil {
		return nil
	}
	return stmt
}

func (p *Parser) parseReturnStatement() ast.Statement {
	stmt := &ast.ReturnStatement{Token: p.curToken}
	if p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
		return stmt
	}
	p.nextToken()
	if stmt.Value = p.parseExpression(LOWEST); stmt.Value == nil {
		return nil
	}
	if !p.expectPeek(token.SEMICOLON) {
		return nil
	}
	return stmt
}

func (p *Parser) parseThrowStatement() ast.Statement {
	stmt := &ast.ThrowStatement{Token: p.curToken}
	p.nextToken()
	if stmt.Value = p.parseExpression(LOWEST); stmt.Value == nil {
		return nil
	}
	if !p.expectPeek(token.SEMICOLON) {
		return nil
	}
	return stmt
}

// parseSwitchStatement parses
//
//	switch (Value) { (('case' Pattern ('when' Expr)? | 'default') ':' Statement*)* }
func (p *Parser) parseSwitchStatement() ast.Statement {
	stmt := &ast.SwitchStatement{Token: p.curToken}
	if stmt.Value = p.parseCondition(); stmt.Value == nil {
		return nil
	}
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	p.nextToken()
	for p.curTokenIs(token.CASE) || p.curTokenIs(token.DEFAULT) {
		section := &ast.SwitchSection{Token: p.curToken}
		for p.curTokenIs(token.CASE) || p.curTokenIs(token.DEFAULT) {
			label := p.parseCaseLabel()
			if label == nil {
				return nil
			}
			section.Labels = append(section.Labels, label)
			p.nextToken()
		}
		for !p.curTokenIs(token.CASE) && !p.curTokenIs(token.DEFAULT) &&
			!p.curTokenIs(token.RBRACE) && !p.curTokenIs(token.EOF) {
			if s := p.parseStatement(); s != nil {
				section.Statements = append(section.Statements, s)
			} else {
				p.skipToStatementBoundary()
			}
			p.nextToken()
		}
		stmt.Sections = append(stmt.Sections, section)
	}
	if !p.curTokenIs(token.RBRACE) {
		p.addError(diagnostics.NewError(diagnostics.ErrP002, p.curToken, "'}'", describe(p.curToken)))
		return nil
	}
	return stmt
}

func (p *Parser) parseCaseLabel() *ast.CaseLabel {
	label := &ast.CaseLabel{Token: p.curToken}
	if p.curTokenIs(token.CASE) {
		p.nextToken()
		if label.Pattern = p.parsePattern(); label.Pattern == nil {
			return nil
		}
		if p.peekTokenIs(token.WHEN) {
			p.nextToken()
			p.nextToken()
			if label.When = p.parseExpression(LOWEST); label.When == nil {
				return nil
			}
		}
	}
	if !p.expectPeek(token.COLON) {
		return nil
	}
	return label
}

// errorf reports a free-form syntax error at tok.
func (p *Parser) errorf(tok token.Token, format string, args ...interface{}) {
	p.addError(diagnostics.NewError(diagnostics.ErrP003, tok, fmt.Sprintf(format, args...)))
}
