package parser

import (
	"github.com/gb714us/csharplang/internal/ast"
	"github.com/gb714us/csharplang/internal/config"
	"github.com/gb714us/csharplang/internal/diagnostics"
	"github.com/gb714us/csharplang/internal/token"
)

// parseClassDeclaration parses
//
//	class Name { Member* }
//
// and leaves the parser on the closing '}'.
func (p *Parser) parseClassDeclaration() *ast.ClassDeclaration {
	cd := &ast.ClassDeclaration{Token: p.curToken}
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	cd.Name = &ast.Identifier{Token: p.curToken, Value: p.curToken.Lexeme}
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	p.nextToken()
	for !p.curTokenIs(token.RBRACE) && !p.curTokenIs(token.EOF) {
		if m := p.parseClassMember(cd.Name.Value); m != nil {
			cd.Members = append(cd.Members, m)
		} else {
			p.skipToStatementBoundary()
		}
		p.nextToken()
	}
	if p.curTokenIs(token.EOF) {
		p.addError(diagnostics.NewError(diagnostics.ErrP002, p.curToken, "'}'", describe(p.curToken)))
		return nil
	}
	return cd
}

// parseClassMember parses a field, a method or a constructor of class.
//
//	Field       ::= 'static'? Type Declarators
//	Method      ::= 'static'? Type IDENT '(' Params ')' Block
//	Constructor ::= IDENT '(' Params ')' (':' ('this' | 'base') Args)? Block
func (p *Parser) parseClassMember(class string) ast.Member {
	tok := p.curToken
	isStatic := false
	if p.curTokenIs(token.STATIC) {
		isStatic = true
		p.nextToken()
	}

	if p.curTokenIs(token.IDENT) && p.curToken.Lexeme == class && p.peekTokenIs(token.LPAREN) {
		return p.parseConstructor()
	}

	t := p.parseType()
	if t == nil {
		return nil
	}
	if !p.expectPeek(token.IDENT) {
		return nil
	}

	if !p.peekTokenIs(token.LPAREN) {
		decls, ok := p.parseDeclarators()
		if !ok {
			return nil
		}
		return &ast.FieldDeclaration{Token: tok, Type: t, Declarators: decls, IsStatic: isStatic}
	}

	md := &ast.MethodDeclaration{
		Token:    tok,
		Name:     &ast.Identifier{Token: p.curToken, Value: p.curToken.Lexeme},
		IsStatic: isStatic,
	}
	if nt, ok := t.(*ast.NamedType); !ok || nt.Name != config.VoidTypeName || len(nt.Args) > 0 {
		md.Result = t
	}
	p.nextToken()
	params, ok := p.parseParameters()
	if !ok {
		return nil
	}
	md.Parameters = params
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	if md.Body = p.parseBlockStatement(); md.Body == nil {
		return nil
	}
	return md
}

func (p *Parser) parseConstructor() ast.Member {
	cd := &ast.ConstructorDeclaration{
		Token: p.curToken,
		Name:  &ast.Identifier{Token: p.curToken, Value: p.curToken.Lexeme},
	}
	p.nextToken()
	params, ok := p.parseParameters()
	if !ok {
		return nil
	}
	cd.Parameters = params

	if p.peekTokenIs(token.COLON) {
		p.nextToken()
		p.nextToken()
		if !p.curTokenIs(token.THIS) && !p.curTokenIs(token.BASE) {
			p.addError(diagnostics.NewError(diagnostics.ErrP002, p.curToken, "'this' or 'base'", describe(p.curToken)))
			return nil
		}
		init := &ast.ConstructorInitializer{Token: p.curToken}
		if !p.expectPeek(token.LPAREN) {
			return nil
		}
		args, ok := p.parseArguments()
		if !ok {
			return nil
		}
		init.Arguments = args
		cd.Initializer = init
	}

	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	if cd.Body = p.parseBlockStatement(); cd.Body == nil {
		return nil
	}
	return cd
}

// parseParameters starts on '(' and ends on ')'.
func (p *Parser) parseParameters() ([]*ast.Parameter, bool) {
	params := []*ast.Parameter{}
	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		return params, true
	}
	for {
		p.nextToken()
		param := &ast.Parameter{Token: p.curToken}
		if p.curTokenIs(token.OUT) {
			param.IsOut = true
			p.nextToken()
		}
		if param.Type = p.parseType(); param.Type == nil {
			return nil, false
		}
		if !p.expectPeek(token.IDENT) {
			return nil, false
		}
		param.Name = &ast.Identifier{Token: p.curToken, Value: p.curToken.Lexeme}
		params = append(params, param)
		if !p.peekTokenIs(token.COMMA) {
			break
		}
		p.nextToken()
	}
	if !p.expectPeek(token.RPAREN) {
		return nil, false
	}
	return params, true
}
