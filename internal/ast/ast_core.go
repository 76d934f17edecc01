package ast

import (
	"github.com/gb714us/csharplang/internal/token"
)

// TokenProvider is an interface for any AST node that can provide its primary token.
// This is useful for error reporting.
type TokenProvider interface {
	GetToken() token.Token
}

// Node is the base interface for all AST nodes.
type Node interface {
	TokenLiteral() string
	Accept(v Visitor)
	GetToken() token.Token
}

// Statement is a Node that represents a statement.
type Statement interface {
	Node
	statementNode()
}

// Expression is a Node that represents an expression.
type Expression interface {
	Node
	expressionNode()
}

// Member is a Node declared inside a class body.
type Member interface {
	Node
	memberNode()
}

// Program is the root node: class declarations followed by top-level
// statements.
type Program struct {
	File       string
	Classes    []*ClassDeclaration
	Statements []Statement
}

func (p *Program) Accept(v Visitor) { v.VisitProgram(p) }
func (p *Program) TokenLiteral() string {
	if len(p.Statements) > 0 {
		return p.Statements[0].TokenLiteral()
	}
	return ""
}
func (p *Program) GetToken() token.Token {
	if len(p.Classes) > 0 {
		return p.Classes[0].GetToken()
	}
	if len(p.Statements) > 0 {
		return p.Statements[0].GetToken()
	}
	return token.Token{}
}

// ClassDeclaration groups the members of a type declared in the symbol
// table. The type's shape (base, interfaces, fields) comes from the table;
// the members here carry the bodies and initializers to analyze.
type ClassDeclaration struct {
	Token   token.Token // The 'class' token
	Name    *Identifier
	Members []Member
}

func (cd *ClassDeclaration) Accept(v Visitor)      { v.VisitClassDeclaration(cd) }
func (cd *ClassDeclaration) TokenLiteral() string  { return cd.Token.Lexeme }
func (cd *ClassDeclaration) GetToken() token.Token { return cd.Token }

// FieldDeclaration declares one or more fields of the same type.
// int a = F(out var x), b = x;
type FieldDeclaration struct {
	Token       token.Token
	Type        Type
	Declarators []*Declarator
	IsStatic    bool
}

func (fd *FieldDeclaration) Accept(v Visitor)      { v.VisitFieldDeclaration(fd) }
func (fd *FieldDeclaration) memberNode()           {}
func (fd *FieldDeclaration) TokenLiteral() string  { return fd.Token.Lexeme }
func (fd *FieldDeclaration) GetToken() token.Token { return fd.Token }

// Declarator is a single name with an optional initializer, shared by field
// and local declarations.
type Declarator struct {
	Token token.Token // The name token
	Name  *Identifier
	Value Expression // nil when there is no initializer
}

func (d *Declarator) Accept(v Visitor)      { v.VisitDeclarator(d) }
func (d *Declarator) TokenLiteral() string  { return d.Token.Lexeme }
func (d *Declarator) GetToken() token.Token { return d.Token }

// Parameter is a method or constructor parameter.
type Parameter struct {
	Token token.Token
	Name  *Identifier
	Type  Type
	IsOut bool
}

func (p *Parameter) Accept(v Visitor)      { v.VisitParameter(p) }
func (p *Parameter) TokenLiteral() string  { return p.Token.Lexeme }
func (p *Parameter) GetToken() token.Token { return p.Token }

// MethodDeclaration is a method with a body.
type MethodDeclaration struct {
	Token      token.Token
	Name       *Identifier
	Parameters []*Parameter
	Result     Type // nil for void
	Body       *BlockStatement
	IsStatic   bool
}

func (md *MethodDeclaration) Accept(v Visitor)      { v.VisitMethodDeclaration(md) }
func (md *MethodDeclaration) memberNode()           {}
func (md *MethodDeclaration) TokenLiteral() string  { return md.Token.Lexeme }
func (md *MethodDeclaration) GetToken() token.Token { return md.Token }

// ConstructorDeclaration is a constructor, optionally chaining to another
// constructor through an initializer.
type ConstructorDeclaration struct {
	Token       token.Token
	Name        *Identifier
	Parameters  []*Parameter
	Initializer *ConstructorInitializer // nil when absent
	Body        *BlockStatement
}

func (cd *ConstructorDeclaration) Accept(v Visitor)      { v.VisitConstructorDeclaration(cd) }
func (cd *ConstructorDeclaration) memberNode()           {}
func (cd *ConstructorDeclaration) TokenLiteral() string  { return cd.Token.Lexeme }
func (cd *ConstructorDeclaration) GetToken() token.Token { return cd.Token }

// ConstructorInitializer is the this(...) or base(...) call that runs before
// a constructor body.
type ConstructorInitializer struct {
	Token     token.Token // The 'this' or 'base' token
	Arguments []*Argument
}

func (ci *ConstructorInitializer) Accept(v Visitor)      { v.VisitConstructorInitializer(ci) }
func (ci *ConstructorInitializer) TokenLiteral() string  { return ci.Token.Lexeme }
func (ci *ConstructorInitializer) GetToken() token.Token { return ci.Token }

// IsBase reports whether the initializer chains to the base class.
func (ci *ConstructorInitializer) IsBase() bool { return ci.Token.Type == token.BASE }
