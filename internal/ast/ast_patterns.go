package ast

import (
	"github.com/gb714us/csharplang/internal/token"
)

// Designation names what a declaration introduces: a single variable, a
// discard, or a parenthesized list for deconstruction.
type Designation interface {
	Node
	designationNode()
}

// SingleDesignation introduces one variable.
type SingleDesignation struct {
	Token token.Token
	Name  *Identifier
}

func (sd *SingleDesignation) Accept(v Visitor)      { v.VisitSingleDesignation(sd) }
func (sd *SingleDesignation) designationNode()      {}
func (sd *SingleDesignation) TokenLiteral() string  { return sd.Token.Lexeme }
func (sd *SingleDesignation) GetToken() token.Token { return sd.Token }

// DiscardDesignation is '_' in a declaration.
type DiscardDesignation struct {
	Token token.Token
}

func (dd *DiscardDesignation) Accept(v Visitor)      { v.VisitDiscardDesignation(dd) }
func (dd *DiscardDesignation) designationNode()      {}
func (dd *DiscardDesignation) TokenLiteral() string  { return dd.Token.Lexeme }
func (dd *DiscardDesignation) GetToken() token.Token { return dd.Token }

// ParenthesizedDesignation is the (a, b) of 'var (a, b)'.
type ParenthesizedDesignation struct {
	Token    token.Token
	Elements []Designation
}

func (pd *ParenthesizedDesignation) Accept(v Visitor)      { v.VisitParenthesizedDesignation(pd) }
func (pd *ParenthesizedDesignation) designationNode()      {}
func (pd *ParenthesizedDesignation) TokenLiteral() string  { return pd.Token.Lexeme }
func (pd *ParenthesizedDesignation) GetToken() token.Token { return pd.Token }

// Pattern is a node matched against a value by an is-expression or a case
// label.
type Pattern interface {
	Node
	patternNode()
}

// DeclarationPattern matches a type and binds the value: int x, var x,
// var (a, b).
type DeclarationPattern struct {
	Token       token.Token
	Type        Type
	Designation Designation
}

func (dp *DeclarationPattern) Accept(v Visitor)      { v.VisitDeclarationPattern(dp) }
func (dp *DeclarationPattern) patternNode()          {}
func (dp *DeclarationPattern) TokenLiteral() string  { return dp.Token.Lexeme }
func (dp *DeclarationPattern) GetToken() token.Token { return dp.Token }

// DiscardPattern matches anything: _
type DiscardPattern struct {
	Token token.Token
}

func (dp *DiscardPattern) Accept(v Visitor)      { v.VisitDiscardPattern(dp) }
func (dp *DiscardPattern) patternNode()          {}
func (dp *DiscardPattern) TokenLiteral() string  { return dp.Token.Lexeme }
func (dp *DiscardPattern) GetToken() token.Token { return dp.Token }

// ConstantPattern matches a constant value: 0, "x", null
type ConstantPattern struct {
	Token token.Token
	Value Expression
}

func (cp *ConstantPattern) Accept(v Visitor)      { v.VisitConstantPattern(cp) }
func (cp *ConstantPattern) patternNode()          {}
func (cp *ConstantPattern) TokenLiteral() string  { return cp.Token.Lexeme }
func (cp *ConstantPattern) GetToken() token.Token { return cp.Token }

// TypePattern matches values of a type without binding them.
type TypePattern struct {
	Token token.Token
	Type  Type
}

func (tp *TypePattern) Accept(v Visitor)      { v.VisitTypePattern(tp) }
func (tp *TypePattern) patternNode()          {}
func (tp *TypePattern) TokenLiteral() string  { return tp.Token.Lexeme }
func (tp *TypePattern) GetToken() token.Token { return tp.Token }

// Subpattern is one element of a positional pattern, optionally labeled.
type Subpattern struct {
	Token   token.Token
	Name    *Identifier // nil when unlabeled
	Pattern Pattern
}

func (sp *Subpattern) Accept(v Visitor)      { v.VisitSubpattern(sp) }
func (sp *Subpattern) TokenLiteral() string  { return sp.Token.Lexeme }
func (sp *Subpattern) GetToken() token.Token { return sp.Token }

// PositionalPattern deconstructs the value and matches each element:
// Point(0, var y) or (int a, _). Type is nil when no type test is spelled;
// Designation optionally binds the whole value.
type PositionalPattern struct {
	Token       token.Token
	Type        Type
	Subpatterns []*Subpattern
	Designation Designation
}

func (pp *PositionalPattern) Accept(v Visitor)      { v.VisitPositionalPattern(pp) }
func (pp *PositionalPattern) patternNode()          {}
func (pp *PositionalPattern) TokenLiteral() string  { return pp.Token.Lexeme }
func (pp *PositionalPattern) GetToken() token.Token { return pp.Token }
