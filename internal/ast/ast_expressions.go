package ast

import (
	"github.com/gb714us/csharplang/internal/token"
)

// Identifier represents an identifier, e.g., a variable name.
type Identifier struct {
	Token token.Token // the token.IDENT token
	Value string
}

func (i *Identifier) Accept(v Visitor)     { v.VisitIdentifier(i) }
func (i *Identifier) expressionNode()      {}
func (i *Identifier) TokenLiteral() string { return i.Token.Lexeme }
func (i *Identifier) GetToken() token.Token {
	if i == nil {
		return token.Token{}
	}
	return i.Token
}

// IntegerLiteral represents an integer literal.
type IntegerLiteral struct {
	Token token.Token
	Value int64
}

func (il *IntegerLiteral) Accept(v Visitor)      { v.VisitIntegerLiteral(il) }
func (il *IntegerLiteral) expressionNode()       {}
func (il *IntegerLiteral) TokenLiteral() string  { return il.Token.Lexeme }
func (il *IntegerLiteral) GetToken() token.Token { return il.Token }

// StringLiteral represents a string, e.g. "hello"
type StringLiteral struct {
	Token token.Token
	Value string
}

func (sl *StringLiteral) Accept(v Visitor)      { v.VisitStringLiteral(sl) }
func (sl *StringLiteral) expressionNode()       {}
func (sl *StringLiteral) TokenLiteral() string  { return sl.Token.Lexeme }
func (sl *StringLiteral) GetToken() token.Token { return sl.Token }

// BooleanLiteral represents boolean literals true/false.
type BooleanLiteral struct {
	Token token.Token
	Value bool
}

func (b *BooleanLiteral) Accept(v Visitor)      { v.VisitBooleanLiteral(b) }
func (b *BooleanLiteral) expressionNode()       {}
func (b *BooleanLiteral) TokenLiteral() string  { return b.Token.Lexeme }
func (b *BooleanLiteral) GetToken() token.Token { return b.Token }

// NullLiteral represents the null literal. It has no type of its own.
type NullLiteral struct {
	Token token.Token
}

func (n *NullLiteral) Accept(v Visitor)      { v.VisitNullLiteral(n) }
func (n *NullLiteral) expressionNode()       {}
func (n *NullLiteral) TokenLiteral() string  { return n.Token.Lexeme }
func (n *NullLiteral) GetToken() token.Token { return n.Token }

// TupleArgument is one element of a tuple literal, optionally labeled.
// (x: 1, y: 2) or, on the left of a deconstruction, (x: a, y: b).
type TupleArgument struct {
	Token token.Token
	Name  *Identifier // nil when unlabeled
	Value Expression
}

func (ta *TupleArgument) Accept(v Visitor)      { v.VisitTupleArgument(ta) }
func (ta *TupleArgument) TokenLiteral() string  { return ta.Token.Lexeme }
func (ta *TupleArgument) GetToken() token.Token { return ta.Token }

// TupleLiteral represents a tuple, e.g. (1, "hello", true). On the left of
// an assignment it is the target list of a deconstruction.
type TupleLiteral struct {
	Token    token.Token // The '(' token
	Elements []*TupleArgument
}

func (tl *TupleLiteral) Accept(v Visitor)      { v.VisitTupleLiteral(tl) }
func (tl *TupleLiteral) expressionNode()       {}
func (tl *TupleLiteral) TokenLiteral() string  { return tl.Token.Lexeme }
func (tl *TupleLiteral) GetToken() token.Token { return tl.Token }

// Values returns the element expressions in order.
func (tl *TupleLiteral) Values() []Expression {
	out := make([]Expression, len(tl.Elements))
	for i, e := range tl.Elements {
		out[i] = e.Value
	}
	return out
}

// DiscardExpression is '_' used as a deconstruction target.
type DiscardExpression struct {
	Token token.Token
}

func (de *DiscardExpression) Accept(v Visitor)      { v.VisitDiscardExpression(de) }
func (de *DiscardExpression) expressionNode()       {}
func (de *DiscardExpression) TokenLiteral() string  { return de.Token.Lexeme }
func (de *DiscardExpression) GetToken() token.Token { return de.Token }

// DeclarationExpression declares variables inline: 'var x' or 'int x' as
// an out argument or tuple element, and 'var (a, b)' as a deconstruction
// target.
type DeclarationExpression struct {
	Token       token.Token
	Type        Type
	Designation Designation
}

func (de *DeclarationExpression) Accept(v Visitor)      { v.VisitDeclarationExpression(de) }
func (de *DeclarationExpression) expressionNode()       {}
func (de *DeclarationExpression) TokenLiteral() string  { return de.Token.Lexeme }
func (de *DeclarationExpression) GetToken() token.Token { return de.Token }

// MemberExpression represents dot access, e.g. obj.field or t.Item8
type MemberExpression struct {
	Token  token.Token // The '.' token
	Left   Expression
	Member *Identifier
}

func (me *MemberExpression) Accept(v Visitor)      { v.VisitMemberExpression(me) }
func (me *MemberExpression) expressionNode()       {}
func (me *MemberExpression) TokenLiteral() string  { return me.Token.Lexeme }
func (me *MemberExpression) GetToken() token.Token { return me.Token }

// IndexExpression represents indexing, e.g. arr[i]
type IndexExpression struct {
	Token token.Token // The '[' token
	Left  Expression
	Index Expression
}

func (ie *IndexExpression) Accept(v Visitor)      { v.VisitIndexExpression(ie) }
func (ie *IndexExpression) expressionNode()       {}
func (ie *IndexExpression) TokenLiteral() string  { return ie.Token.Lexeme }
func (ie *IndexExpression) GetToken() token.Token { return ie.Token }

// Argument is a call argument, possibly passed as out.
type Argument struct {
	Token token.Token
	IsOut bool
	Value Expression
}

func (a *Argument) Accept(v Visitor)      { v.VisitArgument(a) }
func (a *Argument) TokenLiteral() string  { return a.Token.Lexeme }
func (a *Argument) GetToken() token.Token { return a.Token }

// CallExpression calls a free function or a method.
type CallExpression struct {
	Token     token.Token // The '(' token
	Function  Expression  // Identifier or MemberExpression
	Arguments []*Argument
}

func (ce *CallExpression) Accept(v Visitor)      { v.VisitCallExpression(ce) }
func (ce *CallExpression) expressionNode()       {}
func (ce *CallExpression) TokenLiteral() string  { return ce.Token.Lexeme }
func (ce *CallExpression) GetToken() token.Token { return ce.Token }

// NewExpression creates an instance of a named type.
type NewExpression struct {
	Token     token.Token // The 'new' token
	Type      Type
	Arguments []*Argument
}

func (ne *NewExpression) Accept(v Visitor)      { v.VisitNewExpression(ne) }
func (ne *NewExpression) expressionNode()       {}
func (ne *NewExpression) TokenLiteral() string  { return ne.Token.Lexeme }
func (ne *NewExpression) GetToken() token.Token { return ne.Token }

// AssignmentExpression is 'left = value'. A tuple literal or a parenthesized
// declaration on the left makes it a deconstruction.
type AssignmentExpression struct {
	Token token.Token // The '=' token
	Left  Expression
	Value Expression
}

func (ae *AssignmentExpression) Accept(v Visitor)      { v.VisitAssignmentExpression(ae) }
func (ae *AssignmentExpression) expressionNode()       {}
func (ae *AssignmentExpression) TokenLiteral() string  { return ae.Token.Lexeme }
func (ae *AssignmentExpression) GetToken() token.Token { return ae.Token }

// IsDeconstruction reports whether the assignment deconstructs its value.
func (ae *AssignmentExpression) IsDeconstruction() bool {
	switch left := ae.Left.(type) {
	case *TupleLiteral:
		return true
	case *DeclarationExpression:
		_, ok := left.Designation.(*ParenthesizedDesignation)
		return ok
	}
	return false
}

// BinaryExpression is an infix operation. Only the operators a condition
// needs are modeled: &&, || and comparisons.
type BinaryExpression struct {
	Token    token.Token // The operator token
	Operator string
	Left     Expression
	Right    Expression
}

func (be *BinaryExpression) Accept(v Visitor)      { v.VisitBinaryExpression(be) }
func (be *BinaryExpression) expressionNode()       {}
func (be *BinaryExpression) TokenLiteral() string  { return be.Token.Lexeme }
func (be *BinaryExpression) GetToken() token.Token { return be.Token }

// IsPatternExpression tests a value against a pattern: x is (int a, _)
type IsPatternExpression struct {
	Token   token.Token // The 'is' token
	Value   Expression
	Pattern Pattern
}

func (ie *IsPatternExpression) Accept(v Visitor)      { v.VisitIsPatternExpression(ie) }
func (ie *IsPatternExpression) expressionNode()       {}
func (ie *IsPatternExpression) TokenLiteral() string  { return ie.Token.Lexeme }
func (ie *IsPatternExpression) GetToken() token.Token { return ie.Token }

// QueryClause is one clause of a query expression: from, let, where or
// select. Range is the variable a from or let clause introduces.
type QueryClause struct {
	Token token.Token // The clause keyword
	Range *Identifier
	Value Expression
}

func (qc *QueryClause) Accept(v Visitor)      { v.VisitQueryClause(qc) }
func (qc *QueryClause) TokenLiteral() string  { return qc.Token.Lexeme }
func (qc *QueryClause) GetToken() token.Token { return qc.Token }

// Kind returns the clause keyword.
func (qc *QueryClause) Kind() token.TokenType { return qc.Token.Type }

// QueryExpression is a query: from x in xs where P(x) select x
type QueryExpression struct {
	Token   token.Token // The first 'from' token
	Clauses []*QueryClause
}

func (qe *QueryExpression) Accept(v Visitor)      { v.VisitQueryExpression(qe) }
func (qe *QueryExpression) expressionNode()       {}
func (qe *QueryExpression) TokenLiteral() string  { return qe.Token.Lexeme }
func (qe *QueryExpression) GetToken() token.Token { return qe.Token }
