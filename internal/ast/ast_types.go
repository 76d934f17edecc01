package ast

import (
	"strings"

	"github.com/gb714us/csharplang/internal/token"
)

// Type is a type spelling in source.
type Type interface {
	Node
	typeNode()
	String() string
}

// NamedType is a possibly generic named type, e.g. int or List<int>.
// The carrier spelling ValueTuple<int, string> is a NamedType.
type NamedType struct {
	Token token.Token
	Name  string
	Args  []Type
}

func (nt *NamedType) Accept(v Visitor)      { v.VisitNamedType(nt) }
func (nt *NamedType) typeNode()             {}
func (nt *NamedType) TokenLiteral() string  { return nt.Token.Lexeme }
func (nt *NamedType) GetToken() token.Token { return nt.Token }
func (nt *NamedType) String() string {
	if len(nt.Args) == 0 {
		return nt.Name
	}
	args := make([]string, len(nt.Args))
	for i, a := range nt.Args {
		args[i] = a.String()
	}
	return nt.Name + "<" + strings.Join(args, ", ") + ">"
}

// TupleTypeElement is one element of a tuple type spelling.
type TupleTypeElement struct {
	Type Type
	Name *Identifier // nil when unnamed
}

// TupleType is a tuple type spelling, e.g. (int x, string y).
type TupleType struct {
	Token    token.Token // The '(' token
	Elements []*TupleTypeElement
}

func (tt *TupleType) Accept(v Visitor)      { v.VisitTupleType(tt) }
func (tt *TupleType) typeNode()             {}
func (tt *TupleType) TokenLiteral() string  { return tt.Token.Lexeme }
func (tt *TupleType) GetToken() token.Token { return tt.Token }
func (tt *TupleType) String() string {
	parts := make([]string, len(tt.Elements))
	for i, e := range tt.Elements {
		parts[i] = e.Type.String()
		if e.Name != nil {
			parts[i] += " " + e.Name.Value
		}
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// VarType is the 'var' spelling of an inferred type.
type VarType struct {
	Token token.Token
}

func (vt *VarType) Accept(v Visitor)      { v.VisitVarType(vt) }
func (vt *VarType) typeNode()             {}
func (vt *VarType) TokenLiteral() string  { return vt.Token.Lexeme }
func (vt *VarType) GetToken() token.Token { return vt.Token }
func (vt *VarType) String() string        { return "var" }

// IsVar reports whether t is the inferred-type spelling.
func IsVar(t Type) bool {
	_, ok := t.(*VarType)
	return ok
}
