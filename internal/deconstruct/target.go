// Package deconstruct lowers the three deconstruction forms (assignment,
// declaration and pattern) to an ordered plan: every source value first,
// then every target location, then the stores.
package deconstruct

import (
	"github.com/gb714us/csharplang/internal/ast"
	"github.com/gb714us/csharplang/internal/conversions"
	"github.com/gb714us/csharplang/internal/token"
	"github.com/gb714us/csharplang/internal/typesystem"
)

// Form is the syntactic form of a deconstruction.
type Form int

const (
	Assignment  Form = iota // (a, b) = e
	Declaration             // var (a, b) = e, (int a, var b) = e
	Pattern                 // e is (var a, 0)
)

func (f Form) String() string {
	switch f {
	case Assignment:
		return "assignment"
	case Declaration:
		return "declaration"
	default:
		return "pattern"
	}
}

// TargetKind is what a deconstruction target denotes.
type TargetKind int

const (
	Existing TargetKind = iota // an assignable location that already exists
	Fresh                      // a new variable, typed or inferred
	Nested                     // a parenthesized list of targets
	Discard                    // _
)

// LocationKind distinguishes assignable locations.
type LocationKind int

const (
	Variable LocationKind = iota
	Field
	Property
	Indexer
)

// Location is an existing assignable location. Receiver and Index are the
// expressions evaluated in the location phase to identify where the value
// goes.
type Location struct {
	Kind     LocationKind
	Receiver ast.Expression
	Index    ast.Expression
	ReadOnly bool
}

// Target is one element of a deconstruction's left-hand side.
type Target struct {
	Kind  TargetKind
	Token token.Token
	// Label is the optional element name written before the target.
	Label string
	// Name is the variable or member name of Existing and Fresh targets.
	Name string
	// Type is the location type of an Existing target or the declared type
	// of a Fresh one. A nil Fresh type is inferred from the source element
	// and filled in by Lower.
	Type     typesystem.Type
	Location *Location
	Elements []*Target
	// Node is the syntax of the target.
	Node ast.Node
}

// Arity is the number of elements of a Nested target.
func (t *Target) Arity() int { return len(t.Elements) }

// Inferred reports whether the target's type comes from the source.
func (t *Target) Inferred() bool { return t.Kind == Fresh && t.Type == nil }

// Source is the right-hand side of a deconstruction, or an element of it.
type Source struct {
	Expr ast.Expression
	// Type is the static type; nil for null and typeless tuple literals.
	Type typesystem.Type
	// Operand describes the expression for conversion classification.
	Operand conversions.Operand
	// Elements is non-nil for a tuple literal, which is evaluated element by
	// element without materializing a tuple.
	Elements []*Source
	Names    []string
	// Failed marks an expression whose own error has been reported. It has
	// no type, and lowering it reports nothing more.
	Failed bool

	temp    int
	hasTemp bool
}

// Temp returns the plan temporary holding the source's value, if it has
// already been evaluated.
func (s *Source) Temp() (int, bool) { return s.temp, s.hasTemp }

func (s *Source) isLiteral() bool { return s.Elements != nil }

func (s *Source) operand() conversions.Operand {
	op := s.Operand
	if op.Type == nil {
		op.Type = s.Type
	}
	return op
}

// Narrowed returns the source viewed at type t after a successful type
// test. An evaluated source keeps its temporary and is not evaluated again.
func (s *Source) Narrowed(t typesystem.Type) *Source {
	out := *s
	out.Type = t
	out.Operand = conversions.Operand{Type: t}
	out.Elements, out.Names = nil, nil
	return &out
}

// ExprSource returns the Source of an expression with a known type.
func ExprSource(expr ast.Expression, t typesystem.Type) *Source {
	return &Source{Expr: expr, Type: t, Operand: conversions.Operand{Type: t}}
}

// LiteralSource returns the Source of a tuple literal from its element
// sources and labels.
func LiteralSource(expr ast.Expression, elems []*Source, names []string) *Source {
	src := &Source{Expr: expr, Elements: elems, Names: names}
	ops := make([]conversions.Operand, len(elems))
	types := make([]typesystem.Type, len(elems))
	typed := true
	for i, e := range elems {
		ops[i] = e.operand()
		types[i] = e.Type
		if e.Type == nil {
			typed = false
		}
	}
	src.Operand = conversions.Operand{Elements: ops, Names: names}
	if typed && len(elems) >= 2 {
		if tup, err := typesystem.NewTuple(types, names); err == nil {
			src.Type = tup
			src.Operand.Type = tup
		}
	}
	return src
}
