// Package conversions classifies implicit conversions between types, with
// tuple conversions defined pointwise over their elements.
package conversions

import (
	"fmt"
	"strings"

	"github.com/gb714us/csharplang/internal/config"
	"github.com/gb714us/csharplang/internal/typesystem"
)

// Kind is the kind of an implicit conversion. The kinds from None up to
// Identity are ordered by strength, weakest first. Pointwise is the kind of a
// tuple conversion and carries the weakest of its element kinds separately.
type Kind int

const (
	None Kind = iota
	ImplicitNumeric
	Boxing
	ImplicitReference
	Identity
	Pointwise
)

func (k Kind) String() string {
	switch k {
	case None:
		return "None"
	case ImplicitNumeric:
		return "ImplicitNumeric"
	case Boxing:
		return "Boxing"
	case ImplicitReference:
		return "ImplicitReference"
	case Identity:
		return "Identity"
	case Pointwise:
		return "Pointwise"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Conversion is the result of classifying a source against a target.
type Conversion struct {
	Kind Kind
	// Weakest is the weakest element kind of a Pointwise conversion.
	Weakest Kind
	// Elements holds the per-element conversions of a Pointwise conversion,
	// one per position in flattened order.
	Elements []Conversion
}

var noConversion = Conversion{Kind: None}

// Exists reports whether the conversion is defined.
func (c Conversion) Exists() bool { return c.Kind != None }

// Strength is the kind used when comparing conversions: the kind itself, or
// the weakest element kind for Pointwise.
func (c Conversion) Strength() Kind {
	if c.Kind == Pointwise {
		return c.Weakest
	}
	return c.Kind
}

// IsNoOp reports whether the conversion only reinterprets the value and
// needs no per-element code.
func (c Conversion) IsNoOp() bool {
	return c.Exists() && c.Strength() >= ImplicitReference
}

func (c Conversion) String() string {
	if c.Kind != Pointwise {
		return c.Kind.String()
	}
	parts := make([]string, len(c.Elements))
	for i, e := range c.Elements {
		parts[i] = e.String()
	}
	return fmt.Sprintf("Pointwise[%s](%s)", c.Weakest, strings.Join(parts, ", "))
}

// Resolver answers the nominal questions the classifier needs.
// *symbols.SymbolTable implements it.
type Resolver interface {
	IsValueType(t typesystem.Type) bool
	IsReferenceType(t typesystem.Type) bool
	IsSubtype(sub, super typesystem.Type) bool
}

// Classifier classifies implicit conversions against a Resolver.
type Classifier struct {
	types Resolver
}

// New returns a Classifier backed by r.
func New(r Resolver) *Classifier {
	return &Classifier{types: r}
}

// Classify classifies the implicit conversion from a value of type source to
// type target.
func (c *Classifier) Classify(source, target typesystem.Type) Conversion {
	if source == nil || target == nil {
		return noConversion
	}
	if typesystem.Identical(source, target) {
		return Conversion{Kind: Identity}
	}

	srcTuple, srcIsTuple := typesystem.AsTuple(source)
	tgtTuple, tgtIsTuple := typesystem.AsTuple(target)
	if srcIsTuple && tgtIsTuple {
		if srcTuple.Arity() != tgtTuple.Arity() {
			return noConversion
		}
		srcElems, _ := srcTuple.Flatten()
		tgtElems, _ := tgtTuple.Flatten()
		elems := make([]Conversion, len(srcElems))
		for i := range srcElems {
			elems[i] = c.Classify(srcElems[i], tgtElems[i])
		}
		return pointwise(elems)
	}
	if tgtIsTuple {
		// No single value converts into a multi-element tuple.
		return noConversion
	}

	if _, ok := source.(typesystem.TVar); ok {
		return noConversion
	}
	if _, ok := target.(typesystem.TVar); ok {
		return noConversion
	}

	srcName := typesystem.ConstructorName(source)
	tgtName := typesystem.ConstructorName(target)
	if isImplicitNumeric(srcName, tgtName) {
		return Conversion{Kind: ImplicitNumeric}
	}

	if c.types.IsReferenceType(source) {
		if tgtName == config.ObjectTypeName || c.types.IsSubtype(source, target) {
			return Conversion{Kind: ImplicitReference}
		}
		return noConversion
	}
	if srcIsTuple || c.types.IsValueType(source) {
		if tgtName == config.ObjectTypeName || tgtName == config.ValueTypeBaseName {
			return Conversion{Kind: Boxing}
		}
		if !srcIsTuple && c.types.IsSubtype(source, target) {
			return Conversion{Kind: Boxing}
		}
	}
	return noConversion
}

// Operand describes an expression being converted when more than its type
// matters: untyped tuple literals, null and integer constants.
type Operand struct {
	// Type is the natural type of the expression; nil for null and for tuple
	// literals with a typeless element.
	Type typesystem.Type
	// IsNull marks the null literal.
	IsNull bool
	// Constant is the value of an integer constant when HasConstant is set.
	Constant    int64
	HasConstant bool
	// Elements is non-nil for a tuple literal; each element is classified
	// against the corresponding target element.
	Elements []Operand
	Names    []string
}

// IsTupleLiteral reports whether the operand is a tuple literal.
func (op Operand) IsTupleLiteral() bool { return op.Elements != nil }

// ClassifyOperand classifies the implicit conversion of an expression to
// target. A tuple literal converts to a tuple or carrier target by
// constructing it element by element.
func (c *Classifier) ClassifyOperand(op Operand, target typesystem.Type) Conversion {
	if target == nil {
		return noConversion
	}
	switch {
	case op.IsTupleLiteral():
		tgt, ok := typesystem.AsTuple(target)
		if !ok {
			if op.Type != nil {
				return c.Classify(op.Type, target)
			}
			return noConversion
		}
		if tgt.Arity() != len(op.Elements) {
			return noConversion
		}
		tgtElems, _ := tgt.Flatten()
		elems := make([]Conversion, len(op.Elements))
		for i, el := range op.Elements {
			elems[i] = c.ClassifyOperand(el, tgtElems[i])
		}
		return pointwise(elems)

	case op.IsNull:
		if c.types.IsReferenceType(target) {
			return Conversion{Kind: ImplicitReference}
		}
		return noConversion
	}

	conv := c.Classify(op.Type, target)
	if !conv.Exists() && op.HasConstant && isIntegral(op.Type) {
		if constantFits(op.Constant, typesystem.ConstructorName(target)) {
			return Conversion{Kind: ImplicitNumeric}
		}
	}
	return conv
}

// Better reports whether a is a strictly stronger conversion than b.
func Better(a, b Conversion) bool {
	return a.Exists() && a.Strength() > b.Strength()
}

func pointwise(elems []Conversion) Conversion {
	weakest := Identity
	for _, e := range elems {
		if !e.Exists() {
			return noConversion
		}
		if s := e.Strength(); s < weakest {
			weakest = s
		}
	}
	return Conversion{Kind: Pointwise, Weakest: weakest, Elements: elems}
}

func isIntegral(t typesystem.Type) bool {
	if _, ok := t.(typesystem.TCon); !ok {
		return false
	}
	_, ok := integralRanges[typesystem.ConstructorName(t)]
	return ok
}
