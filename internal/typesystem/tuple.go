package typesystem

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hashicorp/go-set/v2"

	"github.com/gb714us/csharplang/internal/config"
)

// TTuple represents a tuple type (e.g. (int x, string y)).
//
// A tuple stores at most config.CarrierArity elements directly. Elements
// 8..N of a wider tuple live in Rest, which is itself a tuple whose positions
// start again at 1. Accessors take positions in the flat numbering and recurse
// through Rest, so Rest is never visible as an element.
type TTuple struct {
	Elements []Type
	Names    []string // parallel to Elements; "" for an unnamed element, nil when none is named
	Rest     *TTuple
}

type TupleErrorReason int

const (
	TupleArityTooSmall TupleErrorReason = iota
	TupleDuplicateName
	TupleReservedName
	TupleMisplacedItemName
	TupleNameCount
)

// TupleError describes why a tuple type could not be constructed.
type TupleError struct {
	Reason   TupleErrorReason
	Name     string
	Position int // 1-based element position, 0 when not applicable
	Arity    int
}

func (e *TupleError) Error() string {
	switch e.Reason {
	case TupleArityTooSmall:
		return fmt.Sprintf("a tuple must have at least %d elements, got %d", config.MinTupleArity, e.Arity)
	case TupleDuplicateName:
		return fmt.Sprintf("element name '%s' is a duplicate (position %d)", e.Name, e.Position)
	case TupleReservedName:
		return fmt.Sprintf("element name '%s' is reserved (position %d)", e.Name, e.Position)
	case TupleMisplacedItemName:
		return fmt.Sprintf("element name '%s' is only allowed at position %s, not %d",
			e.Name, strings.TrimPrefix(e.Name, config.ItemFieldPrefix), e.Position)
	case TupleNameCount:
		return fmt.Sprintf("%d element names given for %d elements", e.Position, e.Arity)
	}
	return "malformed tuple"
}

// NewTuple builds a validated tuple type. names may be nil; otherwise it must
// be parallel to elems with "" for unnamed elements.
func NewTuple(elems []Type, names []string) (TTuple, error) {
	if len(elems) < config.MinTupleArity {
		return TTuple{}, &TupleError{Reason: TupleArityTooSmall, Arity: len(elems)}
	}
	if names != nil && len(names) != len(elems) {
		return TTuple{}, &TupleError{Reason: TupleNameCount, Position: len(names), Arity: len(elems)}
	}
	if err := ValidateElementNames(names); err != nil {
		return TTuple{}, err
	}
	return nest(elems, names), nil
}

// MustTuple is like NewTuple but panics on invalid input.
func MustTuple(elems []Type, names ...string) TTuple {
	var ns []string
	if len(names) > 0 {
		ns = names
	}
	t, err := NewTuple(elems, ns)
	if err != nil {
		panic(err)
	}
	return t
}

// ValidateElementNames checks element names against the naming rules:
// no duplicates, no Rest, and ItemK only at position K.
func ValidateElementNames(names []string) error {
	seen := set.New[string](len(names))
	for i, name := range names {
		if name == "" {
			continue
		}
		pos := i + 1
		if name == config.RestFieldName {
			return &TupleError{Reason: TupleReservedName, Name: name, Position: pos, Arity: len(names)}
		}
		if k, ok := ItemIndex(name); ok && k != pos {
			return &TupleError{Reason: TupleMisplacedItemName, Name: name, Position: pos, Arity: len(names)}
		}
		if !seen.Insert(name) {
			return &TupleError{Reason: TupleDuplicateName, Name: name, Position: pos, Arity: len(names)}
		}
	}
	return nil
}

// nest lays out a flat element list in carrier form. It performs no
// validation: the Rest of an 8-element tuple has a single element.
func nest(elems []Type, names []string) TTuple {
	n := len(elems)
	if n > config.CarrierArity {
		n = config.CarrierArity
	}
	head := TTuple{Elements: append([]Type(nil), elems[:n]...)}
	if names != nil {
		head.Names = normalizeNames(names[:n])
	}
	if len(elems) > config.CarrierArity {
		var restNames []string
		if names != nil {
			restNames = names[config.CarrierArity:]
		}
		rest := nest(elems[config.CarrierArity:], restNames)
		head.Rest = &rest
	}
	return head
}

func normalizeNames(names []string) []string {
	for _, n := range names {
		if n != "" {
			return append([]string(nil), names...)
		}
	}
	return nil
}

// ItemName returns the positional element name for a 1-based position.
func ItemName(k int) string {
	return config.ItemFieldPrefix + strconv.Itoa(k)
}

// ItemIndex parses a positional element name Item1..ItemN.
func ItemIndex(name string) (int, bool) {
	if !strings.HasPrefix(name, config.ItemFieldPrefix) {
		return 0, false
	}
	digits := name[len(config.ItemFieldPrefix):]
	if digits == "" || digits[0] == '0' {
		return 0, false
	}
	k, err := strconv.Atoi(digits)
	if err != nil || k < 1 {
		return 0, false
	}
	return k, true
}

// Arity returns the number of elements, including those nested in Rest.
func (t TTuple) Arity() int {
	n := len(t.Elements)
	if t.Rest != nil {
		n += t.Rest.Arity()
	}
	return n
}

// ElementType returns the type of the element at 1-based position k.
func (t TTuple) ElementType(k int) (Type, bool) {
	if k < 1 {
		return nil, false
	}
	if k <= len(t.Elements) {
		return t.Elements[k-1], true
	}
	if t.Rest == nil {
		return nil, false
	}
	return t.Rest.ElementType(k - len(t.Elements))
}

// ElementName returns the explicit name of the element at 1-based position k,
// or "" when the element is unnamed.
func (t TTuple) ElementName(k int) string {
	if k < 1 {
		return ""
	}
	if k <= len(t.Elements) {
		if t.Names == nil {
			return ""
		}
		return t.Names[k-1]
	}
	if t.Rest == nil {
		return ""
	}
	return t.Rest.ElementName(k - len(t.Elements))
}

// Lookup resolves an element name to its 1-based position. Explicit names and
// the positional names Item1..ItemN resolve; Rest does not.
func (t TTuple) Lookup(name string) (int, bool) {
	if k, ok := t.lookupExplicit(name, 0); ok {
		return k, true
	}
	if k, ok := ItemIndex(name); ok && k <= t.Arity() {
		return k, true
	}
	return 0, false
}

func (t TTuple) lookupExplicit(name string, offset int) (int, bool) {
	for i, n := range t.Names {
		if n != "" && n == name {
			return offset + i + 1, true
		}
	}
	if t.Rest != nil {
		return t.Rest.lookupExplicit(name, offset+len(t.Elements))
	}
	return 0, false
}

// Flatten returns the element types and names in flat order. names is nil
// when no element is named.
func (t TTuple) Flatten() ([]Type, []string) {
	elems := make([]Type, 0, t.Arity())
	names := make([]string, 0, t.Arity())
	named := false
	for cur := &t; cur != nil; cur = cur.Rest {
		elems = append(elems, cur.Elements...)
		for i := range cur.Elements {
			n := ""
			if cur.Names != nil {
				n = cur.Names[i]
			}
			named = named || n != ""
			names = append(names, n)
		}
	}
	if !named {
		names = nil
	}
	return elems, names
}

// HasNames reports whether any element, including those in Rest, is named.
func (t TTuple) HasNames() bool {
	_, names := t.Flatten()
	return names != nil
}

// WithoutNames returns the same tuple with every element name erased.
func (t TTuple) WithoutNames() TTuple {
	out := TTuple{Elements: t.Elements}
	if t.Rest != nil {
		rest := t.Rest.WithoutNames()
		out.Rest = &rest
	}
	return out
}

// WithNames returns the tuple with names replaced. names is flat and may be nil.
func (t TTuple) WithNames(names []string) TTuple {
	elems, _ := t.Flatten()
	return nest(elems, names)
}

func (t TTuple) String() string {
	elems, names := t.Flatten()
	parts := make([]string, len(elems))
	for i, el := range elems {
		parts[i] = el.String()
		if names != nil && names[i] != "" {
			parts[i] += " " + names[i]
		}
	}
	return fmt.Sprintf("(%s)", strings.Join(parts, ", "))
}

func (t TTuple) Apply(s Subst) Type {
	return ApplyWithCycleCheck(t, s, make(map[string]bool))
}

func (t TTuple) FreeTypeVariables() []TVar {
	vars := []TVar{}
	elems, _ := t.Flatten()
	for _, el := range elems {
		vars = append(vars, el.FreeTypeVariables()...)
	}
	return uniqueTVars(vars)
}
