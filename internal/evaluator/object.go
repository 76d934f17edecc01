// Package evaluator executes deconstruction plans against an environment.
// It is the reference consumer of deconstruct.Plan: every source value is
// read before any location, and every location before any store.
package evaluator

import (
	"fmt"
	"hash/fnv"
	"strings"

	"golang.org/x/exp/slices"

	"github.com/gb714us/csharplang/internal/config"
	"github.com/gb714us/csharplang/internal/typesystem"
)

type ObjectType string

const (
	INTEGER_OBJ  = "INTEGER"
	FLOAT_OBJ    = "FLOAT"
	BOOLEAN_OBJ  = "BOOLEAN"
	STRING_OBJ   = "STRING"
	NULL_OBJ     = "NULL"
	TUPLE_OBJ    = "TUPLE"
	INSTANCE_OBJ = "INSTANCE"
	ARRAY_OBJ    = "ARRAY"
	ERROR_OBJ    = "ERROR"
)

type Object interface {
	Type() ObjectType
	Inspect() string
	RuntimeType() typesystem.Type
	Hash() uint32
}

func hashString(s string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(s))
	return h.Sum32()
}

// Integer holds every integral value. Kind is the static integral type it
// was produced as, int when unset.
type Integer struct {
	Value int64
	Kind  typesystem.Type
}

func (i *Integer) Type() ObjectType { return INTEGER_OBJ }
func (i *Integer) Inspect() string  { return fmt.Sprintf("%d", i.Value) }
func (i *Integer) RuntimeType() typesystem.Type {
	if i.Kind == nil {
		return typesystem.Int
	}
	return i.Kind
}
func (i *Integer) Hash() uint32 { return uint32(i.Value ^ (i.Value >> 32)) }

type Float struct {
	Value float64
	Kind  typesystem.Type
}

func (f *Float) Type() ObjectType { return FLOAT_OBJ }
func (f *Float) Inspect() string  { return fmt.Sprintf("%g", f.Value) }
func (f *Float) RuntimeType() typesystem.Type {
	if f.Kind == nil {
		return typesystem.Double
	}
	return f.Kind
}
func (f *Float) Hash() uint32 { return hashString(f.Inspect()) }

type Boolean struct {
	Value bool
}

func (b *Boolean) Type() ObjectType             { return BOOLEAN_OBJ }
func (b *Boolean) Inspect() string              { return fmt.Sprintf("%t", b.Value) }
func (b *Boolean) RuntimeType() typesystem.Type { return typesystem.Bool }
func (b *Boolean) Hash() uint32 {
	if b.Value {
		return 1
	}
	return 0
}

var (
	TRUE  = &Boolean{Value: true}
	FALSE = &Boolean{Value: false}
	NULL  = &Null{}
)

type String struct {
	Value string
}

func (s *String) Type() ObjectType             { return STRING_OBJ }
func (s *String) Inspect() string              { return s.Value }
func (s *String) RuntimeType() typesystem.Type { return typesystem.String }
func (s *String) Hash() uint32                 { return hashString(s.Value) }

type Null struct{}

func (n *Null) Type() ObjectType             { return NULL_OBJ }
func (n *Null) Inspect() string              { return "null" }
func (n *Null) RuntimeType() typesystem.Type { return typesystem.Object }
func (n *Null) Hash() uint32                 { return 0 }

// Tuple has the carrier layout: up to seven items, with items 8 and on
// kept in Rest.
type Tuple struct {
	Items []Object
	Rest  *Tuple
}

// NewTuple lays out elems in carrier form.
func NewTuple(elems []Object) *Tuple {
	if len(elems) <= config.CarrierArity {
		return &Tuple{Items: elems}
	}
	return &Tuple{Items: elems[:config.CarrierArity], Rest: NewTuple(elems[config.CarrierArity:])}
}

// Len is the number of elements, counting through Rest.
func (t *Tuple) Len() int {
	n := len(t.Items)
	if t.Rest != nil {
		n += t.Rest.Len()
	}
	return n
}

// Item returns element k (1-based), reaching through Rest.
func (t *Tuple) Item(k int) (Object, bool) {
	if k < 1 {
		return nil, false
	}
	if k <= len(t.Items) {
		return t.Items[k-1], true
	}
	if t.Rest == nil {
		return nil, false
	}
	return t.Rest.Item(k - len(t.Items))
}

// Elements returns all elements in order.
func (t *Tuple) Elements() []Object {
	out := append([]Object(nil), t.Items...)
	if t.Rest != nil {
		out = append(out, t.Rest.Elements()...)
	}
	return out
}

func (t *Tuple) Type() ObjectType { return TUPLE_OBJ }
func (t *Tuple) Inspect() string {
	elems := t.Elements()
	parts := make([]string, len(elems))
	for i, el := range elems {
		parts[i] = el.Inspect()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
func (t *Tuple) RuntimeType() typesystem.Type {
	elems := t.Elements()
	types := make([]typesystem.Type, len(elems))
	for i, el := range elems {
		types[i] = el.RuntimeType()
	}
	tup, err := typesystem.NewTuple(types, nil)
	if err != nil {
		return typesystem.Object
	}
	return tup
}
func (t *Tuple) Hash() uint32 {
	h := uint32(1)
	for _, el := range t.Elements() {
		h = 31*h + el.Hash()
	}
	return h
}

// Instance is an object of a declared class or struct.
type Instance struct {
	TypeName string
	Fields   map[string]Object
}

// NewInstance returns an instance with the given field values.
func NewInstance(typeName string, fields map[string]Object) *Instance {
	if fields == nil {
		fields = make(map[string]Object)
	}
	return &Instance{TypeName: typeName, Fields: fields}
}

func (o *Instance) Type() ObjectType { return INSTANCE_OBJ }
func (o *Instance) Inspect() string {
	if len(o.Fields) == 0 {
		return o.TypeName + " {}"
	}
	names := make([]string, 0, len(o.Fields))
	for name := range o.Fields {
		names = append(names, name)
	}
	slices.Sort(names)
	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = name + " = " + o.Fields[name].Inspect()
	}
	return o.TypeName + " { " + strings.Join(parts, ", ") + " }"
}
func (o *Instance) RuntimeType() typesystem.Type {
	return typesystem.TCon{Name: o.TypeName}
}
func (o *Instance) Hash() uint32 { return hashString(o.TypeName) }

type Array struct {
	Elements []Object
	ElemType typesystem.Type
}

func (a *Array) Type() ObjectType { return ARRAY_OBJ }
func (a *Array) Inspect() string {
	parts := make([]string, len(a.Elements))
	for i, el := range a.Elements {
		parts[i] = el.Inspect()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
func (a *Array) RuntimeType() typesystem.Type {
	if a.ElemType == nil {
		return typesystem.ArrayOf(typesystem.Object)
	}
	return typesystem.ArrayOf(a.ElemType)
}
func (a *Array) Hash() uint32 {
	h := uint32(7)
	for _, el := range a.Elements {
		h = 31*h + el.Hash()
	}
	return h
}

// Error is a runtime failure. It is both an Object, so expression
// evaluation can return it in-band, and an error.
type Error struct {
	Message string
	Line    int
	Column  int
}

func (e *Error) Type() ObjectType { return ERROR_OBJ }
func (e *Error) Inspect() string {
	if e.Line > 0 {
		return fmt.Sprintf("ERROR at %d:%d: %s", e.Line, e.Column, e.Message)
	}
	return "ERROR: " + e.Message
}
func (e *Error) RuntimeType() typesystem.Type { return typesystem.TCon{Name: "Error"} }
func (e *Error) Hash() uint32                 { return hashString(e.Message) }
func (e *Error) Error() string                { return e.Inspect() }

func newError(format string, a ...interface{}) *Error {
	return &Error{Message: fmt.Sprintf(format, a...)}
}

func isError(obj Object) bool {
	return obj != nil && obj.Type() == ERROR_OBJ
}
