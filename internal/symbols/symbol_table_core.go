package symbols

import (
	"fmt"
	"strings"

	"github.com/gb714us/csharplang/internal/typesystem"
)

type SymbolKind int

type ScopeType int

const (
	ScopePrelude ScopeType = iota // Built-in types
	ScopeGlobal                   // User world
)

const (
	TypeSymbol SymbolKind = iota
	FunctionSymbol
)

type Symbol struct {
	Name         string
	Kind         SymbolKind
	Type         typesystem.Type
	Info         *TypeInfo // set for TypeSymbol
	Overloads    []*Method // set for FunctionSymbol
	OriginModule string    // where the symbol was defined ("prelude" for built-ins)
}

// TypeInfo describes a named type.
type TypeInfo struct {
	Name        string
	TypeParams  []string // generic type parameters, e.g. [K V] for KeyValuePair<K, V>
	Base        string   // base class; "" means object (reference types) or none (value types)
	Interfaces  []string
	IsValueType bool
	IsInterface bool
	IsStatic    bool
	Fields      map[string]Field
}

// Field is a field or property of a type.
type Field struct {
	Name       string
	Type       typesystem.Type
	ReadOnly   bool
	IsProperty bool
}

// Parameter is a method parameter.
type Parameter struct {
	Name   string
	Type   typesystem.Type
	IsOut  bool
	IsThis bool // receiver of an extension method
}

// Method is an instance, static, or extension method, or a free function.
type Method struct {
	Name        string
	Owner       string   // declaring type; "" for free functions
	TypeParams  []string // method type parameters, represented as TVars in signatures
	Params      []Parameter
	Result      typesystem.Type
	IsStatic    bool
	IsExtension bool
}

// Receiver returns the 'this' parameter of an extension method.
func (m *Method) Receiver() (Parameter, bool) {
	if !m.IsExtension || len(m.Params) == 0 {
		return Parameter{}, false
	}
	return m.Params[0], true
}

// CallParams returns the parameters supplied at a call site, which excludes
// the receiver of an extension method.
func (m *Method) CallParams() []Parameter {
	if m.IsExtension && len(m.Params) > 0 {
		return m.Params[1:]
	}
	return m.Params
}

// OutParams returns the call parameters passed by 'out'.
func (m *Method) OutParams() []Parameter {
	var outs []Parameter
	for _, p := range m.CallParams() {
		if p.IsOut {
			outs = append(outs, p)
		}
	}
	return outs
}

// ResultOrVoid returns the result type, treating a missing result as void.
func (m *Method) ResultOrVoid() typesystem.Type {
	if m.Result == nil {
		return typesystem.Void
	}
	return m.Result
}

// Signature renders the method for diagnostics, e.g.
// "Point.Deconstruct(out int x, out int y)".
func (m *Method) Signature() string {
	params := make([]string, 0, len(m.Params))
	for _, p := range m.Params {
		s := p.Type.String() + " " + p.Name
		if p.IsOut {
			s = "out " + s
		}
		if p.IsThis {
			s = "this " + s
		}
		params = append(params, s)
	}
	name := m.Name
	if m.Owner != "" {
		name = m.Owner + "." + m.Name
	}
	if len(m.TypeParams) > 0 {
		name += "<" + strings.Join(m.TypeParams, ", ") + ">"
	}
	return fmt.Sprintf("%s(%s)", name, strings.Join(params, ", "))
}
