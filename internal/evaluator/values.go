package evaluator

import (
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/gb714us/csharplang/internal/config"
	"github.com/gb714us/csharplang/internal/symbols"
	"github.com/gb714us/csharplang/internal/typesystem"
)

var integral = map[string]bool{
	config.SByteTypeName:  true,
	config.ByteTypeName:   true,
	config.ShortTypeName:  true,
	config.UShortTypeName: true,
	config.IntTypeName:    true,
	config.UIntTypeName:   true,
	config.LongTypeName:   true,
	config.ULongTypeName:  true,
	config.CharTypeName:   true,
}

// Default returns the default value of t: zero for numeric types, false
// for bool, a tuple of defaults, a struct with every field at its default,
// and null for everything else.
func Default(t typesystem.Type, st *symbols.SymbolTable) Object {
	return defaultValue(t, st, nil)
}

func defaultValue(t typesystem.Type, st *symbols.SymbolTable, open map[string]bool) Object {
	if tt, ok := typesystem.AsTuple(t); ok {
		types, _ := tt.Flatten()
		elems := make([]Object, len(types))
		for i, el := range types {
			elems[i] = defaultValue(el, st, open)
		}
		return NewTuple(elems)
	}
	name := typesystem.ConstructorName(t)
	switch {
	case integral[name]:
		return &Integer{Kind: t}
	case floating[name]:
		return &Float{Kind: t}
	case name == config.BoolTypeName:
		return FALSE
	}
	if st != nil && !open[name] {
		if info, ok := st.FindType(name); ok && info.IsValueType {
			return newInstanceOf(t, st, open)
		}
	}
	return NULL
}

// NewInstanceOf returns an instance of t with every field, including the
// inherited ones, at its default value.
func NewInstanceOf(t typesystem.Type, st *symbols.SymbolTable) *Instance {
	return newInstanceOf(t, st, nil)
}

func newInstanceOf(t typesystem.Type, st *symbols.SymbolTable, open map[string]bool) *Instance {
	name := typesystem.ConstructorName(t)
	inst := NewInstance(name, nil)
	if st == nil {
		return inst
	}
	// open holds the structs being built, so a struct that contains itself
	// gets null rather than recursing.
	inner := map[string]bool{name: true}
	for n := range open {
		inner[n] = true
	}
	for _, n := range append([]string{name}, st.BaseChain(name)...) {
		info, ok := st.FindType(n)
		if !ok {
			continue
		}
		for fname, f := range info.Fields {
			if _, ok := inst.Fields[fname]; !ok {
				inst.Fields[fname] = defaultValue(f.Type, st, inner)
			}
		}
	}
	return inst
}

// FromYAML builds a value of type t from a YAML node: a scalar for numbers,
// bool and string, a sequence for tuples and arrays, and a mapping of field
// values for declared types. A null node gives the default value of t.
func FromYAML(node *yaml.Node, t typesystem.Type, st *symbols.SymbolTable) (Object, error) {
	if node == nil || node.Kind == 0 || node.ShortTag() == "!!null" {
		return Default(t, st), nil
	}

	if tt, ok := typesystem.AsTuple(t); ok {
		types, _ := tt.Flatten()
		if node.Kind != yaml.SequenceNode || len(node.Content) != len(types) {
			return nil, errors.Errorf("line %d: want a sequence of %d values for %s", node.Line, len(types), t)
		}
		elems := make([]Object, len(types))
		for i, el := range node.Content {
			v, err := FromYAML(el, types[i], st)
			if err != nil {
				return nil, err
			}
			elems[i] = v
		}
		return NewTuple(elems), nil
	}

	if elem, ok := typesystem.ElementTypeOf(t); ok {
		if node.Kind != yaml.SequenceNode {
			return nil, errors.Errorf("line %d: want a sequence for %s", node.Line, t)
		}
		arr := &Array{Elements: make([]Object, len(node.Content)), ElemType: elem}
		for i, el := range node.Content {
			v, err := FromYAML(el, elem, st)
			if err != nil {
				return nil, err
			}
			arr.Elements[i] = v
		}
		return arr, nil
	}

	name := typesystem.ConstructorName(t)
	switch {
	case integral[name]:
		var v int64
		if err := node.Decode(&v); err != nil {
			return nil, errors.Wrapf(err, "line %d: %s", node.Line, t)
		}
		return &Integer{Value: v, Kind: t}, nil
	case floating[name]:
		var v float64
		if err := node.Decode(&v); err != nil {
			return nil, errors.Wrapf(err, "line %d: %s", node.Line, t)
		}
		return &Float{Value: v, Kind: t}, nil
	case name == config.BoolTypeName:
		var v bool
		if err := node.Decode(&v); err != nil {
			return nil, errors.Wrapf(err, "line %d: %s", node.Line, t)
		}
		if v {
			return TRUE, nil
		}
		return FALSE, nil
	case name == config.StringTypeName:
		if node.Kind != yaml.ScalarNode {
			return nil, errors.Errorf("line %d: want a string", node.Line)
		}
		return &String{Value: node.Value}, nil
	case name == config.ObjectTypeName:
		return scalarObject(node)
	}

	if st != nil {
		if info, ok := st.FindType(name); ok && !info.IsInterface && !info.IsStatic {
			return instanceFromYAML(node, t, st)
		}
	}
	return nil, errors.Errorf("line %d: cannot build a value of type %s", node.Line, t)
}

// scalarObject builds a value of static type object from the scalar's
// resolved YAML tag.
func scalarObject(node *yaml.Node) (Object, error) {
	switch node.ShortTag() {
	case "!!int":
		return FromYAML(node, typesystem.Int, nil)
	case "!!float":
		return FromYAML(node, typesystem.Double, nil)
	case "!!bool":
		return FromYAML(node, typesystem.Bool, nil)
	case "!!str":
		return FromYAML(node, typesystem.String, nil)
	}
	return nil, errors.Errorf("line %d: an object value must be a scalar", node.Line)
}

func instanceFromYAML(node *yaml.Node, t typesystem.Type, st *symbols.SymbolTable) (Object, error) {
	if node.Kind != yaml.MappingNode {
		return nil, errors.Errorf("line %d: want a mapping of fields for %s", node.Line, t)
	}
	inst := NewInstanceOf(t, st)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i]
		f, ok := st.FieldType(t, key.Value)
		if !ok {
			return nil, errors.Errorf("line %d: %s has no field %s", key.Line, t, key.Value)
		}
		v, err := FromYAML(node.Content[i+1], f.Type, st)
		if err != nil {
			return nil, err
		}
		inst.Fields[f.Name] = v
	}
	return inst, nil
}

// HostFunctions implements the free functions of a world. Each call builds
// the function's returns value afresh, so callers never share arrays or
// instances. The functions are keyed by signature.
func HostFunctions(w *config.World, st *symbols.SymbolTable) (map[string]Function, error) {
	fns := make(map[string]Function, len(w.Functions))
	for _, decl := range w.Functions {
		m, err := st.ParseFunction(decl.Signature)
		if err != nil {
			return nil, err
		}
		result := m.ResultOrVoid()
		returns := decl.Returns
		if decl.HasReturns() && typesystem.Identical(result, typesystem.Void) {
			return nil, errors.Errorf("function %s: a void function cannot return a value", m.Signature())
		}
		if _, err := FromYAML(&returns, result, st); err != nil {
			return nil, errors.Wrapf(err, "function %s", m.Signature())
		}
		fns[m.Signature()] = func([]Object) Object {
			v, err := FromYAML(&returns, result, st)
			if err != nil {
				return newError("%s: %v", m.Name, err)
			}
			return v
		}
	}
	return fns, nil
}
