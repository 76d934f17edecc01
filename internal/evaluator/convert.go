package evaluator

import (
	"github.com/gb714us/csharplang/internal/config"
	"github.com/gb714us/csharplang/internal/conversions"
	"github.com/gb714us/csharplang/internal/typesystem"
)

var floating = map[string]bool{
	config.FloatTypeName:   true,
	config.DoubleTypeName:  true,
	config.DecimalTypeName: true,
}

// Convert applies a classified conversion to a value.
func Convert(val Object, conv conversions.Conversion, target typesystem.Type) (Object, error) {
	switch conv.Kind {
	case conversions.Identity, conversions.ImplicitReference, conversions.Boxing:
		return val, nil

	case conversions.ImplicitNumeric:
		name := typesystem.ConstructorName(target)
		switch v := val.(type) {
		case *Integer:
			if floating[name] {
				return &Float{Value: float64(v.Value), Kind: target}, nil
			}
			return &Integer{Value: v.Value, Kind: target}, nil
		case *Float:
			return &Float{Value: v.Value, Kind: target}, nil
		}
		return nil, newError("cannot convert %s to %s", val.Inspect(), typeName(target))

	case conversions.Pointwise:
		tup, ok := val.(*Tuple)
		if !ok {
			return nil, newError("cannot convert %s to %s", val.Inspect(), typeName(target))
		}
		tt, ok := typesystem.AsTuple(target)
		if !ok {
			return nil, newError("%s is not a tuple type", typeName(target))
		}
		types, _ := tt.Flatten()
		elems := tup.Elements()
		if len(elems) != len(types) || len(conv.Elements) != len(types) {
			return nil, newError("cannot convert %s to %s", val.Inspect(), typeName(target))
		}
		out := make([]Object, len(elems))
		for i, el := range elems {
			c, err := Convert(el, conv.Elements[i], types[i])
			if err != nil {
				return nil, err
			}
			out[i] = c
		}
		return NewTuple(out), nil
	}
	return nil, newError("no conversion from %s to %s", val.Inspect(), typeName(target))
}
