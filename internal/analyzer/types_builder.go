package analyzer

import (
	"fmt"

	"github.com/gb714us/csharplang/internal/ast"
	"github.com/gb714us/csharplang/internal/config"
	"github.com/gb714us/csharplang/internal/diagnostics"
	"github.com/gb714us/csharplang/internal/typesystem"
)

// BuildType converts a type spelling to a type. The inferred spelling
// 'var' builds to nil. Errors are reported and yield nil.
func (w *walker) BuildType(t ast.Type) typesystem.Type {
	switch t := t.(type) {
	case nil, *ast.VarType:
		return nil

	case *ast.TupleType:
		elems := make([]typesystem.Type, len(t.Elements))
		var names []string
		for i, el := range t.Elements {
			elems[i] = w.BuildType(el.Type)
			if elems[i] == nil {
				return nil
			}
			if el.Name != nil {
				if names == nil {
					names = make([]string, len(t.Elements))
				}
				names[i] = el.Name.Value
			}
		}
		tup, err := typesystem.NewTuple(elems, names)
		if err != nil {
			w.addError(diagnostics.NewError(diagnostics.ErrT001, t.Token, err.Error()))
			return nil
		}
		return tup

	case *ast.NamedType:
		args := make([]typesystem.Type, len(t.Args))
		for i, a := range t.Args {
			args[i] = w.BuildType(a)
			if args[i] == nil {
				return nil
			}
		}
		if t.Name == config.CarrierTypeName {
			app := typesystem.TApp{Constructor: typesystem.CarrierCon, Args: args}
			if !typesystem.IsCarrier(app) {
				w.addError(diagnostics.NewError(diagnostics.ErrT001, t.Token,
					fmt.Sprintf("'%s' is not a carrier instantiation", t.String())))
				return nil
			}
			return app
		}
		info, ok := w.symbolTable.FindType(t.Name)
		if !ok {
			w.addError(diagnostics.NewError(diagnostics.ErrT008, t.Token, t.Name))
			return nil
		}
		if len(info.TypeParams) != len(args) {
			w.addError(diagnostics.NewError(diagnostics.ErrT014, t.Token, t.Name, len(info.TypeParams), len(args)))
			return nil
		}
		if len(args) == 0 {
			return typesystem.TCon{Name: info.Name}
		}
		return typesystem.TApp{Constructor: typesystem.TCon{Name: info.Name}, Args: args}
	}
	return nil
}

// classType is the type of 'this' inside the enclosing class.
func (w *walker) classType() typesystem.Type {
	if w.class == nil {
		return nil
	}
	t, _ := w.symbolTable.ResolveType(w.class.Name)
	return t
}
