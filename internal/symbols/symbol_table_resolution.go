package symbols

import (
	"github.com/gb714us/csharplang/internal/config"
	"github.com/gb714us/csharplang/internal/typesystem"
)

// RenameTypeVars renames type variables to avoid collisions during Unify checks
func RenameTypeVars(t typesystem.Type, suffix string) typesystem.Type {
	vars := t.FreeTypeVariables()
	subst := make(typesystem.Subst)
	for _, v := range vars {
		subst[v.Name] = typesystem.TVar{Name: v.Name + "_" + suffix}
	}
	return t.Apply(subst)
}

// BaseChain returns the names of the base classes of a type, nearest first,
// ending with object for reference types.
func (s *SymbolTable) BaseChain(name string) []string {
	var chain []string
	seen := map[string]bool{name: true}
	info, ok := s.FindType(name)
	for ok {
		base := info.Base
		if base == "" {
			if info.IsValueType || info.IsInterface || info.Name == config.ObjectTypeName {
				break
			}
			base = config.ObjectTypeName
		}
		if seen[base] {
			break
		}
		seen[base] = true
		chain = append(chain, base)
		info, ok = s.FindType(base)
	}
	return chain
}

// AllInterfaces returns every interface a type implements, including those
// inherited from base classes and from other interfaces.
func (s *SymbolTable) AllInterfaces(name string) []string {
	var out []string
	seen := map[string]bool{}
	var visit func(n string)
	visit = func(n string) {
		info, ok := s.FindType(n)
		if !ok {
			return
		}
		for _, iface := range info.Interfaces {
			if seen[iface] {
				continue
			}
			seen[iface] = true
			out = append(out, iface)
			visit(iface)
		}
	}
	visit(name)
	for _, base := range s.BaseChain(name) {
		visit(base)
	}
	return out
}

// IsValueType reports whether t has value semantics. Tuples and carriers are
// value types; unknown names are treated as reference types.
func (s *SymbolTable) IsValueType(t typesystem.Type) bool {
	if _, ok := typesystem.AsTuple(t); ok {
		return true
	}
	info, ok := s.FindType(typesystem.ConstructorName(t))
	return ok && info.IsValueType
}

// IsReferenceType reports whether t is a known reference type.
func (s *SymbolTable) IsReferenceType(t typesystem.Type) bool {
	if _, ok := t.(typesystem.TVar); ok {
		return false
	}
	if _, ok := typesystem.AsTuple(t); ok {
		return false
	}
	info, ok := s.FindType(typesystem.ConstructorName(t))
	return ok && !info.IsValueType
}

// IsSubtype reports whether sub derives from or implements super. Only the
// named relation is checked: generic arguments must be identical.
func (s *SymbolTable) IsSubtype(sub, super typesystem.Type) bool {
	if typesystem.Identical(sub, super) {
		return true
	}
	superName := typesystem.ConstructorName(super)
	subName := typesystem.ConstructorName(sub)
	if superName == "" || subName == "" {
		return false
	}
	if superApp, ok := super.(typesystem.TApp); ok {
		subApp, ok := sub.(typesystem.TApp)
		if !ok || len(subApp.Args) != len(superApp.Args) {
			return false
		}
		for i := range subApp.Args {
			if !typesystem.Identical(subApp.Args[i], superApp.Args[i]) {
				return false
			}
		}
	}
	for _, base := range s.BaseChain(subName) {
		if base == superName {
			return true
		}
	}
	for _, iface := range s.AllInterfaces(subName) {
		if iface == superName {
			return true
		}
	}
	return false
}

// FieldType returns the type of a field or property of t, looking through
// base classes and instantiating generic type parameters.
func (s *SymbolTable) FieldType(t typesystem.Type, name string) (Field, bool) {
	typeName := typesystem.ConstructorName(t)
	for _, n := range append([]string{typeName}, s.BaseChain(typeName)...) {
		info, ok := s.FindType(n)
		if !ok {
			continue
		}
		f, ok := info.Fields[name]
		if !ok {
			continue
		}
		if app, ok := t.(typesystem.TApp); ok && n == typeName && len(info.TypeParams) == len(app.Args) {
			subst := typesystem.Subst{}
			for i, p := range info.TypeParams {
				subst[p] = app.Args[i]
			}
			f.Type = f.Type.Apply(subst)
		}
		return f, true
	}
	return Field{}, false
}
