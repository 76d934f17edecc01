package symbols

import (
	"github.com/pkg/errors"

	"github.com/gb714us/csharplang/internal/config"
	"github.com/gb714us/csharplang/internal/typeparse"
	"github.com/gb714us/csharplang/internal/typesystem"
)

const worldOrigin = "world"

// LoadWorld defines the types, members and free functions of w in the
// table. Type names are declared before any member is read, so signatures
// may refer to types declared later in the file.
func (s *SymbolTable) LoadWorld(w *config.World) error {
	infos := make([]*TypeInfo, len(w.Types))
	for i, decl := range w.Types {
		if s.outer != nil && s.outer.IsDefined(decl.Name) {
			return errors.Errorf("type %s: shadows a built-in type", decl.Name)
		}
		info := &TypeInfo{
			Name:        decl.Name,
			TypeParams:  decl.TypeParams,
			Base:        decl.Base,
			Interfaces:  decl.Interfaces,
			IsValueType: decl.Kind == config.KindStruct,
			IsInterface: decl.Kind == config.KindInterface,
			IsStatic:    decl.Kind == config.KindStatic,
		}
		if err := s.DefineType(info, worldOrigin); err != nil {
			return err
		}
		infos[i] = info
	}

	for i, decl := range w.Types {
		if err := s.loadTypeDecl(infos[i], decl); err != nil {
			return errors.Wrapf(err, "type %s", decl.Name)
		}
	}

	for _, fn := range w.Functions {
		m, err := s.ParseFunction(fn.Signature)
		if err != nil {
			return err
		}
		if err := s.DefineMethod(m); err != nil {
			return err
		}
	}
	return nil
}

// ParseFunction reads a free function signature such as
// "Point Origin()" and resolves it against the table. The function is not
// defined.
func (s *SymbolTable) ParseFunction(src string) (*Method, error) {
	parsed, err := typeparse.ParseMethod(src)
	if err != nil {
		return nil, err
	}
	m, err := s.buildMethod(parsed, "", nil)
	if err != nil {
		return nil, errors.Wrapf(err, "function %q", src)
	}
	if m.IsExtension {
		return nil, errors.Errorf("function %q: only a method of a static type can be an extension", src)
	}
	return m, nil
}

func (s *SymbolTable) loadTypeDecl(info *TypeInfo, decl config.TypeDecl) error {
	if info.Base != "" {
		base, ok := s.FindType(info.Base)
		if !ok {
			return errors.Errorf("base type %s is not defined", info.Base)
		}
		if base.IsValueType || base.IsInterface || base.IsStatic {
			return errors.Errorf("base type %s is not a class", info.Base)
		}
	}
	for _, name := range info.Interfaces {
		iface, ok := s.FindType(name)
		if !ok || !iface.IsInterface {
			return errors.Errorf("%s is not an interface", name)
		}
	}

	for _, src := range decl.Fields {
		parsed, err := typeparse.ParseField(src)
		if err != nil {
			return err
		}
		t, err := s.buildType(parsed.Type, info.TypeParams)
		if err != nil {
			return errors.Wrapf(err, "field %q", src)
		}
		if _, dup := info.Fields[parsed.Name]; dup {
			return errors.Errorf("field %s is declared twice", parsed.Name)
		}
		f := Field{Name: parsed.Name, Type: t, ReadOnly: parsed.IsReadOnly(), IsProperty: parsed.Property}
		if err := s.DefineField(info.Name, f); err != nil {
			return err
		}
	}

	for _, src := range decl.Constructors {
		parsed, err := typeparse.ParseConstructor(src)
		if err != nil {
			return err
		}
		params, err := s.buildParams(parsed.Params, info.TypeParams)
		if err != nil {
			return errors.Wrapf(err, "constructor %q", src)
		}
		if err := s.DefineMethod(&Method{
			Name:     config.ConstructorMethodName,
			Owner:    info.Name,
			Params:   params,
			Result:   typeOfInfo(info),
			IsStatic: true,
		}); err != nil {
			return err
		}
	}

	for _, src := range decl.Methods {
		parsed, err := typeparse.ParseMethod(src)
		if err != nil {
			return err
		}
		m, err := s.buildMethod(parsed, info.Name, info.TypeParams)
		if err != nil {
			return errors.Wrapf(err, "method %q", src)
		}
		if m.IsExtension && !info.IsStatic {
			return errors.Errorf("method %q: extension methods must be declared in a static type", src)
		}
		if info.IsStatic && !m.IsStatic {
			return errors.Errorf("method %q: a static type can only have static methods", src)
		}
		if err := s.DefineMethod(m); err != nil {
			return err
		}
	}
	return nil
}

// buildMethod resolves a parsed signature. ownerParams are the type
// parameters of the declaring type, in scope in every member signature.
func (s *SymbolTable) buildMethod(parsed *typeparse.Method, owner string, ownerParams []string) (*Method, error) {
	typeParams := append(append([]string(nil), ownerParams...), parsed.TypeParams...)
	result, err := s.buildType(parsed.Result, typeParams)
	if err != nil {
		return nil, err
	}
	params, err := s.buildParams(parsed.Params, typeParams)
	if err != nil {
		return nil, err
	}
	m := &Method{
		Name:       parsed.Name,
		Owner:      owner,
		TypeParams: parsed.TypeParams,
		Params:     params,
		Result:     result,
		IsStatic:   parsed.Static || owner == "",
	}
	if len(params) > 0 && params[0].IsThis {
		if !parsed.Static {
			return nil, errors.New("an extension method must be static")
		}
		m.IsExtension = true
	}
	return m, nil
}

func (s *SymbolTable) buildParams(parsed []*typeparse.Param, typeParams []string) ([]Parameter, error) {
	params := make([]Parameter, len(parsed))
	seen := make(map[string]bool)
	for i, p := range parsed {
		if p.This && i > 0 {
			return nil, errors.Errorf("%s: only the first parameter can be 'this'", p.Pos)
		}
		if p.This && p.Out {
			return nil, errors.Errorf("%s: the receiver cannot be an out parameter", p.Pos)
		}
		if seen[p.Name] {
			return nil, errors.Errorf("%s: parameter %s is declared twice", p.Pos, p.Name)
		}
		seen[p.Name] = true
		t, err := s.buildType(p.Type, typeParams)
		if err != nil {
			return nil, err
		}
		params[i] = Parameter{Name: p.Name, Type: t, IsOut: p.Out, IsThis: p.This}
	}
	return params, nil
}

// ParseType reads a type spelling such as "(int, List<string>)" and
// resolves it against the table.
func (s *SymbolTable) ParseType(src string) (typesystem.Type, error) {
	parsed, err := typeparse.ParseType(src)
	if err != nil {
		return nil, err
	}
	return s.buildType(parsed, nil)
}

// buildType builds a spelled type and checks that every name it uses is a
// defined type applied to the right number of type arguments.
func (s *SymbolTable) buildType(parsed *typeparse.Type, typeParams []string) (typesystem.Type, error) {
	t, err := parsed.Build(typeParams)
	if err != nil {
		return nil, err
	}
	if err := s.checkNames(t); err != nil {
		return nil, errors.Wrapf(err, "%s", parsed.Pos)
	}
	return t, nil
}

func (s *SymbolTable) checkNames(t typesystem.Type) error {
	switch t := t.(type) {
	case typesystem.TCon:
		return s.checkApplied(t.Name, 0)
	case typesystem.TApp:
		name := typesystem.ConstructorName(t)
		if name != config.CarrierTypeName {
			if err := s.checkApplied(name, len(t.Args)); err != nil {
				return err
			}
		}
		for _, arg := range t.Args {
			if err := s.checkNames(arg); err != nil {
				return err
			}
		}
	case typesystem.TTuple:
		elems, _ := t.Flatten()
		for _, el := range elems {
			if err := s.checkNames(el); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *SymbolTable) checkApplied(name string, args int) error {
	info, ok := s.FindType(name)
	if !ok {
		return errors.Errorf("type %s is not defined", name)
	}
	if len(info.TypeParams) != args {
		return errors.Errorf("type %s takes %d type arguments, got %d", name, len(info.TypeParams), args)
	}
	return nil
}
