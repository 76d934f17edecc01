// Package typeparse reads the member signatures used in world files, e.g.
// "void Deconstruct(out int x, out (string, long) rest)".
package typeparse

import (
	"strings"

	"github.com/alecthomas/participle"
	"github.com/alecthomas/participle/lexer"
	"github.com/pkg/errors"

	"github.com/gb714us/csharplang/internal/config"
	"github.com/gb714us/csharplang/internal/typesystem"
)

// Type is a type spelling: a name with optional type arguments, or a
// parenthesized tuple, followed by any number of array ranks.
type Type struct {
	Pos lexer.Position

	Elements []*Element `( "(" @@ { "," @@ } ")"`
	Name     string     `| @Ident`
	Args     []*Type    `[ "<" @@ { "," @@ } ">" ] )`
	Arrays   []string   `{ @"[" "]" }`
}

// Element is one element of a tuple type, optionally named.
type Element struct {
	Type *Type  `@@`
	Name string `[ @Ident ]`
}

type Param struct {
	Pos lexer.Position

	This bool   `[ @"this" ]`
	Out  bool   `[ @"out" ]`
	Type *Type  `@@`
	Name string `@Ident`
}

// Method is "[static] Result Name[<T, ...>](params)".
type Method struct {
	Pos lexer.Position

	Static     bool     `[ @"static" ]`
	Result     *Type    `@@`
	Name       string   `@Ident`
	TypeParams []string `[ "<" @Ident { "," @Ident } ">" ]`
	Params     []*Param `"(" [ @@ { "," @@ } ] ")"`
}

// Constructor is a parameter list: "(int x, int y)".
type Constructor struct {
	Pos lexer.Position

	Params []*Param `"(" [ @@ { "," @@ } ] ")"`
}

// Field is "[readonly] Type Name" or a property "Type Name { get; [set;] }".
type Field struct {
	Pos lexer.Position

	ReadOnly bool   `[ @"readonly" ]`
	Type     *Type  `@@`
	Name     string `@Ident`
	Property bool   `[ @"{" "get" ";"`
	Settable bool   `  [ @"set" ";" ] "}" ]`
}

var (
	typeParser        = participle.MustBuild(&Type{})
	methodParser      = participle.MustBuild(&Method{})
	constructorParser = participle.MustBuild(&Constructor{})
	fieldParser       = participle.MustBuild(&Field{})
)

func ParseType(src string) (*Type, error) {
	t := &Type{}
	if err := typeParser.ParseString(src, t); err != nil {
		return nil, errors.Wrapf(err, "type %q", src)
	}
	return t, nil
}

func ParseMethod(src string) (*Method, error) {
	m := &Method{}
	if err := methodParser.ParseString(src, m); err != nil {
		return nil, errors.Wrapf(err, "method %q", src)
	}
	return m, nil
}

func ParseConstructor(src string) (*Constructor, error) {
	c := &Constructor{}
	if err := constructorParser.ParseString(src, c); err != nil {
		return nil, errors.Wrapf(err, "constructor %q", src)
	}
	return c, nil
}

func ParseField(src string) (*Field, error) {
	f := &Field{}
	if err := fieldParser.ParseString(src, f); err != nil {
		return nil, errors.Wrapf(err, "field %q", src)
	}
	if f.Settable && f.ReadOnly {
		return nil, errors.Errorf("field %q: a readonly property cannot have a setter", src)
	}
	return f, nil
}

// IsReadOnly reports whether the member cannot be assigned: a readonly field
// or a property without a setter.
func (f *Field) IsReadOnly() bool {
	return f.ReadOnly || (f.Property && !f.Settable)
}

// Build turns the spelling into a type. Names listed in typeParams become
// type variables; every other name is taken as a named type, left for the
// caller to resolve.
func (t *Type) Build(typeParams []string) (typesystem.Type, error) {
	base, err := t.buildBase(typeParams)
	if err != nil {
		return nil, err
	}
	for range t.Arrays {
		base = typesystem.ArrayOf(base)
	}
	return base, nil
}

func (t *Type) buildBase(typeParams []string) (typesystem.Type, error) {
	if len(t.Elements) > 0 {
		elems := make([]typesystem.Type, len(t.Elements))
		names := make([]string, len(t.Elements))
		for i, el := range t.Elements {
			et, err := el.Type.Build(typeParams)
			if err != nil {
				return nil, err
			}
			elems[i], names[i] = et, el.Name
		}
		tuple, err := typesystem.NewTuple(elems, names)
		if err != nil {
			return nil, errors.Wrapf(err, "%s", t.Pos)
		}
		return tuple, nil
	}

	if t.Name == config.InferredTypeName {
		return nil, errors.Errorf("%s: '%s' is not allowed in a signature", t.Pos, t.Name)
	}
	for _, p := range typeParams {
		if p == t.Name {
			if len(t.Args) > 0 {
				return nil, errors.Errorf("%s: type parameter %s cannot take type arguments", t.Pos, t.Name)
			}
			return typesystem.TVar{Name: p}, nil
		}
	}
	if len(t.Args) == 0 {
		return typesystem.TCon{Name: t.Name}, nil
	}

	args := make([]typesystem.Type, len(t.Args))
	for i, a := range t.Args {
		at, err := a.Build(typeParams)
		if err != nil {
			return nil, err
		}
		args[i] = at
	}
	app := typesystem.TApp{Constructor: typesystem.TCon{Name: t.Name}, Args: args}
	if t.Name == config.CarrierTypeName && !typesystem.IsCarrier(app) {
		return nil, errors.Errorf("%s: %s is not a valid %s instantiation", t.Pos, app, config.CarrierTypeName)
	}
	return app, nil
}

func (t *Type) String() string {
	var sb strings.Builder
	if len(t.Elements) > 0 {
		parts := make([]string, len(t.Elements))
		for i, el := range t.Elements {
			parts[i] = el.Type.String()
			if el.Name != "" {
				parts[i] += " " + el.Name
			}
		}
		sb.WriteString("(" + strings.Join(parts, ", ") + ")")
	} else {
		sb.WriteString(t.Name)
		if len(t.Args) > 0 {
			parts := make([]string, len(t.Args))
			for i, a := range t.Args {
				parts[i] = a.String()
			}
			sb.WriteString("<" + strings.Join(parts, ", ") + ">")
		}
	}
	for range t.Arrays {
		sb.WriteString("[]")
	}
	return sb.String()
}
