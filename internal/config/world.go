package config

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"golang.org/x/exp/slices"
	"gopkg.in/yaml.v3"
)

// Type kinds of a world type declaration.
const (
	KindClass     = "class"
	KindStruct    = "struct"
	KindInterface = "interface"
	KindStatic    = "static"
)

var typeKinds = []string{KindClass, KindStruct, KindInterface, KindStatic}

// World describes the types and functions a source file is checked
// against, plus checks that exercise the conversion and deconstruction
// rules directly.
type World struct {
	Types     []TypeDecl `yaml:"types"`
	Functions []Function `yaml:"functions,omitempty"`
	Checks    []Check    `yaml:"checks,omitempty"`
}

// TypeDecl declares a named type. Members are written as signatures, e.g.
//
//	fields: ["int X", "string Name { get; }"]
//	methods: ["void Deconstruct(out int x, out int y)"]
//	constructors: ["(int x, int y)"]
type TypeDecl struct {
	Name       string   `yaml:"name"`
	TypeParams []string `yaml:"type_params,omitempty"`

	// Base is the base class. Only classes have one.
	Base       string   `yaml:"base,omitempty"`
	Interfaces []string `yaml:"interfaces,omitempty"`

	// Kind is one of class, struct, interface or static. Defaults to class.
	// Extension methods can only be declared in a static type.
	Kind string `yaml:"kind,omitempty"`

	Fields       []string `yaml:"fields,omitempty"`
	Methods      []string `yaml:"methods,omitempty"`
	Constructors []string `yaml:"constructors,omitempty"`
}

// Function declares a free function, either as a bare signature or as a
// mapping that also gives the value a run of the function returns:
//
//	functions:
//	  - "Point Origin()"
//	  - signature: "(int, string)[] Pairs()"
//	    returns: [[1, "one"], [2, "two"]]
//
// Without returns, a call yields the default value of the result type.
type Function struct {
	Signature string    `yaml:"signature"`
	Returns   yaml.Node `yaml:"returns,omitempty"`
}

// HasReturns reports whether the function gives a return value.
func (f Function) HasReturns() bool { return f.Returns.Kind != 0 }

// UnmarshalYAML accepts the bare signature form as well as the mapping.
func (f *Function) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		return node.Decode(&f.Signature)
	}
	type plain Function
	return node.Decode((*plain)(f))
}

// Check is either a conversion check (From and To) or a deconstruction
// check (Deconstruct and Arity). Expect is the printed result: a
// conversion such as "Pointwise[ImplicitNumeric](Identity, ImplicitNumeric)",
// a deconstructor signature, or "None", "not found" and "ambiguous".
type Check struct {
	Name        string `yaml:"name"`
	From        string `yaml:"from,omitempty"`
	To          string `yaml:"to,omitempty"`
	Deconstruct string `yaml:"deconstruct,omitempty"`
	Arity       int    `yaml:"arity,omitempty"`
	Expect      string `yaml:"expect"`
}

// IsConversion reports whether the check classifies a conversion.
func (c Check) IsConversion() bool { return c.From != "" }

// LoadWorld reads and parses a world file.
func LoadWorld(path string) (*World, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading world %s", path)
	}
	return ParseWorld(data, path)
}

// ParseWorld parses world file content. The path is used only for error
// messages.
func ParseWorld(data []byte, path string) (*World, error) {
	var w World
	if err := yaml.Unmarshal(data, &w); err != nil {
		return nil, errors.Wrapf(err, "parsing %s", path)
	}
	w.setDefaults()
	if err := w.validate(path); err != nil {
		return nil, err
	}
	return &w, nil
}

// FindWorld searches for a world file starting from dir and walking up to
// parent directories. It returns "" and a nil error when there is none.
func FindWorld(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", errors.Wrap(err, "resolving directory")
	}
	for {
		for _, name := range WorldFileNames {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, nil
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

func (w *World) setDefaults() {
	for i := range w.Types {
		if w.Types[i].Kind == "" {
			w.Types[i].Kind = KindClass
		}
	}
}

// validate checks the structure of the world. Signatures are parsed and
// resolved when the world is loaded into a symbol table.
func (w *World) validate(path string) error {
	seen := make(map[string]bool)
	for i, t := range w.Types {
		if t.Name == "" {
			return errors.Errorf("%s: types[%d]: name is required", path, i)
		}
		if seen[t.Name] {
			return errors.Errorf("%s: types[%d]: type %s is declared twice", path, i, t.Name)
		}
		seen[t.Name] = true

		if !slices.Contains(typeKinds, t.Kind) {
			return errors.Errorf("%s: type %s: unknown kind %q (want one of %v)", path, t.Name, t.Kind, typeKinds)
		}
		if t.Base != "" && t.Kind != KindClass {
			return errors.Errorf("%s: type %s: only a class can have a base type", path, t.Name)
		}
		if len(t.Constructors) > 0 && (t.Kind == KindInterface || t.Kind == KindStatic) {
			return errors.Errorf("%s: type %s: a %s type cannot have constructors", path, t.Name, t.Kind)
		}
		for j, p := range t.TypeParams {
			if slices.Index(t.TypeParams, p) != j {
				return errors.Errorf("%s: type %s: type parameter %s is declared twice", path, t.Name, p)
			}
		}
	}

	for i, f := range w.Functions {
		if f.Signature == "" {
			return errors.Errorf("%s: functions[%d]: signature is required", path, i)
		}
	}

	names := make(map[string]bool)
	for i, c := range w.Checks {
		if c.Name == "" {
			return errors.Errorf("%s: checks[%d]: name is required", path, i)
		}
		if names[c.Name] {
			return errors.Errorf("%s: checks[%d]: check %s is declared twice", path, i, c.Name)
		}
		names[c.Name] = true

		conversion := c.From != "" || c.To != ""
		switch {
		case conversion && c.Deconstruct != "":
			return errors.Errorf("%s: check %s: from/to and deconstruct are mutually exclusive", path, c.Name)
		case conversion && (c.From == "" || c.To == ""):
			return errors.Errorf("%s: check %s: a conversion check needs both from and to", path, c.Name)
		case !conversion && c.Deconstruct == "":
			return errors.Errorf("%s: check %s: needs from/to or deconstruct", path, c.Name)
		case c.Deconstruct != "" && c.Arity < 1:
			return errors.Errorf("%s: check %s: arity must be at least 1", path, c.Name)
		}
		if c.Expect == "" {
			return errors.Errorf("%s: check %s: expect is required", path, c.Name)
		}
	}
	return nil
}
