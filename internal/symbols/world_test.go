package symbols

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gb714us/csharplang/internal/config"
	"github.com/gb714us/csharplang/internal/typesystem"
)

const worldYAML = `
types:
  - name: Shape
    interfaces: [IDrawable]
    fields: ["string Name { get; }", "int Sides { get; set; }"]
  - name: IDrawable
    kind: interface
  - name: Rect
    base: Shape
    fields: ["readonly int W", "int H"]
    constructors: ["(int w, int h)", "()"]
    methods:
      - "void Deconstruct(out int w, out int h)"
      - "static Rect Square(int side)"
  - name: Box
    kind: struct
    type_params: [T]
    fields: ["T Value"]
    methods:
      - "void Deconstruct(out T value, out (T, T) pair)"
  - name: ShapeExtensions
    kind: static
    methods:
      - "static void Deconstruct(this Shape s, out string name, out int sides, out bool closed)"
      - "static void Deconstruct<K>(this Box<K> b, out K value)"
functions:
  - "bool TryRect(string s, out Rect r)"
  - "(int, long)[] Pairs()"
`

func loadWorld(t *testing.T, src string) (*SymbolTable, error) {
	t.Helper()
	w, err := config.ParseWorld([]byte(src), "tuples.yaml")
	require.NoError(t, err)
	st := NewSymbolTable()
	return st, st.LoadWorld(w)
}

func TestLoadWorld(t *testing.T) {
	st, err := loadWorld(t, worldYAML)
	require.NoError(t, err)

	rect, ok := st.FindType("Rect")
	require.True(t, ok)
	assert.Equal(t, "Shape", rect.Base)
	assert.True(t, rect.Fields["W"].ReadOnly)
	assert.False(t, rect.Fields["H"].ReadOnly)
	assert.True(t, st.IsSubtype(typesystem.TCon{Name: "Rect"}, typesystem.TCon{Name: "IDrawable"}))

	shape, _ := st.FindType("Shape")
	assert.True(t, shape.Fields["Name"].ReadOnly)
	assert.True(t, shape.Fields["Name"].IsProperty)
	assert.False(t, shape.Fields["Sides"].ReadOnly)

	box, _ := st.FindType("Box")
	assert.True(t, box.IsValueType)
	assert.Equal(t, typesystem.TVar{Name: "T"}, box.Fields["Value"].Type)

	ctors := st.StaticMethodsNamed("Rect", config.ConstructorMethodName)
	assert.Len(t, ctors, 2)
	assert.Equal(t, typesystem.TCon{Name: "Rect"}, ctors[0].Result)
	require.Len(t, st.StaticMethodsNamed("Rect", "Square"), 1)

	groups := st.MethodsNamed("Rect", config.DeconstructMethodName)
	require.NotEmpty(t, groups)
	assert.Equal(t, "Rect.Deconstruct(out int w, out int h)", groups[0][0].Signature())

	boxDecon := st.MethodsNamed("Box", config.DeconstructMethodName)
	require.NotEmpty(t, boxDecon)
	pair := boxDecon[0][0].Params[1].Type
	assert.Equal(t, "(T, T)", pair.String())

	exts := st.ExtensionMethods(config.DeconstructMethodName)
	var names []string
	for _, m := range exts {
		names = append(names, m.Signature())
	}
	assert.Contains(t, names, "ShapeExtensions.Deconstruct(this Shape s, out string name, out int sides, out bool closed)")
	assert.Contains(t, names, "ShapeExtensions.Deconstruct<K>(this Box<K> b, out K value)")

	fns, ok := st.FindFunction("TryRect")
	require.True(t, ok)
	require.Len(t, fns, 1)
	assert.True(t, fns[0].Params[1].IsOut)
	assert.True(t, fns[0].IsStatic)

	fns, ok = st.FindFunction("Pairs")
	require.True(t, ok)
	assert.Equal(t, "Array<(int, long)>", fns[0].Result.String())
}

func TestLoadWorldErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"builtin", "types:\n  - name: int\n", "shadows a built-in"},
		{"unknown base", "types:\n  - name: A\n    base: B\n", "base type B is not defined"},
		{"struct base", "types:\n  - name: S\n    kind: struct\n  - name: A\n    base: S\n", "not a class"},
		{"not interface", "types:\n  - name: A\n    interfaces: [object]\n", "not an interface"},
		{"unknown field type", "types:\n  - name: A\n    fields: [\"Missing M\"]\n", "type Missing is not defined"},
		{"type args", "types:\n  - name: A\n    fields: [\"List<int, int> M\"]\n", "takes 1 type arguments"},
		{"duplicate field", "types:\n  - name: A\n    fields: [\"int M\", \"long M\"]\n", "declared twice"},
		{"syntax", "types:\n  - name: A\n    methods: [\"void F(\"]\n", "method \"void F(\""},
		{"instance extension", "types:\n  - name: E\n    kind: static\n    methods: [\"void D(this int i, out int x)\"]\n", "must be static"},
		{"extension outside static", "types:\n  - name: E\n    methods: [\"static void D(this int i, out int x)\"]\n", "static type"},
		{"instance in static", "types:\n  - name: E\n    kind: static\n    methods: [\"void F()\"]\n", "only have static methods"},
		{"late this", "functions: [\"void F(int a, this int b)\"]\n", "only the first parameter"},
		{"duplicate param", "functions: [\"void F(int a, int a)\"]\n", "parameter a is declared twice"},
		{"free extension", "functions: [\"static void F(this int a)\"]\n", "only a method of a static type"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadWorld(t, tt.yaml)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestParseType(t *testing.T) {
	st, err := loadWorld(t, worldYAML)
	require.NoError(t, err)

	ty, err := st.ParseType("(Rect, Box<int>[])")
	require.NoError(t, err)
	assert.Equal(t, "(Rect, Array<Box<int>>)", ty.String())

	_, err = st.ParseType("(Rect, Circle)")
	assert.ErrorContains(t, err, "type Circle is not defined")

	_, err = st.ParseType("Box")
	assert.ErrorContains(t, err, "takes 1 type arguments, got 0")
}

func TestParseFunction(t *testing.T) {
	st := NewSymbolTable()
	require.NoError(t, st.DefineType(&TypeInfo{Name: "Point", IsValueType: true}, "test"))

	m, err := st.ParseFunction("(int, Point)[] Pairs(long from)")
	require.NoError(t, err)
	assert.Equal(t, "Pairs(long from)", m.Signature())
	want := typesystem.ArrayOf(typesystem.MustTuple([]typesystem.Type{typesystem.Int, typesystem.TCon{Name: "Point"}}))
	assert.True(t, typesystem.Identical(want, m.ResultOrVoid()), m.ResultOrVoid().String())

	// Parsing does not define the function.
	_, ok := st.FindFunction("Pairs")
	assert.False(t, ok)

	_, err = st.ParseFunction("Missing Make()")
	assert.Error(t, err)
}
