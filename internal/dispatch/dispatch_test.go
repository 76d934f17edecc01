package dispatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gb714us/csharplang/internal/symbols"
	"github.com/gb714us/csharplang/internal/typesystem"
)

func out(name string, t typesystem.Type) symbols.Parameter {
	return symbols.Parameter{Name: name, Type: t, IsOut: true}
}

func defineMethod(t *testing.T, st *symbols.SymbolTable, m *symbols.Method) {
	t.Helper()
	require.NoError(t, st.DefineMethod(m))
}

func newWorld(t *testing.T) *symbols.SymbolTable {
	t.Helper()
	st := symbols.NewSymbolTable()
	for _, info := range []*symbols.TypeInfo{
		{Name: "Point", IsValueType: true},
		{Name: "Shape"},
		{Name: "Circle", Base: "Shape"},
		{Name: "Person"},
		{Name: "PersonExtensions", IsStatic: true},
	} {
		require.NoError(t, st.DefineType(info, "test"))
	}
	defineMethod(t, st, &symbols.Method{Name: "Deconstruct", Owner: "Point", Params: []symbols.Parameter{out("x", typesystem.Int), out("y", typesystem.Int)}})
	defineMethod(t, st, &symbols.Method{Name: "Deconstruct", Owner: "Point", Params: []symbols.Parameter{out("x", typesystem.Int), out("y", typesystem.Int), out("z", typesystem.Int)}})
	defineMethod(t, st, &symbols.Method{Name: "Deconstruct", Owner: "Shape", Params: []symbols.Parameter{out("name", typesystem.String), out("area", typesystem.Double)}})
	defineMethod(t, st, &symbols.Method{Name: "Deconstruct", Owner: "Circle", Params: []symbols.Parameter{out("name", typesystem.String), out("area", typesystem.Double)}})
	defineMethod(t, st, &symbols.Method{Name: "Deconstruct", Owner: "Shape", Params: []symbols.Parameter{out("radius", typesystem.Double)}, Result: typesystem.Bool})
	defineMethod(t, st, &symbols.Method{
		Name: "Deconstruct", Owner: "PersonExtensions", IsStatic: true, IsExtension: true,
		Params: []symbols.Parameter{
			{Name: "p", Type: typesystem.TCon{Name: "Person"}, IsThis: true},
			out("first", typesystem.String), out("last", typesystem.String),
		},
	})
	return st
}

func TestResolveByArity(t *testing.T) {
	d := New(newWorld(t), nil)
	point := typesystem.TCon{Name: "Point"}

	c, err := d.Resolve(point, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, c.Arity())
	assert.Equal(t, []string{"x", "y"}, c.Names)

	c, err = d.Resolve(point, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y", "z"}, c.Names)

	_, err = d.Resolve(point, 4)
	var dispatchErr *Error
	require.ErrorAs(t, err, &dispatchErr)
	assert.Equal(t, NotFound, dispatchErr.Kind)
	assert.Equal(t, "no deconstructor for Point with 4 outputs", err.Error())
}

func TestDerivedHidesBase(t *testing.T) {
	d := New(newWorld(t), nil)
	c, err := d.Resolve(typesystem.TCon{Name: "Circle"}, 2)
	require.NoError(t, err)
	assert.Equal(t, "Circle", c.Method.Owner)

	c, err = d.Resolve(typesystem.TCon{Name: "Circle"}, 1)
	require.NoError(t, err, "base class deconstructors are inherited")
	assert.Equal(t, "Shape", c.Method.Owner)
	assert.True(t, c.IsConditional())
}

func TestExtensionDeconstructor(t *testing.T) {
	d := New(newWorld(t), nil)
	c, err := d.Resolve(typesystem.TCon{Name: "Person"}, 2)
	require.NoError(t, err)
	assert.True(t, c.IsExtension())
	assert.Equal(t, []typesystem.Type{typesystem.String, typesystem.String}, c.Outputs)
}

func TestGenericExtensionIsInstantiated(t *testing.T) {
	d := New(newWorld(t), nil)
	kvp := typesystem.TApp{Constructor: typesystem.TCon{Name: "KeyValuePair"}, Args: []typesystem.Type{typesystem.String, typesystem.Long}}

	c, err := d.Resolve(kvp, 2)
	require.NoError(t, err)
	assert.Equal(t, []typesystem.Type{typesystem.String, typesystem.Long}, c.Outputs)
	assert.Equal(t, []string{"key", "value"}, c.Names)

	_, err = d.Resolve(kvp, 3)
	assert.Error(t, err)
}

func TestInstanceBeatsExtension(t *testing.T) {
	st := newWorld(t)
	defineMethod(t, st, &symbols.Method{
		Name: "Deconstruct", Owner: "PersonExtensions", IsStatic: true, IsExtension: true,
		Params: []symbols.Parameter{
			{Name: "p", Type: typesystem.TCon{Name: "Point"}, IsThis: true},
			out("a", typesystem.Long), out("b", typesystem.Long),
		},
	})
	c, err := New(st, nil).Resolve(typesystem.TCon{Name: "Point"}, 2)
	require.NoError(t, err)
	assert.False(t, c.IsExtension())
}

func TestAmbiguousOverloads(t *testing.T) {
	st := newWorld(t)
	defineMethod(t, st, &symbols.Method{Name: "Deconstruct", Owner: "Point", Params: []symbols.Parameter{out("a", typesystem.Long), out("b", typesystem.Long)}})

	_, err := New(st, nil).Resolve(typesystem.TCon{Name: "Point"}, 2)
	var dispatchErr *Error
	require.ErrorAs(t, err, &dispatchErr)
	assert.Equal(t, Ambiguous, dispatchErr.Kind)
	assert.Len(t, dispatchErr.Candidates, 2)
}

func TestNonDeconstructorShapesAreIgnored(t *testing.T) {
	st := newWorld(t)
	require.NoError(t, st.DefineType(&symbols.TypeInfo{Name: "Odd"}, "test"))
	// An input parameter disqualifies the method.
	defineMethod(t, st, &symbols.Method{Name: "Deconstruct", Owner: "Odd", Params: []symbols.Parameter{{Name: "a", Type: typesystem.Int}, out("b", typesystem.Int)}})
	// So does a result other than void or bool.
	defineMethod(t, st, &symbols.Method{Name: "Deconstruct", Owner: "Odd", Params: []symbols.Parameter{out("a", typesystem.Int), out("b", typesystem.Int)}, Result: typesystem.Int})

	assert.Empty(t, New(st, nil).Candidates(typesystem.TCon{Name: "Odd"}, 2))
}

type firstRanker struct{}

func (firstRanker) Best(_ typesystem.Type, candidates []Candidate) []Candidate {
	return candidates[:1]
}

func TestCustomRanker(t *testing.T) {
	st := newWorld(t)
	defineMethod(t, st, &symbols.Method{Name: "Deconstruct", Owner: "Point", Params: []symbols.Parameter{out("a", typesystem.Long), out("b", typesystem.Long)}})

	c, err := New(st, firstRanker{}).Resolve(typesystem.TCon{Name: "Point"}, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y"}, c.Names)
}
