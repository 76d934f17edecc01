package evaluator

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gb714us/csharplang/internal/ast"
	"github.com/gb714us/csharplang/internal/conversions"
	"github.com/gb714us/csharplang/internal/deconstruct"
	"github.com/gb714us/csharplang/internal/dispatch"
	"github.com/gb714us/csharplang/internal/symbols"
	"github.com/gb714us/csharplang/internal/token"
	"github.com/gb714us/csharplang/internal/typesystem"
)

var (
	pointType  = typesystem.TCon{Name: "Point"}
	optionType = typesystem.TCon{Name: "Maybe"}
)

func newLowerer(t *testing.T) *deconstruct.Lowerer {
	t.Helper()
	st := symbols.NewSymbolTable()
	require.NoError(t, st.DefineType(&symbols.TypeInfo{Name: "Point"}, "test"))
	require.NoError(t, st.DefineType(&symbols.TypeInfo{Name: "Maybe"}, "test"))
	for _, m := range []*symbols.Method{
		{Name: "Deconstruct", Owner: "Point", Params: []symbols.Parameter{
			{Name: "x", Type: typesystem.Int, IsOut: true},
			{Name: "y", Type: typesystem.Int, IsOut: true},
		}},
		{Name: "Deconstruct", Owner: "Maybe", Result: typesystem.Bool, Params: []symbols.Parameter{
			{Name: "value", Type: typesystem.Int, IsOut: true},
			{Name: "label", Type: typesystem.String, IsOut: true},
		}},
	} {
		require.NoError(t, st.DefineMethod(m))
	}
	return deconstruct.New(dispatch.New(st, nil), conversions.New(st))
}

func ident(name string) *ast.Identifier {
	return &ast.Identifier{Token: token.New(token.IDENT, name, 1, 1), Value: name}
}

func callOf(name string) *ast.CallExpression {
	return &ast.CallExpression{Token: token.New(token.LPAREN, "(", 1, 1), Function: ident(name)}
}

func tok() token.Token { return token.New(token.LPAREN, "(", 1, 1) }

func variable(name string, t typesystem.Type) *deconstruct.Target {
	return &deconstruct.Target{Kind: deconstruct.Existing, Name: name, Type: t, Token: token.New(token.IDENT, name, 1, 1)}
}

func fresh(name string) *deconstruct.Target {
	return &deconstruct.Target{Kind: deconstruct.Fresh, Name: name, Token: token.New(token.IDENT, name, 1, 1)}
}

func src(e ast.Expression, t typesystem.Type) *deconstruct.Source {
	return deconstruct.ExprSource(e, t)
}

func lower(t *testing.T, form deconstruct.Form, targets []*deconstruct.Target, s *deconstruct.Source) *deconstruct.Plan {
	t.Helper()
	plan, errs := newLowerer(t).Lower(form, targets, s, tok())
	require.Empty(t, errs)
	return plan
}

func valueOf(t *testing.T, env *Environment, name string) Object {
	t.Helper()
	v, ok := env.Get(name)
	require.True(t, ok, "%s is not defined", name)
	return v
}

func TestSwap(t *testing.T) {
	values := []struct {
		name string
		a, b Object
		typ  typesystem.Type
	}{
		{"ints", &Integer{Value: 1}, &Integer{Value: 2}, typesystem.Int},
		{"negative", &Integer{Value: -7}, &Integer{Value: 42}, typesystem.Int},
		{"strings", &String{Value: "left"}, &String{Value: "right"}, typesystem.String},
		{"tuples", NewTuple([]Object{&Integer{Value: 1}, TRUE}), NewTuple([]Object{&Integer{Value: 2}, FALSE}), typesystem.MustTuple([]typesystem.Type{typesystem.Int, typesystem.Bool})},
	}
	for _, tt := range values {
		t.Run(tt.name, func(t *testing.T) {
			env := NewEnvironment()
			require.NoError(t, env.Declare("a", tt.typ, tt.a))
			require.NoError(t, env.Declare("b", tt.typ, tt.b))

			s := deconstruct.LiteralSource(&ast.TupleLiteral{Token: tok()}, []*deconstruct.Source{src(ident("b"), tt.typ), src(ident("a"), tt.typ)}, nil)
			plan := lower(t, deconstruct.Assignment, []*deconstruct.Target{variable("a", tt.typ), variable("b", tt.typ)}, s)

			_, err := New().Exec(plan, env)
			require.NoError(t, err)
			assert.Equal(t, tt.b, valueOf(t, env, "a"))
			assert.Equal(t, tt.a, valueOf(t, env, "b"))
		})
	}
}

func TestRotateThree(t *testing.T) {
	env := NewEnvironment()
	for i, name := range []string{"a", "b", "c"} {
		require.NoError(t, env.Declare(name, typesystem.Int, &Integer{Value: int64(i + 1)}))
	}
	s := deconstruct.LiteralSource(&ast.TupleLiteral{Token: tok()}, []*deconstruct.Source{
		src(ident("b"), typesystem.Int), src(ident("c"), typesystem.Int), src(ident("a"), typesystem.Int),
	}, nil)
	plan := lower(t, deconstruct.Assignment, []*deconstruct.Target{variable("a", typesystem.Int), variable("b", typesystem.Int), variable("c", typesystem.Int)}, s)

	_, err := New().Exec(plan, env)
	require.NoError(t, err)
	assert.Equal(t, int64(2), valueOf(t, env, "a").(*Integer).Value)
	assert.Equal(t, int64(3), valueOf(t, env, "b").(*Integer).Value)
	assert.Equal(t, int64(1), valueOf(t, env, "c").(*Integer).Value)
}

func TestEvaluationOrder(t *testing.T) {
	env := NewEnvironment()
	arr := &Array{Elements: []Object{&Integer{Value: 0}, &Integer{Value: 0}}, ElemType: typesystem.Int}
	env.Set("arr", arr)
	require.NoError(t, env.Declare("x", typesystem.Int, &Integer{Value: 0}))

	e := New()
	next := int64(0)
	for _, name := range []string{"f", "g", "i"} {
		e.Functions[name] = func([]Object) Object {
			next++
			return &Integer{Value: next % 2}
		}
	}

	slot := variable("arr[i()]", typesystem.Int)
	slot.Location = &deconstruct.Location{Kind: deconstruct.Indexer, Receiver: ident("arr"), Index: callOf("i")}
	s := deconstruct.LiteralSource(&ast.TupleLiteral{Token: tok()}, []*deconstruct.Source{
		src(callOf("f"), typesystem.Int), src(callOf("g"), typesystem.Int),
	}, nil)
	plan := lower(t, deconstruct.Assignment, []*deconstruct.Target{slot, variable("x", typesystem.Int)}, s)

	_, err := e.Exec(plan, env)
	require.NoError(t, err)
	assert.Equal(t, "call f = 1\ncall g = 0\nread arr = [0, 0]\ncall i = 1\nstore arr[i()] = 1\nstore x = 0\n", e.TraceString())
	assert.Equal(t, "[0, 1]", arr.Inspect())
}

func TestDeclarationWithConversion(t *testing.T) {
	env := NewEnvironment()
	env.Set("e", NewTuple([]Object{&Integer{Value: 3}, &Integer{Value: 4}}))

	targets := []*deconstruct.Target{
		{Kind: deconstruct.Fresh, Name: "l", Type: typesystem.Long, Token: tok()},
		{Kind: deconstruct.Fresh, Name: "d", Type: typesystem.Double, Token: tok()},
	}
	plan := lower(t, deconstruct.Declaration, targets, src(ident("e"), typesystem.MustTuple([]typesystem.Type{typesystem.Int, typesystem.Int})))

	_, err := New().Exec(plan, env)
	require.NoError(t, err)
	assert.Equal(t, &Integer{Value: 3, Kind: typesystem.Long}, valueOf(t, env, "l"))
	assert.Equal(t, &Float{Value: 4, Kind: typesystem.Double}, valueOf(t, env, "d"))
	typ, _ := env.TypeOf("d")
	assert.Equal(t, typesystem.Double, typ)
}

func TestWideTupleThroughRest(t *testing.T) {
	elems := make([]Object, 9)
	types := make([]typesystem.Type, 9)
	targets := make([]*deconstruct.Target, 9)
	for i := range elems {
		elems[i] = &Integer{Value: int64(i + 1)}
		types[i] = typesystem.Int
		targets[i] = fresh(fmt.Sprintf("v%d", i+1))
	}
	tup := NewTuple(elems)
	require.NotNil(t, tup.Rest)
	assert.Len(t, tup.Items, 7)
	assert.Equal(t, 9, tup.Len())

	env := NewEnvironment()
	env.Set("e", tup)
	plan := lower(t, deconstruct.Declaration, targets, src(ident("e"), typesystem.MustTuple(types)))

	_, err := New().Exec(plan, env)
	require.NoError(t, err)
	assert.Equal(t, int64(9), valueOf(t, env, "v9").(*Integer).Value)
	assert.Equal(t, int64(8), valueOf(t, env, "v8").(*Integer).Value)
}

func TestDeconstructorReadsFields(t *testing.T) {
	env := NewEnvironment()
	env.Set("p", NewInstance("Point", map[string]Object{"X": &Integer{Value: 5}, "Y": &Integer{Value: 6}}))

	plan := lower(t, deconstruct.Declaration, []*deconstruct.Target{fresh("x"), fresh("y")}, src(ident("p"), pointType))

	e := New()
	_, err := e.Exec(plan, env)
	require.NoError(t, err)
	assert.Equal(t, int64(5), valueOf(t, env, "x").(*Integer).Value)
	assert.Equal(t, int64(6), valueOf(t, env, "y").(*Integer).Value)
	assert.Contains(t, e.TraceString(), "deconstruct Point.Deconstruct(out int x, out int y)")
}

func TestRegisteredDeconstructor(t *testing.T) {
	env := NewEnvironment()
	env.Set("p", NewInstance("Point", nil))

	e := New()
	e.Deconstructors["Point.Deconstruct(out int x, out int y)"] = func(Object) ([]Object, bool) {
		return []Object{&Integer{Value: 10}, &Integer{Value: 20}}, true
	}
	plan := lower(t, deconstruct.Declaration, []*deconstruct.Target{fresh("x"), fresh("y")}, src(ident("p"), pointType))

	_, err := e.Exec(plan, env)
	require.NoError(t, err)
	assert.Equal(t, int64(20), valueOf(t, env, "y").(*Integer).Value)
}

func TestConditionalDeconstructorInPattern(t *testing.T) {
	l := newLowerer(t)
	shape, errs := l.LowerPattern(nil, src(ident("m"), optionType), []string{"", ""}, tok())
	require.Empty(t, errs)
	require.True(t, shape.Conditional())

	e := New()
	present := true
	e.Deconstructors["Maybe.Deconstruct(out int value, out string label)"] = func(Object) ([]Object, bool) {
		if !present {
			return nil, false
		}
		return []Object{&Integer{Value: 1}, &String{Value: "one"}}, true
	}
	env := NewEnvironment()
	env.Set("m", NewInstance("Maybe", nil))

	f, err := e.Exec(shape.Plan, env)
	require.NoError(t, err)
	assert.True(t, f.Matched)
	temp, _ := shape.Elements[1].Temp()
	assert.Equal(t, "one", f.Temps[temp].Inspect())

	present = false
	f, err = e.Exec(shape.Plan, env)
	require.NoError(t, err)
	assert.False(t, f.Matched)
}

func TestAssignToField(t *testing.T) {
	env := NewEnvironment()
	obj := NewInstance("Box", map[string]Object{"W": &Integer{}, "H": &Integer{}})
	env.Set("box", obj)

	w := variable("W", typesystem.Int)
	w.Location = &deconstruct.Location{Kind: deconstruct.Field, Receiver: ident("box")}
	h := variable("H", typesystem.Int)
	h.Location = &deconstruct.Location{Kind: deconstruct.Property, Receiver: ident("box")}
	s := deconstruct.LiteralSource(&ast.TupleLiteral{Token: tok()}, []*deconstruct.Source{
		src(&ast.IntegerLiteral{Token: tok(), Value: 3}, typesystem.Int),
		src(&ast.IntegerLiteral{Token: tok(), Value: 4}, typesystem.Int),
	}, nil)

	_, err := New().Exec(lower(t, deconstruct.Assignment, []*deconstruct.Target{w, h}, s), env)
	require.NoError(t, err)
	assert.Equal(t, int64(3), obj.Fields["W"].(*Integer).Value)
	assert.Equal(t, int64(4), obj.Fields["H"].(*Integer).Value)
}

func TestRuntimeFailuresStopBeforeStores(t *testing.T) {
	env := NewEnvironment()
	require.NoError(t, env.Declare("x", typesystem.Int, &Integer{Value: 1}))
	env.Set("arr", &Array{Elements: []Object{&Integer{}}})

	slot := variable("arr[5]", typesystem.Int)
	slot.Location = &deconstruct.Location{Kind: deconstruct.Indexer, Receiver: ident("arr"), Index: &ast.IntegerLiteral{Token: tok(), Value: 5}}
	s := deconstruct.LiteralSource(&ast.TupleLiteral{Token: tok()}, []*deconstruct.Source{
		src(&ast.IntegerLiteral{Token: tok(), Value: 7}, typesystem.Int),
		src(ident("missing"), typesystem.Int),
	}, nil)

	e := New()
	_, err := e.Exec(lower(t, deconstruct.Assignment, []*deconstruct.Target{variable("x", typesystem.Int), slot}, s), env)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "undefined variable 'missing'")
	assert.Equal(t, int64(1), valueOf(t, env, "x").(*Integer).Value)
}

func TestTupleMembers(t *testing.T) {
	elems := make([]Object, 9)
	for i := range elems {
		elems[i] = &Integer{Value: int64(i + 1)}
	}
	env := NewEnvironment()
	env.Set("t", NewTuple(elems))
	e := New()

	member := func(name string) Object {
		return e.Eval(&ast.MemberExpression{Token: tok(), Left: ident("t"), Member: ident(name)}, env)
	}
	assert.Equal(t, "9", member("Item9").Inspect())
	assert.True(t, isError(member("Item10")))
	// The carrier field is not an element.
	assert.True(t, isError(member("Rest")))
}

func TestNamedTupleMembers(t *testing.T) {
	elems := make([]Object, 9)
	types := make([]typesystem.Type, 9)
	names := make([]string, 9)
	for i := range elems {
		elems[i] = &Integer{Value: int64(i + 1)}
		types[i] = typesystem.Int
		names[i] = string(rune('a' + i))
	}
	tt, err := typesystem.NewTuple(types, names)
	require.NoError(t, err)

	env := NewEnvironment()
	env.Set("n", NewTuple(elems))
	e := New()
	left := ident("n")
	e.Types = map[ast.Expression]typesystem.Type{left: tt}

	member := func(name string) Object {
		return e.Eval(&ast.MemberExpression{Token: tok(), Left: left, Member: ident(name)}, env)
	}
	assert.Equal(t, "1", member("a").Inspect())
	assert.Equal(t, "8", member("h").Inspect())
	assert.Equal(t, "9", member("i").Inspect())
	assert.Equal(t, "9", member("Item9").Inspect())
	assert.True(t, isError(member("j")))
	assert.True(t, isError(member("Rest")))
}

func TestEventSnapshot(t *testing.T) {
	e := New()
	val := &Integer{Value: 1}
	e.record(EventStore, "a", val)
	val.Value = 2
	assert.Equal(t, "store a = 1", e.Trace[0].String())
}
