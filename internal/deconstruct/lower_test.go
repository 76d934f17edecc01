package deconstruct

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gb714us/csharplang/internal/ast"
	"github.com/gb714us/csharplang/internal/conversions"
	"github.com/gb714us/csharplang/internal/diagnostics"
	"github.com/gb714us/csharplang/internal/dispatch"
	"github.com/gb714us/csharplang/internal/symbols"
	"github.com/gb714us/csharplang/internal/token"
	"github.com/gb714us/csharplang/internal/typesystem"
)

var (
	point = typesystem.TCon{Name: "Point"}
	shape = typesystem.TCon{Name: "Shape"}
	twice = typesystem.TCon{Name: "Twice"}
)

func out(name string, t typesystem.Type) symbols.Parameter {
	return symbols.Parameter{Name: name, Type: t, IsOut: true}
}

func newLowerer(t *testing.T) *Lowerer {
	t.Helper()
	st := symbols.NewSymbolTable()
	require.NoError(t, st.DefineType(&symbols.TypeInfo{Name: "Point", IsValueType: true}, "test"))
	require.NoError(t, st.DefineType(&symbols.TypeInfo{Name: "Shape"}, "test"))
	require.NoError(t, st.DefineType(&symbols.TypeInfo{Name: "Twice"}, "test"))
	for _, m := range []*symbols.Method{
		{Name: "Deconstruct", Owner: "Point", Params: []symbols.Parameter{out("x", typesystem.Int), out("y", typesystem.Int)}},
		{Name: "Deconstruct", Owner: "Shape", Params: []symbols.Parameter{out("w", typesystem.Double), out("h", typesystem.Double)}, Result: typesystem.Bool},
		{Name: "Deconstruct", Owner: "Twice", Params: []symbols.Parameter{out("a", typesystem.Int), out("b", typesystem.Int)}},
		{Name: "Deconstruct", Owner: "Twice", Params: []symbols.Parameter{out("a", typesystem.Long), out("b", typesystem.Long)}},
	} {
		require.NoError(t, st.DefineMethod(m))
	}
	return New(dispatch.New(st, nil), conversions.New(st))
}

func ident(name string) *ast.Identifier {
	return &ast.Identifier{Token: token.New(token.IDENT, name, 1, 1), Value: name}
}

func tok() token.Token { return token.New(token.LPAREN, "(", 1, 1) }

func existing(name string, t typesystem.Type) *Target {
	return &Target{Kind: Existing, Name: name, Type: t, Token: token.New(token.IDENT, name, 1, 1)}
}

func fresh(name string, t typesystem.Type) *Target {
	return &Target{Kind: Fresh, Name: name, Type: t, Token: token.New(token.IDENT, name, 1, 1)}
}

func labeled(label string, t *Target) *Target {
	t.Label = label
	return t
}

func nested(elems ...*Target) *Target {
	return &Target{Kind: Nested, Elements: elems, Token: tok()}
}

func expr(name string, t typesystem.Type) *Source {
	return ExprSource(ident(name), t)
}

func literal(elems ...*Source) *Source {
	return LiteralSource(&ast.TupleLiteral{Token: tok()}, elems, nil)
}

func ints(n int) []typesystem.Type {
	ts := make([]typesystem.Type, n)
	for i := range ts {
		ts[i] = typesystem.Int
	}
	return ts
}

func codes(errs []*diagnostics.DiagnosticError) []diagnostics.ErrorCode {
	var cs []diagnostics.ErrorCode
	for _, e := range errs {
		cs = append(cs, e.Code)
	}
	return cs
}

func TestSwapReadsBeforeWrites(t *testing.T) {
	l := newLowerer(t)
	targets := []*Target{existing("a", typesystem.Int), existing("b", typesystem.Int)}

	plan, errs := l.Lower(Assignment, targets, literal(expr("b", typesystem.Int), expr("a", typesystem.Int)), tok())
	require.Empty(t, errs)
	assert.Equal(t, "t0 = eval b\nt1 = eval a\na = t0\nb = t1\n", plan.String())
	require.Len(t, plan.Leaves, 2)
	assert.Equal(t, 0, plan.Leaves[0].Temp)
	assert.Equal(t, 1, plan.Leaves[1].Temp)
}

func TestArityMismatchIsRejected(t *testing.T) {
	l := newLowerer(t)
	for n := 2; n <= 9; n++ {
		for m := 1; m <= 9; m++ {
			if n == m {
				continue
			}
			t.Run(fmt.Sprintf("%d into %d", n, m), func(t *testing.T) {
				targets := make([]*Target, m)
				for i := range targets {
					targets[i] = existing(fmt.Sprintf("v%d", i), typesystem.Int)
				}
				src := expr("e", typesystem.MustTuple(ints(n)))

				plan, errs := l.Lower(Assignment, targets, src, tok())
				assert.Nil(t, plan)
				require.Len(t, errs, 1)
				assert.Equal(t, diagnostics.ErrT003, errs[0].Code)
				assert.Equal(t, fmt.Sprintf("cannot deconstruct %d elements into %d targets", n, m), errs[0].Message())
			})
		}
	}
}

func TestLiteralArityMismatch(t *testing.T) {
	l := newLowerer(t)
	targets := []*Target{existing("a", typesystem.Int), existing("b", typesystem.Int)}
	src := literal(expr("x", typesystem.Int), expr("y", typesystem.Int), expr("z", typesystem.Int))

	_, errs := l.Lower(Assignment, targets, src, tok())
	assert.Equal(t, []diagnostics.ErrorCode{diagnostics.ErrT003}, codes(errs))
}

func TestElementLabels(t *testing.T) {
	named := typesystem.MustTuple([]typesystem.Type{typesystem.Int, typesystem.Int}, "x", "y")

	tests := []struct {
		name    string
		labels  [2]string
		wantErr string
	}{
		{"matching names", [2]string{"x", "y"}, ""},
		{"unlabeled", [2]string{"", ""}, ""},
		{"positional names", [2]string{"Item1", "Item2"}, ""},
		{"partial", [2]string{"", "y"}, ""},
		{"mismatch", [2]string{"p", "y"}, "element name mismatch: target named 'p' but element 1 is 'x'"},
		{"swapped", [2]string{"y", "x"}, "element name mismatch: target named 'y' but element 1 is 'x'"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := newLowerer(t)
			targets := []*Target{
				labeled(tt.labels[0], existing("a", typesystem.Int)),
				labeled(tt.labels[1], existing("b", typesystem.Int)),
			}
			plan, errs := l.Lower(Assignment, targets, expr("e", named), tok())
			if tt.wantErr == "" {
				require.Empty(t, errs)
				assert.NotNil(t, plan)
				return
			}
			assert.Nil(t, plan)
			require.NotEmpty(t, errs)
			assert.Equal(t, diagnostics.ErrT004, errs[0].Code)
			assert.Equal(t, tt.wantErr, errs[0].Message())
		})
	}
}

func TestUnnamedElementUsesPositionalName(t *testing.T) {
	l := newLowerer(t)
	targets := []*Target{labeled("x", existing("a", typesystem.Int)), existing("b", typesystem.Int)}

	_, errs := l.Lower(Assignment, targets, expr("e", typesystem.MustTuple(ints(2))), tok())
	require.Len(t, errs, 1)
	assert.Equal(t, "element name mismatch: target named 'x' but element 1 is 'Item1'", errs[0].Message())
}

func TestLiteralLabels(t *testing.T) {
	l := newLowerer(t)
	src := LiteralSource(&ast.TupleLiteral{Token: tok()}, []*Source{expr("one", typesystem.Int), expr("two", typesystem.Int)}, []string{"x", "y"})
	targets := []*Target{labeled("x", existing("a", typesystem.Int)), labeled("y", existing("b", typesystem.Int))}

	_, errs := l.Lower(Assignment, targets, src, tok())
	assert.Empty(t, errs)
}

func TestDeclarationInfersTypes(t *testing.T) {
	l := newLowerer(t)
	x, y := fresh("x", nil), fresh("y", nil)
	src := expr("e", typesystem.MustTuple([]typesystem.Type{typesystem.Int, typesystem.String}))

	plan, errs := l.Lower(Declaration, []*Target{x, y}, src, tok())
	require.Empty(t, errs)
	assert.Equal(t, typesystem.Int, x.Type)
	assert.Equal(t, typesystem.String, y.Type)
	assert.Equal(t, "t0 = eval e\nt1 = t0.Item1\nt2 = t0.Item2\nint x = t1\nstring y = t2\n", plan.String())
}

func TestInferenceFromNullFails(t *testing.T) {
	l := newLowerer(t)
	null := &Source{Expr: &ast.NullLiteral{Token: token.New(token.NULL, "null", 1, 5)}, Operand: conversions.Operand{IsNull: true}}
	src := literal(expr("one", typesystem.Int), null)

	plan, errs := l.Lower(Declaration, []*Target{fresh("a", nil), fresh("b", nil)}, src, tok())
	assert.Nil(t, plan)
	require.Len(t, errs, 1)
	assert.Equal(t, diagnostics.ErrT011, errs[0].Code)
	assert.Equal(t, "cannot infer the type of 'b'", errs[0].Message())
}

func TestFailedSourceReportsNothing(t *testing.T) {
	l := newLowerer(t)
	missing := expr("missing", nil)
	missing.Failed = true

	plan, errs := l.Lower(Declaration, []*Target{fresh("a", nil), fresh("b", nil)}, missing, tok())
	assert.Nil(t, plan)
	assert.Empty(t, errs)

	// A failed element stops the plan; the other elements still report.
	plan, errs = l.Lower(Declaration, []*Target{fresh("a", nil), fresh("s", typesystem.String)}, literal(missing, expr("one", typesystem.Int)), tok())
	assert.Nil(t, plan)
	assert.Equal(t, []diagnostics.ErrorCode{diagnostics.ErrT002}, codes(errs))

	// An untyped source that did not fail is still reported.
	_, errs = l.Lower(Declaration, []*Target{fresh("a", nil), fresh("b", nil)}, expr("other", nil), tok())
	assert.Equal(t, []diagnostics.ErrorCode{diagnostics.ErrT005}, codes(errs))
}

func TestNullCanBeAssignedToReferenceTarget(t *testing.T) {
	l := newLowerer(t)
	null := &Source{Expr: &ast.NullLiteral{Token: token.New(token.NULL, "null", 1, 5)}, Operand: conversions.Operand{IsNull: true}}
	src := literal(expr("one", typesystem.Int), null)

	plan, errs := l.Lower(Declaration, []*Target{fresh("a", typesystem.Int), fresh("s", typesystem.String)}, src, tok())
	require.Empty(t, errs)
	assert.Equal(t, "t0 = eval one\nt1 = eval null\nt2 = (string)t1 [ImplicitReference]\nint a = t0\nstring s = t2\n", plan.String())
}

func TestConversionsPrecedeLocations(t *testing.T) {
	l := newLowerer(t)
	field := existing("F", typesystem.Long)
	field.Location = &Location{Kind: Field, Receiver: ident("obj")}
	slot := existing("arr[i]", typesystem.Long)
	slot.Location = &Location{Kind: Indexer, Receiver: ident("arr"), Index: ident("i")}

	plan, errs := l.Lower(Assignment, []*Target{field, slot}, expr("e", typesystem.MustTuple(ints(2))), tok())
	require.Empty(t, errs)

	want := []string{
		"t0 = eval e",
		"t1 = t0.Item1",
		"t2 = t0.Item2",
		"t6 = (long)t1 [ImplicitNumeric]",
		"t7 = (long)t2 [ImplicitNumeric]",
		"t3 = location obj",
		"t4 = location arr",
		"t5 = location i",
		"t3.F = t6",
		"t4[t5] = t7",
	}
	got := make([]string, len(plan.Ops))
	for i, op := range plan.Ops {
		got[i] = op.String()
	}
	assert.Equal(t, want, got)
	assert.Equal(t, 8, plan.Temps())
}

func TestPhasesAreOrdered(t *testing.T) {
	l := newLowerer(t)
	field := existing("F", typesystem.Long)
	field.Location = &Location{Kind: Field, Receiver: ident("obj")}
	src := literal(expr("x", typesystem.Int), expr("y", typesystem.Int))

	plan, errs := l.Lower(Assignment, []*Target{field, existing("b", typesystem.Long)}, src, tok())
	require.Empty(t, errs)

	phase := func(k OpKind) int {
		switch k {
		case EvalSource, Project, Deconstruct, Convert:
			return 0
		case EvalLocation:
			return 1
		}
		return 2
	}
	for i := 1; i < len(plan.Ops); i++ {
		assert.LessOrEqual(t, phase(plan.Ops[i-1].Kind), phase(plan.Ops[i].Kind), "op %d: %s", i, plan.Ops[i])
	}
}

func TestNoConversion(t *testing.T) {
	l := newLowerer(t)
	_, errs := l.Lower(Assignment, []*Target{existing("a", typesystem.String), existing("b", typesystem.Int)}, expr("e", typesystem.MustTuple(ints(2))), tok())
	require.Len(t, errs, 1)
	assert.Equal(t, diagnostics.ErrT002, errs[0].Code)
	assert.Equal(t, "cannot convert int to string", errs[0].Message())
}

func TestNestedLiteralIsLeftToRight(t *testing.T) {
	l := newLowerer(t)
	targets := []*Target{
		nested(existing("a", typesystem.Int), existing("b", typesystem.Int)),
		existing("c", typesystem.Int),
	}
	src := literal(literal(expr("x", typesystem.Int), expr("y", typesystem.Int)), expr("z", typesystem.Int))

	plan, errs := l.Lower(Assignment, targets, src, tok())
	require.Empty(t, errs)
	assert.Equal(t, "t0 = eval x\nt1 = eval y\nt2 = eval z\na = t0\nb = t1\nc = t2\n", plan.String())
}

func TestNestedTypedSource(t *testing.T) {
	l := newLowerer(t)
	inner := typesystem.MustTuple(ints(2))
	src := expr("e", typesystem.MustTuple([]typesystem.Type{inner, typesystem.Int}))
	targets := []*Target{nested(fresh("a", nil), fresh("b", nil)), fresh("c", nil)}

	plan, errs := l.Lower(Declaration, targets, src, tok())
	require.Empty(t, errs)
	assert.Equal(t, "t0 = eval e\nt1 = t0.Item1\nt2 = t0.Item2\nt3 = t1.Item1\nt4 = t1.Item2\nint a = t3\nint b = t4\nint c = t2\n", plan.String())
}

func TestNestedArityMismatch(t *testing.T) {
	l := newLowerer(t)
	src := expr("e", typesystem.MustTuple([]typesystem.Type{typesystem.MustTuple(ints(3)), typesystem.Int}))
	targets := []*Target{nested(fresh("a", nil), fresh("b", nil)), fresh("c", nil)}

	_, errs := l.Lower(Declaration, targets, src, tok())
	assert.Equal(t, []diagnostics.ErrorCode{diagnostics.ErrT003}, codes(errs))
}

func TestDiscardsTakeNoStore(t *testing.T) {
	l := newLowerer(t)
	targets := []*Target{{Kind: Discard, Token: tok()}, fresh("b", nil)}

	plan, errs := l.Lower(Declaration, targets, expr("e", typesystem.MustTuple(ints(2))), tok())
	require.Empty(t, errs)
	require.Len(t, plan.Leaves, 1)
	assert.Equal(t, "b", plan.Leaves[0].Target.Name)
}

func TestDeconstructorDispatch(t *testing.T) {
	l := newLowerer(t)
	x, y := fresh("x", nil), fresh("y", nil)

	plan, errs := l.Lower(Declaration, []*Target{x, y}, expr("p", point), tok())
	require.Empty(t, errs)
	assert.Equal(t, "t0 = eval p\nt1, t2 = t0.Point.Deconstruct(out int x, out int y)\nint x = t1\nint y = t2\n", plan.String())
	require.Equal(t, Deconstruct, plan.Ops[1].Kind)
	assert.Equal(t, []string{"x", "y"}, plan.Ops[1].Contract.Names)
}

func TestDeconstructorLabels(t *testing.T) {
	l := newLowerer(t)
	targets := []*Target{labeled("x", fresh("a", nil)), labeled("z", fresh("b", nil))}

	_, errs := l.Lower(Declaration, targets, expr("p", point), tok())
	require.Len(t, errs, 1)
	assert.Equal(t, "element name mismatch: target named 'z' but element 2 is 'y'", errs[0].Message())
}

func TestDeconstructorFailures(t *testing.T) {
	tests := []struct {
		name    string
		src     *Source
		arity   int
		code    diagnostics.ErrorCode
		message string
	}{
		{"not found", expr("p", point), 3, diagnostics.ErrT005, "no deconstructor for Point with 3 outputs"},
		{"ambiguous", expr("t", twice), 2, diagnostics.ErrT006, ""},
		{"conditional outside patterns", expr("s", shape), 2, diagnostics.ErrT005, "no deconstructor for Shape with 2 outputs"},
		{"null", &Source{Expr: &ast.NullLiteral{}, Operand: conversions.Operand{IsNull: true}}, 2, diagnostics.ErrT005, "no deconstructor for <null> with 2 outputs"},
		{"type variable", expr("g", typesystem.TVar{Name: "T"}), 2, diagnostics.ErrT011, "cannot infer the type of 'T'"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := newLowerer(t)
			targets := make([]*Target, tt.arity)
			for i := range targets {
				targets[i] = fresh(fmt.Sprintf("v%d", i), nil)
			}
			plan, errs := l.Lower(Declaration, targets, tt.src, tok())
			assert.Nil(t, plan)
			require.Len(t, errs, 1)
			assert.Equal(t, tt.code, errs[0].Code)
			if tt.message != "" {
				assert.Equal(t, tt.message, errs[0].Message())
			}
		})
	}
}

func TestFormMixing(t *testing.T) {
	l := newLowerer(t)
	src := func() *Source { return expr("e", typesystem.MustTuple(ints(2))) }

	_, errs := l.Lower(Assignment, []*Target{existing("a", typesystem.Int), fresh("b", nil)}, src(), tok())
	assert.Equal(t, []diagnostics.ErrorCode{diagnostics.ErrT009}, codes(errs))

	_, errs = l.Lower(Declaration, []*Target{fresh("a", nil), existing("b", typesystem.Int)}, src(), tok())
	assert.Equal(t, []diagnostics.ErrorCode{diagnostics.ErrT009}, codes(errs))

	_, errs = l.Lower(Declaration, []*Target{nested(fresh("a", nil), existing("b", typesystem.Int)), fresh("c", nil)}, expr("e", typesystem.MustTuple([]typesystem.Type{typesystem.MustTuple(ints(2)), typesystem.Int})), tok())
	assert.Equal(t, []diagnostics.ErrorCode{diagnostics.ErrT009}, codes(errs))

	readOnly := existing("R", typesystem.Int)
	readOnly.Location = &Location{Kind: Property, Receiver: ident("o"), ReadOnly: true}
	_, errs = l.Lower(Assignment, []*Target{readOnly, existing("b", typesystem.Int)}, src(), tok())
	require.Len(t, errs, 1)
	assert.Equal(t, "invalid deconstruction target: 'R' is read-only", errs[0].Message())

	_, errs = l.Lower(Pattern, nil, src(), tok())
	assert.Equal(t, []diagnostics.ErrorCode{diagnostics.ErrT009}, codes(errs))
}

func TestWideTuple(t *testing.T) {
	l := newLowerer(t)
	types := ints(9)
	types[8] = typesystem.String
	targets := make([]*Target, 9)
	for i := range targets {
		targets[i] = fresh(fmt.Sprintf("v%d", i+1), nil)
	}

	plan, errs := l.Lower(Declaration, targets, expr("e", typesystem.MustTuple(types)), tok())
	require.Empty(t, errs)
	require.Len(t, plan.Leaves, 9)
	assert.Equal(t, typesystem.String, plan.Leaves[8].Type)
	assert.Equal(t, "t9 = t0.Item9", plan.Ops[9].String())
}

func TestLowerPattern(t *testing.T) {
	l := newLowerer(t)
	inner := typesystem.MustTuple(ints(2))
	src := expr("e", typesystem.MustTuple([]typesystem.Type{inner, typesystem.String}, "pos", "label"))

	outer, errs := l.LowerPattern(nil, src, []string{"pos", ""}, tok())
	require.Empty(t, errs)
	assert.Equal(t, Pattern, outer.Plan.Form)
	assert.Nil(t, outer.Contract)
	assert.Equal(t, []string{"pos", "label"}, outer.Names)

	sub, errs := l.LowerPattern(outer.Plan, outer.Elements[0], []string{"", ""}, tok())
	require.Empty(t, errs)
	assert.Same(t, outer.Plan, sub.Plan)
	assert.Equal(t, "t0 = eval e\nt1 = t0.Item1\nt2 = t0.Item2\nt3 = t1.Item1\nt4 = t1.Item2\n", outer.Plan.String())

	temp, ok := sub.Elements[1].Temp()
	assert.True(t, ok)
	assert.Equal(t, 4, temp)
}

func TestLowerPatternAllowsConditionalDeconstructor(t *testing.T) {
	l := newLowerer(t)
	s, errs := l.LowerPattern(nil, expr("s", shape), []string{"", ""}, tok())
	require.Empty(t, errs)
	assert.True(t, s.Conditional())
	assert.Equal(t, []typesystem.Type{typesystem.Double, typesystem.Double}, []typesystem.Type{s.Elements[0].Type, s.Elements[1].Type})

	_, errs = l.LowerPattern(nil, expr("p", point), []string{"", "", ""}, tok())
	assert.Equal(t, []diagnostics.ErrorCode{diagnostics.ErrT005}, codes(errs))
}

func TestLowerPatternOverLiteral(t *testing.T) {
	l := newLowerer(t)
	src := literal(expr("x", typesystem.Int), expr("y", typesystem.String))

	s, errs := l.LowerPattern(nil, src, []string{"", ""}, tok())
	require.Empty(t, errs)
	assert.Equal(t, "t0 = eval x\nt1 = eval y\n", s.Plan.String())
}
