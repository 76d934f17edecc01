package scope

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gb714us/csharplang/internal/ast"
	"github.com/gb714us/csharplang/internal/typesystem"
)

func ident(name string) *ast.Identifier { return &ast.Identifier{Value: name} }

func outVar(name string) (*ast.Argument, *ast.SingleDesignation) {
	d := &ast.SingleDesignation{Name: ident(name)}
	arg := &ast.Argument{IsOut: true, Value: &ast.DeclarationExpression{Type: &ast.VarType{}, Designation: d}}
	return arg, d
}

func use(name string) (*ast.ExpressionStatement, *ast.Identifier) {
	id := ident(name)
	return &ast.ExpressionStatement{Expression: id}, id
}

// ifFixture builds
//
//	{ if (TryGet(out var v)) { v; } else { v; <elseTail> } v; }
type ifFixture struct {
	block      *ast.BlockStatement
	ifStmt     *ast.IfStatement
	call       *ast.CallExpression
	arg        *ast.Argument
	decl       *ast.SingleDesignation
	thenBlock  *ast.BlockStatement
	thenUse    *ast.ExpressionStatement
	elseBlock  *ast.BlockStatement
	elseUse    *ast.ExpressionStatement
	afterUse   *ast.ExpressionStatement
	hasElse    bool
	elseEscape bool
}

func newIfFixture(hasElse, elseEscape bool) *ifFixture {
	f := &ifFixture{hasElse: hasElse, elseEscape: elseEscape}
	f.arg, f.decl = outVar("v")
	f.call = &ast.CallExpression{Function: ident("TryGet"), Arguments: []*ast.Argument{f.arg}}
	f.thenUse, _ = use("v")
	f.thenBlock = &ast.BlockStatement{Statements: []ast.Statement{f.thenUse}}
	f.ifStmt = &ast.IfStatement{Condition: f.call, Consequence: f.thenBlock}
	if hasElse {
		f.elseUse, _ = use("v")
		f.elseBlock = &ast.BlockStatement{Statements: []ast.Statement{f.elseUse}}
		if elseEscape {
			f.elseBlock.Statements = append(f.elseBlock.Statements, &ast.ReturnStatement{})
		}
		f.ifStmt.Alternative = f.elseBlock
	}
	f.afterUse, _ = use("v")
	f.block = &ast.BlockStatement{Statements: []ast.Statement{f.ifStmt, f.afterUse}}
	return f
}

func (f *ifFixture) declPath() []ast.Node {
	return []ast.Node{f.block, f.ifStmt, f.call, f.arg, f.arg.Value}
}

func (f *ifFixture) attach(t *testing.T, r *Resolver) *Binding {
	t.Helper()
	b := NewBinding("v", typesystem.Int, OutVar, f.decl)
	require.NoError(t, r.Attach(b, f.declPath()))
	return b
}

func TestIfConditionScope(t *testing.T) {
	tests := []struct {
		name       string
		hasElse    bool
		elseEscape bool
		wantAfter  bool
	}{
		{"no else", false, false, true},
		{"else falls through", true, false, false},
		{"else escapes", true, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newIfFixture(tt.hasElse, tt.elseEscape)
			r := NewResolver()
			b := f.attach(t, r)

			got, ok := r.Lookup("v", []ast.Node{f.block, f.ifStmt, f.thenBlock, f.thenUse})
			require.True(t, ok, "v is in scope in the then branch")
			assert.Equal(t, b.ID, got.ID)

			if tt.hasElse {
				_, ok = r.Lookup("v", []ast.Node{f.block, f.ifStmt, f.elseBlock, f.elseUse})
				assert.False(t, ok, "v is never in scope in the else branch")
			}

			_, ok = r.Lookup("v", []ast.Node{f.block, f.afterUse})
			assert.Equal(t, tt.wantAfter, ok)
		})
	}
}

func TestFieldInitializerIsolation(t *testing.T) {
	// class C { int a = F(out var x), b = x; }
	arg, decl := outVar("x")
	call := &ast.CallExpression{Function: ident("F"), Arguments: []*ast.Argument{arg}}
	first := &ast.Declarator{Name: ident("a"), Value: call}
	ref := ident("x")
	second := &ast.Declarator{Name: ident("b"), Value: ref}
	field := &ast.FieldDeclaration{Type: &ast.NamedType{Name: "int"}, Declarators: []*ast.Declarator{first, second}}
	class := &ast.ClassDeclaration{Name: ident("C"), Members: []ast.Member{field}}

	r := NewResolver()
	b := NewBinding("x", typesystem.Int, OutVar, decl)
	require.NoError(t, r.Attach(b, []ast.Node{class, field, first, call, arg, arg.Value}))
	assert.Same(t, first, b.Scope)

	_, ok := r.Lookup("x", []ast.Node{class, field, first, call})
	assert.True(t, ok, "visible within its own declarator")
	_, ok = r.Lookup("x", []ast.Node{class, field, second})
	assert.False(t, ok, "not visible to a sibling declarator")
}

func TestConstructorInitializerRejectsDeclarations(t *testing.T) {
	arg, decl := outVar("x")
	init := &ast.ConstructorInitializer{Arguments: []*ast.Argument{arg}}
	ctor := &ast.ConstructorDeclaration{Name: ident("C"), Initializer: init, Body: &ast.BlockStatement{}}

	r := NewResolver()
	err := r.Attach(NewBinding("x", typesystem.Int, OutVar, decl), []ast.Node{ctor, init, arg, arg.Value})
	var scopeErr *Error
	require.ErrorAs(t, err, &scopeErr)
	assert.Equal(t, IllegalPosition, scopeErr.Kind)
	assert.Empty(t, r.Bindings())
}

func TestRedeclaration(t *testing.T) {
	// { F(out var x); G(out var x); }
	arg1, d1 := outVar("x")
	s1 := &ast.ExpressionStatement{Expression: &ast.CallExpression{Function: ident("F"), Arguments: []*ast.Argument{arg1}}}
	arg2, d2 := outVar("x")
	s2 := &ast.ExpressionStatement{Expression: &ast.CallExpression{Function: ident("G"), Arguments: []*ast.Argument{arg2}}}
	block := &ast.BlockStatement{Statements: []ast.Statement{s1, s2}}

	r := NewResolver()
	first := NewBinding("x", typesystem.Int, OutVar, d1)
	require.NoError(t, r.Attach(first, []ast.Node{block, s1, s1.Expression, arg1, arg1.Value}))
	err := r.Attach(NewBinding("x", typesystem.Int, OutVar, d2), []ast.Node{block, s2, s2.Expression, arg2, arg2.Value})

	var scopeErr *Error
	require.ErrorAs(t, err, &scopeErr)
	assert.Equal(t, Redeclared, scopeErr.Kind)
	assert.Same(t, first, scopeErr.Previous)
}

func TestVisibleFromDeclaringStatementOn(t *testing.T) {
	// { x; F(out var x); x; }
	before, _ := use("x")
	arg, d := outVar("x")
	decl := &ast.ExpressionStatement{Expression: &ast.CallExpression{Function: ident("F"), Arguments: []*ast.Argument{arg}}}
	after, _ := use("x")
	block := &ast.BlockStatement{Statements: []ast.Statement{before, decl, after}}

	r := NewResolver()
	require.NoError(t, r.Attach(NewBinding("x", typesystem.Int, OutVar, d), []ast.Node{block, decl, decl.Expression, arg, arg.Value}))
	_, ok := r.Lookup("x", []ast.Node{block, before})
	assert.False(t, ok)
	_, ok = r.Lookup("x", []ast.Node{block, after})
	assert.True(t, ok)
}

func TestLoopConditionScope(t *testing.T) {
	// { while (Next(out var item)) { item; } item; }
	arg, d := outVar("item")
	call := &ast.CallExpression{Function: ident("Next"), Arguments: []*ast.Argument{arg}}
	inner, _ := use("item")
	body := &ast.BlockStatement{Statements: []ast.Statement{inner}}
	loop := &ast.WhileStatement{Condition: call, Body: body}
	after, _ := use("item")
	block := &ast.BlockStatement{Statements: []ast.Statement{loop, after}}

	r := NewResolver()
	require.NoError(t, r.Attach(NewBinding("item", typesystem.Int, OutVar, d), []ast.Node{block, loop, call, arg, arg.Value}))
	_, ok := r.Lookup("item", []ast.Node{block, loop, body, inner})
	assert.True(t, ok)
	_, ok = r.Lookup("item", []ast.Node{block, after})
	assert.False(t, ok)
}

func TestSwitchSectionScope(t *testing.T) {
	// switch (o) { case int n: n; break; default: n; break; }
	d := &ast.SingleDesignation{Name: ident("n")}
	pattern := &ast.DeclarationPattern{Type: &ast.NamedType{Name: "int"}, Designation: d}
	label := &ast.CaseLabel{Pattern: pattern}
	inSection, _ := use("n")
	section := &ast.SwitchSection{Labels: []*ast.CaseLabel{label}, Statements: []ast.Statement{inSection, &ast.BreakStatement{}}}
	otherUse, _ := use("n")
	other := &ast.SwitchSection{Labels: []*ast.CaseLabel{{}}, Statements: []ast.Statement{otherUse, &ast.BreakStatement{}}}
	sw := &ast.SwitchStatement{Value: ident("o"), Sections: []*ast.SwitchSection{section, other}}
	block := &ast.BlockStatement{Statements: []ast.Statement{sw}}

	r := NewResolver()
	b := NewBinding("n", typesystem.Int, Pattern, d)
	require.NoError(t, r.Attach(b, []ast.Node{block, sw, section, label, pattern}))
	assert.Same(t, section, b.Scope)
	_, ok := r.Lookup("n", []ast.Node{block, sw, section, inSection})
	assert.True(t, ok)
	_, ok = r.Lookup("n", []ast.Node{block, sw, other, otherUse})
	assert.False(t, ok)
}

func TestQueryClauseScope(t *testing.T) {
	// from x in xs where F(out var y) select y
	arg, d := outVar("y")
	from := &ast.QueryClause{Range: ident("x"), Value: ident("xs")}
	where := &ast.QueryClause{Value: &ast.CallExpression{Function: ident("F"), Arguments: []*ast.Argument{arg}}}
	sel := &ast.QueryClause{Value: ident("y")}
	query := &ast.QueryExpression{Clauses: []*ast.QueryClause{from, where, sel}}
	stmt := &ast.ExpressionStatement{Expression: query}
	block := &ast.BlockStatement{Statements: []ast.Statement{stmt}}

	r := NewResolver()
	require.NoError(t, r.Attach(NewBinding("x", typesystem.Int, Range, from), []ast.Node{block, stmt, query}))
	require.NoError(t, r.Attach(NewBinding("y", typesystem.Int, OutVar, d), []ast.Node{block, stmt, query, where, where.Value, arg, arg.Value}))

	_, ok := r.Lookup("x", []ast.Node{block, stmt, query, sel})
	assert.True(t, ok, "range variables span the query")
	_, ok = r.Lookup("y", []ast.Node{block, stmt, query, sel})
	assert.False(t, ok, "clause variables stay in their clause")
}

func TestInnermostBindingWins(t *testing.T) {
	// void M(int p) { { F(out var q); q; } }
	param := &ast.Parameter{Name: ident("p"), Type: &ast.NamedType{Name: "int"}}
	arg, d := outVar("q")
	call := &ast.ExpressionStatement{Expression: &ast.CallExpression{Function: ident("F"), Arguments: []*ast.Argument{arg}}}
	useQ, _ := use("q")
	inner := &ast.BlockStatement{Statements: []ast.Statement{call, useQ}}
	body := &ast.BlockStatement{Statements: []ast.Statement{inner}}
	method := &ast.MethodDeclaration{Name: ident("M"), Parameters: []*ast.Parameter{param}, Body: body}

	r := NewResolver()
	p := NewBinding("p", typesystem.Int, Parameter, param)
	require.NoError(t, r.Attach(p, []ast.Node{method}))
	assert.Same(t, method, p.Scope)

	require.NoError(t, r.Attach(NewBinding("q", typesystem.Long, OutVar, d), []ast.Node{method, body, inner, call, call.Expression, arg, arg.Value}))
	got, ok := r.Lookup("q", []ast.Node{method, body, inner, useQ})
	require.True(t, ok)
	assert.Equal(t, typesystem.Long, got.Type)
	assert.True(t, r.IsVisible(p, []ast.Node{method, body, inner, useQ}))

	err := r.Attach(NewBinding("p", typesystem.Int, OutVar, d), []ast.Node{method, body, inner, call, call.Expression, arg, arg.Value})
	assert.Error(t, err, "a local may not shadow a parameter")
}

func TestBindingIdentity(t *testing.T) {
	a := NewBinding("a", typesystem.Int, Local, nil)
	b := NewBinding("a", typesystem.Int, Local, nil)
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, "local a: int", a.String())
}
