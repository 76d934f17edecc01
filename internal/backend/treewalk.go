package backend

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/gb714us/csharplang/internal/ast"
	"github.com/gb714us/csharplang/internal/conversions"
	"github.com/gb714us/csharplang/internal/evaluator"
	"github.com/gb714us/csharplang/internal/pipeline"
	"github.com/gb714us/csharplang/internal/scope"
	"github.com/gb714us/csharplang/internal/typesystem"
)

// TreeWalkBackend runs top-level statements directly over the AST, using
// the plans and conversions recorded by the analyzer. It covers local
// declarations, assignments, deconstructions, object creation, calls to
// host functions, blocks and foreach loops; other statements are reported
// as unsupported.
type TreeWalkBackend struct {
	Evaluator *evaluator.Evaluator
}

// NewTreeWalk creates a new tree-walk backend. A nil evaluator gets a
// fresh one with no host functions.
func NewTreeWalk(eval *evaluator.Evaluator) *TreeWalkBackend {
	if eval == nil {
		eval = evaluator.New()
	}
	return &TreeWalkBackend{Evaluator: eval}
}

// Name returns the backend name
func (b *TreeWalkBackend) Name() string {
	return "tree-walk"
}

// Run executes the program using tree-walk interpretation
func (b *TreeWalkBackend) Run(ctx *pipeline.PipelineContext) (*evaluator.Environment, error) {
	if ctx.AstRoot == nil {
		return nil, errors.New("no AST to execute")
	}
	if len(ctx.Errors) > 0 {
		return nil, ctx.Errors[0]
	}

	b.Evaluator.Types = ctx.TypeMap
	b.Evaluator.Conversions = ctx.Conversions
	b.Evaluator.Calls = ctx.Calls
	b.Evaluator.Symbols = ctx.Symbols

	r := &run{
		ctx:         ctx,
		eval:        b.Evaluator,
		conversions: conversions.New(ctx.Symbols),
		bindings:    make(map[ast.Node]*scope.Binding, len(ctx.Bindings)),
	}
	for _, binding := range ctx.Bindings {
		r.bindings[binding.Node] = binding
	}

	env := evaluator.NewEnvironment()
	for _, stmt := range ctx.AstRoot.Statements {
		if err := r.exec(stmt, env); err != nil {
			return env, err
		}
	}
	return env, nil
}

type run struct {
	ctx         *pipeline.PipelineContext
	eval        *evaluator.Evaluator
	conversions *conversions.Classifier
	bindings    map[ast.Node]*scope.Binding
}

func (r *run) exec(stmt ast.Statement, env *evaluator.Environment) error {
	if c := r.eval.Context; c != nil {
		if err := c.Err(); err != nil {
			return err
		}
	}

	switch stmt := stmt.(type) {
	case *ast.BlockStatement:
		inner := evaluator.NewEnclosedEnvironment(env)
		for _, s := range stmt.Statements {
			if err := r.exec(s, inner); err != nil {
				return err
			}
		}
		return nil

	case *ast.LocalDeclaration:
		for _, d := range stmt.Declarators {
			t := r.typeOf(d)
			var val evaluator.Object = evaluator.NULL
			if d.Value != nil {
				v, err := r.value(d.Value, t, env)
				if err != nil {
					return err
				}
				val = v
			}
			if err := env.Declare(d.Name.Value, t, val); err != nil {
				return err
			}
		}
		return nil

	case *ast.ExpressionStatement:
		return r.expression(stmt.Expression, env)

	case *ast.ForEachStatement:
		return r.forEach(stmt, env)
	}
	return errorAt(stmt, "'%s' statements are not supported", stmt.TokenLiteral())
}

func (r *run) expression(expr ast.Expression, env *evaluator.Environment) error {
	if plan, ok := r.ctx.Plans[expr]; ok {
		_, err := r.eval.Exec(plan, env)
		return err
	}
	if assign, ok := expr.(*ast.AssignmentExpression); ok {
		ident, ok := assign.Left.(*ast.Identifier)
		if !ok {
			return errorAt(assign, "assignment to %s is not supported", assign.Left.TokenLiteral())
		}
		val, err := r.value(assign.Value, r.ctx.TypeMap[assign.Left], env)
		if err != nil {
			return err
		}
		if !env.Update(ident.Value, val) {
			return errorAt(ident, "undefined variable '%s'", ident.Value)
		}
		return nil
	}
	if val := r.eval.Eval(expr, env); isError(val) {
		return val.(*evaluator.Error)
	}
	return nil
}

// forEach runs the body once per element, each time in a fresh scope that
// holds the iteration variables.
func (r *run) forEach(stmt *ast.ForEachStatement, env *evaluator.Environment) error {
	coll := r.eval.Eval(stmt.Collection, env)
	if isError(coll) {
		return coll.(*evaluator.Error)
	}
	arr, ok := coll.(*evaluator.Array)
	if !ok {
		return errorAt(stmt.Collection, "cannot iterate over %s", coll.Inspect())
	}

	elemType, _ := typesystem.ElementTypeOf(r.ctx.TypeMap[stmt.Collection])
	plan := r.ctx.Plans[stmt]
	for _, el := range arr.Elements {
		inner := evaluator.NewEnclosedEnvironment(env)
		if plan != nil {
			if _, err := r.eval.ExecInput(plan, inner, el); err != nil {
				return err
			}
		} else if err := r.declareLoopVariable(stmt.Variable, el, elemType, inner); err != nil {
			return err
		}
		if err := r.exec(stmt.Body, inner); err != nil {
			return err
		}
	}
	return nil
}

func (r *run) declareLoopVariable(v ast.Expression, el evaluator.Object, elemType typesystem.Type, env *evaluator.Environment) error {
	decl, ok := v.(*ast.DeclarationExpression)
	if !ok {
		return errorAt(v, "unsupported loop variable")
	}
	single, ok := decl.Designation.(*ast.SingleDesignation)
	if !ok {
		// A discard iteration variable binds nothing.
		return nil
	}
	t := r.typeOf(single)
	if conv := r.conversions.Classify(elemType, t); conv.Exists() && !conv.IsNoOp() {
		converted, err := evaluator.Convert(el, conv, t)
		if err != nil {
			return err
		}
		el = converted
	}
	return env.Declare(single.Name.Value, t, el)
}

// value evaluates expr and applies the conversion the analyzer recorded
// for it.
func (r *run) value(expr ast.Expression, target typesystem.Type, env *evaluator.Environment) (evaluator.Object, error) {
	val := r.eval.Eval(expr, env)
	if isError(val) {
		return nil, val.(*evaluator.Error)
	}
	conv, ok := r.ctx.Conversions[expr]
	if !ok || conv.IsNoOp() || target == nil {
		return val, nil
	}
	return evaluator.Convert(val, conv, target)
}

func (r *run) typeOf(n ast.Node) typesystem.Type {
	if b, ok := r.bindings[n]; ok {
		return b.Type
	}
	return nil
}

func isError(obj evaluator.Object) bool {
	return obj != nil && obj.Type() == evaluator.ERROR_OBJ
}

func errorAt(n ast.Node, format string, a ...interface{}) *evaluator.Error {
	tok := n.GetToken()
	return &evaluator.Error{Message: fmt.Sprintf(format, a...), Line: tok.Line, Column: tok.Column}
}
