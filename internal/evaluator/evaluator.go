package evaluator

import (
	"context"

	"github.com/gb714us/csharplang/internal/ast"
	"github.com/gb714us/csharplang/internal/conversions"
	"github.com/gb714us/csharplang/internal/symbols"
	"github.com/gb714us/csharplang/internal/typesystem"
)

// Function is a host function callable from expressions.
type Function func(args []Object) Object

// DeconstructFunc implements a deconstructor. ok is false when a
// conditional deconstructor declines to match.
type DeconstructFunc func(recv Object) (outputs []Object, ok bool)

type Evaluator struct {
	// Context for cancellation, checked between plan ops.
	Context context.Context
	// Functions callable from call expressions, by the signature of the
	// method a call binds to or by name.
	Functions map[string]Function
	// Deconstructors by method signature, as rendered by
	// symbols.Method.Signature. A deconstructor without an entry reads the
	// receiver's fields named after its outputs.
	Deconstructors map[string]DeconstructFunc
	// Trace records every read, call and store in execution order.
	Trace []Event

	// Analysis results of the program being run. Element names are erased
	// at runtime, so named tuple members are resolved through Types.
	Types       map[ast.Expression]typesystem.Type
	Conversions map[ast.Expression]conversions.Conversion
	Calls       map[ast.Expression]*symbols.Method
	// Symbols describes the declared types. Object creation reads their
	// fields from it.
	Symbols *symbols.SymbolTable
}

func New() *Evaluator {
	return &Evaluator{
		Context:        context.Background(),
		Functions:      make(map[string]Function),
		Deconstructors: make(map[string]DeconstructFunc),
	}
}

// Eval evaluates an expression. Failures are returned as *Error objects.
func (e *Evaluator) Eval(node ast.Expression, env *Environment) Object {
	switch node := node.(type) {
	case *ast.Identifier:
		val, ok := env.Get(node.Value)
		if !ok {
			return newErrorAt(node, "undefined variable '%s'", node.Value)
		}
		e.record(EventRead, node.Value, val)
		return val
	case *ast.IntegerLiteral:
		return &Integer{Value: node.Value}
	case *ast.StringLiteral:
		return &String{Value: node.Value}
	case *ast.BooleanLiteral:
		if node.Value {
			return TRUE
		}
		return FALSE
	case *ast.NullLiteral:
		return NULL
	case *ast.TupleLiteral:
		elems := make([]Object, len(node.Elements))
		for i, el := range node.Elements {
			elems[i] = e.Eval(el.Value, env)
			if isError(elems[i]) {
				return elems[i]
			}
		}
		return NewTuple(elems)
	case *ast.MemberExpression:
		left := e.Eval(node.Left, env)
		if isError(left) {
			return left
		}
		return e.member(node, left)
	case *ast.IndexExpression:
		left := e.Eval(node.Left, env)
		if isError(left) {
			return left
		}
		idx := e.Eval(node.Index, env)
		if isError(idx) {
			return idx
		}
		return index(node, left, idx)
	case *ast.CallExpression:
		return e.call(node, env)
	case *ast.NewExpression:
		return e.construct(node, env)
	}
	return newErrorAt(node, "cannot evaluate %T", node)
}

func (e *Evaluator) member(node *ast.MemberExpression, left Object) Object {
	name := node.Member.Value
	switch left := left.(type) {
	case *Tuple:
		if k, ok := e.position(node.Left, name); ok {
			if v, ok := left.Item(k); ok {
				return v
			}
		}
	case *Instance:
		if v, ok := left.Fields[name]; ok {
			return v
		}
	}
	return newErrorAt(node, "%s has no member '%s'", left.Inspect(), name)
}

// position resolves a tuple element name to its flat position. Explicit
// names need the static type of the tuple expression; Item1..ItemN resolve
// without it.
func (e *Evaluator) position(tuple ast.Expression, name string) (int, bool) {
	if tt, ok := typesystem.AsTuple(e.Types[tuple]); ok {
		return tt.Lookup(name)
	}
	return typesystem.ItemIndex(name)
}

func index(node ast.Node, left, idx Object) Object {
	arr, ok := left.(*Array)
	if !ok {
		return newErrorAt(node, "cannot index %s", left.Inspect())
	}
	i, ok := idx.(*Integer)
	if !ok {
		return newErrorAt(node, "index must be an integer, got %s", idx.Inspect())
	}
	if i.Value < 0 || i.Value >= int64(len(arr.Elements)) {
		return newErrorAt(node, "index %d out of range [0, %d)", i.Value, len(arr.Elements))
	}
	return arr.Elements[i.Value]
}

func (e *Evaluator) call(node *ast.CallExpression, env *Environment) Object {
	ident, ok := node.Function.(*ast.Identifier)
	if !ok {
		return newErrorAt(node, "cannot call %T", node.Function)
	}
	fn, ok := e.function(node, ident.Value)
	if !ok {
		return newErrorAt(node, "undefined function '%s'", ident.Value)
	}
	args, errObj := e.arguments(e.Calls[node], node.Arguments, env)
	if errObj != nil {
		return errObj
	}
	result := fn(args)
	if err, ok := result.(*Error); ok && err.Line == 0 {
		tok := node.GetToken()
		err.Line, err.Column = tok.Line, tok.Column
	}
	e.record(EventCall, ident.Value, result)
	return result
}

// function finds the host implementation of a call: by the signature of
// the method it binds to, then by name.
func (e *Evaluator) function(node *ast.CallExpression, name string) (Function, bool) {
	if m := e.Calls[node]; m != nil {
		if fn, ok := e.Functions[m.Signature()]; ok {
			return fn, true
		}
	}
	fn, ok := e.Functions[name]
	return fn, ok
}

// arguments evaluates an argument list left to right and applies the
// conversion recorded for each argument to its parameter type.
func (e *Evaluator) arguments(m *symbols.Method, args []*ast.Argument, env *Environment) ([]Object, *Error) {
	var params []symbols.Parameter
	if m != nil {
		params = m.CallParams()
	}
	out := make([]Object, len(args))
	for i, arg := range args {
		if arg.IsOut {
			return nil, newErrorAt(arg.Value, "out arguments cannot be run")
		}
		val := e.Eval(arg.Value, env)
		if isError(val) {
			return nil, val.(*Error)
		}
		if conv, ok := e.Conversions[arg.Value]; ok && !conv.IsNoOp() && i < len(params) {
			converted, err := Convert(val, conv, params[i].Type)
			if err != nil {
				msg := err.Error()
				if rerr, ok := err.(*Error); ok {
					msg = rerr.Message
				}
				return nil, newErrorAt(arg.Value, "%s", msg)
			}
			val = converted
		}
		out[i] = val
	}
	return out, nil
}

// construct creates an instance of a declared type. Fields start at their
// default values and each constructor argument initializes the field named
// after its parameter. Constructor bodies are not run.
func (e *Evaluator) construct(node *ast.NewExpression, env *Environment) Object {
	t := e.Types[node]
	if t == nil {
		return newErrorAt(node, "cannot create %s", node.Type.String())
	}
	ctor := e.Calls[node]
	args, errObj := e.arguments(ctor, node.Arguments, env)
	if errObj != nil {
		return errObj
	}
	inst := NewInstanceOf(t, e.Symbols)
	if ctor != nil {
		for i, p := range ctor.CallParams() {
			if name, ok := fieldName(inst, p.Name); ok {
				inst.Fields[name] = args[i]
			}
		}
	}
	return inst
}

func newErrorAt(node ast.Node, format string, a ...interface{}) *Error {
	err := newError(format, a...)
	if node != nil {
		tok := node.GetToken()
		err.Line, err.Column = tok.Line, tok.Column
	}
	return err
}

func typeName(t typesystem.Type) string {
	if t == nil {
		return "?"
	}
	return t.String()
}
