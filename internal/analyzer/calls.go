package analyzer

import (
	"github.com/gb714us/csharplang/internal/ast"
	"github.com/gb714us/csharplang/internal/config"
	"github.com/gb714us/csharplang/internal/diagnostics"
	"github.com/gb714us/csharplang/internal/scope"
	"github.com/gb714us/csharplang/internal/symbols"
	"github.com/gb714us/csharplang/internal/token"
	"github.com/gb714us/csharplang/internal/typesystem"
)

// candidate is a method a call may bind to, with the substitution its
// receiver already fixes (for generic extension methods).
type candidate struct {
	method *symbols.Method
	subst  typesystem.Subst
}

// outDecl is an out variable declared in an argument list. Its type is
// known once the call is bound.
type outDecl struct {
	binding  *scope.Binding
	declared typesystem.Type // nil for 'out var'
}

func (w *walker) inferCall(call *ast.CallExpression) typesystem.Type {
	name, cands := w.callCandidates(call.Function)
	if cands == nil {
		w.arguments(call.Arguments)
		return nil
	}
	m, subst := w.bind(name, call.Token, cands, call.Arguments)
	if m == nil {
		return nil
	}
	w.Calls[call] = m
	return m.ResultOrVoid().Apply(subst)
}

// callCandidates finds the methods a call's function expression names: a
// free function or a member of the enclosing class for a bare name, and
// static, instance or extension methods for a member access.
func (w *walker) callCandidates(fn ast.Expression) (string, []candidate) {
	switch fn := fn.(type) {
	case *ast.Identifier:
		if overloads, ok := w.symbolTable.FindFunction(fn.Value); ok {
			return fn.Value, plain(overloads)
		}
		if w.class != nil {
			var methods []*symbols.Method
			for _, group := range w.symbolTable.MethodsNamed(w.class.Name, fn.Value) {
				methods = append(methods, group...)
			}
			methods = append(methods, w.symbolTable.StaticMethodsNamed(w.class.Name, fn.Value)...)
			if len(methods) > 0 {
				return fn.Value, plain(methods)
			}
		}
		w.addError(diagnostics.NewError(diagnostics.ErrT008, fn.Token, fn.Value))
		return fn.Value, nil

	case *ast.MemberExpression:
		w.push(fn)
		defer w.pop()
		name := fn.Member.Value
		if t, ok := w.isTypeName(fn.Left); ok {
			w.TypeMap[fn.Left] = t
			typeName := typesystem.ConstructorName(t)
			if methods := w.symbolTable.StaticMethodsNamed(typeName, name); len(methods) > 0 {
				return typeName + "." + name, plain(methods)
			}
			w.addError(diagnostics.NewError(diagnostics.ErrT013, fn.Member.Token, t, name))
			return name, nil
		}

		recvType := w.infer(fn.Left)
		if recvType == nil {
			return name, nil
		}
		var cands []candidate
		for _, group := range w.symbolTable.MethodsNamed(typesystem.ConstructorName(recvType), name) {
			cands = append(cands, plain(group)...)
		}
		for _, m := range w.symbolTable.ExtensionMethods(name) {
			recv, _ := m.Receiver()
			if s, err := typesystem.Unify(recv.Type, recvType); err == nil {
				cands = append(cands, candidate{method: m, subst: s})
			} else if w.conversions.Classify(recvType, recv.Type).Exists() {
				cands = append(cands, candidate{method: m, subst: typesystem.Subst{}})
			}
		}
		if len(cands) == 0 {
			w.addError(diagnostics.NewError(diagnostics.ErrT013, fn.Member.Token, recvType, name))
			return name, nil
		}
		return name, cands
	}

	w.infer(fn)
	w.addError(diagnostics.NewError(diagnostics.ErrT013, fn.GetToken(), "expression", "Invoke"))
	return "", nil
}

func plain(methods []*symbols.Method) []candidate {
	out := make([]candidate, len(methods))
	for i, m := range methods {
		out[i] = candidate{method: m, subst: typesystem.Subst{}}
	}
	return out
}

// construct checks the arguments of new T(...) or a constructor
// initializer against the constructors of typeName and returns the one
// they bind to. A type that declares none has only the parameterless
// constructor, for which it returns nil.
func (w *walker) construct(typeName string, tok token.Token, args []*ast.Argument) *symbols.Method {
	ctors := w.symbolTable.StaticMethodsNamed(typeName, config.ConstructorMethodName)
	if len(ctors) == 0 {
		w.arguments(args)
		if len(args) > 0 {
			w.addError(diagnostics.NewError(diagnostics.ErrT014, tok, typeName, 0, len(args)))
		}
		return nil
	}
	m, _ := w.bind(typeName, tok, plain(ctors), args)
	return m
}

// arguments analyzes an argument list in order. Out variables are attached
// as they are met, so later arguments can use them; their types are filled
// in by bind.
func (w *walker) arguments(args []*ast.Argument) map[int]*outDecl {
	decls := make(map[int]*outDecl)
	for i, arg := range args {
		w.push(arg)
		if arg.IsOut {
			if d := w.outArgument(arg); d != nil {
				decls[i] = d
			}
		} else {
			w.infer(arg.Value)
		}
		w.pop()
	}
	return decls
}

func (w *walker) outArgument(arg *ast.Argument) *outDecl {
	switch v := arg.Value.(type) {
	case *ast.DeclarationExpression:
		single, ok := v.Designation.(*ast.SingleDesignation)
		if !ok {
			if _, discard := v.Designation.(*ast.DiscardDesignation); !discard {
				w.addError(diagnostics.NewError(diagnostics.ErrT009, v.Token, "an out argument cannot be deconstructed"))
			}
			return nil
		}
		d := &outDecl{declared: w.BuildType(v.Type)}
		d.binding = scope.NewBinding(single.Name.Value, d.declared, scope.OutVar, single)
		if !w.attach(d.binding, w.pathTo(v)) {
			return nil
		}
		return d
	case *ast.DiscardExpression:
		return nil
	case *ast.Identifier, *ast.MemberExpression, *ast.IndexExpression:
		w.infer(v)
		return nil
	}
	w.infer(arg.Value)
	return nil
}

// bind picks the overload of name that the arguments apply to and checks
// every argument against it. It returns the method and the substitution
// that instantiates its type parameters, or nil when no overload has the
// right number of parameters.
func (w *walker) bind(name string, tok token.Token, cands []candidate, args []*ast.Argument) (*symbols.Method, typesystem.Subst) {
	decls := w.arguments(args)

	var chosen *candidate
	var subst typesystem.Subst
	for i := range cands {
		c := &cands[i]
		if len(c.method.CallParams()) != len(args) {
			continue
		}
		s, ok := w.applicable(c, args)
		if chosen == nil || ok {
			chosen, subst = c, s
		}
		if ok {
			break
		}
	}
	if chosen == nil {
		w.addError(diagnostics.NewError(diagnostics.ErrT014, tok, name, len(cands[0].method.CallParams()), len(args)))
		return nil, nil
	}

	m := chosen.method
	for i, p := range m.CallParams() {
		arg := args[i]
		pt := p.Type.Apply(subst)
		switch {
		case arg.IsOut && !p.IsOut:
			w.addError(diagnostics.NewError(diagnostics.ErrA002, arg.Token, i+1, name, "is not an out parameter"))
		case !arg.IsOut && p.IsOut:
			w.addError(diagnostics.NewError(diagnostics.ErrA002, arg.Token, i+1, name, "must be passed with 'out'"))
		case p.IsOut:
			w.checkOut(arg, decls[i], pt)
		case len(pt.FreeTypeVariables()) == 0:
			w.convert(arg.Value, pt)
		}
	}
	return m, subst
}

// applicable reports whether every argument passes with the right mode and
// converts to its parameter, inferring method type parameters on the way.
func (w *walker) applicable(c *candidate, args []*ast.Argument) (typesystem.Subst, bool) {
	subst := c.subst
	for i, p := range c.method.CallParams() {
		arg := args[i]
		if arg.IsOut != p.IsOut {
			return subst, false
		}
		at := w.TypeMap[arg.Value]
		if p.IsOut || at == nil {
			continue
		}
		pt := p.Type.Apply(subst)
		if len(pt.FreeTypeVariables()) > 0 {
			s, err := typesystem.Unify(pt, at)
			if err != nil {
				return subst, false
			}
			subst = s.Compose(subst)
			continue
		}
		if !w.conversions.ClassifyOperand(w.operandOf(arg.Value), pt).Exists() {
			return subst, false
		}
	}
	return subst, true
}

// checkOut checks an out argument against its parameter type. Out
// arguments pass by reference, so the types must be identical.
func (w *walker) checkOut(arg *ast.Argument, d *outDecl, pt typesystem.Type) {
	if d != nil {
		if d.declared == nil {
			d.binding.Type = pt
			w.TypeMap[arg.Value] = pt
			return
		}
		w.TypeMap[arg.Value] = d.declared
		if !typesystem.Identical(d.declared, pt) {
			w.addError(diagnostics.NewError(diagnostics.ErrT002, arg.Value.GetToken(), pt, d.declared))
		}
		return
	}
	at := w.TypeMap[arg.Value]
	if at != nil && !typesystem.Identical(at, pt) {
		w.addError(diagnostics.NewError(diagnostics.ErrT002, arg.Value.GetToken(), pt, at))
	}
}
