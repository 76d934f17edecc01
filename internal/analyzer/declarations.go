package analyzer

import (
	"github.com/pkg/errors"

	"github.com/gb714us/csharplang/internal/ast"
	"github.com/gb714us/csharplang/internal/config"
	"github.com/gb714us/csharplang/internal/diagnostics"
	"github.com/gb714us/csharplang/internal/scope"
	"github.com/gb714us/csharplang/internal/symbols"
	"github.com/gb714us/csharplang/internal/typesystem"
)

const sourceOrigin = "source"

func (w *walker) VisitProgram(program *ast.Program) {
	switch w.mode {
	case ModeHeaders:
		// All class names first, so members can refer to any of them.
		for _, c := range program.Classes {
			w.declareClass(c)
		}
		for _, c := range program.Classes {
			c.Accept(w)
		}
	case ModeBodies:
		w.push(program)
		for _, c := range program.Classes {
			c.Accept(w)
		}
		for _, stmt := range program.Statements {
			stmt.Accept(w)
		}
		w.pop()
	}
}

func (w *walker) declareClass(c *ast.ClassDeclaration) {
	origin := w.currentFile
	if origin == "" {
		origin = sourceOrigin
	}
	info := &symbols.TypeInfo{Name: c.Name.Value}
	if err := w.symbolTable.DefineType(info, origin); err != nil {
		w.addError(diagnostics.NewError(diagnostics.ErrA001, c.Name.Token, c.Name.Value))
		return
	}
	w.classes[c] = info
}

func (w *walker) VisitClassDeclaration(c *ast.ClassDeclaration) {
	info, ok := w.classes[c]
	if !ok {
		return
	}
	w.class = info
	w.push(c)
	for _, m := range c.Members {
		m.Accept(w)
	}
	w.pop()
	w.class = nil
}

func (w *walker) VisitFieldDeclaration(fd *ast.FieldDeclaration) {
	if w.mode == ModeHeaders {
		t := w.BuildType(fd.Type)
		for _, d := range fd.Declarators {
			if t == nil && ast.IsVar(fd.Type) {
				w.addError(diagnostics.NewError(diagnostics.ErrT011, d.Token, d.Name.Value))
			}
			if _, dup := w.class.Fields[d.Name.Value]; dup {
				w.addError(diagnostics.NewError(diagnostics.ErrA001, d.Token, d.Name.Value))
				continue
			}
			_ = w.symbolTable.DefineField(w.class.Name, symbols.Field{Name: d.Name.Value, Type: t})
		}
		return
	}

	w.inStatic = fd.IsStatic
	w.push(fd)
	for _, d := range fd.Declarators {
		if d.Value == nil {
			continue
		}
		w.push(d)
		w.infer(d.Value)
		w.convert(d.Value, w.class.Fields[d.Name.Value].Type)
		w.pop()
	}
	w.pop()
	w.inStatic = false
}

func (w *walker) VisitMethodDeclaration(md *ast.MethodDeclaration) {
	if w.mode == ModeHeaders {
		m := &symbols.Method{
			Name:     md.Name.Value,
			Owner:    w.class.Name,
			Params:   w.parameters(md.Parameters),
			Result:   w.BuildType(md.Result),
			IsStatic: md.IsStatic,
		}
		if md.Result != nil && m.Result == nil {
			m.Result = typesystem.TCon{Name: md.Result.String()}
		}
		if err := w.symbolTable.DefineMethod(m); err == nil {
			w.members[md] = m
		}
		return
	}

	m, ok := w.members[md]
	if !ok {
		return
	}
	w.enterMember(md, m.Params, md.Parameters, m.ResultOrVoid(), md.IsStatic)
	md.Body.Accept(w)
	w.leaveMember()
}

func (w *walker) VisitConstructorDeclaration(cd *ast.ConstructorDeclaration) {
	if w.mode == ModeHeaders {
		m := &symbols.Method{
			Name:     config.ConstructorMethodName,
			Owner:    w.class.Name,
			Params:   w.parameters(cd.Parameters),
			Result:   w.classType(),
			IsStatic: true,
		}
		if err := w.symbolTable.DefineMethod(m); err == nil {
			w.members[cd] = m
		}
		return
	}

	m, ok := w.members[cd]
	if !ok {
		return
	}
	w.enterMember(cd, m.Params, cd.Parameters, typesystem.Void, false)
	if cd.Initializer != nil {
		cd.Initializer.Accept(w)
	}
	cd.Body.Accept(w)
	w.leaveMember()
}

// VisitConstructorInitializer checks the arguments of this(...) or
// base(...) against the constructors of the chained type.
func (w *walker) VisitConstructorInitializer(ci *ast.ConstructorInitializer) {
	owner := w.class.Name
	if ci.IsBase() {
		owner = w.class.Base
		if owner == "" {
			owner = config.ObjectTypeName
		}
	}
	w.push(ci)
	w.construct(owner, ci.Token, ci.Arguments)
	w.pop()
}

func (w *walker) enterMember(n ast.Node, sig []symbols.Parameter, params []*ast.Parameter, result typesystem.Type, static bool) {
	w.push(n)
	w.inStatic = static
	w.result = result
	for i, p := range params {
		w.attach(scope.NewBinding(p.Name.Value, sig[i].Type, scope.Parameter, p), w.path)
	}
}

func (w *walker) leaveMember() {
	w.result = nil
	w.inStatic = false
	w.pop()
}

// parameters builds the signature of a parameter list. An unresolvable
// parameter type has already been reported; it keeps its spelling so the
// signature stays printable.
func (w *walker) parameters(params []*ast.Parameter) []symbols.Parameter {
	out := make([]symbols.Parameter, len(params))
	for i, p := range params {
		t := w.BuildType(p.Type)
		if t == nil {
			t = typesystem.TCon{Name: p.Type.String()}
		}
		out[i] = symbols.Parameter{Name: p.Name.Value, Type: t, IsOut: p.IsOut}
	}
	return out
}

// attach records a binding under path and reports why it cannot be.
func (w *walker) attach(b *scope.Binding, path []ast.Node) bool {
	err := w.Resolver.Attach(b, path)
	if err == nil {
		return true
	}
	var serr *scope.Error
	if !errors.As(err, &serr) {
		return false
	}
	tok := b.Node.GetToken()
	switch serr.Kind {
	case scope.IllegalPosition:
		w.addError(diagnostics.NewError(diagnostics.ErrT007, tok, b.Kind.String()+" '"+b.Name+"'"))
	case scope.Redeclared:
		w.addError(diagnostics.NewError(diagnostics.ErrT010, tok, b.Name))
	}
	return false
}

// Declarations, parameters and initializers are visited through their
// owners.
func (w *walker) VisitDeclarator(*ast.Declarator) {}
func (w *walker) VisitParameter(*ast.Parameter)   {}
