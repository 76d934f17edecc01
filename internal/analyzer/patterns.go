package analyzer

import (
	"github.com/gb714us/csharplang/internal/ast"
	"github.com/gb714us/csharplang/internal/deconstruct"
	"github.com/gb714us/csharplang/internal/diagnostics"
	"github.com/gb714us/csharplang/internal/scope"
	"github.com/gb714us/csharplang/internal/token"
	"github.com/gb714us/csharplang/internal/typesystem"
)

// matchPattern analyzes pattern p matched against the value src. Nested
// positional patterns extend the plan of their parent; a nil plan starts a
// new one. Pattern variables are attached under the current path, so they
// scope like the is-expression or case label that holds the pattern.
func (w *walker) matchPattern(p ast.Pattern, src *deconstruct.Source, plan *deconstruct.Plan) {
	w.push(p)
	defer w.pop()

	switch p := p.(type) {
	case *ast.DiscardPattern:

	case *ast.ConstantPattern:
		w.infer(p.Value)
		if src.Type != nil {
			w.convert(p.Value, src.Type)
		}

	case *ast.TypePattern:
		if t := w.BuildType(p.Type); t != nil {
			w.checkTypeTest(p.Token, src.Type, t)
		}

	case *ast.DeclarationPattern:
		t := w.BuildType(p.Type)
		if t == nil {
			if !ast.IsVar(p.Type) {
				return
			}
			if _, nested := p.Designation.(*ast.ParenthesizedDesignation); nested {
				w.matchDesignations(p.Designation.(*ast.ParenthesizedDesignation), src, plan)
				return
			}
			t = src.Type
		} else {
			w.checkTypeTest(p.Token, src.Type, t)
		}
		w.bindPattern(p.Designation, t)

	case *ast.PositionalPattern:
		w.matchPositional(p, src, plan)
	}
}

// matchPositional deconstructs src, narrowed by the pattern's type test
// when one is spelled, and matches each subpattern against an element.
func (w *walker) matchPositional(p *ast.PositionalPattern, src *deconstruct.Source, plan *deconstruct.Plan) {
	input := src
	if p.Type != nil {
		t := w.BuildType(p.Type)
		if t == nil {
			return
		}
		w.checkTypeTest(p.Token, src.Type, t)
		if src.Type == nil || !typesystem.Identical(t, src.Type) {
			input = src.Narrowed(t)
		}
	}

	labels := make([]string, len(p.Subpatterns))
	for i, sub := range p.Subpatterns {
		if sub.Name != nil {
			labels[i] = sub.Name.Value
		}
	}
	shape, errs := w.lowerer.LowerPattern(plan, input, labels, p.Token)
	w.addErrors(errs)
	if shape == nil {
		return
	}
	w.Shapes[p] = shape
	for i, sub := range p.Subpatterns {
		w.push(sub)
		w.matchPattern(sub.Pattern, shape.Elements[i], shape.Plan)
		w.pop()
	}
	if p.Designation != nil {
		w.bindPattern(p.Designation, input.Type)
	}
}

// matchDesignations handles var (a, b) in a pattern: a positional match
// whose elements all bind.
func (w *walker) matchDesignations(d *ast.ParenthesizedDesignation, src *deconstruct.Source, plan *deconstruct.Plan) {
	labels := make([]string, len(d.Elements))
	shape, errs := w.lowerer.LowerPattern(plan, src, labels, d.Token)
	w.addErrors(errs)
	if shape == nil {
		return
	}
	for i, el := range d.Elements {
		if nested, ok := el.(*ast.ParenthesizedDesignation); ok {
			w.matchDesignations(nested, shape.Elements[i], shape.Plan)
			continue
		}
		w.bindPattern(el, shape.Elements[i].Type)
	}
}

func (w *walker) bindPattern(d ast.Designation, t typesystem.Type) {
	single, ok := d.(*ast.SingleDesignation)
	if !ok {
		return
	}
	if t == nil {
		w.addError(diagnostics.NewError(diagnostics.ErrT011, single.Token, single.Name.Value))
	}
	w.attach(scope.NewBinding(single.Name.Value, t, scope.Pattern, single), w.path)
}

// checkTypeTest rejects a type test that can never succeed: neither type
// converts to the other.
func (w *walker) checkTypeTest(tok token.Token, input, tested typesystem.Type) {
	if input == nil {
		return
	}
	if w.conversions.Classify(input, tested).Exists() || w.conversions.Classify(tested, input).Exists() {
		return
	}
	w.addError(diagnostics.NewError(diagnostics.ErrT002, tok, input, tested))
}
