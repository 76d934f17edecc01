package analyzer

import (
	"fmt"

	"github.com/gb714us/csharplang/internal/ast"
	"github.com/gb714us/csharplang/internal/config"
	"github.com/gb714us/csharplang/internal/conversions"
	"github.com/gb714us/csharplang/internal/deconstruct"
	"github.com/gb714us/csharplang/internal/diagnostics"
	"github.com/gb714us/csharplang/internal/scope"
	"github.com/gb714us/csharplang/internal/typesystem"
)

// deconstructAssignment lowers (a, b) = e, var (a, b) = e and
// (int a, var b) = e. The value is analyzed before the targets, and fresh
// variables are attached only once the whole deconstruction lowers.
func (w *walker) deconstructAssignment(assign *ast.AssignmentExpression) {
	w.infer(assign.Value)
	targets, ok := w.targetsOf(assign.Left)
	if !ok {
		return
	}
	form := deconstruct.Assignment
	if hasFresh(targets) {
		form = deconstruct.Declaration
	}
	plan, errs := w.lowerer.Lower(form, targets, w.sourceOf(assign.Value), assign.Token)
	w.addErrors(errs)
	if plan == nil {
		return
	}
	w.Plans[assign] = plan
	w.bindLeaves(plan, scope.Deconstruction, w.path)
}

func hasFresh(targets []*deconstruct.Target) bool {
	for _, t := range targets {
		if t.Kind == deconstruct.Fresh || (t.Kind == deconstruct.Nested && hasFresh(t.Elements)) {
			return true
		}
	}
	return false
}

// bindLeaves attaches a variable for every fresh target of a lowered plan.
func (w *walker) bindLeaves(plan *deconstruct.Plan, kind scope.Kind, path []ast.Node) {
	for _, leaf := range plan.Leaves {
		if leaf.Target.Kind != deconstruct.Fresh {
			continue
		}
		w.attach(scope.NewBinding(leaf.Target.Name, leaf.Type, kind, leaf.Target.Node), path)
	}
}

// targetsOf builds the top-level target list of a deconstruction's left
// side: a tuple literal or var (a, b). ok is false when any target is
// invalid; the errors have been reported.
func (w *walker) targetsOf(left ast.Expression) ([]*deconstruct.Target, bool) {
	t := w.target(left, "")
	if t == nil {
		return nil, false
	}
	if t.Kind != deconstruct.Nested {
		w.addError(diagnostics.NewError(diagnostics.ErrT009, left.GetToken(), deconstruct.Describe(left)))
		return nil, false
	}
	return t.Elements, true
}

func (w *walker) target(e ast.Expression, label string) *deconstruct.Target {
	tok := e.GetToken()
	switch e := e.(type) {
	case *ast.TupleLiteral:
		nested := &deconstruct.Target{Kind: deconstruct.Nested, Token: tok, Label: label, Node: e}
		ok := true
		for _, el := range e.Elements {
			elLabel := ""
			if el.Name != nil {
				elLabel = el.Name.Value
			}
			t := w.target(el.Value, elLabel)
			if t == nil {
				ok = false
				continue
			}
			nested.Elements = append(nested.Elements, t)
		}
		if !ok {
			return nil
		}
		return nested

	case *ast.DiscardExpression:
		return &deconstruct.Target{Kind: deconstruct.Discard, Token: tok, Label: label, Node: e}

	case *ast.DeclarationExpression:
		declared := w.BuildType(e.Type)
		if declared == nil && !ast.IsVar(e.Type) {
			return nil
		}
		t := w.designationTarget(e.Designation, declared, label)
		if t != nil && t.Kind == deconstruct.Nested && declared != nil {
			// Only 'var' distributes over a parenthesized designation.
			w.addError(diagnostics.NewError(diagnostics.ErrT009, tok, fmt.Sprintf("'%s' cannot declare a list", e.Type.String())))
			return nil
		}
		return t

	case *ast.Identifier:
		return w.identifierTarget(e, label)

	case *ast.MemberExpression:
		w.push(e)
		recvType := w.infer(e.Left)
		w.pop()
		if recvType == nil {
			return nil
		}
		if tup, ok := typesystem.AsTuple(recvType); ok {
			k, found := tup.Lookup(e.Member.Value)
			if !found {
				w.addError(diagnostics.NewError(diagnostics.ErrT013, e.Member.Token, recvType, e.Member.Value))
				return nil
			}
			elemType, _ := tup.ElementType(k)
			return &deconstruct.Target{
				Kind: deconstruct.Existing, Token: tok, Label: label, Name: typesystem.ItemName(k), Type: elemType, Node: e,
				Location: &deconstruct.Location{Kind: deconstruct.Field, Receiver: e.Left},
			}
		}
		f, ok := w.symbolTable.FieldType(recvType, e.Member.Value)
		if !ok {
			w.addError(diagnostics.NewError(diagnostics.ErrT013, e.Member.Token, recvType, e.Member.Value))
			return nil
		}
		kind := deconstruct.Field
		if f.IsProperty {
			kind = deconstruct.Property
		}
		return &deconstruct.Target{
			Kind: deconstruct.Existing, Token: tok, Label: label, Name: f.Name, Type: f.Type, Node: e,
			Location: &deconstruct.Location{Kind: kind, Receiver: e.Left, ReadOnly: f.ReadOnly},
		}

	case *ast.IndexExpression:
		elemType := w.inferIndex(e)
		if elemType == nil {
			return nil
		}
		return &deconstruct.Target{
			Kind: deconstruct.Existing, Token: tok, Label: label, Name: deconstruct.Describe(e), Type: elemType, Node: e,
			Location: &deconstruct.Location{Kind: deconstruct.Indexer, Receiver: e.Left, Index: e.Index},
		}
	}

	w.addError(diagnostics.NewError(diagnostics.ErrT009, tok, deconstruct.Describe(e)))
	return nil
}

// designationTarget builds the target of a designation declared with type
// t, or inferred when t is nil.
func (w *walker) designationTarget(d ast.Designation, t typesystem.Type, label string) *deconstruct.Target {
	switch d := d.(type) {
	case *ast.SingleDesignation:
		return &deconstruct.Target{Kind: deconstruct.Fresh, Token: d.Token, Label: label, Name: d.Name.Value, Type: t, Node: d}
	case *ast.DiscardDesignation:
		return &deconstruct.Target{Kind: deconstruct.Discard, Token: d.Token, Label: label, Node: d}
	case *ast.ParenthesizedDesignation:
		nested := &deconstruct.Target{Kind: deconstruct.Nested, Token: d.Token, Label: label, Node: d}
		for _, el := range d.Elements {
			nested.Elements = append(nested.Elements, w.designationTarget(el, nil, ""))
		}
		return nested
	}
	return nil
}

// identifierTarget resolves an existing variable or a field of the
// enclosing class.
func (w *walker) identifierTarget(id *ast.Identifier, label string) *deconstruct.Target {
	if b, ok := w.Resolver.Lookup(id.Value, w.path); ok {
		w.Resolutions[id] = b
		w.TypeMap[id] = b.Type
		return &deconstruct.Target{
			Kind: deconstruct.Existing, Token: id.Token, Label: label, Name: id.Value, Type: b.Type, Node: id,
			Location: &deconstruct.Location{Kind: deconstruct.Variable},
		}
	}
	if f, ok := w.fieldOfClass(id.Value); ok {
		kind := deconstruct.Field
		if f.IsProperty {
			kind = deconstruct.Property
		}
		this := &ast.Identifier{Token: id.Token, Value: config.ThisName}
		w.TypeMap[this] = w.classType()
		return &deconstruct.Target{
			Kind: deconstruct.Existing, Token: id.Token, Label: label, Name: f.Name, Type: f.Type, Node: id,
			Location: &deconstruct.Location{Kind: kind, Receiver: this, ReadOnly: f.ReadOnly},
		}
	}
	w.addError(diagnostics.NewError(diagnostics.ErrT008, id.Token, id.Value))
	return nil
}

// sourceOf returns the deconstruction source of an analyzed expression. A
// tuple literal stays element-wise so each element converts on its own.
func (w *walker) sourceOf(e ast.Expression) *deconstruct.Source {
	if tl, ok := e.(*ast.TupleLiteral); ok {
		elems := make([]*deconstruct.Source, len(tl.Elements))
		var names []string
		for i, el := range tl.Elements {
			elems[i] = w.sourceOf(el.Value)
			if el.Name != nil {
				if names == nil {
					names = make([]string, len(tl.Elements))
				}
				names[i] = el.Name.Value
			}
		}
		return deconstruct.LiteralSource(tl, elems, names)
	}
	src := deconstruct.ExprSource(e, w.TypeMap[e])
	src.Operand = w.operandOf(e)
	src.Failed = w.failed[e]
	return src
}

// operandOf describes an analyzed expression for conversion
// classification.
func (w *walker) operandOf(e ast.Expression) conversions.Operand {
	switch e := e.(type) {
	case *ast.NullLiteral:
		return conversions.Operand{IsNull: true}
	case *ast.IntegerLiteral:
		return conversions.Operand{Type: w.TypeMap[e], Constant: e.Value, HasConstant: true}
	case *ast.TupleLiteral:
		op := conversions.Operand{Type: w.TypeMap[e], Elements: make([]conversions.Operand, len(e.Elements))}
		for i, el := range e.Elements {
			op.Elements[i] = w.operandOf(el.Value)
			if el.Name != nil {
				if op.Names == nil {
					op.Names = make([]string, len(e.Elements))
				}
				op.Names[i] = el.Name.Value
			}
		}
		return op
	}
	return conversions.Operand{Type: w.TypeMap[e]}
}

// convert checks that the analyzed expression e converts implicitly to
// target and records the conversion. Expressions of unknown type and
// unknown targets are skipped: their error has been reported already.
func (w *walker) convert(e ast.Expression, target typesystem.Type) bool {
	if target == nil {
		return true
	}
	op := w.operandOf(e)
	if op.Type == nil && !op.IsNull && !op.IsTupleLiteral() {
		return true
	}
	conv := w.conversions.ClassifyOperand(op, target)
	if !conv.Exists() {
		w.addError(diagnostics.NewError(diagnostics.ErrT002, e.GetToken(), describeOperand(e, op), target))
		return false
	}
	w.Conversions[e] = conv
	return true
}

func describeOperand(e ast.Expression, op conversions.Operand) string {
	switch {
	case op.IsNull:
		return "null"
	case op.Type != nil:
		return op.Type.String()
	}
	return deconstruct.Describe(e)
}
