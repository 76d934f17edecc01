package deconstruct

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/gb714us/csharplang/internal/config"
	"github.com/gb714us/csharplang/internal/conversions"
	"github.com/gb714us/csharplang/internal/diagnostics"
	"github.com/gb714us/csharplang/internal/dispatch"
	"github.com/gb714us/csharplang/internal/token"
	"github.com/gb714us/csharplang/internal/typesystem"
)

// Lowerer lowers deconstructions against a dispatcher and a classifier.
type Lowerer struct {
	dispatcher  *dispatch.Dispatcher
	conversions *conversions.Classifier
}

// New returns a Lowerer.
func New(d *dispatch.Dispatcher, c *conversions.Classifier) *Lowerer {
	return &Lowerer{dispatcher: d, conversions: c}
}

// element is one position of a source shape after the source phase.
type element struct {
	src  *Source // evaluated element, with its temporary set
	name string  // element name, "" when unnamed
}

type lowering struct {
	*Lowerer
	form Form
	plan *Plan
	errs []*diagnostics.DiagnosticError
	// quiet is set when a failed source stopped the lowering without an
	// error of its own.
	quiet bool
}

func (l *lowering) stopped() bool { return len(l.errs) > 0 || l.quiet }

func (l *lowering) fail(code diagnostics.ErrorCode, tok token.Token, args ...interface{}) {
	l.errs = append(l.errs, diagnostics.NewError(code, tok, args...))
}

// Lower lowers an assignment or declaration deconstruction of src into
// targets. On any error no plan is returned; nothing is partially bound.
// A source marked Failed returns neither a plan nor errors. Inferred Fresh
// targets get their Type filled in from the source.
func (l *Lowerer) Lower(form Form, targets []*Target, src *Source, tok token.Token) (*Plan, []*diagnostics.DiagnosticError) {
	lw := &lowering{Lowerer: l, form: form, plan: &Plan{Form: form}}
	if form == Pattern {
		lw.fail(diagnostics.ErrT009, tok, "patterns are lowered with LowerPattern")
		return nil, lw.errs
	}
	lw.checkForm(targets)
	if len(lw.errs) > 0 {
		return nil, lw.errs
	}

	leaves := lw.sources(targets, src, tok)
	if lw.stopped() {
		return nil, lw.errs
	}
	lw.locations(leaves)
	lw.stores(leaves)
	if lw.stopped() {
		return nil, lw.errs
	}
	return lw.plan, nil
}

// checkForm enforces which target kinds each form accepts. Mixing
// declarations and existing locations in one deconstruction is rejected.
func (l *lowering) checkForm(targets []*Target) {
	for _, t := range targets {
		switch t.Kind {
		case Nested:
			l.checkForm(t.Elements)
		case Existing:
			if l.form == Declaration {
				l.fail(diagnostics.ErrT009, t.Token, fmt.Sprintf("'%s' is not a declaration", t.Name))
			} else if t.Location != nil && t.Location.ReadOnly {
				l.fail(diagnostics.ErrT009, t.Token, fmt.Sprintf("'%s' is read-only", t.Name))
			}
		case Fresh:
			if l.form == Assignment {
				l.fail(diagnostics.ErrT009, t.Token, fmt.Sprintf("cannot declare '%s' in a deconstructing assignment", t.Name))
			}
		}
	}
}

type leaf struct {
	target *Target
	value  *Source
	// receiver and index temporaries of the target location, -1 if none
	receiver, index int
}

// sources runs the source phase for one level of targets and returns the
// non-nested leaves paired with their evaluated values, left to right.
func (l *lowering) sources(targets []*Target, src *Source, tok token.Token) []*leaf {
	labels := make([]string, len(targets))
	for i, t := range targets {
		labels[i] = t.Label
	}
	elems, _ := l.shape(src, labels, tok)
	if elems == nil {
		return nil
	}
	var out []*leaf
	for i, t := range targets {
		if t.Kind == Nested {
			out = append(out, l.sources(t.Elements, elems[i].src, t.Token)...)
			continue
		}
		l.evaluate(elems[i].src)
		out = append(out, &leaf{target: t, value: elems[i].src, receiver: -1, index: -1})
	}
	return out
}

// shape views src as a sequence of len(labels) elements and checks the
// labels against the element names. A typed source is evaluated once and
// projected or deconstructed; the elements of a literal are left for the
// caller to evaluate in order.
func (l *lowering) shape(src *Source, labels []string, tok token.Token) ([]element, *dispatch.Contract) {
	arity := len(labels)

	if src.isLiteral() && !src.hasTemp {
		if len(src.Elements) != arity {
			l.fail(diagnostics.ErrT003, tok, len(src.Elements), arity)
			return nil, nil
		}
		elems := make([]element, arity)
		for i, e := range src.Elements {
			elems[i] = element{src: e, name: nameAt(src.Names, i)}
		}
		if !l.checkLabels(labels, elems, tok) {
			return nil, nil
		}
		return elems, nil
	}

	if src.Type == nil {
		if src.Failed {
			l.quiet = true
		} else {
			l.fail(diagnostics.ErrT005, tok, config.NullLiteralTypeName, arity)
		}
		return nil, nil
	}
	if tv, ok := src.Type.(typesystem.TVar); ok {
		l.fail(diagnostics.ErrT011, tok, tv.Name)
		return nil, nil
	}

	if tup, ok := typesystem.AsTuple(src.Type); ok {
		if tup.Arity() != arity {
			l.fail(diagnostics.ErrT003, tok, tup.Arity(), arity)
			return nil, nil
		}
		elems := make([]element, arity)
		for k := 1; k <= arity; k++ {
			t, _ := tup.ElementType(k)
			elems[k-1] = element{src: ExprSource(nil, t), name: tup.ElementName(k)}
		}
		if !l.checkLabels(labels, elems, tok) {
			return nil, nil
		}
		from := l.evaluate(src)
		for k := range elems {
			dest := l.plan.newTemp()
			l.plan.emit(Op{Kind: Project, Dest: dest, Src: from, Index: k + 1, Type: elems[k].src.Type, ReceiverTemp: -1, IndexTemp: -1})
			elems[k].src.temp, elems[k].src.hasTemp = dest, true
		}
		return elems, nil
	}

	contract, err := l.dispatcher.Resolve(src.Type, arity)
	if err != nil {
		l.dispatchFailed(err, tok)
		return nil, nil
	}
	if contract.IsConditional() && l.form != Pattern {
		l.fail(diagnostics.ErrT005, tok, src.Type, arity)
		return nil, nil
	}
	elems := make([]element, arity)
	for i, t := range contract.Outputs {
		elems[i] = element{src: ExprSource(nil, t), name: contract.Names[i]}
	}
	if !l.checkLabels(labels, elems, tok) {
		return nil, nil
	}
	from := l.evaluate(src)
	dests := make([]int, arity)
	for i := range elems {
		dests[i] = l.plan.newTemp()
		elems[i].src.temp, elems[i].src.hasTemp = dests[i], true
	}
	l.plan.emit(Op{Kind: Deconstruct, Dests: dests, Src: from, Dest: -1, Contract: contract, Type: src.Type, ReceiverTemp: -1, IndexTemp: -1})
	return elems, contract
}

// Shape is the element sequence a positional pattern matches against.
type Shape struct {
	Plan *Plan
	// Contract is the deconstructor used, nil for tuple-shaped inputs.
	Contract *dispatch.Contract
	// Elements are the evaluated element values, in order.
	Elements []*Source
	Names    []string
}

// Conditional reports whether matching can fail in the deconstructor itself.
func (s *Shape) Conditional() bool {
	return s.Contract != nil && s.Contract.IsConditional()
}

// LowerPattern lowers the source phase of a positional pattern with
// len(labels) subpatterns and returns the element values the pattern
// matcher consumes positionally. A nested positional subpattern is lowered
// by calling LowerPattern again with the same plan and one of the returned
// elements. A nil plan starts a new one.
func (l *Lowerer) LowerPattern(plan *Plan, src *Source, labels []string, tok token.Token) (*Shape, []*diagnostics.DiagnosticError) {
	if plan == nil {
		plan = &Plan{Form: Pattern}
	}
	lw := &lowering{Lowerer: l, form: Pattern, plan: plan}
	elems, contract := lw.shape(src, labels, tok)
	if lw.stopped() {
		return nil, lw.errs
	}
	shape := &Shape{Plan: plan, Contract: contract}
	for _, e := range elems {
		lw.evaluate(e.src)
		shape.Elements = append(shape.Elements, e.src)
		shape.Names = append(shape.Names, e.name)
	}
	return shape, nil
}

func (l *lowering) dispatchFailed(err error, tok token.Token) {
	var derr *dispatch.Error
	if !errors.As(err, &derr) {
		l.fail(diagnostics.ErrT005, tok, "?", 0)
		return
	}
	if derr.Kind == dispatch.Ambiguous {
		sigs := ""
		for i, c := range derr.Candidates {
			if i > 0 {
				sigs += ", "
			}
			sigs += c.String()
		}
		l.fail(diagnostics.ErrT006, tok, derr.Type, derr.Arity, sigs)
		return
	}
	l.fail(diagnostics.ErrT005, tok, derr.Type, derr.Arity)
}

// checkLabels verifies target labels: a label must be the element's name or
// its positional ItemK name.
func (l *lowering) checkLabels(labels []string, elems []element, tok token.Token) bool {
	ok := true
	for i, label := range labels {
		if label == "" {
			continue
		}
		name := elems[i].name
		if label == name || label == typesystem.ItemName(i+1) {
			continue
		}
		if name == "" {
			name = typesystem.ItemName(i + 1)
		}
		l.fail(diagnostics.ErrT004, tok, label, i+1, name)
		ok = false
	}
	return ok
}

// evaluate emits the evaluation of src once and returns its temporary.
func (l *lowering) evaluate(src *Source) int {
	if src.hasTemp {
		return src.temp
	}
	dest := l.plan.newTemp()
	l.plan.emit(Op{Kind: EvalSource, Dest: dest, Expr: src.Expr, Type: src.Type, Src: -1, ReceiverTemp: -1, IndexTemp: -1})
	src.temp, src.hasTemp = dest, true
	return dest
}

// locations runs the location phase: receivers and indices of existing
// targets, left to right.
func (l *lowering) locations(leaves []*leaf) {
	for _, lf := range leaves {
		loc := lf.target.Location
		if lf.target.Kind != Existing || loc == nil {
			continue
		}
		if loc.Receiver != nil {
			lf.receiver = l.plan.newTemp()
			l.plan.emit(Op{Kind: EvalLocation, Dest: lf.receiver, Expr: loc.Receiver, Src: -1, Target: lf.target, ReceiverTemp: -1, IndexTemp: -1})
		}
		if loc.Index != nil {
			lf.index = l.plan.newTemp()
			l.plan.emit(Op{Kind: EvalLocation, Dest: lf.index, Expr: loc.Index, Src: -1, Target: lf.target, ReceiverTemp: -1, IndexTemp: -1})
		}
	}
}

// stores runs the store phase. Conversions are computed here so every store
// sees its converted value, but their Convert ops belong to the source phase
// and are spliced in before the first location op.
func (l *lowering) stores(leaves []*leaf) {
	var converts []Op
	var stores []Op
	for _, lf := range leaves {
		t := lf.target
		if t.Kind == Discard {
			continue
		}
		value := lf.value
		from := value.temp
		if value.Failed {
			l.quiet = true
			continue
		}

		if t.Inferred() {
			if value.Type == nil {
				l.fail(diagnostics.ErrT011, t.Token, t.Name)
				continue
			}
			t.Type = value.Type
		} else {
			conv := l.conversions.ClassifyOperand(value.operand(), t.Type)
			if !conv.Exists() {
				l.fail(diagnostics.ErrT002, t.Token, describeSource(value), t.Type)
				continue
			}
			if conv.Kind != conversions.Identity {
				dest := l.plan.newTemp()
				converts = append(converts, Op{Kind: Convert, Dest: dest, Src: from, Type: t.Type, Conversion: conv, ReceiverTemp: -1, IndexTemp: -1})
				from = dest
			}
		}

		kind := Assign
		if t.Kind == Fresh {
			kind = Declare
		}
		stores = append(stores, Op{Kind: kind, Dest: -1, Src: from, Type: t.Type, Target: t, ReceiverTemp: lf.receiver, IndexTemp: lf.index})
		l.plan.Leaves = append(l.plan.Leaves, Leaf{Target: t, Temp: from, Type: t.Type})
	}

	if len(converts) > 0 {
		split := len(l.plan.Ops)
		for i, op := range l.plan.Ops {
			if op.Kind == EvalLocation {
				split = i
				break
			}
		}
		ops := make([]Op, 0, len(l.plan.Ops)+len(converts))
		ops = append(ops, l.plan.Ops[:split]...)
		ops = append(ops, converts...)
		ops = append(ops, l.plan.Ops[split:]...)
		l.plan.Ops = ops
	}
	l.plan.Ops = append(l.plan.Ops, stores...)
}

func describeSource(s *Source) string {
	if s.Type != nil {
		return s.Type.String()
	}
	if s.Operand.IsNull {
		return "null"
	}
	return Describe(s.Expr)
}

func nameAt(names []string, i int) string {
	if i < len(names) {
		return names[i]
	}
	return ""
}
