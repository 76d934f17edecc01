package analyzer

import (
	"github.com/gb714us/csharplang/internal/ast"
	"github.com/gb714us/csharplang/internal/config"
	"github.com/gb714us/csharplang/internal/deconstruct"
	"github.com/gb714us/csharplang/internal/diagnostics"
	"github.com/gb714us/csharplang/internal/scope"
	"github.com/gb714us/csharplang/internal/typesystem"
)

func (w *walker) VisitBlockStatement(block *ast.BlockStatement) {
	w.push(block)
	for _, stmt := range block.Statements {
		stmt.Accept(w)
	}
	w.pop()
}

func (w *walker) VisitExpressionStatement(stmt *ast.ExpressionStatement) {
	w.push(stmt)
	w.statementExpression(stmt.Expression)
	w.pop()
}

// statementExpression analyzes an expression whose value is discarded. Only
// here may a deconstructing assignment appear.
func (w *walker) statementExpression(e ast.Expression) {
	if assign, ok := e.(*ast.AssignmentExpression); ok && assign.IsDeconstruction() {
		w.push(assign)
		w.deconstructAssignment(assign)
		w.pop()
		return
	}
	w.infer(e)
}

func (w *walker) VisitLocalDeclaration(ld *ast.LocalDeclaration) {
	declared := w.BuildType(ld.Type)
	w.push(ld)
	for _, d := range ld.Declarators {
		t := declared
		if d.Value != nil {
			w.push(d)
			valueType := w.infer(d.Value)
			if ast.IsVar(ld.Type) {
				t = valueType
			} else {
				w.convert(d.Value, declared)
			}
			w.pop()
		}
		if t == nil && ast.IsVar(ld.Type) && (d.Value == nil || !w.failed[d.Value]) {
			w.addError(diagnostics.NewError(diagnostics.ErrT011, d.Token, d.Name.Value))
		}
		w.attach(scope.NewBinding(d.Name.Value, t, scope.Local, d), w.path)
	}
	w.pop()
}

func (w *walker) VisitIfStatement(stmt *ast.IfStatement) {
	w.push(stmt)
	w.condition(stmt.Condition)
	stmt.Consequence.Accept(w)
	if stmt.Alternative != nil {
		stmt.Alternative.Accept(w)
	}
	w.pop()
}

func (w *walker) VisitWhileStatement(stmt *ast.WhileStatement) {
	w.push(stmt)
	w.condition(stmt.Condition)
	stmt.Body.Accept(w)
	w.pop()
}

func (w *walker) VisitForStatement(stmt *ast.ForStatement) {
	w.push(stmt)
	for _, init := range stmt.Init {
		init.Accept(w)
	}
	if stmt.Condition != nil {
		w.condition(stmt.Condition)
	}
	for _, u := range stmt.Update {
		w.statementExpression(u)
	}
	stmt.Body.Accept(w)
	w.pop()
}

// VisitForEachStatement types the iteration variable from the collection's
// element type. A deconstructing variable is lowered like a declaration
// whose source is the current element.
func (w *walker) VisitForEachStatement(stmt *ast.ForEachStatement) {
	w.push(stmt)
	collType := w.infer(stmt.Collection)
	var elem typesystem.Type
	if collType != nil {
		var ok bool
		if elem, ok = typesystem.ElementTypeOf(collType); !ok {
			w.addError(diagnostics.NewError(diagnostics.ErrT002, stmt.Collection.GetToken(), collType, config.EnumerableTypeName))
		}
	}

	switch v := stmt.Variable.(type) {
	case *ast.DeclarationExpression:
		if single, ok := v.Designation.(*ast.SingleDesignation); ok {
			t := w.BuildType(v.Type)
			if t == nil && ast.IsVar(v.Type) {
				t = elem
			} else if elem != nil && t != nil {
				if conv := w.conversions.Classify(elem, t); !conv.Exists() {
					w.addError(diagnostics.NewError(diagnostics.ErrT002, v.Token, elem, t))
				}
			}
			w.attach(scope.NewBinding(single.Name.Value, t, scope.Local, single), w.pathTo(v))
			break
		}
		w.deconstructForEach(stmt, elem)
	case *ast.TupleLiteral:
		w.deconstructForEach(stmt, elem)
	}

	stmt.Body.Accept(w)
	w.pop()
}

func (w *walker) deconstructForEach(stmt *ast.ForEachStatement, elem typesystem.Type) {
	targets, ok := w.targetsOf(stmt.Variable)
	if !ok || elem == nil {
		return
	}
	src := deconstruct.ExprSource(nil, elem)
	plan, errs := w.lowerer.Lower(deconstruct.Declaration, targets, src, stmt.Variable.GetToken())
	w.addErrors(errs)
	if plan == nil {
		return
	}
	w.Plans[stmt] = plan
	w.bindLeaves(plan, scope.Deconstruction, w.pathTo(stmt.Variable))
}

func (w *walker) VisitReturnStatement(stmt *ast.ReturnStatement) {
	w.push(stmt)
	if stmt.Value != nil {
		t := w.infer(stmt.Value)
		if w.result != nil {
			if typesystem.Identical(w.result, typesystem.Void) {
				if t != nil {
					w.addError(diagnostics.NewError(diagnostics.ErrT002, stmt.Value.GetToken(), t, config.VoidTypeName))
				}
			} else {
				w.convert(stmt.Value, w.result)
			}
		}
	}
	w.pop()
}

func (w *walker) VisitThrowStatement(stmt *ast.ThrowStatement) {
	w.push(stmt)
	w.infer(stmt.Value)
	w.pop()
}

func (w *walker) VisitBreakStatement(*ast.BreakStatement)       {}
func (w *walker) VisitContinueStatement(*ast.ContinueStatement) {}

// VisitSwitchStatement matches every case pattern against the switch
// value. Pattern variables belong to their switch section.
func (w *walker) VisitSwitchStatement(stmt *ast.SwitchStatement) {
	w.push(stmt)
	w.infer(stmt.Value)
	for _, section := range stmt.Sections {
		w.push(section)
		for _, label := range section.Labels {
			w.caseLabel(label, stmt.Value)
		}
		for _, s := range section.Statements {
			s.Accept(w)
		}
		w.pop()
	}
	w.pop()
}

func (w *walker) caseLabel(label *ast.CaseLabel, value ast.Expression) {
	if label.Pattern == nil {
		return
	}
	w.push(label)
	w.matchPattern(label.Pattern, w.sourceOf(value), nil)
	if label.When != nil {
		w.condition(label.When)
	}
	w.pop()
}

// condition analyzes an expression that must convert to bool.
func (w *walker) condition(e ast.Expression) {
	w.infer(e)
	w.convert(e, typesystem.Bool)
}

// Sections and labels are visited through their switch statement.
func (w *walker) VisitSwitchSection(*ast.SwitchSection) {}
func (w *walker) VisitCaseLabel(*ast.CaseLabel)         {}
