package analyzer

import (
	"math"

	"github.com/gb714us/csharplang/internal/ast"
	"github.com/gb714us/csharplang/internal/config"
	"github.com/gb714us/csharplang/internal/deconstruct"
	"github.com/gb714us/csharplang/internal/diagnostics"
	"github.com/gb714us/csharplang/internal/scope"
	"github.com/gb714us/csharplang/internal/symbols"
	"github.com/gb714us/csharplang/internal/token"
	"github.com/gb714us/csharplang/internal/typesystem"
)

// infer types an expression and records the result in TypeMap. A nil type
// means the expression is typeless (null, a tuple literal with a typeless
// element) or that an error has been reported for it.
func (w *walker) infer(e ast.Expression) typesystem.Type {
	reported := len(w.errorSet)
	t := w.inferNode(e)
	if t != nil {
		w.TypeMap[e] = t
	} else if len(w.errorSet) > reported {
		w.failed[e] = true
	}
	return t
}

func (w *walker) inferNode(e ast.Expression) typesystem.Type {
	switch e := e.(type) {
	case *ast.Identifier:
		return w.inferIdentifier(e)
	case *ast.IntegerLiteral:
		if e.Value < math.MinInt32 || e.Value > math.MaxInt32 {
			return typesystem.Long
		}
		return typesystem.Int
	case *ast.StringLiteral:
		return typesystem.String
	case *ast.BooleanLiteral:
		return typesystem.Bool
	case *ast.NullLiteral:
		return nil
	case *ast.TupleLiteral:
		w.push(e)
		defer w.pop()
		return w.inferTupleLiteral(e)
	case *ast.MemberExpression:
		w.push(e)
		defer w.pop()
		return w.inferMember(e)
	case *ast.IndexExpression:
		return w.inferIndex(e)
	case *ast.CallExpression:
		w.push(e)
		defer w.pop()
		return w.inferCall(e)
	case *ast.NewExpression:
		w.push(e)
		defer w.pop()
		t := w.BuildType(e.Type)
		if t == nil {
			return nil
		}
		if ctor := w.construct(typesystem.ConstructorName(t), e.Token, e.Arguments); ctor != nil {
			w.Calls[e] = ctor
		}
		return t
	case *ast.AssignmentExpression:
		w.push(e)
		defer w.pop()
		if e.IsDeconstruction() {
			w.deconstructAssignment(e)
			w.addError(diagnostics.NewError(diagnostics.ErrT012, e.Token))
			return nil
		}
		return w.inferAssignment(e)
	case *ast.BinaryExpression:
		w.push(e)
		defer w.pop()
		return w.inferBinary(e)
	case *ast.IsPatternExpression:
		w.push(e)
		defer w.pop()
		w.infer(e.Value)
		w.matchPattern(e.Pattern, w.sourceOf(e.Value), nil)
		return typesystem.Bool
	case *ast.QueryExpression:
		w.push(e)
		defer w.pop()
		return w.inferQuery(e)
	case *ast.DiscardExpression:
		w.addError(diagnostics.NewError(diagnostics.ErrT008, e.Token, config.DiscardName))
		return nil
	case *ast.DeclarationExpression:
		w.addError(diagnostics.NewError(diagnostics.ErrT009, e.Token, e.Type.String()+" declaration used as a value"))
		return nil
	}
	return nil
}

func (w *walker) inferIdentifier(id *ast.Identifier) typesystem.Type {
	if id.Value == config.ThisName {
		if w.class == nil || w.inStatic {
			w.addError(diagnostics.NewError(diagnostics.ErrT008, id.Token, id.Value))
			return nil
		}
		return w.classType()
	}
	if b, ok := w.Resolver.Lookup(id.Value, w.path); ok {
		w.Resolutions[id] = b
		return b.Type
	}
	if f, ok := w.fieldOfClass(id.Value); ok {
		return f.Type
	}
	w.addError(diagnostics.NewError(diagnostics.ErrT008, id.Token, id.Value))
	return nil
}

func (w *walker) fieldOfClass(name string) (symbols.Field, bool) {
	if w.class == nil {
		return symbols.Field{}, false
	}
	return w.symbolTable.FieldType(w.classType(), name)
}

// isTypeName reports whether an identifier names a type rather than a
// value in the current context.
func (w *walker) isTypeName(e ast.Expression) (typesystem.Type, bool) {
	id, ok := e.(*ast.Identifier)
	if !ok {
		return nil, false
	}
	if _, ok := w.Resolver.Lookup(id.Value, w.path); ok {
		return nil, false
	}
	if _, ok := w.fieldOfClass(id.Value); ok {
		return nil, false
	}
	return w.symbolTable.ResolveType(id.Value)
}

// inferTupleLiteral types (a, b) and (x: a, y: b). The literal has a type
// only when every element does; element names come from the labels.
func (w *walker) inferTupleLiteral(tl *ast.TupleLiteral) typesystem.Type {
	elems := make([]typesystem.Type, len(tl.Elements))
	var names []string
	typed := true
	for i, el := range tl.Elements {
		elems[i] = w.infer(el.Value)
		if elems[i] == nil {
			typed = false
		}
		if el.Name != nil {
			if names == nil {
				names = make([]string, len(tl.Elements))
			}
			names[i] = el.Name.Value
		}
	}
	if len(tl.Elements) < config.MinTupleArity || names != nil {
		if err := validateLiteral(len(tl.Elements), names); err != nil {
			w.addError(diagnostics.NewError(diagnostics.ErrT001, tl.Token, err.Error()))
			return nil
		}
	}
	if !typed {
		return nil
	}
	tup, err := typesystem.NewTuple(elems, names)
	if err != nil {
		w.addError(diagnostics.NewError(diagnostics.ErrT001, tl.Token, err.Error()))
		return nil
	}
	return tup
}

// validateLiteral checks the shape of a tuple literal independently of its
// element types, so a typeless literal is still rejected when malformed.
func validateLiteral(arity int, names []string) error {
	if arity < config.MinTupleArity {
		return &typesystem.TupleError{Reason: typesystem.TupleArityTooSmall, Arity: arity}
	}
	return typesystem.ValidateElementNames(names)
}

// inferMember types e.Member on a tuple, an instance or a type name. Rest
// is not an element name: wide tuples are read through flat positions.
func (w *walker) inferMember(e *ast.MemberExpression) typesystem.Type {
	recvType, static := w.isTypeName(e.Left)
	if !static {
		recvType = w.infer(e.Left)
	} else {
		w.TypeMap[e.Left] = recvType
	}
	if recvType == nil {
		return nil
	}
	if tup, ok := typesystem.AsTuple(recvType); ok {
		k, found := tup.Lookup(e.Member.Value)
		if !found {
			w.addError(diagnostics.NewError(diagnostics.ErrT013, e.Member.Token, recvType, e.Member.Value))
			return nil
		}
		t, _ := tup.ElementType(k)
		return t
	}
	f, ok := w.symbolTable.FieldType(recvType, e.Member.Value)
	if !ok {
		w.addError(diagnostics.NewError(diagnostics.ErrT013, e.Member.Token, recvType, e.Member.Value))
		return nil
	}
	return f.Type
}

// inferIndex types arr[i]: the element type of an array or list.
func (w *walker) inferIndex(e *ast.IndexExpression) typesystem.Type {
	w.push(e)
	defer w.pop()
	left := w.infer(e.Left)
	w.infer(e.Index)
	w.convert(e.Index, typesystem.Int)
	if left == nil {
		return nil
	}
	elem, ok := typesystem.ElementTypeOf(left)
	if !ok {
		w.addError(diagnostics.NewError(diagnostics.ErrT013, e.Token, left, "this[]"))
		return nil
	}
	w.TypeMap[e] = elem
	return elem
}

// inferAssignment types a simple assignment. The value converts to the
// type of the location, which is the type of the assignment.
func (w *walker) inferAssignment(e *ast.AssignmentExpression) typesystem.Type {
	switch e.Left.(type) {
	case *ast.Identifier, *ast.MemberExpression, *ast.IndexExpression:
	default:
		w.addError(diagnostics.NewError(diagnostics.ErrT009, e.Left.GetToken(), deconstruct.Describe(e.Left)))
		w.infer(e.Value)
		return nil
	}
	left := w.infer(e.Left)
	w.infer(e.Value)
	w.convert(e.Value, left)
	return left
}

func (w *walker) inferBinary(e *ast.BinaryExpression) typesystem.Type {
	left := w.infer(e.Left)
	right := w.infer(e.Right)
	switch e.Operator {
	case "&&", "||":
		w.convert(e.Left, typesystem.Bool)
		w.convert(e.Right, typesystem.Bool)
		return typesystem.Bool
	case "==", "!=", "<", ">", "<=", ">=":
		return typesystem.Bool
	}

	// + and -
	if left == nil || right == nil {
		return nil
	}
	if e.Operator == "+" && (typesystem.Identical(left, typesystem.String) || typesystem.Identical(right, typesystem.String)) {
		return typesystem.String
	}
	if w.conversions.Classify(left, right).Exists() {
		return right
	}
	if w.conversions.Classify(right, left).Exists() {
		return left
	}
	w.addError(diagnostics.NewError(diagnostics.ErrT002, e.Token, left, right))
	return nil
}

// inferQuery types a query. Range variables of from and let clauses are
// visible in every later clause and nowhere else.
func (w *walker) inferQuery(q *ast.QueryExpression) typesystem.Type {
	var result typesystem.Type
	for _, clause := range q.Clauses {
		w.push(clause)
		t := w.infer(clause.Value)
		w.pop()

		switch clause.Kind() {
		case token.FROM:
			var elem typesystem.Type
			if t != nil {
				var ok bool
				if elem, ok = typesystem.ElementTypeOf(t); !ok {
					w.addError(diagnostics.NewError(diagnostics.ErrT002, clause.Value.GetToken(), t, config.EnumerableTypeName))
				}
			}
			w.attach(scope.NewBinding(clause.Range.Value, elem, scope.Range, clause), w.path)
		case token.LET:
			w.attach(scope.NewBinding(clause.Range.Value, t, scope.Range, clause), w.path)
		case token.WHERE:
			w.convert(clause.Value, typesystem.Bool)
		case token.SELECT:
			if t != nil {
				result = typesystem.TApp{Constructor: typesystem.TCon{Name: config.EnumerableTypeName}, Args: []typesystem.Type{t}}
			}
		}
	}
	return result
}

// Expressions reached through Accept are inferred like any other.
func (w *walker) VisitIdentifier(n *ast.Identifier)                       { w.infer(n) }
func (w *walker) VisitIntegerLiteral(n *ast.IntegerLiteral)               { w.infer(n) }
func (w *walker) VisitStringLiteral(n *ast.StringLiteral)                 { w.infer(n) }
func (w *walker) VisitBooleanLiteral(n *ast.BooleanLiteral)               { w.infer(n) }
func (w *walker) VisitNullLiteral(n *ast.NullLiteral)                     { w.infer(n) }
func (w *walker) VisitTupleLiteral(n *ast.TupleLiteral)                   { w.infer(n) }
func (w *walker) VisitDiscardExpression(n *ast.DiscardExpression)         { w.infer(n) }
func (w *walker) VisitDeclarationExpression(n *ast.DeclarationExpression) { w.infer(n) }
func (w *walker) VisitMemberExpression(n *ast.MemberExpression)           { w.infer(n) }
func (w *walker) VisitIndexExpression(n *ast.IndexExpression)             { w.infer(n) }
func (w *walker) VisitCallExpression(n *ast.CallExpression)               { w.infer(n) }
func (w *walker) VisitNewExpression(n *ast.NewExpression)                 { w.infer(n) }
func (w *walker) VisitAssignmentExpression(n *ast.AssignmentExpression)   { w.infer(n) }
func (w *walker) VisitBinaryExpression(n *ast.BinaryExpression)           { w.infer(n) }
func (w *walker) VisitIsPatternExpression(n *ast.IsPatternExpression)     { w.infer(n) }
func (w *walker) VisitQueryExpression(n *ast.QueryExpression)             { w.infer(n) }

// Parts of expressions, types, designations and patterns are analyzed by
// their owners.
func (w *walker) VisitTupleArgument(*ast.TupleArgument)                       {}
func (w *walker) VisitArgument(*ast.Argument)                                 {}
func (w *walker) VisitQueryClause(*ast.QueryClause)                           {}
func (w *walker) VisitNamedType(*ast.NamedType)                               {}
func (w *walker) VisitTupleType(*ast.TupleType)                               {}
func (w *walker) VisitVarType(*ast.VarType)                                   {}
func (w *walker) VisitSingleDesignation(*ast.SingleDesignation)               {}
func (w *walker) VisitDiscardDesignation(*ast.DiscardDesignation)             {}
func (w *walker) VisitParenthesizedDesignation(*ast.ParenthesizedDesignation) {}
func (w *walker) VisitDeclarationPattern(*ast.DeclarationPattern)             {}
func (w *walker) VisitDiscardPattern(*ast.DiscardPattern)                     {}
func (w *walker) VisitConstantPattern(*ast.ConstantPattern)                   {}
func (w *walker) VisitTypePattern(*ast.TypePattern)                           {}
func (w *walker) VisitSubpattern(*ast.Subpattern)                             {}
func (w *walker) VisitPositionalPattern(*ast.PositionalPattern)               {}
