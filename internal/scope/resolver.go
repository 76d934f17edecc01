package scope

import (
	"github.com/hashicorp/go-set/v2"

	"github.com/gb714us/csharplang/internal/ast"
)

// Resolver holds the bindings attached during one analysis pass.
// Bindings are written once by Attach and read-only afterwards.
type Resolver struct {
	bindings []*Binding
	byName   map[string][]*Binding
}

// NewResolver returns an empty Resolver.
func NewResolver() *Resolver {
	return &Resolver{byName: make(map[string][]*Binding)}
}

// Bindings returns every attached binding in attachment order.
func (r *Resolver) Bindings() []*Binding {
	return r.bindings
}

// Attach computes the governing scope of b from path, the ancestors of the
// introducing syntax outermost first, and records b.
//
// A declaration inside a constructor initializer is rejected. Otherwise the
// innermost of these decides: a query clause; a field declarator; a switch
// section for case labels; an if, while, for or foreach header; method and
// constructor parameters; and finally the enclosing statement, which scopes
// to its block from that statement on.
func (r *Resolver) Attach(b *Binding, path []ast.Node) error {
	att, err := governing(b, path)
	if err != nil {
		return err
	}
	b.Attachment = att

	if prev, ok := r.lookup(b.Name, path, b); ok {
		return &Error{Kind: Redeclared, Binding: b, Previous: prev}
	}
	r.bindings = append(r.bindings, b)
	r.byName[b.Name] = append(r.byName[b.Name], b)
	return nil
}

func governing(b *Binding, path []ast.Node) (Attachment, error) {
	child := b.Node
	for i := len(path) - 1; i >= 0; i-- {
		n := path[i]
		var parent ast.Node
		if i > 0 {
			parent = path[i-1]
		}

		switch n := n.(type) {
		case *ast.ConstructorInitializer:
			return Attachment{}, &Error{Kind: IllegalPosition, Binding: b}

		case *ast.QueryClause:
			return Attachment{Scope: n}, nil

		case *ast.QueryExpression:
			// Range variables belong to the whole query.
			if _, ok := child.(*ast.QueryClause); ok {
				return Attachment{Scope: n}, nil
			}

		case *ast.Declarator:
			if _, ok := parent.(*ast.FieldDeclaration); ok {
				return Attachment{Scope: n}, nil
			}

		case *ast.CaseLabel:
			if section, ok := parent.(*ast.SwitchSection); ok {
				return Attachment{Scope: section}, nil
			}
			return Attachment{Scope: n}, nil

		case *ast.MethodDeclaration, *ast.ConstructorDeclaration:
			if _, ok := child.(*ast.Parameter); ok {
				return Attachment{Scope: n}, nil
			}

		case *ast.IfStatement:
			if child == n.Condition {
				return ifAttachment(n, parent), nil
			}

		case *ast.WhileStatement:
			if child == n.Condition {
				return Attachment{Scope: n}, nil
			}

		case *ast.ForStatement:
			if child != n.Body {
				return Attachment{Scope: n}, nil
			}

		case *ast.ForEachStatement:
			if child != n.Body {
				return Attachment{Scope: n}, nil
			}
		}

		if stmt, ok := n.(ast.Statement); ok {
			if _, isBlock := n.(*ast.BlockStatement); !isBlock {
				return statementAttachment(stmt, parent), nil
			}
		}
		child = n
	}
	return Attachment{}, nil
}

// ifAttachment applies the if-condition rule. The binding is never visible
// in the else branch. It stays visible after the if when there is no else
// branch or the else branch cannot fall through.
func ifAttachment(n *ast.IfStatement, parent ast.Node) Attachment {
	var excluded ast.Node
	if n.Alternative != nil {
		excluded = n.Alternative
	}
	if n.Alternative == nil || !ast.CanCompleteNormally(n.Alternative) {
		if hasStatementList(parent) {
			return Attachment{Scope: parent, Start: n, Excluded: excluded}
		}
	}
	return Attachment{Scope: n, Excluded: excluded}
}

func statementAttachment(stmt ast.Statement, parent ast.Node) Attachment {
	if hasStatementList(parent) {
		return Attachment{Scope: parent, Start: stmt}
	}
	if f, ok := parent.(*ast.ForStatement); ok {
		return Attachment{Scope: f}
	}
	return Attachment{Scope: stmt}
}

func hasStatementList(n ast.Node) bool {
	_, ok := statementList(n)
	return ok
}

func statementList(n ast.Node) ([]ast.Statement, bool) {
	switch n := n.(type) {
	case *ast.BlockStatement:
		return n.Statements, true
	case *ast.SwitchSection:
		return n.Statements, true
	case *ast.Program:
		return n.Statements, true
	}
	return nil, false
}

// Lookup returns the innermost binding called name that is visible at a use
// site whose ancestors, outermost first, are path.
func (r *Resolver) Lookup(name string, path []ast.Node) (*Binding, bool) {
	return r.lookup(name, path, nil)
}

func (r *Resolver) lookup(name string, path []ast.Node, self *Binding) (*Binding, bool) {
	ancestors := set.From(path)
	var best *Binding
	bestDepth := -1
	for _, b := range r.byName[name] {
		if b == self || !ancestors.Contains(b.Scope) {
			continue
		}
		if !visible(b, path, ancestors) {
			continue
		}
		if d := indexOf(path, b.Scope); d > bestDepth {
			best, bestDepth = b, d
		}
	}
	return best, best != nil
}

// IsVisible reports whether b can be referenced at a use site with the
// given ancestors.
func (r *Resolver) IsVisible(b *Binding, path []ast.Node) bool {
	ancestors := set.From(path)
	return ancestors.Contains(b.Scope) && visible(b, path, ancestors)
}

func visible(b *Binding, path []ast.Node, ancestors *set.Set[ast.Node]) bool {
	if b.Excluded != nil && ancestors.Contains(b.Excluded) {
		return false
	}
	if b.Start == nil {
		return true
	}
	idx := indexOf(path, b.Scope)
	if idx+1 >= len(path) {
		return false
	}
	stmts, _ := statementList(b.Scope)
	use := indexOfStatement(stmts, path[idx+1])
	start := indexOfStatement(stmts, b.Start)
	return use >= 0 && start >= 0 && use >= start
}

func indexOf(path []ast.Node, n ast.Node) int {
	for i, p := range path {
		if p == n {
			return i
		}
	}
	return -1
}

func indexOfStatement(stmts []ast.Statement, n ast.Node) int {
	for i, s := range stmts {
		if ast.Node(s) == n {
			return i
		}
	}
	return -1
}
