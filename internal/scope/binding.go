// Package scope attaches inline-declared variables (out variables, pattern
// variables, deconstruction declarations) to the syntax node that governs
// their scope, and resolves names against those attachments.
package scope

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/gb714us/csharplang/internal/ast"
	"github.com/gb714us/csharplang/internal/typesystem"
)

// Kind records how a binding was introduced.
type Kind uint8

const (
	Local          Kind = iota // local declaration statement
	OutVar                     // out argument declaration
	Pattern                    // pattern variable
	Deconstruction             // deconstructing declaration element
	Parameter                  // method or constructor parameter
	Range                      // query range variable
)

var kindNames = [...]string{
	Local:          "local",
	OutVar:         "out variable",
	Pattern:        "pattern variable",
	Deconstruction: "deconstruction variable",
	Parameter:      "parameter",
	Range:          "range variable",
}

func (k Kind) String() string { return kindNames[k] }

// Attachment is where a binding is visible: inside Scope, from Start on when
// Scope holds a statement list, and never inside Excluded.
type Attachment struct {
	Scope    ast.Node
	Start    ast.Statement
	Excluded ast.Node
}

// Binding is a declared variable. The ID is stable for the lifetime of the
// binding and lets later passes key their facts by variable.
type Binding struct {
	ID   uuid.UUID
	Name string
	Type typesystem.Type
	Kind Kind
	// Node is the syntax that introduced the binding.
	Node ast.Node
	Attachment
}

// NewBinding returns an unattached binding with a fresh ID.
func NewBinding(name string, t typesystem.Type, kind Kind, node ast.Node) *Binding {
	return &Binding{ID: uuid.New(), Name: name, Type: t, Kind: kind, Node: node}
}

func (b *Binding) String() string {
	return fmt.Sprintf("%s %s: %s", b.Kind, b.Name, b.Type)
}

// ErrorKind distinguishes attachment failures.
type ErrorKind int

const (
	IllegalPosition ErrorKind = iota
	Redeclared
)

// Error reports a binding that cannot be attached.
type Error struct {
	Kind    ErrorKind
	Binding *Binding
	// Previous is the visible binding a redeclaration collides with.
	Previous *Binding
}

func (e *Error) Error() string {
	if e.Kind == Redeclared {
		return fmt.Sprintf("a local named '%s' is already defined in this scope", e.Binding.Name)
	}
	return fmt.Sprintf("%s '%s' cannot be declared inside a constructor initializer", e.Binding.Kind, e.Binding.Name)
}
