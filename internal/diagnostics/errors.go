package diagnostics

import (
	"fmt"
	"sort"

	"github.com/gb714us/csharplang/internal/token"
)

type ErrorCode string

// Tuple subsystem errors. Every code is a static diagnostic local to the
// syntax node that produced it.
const (
	ErrT001 ErrorCode = "T001" // malformed tuple construction
	ErrT002 ErrorCode = "T002" // no conversion
	ErrT003 ErrorCode = "T003" // deconstruction arity mismatch
	ErrT004 ErrorCode = "T004" // element-name mismatch
	ErrT005 ErrorCode = "T005" // deconstructor not found
	ErrT006 ErrorCode = "T006" // deconstructor ambiguous
	ErrT007 ErrorCode = "T007" // illegal declaration position
	ErrT008 ErrorCode = "T008" // name not found in scope
	ErrT009 ErrorCode = "T009" // invalid deconstruction target
	ErrT010 ErrorCode = "T010" // name already defined
	ErrT011 ErrorCode = "T011" // cannot infer type
	ErrT012 ErrorCode = "T012" // deconstructing assignment used as a value
	ErrT013 ErrorCode = "T013" // no such element or member
	ErrT014 ErrorCode = "T014" // argument count mismatch
)

// Declaration and call errors outside the tuple subsystem.
const (
	ErrA001 ErrorCode = "A001" // duplicate declaration
	ErrA002 ErrorCode = "A002" // bad argument passing mode
)

// Runtime errors, reported when a checked program is executed.
const (
	ErrR001 ErrorCode = "R001"
)

// Syntax errors.
const (
	ErrP001 ErrorCode = "P001" // unexpected token
	ErrP002 ErrorCode = "P002" // expected token
	ErrP003 ErrorCode = "P003" // illegal character or literal
)

var errorMessages = map[ErrorCode]string{
	ErrT001: "malformed tuple: %s",
	ErrT002: "cannot convert %s to %s",
	ErrT003: "cannot deconstruct %d elements into %d targets",
	ErrT004: "element name mismatch: target named '%s' but element %d is '%s'",
	ErrT005: "no deconstructor for %s with %d outputs",
	ErrT006: "ambiguous deconstructor for %s with %d outputs: %s",
	ErrT007: "%s cannot be declared inside a constructor initializer",
	ErrT008: "name '%s' does not exist in the current context",
	ErrT009: "invalid deconstruction target: %s",
	ErrT010: "a local named '%s' is already defined in this scope",
	ErrT011: "cannot infer the type of '%s'",
	ErrT012: "deconstructing assignment has no value",
	ErrT013: "%s does not contain a member named '%s'",
	ErrT014: "%s takes %d arguments, got %d",

	ErrA001: "'%s' is already declared",
	ErrA002: "argument %d of %s %s",

	ErrR001: "runtime error: %s",

	ErrP001: "unexpected %s",
	ErrP002: "expected %s, got %s",
	ErrP003: "illegal %s",
}

// DiagnosticError is a static diagnostic attached to a source token.
type DiagnosticError struct {
	Code  ErrorCode
	Token token.Token
	File  string
	Args  []interface{}
}

// NewError creates a diagnostic for the given code at tok.
func NewError(code ErrorCode, tok token.Token, args ...interface{}) *DiagnosticError {
	return &DiagnosticError{Code: code, Token: tok, Args: args}
}

// Message returns the formatted message without position or code.
func (e *DiagnosticError) Message() string {
	format, ok := errorMessages[e.Code]
	if !ok {
		return fmt.Sprint(e.Args...)
	}
	return fmt.Sprintf(format, e.Args...)
}

func (e *DiagnosticError) Error() string {
	pos := ""
	if e.Token.HasPosition() {
		pos = fmt.Sprintf(" at %d:%d", e.Token.Line, e.Token.Column)
	}
	if e.File != "" {
		return fmt.Sprintf("%s: error [%s]%s: %s", e.File, e.Code, pos, e.Message())
	}
	return fmt.Sprintf("error [%s]%s: %s", e.Code, pos, e.Message())
}

// Sort orders diagnostics by position; diagnostics without a position keep
// their relative order after positioned ones.
func Sort(errs []*DiagnosticError) {
	sort.SliceStable(errs, func(i, j int) bool {
		a, b := errs[i].Token, errs[j].Token
		if a.HasPosition() != b.HasPosition() {
			return a.HasPosition()
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Column < b.Column
	})
}

// HasCode reports whether any diagnostic carries the given code.
func HasCode(errs []*DiagnosticError, code ErrorCode) bool {
	for _, e := range errs {
		if e.Code == code {
			return true
		}
	}
	return false
}
