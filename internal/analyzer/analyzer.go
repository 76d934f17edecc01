package analyzer

import (
	"fmt"
	"sort"

	"github.com/gb714us/csharplang/internal/ast"
	"github.com/gb714us/csharplang/internal/conversions"
	"github.com/gb714us/csharplang/internal/deconstruct"
	"github.com/gb714us/csharplang/internal/diagnostics"
	"github.com/gb714us/csharplang/internal/dispatch"
	"github.com/gb714us/csharplang/internal/scope"
	"github.com/gb714us/csharplang/internal/symbols"
	"github.com/gb714us/csharplang/internal/typesystem"
)

// Analyzer performs semantic analysis on the AST: it declares the classes of
// a program in the symbol table, types every expression, lowers every
// deconstruction and attaches every inline-declared variable to its scope.
type Analyzer struct {
	symbolTable *symbols.SymbolTable

	TypeMap     map[ast.Expression]typesystem.Type      // Stores inferred types
	Conversions map[ast.Expression]conversions.Conversion // Implicit conversions applied to expressions
	Plans       map[ast.Node]*deconstruct.Plan           // Deconstruction plans by assignment or foreach
	Calls       map[ast.Expression]*symbols.Method       // Method each call or object creation binds to
	Shapes      map[*ast.PositionalPattern]*deconstruct.Shape
	Resolutions map[*ast.Identifier]*scope.Binding
	Resolver    *scope.Resolver

	// classes and members map declarations to what the headers pass
	// registered for them, so bodies know their signatures.
	classes map[*ast.ClassDeclaration]*symbols.TypeInfo
	members map[ast.Node]*symbols.Method
	// failed holds the expressions left untyped by an error reported
	// while inferring them.
	failed map[ast.Expression]bool
}

// New creates a new Analyzer with a given symbol table.
func New(symbolTable *symbols.SymbolTable) *Analyzer {
	return &Analyzer{
		symbolTable: symbolTable,
		TypeMap:     make(map[ast.Expression]typesystem.Type),
		Conversions: make(map[ast.Expression]conversions.Conversion),
		Plans:       make(map[ast.Node]*deconstruct.Plan),
		Calls:       make(map[ast.Expression]*symbols.Method),
		Shapes:      make(map[*ast.PositionalPattern]*deconstruct.Shape),
		Resolutions: make(map[*ast.Identifier]*scope.Binding),
		Resolver:    scope.NewResolver(),
		classes:     make(map[*ast.ClassDeclaration]*symbols.TypeInfo),
		members:     make(map[ast.Node]*symbols.Method),
		failed:      make(map[ast.Expression]bool),
	}
}

// Bindings returns every variable attached so far.
func (a *Analyzer) Bindings() []*scope.Binding {
	return a.Resolver.Bindings()
}

type AnalysisMode int

const (
	ModeHeaders AnalysisMode = iota // Pass 1: classes, fields and method signatures
	ModeBodies                      // Pass 2: bodies, initializers and top-level statements
)

type walker struct {
	*Analyzer
	errorSet    map[string]*diagnostics.DiagnosticError // Key: "line:col:code" for deduplication
	mode        AnalysisMode
	currentFile string // Current file being analyzed (for error reporting)

	// path holds the ancestors of the node being analyzed, outermost first.
	path []ast.Node

	class    *symbols.TypeInfo // enclosing class, nil at top level
	inStatic bool
	// result is the type a return statement converts to; nil outside
	// members, where returns are not checked.
	result typesystem.Type

	conversions *conversions.Classifier
	lowerer     *deconstruct.Lowerer
}

// addError adds an error to the walker, deduplicating by position and code
func (w *walker) addError(err *diagnostics.DiagnosticError) {
	if err.File == "" && w.currentFile != "" {
		err.File = w.currentFile
	}
	key := fmt.Sprintf("%d:%d:%s", err.Token.Line, err.Token.Column, err.Code)
	if w.errorSet == nil {
		w.errorSet = make(map[string]*diagnostics.DiagnosticError)
	}
	if _, seen := w.errorSet[key]; !seen {
		w.errorSet[key] = err
	}
}

// addErrors adds multiple errors to the walker
func (w *walker) addErrors(errs []*diagnostics.DiagnosticError) {
	for _, err := range errs {
		w.addError(err)
	}
}

// getErrors returns all unique errors as a slice, sorted by position
func (w *walker) getErrors() []*diagnostics.DiagnosticError {
	result := make([]*diagnostics.DiagnosticError, 0, len(w.errorSet))
	for _, err := range w.errorSet {
		result = append(result, err)
	}
	sort.Slice(result, func(i, j int) bool {
		a, b := result[i].Token, result[j].Token
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		if a.Column != b.Column {
			return a.Column < b.Column
		}
		return result[i].Code < result[j].Code
	})
	return result
}

func (w *walker) push(n ast.Node) { w.path = append(w.path, n) }
func (w *walker) pop()            { w.path = w.path[:len(w.path)-1] }

// pathTo returns the current path extended with nodes, as a fresh slice.
func (w *walker) pathTo(nodes ...ast.Node) []ast.Node {
	out := make([]ast.Node, 0, len(w.path)+len(nodes))
	out = append(out, w.path...)
	return append(out, nodes...)
}

// AnalyzeHeaders declares the classes of program and their members.
func (a *Analyzer) AnalyzeHeaders(program *ast.Program) []*diagnostics.DiagnosticError {
	w := &walker{Analyzer: a, mode: ModeHeaders, currentFile: program.File}
	program.Accept(w)
	return w.getErrors()
}

// AnalyzeBodies analyzes member bodies and top-level statements. Every
// deconstructor must be declared before it runs.
func (a *Analyzer) AnalyzeBodies(program *ast.Program) []*diagnostics.DiagnosticError {
	classifier := conversions.New(a.symbolTable)
	w := &walker{
		Analyzer:    a,
		mode:        ModeBodies,
		currentFile: program.File,
		conversions: classifier,
		lowerer:     deconstruct.New(dispatch.New(a.symbolTable, nil), classifier),
	}
	program.Accept(w)
	return w.getErrors()
}

// Analyze runs both passes over program.
func (a *Analyzer) Analyze(program *ast.Program) []*diagnostics.DiagnosticError {
	errs := a.AnalyzeHeaders(program)
	errs = append(errs, a.AnalyzeBodies(program)...)
	diagnostics.Sort(errs)
	return errs
}
