package pipeline

import (
	"github.com/gb714us/csharplang/internal/ast"
	"github.com/gb714us/csharplang/internal/conversions"
	"github.com/gb714us/csharplang/internal/deconstruct"
	"github.com/gb714us/csharplang/internal/diagnostics"
	"github.com/gb714us/csharplang/internal/evaluator"
	"github.com/gb714us/csharplang/internal/scope"
	"github.com/gb714us/csharplang/internal/symbols"
	"github.com/gb714us/csharplang/internal/token"
	"github.com/gb714us/csharplang/internal/typesystem"
)

// Processor is one stage of the pipeline.
type Processor interface {
	Process(ctx *PipelineContext) *PipelineContext
}

// PipelineContext carries a source file through lexing, parsing and
// analysis. Each stage reads what the previous ones produced and appends
// its diagnostics to Errors.
type PipelineContext struct {
	FilePath    string
	SourceCode  string
	TokenStream []token.Token
	AstRoot     *ast.Program
	Errors      []*diagnostics.DiagnosticError

	// Symbols is the world the source is analyzed against. Classes declared
	// in the source are added to it. A nil table is replaced by one that
	// holds only the prelude.
	Symbols *symbols.SymbolTable

	// Analysis results.
	TypeMap     map[ast.Expression]typesystem.Type
	Conversions map[ast.Expression]conversions.Conversion
	Plans       map[ast.Node]*deconstruct.Plan
	Calls       map[ast.Expression]*symbols.Method
	Shapes      map[*ast.PositionalPattern]*deconstruct.Shape
	Bindings    []*scope.Binding
	Resolutions map[*ast.Identifier]*scope.Binding

	// Environment holds the top-level variables after execution.
	Environment *evaluator.Environment
}

func NewPipelineContext(sourceCode string) *PipelineContext {
	return &PipelineContext{SourceCode: sourceCode}
}
