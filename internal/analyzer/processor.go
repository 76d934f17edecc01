package analyzer

import (
	"github.com/gb714us/csharplang/internal/pipeline"
	"github.com/gb714us/csharplang/internal/symbols"
)

type SemanticAnalyzerProcessor struct{}

func (sap *SemanticAnalyzerProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.AstRoot == nil {
		return ctx
	}
	if ctx.Symbols == nil {
		ctx.Symbols = symbols.NewSymbolTable()
	}

	analyzer := New(ctx.Symbols)
	errors := analyzer.Analyze(ctx.AstRoot)

	ctx.TypeMap = analyzer.TypeMap
	ctx.Conversions = analyzer.Conversions
	ctx.Plans = analyzer.Plans
	ctx.Calls = analyzer.Calls
	ctx.Shapes = analyzer.Shapes
	ctx.Bindings = analyzer.Bindings()
	ctx.Resolutions = analyzer.Resolutions

	if len(errors) > 0 {
		ctx.Errors = append(ctx.Errors, errors...)
	}
	return ctx
}
