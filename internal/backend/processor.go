package backend

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/gb714us/csharplang/internal/diagnostics"
	"github.com/gb714us/csharplang/internal/evaluator"
	"github.com/gb714us/csharplang/internal/pipeline"
	"github.com/gb714us/csharplang/internal/token"
)

// ExecutionProcessor runs a Backend as the last pipeline stage.
type ExecutionProcessor struct {
	Backend Backend
}

// NewExecutionProcessor creates a new pipeline step for the given backend
func NewExecutionProcessor(b Backend) *ExecutionProcessor {
	return &ExecutionProcessor{Backend: b}
}

func (p *ExecutionProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	// A program with static errors is never run.
	if ctx.AstRoot == nil || len(ctx.Errors) > 0 {
		return ctx
	}

	env, err := p.Backend.Run(ctx)
	ctx.Environment = env
	if err != nil {
		p.handleError(ctx, err)
	}
	return ctx
}

func (p *ExecutionProcessor) handleError(ctx *pipeline.PipelineContext, err error) {
	var tok token.Token
	msg := err.Error()

	var runtimeErr *evaluator.Error
	if errors.As(err, &runtimeErr) {
		tok = token.Token{Line: runtimeErr.Line, Column: runtimeErr.Column}
		msg = runtimeErr.Message
	}
	msg = strings.TrimPrefix(msg, "runtime error: ")

	diag := diagnostics.NewError(diagnostics.ErrR001, tok, msg)
	diag.File = ctx.FilePath
	ctx.Errors = append(ctx.Errors, diag)
}
