// Package backend executes checked programs.
package backend

import (
	"github.com/gb714us/csharplang/internal/evaluator"
	"github.com/gb714us/csharplang/internal/pipeline"
)

// Backend is the interface for execution backends
type Backend interface {
	// Run executes the top-level statements of the analyzed program and
	// returns the environment they ran in.
	Run(ctx *pipeline.PipelineContext) (*evaluator.Environment, error)

	// Name returns the backend name for display
	Name() string
}
