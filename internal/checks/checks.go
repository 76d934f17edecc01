// Package checks evaluates the conversion and deconstruction checks of a
// world file against its symbol table.
package checks

import (
	"github.com/pkg/errors"

	"github.com/gb714us/csharplang/internal/config"
	"github.com/gb714us/csharplang/internal/conversions"
	"github.com/gb714us/csharplang/internal/dispatch"
	"github.com/gb714us/csharplang/internal/symbols"
)

// Printed results of a failed deconstructor lookup.
const (
	NotFound  = "not found"
	Ambiguous = "ambiguous"
)

// Result is the outcome of one check. Err is set when the check's types
// could not be read; Got is empty then.
type Result struct {
	Check config.Check
	Got   string
	Err   error
}

// Passed reports whether the check produced the expected result.
func (r Result) Passed() bool {
	return r.Err == nil && r.Got == r.Check.Expect
}

// Runner evaluates checks against one symbol table.
type Runner struct {
	symbols     *symbols.SymbolTable
	conversions *conversions.Classifier
	dispatcher  *dispatch.Dispatcher
}

func NewRunner(st *symbols.SymbolTable) *Runner {
	return &Runner{
		symbols:     st,
		conversions: conversions.New(st),
		dispatcher:  dispatch.New(st, nil),
	}
}

// Run evaluates every check in order.
func (r *Runner) Run(checks []config.Check) []Result {
	results := make([]Result, len(checks))
	for i, c := range checks {
		got, err := r.eval(c)
		results[i] = Result{Check: c, Got: got, Err: err}
	}
	return results
}

func (r *Runner) eval(c config.Check) (string, error) {
	if c.IsConversion() {
		from, err := r.symbols.ParseType(c.From)
		if err != nil {
			return "", errors.Wrap(err, "from")
		}
		to, err := r.symbols.ParseType(c.To)
		if err != nil {
			return "", errors.Wrap(err, "to")
		}
		return r.conversions.Classify(from, to).String(), nil
	}

	t, err := r.symbols.ParseType(c.Deconstruct)
	if err != nil {
		return "", errors.Wrap(err, "deconstruct")
	}
	contract, err := r.dispatcher.Resolve(t, c.Arity)
	if err == nil {
		return contract.Candidate.String(), nil
	}
	var derr *dispatch.Error
	if !errors.As(err, &derr) {
		return "", err
	}
	if derr.Kind == dispatch.Ambiguous {
		return Ambiguous, nil
	}
	return NotFound, nil
}

// Failed returns the results that did not pass.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Passed() {
			failed = append(failed, r)
		}
	}
	return failed
}
