// Package dispatch finds the deconstructor a non-tuple type offers for a
// requested number of outputs.
//
// A deconstructor is any instance or extension method named Deconstruct whose
// parameters (after the receiver of an extension) are all out parameters and
// whose result is void, or bool for a conditional deconstructor used by
// patterns. Candidates are indexed by output count, so a type can gain
// deconstructors of new arities without disturbing existing callers.
package dispatch

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/exp/slices"

	"github.com/gb714us/csharplang/internal/config"
	"github.com/gb714us/csharplang/internal/conversions"
	"github.com/gb714us/csharplang/internal/symbols"
	"github.com/gb714us/csharplang/internal/typesystem"
)

// Candidate is a deconstructor applicable to a type for a requested arity,
// with its receiver and outputs instantiated for that type.
type Candidate struct {
	Method   *symbols.Method
	Receiver typesystem.Type
	Outputs  []typesystem.Type
	Names    []string
	// Level orders instance candidates by declaring type, 0 for the nearest
	// one and increasing toward object. Extension candidates have level -1.
	Level int
}

// IsExtension reports whether the candidate is an extension method.
func (c Candidate) IsExtension() bool { return c.Method.IsExtension }

// IsConditional reports whether the candidate returns success or failure.
func (c Candidate) IsConditional() bool {
	return typesystem.Identical(c.Method.ResultOrVoid(), typesystem.Bool)
}

func (c Candidate) String() string { return c.Method.Signature() }

// Contract is the resolved deconstructor for a (type, arity) pair.
type Contract struct {
	Candidate
	Type typesystem.Type
}

// Arity is the number of outputs the contract supplies.
func (c *Contract) Arity() int { return len(c.Outputs) }

// Shape returns the element types and names the contract supplies, the
// synthetic tuple shape used to match deconstruction targets.
func (c *Contract) Shape() ([]typesystem.Type, []string) {
	return c.Outputs, c.Names
}

// ErrorKind distinguishes dispatch failures.
type ErrorKind int

const (
	NotFound ErrorKind = iota
	Ambiguous
)

// Error is returned by Resolve when no single deconstructor applies.
type Error struct {
	Kind       ErrorKind
	Type       typesystem.Type
	Arity      int
	Candidates []Candidate
}

func (e *Error) Error() string {
	if e.Kind == Ambiguous {
		sigs := make([]string, len(e.Candidates))
		for i, c := range e.Candidates {
			sigs[i] = c.String()
		}
		return fmt.Sprintf("ambiguous deconstructor for %s with %d outputs: %s", e.Type, e.Arity, strings.Join(sigs, ", "))
	}
	return fmt.Sprintf("no deconstructor for %s with %d outputs", e.Type, e.Arity)
}

// Ranker picks the most specific candidates from an applicable set. It
// stands in for general overload resolution: more than one result means
// the call is ambiguous.
type Ranker interface {
	Best(t typesystem.Type, candidates []Candidate) []Candidate
}

type cacheKey struct {
	typ   string
	arity int
}

// Dispatcher resolves deconstructor contracts against a symbol table.
// Results are cached per (type, arity); the table must not gain new
// deconstructors after the first Resolve.
type Dispatcher struct {
	symbols     *symbols.SymbolTable
	conversions *conversions.Classifier
	ranker      Ranker
	cache       map[cacheKey]cached
}

type cached struct {
	contract *Contract
	err      error
}

// New returns a Dispatcher. A nil ranker selects the SpecificityRanker.
func New(st *symbols.SymbolTable, ranker Ranker) *Dispatcher {
	conv := conversions.New(st)
	if ranker == nil {
		ranker = &SpecificityRanker{Conversions: conv}
	}
	return &Dispatcher{symbols: st, conversions: conv, ranker: ranker, cache: make(map[cacheKey]cached)}
}

// Resolve finds the deconstructor of t with the requested number of outputs.
// It returns a *Error when none or more than one is equally applicable.
func (d *Dispatcher) Resolve(t typesystem.Type, arity int) (*Contract, error) {
	key := cacheKey{typ: typesystem.Erase(t).String(), arity: arity}
	if hit, ok := d.cache[key]; ok {
		return hit.contract, hit.err
	}
	contract, err := d.resolve(t, arity)
	d.cache[key] = cached{contract: contract, err: err}
	return contract, err
}

func (d *Dispatcher) resolve(t typesystem.Type, arity int) (*Contract, error) {
	candidates := d.Candidates(t, arity)
	if len(candidates) == 0 {
		return nil, &Error{Kind: NotFound, Type: t, Arity: arity}
	}
	best := d.ranker.Best(t, candidates)
	switch len(best) {
	case 0:
		return nil, &Error{Kind: NotFound, Type: t, Arity: arity}
	case 1:
		return &Contract{Candidate: best[0], Type: t}, nil
	default:
		return nil, &Error{Kind: Ambiguous, Type: t, Arity: arity, Candidates: best}
	}
}

// Candidates returns the deconstructors of t with exactly arity outputs.
// Instance candidates come first; a candidate declared on a derived type
// hides a base candidate with the same outputs. Extension candidates are
// returned only when t has no instance candidate of that arity.
func (d *Dispatcher) Candidates(t typesystem.Type, arity int) []Candidate {
	typeName := typesystem.ConstructorName(t)
	if typeName == "" {
		return nil
	}
	var out []Candidate
	for level, group := range d.symbols.MethodsNamed(typeName, config.DeconstructMethodName) {
		var found []Candidate
		for _, m := range group {
			c, ok := d.instanceCandidate(m, t, typeName, arity)
			if !ok {
				continue
			}
			c.Level = level
			hidden := slices.ContainsFunc(out, func(prev Candidate) bool {
				return prev.Level < level && sameOutputs(prev.Outputs, c.Outputs)
			})
			if !hidden {
				found = append(found, c)
			}
		}
		out = append(out, found...)
	}
	if len(out) > 0 {
		return out
	}

	for i, m := range d.symbols.ExtensionMethods(config.DeconstructMethodName) {
		if c, ok := d.extensionCandidate(m, t, arity, strconv.Itoa(i)); ok {
			out = append(out, c)
		}
	}
	return out
}

func isDeconstructorShape(m *symbols.Method, params []symbols.Parameter, arity int) bool {
	if len(params) != arity {
		return false
	}
	for _, p := range params {
		if !p.IsOut {
			return false
		}
	}
	result := m.ResultOrVoid()
	return typesystem.Identical(result, typesystem.Void) || typesystem.Identical(result, typesystem.Bool)
}

func (d *Dispatcher) instanceCandidate(m *symbols.Method, t typesystem.Type, typeName string, arity int) (Candidate, bool) {
	if len(m.TypeParams) > 0 || !isDeconstructorShape(m, m.Params, arity) {
		return Candidate{}, false
	}
	receiver := typesystem.Type(typesystem.TCon{Name: m.Owner})
	subst := typesystem.Subst{}
	if m.Owner == typeName {
		receiver = t
		if app, ok := t.(typesystem.TApp); ok {
			subst = d.ownerSubst(m.Owner, app)
		}
	}
	outputs, names := outputsOf(m.Params, subst)
	return Candidate{Method: m, Receiver: receiver, Outputs: outputs, Names: names}, true
}

func (d *Dispatcher) ownerSubst(owner string, app typesystem.TApp) typesystem.Subst {
	subst := typesystem.Subst{}
	info, ok := d.symbols.FindType(owner)
	if !ok || len(info.TypeParams) != len(app.Args) {
		return subst
	}
	for i, p := range info.TypeParams {
		subst[p] = app.Args[i]
	}
	return subst
}

func (d *Dispatcher) extensionCandidate(m *symbols.Method, t typesystem.Type, arity int, suffix string) (Candidate, bool) {
	recv, ok := m.Receiver()
	if !ok || !isDeconstructorShape(m, m.OutParams(), arity) || len(m.CallParams()) != arity {
		return Candidate{}, false
	}
	subst := typesystem.Subst{}
	recvType := recv.Type
	if len(m.TypeParams) > 0 {
		rename := typesystem.Subst{}
		for _, p := range m.TypeParams {
			rename[p] = typesystem.TVar{Name: p + "_" + suffix}
		}
		recvType = recvType.Apply(rename)
		s, err := typesystem.Unify(recvType, t)
		if err != nil {
			return Candidate{}, false
		}
		subst = rename.Compose(s)
		recvType = recvType.Apply(s)
	} else {
		switch d.conversions.Classify(t, recvType).Kind {
		case conversions.Identity, conversions.ImplicitReference, conversions.Boxing:
		default:
			return Candidate{}, false
		}
	}
	outputs, names := outputsOf(m.OutParams(), subst)
	for _, o := range outputs {
		if len(o.FreeTypeVariables()) > 0 {
			// A type parameter not fixed by the receiver cannot be inferred.
			return Candidate{}, false
		}
	}
	return Candidate{Method: m, Receiver: recvType, Outputs: outputs, Names: names, Level: -1}, true
}

func outputsOf(params []symbols.Parameter, subst typesystem.Subst) ([]typesystem.Type, []string) {
	outputs := make([]typesystem.Type, len(params))
	names := make([]string, len(params))
	for i, p := range params {
		outputs[i] = p.Type.Apply(subst)
		names[i] = p.Name
	}
	return outputs, names
}

func sameOutputs(a, b []typesystem.Type) bool {
	return slices.EqualFunc(a, b, typesystem.Identical)
}
