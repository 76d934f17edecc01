package evaluator

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/gb714us/csharplang/internal/deconstruct"
)

// EventKind classifies trace events.
type EventKind int

const (
	EventRead EventKind = iota
	EventCall
	EventDeconstruct
	EventStore
)

var eventNames = [...]string{
	EventRead:        "read",
	EventCall:        "call",
	EventDeconstruct: "deconstruct",
	EventStore:       "store",
}

// Event is one observable step of execution. Value is the value as it
// printed when the step ran; later stores into the same array or instance
// do not change it.
type Event struct {
	Kind  EventKind
	Name  string
	Value string
}

func (ev Event) String() string {
	if ev.Kind == EventDeconstruct {
		return fmt.Sprintf("%s %s", eventNames[ev.Kind], ev.Name)
	}
	return fmt.Sprintf("%s %s = %s", eventNames[ev.Kind], ev.Name, ev.Value)
}

func (e *Evaluator) record(kind EventKind, name string, val Object) {
	ev := Event{Kind: kind, Name: name}
	if val != nil {
		ev.Value = val.Inspect()
	}
	e.Trace = append(e.Trace, ev)
}

// TraceString renders the trace one event per line.
func (e *Evaluator) TraceString() string {
	var sb strings.Builder
	for _, ev := range e.Trace {
		sb.WriteString(ev.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Frame is the state of one plan execution.
type Frame struct {
	Temps []Object
	// Input is the value of EvalSource ops without an expression.
	Input Object
	// Matched is false when a conditional deconstructor declined, in which
	// case execution stopped before any store.
	Matched bool
}

// Exec runs plan in env.
func (e *Evaluator) Exec(plan *deconstruct.Plan, env *Environment) (*Frame, error) {
	return e.ExecInput(plan, env, nil)
}

// ExecInput runs plan in env with input bound to expression-less sources.
func (e *Evaluator) ExecInput(plan *deconstruct.Plan, env *Environment, input Object) (*Frame, error) {
	f := &Frame{Temps: make([]Object, plan.Temps()), Input: input, Matched: true}
	for _, op := range plan.Ops {
		if e.Context != nil {
			if err := e.Context.Err(); err != nil {
				return f, err
			}
		}
		if err := e.step(f, op, env); err != nil {
			return f, err
		}
		if !f.Matched {
			return f, nil
		}
	}
	return f, nil
}

func (e *Evaluator) step(f *Frame, op deconstruct.Op, env *Environment) error {
	switch op.Kind {
	case deconstruct.EvalSource, deconstruct.EvalLocation:
		if op.Expr == nil {
			if f.Input == nil {
				return newError("plan reads an input but none was given")
			}
			f.Temps[op.Dest] = f.Input
			return nil
		}
		val := e.Eval(op.Expr, env)
		if isError(val) {
			return val.(*Error)
		}
		f.Temps[op.Dest] = val

	case deconstruct.Project:
		tup, ok := f.Temps[op.Src].(*Tuple)
		if !ok {
			return newError("cannot project element %d of %s", op.Index, f.Temps[op.Src].Inspect())
		}
		val, ok := tup.Item(op.Index)
		if !ok {
			return newError("tuple %s has no element %d", tup.Inspect(), op.Index)
		}
		f.Temps[op.Dest] = val

	case deconstruct.Deconstruct:
		outs, ok, err := e.deconstruct(op, f.Temps[op.Src])
		if err != nil {
			return err
		}
		e.record(EventDeconstruct, op.Contract.Method.Signature(), nil)
		if !ok {
			f.Matched = false
			return nil
		}
		for i, d := range op.Dests {
			f.Temps[d] = outs[i]
		}

	case deconstruct.Convert:
		val, err := Convert(f.Temps[op.Src], op.Conversion, op.Type)
		if err != nil {
			return err
		}
		f.Temps[op.Dest] = val

	case deconstruct.Assign:
		return e.assign(f, op, env)

	case deconstruct.Declare:
		val := f.Temps[op.Src]
		if err := env.Declare(op.Target.Name, op.Type, val); err != nil {
			return err
		}
		e.record(EventStore, op.Target.Name, val)
	}
	return nil
}

func (e *Evaluator) deconstruct(op deconstruct.Op, recv Object) ([]Object, bool, error) {
	if recv == nil || recv == NULL {
		return nil, false, newError("cannot deconstruct null")
	}
	if fn, ok := e.Deconstructors[op.Contract.Method.Signature()]; ok {
		outs, matched := fn(recv)
		if matched && len(outs) != len(op.Dests) {
			return nil, false, newError("%s produced %d values, want %d", op.Contract.Method.Signature(), len(outs), len(op.Dests))
		}
		return outs, matched, nil
	}

	inst, ok := recv.(*Instance)
	if !ok {
		return nil, false, newError("no implementation for %s", op.Contract.Method.Signature())
	}
	outs := make([]Object, len(op.Contract.Names))
	for i, name := range op.Contract.Names {
		field, ok := fieldName(inst, name)
		if !ok {
			return nil, false, newError("%s has no field for output '%s'", inst.TypeName, name)
		}
		outs[i] = inst.Fields[field]
	}
	return outs, true, nil
}

// fieldName finds the field backing a deconstructor output or constructor
// parameter: the name itself, or the same name capitalized.
func fieldName(inst *Instance, name string) (string, bool) {
	if _, ok := inst.Fields[name]; ok {
		return name, true
	}
	r, size := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError {
		return "", false
	}
	upper := string(unicode.ToUpper(r)) + name[size:]
	_, ok := inst.Fields[upper]
	return upper, ok
}

func (e *Evaluator) assign(f *Frame, op deconstruct.Op, env *Environment) error {
	val := f.Temps[op.Src]
	t := op.Target
	loc := t.Location
	if loc == nil || loc.Kind == deconstruct.Variable {
		if !env.Update(t.Name, val) {
			return newError("undefined variable '%s'", t.Name)
		}
		e.record(EventStore, t.Name, val)
		return nil
	}

	recv := f.Temps[op.ReceiverTemp]
	switch loc.Kind {
	case deconstruct.Field, deconstruct.Property:
		inst, ok := recv.(*Instance)
		if !ok {
			return newError("cannot set '%s' on %s", t.Name, recv.Inspect())
		}
		inst.Fields[t.Name] = val
	case deconstruct.Indexer:
		arr, ok := recv.(*Array)
		if !ok {
			return newError("cannot index %s", recv.Inspect())
		}
		i, ok := f.Temps[op.IndexTemp].(*Integer)
		if !ok || i.Value < 0 || i.Value >= int64(len(arr.Elements)) {
			return newError("index %s out of range", f.Temps[op.IndexTemp].Inspect())
		}
		arr.Elements[i.Value] = val
	}
	e.record(EventStore, t.Name, val)
	return nil
}
