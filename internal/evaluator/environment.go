package evaluator

import (
	"sync"

	"golang.org/x/exp/slices"

	"github.com/gb714us/csharplang/internal/typesystem"
)

type slot struct {
	value Object
	typ   typesystem.Type
}

func NewEnvironment() *Environment {
	return &Environment{store: make(map[string]*slot)}
}

func NewEnclosedEnvironment(outer *Environment) *Environment {
	env := NewEnvironment()
	env.outer = outer
	return env
}

// Environment maps variable names to values. Declarations go into the
// innermost environment; assignments update the nearest enclosing one that
// declares the name.
type Environment struct {
	mu    sync.RWMutex
	store map[string]*slot
	outer *Environment
}

func (e *Environment) Get(name string) (Object, bool) {
	_, s, ok := e.lookup(name)
	if !ok {
		return nil, false
	}
	return s.value, true
}

// TypeOf returns the declared type of name, nil if it was declared untyped.
func (e *Environment) TypeOf(name string) (typesystem.Type, bool) {
	_, s, ok := e.lookup(name)
	if !ok {
		return nil, false
	}
	return s.typ, true
}

// lookup returns the slot of name and the environment that owns it.
func (e *Environment) lookup(name string) (*Environment, *slot, bool) {
	e.mu.RLock()
	s, ok := e.store[name]
	e.mu.RUnlock()
	if !ok && e.outer != nil {
		return e.outer.lookup(name)
	}
	return e, s, ok
}

// Declare introduces name in this environment. It fails if name is already
// declared here.
func (e *Environment) Declare(name string, t typesystem.Type, val Object) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.store[name]; ok {
		return newError("'%s' is already declared", name)
	}
	e.store[name] = &slot{value: val, typ: t}
	return nil
}

// Set declares or overwrites name in this environment.
func (e *Environment) Set(name string, val Object) Object {
	e.mu.Lock()
	e.store[name] = &slot{value: val}
	e.mu.Unlock()
	return val
}

// Update assigns to an existing variable, searching outward.
func (e *Environment) Update(name string, val Object) bool {
	owner, s, ok := e.lookup(name)
	if !ok {
		return false
	}
	owner.mu.Lock()
	s.value = val
	owner.mu.Unlock()
	return true
}

// Names returns the names declared in this environment, sorted.
func (e *Environment) Names() []string {
	e.mu.RLock()
	names := make([]string, 0, len(e.store))
	for name := range e.store {
		names = append(names, name)
	}
	e.mu.RUnlock()
	slices.Sort(names)
	return names
}
