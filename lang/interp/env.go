package interp

import (
	"maps"
	"slices"

	"github.com/ardnew/tjlang/lang/value"
)

// Env is one scope of the environment chain. Lookups walk outward through
// parent scopes.
type Env struct {
	parent *Env
	vars   map[string]value.Value
}

// NewEnv returns an empty scope nested in parent, which may be nil.
func NewEnv(parent *Env) *Env {
	return &Env{parent: parent, vars: make(map[string]value.Value)}
}

// Define binds name in this scope, shadowing any outer binding.
func (e *Env) Define(name string, v value.Value) { e.vars[name] = v }

// Lookup returns the innermost binding of name.
func (e *Env) Lookup(name string) (value.Value, bool) {
	for s := e; s != nil; s = s.parent {
		if v, ok := s.vars[name]; ok {
			return v, true
		}
	}

	return nil, false
}

// Assign rebinds name in the innermost scope that defines it. It reports
// false when no scope does.
func (e *Env) Assign(name string, v value.Value) bool {
	for s := e; s != nil; s = s.parent {
		if _, ok := s.vars[name]; ok {
			s.vars[name] = v

			return true
		}
	}

	return false
}

// Names returns every visible name, sorted.
func (e *Env) Names() []string {
	seen := make(map[string]bool)

	for s := e; s != nil; s = s.parent {
		for n := range s.vars {
			seen[n] = true
		}
	}

	return slices.Sorted(maps.Keys(seen))
}

// Snapshot returns a deep copy of the scope chain. Closures reachable from
// any binding are rebound to the copied chain, so nothing in the snapshot
// aliases storage of the original.
func (e *Env) Snapshot() *Env {
	s := snapshot{
		envs:     make(map[*Env]*Env),
		closures: make(map[*value.Closure]*value.Closure),
	}

	return s.env(e)
}

type snapshot struct {
	envs     map[*Env]*Env
	closures map[*value.Closure]*value.Closure
}

func (s *snapshot) env(e *Env) *Env {
	if e == nil {
		return nil
	}

	if c, ok := s.envs[e]; ok {
		return c
	}

	c := &Env{vars: make(map[string]value.Value, len(e.vars))}
	s.envs[e] = c
	c.parent = s.env(e.parent)

	for n, v := range e.vars {
		c.vars[n] = value.CopyWith(v, s.closure)
	}

	return c
}

func (s *snapshot) closure(c *value.Closure) value.Value {
	if d, ok := s.closures[c]; ok {
		return d
	}

	d := &value.Closure{Lambda: c.Lambda, Env: c.Env}
	s.closures[c] = d

	if env, ok := c.Env.(*Env); ok {
		d.Env = s.env(env)
	}

	return d
}
