// Package scope implements bconf's lexical variable-scope chain
// (spec.md §3, §4.2): each object block pushes a child scope, and
// variable lookup walks parent links until a binding is found.
package scope

import "github.com/bconf-lang/bconf/value"

// Scope is one variable-binding frame. Scopes nest lexically around
// object blocks; Parent is nil only for the root scope.
type Scope struct {
	Variables map[string]value.Value
	Parent    *Scope
}

// New creates a Scope with the given parent. Pass nil to create a
// root scope.
func New(parent *Scope) *Scope {
	return &Scope{
		Variables: make(map[string]value.Value),
		Parent:    parent,
	}
}

// Lookup searches this scope and then each parent in turn, so that
// the nearest binding up the chain wins and no sibling or child
// binding is ever visible (spec.md §8 invariants).
func (s *Scope) Lookup(name string) (value.Value, bool) {
	if v, ok := s.Variables[name]; ok {
		return v, true
	}
	if s.Parent != nil {
		return s.Parent.Lookup(name)
	}
	return nil, false
}

// Root walks up to the outermost scope in the chain.
func (s *Scope) Root() *Scope {
	cur := s
	for cur.Parent != nil {
		cur = cur.Parent
	}
	return cur
}

// Bind declares or overrides name in this scope directly (not
// walking to a parent). It reports whether name already existed in
// this scope — callers enforce the override policy (spec.md §4.6's
// `variables.set`).
func (s *Scope) Bind(name string, v value.Value) bool {
	_, existed := s.Variables[name]
	s.Variables[name] = v
	return existed
}
