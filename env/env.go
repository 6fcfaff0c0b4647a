/*
 * mq
 *
 * Copyright 2024 mq contributors. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

// Package env implements the environment frame stack of spec.md §3.6.
// Grounded on the teacher's scope/varsscope.go (name, parent pointer,
// map-backed storage, NewChild), simplified to the single-threaded
// evaluation model of spec.md §5: no mutex, no scope-tree tracking for
// children, and two storage maps per frame (immutable Let bindings and
// mutable Var bindings) instead of one, since spec.md §3.6 gives Let and
// Var different assignability rules that a single undifferentiated map
// can't enforce.
package env

import (
	"github.com/harehare/mq/arena"
	"github.com/harehare/mq/internal/mqerr"
	"github.com/harehare/mq/value"
)

// Env is one frame of the environment stack: a set of bindings plus a
// pointer to the parent frame lookups fall back to.
type Env struct {
	parent *Env
	lets   map[arena.Ident]value.Value
	vars   map[arena.Ident]value.Value
}

// New creates a root frame with no parent.
func New() *Env { return NewChild(nil) }

// NewChild creates a frame whose lookups fall back to parent.
func NewChild(parent *Env) *Env {
	return &Env{
		parent: parent,
		lets:   make(map[arena.Ident]value.Value),
		vars:   make(map[arena.Ident]value.Value),
	}
}

// Let binds name immutably in the current frame, shadowing any outer
// binding of the same name (spec.md §3.6).
func (e *Env) Let(name arena.Ident, v value.Value) {
	e.lets[name] = v
}

// Var binds name mutably in the current frame.
func (e *Env) Var(name arena.Ident, v value.Value) {
	e.vars[name] = v
}

// Get looks up name from the innermost frame outward.
func (e *Env) Get(name arena.Ident) (value.Value, bool) {
	for f := e; f != nil; f = f.parent {
		if v, ok := f.lets[name]; ok {
			return v, true
		}
		if v, ok := f.vars[name]; ok {
			return v, true
		}
	}
	return value.None, false
}

// Assign writes v into the nearest enclosing Var binding of name. It
// returns mqerr.ErrUndefinedVariable if no Var binding of name exists, and
// mqerr.ErrImmutableAssign if name is only bound via Let (spec.md §3.6 -
// "Assign mutates the nearest enclosing Var of that name; error if none").
func (e *Env) Assign(name arena.Ident, v value.Value) error {
	for f := e; f != nil; f = f.parent {
		if _, ok := f.vars[name]; ok {
			f.vars[name] = v
			return nil
		}
		if _, ok := f.lets[name]; ok {
			return mqerr.ErrImmutableAssign
		}
	}
	return mqerr.ErrUndefinedVariable
}
