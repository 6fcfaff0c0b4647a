/*
 * mq
 *
 * Copyright 2024 mq contributors. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

// Package engine implements spec.md §6.1's public API: the facade an
// embedding host drives instead of talking to parser/optimizer/eval/module
// directly. One Engine owns one module.Loader and one set of Options;
// Eval parses, optimizes and runs a query against a fresh Evaluator each
// call, so engine instances (and the Evaluators they hand out) share no
// mutable state (spec.md §5).
//
// Grounded on krotik-ecal's top-level wiring in interpreter/provider.go
// (a struct of config fields + components, built by one constructor that
// fills in defaults) collapsed into spec.md §6.1's flatter Options/setter
// shape, and on original_source/crates/mq-lang/src/engine.rs's Engine,
// whose eval() builds a fresh ModuleLoader+Evaluator per call and loads the
// builtin module into it before running. This package builds a fresh
// Evaluator per call the same way, but keeps one Loader for the Engine's
// lifetime.
package engine

import (
	"fmt"

	"github.com/harehare/mq/ast"
	"github.com/harehare/mq/debugger"
	"github.com/harehare/mq/eval"
	"github.com/harehare/mq/internal/mqerr"
	"github.com/harehare/mq/module"
	"github.com/harehare/mq/optimizer"
	"github.com/harehare/mq/parser"
	"github.com/harehare/mq/token"
	"github.com/harehare/mq/value"
)

// version is spec.md §6.1's Engine::version() payload. Grounded on the
// original crate's version() returning its own Cargo package version; this
// module has no build-embedded version metadata to report, so the string
// names the module path (its nearest Go equivalent to a package identity)
// instead of fabricating a semver.
const version = "github.com/harehare/mq (dev)"

// Options configures an Engine (spec.md §6.1's Options table).
type Options struct {
	// Optimize enables the optimizer pass (default true).
	Optimize bool
	// MaxCallStackDepth caps nested closure calls (default 1024).
	MaxCallStackDepth int
	// FilterNone drops None from the final output (default true).
	FilterNone bool
}

// DefaultOptions returns spec.md §6.1's stated defaults.
func DefaultOptions() Options {
	return Options{Optimize: true, MaxCallStackDepth: 1024, FilterNone: true}
}

// Engine is the facade of spec.md §6.1. Zero value is not usable; build one
// with New.
type Engine struct {
	opts   Options
	paths  []string
	source module.Source

	loader        *module.Loader
	builtinModule *module.Module

	defined map[string]value.Value

	debugHandler debugger.Handler
	debug        *debugger.Debugger
}

// New creates an Engine with opts. The module loader starts with no Source
// configured (standard modules still resolve; named user modules do not
// until SetSource plugs one in - module file discovery off disk is a
// Non-goal this package never implements itself, per spec.md §4.4). paths
// defaults to module.DefaultSearchPaths, the $HOME/$ORIGIN-relative order
// the original engine used when the caller configured none explicitly;
// SetPaths overrides it.
func New(opts Options) *Engine {
	e := &Engine{
		opts:    opts,
		paths:   append([]string(nil), module.DefaultSearchPaths...),
		defined: make(map[string]value.Value),
	}
	e.loader = module.NewLoader(nil)
	return e
}

// SetOptimize implements Engine::set_optimize.
func (e *Engine) SetOptimize(v bool) { e.opts.Optimize = v }

// SetMaxCallStackDepth implements Engine::set_max_call_stack_depth.
func (e *Engine) SetMaxCallStackDepth(n int) { e.opts.MaxCallStackDepth = n }

// SetFilterNone implements Engine::set_filter_none.
func (e *Engine) SetFilterNone(v bool) { e.opts.FilterNone = v }

// SetPaths implements Engine::set_paths: records the module search path
// (spec.md §4.4's $ORIGIN/$HOME-substituted entries). Engine stores the raw
// entries; a caller that wants them resolved against a concrete exe
// directory and home calls module.ExpandSearchPaths itself and feeds the
// result into a Source passed to SetSource - this package does no
// filesystem I/O of its own.
func (e *Engine) SetPaths(paths []string) { e.paths = paths }

// Paths returns the search path entries most recently set via SetPaths.
func (e *Engine) Paths() []string { return e.paths }

// SetSource plugs in the module.Source an embedding host uses to resolve
// named modules that aren't one of the built-in standard modules (spec.md
// §4.4's "Configured search paths" step). Optional: a nil source, the
// default, still resolves every standard module name.
func (e *Engine) SetSource(src module.Source) {
	e.source = src
	e.loader = module.NewLoader(src)
	e.builtinModule = nil // re-resolve on the new loader if asked again
}

// SetDebugHandler installs the callback the debugger calls on each break -
// a matched breakpoint or an active step command (spec.md §4.7); see
// debugger.New.
func (e *Engine) SetDebugHandler(h debugger.Handler) {
	e.debugHandler = h
	if h == nil {
		e.debug = nil
		return
	}
	e.debug = debugger.New(h)
}

// Debugger returns the installed debugger.Debugger, or nil if none was set
// via SetDebugHandler - the handle a caller uses to manage breakpoints
// (SetBreakpoint/RemoveBreakpoint/DisableBreakpoint) between Eval calls.
func (e *Engine) Debugger() *debugger.Debugger { return e.debug }

// DefineStringValue implements Engine::define_string_value: binds name to a
// string value in the global scope of every subsequent Eval call.
func (e *Engine) DefineStringValue(name, v string) {
	e.defined[name] = value.String(v)
}

// LoadBuiltinModule implements Engine::load_builtin_module: loads the
// always-first builtin module (module.BuiltinSource) into this Engine's
// loader, the global function namespace every Eval call's Evaluator is
// spliced against. Calling it more than once is a no-op (the builtin module
// registers once, like any other module name).
func (e *Engine) LoadBuiltinModule() error {
	if e.builtinModule != nil {
		return nil
	}
	if m, ok := e.loader.Get(module.BuiltinModule); ok {
		e.builtinModule = m
		return nil
	}
	m, err := e.loader.LoadBuiltin(module.BuiltinSource)
	if err != nil {
		return err
	}
	e.builtinModule = m
	return nil
}

// LoadModule implements Engine::load_module: resolves and registers name
// ahead of time, so a later query's Include/Import of it doesn't pay parse
// cost mid-eval. The Loader itself rejects re-registration (spec.md §4.4
// step 1); LoadModule checks Loaded first, so calling it again for an
// already-loaded name is a no-op.
func (e *Engine) LoadModule(name string) error {
	if e.loader.Loaded(name) {
		return nil
	}
	_, err := e.loader.Load(name)
	return err
}

// Version implements Engine::version.
func Version() string { return version }

// Eval implements Engine::eval: parses code, optimizes it per Options,
// and runs it once per element of inputs, returning the concatenated,
// (optionally) None-filtered output values in input order.
func (e *Engine) Eval(code string, inputs []value.Value) ([]value.Value, error) {
	tree := ast.NewTree()
	prog, err := parser.Parse(module.TopLevelModule, token.TopLevelModule, code, tree)
	if err != nil {
		return nil, err
	}

	if e.opts.Optimize {
		prog = optimizer.New(tree).Optimize(prog)
	}

	ev := eval.New(tree, e.loader, eval.Options{
		MaxCallStackDepth: e.opts.MaxCallStackDepth,
		FilterNone:        e.opts.FilterNone,
	})
	ev.SetSourceText(code)
	if e.debug != nil {
		ev.SetDebugger(e.debug)
	}

	if e.builtinModule != nil {
		if err := ev.LoadBuiltinModule(e.builtinModule); err != nil {
			return nil, fmt.Errorf("%w: loading builtin module: %v", mqerr.ErrModuleInvalid, err)
		}
	}

	for name, v := range e.defined {
		ev.DefineValue(name, v)
	}

	return ev.Run(prog, inputs)
}
