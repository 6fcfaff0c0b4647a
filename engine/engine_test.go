/*
 * mq
 *
 * Copyright 2024 mq contributors. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

package engine

import (
	"testing"

	"github.com/harehare/mq/debugger"
	"github.com/harehare/mq/eval"
	"github.com/harehare/mq/module"
	"github.com/harehare/mq/value"
)

func TestEvalArithmetic(t *testing.T) {
	e := New(DefaultOptions())
	out, err := e.Eval(`1 + 2 * 3`, []value.Value{value.None})
	if err != nil {
		t.Fatalf("Eval error: %v", err)
	}
	if len(out) != 1 || out[0].Kind != value.KindNumber || out[0].Num != 7 {
		t.Fatalf("got %v, want [7]", out)
	}
}

func TestEvalRunsOncePerInput(t *testing.T) {
	e := New(DefaultOptions())
	out, err := e.Eval(`self`, []value.Value{value.Number(1), value.Number(2), value.Number(3)})
	if err != nil {
		t.Fatalf("Eval error: %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("got %d results, want 3", len(out))
	}
}

func TestEvalFilterNoneDefault(t *testing.T) {
	e := New(DefaultOptions())
	out, err := e.Eval(`none`, []value.Value{value.None})
	if err != nil {
		t.Fatalf("Eval error: %v", err)
	}
	if len(out) != 0 {
		t.Fatalf("got %v, want none filtered out by default", out)
	}
}

func TestEvalFilterNoneDisabled(t *testing.T) {
	e := New(DefaultOptions())
	e.SetFilterNone(false)
	out, err := e.Eval(`none`, []value.Value{value.None})
	if err != nil {
		t.Fatalf("Eval error: %v", err)
	}
	if len(out) != 1 || out[0].Kind != value.KindNone {
		t.Fatalf("got %v, want [None] preserved", out)
	}
}

func TestDefineStringValueVisibleToQuery(t *testing.T) {
	e := New(DefaultOptions())
	e.DefineStringValue("greeting", "hello")
	out, err := e.Eval(`greeting`, []value.Value{value.None})
	if err != nil {
		t.Fatalf("Eval error: %v", err)
	}
	if len(out) != 1 || out[0].Kind != value.KindString || out[0].Str != "hello" {
		t.Fatalf("got %v, want [\"hello\"]", out)
	}
}

func TestLoadBuiltinModuleExposesPreludeFunctions(t *testing.T) {
	e := New(DefaultOptions())
	if err := e.LoadBuiltinModule(); err != nil {
		t.Fatalf("LoadBuiltinModule error: %v", err)
	}
	out, err := e.Eval(`clamp(10, 0, 5)`, []value.Value{value.None})
	if err != nil {
		t.Fatalf("Eval error: %v", err)
	}
	if len(out) != 1 || out[0].Num != 5 {
		t.Fatalf("got %v, want [5]", out)
	}
}

func TestLoadBuiltinModuleIsIdempotent(t *testing.T) {
	e := New(DefaultOptions())
	if err := e.LoadBuiltinModule(); err != nil {
		t.Fatalf("first LoadBuiltinModule error: %v", err)
	}
	if err := e.LoadBuiltinModule(); err != nil {
		t.Fatalf("second LoadBuiltinModule error: %v", err)
	}
}

func TestEvalWithoutLoadBuiltinModuleLeavesPreludeUndefined(t *testing.T) {
	e := New(DefaultOptions())
	if _, err := e.Eval(`identity(1)`, []value.Value{value.None}); err == nil {
		t.Fatalf("expected an undefined-variable error before LoadBuiltinModule")
	}
}

func TestLoadModuleStandardModule(t *testing.T) {
	e := New(DefaultOptions())
	if err := e.LoadModule("test"); err != nil {
		t.Fatalf("LoadModule(test) error: %v", err)
	}
	if !e.loader.Loaded("test") {
		t.Fatalf("loader should report \"test\" loaded")
	}
}

func TestLoadModuleUnknownNameErrors(t *testing.T) {
	e := New(DefaultOptions())
	if err := e.LoadModule("does-not-exist"); err == nil {
		t.Fatalf("expected an error loading an unresolvable module name")
	}
}

func TestSetSourceResolvesUserModules(t *testing.T) {
	e := New(DefaultOptions())
	e.SetSource(module.MemorySource{Files: map[string]string{
		"greeter": `def greet(name): name;`,
	}})
	if err := e.LoadModule("greeter"); err != nil {
		t.Fatalf("LoadModule(greeter) error: %v", err)
	}
}

func TestEvalWithOptimizeDisabledStillRunsCorrectly(t *testing.T) {
	e := New(DefaultOptions())
	e.SetOptimize(false)
	out, err := e.Eval(`add(1, 2)`, []value.Value{value.None})
	if err != nil {
		t.Fatalf("Eval error: %v", err)
	}
	if len(out) != 1 || out[0].Num != 3 {
		t.Fatalf("got %v, want [3]", out)
	}
}

func TestSetDebugHandlerIsConsulted(t *testing.T) {
	e := New(DefaultOptions())
	calls := 0
	e.SetDebugHandler(func(ctx eval.DebugContext) debugger.Action {
		calls++
		return debugger.Action{Kind: debugger.Continue}
	})
	if e.Debugger() == nil {
		t.Fatalf("Debugger() should be non-nil after SetDebugHandler")
	}
	e.Debugger().SetBreakpoint(debugger.Breakpoint{Line: 1})
	if _, err := e.Eval(`1 + 1`, []value.Value{value.None}); err != nil {
		t.Fatalf("Eval error: %v", err)
	}
	if calls == 0 {
		t.Fatalf("debug handler was never consulted")
	}
}

func TestSetBreakpointPausesExecution(t *testing.T) {
	e := New(DefaultOptions())
	e.SetDebugHandler(func(ctx eval.DebugContext) debugger.Action {
		return debugger.Action{Kind: debugger.Quit}
	})
	e.Debugger().SetBreakpoint(debugger.Breakpoint{Line: 1})
	if _, err := e.Eval("1\n+ 1", []value.Value{value.None}); err != nil {
		t.Fatalf("Eval error: %v", err)
	}
}

func TestVersionIsNonEmpty(t *testing.T) {
	if Version() == "" {
		t.Fatalf("Version() should not be empty")
	}
}

func TestSetPathsRoundTrips(t *testing.T) {
	e := New(DefaultOptions())
	e.SetPaths([]string{"$HOME/.mq"})
	got := e.Paths()
	if len(got) != 1 || got[0] != "$HOME/.mq" {
		t.Fatalf("Paths() = %v, want [\"$HOME/.mq\"]", got)
	}
}

func TestNewDefaultsToModuleDefaultSearchPaths(t *testing.T) {
	e := New(DefaultOptions())
	got := e.Paths()
	if len(got) != len(module.DefaultSearchPaths) {
		t.Fatalf("Paths() = %v, want module.DefaultSearchPaths %v", got, module.DefaultSearchPaths)
	}
	for i := range got {
		if got[i] != module.DefaultSearchPaths[i] {
			t.Fatalf("Paths()[%d] = %q, want %q", i, got[i], module.DefaultSearchPaths[i])
		}
	}
}
