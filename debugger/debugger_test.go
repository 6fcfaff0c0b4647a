/*
 * mq
 *
 * Copyright 2024 mq contributors. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

package debugger

import (
	"testing"

	"github.com/harehare/mq/eval"
	"github.com/harehare/mq/internal/mqerr"
	"github.com/harehare/mq/token"
)

func ctxAt(line, column int, callStack ...mqerr.Frame) eval.DebugContext {
	return eval.DebugContext{
		Token: token.Token{Range: token.Range{
			Start: token.Position{Line: line, Column: column},
		}},
		CallStack: callStack,
	}
}

func TestBreakpointMatchesLineAnyColumn(t *testing.T) {
	var hit eval.DebugContext
	d := New(func(ctx eval.DebugContext) Action {
		hit = ctx
		return Action{Kind: Continue}
	})
	d.SetBreakpoint(Breakpoint{Line: 3})

	if a := d.Before(ctxAt(2, 1)); a != eval.Continue {
		t.Fatalf("line 2 should not break, got %v", a)
	}
	if a := d.Before(ctxAt(3, 7)); a != eval.Continue {
		t.Fatalf("Before should return Continue after a handled break, got %v", a)
	}
	if hit.Token.Range.Start.Line != 3 {
		t.Fatalf("handler was not invoked with the breaking context")
	}
}

func TestBreakpointMatchesExactColumn(t *testing.T) {
	col := 5
	called := false
	d := New(func(ctx eval.DebugContext) Action {
		called = true
		return Action{Kind: Continue}
	})
	d.SetBreakpoint(Breakpoint{Line: 1, Column: &col})

	d.Before(ctxAt(1, 9))
	if called {
		t.Fatalf("breakpoint with Column=5 should not match column 9")
	}
	d.Before(ctxAt(1, 5))
	if !called {
		t.Fatalf("breakpoint with Column=5 should match column 5")
	}
}

func TestDisableBreakpointStopsMatching(t *testing.T) {
	called := false
	d := New(func(ctx eval.DebugContext) Action {
		called = true
		return Action{Kind: Continue}
	})
	id := d.SetBreakpoint(Breakpoint{Line: 10})
	d.DisableBreakpoint(id)

	d.Before(ctxAt(10, 1))
	if called {
		t.Fatalf("disabled breakpoint should not fire")
	}
}

func TestStepIntoBreaksOnNextNodeRegardlessOfDepth(t *testing.T) {
	calls := 0
	d := New(func(ctx eval.DebugContext) Action {
		calls++
		if calls == 1 {
			return Action{Kind: StepInto}
		}
		return Action{Kind: Continue}
	})
	d.SetBreakpoint(Breakpoint{Line: 1})
	d.Before(ctxAt(1, 1)) // breaks on the breakpoint, handler requests StepInto

	deep := []mqerr.Frame{{DisplayName: "f"}, {DisplayName: "g"}, {DisplayName: "h"}}
	if a := d.Before(ctxAt(99, 1, deep...)); a != eval.Continue {
		t.Fatalf("StepInto should break at any depth, got %v", a)
	}
	if calls != 2 {
		t.Fatalf("handler should have been called twice, got %d", calls)
	}
}

func TestStepOverBreaksAtSameOrShallowerDepthOnly(t *testing.T) {
	calls := 0
	d := New(func(ctx eval.DebugContext) Action {
		calls++
		if calls == 1 {
			return Action{Kind: StepOver}
		}
		return Action{Kind: Continue}
	})
	d.SetBreakpoint(Breakpoint{Line: 1})
	// Breaks with a call stack of depth 1; StepOver's step_depth becomes 1.
	d.Before(ctxAt(1, 1, mqerr.Frame{DisplayName: "caller"}))

	deeper := []mqerr.Frame{{DisplayName: "caller"}, {DisplayName: "callee"}}
	if a := d.Before(ctxAt(2, 1, deeper...)); a != eval.Continue {
		t.Fatalf("deeper call stack should not break under StepOver, got %v", a)
	}
	if calls != 1 {
		t.Fatalf("handler should not have been called again while deeper, got %d calls", calls)
	}

	sameDepth := []mqerr.Frame{{DisplayName: "caller"}}
	if a := d.Before(ctxAt(3, 1, sameDepth...)); a != eval.Continue {
		t.Fatalf("Before always returns Continue to the evaluator, got %v", a)
	}
	if calls != 2 {
		t.Fatalf("same-depth node should have re-invoked the handler, got %d calls", calls)
	}
}

func TestFunctionExitBreaksOnlyWhenShallower(t *testing.T) {
	calls := 0
	d := New(func(ctx eval.DebugContext) Action {
		calls++
		if calls == 1 {
			return Action{Kind: FunctionExit}
		}
		return Action{Kind: Continue}
	})
	d.SetBreakpoint(Breakpoint{Line: 1})
	d.Before(ctxAt(1, 1, mqerr.Frame{DisplayName: "a"}, mqerr.Frame{DisplayName: "b"}))

	sameDepth := []mqerr.Frame{{DisplayName: "a"}, {DisplayName: "b"}}
	d.Before(ctxAt(2, 1, sameDepth...))
	if calls != 1 {
		t.Fatalf("FunctionExit should not break at the same depth, got %d calls", calls)
	}

	shallower := []mqerr.Frame{{DisplayName: "a"}}
	d.Before(ctxAt(3, 1, shallower...))
	if calls != 2 {
		t.Fatalf("FunctionExit should break once the call stack is shallower, got %d calls", calls)
	}
}

func TestQuitDeactivatesDebugger(t *testing.T) {
	calls := 0
	d := New(func(ctx eval.DebugContext) Action {
		calls++
		return Action{Kind: Quit}
	})
	d.SetBreakpoint(Breakpoint{Line: 1})

	if a := d.Before(ctxAt(1, 1)); a != eval.Quit {
		t.Fatalf("handler's Quit should surface as eval.Quit, got %v", a)
	}
	if a := d.Before(ctxAt(1, 1)); a != eval.Continue {
		t.Fatalf("a deactivated debugger should no longer break, got %v", a)
	}
	if calls != 1 {
		t.Fatalf("handler should not be invoked again once deactivated, got %d calls", calls)
	}
}

func TestSetBreakpointActionInstallsNewBreakpoint(t *testing.T) {
	calls := 0
	d := New(func(ctx eval.DebugContext) Action {
		calls++
		if calls == 1 {
			return Action{Kind: SetBreakpoint, Line: 42}
		}
		return Action{Kind: Continue}
	})
	d.SetBreakpoint(Breakpoint{Line: 1})
	d.Before(ctxAt(1, 1))

	d.Before(ctxAt(42, 1))
	if calls != 2 {
		t.Fatalf("the breakpoint set by the handler's Action should fire, got %d calls", calls)
	}
}

func TestClearBreakpointActionRemovesIt(t *testing.T) {
	calls := 0
	var id string
	d := New(func(ctx eval.DebugContext) Action {
		calls++
		if calls == 1 {
			return Action{Kind: ClearBreakpoint, ID: id}
		}
		return Action{Kind: Continue}
	})
	id = d.SetBreakpoint(Breakpoint{Line: 5})
	d.Before(ctxAt(5, 1))

	d.Before(ctxAt(5, 1))
	if calls != 1 {
		t.Fatalf("cleared breakpoint should not fire again, got %d calls", calls)
	}
}

func TestBreakpointSourceNameScopesToCallStackTop(t *testing.T) {
	calls := 0
	d := New(func(ctx eval.DebugContext) Action {
		calls++
		return Action{Kind: Continue}
	})
	d.SetBreakpoint(Breakpoint{Line: 1, SourceName: "mathlib"})

	d.Before(ctxAt(1, 1, mqerr.Frame{DisplayName: "square", Source: "other"}))
	if calls != 0 {
		t.Fatalf("breakpoint scoped to mathlib should not fire for a different source")
	}
	d.Before(ctxAt(1, 1, mqerr.Frame{DisplayName: "square", Source: "mathlib"}))
	if calls != 1 {
		t.Fatalf("breakpoint scoped to mathlib should fire when the top frame's source matches")
	}
}
