/*
 * mq
 *
 * Copyright 2024 mq contributors. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

// Package debugger implements spec.md §4.7's breakpoint/step protocol: an
// eval.Debugger that tracks breakpoints, the active command, and
// step_depth, consulting a user-installed Handler whenever should_break
// says to stop.
//
// Grounded on the teacher's interpreter.ecalDebugger (interpreter/debug.go),
// which tracks the same breakpoints/call-stack/command state per thread.
// This evaluator is single-threaded (spec.md §5: "no operation suspends or
// yields cooperatively"), so the concurrent interrogation machinery
// (sync.Cond, per-thread state maps) the teacher needs has no job here -
// a break is just a direct, blocking call into Handler on the calling
// goroutine.
package debugger

import (
	"fmt"

	"github.com/harehare/mq/eval"
)

// Kind is the debugger's command/resume vocabulary (spec.md §4.7's
// `command: one of {Continue, StepInto, StepOver, Next, FunctionExit,
// Quit}`, plus the two break-management actions a handler can also send).
type Kind int

const (
	Continue Kind = iota
	StepInto
	StepOver
	Next
	FunctionExit
	SetBreakpoint
	ClearBreakpoint
	Quit
)

func (k Kind) String() string {
	switch k {
	case Continue:
		return "continue"
	case StepInto:
		return "step_into"
	case StepOver:
		return "step_over"
	case Next:
		return "next"
	case FunctionExit:
		return "function_exit"
	case SetBreakpoint:
		return "set_breakpoint"
	case ClearBreakpoint:
		return "clear_breakpoint"
	case Quit:
		return "quit"
	default:
		return "unknown"
	}
}

// Action is a Handler's resume decision (spec.md §4.7: "returns an
// Action ∈ {Continue, StepInto, StepOver, Next, FunctionExit,
// Breakpoint(line?), Clear(id?), Quit}"). Line/ID carry SetBreakpoint's and
// ClearBreakpoint's optional targets; zero values mean "the current line"
// and "every breakpoint" respectively.
type Action struct {
	Kind Kind
	Line int
	ID   string
}

// Breakpoint is one entry in the debugger's breakpoint set (spec.md §4.7).
// A nil Column matches any column on Line.
type Breakpoint struct {
	ID         string
	Line       int
	Column     *int
	SourceName string
	Enabled    bool
}

func (bp Breakpoint) matches(ctx eval.DebugContext) bool {
	pos := ctx.Token.Range.Start
	if !bp.Enabled || bp.Line != pos.Line {
		return false
	}
	if bp.SourceName != "" && bp.SourceName != currentSource(ctx) {
		return false
	}
	if bp.Column != nil && *bp.Column != pos.Column {
		return false
	}
	return true
}

// currentSource reports the innermost call frame's source name, or "" at
// the top level - the closest thing to a "current source" a DebugContext
// carries (spec.md §4.7 doesn't give should_break a dedicated source_name
// field, only the call stack and the breaking token).
func currentSource(ctx eval.DebugContext) string {
	if len(ctx.CallStack) == 0 {
		return ""
	}
	return ctx.CallStack[len(ctx.CallStack)-1].Source
}

// Handler is the user-installed callback invoked on every break (spec.md
// §4.7's DebugContext -> Action).
type Handler func(ctx eval.DebugContext) Action

// Debugger implements eval.Debugger. It is not safe for concurrent use by
// more than one Evaluator - spec.md §5 gives each engine instance its own
// evaluator and debugger, never shared.
type Debugger struct {
	handler     Handler
	breakpoints map[string]Breakpoint
	nextID      int
	command     Kind
	stepDepth   int
	active      bool
}

// New returns a Debugger that calls handler on every break.
func New(handler Handler) *Debugger {
	return &Debugger{
		handler:     handler,
		breakpoints: make(map[string]Breakpoint),
		command:     Continue,
		active:      true,
	}
}

// SetBreakpoint adds or replaces a breakpoint, assigning an ID if bp.ID is
// empty, and returns the ID actually stored under.
func (d *Debugger) SetBreakpoint(bp Breakpoint) string {
	if bp.ID == "" {
		d.nextID++
		bp.ID = fmt.Sprintf("bp%d", d.nextID)
	}
	bp.Enabled = true
	d.breakpoints[bp.ID] = bp
	return bp.ID
}

// RemoveBreakpoint removes one breakpoint by ID, or every breakpoint when
// id is empty (spec.md §4.7's `Clear(id?)`).
func (d *Debugger) RemoveBreakpoint(id string) {
	if id == "" {
		d.breakpoints = make(map[string]Breakpoint)
		return
	}
	delete(d.breakpoints, id)
}

// DisableBreakpoint keeps bp's code reference but stops it from matching,
// mirroring the teacher's DisableBreakPoint (interpreter/debug.go).
func (d *Debugger) DisableBreakpoint(id string) {
	if bp, ok := d.breakpoints[id]; ok {
		bp.Enabled = false
		d.breakpoints[id] = bp
	}
}

// Breakpoints returns every breakpoint currently installed.
func (d *Debugger) Breakpoints() []Breakpoint {
	out := make([]Breakpoint, 0, len(d.breakpoints))
	for _, bp := range d.breakpoints {
		out = append(out, bp)
	}
	return out
}

// shouldBreak implements spec.md §4.7's should_break predicate.
func (d *Debugger) shouldBreak(ctx eval.DebugContext) bool {
	for _, bp := range d.breakpoints {
		if bp.matches(ctx) {
			return true
		}
	}
	depth := len(ctx.CallStack)
	switch d.command {
	case StepInto:
		return true
	case StepOver, Next:
		return depth <= d.stepDepth
	case FunctionExit:
		return depth < d.stepDepth
	default:
		return false
	}
}

// Before implements eval.Debugger (spec.md §4.7). It is consulted before
// every node evaluates; on a break it calls Handler and folds the
// returned Action into this Debugger's own command/step_depth/breakpoint
// state, returning eval.Quit only when the handler asks to stop
// debugging for the rest of the run.
func (d *Debugger) Before(ctx eval.DebugContext) eval.Action {
	if !d.active {
		return eval.Continue
	}
	if !d.shouldBreak(ctx) {
		return eval.Continue
	}

	act := d.handler(ctx)
	depth := len(ctx.CallStack)

	switch act.Kind {
	case Continue:
		d.command = Continue
	case StepInto:
		d.command = StepInto
	case StepOver, Next:
		d.command = act.Kind
		d.stepDepth = depth
	case FunctionExit:
		d.command = FunctionExit
		d.stepDepth = depth
	case SetBreakpoint:
		line := act.Line
		if line == 0 {
			line = ctx.Token.Range.Start.Line
		}
		d.SetBreakpoint(Breakpoint{Line: line, Enabled: true})
		d.command = Continue
	case ClearBreakpoint:
		d.RemoveBreakpoint(act.ID)
		d.command = Continue
	case Quit:
		d.command = Continue
		d.active = false
		return eval.Quit
	}
	return eval.Continue
}
