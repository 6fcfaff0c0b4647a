/*
 * mq
 *
 * Copyright 2024 mq contributors. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

package eval

import (
	"github.com/harehare/mq/ast"
	"github.com/harehare/mq/env"
	"github.com/harehare/mq/internal/mqerr"
	"github.com/harehare/mq/token"
	"github.com/harehare/mq/value"
)

// Action is one of the debugger's resume commands (spec.md §4.7).
type Action int

const (
	Continue Action = iota
	StepInto
	StepOver
	Next
	FunctionExit
	Breakpoint
	Clear
	Quit
)

// DebugContext is handed to the debugger before each node evaluates
// (spec.md §4.7's `DebugContext { current_node, token, current_value,
// call_stack, env, source_code }`).
type DebugContext struct {
	CurrentNode  ast.NodeId
	CurrentExpr  ast.Expr
	Token        token.Token
	CurrentValue value.Value
	CallStack    []mqerr.Frame
	Env          *env.Env
	SourceCode   string
}

// Debugger is consulted before evaluating every node (spec.md §4.7); there
// is no separate call on function entry or exit. The package implementing
// breakpoint matching and
// the should_break protocol lives outside this package (it depends on
// Evaluator, not the other way around); a nil Debugger disables the
// consultation entirely so the common no-debugger path pays no cost.
type Debugger interface {
	// Before is called immediately before evalNode evaluates ctx.CurrentNode.
	// It returns the Action the evaluator should note for this step; Quit
	// tells the evaluator to stop consulting the debugger for the rest of
	// the run (spec.md §4.7: "Quit deactivates the debugger...").
	Before(ctx DebugContext) Action
}

// debugNode consults ev.debugger before evaluating id, handling Quit by
// detaching the debugger (spec.md §4.7). Any other Action is the
// debugger's own business - the debugger package tracks step_depth/command
// state itself, not this one.
func (ev *Evaluator) debugNode(id ast.NodeId, fr *env.Env, self value.Value) {
	n := ev.tree.Node(id)
	action := ev.debugger.Before(DebugContext{
		CurrentNode:  id,
		CurrentExpr:  n.Expr,
		Token:        ev.tree.Token(n),
		CurrentValue: self,
		CallStack:    append([]mqerr.Frame(nil), ev.callStack...),
		Env:          fr,
		SourceCode:   ev.sourceText,
	})
	if action == Quit {
		ev.debugger = nil
	}
}
