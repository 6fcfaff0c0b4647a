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
	"fmt"
	"strconv"
	"strings"

	"github.com/harehare/mq/ast"
	"github.com/harehare/mq/env"
	"github.com/harehare/mq/value"
)

// renderQuoted implements Quote(e) (spec.md §4.5: "yields e as a reified
// AST value; Unquote inside a quote splices"). value.Value has no AST/Quote
// kind - an already-settled, closed Value union (spec.md §3.4) - so the
// reification adopted here is e's mq source text, with any nested Unquote
// node evaluated against the current frame/self and spliced in as its
// String() form. This is a documented simplification: it gives Quote/
// Unquote a usable, testable behavior (round-tripping literal structure,
// splicing computed values into it) without inventing a Value kind the
// rest of this module never needs.
func (ev *Evaluator) renderQuoted(id ast.NodeId, fr *env.Env, self value.Value) string {
	n := ev.tree.Node(id)
	if u, ok := n.Expr.(ast.Unquote); ok {
		v, err := ev.evalNode(u.Inner, fr, self)
		if err != nil {
			return ""
		}
		return v.String()
	}
	return ev.renderExpr(n.Expr, fr, self)
}

// renderExpr renders e back to mq source text, recursing into Unquote
// splices via renderQuoted. It covers the constructs a macro or quoted
// template realistically builds from; rarer nodes fall back to a bracketed
// placeholder rather than panicking.
func (ev *Evaluator) renderExpr(e ast.Expr, fr *env.Env, self value.Value) string {
	switch v := e.(type) {
	case ast.Number:
		return strconv.FormatFloat(v.Value, 'g', -1, 64)
	case ast.String:
		return strconv.Quote(v.Value)
	case ast.Bool:
		return strconv.FormatBool(v.Value)
	case ast.SymbolLit:
		return ":" + v.Value.String()
	case ast.NoneLit:
		return "None"
	case ast.IdentExpr:
		return v.Name.String()
	case ast.SelfExpr:
		return "self"
	case ast.NodesExpr:
		return "nodes"
	case ast.Call:
		args := make([]string, len(v.Args))
		for i, a := range v.Args {
			args[i] = ev.renderQuoted(a, fr, self)
		}
		suffix := ""
		if v.Optional {
			suffix = "?"
		}
		return fmt.Sprintf("%s(%s)%s", v.Name.String(), strings.Join(args, ", "), suffix)
	case ast.Paren:
		return "(" + ev.renderQuoted(v.Inner, fr, self) + ")"
	case ast.Pipe:
		parts := make([]string, len(v.Stages))
		for i, s := range v.Stages {
			parts[i] = ev.renderQuoted(s, fr, self)
		}
		return strings.Join(parts, " | ")
	case ast.Unquote:
		val, err := ev.evalNode(v.Inner, fr, self)
		if err != nil {
			return ""
		}
		return val.String()
	case ast.Quote:
		return ev.renderQuoted(v.Inner, fr, self)
	default:
		return "<expr>"
	}
}

// invokeMacro expands a Macro call (spec.md §3.3: "Macro(name, params,
// body) (expanded before evaluation)"). Call's arguments are already
// evaluated strictly by the time invoke() resolves a macro (the same
// uniform argument-evaluation evalCall gives every Call), so at the
// invocation boundary a macro behaves like a Def closure bound over
// ev.global; what distinguishes it is that its body may use Quote/Unquote
// to build and splice source text, a capability ordinary closures don't
// need.
func (ev *Evaluator) invokeMacro(id ast.NodeId, args []value.Value) (value.Value, error) {
	mac := ev.tree.Node(id).Expr.(ast.Macro)
	if len(args) != len(mac.Params) {
		return value.None, fmt.Errorf("macro %s takes %d args, got %d", mac.Name.String(), len(mac.Params), len(args))
	}
	child := env.NewChild(ev.global)
	for i, p := range mac.Params {
		child.Let(p, args[i])
	}
	return ev.evalNode(mac.Body, child, value.None)
}
