/*
 * mq
 *
 * Copyright 2024 mq contributors. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

// Package optimizer implements the two passes of spec.md §4.3: constant
// folding of literal arithmetic calls and constant propagation of
// `let x = <Literal>` bindings. Grounded directly on
// original_source/crates/mdq-lang/src/optimizer.rs's recursive
// optimize_node: a per-Expr-shape match that rewrites Call/Ident nodes and
// recurses structurally into everything else, backed by a running
// ident->literal constant table. The Rust original allocates a fresh
// Rc<Node> per rewrite and Rc::clone's the rest; here the arena plays the
// same "cheap sharing" role - unrewritten subtrees keep their existing
// NodeId instead of being copied, so the optimized Program is a DAG over
// the same arena (spec.md §9), not a deep copy.
package optimizer

import (
	"math"

	"github.com/harehare/mq/arena"
	"github.com/harehare/mq/ast"
)

// Optimizer holds the running ident -> literal constant table used by
// constant propagation. One Optimizer should be used per independently
// optimized function body (spec.md §4.3: "function bodies are optimized
// independently; captures are conservative").
type Optimizer struct {
	tree   *ast.Tree
	consts map[arena.Ident]ast.Expr
}

// isLiteral reports whether e is one of spec.md §3.3's literal Expr
// variants, the set eligible for constant-table propagation.
func isLiteral(e ast.Expr) bool {
	switch e.(type) {
	case ast.Number, ast.String, ast.Bool, ast.SymbolLit, ast.NoneLit:
		return true
	default:
		return false
	}
}

// New creates an Optimizer rewriting nodes in tree.
func New(tree *ast.Tree) *Optimizer {
	return &Optimizer{tree: tree, consts: make(map[arena.Ident]ast.Expr)}
}

// Optimize rewrites an entire program, returning a new (possibly sharing)
// node-id sequence.
func (o *Optimizer) Optimize(prog ast.Program) ast.Program {
	out := make(ast.Program, len(prog))
	for i, id := range prog {
		out[i] = o.optimizeNode(id)
	}
	return out
}

func (o *Optimizer) optimizeNode(id ast.NodeId) ast.NodeId {
	n := o.tree.Node(id)

	switch e := n.Expr.(type) {
	case ast.Call:
		args := make([]ast.NodeId, len(e.Args))
		for i, a := range e.Args {
			args[i] = o.optimizeNode(a)
		}
		if folded, ok := o.fold(e.Name.String(), args); ok {
			return o.tree.Alloc(n.TokenId, folded)
		}
		return o.tree.Alloc(n.TokenId, ast.Call{Name: e.Name, Args: args, Optional: e.Optional})

	case ast.IdentExpr:
		if lit, ok := o.consts[e.Name]; ok {
			return o.tree.Alloc(n.TokenId, lit)
		}
		return id

	case ast.Let:
		val := o.optimizeNode(e.Value)
		if isLiteral(o.tree.Node(val).Expr) {
			o.consts[e.Name] = o.tree.Node(val).Expr
		} else {
			delete(o.consts, e.Name) // shadowing a non-literal re-bind stops propagation
		}
		return o.tree.Alloc(n.TokenId, ast.Let{Name: e.Name, Value: val})

	case ast.Var:
		val := o.optimizeNode(e.Value)
		delete(o.consts, e.Name) // mutable bindings are never propagated
		return o.tree.Alloc(n.TokenId, ast.Var{Name: e.Name, Value: val})

	case ast.If:
		branches := make([]ast.Branch, len(e.Branches))
		for i, b := range e.Branches {
			nb := ast.Branch{Body: o.optimizeNode(b.Body)}
			if b.Cond != nil {
				c := o.optimizeNode(*b.Cond)
				nb.Cond = &c
			}
			branches[i] = nb
		}
		return o.tree.Alloc(n.TokenId, ast.If{Branches: branches})

	case ast.While:
		return o.tree.Alloc(n.TokenId, ast.While{Cond: o.optimizeNode(e.Cond), Body: o.optimizeNode(e.Body)})

	case ast.Until:
		return o.tree.Alloc(n.TokenId, ast.Until{Cond: o.optimizeNode(e.Cond), Body: o.optimizeNode(e.Body)})

	case ast.Loop:
		return o.tree.Alloc(n.TokenId, ast.Loop{Body: o.optimizeNode(e.Body)})

	case ast.Foreach:
		return o.tree.Alloc(n.TokenId, ast.Foreach{
			Name: e.Name, Iter: o.optimizeNode(e.Iter), Body: o.optimizeNode(e.Body),
		})

	case ast.Block:
		// function bodies are optimized independently (spec.md §4.3): a
		// fresh constant table scopes propagation to this block only.
		inner := New(o.tree)
		stmts := make([]ast.NodeId, len(e.Stmts))
		for i, s := range e.Stmts {
			stmts[i] = inner.optimizeNode(s)
		}
		return o.tree.Alloc(n.TokenId, ast.Block{Stmts: stmts})

	case ast.Pipe:
		stages := make([]ast.NodeId, len(e.Stages))
		for i, s := range e.Stages {
			stages[i] = o.optimizeNode(s)
		}
		return o.tree.Alloc(n.TokenId, ast.Pipe{Stages: stages})

	case ast.Def:
		inner := New(o.tree)
		return o.tree.Alloc(n.TokenId, ast.Def{Name: e.Name, Params: e.Params, Body: inner.optimizeNode(e.Body)})

	case ast.Paren:
		return o.tree.Alloc(n.TokenId, ast.Paren{Inner: o.optimizeNode(e.Inner)})

	case ast.Try:
		nt := ast.Try{Body: o.optimizeNode(e.Body)}
		if e.Catch != nil {
			c := o.optimizeNode(*e.Catch)
			nt.Catch = &c
		}
		return o.tree.Alloc(n.TokenId, nt)

	case ast.And:
		return o.tree.Alloc(n.TokenId, ast.And{A: o.optimizeNode(e.A), B: o.optimizeNode(e.B)})

	case ast.Or:
		return o.tree.Alloc(n.TokenId, ast.Or{A: o.optimizeNode(e.A), B: o.optimizeNode(e.B)})

	default:
		// Selector/Include/Import/literals/Self_/Nodes and everything else
		// structurally inert to folding/propagation is returned unchanged,
		// same as the Rust original's catch-all Rc::clone arm.
		return id
	}
}

// fold applies constant folding for the arithmetic builtins named in
// spec.md §4.3 when both arguments are already-optimized literal nodes.
// Division follows IEEE-754 semantics here (a documented divergence from
// the `div` builtin's runtime ErrDivByZero - see DESIGN.md's Open Question
// decision).
func (o *Optimizer) fold(name string, args []ast.NodeId) (ast.Expr, bool) {
	if len(args) != 2 {
		return nil, false
	}
	a, aok := o.tree.Node(args[0]).Expr.(ast.Number)
	b, bok := o.tree.Node(args[1]).Expr.(ast.Number)

	if aok && bok {
		switch name {
		case "add":
			return ast.Number{Value: a.Value + b.Value}, true
		case "sub":
			return ast.Number{Value: a.Value - b.Value}, true
		case "mul":
			return ast.Number{Value: a.Value * b.Value}, true
		case "div":
			return ast.Number{Value: a.Value / b.Value}, true // IEEE-754: ±Inf/NaN, not an error
		case "mod":
			return ast.Number{Value: math.Mod(a.Value, b.Value)}, true
		}
		return nil, false
	}

	if name == "add" {
		sa, saok := o.tree.Node(args[0]).Expr.(ast.String)
		sb, sbok := o.tree.Node(args[1]).Expr.(ast.String)
		if saok && sbok {
			return ast.String{Value: sa.Value + sb.Value}, true
		}
	}
	return nil, false
}
