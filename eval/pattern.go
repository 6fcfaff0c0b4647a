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

	"github.com/harehare/mq/ast"
	"github.com/harehare/mq/env"
	"github.com/harehare/mq/internal/mqerr"
	"github.com/harehare/mq/value"
)

// evalMatch implements spec.md §4.5's Match rule: arms are tried in order,
// a pattern matches by structural equality with optional bindings, an
// optional guard must be truthy, and the first match wins.
func (ev *Evaluator) evalMatch(e ast.Match, fr *env.Env, self value.Value) (value.Value, error) {
	scrutinee, err := ev.evalNode(e.Scrutinee, fr, self)
	if err != nil {
		return value.None, err
	}

	for _, arm := range e.Arms {
		child := env.NewChild(fr)
		if !ev.matchPattern(arm.Pattern, scrutinee, child) {
			continue
		}
		if arm.Guard != nil {
			g, err := ev.evalNode(*arm.Guard, child, self)
			if err != nil {
				return value.None, err
			}
			if !value.Truthy(g) {
				continue
			}
		}
		return ev.evalNode(arm.Body, child, self)
	}
	return value.None, fmt.Errorf("%w: no arm matched", mqerr.ErrNoMatch)
}

// matchPattern tests v against p, binding identifiers into fr as it goes.
// Binds already made for a failed alternative are simply left in fr's
// child frame, which evalMatch discards by trying the next arm in a fresh
// child of the outer frame.
func (ev *Evaluator) matchPattern(p ast.Pattern, v value.Value, fr *env.Env) bool {
	switch p.Kind {
	case ast.PatWildcard:
		return true
	case ast.PatIdent:
		fr.Let(p.Ident, v)
		return true
	case ast.PatLiteral:
		lit, ok := ev.literalValue(p.Literal)
		return ok && value.Equal(lit, v)
	case ast.PatType:
		return matchesTypeName(v, p.Ident.String())
	case ast.PatArray:
		// The parser always wraps an array pattern's element list as
		// PatArray, even when its last element is the special "rest"
		// marker (PatArrayRest) - that marker lives inside Elems, not as
		// this pattern's own Kind. So a trailing PatArrayRest element
		// switches this case to variable-length matching; otherwise the
		// match requires exact length.
		if v.Kind != value.KindArray {
			return false
		}
		if n := len(p.Elems); n > 0 && p.Elems[n-1].Kind == ast.PatArrayRest {
			if len(v.Arr) < n-1 {
				return false
			}
			head := p.Elems[:n-1]
			for i, ep := range head {
				if !ev.matchPattern(ep, v.Arr[i], fr) {
					return false
				}
			}
			fr.Let(p.Elems[n-1].Ident, value.Array(append([]value.Value(nil), v.Arr[len(head):]...)))
			return true
		}
		if len(v.Arr) != len(p.Elems) {
			return false
		}
		for i, ep := range p.Elems {
			if !ev.matchPattern(ep, v.Arr[i], fr) {
				return false
			}
		}
		return true
	case ast.PatArrayRest:
		// Reached only when a caller constructs a Pattern with this Kind
		// directly (the parser never produces it at top level - see the
		// PatArray case above); binds the whole scrutinee as the rest.
		fr.Let(p.Ident, v)
		return true
	case ast.PatDict:
		// value.Value has no dict kind; an object is represented as an
		// array of [key, value] pairs (the same accommodation format.go's
		// from_json/yaml_decode builtins use).
		if v.Kind != value.KindArray {
			return false
		}
		for _, entry := range p.Dict {
			pv, ok := lookupPairArray(v.Arr, entry.Key)
			if !ok {
				return false
			}
			if !ev.matchPattern(entry.Pattern, pv, fr) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func lookupPairArray(pairs []value.Value, key string) (value.Value, bool) {
	for _, pair := range pairs {
		if pair.Kind != value.KindArray || len(pair.Arr) != 2 {
			continue
		}
		if pair.Arr[0].Kind == value.KindString && pair.Arr[0].Str == key {
			return pair.Arr[1], true
		}
	}
	return value.None, false
}

func matchesTypeName(v value.Value, name string) bool {
	if v.Kind == value.KindMarkdown {
		if v.Markdown.Kind() == name {
			return true
		}
	}
	return v.Kind.String() == name
}

// literalValue evaluates a PatLiteral's Literal field, which is always one
// of the constant Expr kinds the parser can produce for a pattern literal
// (no identifier lookup or side effects are possible in this position).
func (ev *Evaluator) literalValue(e ast.Expr) (value.Value, bool) {
	switch lit := e.(type) {
	case ast.Number:
		return value.Number(lit.Value), true
	case ast.String:
		return value.String(lit.Value), true
	case ast.Bool:
		return value.Bool(lit.Value), true
	case ast.SymbolLit:
		return value.String(lit.Value.String()), true
	case ast.NoneLit:
		return value.None, true
	default:
		return value.None, false
	}
}
