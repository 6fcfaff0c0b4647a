/*
 * mq
 *
 * Copyright 2024 mq contributors. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

// Package selector implements the closed selector grammar of spec.md §3.5:
// type selectors (".h1", ".link"), parameterized selectors
// (".list(2, true)", ".table(1,2)") and attribute selectors (".value",
// ".url", ...).
//
// Grounded on ritamzico-pgraph, the one pack repo built entirely around
// expressing a small DSL as a participle struct-tag grammar instead of a
// hand-rolled recursive-descent parser - selectors are exactly that kind of
// small, closed, declarative language, so they get their own participle
// grammar rather than folding into the main Pratt parser in package parser.
package selector

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
)

// ArgKind discriminates a parsed selector argument's literal type.
type ArgKind int

const (
	ArgNumber ArgKind = iota
	ArgBool
	ArgString
	ArgIdent // bare identifier, used as a wildcard/placeholder argument
)

// Arg is one parsed, parenthesized selector argument.
type Arg struct {
	Kind   ArgKind
	Number float64
	Bool   bool
	String string
	Ident  string
}

// Selector is a parsed selector literal, e.g. Selector{Name: "list", Args:
// [Arg{Kind: ArgNumber, Number: 2}, Arg{Kind: ArgBool, Bool: true}]} for
// ".list(2, true)".
type Selector struct {
	Name string
	Args []Arg
}

// grammar is the participle struct-tag grammar for the text following the
// leading '.', e.g. "list(2, true)" or "h1" or "value".
type grammar struct {
	Name string    `parser:"@Ident"`
	Args []argNode `parser:"( '(' (@@ (',' @@)*)? ')' )?"`
}

type argNode struct {
	Number *float64 `parser:"( @Float"`
	Int    *int     `parser:"| @Int"`
	Bool   *string  `parser:"| @('true' | 'false')"`
	Str    *string  `parser:"| @String"`
	Ident  *string  `parser:"| @Ident )"`
}

var parser = participle.MustBuild[grammar]()

// Parse parses a full selector token's text, e.g. ".list(2, true)" or
// ".h1", including the leading dot. An empty selector body (".") is
// rejected.
func Parse(text string) (Selector, error) {
	if !strings.HasPrefix(text, ".") {
		return Selector{}, fmt.Errorf("selector must start with '.': %q", text)
	}
	body := text[1:]
	if body == "" {
		return Selector{}, fmt.Errorf("empty selector")
	}

	g, err := parser.ParseString("", body)
	if err != nil {
		return Selector{}, fmt.Errorf("invalid selector %q: %w", text, err)
	}

	sel := Selector{Name: g.Name}
	for _, a := range g.Args {
		switch {
		case a.Number != nil:
			sel.Args = append(sel.Args, Arg{Kind: ArgNumber, Number: *a.Number})
		case a.Int != nil:
			sel.Args = append(sel.Args, Arg{Kind: ArgNumber, Number: float64(*a.Int)})
		case a.Bool != nil:
			sel.Args = append(sel.Args, Arg{Kind: ArgBool, Bool: *a.Bool == "true"})
		case a.Str != nil:
			unquoted, uerr := strconv.Unquote(*a.Str)
			if uerr != nil {
				unquoted = *a.Str
			}
			sel.Args = append(sel.Args, Arg{Kind: ArgString, String: unquoted})
		case a.Ident != nil:
			sel.Args = append(sel.Args, Arg{Kind: ArgIdent, Ident: *a.Ident})
		}
	}
	return sel, nil
}

// IsAttribute reports whether name is one of the attribute selectors of
// spec.md §3.5 (".value", ".url", ...) rather than a type selector.
func IsAttribute(name string) bool {
	return attributeNames[name]
}

var attributeNames = map[string]bool{
	"value": true, "children": true, "url": true, "title": true, "alt": true,
	"ident": true, "label": true, "lang": true, "meta": true, "depth": true,
	"level": true, "index": true, "ordered": true, "checked": true,
	"column": true, "row": true, "align": true, "name": true,
	"last_cell_in_row": true, "last_cell_of_in_table": true, "fence": true,
	"values": true,
}
