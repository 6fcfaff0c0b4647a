/*
 * mq
 *
 * Copyright 2024 mq contributors. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

package mdast

import (
	"strconv"
	"strings"

	"github.com/harehare/mq/selector"
)

// Match returns every node in the subtree rooted at n (n included) whose
// type and parenthesized arguments satisfy sel, in document order - the
// selector-literal evaluation rule of spec.md §3.5 ("a selector applied to
// a node yields every matching descendant, including the node itself").
func Match(n Node, sel selector.Selector) []Node {
	var out []Node
	var walk func(Node)
	walk = func(cur Node) {
		if matchesType(cur, sel) {
			out = append(out, cur)
		}
		for _, c := range Children(cur) {
			walk(c)
		}
	}
	walk(n)
	return out
}

// MatchesType tests n itself (not its descendants) against sel's type and
// parenthesized arguments - the single-node predicate the evaluator's
// `Selector(sel)` expression rule needs, as distinct from Match's recursive
// subtree search.
func MatchesType(n Node, sel selector.Selector) bool {
	return matchesType(n, sel)
}

func matchesType(n Node, sel selector.Selector) bool {
	if h, ok := n.(Heading); ok {
		switch sel.Name {
		case "h":
			return true
		case "h1", "h2", "h3", "h4", "h5", "h6":
			depth, _ := strconv.Atoi(strings.TrimPrefix(sel.Name, "h"))
			return h.Depth == depth
		}
		return false
	}

	if n.Kind() != sel.Name {
		return false
	}

	switch v := n.(type) {
	case List:
		if len(sel.Args) > 0 && sel.Args[0].Kind == selector.ArgNumber {
			if v.Index != int(sel.Args[0].Number) {
				return false
			}
		}
		if len(sel.Args) > 1 && sel.Args[1].Kind == selector.ArgBool {
			if v.Ordered != sel.Args[1].Bool {
				return false
			}
		}
		return true
	case TableCell:
		if len(sel.Args) > 0 && sel.Args[0].Kind == selector.ArgNumber {
			if v.Row != int(sel.Args[0].Number) {
				return false
			}
		}
		if len(sel.Args) > 1 && sel.Args[1].Kind == selector.ArgNumber {
			if v.Column != int(sel.Args[1].Number) {
				return false
			}
		}
		return true
	case Code:
		if len(sel.Args) > 0 && sel.Args[0].Kind == selector.ArgString {
			return v.Lang == sel.Args[0].String
		}
		return true
	default:
		return true
	}
}

// Attribute reads one attribute selector (spec.md §3.5, e.g. ".value",
// ".url") off n. The second return is false when n's type carries no such
// attribute, which evaluates to None in the query language.
func Attribute(n Node, name string) (interface{}, bool) {
	switch v := n.(type) {
	case Heading:
		switch name {
		case "depth", "level":
			return float64(v.Depth), true
		case "values", "children":
			return v.Values, true
		}
	case List:
		switch name {
		case "ordered":
			return v.Ordered, true
		case "index":
			return float64(v.Index), true
		case "checked":
			if v.Checked == nil {
				return nil, false
			}
			return *v.Checked, true
		case "values", "children":
			return v.Values, true
		}
	case Code:
		switch name {
		case "value":
			return v.Value, true
		case "lang":
			return v.Lang, true
		case "meta":
			return v.Meta, true
		case "fence":
			return v.Fence, true
		}
	case CodeInline:
		if name == "value" {
			return v.Value, true
		}
	case Math:
		if name == "value" {
			return v.Value, true
		}
	case MathInline:
		if name == "value" {
			return v.Value, true
		}
	case Html:
		if name == "value" {
			return v.Value, true
		}
	case Yaml:
		if name == "value" {
			return v.Value, true
		}
	case Toml:
		if name == "value" {
			return v.Value, true
		}
	case Link:
		switch name {
		case "url":
			return v.URL, true
		case "title":
			return v.Title, true
		case "values", "children":
			return v.Values, true
		}
	case LinkRef:
		switch name {
		case "ident":
			return v.Ident, true
		case "label":
			return v.Label, true
		case "values", "children":
			return v.Values, true
		}
	case Image:
		switch name {
		case "url":
			return v.URL, true
		case "title":
			return v.Title, true
		case "alt":
			return v.Alt, true
		}
	case ImageRef:
		switch name {
		case "ident":
			return v.Ident, true
		case "label":
			return v.Label, true
		case "alt":
			return v.Alt, true
		}
	case Definition:
		switch name {
		case "ident":
			return v.Ident, true
		case "url":
			return v.URL, true
		case "title":
			return v.Title, true
		case "label":
			return v.Label, true
		}
	case Footnote:
		switch name {
		case "ident":
			return v.Ident, true
		case "values", "children":
			return v.Values, true
		}
	case FootnoteRef:
		switch name {
		case "ident":
			return v.Ident, true
		case "label":
			return v.Label, true
		}
	case TableCell:
		switch name {
		case "row":
			return float64(v.Row), true
		case "column":
			return float64(v.Column), true
		case "last_cell_in_row":
			return v.LastCellInRow, true
		case "last_cell_of_in_table":
			return v.LastCellOfInTable, true
		case "values", "children":
			return v.Values, true
		}
	case TableHeader:
		switch name {
		case "align":
			return v.Align, true
		case "values", "children":
			return v.Values, true
		}
	case Text:
		if name == "value" {
			return v.Value, true
		}
	case MdxJsxFlowElement:
		switch name {
		case "name":
			return v.Name, true
		case "values", "children":
			return v.Children, true
		}
	case MdxJsxTextElement:
		switch name {
		case "name":
			return v.Name, true
		case "values", "children":
			return v.Children, true
		}
	case MdxFlowExpression:
		if name == "value" {
			return v.Value, true
		}
	case MdxTextExpression:
		if name == "value" {
			return v.Value, true
		}
	case MdxJsEsm:
		if name == "value" {
			return v.Value, true
		}
	}

	if name == "values" || name == "children" {
		if children := Children(n); children != nil {
			return children, true
		}
	}
	return nil, false
}
