/*
 * mq
 *
 * Copyright 2024 mq contributors. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

// Markdown constructor builtins (spec.md §4.6: "update h1 list code table
// …"). Each builds a mdast.Node value directly; `update` is the general
// form used to rewrite a matched node in place, the rest are convenience
// constructors for the node kinds query authors build most often.
package builtin

import (
	"github.com/harehare/mq/mdast"
	"github.com/harehare/mq/value"
)

func init() {
	register(Spec{Name: "update", MinArity: 2, MaxArity: 2, Doc: "replaces a Markdown value's primary text content, keeping its node kind", Call: builtinUpdate})
	register(Spec{Name: "select", MinArity: 2, MaxArity: 2, Doc: "passes self through when a selector or predicate evaluated against it is truthy, else None", Call: builtinSelect})

	register(Spec{Name: "h1", MinArity: 1, MaxArity: 1, Doc: "builds a level-1 heading", Call: heading(1)})
	register(Spec{Name: "h2", MinArity: 1, MaxArity: 1, Doc: "builds a level-2 heading", Call: heading(2)})
	register(Spec{Name: "h3", MinArity: 1, MaxArity: 1, Doc: "builds a level-3 heading", Call: heading(3)})
	register(Spec{Name: "h4", MinArity: 1, MaxArity: 1, Doc: "builds a level-4 heading", Call: heading(4)})
	register(Spec{Name: "h5", MinArity: 1, MaxArity: 1, Doc: "builds a level-5 heading", Call: heading(5)})
	register(Spec{Name: "h6", MinArity: 1, MaxArity: 1, Doc: "builds a level-6 heading", Call: heading(6)})

	register(Spec{Name: "list", MinArity: 2, MaxArity: 2, Doc: "builds a list from an array of strings and an ordered flag", Call: builtinList})
	register(Spec{Name: "code", MinArity: 2, MaxArity: 2, Doc: "builds a fenced code block from a language tag and a value", Call: builtinCode})
	register(Spec{Name: "table", MinArity: 2, MaxArity: 2, Doc: "builds a table from a header row and an array of data rows, each an array of strings", Call: builtinTable})

	register(Spec{Name: "strong", MinArity: 1, MaxArity: 1, Doc: "wraps a string as bold text", Call: inlineWrap(func(c []mdast.Node) mdast.Node { return mdast.Strong{Values: c} })})
	register(Spec{Name: "emphasis", MinArity: 1, MaxArity: 1, Doc: "wraps a string as italic text", Call: inlineWrap(func(c []mdast.Node) mdast.Node { return mdast.Emphasis{Values: c} })})
}

func builtinUpdate(_ Applier, args []value.Value) (value.Value, error) {
	v := arg(args, 0)
	text, err := strArg("update", args, 1)
	if err != nil {
		return value.None, err
	}
	if v.Kind != value.KindMarkdown {
		return value.String(text), nil
	}
	return value.Markdown(updateNode(v.Markdown, text)), nil
}

// builtinSelect implements `select(cond)` (spec.md §4.6), called in pipe
// position as `self | select(cond)`. cond is whatever evalArgs already
// evaluated cond against self to get - a SelectorExpr match (`.h1`, which
// yields self itself or None) or a predicate call's Bool result
// (`contains("title")`) - so select just re-tests its truthiness against
// self rather than invoking anything itself.
func builtinSelect(_ Applier, args []value.Value) (value.Value, error) {
	self := arg(args, 0)
	cond := arg(args, 1)
	if !value.Truthy(cond) {
		return value.None, nil
	}
	return self, nil
}

func updateNode(n mdast.Node, text string) mdast.Node {
	switch v := n.(type) {
	case mdast.Heading:
		v.Values = []mdast.Node{mdast.Text{Value: text}}
		return v
	case mdast.Paragraph:
		v.Values = []mdast.Node{mdast.Text{Value: text}}
		return v
	case mdast.Code:
		v.Value = text
		return v
	case mdast.CodeInline:
		v.Value = text
		return v
	case mdast.Text:
		v.Value = text
		return v
	case mdast.Html:
		v.Value = text
		return v
	case mdast.Link:
		v.Values = []mdast.Node{mdast.Text{Value: text}}
		return v
	default:
		return mdast.Text{Value: text}
	}
}

func heading(depth int) Fn {
	return func(_ Applier, args []value.Value) (value.Value, error) {
		text, err := strArg("h", args, 0)
		if err != nil {
			return value.None, err
		}
		return value.Markdown(mdast.Heading{Depth: depth, Values: []mdast.Node{mdast.Text{Value: text}}}), nil
	}
}

func inlineWrap(build func(children []mdast.Node) mdast.Node) Fn {
	return func(_ Applier, args []value.Value) (value.Value, error) {
		text, err := strArg("", args, 0)
		if err != nil {
			return value.None, err
		}
		return value.Markdown(build([]mdast.Node{mdast.Text{Value: text}})), nil
	}
}

func builtinList(_ Applier, args []value.Value) (value.Value, error) {
	items, err := arrArg("list", args, 0)
	if err != nil {
		return value.None, err
	}
	ordered := value.Truthy(arg(args, 1))
	values := make([]mdast.Node, len(items))
	for i, it := range items {
		values[i] = mdast.Text{Value: it.String()}
	}
	return value.Markdown(mdast.List{Ordered: ordered, Index: 1, Values: values}), nil
}

func builtinCode(_ Applier, args []value.Value) (value.Value, error) {
	lang, err := strArg("code", args, 0)
	if err != nil {
		return value.None, err
	}
	text, err := strArg("code", args, 1)
	if err != nil {
		return value.None, err
	}
	return value.Markdown(mdast.Code{Lang: lang, Value: text}), nil
}

func builtinTable(_ Applier, args []value.Value) (value.Value, error) {
	header, err := arrArg("table", args, 0)
	if err != nil {
		return value.None, err
	}
	rows, err := arrArg("table", args, 1)
	if err != nil {
		return value.None, err
	}

	headerCells := make([]mdast.Node, len(header))
	for i, h := range header {
		headerCells[i] = mdast.TableCell{Values: []mdast.Node{mdast.Text{Value: h.String()}}, Column: i, Row: 0}
	}
	values := []mdast.Node{mdast.TableHeader{Values: headerCells}}

	for r, row := range rows {
		if row.Kind != value.KindArray {
			return value.None, typeErr("table", 1, "array of arrays", row)
		}
		cells := make([]mdast.Node, len(row.Arr))
		for c, cell := range row.Arr {
			cells[c] = mdast.TableCell{Values: []mdast.Node{mdast.Text{Value: cell.String()}}, Column: c, Row: r + 1}
		}
		values = append(values, mdast.TableRow{Values: cells})
	}

	return value.Markdown(mdast.Fragment{Values: values}), nil
}
