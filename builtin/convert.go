/*
 * mq
 *
 * Copyright 2024 mq contributors. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

package builtin

import (
	"strconv"
	"strings"

	"github.com/harehare/mq/mdast"
	"github.com/harehare/mq/value"
)

func init() {
	register(Spec{Name: "to_string", MinArity: 1, MaxArity: 1, Doc: "renders any value as a string", Call: builtinToString})
	register(Spec{Name: "to_number", MinArity: 1, MaxArity: 1, Doc: "parses a string as a number, or passes a number through; None if unparseable", Call: builtinToNumber})
	register(Spec{Name: "to_html", MinArity: 1, MaxArity: 1, Doc: "renders a Markdown value (or string) as an HTML fragment", Call: builtinToHTML})
	register(Spec{Name: "to_text", MinArity: 1, MaxArity: 1, Doc: "extracts the plain-text content of a Markdown value, recursively", Call: builtinToText})
	register(Spec{Name: "to_md_name", MinArity: 1, MaxArity: 1, Doc: "the Markdown node type name used by selectors (e.g. \"h\", \"list\"), or None for non-Markdown values", Call: builtinToMdName})
	register(Spec{Name: "to_link", MinArity: 1, MaxArity: 2, Doc: "wraps a string URL (with optional label) as a Markdown link value", Call: builtinToLink})
}

func builtinToString(_ Applier, args []value.Value) (value.Value, error) {
	return value.String(arg(args, 0).String()), nil
}

func builtinToNumber(_ Applier, args []value.Value) (value.Value, error) {
	v := arg(args, 0)
	switch v.Kind {
	case value.KindNumber:
		return v, nil
	case value.KindString:
		n, err := strconv.ParseFloat(strings.TrimSpace(v.Str), 64)
		if err != nil {
			return value.None, nil
		}
		return value.Number(n), nil
	default:
		return value.None, nil
	}
}

func builtinToHTML(_ Applier, args []value.Value) (value.Value, error) {
	v := arg(args, 0)
	switch v.Kind {
	case value.KindMarkdown:
		return value.String(mdastToHTML(v.Markdown)), nil
	case value.KindString:
		return value.String(htmlEscape(v.Str)), nil
	default:
		return value.None, typeErr("to_html", 0, "markdown or string", v)
	}
}

func builtinToText(_ Applier, args []value.Value) (value.Value, error) {
	v := arg(args, 0)
	switch v.Kind {
	case value.KindMarkdown:
		return value.String(mdastText(v.Markdown)), nil
	case value.KindString:
		return v, nil
	default:
		return value.None, typeErr("to_text", 0, "markdown or string", v)
	}
}

func builtinToMdName(_ Applier, args []value.Value) (value.Value, error) {
	v := arg(args, 0)
	if v.Kind != value.KindMarkdown {
		return value.None, nil
	}
	return value.String(v.Markdown.Kind()), nil
}

func builtinToLink(_ Applier, args []value.Value) (value.Value, error) {
	url, err := strArg("to_link", args, 0)
	if err != nil {
		return value.None, err
	}
	label := url
	if len(args) == 2 {
		label, err = strArg("to_link", args, 1)
		if err != nil {
			return value.None, err
		}
	}
	return value.Markdown(mdast.Link{URL: url, Values: []mdast.Node{mdast.Text{Value: label}}}), nil
}

// mdastText concatenates a node's text content, ignoring formatting markers -
// the recursive leaf-gathering counterpart to mdast.Render.
func mdastText(n mdast.Node) string {
	switch v := n.(type) {
	case mdast.Text:
		return v.Value
	case mdast.CodeInline:
		return v.Value
	case mdast.Code:
		return v.Value
	case mdast.Math:
		return v.Value
	case mdast.MathInline:
		return v.Value
	case mdast.Empty:
		return ""
	}
	var b strings.Builder
	children := mdast.Children(n)
	for i, c := range children {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(mdastText(c))
	}
	return b.String()
}

// mdastToHTML is a minimal, non-goal-scoped HTML renderer (spec.md's
// Non-goals exclude a full formatter/highlighter driver) covering the node
// kinds common to query results: headings, inline text formatting, links,
// code, and lists.
func mdastToHTML(n mdast.Node) string {
	switch v := n.(type) {
	case mdast.Heading:
		tag := "h" + itoaSmall(v.Depth)
		return wrapTag(tag, renderChildrenHTML(v.Values))
	case mdast.Paragraph:
		return wrapTag("p", renderChildrenHTML(v.Values))
	case mdast.Fragment:
		return renderChildrenHTML(v.Values)
	case mdast.List:
		tag := "ul"
		if v.Ordered {
			tag = "ol"
		}
		var b strings.Builder
		for _, c := range v.Values {
			b.WriteString(wrapTag("li", mdastToHTML(c)))
		}
		return wrapTag(tag, b.String())
	case mdast.Blockquote:
		return wrapTag("blockquote", renderChildrenHTML(v.Values))
	case mdast.Code:
		return wrapTag("pre", wrapTag("code", htmlEscape(v.Value)))
	case mdast.CodeInline:
		return wrapTag("code", htmlEscape(v.Value))
	case mdast.Link:
		return `<a href="` + htmlEscape(v.URL) + `">` + renderChildrenHTML(v.Values) + `</a>`
	case mdast.Image:
		return `<img src="` + htmlEscape(v.URL) + `" alt="` + htmlEscape(v.Alt) + `">`
	case mdast.Emphasis:
		return wrapTag("em", renderChildrenHTML(v.Values))
	case mdast.Strong:
		return wrapTag("strong", renderChildrenHTML(v.Values))
	case mdast.Delete:
		return wrapTag("del", renderChildrenHTML(v.Values))
	case mdast.Break:
		return "<br>"
	case mdast.HorizontalRule:
		return "<hr>"
	case mdast.Text:
		return htmlEscape(v.Value)
	case mdast.Empty:
		return ""
	default:
		return htmlEscape(mdast.Render(n, mdast.DefaultRenderOptions))
	}
}

func renderChildrenHTML(nodes []mdast.Node) string {
	var b strings.Builder
	for _, c := range nodes {
		b.WriteString(mdastToHTML(c))
	}
	return b.String()
}

func wrapTag(tag, inner string) string {
	return "<" + tag + ">" + inner + "</" + tag + ">"
}

func htmlEscape(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")
	return r.Replace(s)
}

func itoaSmall(i int) string {
	if i < 1 {
		i = 1
	}
	if i > 6 {
		i = 6
	}
	return strconv.Itoa(i)
}
