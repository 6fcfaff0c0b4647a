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

import "strings"

// ListStyle controls the bullet marker Render uses for unordered lists.
type ListStyle int

const (
	ListDash ListStyle = iota
	ListPlus
	ListStar
)

func (s ListStyle) marker() string {
	switch s {
	case ListPlus:
		return "+"
	case ListStar:
		return "*"
	default:
		return "-"
	}
}

// LinkTitleStyle controls the quoting Render uses around a link's title.
type LinkTitleStyle int

const (
	LinkTitleDouble LinkTitleStyle = iota
	LinkTitleSingle
	LinkTitleParen
)

// LinkURLStyle controls whether Render wraps a link's URL in angle brackets.
type LinkURLStyle int

const (
	LinkURLPlain LinkURLStyle = iota
	LinkURLAngle
)

// RenderOptions configures Render's output, grounded on spec.md §3.5's
// "rendering is controlled by options (list style, link title/url style)".
type RenderOptions struct {
	ListStyle      ListStyle
	LinkTitleStyle LinkTitleStyle
	LinkURLStyle   LinkURLStyle
}

// DefaultRenderOptions matches common Markdown formatter defaults.
var DefaultRenderOptions = RenderOptions{
	ListStyle:      ListDash,
	LinkTitleStyle: LinkTitleDouble,
	LinkURLStyle:   LinkURLPlain,
}

// Render renders n back to Markdown text under opts. Render is total: every
// Node variant has a case, and Empty renders as "".
func Render(n Node, opts RenderOptions) string {
	var b strings.Builder
	render(&b, n, opts)
	return b.String()
}

func renderChildren(b *strings.Builder, nodes []Node, opts RenderOptions) {
	for i, c := range nodes {
		if i > 0 {
			b.WriteByte(' ')
		}
		render(b, c, opts)
	}
}

func render(b *strings.Builder, n Node, opts RenderOptions) {
	switch v := n.(type) {
	case Heading:
		b.WriteString(strings.Repeat("#", v.Depth))
		b.WriteByte(' ')
		renderChildren(b, v.Values, opts)
	case Paragraph:
		renderChildren(b, v.Values, opts)
	case Fragment:
		for i, c := range v.Values {
			if i > 0 {
				b.WriteByte('\n')
			}
			render(b, c, opts)
		}
	case List:
		marker := opts.ListStyle.marker()
		if v.Ordered {
			marker = itoa(v.Index) + "."
		}
		if v.Checked != nil {
			box := "[ ]"
			if *v.Checked {
				box = "[x]"
			}
			b.WriteString(marker + " " + box + " ")
		} else {
			b.WriteString(marker + " ")
		}
		renderChildren(b, v.Values, opts)
	case Blockquote:
		b.WriteString("> ")
		renderChildren(b, v.Values, opts)
	case Code:
		if v.Fence != "" {
			b.WriteString(v.Fence)
		} else {
			b.WriteString("```")
		}
		b.WriteString(v.Lang)
		if v.Meta != "" {
			b.WriteByte(' ')
			b.WriteString(v.Meta)
		}
		b.WriteByte('\n')
		b.WriteString(v.Value)
		b.WriteByte('\n')
		if v.Fence != "" {
			b.WriteString(v.Fence)
		} else {
			b.WriteString("```")
		}
	case CodeInline:
		b.WriteByte('`')
		b.WriteString(v.Value)
		b.WriteByte('`')
	case Math:
		b.WriteString("$$\n")
		b.WriteString(v.Value)
		b.WriteString("\n$$")
	case MathInline:
		b.WriteByte('$')
		b.WriteString(v.Value)
		b.WriteByte('$')
	case Html:
		b.WriteString(v.Value)
	case Yaml:
		b.WriteString("---\n")
		b.WriteString(v.Value)
		b.WriteString("\n---")
	case Toml:
		b.WriteString("+++\n")
		b.WriteString(v.Value)
		b.WriteString("\n+++")
	case Link:
		b.WriteByte('[')
		renderChildren(b, v.Values, opts)
		b.WriteString("](")
		writeURL(b, v.URL, opts)
		writeTitle(b, v.Title, opts)
		b.WriteByte(')')
	case LinkRef:
		b.WriteByte('[')
		renderChildren(b, v.Values, opts)
		b.WriteString("][")
		b.WriteString(v.Ident)
		b.WriteByte(']')
	case Image:
		b.WriteString("![")
		b.WriteString(v.Alt)
		b.WriteString("](")
		writeURL(b, v.URL, opts)
		writeTitle(b, v.Title, opts)
		b.WriteByte(')')
	case ImageRef:
		b.WriteString("![")
		b.WriteString(v.Alt)
		b.WriteString("][")
		b.WriteString(v.Ident)
		b.WriteByte(']')
	case Definition:
		b.WriteByte('[')
		b.WriteString(v.Ident)
		b.WriteString("]: ")
		b.WriteString(v.URL)
		writeTitle(b, v.Title, opts)
	case Footnote:
		b.WriteString("[^")
		b.WriteString(v.Ident)
		b.WriteString("]: ")
		renderChildren(b, v.Values, opts)
	case FootnoteRef:
		b.WriteString("[^")
		b.WriteString(v.Ident)
		b.WriteByte(']')
	case TableRow:
		b.WriteByte('|')
		for _, c := range v.Values {
			b.WriteByte(' ')
			render(b, c, opts)
			b.WriteString(" |")
		}
	case TableCell:
		renderChildren(b, v.Values, opts)
	case TableHeader:
		b.WriteByte('|')
		for _, c := range v.Values {
			b.WriteByte(' ')
			render(b, c, opts)
			b.WriteString(" |")
		}
	case Text:
		b.WriteString(v.Value)
	case Emphasis:
		b.WriteByte('*')
		renderChildren(b, v.Values, opts)
		b.WriteByte('*')
	case Strong:
		b.WriteString("**")
		renderChildren(b, v.Values, opts)
		b.WriteString("**")
	case Delete:
		b.WriteString("~~")
		renderChildren(b, v.Values, opts)
		b.WriteString("~~")
	case Break:
		b.WriteString("\n")
	case HorizontalRule:
		b.WriteString("---")
	case MdxJsxFlowElement:
		renderMdxElement(b, v.Name, v.Attributes, v.Children, opts)
	case MdxJsxTextElement:
		renderMdxElement(b, v.Name, v.Attributes, v.Children, opts)
	case MdxFlowExpression:
		b.WriteByte('{')
		b.WriteString(v.Value)
		b.WriteByte('}')
	case MdxTextExpression:
		b.WriteByte('{')
		b.WriteString(v.Value)
		b.WriteByte('}')
	case MdxJsEsm:
		b.WriteString(v.Value)
	case Empty:
		// renders as nothing
	}
}

func renderMdxElement(b *strings.Builder, name string, attrs map[string]string, children []Node, opts RenderOptions) {
	b.WriteByte('<')
	b.WriteString(name)
	for k, v := range attrs {
		b.WriteByte(' ')
		b.WriteString(k)
		b.WriteString(`="`)
		b.WriteString(v)
		b.WriteByte('"')
	}
	if len(children) == 0 {
		b.WriteString(" />")
		return
	}
	b.WriteByte('>')
	renderChildren(b, children, opts)
	b.WriteString("</")
	b.WriteString(name)
	b.WriteByte('>')
}

func writeURL(b *strings.Builder, url string, opts RenderOptions) {
	if opts.LinkURLStyle == LinkURLAngle {
		b.WriteByte('<')
		b.WriteString(url)
		b.WriteByte('>')
		return
	}
	b.WriteString(url)
}

func writeTitle(b *strings.Builder, title string, opts RenderOptions) {
	if title == "" {
		return
	}
	b.WriteByte(' ')
	switch opts.LinkTitleStyle {
	case LinkTitleSingle:
		b.WriteByte('\'')
		b.WriteString(title)
		b.WriteByte('\'')
	case LinkTitleParen:
		b.WriteByte('(')
		b.WriteString(title)
		b.WriteByte(')')
	default:
		b.WriteByte('"')
		b.WriteString(title)
		b.WriteByte('"')
	}
}

func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	neg := i < 0
	if neg {
		i = -i
	}
	var digits []byte
	for i > 0 {
		digits = append([]byte{byte('0' + i%10)}, digits...)
		i /= 10
	}
	if neg {
		return "-" + string(digits)
	}
	return string(digits)
}
