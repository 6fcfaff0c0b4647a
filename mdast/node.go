/*
 * mq
 *
 * Copyright 2024 mq contributors. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

// Package mdast defines the Markdown document model of spec.md §3.5: a
// typed tree of MarkdownNode variants covering CommonMark + GFM + MDX, and
// a total Render function back to text. Producing the tree from Markdown
// source is out of core scope (spec.md §1); this package only defines the
// shape and the operations the query language needs over it.
//
// Grounded on the teacher's interpreter/rt_value.go, which implements one
// total function per runtime value shape (String/ToJSONObject); the same
// "one case per variant, no partial functions" discipline is used here for
// Render and for selector/Match.
package mdast

// Position is an optional source position carried by most nodes.
type Position struct {
	Line   int
	Column int
}

// Node is any Markdown document node. The marker method keeps the set
// closed to this package, mirroring ast.Expr's design.
type Node interface {
	mdNode()
	// Kind returns the base selector keyword for this node's type, e.g.
	// "h", "list", "code_inline" - used by Match to test type selectors.
	Kind() string
	// Pos returns the node's source position, or nil if unknown.
	Pos() *Position
}

type base struct {
	Position *Position
}

func (b base) Pos() *Position { return b.Position }

// Heading is `#`..`######`.
type Heading struct {
	base
	Depth  int
	Values []Node
}

func (Heading) mdNode()     {}
func (h Heading) Kind() string { return "h" }

// Paragraph is a run of inline content.
type Paragraph struct {
	base
	Values []Node
}

func (Paragraph) mdNode()      {}
func (Paragraph) Kind() string { return "paragraph" }

// Fragment groups nodes without its own block semantics (e.g. a document
// root, or the result of a selector matching several siblings).
type Fragment struct {
	base
	Values []Node
}

func (Fragment) mdNode()      {}
func (Fragment) Kind() string { return "fragment" }

// List is an ordered or unordered list.
type List struct {
	base
	Ordered bool
	Index   int // starting index for ordered lists
	Checked *bool
	Values  []Node
}

func (List) mdNode()      {}
func (List) Kind() string { return "list" }

type Blockquote struct {
	base
	Values []Node
}

func (Blockquote) mdNode()      {}
func (Blockquote) Kind() string { return "blockquote" }

// Code is a fenced code block.
type Code struct {
	base
	Lang  string
	Meta  string
	Value string
	Fence string
}

func (Code) mdNode()      {}
func (Code) Kind() string { return "code" }

type CodeInline struct {
	base
	Value string
}

func (CodeInline) mdNode()      {}
func (CodeInline) Kind() string { return "code_inline" }

type Math struct {
	base
	Value string
}

func (Math) mdNode()      {}
func (Math) Kind() string { return "math" }

type MathInline struct {
	base
	Value string
}

func (MathInline) mdNode()      {}
func (MathInline) Kind() string { return "math_inline" }

type Html struct {
	base
	Value string
}

func (Html) mdNode()      {}
func (Html) Kind() string { return "html" }

type Yaml struct {
	base
	Value string
}

func (Yaml) mdNode()      {}
func (Yaml) Kind() string { return "yaml" }

type Toml struct {
	base
	Value string
}

func (Toml) mdNode()      {}
func (Toml) Kind() string { return "toml" }

type Link struct {
	base
	URL    string
	Title  string
	Values []Node
}

func (Link) mdNode()      {}
func (Link) Kind() string { return "link" }

type LinkRef struct {
	base
	Ident  string
	Label  string
	Values []Node
}

func (LinkRef) mdNode()      {}
func (LinkRef) Kind() string { return "link_ref" }

type Image struct {
	base
	URL   string
	Alt   string
	Title string
}

func (Image) mdNode()      {}
func (Image) Kind() string { return "image" }

type ImageRef struct {
	base
	Ident string
	Alt   string
	Label string
}

func (ImageRef) mdNode()      {}
func (ImageRef) Kind() string { return "image_ref" }

type Definition struct {
	base
	Ident string
	URL   string
	Title string
	Label string
}

func (Definition) mdNode()      {}
func (Definition) Kind() string { return "definition" }

type Footnote struct {
	base
	Ident  string
	Values []Node
}

func (Footnote) mdNode()      {}
func (Footnote) Kind() string { return "footnote" }

type FootnoteRef struct {
	base
	Ident string
	Label string
}

func (FootnoteRef) mdNode()      {}
func (FootnoteRef) Kind() string { return "footnote_ref" }

type TableRow struct {
	base
	Values []Node
}

func (TableRow) mdNode()      {}
func (TableRow) Kind() string { return "table" }

type TableCell struct {
	base
	Values            []Node
	Column            int
	Row               int
	LastCellInRow     bool
	LastCellOfInTable bool
}

func (TableCell) mdNode()      {}
func (TableCell) Kind() string { return "table" }

type TableHeader struct {
	base
	Align  []string
	Values []Node
}

func (TableHeader) mdNode()      {}
func (TableHeader) Kind() string { return "table" }

type Text struct {
	base
	Value string
}

func (Text) mdNode()      {}
func (Text) Kind() string { return "text" }

type Emphasis struct {
	base
	Values []Node
}

func (Emphasis) mdNode()      {}
func (Emphasis) Kind() string { return "emphasis" }

type Strong struct {
	base
	Values []Node
}

func (Strong) mdNode()      {}
func (Strong) Kind() string { return "strong" }

type Delete struct {
	base
	Values []Node
}

func (Delete) mdNode()      {}
func (Delete) Kind() string { return "delete" }

type Break struct{ base }

func (Break) mdNode()      {}
func (Break) Kind() string { return "break" }

type HorizontalRule struct{ base }

func (HorizontalRule) mdNode()      {}
func (HorizontalRule) Kind() string { return "horizontal_rule" }

// MdxJsxFlowElement is an MDX block-level JSX element.
type MdxJsxFlowElement struct {
	base
	Name       string
	Attributes map[string]string
	Children   []Node
}

func (MdxJsxFlowElement) mdNode()      {}
func (MdxJsxFlowElement) Kind() string { return "mdx_jsx_flow_element" }

// MdxJsxTextElement is an MDX inline JSX element.
type MdxJsxTextElement struct {
	base
	Name       string
	Attributes map[string]string
	Children   []Node
}

func (MdxJsxTextElement) mdNode()      {}
func (MdxJsxTextElement) Kind() string { return "mdx_jsx_text_element" }

type MdxFlowExpression struct {
	base
	Value string
}

func (MdxFlowExpression) mdNode()      {}
func (MdxFlowExpression) Kind() string { return "mdx_flow_expression" }

type MdxTextExpression struct {
	base
	Value string
}

func (MdxTextExpression) mdNode()      {}
func (MdxTextExpression) Kind() string { return "mdx_text_expression" }

type MdxJsEsm struct {
	base
	Value string
}

func (MdxJsEsm) mdNode()      {}
func (MdxJsEsm) Kind() string { return "mdx_js_esm" }

// Empty is the absence of a node - the falsy Markdown value (spec.md §4.5
// truthiness table: "Markdown(Empty) [is] falsy").
type Empty struct{ base }

func (Empty) mdNode()      {}
func (Empty) Kind() string { return "empty" }

// Children returns n's direct child nodes, or nil for leaf nodes. Used by
// selector matching's ".children" attribute and by Render.
func Children(n Node) []Node {
	switch v := n.(type) {
	case Heading:
		return v.Values
	case Paragraph:
		return v.Values
	case Fragment:
		return v.Values
	case List:
		return v.Values
	case Blockquote:
		return v.Values
	case Link:
		return v.Values
	case LinkRef:
		return v.Values
	case Footnote:
		return v.Values
	case TableRow:
		return v.Values
	case TableCell:
		return v.Values
	case TableHeader:
		return v.Values
	case Emphasis:
		return v.Values
	case Strong:
		return v.Values
	case Delete:
		return v.Values
	case MdxJsxFlowElement:
		return v.Children
	case MdxJsxTextElement:
		return v.Children
	}
	return nil
}
