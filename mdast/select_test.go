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
	"testing"

	"github.com/harehare/mq/selector"
)

func TestMatchHeadingDepth(t *testing.T) {
	doc := Fragment{Values: []Node{
		Heading{Depth: 1, Values: []Node{Text{Value: "a"}}},
		Heading{Depth: 2, Values: []Node{Text{Value: "b"}}},
	}}

	sel, err := selector.Parse(".h2")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	got := Match(doc, sel)
	if len(got) != 1 {
		t.Fatalf("Match(.h2) = %d nodes, want 1", len(got))
	}
	h, ok := got[0].(Heading)
	if !ok || h.Depth != 2 {
		t.Fatalf("Match(.h2) returned %#v", got[0])
	}
}

func TestMatchAnyHeading(t *testing.T) {
	doc := Fragment{Values: []Node{
		Heading{Depth: 1},
		Heading{Depth: 3},
		Paragraph{},
	}}
	sel, _ := selector.Parse(".h")
	got := Match(doc, sel)
	if len(got) != 2 {
		t.Fatalf("Match(.h) = %d nodes, want 2", len(got))
	}
}

func TestMatchListWithArgs(t *testing.T) {
	doc := Fragment{Values: []Node{
		List{Index: 1, Ordered: true},
		List{Index: 2, Ordered: true},
	}}
	sel, err := selector.Parse(".list(2, true)")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	got := Match(doc, sel)
	if len(got) != 1 {
		t.Fatalf("Match(.list(2,true)) = %d nodes, want 1", len(got))
	}
}

func TestAttributeValue(t *testing.T) {
	n := CodeInline{Value: "x"}
	v, ok := Attribute(n, "value")
	if !ok || v != "x" {
		t.Fatalf("Attribute(value) = %v, %v", v, ok)
	}
	if _, ok := Attribute(n, "url"); ok {
		t.Fatalf("Attribute(url) on CodeInline should not exist")
	}
}

func TestAttributeChecked(t *testing.T) {
	checked := true
	n := List{Checked: &checked}
	v, ok := Attribute(n, "checked")
	if !ok || v != true {
		t.Fatalf("Attribute(checked) = %v, %v", v, ok)
	}

	n2 := List{}
	if _, ok := Attribute(n2, "checked"); ok {
		t.Fatalf("Attribute(checked) on unchecked list should be absent")
	}
}
