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

import "testing"

func TestRenderHeading(t *testing.T) {
	n := Heading{Depth: 2, Values: []Node{Text{Value: "Title"}}}
	got := Render(n, DefaultRenderOptions)
	want := "## Title"
	if got != want {
		t.Fatalf("Render() = %q, want %q", got, want)
	}
}

func TestRenderLink(t *testing.T) {
	n := Link{URL: "https://example.com", Title: "ex", Values: []Node{Text{Value: "go"}}}
	got := Render(n, DefaultRenderOptions)
	want := `[go](https://example.com "ex")`
	if got != want {
		t.Fatalf("Render() = %q, want %q", got, want)
	}
}

func TestRenderLinkAngleURLAndSingleTitle(t *testing.T) {
	opts := RenderOptions{LinkURLStyle: LinkURLAngle, LinkTitleStyle: LinkTitleSingle}
	n := Link{URL: "https://example.com", Title: "ex", Values: []Node{Text{Value: "go"}}}
	got := Render(n, opts)
	want := "[go](<https://example.com> 'ex')"
	if got != want {
		t.Fatalf("Render() = %q, want %q", got, want)
	}
}

func TestRenderListOrdered(t *testing.T) {
	n := List{Ordered: true, Index: 3, Values: []Node{Text{Value: "item"}}}
	got := Render(n, DefaultRenderOptions)
	want := "3. item"
	if got != want {
		t.Fatalf("Render() = %q, want %q", got, want)
	}
}

func TestRenderEmptyIsBlank(t *testing.T) {
	if got := Render(Empty{}, DefaultRenderOptions); got != "" {
		t.Fatalf("Render(Empty{}) = %q, want empty", got)
	}
}

func TestRenderCodeInline(t *testing.T) {
	n := CodeInline{Value: "x := 1"}
	if got, want := Render(n, DefaultRenderOptions), "`x := 1`"; got != want {
		t.Fatalf("Render() = %q, want %q", got, want)
	}
}
