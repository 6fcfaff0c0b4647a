/*
 * mq
 *
 * Copyright 2024 mq contributors. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

package selector

import "testing"

func TestParseTypeSelector(t *testing.T) {
	sel, err := Parse(".h1")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if sel.Name != "h1" || len(sel.Args) != 0 {
		t.Fatalf("Parse(\".h1\") = %#v, want Name=h1, no args", sel)
	}
}

func TestParseAttributeSelector(t *testing.T) {
	sel, err := Parse(".value")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if sel.Name != "value" {
		t.Fatalf("Parse(\".value\") = %#v, want Name=value", sel)
	}
	if !IsAttribute(sel.Name) {
		t.Fatalf("IsAttribute(%q) = false, want true", sel.Name)
	}
}

func TestIsAttributeFalseForTypeSelector(t *testing.T) {
	if IsAttribute("h1") {
		t.Fatalf("IsAttribute(\"h1\") = true, want false")
	}
}

func TestParseParameterizedSelectorMixedArgs(t *testing.T) {
	sel, err := Parse(`.list(2, true, "x", foo)`)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if sel.Name != "list" || len(sel.Args) != 4 {
		t.Fatalf("Parse(...) = %#v, want Name=list, 4 args", sel)
	}
	if sel.Args[0].Kind != ArgNumber || sel.Args[0].Number != 2 {
		t.Fatalf("arg 0 = %#v, want Number(2)", sel.Args[0])
	}
	if sel.Args[1].Kind != ArgBool || sel.Args[1].Bool != true {
		t.Fatalf("arg 1 = %#v, want Bool(true)", sel.Args[1])
	}
	if sel.Args[2].Kind != ArgString || sel.Args[2].String != "x" {
		t.Fatalf("arg 2 = %#v, want String(\"x\")", sel.Args[2])
	}
	if sel.Args[3].Kind != ArgIdent || sel.Args[3].Ident != "foo" {
		t.Fatalf("arg 3 = %#v, want Ident(\"foo\")", sel.Args[3])
	}
}

func TestParseMultipleNumericArgs(t *testing.T) {
	sel, err := Parse(".table(1,2)")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if len(sel.Args) != 2 || sel.Args[0].Number != 1 || sel.Args[1].Number != 2 {
		t.Fatalf("Parse(\".table(1,2)\") = %#v, want [1, 2]", sel.Args)
	}
}

func TestParseFloatArg(t *testing.T) {
	sel, err := Parse(".opacity(0.5)")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if len(sel.Args) != 1 || sel.Args[0].Number != 0.5 {
		t.Fatalf("Parse(\".opacity(0.5)\") = %#v, want [0.5]", sel.Args)
	}
}

func TestParseRequiresLeadingDot(t *testing.T) {
	if _, err := Parse("h1"); err == nil {
		t.Fatalf("expected error for selector text without a leading dot")
	}
}

func TestParseRejectsEmptySelector(t *testing.T) {
	if _, err := Parse("."); err == nil {
		t.Fatalf("expected error for empty selector body")
	}
}

func TestParseRejectsInvalidGrammar(t *testing.T) {
	if _, err := Parse(".(1"); err == nil {
		t.Fatalf("expected error for malformed selector body")
	}
}
