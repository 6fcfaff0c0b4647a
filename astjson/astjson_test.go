/*
 * mq
 *
 * Copyright 2024 mq contributors. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

package astjson

import (
	"encoding/json"
	"testing"

	"github.com/harehare/mq/ast"
	"github.com/harehare/mq/parser"
	"github.com/harehare/mq/token"
)

func parseOne(t *testing.T, src string) (*ast.Tree, ast.NodeId) {
	t.Helper()
	tree := ast.NewTree()
	prog, err := parser.Parse("test", token.TopLevelModule, src, tree)
	if err != nil {
		t.Fatalf("Parse(%q) error: %v", src, err)
	}
	if len(prog) != 1 {
		t.Fatalf("Parse(%q) produced %d top-level nodes, want 1", src, len(prog))
	}
	return tree, prog[0]
}

// roundTrip encodes src's single top-level node, decodes it back into a
// fresh tree, and re-encodes the result - the two encodings should be
// byte-for-byte identical since decode is encode's exact inverse (spec.md
// §7's AST JSON round-trip law, modulo token_id which neither encoding
// ever carries).
func roundTrip(t *testing.T, src string) map[string]interface{} {
	t.Helper()
	tree, id := parseOne(t, src)

	data, err := Encode(tree, id)
	if err != nil {
		t.Fatalf("Encode(%q) error: %v", src, err)
	}

	tree2 := ast.NewTree()
	id2, err := Decode(tree2, data)
	if err != nil {
		t.Fatalf("Decode(%q) error: %v\ndata: %s", src, err, data)
	}

	data2, err := Encode(tree2, id2)
	if err != nil {
		t.Fatalf("re-Encode(%q) error: %v", src, err)
	}

	if string(data) != string(data2) {
		t.Fatalf("round trip mismatch for %q:\n  first:  %s\n  second: %s", src, data, data2)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("re-parsing encoded JSON failed: %v", err)
	}
	return decoded
}

func exprTag(t *testing.T, decoded map[string]interface{}) (string, interface{}) {
	t.Helper()
	exprMap, ok := decoded["expr"].(map[string]interface{})
	if !ok {
		t.Fatalf("decoded node has no \"expr\" object: %#v", decoded)
	}
	if len(exprMap) != 1 {
		t.Fatalf("expr object should have one tag, got %#v", exprMap)
	}
	for k, v := range exprMap {
		return k, v
	}
	panic("unreachable")
}

func TestRoundTripNumberLiteral(t *testing.T) {
	decoded := roundTrip(t, "42")
	tag, payload := exprTag(t, decoded)
	if tag != "Literal" {
		t.Fatalf("tag = %q, want Literal", tag)
	}
	lit := payload.(map[string]interface{})
	if lit["Number"] != 42.0 {
		t.Fatalf("Number payload = %v, want 42", lit["Number"])
	}
}

func TestRoundTripStringLiteral(t *testing.T) {
	decoded := roundTrip(t, `"hello"`)
	tag, payload := exprTag(t, decoded)
	if tag != "Literal" {
		t.Fatalf("tag = %q, want Literal", tag)
	}
	lit := payload.(map[string]interface{})
	if lit["String"] != "hello" {
		t.Fatalf("String payload = %v, want hello", lit["String"])
	}
}

func TestRoundTripCall(t *testing.T) {
	decoded := roundTrip(t, `add(1, 2)`)
	tag, payload := exprTag(t, decoded)
	if tag != "Call" {
		t.Fatalf("tag = %q, want Call", tag)
	}
	fs := payload.([]interface{})
	if len(fs) != 3 {
		t.Fatalf("Call payload has %d fields, want 3", len(fs))
	}
	name := fs[0].(map[string]interface{})
	if name["name"] != "add" {
		t.Fatalf("Call name = %v, want add", name["name"])
	}
	args := fs[1].([]interface{})
	if len(args) != 2 {
		t.Fatalf("Call args len = %d, want 2", len(args))
	}
	if fs[2] != false {
		t.Fatalf("Call optional = %v, want false", fs[2])
	}
}

func TestRoundTripLetBinding(t *testing.T) {
	decoded := roundTrip(t, `let x = 1;`)
	tag, _ := exprTag(t, decoded)
	if tag != "Let" {
		t.Fatalf("tag = %q, want Let", tag)
	}
}

func TestRoundTripIf(t *testing.T) {
	decoded := roundTrip(t, `if (true): 1 elif (false): 2 else: 3;`)
	tag, payload := exprTag(t, decoded)
	if tag != "If" {
		t.Fatalf("tag = %q, want If", tag)
	}
	branches := payload.([]interface{})
	if len(branches) != 3 {
		t.Fatalf("If has %d branches, want 3", len(branches))
	}
	last := branches[2].(map[string]interface{})
	if last["cond"] != nil {
		t.Fatalf("else branch should have a nil cond, got %v", last["cond"])
	}
}

func TestRoundTripMatchWithArrayRestPattern(t *testing.T) {
	decoded := roundTrip(t, `match (xs): [first, rest] => first, _ => None;`)
	tag, payload := exprTag(t, decoded)
	if tag != "Match" {
		t.Fatalf("tag = %q, want Match", tag)
	}
	fs := payload.([]interface{})
	arms := fs[1].([]interface{})
	if len(arms) != 2 {
		t.Fatalf("Match has %d arms, want 2", len(arms))
	}
	firstArm := arms[0].(map[string]interface{})
	pat := firstArm["pattern"].(map[string]interface{})
	if len(pat) != 1 {
		t.Fatalf("pattern object should have one tag, got %#v", pat)
	}
	arrElems, ok := pat["Array"].([]interface{})
	if !ok {
		t.Fatalf("expected an Array pattern tag, got %#v", pat)
	}
	if len(arrElems) != 2 {
		t.Fatalf("Array pattern has %d elems, want 2", len(arrElems))
	}
	last := arrElems[1].(map[string]interface{})
	if _, ok := last["ArrayRest"]; !ok {
		t.Fatalf("expected the last Array elem to be an ArrayRest pattern, got %#v", last)
	}
}

func TestRoundTripPipe(t *testing.T) {
	decoded := roundTrip(t, `.h1 | upcase() | trim()`)
	tag, payload := exprTag(t, decoded)
	if tag != "Pipe" {
		t.Fatalf("tag = %q, want Pipe", tag)
	}
	stages := payload.([]interface{})
	if len(stages) != 3 {
		t.Fatalf("Pipe has %d stages, want 3", len(stages))
	}
}

func TestRoundTripSelector(t *testing.T) {
	decoded := roundTrip(t, `.list(2, true)`)
	tag, payload := exprTag(t, decoded)
	if tag != "SelectorExpr" {
		t.Fatalf("tag = %q, want SelectorExpr", tag)
	}
	sel := payload.(map[string]interface{})
	if sel["Name"] != "list" {
		t.Fatalf("selector name = %v, want list", sel["Name"])
	}
}

func TestRoundTripInterpolatedString(t *testing.T) {
	decoded := roundTrip(t, `"value: {x}"`)
	tag, payload := exprTag(t, decoded)
	if tag != "InterpolatedString" {
		t.Fatalf("tag = %q, want InterpolatedString", tag)
	}
	segs := payload.([]interface{})
	if len(segs) == 0 {
		t.Fatalf("expected at least one segment")
	}
	kinds := make([]string, len(segs))
	for i, s := range segs {
		kinds[i] = s.(map[string]interface{})["kind"].(string)
	}
	hasExpr := false
	for _, k := range kinds {
		if k == "expr" {
			hasExpr = true
		}
	}
	if !hasExpr {
		t.Fatalf("expected an \"expr\" segment among %v", kinds)
	}
}

func TestRoundTripModuleDecl(t *testing.T) {
	decoded := roundTrip(t, `module geo: def area(side): side * side; ;`)
	tag, payload := exprTag(t, decoded)
	if tag != "ModuleDecl" {
		t.Fatalf("tag = %q, want ModuleDecl", tag)
	}
	fs := payload.([]interface{})
	name := fs[0].(map[string]interface{})
	if name["name"] != "geo" {
		t.Fatalf("module name = %v, want geo", name["name"])
	}
}

func TestDecodeInvalidJSONReportsError(t *testing.T) {
	tree := ast.NewTree()
	if _, err := Decode(tree, []byte(`{"expr": {"Bogus": null}}`)); err == nil {
		t.Fatalf("expected an error decoding an unknown Expr tag")
	}
}

func TestDecodeMissingExprFieldReportsError(t *testing.T) {
	tree := ast.NewTree()
	if _, err := Decode(tree, []byte(`{}`)); err == nil {
		t.Fatalf("expected an error decoding a node with no \"expr\" field")
	}
}

func TestValidateFlagsAllowsDefaults(t *testing.T) {
	if err := ValidateFlags(false, false, false); err != nil {
		t.Fatalf("ValidateFlags(false, false, false) = %v, want nil", err)
	}
}

func TestValidateFlagsRejectsOutputAndExecuteTogether(t *testing.T) {
	if err := ValidateFlags(true, true, false); err == nil {
		t.Fatalf("expected an error for --output-ast-json with --execute-ast-json")
	}
}

func TestValidateFlagsRejectsExecuteWithUpdate(t *testing.T) {
	if err := ValidateFlags(false, true, true); err == nil {
		t.Fatalf("expected an error for --execute-ast-json with --update")
	}
}

func TestValidateFlagsAllowsOutputWithUpdate(t *testing.T) {
	if err := ValidateFlags(true, false, true); err != nil {
		t.Fatalf("ValidateFlags(true, false, true) = %v, want nil", err)
	}
}
