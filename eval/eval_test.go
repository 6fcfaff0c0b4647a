/*
 * mq
 *
 * Copyright 2024 mq contributors. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

package eval

import (
	"errors"
	"testing"

	"github.com/harehare/mq/ast"
	"github.com/harehare/mq/env"
	"github.com/harehare/mq/internal/mqerr"
	"github.com/harehare/mq/mdast"
	"github.com/harehare/mq/module"
	"github.com/harehare/mq/parser"
	"github.com/harehare/mq/token"
	"github.com/harehare/mq/value"
)

func parseProg(t *testing.T, tree *ast.Tree, src string) ast.Program {
	t.Helper()
	prog, err := parser.Parse("test", token.TopLevelModule, src, tree)
	if err != nil {
		t.Fatalf("Parse(%q) error: %v", src, err)
	}
	return prog
}

func runSrc(t *testing.T, src string, inputs []value.Value) ([]value.Value, error) {
	t.Helper()
	tree := ast.NewTree()
	prog := parseProg(t, tree, src)
	ev := New(tree, module.NewLoader(nil), DefaultOptions())
	return ev.Run(prog, inputs)
}

func runOne(t *testing.T, src string) value.Value {
	t.Helper()
	out, err := runSrc(t, src, []value.Value{value.None})
	if err != nil {
		t.Fatalf("Run(%q) error: %v", src, err)
	}
	if len(out) != 1 {
		t.Fatalf("Run(%q) = %v, want exactly one result", src, out)
	}
	return out[0]
}

func TestRunArithmetic(t *testing.T) {
	v := runOne(t, `1 + 2 * 3`)
	if v.Kind != value.KindNumber || v.Num != 7 {
		t.Fatalf("got %v, want 7", v)
	}
}

func TestRunLetBindingAndIdent(t *testing.T) {
	v := runOne(t, `let x = 10; x + 1`)
	if v.Kind != value.KindNumber || v.Num != 11 {
		t.Fatalf("got %v, want 11", v)
	}
}

func TestRunVarAssignMutates(t *testing.T) {
	v := runOne(t, `var x = 1; x = x + 41; x`)
	if v.Kind != value.KindNumber || v.Num != 42 {
		t.Fatalf("got %v, want 42", v)
	}
}

func TestRunAssignToLetIsImmutableError(t *testing.T) {
	_, err := runSrc(t, `let x = 1; x = 2; x`, []value.Value{value.None})
	if err == nil {
		t.Fatalf("expected an error assigning to a let binding")
	}
	if !errors.Is(err, mqerr.ErrImmutableAssign) {
		t.Fatalf("err = %v, want ErrImmutableAssign", err)
	}
	var re *mqerr.RuntimeError
	if !errors.As(err, &re) {
		t.Fatalf("err = %#v, want *mqerr.RuntimeError", err)
	}
}

func TestRunUndefinedVariable(t *testing.T) {
	_, err := runSrc(t, `y`, []value.Value{value.None})
	if !errors.Is(err, mqerr.ErrUndefinedVariable) {
		t.Fatalf("err = %v, want ErrUndefinedVariable", err)
	}
}

func TestRunIfElifElse(t *testing.T) {
	cases := map[string]float64{
		`if (false): 1 elif (true): 2 else: 3`:  2,
		`if (false): 1 elif (false): 2 else: 3`: 3,
		`if (true): 1 elif (true): 2 else: 3`:   1,
	}
	for src, want := range cases {
		v := runOne(t, src)
		if v.Kind != value.KindNumber || v.Num != want {
			t.Fatalf("%q = %v, want %v", src, v, want)
		}
	}
}

func TestRunWhileAccumulates(t *testing.T) {
	// A block body is a plain juxtaposition of statements (parsePipeChain
	// naturally stops where the next token can't extend it), closed by a
	// single trailing ';' - no separator is needed between "sum = sum + i"
	// and "i = i + 1".
	v := runOne(t, `var i = 0; var sum = 0; while (i < 5): sum = sum + i i = i + 1; sum`)
	if v.Kind != value.KindNumber || v.Num != 10 {
		t.Fatalf("got %v, want 10", v)
	}
}

func TestRunUntilStopsWhenTrue(t *testing.T) {
	v := runOne(t, `var i = 0; until (i == 3): i = i + 1; i`)
	if v.Kind != value.KindNumber || v.Num != 3 {
		t.Fatalf("got %v, want 3", v)
	}
}

func TestRunLoopBreakWithValue(t *testing.T) {
	v := runOne(t, `var i = 0; loop: i = i + 1 if (i == 4): break i * 10;`)
	if v.Kind != value.KindNumber || v.Num != 40 {
		t.Fatalf("got %v, want 40", v)
	}
}

func TestRunContinueSkipsRemainderOfLoopBody(t *testing.T) {
	// i == 1 is skipped before it would be added, so sum accumulates
	// 0, 2, 3, 4 across the iterations where i runs from 0 up to 4.
	v := runOne(t, `var i = -1; var sum = 0; while (i < 4): i = i + 1 if (i == 1): continue sum = sum + i; sum`)
	if v.Kind != value.KindNumber || v.Num != 9 {
		t.Fatalf("got %v, want 9 (0+2+3+4)", v)
	}
}

func TestRunForeachCollectsResults(t *testing.T) {
	tree := ast.NewTree()
	prog := parseProg(t, tree, `foreach (x, nodes): x + 1;`)
	ev := New(tree, module.NewLoader(nil), DefaultOptions())
	out, err := ev.Run(prog, []value.Value{value.Number(1), value.Number(2), value.Number(3)})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	// nodes captures every input for the whole Run call, so each of the 3
	// top-level inputs runs the same foreach over [1, 2, 3]; each of those
	// 3-element Array results is then fanned out into separate top-level
	// values, for 3 inputs x 3 elements = 9 total.
	if len(out) != 9 {
		t.Fatalf("len(out) = %d, want 9", len(out))
	}
	want := []float64{2, 3, 4, 2, 3, 4, 2, 3, 4}
	for i, v := range out {
		if v.Kind != value.KindNumber || v.Num != want[i] {
			t.Fatalf("out[%d] = %v, want %v", i, v, want[i])
		}
	}
}

func TestRunMatchPatternsAndGuard(t *testing.T) {
	cases := map[string]string{
		`match (1): 1 => "one", _ => "other";`:                "one",
		`match (2): 1 => "one", _ => "other";`:                "other",
		`match (5): n if (n > 3) => "big", _ => "small";`:     "big",
		`match (2): n if (n > 3) => "big", _ => "small";`:     "small",
		`match ([1, 2, 3]): [a, b, c] => a + b + c, _ => -1;`: "6",
	}
	for src, want := range cases {
		v := runOne(t, src)
		if v.String() != want {
			t.Fatalf("%q = %v, want %v", src, v, want)
		}
	}
}

func TestRunMatchArrayRestBindsTail(t *testing.T) {
	// The match arm's body evaluates to the bound "rest" array [2, 3, 4];
	// since that's the program's only (and therefore last) top-level
	// stage, foldStages fans an Array result out into separate top-level
	// values rather than keeping it nested - the same rule that lets a
	// selector query's multiple matches surface as multiple results.
	out, err := runSrc(t, `match ([1, 2, 3, 4]): [head, rest] => rest, _ => [];`, []value.Value{value.None})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("len(out) = %d, want 3 (the fanned-out rest array)", len(out))
	}
	want := []float64{2, 3, 4}
	for i, v := range out {
		if v.Kind != value.KindNumber || v.Num != want[i] {
			t.Fatalf("out[%d] = %v, want %v", i, v, want[i])
		}
	}
}

func TestRunMatchNoArmErrors(t *testing.T) {
	_, err := runSrc(t, `match (1): 2 => "two";`, []value.Value{value.None})
	if !errors.Is(err, mqerr.ErrNoMatch) {
		t.Fatalf("err = %v, want ErrNoMatch", err)
	}
}

func TestRunDefAndCallClosure(t *testing.T) {
	v := runOne(t, `def double(x): x * 2; double(21)`)
	if v.Kind != value.KindNumber || v.Num != 42 {
		t.Fatalf("got %v, want 42", v)
	}
}

func TestRunCallArityMismatch(t *testing.T) {
	_, err := runSrc(t, `def double(x): x * 2; double(1, 2)`, []value.Value{value.None})
	if !errors.Is(err, mqerr.ErrArity) {
		t.Fatalf("err = %v, want ErrArity", err)
	}
}

func TestRunOptionalCallSwallowsError(t *testing.T) {
	tree := ast.NewTree()
	prog := parseProg(t, tree, `undefined_fn()?`)
	ev := New(tree, module.NewLoader(nil), Options{MaxCallStackDepth: 1024, FilterNone: false})
	out, err := ev.Run(prog, []value.Value{value.None})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if len(out) != 1 || out[0].Kind != value.KindNone {
		t.Fatalf("got %v, want [None]", out)
	}
}

func TestRunCallStackOverflow(t *testing.T) {
	tree := ast.NewTree()
	prog := parseProg(t, tree, `def loop_forever(x): loop_forever(x); loop_forever(1)`)
	ev := New(tree, module.NewLoader(nil), Options{MaxCallStackDepth: 16, FilterNone: true})
	_, err := ev.Run(prog, []value.Value{value.None})
	if !errors.Is(err, mqerr.ErrCallStackOverflow) {
		t.Fatalf("err = %v, want ErrCallStackOverflow", err)
	}
}

func TestRunAndOrShortCircuit(t *testing.T) {
	if v := runOne(t, `false and undefined_fn()`); v.Kind != value.KindBool || v.Bool != false {
		t.Fatalf("false and ... = %v, want false without evaluating the RHS", v)
	}
	if v := runOne(t, `true or undefined_fn()`); v.Kind != value.KindBool || v.Bool != true {
		t.Fatalf("true or ... = %v, want true without evaluating the RHS", v)
	}
}

func TestRunTryCatchBindsErrorToSelf(t *testing.T) {
	// The handler's [kind, detail] array fans out at top level into two
	// output values.
	out, err := runSrc(t, `try undefined_fn() catch self`, []value.Value{value.None})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("got %v, want the [kind, detail] pair as two values", out)
	}
	if out[0].Kind != value.KindString || out[0].Str == "" {
		t.Fatalf("kind = %v, want a non-empty string", out[0])
	}
	if out[1].Kind != value.KindString {
		t.Fatalf("detail = %v, want a string", out[1])
	}
}

func TestRunTryWithoutCatchSwallowsError(t *testing.T) {
	tree := ast.NewTree()
	prog := parseProg(t, tree, `try undefined_fn()`)
	ev := New(tree, module.NewLoader(nil), Options{MaxCallStackDepth: 1024, FilterNone: false})
	out, err := ev.Run(prog, []value.Value{value.None})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if len(out) != 1 || out[0].Kind != value.KindNone {
		t.Fatalf("got %v, want [None]", out)
	}
}

func TestRunTryPassesThroughSuccess(t *testing.T) {
	v := runOne(t, `try (1 + 1)`)
	if v.Kind != value.KindNumber || v.Num != 2 {
		t.Fatalf("got %v, want 2", v)
	}
}

func TestRunPipeFoldsStages(t *testing.T) {
	v := runOne(t, `def double(x): x * 2; 5 | double() | double()`)
	if v.Kind != value.KindNumber || v.Num != 20 {
		t.Fatalf("got %v, want 20", v)
	}
}

func TestRunPipeFansOutOverArrayStage(t *testing.T) {
	// def pair returns an array, so the next stage in the pipe runs once
	// per element rather than once over the array as a whole.
	tree := ast.NewTree()
	prog := parseProg(t, tree, `def pair(x): [x, x * 10]; def inc(x): x + 1; 1 | pair() | inc()`)
	ev := New(tree, module.NewLoader(nil), DefaultOptions())
	out, err := ev.Run(prog, []value.Value{value.None})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("len(out) = %d, want 2 (one per fanned-out element)", len(out))
	}
	if out[0].Num != 2 || out[1].Num != 11 {
		t.Fatalf("out = %v, want [2, 11]", out)
	}
}

func TestRunFnLiteralAndCallDynamic(t *testing.T) {
	v := runOne(t, `let inc = fn(x): x + 1;; (inc)(41)`)
	if v.Kind != value.KindNumber || v.Num != 42 {
		t.Fatalf("got %v, want 42", v)
	}
}

func TestRunPipeThreadsSelfIntoClosureBody(t *testing.T) {
	// def reads self directly (no named param), the same style
	// module/stdmodules.go's Markdown-oriented helpers use.
	v := runOne(t, `def doubled(): self * 2; 21 | doubled()`)
	if v.Kind != value.KindNumber || v.Num != 42 {
		t.Fatalf("got %v, want 42", v)
	}
}

func TestRunSelectKeepsMatchingSelf(t *testing.T) {
	tree := ast.NewTree()
	prog := parseProg(t, tree, `.h | select(contains("title"))`)
	ev := New(tree, module.NewLoader(nil), DefaultOptions())

	match := value.Markdown(mdast.Heading{Depth: 1, Values: []mdast.Node{mdast.Text{Value: "title"}}})
	nomatch := value.Markdown(mdast.Heading{Depth: 1, Values: []mdast.Node{mdast.Text{Value: "other"}}})
	out, err := ev.Run(prog, []value.Value{match, nomatch})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("len(out) = %d, want 1 (non-matching heading dropped by FilterNone)", len(out))
	}
	if out[0].Kind != value.KindMarkdown {
		t.Fatalf("out[0] = %v, want the matching heading", out[0])
	}
}

func TestRunInterpolatedStringSegments(t *testing.T) {
	tree := ast.NewTree()
	prog := parseProg(t, tree, `"self={self} lit=plain"`)
	ev := New(tree, module.NewLoader(nil), DefaultOptions())
	out, err := ev.Run(prog, []value.Value{value.Number(7)})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if len(out) != 1 || out[0].Kind != value.KindString {
		t.Fatalf("out = %v, want a single string", out)
	}
	if out[0].Str != "self=7 lit=plain" {
		t.Fatalf("got %q, want %q", out[0].Str, "self=7 lit=plain")
	}
}

func TestRunSelectorMatchesType(t *testing.T) {
	tree := ast.NewTree()
	prog := parseProg(t, tree, `.h1`)
	ev := New(tree, module.NewLoader(nil), DefaultOptions())

	heading := value.Markdown(mdast.Heading{Depth: 1, Values: []mdast.Node{mdast.Text{Value: "title"}}})
	out, err := ev.Run(prog, []value.Value{heading, value.String("not markdown")})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("len(out) = %d, want 1 (non-matching self filtered by FilterNone)", len(out))
	}
	if out[0].Kind != value.KindMarkdown {
		t.Fatalf("out[0] = %v, want the unchanged Markdown self", out[0])
	}
}

func TestRunFilterNoneOption(t *testing.T) {
	tree := ast.NewTree()
	prog := parseProg(t, tree, `.h2`)

	heading := value.Markdown(mdast.Heading{Depth: 1, Values: nil})

	evFiltered := New(tree, module.NewLoader(nil), DefaultOptions())
	out, err := evFiltered.Run(prog, []value.Value{heading})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if len(out) != 0 {
		t.Fatalf("FilterNone=true: len(out) = %d, want 0", len(out))
	}

	evUnfiltered := New(tree, module.NewLoader(nil), Options{MaxCallStackDepth: 1024, FilterNone: false})
	out, err = evUnfiltered.Run(prog, []value.Value{heading})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if len(out) != 1 || out[0].Kind != value.KindNone {
		t.Fatalf("FilterNone=false: out = %v, want [None]", out)
	}
}

func TestRunQuoteRendersSourceText(t *testing.T) {
	v := runOne(t, `quote (1 + 2)`)
	if v.Kind != value.KindString {
		t.Fatalf("got %v, want a string", v)
	}
}

func TestRunQuoteSplicesUnquote(t *testing.T) {
	tree := ast.NewTree()
	prog := parseProg(t, tree, `let x = 41; quote unquote x`)
	ev := New(tree, module.NewLoader(nil), DefaultOptions())
	out, err := ev.Run(prog, []value.Value{value.None})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if len(out) != 1 || out[0].Str != "41" {
		t.Fatalf("got %v, want [\"41\"]", out)
	}
}

func TestRunMacroBehavesLikeClosure(t *testing.T) {
	v := runOne(t, `macro twice(x): x + x; twice(21)`)
	if v.Kind != value.KindNumber || v.Num != 42 {
		t.Fatalf("got %v, want 42", v)
	}
}

func TestRunIncludeSplicesModuleFunctions(t *testing.T) {
	source := module.MemorySource{Files: map[string]string{
		"mathlib": `def square(x): x * x;`,
	}}
	loader := module.NewLoader(source)

	tree := ast.NewTree()
	prog := parseProg(t, tree, `include "mathlib"; square(6)`)
	ev := New(tree, loader, DefaultOptions())
	out, err := ev.Run(prog, []value.Value{value.None})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if len(out) != 1 || out[0].Num != 36 {
		t.Fatalf("got %v, want [36]", out)
	}
}

func TestRunImportQualifiedAccess(t *testing.T) {
	source := module.MemorySource{Files: map[string]string{
		"mathlib": `def square(x): x * x; let answer = 42;`,
	}}
	loader := module.NewLoader(source)

	tree := ast.NewTree()
	prog := parseProg(t, tree, `import "mathlib"; mathlib.square(7)`)
	ev := New(tree, loader, DefaultOptions())
	out, err := ev.Run(prog, []value.Value{value.None})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if len(out) != 1 || out[0].Num != 49 {
		t.Fatalf("got %v, want [49]", out)
	}

	tree2 := ast.NewTree()
	prog2 := parseProg(t, tree2, `import "mathlib"; mathlib.answer`)
	ev2 := New(tree2, loader, DefaultOptions())
	// "mathlib" is already loaded by the first Run, so this second Run
	// reuses the registered module via ev.loader.Get rather than
	// re-loading (which would error per spec.md §4.4's register-once rule).
	out2, err := ev2.Run(prog2, []value.Value{value.None})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if len(out2) != 1 || out2[0].Num != 42 {
		t.Fatalf("got %v, want [42]", out2)
	}
}

func TestRunInlineModuleDeclAndQualifiedAccess(t *testing.T) {
	v := runOne(t, `module geo: def area(side): side * side; ; geo.area(5)`)
	if v.Kind != value.KindNumber || v.Num != 25 {
		t.Fatalf("got %v, want 25", v)
	}
}

func TestMatchPatternTypeAndDict(t *testing.T) {
	tree := ast.NewTree()
	ev := New(tree, module.NewLoader(nil), DefaultOptions())
	fr := env.New()

	numberType := ast.Pattern{Kind: ast.PatType, Ident: tree.Idents.Intern("number")}
	if !ev.matchPattern(numberType, value.Number(1), fr) {
		t.Fatalf("PatType(number) should match a Number value")
	}
	if ev.matchPattern(numberType, value.String("x"), fr) {
		t.Fatalf("PatType(number) should not match a String value")
	}

	pairs := value.Array([]value.Value{
		value.Array([]value.Value{value.String("name"), value.String("mq")}),
		value.Array([]value.Value{value.String("stars"), value.Number(5)}),
	})
	dict := ast.Pattern{Kind: ast.PatDict, Dict: []ast.DictEntry{
		{Key: "name", Pattern: ast.Pattern{Kind: ast.PatIdent, Ident: tree.Idents.Intern("n")}},
		{Key: "missing", Pattern: ast.Pattern{Kind: ast.PatWildcard}},
	}}
	if ev.matchPattern(dict, pairs, fr) {
		t.Fatalf("PatDict should fail when a key is absent from the pair array")
	}

	dictOk := ast.Pattern{Kind: ast.PatDict, Dict: []ast.DictEntry{
		{Key: "name", Pattern: ast.Pattern{Kind: ast.PatIdent, Ident: tree.Idents.Intern("n")}},
	}}
	if !ev.matchPattern(dictOk, pairs, fr) {
		t.Fatalf("PatDict should match when every named key is present")
	}
	bound, ok := fr.Get(tree.Idents.Intern("n"))
	if !ok || bound.Str != "mq" {
		t.Fatalf("PatDict should bind the matched key's value; got %v, %v", bound, ok)
	}
}

func TestDefineValuePreBindsGlobal(t *testing.T) {
	tree := ast.NewTree()
	prog := parseProg(t, tree, `injected + 1`)
	ev := New(tree, module.NewLoader(nil), DefaultOptions())
	ev.DefineValue("injected", value.Number(99))

	out, err := ev.Run(prog, []value.Value{value.None})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if len(out) != 1 || out[0].Num != 100 {
		t.Fatalf("got %v, want [100]", out)
	}
}
