/*
 * mq
 *
 * Copyright 2024 mq contributors. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

package mqerr

import (
	"errors"
	"testing"
)

func TestSourceErrorIsMatchesKind(t *testing.T) {
	err := NewSourceError("test.mq", ErrUnexpectedToken, "got )", Range{})
	if !errors.Is(err, ErrUnexpectedToken) {
		t.Fatalf("errors.Is(err, ErrUnexpectedToken) = false, want true")
	}
	if errors.Is(err, ErrUnclosedDelim) {
		t.Fatalf("errors.Is(err, ErrUnclosedDelim) = true, want false")
	}
}

func TestSourceErrorMessageIncludesSource(t *testing.T) {
	err := NewSourceError("test.mq", ErrUnexpectedToken, "got )", Range{
		Start: Position{Line: 1, Column: 5},
		End:   Position{Line: 1, Column: 6},
	})
	msg := err.Error()
	if msg == "" {
		t.Fatalf("Error() is empty")
	}
	if !errors.Is(err, ErrUnexpectedToken) {
		t.Fatalf("expected wrapped ErrUnexpectedToken")
	}
}

func TestRuntimeErrorIsAndUnwrap(t *testing.T) {
	re := NewRuntimeError("test.mq", ErrDivByZero, "1 / 0", Range{})
	if !errors.Is(re, ErrDivByZero) {
		t.Fatalf("errors.Is(re, ErrDivByZero) = false, want true")
	}
	if errors.Unwrap(re) != ErrDivByZero {
		t.Fatalf("Unwrap(re) = %v, want ErrDivByZero", errors.Unwrap(re))
	}
}

func TestRuntimeErrorAddTraceAndTraceStrings(t *testing.T) {
	re := NewRuntimeError("test.mq", ErrArity, "bad call", Range{})
	re.AddTrace(Frame{DisplayName: "foo", Source: "test.mq", Range: Range{Start: Position{Line: 2, Column: 1}}})
	re.AddTrace(Frame{DisplayName: "bar", Source: "test.mq", Range: Range{Start: Position{Line: 5, Column: 3}}})

	traces := re.TraceStrings()
	if len(traces) != 2 {
		t.Fatalf("len(TraceStrings()) = %d, want 2", len(traces))
	}
	if traces[0] != "foo (test.mq:2:1)" {
		t.Fatalf("traces[0] = %q, want \"foo (test.mq:2:1)\"", traces[0])
	}
}

func TestSnippetPointsAtColumn(t *testing.T) {
	src := "let x = 1\nfoo(bar)"
	got := Snippet(src, Range{Start: Position{Line: 2, Column: 5}})
	want := "foo(bar)\n    ^"
	if got != want {
		t.Fatalf("Snippet() = %q, want %q", got, want)
	}
}

func TestSnippetOutOfRangeLineReturnsEmpty(t *testing.T) {
	if got := Snippet("a\nb", Range{Start: Position{Line: 99, Column: 1}}); got != "" {
		t.Fatalf("Snippet() = %q, want empty for out-of-range line", got)
	}
}

func TestPositionAndRangeString(t *testing.T) {
	p := Position{Line: 3, Column: 7}
	if p.String() != "3:7" {
		t.Fatalf("Position.String() = %q, want \"3:7\"", p.String())
	}
	r := Range{Start: Position{Line: 1, Column: 1}, End: Position{Line: 1, Column: 5}}
	if r.String() != "1:1-1:5" {
		t.Fatalf("Range.String() = %q, want \"1:1-1:5\"", r.String())
	}
}
