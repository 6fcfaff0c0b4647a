/*
 * mq
 *
 * Copyright 2024 mq contributors. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

package value

import (
	"math"
	"testing"

	"github.com/harehare/mq/mdast"
)

func TestTruthy(t *testing.T) {
	cases := []struct {
		v    Value
		want bool
	}{
		{None, false},
		{Bool(false), false},
		{Bool(true), true},
		{String(""), false},
		{String("x"), true},
		{Number(0), false},
		{Number(1), true},
		{Array(nil), false},
		{Array([]Value{Number(1)}), true},
		{Markdown(mdast.Empty{}), false},
		{Markdown(mdast.Text{Value: "x"}), true},
		{Native("upcase"), true},
	}
	for _, c := range cases {
		if got := Truthy(c.v); got != c.want {
			t.Errorf("Truthy(%v) = %v, want %v", c.v, got, c.want)
		}
	}
}

func TestEqualRejectsNaN(t *testing.T) {
	nan := Number(math.NaN())
	if Equal(nan, nan) {
		t.Fatalf("Equal(NaN, NaN) = true, want false")
	}
}

func TestEqualArrays(t *testing.T) {
	a := Array([]Value{Number(1), String("x")})
	b := Array([]Value{Number(1), String("x")})
	c := Array([]Value{Number(1), String("y")})
	if !Equal(a, b) {
		t.Fatalf("Equal(a, b) = false, want true")
	}
	if Equal(a, c) {
		t.Fatalf("Equal(a, c) = true, want false")
	}
}

func TestStringFormatsIntegerNumbers(t *testing.T) {
	if got, want := Number(3).String(), "3"; got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
	if got, want := Number(3.5).String(), "3.5"; got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
}
