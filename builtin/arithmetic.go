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
	"math"

	"github.com/harehare/mq/internal/mqerr"
	"github.com/harehare/mq/value"
)

func numArg(name string, args []value.Value, i int) (float64, error) {
	v := arg(args, i)
	if v.Kind != value.KindNumber {
		return 0, typeErr(name, i, "number", v)
	}
	return v.Num, nil
}

func init() {
	register(Spec{Name: "add", MinArity: 2, MaxArity: 2, Doc: "adds two numbers, or concatenates two strings", Call: builtinAdd})
	register(Spec{Name: "sub", MinArity: 2, MaxArity: 2, Doc: "subtracts b from a", Call: arith2(func(a, b float64) float64 { return a - b })})
	register(Spec{Name: "mul", MinArity: 2, MaxArity: 2, Doc: "multiplies a and b", Call: arith2(func(a, b float64) float64 { return a * b })})
	register(Spec{Name: "div", MinArity: 2, MaxArity: 2, Doc: "divides a by b (runtime error on zero divisor, unlike the optimizer's constant-folded IEEE-754 division)", Call: builtinDiv})
	register(Spec{Name: "mod", MinArity: 2, MaxArity: 2, Doc: "floating point remainder of a / b", Call: arith2(math.Mod)})
	register(Spec{Name: "neg", MinArity: 1, MaxArity: 1, Doc: "arithmetic negation", Call: arith1(func(a float64) float64 { return -a })})
	register(Spec{Name: "abs", MinArity: 1, MaxArity: 1, Doc: "absolute value", Call: arith1(math.Abs)})
	register(Spec{Name: "floor", MinArity: 1, MaxArity: 1, Doc: "rounds toward negative infinity", Call: arith1(math.Floor)})
	register(Spec{Name: "ceil", MinArity: 1, MaxArity: 1, Doc: "rounds toward positive infinity", Call: arith1(math.Ceil)})
	register(Spec{Name: "round", MinArity: 1, MaxArity: 1, Doc: "rounds to the nearest integer", Call: arith1(math.Round)})
}

func arith2(f func(a, b float64) float64) Fn {
	return func(_ Applier, args []value.Value) (value.Value, error) {
		a, err := numArg("", args, 0)
		if err != nil {
			return value.None, err
		}
		b, err := numArg("", args, 1)
		if err != nil {
			return value.None, err
		}
		return value.Number(f(a, b)), nil
	}
}

func arith1(f func(a float64) float64) Fn {
	return func(_ Applier, args []value.Value) (value.Value, error) {
		a, err := numArg("", args, 0)
		if err != nil {
			return value.None, err
		}
		return value.Number(f(a)), nil
	}
}

// builtinAdd follows the optimizer's own `add` folding rule (optimizer.go's
// fold): numbers add arithmetically, strings concatenate.
func builtinAdd(_ Applier, args []value.Value) (value.Value, error) {
	a, b := arg(args, 0), arg(args, 1)
	if a.Kind == value.KindString && b.Kind == value.KindString {
		return value.String(a.Str + b.Str), nil
	}
	if a.Kind == value.KindNumber && b.Kind == value.KindNumber {
		return value.Number(a.Num + b.Num), nil
	}
	return value.None, typeErr("add", 0, "number or string", a)
}

// builtinDiv is a runtime error on division by zero - the div builtin's
// documented divergence from the optimizer's constant-folded IEEE-754
// division (see DESIGN.md's Open Question decision).
func builtinDiv(_ Applier, args []value.Value) (value.Value, error) {
	a, err := numArg("div", args, 0)
	if err != nil {
		return value.None, err
	}
	b, err := numArg("div", args, 1)
	if err != nil {
		return value.None, err
	}
	if b == 0 {
		return value.None, mqerr.ErrDivByZero
	}
	return value.Number(a / b), nil
}
