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

import "github.com/harehare/mq/value"

func init() {
	register(Spec{Name: "eq", MinArity: 2, MaxArity: 2, Doc: "structural equality", Call: cmpEq(true)})
	register(Spec{Name: "ne", MinArity: 2, MaxArity: 2, Doc: "structural inequality", Call: cmpEq(false)})
	register(Spec{Name: "lt", MinArity: 2, MaxArity: 2, Doc: "a < b", Call: ordCmp(func(c int) bool { return c < 0 })})
	register(Spec{Name: "le", MinArity: 2, MaxArity: 2, Doc: "a <= b", Call: ordCmp(func(c int) bool { return c <= 0 })})
	register(Spec{Name: "gt", MinArity: 2, MaxArity: 2, Doc: "a > b", Call: ordCmp(func(c int) bool { return c > 0 })})
	register(Spec{Name: "ge", MinArity: 2, MaxArity: 2, Doc: "a >= b", Call: ordCmp(func(c int) bool { return c >= 0 })})

	register(Spec{Name: "not", MinArity: 1, MaxArity: 1, Doc: "logical negation of truthiness", Call: func(_ Applier, args []value.Value) (value.Value, error) {
		return value.Bool(!value.Truthy(arg(args, 0))), nil
	}})
	register(Spec{Name: "and", MinArity: 2, MaxArity: 2, Doc: "eager logical and (the `and` AST node short-circuits; this is the callable form)", Call: func(_ Applier, args []value.Value) (value.Value, error) {
		return value.Bool(value.Truthy(arg(args, 0)) && value.Truthy(arg(args, 1))), nil
	}})
	register(Spec{Name: "or", MinArity: 2, MaxArity: 2, Doc: "eager logical or (the `or` AST node short-circuits; this is the callable form)", Call: func(_ Applier, args []value.Value) (value.Value, error) {
		return value.Bool(value.Truthy(arg(args, 0)) || value.Truthy(arg(args, 1))), nil
	}})
}

func cmpEq(want bool) Fn {
	return func(_ Applier, args []value.Value) (value.Value, error) {
		eq := value.Equal(arg(args, 0), arg(args, 1))
		return value.Bool(eq == want), nil
	}
}

// ordering compares a and b when both are numbers or both are strings,
// returning -1/0/1 the way strings.Compare/numeric subtraction would.
func ordering(name string, args []value.Value) (int, error) {
	a, b := arg(args, 0), arg(args, 1)
	if a.Kind == value.KindNumber && b.Kind == value.KindNumber {
		switch {
		case a.Num < b.Num:
			return -1, nil
		case a.Num > b.Num:
			return 1, nil
		default:
			return 0, nil
		}
	}
	if a.Kind == value.KindString && b.Kind == value.KindString {
		switch {
		case a.Str < b.Str:
			return -1, nil
		case a.Str > b.Str:
			return 1, nil
		default:
			return 0, nil
		}
	}
	return 0, typeErr(name, 0, "two numbers or two strings", a)
}

func ordCmp(test func(c int) bool) Fn {
	return func(_ Applier, args []value.Value) (value.Value, error) {
		c, err := ordering("ordCmp", args)
		if err != nil {
			return value.None, err
		}
		return value.Bool(test(c)), nil
	}
}
