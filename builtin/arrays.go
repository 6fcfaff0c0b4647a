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
	"fmt"
	"sort"

	"github.com/harehare/mq/value"
)

func arrArg(name string, args []value.Value, i int) ([]value.Value, error) {
	v := arg(args, i)
	if v.Kind != value.KindArray {
		return nil, typeErr(name, i, "array", v)
	}
	return v.Arr, nil
}

func init() {
	register(Spec{Name: "map", MinArity: 2, MaxArity: 2, Doc: "applies a function to every element, collecting the results", Call: builtinMap})
	register(Spec{Name: "filter", MinArity: 2, MaxArity: 2, Doc: "keeps elements for which a function is truthy", Call: builtinFilter})
	register(Spec{Name: "reduce", MinArity: 3, MaxArity: 3, Doc: "folds an array to a single value with an accumulator function", Call: builtinReduce})

	register(Spec{Name: "sort", MinArity: 1, MaxArity: 1, Doc: "sorts an array of numbers or strings ascending", Call: builtinSort})
	register(Spec{Name: "reverse", MinArity: 1, MaxArity: 1, Doc: "reverses an array", Call: builtinReverse})
	register(Spec{Name: "unique", MinArity: 1, MaxArity: 1, Doc: "removes duplicate elements, preserving first occurrence order", Call: builtinUnique})
	register(Spec{Name: "first", MinArity: 1, MaxArity: 1, Doc: "the first element, or None if empty", Call: builtinFirst})
	register(Spec{Name: "last", MinArity: 1, MaxArity: 1, Doc: "the last element, or None if empty", Call: builtinLast})
	register(Spec{Name: "nth", MinArity: 2, MaxArity: 2, Doc: "the element at an index, or None if out of range", Call: builtinNth})
	register(Spec{Name: "slice", MinArity: 2, MaxArity: 3, Doc: "a sub-array by start index and optional end index", Call: builtinSlice})
	register(Spec{Name: "flatten", MinArity: 1, MaxArity: 1, Doc: "flattens one level of nested arrays", Call: builtinFlatten})
}

func builtinMap(ap Applier, args []value.Value) (value.Value, error) {
	arr, err := arrArg("map", args, 0)
	if err != nil {
		return value.None, err
	}
	fn := arg(args, 1)
	if ap == nil {
		return value.None, fmt.Errorf("map: no function-invocation context available")
	}
	out := make([]value.Value, len(arr))
	for i, e := range arr {
		r, err := ap.Apply(fn, []value.Value{e})
		if err != nil {
			return value.None, err
		}
		out[i] = r
	}
	return value.Array(out), nil
}

func builtinFilter(ap Applier, args []value.Value) (value.Value, error) {
	arr, err := arrArg("filter", args, 0)
	if err != nil {
		return value.None, err
	}
	fn := arg(args, 1)
	if ap == nil {
		return value.None, fmt.Errorf("filter: no function-invocation context available")
	}
	var out []value.Value
	for _, e := range arr {
		r, err := ap.Apply(fn, []value.Value{e})
		if err != nil {
			return value.None, err
		}
		if value.Truthy(r) {
			out = append(out, e)
		}
	}
	return value.Array(out), nil
}

func builtinReduce(ap Applier, args []value.Value) (value.Value, error) {
	arr, err := arrArg("reduce", args, 0)
	if err != nil {
		return value.None, err
	}
	acc := arg(args, 1)
	fn := arg(args, 2)
	if ap == nil {
		return value.None, fmt.Errorf("reduce: no function-invocation context available")
	}
	for _, e := range arr {
		acc, err = ap.Apply(fn, []value.Value{acc, e})
		if err != nil {
			return value.None, err
		}
	}
	return acc, nil
}

func builtinSort(_ Applier, args []value.Value) (value.Value, error) {
	arr, err := arrArg("sort", args, 0)
	if err != nil {
		return value.None, err
	}
	out := append([]value.Value(nil), arr...)
	var sortErr error
	sort.SliceStable(out, func(i, j int) bool {
		c, err := ordering("sort", []value.Value{out[i], out[j]})
		if err != nil {
			sortErr = err
		}
		return c < 0
	})
	if sortErr != nil {
		return value.None, sortErr
	}
	return value.Array(out), nil
}

func builtinReverse(_ Applier, args []value.Value) (value.Value, error) {
	arr, err := arrArg("reverse", args, 0)
	if err != nil {
		return value.None, err
	}
	out := make([]value.Value, len(arr))
	for i, e := range arr {
		out[len(arr)-1-i] = e
	}
	return value.Array(out), nil
}

func builtinUnique(_ Applier, args []value.Value) (value.Value, error) {
	arr, err := arrArg("unique", args, 0)
	if err != nil {
		return value.None, err
	}
	var out []value.Value
	for _, e := range arr {
		dup := false
		for _, seen := range out {
			if value.Equal(e, seen) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, e)
		}
	}
	return value.Array(out), nil
}

func builtinFirst(_ Applier, args []value.Value) (value.Value, error) {
	arr, err := arrArg("first", args, 0)
	if err != nil {
		return value.None, err
	}
	if len(arr) == 0 {
		return value.None, nil
	}
	return arr[0], nil
}

func builtinLast(_ Applier, args []value.Value) (value.Value, error) {
	arr, err := arrArg("last", args, 0)
	if err != nil {
		return value.None, err
	}
	if len(arr) == 0 {
		return value.None, nil
	}
	return arr[len(arr)-1], nil
}

func builtinNth(_ Applier, args []value.Value) (value.Value, error) {
	arr, err := arrArg("nth", args, 0)
	if err != nil {
		return value.None, err
	}
	n, err := numArg("nth", args, 1)
	if err != nil {
		return value.None, err
	}
	i := int(n)
	if i < 0 || i >= len(arr) {
		return value.None, nil
	}
	return arr[i], nil
}

func builtinSlice(_ Applier, args []value.Value) (value.Value, error) {
	arr, err := arrArg("slice", args, 0)
	if err != nil {
		return value.None, err
	}
	start, err := numArg("slice", args, 1)
	if err != nil {
		return value.None, err
	}
	from := clampIndex(int(start), len(arr))
	to := len(arr)
	if len(args) == 3 {
		end, err := numArg("slice", args, 2)
		if err != nil {
			return value.None, err
		}
		to = clampIndex(int(end), len(arr))
	}
	if to < from {
		to = from
	}
	out := append([]value.Value(nil), arr[from:to]...)
	return value.Array(out), nil
}

func builtinFlatten(_ Applier, args []value.Value) (value.Value, error) {
	arr, err := arrArg("flatten", args, 0)
	if err != nil {
		return value.None, err
	}
	var out []value.Value
	for _, e := range arr {
		if e.Kind == value.KindArray {
			out = append(out, e.Arr...)
		} else {
			out = append(out, e)
		}
	}
	return value.Array(out), nil
}
