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
	"regexp"
	"strings"

	"github.com/harehare/mq/internal/mqerr"
	"github.com/harehare/mq/value"
)

func strArg(name string, args []value.Value, i int) (string, error) {
	v := arg(args, i)
	switch v.Kind {
	case value.KindString:
		return v.Str, nil
	case value.KindMarkdown:
		// A Markdown self piped into a string predicate (e.g. `.h | select(contains("title"))`)
		// compares against its rendered text, the same text to_string() would produce.
		return v.String(), nil
	default:
		return "", typeErr(name, i, "string", v)
	}
}

func init() {
	register(Spec{Name: "upcase", MinArity: 1, MaxArity: 1, Doc: "uppercases a string", Call: str1(strings.ToUpper)})
	register(Spec{Name: "downcase", MinArity: 1, MaxArity: 1, Doc: "lowercases a string", Call: str1(strings.ToLower)})
	register(Spec{Name: "trim", MinArity: 1, MaxArity: 1, Doc: "trims leading/trailing whitespace", Call: str1(strings.TrimSpace)})
	register(Spec{Name: "ltrim", MinArity: 1, MaxArity: 1, Doc: "trims leading whitespace", Call: str1(func(s string) string { return strings.TrimLeft(s, " \t\n\r") })})
	register(Spec{Name: "rtrim", MinArity: 1, MaxArity: 1, Doc: "trims trailing whitespace", Call: str1(func(s string) string { return strings.TrimRight(s, " \t\n\r") })})
	register(Spec{Name: "length", MinArity: 1, MaxArity: 1, Doc: "length of a string or array", Call: builtinLength})

	register(Spec{Name: "split", MinArity: 2, MaxArity: 2, Doc: "splits a string on a separator", Call: builtinSplit})
	register(Spec{Name: "join", MinArity: 2, MaxArity: 2, Doc: "joins an array of strings with a separator", Call: builtinJoin})
	register(Spec{Name: "replace", MinArity: 3, MaxArity: 3, Doc: "replaces every occurrence of a substring", Call: builtinReplace})

	register(Spec{Name: "starts_with", MinArity: 2, MaxArity: 2, Doc: "reports whether a string starts with a prefix", Call: strPred(strings.HasPrefix)})
	register(Spec{Name: "ends_with", MinArity: 2, MaxArity: 2, Doc: "reports whether a string ends with a suffix", Call: strPred(strings.HasSuffix)})
	register(Spec{Name: "contains", MinArity: 2, MaxArity: 2, Doc: "reports whether a string contains a substring", Call: strPred(strings.Contains)})

	register(Spec{Name: "ltrimstr", MinArity: 2, MaxArity: 2, Doc: "removes a literal prefix if present", Call: strTrim(strings.TrimPrefix)})
	register(Spec{Name: "rtrimstr", MinArity: 2, MaxArity: 2, Doc: "removes a literal suffix if present", Call: strTrim(strings.TrimSuffix)})

	register(Spec{Name: "substr", MinArity: 2, MaxArity: 3, Doc: "substring by rune offset and optional length", Call: builtinSubstr})

	register(Spec{Name: "test", MinArity: 2, MaxArity: 2, Doc: "reports whether a regular expression matches anywhere in the string", Call: builtinTest})
	register(Spec{Name: "match", MinArity: 2, MaxArity: 2, Doc: "returns the array of substrings matched by a regular expression, or None", Call: builtinMatch})
	register(Spec{Name: "capture", MinArity: 2, MaxArity: 2, Doc: "returns the array of capture groups of a regular expression's first match, or None", Call: builtinCapture})
}

func str1(f func(string) string) Fn {
	return func(_ Applier, args []value.Value) (value.Value, error) {
		s, err := strArg("", args, 0)
		if err != nil {
			return value.None, err
		}
		return value.String(f(s)), nil
	}
}

func strPred(f func(s, sub string) bool) Fn {
	return func(_ Applier, args []value.Value) (value.Value, error) {
		s, err := strArg("", args, 0)
		if err != nil {
			return value.None, err
		}
		sub, err := strArg("", args, 1)
		if err != nil {
			return value.None, err
		}
		return value.Bool(f(s, sub)), nil
	}
}

func strTrim(f func(s, cut string) string) Fn {
	return func(_ Applier, args []value.Value) (value.Value, error) {
		s, err := strArg("", args, 0)
		if err != nil {
			return value.None, err
		}
		cut, err := strArg("", args, 1)
		if err != nil {
			return value.None, err
		}
		return value.String(f(s, cut)), nil
	}
}

func builtinLength(_ Applier, args []value.Value) (value.Value, error) {
	v := arg(args, 0)
	switch v.Kind {
	case value.KindString:
		return value.Number(float64(len([]rune(v.Str)))), nil
	case value.KindArray:
		return value.Number(float64(len(v.Arr))), nil
	default:
		return value.None, typeErr("length", 0, "string or array", v)
	}
}

func builtinSplit(_ Applier, args []value.Value) (value.Value, error) {
	s, err := strArg("split", args, 0)
	if err != nil {
		return value.None, err
	}
	sep, err := strArg("split", args, 1)
	if err != nil {
		return value.None, err
	}
	parts := strings.Split(s, sep)
	out := make([]value.Value, len(parts))
	for i, p := range parts {
		out[i] = value.String(p)
	}
	return value.Array(out), nil
}

func builtinJoin(_ Applier, args []value.Value) (value.Value, error) {
	arr := arg(args, 0)
	if arr.Kind != value.KindArray {
		return value.None, typeErr("join", 0, "array", arr)
	}
	sep, err := strArg("join", args, 1)
	if err != nil {
		return value.None, err
	}
	parts := make([]string, len(arr.Arr))
	for i, e := range arr.Arr {
		if e.Kind != value.KindString {
			return value.None, typeErr("join", 0, "array of strings", e)
		}
		parts[i] = e.Str
	}
	return value.String(strings.Join(parts, sep)), nil
}

func builtinReplace(_ Applier, args []value.Value) (value.Value, error) {
	s, err := strArg("replace", args, 0)
	if err != nil {
		return value.None, err
	}
	old, err := strArg("replace", args, 1)
	if err != nil {
		return value.None, err
	}
	new, err := strArg("replace", args, 2)
	if err != nil {
		return value.None, err
	}
	return value.String(strings.ReplaceAll(s, old, new)), nil
}

func builtinSubstr(_ Applier, args []value.Value) (value.Value, error) {
	s, err := strArg("substr", args, 0)
	if err != nil {
		return value.None, err
	}
	start, err := numArg("substr", args, 1)
	if err != nil {
		return value.None, err
	}
	runes := []rune(s)
	from := clampIndex(int(start), len(runes))
	to := len(runes)
	if len(args) == 3 {
		n, err := numArg("substr", args, 2)
		if err != nil {
			return value.None, err
		}
		to = clampIndex(from+int(n), len(runes))
	}
	if to < from {
		to = from
	}
	return value.String(string(runes[from:to])), nil
}

func clampIndex(i, n int) int {
	if i < 0 {
		i = 0
	}
	if i > n {
		i = n
	}
	return i
}

func builtinTest(_ Applier, args []value.Value) (value.Value, error) {
	re, s, err := regexArgs("test", args)
	if err != nil {
		return value.None, err
	}
	return value.Bool(re.MatchString(s)), nil
}

func builtinMatch(_ Applier, args []value.Value) (value.Value, error) {
	re, s, err := regexArgs("match", args)
	if err != nil {
		return value.None, err
	}
	m := re.FindStringSubmatch(s)
	if m == nil {
		return value.None, nil
	}
	out := make([]value.Value, len(m))
	for i, g := range m {
		out[i] = value.String(g)
	}
	return value.Array(out), nil
}

func builtinCapture(_ Applier, args []value.Value) (value.Value, error) {
	re, s, err := regexArgs("capture", args)
	if err != nil {
		return value.None, err
	}
	m := re.FindStringSubmatch(s)
	if m == nil || len(m) < 2 {
		return value.None, nil
	}
	out := make([]value.Value, len(m)-1)
	for i, g := range m[1:] {
		out[i] = value.String(g)
	}
	return value.Array(out), nil
}

func regexArgs(name string, args []value.Value) (*regexp.Regexp, string, error) {
	s, err := strArg(name, args, 0)
	if err != nil {
		return nil, "", err
	}
	pattern, err := strArg(name, args, 1)
	if err != nil {
		return nil, "", err
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %s: invalid regular expression: %v", mqerr.ErrTypeMismatch, name, err)
	}
	return re, s, nil
}
