/*
 * mq
 *
 * Copyright 2024 mq contributors. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

// Format/domain builtins backing the csv/fuzzy/json/yaml standard modules
// (module/stdmodules.go). value.Value has no object/map kind (spec.md §3.4's
// Value union is closed over None/String/Number/Bool/Array/Markdown/
// Function/NativeFunction), so a JSON/YAML object decodes here as an array
// of `[key, value]` 2-element arrays rather than inventing a Dict kind -
// this is recorded as an Open Question decision in DESIGN.md.
package builtin

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/harehare/mq/internal/mqerr"
	"github.com/harehare/mq/value"
	"golang.org/x/text/width"
	"gopkg.in/yaml.v3"
)

func init() {
	register(Spec{Name: "to_json", MinArity: 1, MaxArity: 1, Doc: "encodes a value as a JSON string", Call: builtinToJSON})
	register(Spec{Name: "from_json", MinArity: 1, MaxArity: 1, Doc: "decodes a JSON string to a value (objects become arrays of [key, value] pairs)", Call: builtinFromJSON})

	register(Spec{Name: "yaml_encode", MinArity: 1, MaxArity: 1, Doc: "encodes a value as a YAML string", Call: builtinYAMLEncode})
	register(Spec{Name: "yaml_decode", MinArity: 1, MaxArity: 1, Doc: "decodes a YAML string to a value (maps become arrays of [key, value] pairs)", Call: builtinYAMLDecode})

	register(Spec{Name: "fuzzy_match", MinArity: 2, MaxArity: 2, Doc: "reports whether needle matches haystack as a fuzzy subsequence, folding full-width/half-width variants", Call: builtinFuzzyMatch})
	register(Spec{Name: "fuzzy_score", MinArity: 2, MaxArity: 2, Doc: "a fuzzy subsequence match score (0 for no match, higher is a tighter match)", Call: builtinFuzzyScore})
}

// valueToAny converts a value.Value into a plain Go value suitable for
// json.Marshal / yaml.Marshal.
func valueToAny(v value.Value) interface{} {
	switch v.Kind {
	case value.KindNone:
		return nil
	case value.KindString:
		return v.Str
	case value.KindNumber:
		return v.Num
	case value.KindBool:
		return v.Bool
	case value.KindArray:
		out := make([]interface{}, len(v.Arr))
		for i, e := range v.Arr {
			out[i] = valueToAny(e)
		}
		return out
	default:
		return v.String()
	}
}

// anyToValue converts a decoded JSON/YAML Go value back into a value.Value,
// representing objects/maps as arrays of [key, value] pairs.
func anyToValue(a interface{}) value.Value {
	switch v := a.(type) {
	case nil:
		return value.None
	case string:
		return value.String(v)
	case bool:
		return value.Bool(v)
	case float64:
		return value.Number(v)
	case int:
		return value.Number(float64(v))
	case []interface{}:
		out := make([]value.Value, len(v))
		for i, e := range v {
			out[i] = anyToValue(e)
		}
		return value.Array(out)
	case map[string]interface{}:
		out := make([]value.Value, 0, len(v))
		for k, e := range v {
			out = append(out, value.Array([]value.Value{value.String(k), anyToValue(e)}))
		}
		return value.Array(out)
	case map[interface{}]interface{}:
		out := make([]value.Value, 0, len(v))
		for k, e := range v {
			out = append(out, value.Array([]value.Value{value.String(fmt.Sprint(k)), anyToValue(e)}))
		}
		return value.Array(out)
	default:
		return value.String(fmt.Sprint(v))
	}
}

func builtinToJSON(_ Applier, args []value.Value) (value.Value, error) {
	b, err := json.Marshal(valueToAny(arg(args, 0)))
	if err != nil {
		return value.None, fmt.Errorf("%w: to_json: %v", mqerr.ErrTypeMismatch, err)
	}
	return value.String(string(b)), nil
}

func builtinFromJSON(_ Applier, args []value.Value) (value.Value, error) {
	s, err := strArg("from_json", args, 0)
	if err != nil {
		return value.None, err
	}
	var a interface{}
	if err := json.Unmarshal([]byte(s), &a); err != nil {
		return value.None, fmt.Errorf("%w: from_json: %v", mqerr.ErrTypeMismatch, err)
	}
	return anyToValue(a), nil
}

func builtinYAMLEncode(_ Applier, args []value.Value) (value.Value, error) {
	b, err := yaml.Marshal(valueToAny(arg(args, 0)))
	if err != nil {
		return value.None, fmt.Errorf("%w: yaml_encode: %v", mqerr.ErrTypeMismatch, err)
	}
	return value.String(string(b)), nil
}

func builtinYAMLDecode(_ Applier, args []value.Value) (value.Value, error) {
	s, err := strArg("yaml_decode", args, 0)
	if err != nil {
		return value.None, err
	}
	var a interface{}
	if err := yaml.Unmarshal([]byte(s), &a); err != nil {
		return value.None, fmt.Errorf("%w: yaml_decode: %v", mqerr.ErrTypeMismatch, err)
	}
	return anyToValue(a), nil
}

// foldWidth normalizes full-width/half-width rune variants so e.g. "Ａ" and
// "A" compare equal under fuzzy matching.
func foldWidth(s string) string {
	return width.Fold.String(s)
}

func fuzzySubsequence(needle, haystack string) (matched bool, gaps int) {
	n := []rune(strings.ToLower(foldWidth(needle)))
	h := []rune(strings.ToLower(foldWidth(haystack)))
	ni := 0
	lastMatch := -1
	for hi := 0; hi < len(h) && ni < len(n); hi++ {
		if h[hi] == n[ni] {
			if lastMatch >= 0 {
				gaps += hi - lastMatch - 1
			}
			lastMatch = hi
			ni++
		}
	}
	return ni == len(n), gaps
}

func builtinFuzzyMatch(_ Applier, args []value.Value) (value.Value, error) {
	needle, err := strArg("fuzzy_match", args, 0)
	if err != nil {
		return value.None, err
	}
	haystack, err := strArg("fuzzy_match", args, 1)
	if err != nil {
		return value.None, err
	}
	matched, _ := fuzzySubsequence(needle, haystack)
	return value.Bool(matched), nil
}

func builtinFuzzyScore(_ Applier, args []value.Value) (value.Value, error) {
	needle, err := strArg("fuzzy_score", args, 0)
	if err != nil {
		return value.None, err
	}
	haystack, err := strArg("fuzzy_score", args, 1)
	if err != nil {
		return value.None, err
	}
	matched, gaps := fuzzySubsequence(needle, haystack)
	if !matched {
		return value.Number(0), nil
	}
	return value.Number(1.0 / float64(1+gaps)), nil
}
