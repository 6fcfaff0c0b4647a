/*
 * mq
 *
 * Copyright 2024 mq contributors. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

// Package value defines the runtime Value union of spec.md §3.4: the
// closed set of shapes every mq expression evaluates to. Grounded on the
// teacher's interpreter/rt_value.go, which implements one function per
// runtime value "kind" (String/Equals/ToJSONObject) over an internal
// RuntimeValue interface instead of Go's bare interface{} - the same
// discipline is used here, but expressed as a closed Go type switch over a
// small set of concrete structs rather than an open interface, since
// spec.md's Value set is explicitly closed ("Value is a tagged union").
package value

import (
	"fmt"
	"math"

	"github.com/harehare/mq/ast"
	"github.com/harehare/mq/mdast"
)

// Kind discriminates a Value's shape.
type Kind int

const (
	KindNone Kind = iota
	KindString
	KindNumber
	KindBool
	KindArray
	KindMarkdown
	KindFunction
	KindNativeFunction
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindArray:
		return "array"
	case KindMarkdown:
		return "markdown"
	case KindFunction:
		return "function"
	case KindNativeFunction:
		return "native_function"
	default:
		return "unknown"
	}
}

// Closure is a user-defined function value: parameters, body and the
// environment it closes over. Env is an interface{} here (rather than
// *env.Env) to avoid an import cycle between value and env - env.Env
// itself holds value.Value bindings, so the dependency can only run one
// way; eval type-asserts this back to *env.Env when invoking a closure.
type Closure struct {
	Params []string
	Body   ast.NodeId
	Env    interface{}
}

// NativeFunction identifies a builtin by name; the builtin package owns
// the actual Go function behind the name.
type NativeFunction struct {
	Name string
}

// Value is the runtime value union. Exactly one of the typed fields is
// meaningful, selected by Kind - a plain struct-of-optionals rather than a
// Go interface, since the set of shapes is closed and fixed by spec.md
// §3.4 and a type switch over concrete structs would just reinvent this.
type Value struct {
	Kind     Kind
	Str      string
	Num      float64
	Bool     bool
	Arr      []Value
	Markdown mdast.Node
	Closure  Closure
	Native   NativeFunction
}

// None is the singular absent value.
var None = Value{Kind: KindNone}

func String(s string) Value    { return Value{Kind: KindString, Str: s} }
func Number(n float64) Value   { return Value{Kind: KindNumber, Num: n} }
func Bool(b bool) Value        { return Value{Kind: KindBool, Bool: b} }
func Array(vs []Value) Value   { return Value{Kind: KindArray, Arr: vs} }
func Markdown(n mdast.Node) Value { return Value{Kind: KindMarkdown, Markdown: n} }
func Function(c Closure) Value { return Value{Kind: KindFunction, Closure: c} }
func Native(name string) Value { return Value{Kind: KindNativeFunction, Native: NativeFunction{Name: name}} }

// Truthy implements spec.md §4.5's truthiness table: Bool(false), None,
// empty String, empty Array, Number(0) and Markdown(Empty) are falsy; all
// else (including closures/native functions) is truthy.
func Truthy(v Value) bool {
	switch v.Kind {
	case KindNone:
		return false
	case KindBool:
		return v.Bool
	case KindString:
		return v.Str != ""
	case KindArray:
		return len(v.Arr) != 0
	case KindNumber:
		return v.Num != 0
	case KindMarkdown:
		_, isEmpty := v.Markdown.(mdast.Empty)
		return !isEmpty
	default:
		return true
	}
}

// Equal implements structural equality used by Match and the `eq` builtin.
// Per spec.md §3.4, Number equality rejects NaN (NaN is never equal to
// anything, including itself).
func Equal(a, b Value) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KindNone:
		return true
	case KindString:
		return a.Str == b.Str
	case KindNumber:
		if math.IsNaN(a.Num) || math.IsNaN(b.Num) {
			return false
		}
		return a.Num == b.Num
	case KindBool:
		return a.Bool == b.Bool
	case KindArray:
		if len(a.Arr) != len(b.Arr) {
			return false
		}
		for i := range a.Arr {
			if !Equal(a.Arr[i], b.Arr[i]) {
				return false
			}
		}
		return true
	case KindMarkdown:
		return mdast.Render(a.Markdown, mdast.DefaultRenderOptions) == mdast.Render(b.Markdown, mdast.DefaultRenderOptions)
	case KindNativeFunction:
		return a.Native.Name == b.Native.Name
	default:
		return false
	}
}

// String renders v for display (the `to_string` builtin and error messages).
func (v Value) String() string {
	switch v.Kind {
	case KindNone:
		return ""
	case KindString:
		return v.Str
	case KindNumber:
		if v.Num == math.Trunc(v.Num) && !math.IsInf(v.Num, 0) {
			return fmt.Sprintf("%d", int64(v.Num))
		}
		return fmt.Sprintf("%g", v.Num)
	case KindBool:
		if v.Bool {
			return "true"
		}
		return "false"
	case KindArray:
		s := "["
		for i, e := range v.Arr {
			if i > 0 {
				s += ", "
			}
			s += e.String()
		}
		return s + "]"
	case KindMarkdown:
		return mdast.Render(v.Markdown, mdast.DefaultRenderOptions)
	case KindFunction:
		return "<function>"
	case KindNativeFunction:
		return "<native:" + v.Native.Name + ">"
	default:
		return ""
	}
}
