/*
 * mq
 *
 * Copyright 2024 mq contributors. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

// Package token defines source coordinates and the lexer's token type,
// per spec.md §3.1. Grounded on the teacher's parser.LexToken (ECAL): a
// kind, a range, and a module id carried on every token so AST nodes can
// point back at their origin for diagnostics (§3.3 "Every Node points to
// exactly one Token").
package token

import "fmt"

// ModuleId identifies the source module a token came from. 0 is top-level,
// 1 is builtin by convention (spec.md §3.1).
type ModuleId uint32

const (
	// TopLevelModule is the module id of the query text the caller passed
	// to Engine.eval directly.
	TopLevelModule ModuleId = 0
	// BuiltinModule is the module id of the always-loaded builtin module.
	BuiltinModule ModuleId = 1
)

// Position is a 1-based line/column pair, counting Unicode scalars
// (spec.md §4.1).
type Position struct {
	Line   int
	Column int
}

func (p Position) String() string { return fmt.Sprintf("%d:%d", p.Line, p.Column) }

// Less orders positions by line then column.
func (p Position) Less(o Position) bool {
	if p.Line != o.Line {
		return p.Line < o.Line
	}
	return p.Column < o.Column
}

// Range is a start/end position pair.
type Range struct {
	Start Position
	End   Position
}

func (r Range) String() string { return fmt.Sprintf("%v-%v", r.Start, r.End) }

// Kind identifies a lexical token category. Non-exhaustive list grows as
// the lexer needs it; kept as a single contiguous enum the way the
// teacher's LexTokenID does (see parser/runtime.go's
// TOKENodeSYMBOLS/TOKENodeKEYWORDS range markers).
type Kind int32

const (
	EOF Kind = iota
	Error

	Ident
	Number
	String
	InterpString // raw source of an interpolated string, segments parsed later
	Symbol       // `:name`
	Selector     // `.h1`, `.link`, ...

	// Punctuation
	Pipe // |
	LParen
	RParen
	LBrack
	RBrack
	LBrace
	RBrace
	Colon
	Semicolon
	Comma
	Question // ?
	Dot

	// Operators
	Assign // =
	Eq     // ==
	Neq    // !=
	Lt
	Leq
	Gt
	Geq
	Plus
	Minus
	Star
	Slash

	// Keywords
	KwDef
	KwFn
	KwLet
	KwVar
	KwIf
	KwElif
	KwElse
	KwWhile
	KwUntil
	KwLoop
	KwForeach
	KwMatch
	KwBreak
	KwContinue
	KwSelf
	KwNodes
	KwTrue
	KwFalse
	KwNone
	KwInclude
	KwImport
	KwModule
	KwMacro
	KwQuote
	KwUnquote
	KwTry
	KwCatch
	KwDo
	KwEnd
	KwAnd
	KwOr
	KwIn
	KwAs
)

// KeywordMap maps keyword spelling to its Kind.
var KeywordMap = map[string]Kind{
	"def": KwDef, "fn": KwFn, "let": KwLet, "var": KwVar,
	"if": KwIf, "elif": KwElif, "else": KwElse,
	"while": KwWhile, "until": KwUntil, "loop": KwLoop, "foreach": KwForeach,
	"match": KwMatch, "break": KwBreak, "continue": KwContinue,
	"self": KwSelf, "nodes": KwNodes,
	"true": KwTrue, "false": KwFalse, "none": KwNone,
	"include": KwInclude, "import": KwImport, "module": KwModule,
	"macro": KwMacro, "quote": KwQuote, "unquote": KwUnquote,
	"try": KwTry, "catch": KwCatch, "do": KwDo, "end": KwEnd,
	"and": KwAnd, "or": KwOr, "in": KwIn, "as": KwAs,
}

// Token is one lexical token. It carries its Range and ModuleId so every
// AST node built from it can be traced back to source for diagnostics
// (spec.md §3.1, §3.3).
type Token struct {
	Kind     Kind
	Val      string
	Range    Range
	ModuleId ModuleId
}

func (t Token) String() string {
	if t.Kind == EOF {
		return "EOF"
	}
	if t.Kind == Error {
		return fmt.Sprintf("error: %s (%v)", t.Val, t.Range)
	}
	return fmt.Sprintf("%v(%q)", t.Kind, t.Val)
}
