/*
 * mq
 *
 * Copyright 2024 mq contributors. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

// Package astjson implements spec.md §6.2's AST <-> JSON encoding, the wire
// format behind the driver's `--output-ast-json`/`--execute-ast-json`
// options (out of scope here; this package only does the encode/decode).
//
// A Node encodes as `{"expr": <Expr>}`; token_id is never written and
// always comes back as the zero token on decode. Expr is a tagged sum keyed
// by its Go type name ("Call", "Let", "If", ...); the payload is the
// variant's fields as a positional JSON array, collapsed to the bare value
// when there is exactly one field and to null when there are none - the
// same shape serde's default derive gives Rust's tuple/unit enum variants,
// which is what the pack's original Rust mq (crates/mq-lang/src/ast/node.rs,
// `#[cfg_attr(feature = "ast-json", derive(Serialize, Deserialize))]`)
// produces. Literal expressions (Number/String/Bool/SymbolLit/NoneLit) are
// additionally wrapped under a "Literal" tag so the wire form matches
// spec.md §6.2's own example (`{"Literal": {"Number": 1.0}}`) even though
// ast.Expr keeps them as separate Go types.
package astjson

import (
	"encoding/json"
	"fmt"

	"github.com/krotik/common/errorutil"

	"github.com/harehare/mq/arena"
	"github.com/harehare/mq/ast"
	"github.com/harehare/mq/internal/mqerr"
	"github.com/harehare/mq/selector"
	"github.com/harehare/mq/token"
)

// tokenId is the arena id type for the single shared zero-value token every
// decoded node is allocated against.
type tokenId = arena.ArenaId[token.Token]

// Encode renders the subtree rooted at id as AST JSON.
func Encode(tree *ast.Tree, id ast.NodeId) ([]byte, error) {
	return json.Marshal(encodeNode(tree, id))
}

// Decode parses AST JSON into tree, returning the root node's id. tree
// should be freshly created (ast.NewTree); decoded identifiers are interned
// into tree.Idents and decoded nodes are allocated into tree.Nodes, each
// against a single shared zero-value token (spec.md §6.2: "token_id is
// omitted and defaults to 0 on decode").
func Decode(tree *ast.Tree, data []byte) (ast.NodeId, error) {
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return 0, fmt.Errorf("%w: %s", mqerr.ErrInvalidASTJSON, err)
	}
	tid := tree.Tokens.Alloc(token.Token{})
	return decodeNode(tree, tid, raw)
}

// ValidateFlags enforces the driver-agnostic flag-compatibility rule a
// CLI's `--output-ast-json`/`--execute-ast-json`/`--update` options would
// need to honor (the driver itself is out of scope; this is the pure rule
// it would call): `--output-ast-json` and `--execute-ast-json` are mutually
// exclusive (one produces AST JSON, the other consumes it), and
// `--execute-ast-json` combined with `--update` is rejected outright since
// an AST-JSON-driven run has no query source text left to rewrite in place.
func ValidateFlags(outputASTJSON, executeASTJSON, update bool) error {
	if outputASTJSON && executeASTJSON {
		return fmt.Errorf("%w: --output-ast-json and --execute-ast-json cannot be used together", mqerr.ErrInvalidASTJSON)
	}
	if executeASTJSON && update {
		return fmt.Errorf("%w: --execute-ast-json and --update cannot be used together", mqerr.ErrInvalidASTJSON)
	}
	return nil
}

func encodeNode(tree *ast.Tree, id ast.NodeId) map[string]interface{} {
	n := tree.Node(id)
	return map[string]interface{}{"expr": encodeExpr(tree, n.Expr)}
}

func encodeIdent(id arena.Ident) map[string]interface{} {
	return map[string]interface{}{"name": id.String()}
}

func encodeNodeRef(tree *ast.Tree, id ast.NodeId) interface{} {
	return encodeNode(tree, id)
}

func encodeOptNodeRef(tree *ast.Tree, id *ast.NodeId) interface{} {
	if id == nil {
		return nil
	}
	return encodeNodeRef(tree, *id)
}

func encodeNodeRefs(tree *ast.Tree, ids []ast.NodeId) []interface{} {
	out := make([]interface{}, len(ids))
	for i, id := range ids {
		out[i] = encodeNodeRef(tree, id)
	}
	return out
}

func encodeIdents(ids []arena.Ident) []interface{} {
	out := make([]interface{}, len(ids))
	for i, id := range ids {
		out[i] = encodeIdent(id)
	}
	return out
}

// tagged builds {"tag": payload}, collapsing payload per the package doc's
// arity rule: zero fields -> null, one field -> the bare value, more -> the
// array as given.
func tagged(tag string, fields ...interface{}) map[string]interface{} {
	var payload interface{}
	switch len(fields) {
	case 0:
		payload = nil
	case 1:
		payload = fields[0]
	default:
		payload = fields
	}
	return map[string]interface{}{tag: payload}
}

func encodeExpr(tree *ast.Tree, expr ast.Expr) map[string]interface{} {
	switch e := expr.(type) {
	case ast.Number:
		return tagged("Literal", tagged("Number", e.Value))
	case ast.String:
		return tagged("Literal", tagged("String", e.Value))
	case ast.Bool:
		return tagged("Literal", tagged("Bool", e.Value))
	case ast.SymbolLit:
		return tagged("Literal", tagged("Symbol", e.Value.String()))
	case ast.NoneLit:
		return tagged("Literal", tagged("None"))
	case ast.ArrayLit:
		return tagged("ArrayLit", encodeNodeRefs(tree, e.Elems))

	case ast.IdentExpr:
		return tagged("Ident", encodeIdent(e.Name))
	case ast.SelfExpr:
		return tagged("Self")
	case ast.NodesExpr:
		return tagged("Nodes")

	case ast.Let:
		return tagged("Let", encodeIdent(e.Name), encodeNodeRef(tree, e.Value))
	case ast.Var:
		return tagged("Var", encodeIdent(e.Name), encodeNodeRef(tree, e.Value))
	case ast.Assign:
		return tagged("Assign", encodeIdent(e.Name), encodeNodeRef(tree, e.Value))

	case ast.If:
		branches := make([]interface{}, len(e.Branches))
		for i, br := range e.Branches {
			branches[i] = map[string]interface{}{
				"cond": encodeOptNodeRef(tree, br.Cond),
				"body": encodeNodeRef(tree, br.Body),
			}
		}
		return tagged("If", branches)
	case ast.While:
		return tagged("While", encodeNodeRef(tree, e.Cond), encodeNodeRef(tree, e.Body))
	case ast.Until:
		return tagged("Until", encodeNodeRef(tree, e.Cond), encodeNodeRef(tree, e.Body))
	case ast.Loop:
		return tagged("Loop", encodeNodeRef(tree, e.Body))
	case ast.Foreach:
		return tagged("Foreach", encodeIdent(e.Name), encodeNodeRef(tree, e.Iter), encodeNodeRef(tree, e.Body))
	case ast.Break:
		return tagged("Break", encodeOptNodeRef(tree, e.Value))
	case ast.Continue:
		return tagged("Continue")

	case ast.Match:
		arms := make([]interface{}, len(e.Arms))
		for i, arm := range e.Arms {
			arms[i] = map[string]interface{}{
				"pattern": encodePattern(tree, arm.Pattern),
				"guard":   encodeOptNodeRef(tree, arm.Guard),
				"body":    encodeNodeRef(tree, arm.Body),
			}
		}
		return tagged("Match", encodeNodeRef(tree, e.Scrutinee), arms)

	case ast.Def:
		return tagged("Def", encodeIdent(e.Name), encodeIdents(e.Params), encodeNodeRef(tree, e.Body))
	case ast.Fn:
		return tagged("Fn", encodeIdents(e.Params), encodeNodeRef(tree, e.Body))
	case ast.Call:
		return tagged("Call", encodeIdent(e.Name), encodeNodeRefs(tree, e.Args), e.Optional)
	case ast.CallDynamic:
		return tagged("CallDynamic", encodeNodeRef(tree, e.Callee), encodeNodeRefs(tree, e.Args), e.Optional)
	case ast.Macro:
		return tagged("Macro", encodeIdent(e.Name), encodeIdents(e.Params), encodeNodeRef(tree, e.Body))

	case ast.And:
		return tagged("And", encodeNodeRef(tree, e.A), encodeNodeRef(tree, e.B))
	case ast.Or:
		return tagged("Or", encodeNodeRef(tree, e.A), encodeNodeRef(tree, e.B))
	case ast.Paren:
		return tagged("Paren", encodeNodeRef(tree, e.Inner))
	case ast.Try:
		return tagged("Try", encodeNodeRef(tree, e.Body), encodeOptNodeRef(tree, e.Catch))
	case ast.Block:
		return tagged("Block", encodeNodeRefs(tree, e.Stmts))
	case ast.Pipe:
		return tagged("Pipe", encodeNodeRefs(tree, e.Stages))

	case ast.InterpolatedString:
		segs := make([]interface{}, len(e.Segments))
		for i, seg := range e.Segments {
			segs[i] = encodeSegment(tree, seg)
		}
		return tagged("InterpolatedString", segs)

	case ast.SelectorExpr:
		return tagged("SelectorExpr", e.Sel)

	case ast.ModuleDecl:
		return tagged("ModuleDecl", encodeIdent(e.Name), encodeNodeRefs(tree, e.Body))
	case ast.Include:
		return tagged("Include", e.Path)
	case ast.Import:
		return tagged("Import", e.Path)
	case ast.QualifiedAccess:
		m := map[string]interface{}{"path": encodeIdents(e.Path)}
		switch e.TargetKind {
		case ast.AccessCall:
			m["target"] = tagged("Call", encodeIdent(e.Call.Name), encodeNodeRefs(tree, e.Call.Args), e.Call.Optional)
		case ast.AccessIdent:
			m["target"] = tagged("Ident", encodeIdent(e.Ident))
		}
		return tagged("QualifiedAccess", m)

	case ast.Quote:
		return tagged("Quote", encodeNodeRef(tree, e.Inner))
	case ast.Unquote:
		return tagged("Unquote", encodeNodeRef(tree, e.Inner))
	}
	errorutil.AssertTrue(false, fmt.Sprintf("astjson: unhandled Expr type %T", expr))
	return nil
}

func segKindName(k ast.SegmentKind) string {
	switch k {
	case ast.SegText:
		return "text"
	case ast.SegExpr:
		return "expr"
	case ast.SegEnv:
		return "env"
	case ast.SegSelf:
		return "self"
	default:
		return "text"
	}
}

func encodeSegment(tree *ast.Tree, seg ast.Segment) map[string]interface{} {
	m := map[string]interface{}{"kind": segKindName(seg.Kind)}
	switch seg.Kind {
	case ast.SegText, ast.SegEnv:
		m["text"] = seg.Text
	case ast.SegExpr:
		m["expr"] = encodeNodeRef(tree, seg.Expr)
	}
	return m
}

func encodePattern(tree *ast.Tree, p ast.Pattern) map[string]interface{} {
	switch p.Kind {
	case ast.PatLiteral:
		return tagged("Literal", encodeExpr(tree, p.Literal)["Literal"])
	case ast.PatIdent:
		return tagged("Ident", encodeIdent(p.Ident))
	case ast.PatWildcard:
		return tagged("Wildcard")
	case ast.PatArray:
		elems := make([]interface{}, len(p.Elems))
		for i, el := range p.Elems {
			elems[i] = encodePattern(tree, el)
		}
		return tagged("Array", elems)
	case ast.PatArrayRest:
		// Only ever appears as the last element of a PatArray's Elems (the
		// "rest" binding name, not a nested array) - see parser.parsePattern.
		return tagged("ArrayRest", encodeIdent(p.Ident))
	case ast.PatDict:
		entries := make([]interface{}, len(p.Dict))
		for i, e := range p.Dict {
			entries[i] = map[string]interface{}{"key": e.Key, "pattern": encodePattern(tree, e.Pattern)}
		}
		return tagged("Dict", entries)
	case ast.PatType:
		return tagged("Type", encodeIdent(p.Ident))
	}
	errorutil.AssertTrue(false, fmt.Sprintf("astjson: unhandled PatternKind %v", p.Kind))
	return nil
}
