/*
 * mq
 *
 * Copyright 2024 mq contributors. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

package astjson

import (
	"fmt"

	"github.com/harehare/mq/arena"
	"github.com/harehare/mq/ast"
	"github.com/harehare/mq/internal/mqerr"
	"github.com/harehare/mq/selector"
)

// untag splits a decoded {"Tag": payload} object into its tag and payload.
// A tagged Expr/Pattern object always has exactly one key.
func untag(m map[string]interface{}) (string, interface{}, error) {
	if len(m) != 1 {
		return "", nil, fmt.Errorf("%w: expected a single-key tagged object, got %d keys", mqerr.ErrInvalidASTJSON, len(m))
	}
	for k, v := range m {
		return k, v, nil
	}
	panic("unreachable")
}

func asObject(v interface{}) (map[string]interface{}, error) {
	m, ok := v.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("%w: expected a JSON object, got %T", mqerr.ErrInvalidASTJSON, v)
	}
	return m, nil
}

func asArray(v interface{}) ([]interface{}, error) {
	a, ok := v.([]interface{})
	if !ok {
		return nil, fmt.Errorf("%w: expected a JSON array, got %T", mqerr.ErrInvalidASTJSON, v)
	}
	return a, nil
}

func asString(v interface{}) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%w: expected a JSON string, got %T", mqerr.ErrInvalidASTJSON, v)
	}
	return s, nil
}

func asNumber(v interface{}) (float64, error) {
	n, ok := v.(float64)
	if !ok {
		return 0, fmt.Errorf("%w: expected a JSON number, got %T", mqerr.ErrInvalidASTJSON, v)
	}
	return n, nil
}

func asBool(v interface{}) (bool, error) {
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("%w: expected a JSON bool, got %T", mqerr.ErrInvalidASTJSON, v)
	}
	return b, nil
}

// fields splits a multi-field payload back into its positional elements,
// undoing tagged's arity collapse: n==1 callers pass the bare value
// already unwrapped by the caller, so this only ever sees n>=2 arrays.
func fields(v interface{}, n int) ([]interface{}, error) {
	arr, err := asArray(v)
	if err != nil {
		return nil, err
	}
	if len(arr) != n {
		return nil, fmt.Errorf("%w: expected %d fields, got %d", mqerr.ErrInvalidASTJSON, n, len(arr))
	}
	return arr, nil
}

func decodeIdentPayload(tree *ast.Tree, v interface{}) (arena.Ident, error) {
	m, err := asObject(v)
	if err != nil {
		return arena.Ident{}, err
	}
	nameRaw, ok := m["name"]
	if !ok {
		return arena.Ident{}, fmt.Errorf("%w: identifier object missing \"name\"", mqerr.ErrInvalidASTJSON)
	}
	name, err := asString(nameRaw)
	if err != nil {
		return arena.Ident{}, err
	}
	return tree.Idents.Intern(name), nil
}

func decodeIdentsPayload(tree *ast.Tree, v interface{}) ([]arena.Ident, error) {
	arr, err := asArray(v)
	if err != nil {
		return nil, err
	}
	out := make([]arena.Ident, len(arr))
	for i, el := range arr {
		id, err := decodeIdentPayload(tree, el)
		if err != nil {
			return nil, err
		}
		out[i] = id
	}
	return out, nil
}

func decodeNodeRefPayload(tree *ast.Tree, tid tokenId, v interface{}) (ast.NodeId, error) {
	m, err := asObject(v)
	if err != nil {
		return 0, err
	}
	return decodeNode(tree, tid, m)
}

func decodeOptNodeRefPayload(tree *ast.Tree, tid tokenId, v interface{}) (*ast.NodeId, error) {
	if v == nil {
		return nil, nil
	}
	id, err := decodeNodeRefPayload(tree, tid, v)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func decodeNodeRefsPayload(tree *ast.Tree, tid tokenId, v interface{}) ([]ast.NodeId, error) {
	arr, err := asArray(v)
	if err != nil {
		return nil, err
	}
	out := make([]ast.NodeId, len(arr))
	for i, el := range arr {
		id, err := decodeNodeRefPayload(tree, tid, el)
		if err != nil {
			return nil, err
		}
		out[i] = id
	}
	return out, nil
}

// decodeNode decodes one {"expr": ...} object, allocating the resulting
// node against the shared zero-value token id tid.
func decodeNode(tree *ast.Tree, tid tokenId, raw map[string]interface{}) (ast.NodeId, error) {
	exprRaw, ok := raw["expr"]
	if !ok {
		return 0, fmt.Errorf("%w: node object missing \"expr\"", mqerr.ErrInvalidASTJSON)
	}
	exprMap, err := asObject(exprRaw)
	if err != nil {
		return 0, err
	}
	expr, err := decodeExpr(tree, tid, exprMap)
	if err != nil {
		return 0, err
	}
	return tree.Alloc(tid, expr), nil
}

func decodeExpr(tree *ast.Tree, tid tokenId, m map[string]interface{}) (ast.Expr, error) {
	tag, payload, err := untag(m)
	if err != nil {
		return nil, err
	}

	switch tag {
	case "Literal":
		litMap, err := asObject(payload)
		if err != nil {
			return nil, err
		}
		return decodeLiteral(tree, litMap)

	case "Ident":
		name, err := decodeIdentPayload(tree, payload)
		if err != nil {
			return nil, err
		}
		return ast.IdentExpr{Name: name}, nil
	case "Self":
		return ast.SelfExpr{}, nil
	case "Nodes":
		return ast.NodesExpr{}, nil

	case "ArrayLit":
		elems, err := decodeNodeRefsPayload(tree, tid, payload)
		if err != nil {
			return nil, err
		}
		return ast.ArrayLit{Elems: elems}, nil

	case "Let", "Var", "Assign":
		fs, err := fields(payload, 2)
		if err != nil {
			return nil, err
		}
		name, err := decodeIdentPayload(tree, fs[0])
		if err != nil {
			return nil, err
		}
		val, err := decodeNodeRefPayload(tree, tid, fs[1])
		if err != nil {
			return nil, err
		}
		switch tag {
		case "Let":
			return ast.Let{Name: name, Value: val}, nil
		case "Var":
			return ast.Var{Name: name, Value: val}, nil
		default:
			return ast.Assign{Name: name, Value: val}, nil
		}

	case "If":
		branchesRaw, err := asArray(payload)
		if err != nil {
			return nil, err
		}
		branches := make([]ast.Branch, len(branchesRaw))
		for i, br := range branchesRaw {
			brMap, err := asObject(br)
			if err != nil {
				return nil, err
			}
			cond, err := decodeOptNodeRefPayload(tree, tid, brMap["cond"])
			if err != nil {
				return nil, err
			}
			body, err := decodeNodeRefPayload(tree, tid, brMap["body"])
			if err != nil {
				return nil, err
			}
			branches[i] = ast.Branch{Cond: cond, Body: body}
		}
		return ast.If{Branches: branches}, nil

	case "While", "Until":
		fs, err := fields(payload, 2)
		if err != nil {
			return nil, err
		}
		cond, err := decodeNodeRefPayload(tree, tid, fs[0])
		if err != nil {
			return nil, err
		}
		body, err := decodeNodeRefPayload(tree, tid, fs[1])
		if err != nil {
			return nil, err
		}
		if tag == "While" {
			return ast.While{Cond: cond, Body: body}, nil
		}
		return ast.Until{Cond: cond, Body: body}, nil

	case "Loop":
		body, err := decodeNodeRefPayload(tree, tid, payload)
		if err != nil {
			return nil, err
		}
		return ast.Loop{Body: body}, nil

	case "Foreach":
		fs, err := fields(payload, 3)
		if err != nil {
			return nil, err
		}
		name, err := decodeIdentPayload(tree, fs[0])
		if err != nil {
			return nil, err
		}
		iter, err := decodeNodeRefPayload(tree, tid, fs[1])
		if err != nil {
			return nil, err
		}
		body, err := decodeNodeRefPayload(tree, tid, fs[2])
		if err != nil {
			return nil, err
		}
		return ast.Foreach{Name: name, Iter: iter, Body: body}, nil

	case "Break":
		val, err := decodeOptNodeRefPayload(tree, tid, payload)
		if err != nil {
			return nil, err
		}
		return ast.Break{Value: val}, nil
	case "Continue":
		return ast.Continue{}, nil

	case "Match":
		fs, err := fields(payload, 2)
		if err != nil {
			return nil, err
		}
		scrutinee, err := decodeNodeRefPayload(tree, tid, fs[0])
		if err != nil {
			return nil, err
		}
		armsRaw, err := asArray(fs[1])
		if err != nil {
			return nil, err
		}
		arms := make([]ast.MatchArm, len(armsRaw))
		for i, a := range armsRaw {
			aMap, err := asObject(a)
			if err != nil {
				return nil, err
			}
			patMap, err := asObject(aMap["pattern"])
			if err != nil {
				return nil, err
			}
			pat, err := decodePattern(tree, tid, patMap)
			if err != nil {
				return nil, err
			}
			guard, err := decodeOptNodeRefPayload(tree, tid, aMap["guard"])
			if err != nil {
				return nil, err
			}
			body, err := decodeNodeRefPayload(tree, tid, aMap["body"])
			if err != nil {
				return nil, err
			}
			arms[i] = ast.MatchArm{Pattern: pat, Guard: guard, Body: body}
		}
		return ast.Match{Scrutinee: scrutinee, Arms: arms}, nil

	case "Def", "Macro":
		fs, err := fields(payload, 3)
		if err != nil {
			return nil, err
		}
		name, err := decodeIdentPayload(tree, fs[0])
		if err != nil {
			return nil, err
		}
		params, err := decodeIdentsPayload(tree, fs[1])
		if err != nil {
			return nil, err
		}
		body, err := decodeNodeRefPayload(tree, tid, fs[2])
		if err != nil {
			return nil, err
		}
		if tag == "Def" {
			return ast.Def{Name: name, Params: params, Body: body}, nil
		}
		return ast.Macro{Name: name, Params: params, Body: body}, nil

	case "Fn":
		fs, err := fields(payload, 2)
		if err != nil {
			return nil, err
		}
		params, err := decodeIdentsPayload(tree, fs[0])
		if err != nil {
			return nil, err
		}
		body, err := decodeNodeRefPayload(tree, tid, fs[1])
		if err != nil {
			return nil, err
		}
		return ast.Fn{Params: params, Body: body}, nil

	case "Call":
		fs, err := fields(payload, 3)
		if err != nil {
			return nil, err
		}
		name, err := decodeIdentPayload(tree, fs[0])
		if err != nil {
			return nil, err
		}
		args, err := decodeNodeRefsPayload(tree, tid, fs[1])
		if err != nil {
			return nil, err
		}
		optional, err := asBool(fs[2])
		if err != nil {
			return nil, err
		}
		return ast.Call{Name: name, Args: args, Optional: optional}, nil

	case "CallDynamic":
		fs, err := fields(payload, 3)
		if err != nil {
			return nil, err
		}
		callee, err := decodeNodeRefPayload(tree, tid, fs[0])
		if err != nil {
			return nil, err
		}
		args, err := decodeNodeRefsPayload(tree, tid, fs[1])
		if err != nil {
			return nil, err
		}
		optional, err := asBool(fs[2])
		if err != nil {
			return nil, err
		}
		return ast.CallDynamic{Callee: callee, Args: args, Optional: optional}, nil

	case "And", "Or":
		fs, err := fields(payload, 2)
		if err != nil {
			return nil, err
		}
		a, err := decodeNodeRefPayload(tree, tid, fs[0])
		if err != nil {
			return nil, err
		}
		b, err := decodeNodeRefPayload(tree, tid, fs[1])
		if err != nil {
			return nil, err
		}
		if tag == "And" {
			return ast.And{A: a, B: b}, nil
		}
		return ast.Or{A: a, B: b}, nil

	case "Paren":
		inner, err := decodeNodeRefPayload(tree, tid, payload)
		if err != nil {
			return nil, err
		}
		return ast.Paren{Inner: inner}, nil

	case "Try":
		fs, err := fields(payload, 2)
		if err != nil {
			return nil, err
		}
		body, err := decodeNodeRefPayload(tree, tid, fs[0])
		if err != nil {
			return nil, err
		}
		catch, err := decodeOptNodeRefPayload(tree, tid, fs[1])
		if err != nil {
			return nil, err
		}
		return ast.Try{Body: body, Catch: catch}, nil

	case "Block":
		stmts, err := decodeNodeRefsPayload(tree, tid, payload)
		if err != nil {
			return nil, err
		}
		return ast.Block{Stmts: stmts}, nil

	case "Pipe":
		stages, err := decodeNodeRefsPayload(tree, tid, payload)
		if err != nil {
			return nil, err
		}
		return ast.Pipe{Stages: stages}, nil

	case "InterpolatedString":
		segsRaw, err := asArray(payload)
		if err != nil {
			return nil, err
		}
		segs := make([]ast.Segment, len(segsRaw))
		for i, s := range segsRaw {
			seg, err := decodeSegment(tree, tid, s)
			if err != nil {
				return nil, err
			}
			segs[i] = seg
		}
		return ast.InterpolatedString{Segments: segs}, nil

	case "SelectorExpr":
		selMap, err := asObject(payload)
		if err != nil {
			return nil, err
		}
		sel, err := decodeSelector(selMap)
		if err != nil {
			return nil, err
		}
		return ast.SelectorExpr{Sel: sel}, nil

	case "ModuleDecl":
		fs, err := fields(payload, 2)
		if err != nil {
			return nil, err
		}
		name, err := decodeIdentPayload(tree, fs[0])
		if err != nil {
			return nil, err
		}
		body, err := decodeNodeRefsPayload(tree, tid, fs[1])
		if err != nil {
			return nil, err
		}
		return ast.ModuleDecl{Name: name, Body: body}, nil

	case "Include", "Import":
		path, err := asString(payload)
		if err != nil {
			return nil, err
		}
		if tag == "Include" {
			return ast.Include{Path: path}, nil
		}
		return ast.Import{Path: path}, nil

	case "QualifiedAccess":
		qaMap, err := asObject(payload)
		if err != nil {
			return nil, err
		}
		path, err := decodeIdentsPayload(tree, qaMap["path"])
		if err != nil {
			return nil, err
		}
		targetMap, err := asObject(qaMap["target"])
		if err != nil {
			return nil, err
		}
		targetTag, targetPayload, err := untag(targetMap)
		if err != nil {
			return nil, err
		}
		qa := ast.QualifiedAccess{Path: path}
		switch targetTag {
		case "Call":
			fs, err := fields(targetPayload, 3)
			if err != nil {
				return nil, err
			}
			name, err := decodeIdentPayload(tree, fs[0])
			if err != nil {
				return nil, err
			}
			args, err := decodeNodeRefsPayload(tree, tid, fs[1])
			if err != nil {
				return nil, err
			}
			optional, err := asBool(fs[2])
			if err != nil {
				return nil, err
			}
			qa.TargetKind = ast.AccessCall
			qa.Call = ast.Call{Name: name, Args: args, Optional: optional}
		case "Ident":
			name, err := decodeIdentPayload(tree, targetPayload)
			if err != nil {
				return nil, err
			}
			qa.TargetKind = ast.AccessIdent
			qa.Ident = name
		default:
			return nil, fmt.Errorf("%w: unknown QualifiedAccess target tag %q", mqerr.ErrInvalidASTJSON, targetTag)
		}
		return qa, nil

	case "Quote":
		inner, err := decodeNodeRefPayload(tree, tid, payload)
		if err != nil {
			return nil, err
		}
		return ast.Quote{Inner: inner}, nil
	case "Unquote":
		inner, err := decodeNodeRefPayload(tree, tid, payload)
		if err != nil {
			return nil, err
		}
		return ast.Unquote{Inner: inner}, nil
	}

	return nil, fmt.Errorf("%w: unknown Expr tag %q", mqerr.ErrInvalidASTJSON, tag)
}

func decodeLiteral(tree *ast.Tree, litMap map[string]interface{}) (ast.Expr, error) {
	tag, payload, err := untag(litMap)
	if err != nil {
		return nil, err
	}
	switch tag {
	case "Number":
		n, err := asNumber(payload)
		if err != nil {
			return nil, err
		}
		return ast.Number{Value: n}, nil
	case "String":
		s, err := asString(payload)
		if err != nil {
			return nil, err
		}
		return ast.String{Value: s}, nil
	case "Bool":
		b, err := asBool(payload)
		if err != nil {
			return nil, err
		}
		return ast.Bool{Value: b}, nil
	case "Symbol":
		s, err := asString(payload)
		if err != nil {
			return nil, err
		}
		return ast.SymbolLit{Value: tree.Idents.Intern(s)}, nil
	case "None":
		return ast.NoneLit{}, nil
	}
	return nil, fmt.Errorf("%w: unknown Literal tag %q", mqerr.ErrInvalidASTJSON, tag)
}

func decodeSegment(tree *ast.Tree, tid tokenId, v interface{}) (ast.Segment, error) {
	m, err := asObject(v)
	if err != nil {
		return ast.Segment{}, err
	}
	kindRaw, ok := m["kind"]
	if !ok {
		return ast.Segment{}, fmt.Errorf("%w: segment missing \"kind\"", mqerr.ErrInvalidASTJSON)
	}
	kindStr, err := asString(kindRaw)
	if err != nil {
		return ast.Segment{}, err
	}
	switch kindStr {
	case "text":
		text, err := asString(m["text"])
		if err != nil {
			return ast.Segment{}, err
		}
		return ast.Segment{Kind: ast.SegText, Text: text}, nil
	case "env":
		text, err := asString(m["text"])
		if err != nil {
			return ast.Segment{}, err
		}
		return ast.Segment{Kind: ast.SegEnv, Text: text}, nil
	case "expr":
		id, err := decodeNodeRefPayload(tree, tid, m["expr"])
		if err != nil {
			return ast.Segment{}, err
		}
		return ast.Segment{Kind: ast.SegExpr, Expr: id}, nil
	case "self":
		return ast.Segment{Kind: ast.SegSelf}, nil
	}
	return ast.Segment{}, fmt.Errorf("%w: unknown segment kind %q", mqerr.ErrInvalidASTJSON, kindStr)
}

func decodePattern(tree *ast.Tree, tid tokenId, m map[string]interface{}) (ast.Pattern, error) {
	tag, payload, err := untag(m)
	if err != nil {
		return ast.Pattern{}, err
	}
	switch tag {
	case "Literal":
		litMap, err := asObject(payload)
		if err != nil {
			return ast.Pattern{}, err
		}
		lit, err := decodeLiteral(tree, litMap)
		if err != nil {
			return ast.Pattern{}, err
		}
		return ast.Pattern{Kind: ast.PatLiteral, Literal: lit}, nil
	case "Ident":
		id, err := decodeIdentPayload(tree, payload)
		if err != nil {
			return ast.Pattern{}, err
		}
		return ast.Pattern{Kind: ast.PatIdent, Ident: id}, nil
	case "Wildcard":
		return ast.Pattern{Kind: ast.PatWildcard}, nil
	case "ArrayRest":
		// Only ever decoded as the last element of a PatArray's Elems - see
		// the matching comment in encodePattern.
		id, err := decodeIdentPayload(tree, payload)
		if err != nil {
			return ast.Pattern{}, err
		}
		return ast.Pattern{Kind: ast.PatArrayRest, Ident: id}, nil
	case "Array":
		elemsRaw, err := asArray(payload)
		if err != nil {
			return ast.Pattern{}, err
		}
		elems := make([]ast.Pattern, len(elemsRaw))
		for i, el := range elemsRaw {
			elMap, err := asObject(el)
			if err != nil {
				return ast.Pattern{}, err
			}
			p, err := decodePattern(tree, tid, elMap)
			if err != nil {
				return ast.Pattern{}, err
			}
			elems[i] = p
		}
		return ast.Pattern{Kind: ast.PatArray, Elems: elems}, nil
	case "Dict":
		entriesRaw, err := asArray(payload)
		if err != nil {
			return ast.Pattern{}, err
		}
		entries := make([]ast.DictEntry, len(entriesRaw))
		for i, e := range entriesRaw {
			eMap, err := asObject(e)
			if err != nil {
				return ast.Pattern{}, err
			}
			key, err := asString(eMap["key"])
			if err != nil {
				return ast.Pattern{}, err
			}
			patMap, err := asObject(eMap["pattern"])
			if err != nil {
				return ast.Pattern{}, err
			}
			p, err := decodePattern(tree, tid, patMap)
			if err != nil {
				return ast.Pattern{}, err
			}
			entries[i] = ast.DictEntry{Key: key, Pattern: p}
		}
		return ast.Pattern{Kind: ast.PatDict, Dict: entries}, nil
	case "Type":
		id, err := decodeIdentPayload(tree, payload)
		if err != nil {
			return ast.Pattern{}, err
		}
		return ast.Pattern{Kind: ast.PatType, Ident: id}, nil
	}
	return ast.Pattern{}, fmt.Errorf("%w: unknown Pattern tag %q", mqerr.ErrInvalidASTJSON, tag)
}

// decodeSelector rebuilds a selector.Selector from its plain-field JSON
// object (selector.Selector/Arg round-trip through encoding/json directly,
// since every field is already exported and JSON-shaped).
func decodeSelector(m map[string]interface{}) (selector.Selector, error) {
	var sel selector.Selector
	name, err := asString(m["Name"])
	if err != nil {
		return sel, err
	}
	sel.Name = name
	argsRaw, ok := m["Args"]
	if !ok || argsRaw == nil {
		return sel, nil
	}
	argsArr, err := asArray(argsRaw)
	if err != nil {
		return sel, err
	}
	args := make([]selector.Arg, len(argsArr))
	for i, a := range argsArr {
		aMap, err := asObject(a)
		if err != nil {
			return sel, err
		}
		kind, err := asNumber(aMap["Kind"])
		if err != nil {
			return sel, err
		}
		arg := selector.Arg{Kind: selector.ArgKind(kind)}
		if v, ok := aMap["Number"]; ok && v != nil {
			if n, err := asNumber(v); err == nil {
				arg.Number = n
			}
		}
		if v, ok := aMap["Bool"]; ok && v != nil {
			if b, err := asBool(v); err == nil {
				arg.Bool = b
			}
		}
		if v, ok := aMap["String"]; ok && v != nil {
			if s, err := asString(v); err == nil {
				arg.String = s
			}
		}
		if v, ok := aMap["Ident"]; ok && v != nil {
			if s, err := asString(v); err == nil {
				arg.Ident = s
			}
		}
		args[i] = arg
	}
	sel.Args = args
	return sel, nil
}
