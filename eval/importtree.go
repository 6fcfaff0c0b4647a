/*
 * mq
 *
 * Copyright 2024 mq contributors. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

package eval

import "github.com/harehare/mq/ast"

// copyNode deep-copies the subtree rooted at id from src into dst,
// translating every nested ast.NodeId along the way, and returns the id of
// the copy in dst. value.Closure carries only a bare NodeId (no tree
// reference - an already-settled part of this module's Value design), so
// every Evaluator call evaluates node ids against its own single tree;
// splicing a loaded module's functions into the running program (Include/
// Import/QualifiedAccess) therefore has to copy the module's nodes into
// the evaluator's tree first. arena.Ident values need no translation -
// they compare equal by their embedded text regardless of which Interner
// produced them.
func copyNode(dst, src *ast.Tree, id ast.NodeId) ast.NodeId {
	n := src.Node(id)
	tid := dst.Tokens.Alloc(src.Token(n))
	return dst.Alloc(tid, copyExpr(dst, src, n.Expr))
}

func copyIds(dst, src *ast.Tree, ids []ast.NodeId) []ast.NodeId {
	out := make([]ast.NodeId, len(ids))
	for i, id := range ids {
		out[i] = copyNode(dst, src, id)
	}
	return out
}

func copyExpr(dst, src *ast.Tree, e ast.Expr) ast.Expr {
	switch v := e.(type) {
	case ast.Number, ast.String, ast.Bool, ast.SymbolLit, ast.NoneLit,
		ast.IdentExpr, ast.SelfExpr, ast.NodesExpr, ast.Continue,
		ast.SelectorExpr, ast.Include, ast.Import:
		return v

	case ast.Let:
		return ast.Let{Name: v.Name, Value: copyNode(dst, src, v.Value)}
	case ast.Var:
		return ast.Var{Name: v.Name, Value: copyNode(dst, src, v.Value)}
	case ast.Assign:
		return ast.Assign{Name: v.Name, Value: copyNode(dst, src, v.Value)}

	case ast.If:
		branches := make([]ast.Branch, len(v.Branches))
		for i, b := range v.Branches {
			nb := ast.Branch{Body: copyNode(dst, src, b.Body)}
			if b.Cond != nil {
				c := copyNode(dst, src, *b.Cond)
				nb.Cond = &c
			}
			branches[i] = nb
		}
		return ast.If{Branches: branches}
	case ast.While:
		return ast.While{Cond: copyNode(dst, src, v.Cond), Body: copyNode(dst, src, v.Body)}
	case ast.Until:
		return ast.Until{Cond: copyNode(dst, src, v.Cond), Body: copyNode(dst, src, v.Body)}
	case ast.Loop:
		return ast.Loop{Body: copyNode(dst, src, v.Body)}
	case ast.Foreach:
		return ast.Foreach{Name: v.Name, Iter: copyNode(dst, src, v.Iter), Body: copyNode(dst, src, v.Body)}
	case ast.Break:
		if v.Value == nil {
			return v
		}
		b := copyNode(dst, src, *v.Value)
		return ast.Break{Value: &b}

	case ast.Match:
		arms := make([]ast.MatchArm, len(v.Arms))
		for i, a := range v.Arms {
			na := ast.MatchArm{Pattern: copyPattern(dst, src, a.Pattern), Body: copyNode(dst, src, a.Body)}
			if a.Guard != nil {
				g := copyNode(dst, src, *a.Guard)
				na.Guard = &g
			}
			arms[i] = na
		}
		return ast.Match{Scrutinee: copyNode(dst, src, v.Scrutinee), Arms: arms}

	case ast.Def:
		return ast.Def{Name: v.Name, Params: v.Params, Body: copyNode(dst, src, v.Body)}
	case ast.Fn:
		return ast.Fn{Params: v.Params, Body: copyNode(dst, src, v.Body)}
	case ast.Call:
		return ast.Call{Name: v.Name, Args: copyIds(dst, src, v.Args), Optional: v.Optional}
	case ast.CallDynamic:
		return ast.CallDynamic{Callee: copyNode(dst, src, v.Callee), Args: copyIds(dst, src, v.Args), Optional: v.Optional}
	case ast.Macro:
		return ast.Macro{Name: v.Name, Params: v.Params, Body: copyNode(dst, src, v.Body)}

	case ast.And:
		return ast.And{A: copyNode(dst, src, v.A), B: copyNode(dst, src, v.B)}
	case ast.Or:
		return ast.Or{A: copyNode(dst, src, v.A), B: copyNode(dst, src, v.B)}
	case ast.Paren:
		return ast.Paren{Inner: copyNode(dst, src, v.Inner)}
	case ast.Try:
		t := ast.Try{Body: copyNode(dst, src, v.Body)}
		if v.Catch != nil {
			c := copyNode(dst, src, *v.Catch)
			t.Catch = &c
		}
		return t
	case ast.Block:
		return ast.Block{Stmts: copyIds(dst, src, v.Stmts)}
	case ast.Pipe:
		return ast.Pipe{Stages: copyIds(dst, src, v.Stages)}

	case ast.InterpolatedString:
		segs := make([]ast.Segment, len(v.Segments))
		for i, s := range v.Segments {
			ns := s
			if s.Kind == ast.SegExpr {
				ns.Expr = copyNode(dst, src, s.Expr)
			}
			segs[i] = ns
		}
		return ast.InterpolatedString{Segments: segs}

	case ast.ModuleDecl:
		return ast.ModuleDecl{Name: v.Name, Body: copyIds(dst, src, v.Body)}
	case ast.QualifiedAccess:
		nv := ast.QualifiedAccess{Path: v.Path, TargetKind: v.TargetKind, Ident: v.Ident}
		nv.Call = ast.Call{Name: v.Call.Name, Args: copyIds(dst, src, v.Call.Args), Optional: v.Call.Optional}
		return nv

	case ast.Quote:
		return ast.Quote{Inner: copyNode(dst, src, v.Inner)}
	case ast.Unquote:
		return ast.Unquote{Inner: copyNode(dst, src, v.Inner)}

	default:
		return v
	}
}

func copyPattern(dst, src *ast.Tree, p ast.Pattern) ast.Pattern {
	np := ast.Pattern{Kind: p.Kind, Ident: p.Ident}
	if p.Literal != nil {
		np.Literal = copyExpr(dst, src, p.Literal)
	}
	if p.Elems != nil {
		np.Elems = make([]ast.Pattern, len(p.Elems))
		for i, e := range p.Elems {
			np.Elems[i] = copyPattern(dst, src, e)
		}
	}
	if p.Dict != nil {
		np.Dict = make([]ast.DictEntry, len(p.Dict))
		for i, d := range p.Dict {
			np.Dict[i] = ast.DictEntry{Key: d.Key, Pattern: copyPattern(dst, src, d.Pattern)}
		}
	}
	return np
}
