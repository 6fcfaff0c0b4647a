/*
 * mq
 *
 * Copyright 2024 mq contributors. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

// Package parser turns a token stream into an ast.Program (spec.md §4.2).
// Grounded on the teacher's parser/parser.go: a top-down operator-precedence
// (Pratt) engine with per-token binding powers and null/left denotation
// functions. Adapted: the teacher dispatches through a map keyed by
// LexTokenID holding a prototype *ASTNode with function pointers; this
// parser instead uses a switch-based recursive-descent core for the
// statement grammar (let/def/control, which the spec's grammar gives as
// explicit productions) layered under a small classic-Pratt expression core
// for `or`/`and`/comparison/arithmetic, matching the shape of the teacher's
// `run`/`nullDenotation`/`leftDenotation` trio one level down instead of at
// the top, since mq's grammar (spec.md §4.2) separates statement forms from
// the operator-precedence subset more sharply than ECAL's does.
package parser

import (
	"fmt"

	"github.com/harehare/mq/arena"
	"github.com/harehare/mq/ast"
	"github.com/harehare/mq/internal/mqerr"
	"github.com/harehare/mq/lexer"
	"github.com/harehare/mq/selector"
	"github.com/harehare/mq/token"
)

type parser struct {
	name string
	mid  token.ModuleId
	tree *ast.Tree
	toks []token.Token
	tids []arena.ArenaId[token.Token]
	pos  int
}

// Parse lexes and parses src as module mid, interning tokens and nodes into
// tree, and returns the resulting top-level program.
func Parse(name string, mid token.ModuleId, src string, tree *ast.Tree) (ast.Program, error) {
	toks, err := lexer.Lex(name, mid, src, lexer.Options{})
	if err != nil {
		return nil, err
	}

	p := &parser{name: name, mid: mid, tree: tree, toks: toks}
	p.tids = make([]arena.ArenaId[token.Token], len(toks))
	for i, t := range toks {
		p.tids[i] = tree.Tokens.Alloc(t)
	}

	var prog ast.Program
	for !p.atEOF() {
		p.skipSemicolons()
		if p.atEOF() {
			break
		}
		n, err := p.parsePipeChain()
		if err != nil {
			return nil, err
		}
		prog = append(prog, n)
		p.skipSemicolons()
	}
	return prog, nil
}

func (p *parser) skipSemicolons() {
	for p.cur().Kind == token.Semicolon {
		p.pos++
	}
}

func (p *parser) cur() token.Token  { return p.toks[p.pos] }
func (p *parser) curTid() arena.ArenaId[token.Token] { return p.tids[p.pos] }
func (p *parser) atEOF() bool       { return p.cur().Kind == token.EOF }

func (p *parser) advance() token.Token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *parser) expect(k token.Kind) (token.Token, error) {
	if p.cur().Kind != k {
		return token.Token{}, p.errf("expected token kind %v, got %v (%q)", k, p.cur().Kind, p.cur().Val)
	}
	return p.advance(), nil
}

func (p *parser) errf(format string, a ...interface{}) error {
	t := p.cur()
	return mqerr.NewSourceError(p.name, mqerr.ErrUnexpectedToken, fmt.Sprintf(format, a...), mqerr.Range{
		Start: mqerr.Position{Line: t.Range.Start.Line, Column: t.Range.Start.Column},
		End:   mqerr.Position{Line: t.Range.End.Line, Column: t.Range.End.Column},
	})
}

func (p *parser) alloc(tid arena.ArenaId[token.Token], e ast.Expr) ast.NodeId {
	return p.tree.Alloc(tid, e)
}

func (p *parser) ident(s string) arena.Ident { return p.tree.Idents.Intern(s) }

// parsePipeChain parses `pipe ( '|' pipe )*`, producing a single ast.Pipe
// node when there is more than one stage, or the bare pipe-level node
// otherwise (spec.md §4.2's program/pipe productions).
func (p *parser) parsePipeChain() (ast.NodeId, error) {
	tid := p.curTid()
	first, err := p.parsePipeStage()
	if err != nil {
		return 0, err
	}
	if p.cur().Kind != token.Pipe {
		return first, nil
	}
	stages := []ast.NodeId{first}
	for p.cur().Kind == token.Pipe {
		p.advance()
		n, err := p.parsePipeStage()
		if err != nil {
			return 0, err
		}
		stages = append(stages, n)
	}
	return p.alloc(tid, ast.Pipe{Stages: stages}), nil
}

// parsePipeStage parses one `let | def | control | infix` alternative.
func (p *parser) parsePipeStage() (ast.NodeId, error) {
	switch p.cur().Kind {
	case token.KwLet, token.KwVar:
		return p.parseLetVar()
	case token.KwDef:
		return p.parseDef()
	case token.KwMacro:
		return p.parseMacro()
	case token.KwIf:
		return p.parseIf()
	case token.KwWhile:
		return p.parseWhile()
	case token.KwUntil:
		return p.parseUntil()
	case token.KwLoop:
		return p.parseLoop()
	case token.KwForeach:
		return p.parseForeach()
	case token.KwMatch:
		return p.parseMatch()
	case token.KwBreak:
		return p.parseBreak()
	case token.KwContinue:
		tid := p.curTid()
		p.advance()
		return p.alloc(tid, ast.Continue{}), nil
	case token.KwInclude:
		return p.parseInclude()
	case token.KwImport:
		return p.parseImport()
	case token.KwModule:
		return p.parseModule()
	case token.KwQuote:
		return p.parseQuote()
	case token.KwUnquote:
		return p.parseUnquote()
	case token.KwTry:
		return p.parseTry()
	default:
		// Assignment to an existing var: IDENT '=' pipe (not '==').
		if p.cur().Kind == token.Ident && p.peekKind(1) == token.Assign {
			return p.parseAssign()
		}
		return p.parseInfix()
	}
}

func (p *parser) peekKind(ahead int) token.Kind {
	i := p.pos + ahead
	if i >= len(p.toks) {
		return token.EOF
	}
	return p.toks[i].Kind
}

func (p *parser) parseLetVar() (ast.NodeId, error) {
	tid := p.curTid()
	isVar := p.cur().Kind == token.KwVar
	p.advance()
	nameTok, err := p.expect(token.Ident)
	if err != nil {
		return 0, err
	}
	if _, err := p.expect(token.Assign); err != nil {
		return 0, err
	}
	val, err := p.parsePipeChain()
	if err != nil {
		return 0, err
	}
	name := p.ident(nameTok.Val)
	if isVar {
		return p.alloc(tid, ast.Var{Name: name, Value: val}), nil
	}
	return p.alloc(tid, ast.Let{Name: name, Value: val}), nil
}

func (p *parser) parseAssign() (ast.NodeId, error) {
	tid := p.curTid()
	nameTok, _ := p.expect(token.Ident)
	if _, err := p.expect(token.Assign); err != nil {
		return 0, err
	}
	val, err := p.parsePipeChain()
	if err != nil {
		return 0, err
	}
	return p.alloc(tid, ast.Assign{Name: p.ident(nameTok.Val), Value: val}), nil
}

// parseParamList parses a parenthesized, comma-separated identifier list.
func (p *parser) parseParamList() ([]arena.Ident, error) {
	if _, err := p.expect(token.LParen); err != nil {
		return nil, err
	}
	var params []arena.Ident
	for p.cur().Kind != token.RParen {
		t, err := p.expect(token.Ident)
		if err != nil {
			return nil, err
		}
		params = append(params, p.ident(t.Val))
		if p.cur().Kind == token.Comma {
			p.advance()
		}
	}
	if _, err := p.expect(token.RParen); err != nil {
		return nil, err
	}
	return params, nil
}

// parseBlockBody parses a statement sequence terminated by ';' - the body of
// def/macro/while/until/loop/foreach/module (spec.md §4.2). Statements are
// simply juxtaposed (each parsePipeChain call stops where the next token
// can't extend it), with no separator between them; the single ';' that
// follows the last one closes the whole block.
func (p *parser) parseBlockBody() (ast.NodeId, error) {
	tid := p.curTid()
	var stmts []ast.NodeId
	for p.cur().Kind != token.Semicolon && p.cur().Kind != token.EOF {
		n, err := p.parsePipeChain()
		if err != nil {
			return 0, err
		}
		stmts = append(stmts, n)
	}
	if _, err := p.expect(token.Semicolon); err != nil {
		return 0, err
	}
	return p.alloc(tid, ast.Block{Stmts: stmts}), nil
}

func (p *parser) parseDef() (ast.NodeId, error) {
	tid := p.curTid()
	p.advance()
	nameTok, err := p.expect(token.Ident)
	if err != nil {
		return 0, err
	}
	params, err := p.parseParamList()
	if err != nil {
		return 0, err
	}
	if _, err := p.expect(token.Colon); err != nil {
		return 0, err
	}
	body, err := p.parseBlockBody()
	if err != nil {
		return 0, err
	}
	return p.alloc(tid, ast.Def{Name: p.ident(nameTok.Val), Params: params, Body: body}), nil
}

func (p *parser) parseMacro() (ast.NodeId, error) {
	tid := p.curTid()
	p.advance()
	nameTok, err := p.expect(token.Ident)
	if err != nil {
		return 0, err
	}
	params, err := p.parseParamList()
	if err != nil {
		return 0, err
	}
	if _, err := p.expect(token.Colon); err != nil {
		return 0, err
	}
	body, err := p.parseBlockBody()
	if err != nil {
		return 0, err
	}
	return p.alloc(tid, ast.Macro{Name: p.ident(nameTok.Val), Params: params, Body: body}), nil
}

func (p *parser) parseIf() (ast.NodeId, error) {
	tid := p.curTid()
	var branches []ast.Branch

	parseCondBody := func() (ast.Branch, error) {
		if _, err := p.expect(token.LParen); err != nil {
			return ast.Branch{}, err
		}
		cond, err := p.parsePipeChain()
		if err != nil {
			return ast.Branch{}, err
		}
		if _, err := p.expect(token.RParen); err != nil {
			return ast.Branch{}, err
		}
		if _, err := p.expect(token.Colon); err != nil {
			return ast.Branch{}, err
		}
		body, err := p.parsePipeChain()
		if err != nil {
			return ast.Branch{}, err
		}
		return ast.Branch{Cond: &cond, Body: body}, nil
	}

	p.advance() // 'if'
	b, err := parseCondBody()
	if err != nil {
		return 0, err
	}
	branches = append(branches, b)

	for p.cur().Kind == token.KwElif {
		p.advance()
		b, err := parseCondBody()
		if err != nil {
			return 0, err
		}
		branches = append(branches, b)
	}

	if p.cur().Kind == token.KwElse {
		p.advance()
		if _, err := p.expect(token.Colon); err != nil {
			return 0, err
		}
		body, err := p.parsePipeChain()
		if err != nil {
			return 0, err
		}
		branches = append(branches, ast.Branch{Cond: nil, Body: body})
	}

	return p.alloc(tid, ast.If{Branches: branches}), nil
}

func (p *parser) parseWhile() (ast.NodeId, error) {
	tid := p.curTid()
	p.advance()
	if _, err := p.expect(token.LParen); err != nil {
		return 0, err
	}
	cond, err := p.parsePipeChain()
	if err != nil {
		return 0, err
	}
	if _, err := p.expect(token.RParen); err != nil {
		return 0, err
	}
	if _, err := p.expect(token.Colon); err != nil {
		return 0, err
	}
	body, err := p.parseBlockBody()
	if err != nil {
		return 0, err
	}
	return p.alloc(tid, ast.While{Cond: cond, Body: body}), nil
}

func (p *parser) parseUntil() (ast.NodeId, error) {
	tid := p.curTid()
	p.advance()
	if _, err := p.expect(token.LParen); err != nil {
		return 0, err
	}
	cond, err := p.parsePipeChain()
	if err != nil {
		return 0, err
	}
	if _, err := p.expect(token.RParen); err != nil {
		return 0, err
	}
	if _, err := p.expect(token.Colon); err != nil {
		return 0, err
	}
	body, err := p.parseBlockBody()
	if err != nil {
		return 0, err
	}
	return p.alloc(tid, ast.Until{Cond: cond, Body: body}), nil
}

func (p *parser) parseLoop() (ast.NodeId, error) {
	tid := p.curTid()
	p.advance()
	if _, err := p.expect(token.Colon); err != nil {
		return 0, err
	}
	body, err := p.parseBlockBody()
	if err != nil {
		return 0, err
	}
	return p.alloc(tid, ast.Loop{Body: body}), nil
}

func (p *parser) parseForeach() (ast.NodeId, error) {
	tid := p.curTid()
	p.advance()
	if _, err := p.expect(token.LParen); err != nil {
		return 0, err
	}
	nameTok, err := p.expect(token.Ident)
	if err != nil {
		return 0, err
	}
	if _, err := p.expect(token.Comma); err != nil {
		return 0, err
	}
	iter, err := p.parsePipeChain()
	if err != nil {
		return 0, err
	}
	if _, err := p.expect(token.RParen); err != nil {
		return 0, err
	}
	if _, err := p.expect(token.Colon); err != nil {
		return 0, err
	}
	body, err := p.parseBlockBody()
	if err != nil {
		return 0, err
	}
	return p.alloc(tid, ast.Foreach{Name: p.ident(nameTok.Val), Iter: iter, Body: body}), nil
}

func (p *parser) parseBreak() (ast.NodeId, error) {
	tid := p.curTid()
	p.advance()
	if p.cur().Kind == token.Semicolon || p.cur().Kind == token.Pipe || p.cur().Kind == token.EOF {
		return p.alloc(tid, ast.Break{}), nil
	}
	val, err := p.parsePipeChain()
	if err != nil {
		return 0, err
	}
	return p.alloc(tid, ast.Break{Value: &val}), nil
}

func (p *parser) parseInclude() (ast.NodeId, error) {
	tid := p.curTid()
	p.advance()
	t, err := p.expect(token.String)
	if err != nil {
		return 0, err
	}
	return p.alloc(tid, ast.Include{Path: t.Val}), nil
}

func (p *parser) parseImport() (ast.NodeId, error) {
	tid := p.curTid()
	p.advance()
	t, err := p.expect(token.String)
	if err != nil {
		return 0, err
	}
	return p.alloc(tid, ast.Import{Path: t.Val}), nil
}

func (p *parser) parseModule() (ast.NodeId, error) {
	tid := p.curTid()
	p.advance()
	nameTok, err := p.expect(token.Ident)
	if err != nil {
		return 0, err
	}
	if _, err := p.expect(token.Colon); err != nil {
		return 0, err
	}
	body, err := p.parseBlockBody()
	if err != nil {
		return 0, err
	}
	blk := p.tree.Node(body).Expr.(ast.Block)
	return p.alloc(tid, ast.ModuleDecl{Name: p.ident(nameTok.Val), Body: blk.Stmts}), nil
}

func (p *parser) parseQuote() (ast.NodeId, error) {
	tid := p.curTid()
	p.advance()
	inner, err := p.parsePipeChain()
	if err != nil {
		return 0, err
	}
	return p.alloc(tid, ast.Quote{Inner: inner}), nil
}

func (p *parser) parseUnquote() (ast.NodeId, error) {
	tid := p.curTid()
	p.advance()
	inner, err := p.parsePipeChain()
	if err != nil {
		return 0, err
	}
	return p.alloc(tid, ast.Unquote{Inner: inner}), nil
}

func (p *parser) parseTry() (ast.NodeId, error) {
	tid := p.curTid()
	p.advance()
	body, err := p.parsePipeChain()
	if err != nil {
		return 0, err
	}
	var catch *ast.NodeId
	if p.cur().Kind == token.KwCatch {
		p.advance()
		c, err := p.parsePipeChain()
		if err != nil {
			return 0, err
		}
		catch = &c
	}
	return p.alloc(tid, ast.Try{Body: body, Catch: catch}), nil
}

func (p *parser) parseMatch() (ast.NodeId, error) {
	tid := p.curTid()
	p.advance()
	if _, err := p.expect(token.LParen); err != nil {
		return 0, err
	}
	scrutinee, err := p.parsePipeChain()
	if err != nil {
		return 0, err
	}
	if _, err := p.expect(token.RParen); err != nil {
		return 0, err
	}
	if _, err := p.expect(token.Colon); err != nil {
		return 0, err
	}

	var arms []ast.MatchArm
	for p.cur().Kind != token.Semicolon && p.cur().Kind != token.EOF {
		pat, err := p.parsePattern()
		if err != nil {
			return 0, err
		}
		var guard *ast.NodeId
		if p.cur().Kind == token.KwIf {
			p.advance()
			if _, err := p.expect(token.LParen); err != nil {
				return 0, err
			}
			g, err := p.parsePipeChain()
			if err != nil {
				return 0, err
			}
			guard = &g
			if _, err := p.expect(token.RParen); err != nil {
				return 0, err
			}
		}
		if _, err := p.expectSymbolArrow(); err != nil {
			return 0, err
		}
		body, err := p.parsePipeChain()
		if err != nil {
			return 0, err
		}
		arms = append(arms, ast.MatchArm{Pattern: pat, Guard: guard, Body: body})
		if p.cur().Kind == token.Comma {
			p.advance()
		}
	}
	if _, err := p.expect(token.Semicolon); err != nil {
		return 0, err
	}
	return p.alloc(tid, ast.Match{Scrutinee: scrutinee, Arms: arms}), nil
}

// expectSymbolArrow consumes the `=>` arm separator, lexed as Assign
// followed immediately by Gt (no dedicated token kind for `=>`).
func (p *parser) expectSymbolArrow() (token.Token, error) {
	if _, err := p.expect(token.Assign); err != nil {
		return token.Token{}, err
	}
	return p.expect(token.Gt)
}

func (p *parser) parsePattern() (ast.Pattern, error) {
	switch p.cur().Kind {
	case token.Ident:
		if p.cur().Val == "_" {
			p.advance()
			return ast.Pattern{Kind: ast.PatWildcard}, nil
		}
		t := p.advance()
		return ast.Pattern{Kind: ast.PatIdent, Ident: p.ident(t.Val)}, nil
	case token.LBrack:
		p.advance()
		var elems []ast.Pattern
		for p.cur().Kind != token.RBrack {
			if p.cur().Kind == token.Ident && p.cur().Val == "rest" && p.peekKind(1) == token.RBrack {
				t := p.advance()
				elems = append(elems, ast.Pattern{Kind: ast.PatArrayRest, Ident: p.ident(t.Val)})
				break
			}
			e, err := p.parsePattern()
			if err != nil {
				return ast.Pattern{}, err
			}
			elems = append(elems, e)
			if p.cur().Kind == token.Comma {
				p.advance()
			}
		}
		if _, err := p.expect(token.RBrack); err != nil {
			return ast.Pattern{}, err
		}
		return ast.Pattern{Kind: ast.PatArray, Elems: elems}, nil
	case token.Number, token.String, token.KwTrue, token.KwFalse, token.KwNone, token.Symbol:
		lit, err := p.parseLiteral()
		if err != nil {
			return ast.Pattern{}, err
		}
		return ast.Pattern{Kind: ast.PatLiteral, Literal: lit}, nil
	default:
		return ast.Pattern{}, p.errf("unexpected token in pattern: %v", p.cur().Kind)
	}
}

func (p *parser) parseLiteral() (ast.Expr, error) {
	t := p.advance()
	switch t.Kind {
	case token.Number:
		var f float64
		fmt.Sscanf(t.Val, "%g", &f)
		return ast.Number{Value: f}, nil
	case token.String:
		return ast.String{Value: t.Val}, nil
	case token.KwTrue:
		return ast.Bool{Value: true}, nil
	case token.KwFalse:
		return ast.Bool{Value: false}, nil
	case token.KwNone:
		return ast.NoneLit{}, nil
	case token.Symbol:
		return ast.SymbolLit{Value: p.ident(t.Val)}, nil
	default:
		return nil, p.errf("not a literal token: %v", t.Kind)
	}
}

// --- operator-precedence expression core ---

func (p *parser) parseInfix() (ast.NodeId, error) { return p.parseOr() }

func (p *parser) parseOr() (ast.NodeId, error) {
	left, err := p.parseAnd()
	if err != nil {
		return 0, err
	}
	for p.cur().Kind == token.KwOr {
		tid := p.curTid()
		p.advance()
		right, err := p.parseAnd()
		if err != nil {
			return 0, err
		}
		left = p.alloc(tid, ast.Or{A: left, B: right})
	}
	return left, nil
}

func (p *parser) parseAnd() (ast.NodeId, error) {
	left, err := p.parseComparison()
	if err != nil {
		return 0, err
	}
	for p.cur().Kind == token.KwAnd {
		tid := p.curTid()
		p.advance()
		right, err := p.parseComparison()
		if err != nil {
			return 0, err
		}
		left = p.alloc(tid, ast.And{A: left, B: right})
	}
	return left, nil
}

var comparisonOps = map[token.Kind]string{
	token.Eq: "eq", token.Neq: "ne", token.Lt: "lt",
	token.Leq: "le", token.Gt: "gt", token.Geq: "ge",
}

func (p *parser) parseComparison() (ast.NodeId, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return 0, err
	}
	if name, ok := comparisonOps[p.cur().Kind]; ok {
		tid := p.curTid()
		p.advance()
		right, err := p.parseAdditive()
		if err != nil {
			return 0, err
		}
		return p.alloc(tid, ast.Call{Name: p.ident(name), Args: []ast.NodeId{left, right}}), nil
	}
	return left, nil
}

var additiveOps = map[token.Kind]string{token.Plus: "add", token.Minus: "sub"}
var multiplicativeOps = map[token.Kind]string{token.Star: "mul", token.Slash: "div"}

func (p *parser) parseAdditive() (ast.NodeId, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return 0, err
	}
	for {
		name, ok := additiveOps[p.cur().Kind]
		if !ok {
			return left, nil
		}
		tid := p.curTid()
		p.advance()
		right, err := p.parseMultiplicative()
		if err != nil {
			return 0, err
		}
		left = p.alloc(tid, ast.Call{Name: p.ident(name), Args: []ast.NodeId{left, right}})
	}
}

func (p *parser) parseMultiplicative() (ast.NodeId, error) {
	left, err := p.parseUnary()
	if err != nil {
		return 0, err
	}
	for {
		name, ok := multiplicativeOps[p.cur().Kind]
		if !ok {
			return left, nil
		}
		tid := p.curTid()
		p.advance()
		right, err := p.parseUnary()
		if err != nil {
			return 0, err
		}
		left = p.alloc(tid, ast.Call{Name: p.ident(name), Args: []ast.NodeId{left, right}})
	}
}

func (p *parser) parseUnary() (ast.NodeId, error) {
	if p.cur().Kind == token.Minus {
		tid := p.curTid()
		p.advance()
		e, err := p.parseUnary()
		if err != nil {
			return 0, err
		}
		return p.alloc(tid, ast.Call{Name: p.ident("neg"), Args: []ast.NodeId{e}}), nil
	}
	return p.parsePostfix()
}

// parsePostfix parses a primary followed by any chain of qualified-access
// dots, e.g. `mymodule.myfunc(1)` (spec.md §3.3 QualifiedAccess).
func (p *parser) parsePostfix() (ast.NodeId, error) {
	if p.cur().Kind == token.Ident && p.peekKind(1) == token.Dot {
		return p.parseQualifiedAccess()
	}
	return p.parsePrimary()
}

func (p *parser) parseQualifiedAccess() (ast.NodeId, error) {
	tid := p.curTid()
	var path []arena.Ident
	first := p.advance()
	path = append(path, p.ident(first.Val))
	for p.cur().Kind == token.Dot && p.peekKind(1) == token.Ident && p.peekKind(2) == token.Dot {
		p.advance()
		seg := p.advance()
		path = append(path, p.ident(seg.Val))
	}
	if _, err := p.expect(token.Dot); err != nil {
		return 0, err
	}
	tailTok, err := p.expect(token.Ident)
	if err != nil {
		return 0, err
	}
	if p.cur().Kind == token.LParen {
		call, err := p.parseCallArgs(tailTok.Val)
		if err != nil {
			return 0, err
		}
		return p.alloc(tid, ast.QualifiedAccess{Path: path, TargetKind: ast.AccessCall, Call: call}), nil
	}
	return p.alloc(tid, ast.QualifiedAccess{Path: path, TargetKind: ast.AccessIdent, Ident: p.ident(tailTok.Val)}), nil
}

// parseCallArgs parses `'(' args? ')' '?'?` given a call name already read,
// returning the ast.Call payload (not yet allocated) for embedding in
// either a plain Call node or a QualifiedAccess tail.
func (p *parser) parseCallArgs(name string) (ast.Call, error) {
	if _, err := p.expect(token.LParen); err != nil {
		return ast.Call{}, err
	}
	var args []ast.NodeId
	for p.cur().Kind != token.RParen {
		a, err := p.parsePipeChain()
		if err != nil {
			return ast.Call{}, err
		}
		args = append(args, a)
		if p.cur().Kind == token.Comma {
			p.advance()
		}
	}
	if _, err := p.expect(token.RParen); err != nil {
		return ast.Call{}, err
	}
	optional := false
	if p.cur().Kind == token.Question {
		p.advance()
		optional = true
	}
	return ast.Call{Name: p.ident(name), Args: args, Optional: optional}, nil
}

func (p *parser) parsePrimary() (ast.NodeId, error) {
	tid := p.curTid()
	t := p.cur()

	switch t.Kind {
	case token.Number, token.String, token.KwTrue, token.KwFalse, token.KwNone, token.Symbol:
		lit, err := p.parseLiteral()
		if err != nil {
			return 0, err
		}
		return p.alloc(tid, lit), nil
	case token.InterpString:
		p.advance()
		return p.parseInterpString(tid, t.Val)
	case token.Selector:
		p.advance()
		sel, err := selector.Parse(t.Val)
		if err != nil {
			return 0, p.errf("%v", err)
		}
		return p.alloc(tid, ast.SelectorExpr{Sel: sel}), nil
	case token.KwSelf:
		p.advance()
		return p.alloc(tid, ast.SelfExpr{}), nil
	case token.KwNodes:
		p.advance()
		return p.alloc(tid, ast.NodesExpr{}), nil
	case token.LParen:
		p.advance()
		inner, err := p.parsePipeChain()
		if err != nil {
			return 0, err
		}
		if _, err := p.expect(token.RParen); err != nil {
			return 0, err
		}
		paren := p.alloc(tid, ast.Paren{Inner: inner})
		if p.cur().Kind == token.LParen {
			return p.parseCallDynamic(tid, paren)
		}
		return paren, nil
	case token.LBrack:
		return p.parseArrayLit(tid)
	case token.KwFn:
		return p.parseFn(tid)
	case token.Ident:
		name := p.advance()
		if p.cur().Kind == token.LParen {
			call, err := p.parseCallArgs(name.Val)
			if err != nil {
				return 0, err
			}
			callID := p.alloc(tid, call)
			if p.cur().Kind == token.LParen {
				return p.parseCallDynamic(tid, callID)
			}
			return callID, nil
		}
		return p.alloc(tid, ast.IdentExpr{Name: p.ident(name.Val)}), nil
	default:
		return 0, p.errf("unexpected token %v (%q) in expression", t.Kind, t.Val)
	}
}

// parseArrayLit parses `'[' (pipe (',' pipe)*)? ']'` in expression position
// (spec.md §3.3's ArrayLit), distinct from parsePattern's array destructuring
// grammar even though both share the `[...]` bracketing.
func (p *parser) parseArrayLit(tid arena.ArenaId[token.Token]) (ast.NodeId, error) {
	p.advance() // '['
	var elems []ast.NodeId
	for p.cur().Kind != token.RBrack {
		e, err := p.parsePipeChain()
		if err != nil {
			return 0, err
		}
		elems = append(elems, e)
		if p.cur().Kind == token.Comma {
			p.advance()
		}
	}
	if _, err := p.expect(token.RBrack); err != nil {
		return 0, err
	}
	return p.alloc(tid, ast.ArrayLit{Elems: elems}), nil
}

// parseFn parses an anonymous function literal, `fn(params): body;`
// (spec.md §3.3's Fn) - the unnamed sibling of parseDef, built the same way
// minus the name binding.
func (p *parser) parseFn(tid arena.ArenaId[token.Token]) (ast.NodeId, error) {
	p.advance() // 'fn'
	params, err := p.parseParamList()
	if err != nil {
		return 0, err
	}
	if _, err := p.expect(token.Colon); err != nil {
		return 0, err
	}
	body, err := p.parseBlockBody()
	if err != nil {
		return 0, err
	}
	return p.alloc(tid, ast.Fn{Params: params, Body: body}), nil
}

// parseCallDynamic parses the `(args)` suffix of a dynamic call whose callee
// is an already-parsed expression, e.g. `(selectFn(x))(1, 2)` (spec.md
// §3.3's CallDynamic).
func (p *parser) parseCallDynamic(tid arena.ArenaId[token.Token], callee ast.NodeId) (ast.NodeId, error) {
	if _, err := p.expect(token.LParen); err != nil {
		return 0, err
	}
	var args []ast.NodeId
	for p.cur().Kind != token.RParen {
		a, err := p.parsePipeChain()
		if err != nil {
			return 0, err
		}
		args = append(args, a)
		if p.cur().Kind == token.Comma {
			p.advance()
		}
	}
	if _, err := p.expect(token.RParen); err != nil {
		return 0, err
	}
	optional := false
	if p.cur().Kind == token.Question {
		p.advance()
		optional = true
	}
	return p.alloc(tid, ast.CallDynamic{Callee: callee, Args: args, Optional: optional}), nil
}

// parseInterpString splits an InterpString token's raw text into
// ast.Segment values, recursively lexing+parsing each `{expr}` span as an
// independent pipe-chain (spec.md §4.1, §3.3 InterpolatedString).
func (p *parser) parseInterpString(tid arena.ArenaId[token.Token], raw string) (ast.NodeId, error) {
	var segs []ast.Segment
	i := 0
	for i < len(raw) {
		if raw[i] == '{' {
			depth := 1
			j := i + 1
			for j < len(raw) && depth > 0 {
				if raw[j] == '{' {
					depth++
				} else if raw[j] == '}' {
					depth--
				}
				if depth > 0 {
					j++
				}
			}
			exprText := raw[i+1 : j]
			i = j + 1

			switch exprText {
			case "self":
				segs = append(segs, ast.Segment{Kind: ast.SegSelf})
			default:
				if len(exprText) > 0 && exprText[0] == '$' {
					segs = append(segs, ast.Segment{Kind: ast.SegEnv, Text: exprText[1:]})
					continue
				}
				sub := ast.NewTree()
				prog, err := Parse(p.name, p.mid, exprText, sub)
				if err != nil || len(prog) == 0 {
					return 0, p.errf("invalid interpolation expression %q", exprText)
				}
				// splice the sub-tree's tokens/nodes into the shared tree so
				// the segment's NodeId resolves against p.tree.
				exprNode := p.spliceSubTree(sub, prog[len(prog)-1])
				segs = append(segs, ast.Segment{Kind: ast.SegExpr, Expr: exprNode})
			}
			continue
		}
		start := i
		for i < len(raw) && raw[i] != '{' {
			i++
		}
		segs = append(segs, ast.Segment{Kind: ast.SegText, Text: raw[start:i]})
	}
	return p.alloc(tid, ast.InterpolatedString{Segments: segs}), nil
}

// spliceSubTree copies every node/token reachable (by construction, the
// whole arena) of a scratch tree built for one interpolation expression
// into p.tree, returning root's id in the destination arena.
func (p *parser) spliceSubTree(sub *ast.Tree, root ast.NodeId) ast.NodeId {
	tokenRemap := make(map[arena.ArenaId[token.Token]]arena.ArenaId[token.Token])
	nodeRemap := make(map[ast.NodeId]ast.NodeId)

	var remapNode func(id ast.NodeId) ast.NodeId
	remapNode = func(id ast.NodeId) ast.NodeId {
		if nid, ok := nodeRemap[id]; ok {
			return nid
		}
		n := sub.Node(id)
		tid, ok := tokenRemap[n.TokenId]
		if !ok {
			tid = p.tree.Tokens.Alloc(sub.Token(n))
			tokenRemap[n.TokenId] = tid
		}
		newExpr := remapExpr(n.Expr, remapNode)
		nid := p.tree.Alloc(tid, newExpr)
		nodeRemap[id] = nid
		return nid
	}
	return remapNode(root)
}

// remapExpr rewrites every NodeId held inside e using remap, producing a
// copy of e suitable for the destination tree. Identifiers and other
// non-NodeId payloads are copied as-is (arena.Ident interning is
// process-wide text, not tree-local, so no remap is needed for it).
func remapExpr(e ast.Expr, remap func(ast.NodeId) ast.NodeId) ast.Expr {
	switch v := e.(type) {
	case ast.Call:
		args := make([]ast.NodeId, len(v.Args))
		for i, a := range v.Args {
			args[i] = remap(a)
		}
		return ast.Call{Name: v.Name, Args: args, Optional: v.Optional}
	case ast.CallDynamic:
		args := make([]ast.NodeId, len(v.Args))
		for i, a := range v.Args {
			args[i] = remap(a)
		}
		return ast.CallDynamic{Callee: remap(v.Callee), Args: args, Optional: v.Optional}
	case ast.Pipe:
		stages := make([]ast.NodeId, len(v.Stages))
		for i, s := range v.Stages {
			stages[i] = remap(s)
		}
		return ast.Pipe{Stages: stages}
	case ast.Paren:
		return ast.Paren{Inner: remap(v.Inner)}
	case ast.ArrayLit:
		elems := make([]ast.NodeId, len(v.Elems))
		for i, e := range v.Elems {
			elems[i] = remap(e)
		}
		return ast.ArrayLit{Elems: elems}
	case ast.IdentExpr, ast.SelfExpr, ast.NodesExpr, ast.Number, ast.String, ast.Bool,
		ast.SymbolLit, ast.NoneLit, ast.SelectorExpr, ast.Fn:
		return v
	default:
		// Other forms (let/if/while/...) cannot appear inside a `{...}`
		// interpolation expression per spec.md §4.2's primary production,
		// which only admits literal/selector/ident/call/paren/interp-string.
		return v
	}
}
