/*
 * mq
 *
 * Copyright 2024 mq contributors. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

// Package ast defines the mq abstract syntax tree (spec.md §3.3). Nodes are
// interned in an arena.Arena[Node] and referenced by NodeId so that constant
// propagation can make multiple sites share one literal node (a DAG, not a
// tree, per spec.md §9) without reference counting.
//
// Grounded on the teacher's parser.ASTNode (Name/Token/Children), here split
// into a Node{TokenId, Expr} pair where Expr is a closed Go interface union
// instead of ECAL's single flat struct with an untyped Children slice - the
// closed set of Expr variants matches spec.md §3.3's tagged union more
// directly than the teacher's one-node-shape-fits-all design.
package ast

import (
	"github.com/harehare/mq/arena"
	"github.com/harehare/mq/selector"
	"github.com/harehare/mq/token"
)

// NodeId is an arena index for a Node.
type NodeId = arena.ArenaId[Node]

// Node pairs an Expr payload with the token it originated from, so every
// AST node can point back at source for diagnostics (spec.md §3.3).
type Node struct {
	TokenId arena.ArenaId[token.Token]
	Expr    Expr
}

// Tree owns the arenas backing a parsed program: tokens, nodes and the
// identifier interner. One Tree is built per Engine.eval call (or per
// loaded module) and is immutable once parsing (and optimization) finish.
type Tree struct {
	Tokens *arena.Arena[token.Token]
	Nodes  *arena.Arena[Node]
	Idents *arena.Interner
}

// NewTree creates an empty Tree.
func NewTree() *Tree {
	return &Tree{
		Tokens: arena.New[token.Token](64),
		Nodes:  arena.New[Node](64),
		Idents: arena.NewInterner(),
	}
}

// Alloc interns expr bound to the token at tid and returns its id.
func (t *Tree) Alloc(tid arena.ArenaId[token.Token], expr Expr) NodeId {
	return t.Nodes.Alloc(Node{TokenId: tid, Expr: expr})
}

// Node dereferences id.
func (t *Tree) Node(id NodeId) Node { return t.Nodes.Get(id) }

// Token returns the token a node originated from.
func (t *Tree) Token(n Node) token.Token { return t.Tokens.Get(n.TokenId) }

// Expr is the tagged union of AST node payloads (spec.md §3.3). The marker
// method keeps the set closed to this package.
type Expr interface {
	exprNode()
}

// Program is a parsed top-level sequence of nodes - spec.md's
// `Program = Vec<Node>` projected onto the arena as a slice of ids.
type Program []NodeId

// --- Literals ---

type Number struct{ Value float64 }
type String struct{ Value string }
type Bool struct{ Value bool }
type SymbolLit struct{ Value arena.Ident }
type NoneLit struct{}

// ArrayLit is an expression-position `[e, e, ...]` literal (spec.md §3.3),
// evaluating each element against the same self/env as the literal itself
// and collecting the results into a value.Array.
type ArrayLit struct{ Elems []NodeId }

func (Number) exprNode()    {}
func (String) exprNode()    {}
func (Bool) exprNode()      {}
func (SymbolLit) exprNode() {}
func (NoneLit) exprNode()   {}
func (ArrayLit) exprNode()  {}

// --- Identifiers ---

type IdentExpr struct{ Name arena.Ident }
type SelfExpr struct{}
type NodesExpr struct{}

func (IdentExpr) exprNode() {}
func (SelfExpr) exprNode()  {}
func (NodesExpr) exprNode() {}

// --- Bindings ---

type Let struct {
	Name  arena.Ident
	Value NodeId
}
type Var struct {
	Name  arena.Ident
	Value NodeId
}
type Assign struct {
	Name  arena.Ident
	Value NodeId
}

func (Let) exprNode()    {}
func (Var) exprNode()    {}
func (Assign) exprNode() {}

// --- Control ---

// Branch is one `(cond?, body)` arm of an If. Cond == nil denotes the
// else-branch, which spec.md §3.3 requires to be last if present.
type Branch struct {
	Cond *NodeId
	Body NodeId
}

type If struct{ Branches []Branch }
type While struct {
	Cond NodeId
	Body NodeId
}
type Until struct {
	Cond NodeId
	Body NodeId
}
type Loop struct{ Body NodeId }
type Foreach struct {
	Name arena.Ident
	Iter NodeId
	Body NodeId
}
type Break struct{ Value *NodeId }
type Continue struct{}

func (If) exprNode()       {}
func (While) exprNode()    {}
func (Until) exprNode()    {}
func (Loop) exprNode()     {}
func (Foreach) exprNode()  {}
func (Break) exprNode()    {}
func (Continue) exprNode() {}

// --- Pattern matching ---

// PatternKind discriminates Pattern variants (spec.md §3.3).
type PatternKind int

const (
	PatLiteral PatternKind = iota
	PatIdent
	PatWildcard
	PatArray
	PatArrayRest
	PatDict
	PatType
)

// DictEntry is a (key, pattern) pair inside a PatDict pattern.
type DictEntry struct {
	Key     string
	Pattern Pattern
}

// Pattern is a match-arm pattern. Only the fields relevant to Kind are
// populated, mirroring the closed-union style of Expr above but kept as a
// plain struct since patterns never need their own NodeId identity.
type Pattern struct {
	Kind    PatternKind
	Literal Expr        // PatLiteral: Number/String/Bool/NoneLit/SymbolLit
	Ident   arena.Ident // PatIdent, PatType (type name)
	Elems   []Pattern   // PatArray, PatArrayRest (last element is the rest binding)
	Dict    []DictEntry // PatDict
}

// MatchArm is one `pattern [if guard] => body` arm.
type MatchArm struct {
	Pattern Pattern
	Guard   *NodeId
	Body    NodeId
}

type Match struct {
	Scrutinee NodeId
	Arms      []MatchArm
}

func (Match) exprNode() {}

// --- Functions ---

type Def struct {
	Name   arena.Ident
	Params []arena.Ident
	Body   NodeId
}
type Fn struct {
	Params []arena.Ident
	Body   NodeId
}
type Call struct {
	Name     arena.Ident
	Args     []NodeId
	Optional bool
}
type CallDynamic struct {
	Callee   NodeId
	Args     []NodeId
	Optional bool
}
type Macro struct {
	Name   arena.Ident
	Params []arena.Ident
	Body   NodeId
}

func (Def) exprNode()         {}
func (Fn) exprNode()          {}
func (Call) exprNode()        {}
func (CallDynamic) exprNode() {}
func (Macro) exprNode()       {}

// --- Logical / sequencing ---

type And struct{ A, B NodeId }
type Or struct{ A, B NodeId }
type Paren struct{ Inner NodeId }
type Try struct {
	Body  NodeId
	Catch *NodeId
}

// Block is a sequence of statements (the body of def/if/while/foreach/...).
type Block struct{ Stmts []NodeId }

// Pipe is `a | b | c`, flattened from the grammar's left-recursive
// `program := pipe ('|' pipe)*` into a single node for evaluation
// convenience (spec.md §4.2, §4.5).
type Pipe struct{ Stages []NodeId }

func (And) exprNode()   {}
func (Or) exprNode()    {}
func (Paren) exprNode() {}
func (Try) exprNode()   {}
func (Block) exprNode() {}
func (Pipe) exprNode()  {}

// --- Strings ---

// SegmentKind discriminates InterpolatedString segments.
type SegmentKind int

const (
	SegText SegmentKind = iota
	SegExpr
	SegEnv
	SegSelf
)

type Segment struct {
	Kind SegmentKind
	Text string // SegText literal text, SegEnv variable name
	Expr NodeId // SegExpr embedded expression
}

type InterpolatedString struct{ Segments []Segment }

func (InterpolatedString) exprNode() {}

// --- Document ---

type SelectorExpr struct{ Sel selector.Selector }

func (SelectorExpr) exprNode() {}

// --- Modules ---

type ModuleDecl struct {
	Name arena.Ident
	Body []NodeId
}
type Include struct{ Path string }
type Import struct{ Path string }

// AccessTarget discriminates QualifiedAccess's tail.
type AccessTargetKind int

const (
	AccessCall AccessTargetKind = iota
	AccessIdent
)

type QualifiedAccess struct {
	Path       []arena.Ident
	TargetKind AccessTargetKind
	Call       Call         // valid when TargetKind == AccessCall
	Ident      arena.Ident  // valid when TargetKind == AccessIdent
}

func (ModuleDecl) exprNode()      {}
func (Include) exprNode()         {}
func (Import) exprNode()          {}
func (QualifiedAccess) exprNode() {}

// --- Metaprogramming ---

type Quote struct{ Inner NodeId }
type Unquote struct{ Inner NodeId }

func (Quote) exprNode()   {}
func (Unquote) exprNode() {}
