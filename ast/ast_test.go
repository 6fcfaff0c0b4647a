/*
 * mq
 *
 * Copyright 2024 mq contributors. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

package ast

import (
	"testing"

	"github.com/harehare/mq/token"
)

func TestTreeAllocAndNode(t *testing.T) {
	tree := NewTree()
	tid := tree.Tokens.Alloc(token.Token{Kind: token.Number, Val: "1"})
	id := tree.Alloc(tid, Number{Value: 1})

	n := tree.Node(id)
	num, ok := n.Expr.(Number)
	if !ok || num.Value != 1 {
		t.Fatalf("Node(id).Expr = %#v, want Number{1}", n.Expr)
	}
	if tree.Token(n).Val != "1" {
		t.Fatalf("Token(n).Val = %q, want \"1\"", tree.Token(n).Val)
	}
}

func TestTreeSharesInternedIdentifiers(t *testing.T) {
	tree := NewTree()
	a := tree.Idents.Intern("foo")
	b := tree.Idents.Intern("foo")
	if a != b {
		t.Fatalf("Idents.Intern(\"foo\") twice produced unequal Idents")
	}
}

func TestProgramIsASliceOfNodeIds(t *testing.T) {
	tree := NewTree()
	tid := tree.Tokens.Alloc(token.Token{})
	id1 := tree.Alloc(tid, NoneLit{})
	id2 := tree.Alloc(tid, Bool{Value: true})

	prog := Program{id1, id2}
	if len(prog) != 2 {
		t.Fatalf("len(prog) = %d, want 2", len(prog))
	}
	if _, ok := tree.Node(prog[1]).Expr.(Bool); !ok {
		t.Fatalf("prog[1] = %#v, want Bool", tree.Node(prog[1]).Expr)
	}
}
