/*
 * mq
 *
 * Copyright 2024 mq contributors. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

package arena

// Ident is an interned symbol: equal by content, hashed cheaply via a plain
// Go string-keyed map per spec.md §3.2. Two Idents with the same underlying
// text always compare == because Interner hands out the same value for the
// same text.
type Ident struct {
	name string
}

// String returns the identifier's text.
func (id Ident) String() string { return id.name }

// Interner deduplicates identifier text. The zero value is not usable; use
// NewInterner.
type Interner struct {
	table map[string]Ident
}

// NewInterner creates an empty interner.
func NewInterner() *Interner {
	return &Interner{table: make(map[string]Ident)}
}

// Intern returns the canonical Ident for s, allocating one on first use.
func (in *Interner) Intern(s string) Ident {
	if id, ok := in.table[s]; ok {
		return id
	}
	id := Ident{name: s}
	in.table[s] = id
	return id
}
