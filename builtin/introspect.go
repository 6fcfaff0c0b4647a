/*
 * mq
 *
 * Copyright 2024 mq contributors. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

package builtin

import (
	"sort"

	"github.com/harehare/mq/value"
)

func init() {
	register(Spec{Name: "type", MinArity: 1, MaxArity: 1, Doc: "the runtime kind name of a value", Call: builtinType})
	register(Spec{Name: "env", MinArity: 0, MaxArity: 0, Doc: "lists every registered builtin name, each annotated with its deprecation status if any (SPEC_FULL.md's supplemented-feature item 7)", Call: builtinEnv})
}

func builtinType(_ Applier, args []value.Value) (value.Value, error) {
	return value.String(arg(args, 0).Kind.String()), nil
}

func builtinEnv(_ Applier, _ []value.Value) (value.Value, error) {
	names := Names()
	sort.Strings(names)
	out := make([]value.Value, len(names))
	for i, n := range names {
		spec, _ := Lookup(n)
		entry := n
		if spec.Deprecated != "" {
			entry = n + " (deprecated: " + spec.Deprecated + ")"
		}
		out[i] = value.String(entry)
	}
	return value.Array(out), nil
}
