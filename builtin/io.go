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
	"fmt"
	"os"

	"github.com/harehare/mq/internal/mqerr"
	"github.com/harehare/mq/value"
)

func init() {
	register(Spec{Name: "read_file", MinArity: 1, MaxArity: 1, Doc: "reads a file's contents as a string (spec.md §4.6: the only blocking-on-I/O builtin besides the debugger handler)", Call: builtinReadFile})
}

func builtinReadFile(_ Applier, args []value.Value) (value.Value, error) {
	path, err := strArg("read_file", args, 0)
	if err != nil {
		return value.None, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return value.None, fmt.Errorf("%w: read_file: %s: %v", mqerr.ErrIO, path, err)
	}
	return value.String(string(data)), nil
}
