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

import "github.com/harehare/mq/value"

// breakSignal/continueSignal are carried through the error return channel
// to unwind out of the enclosing loop body, the same non-local-exit
// technique as Go's own break/continue but expressed at this package's
// error-returning evalNode boundary instead of a native control construct.
// A break/continue reaching Run without an enclosing loop is a bug in the
// parser (it should have rejected the program), so these are not wrapped
// as mqerr sentinels here - mqerr.ErrBreakOutsideLoop/ErrContinueOutsideLoop
// exist for a parser-level check, not this runtime path.
type breakSignal struct{ value value.Value }
type continueSignal struct{}

func (breakSignal) Error() string    { return "break" }
func (continueSignal) Error() string { return "continue" }

func asBreak(err error) (breakSignal, bool) {
	b, ok := err.(breakSignal)
	return b, ok
}

func isContinue(err error) bool {
	_, ok := err.(continueSignal)
	return ok
}

func isControlSignal(err error) bool {
	switch err.(type) {
	case breakSignal, continueSignal:
		return true
	}
	return false
}
