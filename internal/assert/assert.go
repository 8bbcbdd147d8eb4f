// Copyright (C) 2022 Sneller, Inc.
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

// Package assert implements the core's contract-violation
// checks for invariant violations that indicate a programming error
// rather than bad input.
//
// These are never recoverable control flow; a violation means
// a client of the ir package broke its contract (bad operand
// count, mismatched types, out-of-range index, ...). They panic
// with a *Violation so a test harness can still recover() and
// assert on the message, but production code is not expected to.
package assert

import "fmt"

// Violation is the panic value raised by That on failure.
type Violation struct {
	Message string
}

func (v *Violation) Error() string { return v.Message }

// That panics with a *Violation if cond is false.
func That(cond bool, format string, args ...any) {
	if !cond {
		panic(&Violation{Message: fmt.Sprintf(format, args...)})
	}
}

// Unreachable panics unconditionally; use it for switch defaults
// over closed tag enumerations where every case should be handled.
func Unreachable(format string, args ...any) {
	panic(&Violation{Message: fmt.Sprintf(format, args...)})
}
