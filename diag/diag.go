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

// Package diag collects and reports compile errors associated with a
// source position, the way the lexer, parser, and checker surface
// problems in the source text they're processing.
package diag

import (
	"fmt"
	"io"
)

// Position is a source location: a file name plus 1-based line and
// column.
type Position struct {
	File string
	Line int
	Col  int
}

func (p Position) String() string {
	if p.File == "" {
		return fmt.Sprintf("%d:%d", p.Line, p.Col)
	}
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Col)
}

// Error is a single diagnostic tied to a source position.
type Error struct {
	At  Position
	Err string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.At, e.Err)
}

// WriteTo writes a plaintext representation of the error to dst.
func (e *Error) WriteTo(dst io.Writer) (int64, error) {
	n, err := fmt.Fprintf(dst, "%s: %s\n", e.At, e.Err)
	return int64(n), err
}

// Errorf builds an Error at position at with a formatted message.
func Errorf(at Position, f string, args ...any) *Error {
	return &Error{At: at, Err: fmt.Sprintf(f, args...)}
}

// List accumulates diagnostics produced while processing one
// compilation unit. Processing continues past the first error so
// that a single run can report as many problems as possible, the
// way the checker's walk keeps going after a bad node instead of
// aborting the whole tree.
type List struct {
	errs []*Error
}

// Add appends err to the list.
func (l *List) Add(err *Error) { l.errs = append(l.errs, err) }

// Errorf formats and appends a new Error at position at.
func (l *List) Errorf(at Position, f string, args ...any) {
	l.Add(Errorf(at, f, args...))
}

// Len reports how many diagnostics have been collected.
func (l *List) Len() int { return len(l.errs) }

// Errs returns the accumulated diagnostics in the order they were
// added.
func (l *List) Errs() []*Error { return l.errs }

// Err returns nil if the list is empty, the sole error if there is
// exactly one, or a combined error naming the first and the count of
// the rest — mirroring how a compiler summarizes a multi-error batch
// on a single exit-status line.
func (l *List) Err() error {
	switch len(l.errs) {
	case 0:
		return nil
	case 1:
		return l.errs[0]
	default:
		return fmt.Errorf("%w (and %d other errors)", l.errs[0], len(l.errs)-1)
	}
}

// WriteTo writes every accumulated diagnostic to dst, one per line.
func (l *List) WriteTo(dst io.Writer) (int64, error) {
	var total int64
	for _, e := range l.errs {
		n, err := e.WriteTo(dst)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}
