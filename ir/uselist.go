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

package ir

import "github.com/anf-ir/anf/internal/assert"

// Uses returns every (user, operandIndex) occurrence of n as an
// operand, in arbitrary order.
func (n *Node) Uses() []Use {
	var out []Use
	for e := n.uses; e != nil; e = e.next {
		out = append(out, Use{User: e.user, Index: e.idx})
	}
	return out
}

// Use names one occurrence of a node as an operand.
type Use struct {
	User  *Node
	Index int
}

// NumUses reports how many operand occurrences n has, counting a
// node used twice by the same user as two.
func (n *Node) NumUses() int {
	c := 0
	for e := n.uses; e != nil; e = e.next {
		c++
	}
	return c
}

// Replace points every current use of old at replacement, without
// eagerly rewriting old's former users: readers must call Resolved
// on any node they hold before trusting its operands or type. This
// keeps a bulk rewrite pass O(1) per replaced node instead of O(uses).
//
// Replace does not itself re-run folding on old's users; callers
// that want the simplification rules to see through the replacement
// should rebuild each affected user with Rebuild after resolving its
// operands.
func (m *Module) Replace(old, replacement *Node) {
	assert.That(old.tag != Ofn, "Replace: function nodes are rebound via Rebind, not Replace")
	assert.That(old != replacement, "Replace: a node cannot replace itself")
	old.rep = replacement
}
