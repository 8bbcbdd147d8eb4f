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

import "testing"

// TestReplaceIsLazyUntilRebuild exercises the documented use-list
// replacement contract: Replace only redirects old's own replacement
// chain; a user built before the call keeps referencing old by
// pointer until something resolves and rebuilds it. Only after that
// rebuild does a reader holding the new node stop observing old at
// all.
func TestReplaceIsLazyUntilRebuild(t *testing.T) {
	m := NewModule()
	i32 := m.IntType(32)
	a := m.Param(m.Fn(i32, i32))
	b := m.Param(m.Fn(i32, i32))

	user := m.Add(a, m.Int(32, 1))
	if user.Operands()[0] != a {
		t.Fatalf("user's first operand = %v, want a", user.Operands()[0])
	}
	if n := a.NumUses(); n != 1 {
		t.Fatalf("a.NumUses() = %d, want 1", n)
	}

	m.Replace(a, b)

	if a.Resolved() != b {
		t.Fatalf("a.Resolved() = %v, want b", a.Resolved())
	}
	if user.Operands()[0] != a {
		t.Fatal("Replace must not eagerly rewrite an existing user's operand slot")
	}

	newOps := []*Node{user.Operands()[0].Resolved(), user.Operands()[1]}
	rebuilt := m.Rebuild(user, newOps)

	if rebuilt.Operands()[0] != b {
		t.Fatalf("rebuilt operand = %v, want b", rebuilt.Operands()[0])
	}
	for _, op := range rebuilt.Operands() {
		if op == a {
			t.Fatal("no operand of the rebuilt node may still point at the replaced node a")
		}
	}
}

func TestUsesTracksEachOccurrenceSeparately(t *testing.T) {
	m := NewModule()
	i32 := m.IntType(32)
	a := m.Param(m.Fn(i32, i32))

	user := m.Add(a, a)
	if n := a.NumUses(); n != 2 {
		t.Fatalf("a.NumUses() = %d, want 2 (used twice by the same node)", n)
	}
	uses := a.Uses()
	for _, u := range uses {
		if u.User != user {
			t.Fatalf("unexpected use owner %v", u.User)
		}
	}
}
