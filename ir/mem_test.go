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

// TestStoreLoadForwarding checks that a load immediately following a
// store to the same pointer on the same memory chain folds to the
// stored value without ever building an Oload node.
func TestStoreLoadForwarding(t *testing.T) {
	m := NewModule()
	i32 := m.IntType(32)
	memT := m.MemType()

	root := m.Param(m.Fn(memT, memT))
	allocRes := m.Alloc(root, i32)
	mem1 := m.Extract(allocRes, 0)
	ptr := m.Extract(allocRes, 1)

	v := m.Int(32, 42)
	mem2 := m.Store(mem1, ptr, v)

	got := m.Load(mem2, ptr)
	want := m.Tuple(mem2, v)
	if got != want {
		t.Fatalf("load(store(mem,ptr,v), ptr) = %v, want tuple(mem, v) = %v", got, want)
	}
}

// TestStoreToStoreElidesDeadPredecessor checks that storing twice to
// the same pointer on the same chain prunes the first store out of
// the chain: the second Store's memory predecessor becomes the state
// before the dead first store, not the dead store node itself.
func TestStoreToStoreElidesDeadPredecessor(t *testing.T) {
	m := NewModule()
	i32 := m.IntType(32)
	memT := m.MemType()

	root := m.Param(m.Fn(memT, memT))
	allocRes := m.Alloc(root, i32)
	mem1 := m.Extract(allocRes, 0)
	ptr := m.Extract(allocRes, 1)

	mem2 := m.Store(mem1, ptr, m.Int(32, 1))
	mem3 := m.Store(mem2, ptr, m.Int(32, 2))

	direct := m.Store(mem1, ptr, m.Int(32, 2))
	if mem3 != direct {
		t.Fatalf("store(store(mem,ptr,1),ptr,2) = %v, want store(mem,ptr,2) = %v", mem3, direct)
	}
	if r := mem3.Resolved(); r.ops[0] != mem1 {
		t.Fatalf("second store's predecessor = %v, want the pre-first-store state", r.ops[0])
	}
}

// TestUnitStoreAndLoadFold checks the two unit-type folds: storing a
// unit value is a no-op, and loading through a unit-typed pointer
// yields the unit value without ever building an Oload node.
func TestUnitStoreAndLoadFold(t *testing.T) {
	m := NewModule()
	unitT := m.TupleType()
	memT := m.MemType()

	root := m.Param(m.Fn(memT, memT))
	allocRes := m.Alloc(root, unitT)
	mem1 := m.Extract(allocRes, 0)
	ptr := m.Extract(allocRes, 1)

	mem2 := m.Store(mem1, ptr, m.Unit())
	if mem2 != mem1 {
		t.Fatalf("store(mem,ptr,unit()) = %v, want mem unchanged = %v", mem2, mem1)
	}

	got := m.Load(mem1, ptr)
	want := m.Tuple(mem1, m.Unit())
	if got != want {
		t.Fatalf("load(mem,ptr) of unit type = %v, want tuple(mem, unit()) = %v", got, want)
	}
}
