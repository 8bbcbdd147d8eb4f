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

func TestTypeInterning(t *testing.T) {
	m := NewModule()
	if m.BoolType() != m.BoolType() {
		t.Fatal("BoolType not stable under repeated calls")
	}
	if m.IntType(32) != m.IntType(32) {
		t.Fatal("IntType(32) not stable")
	}
	if m.IntType(32) == m.UintType(32) {
		t.Fatal("IntType(32) and UintType(32) must be distinct")
	}
	a := m.FnType(m.IntType(32), m.BoolType())
	b := m.FnType(m.IntType(32), m.BoolType())
	if a != b {
		t.Fatal("equal fn types must share one pointer")
	}
	c := m.FnType(m.IntType(64), m.BoolType())
	if a == c {
		t.Fatal("fn types with different domains must be distinct")
	}
}

func TestTupleTypeCollapse(t *testing.T) {
	m := NewModule()
	i32 := m.IntType(32)
	if m.TupleType(i32) != i32 {
		t.Fatal("single-element tuple type must collapse to its element")
	}
	if m.TupleType() != m.TupleType() {
		t.Fatal("unit type must be a stable singleton")
	}
}

func TestNodeInterning(t *testing.T) {
	m := NewModule()
	x := m.Int(32, 7)
	y := m.Int(32, 7)
	if x != y {
		t.Fatal("equal literals must intern to the same node")
	}
	if m.Int(8, 7) == m.Uint(8, 7) {
		t.Fatal("i8(7) and u8(7) must be distinct nodes")
	}
	if m.Int(8, 7) == m.Int(16, 7) {
		t.Fatal("iN(k) and iM(k) must be distinct for N != M")
	}
}

func TestFloatLiteralBitIdentity(t *testing.T) {
	m := NewModule()
	if m.F32(0.0, 0) != m.F32(0.0, 0) {
		t.Fatal("f32(0.0) must intern to a single node")
	}
	negZero := m.F32(negZeroF32(), 0)
	if m.F32(0.0, 0) == negZero {
		t.Fatal("f32(0.0) and f32(-0.0) must be distinct nodes (bit-pattern equality, not IEEE equality)")
	}
}

func negZeroF32() float32 {
	var z float32
	return -z
}

func TestTupleSingletonCollapse(t *testing.T) {
	m := NewModule()
	x := m.Int(32, 1)
	if m.Tuple(x) != x {
		t.Fatal("tuple([x]) must collapse to x")
	}
}

func TestFnTypeDistinctness(t *testing.T) {
	m := NewModule()
	f1 := m.Fn(m.IntType(32), m.IntType(32))
	f2 := m.Fn(m.IntType(32), m.IntType(32))
	if f1 == f2 {
		t.Fatal("function nodes are never interned, even with identical types")
	}
}
