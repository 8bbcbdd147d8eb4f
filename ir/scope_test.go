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

// TestNestedFunctionFreeVars builds a two-level nesting,
// outer(x) = inner where inner(y) = x, and checks that free-variable
// discovery correctly attributes x to inner (it's bound one level up)
// while finding outer closed (it owns x directly and never reaches
// across its own boundary).
func TestNestedFunctionFreeVars(t *testing.T) {
	m := NewModule()
	i32 := m.IntType(32)

	outer := m.Fn(i32, m.FnType(i32, i32))
	x := m.Param(outer)

	inner := m.Fn(i32, i32)
	_ = m.Param(inner) // y, unused in the body but present in inner's domain

	m.Rebind(inner, 0, x)
	m.Rebind(inner, 1, m.Bool(true))
	m.Rebind(outer, 0, inner)
	m.Rebind(outer, 1, m.Bool(true))

	fv := m.FreeVars(inner)
	if len(fv) != 1 || fv[0] != x {
		t.Fatalf("FreeVars(inner) = %v, want [param(outer)]", fv)
	}
	if m.Closed(inner) {
		t.Fatal("inner must not be closed: it references outer's param")
	}

	if fv := m.FreeVars(outer); len(fv) != 0 {
		t.Fatalf("FreeVars(outer) = %v, want none", fv)
	}
	if !m.Closed(outer) {
		t.Fatal("outer must be closed: it owns x and never escapes its own boundary")
	}
}

// TestScheduleOmitsLiteralsParamsAndFuncs checks that none of the
// three non-computation node kinds — literals, parameters, and
// function nodes — are ever emitted into a schedule, even though
// they're freely reachable through operand edges: only the arithmetic
// actually needs a backend to emit an instruction for it.
func TestScheduleOmitsLiteralsParamsAndFuncs(t *testing.T) {
	m := NewModule()
	i32 := m.IntType(32)

	f := m.Fn(i32, i32)
	p := m.Param(f)
	sum := m.Add(p, m.Int(32, 1))
	doubled := m.Mul(sum, m.Int(32, 2))
	m.Rebind(f, 0, doubled)
	m.Rebind(f, 1, m.Bool(true))

	order := m.Schedule(f)
	if len(order) != 2 || order[0] != sum || order[1] != doubled {
		t.Fatalf("Schedule(f) = %v, want [sum, doubled]", order)
	}
	for _, n := range order {
		if n.tag == Olit || n.tag == Oparam || n.tag == Ofn {
			t.Fatalf("Schedule emitted a %s node, want only computation nodes", n.tag)
		}
	}
}

// TestScheduleStopsAtNestedFunctionBoundary checks that scheduling a
// function does not descend into a nested function's own operand
// list (a param's only operand is its owning function, which belongs
// to a separate schedule) while still scheduling the node that
// applies the nested function.
func TestScheduleStopsAtNestedFunctionBoundary(t *testing.T) {
	m := NewModule()
	i32 := m.IntType(32)

	outer := m.Fn(i32, i32)
	x := m.Param(outer)

	inner := m.Fn(i32, i32)
	y := m.Param(inner)
	m.Rebind(inner, 0, y)
	m.Rebind(inner, 1, m.Bool(true))

	applied := m.App(inner, x)
	m.Rebind(outer, 0, applied)
	m.Rebind(outer, 1, m.Bool(true))

	order := m.Schedule(outer)
	if len(order) != 1 || order[0] != applied {
		t.Fatalf("Schedule(outer) = %v, want [applied]", order)
	}
	for _, n := range order {
		if n == inner || n == x || n == y {
			t.Fatal("Schedule(outer) must not emit the nested function or its params")
		}
	}
}
