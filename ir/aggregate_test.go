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

func TestAggregateRoundTrip(t *testing.T) {
	m := NewModule()
	a, b, c := m.Int(32, 1), m.Int(32, 2), m.Int(32, 3)
	tup := m.Tuple(a, b, c)

	for i, want := range []*Node{a, b, c} {
		if got := m.Extract(tup, i); got != want {
			t.Fatalf("extract(tuple(a,b,c), %d) = %v, want %v", i, got, want)
		}
	}

	v := m.Int(32, 99)
	for i := range []*Node{a, b, c} {
		updated := m.Insert(tup, i, v)
		if got := m.Extract(updated, i); got != v {
			t.Fatalf("extract(insert(t, %d, v), %d) = %v, want %v", i, i, got, v)
		}
	}
}

func TestTupleOfExtractsCollapses(t *testing.T) {
	m := NewModule()
	i32 := m.IntType(32)
	tupT := m.TupleType(i32, i32)
	agg := m.Param(m.Fn(tupT, tupT))
	e0 := m.Extract(agg, 0)
	e1 := m.Extract(agg, 1)
	rebuilt := m.Tuple(e0, e1)
	if rebuilt != agg {
		t.Fatalf("tuple(extract(agg,0), extract(agg,1)) must collapse back to agg")
	}
}
