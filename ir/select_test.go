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

func TestSelectLiteralConditionFolds(t *testing.T) {
	m := NewModule()
	got := m.Select(m.Bool(true), m.Int(32, 32), m.Int(32, 64))
	if want := m.Int(32, 32); got != want {
		t.Fatalf("select(true, 32, 64) = %v, want %v", got, want)
	}
}

func TestSelectIdenticalBranchesFoldsRegardlessOfCondition(t *testing.T) {
	m := NewModule()
	cond := m.Undef(m.BoolType())
	v := m.Int(32, 32)
	got := m.Select(cond, v, v)
	if got != v {
		t.Fatalf("select(undef, 32, 32) = %v, want 32", got)
	}
}

func TestSelectUndefConditionFoldsToOnTrue(t *testing.T) {
	m := NewModule()
	cond := m.Undef(m.BoolType())
	a, b := m.Int(32, 32), m.Int(32, 64)
	got := m.Select(cond, a, b)
	if got != a {
		t.Fatalf("select(undef, 32, 64) = %v, want onTrue = %v", got, a)
	}
}

func TestSelectNotConditionSwapsBranches(t *testing.T) {
	m := NewModule()
	cond := m.Param(m.Fn(m.BoolType(), m.BoolType()))
	a, b := m.Int(32, 1), m.Int(32, 2)
	viaNot := m.Select(m.Not(cond), a, b)
	direct := m.Select(cond, b, a)
	if viaNot != direct {
		t.Fatalf("select(not(c),a,b) = %v, want select(c,b,a) = %v", viaNot, direct)
	}
}
