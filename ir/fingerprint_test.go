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

// TestFingerprintStableAcrossRepeatedCalls checks that Fingerprint is
// a pure function of the module's current state: calling it twice in
// a row without mutating the module in between must return identical
// digests.
func TestFingerprintStableAcrossRepeatedCalls(t *testing.T) {
	m := NewModule()
	i32 := m.IntType(32)
	f := m.Fn(i32, i32)
	p := m.Param(f)
	m.Rebind(f, 0, m.Add(p, m.Int(32, 1)))
	m.Rebind(f, 1, m.Bool(true))

	first := m.Fingerprint()
	second := m.Fingerprint()
	if first != second {
		t.Fatalf("Fingerprint() changed across repeated calls on an unmodified module: %x vs %x", first, second)
	}
}

// TestFingerprintSensitiveToLiteralChange checks that changing a
// literal operand changes the digest: the literal-folding branch must
// actually run even though Schedule (which Fingerprint's own walk is
// deliberately independent of) never emits literal nodes.
func TestFingerprintSensitiveToLiteralChange(t *testing.T) {
	m := NewModule()
	i32 := m.IntType(32)

	f1 := m.Fn(i32, i32)
	p1 := m.Param(f1)
	m.Rebind(f1, 0, m.Add(p1, m.Int(32, 1)))
	m.Rebind(f1, 1, m.Bool(true))
	fp1 := m.Fingerprint()

	m.Rebind(f1, 0, m.Add(p1, m.Int(32, 2)))
	fp2 := m.Fingerprint()

	if fp1 == fp2 {
		t.Fatal("Fingerprint() did not change when a literal operand changed")
	}
}

// TestFingerprintChangesWhenFunctionAdded checks that adding a second
// function to the module changes the digest.
func TestFingerprintChangesWhenFunctionAdded(t *testing.T) {
	m := NewModule()
	i32 := m.IntType(32)

	f1 := m.Fn(i32, i32)
	p1 := m.Param(f1)
	m.Rebind(f1, 0, m.Add(p1, m.Int(32, 1)))
	m.Rebind(f1, 1, m.Bool(true))
	before := m.Fingerprint()

	f2 := m.Fn(i32, i32)
	p2 := m.Param(f2)
	m.Rebind(f2, 0, m.Add(p2, m.Int(32, 1)))
	m.Rebind(f2, 1, m.Bool(true))
	after := m.Fingerprint()

	if before == after {
		t.Fatal("Fingerprint() must change once a second function is added to the module")
	}
}

// TestFingerprintIndependentOfArgumentConstructionOrder checks that
// two functions whose bodies are built by passing a commutative add's
// operands in opposite order still canonicalize to the same operand
// order (canonOrder sorts literals to the right regardless of
// call-site order), so their fingerprint walks visit nodes of the
// same opcode and type in the same sequence.
func TestFingerprintIndependentOfArgumentConstructionOrder(t *testing.T) {
	m := NewModule()
	i32 := m.IntType(32)

	f1 := m.Fn(i32, i32)
	p1 := m.Param(f1)
	sum1 := m.Add(m.Int(32, 1), p1) // literal passed first
	m.Rebind(f1, 0, sum1)
	m.Rebind(f1, 1, m.Bool(true))

	f2 := m.Fn(i32, i32)
	p2 := m.Param(f2)
	sum2 := m.Add(p2, m.Int(32, 1)) // param passed first
	m.Rebind(f2, 0, sum2)
	m.Rebind(f2, 1, m.Bool(true))

	order1 := fingerprintOrder(f1)
	order2 := fingerprintOrder(f2)
	if len(order1) != len(order2) {
		t.Fatalf("fingerprintOrder lengths differ: %d vs %d", len(order1), len(order2))
	}
	for i := range order1 {
		if order1[i].tag != order2[i].tag || order1[i].typ != order2[i].typ {
			t.Fatalf("fingerprintOrder[%d] shape differs: %s/%s vs %s/%s",
				i, order1[i].tag, order1[i].typ, order2[i].tag, order2[i].typ)
		}
	}
}
