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

package htable

import "testing"

func intHash(k int) uint64 {
	u := uint64(k)
	u ^= u >> 33
	u *= 0xff51afd7ed558ccd
	u ^= u >> 33
	return u
}

func intEq(a, b int) bool { return a == b }

func TestBasicInsertFindDelete(t *testing.T) {
	tbl := New[int, string](intHash, intEq)
	if _, ok := tbl.Find(1); ok {
		t.Fatal("empty table must not find anything")
	}
	if !tbl.Insert(1, "one") {
		t.Fatal("first insert of a fresh key must report true")
	}
	if tbl.Insert(1, "uno") {
		t.Fatal("inserting an existing key must report false and not overwrite")
	}
	if v, ok := tbl.Find(1); !ok || v != "one" {
		t.Fatalf("Find(1) = %q, %v, want \"one\", true", v, ok)
	}
	tbl.Set(1, "uno")
	if v, _ := tbl.Find(1); v != "uno" {
		t.Fatalf("Set must overwrite an existing key, got %q", v)
	}
	if !tbl.Delete(1) {
		t.Fatal("Delete must report true for a present key")
	}
	if _, ok := tbl.Find(1); ok {
		t.Fatal("deleted key must no longer be found")
	}
	if tbl.Delete(1) {
		t.Fatal("Delete on an absent key must report false")
	}
}

// TestStressInsertDeleteReinsert inserts a large, irregularly-strided
// key set, deletes the upper half (exercising backward-shift deletion
// across many probe chains), and reinserts the surviving half into a
// fresh table, checking that every survivor is still reachable in
// both tables and every deleted key is gone from the first.
func TestStressInsertDeleteReinsert(t *testing.T) {
	const n = 4000
	tbl := New[int, int](intHash, intEq)

	keys := make([]int, 0, n)
	k := 0
	for i := 0; i < n; i++ {
		k += 37 + (i % 13)
		keys = append(keys, k)
		if !tbl.Insert(k, k) {
			t.Fatalf("insert of fresh key %d reported false", k)
		}
	}
	if got := tbl.Len(); got != n {
		t.Fatalf("table Len() = %d, want %d", got, n)
	}

	survivors := keys[:n/2]
	removed := keys[n/2:]

	for _, key := range removed {
		if !tbl.Delete(key) {
			t.Fatalf("delete of present key %d reported false", key)
		}
	}
	if got := tbl.Len(); got != n/2 {
		t.Fatalf("table Len() after deletion = %d, want %d", got, n/2)
	}

	for _, key := range survivors {
		if _, ok := tbl.Find(key); !ok {
			t.Fatalf("survivor key %d missing after deletion pass", key)
		}
	}
	for _, key := range removed {
		if _, ok := tbl.Find(key); ok {
			t.Fatalf("deleted key %d still found", key)
		}
	}

	tbl2 := New[int, int](intHash, intEq)
	for _, key := range survivors {
		tbl2.Insert(key, key)
	}
	if got := tbl2.Len(); got != n/2 {
		t.Fatalf("reinsert table Len() = %d, want %d", got, n/2)
	}

	foundIn1, foundIn2 := 0, 0
	for _, key := range survivors {
		if _, ok := tbl.Find(key); ok {
			foundIn1++
		}
		if _, ok := tbl2.Find(key); ok {
			foundIn2++
		}
	}
	if foundIn1 != n/2 {
		t.Fatalf("found %d/%d survivors in original table, want %d", foundIn1, n/2, n/2)
	}
	if foundIn2 != n/2 {
		t.Fatalf("found %d/%d survivors in reinsertion table, want %d", foundIn2, n/2, n/2)
	}
}
