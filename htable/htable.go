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

// Package htable implements a generic open-addressed Robin-Hood hash
// table. It is the single hashing primitive the rest of this module
// is built on: interning sets for types and nodes, use-list side
// tables, and rewrite-pass caches all go through it.
package htable

// Hash64 is a 64-bit hash function over a key of type K.
type Hash64[K any] func(K) uint64

// Eq is an equality predicate over K.
type Eq[K any] func(a, b K) bool

const occupiedBit = uint64(1) << 63

// loadFactorNum/loadFactorDen bound the maximum occupancy (80%)
// before a rehash is triggered.
const (
	loadFactorNum = 4
	loadFactorDen = 5
)

type entry[K, V any] struct {
	h   uint64 // high bit set iff slot is occupied; low 63 bits are the key's hash
	key K
	val V
}

func (e *entry[K, V]) occupied() bool { return e.h&occupiedBit != 0 }

// Table is a Robin-Hood open-addressed hash table mapping keys of
// type K to values of type V. The zero value is not usable; use New.
type Table[K, V any] struct {
	slots []entry[K, V]
	hash  Hash64[K]
	eq    Eq[K]
	count int
}

// New creates an empty Table using the given hash and equality
// functions. hash need not avoid the high bit; Table masks it off
// internally to make room for the occupancy marker.
func New[K, V any](hash Hash64[K], eq Eq[K]) *Table[K, V] {
	return &Table[K, V]{hash: hash, eq: eq}
}

// Len returns the number of entries currently stored.
func (t *Table[K, V]) Len() int { return t.count }

func storedHash(raw uint64) uint64 {
	return (raw &^ occupiedBit) | occupiedBit
}

// dibAt recomputes the probe distance (distance-from-ideal-bucket)
// of whatever is currently stored at idx, using its own stored hash.
func dibAt[K, V any](slots []entry[K, V], idx int) int {
	return dib[K, V](slots, idx, slots[idx].h)
}

func dib[K, V any](slots []entry[K, V], idx int, h uint64) int {
	n := len(slots)
	ideal := int((h &^ occupiedBit) % uint64(n))
	d := idx - ideal
	if d < 0 {
		d += n
	}
	return d
}

func (t *Table[K, V]) grow() {
	newCap := 16
	if len(t.slots) > 0 {
		newCap = len(t.slots) * 2
	}
	old := t.slots
	t.slots = make([]entry[K, V], newCap)
	t.count = 0
	for i := range old {
		if old[i].occupied() {
			t.insertRaw(old[i].h, old[i].key, old[i].val)
		}
	}
}

func (t *Table[K, V]) maybeGrow() {
	if len(t.slots) == 0 {
		t.slots = make([]entry[K, V], 16)
		return
	}
	if t.count*loadFactorDen >= len(t.slots)*loadFactorNum {
		t.grow()
	}
}

// insertRaw performs the Robin-Hood insertion loop for an entry
// whose hash has already been computed and tagged with the
// occupancy bit. It does not check for an existing equal key; use
// it only from grow() and from Insert after a miss has already been
// established.
func (t *Table[K, V]) insertRaw(h uint64, key K, val V) {
	n := len(t.slots)
	idx := int((h &^ occupiedBit) % uint64(n))
	curH, curKey, curVal := h, key, val
	curDib := 0
	for {
		s := &t.slots[idx]
		if !s.occupied() {
			s.h, s.key, s.val = curH, curKey, curVal
			t.count++
			return
		}
		existingDib := dibAt(t.slots, idx)
		if existingDib < curDib {
			// Robin Hood: the richer entry (smaller dib) yields its
			// seat to the poorer one.
			s.h, curH = curH, s.h
			s.key, curKey = curKey, s.key
			s.val, curVal = curVal, s.val
			curDib = existingDib
		}
		idx++
		if idx == n {
			idx = 0
		}
		curDib++
	}
}

func (t *Table[K, V]) find(key K) (idx int, ok bool) {
	if len(t.slots) == 0 {
		return 0, false
	}
	h := storedHash(t.hash(key))
	n := len(t.slots)
	idx = int((h &^ occupiedBit) % uint64(n))
	d := 0
	for {
		s := &t.slots[idx]
		if !s.occupied() {
			return 0, false
		}
		if d > dibAt(t.slots, idx) {
			// Robin Hood invariant: dib only increases until a gap;
			// if we've out-probed the occupant's own dib, key is absent.
			return 0, false
		}
		if s.h == h && t.eq(s.key, key) {
			return idx, true
		}
		idx++
		if idx == n {
			idx = 0
		}
		d++
	}
}

// Find looks up key and returns (value, true) if present.
func (t *Table[K, V]) Find(key K) (V, bool) {
	idx, ok := t.find(key)
	if !ok {
		var zero V
		return zero, false
	}
	return t.slots[idx].val, true
}

// Insert stores (key, val) if key is not already present and
// reports whether an insertion happened. If key is already present,
// its value is left untouched (interning tables rely on this: the
// first-inserted node/type wins).
func (t *Table[K, V]) Insert(key K, val V) (inserted bool) {
	if _, ok := t.find(key); ok {
		return false
	}
	t.maybeGrow()
	t.insertRaw(storedHash(t.hash(key)), key, val)
	return true
}

// Set stores (key, val) unconditionally, overwriting any existing
// value for an equal key.
func (t *Table[K, V]) Set(key K, val V) {
	if idx, ok := t.find(key); ok {
		t.slots[idx].val = val
		return
	}
	t.maybeGrow()
	t.insertRaw(storedHash(t.hash(key)), key, val)
}

// Delete removes key if present, using backward-shift deletion:
// elements following the removed slot are shifted back until an
// empty slot or a slot with dib 0 is reached, which preserves the
// Robin-Hood probe-distance invariant along the chain.
func (t *Table[K, V]) Delete(key K) bool {
	idx, ok := t.find(key)
	if !ok {
		return false
	}
	n := len(t.slots)
	for {
		next := idx + 1
		if next == n {
			next = 0
		}
		if !t.slots[next].occupied() || dibAt(t.slots, next) == 0 {
			t.slots[idx] = entry[K, V]{}
			t.count--
			return true
		}
		t.slots[idx] = t.slots[next]
		idx = next
	}
}

// Range calls f for every stored (key, value) pair. Iteration order
// is unspecified and callers must not rely on it.
func (t *Table[K, V]) Range(f func(key K, val V) bool) {
	for i := range t.slots {
		if t.slots[i].occupied() {
			if !f(t.slots[i].key, t.slots[i].val) {
				return
			}
		}
	}
}
