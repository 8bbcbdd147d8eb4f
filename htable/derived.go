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

import "unsafe"

// Set is a Table specialized to hold only keys, no associated
// values.
type Set[T any] struct {
	t *Table[T, struct{}]
}

// NewSet creates an empty Set using the given hash and equality
// functions.
func NewSet[T any](hash Hash64[T], eq Eq[T]) *Set[T] {
	return &Set[T]{t: New[T, struct{}](hash, eq)}
}

// Add inserts v and reports whether it was newly added.
func (s *Set[T]) Add(v T) bool { return s.t.Insert(v, struct{}{}) }

// Contains reports whether v (or an equal value) is present.
func (s *Set[T]) Contains(v T) bool {
	_, ok := s.t.Find(v)
	return ok
}

// Remove deletes v if present.
func (s *Set[T]) Remove(v T) bool { return s.t.Delete(v) }

// Len reports the number of distinct elements.
func (s *Set[T]) Len() int { return s.t.Len() }

// Range calls f for every element; order is unspecified.
func (s *Set[T]) Range(f func(T) bool) {
	s.t.Range(func(k T, _ struct{}) bool { return f(k) })
}

// Map is an alias for the core Table type, exposed under the
// key->value map name.
type Map[K, V any] = Table[K, V]

// NewMap creates an empty Map.
func NewMap[K, V any](hash Hash64[K], eq Eq[K]) *Map[K, V] {
	return New[K, V](hash, eq)
}

// Seq is an insertion-ordered sequence with O(1) average
// interning: Intern(v) returns the dense index assigned to the
// first occurrence of an equal value, inserting it if necessary.
// Modeled on ion.Symtab's interned-string / dense-index pairing.
type Seq[T any] struct {
	items []T
	index *Table[T, int]
}

// NewSeq creates an empty Seq.
func NewSeq[T any](hash Hash64[T], eq Eq[T]) *Seq[T] {
	return &Seq[T]{index: New[T, int](hash, eq)}
}

// Intern returns the dense index of v, inserting it at the end of
// the sequence if it is not already present.
func (s *Seq[T]) Intern(v T) int {
	if idx, ok := s.index.Find(v); ok {
		return idx
	}
	idx := len(s.items)
	s.items = append(s.items, v)
	s.index.Set(v, idx)
	return idx
}

// At returns the value with the given dense index.
func (s *Seq[T]) At(idx int) T { return s.items[idx] }

// Len reports the number of distinct interned values.
func (s *Seq[T]) Len() int { return len(s.items) }

// Items returns the backing slice in insertion order. Callers must
// not mutate it.
func (s *Seq[T]) Items() []T { return s.items }

// PtrSet is a set of pointers with pointer-identity semantics: two
// pointers are equal iff they refer to the same address, regardless
// of what the pointee's own Equal method (if any) would say. This
// backs the scope and visited-set tracking in the ir package,
// where node identity (not structural equality, already guaranteed
// by interning) is exactly what's being tracked.
type PtrSet[T any] struct {
	t *Table[*T, struct{}]
}

func ptrHash[T any](p *T) uint64 {
	// Pointer-identity hashing: fold the address through a cheap
	// multiplicative mix. The address itself is never observed by
	// callers, only used to bucket it.
	u := uint64(uintptr(unsafe.Pointer(p)))
	u ^= u >> 33
	u *= 0xff51afd7ed558ccd
	u ^= u >> 33
	return u
}

func ptrEq[T any](a, b *T) bool { return a == b }

// NewPtrSet creates an empty PtrSet.
func NewPtrSet[T any]() *PtrSet[T] {
	return &PtrSet[T]{t: New[*T, struct{}](ptrHash[T], ptrEq[T])}
}

// Add inserts p and reports whether it was newly added.
func (s *PtrSet[T]) Add(p *T) bool { return s.t.Insert(p, struct{}{}) }

// Contains reports whether p is present.
func (s *PtrSet[T]) Contains(p *T) bool {
	_, ok := s.t.Find(p)
	return ok
}

// Remove deletes p if present.
func (s *PtrSet[T]) Remove(p *T) bool { return s.t.Delete(p) }

// Len reports the number of distinct pointers stored.
func (s *PtrSet[T]) Len() int { return s.t.Len() }

// Range calls f for every stored pointer; order is unspecified.
func (s *PtrSet[T]) Range(f func(*T) bool) {
	s.t.Range(func(k *T, _ struct{}) bool { return f(k) })
}
