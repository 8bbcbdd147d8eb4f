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

import "github.com/anf-ir/anf/internal/assert"

// Alloc reserves storage for a value of type t on the given memory
// state, returning a tuple(mem', ptr(t)).
func (m *Module) Alloc(mem *Node, t *Type) *Node {
	assert.That(mem.typ.Tag() == TMem, "Alloc: operand must be mem, got %s", mem.typ)
	resT := m.TupleType(m.MemType(), m.PtrType(t))
	return m.internNode(nodeKey{tag: Oalloc, typ: resT, ops: []*Node{mem}}, nil)
}

// Dealloc releases storage at ptr, returning the updated memory
// state. Deallocating a pointer produced by an Alloc on the same
// memory chain that was never stored through is left as-is: dead
// store elimination of the alloc/dealloc pair is a job for
// passes/mem2reg, not for this constructor.
func (m *Module) Dealloc(mem, ptr *Node) *Node {
	assert.That(mem.typ.Tag() == TMem, "Dealloc: first operand must be mem, got %s", mem.typ)
	assert.That(ptr.typ.Tag() == TPtr, "Dealloc: second operand must be a pointer, got %s", ptr.typ)
	return m.internNode(nodeKey{tag: Odealloc, typ: m.MemType(), ops: []*Node{mem, ptr}}, nil)
}

// Load reads the value at ptr on memory state mem, returning
// tuple(mem, value). A load of unit type folds to (mem, unit) without
// touching the heap, since a unit value carries no information to
// read. A load that immediately follows a Store to the same pointer
// on the same memory chain folds to the stored value without
// touching the heap, provided no intervening operation could have
// aliased ptr.
func (m *Module) Load(mem, ptr *Node) *Node {
	assert.That(mem.typ.Tag() == TMem, "Load: first operand must be mem, got %s", mem.typ)
	assert.That(ptr.typ.Tag() == TPtr, "Load: second operand must be a pointer, got %s", ptr.typ)
	elemT := ptr.typ.Operands()[0]
	resT := m.TupleType(m.MemType(), elemT)

	if elemT.Tag() == TTuple && len(elemT.Operands()) == 0 {
		return m.Tuple(mem, m.Unit())
	}

	mr := mem.Resolved()
	if mr.tag == Ostore {
		sMem, sPtr, sVal := mr.ops[0], mr.ops[1], mr.ops[2]
		if sPtr == ptr {
			return m.Tuple(mem, sVal)
		}
		_ = sMem
	}
	return m.internNode(nodeKey{tag: Oload, typ: resT, ops: []*Node{mem, ptr}}, nil)
}

// Store writes val to ptr on memory state mem, returning the updated
// memory state. Storing a unit value is a no-op: there is nothing to
// write, so the store folds away to its input memory state. A store
// that immediately overwrites the value just stored to the same
// pointer on the same chain collapses to a no-op rewrite of the outer
// store, replacing its predecessor memory state wholesale:
// representable here as interning the new Store node directly, since
// the old Store node becomes dead once nothing else uses it.
func (m *Module) Store(mem, ptr, val *Node) *Node {
	assert.That(mem.typ.Tag() == TMem, "Store: first operand must be mem, got %s", mem.typ)
	assert.That(ptr.typ.Tag() == TPtr, "Store: second operand must be a pointer, got %s", ptr.typ)
	assert.That(ptr.typ.Operands()[0] == val.typ, "Store: value type %s does not match pointee type %s", val.typ, ptr.typ.Operands()[0])

	if val.typ.Tag() == TTuple && len(val.typ.Operands()) == 0 {
		return mem
	}

	mr := mem.Resolved()
	if mr.tag == Ostore && mr.ops[1] == ptr {
		mem = mr.ops[0]
	}
	return m.internNode(nodeKey{tag: Ostore, typ: m.MemType(), ops: []*Node{mem, ptr, val}}, nil)
}
