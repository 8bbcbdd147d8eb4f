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

// Tuple builds (or folds) a tuple value over ops. A single operand
// collapses to itself, matching TupleType's tuple(T) = T identity;
// zero operands yields the canonical unit value. When every operand
// is an Extract(agg, i) of a common aggregate agg in index order,
// the whole tuple collapses back to agg (the tuple-of-extracts
// identity).
func (m *Module) Tuple(ops ...*Node) *Node {
	switch len(ops) {
	case 0:
		return m.internNode(nodeKey{tag: Otuple, typ: m.TupleType()}, nil)
	case 1:
		return ops[0]
	}
	if agg, ok := extractRunOf(ops); ok {
		return agg
	}
	types := make([]*Type, len(ops))
	for i, o := range ops {
		types[i] = o.typ
	}
	return m.internNode(nodeKey{tag: Otuple, typ: m.TupleType(types...), ops: ops}, nil)
}

// extractRunOf reports whether ops is exactly
// [Extract(agg,0), Extract(agg,1), ..., Extract(agg,n-1)] for a
// shared aggregate agg, and if so returns agg.
func extractRunOf(ops []*Node) (*Node, bool) {
	first := ops[0].Resolved()
	if first.tag != Oextract {
		return nil, false
	}
	agg := first.ops[0]
	for i, o := range ops {
		r := o.Resolved()
		if r.tag != Oextract || r.ops[0] != agg || int(r.lit.Uint(32)) != i {
			return nil, false
		}
	}
	if agg.typ.tag == TTuple && len(agg.typ.Operands()) == len(ops) {
		return agg, true
	}
	return nil, false
}

// Array builds an array value over ops, which must all share the
// same element type.
func (m *Module) Array(ops ...*Node) *Node {
	assert.That(len(ops) > 0, "Array: at least one element required")
	elemT := ops[0].typ
	for _, o := range ops[1:] {
		assert.That(o.typ == elemT, "Array: element type mismatch %s vs %s", o.typ, elemT)
	}
	return m.internNode(nodeKey{tag: Oarray, typ: m.ArrayType(elemT), ops: ops}, nil)
}

// Struct builds a struct value of the given definition over ops.
func (m *Module) Struct(def *StructDef, ops ...*Node) *Node {
	types := make([]*Type, len(ops))
	for i, o := range ops {
		types[i] = o.typ
	}
	t := m.StructType(def, types...)
	return m.internNode(nodeKey{tag: Ostruct, typ: t, ops: ops}, nil)
}

// fieldTypeAt returns the operand type of agg's aggregate type at
// index idx: tuple element, array element (index-independent), or
// struct field.
func fieldTypeAt(aggT *Type, idx int) *Type {
	switch aggT.Tag() {
	case TTuple:
		return aggT.Operands()[idx]
	case TArray:
		return aggT.Operands()[0]
	case TStruct:
		return aggT.Operands()[idx]
	}
	assert.Unreachable("fieldTypeAt: not an aggregate type: %s", aggT)
	return nil
}

// Extract reads element idx out of aggregate value agg. Folds
// through a literal aggregate or a matching Insert at the same
// index; an Insert at a different index is skipped transparently
// since the two writes cannot alias.
func (m *Module) Extract(agg *Node, idx int) *Node {
	r := agg.Resolved()
	rt := fieldTypeAt(r.typ, idx)
	for {
		switch r.tag {
		case Otuple, Oarray, Ostruct:
			if idx < len(r.ops) {
				return r.ops[idx]
			}
		case Oinsert:
			writeIdx := int(r.lit.Uint(32))
			if writeIdx == idx {
				return r.ops[1]
			}
			r = r.ops[0].Resolved()
			continue
		case Oundef:
			return m.Undef(rt)
		}
		break
	}
	idxLit := m.Uint(32, uint64(idx))
	return m.internNode(nodeKey{tag: Oextract, typ: rt, ops: []*Node{agg}, lit: idxLit.lit}, nil)
}

// Insert writes val into aggregate agg at index idx, producing a
// new aggregate value of the same type. Successive inserts at the
// same index collapse to just the later one.
func (m *Module) Insert(agg *Node, idx int, val *Node) *Node {
	r := agg.Resolved()
	assert.That(fieldTypeAt(r.typ, idx) == val.typ, "Insert: value type %s does not match field type", val.typ)
	if r.tag == Oinsert && int(r.lit.Uint(32)) == idx {
		agg = r.ops[0]
	}
	idxLit := m.Uint(32, uint64(idx))
	return m.internNode(nodeKey{tag: Oinsert, typ: r.typ, ops: []*Node{agg, val}, lit: idxLit.lit}, nil)
}
