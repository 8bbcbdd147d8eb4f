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

// Bool returns the canonical boolean literal node for v.
func (m *Module) Bool(v bool) *Node {
	return m.internNode(nodeKey{tag: Olit, typ: m.BoolType(), lit: litBool(v)}, nil)
}

// Int returns the canonical signed integer literal node of the
// given bit width.
func (m *Module) Int(bits int, v int64) *Node {
	t := m.IntType(bits)
	v = signExtend(uint64(v), bits)
	return m.internNode(nodeKey{tag: Olit, typ: t, lit: litInt(v)}, nil)
}

// Uint returns the canonical unsigned integer literal node of the
// given bit width.
func (m *Module) Uint(bits int, v uint64) *Node {
	t := m.UintType(bits)
	if bits < 64 {
		v &= (uint64(1) << uint(bits)) - 1
	}
	return m.internNode(nodeKey{tag: Olit, typ: t, lit: litUint(v)}, nil)
}

// F32 returns the canonical f32 literal node. f32(0.0) == f32(0.0)
// but f32(0.0) != f32(-0.0): equality is on the raw bit pattern, not
// IEEE-754 comparison semantics.
func (m *Module) F32(v float32, flags FPFlags) *Node {
	t := m.FloatType(32, flags)
	return m.internNode(nodeKey{tag: Olit, typ: t, lit: litF32(v)}, nil)
}

// F64 returns the canonical f64 literal node.
func (m *Module) F64(v float64, flags FPFlags) *Node {
	t := m.FloatType(64, flags)
	return m.internNode(nodeKey{tag: Olit, typ: t, lit: litF64(v)}, nil)
}

// Unit returns the canonical unit value, tuple().
func (m *Module) Unit() *Node {
	return m.Tuple()
}

// Undef returns the canonical not-yet-computed sentinel value of
// type t, used to seed a newly created function's body before it is
// bound via Rebind. Named Undef rather than reusing the "bottom"
// terminology of BottomType, since Go forbids two methods of that
// name on the same receiver; see DESIGN.md.
func (m *Module) Undef(t *Type) *Node {
	return m.internNode(nodeKey{tag: Oundef, typ: t}, nil)
}

// IsLiteral reports whether n is a literal or the undef sentinel —
// the class of nodes constant folding treats as already-reduced
// values.
func IsLiteral(n *Node) bool {
	n = n.Resolved()
	return n.tag == Olit || n.tag == Oundef
}
