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

// bitwise builds an and/or/xor node, constant-folding literal
// operands, applying identities (x&x=x, x|x=x, x^x=0, x&0=0, x|0=x,
// x^0=x, x&~0=x, x|~0=~0, plus absorption and xor cancellation),
// and consulting the implication solver to drop a redundant operand
// when one boolean operand is known to entail or exclude another.
func (m *Module) bitwise(op Opcode, x, y *Node) *Node {
	t := sameNumericType(x, y)
	a, b := canonOrder(op, x, y)
	ar, br := a.Resolved(), b.Resolved()

	if ar.tag == Olit && br.tag == Olit {
		bits := Bitwidth(t)
		av, bv := litBitsAt(ar, bits), litBitsAt(br, bits)
		var r uint64
		switch op {
		case Oand:
			r = av & bv
		case Oor:
			r = av | bv
		case Oxor:
			r = av ^ bv
		}
		return litFromBits(m, t, bits, r)
	}

	if a == b {
		switch op {
		case Oand, Oor:
			return a
		case Oxor:
			return m.zeroOf(t)
		}
	}

	// Structural absorption and cancellation: and(a, or(a,b)) = a,
	// or(a, and(a,b)) = a, xor(a, xor(a,b)) = b, independent of which
	// side of the node each operand landed on after canonicalization.
	switch op {
	case Oand:
		if sharesOperand(br, Oor, a) {
			return a
		}
		if sharesOperand(ar, Oor, b) {
			return b
		}
	case Oor:
		if sharesOperand(br, Oand, a) {
			return a
		}
		if sharesOperand(ar, Oand, b) {
			return b
		}
	case Oxor:
		if other, ok := xorOther(br, a); ok {
			return other
		}
		if other, ok := xorOther(ar, b); ok {
			return other
		}
	}

	if isAllZeroLit(br) {
		switch op {
		case Oand:
			return br
		case Oor, Oxor:
			return a
		}
	}
	if isAllOnesLit(br, t) {
		switch op {
		case Oand:
			return a
		case Oor:
			return br
		}
	}

	if t.Tag() == TBool {
		if n, ok := m.solveBoolImplication(op, a, b); ok {
			return n
		}
	}

	if n, ok := m.factorBitwise(op, ar, br); ok {
		return n
	}

	return m.internNode(nodeKey{tag: op, typ: t, ops: []*Node{a, b}}, nil)
}

// factorBitwise applies the bitwise half of the distributive-pair
// factoring rule: or(and(x,b), and(x,c)) = and(x, or(b,c)), and
// symmetrically and(or(x,b), or(x,c)) = or(x, and(b,c)), matching the
// shared operand x commutatively on either side of either input.
func (m *Module) factorBitwise(outer Opcode, ar, br *Node) (*Node, bool) {
	var inner Opcode
	switch outer {
	case Oor:
		inner = Oand
	case Oand:
		inner = Oor
	default:
		return nil, false
	}
	if ar.tag != inner || br.tag != inner {
		return nil, false
	}
	p, q := ar.ops[0], ar.ops[1]
	r, s := br.ops[0], br.ops[1]

	combine := m.And
	if outer == Oor {
		combine = m.Or
	}
	wrap := m.Or
	if inner == Oand {
		wrap = m.And
	}

	switch {
	case p == r:
		return wrap(p, combine(q, s)), true
	case p == s:
		return wrap(p, combine(q, r)), true
	case q == r:
		return wrap(q, combine(p, s)), true
	case q == s:
		return wrap(q, combine(p, r)), true
	}
	return nil, false
}

func litBitsAt(n *Node, bits int) uint64 {
	if n.typ.Tag() == TBool {
		if n.lit.Bool() {
			return 1
		}
		return 0
	}
	return n.lit.Uint(bits)
}

func litFromBits(m *Module, t *Type, bits int, v uint64) *Node {
	if t.Tag() == TBool {
		return m.Bool(v != 0)
	}
	if t.IsSigned() {
		return m.Int(bits, signExtend(v, bits))
	}
	return m.Uint(bits, v)
}

func signExtend(v uint64, bits int) int64 {
	shift := 64 - uint(bits)
	return int64(v<<shift) >> shift
}

// sharesOperand reports whether n is an op-tagged node with target as
// one of its two operands.
func sharesOperand(n *Node, op Opcode, target *Node) bool {
	return n.tag == op && (n.ops[0] == target || n.ops[1] == target)
}

// xorOther reports whether n is xor(target, other) or xor(other,
// target) in some order, returning the other operand.
func xorOther(n *Node, target *Node) (*Node, bool) {
	if n.tag != Oxor {
		return nil, false
	}
	if n.ops[0] == target {
		return n.ops[1], true
	}
	if n.ops[1] == target {
		return n.ops[0], true
	}
	return nil, false
}

func isAllZeroLit(n *Node) bool {
	return n.tag == Olit && n.lit.rawBits() == 0
}

func isAllOnesLit(n *Node, t *Type) bool {
	if n.tag != Olit {
		return false
	}
	if t.Tag() == TBool {
		return n.lit.Bool()
	}
	bits := Bitwidth(t)
	mask := ^uint64(0)
	if bits < 64 {
		mask = (uint64(1) << uint(bits)) - 1
	}
	return n.lit.Uint(bits) == mask
}

func (m *Module) And(x, y *Node) *Node { return m.bitwise(Oand, x, y) }
func (m *Module) Or(x, y *Node) *Node  { return m.bitwise(Oor, x, y) }
func (m *Module) Xor(x, y *Node) *Node { return m.bitwise(Oxor, x, y) }

// Not builds a bitwise/boolean complement, folding double negation
// and literal operands.
func (m *Module) Not(x *Node) *Node {
	r := x.Resolved()
	if r.tag == Onot {
		return r.ops[0]
	}
	if isCmp(r.tag) {
		return m.internNode(nodeKey{tag: negatedCmp(r.tag), typ: m.BoolType(), ops: r.ops}, nil)
	}
	if r.tag == Olit {
		if r.typ.Tag() == TBool {
			return m.Bool(!r.lit.Bool())
		}
		bits := Bitwidth(r.typ)
		mask := ^uint64(0)
		if bits < 64 {
			mask = (uint64(1) << uint(bits)) - 1
		}
		return litFromBits(m, r.typ, bits, (^litBitsAt(r, bits))&mask)
	}
	return m.internNode(nodeKey{tag: Onot, typ: x.typ, ops: []*Node{x}}, nil)
}

// Lshift and Rshift build logical shift nodes. A shift by a literal
// zero is the identity; a shift amount literal is not otherwise
// range-checked here, matching the teacher's stance of leaving
// architecture-defined overflow behavior to the consuming backend.
func (m *Module) Lshift(x, amt *Node) *Node { return m.shift(Olshift, x, amt) }
func (m *Module) Rshift(x, amt *Node) *Node { return m.shift(Orshift, x, amt) }

func (m *Module) shift(op Opcode, x, amt *Node) *Node {
	ar := x.Resolved()
	br := amt.Resolved()
	if br.tag == Olit && br.lit.rawBits() == 0 {
		return x
	}
	if ar.tag == Olit && br.tag == Olit {
		bits := Bitwidth(x.typ)
		shiftAmt := br.lit.Uint(32)
		if shiftAmt < uint64(bits) {
			v := litBitsAt(ar, bits)
			var r uint64
			if op == Olshift {
				r = v << shiftAmt
			} else if x.typ.IsSigned() {
				r = uint64(signExtend(v, bits) >> shiftAmt)
			} else {
				r = v >> shiftAmt
			}
			mask := ^uint64(0)
			if bits < 64 {
				mask = (uint64(1) << uint(bits)) - 1
			}
			return litFromBits(m, x.typ, bits, r&mask)
		}
	}
	return m.internNode(nodeKey{tag: op, typ: x.typ, ops: []*Node{x, amt}}, nil)
}
