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

func sameNumericType(a, b *Node) *Type {
	assert.That(a.typ == b.typ, "arithmetic operand type mismatch: %s vs %s", a.typ, b.typ)
	return a.typ
}

// canonOrder returns a, b possibly swapped so that a commutative
// op's operands are in a fixed canonical order: literals move to
// the right, and otherwise operands are ordered by address, giving
// every structurally-equal expression a unique operand order before
// interning.
func canonOrder(op Opcode, a, b *Node) (*Node, *Node) {
	if !op.isCommutative() {
		return a, b
	}
	ar, br := a.Resolved(), b.Resolved()
	aLit, bLit := IsLiteral(ar), IsLiteral(br)
	if aLit && !bLit {
		return b, a
	}
	if !aLit && bLit {
		return a, b
	}
	if uintptr(ptrAddr(a)) > uintptr(ptrAddr(b)) {
		return b, a
	}
	return a, b
}

func foldInt(t *Type, a, b int64, op Opcode) (int64, bool) {
	switch op {
	case Oadd:
		return a + b, true
	case Osub:
		return a - b, true
	case Omul:
		return a * b, true
	case Odiv:
		if b == 0 {
			return 0, false
		}
		return a / b, true
	case Orem:
		if b == 0 {
			return 0, false
		}
		return a % b, true
	}
	assert.Unreachable("foldInt: bad opcode %s", op)
	return 0, false
}

func foldUint(a, b uint64, op Opcode) (uint64, bool) {
	switch op {
	case Oadd:
		return a + b, true
	case Osub:
		return a - b, true
	case Omul:
		return a * b, true
	case Odiv:
		if b == 0 {
			return 0, false
		}
		return a / b, true
	case Orem:
		if b == 0 {
			return 0, false
		}
		return a % b, true
	}
	assert.Unreachable("foldUint: bad opcode %s", op)
	return 0, false
}

func foldFloat64(a, b float64, op Opcode) float64 {
	switch op {
	case Oadd:
		return a + b
	case Osub:
		return a - b
	case Omul:
		return a * b
	case Odiv:
		return a / b
	}
	assert.Unreachable("foldFloat64: bad opcode %s", op)
	return 0
}

func foldFloat32(a, b float32, op Opcode) float32 {
	switch op {
	case Oadd:
		return a + b
	case Osub:
		return a - b
	case Omul:
		return a * b
	case Odiv:
		return a / b
	}
	assert.Unreachable("foldFloat32: bad opcode %s", op)
	return 0
}

// arith builds a single arithmetic node, constant-folding literal
// operands and applying identity/absorption rules before interning.
// Integer div/rem by a literal zero divisor are left unfolded: they
// retain their non-returning behavior and are not simplified away.
// Float division by a literal zero folds under IEEE-754 rules.
func (m *Module) arith(op Opcode, x, y *Node) *Node {
	t := sameNumericType(x, y)
	a, b := canonOrder(op, x, y)
	ar, br := a.Resolved(), b.Resolved()

	if ar.tag == Olit && br.tag == Olit {
		switch {
		case t.IsFloat() && t.Tag() == TF64:
			return m.F64(foldFloat64(ar.lit.F64(), br.lit.F64(), op), t.FPFlags())
		case t.IsFloat():
			return m.F32(foldFloat32(ar.lit.F32(), br.lit.F32(), op), t.FPFlags())
		case t.IsSigned():
			bits := Bitwidth(t)
			if v, ok := foldInt(t, ar.lit.Int(bits), br.lit.Int(bits), op); ok {
				return m.Int(bits, v)
			}
		default:
			bits := Bitwidth(t)
			if v, ok := foldUint(ar.lit.Uint(bits), br.lit.Uint(bits), op); ok {
				return m.Uint(bits, v)
			}
		}
	}

	if n, ok := m.arithIdentity(op, t, ar, br, a, b); ok {
		return n
	}

	if op == Oadd || op == Osub {
		if n, ok := m.factorCoeff(op, t, ar, br); ok {
			return n
		}
		if n, ok := m.factorMulMul(op, ar, br); ok {
			return n
		}
	}

	return m.internNode(nodeKey{tag: op, typ: t, ops: []*Node{a, b}}, nil)
}

// asCoeff decomposes a resolved operand into a literal coefficient
// and the term it scales: mul(k, x) or mul(x, k) becomes (k, x); any
// other node is treated as (1, n), its own implicit unit coefficient.
// A surviving Omul node can carry at most one literal operand, since
// Mul folds two literal operands at construction time, so this never
// mistakes a fully-constant product for a scaled term.
func (m *Module) asCoeff(t *Type, n *Node) (*Node, *Node) {
	if n.tag == Omul {
		l, r := n.ops[0].Resolved(), n.ops[1].Resolved()
		if l.tag == Olit && r.tag != Olit {
			return l, r
		}
		if r.tag == Olit && l.tag != Olit {
			return r, l
		}
	}
	return m.oneOf(t), n
}

// factorCoeff implements the coefficient half of distributive
// folding: add(x, mul(k,x)) = mul(k+1, x), sub(mul(2,x), mul(5,x)) =
// mul(-3, x). Both operands are reduced to a (coefficient, term)
// pair; when the terms match and both coefficients are literal, the
// coefficients combine and the node collapses to a single product.
// Restricted to integer types: reassociating a float through a
// literal coefficient can change which rounding error the expression
// accumulates.
func (m *Module) factorCoeff(op Opcode, t *Type, ar, br *Node) (*Node, bool) {
	if !t.IsInteger() {
		return nil, false
	}
	if ar.tag != Omul && br.tag != Omul {
		return nil, false // x+x is left as is
	}
	ca, ta := m.asCoeff(t, ar)
	cb, tb := m.asCoeff(t, br)
	if ta != tb || ca.tag != Olit || cb.tag != Olit {
		return nil, false
	}
	var combined *Node
	if op == Oadd {
		combined = m.Add(ca, cb)
	} else {
		combined = m.Sub(ca, cb)
	}
	return m.Mul(combined, ta), true
}

// factorMulMul implements the general half of distributive folding,
// pulling a shared (not necessarily literal) factor out of two
// products: (a*b)+(a*c) = a*(b+c), matching the shared factor
// commutatively against either operand of either product. Unlike
// factorCoeff this requires both sides to already be Omul nodes, so
// it never degenerates into matching a synthesized unit coefficient
// against itself (which would recreate the original expression and
// loop forever).
func (m *Module) factorMulMul(op Opcode, ar, br *Node) (*Node, bool) {
	if ar.tag != Omul || br.tag != Omul {
		return nil, false
	}
	p, q := ar.ops[0], ar.ops[1]
	r, s := br.ops[0], br.ops[1]

	combine := m.Add
	if op == Osub {
		combine = m.Sub
	}

	switch {
	case p == r:
		return m.Mul(p, combine(q, s)), true
	case p == s:
		return m.Mul(p, combine(q, r)), true
	case q == r:
		return m.Mul(q, combine(p, s)), true
	case q == s:
		return m.Mul(q, combine(p, r)), true
	}
	return nil, false
}

// arithIdentity applies algebraic simplifications that don't depend
// on both operands being literal: x+0=x, x*1=x, x*0=0, x-x=0 (for
// integer types, where subtraction cannot raise a floating-point
// exception differently than it would otherwise), x/1=x, x/x=1,
// x%1=0, x%x=0.
func (m *Module) arithIdentity(op Opcode, t *Type, ar, br, a, b *Node) (*Node, bool) {
	isZero := func(n *Node) bool { return n.tag == Olit && n.lit.rawBits() == 0 }
	isOne := func(n *Node) bool {
		if n.tag != Olit {
			return false
		}
		if t.IsFloat() {
			if t.Tag() == TF64 {
				return n.lit.F64() == 1
			}
			return n.lit.F32() == 1
		}
		if t.IsSigned() {
			return n.lit.Int(Bitwidth(t)) == 1
		}
		return n.lit.Uint(Bitwidth(t)) == 1
	}

	switch op {
	case Oadd:
		if isZero(br) {
			return a, true
		}
		if isZero(ar) {
			return b, true
		}
	case Osub:
		if isZero(br) {
			return a, true
		}
		if a == b && t.IsInteger() {
			return m.zeroOf(t), true
		}
	case Omul:
		if isZero(br) || isZero(ar) {
			return m.zeroOf(t), true
		}
		if isOne(br) {
			return a, true
		}
		if isOne(ar) {
			return b, true
		}
	case Odiv:
		if isOne(br) {
			return a, true
		}
		if a == b && t.IsInteger() {
			return m.oneOf(t), true
		}
	case Orem:
		if isOne(br) {
			return m.zeroOf(t), true
		}
		if a == b && t.IsInteger() {
			return m.zeroOf(t), true
		}
	}
	return nil, false
}

// oneOf returns the literal 1 of type t, used as the implicit unit
// coefficient of a bare (unscaled) term during distributive folding.
func (m *Module) oneOf(t *Type) *Node {
	switch {
	case t.IsFloat() && t.Tag() == TF64:
		return m.F64(1, t.FPFlags())
	case t.IsFloat():
		return m.F32(1, t.FPFlags())
	case t.IsSigned():
		return m.Int(Bitwidth(t), 1)
	default:
		return m.Uint(Bitwidth(t), 1)
	}
}

func (m *Module) zeroOf(t *Type) *Node {
	switch {
	case t.IsFloat() && t.Tag() == TF64:
		return m.F64(0, t.FPFlags())
	case t.IsFloat():
		return m.F32(0, t.FPFlags())
	case t.IsSigned():
		return m.Int(Bitwidth(t), 0)
	default:
		return m.Uint(Bitwidth(t), 0)
	}
}

func (m *Module) Add(x, y *Node) *Node { return m.arith(Oadd, x, y) }
func (m *Module) Sub(x, y *Node) *Node { return m.arith(Osub, x, y) }
func (m *Module) Mul(x, y *Node) *Node { return m.arith(Omul, x, y) }
func (m *Module) Div(x, y *Node) *Node { return m.arith(Odiv, x, y) }
func (m *Module) Rem(x, y *Node) *Node { return m.arith(Orem, x, y) }
