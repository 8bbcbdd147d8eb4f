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

// swappedCmp maps a compare opcode to the one obtained by swapping
// its operands (cmpgt(a,b) == cmplt(b,a)), used to canonicalize
// comparisons against a literal onto one side.
func swappedCmp(op Opcode) Opcode {
	switch op {
	case Ocmpgt:
		return Ocmplt
	case Ocmpge:
		return Ocmple
	case Ocmplt:
		return Ocmpgt
	case Ocmple:
		return Ocmpge
	}
	return op // eq/ne are symmetric
}

// negatedCmp maps a compare opcode to its logical negation.
func negatedCmp(op Opcode) Opcode {
	switch op {
	case Ocmpeq:
		return Ocmpne
	case Ocmpne:
		return Ocmpeq
	case Ocmpgt:
		return Ocmple
	case Ocmpge:
		return Ocmplt
	case Ocmplt:
		return Ocmpge
	case Ocmple:
		return Ocmpgt
	}
	return op
}

func (m *Module) cmp(op Opcode, x, y *Node) *Node {
	a, b := x, y
	ar, br := a.Resolved(), b.Resolved()
	// Push a literal to the right-hand side of every comparison (eq/ne
	// swap to themselves) so that constant comparisons have a single
	// canonical shape.
	if ar.tag == Olit && br.tag != Olit {
		a, b = b, a
		op = swappedCmp(op)
		ar, br = br, ar
	}

	if a == b {
		switch op {
		case Ocmpeq, Ocmpge, Ocmple:
			return m.Bool(true)
		case Ocmpne, Ocmpgt, Ocmplt:
			return m.Bool(false)
		}
	}

	if ar.tag == Olit && br.tag == Olit {
		if v, ok := foldCmp(op, ar, br); ok {
			return m.Bool(v)
		}
	}

	// An unsigned value can never be negative: x<0 is always false
	// and x>=0 is always true, regardless of what x is.
	if a.typ.IsInteger() && !a.typ.IsSigned() && br.tag == Olit && br.lit.rawBits() == 0 {
		switch op {
		case Ocmplt:
			return m.Bool(false)
		case Ocmpge:
			return m.Bool(true)
		}
	}

	// A boolean compared for equality or inequality against a boolean
	// literal reduces to itself or its negation.
	if a.typ.Tag() == TBool {
		if br.tag == Olit {
			bv := br.lit.Bool()
			switch op {
			case Ocmpeq:
				if bv {
					return a
				}
				return m.Not(a)
			case Ocmpne:
				if bv {
					return m.Not(a)
				}
				return a
			}
		}
	}

	return m.internNode(nodeKey{tag: op, typ: m.BoolType(), ops: []*Node{a, b}}, nil)
}

func foldCmp(op Opcode, ar, br *Node) (bool, bool) {
	t := ar.typ
	switch {
	case t.Tag() == TBool:
		av, bv := ar.lit.Bool(), br.lit.Bool()
		return boolCmp(op, av, bv), true
	case t.IsFloat() && t.Tag() == TF64:
		return floatCmp(op, ar.lit.F64(), br.lit.F64()), true
	case t.IsFloat():
		return floatCmp(op, float64(ar.lit.F32()), float64(br.lit.F32())), true
	case t.IsSigned():
		bits := Bitwidth(t)
		return intCmp(op, ar.lit.Int(bits), br.lit.Int(bits)), true
	case t.IsInteger():
		bits := Bitwidth(t)
		return uintCmp(op, ar.lit.Uint(bits), br.lit.Uint(bits)), true
	}
	return false, false
}

func boolCmp(op Opcode, a, b bool) bool {
	ai, bi := 0, 0
	if a {
		ai = 1
	}
	if b {
		bi = 1
	}
	return intCmp(op, int64(ai), int64(bi))
}

func intCmp[T int64 | float64](op Opcode, a, b T) bool {
	switch op {
	case Ocmpeq:
		return a == b
	case Ocmpne:
		return a != b
	case Ocmpgt:
		return a > b
	case Ocmpge:
		return a >= b
	case Ocmplt:
		return a < b
	case Ocmple:
		return a <= b
	}
	return false
}

func floatCmp(op Opcode, a, b float64) bool { return intCmp(op, a, b) }

func uintCmp(op Opcode, a, b uint64) bool {
	switch op {
	case Ocmpeq:
		return a == b
	case Ocmpne:
		return a != b
	case Ocmpgt:
		return a > b
	case Ocmpge:
		return a >= b
	case Ocmplt:
		return a < b
	case Ocmple:
		return a <= b
	}
	return false
}

func (m *Module) Cmpeq(x, y *Node) *Node { return m.cmp(Ocmpeq, x, y) }
func (m *Module) Cmpne(x, y *Node) *Node { return m.cmp(Ocmpne, x, y) }
func (m *Module) Cmpgt(x, y *Node) *Node { return m.cmp(Ocmpgt, x, y) }
func (m *Module) Cmpge(x, y *Node) *Node { return m.cmp(Ocmpge, x, y) }
func (m *Module) Cmplt(x, y *Node) *Node { return m.cmp(Ocmplt, x, y) }
func (m *Module) Cmple(x, y *Node) *Node { return m.cmp(Ocmple, x, y) }
