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

import (
	"math"

	"github.com/anf-ir/anf/internal/assert"
)

// Bitcast reinterprets x's bit pattern as type t, without changing
// bit width. A bitcast to x's own type is the identity; a bitcast of
// a bitcast collapses to a single cast to the final type; a bitcast
// of a literal folds to the literal obtained by reinterpreting its
// raw bits under t.
func (m *Module) Bitcast(x *Node, t *Type) *Node {
	assert.That(Bitwidth(x.typ) == Bitwidth(t) && (x.typ.Tag() == TBool) == (t.Tag() == TBool),
		"Bitcast: width mismatch between %s and %s", x.typ, t)
	r := x.Resolved()
	if r.typ == t {
		return x
	}
	if r.tag == Obitcast {
		return m.Bitcast(r.ops[0], t)
	}
	if r.tag == Olit {
		bits := Bitwidth(t)
		raw := r.lit.rawBits()
		mask := ^uint64(0)
		if bits < 64 {
			mask = (uint64(1) << uint(bits)) - 1
		}
		raw &= mask
		switch {
		case t.Tag() == TBool:
			return m.Bool(raw != 0)
		case t.IsFloat() && t.Tag() == TF64:
			return m.F64(math.Float64frombits(raw), t.FPFlags())
		case t.IsFloat():
			return m.F32(math.Float32frombits(uint32(raw)), t.FPFlags())
		case t.IsSigned():
			return m.Int(bits, signExtend(raw, bits))
		default:
			return m.Uint(bits, raw)
		}
	}
	return m.internNode(nodeKey{tag: Obitcast, typ: t, ops: []*Node{x}}, nil)
}

// Extend widens x to a wider integer type t, sign- or zero-extending
// per t's signedness. Extending a literal folds immediately;
// extending to x's own type is the identity.
func (m *Module) Extend(x *Node, t *Type) *Node {
	assert.That(Bitwidth(t) >= Bitwidth(x.typ), "Extend: target width %d narrower than source %d", Bitwidth(t), Bitwidth(x.typ))
	r := x.Resolved()
	if r.typ == t {
		return x
	}
	if r.tag == Olit {
		bits := Bitwidth(t)
		if t.IsSigned() {
			return m.Int(bits, r.lit.Int(Bitwidth(x.typ)))
		}
		return m.Uint(bits, r.lit.Uint(Bitwidth(x.typ)))
	}
	return m.internNode(nodeKey{tag: Oextend, typ: t, ops: []*Node{x}}, nil)
}

// Trunc narrows x to a narrower integer type t, discarding high
// bits. Truncating a literal folds immediately; truncating to x's
// own type is the identity.
func (m *Module) Trunc(x *Node, t *Type) *Node {
	assert.That(Bitwidth(t) <= Bitwidth(x.typ), "Trunc: target width %d wider than source %d", Bitwidth(t), Bitwidth(x.typ))
	r := x.Resolved()
	if r.typ == t {
		return x
	}
	if r.tag == Olit {
		bits := Bitwidth(t)
		mask := ^uint64(0)
		if bits < 64 {
			mask = (uint64(1) << uint(bits)) - 1
		}
		v := r.lit.Uint(Bitwidth(x.typ)) & mask
		return litFromBits(m, t, bits, v)
	}
	return m.internNode(nodeKey{tag: Otrunc, typ: t, ops: []*Node{x}}, nil)
}

// Itof converts an integer value to a floating-point type.
func (m *Module) Itof(x *Node, t *Type) *Node {
	assert.That(t.IsFloat(), "Itof: target type %s is not floating point", t)
	r := x.Resolved()
	if r.tag == Olit {
		bits := Bitwidth(x.typ)
		var v float64
		if x.typ.IsSigned() {
			v = float64(r.lit.Int(bits))
		} else {
			v = float64(r.lit.Uint(bits))
		}
		if Bitwidth(t) == 32 {
			return m.F32(float32(v), t.FPFlags())
		}
		return m.F64(v, t.FPFlags())
	}
	return m.internNode(nodeKey{tag: Oitof, typ: t, ops: []*Node{x}}, nil)
}

// Ftoi converts a floating-point value to an integer type,
// truncating toward zero.
func (m *Module) Ftoi(x *Node, t *Type) *Node {
	assert.That(t.IsInteger(), "Ftoi: target type %s is not an integer", t)
	r := x.Resolved()
	if r.tag == Olit {
		var v float64
		if x.typ.Tag() == TF64 {
			v = r.lit.F64()
		} else {
			v = float64(r.lit.F32())
		}
		bits := Bitwidth(t)
		if t.IsSigned() {
			return m.Int(bits, int64(v))
		}
		return m.Uint(bits, uint64(v))
	}
	return m.internNode(nodeKey{tag: Oftoi, typ: t, ops: []*Node{x}}, nil)
}
