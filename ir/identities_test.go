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

import "testing"

// TestMulByOneAndZero covers the multiply identities the core
// guarantees (x*1=x, x*0=0). See TestFactorCoefficientOverCommonTerm
// and TestFactorSharedNonLiteralOperand for the distributive folding
// rules layered on top of these base identities.
func TestMulByOneAndZero(t *testing.T) {
	m := NewModule()
	x := m.Param(m.Fn(m.IntType(32), m.IntType(32)))
	one := m.Int(32, 1)
	zero := m.Int(32, 0)
	if got := m.Mul(x, one); got != x {
		t.Fatalf("mul(x,1) = %v, want x", got)
	}
	if got := m.Mul(one, x); got != x {
		t.Fatalf("mul(1,x) = %v, want x", got)
	}
	if got := m.Mul(x, zero); got != zero {
		t.Fatalf("mul(x,0) = %v, want 0", got)
	}
}

func TestAddZeroIdentity(t *testing.T) {
	m := NewModule()
	x := m.Param(m.Fn(m.IntType(32), m.IntType(32)))
	zero := m.Int(32, 0)
	if got := m.Add(x, zero); got != x {
		t.Fatalf("add(x,0) = %v, want x", got)
	}
	if got := m.Add(zero, x); got != x {
		t.Fatalf("add(0,x) = %v, want x", got)
	}
}

func TestSubSelfIsZero(t *testing.T) {
	m := NewModule()
	x := m.Param(m.Fn(m.IntType(32), m.IntType(32)))
	if got := m.Sub(x, x); got != m.Int(32, 0) {
		t.Fatalf("sub(x,x) = %v, want 0", got)
	}
}

func TestBitcastCmpltZeroFoldsFalse(t *testing.T) {
	m := NewModule()
	x := m.Uint(32, 5)
	u := m.Bitcast(x, m.IntType(32))
	got := m.Cmplt(u, m.Int(32, 0))
	want := m.Bool(false)
	if got != want {
		t.Fatalf("cmplt(bitcast(u32(5),i32), i32(0)) = %v, want false", got)
	}
}

// TestUnsignedVarCmpZero covers the unsigned-vs-zero rule for a
// genuine variable operand (not a literal folded away beforehand): an
// unsigned value can never be negative, so x<0 is always false and
// x>=0 is always true.
func TestUnsignedVarCmpZero(t *testing.T) {
	m := NewModule()
	x := m.Param(m.Fn(m.UintType(32), m.BoolType()))
	zero := m.Uint(32, 0)
	if got := m.Cmplt(x, zero); got != m.Bool(false) {
		t.Fatalf("cmplt(x,0) = %v, want false", got)
	}
	if got := m.Cmpge(x, zero); got != m.Bool(true) {
		t.Fatalf("cmpge(x,0) = %v, want true", got)
	}
}

func TestDivRemIdentities(t *testing.T) {
	m := NewModule()
	x := m.Param(m.Fn(m.IntType(32), m.IntType(32)))
	one := m.Int(32, 1)
	zero := m.Int(32, 0)
	if got := m.Div(x, one); got != x {
		t.Fatalf("div(x,1) = %v, want x", got)
	}
	if got := m.Div(x, x); got != one {
		t.Fatalf("div(x,x) = %v, want 1", got)
	}
	if got := m.Rem(x, one); got != zero {
		t.Fatalf("rem(x,1) = %v, want 0", got)
	}
	if got := m.Rem(x, x); got != zero {
		t.Fatalf("rem(x,x) = %v, want 0", got)
	}
}

func TestAndOrAbsorption(t *testing.T) {
	m := NewModule()
	x := m.Param(m.Fn(m.BoolType(), m.BoolType()))
	y := m.Param(m.Fn(m.BoolType(), m.BoolType()))
	xOrY := m.Or(x, y)
	if got := m.And(x, xOrY); got != x {
		t.Fatalf("and(x, or(x,y)) = %v, want x", got)
	}
	xAndY := m.And(x, y)
	if got := m.Or(x, xAndY); got != x {
		t.Fatalf("or(x, and(x,y)) = %v, want x", got)
	}
}

func TestXorSelfCancels(t *testing.T) {
	m := NewModule()
	x := m.Param(m.Fn(m.IntType(32), m.IntType(32)))
	y := m.Int(32, 7)
	if got := m.Xor(x, m.Xor(x, y)); got != y {
		t.Fatalf("xor(x, xor(x,y)) = %v, want y", got)
	}
}

func TestCmpImplicationSimplification(t *testing.T) {
	m := NewModule()
	x := m.Param(m.Fn(m.IntType(32), m.BoolType()))
	ge5 := m.Cmpge(x, m.Int(32, 5))
	ge3 := m.Cmpge(x, m.Int(32, 3))
	if got := m.And(ge5, ge3); got != ge5 {
		t.Fatalf("and(cmpge(x,5), cmpge(x,3)) = %v, want cmpge(x,5)", got)
	}
}

func TestOrEqGeSimplification(t *testing.T) {
	m := NewModule()
	x := m.Param(m.Fn(m.IntType(32), m.BoolType()))
	y := m.Param(m.Fn(m.IntType(32), m.BoolType()))
	eq := m.Cmpeq(x, y)
	ge := m.Cmpge(x, y)
	if got := m.Or(eq, ge); got != ge {
		t.Fatalf("or(cmpeq(x,y), cmpge(x,y)) = %v, want cmpge(x,y)", got)
	}
}

// TestFactorCoefficientOverCommonTerm covers the asymmetric
// distributive case where one side carries an explicit literal
// coefficient and the other is a bare (implicitly coefficient-1)
// term: add(x, mul(k,x)) = mul(k+1,x), and the fully-scaled case
// sub(mul(2,x), mul(5,x)) = mul(-3,x).
func TestFactorCoefficientOverCommonTerm(t *testing.T) {
	m := NewModule()
	x := m.Param(m.Fn(m.IntType(32), m.IntType(32)))
	k := m.Int(32, 4)

	got := m.Add(x, m.Mul(k, x))
	want := m.Mul(m.Int(32, 5), x)
	if got != want {
		t.Fatalf("add(x, mul(4,x)) = %v, want mul(5,x) = %v", got, want)
	}

	got2 := m.Sub(m.Mul(m.Int(32, 2), x), m.Mul(m.Int(32, 5), x))
	want2 := m.Mul(m.Int(32, -3), x)
	if got2 != want2 {
		t.Fatalf("sub(mul(2,x), mul(5,x)) = %v, want mul(-3,x) = %v", got2, want2)
	}
}

// TestFactorSharedNonLiteralOperand covers the general pull-out case
// where neither product has a literal coefficient at all: the shared
// factor is an arbitrary node, matched commutatively against either
// operand of either product.
func TestFactorSharedNonLiteralOperand(t *testing.T) {
	m := NewModule()
	i32 := m.IntType(32)
	a := m.Param(m.Fn(i32, i32))
	b := m.Param(m.Fn(i32, i32))
	c := m.Param(m.Fn(i32, i32))

	got := m.Add(m.Mul(a, b), m.Mul(a, c))
	want := m.Mul(a, m.Add(b, c))
	if got != want {
		t.Fatalf("add(mul(a,b), mul(a,c)) = %v, want mul(a, add(b,c)) = %v", got, want)
	}

	got2 := m.Add(m.Mul(b, a), m.Mul(c, a))
	if got2 != want {
		t.Fatalf("add(mul(b,a), mul(c,a)) = %v, want the same factored node %v", got2, want)
	}
}

// TestFactorBitwiseDistribution covers the boolean half of the
// distributive-pair rule: or(and(x,b), and(x,c)) = and(x, or(b,c)),
// with the shared factor matched on either side of either operand.
func TestFactorBitwiseDistribution(t *testing.T) {
	m := NewModule()
	x := m.Param(m.Fn(m.BoolType(), m.BoolType()))
	b := m.Param(m.Fn(m.BoolType(), m.BoolType()))
	c := m.Param(m.Fn(m.BoolType(), m.BoolType()))

	got := m.Or(m.And(x, b), m.And(x, c))
	want := m.And(x, m.Or(b, c))
	if got != want {
		t.Fatalf("or(and(x,b), and(x,c)) = %v, want and(x, or(b,c)) = %v", got, want)
	}
}

func TestBitcastRoundTripThroughMul(t *testing.T) {
	m := NewModule()
	f1 := m.F32(1.0, 0)
	asInt := m.Bitcast(f1, m.IntType(32))
	scaled := m.Mul(asInt, m.Int(32, 1))
	back := m.Bitcast(scaled, m.FloatType(32, 0))
	if back != f1 {
		t.Fatalf("bitcast(mul(bitcast(f32(1.0),i32), i32(1)), f32) = %v, want f32(1.0)", back)
	}
}
