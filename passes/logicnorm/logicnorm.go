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

// Package logicnorm canonicalizes boolean formulas to disjunctive or
// conjunctive normal form, a direct port of
// original_source/src/logic.c's dnf_convert/cnf_convert. Unlike that
// file's xor-encoded negation (node_is_not tests for "xor with a
// literal true operand"), this IR gives negation its own opcode
// (ir.Onot), so the not-of-and/not-of-or rewrites key off Onot
// directly instead of pattern-matching an xor.
//
// ToDNF/ToCNF feed into the core's own canonicalization: every And,
// Or, and Not call along the way runs back through
// ir.Module's constructors, so ir.Entails and the rest of the
// peephole engine get a chance to fold or simplify the normalized
// form immediately, exactly as original_source's node_and/node_or
// calls do.
package logicnorm

import "github.com/anf-ir/anf/ir"

// ToDNF rewrites a boolean-valued expression into disjunctive normal
// form (an Or of Ands), porting dnf_convert.
func ToDNF(m *ir.Module, n *ir.Node) *ir.Node {
	n = n.Resolved()
	switch n.Tag() {
	case ir.Oor:
		ops := n.Operands()
		return m.Or(ToDNF(m, ops[0]), ToDNF(m, ops[1]))
	case ir.Oand:
		ops := n.Operands()
		return dnfConvertAnd(m, ToDNF(m, ops[0]), ToDNF(m, ops[1]), m.Bool(false))
	case ir.Onot:
		op := n.Operands()[0].Resolved()
		switch op.Tag() {
		case ir.Oand:
			ops := op.Operands()
			return ToDNF(m, m.Or(m.Not(ops[0]), m.Not(ops[1])))
		case ir.Oor:
			ops := op.Operands()
			return ToDNF(m, m.And(m.Not(ops[0]), m.Not(ops[1])))
		default:
			return n
		}
	case ir.Ocmpeq:
		return dnfOrCnfEq(m, n, true)
	default:
		return n
	}
}

func dnfConvertAnd(m *ir.Module, left, right, res *ir.Node) *ir.Node {
	left, right = left.Resolved(), right.Resolved()
	if left.Tag() == ir.Oor {
		ops := left.Operands()
		return dnfConvertAnd(m, ops[1], right, dnfConvertAnd(m, ops[0], right, res))
	}
	if right.Tag() == ir.Oor {
		ops := right.Operands()
		return dnfConvertAnd(m, left, ops[1], dnfConvertAnd(m, left, ops[0], res))
	}
	return m.Or(res, m.And(left, right))
}

// ToCNF rewrites a boolean-valued expression into conjunctive normal
// form (an And of Ors), porting cnf_convert.
func ToCNF(m *ir.Module, n *ir.Node) *ir.Node {
	n = n.Resolved()
	switch n.Tag() {
	case ir.Oand:
		ops := n.Operands()
		return m.And(ToCNF(m, ops[0]), ToCNF(m, ops[1]))
	case ir.Oor:
		ops := n.Operands()
		return cnfConvertOr(m, ToCNF(m, ops[0]), ToCNF(m, ops[1]), m.Bool(true))
	case ir.Onot:
		op := n.Operands()[0].Resolved()
		switch op.Tag() {
		case ir.Oand:
			ops := op.Operands()
			return ToCNF(m, m.Or(m.Not(ops[0]), m.Not(ops[1])))
		case ir.Oor:
			ops := op.Operands()
			return ToCNF(m, m.And(m.Not(ops[0]), m.Not(ops[1])))
		default:
			return n
		}
	case ir.Ocmpeq:
		return dnfOrCnfEq(m, n, false)
	default:
		return n
	}
}

func cnfConvertOr(m *ir.Module, left, right, res *ir.Node) *ir.Node {
	left, right = left.Resolved(), right.Resolved()
	if left.Tag() == ir.Oand {
		ops := left.Operands()
		return cnfConvertOr(m, ops[1], right, cnfConvertOr(m, ops[0], right, res))
	}
	if right.Tag() == ir.Oand {
		ops := right.Operands()
		return cnfConvertOr(m, left, ops[1], cnfConvertOr(m, left, ops[0], res))
	}
	return m.And(res, m.Or(left, right))
}

// dnfOrCnfEq expands a boolean equality a == b into its connective
// form (a & b) | (~a & ~b), then continues normalizing in whichever
// direction the caller wants; non-boolean comparisons pass through
// unchanged, mirroring dnf_convert/cnf_convert's TYPE_I1 guard.
func dnfOrCnfEq(m *ir.Module, n *ir.Node, dnf bool) *ir.Node {
	ops := n.Operands()
	if t := ops[0].Type().Tag(); t != ir.TBool && t != ir.TI1 {
		return n
	}
	expanded := m.Or(m.And(ops[0], ops[1]), m.And(m.Not(ops[0]), m.Not(ops[1])))
	if dnf {
		return ToDNF(m, expanded)
	}
	return ToCNF(m, expanded)
}

// Run normalizes the body of every boolean-returning function in m
// to DNF (or CNF, if dnf is false) and reports whether anything
// changed.
func Run(m *ir.Module, dnf bool) bool {
	changed := false
	for _, fn := range m.Funcs() {
		codomain := fn.Type().Operands()[1]
		if t := codomain.Tag(); t != ir.TBool && t != ir.TI1 {
			continue
		}
		body := fn.Body()
		var norm *ir.Node
		if dnf {
			norm = ToDNF(m, body)
		} else {
			norm = ToCNF(m, body)
		}
		if norm != body {
			m.Rebind(fn, 0, norm)
			changed = true
		}
	}
	return changed
}
