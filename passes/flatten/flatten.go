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

// Package flatten implements tuple flattening, grounded on
// original_source/src/flatten.c's flatten_tuples: a function whose
// parameter type nests tuples inside tuples ((i32, (bool, i32))) is
// given a sibling whose parameter is the fully flattened tuple
// (i32, bool, i32), with the original function rewritten to forward
// to it. Nested calling conventions benefit later passes (mem2reg,
// register allocation in a real backend) that work best over flat
// argument lists.
//
// This port narrows flatten.c's scope in one way: flatten.c also
// flattens tuples reachable through function-typed operands (a
// tuple holding a closure gets its own wrapper function generated
// for it). This module's surface language has no closure values —
// every callee is a statically named def — so FlattenType passes
// ir.TFn operands through structurally without generating the
// corresponding wrapper; see DESIGN.md.
package flatten

import (
	"github.com/anf-ir/anf/ir"
	"github.com/anf-ir/anf/passes"
)

// FlattenType computes a type with every directly-nested tuple
// collapsed into its enclosing tuple, and recurses through function
// types' domain and codomain. Any other type is returned unchanged.
func FlattenType(m *ir.Module, t *ir.Type) *ir.Type {
	switch t.Tag() {
	case ir.TTuple:
		var ops []*ir.Type
		for _, op := range t.Operands() {
			ft := FlattenType(m, op)
			if ft.Tag() == ir.TTuple {
				ops = append(ops, ft.Operands()...)
			} else {
				ops = append(ops, ft)
			}
		}
		return m.TupleType(ops...)
	case ir.TFn:
		ops := t.Operands()
		return m.FnType(FlattenType(m, ops[0]), FlattenType(m, ops[1]))
	default:
		return t
	}
}

// flattenValue builds the flattened equivalent of a tuple-typed
// value n, reading it apart with Extract and retupling the scalar
// leaves. Non-tuple values (including function-typed ones, per the
// package doc) pass through unchanged.
func flattenValue(m *ir.Module, n *ir.Node) *ir.Node {
	t := n.Type()
	if t.Tag() != ir.TTuple {
		return n
	}
	var ops []*ir.Node
	for i := range t.Operands() {
		sub := flattenValue(m, m.Extract(n, i))
		if sub.Type().Tag() == ir.TTuple {
			for j := range sub.Type().Operands() {
				ops = append(ops, m.Extract(sub, j))
			}
		} else {
			ops = append(ops, sub)
		}
	}
	return m.Tuple(ops...)
}

// unflattenValue is flattenValue's inverse: given a flat parameter
// node and the target (possibly nested) tuple type, it consumes
// *index scalar leaves from flat (via Extract) and retuples them
// into t's shape.
func unflattenValue(m *ir.Module, flat *ir.Node, index *int, t *ir.Type) *ir.Node {
	if t.Tag() == ir.TTuple {
		ops := make([]*ir.Node, len(t.Operands()))
		for i, opT := range t.Operands() {
			ops[i] = unflattenValue(m, flat, index, opT)
		}
		return m.Tuple(ops...)
	}
	n := m.Extract(flat, *index)
	*index++
	return n
}

// Run flattens every function in m whose parameter type nests a
// tuple inside another tuple, and reports whether it changed
// anything. Each such function is left in place as a one-line
// forwarding wrapper (so existing App nodes naming it keep working,
// and passes/peval can subsequently inline the forward away); the
// real body moves to a freshly created sibling function with the
// flat parameter type.
func Run(m *ir.Module) bool {
	changed := false
	for _, fn := range m.Funcs() {
		domain := fn.Type().Operands()[0]
		flat := FlattenType(m, domain)
		if flat == domain || flat.Tag() != ir.TTuple {
			continue
		}
		if b := fn.Body(); b.Tag() == ir.Oapp {
			// Already a forwarding wrapper around a flat sibling.
			if callee := b.Operands()[0].Resolved(); callee.Tag() == ir.Ofn && callee.Type().Operands()[0] == flat {
				continue
			}
		}

		codomain := fn.Type().Operands()[1]
		flatFn := m.Fn(flat, codomain)
		flatParam := m.Param(flatFn)
		idx := 0
		reconstructed := unflattenValue(m, flatParam, &idx, domain)

		oldParam := m.Param(fn)
		newBody := passes.Substitute(m, fn.Body(), oldParam, reconstructed)
		m.Rebind(flatFn, 0, newBody)
		m.Rebind(flatFn, 1, fn.RunCondition())

		arg := flattenValue(m, oldParam)
		m.Rebind(fn, 0, m.App(flatFn, arg))
		m.Rebind(fn, 1, m.Bool(true))
		changed = true
	}
	return changed
}

// RunToFixpoint repeats Run until it stops making progress or
// maxIters passes have run (a newly generated flatFn never itself
// needs flattening again, since its domain is already flat, so this
// converges in one pass in practice; the cap is a backstop).
func RunToFixpoint(m *ir.Module, maxIters int) int {
	i := 0
	for ; i < maxIters; i++ {
		if !Run(m) {
			break
		}
	}
	return i
}
