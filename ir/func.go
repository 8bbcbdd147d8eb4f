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

// Fn creates a new, mutable function node of type domain->codomain.
// Its body and run-condition start as Undef(codomain) and false
// respectively, and are later bound via Rebind. Function nodes are
// never interned: each call to Fn produces a distinct node, appended
// to the module's insertion-ordered function list.
func (m *Module) Fn(domain, codomain *Type) *Node {
	fnT := m.FnType(domain, codomain)
	f := m.nodeArena.Alloc()
	f.tag = Ofn
	f.typ = fnT
	f.ops = m.nodeOps.AllocSlice(2)
	f.ops[0] = m.Undef(codomain)
	f.ops[1] = m.Bool(false)
	m.pushUse(f.ops[0], f, 0)
	m.pushUse(f.ops[1], f, 1)
	m.funcs = append(m.funcs, f)
	return f
}

// Rebind replaces function node f's body (slot 0) or run-condition
// (slot 1) operand, deregistering the old use-list edge before
// registering the new one.
func (m *Module) Rebind(f *Node, slot int, newOp *Node) {
	assertFunc(f)
	assert.That(slot == 0 || slot == 1, "rebind slot must be 0 or 1, got %d", slot)
	want := f.typ.ops[1]
	if slot == 1 {
		want = m.BoolType()
	}
	assert.That(newOp.typ == want, "rebind slot %d: expected type %s, got %s", slot, want, newOp.typ)
	old := f.ops[slot]
	removeUse(old, f, slot)
	f.ops[slot] = newOp
	m.pushUse(newOp, f, slot)
}

// Param returns the formal parameter node of function f: a node of
// f's domain type, uniquely associated with f (two different
// functions never share a param, even with identical domain types,
// since f itself is part of Param's structural interning key).
func (m *Module) Param(f *Node) *Node {
	assertFunc(f)
	domain := f.typ.ops[0]
	return m.internNode(nodeKey{tag: Oparam, typ: domain, ops: []*Node{f}}, nil)
}

// App applies function node f to arg, whose type must match f's
// domain. The result has f's codomain type. A function's body may
// reference App(f, ...) on itself, making the graph cyclic through
// f's (mutable) body slot.
func (m *Module) App(f, arg *Node) *Node {
	assert.That(f.typ.tag == TFn, "App: first operand must be a function, got %s", f.typ)
	assert.That(arg.typ == f.typ.ops[0], "App: argument type %s does not match domain %s", arg.typ, f.typ.ops[0])
	return m.internNode(nodeKey{tag: Oapp, typ: f.typ.ops[1], ops: []*Node{f, arg}}, nil)
}

// Known wraps x as a hint that its value is fixed for the duration
// of a specialization pass, without the core peephole engine itself
// treating it specially. Only passes/peval interprets Known nodes;
// the core's folding rules never unwrap or eliminate them on their
// own, so marking an operand known cannot silently change core
// semantics.
func (m *Module) Known(x *Node) *Node {
	return m.internNode(nodeKey{tag: Oknown, typ: x.typ, ops: []*Node{x}}, nil)
}

// Tapp applies function node f to a type argument. The surface
// language implemented by this repo is monomorphic, so check/lower
// never emit Tapp, and no test calls it; it exists as an extension
// point, reached otherwise only when Rebuild or serialize reconstruct
// an existing Tapp node. The result type is f's own type, since no
// generic substitution is implemented.
func (m *Module) Tapp(f *Node, arg *Type) *Node {
	assert.That(f.typ.tag == TFn, "Tapp: first operand must be a function, got %s", f.typ)
	return m.internNode(nodeKey{tag: Otapp, typ: f.typ, ops: []*Node{f}, typeArg: arg}, nil)
}
