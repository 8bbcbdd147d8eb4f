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

// Rebuild reconstructs n with newOps in place of its current
// operands, dispatching to the tagged constructor so that folding
// and canonicalization re-run against the replacement operands
// instead of being bypassed. Used by graph rewriting passes after
// resolving operands through a replacement chain: a node whose
// operands have changed identity may now be foldable even though it
// wasn't when originally built.
func (m *Module) Rebuild(n *Node, newOps []*Node) *Node {
	switch n.tag {
	case Olit, Oundef, Ofn, Oparam:
		assert.Unreachable("Rebuild: %s nodes are not rebuildable", n.tag)
	case Otuple:
		return m.Tuple(newOps...)
	case Oarray:
		return m.Array(newOps...)
	case Ostruct:
		return m.Struct(n.typ.StructDef(), newOps...)
	case Oextract:
		return m.Extract(newOps[0], int(n.lit.Uint(32)))
	case Oinsert:
		return m.Insert(newOps[0], int(n.lit.Uint(32)), newOps[1])
	case Obitcast:
		return m.Bitcast(newOps[0], n.typ)
	case Oextend:
		return m.Extend(newOps[0], n.typ)
	case Otrunc:
		return m.Trunc(newOps[0], n.typ)
	case Oitof:
		return m.Itof(newOps[0], n.typ)
	case Oftoi:
		return m.Ftoi(newOps[0], n.typ)
	case Oadd:
		return m.Add(newOps[0], newOps[1])
	case Osub:
		return m.Sub(newOps[0], newOps[1])
	case Omul:
		return m.Mul(newOps[0], newOps[1])
	case Odiv:
		return m.Div(newOps[0], newOps[1])
	case Orem:
		return m.Rem(newOps[0], newOps[1])
	case Oand:
		return m.And(newOps[0], newOps[1])
	case Oor:
		return m.Or(newOps[0], newOps[1])
	case Oxor:
		return m.Xor(newOps[0], newOps[1])
	case Olshift:
		return m.Lshift(newOps[0], newOps[1])
	case Orshift:
		return m.Rshift(newOps[0], newOps[1])
	case Onot:
		return m.Not(newOps[0])
	case Ocmpeq:
		return m.Cmpeq(newOps[0], newOps[1])
	case Ocmpne:
		return m.Cmpne(newOps[0], newOps[1])
	case Ocmpgt:
		return m.Cmpgt(newOps[0], newOps[1])
	case Ocmpge:
		return m.Cmpge(newOps[0], newOps[1])
	case Ocmplt:
		return m.Cmplt(newOps[0], newOps[1])
	case Ocmple:
		return m.Cmple(newOps[0], newOps[1])
	case Oalloc:
		return m.Alloc(newOps[0], n.typ.Operands()[1].Operands()[0])
	case Odealloc:
		return m.Dealloc(newOps[0], newOps[1])
	case Oload:
		return m.Load(newOps[0], newOps[1])
	case Ostore:
		return m.Store(newOps[0], newOps[1], newOps[2])
	case Oselect:
		return m.Select(newOps[0], newOps[1], newOps[2])
	case Oknown:
		return m.Known(newOps[0])
	case Oapp:
		return m.App(newOps[0], newOps[1])
	case Otapp:
		return m.Tapp(newOps[0], n.typeArg)
	}
	assert.Unreachable("Rebuild: unhandled opcode %s", n.tag)
	return nil
}
