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
	"encoding/binary"

	"golang.org/x/exp/slices"

	"github.com/anf-ir/anf/htable"
	"github.com/anf-ir/anf/internal/assert"
)

// nodeKey is the structural key non-function nodes are interned
// by: (tag, type, operands, payload).
type nodeKey struct {
	tag     Opcode
	typ     *Type
	ops     []*Node
	lit     *Literal
	typeArg *Type
}

func hashNodeKey(k nodeKey) uint64 {
	buf := make([]byte, 0, 16+8*len(k.ops)+16)
	buf = append(buf, byte(k.tag), byte(k.tag>>8))
	buf = binary.LittleEndian.AppendUint64(buf, ptrAddr(k.typ))
	for _, o := range k.ops {
		buf = binary.LittleEndian.AppendUint64(buf, ptrAddr(o))
	}
	if k.lit != nil {
		buf = binary.LittleEndian.AppendUint64(buf, k.lit.rawBits())
	}
	buf = binary.LittleEndian.AppendUint64(buf, ptrAddr(k.typeArg))
	return htable.HashBytes(buf)
}

func eqNodeKey(a, b nodeKey) bool {
	if a.tag != b.tag || a.typ != b.typ || a.typeArg != b.typeArg {
		return false
	}
	if !slices.Equal(a.ops, b.ops) {
		return false
	}
	if (a.lit == nil) != (b.lit == nil) {
		return false
	}
	if a.lit != nil && a.lit.rawBits() != b.lit.rawBits() {
		return false
	}
	return true
}

func (m *Module) pushUse(operand, user *Node, idx int) {
	e := m.useArena.Alloc()
	e.user, e.idx = user, idx
	e.next = operand.uses
	operand.uses = e
}

// removeUse deregisters the (user, idx) edge from operand's
// use-list. It is only ever called for function-node rebinding,
// since non-function operand lists never change after construction.
func removeUse(operand, user *Node, idx int) {
	var prev *useEdge
	for e := operand.uses; e != nil; e = e.next {
		if e.user == user && e.idx == idx {
			if prev == nil {
				operand.uses = e.next
			} else {
				prev.next = e.next
			}
			return
		}
		prev = e
	}
}

// internNode returns the canonical non-function Node for k,
// constructing it (and registering use-list edges on its operands)
// on first request. If an equal node already exists and dbg is
// non-nil while the survivor's dbg is nil, dbg is attached to the
// survivor.
func (m *Module) internNode(k nodeKey, dbg *Debug) *Node {
	if n, ok := m.nodes.Find(k); ok {
		if n.dbg == nil && dbg != nil {
			n.dbg = dbg
		}
		return n
	}
	n := m.nodeArena.Alloc()
	n.tag, n.typ, n.dbg, n.lit, n.typeArg = k.tag, k.typ, dbg, k.lit, k.typeArg
	if len(k.ops) > 0 {
		n.ops = m.nodeOps.AllocSlice(len(k.ops))
		copy(n.ops, k.ops)
	}
	m.nodes.Insert(nodeKey{tag: k.tag, typ: k.typ, ops: n.ops, lit: k.lit, typeArg: k.typeArg}, n)
	for i, op := range n.ops {
		m.pushUse(op, n, i)
	}
	return n
}

func assertFunc(n *Node) {
	assert.That(n.tag == Ofn, "expected a function node, got %s", n.tag)
}
