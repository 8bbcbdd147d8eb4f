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

	"github.com/anf-ir/anf/htable"
	"golang.org/x/crypto/blake2b"
)

// fingerprintOrder returns every node reachable from fn's body and
// run-condition in post-order, including literals, the parameter, and
// fn itself when it is reached as the parameter's operand — unlike
// Schedule, which omits those because they carry
// no emittable instruction. Fingerprint needs them anyway: a literal's
// value and a parameter's identity are exactly the content a rebuild
// fixed-point check must be sensitive to. It still does not descend
// past a nested function node into that function's own body; the
// caller visits every function in m.funcs independently.
func fingerprintOrder(fn *Node) []*Node {
	visited := htable.NewPtrSet[Node]()
	var order []*Node

	var visit func(n *Node)
	visit = func(n *Node) {
		n = n.Resolved()
		if !visited.Add(n) {
			return
		}
		if n.tag != Ofn {
			for _, op := range n.ops {
				visit(op)
			}
		}
		order = append(order, n)
	}

	visit(fn.RunCondition())
	visit(fn.Body())
	return order
}

// Fingerprint returns a content hash of m, keyed by its ID and, for
// each function, that function's full reachable node set and
// opcode/type/literal shape — stable across repeated calls on the
// same module regardless of interning table iteration order. Within
// this module it is called only by the ir package's own tests. Two
// independently-built modules with equal
// content but different IDs intentionally do not collide here; that
// would require comparing the per-function digests directly instead.
func (m *Module) Fingerprint() [32]byte {
	h, err := blake2b.New256(nil)
	if err != nil {
		panic(err) // only fails for an invalid key, and we pass none
	}
	h.Write(m.ID[:])
	for _, fn := range m.funcs {
		order := fingerprintOrder(fn)
		numbering := make(map[*Node]uint32, len(order))
		for i, n := range order {
			numbering[n] = uint32(i)
		}
		var buf8 [8]byte
		var buf4 [4]byte
		for _, n := range order {
			h.Write([]byte{byte(n.tag)})
			h.Write([]byte(n.typ.String()))
			if n.lit != nil {
				binary.LittleEndian.PutUint64(buf8[:], n.lit.rawBits())
				h.Write(buf8[:])
			}
			for _, op := range n.ops {
				idx, ok := numbering[op.Resolved()]
				if !ok {
					idx = ^uint32(0) // reference to a node outside this function's own schedule (e.g. a param's owning fn)
				}
				binary.LittleEndian.PutUint32(buf4[:], idx)
				h.Write(buf4[:])
			}
		}
	}
	var sum [32]byte
	copy(sum[:], h.Sum(nil))
	return sum
}
