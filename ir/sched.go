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

import "github.com/anf-ir/anf/htable"

// Schedule returns fn's reachable computation nodes in a post-order
// (operands before users) linearization rooted at its body and
// run-condition, suitable for a backend that must emit each value's
// defining instruction before any of its uses.
//
// Literals, parameters, and function nodes are not emitted into the
// schedule: they name a constant, an implicit argument binding, and a
// nested definition respectively, not a step of computation. Schedule
// does not descend into a nested function's operand list either — a
// param's only operand is its owning function, and re-entering that
// function's own body from here would duplicate work a separate call
// to Schedule on that nested function already does. Walk
// Module.Funcs to schedule every function in a module.
func (m *Module) Schedule(fn *Node) []*Node {
	assertFunc(fn)
	visited := htable.NewPtrSet[Node]()
	var order []*Node

	var visit func(n *Node)
	visit = func(n *Node) {
		n = n.Resolved()
		if !visited.Add(n) {
			return
		}
		switch n.tag {
		case Olit, Oundef, Oparam, Ofn:
			return
		}
		for _, op := range n.ops {
			visit(op)
		}
		order = append(order, n)
	}

	visit(fn.RunCondition())
	visit(fn.Body())
	return order
}
