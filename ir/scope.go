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

// Scope returns the set of nodes that transitively use fn's
// parameter: fn itself, param(fn), every node reachable by following
// use-list edges forward from param(fn) to a fixed point, and, for
// every nested function discovered that way, that function's own
// param as well (a nested function's param has no use of the
// enclosing param itself, so it would never otherwise be swept in by
// the flood).
//
// The direction matters: this floods forward over USES (who
// references this value), not over operands (what this value
// references) — the opposite of a dependency walk like Schedule.
func (m *Module) Scope(fn *Node) []*Node {
	assertFunc(fn)
	visited := htable.NewPtrSet[Node]()
	var scope []*Node

	add := func(n *Node) bool {
		if visited.Add(n) {
			scope = append(scope, n)
			return true
		}
		return false
	}

	add(fn)
	p := m.Param(fn)
	add(p)

	queue := []*Node{p}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		for _, u := range n.Uses() {
			user := u.User
			if !add(user) {
				continue
			}
			queue = append(queue, user)
			if user.tag == Ofn {
				if pg := m.Param(user); add(pg) {
					queue = append(queue, pg)
				}
			}
		}
	}
	return scope
}

// FreeVars returns fn's free variables: the param and fn nodes
// referenced as operands of some node in Scope(fn) that are not
// themselves in that scope. A reference to a nested function's own
// param is bound there (it's in the nested function's own scope, but
// that scope is a separate question); a reference to an enclosing
// function's param is free with respect to fn.
func (m *Module) FreeVars(fn *Node) []*Node {
	scope := m.Scope(fn)
	inScope := htable.NewPtrSet[Node]()
	for _, n := range scope {
		inScope.Add(n)
	}

	seen := htable.NewPtrSet[Node]()
	var free []*Node
	for _, n := range scope {
		for _, op := range n.Operands() {
			r := op.Resolved()
			if (r.tag != Oparam && r.tag != Ofn) || inScope.Contains(r) {
				continue
			}
			if seen.Add(r) {
				free = append(free, r)
			}
		}
	}
	return free
}

// Closed reports whether fn has no free variables: it can be
// evaluated (or lifted to a top-level function) without capturing
// anything from an enclosing scope.
func (m *Module) Closed(fn *Node) bool {
	return len(m.FreeVars(fn)) == 0
}
