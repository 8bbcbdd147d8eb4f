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

// Package passes holds the IR-to-IR optimization passes layered on
// top of the core (partial evaluation, tuple flattening, mem2reg,
// logic normalization), referenced by spec.md §1 only as clients of
// the core. The passes themselves live in subpackages
// (passes/peval, passes/flatten, passes/mem2reg, passes/logicnorm);
// this package holds the RunAll driver and a generic
// substitute-and-rebuild walk used by peval and flatten, grounded on
// original_source/src/node.c's node_rewrite, which every one of
// eval.c/flatten.c/mem2reg.c/logic.c calls into rather than
// reimplementing its own graph walk.
package passes

import "github.com/anf-ir/anf/ir"

// Substitute rewrites root, replacing every occurrence of from with
// to and reconstructing every node on the path between them through
// Module.Rebuild so the core's own peephole engine re-runs against
// the new operands — a node that wasn't foldable when originally
// built may become so now that one of its operands changed identity.
//
// It does not descend into a nested function node's own operand
// list (mirroring Module.Schedule): a function is a separate unit of
// specialization, rewritten independently if at all.
func Substitute(m *ir.Module, root, from, to *ir.Node) *ir.Node {
	memo := map[*ir.Node]*ir.Node{}
	var rewrite func(n *ir.Node) *ir.Node
	rewrite = func(n *ir.Node) *ir.Node {
		n = n.Resolved()
		if n == from {
			return to
		}
		if v, ok := memo[n]; ok {
			return v
		}
		var out *ir.Node
		switch n.Tag() {
		case ir.Olit, ir.Oundef, ir.Oparam, ir.Ofn:
			out = n
		default:
			ops := n.Operands()
			newOps := make([]*ir.Node, len(ops))
			changed := false
			for i, op := range ops {
				r := rewrite(op)
				newOps[i] = r
				if r != op {
					changed = true
				}
			}
			if changed {
				out = m.Rebuild(n, newOps)
			} else {
				out = n
			}
		}
		memo[n] = out
		return out
	}
	return rewrite(root)
}

// Rewrite is a generalization of Substitute driven by an arbitrary
// per-node replacement function instead of a single (from, to) pair;
// used by passes/peval to transform every node matching a shape
// rather than one specific node.
//
// replace is called bottom-up, after operands have already been
// rewritten; returning nil keeps the rebuilt node as-is.
func Rewrite(m *ir.Module, root *ir.Node, replace func(n *ir.Node) *ir.Node) *ir.Node {
	memo := map[*ir.Node]*ir.Node{}
	var walk func(n *ir.Node) *ir.Node
	walk = func(n *ir.Node) *ir.Node {
		n = n.Resolved()
		if v, ok := memo[n]; ok {
			return v
		}
		var out *ir.Node
		switch n.Tag() {
		case ir.Olit, ir.Oundef, ir.Oparam, ir.Ofn:
			out = n
		default:
			ops := n.Operands()
			newOps := make([]*ir.Node, len(ops))
			changed := false
			for i, op := range ops {
				r := walk(op)
				newOps[i] = r
				if r != op {
					changed = true
				}
			}
			if changed {
				out = m.Rebuild(n, newOps)
			} else {
				out = n
			}
		}
		memo[n] = out
		if repl := replace(out); repl != nil {
			out = repl
			memo[n] = out
		}
		return out
	}
	return walk(root)
}
