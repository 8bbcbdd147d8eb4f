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

// Package peval implements partial evaluation / call-site
// specialization, a direct port of
// original_source/src/eval.c's partial_eval: an application
// App(fn, arg) is inlined (fn's body substituted for its parameter
// and spliced in at the call site) whenever fn is "always eligible"
// (should_always_inline / is_eta_convertible) or whenever fn's own
// run-condition, with the actual argument substituted for the
// parameter, folds to the literal true.
//
// One extension beyond eval.c: this port also consults ir.Oknown.
// The original source has no equivalent node — known() is this
// module's own hint for "treat this argument as fixed even though no
// run-condition proves it" — so an argument that is, or contains, a
// Known node is additionally eligible, with the Known wrapper
// stripped before substitution so ordinary constant folding sees the
// bare value underneath.
package peval

import (
	"github.com/anf-ir/anf/ir"
	"github.com/anf-ir/anf/passes"
)

// isFromExtract reports whether node is base, or a chain of
// Oextract nodes bottoming out at base — ports is_from_extract.
func isFromExtract(node, base *ir.Node) bool {
	node = node.Resolved()
	if node == base {
		return true
	}
	return node.Tag() == ir.Oextract && isFromExtract(node.Operands()[0], base)
}

// isTupleShuffle reports whether node is built purely out of
// extractions and retuplings of base — ports is_tuple_shuffle.
func isTupleShuffle(node, base *ir.Node) bool {
	if isFromExtract(node, base) {
		return true
	}
	node = node.Resolved()
	if node.Tag() != ir.Otuple {
		return false
	}
	for _, op := range node.Operands() {
		if !isTupleShuffle(op, base) {
			return false
		}
	}
	return true
}

// scopeSet is a membership test over a function's internal scope
// (the nodes computed inside it, as opposed to its free variables or
// other functions), built once per function from ir.Module.Scope.
type scopeSet map[*ir.Node]bool

func newScopeSet(m *ir.Module, fn *ir.Node) scopeSet {
	s := make(scopeSet)
	for _, n := range m.Scope(fn) {
		s[n] = true
	}
	return s
}

// isEtaConvertible ports is_eta_convertible: fn is eligible whenever
// its entire body is a single call forwarding a shuffled version of
// its own parameter to another function that isn't itself part of
// fn's scope (inlining it wouldn't smuggle a scoped helper out to the
// caller).
func isEtaConvertible(m *ir.Module, fn *ir.Node, scope scopeSet) bool {
	app := fn.Body()
	if app.Tag() != ir.Oapp {
		return false
	}
	param := m.Param(fn)
	ops := app.Operands()
	if !isTupleShuffle(ops[1], param) {
		return false
	}
	if isFromExtract(ops[0], param) {
		return true
	}
	if ops[0].Resolved().Tag() != ir.Ofn {
		return false
	}
	return !scope[ops[0].Resolved()]
}

// shouldAlwaysInline ports should_always_inline: fn has at most one
// non-parameter use (so inlining it doesn't duplicate computation
// across call sites) and its body doesn't depend on anything in its
// own scope being preserved as a distinct unit.
func shouldAlwaysInline(fn *ir.Node, scope scopeSet) bool {
	n := 0
	for _, u := range fn.Uses() {
		if u.User.Tag() != ir.Oparam {
			n++
			if n > 1 {
				return false
			}
		}
	}
	return !scope[fn.Body()]
}

// containsKnown reports whether arg is, or structurally contains (through
// tupling), an ir.Oknown node — this module's extension to eval.c's
// run-condition test.
func containsKnown(n *ir.Node) bool {
	n = n.Resolved()
	switch n.Tag() {
	case ir.Oknown:
		return true
	case ir.Otuple:
		for _, op := range n.Operands() {
			if containsKnown(op) {
				return true
			}
		}
	}
	return false
}

// stripKnown rewrites n, replacing every Oknown node with its
// wrapped operand, so that values the source program marked known()
// participate in ordinary constant folding once substituted in.
func stripKnown(m *ir.Module, n *ir.Node) *ir.Node {
	return passes.Rewrite(m, n, func(n *ir.Node) *ir.Node {
		if n.Tag() == ir.Oknown {
			return n.Operands()[0]
		}
		return nil
	})
}

// isLiteralTrue reports whether n resolves to the boolean literal
// true.
func isLiteralTrue(n *ir.Node) bool {
	n = n.Resolved()
	return n.Tag() == ir.Olit && n.Literal().Bool()
}

// isLiteralFalse reports whether n resolves to the boolean literal
// false.
func isLiteralFalse(n *ir.Node) bool {
	n = n.Resolved()
	return n.Tag() == ir.Olit && !n.Literal().Bool()
}

// Run makes one pass over every function in m, inlining eligible
// call sites, and reports whether anything changed. Grounded
// directly on partial_eval's two-phase shape: gather eligible apps
// first (against each function's ORIGINAL body), then specialize,
// so an inlining decision for one call site never changes what's
// eligible at another in the same pass.
func Run(m *ir.Module) bool {
	type job struct {
		app *ir.Node
		fn  *ir.Node
	}
	var jobs []job

	for _, fn := range m.Funcs() {
		scope := newScopeSet(m, fn)
		runCond := fn.RunCondition()
		alwaysInline := isLiteralTrue(runCond) || shouldAlwaysInline(fn, scope) || isEtaConvertible(m, fn, scope)
		zeroCond := isLiteralFalse(runCond)
		param := m.Param(fn)

		for _, u := range fn.Uses() {
			if u.Index != 0 || u.User.Resolved() != u.User || u.User.Tag() != ir.Oapp {
				continue
			}
			app := u.User
			arg := app.Operands()[1]

			run := alwaysInline
			if !run && containsKnown(arg) {
				run = true
			}
			if !run && !zeroCond {
				cond := passes.Substitute(m, runCond, param, arg)
				run = isLiteralTrue(cond)
			}
			if run {
				jobs = append(jobs, job{app: app, fn: fn})
			}
		}
	}

	changed := false
	var prevFn *ir.Node
	var fvs map[*ir.Node]bool
	for _, j := range jobs {
		app := j.app.Resolved()
		if app.Tag() != ir.Oapp {
			continue // already rewritten by an earlier job this pass
		}
		fn := j.fn
		if fn != prevFn {
			fvs = make(map[*ir.Node]bool)
			for _, n := range m.FreeVars(fn) {
				fvs[n] = true
			}
			prevFn = fn
		}
		param := m.Param(fn)
		arg := stripKnown(m, app.Operands()[1])
		body := passes.Substitute(m, fn.Body(), param, arg)
		m.Replace(app, body)
		changed = true
	}
	return changed
}

// RunToFixpoint repeatedly calls Run until it reports no further
// change or maxIters passes have run, and returns the number of
// passes that made progress. A source program whose recursion never
// bottoms out on a literal can in principle keep this from
// converging, the same risk original_source/src/eval.c accepts by
// running partial_eval in a fixpoint driver of its own (mod_opt);
// maxIters exists purely as a pragmatic backstop against that.
func RunToFixpoint(m *ir.Module, maxIters int) int {
	i := 0
	for ; i < maxIters; i++ {
		if !Run(m) {
			break
		}
	}
	return i
}
