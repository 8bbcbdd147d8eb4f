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

// Package mem2reg eliminates Alloc/Dealloc pairs whose pointer never
// escapes a function, grounded on
// original_source/src/mem2reg.c's flow. That original walks the
// memory thread itself to forward loads backward to the last store
// (try_resolve_load); this module's ir.Module.Load already performs
// the equivalent forwarding as part of ordinary node construction
// (see ir/mem.go), so by the time this pass runs, every load that
// can fold already has. What's left for this pass is exactly the
// part the core doesn't do on its own: once every load on a
// non-escaping pointer has folded away, the alloc/store/dealloc
// sequence threading memory state through for nothing can be spliced
// out of the memory chain entirely.
//
// Scope reduction versus mem2reg.c: this port only removes an
// alloc whose every load has already folded against a preceding
// store. mem2reg.c additionally resolves loads of truly
// uninitialized storage to Undef and walks back across intervening,
// unrelated stores (find_alloc/try_resolve_load); this module's core
// has no Offset node and a narrower aliasing model, so those cases
// are left as a possible extension rather than reimplemented.
package mem2reg

import "github.com/anf-ir/anf/ir"

// nonEscaping reports whether ptr (an Alloc's pointer result) is only
// ever used as the pointer operand of a Store, Load, or Dealloc —
// never passed around as a plain value, which would make its
// lifetime observable outside the function's memory thread.
func nonEscaping(ptr *ir.Node) bool {
	for _, u := range ptr.Uses() {
		switch u.User.Tag() {
		case ir.Ostore, ir.Oload:
			if u.Index != 1 {
				return false
			}
		case ir.Odealloc:
			if u.Index != 1 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// hasLiveLoad reports whether any not-yet-eliminated Oload node still
// reads through ptr — i.e. a load the core's own peephole forwarding
// in ir.Module.Load didn't already resolve away.
func hasLiveLoad(ptr *ir.Node) bool {
	for _, u := range ptr.Uses() {
		if u.User.Tag() == ir.Oload && u.User.Resolved() == u.User && u.Index == 1 {
			return true
		}
	}
	return false
}

// Run scans every function in m for Alloc nodes whose pointer result
// is non-escaping and whose loads have all already folded, and
// splices the alloc/store/dealloc sequence out of the memory chain.
// Reports whether anything changed.
func Run(m *ir.Module) bool {
	changed := false
	for _, fn := range m.Funcs() {
		for _, n := range m.Schedule(fn) {
			if n.Tag() != ir.Oalloc {
				continue
			}
			alloc := n
			ptr := m.Extract(alloc, 1)
			if !nonEscaping(ptr) || hasLiveLoad(ptr) {
				continue
			}

			for _, u := range ptr.Uses() {
				user := u.User
				if user.Resolved() != user {
					continue
				}
				switch user.Tag() {
				case ir.Ostore, ir.Odealloc:
					m.Replace(user, user.Operands()[0])
				}
			}

			memOut := m.Extract(alloc, 0)
			if memOut.Resolved() == memOut {
				m.Replace(memOut, alloc.Operands()[0])
			}
			changed = true
		}
	}
	return changed
}

// RunToFixpoint repeats Run until it stops making progress or
// maxIters passes have run: eliminating an outer alloc can make an
// inner one's mem chain shorter and easier to prove non-escaping in
// a subsequent pass, but never creates new allocs, so this always
// converges well inside a small iteration cap.
func RunToFixpoint(m *ir.Module, maxIters int) int {
	i := 0
	for ; i < maxIters; i++ {
		if !Run(m) {
			break
		}
	}
	return i
}
