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

package passes

import (
	"github.com/anf-ir/anf/ir"
	"github.com/anf-ir/anf/passes/flatten"
	"github.com/anf-ir/anf/passes/logicnorm"
	"github.com/anf-ir/anf/passes/mem2reg"
	"github.com/anf-ir/anf/passes/peval"
)

// Order selects one of the two pass orderings original_source's
// mod_opt left as an open strategy: specialize/flatten/promote first
// and canonicalize booleans last, or the reverse.
type Order int

const (
	// OrderEvalFirst specializes call sites, flattens tuple
	// parameters, and promotes memory to registers before
	// canonicalizing any remaining boolean expressions — the ordering
	// that lets logicnorm work over already-specialized conditions.
	OrderEvalFirst Order = iota
	// OrderLogicFirst canonicalizes booleans before running the other
	// three passes, which can expose more literal run-conditions to
	// peval (a DNF'd condition is more likely to contain a
	// directly-foldable literal term) at the cost of normalizing
	// conditions peval might otherwise have simplified away first.
	OrderLogicFirst
)

// RunAll repeatedly runs peval, flatten, mem2reg, and logicnorm (in
// the order o selects) to a fixpoint, then reports the total number of
// rounds that made progress. dnf selects disjunctive vs. conjunctive
// normal form for logicnorm.
func RunAll(m *ir.Module, o Order, dnf bool, maxRounds int) int {
	rounds := 0
	for ; rounds < maxRounds; rounds++ {
		var changed bool
		switch o {
		case OrderLogicFirst:
			changed = logicnorm.Run(m, dnf)
			changed = peval.Run(m) || changed
			changed = flatten.Run(m) || changed
			changed = mem2reg.Run(m) || changed
		default:
			changed = peval.Run(m)
			changed = flatten.Run(m) || changed
			changed = mem2reg.Run(m) || changed
			changed = logicnorm.Run(m, dnf) || changed
		}
		if !changed {
			break
		}
	}
	return rounds
}
