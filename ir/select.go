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

// Select chooses onTrue or onFalse according to cond, folding when
// cond is a literal, when cond is undef (onTrue is returned, since an
// unevaluated condition may not be branched on), when the two
// branches are the same node, or when one branch is itself a select
// on the same condition (nested select collapsing).
func (m *Module) Select(cond, onTrue, onFalse *Node) *Node {
	assert.That(cond.typ.Tag() == TBool, "Select: condition must be boolean, got %s", cond.typ)
	assert.That(onTrue.typ == onFalse.typ, "Select: branch type mismatch %s vs %s", onTrue.typ, onFalse.typ)

	cr := cond.Resolved()
	if cr.tag == Olit {
		if cr.lit.Bool() {
			return onTrue
		}
		return onFalse
	}
	if cr.tag == Oundef {
		return onTrue
	}
	if onTrue == onFalse {
		return onTrue
	}
	if cr.tag == Onot {
		return m.Select(cr.ops[0], onFalse, onTrue)
	}

	tr := onTrue.Resolved()
	if tr.tag == Oselect && tr.ops[0] == cond {
		return m.Select(cond, tr.ops[1], onFalse)
	}
	fr := onFalse.Resolved()
	if fr.tag == Oselect && fr.ops[0] == cond {
		return m.Select(cond, onTrue, fr.ops[2])
	}

	if onTrue.typ.Tag() == TBool {
		tLit, tIsLit := literalBool(tr)
		fLit, fIsLit := literalBool(fr)
		if tIsLit && fIsLit {
			if tLit && !fLit {
				return cond
			}
			if !tLit && fLit {
				return m.Not(cond)
			}
		}
		if tIsLit && tLit {
			return m.Or(cond, onFalse)
		}
		if fIsLit && !fLit {
			return m.And(cond, onTrue)
		}
	}

	return m.internNode(nodeKey{tag: Oselect, typ: onTrue.typ, ops: []*Node{cond, onTrue, onFalse}}, nil)
}

func literalBool(n *Node) (bool, bool) {
	if n.tag != Olit {
		return false, false
	}
	return n.lit.Bool(), true
}
