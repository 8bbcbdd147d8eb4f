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

// solveBoolImplication canonicalizes an and/or of two boolean-typed
// operands using a small entailment relation: if a entails b (a =>
// b always holds), a&b simplifies to a and a|b simplifies to b; if a
// entails not(b), a&b is always false and a|b is always true. This
// mirrors a traditional compiler's boolean simplifier without
// building a full SAT solver: it only recognizes syntactic
// subexpression sharing and a handful of comparison relationships
// between operands built from the same two values.
func (m *Module) solveBoolImplication(op Opcode, a, b *Node) (*Node, bool) {
	ar, br := a.Resolved(), b.Resolved()

	if entails(ar, br) {
		switch op {
		case Oand:
			return a, true
		case Oor:
			return b, true
		}
	}
	if entails(br, ar) {
		switch op {
		case Oand:
			return b, true
		case Oor:
			return a, true
		}
	}
	if contradicts(ar, br) {
		switch op {
		case Oand:
			return m.Bool(false), true
		case Oor:
			return m.Bool(true), true
		}
	}
	return nil, false
}

// entails reports whether p implies q: either p and q are the same
// node, p is not(q)'s negation target reversed (handled by
// contradicts, not here), or p and q are comparisons over the same
// two operands where p's relation is a strict subset of q's (e.g.
// cmplt(x,y) entails cmple(x,y)).
func entails(p, q *Node) bool {
	if p == q {
		return true
	}
	if !isCmp(p.tag) || !isCmp(q.tag) || p.ops[0] != q.ops[0] {
		return false
	}
	if p.ops[1] == q.ops[1] {
		switch p.tag {
		case Ocmpeq:
			return q.tag == Ocmpge || q.tag == Ocmple
		case Ocmplt:
			return q.tag == Ocmple || q.tag == Ocmpne
		case Ocmpgt:
			return q.tag == Ocmpge || q.tag == Ocmpne
		}
		return false
	}
	if p.ops[1].tag == Olit && q.ops[1].tag == Olit {
		return constEntails(p.tag, p.ops[1], q.tag, q.ops[1])
	}
	return false
}

// constEntails reports whether "x p.tag c1" implies "x q.tag c2" for
// every x, given that c1 and c2 are distinct literal constants of the
// same variable. Only sound, one-directional rules are encoded here:
// a false result never blocks a valid simplification elsewhere, but a
// true result must never be wrong, since this feeds directly into
// dropping an operand.
func constEntails(pTag Opcode, c1 *Node, qTag Opcode, c2 *Node) bool {
	lt, _ := foldCmp(Ocmplt, c1, c2)
	eq, _ := foldCmp(Ocmpeq, c1, c2)
	gt, _ := foldCmp(Ocmpgt, c1, c2)
	ge, le := gt || eq, lt || eq
	switch pTag {
	case Ocmpge:
		switch qTag {
		case Ocmpge:
			return ge
		}
	case Ocmpgt:
		switch qTag {
		case Ocmpge, Ocmpgt:
			return ge
		}
	case Ocmple:
		switch qTag {
		case Ocmple:
			return le
		}
	case Ocmplt:
		switch qTag {
		case Ocmple, Ocmplt:
			return le
		}
	case Ocmpeq:
		switch qTag {
		case Ocmpge:
			return ge
		case Ocmple:
			return le
		case Ocmpgt:
			return gt
		case Ocmplt:
			return lt
		case Ocmpne:
			return !eq
		}
	}
	return false
}

// contradicts reports whether p and q cannot both hold: p is the
// logical negation of q, or they are mutually exclusive ordered
// comparisons over the same two operands.
func contradicts(p, q *Node) bool {
	if p.tag == Onot && p.ops[0].Resolved() == q {
		return true
	}
	if q.tag == Onot && q.ops[0].Resolved() == p {
		return true
	}
	if !isCmp(p.tag) || !isCmp(q.tag) || p.ops[0] != q.ops[0] || p.ops[1] != q.ops[1] {
		return false
	}
	switch {
	case p.tag == Ocmpeq && q.tag == Ocmpne, p.tag == Ocmpne && q.tag == Ocmpeq:
		return true
	case p.tag == Ocmplt && (q.tag == Ocmpeq || q.tag == Ocmpgt || q.tag == Ocmpge):
		return true
	case p.tag == Ocmpgt && (q.tag == Ocmpeq || q.tag == Ocmplt || q.tag == Ocmple):
		return true
	}
	return false
}

func isCmp(op Opcode) bool {
	switch op {
	case Ocmpeq, Ocmpne, Ocmpgt, Ocmpge, Ocmplt, Ocmple:
		return true
	}
	return false
}

// Entails reports whether node p, assumed true, guarantees node q is
// also true. Exposed for use by passes that want to prune branches
// known-true from context (e.g. a select whose condition already
// appeared as a conjunct higher in the graph).
func Entails(p, q *Node) bool {
	return entails(p.Resolved(), q.Resolved())
}
