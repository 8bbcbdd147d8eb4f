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

// Opcode tags a Node's operation.
type Opcode uint16

const (
	Oinvalid Opcode = iota

	Olit  // literal value, payload carries it
	Oundef

	Otuple
	Oarray
	Ostruct
	Oextract
	Oinsert

	Obitcast
	Oextend
	Otrunc
	Oitof
	Oftoi

	Oadd
	Osub
	Omul
	Odiv
	Orem

	Oand
	Oor
	Oxor
	Olshift
	Orshift
	Onot

	Ocmpeq
	Ocmpne
	Ocmpgt
	Ocmpge
	Ocmplt
	Ocmple

	Oalloc
	Odealloc
	Oload
	Ostore

	Oselect
	Oknown

	Ofn
	Oparam
	Oapp
	Otapp
)

func (o Opcode) String() string {
	names := [...]string{
		Oinvalid: "invalid", Olit: "lit", Oundef: "undef",
		Otuple: "tuple", Oarray: "array", Ostruct: "struct",
		Oextract: "extract", Oinsert: "insert",
		Obitcast: "bitcast", Oextend: "extend", Otrunc: "trunc", Oitof: "itof", Oftoi: "ftoi",
		Oadd: "add", Osub: "sub", Omul: "mul", Odiv: "div", Orem: "rem",
		Oand: "and", Oor: "or", Oxor: "xor", Olshift: "lshift", Orshift: "rshift", Onot: "not",
		Ocmpeq: "cmpeq", Ocmpne: "cmpne", Ocmpgt: "cmpgt", Ocmpge: "cmpge", Ocmplt: "cmplt", Ocmple: "cmple",
		Oalloc: "alloc", Odealloc: "dealloc", Oload: "load", Ostore: "store",
		Oselect: "select", Oknown: "known",
		Ofn: "fn", Oparam: "param", Oapp: "app", Otapp: "tapp",
	}
	if int(o) < len(names) && names[o] != "" {
		return names[o]
	}
	return "<bad-op>"
}

// isCommutative reports whether o's operand order doesn't affect
// its meaning.
func (o Opcode) isCommutative() bool {
	switch o {
	case Oadd, Omul, Oand, Oor, Oxor:
		return true
	}
	return false
}

// Debug is optional per-node source-position and naming
// information. The constructors in this package always pass a nil
// Debug, and lowering attaches none, so Node.Debug is nil for the
// nodes they build.
type Debug struct {
	File string
	Name string
	Line int
	Col  int
}

// FnFlags are per-function-node flags (inlining hints, etc.); the
// core treats them as opaque payload.
type FnFlags uint32

// useEdge is one entry in a node's use-list: a single occurrence of
// that node as operand Idx of User. A node used twice by the same
// user gets two edges, one per occurrence.
type useEdge struct {
	user *Node
	idx  int
	next *useEdge
}

// Node is a tagged IR value. Non-function nodes are interned by
// (tag, type, operands, payload) — two such nodes are the same
// address iff structurally equal. Function nodes are never interned
// and may have their operand slots rebound after construction.
type Node struct {
	tag Opcode
	typ *Type
	ops []*Node
	dbg *Debug

	lit     *Literal // payload when tag == Olit
	fnFlags FnFlags  // payload when tag == Ofn
	typeArg *Type    // payload when tag == Otapp

	uses *useEdge
	rep  *Node
}

func (n *Node) Tag() Opcode      { return n.tag }
func (n *Node) Type() *Type      { return n.typ }
func (n *Node) Operands() []*Node { return n.ops }
func (n *Node) Debug() *Debug    { return n.dbg }

func (n *Node) Literal() *Literal {
	return n.lit
}

func (n *Node) FnFlags() FnFlags {
	return n.fnFlags
}

// TypeArg returns the type argument of a tapp node.
func (n *Node) TypeArg() *Type {
	return n.typeArg
}

// IsFunc reports whether n is a function node (un-interned, mutable
// operand slots).
func (n *Node) IsFunc() bool { return n.tag == Ofn }

// Resolved walks n's replacement chain to its terminus and returns
// that node. Every reader that might observe a stale node after a
// rewrite pass has run Replace must call Resolved before inspecting
// a node's operands or type.
func (n *Node) Resolved() *Node {
	for n.rep != nil {
		n = n.rep
	}
	return n
}

// Body returns a function node's body operand (post-replacement).
func (n *Node) Body() *Node {
	assertFunc(n)
	return n.ops[0].Resolved()
}

// RunCondition returns a function node's run-condition operand
// (post-replacement).
func (n *Node) RunCondition() *Node {
	assertFunc(n)
	return n.ops[1].Resolved()
}
