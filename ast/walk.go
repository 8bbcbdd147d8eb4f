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

package ast

// Visitor is called once per node during Walk; returning nil stops
// descent into the current node's children.
type Visitor interface {
	Visit(n Node) Visitor
}

// Walk traverses n depth-first, calling v.Visit for n and every
// descendant, mirroring expr.Visitor's shape in the teacher package.
func Walk(v Visitor, n Node) {
	if n == nil {
		return
	}
	v = v.Visit(n)
	if v == nil {
		return
	}
	switch n := n.(type) {
	case *File:
		for _, d := range n.Defs {
			Walk(v, d)
		}
	case *DefDecl:
		for _, p := range n.Params {
			Walk(v, p.Type)
		}
		Walk(v, n.RetType)
		Walk(v, n.Body)
	case *TypeExpr:
		for _, a := range n.Args {
			Walk(v, a)
		}
	case *UnaryExpr:
		Walk(v, n.X)
	case *BinaryExpr:
		Walk(v, n.X)
		Walk(v, n.Y)
	case *IfExpr:
		Walk(v, n.Cond)
		Walk(v, n.Then)
		Walk(v, n.Else)
	case *VarExpr:
		Walk(v, n.Value)
		Walk(v, n.Body)
	case *CallExpr:
		for _, a := range n.Args {
			Walk(v, a)
		}
	case *TupleExpr:
		for _, e := range n.Elems {
			Walk(v, e)
		}
	case *ExtractExpr:
		Walk(v, n.X)
	case *KnownExpr:
		Walk(v, n.X)
	case *Ident, *IntLit, *FloatLit, *BoolLit, *CharLit, *StrLit:
		// leaves
	}
}

// inspector adapts a plain func(Node) bool to a Visitor, the same
// convenience shape as ast.Inspect in the standard library's own
// go/ast package.
type inspector func(Node) bool

func (f inspector) Visit(n Node) Visitor {
	if f(n) {
		return f
	}
	return nil
}

// Inspect calls f for n and every descendant in depth-first order;
// f returning false prunes descent into that node's children.
func Inspect(n Node, f func(Node) bool) {
	Walk(inspector(f), n)
}
