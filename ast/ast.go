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

// Package ast defines the surface-language syntax tree produced by
// the parser and consumed by the checker and lowering pass. It is
// deliberately separate from ir.Node: the AST carries source
// positions and unresolved names, neither of which the hash-consed
// IR has any use for.
package ast

import "github.com/anf-ir/anf/diag"

// Node is implemented by every AST node.
type Node interface {
	Pos() diag.Position
}

// TypeExpr is a type name with optional operand types, e.g. "i32",
// "ptr(i32)", "tuple(i32,bool)".
type TypeExpr struct {
	NamePos diag.Position
	Name    string
	Args    []*TypeExpr
}

func (t *TypeExpr) Pos() diag.Position { return t.NamePos }

// Param is one formal parameter of a def.
type Param struct {
	NamePos diag.Position
	Name    string
	Type    *TypeExpr
}

// File is a parsed compilation unit: an ordered list of top-level
// function definitions.
type File struct {
	Defs []*DefDecl
}

// Pos returns the position of the first def, or the zero Position
// for an empty file.
func (f *File) Pos() diag.Position {
	if len(f.Defs) > 0 {
		return f.Defs[0].Pos()
	}
	return diag.Position{}
}

// DefDecl declares a top-level function. Multiple surface parameters
// are sugar over a single IR parameter of tuple type — see
// lower.Lower — mirroring the original source's single `param` slot
// per def/lambda (ast.h's def/lambda fields).
type DefDecl struct {
	DeclPos diag.Position
	Name    string
	Params  []*Param
	RetType *TypeExpr
	Body    Expr
}

func (d *DefDecl) Pos() diag.Position { return d.DeclPos }

// Expr is implemented by every expression node.
type Expr interface {
	Node
	exprNode()
}

type Ident struct {
	IdentPos diag.Position
	Name     string
}

func (n *Ident) Pos() diag.Position { return n.IdentPos }
func (*Ident) exprNode()            {}

type IntLit struct {
	LitPos diag.Position
	Value  uint64
}

func (n *IntLit) Pos() diag.Position { return n.LitPos }
func (*IntLit) exprNode()            {}

type FloatLit struct {
	LitPos diag.Position
	Value  float64
}

func (n *FloatLit) Pos() diag.Position { return n.LitPos }
func (*FloatLit) exprNode()            {}

type BoolLit struct {
	LitPos diag.Position
	Value  bool
}

func (n *BoolLit) Pos() diag.Position { return n.LitPos }
func (*BoolLit) exprNode()            {}

type CharLit struct {
	LitPos diag.Position
	Value  byte
}

func (n *CharLit) Pos() diag.Position { return n.LitPos }
func (*CharLit) exprNode()            {}

type StrLit struct {
	LitPos diag.Position
	Value  string
}

func (n *StrLit) Pos() diag.Position { return n.LitPos }
func (*StrLit) exprNode()            {}

// UnaryOp identifies a prefix unary operator.
type UnaryOp int

const (
	UnNot UnaryOp = iota
	UnNeg
)

type UnaryExpr struct {
	OpPos diag.Position
	Op    UnaryOp
	X     Expr
}

func (n *UnaryExpr) Pos() diag.Position { return n.OpPos }
func (*UnaryExpr) exprNode()            {}

// BinOp identifies an infix binary operator.
type BinOp int

const (
	BinAdd BinOp = iota
	BinSub
	BinMul
	BinDiv
	BinRem
	BinAnd
	BinOr
	BinXor
	BinLshift
	BinRshift
	BinLogAnd
	BinLogOr
	BinCmpEq
	BinCmpNe
	BinCmpGt
	BinCmpGe
	BinCmpLt
	BinCmpLe
)

type BinaryExpr struct {
	OpPos diag.Position
	Op    BinOp
	X, Y  Expr
}

func (n *BinaryExpr) Pos() diag.Position { return n.OpPos }
func (*BinaryExpr) exprNode()            {}

type IfExpr struct {
	IfPos            diag.Position
	Cond, Then, Else Expr
}

func (n *IfExpr) Pos() diag.Position { return n.IfPos }
func (*IfExpr) exprNode()            {}

// VarExpr is a `var name = Value; Body` let-binding: Value is bound
// to Name within the scope of Body.
type VarExpr struct {
	VarPos diag.Position
	Name   string
	Value  Expr
	Body   Expr
}

func (n *VarExpr) Pos() diag.Position { return n.VarPos }
func (*VarExpr) exprNode()            {}

// CallExpr applies the def named Callee to Args, one expression per
// surface parameter. Lowering packs more than one argument into a
// single tuple value (lower.argTuple), mirroring DefDecl.Params.
type CallExpr struct {
	CallPos diag.Position
	Callee  string
	Args    []Expr
}

func (n *CallExpr) Pos() diag.Position { return n.CallPos }
func (*CallExpr) exprNode()            {}

// TupleExpr is a parenthesized, comma-separated expression list.
type TupleExpr struct {
	LParenPos diag.Position
	Elems     []Expr
}

func (n *TupleExpr) Pos() diag.Position { return n.LParenPos }
func (*TupleExpr) exprNode()            {}

// ExtractExpr reads field/element Index of aggregate X (surface
// syntax `x.0`).
type ExtractExpr struct {
	DotPos diag.Position
	X      Expr
	Index  int
}

func (n *ExtractExpr) Pos() diag.Position { return n.DotPos }
func (*ExtractExpr) exprNode()            {}

// KnownExpr wraps X as a specialization hint (surface syntax
// `known(x)`), lowered directly to ir.Module.Known.
type KnownExpr struct {
	KnownPos diag.Position
	X        Expr
}

func (n *KnownExpr) Pos() diag.Position { return n.KnownPos }
func (*KnownExpr) exprNode()            {}
