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

// Package lower translates a checked ast.File into ir.Fn nodes,
// talking to the core exclusively through its public typed
// constructors (ir.Module.Add, ir.Module.Select, ...) the way
// spec.md's client contract requires — it never reaches into an
// ir.Node's internals directly. Grounded on the general shape of a
// one-pass AST-to-SSA lowering such as Sneller's expr-to-plan
// compilation, adapted here to target a hash-consed functional IR
// instead of a mutable plan tree.
package lower

import (
	"fmt"

	"github.com/anf-ir/anf/ast"
	"github.com/anf-ir/anf/check"
	"github.com/anf-ir/anf/diag"
	"github.com/anf-ir/anf/ir"
)

type lowerer struct {
	m     *ir.Module
	info  *check.Info
	errs  *diag.List
	fns   map[string]*ir.Node // def name -> forward-declared ir.Fn
	sigs  map[string]check.Sig
	scope map[string]*ir.Node // surface name -> ir.Node value, current def only
}

// Lower translates f into one ir.Fn per top-level def, returning them
// keyed by name. info must come from check.Check(m, f, errs) run
// against the same module and file. Every def is forward-declared
// before any body is lowered so that recursive and mutually
// recursive calls resolve correctly.
func Lower(m *ir.Module, f *ast.File, info *check.Info, errs *diag.List) map[string]*ir.Node {
	l := &lowerer{m: m, info: info, errs: errs, fns: map[string]*ir.Node{}, sigs: info.Sigs}

	for _, d := range f.Defs {
		sig := l.sigs[d.Name]
		l.fns[d.Name] = m.Fn(sig.Domain, sig.Codomain)
	}

	for _, d := range f.Defs {
		fn := l.fns[d.Name]
		sig := l.sigs[d.Name]
		l.scope = map[string]*ir.Node{}

		param := m.Param(fn)
		switch len(sig.ParamNames) {
		case 0:
			// zero-argument def: domain is tuple(), param carries no data.
		case 1:
			l.scope[sig.ParamNames[0]] = param
		default:
			for i, name := range sig.ParamNames {
				l.scope[name] = m.Extract(param, i)
			}
		}

		body := l.expr(d.Body)
		m.Rebind(fn, 0, body)
		// A def is eligible for unconditional inlining at specialization
		// time only when passes/peval separately proves it (a known()
		// argument at the call site, or a callee shape peval always
		// inlines); a plain literal argument is not enough. Absent that, the default
		// run-condition is "never unconditionally fire", the same
		// fail-closed choice original_source/src/eval.c falls back to
		// when its zero_cond path can't prove the substituted condition
		// literal.
		m.Rebind(fn, 1, m.Bool(false))
	}

	return l.fns
}

func (l *lowerer) expr(e ast.Expr) *ir.Node {
	switch e := e.(type) {
	case *ast.Ident:
		if v, ok := l.scope[e.Name]; ok {
			return v
		}
		l.errs.Errorf(e.Pos(), "internal: unresolved identifier %q survived checking", e.Name)
		return l.m.Bool(false)

	case *ast.IntLit:
		t := l.info.Types[e]
		if t.IsFloat() {
			if t.Tag() == ir.TF32 {
				return l.m.F32(float32(e.Value), t.FPFlags())
			}
			return l.m.F64(float64(e.Value), t.FPFlags())
		}
		if t.IsSigned() {
			return l.m.Int(ir.Bitwidth(t), int64(e.Value))
		}
		return l.m.Uint(ir.Bitwidth(t), e.Value)

	case *ast.FloatLit:
		t := l.info.Types[e]
		if t.Tag() == ir.TF32 {
			return l.m.F32(float32(e.Value), t.FPFlags())
		}
		return l.m.F64(e.Value, t.FPFlags())

	case *ast.BoolLit:
		return l.m.Bool(e.Value)

	case *ast.CharLit:
		t := l.info.Types[e]
		return l.m.Uint(ir.Bitwidth(t), uint64(e.Value))

	case *ast.StrLit:
		l.errs.Errorf(e.Pos(), "internal: string literal reached lowering")
		return l.m.Bool(false)

	case *ast.UnaryExpr:
		x := l.expr(e.X)
		switch e.Op {
		case ast.UnNot:
			return l.m.Not(x)
		case ast.UnNeg:
			return l.m.Sub(zeroLike(l.m, x.Type()), x)
		}
		panic("unreachable unary op")

	case *ast.BinaryExpr:
		return l.binary(e)

	case *ast.IfExpr:
		cond := l.expr(e.Cond)
		then := l.expr(e.Then)
		els := l.expr(e.Else)
		return l.m.Select(cond, then, els)

	case *ast.VarExpr:
		v := l.expr(e.Value)
		prev, had := l.scope[e.Name]
		l.scope[e.Name] = v
		body := l.expr(e.Body)
		if had {
			l.scope[e.Name] = prev
		} else {
			delete(l.scope, e.Name)
		}
		return body

	case *ast.CallExpr:
		fn := l.fns[e.Callee]
		arg := l.argTuple(e.Args)
		return l.m.App(fn, arg)

	case *ast.TupleExpr:
		ops := make([]*ir.Node, len(e.Elems))
		for i, el := range e.Elems {
			ops[i] = l.expr(el)
		}
		return l.m.Tuple(ops...)

	case *ast.ExtractExpr:
		return l.m.Extract(l.expr(e.X), e.Index)

	case *ast.KnownExpr:
		return l.m.Known(l.expr(e.X))
	}
	l.errs.Errorf(e.Pos(), "internal: unhandled expression kind %T in lowering", e)
	return l.m.Bool(false)
}

// argTuple lowers a call's argument list into the single ir value a
// def's one parameter slot expects, mirroring the same tupling
// DefDecl.Params sugars over at the declaration site.
func (l *lowerer) argTuple(args []ast.Expr) *ir.Node {
	if len(args) == 1 {
		return l.expr(args[0])
	}
	ops := make([]*ir.Node, len(args))
	for i, a := range args {
		ops[i] = l.expr(a)
	}
	return l.m.Tuple(ops...)
}

func (l *lowerer) binary(e *ast.BinaryExpr) *ir.Node {
	switch e.Op {
	case ast.BinLogAnd:
		return l.m.And(l.expr(e.X), l.expr(e.Y))
	case ast.BinLogOr:
		return l.m.Or(l.expr(e.X), l.expr(e.Y))
	}

	x, y := l.expr(e.X), l.expr(e.Y)
	switch e.Op {
	case ast.BinAdd:
		return l.m.Add(x, y)
	case ast.BinSub:
		return l.m.Sub(x, y)
	case ast.BinMul:
		return l.m.Mul(x, y)
	case ast.BinDiv:
		return l.m.Div(x, y)
	case ast.BinRem:
		return l.m.Rem(x, y)
	case ast.BinAnd:
		return l.m.And(x, y)
	case ast.BinOr:
		return l.m.Or(x, y)
	case ast.BinXor:
		return l.m.Xor(x, y)
	case ast.BinLshift:
		return l.m.Lshift(x, y)
	case ast.BinRshift:
		return l.m.Rshift(x, y)
	case ast.BinCmpEq:
		return l.m.Cmpeq(x, y)
	case ast.BinCmpNe:
		return l.m.Cmpne(x, y)
	case ast.BinCmpGt:
		return l.m.Cmpgt(x, y)
	case ast.BinCmpGe:
		return l.m.Cmpge(x, y)
	case ast.BinCmpLt:
		return l.m.Cmplt(x, y)
	case ast.BinCmpLe:
		return l.m.Cmple(x, y)
	}
	panic(fmt.Sprintf("unreachable binary op %v", e.Op))
}

func zeroLike(m *ir.Module, t *ir.Type) *ir.Node {
	switch {
	case t.Tag() == ir.TF32:
		return m.F32(0, t.FPFlags())
	case t.Tag() == ir.TF64:
		return m.F64(0, t.FPFlags())
	case t.IsSigned():
		return m.Int(ir.Bitwidth(t), 0)
	default:
		return m.Uint(ir.Bitwidth(t), 0)
	}
}
