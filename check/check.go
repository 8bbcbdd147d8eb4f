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

// Package check implements a minimal surface-language type checker,
// grounded on original_source/src/check.c. It assigns every ast.Expr
// an ir.Type by reusing ir.Type construction directly rather than
// building a parallel type representation — the checker and the IR
// share one type system, the way check.c and node.c share anf.h's
// type_t.
package check

import (
	"github.com/anf-ir/anf/ast"
	"github.com/anf-ir/anf/diag"
	"github.com/anf-ir/anf/ir"
)

// Sig is a checked def's resolved signature.
type Sig struct {
	ParamNames []string
	ParamTypes []*ir.Type
	Domain     *ir.Type // tuple(ParamTypes...), collapsed per ir.TupleType's tuple(T)=T rule
	Codomain   *ir.Type
}

// Info is the result of Check: every expression's resolved type, plus
// every def's resolved signature, keyed by name.
type Info struct {
	Types map[ast.Expr]*ir.Type
	Sigs  map[string]Sig
}

type checker struct {
	m     *ir.Module
	errs  *diag.List
	info  *Info
	scope map[string]*ir.Type
}

// Check type-checks f against module m, resolving every TypeExpr
// through m's type constructors and assigning every ast.Expr a type.
// Errors are accumulated into errs rather than aborting; Info is
// still safe to pass to lower.Lower afterward (unresolved spots get
// m.TopType() as a placeholder so lowering has something to chew on
// without panicking on a nil type).
func Check(m *ir.Module, f *ast.File, errs *diag.List) *Info {
	c := &checker{m: m, errs: errs, info: &Info{Types: map[ast.Expr]*ir.Type{}, Sigs: map[string]Sig{}}}

	for _, d := range f.Defs {
		names := make([]string, len(d.Params))
		types := make([]*ir.Type, len(d.Params))
		for i, p := range d.Params {
			names[i] = p.Name
			types[i] = c.resolveType(p.Type)
		}
		if _, dup := c.info.Sigs[d.Name]; dup {
			errs.Errorf(d.Pos(), "duplicate definition of %q", d.Name)
			continue
		}
		c.info.Sigs[d.Name] = Sig{
			ParamNames: names,
			ParamTypes: types,
			Domain:     m.TupleType(types...),
			Codomain:   c.resolveType(d.RetType),
		}
	}

	for _, d := range f.Defs {
		sig := c.info.Sigs[d.Name]
		c.scope = map[string]*ir.Type{}
		for i, name := range sig.ParamNames {
			c.scope[name] = sig.ParamTypes[i]
		}
		bodyT := c.expr(d.Body, sig.Codomain)
		if bodyT != sig.Codomain {
			errs.Errorf(d.Body.Pos(), "def %q: body has type %s, expected %s", d.Name, bodyT, sig.Codomain)
		}
	}

	return c.info
}

var primNames = map[string]func(*ir.Module) *ir.Type{
	"bool": (*ir.Module).BoolType,
	"i1":   func(m *ir.Module) *ir.Type { return m.IntType(1) },
	"i8":   func(m *ir.Module) *ir.Type { return m.IntType(8) },
	"i16":  func(m *ir.Module) *ir.Type { return m.IntType(16) },
	"i32":  func(m *ir.Module) *ir.Type { return m.IntType(32) },
	"i64":  func(m *ir.Module) *ir.Type { return m.IntType(64) },
	"u8":   func(m *ir.Module) *ir.Type { return m.UintType(8) },
	"u16":  func(m *ir.Module) *ir.Type { return m.UintType(16) },
	"u32":  func(m *ir.Module) *ir.Type { return m.UintType(32) },
	"u64":  func(m *ir.Module) *ir.Type { return m.UintType(64) },
	"mem":  (*ir.Module).MemType,
	"top":  (*ir.Module).TopType,
}

var fpFlagNames = map[string]ir.FPFlags{
	"assoc":      ir.FPAssoc,
	"reciprocal": ir.FPReciprocal,
	"noinf":      ir.FPNoInf,
	"nonan":      ir.FPNoNaN,
}

// resolveType resolves a surface TypeExpr to its canonical ir.Type,
// reporting and returning ir.TopType() on an unknown name so callers
// downstream of a bad type annotation still have something to work
// with.
func (c *checker) resolveType(te *ast.TypeExpr) *ir.Type {
	if te == nil {
		return c.m.TopType()
	}
	switch te.Name {
	case "f32", "f64":
		var flags ir.FPFlags
		for _, a := range te.Args {
			if bit, ok := fpFlagNames[a.Name]; ok {
				flags |= bit
				continue
			}
			c.errs.Errorf(a.Pos(), "unknown float flag %q", a.Name)
		}
		bits := 32
		if te.Name == "f64" {
			bits = 64
		}
		return c.m.FloatType(bits, flags)
	case "ptr":
		if len(te.Args) != 1 {
			c.errs.Errorf(te.Pos(), "ptr requires exactly one type argument")
			return c.m.TopType()
		}
		return c.m.PtrType(c.resolveType(te.Args[0]))
	case "array":
		if len(te.Args) != 1 {
			c.errs.Errorf(te.Pos(), "array requires exactly one type argument")
			return c.m.TopType()
		}
		return c.m.ArrayType(c.resolveType(te.Args[0]))
	case "tuple":
		ops := make([]*ir.Type, len(te.Args))
		for i, a := range te.Args {
			ops[i] = c.resolveType(a)
		}
		return c.m.TupleType(ops...)
	}
	if f, ok := primNames[te.Name]; ok {
		return f(c.m)
	}
	c.errs.Errorf(te.Pos(), "unknown type %q", te.Name)
	return c.m.TopType()
}

func (c *checker) set(e ast.Expr, t *ir.Type) *ir.Type {
	c.info.Types[e] = t
	return t
}

// expr type-checks e, using hint (if non-nil) to resolve an
// otherwise-ambiguous literal's width — e.g. in `x + 1`, the literal
// 1 is checked against x's type rather than defaulting.
func (c *checker) expr(e ast.Expr, hint *ir.Type) *ir.Type {
	switch e := e.(type) {
	case *ast.Ident:
		if t, ok := c.scope[e.Name]; ok {
			return c.set(e, t)
		}
		c.errs.Errorf(e.Pos(), "undefined identifier %q", e.Name)
		return c.set(e, c.m.TopType())

	case *ast.IntLit:
		if hint != nil && (hint.IsInteger() || hint.IsFloat()) {
			return c.set(e, hint)
		}
		return c.set(e, c.m.IntType(32))

	case *ast.FloatLit:
		if hint != nil && hint.IsFloat() {
			return c.set(e, hint)
		}
		return c.set(e, c.m.FloatType(64, 0))

	case *ast.BoolLit:
		return c.set(e, c.m.BoolType())

	case *ast.CharLit:
		if hint != nil && hint.IsInteger() {
			return c.set(e, hint)
		}
		return c.set(e, c.m.UintType(8))

	case *ast.StrLit:
		c.errs.Errorf(e.Pos(), "string literals have no IR type; unsupported outside the lexer")
		return c.set(e, c.m.TopType())

	case *ast.UnaryExpr:
		xt := c.expr(e.X, hint)
		return c.set(e, xt)

	case *ast.BinaryExpr:
		return c.set(e, c.binary(e, hint))

	case *ast.IfExpr:
		c.expr(e.Cond, c.m.BoolType())
		thenT := c.expr(e.Then, hint)
		elseT := c.expr(e.Else, thenT)
		if thenT != elseT {
			c.errs.Errorf(e.Pos(), "if branches have mismatched types %s vs %s", thenT, elseT)
		}
		return c.set(e, thenT)

	case *ast.VarExpr:
		vt := c.expr(e.Value, nil)
		prev, had := c.scope[e.Name]
		c.scope[e.Name] = vt
		bt := c.expr(e.Body, hint)
		if had {
			c.scope[e.Name] = prev
		} else {
			delete(c.scope, e.Name)
		}
		return c.set(e, bt)

	case *ast.CallExpr:
		sig, ok := c.info.Sigs[e.Callee]
		if !ok {
			c.errs.Errorf(e.Pos(), "call to undefined def %q", e.Callee)
			return c.set(e, c.m.TopType())
		}
		if len(e.Args) != len(sig.ParamTypes) {
			c.errs.Errorf(e.Pos(), "%q expects %d argument(s), got %d", e.Callee, len(sig.ParamTypes), len(e.Args))
		}
		for i, a := range e.Args {
			if i < len(sig.ParamTypes) {
				c.expr(a, sig.ParamTypes[i])
			} else {
				c.expr(a, nil)
			}
		}
		return c.set(e, sig.Codomain)

	case *ast.TupleExpr:
		var hints []*ir.Type
		if hint != nil && hint.Tag() == ir.TTuple && len(hint.Operands()) == len(e.Elems) {
			hints = hint.Operands()
		}
		ops := make([]*ir.Type, len(e.Elems))
		for i, el := range e.Elems {
			var h *ir.Type
			if hints != nil {
				h = hints[i]
			}
			ops[i] = c.expr(el, h)
		}
		return c.set(e, c.m.TupleType(ops...))

	case *ast.ExtractExpr:
		xt := c.expr(e.X, nil)
		switch xt.Tag() {
		case ir.TTuple, ir.TStruct:
			if e.Index < 0 || e.Index >= len(xt.Operands()) {
				c.errs.Errorf(e.Pos(), "index %d out of range for %s", e.Index, xt)
				return c.set(e, c.m.TopType())
			}
			return c.set(e, xt.Operands()[e.Index])
		case ir.TArray:
			return c.set(e, xt.Operands()[0])
		}
		c.errs.Errorf(e.Pos(), "cannot extract from non-aggregate type %s", xt)
		return c.set(e, c.m.TopType())

	case *ast.KnownExpr:
		xt := c.expr(e.X, hint)
		return c.set(e, xt)
	}
	c.errs.Errorf(e.Pos(), "internal: unhandled expression kind %T", e)
	return c.set(e, c.m.TopType())
}

func (c *checker) binary(e *ast.BinaryExpr, hint *ir.Type) *ir.Type {
	switch e.Op {
	case ast.BinLogAnd, ast.BinLogOr:
		c.expr(e.X, c.m.BoolType())
		c.expr(e.Y, c.m.BoolType())
		return c.m.BoolType()
	}

	var opHint *ir.Type
	switch e.Op {
	case ast.BinCmpEq, ast.BinCmpNe, ast.BinCmpGt, ast.BinCmpGe, ast.BinCmpLt, ast.BinCmpLe:
		opHint = nil
	default:
		opHint = hint
	}

	xt := c.expr(e.X, opHint)
	yt := c.expr(e.Y, xt)
	if xt != yt {
		// Retry the left side now that the right side picked a
		// concrete type, covering "1 + x" where the literal was
		// checked before x's type was known.
		xt = c.expr(e.X, yt)
	}
	if xt != yt {
		c.errs.Errorf(e.Pos(), "operand type mismatch: %s vs %s", xt, yt)
	}

	switch e.Op {
	case ast.BinCmpEq, ast.BinCmpNe, ast.BinCmpGt, ast.BinCmpGe, ast.BinCmpLt, ast.BinCmpLe:
		return c.m.BoolType()
	default:
		return xt
	}
}
