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

import (
	"fmt"

	"github.com/anf-ir/anf/internal/assert"
)

// Tag identifies the shape of a Type.
type Tag uint8

const (
	TBool Tag = iota
	TI1
	TI8
	TI16
	TI32
	TI64
	TU8
	TU16
	TU32
	TU64
	TF32
	TF64
	TMem
	TPtr
	TTuple
	TArray
	TStruct
	TFn
	TVar
	TTop
	TBottom
	TNoRet
)

func (t Tag) String() string {
	switch t {
	case TBool:
		return "bool"
	case TI1:
		return "i1"
	case TI8:
		return "i8"
	case TI16:
		return "i16"
	case TI32:
		return "i32"
	case TI64:
		return "i64"
	case TU8:
		return "u8"
	case TU16:
		return "u16"
	case TU32:
		return "u32"
	case TU64:
		return "u64"
	case TF32:
		return "f32"
	case TF64:
		return "f64"
	case TMem:
		return "mem"
	case TPtr:
		return "ptr"
	case TTuple:
		return "tuple"
	case TArray:
		return "array"
	case TStruct:
		return "struct"
	case TFn:
		return "fn"
	case TVar:
		return "var"
	case TTop:
		return "top"
	case TBottom:
		return "bottom"
	case TNoRet:
		return "noret"
	}
	return "<bad-tag>"
}

// FPFlags are per-floating-point-type transform permissions: a
// peephole transform that relies on non-IEEE semantics only fires
// when the relevant flag is present on the operands' type.
type FPFlags uint8

const (
	FPAssoc FPFlags = 1 << iota
	FPReciprocal
	FPNoInf
	FPNoNaN
)

func (f FPFlags) Has(bit FPFlags) bool { return f&bit != 0 }

// StructDef names a struct type's fields. Two Types with tag
// TStruct are equal iff they share the same *StructDef (by pointer)
// and the same operand (field) types; see Module.StructDef for how
// defs themselves are interned.
type StructDef struct {
	Name   string
	Fields []string
}

// Type is a hash-consed, immutable tagged type value. Two Types are
// the same address iff they are structurally equal on (tag,
// operands, payload).
type Type struct {
	tag   Tag
	ops   []*Type
	fp    FPFlags
	def   *StructDef
	varID uint32
}

func (t *Type) Tag() Tag        { return t.tag }
func (t *Type) Operands() []*Type { return t.ops }
func (t *Type) FPFlags() FPFlags {
	assert.That(t.tag == TF32 || t.tag == TF64, "FPFlags() of non-float type %s", t.tag)
	return t.fp
}
func (t *Type) StructDef() *StructDef {
	assert.That(t.tag == TStruct, "StructDef() of non-struct type %s", t.tag)
	return t.def
}
func (t *Type) VarID() uint32 {
	assert.That(t.tag == TVar, "VarID() of non-var type %s", t.tag)
	return t.varID
}

func (t *Type) String() string {
	switch t.tag {
	case TPtr:
		return "ptr(" + t.ops[0].String() + ")"
	case TArray:
		return "array(" + t.ops[0].String() + ")"
	case TFn:
		return "fn(" + t.ops[0].String() + "->" + t.ops[1].String() + ")"
	case TTuple:
		s := "tuple("
		for i, o := range t.ops {
			if i > 0 {
				s += ","
			}
			s += o.String()
		}
		return s + ")"
	case TStruct:
		return "struct(" + t.def.Name + ")"
	case TVar:
		return fmt.Sprintf("var(%d)", t.varID)
	default:
		return t.tag.String()
	}
}

// IsNumeric reports whether bitwidth(t) is defined.
func (t *Type) IsNumeric() bool {
	switch t.tag {
	case TI1, TI8, TI16, TI32, TI64, TU8, TU16, TU32, TU64, TF32, TF64:
		return true
	}
	return false
}

// IsInteger reports whether t is one of the i*/u* tags.
func (t *Type) IsInteger() bool {
	switch t.tag {
	case TI1, TI8, TI16, TI32, TI64, TU8, TU16, TU32, TU64:
		return true
	}
	return false
}

// IsSigned reports whether t is one of the signed integer tags.
func (t *Type) IsSigned() bool {
	switch t.tag {
	case TI1, TI8, TI16, TI32, TI64:
		return true
	}
	return false
}

// IsFloat reports whether t is f32 or f64.
func (t *Type) IsFloat() bool { return t.tag == TF32 || t.tag == TF64 }

// Bitwidth returns the width in bits of a primitive numeric type.
// Fails with an assertion for any other tag.
func Bitwidth(t *Type) int {
	switch t.tag {
	case TI1:
		return 1
	case TI8, TU8:
		return 8
	case TI16, TU16:
		return 16
	case TI32, TU32, TF32:
		return 32
	case TI64, TU64, TF64:
		return 64
	}
	assert.Unreachable("bitwidth of non-primitive type %s", t.tag)
	return 0
}
