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
	"encoding/binary"
	"unsafe"

	"golang.org/x/exp/slices"

	"github.com/anf-ir/anf/htable"
	"github.com/anf-ir/anf/internal/assert"
)

// typeKey is the structural-equality key types are interned by:
// (tag, operands, payload).
type typeKey struct {
	tag   Tag
	ops   []*Type
	fp    FPFlags
	def   *StructDef
	varID uint32
}

func ptrAddr[T any](p *T) uint64 { return uint64(uintptr(unsafe.Pointer(p))) }

func hashTypeKey(k typeKey) uint64 {
	buf := make([]byte, 0, 9+8*len(k.ops)+12)
	buf = append(buf, byte(k.tag))
	for _, o := range k.ops {
		buf = binary.LittleEndian.AppendUint64(buf, ptrAddr(o))
	}
	buf = append(buf, byte(k.fp))
	buf = binary.LittleEndian.AppendUint64(buf, ptrAddr(k.def))
	buf = binary.LittleEndian.AppendUint32(buf, k.varID)
	return htable.HashBytes(buf)
}

func eqTypeKey(a, b typeKey) bool {
	return a.tag == b.tag && a.fp == b.fp && a.def == b.def && a.varID == b.varID &&
		slices.Equal(a.ops, b.ops)
}

// internType returns the canonical *Type for k, constructing and
// inserting it on first request.
func (m *Module) internType(k typeKey) *Type {
	if t, ok := m.types.Find(k); ok {
		return t
	}
	t := m.typeArena.Alloc()
	t.tag, t.fp, t.def, t.varID = k.tag, k.fp, k.def, k.varID
	if len(k.ops) > 0 {
		t.ops = m.typeOps.AllocSlice(len(k.ops))
		copy(t.ops, k.ops)
	}
	m.types.Insert(typeKey{tag: k.tag, ops: t.ops, fp: k.fp, def: k.def, varID: k.varID}, t)
	return t
}

// BoolType returns the canonical boolean type.
func (m *Module) BoolType() *Type {
	if m.boolT == nil {
		m.boolT = m.internType(typeKey{tag: TBool})
	}
	return m.boolT
}

// IntType returns the canonical signed integer type with the given
// bit width, one of {1, 8, 16, 32, 64}.
func (m *Module) IntType(bits int) *Type {
	return m.internType(typeKey{tag: intTagFor(bits)})
}

// UintType returns the canonical unsigned integer type with the
// given bit width, one of {8, 16, 32, 64}.
func (m *Module) UintType(bits int) *Type {
	return m.internType(typeKey{tag: uintTagFor(bits)})
}

func intTagFor(bits int) Tag {
	switch bits {
	case 1:
		return TI1
	case 8:
		return TI8
	case 16:
		return TI16
	case 32:
		return TI32
	case 64:
		return TI64
	}
	assert.Unreachable("invalid signed integer width %d", bits)
	return 0
}

func uintTagFor(bits int) Tag {
	switch bits {
	case 8:
		return TU8
	case 16:
		return TU16
	case 32:
		return TU32
	case 64:
		return TU64
	}
	assert.Unreachable("invalid unsigned integer width %d", bits)
	return 0
}

// FloatType returns the canonical floating-point type with the
// given bit width (32 or 64) and transform flags. A fp primitive
// constructed with zero flags is still valid; Go's type system
// already requires callers to pass a flags value explicitly.
func (m *Module) FloatType(bits int, flags FPFlags) *Type {
	var tag Tag
	switch bits {
	case 32:
		tag = TF32
	case 64:
		tag = TF64
	default:
		assert.Unreachable("invalid float width %d", bits)
	}
	return m.internType(typeKey{tag: tag, fp: flags})
}

// MemType returns the canonical memory-state type.
func (m *Module) MemType() *Type {
	if m.memT == nil {
		m.memT = m.internType(typeKey{tag: TMem})
	}
	return m.memT
}

// PtrType returns the canonical pointer-to-elem type.
func (m *Module) PtrType(elem *Type) *Type {
	return m.internType(typeKey{tag: TPtr, ops: []*Type{elem}})
}

// ArrayType returns the canonical array-of-elem type. elem must not
// be mem, ptr, or fn.
func (m *Module) ArrayType(elem *Type) *Type {
	assert.That(elem.tag != TMem && elem.tag != TPtr && elem.tag != TFn,
		"array element type must not be mem/ptr/fn, got %s", elem.tag)
	return m.internType(typeKey{tag: TArray, ops: []*Type{elem}})
}

// TupleType returns the canonical tuple type over ops. A
// single-element tuple collapses to that element (tuple(T) = T); a
// zero-element tuple is the canonical unit type.
func (m *Module) TupleType(ops ...*Type) *Type {
	switch len(ops) {
	case 0:
		if m.unitT == nil {
			m.unitT = m.internType(typeKey{tag: TTuple})
		}
		return m.unitT
	case 1:
		return ops[0]
	default:
		return m.internType(typeKey{tag: TTuple, ops: ops})
	}
}

// FnType returns the canonical function type from domain a to
// codomain b.
func (m *Module) FnType(a, b *Type) *Type {
	return m.internType(typeKey{tag: TFn, ops: []*Type{a, b}})
}

type defKey struct {
	name   string
	fields string // fields joined with a separator not legal in identifiers
}

func hashDefKey(k defKey) uint64 {
	return htable.HashBytes([]byte(k.name + "\x00" + k.fields))
}
func eqDefKey(a, b defKey) bool { return a.name == b.name && a.fields == b.fields }

// StructDef interns a struct definition by (name, fields), so that
// two Struct types built from equal defs share one *StructDef and
// therefore compare equal by payload pointer.
func (m *Module) StructDef(name string, fields []string) *StructDef {
	joined := ""
	for i, f := range fields {
		if i > 0 {
			joined += "\x1f"
		}
		joined += f
	}
	k := defKey{name: name, fields: joined}
	if d, ok := m.defs.Find(k); ok {
		return d
	}
	d := m.defArena.Alloc()
	d.Name = name
	d.Fields = append([]string(nil), fields...)
	m.defs.Insert(k, d)
	return d
}

// StructType returns the canonical struct type for def over the
// given field types; len(ops) must equal len(def.Fields).
func (m *Module) StructType(def *StructDef, ops ...*Type) *Type {
	assert.That(len(ops) == len(def.Fields),
		"struct %q expects %d fields, got %d operands", def.Name, len(def.Fields), len(ops))
	return m.internType(typeKey{tag: TStruct, ops: ops, def: def})
}

// VarType returns the canonical type variable with the given id.
// Type variables exist for the Tapp extension point; the surface
// language implemented by this repo is monomorphic and never emits
// one through lowering.
func (m *Module) VarType(id uint32) *Type {
	return m.internType(typeKey{tag: TVar, varID: id})
}

// TopType returns the canonical top type.
func (m *Module) TopType() *Type {
	if m.topT == nil {
		m.topT = m.internType(typeKey{tag: TTop})
	}
	return m.topT
}

// BottomType returns the canonical bottom type.
func (m *Module) BottomType() *Type {
	if m.bottomT == nil {
		m.bottomT = m.internType(typeKey{tag: TBottom})
	}
	return m.bottomT
}

// NoRetType returns the canonical non-returning type, used as the
// result type of operations (such as an infinite loop) that never
// produce a value.
func (m *Module) NoRetType() *Type {
	if m.noretT == nil {
		m.noretT = m.internType(typeKey{tag: TNoRet})
	}
	return m.noretT
}
