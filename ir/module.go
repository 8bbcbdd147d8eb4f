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

// Package ir implements the hash-consed, continuation-passing
// intermediate representation at the core of the compiler: types,
// nodes, the peephole simplification engine run during
// construction, the boolean implication solver, and the use-list /
// replacement machinery that supports bulk rewriting.
//
// A Module owns every Type and (non-function) Node it constructs;
// they live until the Module is dropped and are otherwise
// immutable, aside from the logically-mutable uses and rep fields
// and, for function nodes specifically, their two operand slots.
package ir

import (
	"github.com/google/uuid"

	"github.com/anf-ir/anf/arena"
	"github.com/anf-ir/anf/htable"
)

// Module owns the arena-backed storage for all types and nodes
// constructed through it, plus the insertion-ordered list of
// function nodes. Destroying a Module (dropping every reference to
// it) releases all of its memory at once; there is no per-node
// free.
type Module struct {
	ID uuid.UUID

	typeArena *arena.Arena[Type]
	typeOps   *arena.Arena[*Type]
	defArena  *arena.Arena[StructDef]
	nodeArena *arena.Arena[Node]
	nodeOps   *arena.Arena[*Node]
	useArena  *arena.Arena[useEdge]

	types *htable.Table[typeKey, *Type]
	defs  *htable.Table[defKey, *StructDef]
	nodes *htable.Table[nodeKey, *Node]

	funcs []*Node

	// singletons, populated lazily on first request
	boolT, memT, topT, bottomT, noretT *Type
	unitT                               *Type
}

// NewModule creates an empty Module.
func NewModule() *Module {
	m := &Module{
		ID:        uuid.New(),
		typeArena: arena.New[Type](0),
		typeOps:   arena.New[*Type](0),
		defArena:  arena.New[StructDef](0),
		nodeArena: arena.New[Node](0),
		nodeOps:   arena.New[*Node](0),
		useArena:  arena.New[useEdge](0),
		types:     htable.New[typeKey, *Type](hashTypeKey, eqTypeKey),
		defs:      htable.New[defKey, *StructDef](hashDefKey, eqDefKey),
		nodes:     htable.New[nodeKey, *Node](hashNodeKey, eqNodeKey),
	}
	return m
}

// Funcs returns the module's function nodes in insertion order —
// the only externally visible ordering guarantee callers should
// rely on.
func (m *Module) Funcs() []*Node { return m.funcs }

// NumTypes reports the number of distinct interned types.
func (m *Module) NumTypes() int { return m.types.Len() }

// NumNodes reports the number of distinct interned non-function
// nodes.
func (m *Module) NumNodes() int { return m.nodes.Len() }
