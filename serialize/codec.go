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

package serialize

import (
	"bytes"
	"fmt"
	"io"
	"math"

	"github.com/anf-ir/anf/ir"
)

// encoder assigns every type, struct def, function, and non-function
// node a dense index in dependency-first order, so that decoding can
// reconstruct everything in a single forward pass with no
// forward-reference patching.
type encoder struct {
	m *ir.Module

	typeIdx map[*ir.Type]int
	types   []*ir.Type

	defIdx map[*ir.StructDef]int
	defs   []*ir.StructDef

	fnIdx map[*ir.Node]int

	nodeIdx map[*ir.Node]int
	nodes   []*ir.Node

	dbgIdx map[*ir.Debug]int
	dbgs   []*ir.Debug
}

func newEncoder(m *ir.Module) *encoder {
	return &encoder{
		m:       m,
		typeIdx: map[*ir.Type]int{},
		defIdx:  map[*ir.StructDef]int{},
		fnIdx:   map[*ir.Node]int{},
		nodeIdx: map[*ir.Node]int{},
		dbgIdx:  map[*ir.Debug]int{},
	}
}

// collect walks every function's type, body, and run-condition,
// assigning indices to every type, struct def, and non-function node
// it discovers. Ofn and Oparam nodes are never added to the node
// table: a function node lives in its own separately indexed table
// (m.Funcs' order), and a parameter is a pure function of its owning
// function (Module.Param), so neither needs its own wire
// representation beyond a reference kind and a function index.
func (e *encoder) collect() {
	for i, fn := range e.m.Funcs() {
		e.fnIdx[fn] = i
		e.visitType(fn.Type())
	}
	for _, fn := range e.m.Funcs() {
		e.visitNode(fn.Body())
		e.visitNode(fn.RunCondition())
	}
}

func (e *encoder) visitType(t *ir.Type) {
	if _, ok := e.typeIdx[t]; ok {
		return
	}
	switch t.Tag() {
	case ir.TPtr, ir.TArray:
		e.visitType(t.Operands()[0])
	case ir.TTuple:
		for _, op := range t.Operands() {
			e.visitType(op)
		}
	case ir.TFn:
		e.visitType(t.Operands()[0])
		e.visitType(t.Operands()[1])
	case ir.TStruct:
		def := t.StructDef()
		if _, ok := e.defIdx[def]; !ok {
			e.defIdx[def] = len(e.defs)
			e.defs = append(e.defs, def)
		}
		for _, op := range t.Operands() {
			e.visitType(op)
		}
	}
	e.typeIdx[t] = len(e.types)
	e.types = append(e.types, t)
}

func (e *encoder) visitNode(n *ir.Node) {
	n = n.Resolved()
	switch n.Tag() {
	case ir.Ofn, ir.Oparam:
		return
	}
	if _, ok := e.nodeIdx[n]; ok {
		return
	}
	for _, op := range n.Operands() {
		e.visitNode(op)
	}
	e.visitType(n.Type())
	if d := n.Debug(); d != nil {
		if _, ok := e.dbgIdx[d]; !ok {
			e.dbgIdx[d] = len(e.dbgs)
			e.dbgs = append(e.dbgs, d)
		}
	}
	e.nodeIdx[n] = len(e.nodes)
	e.nodes = append(e.nodes, n)
}

// writeRef encodes a reference to an operand node n as it will be
// read back: an ordinary node, a function (referenced by table
// index), or a function's parameter (referenced the same way, since
// Module.Param(fn) reconstructs it without any stored payload).
func (e *encoder) writeRef(w io.Writer, n *ir.Node) error {
	n = n.Resolved()
	var kind refKind
	var idx int
	switch n.Tag() {
	case ir.Ofn:
		kind, idx = refFunc, e.fnIdx[n]
	case ir.Oparam:
		kind, idx = refParam, e.fnIdx[n.Operands()[0].Resolved()]
	default:
		kind, idx = refNode, e.nodeIdx[n]
	}
	if _, err := w.Write([]byte{byte(kind)}); err != nil {
		return err
	}
	var b [4]byte
	writePut32(b[:], uint32(idx))
	_, err := w.Write(b[:])
	return err
}

func (e *encoder) debugIdxOf(n *ir.Node) int32 {
	d := n.Debug()
	if d == nil {
		return -1
	}
	return int32(e.dbgIdx[d])
}

func (e *encoder) writeTypes(w io.Writer) error {
	var buf bytes.Buffer
	leW32(&buf, uint32(len(e.defs)))
	for _, d := range e.defs {
		leWString(&buf, d.Name)
		leW32(&buf, uint32(len(d.Fields)))
		for _, f := range d.Fields {
			leWString(&buf, f)
		}
	}
	leW32(&buf, uint32(len(e.types)))
	for _, t := range e.types {
		buf.WriteByte(byte(t.Tag()))
		switch t.Tag() {
		case ir.TPtr, ir.TArray:
			leW32(&buf, uint32(e.typeIdx[t.Operands()[0]]))
		case ir.TTuple:
			ops := t.Operands()
			leW32(&buf, uint32(len(ops)))
			for _, op := range ops {
				leW32(&buf, uint32(e.typeIdx[op]))
			}
		case ir.TFn:
			leW32(&buf, uint32(e.typeIdx[t.Operands()[0]]))
			leW32(&buf, uint32(e.typeIdx[t.Operands()[1]]))
		case ir.TStruct:
			leW32(&buf, uint32(e.defIdx[t.StructDef()]))
			ops := t.Operands()
			leW32(&buf, uint32(len(ops)))
			for _, op := range ops {
				leW32(&buf, uint32(e.typeIdx[op]))
			}
		case ir.TF32, ir.TF64:
			buf.WriteByte(byte(t.FPFlags()))
		case ir.TVar:
			leW32(&buf, t.VarID())
		}
	}
	return writeBlock(w, blockTypes, buf.Bytes())
}

func (e *encoder) writeFuncs(w io.Writer) error {
	var buf bytes.Buffer
	leW32(&buf, uint32(len(e.m.Funcs())))
	for _, fn := range e.m.Funcs() {
		leW32(&buf, uint32(e.typeIdx[fn.Type()]))
		leW32(&buf, uint32(fn.FnFlags()))
		if err := e.writeRef(&buf, fn.Body()); err != nil {
			return err
		}
		if err := e.writeRef(&buf, fn.RunCondition()); err != nil {
			return err
		}
		var db [4]byte
		writePutI32(db[:], e.debugIdxOf(fn))
		buf.Write(db[:])
	}
	return writeBlock(w, blockFuncs, buf.Bytes())
}

func (e *encoder) writeNodes(w io.Writer) error {
	var buf bytes.Buffer
	leW32(&buf, uint32(len(e.nodes)))
	for _, n := range e.nodes {
		binWriteU16(&buf, uint16(n.Tag()))
		leW32(&buf, uint32(e.typeIdx[n.Type()]))
		if err := e.writeNodePayload(&buf, n); err != nil {
			return err
		}
		var db [4]byte
		writePutI32(db[:], e.debugIdxOf(n))
		buf.Write(db[:])
	}
	return writeBlock(w, blockNodes, buf.Bytes())
}

func (e *encoder) writeNodePayload(buf *bytes.Buffer, n *ir.Node) error {
	ops := n.Operands()
	switch n.Tag() {
	case ir.Olit:
		leW64(buf, n.Literal().Uint(64))
	case ir.Oundef:
		// type alone is sufficient
	case ir.Otuple, ir.Oarray, ir.Ostruct:
		leW32(buf, uint32(len(ops)))
		for _, op := range ops {
			if err := e.writeRef(buf, op); err != nil {
				return err
			}
		}
	case ir.Oextract:
		if err := e.writeRef(buf, ops[0]); err != nil {
			return err
		}
		leW32(buf, uint32(n.Literal().Uint(32)))
	case ir.Oinsert:
		if err := e.writeRef(buf, ops[0]); err != nil {
			return err
		}
		if err := e.writeRef(buf, ops[1]); err != nil {
			return err
		}
		leW32(buf, uint32(n.Literal().Uint(32)))
	case ir.Obitcast, ir.Oextend, ir.Otrunc, ir.Oitof, ir.Oftoi, ir.Onot, ir.Oknown:
		return e.writeRef(buf, ops[0])
	case ir.Oadd, ir.Osub, ir.Omul, ir.Odiv, ir.Orem,
		ir.Oand, ir.Oor, ir.Oxor, ir.Olshift, ir.Orshift,
		ir.Ocmpeq, ir.Ocmpne, ir.Ocmpgt, ir.Ocmpge, ir.Ocmplt, ir.Ocmple:
		if err := e.writeRef(buf, ops[0]); err != nil {
			return err
		}
		return e.writeRef(buf, ops[1])
	case ir.Oalloc:
		return e.writeRef(buf, ops[0])
	case ir.Odealloc, ir.Oload:
		if err := e.writeRef(buf, ops[0]); err != nil {
			return err
		}
		return e.writeRef(buf, ops[1])
	case ir.Ostore:
		if err := e.writeRef(buf, ops[0]); err != nil {
			return err
		}
		if err := e.writeRef(buf, ops[1]); err != nil {
			return err
		}
		return e.writeRef(buf, ops[2])
	case ir.Oselect:
		if err := e.writeRef(buf, ops[0]); err != nil {
			return err
		}
		if err := e.writeRef(buf, ops[1]); err != nil {
			return err
		}
		return e.writeRef(buf, ops[2])
	case ir.Oapp:
		if err := e.writeRef(buf, ops[0]); err != nil {
			return err
		}
		return e.writeRef(buf, ops[1])
	case ir.Otapp:
		if err := e.writeRef(buf, ops[0]); err != nil {
			return err
		}
		leW32(buf, uint32(e.typeIdx[n.TypeArg()]))
	default:
		return fmt.Errorf("serialize: unhandled opcode %s", n.Tag())
	}
	return nil
}

func (e *encoder) writeDebug(w io.Writer) error {
	var buf bytes.Buffer
	leW32(&buf, uint32(len(e.dbgs)))
	for _, d := range e.dbgs {
		leWString(&buf, d.File)
		leWString(&buf, d.Name)
		leW32(&buf, uint32(d.Line))
		leW32(&buf, uint32(d.Col))
	}
	return writeBlock(w, blockDebug, buf.Bytes())
}

// decoder rebuilds a fresh Module from a dense-indexed wire stream,
// calling back into ir's own public constructors for every value so
// the result hash-conses and peephole-simplifies exactly as if it had
// just been built by lower.Lower.
type decoder struct {
	m *ir.Module

	defs  []*ir.StructDef
	types []*ir.Type
	fns   []*ir.Node
	nodes []*ir.Node
	dbgs  []*ir.Debug
}

func newDecoder(numTypes, numFuncs, numNodes int) *decoder {
	return &decoder{
		m:     ir.NewModule(),
		types: make([]*ir.Type, 0, numTypes),
		fns:   make([]*ir.Node, 0, numFuncs),
		nodes: make([]*ir.Node, 0, numNodes),
	}
}

func (d *decoder) ref(r *bytes.Reader) (*ir.Node, error) {
	var kb [1]byte
	if _, err := io.ReadFull(r, kb[:]); err != nil {
		return nil, err
	}
	idx := int(leR32(r))
	switch refKind(kb[0]) {
	case refNode:
		if idx < 0 || idx >= len(d.nodes) {
			return nil, fmt.Errorf("serialize: node ref %d out of range", idx)
		}
		return d.nodes[idx], nil
	case refFunc:
		if idx < 0 || idx >= len(d.fns) {
			return nil, fmt.Errorf("serialize: func ref %d out of range", idx)
		}
		return d.fns[idx], nil
	case refParam:
		if idx < 0 || idx >= len(d.fns) {
			return nil, fmt.Errorf("serialize: param ref %d out of range", idx)
		}
		return d.m.Param(d.fns[idx]), nil
	default:
		return nil, fmt.Errorf("serialize: bad ref kind %d", kb[0])
	}
}

func (d *decoder) readTypes(r *bytes.Reader) error {
	payload, err := readBlock(r, blockTypes)
	if err != nil {
		return err
	}
	body := bytes.NewReader(payload)

	numDefs := int(leR32(body))
	for i := 0; i < numDefs; i++ {
		name, err := leRString(body)
		if err != nil {
			return err
		}
		n := int(leR32(body))
		fields := make([]string, n)
		for j := range fields {
			fields[j], err = leRString(body)
			if err != nil {
				return err
			}
		}
		d.defs = append(d.defs, d.m.StructDef(name, fields))
	}

	numTypes := int(leR32(body))
	for i := 0; i < numTypes; i++ {
		var tb [1]byte
		if _, err := io.ReadFull(body, tb[:]); err != nil {
			return err
		}
		tag := ir.Tag(tb[0])
		var t *ir.Type
		switch tag {
		case ir.TBool:
			t = d.m.BoolType()
		case ir.TI1, ir.TI8, ir.TI16, ir.TI32, ir.TI64:
			t = d.m.IntType(bitsForTag(tag))
		case ir.TU8, ir.TU16, ir.TU32, ir.TU64:
			t = d.m.UintType(bitsForTag(tag))
		case ir.TF32:
			t = d.m.FloatType(32, ir.FPFlags(readByte(body)))
		case ir.TF64:
			t = d.m.FloatType(64, ir.FPFlags(readByte(body)))
		case ir.TMem:
			t = d.m.MemType()
		case ir.TPtr:
			t = d.m.PtrType(d.types[leR32(body)])
		case ir.TArray:
			t = d.m.ArrayType(d.types[leR32(body)])
		case ir.TTuple:
			n := int(leR32(body))
			ops := make([]*ir.Type, n)
			for j := range ops {
				ops[j] = d.types[leR32(body)]
			}
			t = d.m.TupleType(ops...)
		case ir.TStruct:
			defIdx := leR32(body)
			n := int(leR32(body))
			ops := make([]*ir.Type, n)
			for j := range ops {
				ops[j] = d.types[leR32(body)]
			}
			t = d.m.StructType(d.defs[defIdx], ops...)
		case ir.TFn:
			a := d.types[leR32(body)]
			b := d.types[leR32(body)]
			t = d.m.FnType(a, b)
		case ir.TVar:
			t = d.m.VarType(leR32(body))
		case ir.TTop:
			t = d.m.TopType()
		case ir.TBottom:
			t = d.m.BottomType()
		case ir.TNoRet:
			t = d.m.NoRetType()
		default:
			return fmt.Errorf("serialize: unknown type tag %d", tb[0])
		}
		d.types = append(d.types, t)
	}
	return nil
}

func bitsForTag(tag ir.Tag) int {
	switch tag {
	case ir.TI1:
		return 1
	case ir.TI8, ir.TU8:
		return 8
	case ir.TI16, ir.TU16:
		return 16
	case ir.TI32, ir.TU32:
		return 32
	default:
		return 64
	}
}

func (d *decoder) readFuncs(r *bytes.Reader) error {
	payload, err := readBlock(r, blockFuncs)
	if err != nil {
		return err
	}
	body := bytes.NewReader(payload)

	n := int(leR32(body))

	// Functions can reference each other's bodies (mutual recursion
	// through App), so every Fn node is allocated up front with its
	// placeholder body/run-condition before any forward reference is
	// resolved, mirroring how lower.Lower forward-declares every def
	// before lowering any body.
	type rawFn struct {
		typeIdx uint32
		flags   uint32
	}
	raws := make([]rawFn, n)
	type rawRef struct {
		kind refKind
		idx  int
	}
	bodyRefs := make([]rawRef, n)
	rcRefs := make([]rawRef, n)
	dbgIdxs := make([]int32, n)

	for i := 0; i < n; i++ {
		raws[i].typeIdx = leR32(body)
		raws[i].flags = leR32(body)

		var kb [1]byte
		io.ReadFull(body, kb[:])
		bodyRefs[i] = rawRef{refKind(kb[0]), int(leR32(body))}
		io.ReadFull(body, kb[:])
		rcRefs[i] = rawRef{refKind(kb[0]), int(leR32(body))}

		dbgIdxs[i] = leI32(body)
	}

	for i := 0; i < n; i++ {
		ft := d.types[raws[i].typeIdx]
		fn := d.m.Fn(ft.Operands()[0], ft.Operands()[1])
		d.fns = append(d.fns, fn)
	}
	for i, fn := range d.fns {
		resolve := func(ref rawRef) (*ir.Node, error) {
			switch ref.kind {
			case refNode:
				if ref.idx < 0 || ref.idx >= len(d.nodes) {
					return nil, fmt.Errorf("serialize: node ref %d out of range", ref.idx)
				}
				return d.nodes[ref.idx], nil
			case refFunc:
				return d.fns[ref.idx], nil
			case refParam:
				return d.m.Param(d.fns[ref.idx]), nil
			}
			return nil, fmt.Errorf("serialize: bad ref kind %d", ref.kind)
		}
		b, err := resolve(bodyRefs[i])
		if err != nil {
			return err
		}
		rc, err := resolve(rcRefs[i])
		if err != nil {
			return err
		}
		d.m.Rebind(fn, 0, b)
		d.m.Rebind(fn, 1, rc)
		// dbgIdxs[i] and raws[i].flags have no public setter to apply them
		// through (ir.Module never exposes one); see DESIGN.md.
	}
	return nil
}

func (d *decoder) readNodes(r *bytes.Reader) error {
	payload, err := readBlock(r, blockNodes)
	if err != nil {
		return err
	}
	body := bytes.NewReader(payload)

	n := int(leR32(body))
	for i := 0; i < n; i++ {
		tag := ir.Opcode(binReadU16(body))
		typeIdx := leR32(body)
		t := d.types[typeIdx]

		node, err := d.readNodePayload(body, tag, t)
		if err != nil {
			return err
		}
		leI32(body) // debug index: no public constructor attaches Debug; see DESIGN.md
		d.nodes = append(d.nodes, node)
	}
	return nil
}

func (d *decoder) readNodePayload(body *bytes.Reader, tag ir.Opcode, t *ir.Type) (*ir.Node, error) {
	switch tag {
	case ir.Olit:
		raw := leR64(body)
		return litNode(d.m, t, raw), nil
	case ir.Oundef:
		return d.m.Undef(t), nil
	case ir.Otuple:
		ops, err := d.readRefs(body)
		if err != nil {
			return nil, err
		}
		return d.m.Tuple(ops...), nil
	case ir.Oarray:
		ops, err := d.readRefs(body)
		if err != nil {
			return nil, err
		}
		return d.m.Array(ops...), nil
	case ir.Ostruct:
		ops, err := d.readRefs(body)
		if err != nil {
			return nil, err
		}
		return d.m.Struct(t.StructDef(), ops...), nil
	case ir.Oextract:
		agg, err := d.ref(body)
		if err != nil {
			return nil, err
		}
		idx := int(leR32(body))
		return d.m.Extract(agg, idx), nil
	case ir.Oinsert:
		agg, err := d.ref(body)
		if err != nil {
			return nil, err
		}
		val, err := d.ref(body)
		if err != nil {
			return nil, err
		}
		idx := int(leR32(body))
		return d.m.Insert(agg, idx, val), nil
	case ir.Obitcast:
		x, err := d.ref(body)
		if err != nil {
			return nil, err
		}
		return d.m.Bitcast(x, t), nil
	case ir.Oextend:
		x, err := d.ref(body)
		if err != nil {
			return nil, err
		}
		return d.m.Extend(x, t), nil
	case ir.Otrunc:
		x, err := d.ref(body)
		if err != nil {
			return nil, err
		}
		return d.m.Trunc(x, t), nil
	case ir.Oitof:
		x, err := d.ref(body)
		if err != nil {
			return nil, err
		}
		return d.m.Itof(x, t), nil
	case ir.Oftoi:
		x, err := d.ref(body)
		if err != nil {
			return nil, err
		}
		return d.m.Ftoi(x, t), nil
	case ir.Onot:
		x, err := d.ref(body)
		if err != nil {
			return nil, err
		}
		return d.m.Not(x), nil
	case ir.Oknown:
		x, err := d.ref(body)
		if err != nil {
			return nil, err
		}
		return d.m.Known(x), nil
	case ir.Oadd, ir.Osub, ir.Omul, ir.Odiv, ir.Orem,
		ir.Oand, ir.Oor, ir.Oxor, ir.Olshift, ir.Orshift,
		ir.Ocmpeq, ir.Ocmpne, ir.Ocmpgt, ir.Ocmpge, ir.Ocmplt, ir.Ocmple:
		x, err := d.ref(body)
		if err != nil {
			return nil, err
		}
		y, err := d.ref(body)
		if err != nil {
			return nil, err
		}
		return binOpNode(d.m, tag, x, y), nil
	case ir.Oalloc:
		mem, err := d.ref(body)
		if err != nil {
			return nil, err
		}
		elemT := t.Operands()[1].Operands()[0]
		return d.m.Alloc(mem, elemT), nil
	case ir.Odealloc:
		mem, err := d.ref(body)
		if err != nil {
			return nil, err
		}
		ptr, err := d.ref(body)
		if err != nil {
			return nil, err
		}
		return d.m.Dealloc(mem, ptr), nil
	case ir.Oload:
		mem, err := d.ref(body)
		if err != nil {
			return nil, err
		}
		ptr, err := d.ref(body)
		if err != nil {
			return nil, err
		}
		return d.m.Load(mem, ptr), nil
	case ir.Ostore:
		mem, err := d.ref(body)
		if err != nil {
			return nil, err
		}
		ptr, err := d.ref(body)
		if err != nil {
			return nil, err
		}
		val, err := d.ref(body)
		if err != nil {
			return nil, err
		}
		return d.m.Store(mem, ptr, val), nil
	case ir.Oselect:
		cond, err := d.ref(body)
		if err != nil {
			return nil, err
		}
		onTrue, err := d.ref(body)
		if err != nil {
			return nil, err
		}
		onFalse, err := d.ref(body)
		if err != nil {
			return nil, err
		}
		return d.m.Select(cond, onTrue, onFalse), nil
	case ir.Oapp:
		f, err := d.ref(body)
		if err != nil {
			return nil, err
		}
		arg, err := d.ref(body)
		if err != nil {
			return nil, err
		}
		return d.m.App(f, arg), nil
	case ir.Otapp:
		f, err := d.ref(body)
		if err != nil {
			return nil, err
		}
		argT := d.types[leR32(body)]
		return d.m.Tapp(f, argT), nil
	}
	return nil, fmt.Errorf("serialize: unhandled opcode %s on read", tag)
}

func (d *decoder) readRefs(body *bytes.Reader) ([]*ir.Node, error) {
	n := int(leR32(body))
	ops := make([]*ir.Node, n)
	for i := range ops {
		var err error
		ops[i], err = d.ref(body)
		if err != nil {
			return nil, err
		}
	}
	return ops, nil
}

func (d *decoder) readDebug(r *bytes.Reader) error {
	payload, err := readBlock(r, blockDebug)
	if err != nil {
		return err
	}
	body := bytes.NewReader(payload)
	n := int(leR32(body))
	for i := 0; i < n; i++ {
		file, err := leRString(body)
		if err != nil {
			return err
		}
		name, err := leRString(body)
		if err != nil {
			return err
		}
		line := leR32(body)
		col := leR32(body)
		d.dbgs = append(d.dbgs, &ir.Debug{File: file, Name: name, Line: int(line), Col: int(col)})
	}
	return nil
}

// litNode reconstructs a literal node of exactly type t from its raw
// 64-bit payload: Module.F32/F64 store the bit pattern they're given
// and Module.Int/Uint store it normalized to the type's width, which
// the saved raw value already is (see ir/literal.go), so dispatching on t's tag
// and handing back the matching slice of raw reproduces the original
// literal exactly, without needing any accessor beyond Literal.Uint(64).
func litNode(m *ir.Module, t *ir.Type, raw uint64) *ir.Node {
	switch {
	case t.Tag() == ir.TBool:
		return m.Bool(raw != 0)
	case t.Tag() == ir.TF32:
		return m.F32(math.Float32frombits(uint32(raw)), t.FPFlags())
	case t.Tag() == ir.TF64:
		return m.F64(math.Float64frombits(raw), t.FPFlags())
	case t.IsSigned():
		return m.Int(ir.Bitwidth(t), int64(raw))
	default:
		return m.Uint(ir.Bitwidth(t), raw)
	}
}

func binOpNode(m *ir.Module, tag ir.Opcode, x, y *ir.Node) *ir.Node {
	switch tag {
	case ir.Oadd:
		return m.Add(x, y)
	case ir.Osub:
		return m.Sub(x, y)
	case ir.Omul:
		return m.Mul(x, y)
	case ir.Odiv:
		return m.Div(x, y)
	case ir.Orem:
		return m.Rem(x, y)
	case ir.Oand:
		return m.And(x, y)
	case ir.Oor:
		return m.Or(x, y)
	case ir.Oxor:
		return m.Xor(x, y)
	case ir.Olshift:
		return m.Lshift(x, y)
	case ir.Orshift:
		return m.Rshift(x, y)
	case ir.Ocmpeq:
		return m.Cmpeq(x, y)
	case ir.Ocmpne:
		return m.Cmpne(x, y)
	case ir.Ocmpgt:
		return m.Cmpgt(x, y)
	case ir.Ocmpge:
		return m.Cmpge(x, y)
	case ir.Ocmplt:
		return m.Cmplt(x, y)
	case ir.Ocmple:
		return m.Cmple(x, y)
	}
	panic("unreachable binary opcode " + tag.String())
}
