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

// Package serialize writes and reads an ir.Module to a binary stream,
// grounded on the same shape the teacher's blockfmt/ion packages use
// for their own on-disk formats (a short magic, a little-endian fixed
// header, then a sequence of self-describing tagged blocks) — see
// ion/blockfmt/compression.go and ion/symtab.go for the pattern this
// package adapts.
//
// The wire format is deliberately not a stable, versioned contract:
// only one property is promised here — that Save followed by Load
// reconstructs a Module whose every function is structurally
// identical (same types, same operand graph, same literal payloads)
// to the one that was saved. The concatenated block payloads are
// compressed as one stream with compr.Compressor/Decompressor (the
// same klauspost/compress wrapper the teacher uses for block
// payloads), and the whole stream is sealed with a trailing BLAKE2b
// checksum so a truncated or corrupted file is detected at Load
// rather than silently misread.
package serialize

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"golang.org/x/crypto/blake2b"

	"github.com/anf-ir/anf/compr"
	"github.com/anf-ir/anf/ir"
)

const (
	magic        = "ANF"
	version      = uint32(1)
	checksumSize = 32 // blake2b-256
)

// Block tags. Each is written as a literal 4-byte ASCII code so the
// stream is legible under `xxd` the way ion's type codes are.
const (
	blockTypes = "TYPS"
	blockFuncs = "FUNC"
	blockNodes = "NODE"
	blockDebug = "DBG "
)

// refKind distinguishes the three things an operand slot can point
// at: an ordinary interned node, a function node (kept in its own
// table since function nodes are never interned), or a function's
// parameter (which isn't stored at all — Module.Param is a pure
// function of the owning Fn, so a param reference is just a function
// index plus this tag).
type refKind uint8

const (
	refNode refKind = iota
	refFunc
	refParam
)

// Save writes m to w. It never fails on account of m's contents —
// every node reachable through m.Funcs is representable — only on
// underlying I/O errors.
func Save(m *ir.Module, w io.Writer) error {
	enc := newEncoder(m)
	enc.collect()

	var body bytes.Buffer
	if err := enc.writeTypes(&body); err != nil {
		return err
	}
	if err := enc.writeFuncs(&body); err != nil {
		return err
	}
	if err := enc.writeNodes(&body); err != nil {
		return err
	}
	if err := enc.writeDebug(&body); err != nil {
		return err
	}

	var hdr bytes.Buffer
	hdr.WriteString(magic)
	writeU32(&hdr, version)
	writeU32(&hdr, uint32(len(enc.types)))
	writeU32(&hdr, uint32(len(m.Funcs())))
	writeU32(&hdr, uint32(len(enc.nodes)))
	idBytes, _ := m.ID.MarshalBinary()
	hdr.Write(idBytes)

	c := compr.Compression("zstd")
	compressed := c.Compress(body.Bytes(), nil)
	writeU32(&hdr, uint32(len(body.Bytes())))
	writeU32(&hdr, uint32(len(compressed)))
	// The algorithm name field is padded to a fixed 8 bytes so the header
	// has a constant size regardless of which compressor produced the
	// stream; every name compr.Compression recognizes fits comfortably.
	hdr.WriteString(c.Name())
	for i := len(c.Name()); i < 8; i++ {
		hdr.WriteByte(0)
	}

	sum := blake2b.Sum256(append(append([]byte{}, hdr.Bytes()...), compressed...))

	if _, err := w.Write(hdr.Bytes()); err != nil {
		return err
	}
	if _, err := w.Write(compressed); err != nil {
		return err
	}
	_, err := w.Write(sum[:])
	return err
}

// Load reads a Module back from r, reconstructing every function via
// the module's ordinary public constructors so the result participates
// in hash-consing and peephole simplification exactly as if it had
// just been built by lower.Lower.
func Load(r io.Reader) (*ir.Module, error) {
	all, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if len(all) < checksumSize {
		return nil, fmt.Errorf("serialize: truncated stream")
	}
	payload, sum := all[:len(all)-checksumSize], all[len(all)-checksumSize:]
	want := blake2b.Sum256(payload)
	if !bytes.Equal(want[:], sum) {
		return nil, fmt.Errorf("serialize: checksum mismatch, file is corrupt")
	}

	buf := bytes.NewReader(payload)
	var magicBuf [3]byte
	if _, err := io.ReadFull(buf, magicBuf[:]); err != nil {
		return nil, err
	}
	if string(magicBuf[:]) != magic {
		return nil, fmt.Errorf("serialize: bad magic %q", magicBuf)
	}
	ver := readU32(buf)
	if ver != version {
		return nil, fmt.Errorf("serialize: unsupported version %d", ver)
	}
	numTypes := readU32(buf)
	numFuncs := readU32(buf)
	numNodes := readU32(buf)
	var idBytes [16]byte
	if _, err := io.ReadFull(buf, idBytes[:]); err != nil {
		return nil, err
	}
	rawLen := readU32(buf)
	compLen := readU32(buf)
	var nameBuf [8]byte
	if _, err := io.ReadFull(buf, nameBuf[:]); err != nil {
		return nil, err
	}
	algo := string(bytes.TrimRight(nameBuf[:], "\x00"))

	compressed := make([]byte, compLen)
	if _, err := io.ReadFull(buf, compressed); err != nil {
		return nil, err
	}
	raw := make([]byte, rawLen)
	d := compr.Decompression(algo)
	if d == nil {
		return nil, fmt.Errorf("serialize: unknown compression algorithm %q", algo)
	}
	if err := d.Decompress(compressed, raw); err != nil {
		return nil, err
	}

	dec := newDecoder(int(numTypes), int(numFuncs), int(numNodes))
	body := bytes.NewReader(raw)
	if err := dec.readTypes(body); err != nil {
		return nil, err
	}
	if err := dec.readFuncs(body); err != nil {
		return nil, err
	}
	if err := dec.readNodes(body); err != nil {
		return nil, err
	}
	if err := dec.readDebug(body); err != nil {
		return nil, err
	}
	if err := idBytesUnmarshal(dec.m, idBytes[:]); err != nil {
		return nil, err
	}
	return dec.m, nil
}

func idBytesUnmarshal(m *ir.Module, b []byte) error {
	return m.ID.UnmarshalBinary(b)
}

func writeU32(w *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	w.Write(b[:])
}

func readU32(r *bytes.Reader) uint32 {
	var b [4]byte
	io.ReadFull(r, b[:])
	return binary.LittleEndian.Uint32(b[:])
}

func writeU64(w *bytes.Buffer, v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	w.Write(b[:])
}

func readU64(r *bytes.Reader) uint64 {
	var b [8]byte
	io.ReadFull(r, b[:])
	return binary.LittleEndian.Uint64(b[:])
}

// writeBlock frames payload as {tag[4], skipBytes u32, payload}, the
// §6 tagged-block shape: a reader that doesn't understand tag can
// still skip over it using skipBytes, the way an unknown ion
// annotation is skippable.
func writeBlock(w io.Writer, tag string, payload []byte) error {
	if _, err := io.WriteString(w, tag); err != nil {
		return err
	}
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], uint32(len(payload)))
	if _, err := w.Write(b[:]); err != nil {
		return err
	}
	_, err := w.Write(payload)
	return err
}

func readBlock(r *bytes.Reader, wantTag string) ([]byte, error) {
	var tagBuf [4]byte
	if _, err := io.ReadFull(r, tagBuf[:]); err != nil {
		return nil, err
	}
	if string(tagBuf[:]) != wantTag {
		return nil, fmt.Errorf("serialize: expected block %q, got %q", wantTag, tagBuf)
	}
	n := readU32(r)
	payload := make([]byte, n)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, err
	}
	return payload, nil
}
