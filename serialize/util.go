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
	"encoding/binary"
	"io"
)

// The block payloads are read back out of an in-memory bytes.Reader
// sourced from a length-checked, checksum-verified buffer, so these
// helpers treat a short read as impossible in practice and don't
// thread an error return through every call site; readBlock/Load's
// top-level checksum comparison is what actually guards against a
// corrupt or truncated file.

func writePut32(b []byte, v uint32) { binary.LittleEndian.PutUint32(b, v) }

func writePutI32(b []byte, v int32) { binary.LittleEndian.PutUint32(b, uint32(v)) }

func leW32(w io.Writer, v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	w.Write(b[:])
}

func leR32(r *bytes.Reader) uint32 {
	var b [4]byte
	io.ReadFull(r, b[:])
	return binary.LittleEndian.Uint32(b[:])
}

func leI32(r *bytes.Reader) int32 {
	return int32(leR32(r))
}

func leW64(w io.Writer, v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	w.Write(b[:])
}

func leR64(r *bytes.Reader) uint64 {
	var b [8]byte
	io.ReadFull(r, b[:])
	return binary.LittleEndian.Uint64(b[:])
}

func binWriteU16(w io.Writer, v uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	w.Write(b[:])
}

func binReadU16(r *bytes.Reader) uint16 {
	var b [2]byte
	io.ReadFull(r, b[:])
	return binary.LittleEndian.Uint16(b[:])
}

func readByte(r *bytes.Reader) byte {
	b, _ := r.ReadByte()
	return b
}

func leWString(w io.Writer, s string) {
	leW32(w, uint32(len(s)))
	io.WriteString(w, s)
}

func leRString(r *bytes.Reader) (string, error) {
	n := leR32(r)
	b := make([]byte, n)
	if _, err := io.ReadFull(r, b); err != nil {
		return "", err
	}
	return string(b), nil
}
