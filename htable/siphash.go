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

package htable

import "github.com/dchest/siphash"

// defaultK0, defaultK1 are a fixed SipHash key pair. The table's
// hash values are never exposed outside the process (they only
// drive bucket placement), so a fixed, non-random key is fine and
// keeps rehashing behavior deterministic across runs, which tests
// in this module rely on.
const (
	defaultK0 = 0x736e656c6c657200 // "sneller\0"
	defaultK1 = 0x616e662d697200   // "anf-ir\0"
)

// HashBytes hashes an arbitrary byte key with SipHash-2-4, the
// keyed hash the ir package uses to bucket interned type and node
// descriptors (see hashTypeKey and hashNodeKey in package ir).
func HashBytes(data []byte) uint64 {
	return siphash.Hash(defaultK0, defaultK1, data)
}
