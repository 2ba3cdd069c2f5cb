// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wasm

import (
	"encoding/binary"

	"github.com/dchest/siphash"
)

// fingerprintKey0/1 are fixed SipHash keys. Fingerprint is a decode-time
// structural digest, not a security boundary, so a fixed key is fine: it
// only needs to be stable across runs of this module, not
// adversary-resistant.
const (
	fingerprintKey0 = 0x7761736d6c697465
	fingerprintKey1 = 0x636f7265636f7265
)

// Fingerprint returns a 64-bit digest of a module's declared shape: the
// count of each section's entries and every function signature. Two
// modules with identical Fingerprint values have the same type section,
// the same import/export/function/table/memory/global counts, and the
// same code section size — handy for deduplicating decoded modules in a
// cache without hashing the full byte stream.
func (m *Module) Fingerprint() uint64 {
	var buf []byte
	putU32 := func(v uint32) {
		var b [4]byte
		binary.LittleEndian.PutUint32(b[:], v)
		buf = append(buf, b[:]...)
	}

	putU32(uint32(len(m.Types)))
	for _, t := range m.Types {
		putU32(uint32(len(t.Params)))
		for _, p := range t.Params {
			buf = append(buf, byte(p))
		}
		putU32(uint32(len(t.Results)))
		for _, rt := range t.Results {
			buf = append(buf, byte(rt))
		}
	}
	putU32(uint32(len(m.Imports)))
	putU32(uint32(len(m.Funcs)))
	putU32(uint32(m.TableCount()))
	putU32(uint32(m.MemCount()))
	putU32(uint32(len(m.Globals)))
	putU32(uint32(len(m.Exports)))
	putU32(uint32(len(m.Elements)))
	putU32(uint32(len(m.Code)))
	putU32(uint32(len(m.Data)))

	return siphash.Hash(fingerprintKey0, fingerprintKey1, buf)
}
