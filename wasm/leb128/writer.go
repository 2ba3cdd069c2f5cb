// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package leb128

// AppendVarUint64 appends the unsigned LEB128 encoding of v to dst and
// returns the extended slice. Used by tests exercising the encode/decode
// round-trip property.
func AppendVarUint64(dst []byte, v uint64) []byte {
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			dst = append(dst, b|0x80)
			continue
		}
		return append(dst, b)
	}
}

// AppendVarUint32 appends the unsigned LEB128 encoding of v to dst.
func AppendVarUint32(dst []byte, v uint32) []byte {
	return AppendVarUint64(dst, uint64(v))
}

// AppendVarInt64 appends the signed LEB128 encoding of v to dst.
func AppendVarInt64(dst []byte, v int64) []byte {
	more := true
	for more {
		b := byte(v & 0x7f)
		v >>= 7
		if (v == 0 && b&0x40 == 0) || (v == -1 && b&0x40 != 0) {
			more = false
		} else {
			b |= 0x80
		}
		dst = append(dst, b)
	}
	return dst
}

// AppendVarInt32 appends the signed LEB128 encoding of v to dst.
func AppendVarInt32(dst []byte, v int32) []byte {
	return AppendVarInt64(dst, int64(v))
}
