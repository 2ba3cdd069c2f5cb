// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package leb128

import (
	"fmt"
	"math/rand"
	"testing"
)

var casesUint = []struct {
	v uint32
	b []byte
}{
	{b: []byte{0x08}, v: 8},
	{b: []byte{0x80, 0x7f}, v: 16256},
	{b: []byte{0x80, 0x80, 0x80, 0xfd, 0x07}, v: 2141192192},
}

func TestVarUint32(t *testing.T) {
	for _, c := range casesUint {
		t.Run(fmt.Sprint(c.v), func(t *testing.T) {
			r := NewReader(c.b)
			n, err := r.VarUint32()
			if err != nil {
				t.Fatal(err)
			}
			if n != c.v {
				t.Fatalf("got = %d; want = %d", n, c.v)
			}
			if r.Len() != 0 {
				t.Fatalf("cursor left %d unread bytes", r.Len())
			}
		})
	}
}

func TestVarUint32Eof(t *testing.T) {
	r := NewReader(nil)
	if _, err := r.VarUint32(); err != ErrUnexpectedEOF {
		t.Fatalf("got err=%v, want=%v", err, ErrUnexpectedEOF)
	}
}

var casesInt = []struct {
	v int64
	b []byte
}{
	{b: []byte{0xff, 0x7e}, v: -129},
	{b: []byte{0x3f}, v: 63},
	{b: []byte{0x40}, v: -64},
	{b: []byte{0xc0, 0x7f}, v: -64},
	{b: []byte{0x80, 0x80, 0x80, 0x80, 0x02}, v: 536870912},
}

func TestVarInt64(t *testing.T) {
	for _, c := range casesInt {
		t.Run(fmt.Sprint(c.v), func(t *testing.T) {
			r := NewReader(c.b)
			n, err := r.VarInt64()
			if err != nil {
				t.Fatal(err)
			}
			if n != c.v {
				t.Fatalf("got = %d; want = %d", n, c.v)
			}
		})
	}
}

// TestLEBRoundTrip exercises spec property 2: decode(encode(n)) == n for
// both the unsigned and signed forms, across random and boundary inputs.
func TestLEBRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	for i := 0; i < 2000; i++ {
		u := rng.Uint64()
		buf := AppendVarUint64(nil, u)
		r := NewReader(buf)
		got, err := r.VarUintN(64)
		if err != nil {
			t.Fatalf("VarUintN(64) on %d: %v", u, err)
		}
		if got != u {
			t.Fatalf("round-trip u64 mismatch: got %d want %d", got, u)
		}
		if r.Len() != 0 {
			t.Fatalf("unread bytes after decoding u64 %d", u)
		}

		s := int64(rng.Uint64())
		buf = AppendVarInt64(nil, s)
		r = NewReader(buf)
		gotS, err := r.VarIntN(64)
		if err != nil {
			t.Fatalf("VarIntN(64) on %d: %v", s, err)
		}
		if gotS != s {
			t.Fatalf("round-trip s64 mismatch: got %d want %d", gotS, s)
		}
	}

	boundaries := []uint32{0, 1, 127, 128, 16383, 16384, 1<<32 - 1}
	for _, v := range boundaries {
		buf := AppendVarUint32(nil, v)
		r := NewReader(buf)
		got, err := r.VarUint32()
		if err != nil || got != v {
			t.Fatalf("round-trip u32 %d: got=%d err=%v", v, got, err)
		}
	}

	sboundaries := []int32{0, -1, 63, -64, 64, -65, 1<<31 - 1, -(1 << 31)}
	for _, v := range sboundaries {
		buf := AppendVarInt32(nil, v)
		r := NewReader(buf)
		got, err := r.VarInt32()
		if err != nil || got != v {
			t.Fatalf("round-trip s32 %d: got=%d err=%v", v, got, err)
		}
	}
}

// TestLEBOverflowGroupCount exercises spec property 2: inputs with one
// more than the minimum number of continuation bytes required always fail
// overflow, even when the extra byte's payload bits are all zero.
func TestLEBOverflowGroupCount(t *testing.T) {
	// u32 fits in 5 groups max; a 6th all-zero continuation group must
	// still overflow, since the limit is on group count not value.
	buf := []byte{0x80, 0x80, 0x80, 0x80, 0x80, 0x00}
	r := NewReader(buf)
	if _, err := r.VarUintN(32); err != ErrOverflow {
		t.Fatalf("got err=%v, want=%v", err, ErrOverflow)
	}

	// a 5-byte u32 LEB whose top nibble sets bits above bit 31 must overflow.
	buf = []byte{0xff, 0xff, 0xff, 0xff, 0x1f} // last byte's 0x10 bit is bit 32, above the u32 width
	r = NewReader(buf)
	if _, err := r.VarUintN(32); err != ErrOverflow {
		t.Fatalf("got err=%v, want=%v", err, ErrOverflow)
	}
}

func TestVarIntNWidthLimited(t *testing.T) {
	// s33 used for BlockType's TypeIndex: 5 groups max (ceil(33/7)).
	// The largest u32 type index, 1<<32 - 1, is the top of the s33 range.
	buf := AppendVarInt64(nil, 1<<32-1)
	r := NewReader(buf)
	v, err := r.VarIntN(33)
	if err != nil {
		t.Fatalf("VarIntN(33): %v", err)
	}
	if v != 1<<32-1 {
		t.Fatalf("got %d want %d", v, int64(1<<32-1))
	}

	// a value requiring 34 significant bits must overflow a 33-bit read.
	buf = AppendVarInt64(nil, 1<<33)
	r = NewReader(buf)
	if _, err := r.VarIntN(33); err != ErrOverflow {
		t.Fatalf("got err=%v, want=%v", err, ErrOverflow)
	}
}

func TestName(t *testing.T) {
	buf := AppendVarUint32(nil, 5)
	buf = append(buf, "hello"...)
	r := NewReader(buf)
	s, err := r.Name()
	if err != nil {
		t.Fatal(err)
	}
	if s != "hello" {
		t.Fatalf("got %q want %q", s, "hello")
	}
}

func TestNameBadUTF8(t *testing.T) {
	buf := AppendVarUint32(nil, 1)
	buf = append(buf, 0xff)
	r := NewReader(buf)
	if _, err := r.Name(); err != ErrBadUTF8 {
		t.Fatalf("got err=%v, want=%v", err, ErrBadUTF8)
	}
}

func TestByteAndBytesEdges(t *testing.T) {
	r := NewReader([]byte{1, 2, 3})
	b, err := r.Bytes(3)
	if err != nil || len(b) != 3 {
		t.Fatalf("Bytes(3): %v %v", b, err)
	}
	if _, err := r.Byte(); err != ErrUnexpectedEOF {
		t.Fatalf("expected eof, got %v", err)
	}

	r = NewReader([]byte{1, 2, 3})
	if _, err := r.Bytes(4); err != ErrUnexpectedEOF {
		t.Fatalf("Bytes(4) on 3-byte buffer should fail strictly, got %v", err)
	}
	if r.Pos() != 0 {
		t.Fatalf("failed Bytes() must not advance cursor, pos=%d", r.Pos())
	}
}
