// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wasm

import "fmt"

// ValType is the tag of a WebAssembly value type.
type ValType byte

// The seven value types recognized by this module, tagged by their wire
// encoding byte.
const (
	I32       ValType = 0x7F
	I64       ValType = 0x7E
	F32       ValType = 0x7D
	F64       ValType = 0x7C
	V128      ValType = 0x7B
	Funcref   ValType = 0x70
	Externref ValType = 0x6F
)

func (t ValType) String() string {
	switch t {
	case I32:
		return "i32"
	case I64:
		return "i64"
	case F32:
		return "f32"
	case F64:
		return "f64"
	case V128:
		return "v128"
	case Funcref:
		return "funcref"
	case Externref:
		return "externref"
	default:
		return fmt.Sprintf("<unknown valtype %#x>", byte(t))
	}
}

// IsNum reports whether t is one of the numeric types i32, i64, f32, f64.
func (t ValType) IsNum() bool {
	switch t {
	case I32, I64, F32, F64:
		return true
	default:
		return false
	}
}

// IsVec reports whether t is the vector type v128.
func (t ValType) IsVec() bool { return t == V128 }

// IsRef reports whether t is one of the reference types funcref, externref.
func (t ValType) IsRef() bool { return t == Funcref || t == Externref }

// valTypeFromByte decodes a single value-type tag byte. It returns false
// if b is not one of the recognized tags.
func valTypeFromByte(b byte) (ValType, bool) {
	switch ValType(b) {
	case I32, I64, F32, F64, V128, Funcref, Externref:
		return ValType(b), true
	default:
		return 0, false
	}
}

// FuncType is the signature of a function: an ordered list of parameter
// types mapping to an ordered list of result types.
type FuncType struct {
	Params  []ValType
	Results []ValType
}

func (f FuncType) String() string {
	return fmt.Sprintf("%v -> %v", f.Params, f.Results)
}

// Equal reports whether f and o describe the same signature.
func (f FuncType) Equal(o FuncType) bool {
	if len(f.Params) != len(o.Params) || len(f.Results) != len(o.Results) {
		return false
	}
	for i := range f.Params {
		if f.Params[i] != o.Params[i] {
			return false
		}
	}
	for i := range f.Results {
		if f.Results[i] != o.Results[i] {
			return false
		}
	}
	return true
}

// BlockType is the signature of a structured control instruction
// (block/loop/if): either void, an inline single result type, or an index
// into the module's type section.
type BlockType struct {
	kind    blockTypeKind
	inline  ValType
	typeIdx uint32
}

type blockTypeKind uint8

const (
	blockVoid blockTypeKind = iota
	blockInline
	blockTypeIndex
)

// VoidBlockType is the `[] -> []` block signature, wire-encoded as 0x40.
var VoidBlockType = BlockType{kind: blockVoid}

// InlineBlockType returns the `[] -> [t]` block signature.
func InlineBlockType(t ValType) BlockType {
	return BlockType{kind: blockInline, inline: t}
}

// TypeIndexBlockType returns a block signature that resolves against the
// module's type section at idx.
func TypeIndexBlockType(idx uint32) BlockType {
	return BlockType{kind: blockTypeIndex, typeIdx: idx}
}

// IsVoid reports whether b is the empty `[] -> []` signature.
func (b BlockType) IsVoid() bool { return b.kind == blockVoid }

// TypeIndex returns the type-section index b refers to and true, or
// (0, false) if b is not a TypeIndex block type.
func (b BlockType) TypeIndex() (uint32, bool) {
	if b.kind == blockTypeIndex {
		return b.typeIdx, true
	}
	return 0, false
}

// Resolve computes the FuncType a block signature denotes, looking up
// types for the TypeIndex case. ok is false if a TypeIndex block type
// refers to an out-of-range type index.
func (b BlockType) Resolve(types []FuncType) (sig FuncType, ok bool) {
	switch b.kind {
	case blockVoid:
		return FuncType{}, true
	case blockInline:
		return FuncType{Results: []ValType{b.inline}}, true
	case blockTypeIndex:
		if int(b.typeIdx) >= len(types) {
			return FuncType{}, false
		}
		return types[b.typeIdx], true
	default:
		panic("wasm: invalid BlockType")
	}
}

func (b BlockType) String() string {
	switch b.kind {
	case blockVoid:
		return "<void>"
	case blockInline:
		return fmt.Sprintf("[] -> [%s]", b.inline)
	case blockTypeIndex:
		return fmt.Sprintf("<type %d>", b.typeIdx)
	default:
		return "<invalid block type>"
	}
}

// MemArg is the (align, offset) immediate of a memory access instruction.
// Align is encoded as a power-of-two exponent.
type MemArg struct {
	Align  uint32
	Offset uint32
}
