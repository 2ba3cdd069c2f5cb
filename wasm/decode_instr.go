// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wasm

import (
	"github.com/wasmlite/wasmlite/wasm/leb128"
)

// terminator marks which opcode(s) end the instruction sequence a given
// decode call is reading: OpEnd alone for a top-level function body or a
// block/loop body, or OpEnd|OpElse for the "then" arm of an if.
type terminator struct {
	else_ bool
}

// decodeExpr decodes a sequence of instructions up to (but not including)
// the OpEnd that closes it, or, when allowElse is true, up to an OpElse or
// OpEnd. It reports which byte ended the sequence via sawElse.
func decodeExpr(r *leb128.Reader, allowElse bool) (body []Instruction, sawElse bool, err error) {
	for {
		start := r.Pos()
		if r.Len() == 0 {
			return nil, false, newDecodeError(UnexpectedEOF, start, start, "instruction sequence missing end", nil)
		}
		b, err := r.Byte()
		if err != nil {
			return nil, false, wrapLEB(err, start, r.Pos())
		}

		switch Opcode(b) {
		case OpEnd:
			return body, false, nil
		case OpElse:
			if !allowElse {
				return nil, false, newDecodeError(ElseOutsideIf, start, r.Pos(), "", nil)
			}
			return body, true, nil
		}

		if reservedOpcodes[b] {
			return nil, false, newDecodeError(ReservedOpcode, start, r.Pos(), Opcode(b).String(), nil)
		}

		instr, err := decodeOneInstruction(r, Opcode(b), start)
		if err != nil {
			return nil, false, err
		}
		body = append(body, instr)
	}
}

func wrapLEB(err error, start, end int) error {
	switch err {
	case leb128.ErrOverflow:
		return newDecodeError(IntegerOverflow, start, end, "", err)
	case leb128.ErrBadUTF8:
		return newDecodeError(BadEncoding, start, end, "invalid utf-8", err)
	default:
		return newDecodeError(UnexpectedEOF, start, end, "", err)
	}
}

func decodeBlockType(r *leb128.Reader) (BlockType, error) {
	start := r.Pos()
	if b, err := r.Peek(); err == nil && b == 0x40 {
		r.Byte()
		return VoidBlockType, nil
	}
	if b, err := r.Peek(); err == nil {
		if vt, ok := valTypeFromByte(b); ok {
			r.Byte()
			return InlineBlockType(vt), nil
		}
	}
	idx, err := r.VarIntN(33)
	if err != nil {
		return BlockType{}, wrapLEB(err, start, r.Pos())
	}
	if idx < 0 {
		return BlockType{}, newDecodeError(BadEncoding, start, r.Pos(), "negative type index", nil)
	}
	return TypeIndexBlockType(uint32(idx)), nil
}

func decodeMemArg(r *leb128.Reader) (MemArg, error) {
	start := r.Pos()
	align, err := r.VarUint32()
	if err != nil {
		return MemArg{}, wrapLEB(err, start, r.Pos())
	}
	offset, err := r.VarUint32()
	if err != nil {
		return MemArg{}, wrapLEB(err, start, r.Pos())
	}
	return MemArg{Align: align, Offset: offset}, nil
}

func decodeOneInstruction(r *leb128.Reader, op Opcode, start int) (Instruction, error) {
	off := Offset{At: start}

	switch op {
	case OpUnreachable:
		return Unreachable{off}, nil
	case OpNop:
		return Nop{off}, nil

	case OpBlock:
		bt, err := decodeBlockType(r)
		if err != nil {
			return nil, err
		}
		body, _, err := decodeExpr(r, false)
		if err != nil {
			return nil, err
		}
		return Block{off, bt, body}, nil

	case OpLoop:
		bt, err := decodeBlockType(r)
		if err != nil {
			return nil, err
		}
		body, _, err := decodeExpr(r, false)
		if err != nil {
			return nil, err
		}
		return Loop{off, bt, body}, nil

	case OpIf:
		bt, err := decodeBlockType(r)
		if err != nil {
			return nil, err
		}
		then, sawElse, err := decodeExpr(r, true)
		if err != nil {
			return nil, err
		}
		var els []Instruction
		if sawElse {
			els, _, err = decodeExpr(r, false)
			if err != nil {
				return nil, err
			}
		}
		return If{off, bt, then, els, sawElse}, nil

	case OpBr:
		idx, err := readIdx(r)
		if err != nil {
			return nil, err
		}
		return Br{off, idx}, nil

	case OpBrIf:
		idx, err := readIdx(r)
		if err != nil {
			return nil, err
		}
		return BrIf{off, idx}, nil

	case OpBrTable:
		n, err := readIdx(r)
		if err != nil {
			return nil, err
		}
		labels := make([]uint32, n)
		for i := range labels {
			labels[i], err = readIdx(r)
			if err != nil {
				return nil, err
			}
		}
		def, err := readIdx(r)
		if err != nil {
			return nil, err
		}
		return BrTable{off, labels, def}, nil

	case OpReturn:
		return Return{off}, nil

	case OpCall:
		idx, err := readIdx(r)
		if err != nil {
			return nil, err
		}
		return Call{off, idx}, nil

	case OpCallIndirect:
		typeIdx, err := readIdx(r)
		if err != nil {
			return nil, err
		}
		tableByteStart := r.Pos()
		tableIdx, err := readIdx(r)
		if err != nil {
			return nil, err
		}
		if tableIdx != 0 {
			// the reserved table-index byte must be 0x00 in WebAssembly 1.0
			return nil, newDecodeError(ReservedByteNonZero, tableByteStart, r.Pos(), "call_indirect table index", nil)
		}
		return CallIndirect{off, typeIdx, tableIdx}, nil

	case OpDrop:
		return Drop{off}, nil
	case OpSelect:
		return Select{off, nil}, nil
	case OpSelectT:
		n, err := readIdx(r)
		if err != nil {
			return nil, err
		}
		if n != 1 {
			return nil, newDecodeError(BadEncoding, start, r.Pos(), "select.t expects exactly one result type", nil)
		}
		b, err := r.Byte()
		if err != nil {
			return nil, wrapLEB(err, start, r.Pos())
		}
		vt, ok := valTypeFromByte(b)
		if !ok {
			return nil, newDecodeError(BadEncoding, start, r.Pos(), "bad value type in select.t", nil)
		}
		return Select{off, &vt}, nil

	case OpLocalGet:
		idx, err := readIdx(r)
		if err != nil {
			return nil, err
		}
		return LocalGet{off, idx}, nil
	case OpLocalSet:
		idx, err := readIdx(r)
		if err != nil {
			return nil, err
		}
		return LocalSet{off, idx}, nil
	case OpLocalTee:
		idx, err := readIdx(r)
		if err != nil {
			return nil, err
		}
		return LocalTee{off, idx}, nil
	case OpGlobalGet:
		idx, err := readIdx(r)
		if err != nil {
			return nil, err
		}
		return GlobalGet{off, idx}, nil
	case OpGlobalSet:
		idx, err := readIdx(r)
		if err != nil {
			return nil, err
		}
		return GlobalSet{off, idx}, nil

	case OpI32Load, OpI64Load, OpF32Load, OpF64Load,
		OpI32Load8S, OpI32Load8U, OpI32Load16S, OpI32Load16U,
		OpI64Load8S, OpI64Load8U, OpI64Load16S, OpI64Load16U,
		OpI64Load32S, OpI64Load32U:
		arg, err := decodeMemArg(r)
		if err != nil {
			return nil, err
		}
		return MemLoad{off, op, arg}, nil

	case OpI32Store, OpI64Store, OpF32Store, OpF64Store,
		OpI32Store8, OpI32Store16, OpI64Store8, OpI64Store16, OpI64Store32:
		arg, err := decodeMemArg(r)
		if err != nil {
			return nil, err
		}
		return MemStore{off, op, arg}, nil

	case OpMemorySize:
		if err := expectZeroByte(r, start); err != nil {
			return nil, err
		}
		return MemorySize{off}, nil
	case OpMemoryGrow:
		if err := expectZeroByte(r, start); err != nil {
			return nil, err
		}
		return MemoryGrow{off}, nil

	case OpI32Const:
		v, err := r.VarInt32()
		if err != nil {
			return nil, wrapLEB(err, start, r.Pos())
		}
		return ConstI32{off, v}, nil
	case OpI64Const:
		v, err := r.VarInt64()
		if err != nil {
			return nil, wrapLEB(err, start, r.Pos())
		}
		return ConstI64{off, v}, nil
	case OpF32Const:
		v, err := r.F32Bits()
		if err != nil {
			return nil, wrapLEB(err, start, r.Pos())
		}
		return ConstF32{off, v}, nil
	case OpF64Const:
		v, err := r.F64Bits()
		if err != nil {
			return nil, wrapLEB(err, start, r.Pos())
		}
		return ConstF64{off, v}, nil

	case OpPrefixFC:
		return decodeFCInstruction(r, off, start)
	}

	if _, ok := opcodeNames[op]; ok {
		return NumericOp{off, op}, nil
	}

	return nil, newDecodeError(BadEncoding, start, r.Pos(), op.String(), nil)
}

func decodeFCInstruction(r *leb128.Reader, off Offset, start int) (Instruction, error) {
	sub, err := readIdx(r)
	if err != nil {
		return nil, err
	}
	op := fcBase + Opcode(sub)

	switch op {
	case OpI32TruncSatF32S, OpI32TruncSatF32U, OpI32TruncSatF64S, OpI32TruncSatF64U,
		OpI64TruncSatF32S, OpI64TruncSatF32U, OpI64TruncSatF64S, OpI64TruncSatF64U:
		return NumericOp{off, op}, nil

	case OpMemoryInit:
		dataIdx, err := readIdx(r)
		if err != nil {
			return nil, err
		}
		if err := expectZeroByte(r, start); err != nil {
			return nil, err
		}
		return MemoryInit{off, dataIdx}, nil

	case OpDataDrop:
		dataIdx, err := readIdx(r)
		if err != nil {
			return nil, err
		}
		return DataDrop{off, dataIdx}, nil

	case OpMemoryCopy:
		if err := expectZeroByte(r, start); err != nil {
			return nil, err
		}
		if err := expectZeroByte(r, start); err != nil {
			return nil, err
		}
		return MemoryCopy{off}, nil

	case OpMemoryFill:
		if err := expectZeroByte(r, start); err != nil {
			return nil, err
		}
		return MemoryFill{off}, nil

	default:
		return nil, newDecodeError(BadEncoding, start, r.Pos(), "unknown 0xfc sub-opcode", nil)
	}
}

func readIdx(r *leb128.Reader) (uint32, error) {
	start := r.Pos()
	v, err := r.VarUint32()
	if err != nil {
		return 0, wrapLEB(err, start, r.Pos())
	}
	return v, nil
}

func expectZeroByte(r *leb128.Reader, instrStart int) error {
	pos := r.Pos()
	b, err := r.Byte()
	if err != nil {
		return wrapLEB(err, pos, r.Pos())
	}
	if b != 0x00 {
		return newDecodeError(ReservedByteNonZero, pos, r.Pos(), "", nil)
	}
	return nil
}
