// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package validate

import "github.com/wasmlite/wasmlite/wasm"

// numSig is the (operand types, result types) signature of a nullary-
// immediate numeric instruction, analogous to wagon's operators.Op table
// but keyed by the module's own Opcode type.
type numSig struct {
	Args    []wasm.ValType
	Results []wasm.ValType
}

func unop(t wasm.ValType) numSig    { return numSig{Args: []wasm.ValType{t}, Results: []wasm.ValType{t}} }
func binop(t wasm.ValType) numSig   { return numSig{Args: []wasm.ValType{t, t}, Results: []wasm.ValType{t}} }
func testop(t wasm.ValType) numSig  { return numSig{Args: []wasm.ValType{t}, Results: []wasm.ValType{wasm.I32}} }
func relop(t wasm.ValType) numSig   { return numSig{Args: []wasm.ValType{t, t}, Results: []wasm.ValType{wasm.I32}} }
func cvtop(from, to wasm.ValType) numSig {
	return numSig{Args: []wasm.ValType{from}, Results: []wasm.ValType{to}}
}

var numericSignatures = buildNumericSignatures()

func buildNumericSignatures() map[wasm.Opcode]numSig {
	m := map[wasm.Opcode]numSig{}

	m[wasm.OpI32Eqz] = testop(wasm.I32)
	for _, op := range []wasm.Opcode{wasm.OpI32Eq, wasm.OpI32Ne, wasm.OpI32LtS, wasm.OpI32LtU,
		wasm.OpI32GtS, wasm.OpI32GtU, wasm.OpI32LeS, wasm.OpI32LeU, wasm.OpI32GeS, wasm.OpI32GeU} {
		m[op] = relop(wasm.I32)
	}

	m[wasm.OpI64Eqz] = numSig{Args: []wasm.ValType{wasm.I64}, Results: []wasm.ValType{wasm.I32}}
	for _, op := range []wasm.Opcode{wasm.OpI64Eq, wasm.OpI64Ne, wasm.OpI64LtS, wasm.OpI64LtU,
		wasm.OpI64GtS, wasm.OpI64GtU, wasm.OpI64LeS, wasm.OpI64LeU, wasm.OpI64GeS, wasm.OpI64GeU} {
		m[op] = relop(wasm.I64)
	}

	for _, op := range []wasm.Opcode{wasm.OpF32Eq, wasm.OpF32Ne, wasm.OpF32Lt, wasm.OpF32Gt, wasm.OpF32Le, wasm.OpF32Ge} {
		m[op] = relop(wasm.F32)
	}
	for _, op := range []wasm.Opcode{wasm.OpF64Eq, wasm.OpF64Ne, wasm.OpF64Lt, wasm.OpF64Gt, wasm.OpF64Le, wasm.OpF64Ge} {
		m[op] = relop(wasm.F64)
	}

	for _, op := range []wasm.Opcode{wasm.OpI32Clz, wasm.OpI32Ctz, wasm.OpI32Popcnt} {
		m[op] = unop(wasm.I32)
	}
	for _, op := range []wasm.Opcode{wasm.OpI32Add, wasm.OpI32Sub, wasm.OpI32Mul, wasm.OpI32DivS, wasm.OpI32DivU,
		wasm.OpI32RemS, wasm.OpI32RemU, wasm.OpI32And, wasm.OpI32Or, wasm.OpI32Xor,
		wasm.OpI32Shl, wasm.OpI32ShrS, wasm.OpI32ShrU, wasm.OpI32Rotl, wasm.OpI32Rotr} {
		m[op] = binop(wasm.I32)
	}

	for _, op := range []wasm.Opcode{wasm.OpI64Clz, wasm.OpI64Ctz, wasm.OpI64Popcnt} {
		m[op] = unop(wasm.I64)
	}
	for _, op := range []wasm.Opcode{wasm.OpI64Add, wasm.OpI64Sub, wasm.OpI64Mul, wasm.OpI64DivS, wasm.OpI64DivU,
		wasm.OpI64RemS, wasm.OpI64RemU, wasm.OpI64And, wasm.OpI64Or, wasm.OpI64Xor,
		wasm.OpI64Shl, wasm.OpI64ShrS, wasm.OpI64ShrU, wasm.OpI64Rotl, wasm.OpI64Rotr} {
		m[op] = binop(wasm.I64)
	}

	for _, op := range []wasm.Opcode{wasm.OpF32Abs, wasm.OpF32Neg, wasm.OpF32Ceil, wasm.OpF32Floor,
		wasm.OpF32Trunc, wasm.OpF32Nearest, wasm.OpF32Sqrt} {
		m[op] = unop(wasm.F32)
	}
	for _, op := range []wasm.Opcode{wasm.OpF32Add, wasm.OpF32Sub, wasm.OpF32Mul, wasm.OpF32Div,
		wasm.OpF32Min, wasm.OpF32Max, wasm.OpF32Copysign} {
		m[op] = binop(wasm.F32)
	}

	for _, op := range []wasm.Opcode{wasm.OpF64Abs, wasm.OpF64Neg, wasm.OpF64Ceil, wasm.OpF64Floor,
		wasm.OpF64Trunc, wasm.OpF64Nearest, wasm.OpF64Sqrt} {
		m[op] = unop(wasm.F64)
	}
	for _, op := range []wasm.Opcode{wasm.OpF64Add, wasm.OpF64Sub, wasm.OpF64Mul, wasm.OpF64Div,
		wasm.OpF64Min, wasm.OpF64Max, wasm.OpF64Copysign} {
		m[op] = binop(wasm.F64)
	}

	m[wasm.OpI32WrapI64] = cvtop(wasm.I64, wasm.I32)
	m[wasm.OpI32TruncF32S] = cvtop(wasm.F32, wasm.I32)
	m[wasm.OpI32TruncF32U] = cvtop(wasm.F32, wasm.I32)
	m[wasm.OpI32TruncF64S] = cvtop(wasm.F64, wasm.I32)
	m[wasm.OpI32TruncF64U] = cvtop(wasm.F64, wasm.I32)
	m[wasm.OpI64ExtendI32S] = cvtop(wasm.I32, wasm.I64)
	m[wasm.OpI64ExtendI32U] = cvtop(wasm.I32, wasm.I64)
	m[wasm.OpI64TruncF32S] = cvtop(wasm.F32, wasm.I64)
	m[wasm.OpI64TruncF32U] = cvtop(wasm.F32, wasm.I64)
	m[wasm.OpI64TruncF64S] = cvtop(wasm.F64, wasm.I64)
	m[wasm.OpI64TruncF64U] = cvtop(wasm.F64, wasm.I64)
	m[wasm.OpF32ConvertI32S] = cvtop(wasm.I32, wasm.F32)
	m[wasm.OpF32ConvertI32U] = cvtop(wasm.I32, wasm.F32)
	m[wasm.OpF32ConvertI64S] = cvtop(wasm.I64, wasm.F32)
	m[wasm.OpF32ConvertI64U] = cvtop(wasm.I64, wasm.F32)
	m[wasm.OpF32DemoteF64] = cvtop(wasm.F64, wasm.F32)
	m[wasm.OpF64ConvertI32S] = cvtop(wasm.I32, wasm.F64)
	m[wasm.OpF64ConvertI32U] = cvtop(wasm.I32, wasm.F64)
	m[wasm.OpF64ConvertI64S] = cvtop(wasm.I64, wasm.F64)
	m[wasm.OpF64ConvertI64U] = cvtop(wasm.I64, wasm.F64)
	m[wasm.OpF64PromoteF32] = cvtop(wasm.F32, wasm.F64)
	m[wasm.OpI32ReinterpretF32] = cvtop(wasm.F32, wasm.I32)
	m[wasm.OpI64ReinterpretF64] = cvtop(wasm.F64, wasm.I64)
	m[wasm.OpF32ReinterpretI32] = cvtop(wasm.I32, wasm.F32)
	m[wasm.OpF64ReinterpretI64] = cvtop(wasm.I64, wasm.F64)

	m[wasm.OpI32Extend8S] = unop(wasm.I32)
	m[wasm.OpI32Extend16S] = unop(wasm.I32)
	m[wasm.OpI64Extend8S] = unop(wasm.I64)
	m[wasm.OpI64Extend16S] = unop(wasm.I64)
	m[wasm.OpI64Extend32S] = unop(wasm.I64)

	m[wasm.OpI32TruncSatF32S] = cvtop(wasm.F32, wasm.I32)
	m[wasm.OpI32TruncSatF32U] = cvtop(wasm.F32, wasm.I32)
	m[wasm.OpI32TruncSatF64S] = cvtop(wasm.F64, wasm.I32)
	m[wasm.OpI32TruncSatF64U] = cvtop(wasm.F64, wasm.I32)
	m[wasm.OpI64TruncSatF32S] = cvtop(wasm.F32, wasm.I64)
	m[wasm.OpI64TruncSatF32U] = cvtop(wasm.F32, wasm.I64)
	m[wasm.OpI64TruncSatF64S] = cvtop(wasm.F64, wasm.I64)
	m[wasm.OpI64TruncSatF64U] = cvtop(wasm.F64, wasm.I64)

	return m
}
