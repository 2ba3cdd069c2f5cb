// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package validate

import "github.com/wasmlite/wasmlite/wasm"

// memValType returns the value type a load opcode produces, or a store
// opcode consumes.
func memValType(op wasm.Opcode) wasm.ValType {
	switch op {
	case wasm.OpI32Load, wasm.OpI32Load8S, wasm.OpI32Load8U, wasm.OpI32Load16S, wasm.OpI32Load16U,
		wasm.OpI32Store, wasm.OpI32Store8, wasm.OpI32Store16:
		return wasm.I32
	case wasm.OpI64Load, wasm.OpI64Load8S, wasm.OpI64Load8U, wasm.OpI64Load16S, wasm.OpI64Load16U,
		wasm.OpI64Load32S, wasm.OpI64Load32U,
		wasm.OpI64Store, wasm.OpI64Store8, wasm.OpI64Store16, wasm.OpI64Store32:
		return wasm.I64
	case wasm.OpF32Load, wasm.OpF32Store:
		return wasm.F32
	case wasm.OpF64Load, wasm.OpF64Store:
		return wasm.F64
	default:
		return 0
	}
}

// memAlignMax returns the largest alignment exponent a load/store opcode
// may declare: log2 of the access width in bytes.
func memAlignMax(op wasm.Opcode) uint32 {
	switch op {
	case wasm.OpI32Load8S, wasm.OpI32Load8U, wasm.OpI32Store8,
		wasm.OpI64Load8S, wasm.OpI64Load8U, wasm.OpI64Store8:
		return 0
	case wasm.OpI32Load16S, wasm.OpI32Load16U, wasm.OpI32Store16,
		wasm.OpI64Load16S, wasm.OpI64Load16U, wasm.OpI64Store16:
		return 1
	case wasm.OpI32Load, wasm.OpI32Store, wasm.OpF32Load, wasm.OpF32Store,
		wasm.OpI64Load32S, wasm.OpI64Load32U, wasm.OpI64Store32:
		return 2
	case wasm.OpI64Load, wasm.OpI64Store, wasm.OpF64Load, wasm.OpF64Store:
		return 3
	default:
		return 0
	}
}
