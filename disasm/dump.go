// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package disasm renders a decoded module's function bodies as indented,
// human-readable text, the way a disassembler lists bytecode.
package disasm

import (
	"fmt"
	"io"
	"strings"

	"github.com/wasmlite/wasmlite/wasm"
)

// Module writes every module-defined function body in m to w, one per
// function, in a flat indented form: nested blocks increase the indent
// level and close with a matching "end".
func Module(w io.Writer, m *wasm.Module) error {
	importedFuncs := 0
	for _, imp := range m.Imports {
		if _, ok := imp.Desc.(wasm.FuncImport); ok {
			importedFuncs++
		}
	}
	for i, body := range m.Code {
		idx := importedFuncs + i
		sig, _ := m.FunctionType(uint32(idx))
		if _, err := fmt.Fprintf(w, "func[%d] %s\n", idx, sig); err != nil {
			return err
		}
		if err := Function(w, body); err != nil {
			return err
		}
	}
	return nil
}

// Function writes one function body's instruction tree to w.
func Function(w io.Writer, body wasm.FunctionBody) error {
	d := &dumper{w: w}
	return d.seq(body.Body, 1)
}

type dumper struct {
	w   io.Writer
	err error
}

func (d *dumper) line(depth int, format string, args ...interface{}) {
	if d.err != nil {
		return
	}
	indent := strings.Repeat("  ", depth)
	_, d.err = fmt.Fprintf(d.w, "%s%s\n", indent, fmt.Sprintf(format, args...))
}

func (d *dumper) seq(body []wasm.Instruction, depth int) error {
	for _, instr := range body {
		d.instr(instr, depth)
		if d.err != nil {
			return d.err
		}
	}
	return d.err
}

func (d *dumper) instr(instr wasm.Instruction, depth int) {
	switch v := instr.(type) {
	case wasm.Block:
		d.line(depth, "block %s", v.BT)
		d.seq(v.Body, depth+1)
		d.line(depth, "end")
	case wasm.Loop:
		d.line(depth, "loop %s", v.BT)
		d.seq(v.Body, depth+1)
		d.line(depth, "end")
	case wasm.If:
		d.line(depth, "if %s", v.BT)
		d.seq(v.Then, depth+1)
		if v.HasElse {
			d.line(depth, "else")
			d.seq(v.Else, depth+1)
		}
		d.line(depth, "end")
	case wasm.Br:
		d.line(depth, "br %d", v.Label)
	case wasm.BrIf:
		d.line(depth, "br_if %d", v.Label)
	case wasm.BrTable:
		d.line(depth, "br_table %v default=%d", v.Labels, v.Default)
	case wasm.Call:
		d.line(depth, "call %d", v.FuncIdx)
	case wasm.CallIndirect:
		d.line(depth, "call_indirect (type %d)", v.TypeIdx)
	case wasm.Select:
		if v.Type != nil {
			d.line(depth, "select (result %s)", *v.Type)
		} else {
			d.line(depth, "select")
		}
	case wasm.LocalGet:
		d.line(depth, "local.get %d", v.Idx)
	case wasm.LocalSet:
		d.line(depth, "local.set %d", v.Idx)
	case wasm.LocalTee:
		d.line(depth, "local.tee %d", v.Idx)
	case wasm.GlobalGet:
		d.line(depth, "global.get %d", v.Idx)
	case wasm.GlobalSet:
		d.line(depth, "global.set %d", v.Idx)
	case wasm.MemLoad:
		d.line(depth, "%s align=%d offset=%d", v.Opcode, v.Arg.Align, v.Arg.Offset)
	case wasm.MemStore:
		d.line(depth, "%s align=%d offset=%d", v.Opcode, v.Arg.Align, v.Arg.Offset)
	case wasm.MemoryInit:
		d.line(depth, "memory.init %d", v.DataIdx)
	case wasm.DataDrop:
		d.line(depth, "data.drop %d", v.DataIdx)
	case wasm.ConstI32:
		d.line(depth, "i32.const %d", v.Value)
	case wasm.ConstI64:
		d.line(depth, "i64.const %d", v.Value)
	case wasm.ConstF32:
		d.line(depth, "f32.const 0x%08x", v.Bits)
	case wasm.ConstF64:
		d.line(depth, "f64.const 0x%016x", v.Bits)
	case wasm.NumericOp:
		d.line(depth, "%s", v.Opcode)
	default:
		d.line(depth, "%s", instr.Op())
	}
}
