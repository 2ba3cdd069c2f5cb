// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package validate

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wasmlite/wasmlite/wasm"
	"github.com/wasmlite/wasmlite/wasm/leb128"
)

var header = []byte{0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00}

type testSection struct {
	id      wasm.SectionID
	payload []byte
}

func build(sections ...testSection) []byte {
	data := append([]byte(nil), header...)
	for _, s := range sections {
		data = append(data, byte(s.id))
		data = leb128.AppendVarUint32(data, uint32(len(s.payload)))
		data = append(data, s.payload...)
	}
	return data
}

// funcModule builds a single-function module: sig is (paramCount i32s) ->
// (resultCount i32s), and body is the function's raw instruction bytes
// (without the locals-count prefix or the closing end, both added here).
func funcModule(t *testing.T, params, results int, body []byte) *wasm.Module {
	t.Helper()
	typePayload := append([]byte{0x01, 0x60}, byte(params))
	for i := 0; i < params; i++ {
		typePayload = append(typePayload, 0x7f)
	}
	typePayload = append(typePayload, byte(results))
	for i := 0; i < results; i++ {
		typePayload = append(typePayload, 0x7f)
	}

	fullBody := append([]byte{0x00}, body...) // 0 local-decl runs
	fullBody = append(fullBody, 0x0b)          // end
	codePayload := append([]byte{0x01}, leb128.AppendVarUint32(nil, uint32(len(fullBody)))...)
	codePayload = append(codePayload, fullBody...)

	data := build(
		testSection{wasm.SectionIDType, typePayload},
		testSection{wasm.SectionIDFunction, []byte{0x01, 0x00}},
		testSection{wasm.SectionIDCode, codePayload},
	)
	m, err := wasm.Decode(data)
	require.NoError(t, err)
	return m
}

func TestFunctionValidReturn(t *testing.T) {
	// () -> i32 { i32.const 0 }
	m := funcModule(t, 0, 1, []byte{0x41, 0x00})
	require.Nil(t, Module(m))
}

func TestFunctionResultTypeMismatch(t *testing.T) {
	// () -> i32 { f32.const 0 } — wrong result type
	body := []byte{0x43, 0x00, 0x00, 0x00, 0x00}
	m := funcModule(t, 0, 1, body)
	err := Module(m)
	require.NotNil(t, err)
	require.Equal(t, TypeMismatch, err.Kind)
}

func TestFunctionStackUnderflow(t *testing.T) {
	// () -> () { drop } — nothing on the stack to drop
	m := funcModule(t, 0, 0, []byte{0x1a})
	err := Module(m)
	require.NotNil(t, err)
	require.Equal(t, StackUnderflow, err.Kind)
}

func TestFunctionLocalGetUnknownIndex(t *testing.T) {
	// () -> i32 { local.get 0 } — no locals declared
	m := funcModule(t, 0, 1, []byte{0x20, 0x00})
	err := Module(m)
	require.NotNil(t, err)
	require.Equal(t, UnknownIndex, err.Kind)
	require.Equal(t, SpaceLocal, err.Space)
}

func TestFunctionUnreachablePolymorphic(t *testing.T) {
	// () -> i32 { unreachable } — unreachable code type-checks against any
	// stack shape, including the function's declared result type.
	m := funcModule(t, 0, 1, []byte{0x00})
	require.Nil(t, Module(m))
}

func TestFunctionIfWithoutElseChangesArity(t *testing.T) {
	// (i32) -> i32 { local.get 0; if (result i32) i32.const 1 end }
	// missing else: the then-arm changes the stack's shape, which is only
	// legal when params == results for the block signature ([]->i32 here,
	// not matching).
	body := []byte{
		0x20, 0x00, // local.get 0
		0x04, 0x7f, // if (result i32)
		0x41, 0x01, // i32.const 1
		0x0b, // end (closes if)
	}
	m := funcModule(t, 1, 1, body)
	err := Module(m)
	require.NotNil(t, err)
	require.Equal(t, InvalidResultArity, err.Kind)
}

func TestFunctionBrTableArityMismatch(t *testing.T) {
	// (i32) -> () {
	//   block (result i32)
	//     block
	//       local.get 0
	//       br_table 0 1 0
	//     end
	//     drop
	//   end
	// }
	// label 0 (inner block) yields no value, label 1 (outer block) yields
	// i32 — the table's arms disagree.
	body := []byte{
		0x02, 0x7f, // block (result i32)
		0x02, 0x40, // block (void)
		0x20, 0x00, // local.get 0
		0x0e, 0x02, 0x00, 0x01, 0x00, // br_table [0, 1] default=0
		0x0b,       // end inner block
		0x1a,       // drop
		0x0b,       // end outer block
	}
	m := funcModule(t, 1, 0, body)
	err := Module(m)
	require.NotNil(t, err)
	require.Equal(t, TypeMismatch, err.Kind)
}

func TestCallIndirectRequiresFuncrefTable(t *testing.T) {
	// a table of externref is declared; call_indirect against table 0
	// must be rejected even though a table exists.
	typePayload := []byte{0x01, 0x60, 0x00, 0x00} // () -> ()
	funcPayload := []byte{0x01, 0x00}
	tablePayload := []byte{0x01, 0x6f, 0x00, 0x00} // 1 table: externref, {min:0}
	body := []byte{0x00, 0x11, 0x00, 0x00, 0x0b}   // 0 locals; call_indirect type=0 table=0; end
	codePayload := append([]byte{0x01}, leb128.AppendVarUint32(nil, uint32(len(body)))...)
	codePayload = append(codePayload, body...)

	data := build(
		testSection{wasm.SectionIDType, typePayload},
		testSection{wasm.SectionIDFunction, funcPayload},
		testSection{wasm.SectionIDTable, tablePayload},
		testSection{wasm.SectionIDCode, codePayload},
	)
	m, err := wasm.Decode(data)
	require.NoError(t, err)
	verr := Module(m)
	require.NotNil(t, verr)
	require.Equal(t, TypeMismatch, verr.Kind)
}

func TestCardinalityMultipleMemories(t *testing.T) {
	data := build(testSection{wasm.SectionIDMemory, []byte{0x02, 0x00, 0x01, 0x00, 0x01}})
	m, err := wasm.Decode(data)
	require.NoError(t, err)
	verr := Module(m)
	require.NotNil(t, verr)
	require.Equal(t, MultipleMemories, verr.Kind)
}

func TestGlobalConstExprTypeMismatch(t *testing.T) {
	// global i32 initialized with an f32 constant
	globalPayload := []byte{
		0x01,             // 1 global
		0x7f, 0x00,       // i32, immutable
		0x43, 0, 0, 0, 0, // f32.const 0
		0x0b, // end
	}
	data := build(testSection{wasm.SectionIDGlobal, globalPayload})
	m, err := wasm.Decode(data)
	require.NoError(t, err)
	verr := Module(m)
	require.NotNil(t, verr)
	require.Equal(t, TypeMismatch, verr.Kind)
}

func buildExport(name string, kind wasm.External, idx uint32) []byte {
	b := leb128.AppendVarUint32(nil, uint32(len(name)))
	b = append(b, name...)
	b = append(b, byte(kind))
	b = leb128.AppendVarUint32(b, idx)
	return b
}

func TestExportDuplicateName(t *testing.T) {
	typePayload := []byte{0x01, 0x60, 0x00, 0x00} // () -> ()
	funcPayload := []byte{0x02, 0x00, 0x00}
	codePayload := []byte{
		0x02,             // 2 bodies
		0x02, 0x00, 0x0b, // body 0: no locals, end
		0x02, 0x00, 0x0b, // body 1: no locals, end
	}
	exportPayload := append([]byte{0x02}, buildExport("f", wasm.ExternalFunc, 0)...)
	exportPayload = append(exportPayload, buildExport("f", wasm.ExternalFunc, 1)...)

	data := build(
		testSection{wasm.SectionIDType, typePayload},
		testSection{wasm.SectionIDFunction, funcPayload},
		testSection{wasm.SectionIDExport, exportPayload},
		testSection{wasm.SectionIDCode, codePayload},
	)
	m, err := wasm.Decode(data)
	require.NoError(t, err)
	verr := Module(m)
	require.NotNil(t, verr)
	require.Equal(t, DuplicateExport, verr.Kind)
}
