// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package validate

import "github.com/wasmlite/wasmlite/wasm"

// Module type-checks every function body, global initializer, element and
// data segment offset, and cross-reference (export/start indices, table and
// memory cardinality) in a decoded module. It returns the first error
// encountered, or nil if the module is valid.
func Module(m *wasm.Module) *Error {
	if err := checkCardinality(m); err != nil {
		return err
	}
	if err := checkStart(m); err != nil {
		return err
	}
	if err := checkExports(m); err != nil {
		return err
	}
	if err := checkGlobals(m); err != nil {
		return err
	}
	if err := checkElements(m); err != nil {
		return err
	}
	if err := checkData(m); err != nil {
		return err
	}
	for i := range m.Code {
		if err := Function(m, i); err != nil {
			return err
		}
	}
	return nil
}

// checkCardinality enforces the WebAssembly 1.0 rule that a module may
// declare at most one table and at most one linear memory, counting
// imports together with module-defined declarations.
func checkCardinality(m *wasm.Module) *Error {
	if m.TableCount() > 1 {
		return newError(MultipleTables, -1, 0, "")
	}
	if m.MemCount() > 1 {
		return newError(MultipleMemories, -1, 0, "")
	}
	return nil
}

func checkStart(m *wasm.Module) *Error {
	if m.Start == nil {
		return nil
	}
	sig, ok := m.FunctionType(*m.Start)
	if !ok {
		return newIndexError(SpaceFunc, -1, 0, "start function index")
	}
	if len(sig.Params) != 0 || len(sig.Results) != 0 {
		return newError(StartFunctionSignature, -1, 0, "start function must take no parameters and return no results")
	}
	return nil
}

// checkExports verifies export names are unique and every export's index
// resolves in its kind's index space.
func checkExports(m *wasm.Module) *Error {
	seen := make(map[string]bool, len(m.Exports))
	for _, e := range m.Exports {
		if seen[e.Name] {
			return newError(DuplicateExport, -1, 0, "\""+e.Name+"\"")
		}
		seen[e.Name] = true

		var ok bool
		var space IndexSpace
		switch e.Kind {
		case wasm.ExternalFunc:
			space = SpaceFunc
			_, ok = m.FunctionType(e.Index)
		case wasm.ExternalTable:
			space = SpaceTable
			_, ok = m.TableTypeAt(e.Index)
		case wasm.ExternalMem:
			space = SpaceMemory
			_, ok = m.MemTypeAt(e.Index)
		case wasm.ExternalGlobal:
			space = SpaceGlobal
			_, ok = m.GlobalTypeAt(e.Index)
		}
		if !ok {
			return newIndexError(space, -1, 0, "export \""+e.Name+"\" refers to an unknown "+e.Kind.String()+" index")
		}
	}
	return nil
}

func checkGlobals(m *wasm.Module) *Error {
	for _, g := range m.Globals {
		if err := checkConstExpr(m, g.Init, g.Type.Val, -1); err != nil {
			return err
		}
	}
	return nil
}

func checkElements(m *wasm.Module) *Error {
	for _, el := range m.Elements {
		if _, ok := m.TableTypeAt(el.TableIdx); !ok {
			return newIndexError(SpaceTable, -1, 0, "element segment table index")
		}
		if err := checkConstExpr(m, el.Offset, wasm.I32, -1); err != nil {
			return err
		}
		for _, fi := range el.Funcs {
			if _, ok := m.FunctionType(fi); !ok {
				return newIndexError(SpaceFunc, -1, 0, "element segment function index")
			}
		}
	}
	return nil
}

func checkData(m *wasm.Module) *Error {
	for _, d := range m.Data {
		if _, ok := m.MemTypeAt(d.MemIdx); !ok {
			return newIndexError(SpaceMemory, -1, 0, "data segment memory index")
		}
		if err := checkConstExpr(m, d.Offset, wasm.I32, -1); err != nil {
			return err
		}
	}
	return nil
}

// checkConstExpr validates a constant expression, the restricted
// instruction sequence permitted for global initializers and element/data
// segment offsets: exactly one of i32.const, i64.const, f32.const,
// f64.const or global.get referring to an imported immutable global of
// matching type.
func checkConstExpr(m *wasm.Module, expr []wasm.Instruction, want wasm.ValType, fn int) *Error {
	if len(expr) != 1 {
		return newError(ConstantExpressionRequired, fn, exprOffset(expr), "constant expression must be exactly one instruction")
	}
	switch instr := expr[0].(type) {
	case wasm.ConstI32:
		return constExprType(wasm.I32, want, fn, instr.Pos())
	case wasm.ConstI64:
		return constExprType(wasm.I64, want, fn, instr.Pos())
	case wasm.ConstF32:
		return constExprType(wasm.F32, want, fn, instr.Pos())
	case wasm.ConstF64:
		return constExprType(wasm.F64, want, fn, instr.Pos())
	case wasm.GlobalGet:
		gt, ok := m.GlobalTypeAt(instr.Idx)
		if !ok {
			return newIndexError(SpaceGlobal, fn, instr.Pos(), "global.get in constant expression")
		}
		imported := 0
		for _, imp := range m.Imports {
			if _, ok := imp.Desc.(wasm.GlobalImport); ok {
				imported++
			}
		}
		if int(instr.Idx) >= imported {
			return newError(ConstantExpressionRequired, fn, instr.Pos(), "global.get in a constant expression must reference an imported global")
		}
		if gt.Mutable {
			return newError(ConstantExpressionRequired, fn, instr.Pos(), "global.get in a constant expression must reference an immutable global")
		}
		return constExprType(gt.Val, want, fn, instr.Pos())
	default:
		return newError(ConstantExpressionRequired, fn, instr.Pos(), "instruction not valid in a constant expression")
	}
}

func constExprType(got, want wasm.ValType, fn, offset int) *Error {
	if got != want {
		return newError(TypeMismatch, fn, offset, "constant expression produces "+got.String()+", want "+want.String())
	}
	return nil
}

func exprOffset(expr []wasm.Instruction) int {
	if len(expr) == 0 {
		return 0
	}
	return expr[0].Pos()
}

// Function type-checks the body of the module-defined function at code
// index i (0-based within the code section, not the full function index
// space).
func Function(m *wasm.Module, i int) *Error {
	body := m.Code[i]
	importedFuncs := 0
	for _, imp := range m.Imports {
		if _, ok := imp.Desc.(wasm.FuncImport); ok {
			importedFuncs++
		}
	}
	funcIdx := importedFuncs + i
	sig, ok := m.FunctionType(uint32(funcIdx))
	if !ok {
		return newIndexError(SpaceFunc, funcIdx, 0, "function type")
	}

	locals := append([]wasm.ValType(nil), sig.Params...)
	for _, l := range body.Locals {
		for j := uint32(0); j < l.Count; j++ {
			locals = append(locals, l.Type)
		}
	}

	c := newCtx(m, locals, funcIdx)
	// The function body itself is the outermost control frame; its opcode
	// only needs to differ from OpLoop so a top-level br/return targets end
	// types rather than start types.
	c.pushCtrl(wasm.OpUnreachable, nil, sig.Results)
	c.validateSeq(body.Body)
	c.popCtrl(0)
	return c.err
}
