// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package validate

import "github.com/wasmlite/wasmlite/wasm"

// validateSeq type-checks an instruction sequence in order. It does not
// stop at the first failure: after the first error every subsequent
// instruction validates against whatever stack shape is left, which is
// harmless because ctx.err is sticky and no further error overwrites it.
func (c *ctx) validateSeq(body []wasm.Instruction) {
	for _, instr := range body {
		c.validateInstr(instr)
	}
}

func (c *ctx) resolveBlockType(bt wasm.BlockType, offset int) (wasm.FuncType, bool) {
	sig, ok := bt.Resolve(c.module.Types)
	if !ok {
		c.failIndex(SpaceType, offset, "block type index out of range")
	}
	return sig, ok
}

// elseTransition rewinds the current frame's value stack back to its entry
// shape so the else arm of an if can be checked from the same starting
// point as the then arm, clearing unreachable since the else arm is a
// fresh control-flow path.
func (c *ctx) elseTransition(offset int) {
	top := &c.ctrls[len(c.ctrls)-1]
	c.popExpectAll(top.endTypes, offset)
	if len(c.vals) != top.height {
		c.fail(UnbalancedStack, offset, "")
	}
	c.vals = c.vals[:top.height]
	c.pushVals(top.startTypes)
	top.unreachable = false
}

func (c *ctx) validateInstr(instr wasm.Instruction) {
	switch v := instr.(type) {
	case wasm.Unreachable:
		c.unreachable()

	case wasm.Nop:
		// no-op

	case wasm.Block:
		offset := v.Pos()
		sig, ok := c.resolveBlockType(v.BT, offset)
		if !ok {
			return
		}
		c.popExpectAll(sig.Params, offset)
		c.pushCtrl(wasm.OpBlock, sig.Params, sig.Results)
		c.validateSeq(v.Body)
		c.popCtrl(offset)

	case wasm.Loop:
		offset := v.Pos()
		sig, ok := c.resolveBlockType(v.BT, offset)
		if !ok {
			return
		}
		c.popExpectAll(sig.Params, offset)
		c.pushCtrl(wasm.OpLoop, sig.Params, sig.Results)
		c.validateSeq(v.Body)
		c.popCtrl(offset)

	case wasm.If:
		offset := v.Pos()
		sig, ok := c.resolveBlockType(v.BT, offset)
		if !ok {
			return
		}
		c.popExpect(wasm.I32, offset)
		c.popExpectAll(sig.Params, offset)
		c.pushCtrl(wasm.OpIf, sig.Params, sig.Results)
		c.validateSeq(v.Then)
		if v.HasElse {
			c.elseTransition(offset)
			c.validateSeq(v.Else)
		} else if !sameTypes(sig.Params, sig.Results) {
			c.fail(InvalidResultArity, offset, "if without else must not change the value stack's shape")
		}
		c.popCtrl(offset)

	case wasm.Br:
		offset := v.Pos()
		frame, ok := c.frame(v.Label)
		if !ok {
			c.failIndex(SpaceLabel, offset, "")
			return
		}
		c.popExpectAll(frame.labelTypes(), offset)
		c.unreachable()

	case wasm.BrIf:
		offset := v.Pos()
		c.popExpect(wasm.I32, offset)
		frame, ok := c.frame(v.Label)
		if !ok {
			c.failIndex(SpaceLabel, offset, "")
			return
		}
		lt := frame.labelTypes()
		c.popExpectAll(lt, offset)
		c.pushVals(lt)

	case wasm.BrTable:
		offset := v.Pos()
		c.popExpect(wasm.I32, offset)
		defFrame, ok := c.frame(v.Default)
		if !ok {
			c.failIndex(SpaceLabel, offset, "")
			return
		}
		defTypes := defFrame.labelTypes()
		for _, l := range v.Labels {
			lf, ok := c.frame(l)
			if !ok {
				c.failIndex(SpaceLabel, offset, "")
				continue
			}
			if !sameTypes(lf.labelTypes(), defTypes) {
				c.fail(TypeMismatch, offset, "br_table labels disagree on arity/type")
			}
		}
		c.popExpectAll(defTypes, offset)
		c.unreachable()

	case wasm.Return:
		c.popExpectAll(c.ctrls[0].endTypes, v.Pos())
		c.unreachable()

	case wasm.Call:
		offset := v.Pos()
		sig, ok := c.module.FunctionType(v.FuncIdx)
		if !ok {
			c.failIndex(SpaceFunc, offset, "call target")
			return
		}
		c.popExpectAll(sig.Params, offset)
		c.pushVals(sig.Results)

	case wasm.CallIndirect:
		offset := v.Pos()
		tt, ok := c.module.TableTypeAt(0)
		if !ok {
			c.failIndex(SpaceTable, offset, "call_indirect with no table")
			return
		}
		if tt.ElemType != wasm.Funcref {
			c.fail(TypeMismatch, offset, "call_indirect requires table 0 to have element type funcref")
			return
		}
		if int(v.TypeIdx) >= len(c.module.Types) {
			c.failIndex(SpaceType, offset, "call_indirect type")
			return
		}
		sig := c.module.Types[v.TypeIdx]
		c.popExpect(wasm.I32, offset)
		c.popExpectAll(sig.Params, offset)
		c.pushVals(sig.Results)

	case wasm.Drop:
		c.popVal(v.Pos())

	case wasm.Select:
		offset := v.Pos()
		c.popExpect(wasm.I32, offset)
		if v.Type != nil {
			c.popExpect(*v.Type, offset)
			c.popExpect(*v.Type, offset)
			c.pushVal(*v.Type)
			return
		}
		a := c.popVal(offset)
		b := c.popVal(offset)
		if a.known && b.known && a.t != b.t {
			c.fail(TypeMismatch, offset, "select operands have different types")
		}
		switch {
		case a.known:
			c.pushVal(a.t)
		case b.known:
			c.pushVal(b.t)
		default:
			c.vals = append(c.vals, unknownVal)
		}

	case wasm.LocalGet:
		t, ok := c.localType(v.Idx)
		if !ok {
			c.failIndex(SpaceLocal, v.Pos(), "local index")
			return
		}
		c.pushVal(t)

	case wasm.LocalSet:
		t, ok := c.localType(v.Idx)
		if !ok {
			c.failIndex(SpaceLocal, v.Pos(), "local index")
			return
		}
		c.popExpect(t, v.Pos())

	case wasm.LocalTee:
		t, ok := c.localType(v.Idx)
		if !ok {
			c.failIndex(SpaceLocal, v.Pos(), "local index")
			return
		}
		c.popExpect(t, v.Pos())
		c.pushVal(t)

	case wasm.GlobalGet:
		gt, ok := c.module.GlobalTypeAt(v.Idx)
		if !ok {
			c.failIndex(SpaceGlobal, v.Pos(), "global index")
			return
		}
		c.pushVal(gt.Val)

	case wasm.GlobalSet:
		gt, ok := c.module.GlobalTypeAt(v.Idx)
		if !ok {
			c.failIndex(SpaceGlobal, v.Pos(), "global index")
			return
		}
		if !gt.Mutable {
			c.fail(ImmutableGlobal, v.Pos(), "global.set on an immutable global")
			return
		}
		c.popExpect(gt.Val, v.Pos())

	case wasm.MemLoad:
		offset := v.Pos()
		if c.module.MemCount() == 0 {
			c.fail(NoMemory, offset, "memory access with no memory declared")
			return
		}
		if v.Arg.Align > memAlignMax(v.Opcode) {
			c.fail(AlignmentTooLarge, offset, "")
		}
		c.popExpect(wasm.I32, offset)
		c.pushVal(memValType(v.Opcode))

	case wasm.MemStore:
		offset := v.Pos()
		if c.module.MemCount() == 0 {
			c.fail(NoMemory, offset, "memory access with no memory declared")
			return
		}
		if v.Arg.Align > memAlignMax(v.Opcode) {
			c.fail(AlignmentTooLarge, offset, "")
		}
		c.popExpect(memValType(v.Opcode), offset)
		c.popExpect(wasm.I32, offset)

	case wasm.MemorySize:
		if c.module.MemCount() == 0 {
			c.fail(NoMemory, v.Pos(), "memory.size with no memory declared")
			return
		}
		c.pushVal(wasm.I32)

	case wasm.MemoryGrow:
		if c.module.MemCount() == 0 {
			c.fail(NoMemory, v.Pos(), "memory.grow with no memory declared")
			return
		}
		c.popExpect(wasm.I32, v.Pos())
		c.pushVal(wasm.I32)

	case wasm.MemoryCopy:
		offset := v.Pos()
		if c.module.MemCount() == 0 {
			c.fail(NoMemory, offset, "memory.copy with no memory declared")
			return
		}
		c.popExpect(wasm.I32, offset)
		c.popExpect(wasm.I32, offset)
		c.popExpect(wasm.I32, offset)

	case wasm.MemoryFill:
		offset := v.Pos()
		if c.module.MemCount() == 0 {
			c.fail(NoMemory, offset, "memory.fill with no memory declared")
			return
		}
		c.popExpect(wasm.I32, offset)
		c.popExpect(wasm.I32, offset)
		c.popExpect(wasm.I32, offset)

	case wasm.MemoryInit:
		offset := v.Pos()
		if c.module.MemCount() == 0 {
			c.fail(NoMemory, offset, "memory.init with no memory declared")
			return
		}
		if int(v.DataIdx) >= len(c.module.Data) {
			c.failIndex(SpaceData, offset, "memory.init")
			return
		}
		c.popExpect(wasm.I32, offset)
		c.popExpect(wasm.I32, offset)
		c.popExpect(wasm.I32, offset)

	case wasm.DataDrop:
		if int(v.DataIdx) >= len(c.module.Data) {
			c.failIndex(SpaceData, v.Pos(), "data.drop")
		}

	case wasm.ConstI32:
		c.pushVal(wasm.I32)
	case wasm.ConstI64:
		c.pushVal(wasm.I64)
	case wasm.ConstF32:
		c.pushVal(wasm.F32)
	case wasm.ConstF64:
		c.pushVal(wasm.F64)

	case wasm.NumericOp:
		offset := v.Pos()
		sig, ok := numericSignatures[v.Opcode]
		if !ok {
			c.fail(TypeMismatch, offset, "unknown numeric opcode "+v.Opcode.String())
			return
		}
		c.popExpectAll(sig.Args, offset)
		c.pushVals(sig.Results)

	default:
		c.fail(TypeMismatch, instr.Pos(), "unhandled instruction")
	}
}

func (c *ctx) localType(idx uint32) (wasm.ValType, bool) {
	if int(idx) >= len(c.locals) {
		return 0, false
	}
	return c.locals[idx], true
}
