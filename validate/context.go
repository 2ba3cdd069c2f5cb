// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package validate

import (
	"golang.org/x/exp/slices"

	"github.com/wasmlite/wasmlite/wasm"
)

// stackVal is a value-stack entry. known is false for the polymorphic
// "unknown" type that fills the stack after an instruction that never
// falls through, such as unreachable or br.
type stackVal struct {
	t     wasm.ValType
	known bool
}

func known(t wasm.ValType) stackVal { return stackVal{t: t, known: true} }

var unknownVal = stackVal{}

// ctrlFrame is one entry of the control stack: the bookkeeping needed to
// type-check a structured block, loop, if/else or the implicit outermost
// function frame.
type ctrlFrame struct {
	opcode      wasm.Opcode
	startTypes  []wasm.ValType // the block's parameter types (always empty pre-MVP-extensions)
	endTypes    []wasm.ValType // the block's result types
	height      int            // value-stack height when the frame was pushed
	unreachable bool
}

// labelTypes returns the operand types a branch targeting this frame must
// supply: a loop's label is its entry (start) point, every other
// construct's label is its exit (end) point.
func (f *ctrlFrame) labelTypes() []wasm.ValType {
	if f.opcode == wasm.OpLoop {
		return f.startTypes
	}
	return f.endTypes
}

// ctx holds the full algorithm state while validating one function body
// (or one constant expression): the value stack and the control-frame
// stack, plus the module-level context instructions are validated
// against (locals, globals, functions, tables, memories, types).
type ctx struct {
	vals  []stackVal
	ctrls []ctrlFrame

	module  *wasm.Module
	locals  []wasm.ValType
	funcIdx int // index of the function being validated, for error reporting

	err *Error // first error encountered; once set, all further ops are no-ops
}

func newCtx(m *wasm.Module, locals []wasm.ValType, funcIdx int) *ctx {
	return &ctx{module: m, locals: locals, funcIdx: funcIdx}
}

func (c *ctx) fail(kind ErrorKind, offset int, detail string) {
	if c.err == nil {
		c.err = newError(kind, c.funcIdx, offset, detail)
	}
}

func (c *ctx) failIndex(space IndexSpace, offset int, detail string) {
	if c.err == nil {
		c.err = newIndexError(space, c.funcIdx, offset, detail)
	}
}

func (c *ctx) failed() bool { return c.err != nil }

func (c *ctx) pushVal(t wasm.ValType) {
	c.vals = append(c.vals, known(t))
}

func (c *ctx) pushVals(ts []wasm.ValType) {
	for _, t := range ts {
		c.pushVal(t)
	}
}

// popVal pops and returns the top of the value stack. At the bottom of an
// unreachable frame it manufactures an unknown value rather than
// underflowing, per the stack-polymorphism rule.
func (c *ctx) popVal(offset int) stackVal {
	top := &c.ctrls[len(c.ctrls)-1]
	if len(c.vals) == top.height {
		if top.unreachable {
			return unknownVal
		}
		c.fail(StackUnderflow, offset, "")
		return unknownVal
	}
	v := c.vals[len(c.vals)-1]
	c.vals = c.vals[:len(c.vals)-1]
	return v
}

// popExpect pops a value and checks it against want, recording a
// TypeMismatch error on disagreement. An unknown popped value always
// matches.
func (c *ctx) popExpect(want wasm.ValType, offset int) {
	got := c.popVal(offset)
	if !got.known {
		return
	}
	if got.t != want {
		c.fail(TypeMismatch, offset, "expected "+want.String()+", got "+got.t.String())
	}
}

func (c *ctx) popExpectAll(want []wasm.ValType, offset int) {
	for i := len(want) - 1; i >= 0; i-- {
		c.popExpect(want[i], offset)
	}
}

func (c *ctx) pushCtrl(op wasm.Opcode, start, end []wasm.ValType) {
	c.ctrls = append(c.ctrls, ctrlFrame{
		opcode:     op,
		startTypes: start,
		endTypes:   end,
		height:     len(c.vals),
	})
	c.pushVals(start)
}

// popCtrl closes the current frame, checking that its declared result
// types are present on the stack and that no extra values remain, then
// pushes the result types back for the enclosing context to consume.
func (c *ctx) popCtrl(offset int) ctrlFrame {
	top := c.ctrls[len(c.ctrls)-1]
	c.popExpectAll(top.endTypes, offset)
	if len(c.vals) != top.height {
		c.fail(UnbalancedStack, offset, "")
	}
	c.ctrls = c.ctrls[:len(c.ctrls)-1]
	c.pushVals(top.endTypes)
	return top
}

// unreachable truncates the value stack to the current frame's base height
// and marks it polymorphic, per the rule that every instruction after an
// unconditional transfer of control type-checks against any stack shape.
func (c *ctx) unreachable() {
	top := &c.ctrls[len(c.ctrls)-1]
	c.vals = c.vals[:top.height]
	top.unreachable = true
}

// frame returns the control frame `depth` labels out from the innermost
// (0 = innermost), or false if depth is out of range.
func (c *ctx) frame(depth uint32) (*ctrlFrame, bool) {
	if int(depth) >= len(c.ctrls) {
		return nil, false
	}
	return &c.ctrls[len(c.ctrls)-1-int(depth)], true
}

func sameTypes(a, b []wasm.ValType) bool {
	return slices.Equal(a, b)
}
