// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package validate implements type-directed validation of a decoded
// WebAssembly module, per the algorithm sketched in the WebAssembly
// specification's appendix: a value stack of possibly-unknown types plus
// an explicit stack of control frames.
package validate

import (
	"fmt"

	"github.com/wasmlite/wasmlite/wasm"
)

// ErrorKind tags the closed taxonomy of validation failures.
type ErrorKind int

const (
	TypeMismatch ErrorKind = iota
	StackUnderflow
	UnbalancedStack
	UnknownIndex
	InvalidResultArity
	DuplicateExport
	StartFunctionSignature
	ConstantExpressionRequired
	AlignmentTooLarge
	MultipleMemories
	MultipleTables
	ImmutableGlobal
	NoMemory
)

func (k ErrorKind) String() string {
	switch k {
	case TypeMismatch:
		return "TypeMismatch"
	case StackUnderflow:
		return "StackUnderflow"
	case UnbalancedStack:
		return "UnbalancedStack"
	case UnknownIndex:
		return "UnknownIndex"
	case InvalidResultArity:
		return "InvalidResultArity"
	case DuplicateExport:
		return "DuplicateExport"
	case StartFunctionSignature:
		return "StartFunctionSignature"
	case ConstantExpressionRequired:
		return "ConstantExpressionRequired"
	case AlignmentTooLarge:
		return "AlignmentTooLarge"
	case MultipleMemories:
		return "MultipleMemories"
	case MultipleTables:
		return "MultipleTables"
	case ImmutableGlobal:
		return "ImmutableGlobal"
	case NoMemory:
		return "NoMemory"
	default:
		return "UnknownValidationErrorKind"
	}
}

// IndexSpace discriminates which index space an UnknownIndex error refers
// to: a label is a branch depth, not an index into a module section, but
// it is counted among the spaces for the same reason the others are —
// resolving it failed because the referenced entry doesn't exist.
type IndexSpace int

const (
	SpaceFunc IndexSpace = iota
	SpaceTable
	SpaceMemory
	SpaceGlobal
	SpaceLocal
	SpaceLabel
	SpaceType
	SpaceData
	SpaceElement
)

func (s IndexSpace) String() string {
	switch s {
	case SpaceFunc:
		return "func"
	case SpaceTable:
		return "table"
	case SpaceMemory:
		return "memory"
	case SpaceGlobal:
		return "global"
	case SpaceLocal:
		return "local"
	case SpaceLabel:
		return "label"
	case SpaceType:
		return "type"
	case SpaceData:
		return "data"
	case SpaceElement:
		return "element"
	default:
		return "unknown"
	}
}

// Error is returned by Module and Function when a decoded module fails
// type-directed validation.
type Error struct {
	Kind     ErrorKind
	Function int        // index into the function index space, -1 outside a function
	Offset   int        // byte offset of the offending instruction, from its Instruction.Offset
	Space    IndexSpace // which index space Kind == UnknownIndex refers to; meaningless otherwise
	Detail   string
	Wrapped  error
}

func (e *Error) Error() string {
	loc := fmt.Sprintf("offset %d", e.Offset)
	if e.Function >= 0 {
		loc = fmt.Sprintf("function %d, offset %d", e.Function, e.Offset)
	}
	kind := e.Kind.String()
	if e.Kind == UnknownIndex {
		kind = fmt.Sprintf("UnknownIndex(%s)", e.Space)
	}
	if e.Detail != "" {
		return fmt.Sprintf("validate: %s: %s: %s", loc, kind, e.Detail)
	}
	return fmt.Sprintf("validate: %s: %s", loc, kind)
}

func (e *Error) Unwrap() error { return e.Wrapped }

func newError(kind ErrorKind, fn, offset int, detail string) *Error {
	return &Error{Kind: kind, Function: fn, Offset: offset, Detail: detail}
}

// newIndexError builds an UnknownIndex error naming which space the
// missing entry was looked up in, per the spec's UnknownIndex{space, idx}
// shape.
func newIndexError(space IndexSpace, fn, offset int, detail string) *Error {
	return &Error{Kind: UnknownIndex, Function: fn, Offset: offset, Space: space, Detail: detail}
}

// typeStr renders a value type for error messages, with "unknown" standing
// in for the stack-polymorphic type produced after unreachable.
func typeStr(t wasm.ValType, known bool) string {
	if !known {
		return "unknown"
	}
	return t.String()
}
