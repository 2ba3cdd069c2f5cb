// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wasm

import "fmt"

// External tags the kind of entry referenced by an import or export.
type External uint8

const (
	ExternalFunc External = iota
	ExternalTable
	ExternalMem
	ExternalGlobal
)

func (e External) String() string {
	switch e {
	case ExternalFunc:
		return "func"
	case ExternalTable:
		return "table"
	case ExternalMem:
		return "mem"
	case ExternalGlobal:
		return "global"
	default:
		return fmt.Sprintf("<unknown external_kind %d>", uint8(e))
	}
}

func externalFromByte(b byte) (External, bool) {
	switch External(b) {
	case ExternalFunc, ExternalTable, ExternalMem, ExternalGlobal:
		return External(b), true
	default:
		return 0, false
	}
}

// Limits bounds the size of a table or linear memory, in table elements or
// 64KiB pages respectively.
type Limits struct {
	Min    uint32
	Max    uint32
	HasMax bool
}

func (l Limits) String() string {
	if l.HasMax {
		return fmt.Sprintf("{%d,%d}", l.Min, l.Max)
	}
	return fmt.Sprintf("{%d}", l.Min)
}

// TableType describes a table: the type of value it holds and its size
// limits.
type TableType struct {
	ElemType ValType // Funcref or Externref
	Limits   Limits
}

// MemType describes a linear memory's size limits, in pages.
type MemType struct {
	Limits Limits
}

// GlobalType describes the value type and mutability of a global variable.
type GlobalType struct {
	Val     ValType
	Mutable bool
}
