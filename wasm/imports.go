// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wasm

// ImportDesc is a closed sum type over the four kinds of entity an import
// statement can bind to.
type ImportDesc interface {
	isImportDesc()
	Kind() External
}

type FuncImport struct{ TypeIdx uint32 }

func (FuncImport) isImportDesc() {}
func (FuncImport) Kind() External { return ExternalFunc }

type TableImport struct{ Type TableType }

func (TableImport) isImportDesc()  {}
func (TableImport) Kind() External { return ExternalTable }

type MemImport struct{ Type MemType }

func (MemImport) isImportDesc()  {}
func (MemImport) Kind() External { return ExternalMem }

type GlobalImport struct{ Type GlobalType }

func (GlobalImport) isImportDesc()  {}
func (GlobalImport) Kind() External { return ExternalGlobal }

// Import describes a single entry of the import section.
type Import struct {
	Module string
	Field  string
	Desc   ImportDesc
}

// Export describes a single entry of the export section.
type Export struct {
	Name  string
	Kind  External
	Index uint32
}

// Global declares a module-defined global variable together with its
// constant initializer expression.
type Global struct {
	Type GlobalType
	Init []Instruction
}

// Local is a run of locals of a single type in a function body, as the
// binary format groups them.
type Local struct {
	Count uint32
	Type  ValType
}

// FunctionBody is the decoded code-section entry for one module-defined
// function: its local declarations and instruction sequence.
type FunctionBody struct {
	Locals []Local
	Body   []Instruction
}

// Element describes a table initializer segment.
type Element struct {
	TableIdx uint32
	Offset   []Instruction
	Funcs    []uint32
}

// Data describes a linear memory initializer segment.
type Data struct {
	MemIdx uint32
	Offset []Instruction
	Init   []byte
}

// CustomSection captures a custom section's raw payload, keyed by name.
// Multiple custom sections with the same name are kept in declaration
// order; this module does not interpret any custom section's contents
// (including the "name" section) beyond storing the bytes.
type CustomSection struct {
	Name string
	Data []byte
}
