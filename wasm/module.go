// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wasm

import (
	"github.com/wasmlite/wasmlite/wasm/leb128"
)

const (
	Magic   uint32 = 0x6d736100
	Version uint32 = 0x1
)

// Module is a fully decoded WebAssembly module: every section's entries,
// plus the flattened function and global index spaces a validator or
// disassembler needs to resolve call/global.get targets without knowing
// which entries came from imports versus module-defined declarations.
type Module struct {
	Version uint32

	Types    []FuncType
	Imports  []Import
	Funcs    []uint32 // type index per module-defined function, parallel to Code
	Tables   []TableType
	Mems     []MemType
	Globals  []Global
	Exports  []Export
	Start    *uint32
	Elements []Element
	Code     []FunctionBody
	Data     []Data
	Customs  []CustomSection

	// FunctionIndexSpace maps a function index (imports first, then
	// module-defined functions in declaration order) to its signature.
	FunctionIndexSpace []FuncType
	// GlobalIndexSpace maps a global index (imports first, then
	// module-defined globals) to its type.
	GlobalIndexSpace []GlobalType
}

// Decode parses a complete WebAssembly binary module from data. It
// performs no validation of instruction typing; call validate.Module on
// the result for that.
func Decode(data []byte) (*Module, error) {
	r := leb128.NewReader(data)

	if r.Len() < 8 {
		return nil, newDecodeError(UnexpectedEOF, r.Pos(), len(data), "missing module header", nil)
	}
	magicStart := r.Pos()
	magic, err := r.U32()
	if err != nil || magic != Magic {
		return nil, newDecodeError(BadMagicOrVersion, magicStart, r.Pos(), "bad magic number", err)
	}
	versionStart := r.Pos()
	version, err := r.U32()
	if err != nil || version != Version {
		return nil, newDecodeError(BadMagicOrVersion, versionStart, r.Pos(), "unsupported version", err)
	}

	m := &Module{Version: version}
	lastKnownID := SectionIDCustom
	sawKnown := false

	for r.Len() > 0 {
		id, payload, err := readSectionHeader(r)
		if err != nil {
			return nil, err
		}
		if id != SectionIDCustom {
			if sawKnown && id <= lastKnownID {
				return nil, newDecodeError(SectionOutOfOrder, r.Pos(), r.Pos(), id.String(), nil)
			}
			lastKnownID = id
			sawKnown = true
		}
		if err := m.decodeSection(id, payload); err != nil {
			return nil, err
		}
	}

	m.buildIndexSpaces()
	logger.Printf("decoded module: %d functions, %d globals", len(m.FunctionIndexSpace), len(m.GlobalIndexSpace))
	return m, nil
}

// buildIndexSpaces flattens imports ahead of module-defined declarations,
// per the WebAssembly index-space rule for funcs and globals.
func (m *Module) buildIndexSpaces() {
	for _, imp := range m.Imports {
		switch d := imp.Desc.(type) {
		case FuncImport:
			if int(d.TypeIdx) < len(m.Types) {
				m.FunctionIndexSpace = append(m.FunctionIndexSpace, m.Types[d.TypeIdx])
			} else {
				m.FunctionIndexSpace = append(m.FunctionIndexSpace, FuncType{})
			}
		case GlobalImport:
			m.GlobalIndexSpace = append(m.GlobalIndexSpace, d.Type)
		}
	}
	for _, typeIdx := range m.Funcs {
		if int(typeIdx) < len(m.Types) {
			m.FunctionIndexSpace = append(m.FunctionIndexSpace, m.Types[typeIdx])
		} else {
			m.FunctionIndexSpace = append(m.FunctionIndexSpace, FuncType{})
		}
	}
	for _, g := range m.Globals {
		m.GlobalIndexSpace = append(m.GlobalIndexSpace, g.Type)
	}
}

// TableCount reports the total number of tables across imports and
// module-defined declarations.
func (m *Module) TableCount() int {
	n := len(m.Tables)
	for _, imp := range m.Imports {
		if _, ok := imp.Desc.(TableImport); ok {
			n++
		}
	}
	return n
}

// MemCount reports the total number of linear memories across imports and
// module-defined declarations.
func (m *Module) MemCount() int {
	n := len(m.Mems)
	for _, imp := range m.Imports {
		if _, ok := imp.Desc.(MemImport); ok {
			n++
		}
	}
	return n
}

// Custom returns the first custom section with the given name, or nil.
func (m *Module) Custom(name string) *CustomSection {
	for i := range m.Customs {
		if m.Customs[i].Name == name {
			return &m.Customs[i]
		}
	}
	return nil
}
