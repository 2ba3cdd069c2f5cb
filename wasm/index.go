// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wasm

// FunctionType returns the signature of the function at index i in the
// flattened function index space (imports first, then module-defined
// functions), or false if i is out of range.
func (m *Module) FunctionType(i uint32) (FuncType, bool) {
	if int(i) >= len(m.FunctionIndexSpace) {
		return FuncType{}, false
	}
	return m.FunctionIndexSpace[i], true
}

// GlobalTypeAt returns the type of the global at index i in the flattened
// global index space, or false if i is out of range.
func (m *Module) GlobalTypeAt(i uint32) (GlobalType, bool) {
	if int(i) >= len(m.GlobalIndexSpace) {
		return GlobalType{}, false
	}
	return m.GlobalIndexSpace[i], true
}

// TableTypeAt returns the type of the table at index i across imported and
// module-defined tables, or false if i is out of range.
func (m *Module) TableTypeAt(i uint32) (TableType, bool) {
	idx := int(i)
	for _, imp := range m.Imports {
		if t, ok := imp.Desc.(TableImport); ok {
			if idx == 0 {
				return t.Type, true
			}
			idx--
		}
	}
	if idx < len(m.Tables) {
		return m.Tables[idx], true
	}
	return TableType{}, false
}

// MemTypeAt returns the type of the linear memory at index i across
// imported and module-defined memories, or false if i is out of range.
func (m *Module) MemTypeAt(i uint32) (MemType, bool) {
	idx := int(i)
	for _, imp := range m.Imports {
		if t, ok := imp.Desc.(MemImport); ok {
			if idx == 0 {
				return t.Type, true
			}
			idx--
		}
	}
	if idx < len(m.Mems) {
		return m.Mems[idx], true
	}
	return MemType{}, false
}
