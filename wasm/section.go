// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wasm

import (
	"github.com/wasmlite/wasmlite/wasm/leb128"
)

// SectionID is the 1-byte tag at the start of every section.
type SectionID uint8

const (
	SectionIDCustom SectionID = iota
	SectionIDType
	SectionIDImport
	SectionIDFunction
	SectionIDTable
	SectionIDMemory
	SectionIDGlobal
	SectionIDExport
	SectionIDStart
	SectionIDElement
	SectionIDCode
	SectionIDData
)

func (s SectionID) String() string {
	names := [...]string{
		"custom", "type", "import", "function", "table", "memory",
		"global", "export", "start", "element", "code", "data",
	}
	if int(s) < len(names) {
		return names[s]
	}
	return "unknown"
}

// maxLocalsPerFunction bounds the number of declared locals a single
// function body may carry, guarding against a pathological local-entry
// run-length count inflating memory use on decode.
const maxLocalsPerFunction = 1 << 20

// readSectionHeader reads a section's id and length-delimited payload,
// returning a bounded sub-reader over exactly the payload bytes.
func readSectionHeader(r *leb128.Reader) (SectionID, *leb128.Reader, error) {
	idStart := r.Pos()
	idByte, err := r.Byte()
	if err != nil {
		return 0, nil, wrapLEB(err, idStart, r.Pos())
	}
	if idByte > byte(SectionIDData) {
		return 0, nil, newDecodeError(UnknownSection, idStart, r.Pos(), "", nil)
	}

	lenStart := r.Pos()
	size, err := r.VarUint32()
	if err != nil {
		return 0, nil, wrapLEB(err, lenStart, r.Pos())
	}

	payloadStart := r.Pos()
	sub, err := r.Sub(int(size))
	if err != nil {
		return 0, nil, newDecodeError(UnexpectedEOF, payloadStart, payloadStart, "section payload truncated", err)
	}
	return SectionID(idByte), sub, nil
}

func (m *Module) decodeSection(id SectionID, r *leb128.Reader) error {
	var err error
	switch id {
	case SectionIDCustom:
		err = m.decodeCustomSection(r)
	case SectionIDType:
		err = m.decodeTypeSection(r)
	case SectionIDImport:
		err = m.decodeImportSection(r)
	case SectionIDFunction:
		err = m.decodeFunctionSection(r)
	case SectionIDTable:
		err = m.decodeTableSection(r)
	case SectionIDMemory:
		err = m.decodeMemorySection(r)
	case SectionIDGlobal:
		err = m.decodeGlobalSection(r)
	case SectionIDExport:
		err = m.decodeExportSection(r)
	case SectionIDStart:
		err = m.decodeStartSection(r)
	case SectionIDElement:
		err = m.decodeElementSection(r)
	case SectionIDCode:
		err = m.decodeCodeSection(r)
	case SectionIDData:
		err = m.decodeDataSection(r)
	}
	if err != nil {
		// r is bounded to the payload, so running out of bytes means the
		// announced section size is too small for its contents.
		if de, ok := err.(*DecodeError); ok && de.Kind == UnexpectedEOF {
			de.Kind = SectionLengthMismatch
		}
		return err
	}
	if r.Len() != 0 {
		return newDecodeError(SectionLengthMismatch, r.Pos(), r.Pos(), id.String(), nil)
	}
	return nil
}

func (m *Module) decodeCustomSection(r *leb128.Reader) error {
	start := r.Pos()
	name, err := r.Name()
	if err != nil {
		return wrapLEB(err, start, r.Pos())
	}
	data, err := r.Bytes(r.Len())
	if err != nil {
		return wrapLEB(err, r.Pos(), r.Pos())
	}
	m.Customs = append(m.Customs, CustomSection{Name: name, Data: append([]byte(nil), data...)})
	return nil
}

func decodeValType(r *leb128.Reader) (ValType, error) {
	start := r.Pos()
	b, err := r.Byte()
	if err != nil {
		return 0, wrapLEB(err, start, r.Pos())
	}
	vt, ok := valTypeFromByte(b)
	if !ok {
		return 0, newDecodeError(BadEncoding, start, r.Pos(), "bad value type", nil)
	}
	return vt, nil
}

func decodeFuncType(r *leb128.Reader) (FuncType, error) {
	start := r.Pos()
	tag, err := r.Byte()
	if err != nil {
		return FuncType{}, wrapLEB(err, start, r.Pos())
	}
	if tag != 0x60 {
		return FuncType{}, newDecodeError(BadEncoding, start, r.Pos(), "expected func type tag 0x60", nil)
	}

	n, err := readIdx(r)
	if err != nil {
		return FuncType{}, err
	}
	params := make([]ValType, n)
	for i := range params {
		if params[i], err = decodeValType(r); err != nil {
			return FuncType{}, err
		}
	}

	n, err = readIdx(r)
	if err != nil {
		return FuncType{}, err
	}
	results := make([]ValType, n)
	for i := range results {
		if results[i], err = decodeValType(r); err != nil {
			return FuncType{}, err
		}
	}

	return FuncType{Params: params, Results: results}, nil
}

func (m *Module) decodeTypeSection(r *leb128.Reader) error {
	n, err := readIdx(r)
	if err != nil {
		return err
	}
	m.Types = make([]FuncType, n)
	for i := range m.Types {
		if m.Types[i], err = decodeFuncType(r); err != nil {
			return err
		}
	}
	return nil
}

func decodeLimits(r *leb128.Reader) (Limits, error) {
	start := r.Pos()
	flags, err := r.Byte()
	if err != nil {
		return Limits{}, wrapLEB(err, start, r.Pos())
	}
	min, err := readIdx(r)
	if err != nil {
		return Limits{}, err
	}
	lim := Limits{Min: min}
	if flags&0x1 != 0 {
		lim.HasMax = true
		if lim.Max, err = readIdx(r); err != nil {
			return Limits{}, err
		}
	}
	return lim, nil
}

func decodeTableType(r *leb128.Reader) (TableType, error) {
	elem, err := decodeValType(r)
	if err != nil {
		return TableType{}, err
	}
	if !elem.IsRef() {
		return TableType{}, newDecodeError(BadEncoding, r.Pos(), r.Pos(), "table element type must be a reference type", nil)
	}
	lim, err := decodeLimits(r)
	if err != nil {
		return TableType{}, err
	}
	return TableType{ElemType: elem, Limits: lim}, nil
}

func decodeMemType(r *leb128.Reader) (MemType, error) {
	lim, err := decodeLimits(r)
	if err != nil {
		return MemType{}, err
	}
	return MemType{Limits: lim}, nil
}

func decodeGlobalType(r *leb128.Reader) (GlobalType, error) {
	vt, err := decodeValType(r)
	if err != nil {
		return GlobalType{}, err
	}
	start := r.Pos()
	mut, err := r.Byte()
	if err != nil {
		return GlobalType{}, wrapLEB(err, start, r.Pos())
	}
	if mut > 1 {
		return GlobalType{}, newDecodeError(BadEncoding, start, r.Pos(), "bad mutability flag", nil)
	}
	return GlobalType{Val: vt, Mutable: mut == 1}, nil
}

func (m *Module) decodeImportSection(r *leb128.Reader) error {
	n, err := readIdx(r)
	if err != nil {
		return err
	}
	m.Imports = make([]Import, n)
	for i := range m.Imports {
		start := r.Pos()
		mod, err := r.Name()
		if err != nil {
			return wrapLEB(err, start, r.Pos())
		}
		field, err := r.Name()
		if err != nil {
			return wrapLEB(err, start, r.Pos())
		}
		kindStart := r.Pos()
		kindByte, err := r.Byte()
		if err != nil {
			return wrapLEB(err, kindStart, r.Pos())
		}
		kind, ok := externalFromByte(kindByte)
		if !ok {
			return newDecodeError(BadEncoding, kindStart, r.Pos(), "bad import kind", nil)
		}

		var desc ImportDesc
		switch kind {
		case ExternalFunc:
			idx, err := readIdx(r)
			if err != nil {
				return err
			}
			desc = FuncImport{TypeIdx: idx}
		case ExternalTable:
			tt, err := decodeTableType(r)
			if err != nil {
				return err
			}
			desc = TableImport{Type: tt}
		case ExternalMem:
			mt, err := decodeMemType(r)
			if err != nil {
				return err
			}
			desc = MemImport{Type: mt}
		case ExternalGlobal:
			gt, err := decodeGlobalType(r)
			if err != nil {
				return err
			}
			desc = GlobalImport{Type: gt}
		}

		m.Imports[i] = Import{Module: mod, Field: field, Desc: desc}
	}
	return nil
}

func (m *Module) decodeFunctionSection(r *leb128.Reader) error {
	n, err := readIdx(r)
	if err != nil {
		return err
	}
	m.Funcs = make([]uint32, n)
	for i := range m.Funcs {
		if m.Funcs[i], err = readIdx(r); err != nil {
			return err
		}
	}
	return nil
}

func (m *Module) decodeTableSection(r *leb128.Reader) error {
	n, err := readIdx(r)
	if err != nil {
		return err
	}
	m.Tables = make([]TableType, n)
	for i := range m.Tables {
		if m.Tables[i], err = decodeTableType(r); err != nil {
			return err
		}
	}
	return nil
}

func (m *Module) decodeMemorySection(r *leb128.Reader) error {
	n, err := readIdx(r)
	if err != nil {
		return err
	}
	m.Mems = make([]MemType, n)
	for i := range m.Mems {
		if m.Mems[i], err = decodeMemType(r); err != nil {
			return err
		}
	}
	return nil
}

func (m *Module) decodeGlobalSection(r *leb128.Reader) error {
	n, err := readIdx(r)
	if err != nil {
		return err
	}
	m.Globals = make([]Global, n)
	logger.Printf("%d global entries", n)
	for i := range m.Globals {
		gt, err := decodeGlobalType(r)
		if err != nil {
			return err
		}
		init, _, err := decodeExpr(r, false)
		if err != nil {
			return err
		}
		m.Globals[i] = Global{Type: gt, Init: init}
	}
	return nil
}

func (m *Module) decodeExportSection(r *leb128.Reader) error {
	n, err := readIdx(r)
	if err != nil {
		return err
	}
	m.Exports = make([]Export, n)
	for i := range m.Exports {
		start := r.Pos()
		name, err := r.Name()
		if err != nil {
			return wrapLEB(err, start, r.Pos())
		}

		kindStart := r.Pos()
		kindByte, err := r.Byte()
		if err != nil {
			return wrapLEB(err, kindStart, r.Pos())
		}
		kind, ok := externalFromByte(kindByte)
		if !ok {
			return newDecodeError(BadEncoding, kindStart, r.Pos(), "bad export kind", nil)
		}
		idx, err := readIdx(r)
		if err != nil {
			return err
		}
		m.Exports[i] = Export{Name: name, Kind: kind, Index: idx}
	}
	return nil
}

func (m *Module) decodeStartSection(r *leb128.Reader) error {
	idx, err := readIdx(r)
	if err != nil {
		return err
	}
	m.Start = &idx
	return nil
}

func (m *Module) decodeElementSection(r *leb128.Reader) error {
	n, err := readIdx(r)
	if err != nil {
		return err
	}
	m.Elements = make([]Element, n)
	for i := range m.Elements {
		tableIdx, err := readIdx(r)
		if err != nil {
			return err
		}
		offset, _, err := decodeExpr(r, false)
		if err != nil {
			return err
		}
		count, err := readIdx(r)
		if err != nil {
			return err
		}
		funcs := make([]uint32, count)
		for j := range funcs {
			if funcs[j], err = readIdx(r); err != nil {
				return err
			}
		}
		m.Elements[i] = Element{TableIdx: tableIdx, Offset: offset, Funcs: funcs}
	}
	return nil
}

func (m *Module) decodeCodeSection(r *leb128.Reader) error {
	n, err := readIdx(r)
	if err != nil {
		return err
	}
	m.Code = make([]FunctionBody, n)
	logger.Printf("%d function bodies", n)
	for i := range m.Code {
		sizeStart := r.Pos()
		size, err := readIdx(r)
		if err != nil {
			return err
		}
		bodyStart := r.Pos()
		sub, err := r.Sub(int(size))
		if err != nil {
			return newDecodeError(UnexpectedEOF, bodyStart, bodyStart, "function body truncated", err)
		}

		body, err := decodeFunctionBody(sub)
		if err != nil {
			return err
		}
		if sub.Len() != 0 {
			return newDecodeError(BodySizeMismatch, sizeStart, bodyStart+int(size), "", nil)
		}
		m.Code[i] = body
	}
	return nil
}

func decodeFunctionBody(r *leb128.Reader) (FunctionBody, error) {
	localsCountStart := r.Pos()
	numRuns, err := readIdx(r)
	if err != nil {
		return FunctionBody{}, err
	}

	var locals []Local
	var totalLocals uint64
	for i := uint32(0); i < numRuns; i++ {
		count, err := readIdx(r)
		if err != nil {
			return FunctionBody{}, err
		}
		typ, err := decodeValType(r)
		if err != nil {
			return FunctionBody{}, err
		}
		totalLocals += uint64(count)
		if totalLocals > maxLocalsPerFunction {
			return FunctionBody{}, newDecodeError(TooManyLocals, localsCountStart, r.Pos(), "", nil)
		}
		locals = append(locals, Local{Count: count, Type: typ})
	}

	body, _, err := decodeExpr(r, false)
	if err != nil {
		return FunctionBody{}, err
	}
	return FunctionBody{Locals: locals, Body: body}, nil
}

func (m *Module) decodeDataSection(r *leb128.Reader) error {
	n, err := readIdx(r)
	if err != nil {
		return err
	}
	m.Data = make([]Data, n)
	for i := range m.Data {
		memIdx, err := readIdx(r)
		if err != nil {
			return err
		}
		offset, _, err := decodeExpr(r, false)
		if err != nil {
			return err
		}
		size, err := readIdx(r)
		if err != nil {
			return err
		}
		init, err := r.Bytes(int(size))
		if err != nil {
			return wrapLEB(err, r.Pos(), r.Pos())
		}
		m.Data[i] = Data{MemIdx: memIdx, Offset: offset, Init: append([]byte(nil), init...)}
	}
	return nil
}
