// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wasm

import (
	"testing"

	"github.com/wasmlite/wasmlite/wasm/leb128"
)

// emptyModule is the minimal valid WebAssembly binary: just the header.
var emptyModule = []byte{0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00}

func TestDecodeEmptyModule(t *testing.T) {
	m, err := Decode(emptyModule)
	if err != nil {
		t.Fatal(err)
	}
	if m.Version != Version {
		t.Fatalf("got version %#x, want %#x", m.Version, Version)
	}
	if len(m.Types) != 0 || len(m.Code) != 0 {
		t.Fatalf("expected no sections, got %+v", m)
	}
}

func TestDecodeBadMagic(t *testing.T) {
	data := append([]byte(nil), emptyModule...)
	data[0] = 0xff
	_, err := Decode(data)
	assertDecodeErrorKind(t, err, BadMagicOrVersion)
}

func TestDecodeBadVersion(t *testing.T) {
	data := append([]byte(nil), emptyModule...)
	data[4] = 0x02
	_, err := Decode(data)
	assertDecodeErrorKind(t, err, BadMagicOrVersion)
}

func TestDecodeTruncatedHeader(t *testing.T) {
	_, err := Decode(emptyModule[:4])
	assertDecodeErrorKind(t, err, UnexpectedEOF)
}

// buildModule appends a section with the given id and payload to the
// module header, length-prefixing the payload as the binary format
// requires.
func buildModule(sections ...section) []byte {
	data := append([]byte(nil), emptyModule...)
	for _, s := range sections {
		data = append(data, byte(s.id))
		data = leb128.AppendVarUint32(data, uint32(len(s.payload)))
		data = append(data, s.payload...)
	}
	return data
}

type section struct {
	id      SectionID
	payload []byte
}

func TestDecodeTypeSection(t *testing.T) {
	// one func type: (i32, i32) -> (i32)
	payload := []byte{0x01, 0x60, 0x02, 0x7f, 0x7f, 0x01, 0x7f}
	m, err := Decode(buildModule(section{SectionIDType, payload}))
	if err != nil {
		t.Fatal(err)
	}
	if len(m.Types) != 1 {
		t.Fatalf("got %d types, want 1", len(m.Types))
	}
	want := FuncType{Params: []ValType{I32, I32}, Results: []ValType{I32}}
	if !m.Types[0].Equal(want) {
		t.Fatalf("got %v, want %v", m.Types[0], want)
	}
}

func TestDecodeSectionOutOfOrder(t *testing.T) {
	typePayload := []byte{0x00}
	funcPayload := []byte{0x00}
	data := buildModule(
		section{SectionIDFunction, funcPayload},
		section{SectionIDType, typePayload},
	)
	_, err := Decode(data)
	assertDecodeErrorKind(t, err, SectionOutOfOrder)
}

func TestDecodeCustomSectionAnywhere(t *testing.T) {
	custom := append(leb128.AppendVarUint32(nil, 4), "name"...)
	zero := []byte{0x00}
	data := buildModule(
		section{SectionIDCustom, custom},
		section{SectionIDType, zero},
		section{SectionIDCustom, custom},
		section{SectionIDFunction, zero},
		section{SectionIDCustom, custom},
	)
	if _, err := Decode(data); err != nil {
		t.Fatalf("custom sections interleaved with correctly-ordered known sections should decode cleanly: %v", err)
	}
}

// Duplicate export names are a validation concern, not a decode one (see
// validate.checkExports): the decoder records both entries as given.
func TestDecodeDuplicateExportNameAllowed(t *testing.T) {
	typePayload := []byte{0x01, 0x60, 0x00, 0x00}
	funcPayload := []byte{0x02, 0x00, 0x00}
	codePayload := []byte{
		0x02,             // 2 bodies
		0x02, 0x00, 0x0b, // body 0: no locals, end
		0x02, 0x00, 0x0b, // body 1: no locals, end
	}
	exportPayload := append([]byte{0x02}, buildExport("f", ExternalFunc, 0)...)
	exportPayload = append(exportPayload, buildExport("f", ExternalFunc, 1)...)

	data := buildModule(
		section{SectionIDType, typePayload},
		section{SectionIDFunction, funcPayload},
		section{SectionIDExport, exportPayload},
		section{SectionIDCode, codePayload},
	)
	m, err := Decode(data)
	if err != nil {
		t.Fatalf("decode should not reject a duplicate export name: %v", err)
	}
	if len(m.Exports) != 2 {
		t.Fatalf("got %d exports, want 2", len(m.Exports))
	}
}

func buildExport(name string, kind External, idx uint32) []byte {
	b := leb128.AppendVarUint32(nil, uint32(len(name)))
	b = append(b, name...)
	b = append(b, byte(kind))
	b = leb128.AppendVarUint32(b, idx)
	return b
}

func assertDecodeErrorKind(t *testing.T, err error, want DecodeErrorKind) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected a decode error of kind %s, got nil", want)
	}
	de, ok := err.(*DecodeError)
	if !ok {
		t.Fatalf("expected *DecodeError, got %T: %v", err, err)
	}
	if de.Kind != want {
		t.Fatalf("got kind %s, want %s", de.Kind, want)
	}
}
