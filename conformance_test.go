// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wasmlite

import (
	"testing"

	"github.com/wasmlite/wasmlite/validate"
	"github.com/wasmlite/wasmlite/wasm"
	"github.com/wasmlite/wasmlite/wasm/leb128"
)

var header = []byte{0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00}

type cfSection struct {
	id      wasm.SectionID
	payload []byte
}

func cfModule(sections ...cfSection) []byte {
	data := append([]byte(nil), header...)
	for _, s := range sections {
		data = append(data, byte(s.id))
		data = leb128.AppendVarUint32(data, uint32(len(s.payload)))
		data = append(data, s.payload...)
	}
	return data
}

func cfFuncModule(sig []byte, body []byte, export bool) []byte {
	typePayload := append([]byte{0x01, 0x60}, sig...)
	funcPayload := []byte{0x01, 0x00}
	entry := append([]byte{0x00}, body...) // 0 local-decl runs, then the expression
	codePayload := append([]byte{0x01}, leb128.AppendVarUint32(nil, uint32(len(entry)))...)
	codePayload = append(codePayload, entry...)
	sections := []cfSection{
		{wasm.SectionIDType, typePayload},
		{wasm.SectionIDFunction, funcPayload},
	}
	if export {
		name := leb128.AppendVarUint32([]byte{0x01}, 1)
		name = append(name, 'f')
		name = append(name, byte(wasm.ExternalFunc))
		name = leb128.AppendVarUint32(name, 0)
		sections = append(sections, cfSection{wasm.SectionIDExport, name})
	}
	sections = append(sections, cfSection{wasm.SectionIDCode, codePayload})
	return cfModule(sections...)
}

// S1: an empty module decodes and validates cleanly with every index
// space empty.
func TestConformanceS1EmptyModule(t *testing.T) {
	m, err := DecodeAndValidate(header)
	if err != nil {
		t.Fatalf("S1: %v", err)
	}
	if len(m.Types) != 0 || len(m.Code) != 0 || len(m.Exports) != 0 {
		t.Fatalf("S1: expected all empty vectors, got %+v", m)
	}
}

// S2: a single exported function f: () -> i32 with body "i32.const 42;
// end" validates, and its declared result is [i32].
func TestConformanceS2ConstAndReturn(t *testing.T) {
	sig := []byte{0x00, 0x01, 0x7f} // () -> i32
	body := []byte{0x41, 0x2a, 0x0b}
	data := cfFuncModule(sig, body, true)
	m, err := DecodeAndValidate(data)
	if err != nil {
		t.Fatalf("S2: %v", err)
	}
	if len(m.Types) != 1 || len(m.Types[0].Results) != 1 || m.Types[0].Results[0] != wasm.I32 {
		t.Fatalf("S2: expected a single type () -> [i32], got %+v", m.Types)
	}
}

// S3: body "i32.const 1; i64.add; end" is a type mismatch — i64.add
// expects two i64 operands but only an i32 is on the stack.
func TestConformanceS3TypeMismatch(t *testing.T) {
	sig := []byte{0x00, 0x01, 0x7e} // () -> i64
	body := []byte{0x41, 0x01, 0x7c, 0x0b}
	data := cfFuncModule(sig, body, false)
	m, err := wasm.Decode(data)
	if err != nil {
		t.Fatalf("S3: decode: %v", err)
	}
	verr := validate.Module(m)
	if verr == nil {
		t.Fatal("S3: expected a TypeMismatch, got a clean validation")
	}
	if verr.Kind != validate.TypeMismatch {
		t.Fatalf("S3: got %s, want TypeMismatch", verr.Kind)
	}
}

// S4: "unreachable; i32.add; end" in a () -> [i32] function validates —
// code after unreachable is stack-polymorphic.
func TestConformanceS4UnreachablePolymorphism(t *testing.T) {
	sig := []byte{0x00, 0x01, 0x7f} // () -> i32
	body := []byte{0x00, 0x6a, 0x0b}
	data := cfFuncModule(sig, body, false)
	if _, err := DecodeAndValidate(data); err != nil {
		t.Fatalf("S4: %v", err)
	}
}

// S5: a corrupted magic number is rejected at decode time.
func TestConformanceS5BadMagic(t *testing.T) {
	data := []byte{0x00, 0x61, 0x73, 0x6e, 0x01, 0x00, 0x00, 0x00}
	_, err := wasm.Decode(data)
	de, ok := err.(*wasm.DecodeError)
	if !ok {
		t.Fatalf("S5: expected *wasm.DecodeError, got %T: %v", err, err)
	}
	if de.Kind != wasm.BadMagicOrVersion {
		t.Fatalf("S5: got %s, want BadMagicOrVersion", de.Kind)
	}
}

// S6: an else with no enclosing if is rejected at decode time.
func TestConformanceS6ElseOutsideIf(t *testing.T) {
	sig := []byte{0x00, 0x00} // () -> ()
	body := []byte{0x02, 0x40, 0x05}
	data := cfFuncModule(sig, body, false)
	_, err := wasm.Decode(data)
	de, ok := err.(*wasm.DecodeError)
	if !ok {
		t.Fatalf("S6: expected *wasm.DecodeError, got %T: %v", err, err)
	}
	if de.Kind != wasm.ElseOutsideIf {
		t.Fatalf("S6: got %s, want ElseOutsideIf", de.Kind)
	}
}

// S7: a br targeting label 5 with no enclosing blocks has no such label.
func TestConformanceS7BranchOutOfRange(t *testing.T) {
	sig := []byte{0x00, 0x00} // () -> ()
	body := []byte{0x0c, 0x05, 0x0b}
	data := cfFuncModule(sig, body, false)
	m, err := wasm.Decode(data)
	if err != nil {
		t.Fatalf("S7: decode: %v", err)
	}
	verr := validate.Module(m)
	if verr == nil {
		t.Fatal("S7: expected an UnknownIndex(label), got a clean validation")
	}
	if verr.Kind != validate.UnknownIndex || verr.Space != validate.SpaceLabel {
		t.Fatalf("S7: got %s(%s), want UnknownIndex(label)", verr.Kind, verr.Space)
	}
}
