// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package wasmlite decodes and validates WebAssembly 1.0 binary modules.
// It does not execute them: there is no interpreter, no instantiation,
// and no linking — only the binary format's decoder and the
// type-directed validator described in the specification's appendix.
package wasmlite

import (
	"github.com/wasmlite/wasmlite/validate"
	"github.com/wasmlite/wasmlite/wasm"
)

// DecodeAndValidate decodes a binary WebAssembly module and runs it
// through type-directed validation, returning the first error from
// either stage.
func DecodeAndValidate(data []byte) (*wasm.Module, error) {
	m, err := wasm.Decode(data)
	if err != nil {
		return nil, err
	}
	if verr := validate.Module(m); verr != nil {
		return nil, verr
	}
	return m, nil
}
