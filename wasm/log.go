// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wasm

import (
	"io"
	"log"
	"os"
)

var logger = log.New(io.Discard, "", log.Lshortfile)

// SetDebugMode toggles whether the wasm package logs decode activity to
// stderr. It is off by default.
func SetDebugMode(on bool) {
	if on {
		logger.SetOutput(os.Stderr)
		return
	}
	logger.SetOutput(io.Discard)
}
