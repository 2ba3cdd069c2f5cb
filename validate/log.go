// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package validate

import (
	"io"
	"log"
	"os"
)

var logger = log.New(io.Discard, "", log.Lshortfile)

// SetDebugMode switches the validate package's logger between stderr and
// io.Discard. No validation step writes to this logger.
func SetDebugMode(on bool) {
	if on {
		logger.SetOutput(os.Stderr)
		return
	}
	logger.SetOutput(io.Discard)
}
