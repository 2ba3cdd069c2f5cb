// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/wasmlite/wasmlite/disasm"
	"github.com/wasmlite/wasmlite/validate"
	"github.com/wasmlite/wasmlite/wasm"
)

var flagDisasm bool

var validateCmd = &cobra.Command{
	Use:   "validate file.wasm [file2.wasm ...]",
	Short: "decode and type-check one or more WebAssembly binary modules",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var failed bool
		for _, fname := range args {
			if err := validateFile(fname); err != nil {
				failed = true
				color.New(color.FgRed).Fprintf(os.Stderr, "%s: %v\n", fname, err)
				continue
			}
			if !flagQuiet {
				color.New(color.FgGreen).Fprintf(os.Stdout, "%s: ok\n", fname)
			}
		}
		if failed {
			return fmt.Errorf("one or more modules failed validation")
		}
		return nil
	},
}

func init() {
	validateCmd.Flags().BoolVarP(&flagDisasm, "disasm", "d", false, "dump each function body after a successful validation")
}

func validateFile(fname string) error {
	data, err := os.ReadFile(fname)
	if err != nil {
		return err
	}
	m, err := wasm.Decode(data)
	if err != nil {
		return err
	}
	if verr := validate.Module(m); verr != nil {
		return verr
	}
	if flagDisasm {
		if err := disasm.Module(os.Stdout, m); err != nil {
			return err
		}
	}
	return nil
}
