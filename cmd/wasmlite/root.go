// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/wasmlite/wasmlite/validate"
	"github.com/wasmlite/wasmlite/wasm"
)

var (
	flagVerbose bool
	flagQuiet   bool
	flagColor   bool
	flagNoColor bool
)

var rootCmd = &cobra.Command{
	Use:           "wasmlite",
	Short:         "wasmlite decodes and validates WebAssembly 1.0 binary modules",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		wasm.SetDebugMode(flagVerbose)
		validate.SetDebugMode(flagVerbose)
		switch {
		case flagColor:
			color.NoColor = false
		case flagNoColor:
			color.NoColor = true
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "trace decode and validation progress")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "suppress the success line")
	rootCmd.PersistentFlags().BoolVar(&flagColor, "color", false, "force colored diagnostics on")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "force colored diagnostics off")
	rootCmd.AddCommand(validateCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func main() {
	if err := Execute(); err != nil {
		color.New(color.FgRed).Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
