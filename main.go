// Copyright (c) 2026 Keymaster Team
// Keymaster - deterministic password manager
// This source code is licensed under the MIT license found in the LICENSE file.

// Command-line entrypoint for Keymaster.
//
// Usage:
//
//	go run . [flags] <command> [nickname]
//	./keymaster [flags] <command> [nickname]
//
// Running without a command starts the terminal UI. See --help for options.
package main

import (
	"fmt"
	"os"

	"github.com/moygit/keymaster/ui/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "keymaster: %v\n", err)
		os.Exit(1)
	}
}
