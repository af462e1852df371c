// Command tryi approximates an image with semi-transparent triangles.
//
// Usage:
//
//	tryi evolve [flags] <image>
//	tryi convert [flags] <input.tryi|input.dna> <output.tryi|output.png|...>
//	tryi runs --store <dir>
//
// Settings are read from --config (YAML), then TRYI_* environment
// variables, then flags.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
