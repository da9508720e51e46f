// Package main is the entry point for the escrow CLI.
package main

import (
	"os"

	"escrow-charge/cmd/escrow/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
