// Package main is the entry point for the fintools command line.
package main

import (
	"os"

	"github.com/aristath/fintools/cmd/fintools/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
