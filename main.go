// main is the entry point for the statscope CLI.
package main

import (
	"os"

	"github.com/statscope/statscope/cmd"
	"github.com/statscope/statscope/internal/contract"
)

func main() {
	if err := cmd.Execute(); err != nil {
		_, _ = contract.ErrorColor.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
