// Package main is the entry point for the nlconvert CLI.
package main

import (
	"os"

	"nlconvert/cmd/nlconvert/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
