// Package main provides the entry point for the agora CLI.
package main

import (
	"os"

	"github.com/mleroy/agora/cmd/agora/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
