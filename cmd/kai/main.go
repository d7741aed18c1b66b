// Package main provides the entry point for the kai CLI.
package main

import (
	"os"

	"github.com/kaihub/kai/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
