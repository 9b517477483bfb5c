// Package main provides the brief CLI for structured intelligence briefings.
package main

import (
	"os"

	"github.com/dia3-labs/brief/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
