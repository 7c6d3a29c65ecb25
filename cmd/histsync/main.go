// Package main is the entry point for the histsync CLI.
package main

import (
	"os"

	"github.com/leapstack-labs/histsync/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
