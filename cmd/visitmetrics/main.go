// Package main is the entry point for visitmetrics.
package main

import (
	"fmt"
	"os"

	"github.com/visitmetrics/visitmetrics/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
