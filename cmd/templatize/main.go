// Package main is the entry point for the templatize CLI tool.
package main

import (
	"os"

	"github.com/templatize/templatize/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
