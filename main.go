// Package main is the entry point for the sqlbridge CLI.
package main

import (
	"sqlbridge/cli/cmd"
)

func main() {
	cmd.Execute()
}
