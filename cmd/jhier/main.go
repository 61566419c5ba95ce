// Package main is the entry point for the jhier CLI tool.
package main

import (
	"github.com/hargabyte/jhier/internal/cmd"
)

func main() {
	cmd.Execute()
}
