// Package main provides the entry point for the mergetab CLI tool.
package main

import (
	"github.com/mergetab/mergetab/cmd/mergetab/cmd"
)

// Version information populated by goreleaser.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	cmd.Execute(version, commit, date)
}
