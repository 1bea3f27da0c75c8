// Package main provides the entry point for the midivault CLI tool.
package main

import "github.com/midivault/midivault/cmd/midivault/cmd"

// Version information populated by goreleaser.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
	builtBy = "unknown"
)

func main() {
	cmd.Execute(version, commit, date, builtBy)
}
