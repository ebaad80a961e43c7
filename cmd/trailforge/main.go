// Package main is the single-binary entrypoint for Trailforge.
// Trailforge tracks outdoor progress locally — one binary, one SQLite file.
package main

import "github.com/trailforge/trailforge/internal/cli"

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	cli.Execute(version)
}
