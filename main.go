package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"

	"tinyjit/grammar"
	"tinyjit/internal/ir"
	"tinyjit/internal/resolve"
)

// main is the quick path: parse a script with the declarative participle
// grammar and run it straight through the pipeline, printing the final IR.
// cmd/tinyjit carries the full CLI (both front ends, -log/-grammar flags,
// multi-file support); this is the one-file shortcut, mirroring the
// teacher's split between its grammar-only root main.go and its fuller
// cmd/kanso-cli.
func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: tinyjit <file>")
		os.Exit(1)
	}

	path := os.Args[1]
	source, err := os.ReadFile(path)
	if err != nil {
		color.Red("Failed to read file: %s", err)
		os.Exit(1)
	}

	prog, err := grammar.Parse(path, string(source))
	if err != nil {
		color.Red("Failed to parse %s: %s", path, err)
		os.Exit(1)
	}

	if diags := resolve.Resolve(prog); len(diags) > 0 {
		for _, d := range diags {
			color.Red("%s:%d:%d: %s", path, d.Position.Line, d.Position.Column, d.Message)
		}
		os.Exit(1)
	}

	p := ir.Run(prog, ir.DefaultConfig())
	for _, fn := range p.Functions {
		fmt.Println(ir.Print(fn))
	}

	color.Green("✅ Successfully compiled %s", path)
}
