// Command tinyjit parses a script, resolves its scopes, builds SSA IR, runs
// it through the optimization pipeline, and prints the resulting IR.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"

	"tinyjit/internal/errors"
	"tinyjit/internal/ir"
	"tinyjit/internal/parser"
	"tinyjit/internal/resolve"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	logging := false
	useGrammar := false
	var files []string
	for _, a := range args {
		switch a {
		case "-log":
			logging = true
		case "-grammar":
			useGrammar = true
		default:
			files = append(files, a)
		}
	}

	if len(files) == 0 {
		fmt.Fprintln(os.Stderr, "usage: tinyjit [-log] [-grammar] <file>...")
		return 2
	}

	status := 0
	for _, path := range files {
		if !compileFile(path, logging, useGrammar) {
			status = 1
		}
	}
	return status
}

func compileFile(path string, logging, useGrammar bool) bool {
	source, err := os.ReadFile(path)
	if err != nil {
		color.Red("failed to read %s: %v", path, err)
		return false
	}

	prog, ok := parseFile(path, string(source), useGrammar)
	if !ok {
		return false
	}

	diags := resolve.Resolve(prog)
	if len(diags) > 0 {
		reporter := errors.NewErrorReporter(path, string(source))
		for _, d := range diags {
			fmt.Println(reporter.FormatError(errors.CompilerError{
				Level:    errors.Error,
				Code:     d.Code,
				Message:  d.Message,
				Position: d.Position,
				Length:   1,
			}))
		}
		color.Red("✗ %s: resolution failed", path)
		return false
	}

	cfg := ir.DefaultConfig()
	cfg.Logging = logging
	cfg.Out = os.Stdout

	p := ir.Run(prog, cfg)
	for _, fn := range p.Functions {
		fmt.Println(ir.Print(fn))
	}

	color.Green("✅ %s compiled", path)
	return true
}
