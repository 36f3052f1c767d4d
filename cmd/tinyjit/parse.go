package main

import (
	"fmt"

	"github.com/fatih/color"

	"tinyjit/grammar"
	"tinyjit/internal/ast"
	"tinyjit/internal/errors"
	"tinyjit/internal/parser"
)

// parseFile runs source through either front end and reports any scan/parse
// errors via internal/errors before giving up.
func parseFile(path, source string, useGrammar bool) (*ast.Program, bool) {
	if useGrammar {
		prog, err := grammar.Parse(path, source)
		if err != nil {
			color.Red("✗ %s: %v", path, err)
			return nil, false
		}
		return prog, true
	}

	prog, parseErrs, scanErrs := parser.ParseSource(path, source)
	if len(scanErrs) == 0 && len(parseErrs) == 0 {
		return prog, true
	}

	reporter := errors.NewErrorReporter(path, source)
	for _, e := range scanErrs {
		fmt.Println(reporter.FormatError(errors.CompilerError{
			Level: errors.Error, Code: errors.CodeUnexpectedChar,
			Message: e.Message, Position: e.Position, Length: e.Length,
		}))
	}
	for _, e := range parseErrs {
		fmt.Println(reporter.FormatError(errors.CompilerError{
			Level: errors.Error, Code: errors.CodeUnexpectedToken,
			Message: e.Message, Position: e.Position, Length: e.Length,
		}))
	}
	color.Red("✗ %s: parsing failed", path)
	return nil, false
}
