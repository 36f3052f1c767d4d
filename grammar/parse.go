package grammar

import (
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/fatih/color"

	"tinyjit/internal/ast"
)

var parser = participle.MustBuild[Program](
	participle.Lexer(Lexer),
	participle.Elide("Whitespace", "Comment", "BlockComment"),
	participle.UseLookahead(4),
)

// Parse parses source through the declarative grammar and lowers the result
// to the same internal/ast tree internal/parser produces.
func Parse(filename, source string) (*ast.Program, error) {
	p, err := parser.ParseString(filename, source)
	if err != nil {
		return nil, err
	}
	return Convert(p), nil
}

// ParseFile reads path and parses it, reporting a caret-style error to
// stderr on failure (mirroring the teacher's reportParseError).
func ParseFile(path string) (*ast.Program, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	prog, err := Parse(path, string(source))
	if err != nil {
		reportParseError(string(source), err)
		return nil, err
	}
	return prog, nil
}

func reportParseError(src string, err error) {
	pe, ok := err.(participle.Error)
	if !ok {
		color.Red("Unexpected error: %s", err)
		return
	}

	pos := pe.Position()
	lines := strings.Split(src, "\n")
	if pos.Line <= 0 || pos.Line > len(lines) {
		color.Red("Syntax error at unknown location: %s", err)
		return
	}

	line := lines[pos.Line-1]
	caret := strings.Repeat(" ", pos.Column-1) + "^"

	color.Red("Syntax error in %s at line %d, column %d:", pos.Filename, pos.Line, pos.Column)
	fmt.Println(line)
	color.HiRed(caret)
	fmt.Printf("-> %s\n", pe.Message())
}
