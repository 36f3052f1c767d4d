package errors

import (
	"strings"
	"testing"

	"tinyjit/internal/token"
)

func TestFormatErrorIncludesCodeAndMessage(t *testing.T) {
	reporter := NewErrorReporter("t.tj", "let a = 1;\nreturn missing;\n")
	out := reporter.FormatError(CompilerError{
		Level:    Error,
		Code:     "E0004",
		Message:  "undefined name 'missing'",
		Position: token.Position{Line: 2, Column: 8},
		Length:   7,
	})

	if !strings.Contains(out, "E0004") {
		t.Fatalf("expected formatted error to contain the code, got %q", out)
	}
	if !strings.Contains(out, "undefined name 'missing'") {
		t.Fatalf("expected formatted error to contain the message, got %q", out)
	}
	if !strings.Contains(out, "t.tj:2:8") {
		t.Fatalf("expected formatted error to contain the location, got %q", out)
	}
}

func TestFormatErrorIncludesSuggestionAndHelp(t *testing.T) {
	reporter := NewErrorReporter("t.tj", "retrun 1;\n")
	out := reporter.FormatError(CompilerError{
		Level:    Error,
		Code:     "E0001",
		Message:  "unexpected token",
		Position: token.Position{Line: 1, Column: 1},
		Length:   6,
		Suggestions: []Suggestion{
			{Message: "did you mean 'return'?", Replacement: "return"},
		},
		HelpText: "check for typos in keywords",
	})

	if !strings.Contains(out, "did you mean 'return'?") {
		t.Fatalf("expected formatted error to contain the suggestion, got %q", out)
	}
	if !strings.Contains(out, "check for typos in keywords") {
		t.Fatalf("expected formatted error to contain help text, got %q", out)
	}
}

func TestFormatWarningUsesWarningLevel(t *testing.T) {
	reporter := NewErrorReporter("t.tj", "let a = 1;\n")
	out := reporter.FormatError(CompilerError{
		Level:    Warning,
		Message:  "unused local 'a'",
		Position: token.Position{Line: 1, Column: 5},
		Length:   1,
	})

	if !strings.Contains(out, "warning") {
		t.Fatalf("expected formatted warning to mention its level, got %q", out)
	}
}
