package token

import "testing"

func TestLookupKeyword(t *testing.T) {
	cases := map[string]Type{
		"let":      LET,
		"fn":       FUN,
		"while":    WHILE,
		"return":   RETURN,
		"true":     TRUE,
		"nil":      NIL,
		"sizeof":   SIZEOF,
		"notakeyword": IDENTIFIER,
	}
	for text, want := range cases {
		if got := Lookup(text); got != want {
			t.Errorf("Lookup(%q) = %v, want %v", text, got, want)
		}
	}
}
