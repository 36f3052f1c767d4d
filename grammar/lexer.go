// Package grammar is a second, declarative front end for the same small
// scripting language internal/parser hand-scans: a participle grammar over
// struct tags, offered as an alternate entry point selectable from the CLI
// rather than the pipeline's only way in.
package grammar

import (
	"github.com/alecthomas/participle/v2/lexer"
)

var Lexer = lexer.MustStateful(lexer.Rules{
	"Root": {
		{"Comment", `//[^\n]*`, nil},
		{"BlockComment", `/\*([^*]|\*[^/])*\*/`, nil},
		{"Ident", `[a-zA-Z_][a-zA-Z0-9_]*`, nil},
		{"Number", `0x[0-9a-fA-F]+|[0-9]+(\.[0-9]+)?`, nil},
		{"String", `"(\\.|[^"\\])*"`, nil},
		{"Operator", `(&&|\|\||==|!=|<=|>=|[-+*/%!=<>])`, nil},
		{"Punctuation", `[{}\[\]().,:;]`, nil},
		{"Whitespace", `[ \t\r\n]+`, nil},
	},
})
