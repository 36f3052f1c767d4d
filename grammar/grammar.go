package grammar

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// Program is the participle grammar's root: a single top-level function
// body, matching internal/ast.Program's "AST rooted at a function literal"
// shape so both front ends hand the builder the same input contract.
type Program struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Stmts  []*Stmt `@@*`
}

type Stmt struct {
	Pos      lexer.Position
	EndPos   lexer.Position
	Let      *LetStmt      `(  @@`
	If       *IfStmt       ` | @@`
	While    *WhileStmt    ` | @@`
	Break    *BreakStmt    ` | @@`
	Continue *ContinueStmt ` | @@`
	Return   *ReturnStmt   ` | @@`
	Assign   *AssignStmt   ` | @@`
	Expr     *ExprStmt     ` | @@ )`
}

type LetStmt struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Name   string `"let" @Ident "="`
	Value  *Expr  `@@ ";"`
}

type AssignStmt struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Target *Postfix `@@ "="`
	Value  *Expr    `@@ ";"`
}

type ExprStmt struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Value  *Expr `@@ ";"`
}

type IfStmt struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Cond   *Expr   `"if" "(" @@ ")"`
	Then   []*Stmt `"{" @@* "}"`
	Else   []*Stmt `("else" "{" @@* "}")?`
}

type WhileStmt struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Cond   *Expr   `"while" "(" @@ ")"`
	Body   []*Stmt `"{" @@* "}"`
}

type BreakStmt struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Set    bool `@"break" ";"`
}

type ContinueStmt struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Set    bool `@"continue" ";"`
}

type ReturnStmt struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Value  *Expr `"return" @@? ";"`
}

// Expr chains precedence levels the way a Pratt climb does, lowest-binding
// first: Or, And, Equality, Relational, Additive, Multiplicative.
type Expr struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Or     *OrExpr `@@`
}

type OrExpr struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Left   *AndExpr  `@@`
	Rest   []*AndRHS `@@*`
}

type AndRHS struct {
	Op    string    `@"||"`
	Right *AndExpr `@@`
}

type AndExpr struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Left   *EqExpr   `@@`
	Rest   []*EqRHS  `@@*`
}

type EqRHS struct {
	Op    string  `@"&&"`
	Right *EqExpr `@@`
}

type EqExpr struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Left   *RelExpr  `@@`
	Rest   []*RelRHS `@@*`
}

type RelRHS struct {
	Op    string   `@("=="|"!=")`
	Right *RelExpr `@@`
}

type RelExpr struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Left   *AddExpr  `@@`
	Rest   []*AddRHS `@@*`
}

type AddRHS struct {
	Op    string   `@("<="|">="|"<"|">")`
	Right *AddExpr `@@`
}

type AddExpr struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Left   *MulExpr  `@@`
	Rest   []*MulRHS `@@*`
}

type MulRHS struct {
	Op    string   `@("+"|"-")`
	Right *MulExpr `@@`
}

type MulExpr struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Left   *Unary    `@@`
	Rest   []*UnaRHS `@@*`
}

type UnaRHS struct {
	Op    string `@("*"|"/"|"%")`
	Right *Unary `@@`
}

type Unary struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Op     string   `( @("-"|"!")`
	Value  *Postfix `  @@ ) | @@`
}

type Postfix struct {
	Pos     lexer.Position
	EndPos  lexer.Position
	Primary *Primary     `@@`
	Trail   []*PostfixOp `@@*`
}

type PostfixOp struct {
	Field *string `( "." @Ident`
	Index *Expr   `  | "[" @@ "]"`
	Args  *Args   `  | @@ )`
}

type Args struct {
	Paren bool    `"("`
	List  []*Expr `( @@ ( "," @@ )* )? ")"`
}

type Primary struct {
	Pos     lexer.Position
	EndPos  lexer.Position
	Number  *string `( @Number`
	String  *string `  | @String`
	True    bool    `  | @"true"`
	False   bool    `  | @"false"`
	Nil     bool    `  | @"nil"`
	Ident   *string `  | @Ident`
	SubExpr *Expr   `  | "(" @@ ")" )`
}
