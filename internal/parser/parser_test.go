package parser

import (
	"testing"

	"tinyjit/internal/ast"
)

func mustParse(t *testing.T, source string) *ast.Program {
	t.Helper()
	prog, parseErrs, scanErrs := ParseSource("t.tj", source)
	if len(scanErrs) > 0 {
		t.Fatalf("unexpected scan errors: %v", scanErrs)
	}
	if len(parseErrs) > 0 {
		t.Fatalf("unexpected parse errors: %v", parseErrs)
	}
	return prog
}

func TestParseReturnLiteral(t *testing.T) {
	prog := mustParse(t, "return 1;")
	if len(prog.Func.Body.Stmts) != 1 {
		t.Fatalf("want 1 stmt, got %d", len(prog.Func.Body.Stmts))
	}
	ret, ok := prog.Func.Body.Stmts[0].(*ast.ReturnStmt)
	if !ok {
		t.Fatalf("want *ast.ReturnStmt, got %T", prog.Func.Body.Stmts[0])
	}
	lit, ok := ret.Value.(*ast.NumberLit)
	if !ok || lit.Value != "1" {
		t.Fatalf("want NumberLit(1), got %#v", ret.Value)
	}
}

func TestParseBinaryPrecedence(t *testing.T) {
	prog := mustParse(t, "return 1 + 2 * 3;")
	ret := prog.Func.Body.Stmts[0].(*ast.ReturnStmt)
	add, ok := ret.Value.(*ast.BinaryExpr)
	if !ok || add.Op != "+" {
		t.Fatalf("want top-level +, got %#v", ret.Value)
	}
	if _, ok := add.Right.(*ast.BinaryExpr); !ok {
		t.Fatalf("want * nested on the right of +, got %#v", add.Right)
	}
}

func TestParseIfElse(t *testing.T) {
	prog := mustParse(t, `
		let a = 1;
		if (a == 1) {
			a = 2;
		} else {
			a = 3;
		}
		return a;
	`)
	if len(prog.Func.Body.Stmts) != 3 {
		t.Fatalf("want 3 stmts, got %d", len(prog.Func.Body.Stmts))
	}
	ifStmt, ok := prog.Func.Body.Stmts[1].(*ast.IfStmt)
	if !ok {
		t.Fatalf("want *ast.IfStmt, got %T", prog.Func.Body.Stmts[1])
	}
	if ifStmt.Else == nil {
		t.Fatalf("expected an else branch")
	}
}

func TestParseWhileBreakContinue(t *testing.T) {
	prog := mustParse(t, `
		let i = 0;
		while (i < 10) {
			if (i == 5) {
				break;
			}
			continue;
		}
		return i;
	`)
	whileStmt, ok := prog.Func.Body.Stmts[1].(*ast.WhileStmt)
	if !ok {
		t.Fatalf("want *ast.WhileStmt, got %T", prog.Func.Body.Stmts[1])
	}
	if len(whileStmt.Body.Stmts) != 2 {
		t.Fatalf("want 2 stmts in while body, got %d", len(whileStmt.Body.Stmts))
	}
}

func TestParseMemberAndCall(t *testing.T) {
	prog := mustParse(t, `
		let obj = foo();
		let x = obj.field;
		let y = obj[0];
		return y;
	`)
	let1 := prog.Func.Body.Stmts[0].(*ast.LetStmt)
	if _, ok := let1.Value.(*ast.CallExpr); !ok {
		t.Fatalf("want CallExpr, got %#v", let1.Value)
	}
	let2 := prog.Func.Body.Stmts[1].(*ast.LetStmt)
	member, ok := let2.Value.(*ast.MemberExpr)
	if !ok || member.Computed {
		t.Fatalf("want non-computed MemberExpr, got %#v", let2.Value)
	}
	let3 := prog.Func.Body.Stmts[2].(*ast.LetStmt)
	index, ok := let3.Value.(*ast.MemberExpr)
	if !ok || !index.Computed {
		t.Fatalf("want computed MemberExpr, got %#v", let3.Value)
	}
}

func TestParseObjectAndArrayLit(t *testing.T) {
	prog := mustParse(t, `
		let o = { a: 1, b: 2 };
		let arr = [1, 2, 3];
		return arr;
	`)
	obj := prog.Func.Body.Stmts[0].(*ast.LetStmt).Value.(*ast.ObjectLit)
	if len(obj.Fields) != 2 {
		t.Fatalf("want 2 fields, got %d", len(obj.Fields))
	}
	arr := prog.Func.Body.Stmts[1].(*ast.LetStmt).Value.(*ast.ArrayLit)
	if len(arr.Elements) != 3 {
		t.Fatalf("want 3 elements, got %d", len(arr.Elements))
	}
}

func TestParseUnaryAndPrefixKeywords(t *testing.T) {
	prog := mustParse(t, `
		let a = -1;
		let b = !true;
		let c = typeof a;
		let d = sizeof a;
		return d;
	`)
	if _, ok := prog.Func.Body.Stmts[0].(*ast.LetStmt).Value.(*ast.UnaryExpr); !ok {
		t.Fatalf("want UnaryExpr for -1")
	}
	if _, ok := prog.Func.Body.Stmts[2].(*ast.LetStmt).Value.(*ast.TypeofExpr); !ok {
		t.Fatalf("want TypeofExpr")
	}
	if _, ok := prog.Func.Body.Stmts[3].(*ast.LetStmt).Value.(*ast.SizeofExpr); !ok {
		t.Fatalf("want SizeofExpr")
	}
}

func TestScannerReportsUnterminatedString(t *testing.T) {
	scanner := NewScanner(`let a = "oops`)
	scanner.ScanTokens()
	if len(scanner.errors) == 0 {
		t.Fatalf("expected an unterminated-string error")
	}
}
