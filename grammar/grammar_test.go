package grammar

import "testing"

func TestParseReturnLiteral(t *testing.T) {
	prog, err := Parse("t.tj", "return 1;")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(prog.Func.Body.Stmts) != 1 {
		t.Fatalf("want 1 stmt, got %d", len(prog.Func.Body.Stmts))
	}
	ret, ok := prog.Func.Body.Stmts[0].(interface{ String() string })
	if !ok {
		t.Fatalf("expected a stmt, got %T", prog.Func.Body.Stmts[0])
	}
	if ret.String() != "return" {
		t.Fatalf("want return, got %q", ret.String())
	}
}

func TestParseIfElseAssign(t *testing.T) {
	src := `
		let a = 1;
		if (a == 1) {
			a = 2;
		} else {
			a = 3;
		}
		return a;
	`
	prog, err := Parse("t.tj", src)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(prog.Func.Body.Stmts) != 3 {
		t.Fatalf("want 3 stmts, got %d", len(prog.Func.Body.Stmts))
	}
}

func TestParseWhileLoop(t *testing.T) {
	src := `
		let i = 0;
		while (i < 10) {
			i = i + 1;
		}
		return i;
	`
	if _, err := Parse("t.tj", src); err != nil {
		t.Fatalf("parse: %v", err)
	}
}

func TestParseCallAndMember(t *testing.T) {
	src := `
		let obj = foo();
		let x = obj.field;
		let y = obj[0];
		return y;
	`
	if _, err := Parse("t.tj", src); err != nil {
		t.Fatalf("parse: %v", err)
	}
}
