package resolve

import (
	"testing"

	"tinyjit/internal/ast"
	"tinyjit/internal/parser"
	"tinyjit/internal/scope"
)

func TestResolveStackSlots(t *testing.T) {
	prog, _, _ := parser.ParseSource("t.tj", "let a = 1; let b = a; return b;")
	diags := Resolve(prog)
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
}

func TestResolveFreeNameBindsAsImplicitGlobal(t *testing.T) {
	prog, _, _ := parser.ParseSource("t.tj", "return missing;")
	diags := Resolve(prog)
	if len(diags) != 0 {
		t.Fatalf("free top-level name must not be rejected, got diagnostics: %v", diags)
	}

	ret := prog.Func.Body.Stmts[0].(*ast.ReturnStmt)
	ident := ret.Value.(*ast.Ident)
	if ident.Slot == nil || ident.Slot.Kind != scope.Stack {
		t.Fatalf("want a Stack slot for a free top-level name, got %#v", ident.Slot)
	}
}

func TestResolveFreeNameInNestedFunctionBindsAsGlobalContextSlot(t *testing.T) {
	prog, _, _ := parser.ParseSource("t.tj", "let f = fn() { return missing; }; return f;")
	diags := Resolve(prog)
	if len(diags) != 0 {
		t.Fatalf("free name in a nested function must not be rejected, got diagnostics: %v", diags)
	}

	nested := prog.Func.Body.Stmts[0].(*ast.LetStmt).Value.(*ast.FunctionLit)
	ret := nested.Body.Stmts[0].(*ast.ReturnStmt)
	ident := ret.Value.(*ast.Ident)
	if ident.Slot == nil || ident.Slot.Kind != scope.Context || ident.Slot.Depth != 1 {
		t.Fatalf("want a depth-1 Context slot into the global scope, got %#v", ident.Slot)
	}
}

func TestResolveBreakOutsideLoop(t *testing.T) {
	prog, _, _ := parser.ParseSource("t.tj", "break; return 1;")
	diags := Resolve(prog)
	if len(diags) != 1 || diags[0].Code != "E0006" {
		t.Fatalf("expected break-outside-loop diagnostic, got %v", diags)
	}
}

func TestResolveNestedFunctionCapturesContextSlot(t *testing.T) {
	prog, parseErrs, scanErrs := parser.ParseSource("t.tj", `
		let a = 1;
		let f = fn() {
			return a;
		};
		return f;
	`)
	if len(parseErrs) > 0 || len(scanErrs) > 0 {
		t.Fatalf("unexpected front-end errors: %v %v", parseErrs, scanErrs)
	}
	if diags := Resolve(prog); len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}

	nested := prog.Func.Body.Stmts[1].(*ast.LetStmt).Value.(*ast.FunctionLit)
	ret := nested.Body.Stmts[0].(*ast.ReturnStmt)
	ident := ret.Value.(*ast.Ident)
	if ident.Slot == nil || ident.Slot.Kind != scope.Context {
		t.Fatalf("want a Context slot for captured 'a', got %#v", ident.Slot)
	}
	if ident.Slot.Depth != 1 {
		t.Fatalf("want capture depth 1, got %d", ident.Slot.Depth)
	}
}
