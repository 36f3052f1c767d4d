package ir

import (
	"testing"

	"tinyjit/internal/parser"
	"tinyjit/internal/resolve"
)

func buildSource(t *testing.T, source string) *Function {
	t.Helper()
	prog, parseErrs, scanErrs := parser.ParseSource("t.tj", source)
	if len(parseErrs) > 0 || len(scanErrs) > 0 {
		t.Fatalf("front-end errors: %v %v", parseErrs, scanErrs)
	}
	if diags := resolve.Resolve(prog); len(diags) > 0 {
		t.Fatalf("resolve errors: %v", diags)
	}
	p := Build(prog)
	return p.Functions[0]
}

func TestBuildReturnLiteral(t *testing.T) {
	fn := buildSource(t, "return 1;")
	if len(fn.Root.Instrs) == 0 {
		t.Fatalf("expected instructions in entry block")
	}
	last := fn.Root.Instrs[len(fn.Root.Instrs)-1]
	if last.Op != Return {
		t.Fatalf("want last instruction Return, got %s", last.Op)
	}
	if !last.Pinned {
		t.Fatalf("Return must be pinned")
	}
	lit := last.Args[0]
	if lit.Op != Literal || lit.Literal.Num != "1" {
		t.Fatalf("want Literal(1) feeding Return, got %#v", lit)
	}
}

func TestBuildBinOpRepresentation(t *testing.T) {
	fn := buildSource(t, "return 1 + 2;")
	var binop *Instruction
	for _, instr := range fn.Root.Instrs {
		if instr.Op == BinOp {
			binop = instr
		}
	}
	if binop == nil {
		t.Fatalf("expected a BinOp instruction")
	}
	if binop.Repr&RNumber == 0 {
		t.Fatalf("want BinOp(+) of two numbers to carry a Number representation, got %v", binop.Repr)
	}
}

func TestBuildIfElseJoinPhi(t *testing.T) {
	fn := buildSource(t, "let a = 1; if (a == 1) { a = 2; } else { a = 3; } return a;")

	var joinWithPhi *Block
	for _, b := range fn.Blocks {
		if len(b.Phis) == 1 {
			joinWithPhi = b
		}
	}
	if joinWithPhi == nil {
		t.Fatalf("expected exactly one block with a join phi")
	}
	phi := joinWithPhi.Phis[0]
	if len(phi.Args) != 2 {
		t.Fatalf("want 2 phi inputs, got %d", len(phi.Args))
	}

	var ret *Instruction
	for _, instr := range fn.Blocks[len(fn.Blocks)-1].Instrs {
		if instr.Op == Return {
			ret = instr
		}
	}
	if ret == nil {
		t.Fatalf("expected a Return instruction somewhere")
	}
}

func TestBuildWhileLoopPhi(t *testing.T) {
	fn := buildSource(t, "let i = 0; while (i < 10) { i = i + 1; } return i;")

	var header *Block
	for _, b := range fn.Blocks {
		if b.IsLoop() {
			header = b
		}
	}
	if header == nil {
		t.Fatalf("expected a loop header block")
	}
	if len(header.Phis) == 0 {
		t.Fatalf("expected the loop header to carry a phi for 'i'")
	}
	if len(header.Phis[0].Args) != 2 {
		t.Fatalf("want 2 inputs on the loop phi (initial, back-edge), got %d", len(header.Phis[0].Args))
	}
}

func TestBuildUnreachableCodeAfterReturnTruncated(t *testing.T) {
	fn := buildSource(t, "return 1; let a = 2;")
	for _, instr := range fn.Root.Instrs {
		if instr.Literal.Num == "2" {
			t.Fatalf("statement after return must not be built")
		}
	}
}

func TestBuildIfJoinMaterializesNilOnUndefinedArm(t *testing.T) {
	fn := buildSource(t, "if (c) { let a = 1; } return a;")

	var joinPhi *Instruction
	for _, b := range fn.Blocks {
		if len(b.Phis) == 1 {
			joinPhi = b.Phis[0]
		}
	}
	if joinPhi == nil {
		t.Fatalf("expected a join phi for 'a'")
	}
	if len(joinPhi.Args) != 2 {
		t.Fatalf("want 2 phi args, got %d", len(joinPhi.Args))
	}

	var definedArg, undefinedArg *Instruction
	for _, arg := range joinPhi.Args {
		if arg == nil {
			t.Fatalf("phi argument must never be a bare nil")
		}
		if arg.Op == Literal && arg.Literal.Kind == LitNil {
			undefinedArg = arg
		} else {
			definedArg = arg
		}
	}
	if undefinedArg == nil {
		t.Fatalf("expected the never-taken arm to materialize an explicit Nil literal")
	}
	if definedArg == nil || definedArg.Literal.Num != "1" {
		t.Fatalf("expected the taken arm's defined value 1 to remain the other phi arg, got %#v", definedArg)
	}

	if same, ok := trivialValue(joinPhi); ok {
		t.Fatalf("phi must not be collapsed to %#v: the undefined arm does not actually carry that value", same)
	}
}

func TestBuildCallArgOrder(t *testing.T) {
	fn := buildSource(t, "let x = foo(1, 2, 3); return x;")
	var call *Instruction
	for _, instr := range fn.Root.Instrs {
		if instr.Op == Call {
			call = instr
		}
	}
	if call == nil {
		t.Fatalf("expected a Call instruction")
	}
	// args[0]=callee, args[1]=AlignStack, args[2:]=StoreArgs in ascending ArgIndex
	if len(call.Args) != 5 {
		t.Fatalf("want 5 call args (callee, align, 3 stores), got %d", len(call.Args))
	}
	for i, store := range call.Args[2:] {
		if store.ArgIndex != i {
			t.Fatalf("want StoreArg %d at position %d, got ArgIndex %d", i, i, store.ArgIndex)
		}
	}
}
