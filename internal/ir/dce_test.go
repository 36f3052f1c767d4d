package ir

import "testing"

func TestDCERemovesUnusedPureInstruction(t *testing.T) {
	fn := buildSource(t, "let a = 1 + 2; return 3;")
	PrunePhis(fn)
	FindReachableBlocks(fn)
	DeriveDominators(fn)
	FindEffects(fn)
	DCE(fn)

	for _, instr := range fn.Root.Instrs {
		if instr.BinOpKind == "+" {
			t.Fatalf("dead BinOp should have been removed by DCE")
		}
	}
}

func TestDCEKeepsPinnedInstructions(t *testing.T) {
	fn := buildSource(t, "return 1;")
	PrunePhis(fn)
	FindReachableBlocks(fn)
	DeriveDominators(fn)
	FindEffects(fn)
	DCE(fn)

	found := false
	for _, instr := range fn.Root.Instrs {
		if instr.Op == Return {
			found = true
		}
	}
	if !found {
		t.Fatalf("Return must survive DCE")
	}
}
