package ir

import "testing"

func runThroughGVN(t *testing.T, fn *Function) {
	t.Helper()
	PrunePhis(fn)
	FindReachableBlocks(fn)
	DeriveDominators(fn)
	FindEffects(fn)
	GVN(fn)
}

func TestGVNDeduplicatesRedundantExpression(t *testing.T) {
	fn := buildSource(t, "let x = 1; let y = x + 1; let z = x + 1; return z;")
	runThroughGVN(t, fn)

	var survivors []*Instruction
	for _, instr := range fn.Root.Instrs {
		if instr.Op == BinOp && instr.BinOpKind == "+" && !instr.Removed {
			survivors = append(survivors, instr)
		}
	}
	if len(survivors) != 1 {
		t.Fatalf("want exactly 1 surviving x+1 after GVN, got %d", len(survivors))
	}
}

func TestGVNDoesNotMergeAcrossInterveningStore(t *testing.T) {
	fn := buildSource(t, "let o = foo(); let a = o.field; o.field = 9; let b = o.field; return b;")
	runThroughGVN(t, fn)

	var loads []*Instruction
	for _, instr := range fn.Root.Instrs {
		if instr.Op == LoadProperty && !instr.Removed {
			loads = append(loads, instr)
		}
	}
	if len(loads) != 2 {
		t.Fatalf("want both loads to survive (a store separates them), got %d", len(loads))
	}
}

func TestGVNReplacementDominatesOriginal(t *testing.T) {
	fn := buildSource(t, "let x = 1; if (x == 1) { let y = x + 1; } else { let z = x + 1; } return x;")
	runThroughGVN(t, fn)

	for _, b := range fn.Blocks {
		for _, instr := range b.Instrs {
			for _, arg := range instr.Args {
				if arg.Block == nil {
					continue
				}
				if !Dominates(arg.Block, instr.Block) && arg.Block != instr.Block {
					t.Fatalf("argument %d's block does not dominate user %d's block", arg.ID, instr.ID)
				}
			}
		}
	}
}
