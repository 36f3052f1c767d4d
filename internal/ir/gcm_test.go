package ir

import "testing"

func runFullPipeline(t *testing.T, fn *Function) {
	t.Helper()
	PrunePhis(fn)
	FindReachableBlocks(fn)
	DeriveDominators(fn)
	FindEffects(fn)
	GVN(fn)
	DCE(fn)
	GCM(fn)
}

func TestGCMPlacementIsLegal(t *testing.T) {
	fn := buildSource(t, "let x = 1; if (x == 1) { let y = x + 1; } else { let z = x + 1; } return x;")
	runFullPipeline(t, fn)

	for _, b := range fn.Blocks {
		for _, instr := range b.Instrs {
			for _, arg := range instr.Args {
				if arg == nil || arg.Block == nil {
					continue
				}
				if arg.Block != instr.Block && !Dominates(arg.Block, instr.Block) {
					t.Fatalf("illegal placement: arg %d (block %d) does not dominate user %d (block %d)",
						arg.ID, arg.Block.ID, instr.ID, instr.Block.ID)
				}
			}
			for _, use := range instr.Uses {
				if use == nil || use.Removed || use.Block == nil {
					continue
				}
				target := use.Block
				if use.Op == Phi {
					if p := phiPredecessorFor(use, instr); p != nil {
						target = p
					}
				}
				if target != instr.Block && !Dominates(instr.Block, target) {
					t.Fatalf("illegal placement: user %d (block %d) is not dominated by def %d (block %d)",
						use.ID, target.ID, instr.ID, instr.Block.ID)
				}
			}
		}
	}
}

func TestGCMKeepsTerminatorLastInEveryBlock(t *testing.T) {
	fn := buildSource(t, "let i = 0; while (i < 10) { i = i + 1; } return i;")
	runFullPipeline(t, fn)

	for _, b := range fn.Blocks {
		for idx, instr := range b.Instrs {
			if isTerminator(instr.Op) && idx != len(b.Instrs)-1 {
				t.Fatalf("block %d: terminator %s is not last (at %d of %d)",
					b.ID, instr.Op, idx, len(b.Instrs))
			}
		}
	}
}

func TestGCMHoistsLoopInvariantOutOfLoop(t *testing.T) {
	fn := buildSource(t, "let i = 0; while (i < 10) { let c = 5 + 5; i = i + c; } return i;")
	runFullPipeline(t, fn)

	var header *Block
	for _, b := range fn.Blocks {
		if b.IsLoop() {
			header = b
		}
	}
	if header == nil {
		t.Fatalf("expected a loop header block")
	}

	for _, b := range fn.Blocks {
		for _, instr := range b.Instrs {
			if instr.Op == BinOp && instr.BinOpKind == "+" && instr.Literal.Num == "" {
				if len(instr.Args) == 2 {
					left, right := instr.Args[0], instr.Args[1]
					if left.Op == Literal && right.Op == Literal && left.Literal.Num == "5" && right.Literal.Num == "5" {
						if instr.Block == header || instr.Block == header.Succs[0] {
							t.Fatalf("loop-invariant 5+5 was left inside the loop body at block %d", instr.Block.ID)
						}
					}
				}
			}
		}
	}
}
