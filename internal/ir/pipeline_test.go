package ir

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func compile(t *testing.T, source string, cfg Config) *Function {
	t.Helper()
	fn := buildSource(t, source)
	runStages(fn, cfg)
	return fn
}

func TestScenarioReturnLiteral(t *testing.T) {
	fn := compile(t, "return 1;", DefaultConfig())
	out := Print(fn)

	assert.Equal(t, 1, len(fn.Blocks), "single block, no control flow")
	assert.Contains(t, out, "Literal")
	assert.Contains(t, out, "Return")
	assert.Empty(t, fn.Root.Phis, "no phi expected")

	var ret *Instruction
	for _, instr := range fn.Root.Instrs {
		if instr.Op == Return {
			ret = instr
		}
	}
	assert.NotNil(t, ret)
	assert.True(t, ret.Pinned)
}

func TestScenarioAddTwoLiterals(t *testing.T) {
	fn := compile(t, "return 1 + 2;", DefaultConfig())

	var binop *Instruction
	for _, instr := range fn.Blocks[0].Instrs {
		if instr.Op == BinOp {
			binop = instr
		}
	}
	assert.NotNil(t, binop, "BinOp survives GVN as unique+pure")
	assert.False(t, binop.Removed)
	assert.Equal(t, fn.Root.ID, binop.Block.ID, "no loop, BinOp placed in entry block")
}

func TestScenarioIfElseJoinPhi(t *testing.T) {
	fn := compile(t, "let a = 1; if (c) { a = 2; } else { a = 3; } return a;", DefaultConfig())

	var joinPhi *Instruction
	for _, b := range fn.Blocks {
		if len(b.Phis) == 1 {
			joinPhi = b.Phis[0]
		}
	}
	assert.NotNil(t, joinPhi, "join block carries exactly one phi")
	assert.Len(t, joinPhi.Args, 2)

	var ret *Instruction
	for _, b := range fn.Blocks {
		for _, instr := range b.Instrs {
			if instr.Op == Return {
				ret = instr
			}
		}
	}
	assert.NotNil(t, ret)
	assert.Contains(t, ret.Args, joinPhi, "Return must use the join Phi")
}

func TestScenarioWhileLoopPhiAndInvariantHoist(t *testing.T) {
	fn := compile(t, "let i = 0; while (i < 10) { let k = 7 + 7; i = i + k; } return i;", DefaultConfig())

	var header *Block
	for _, b := range fn.Blocks {
		if b.IsLoop() {
			header = b
		}
	}
	assert.NotNil(t, header)
	assert.Len(t, header.Phis, 1)
	assert.Len(t, header.Phis[0].Args, 2, "initial value and back-edge increment")

	for _, b := range fn.Blocks {
		for _, instr := range b.Instrs {
			if instr.Op == BinOp && instr.BinOpKind == "+" && len(instr.Args) == 2 {
				l, r := instr.Args[0], instr.Args[1]
				if l.Op == Literal && r.Op == Literal && l.Literal.Num == "7" && r.Literal.Num == "7" {
					assert.False(t, instr.Block == header || instr.Block == header.Succs[0], "loop-invariant 7+7 must be hoisted out of the loop body")
				}
			}
		}
	}
}

func TestScenarioGVNMergesIdenticalBranchExpressions(t *testing.T) {
	// Neither branch's `x + 1` dominates the other: GVN must merge them as
	// a genuinely global congruence, not one scoped to a dominator subtree.
	fn := compile(t, "let x = 1; let y = 0; if (c) { y = x + 1; } else { y = x + 1; } return y;", DefaultConfig())

	var survivors []*Instruction
	for _, b := range fn.Blocks {
		for _, instr := range b.Instrs {
			if instr.Op == BinOp && instr.BinOpKind == "+" && !instr.Removed {
				survivors = append(survivors, instr)
			}
		}
	}
	assert.Len(t, survivors, 1, "GVN collapses the two sibling-branch x+1 instructions into one")

	survivor := survivors[0]
	for _, use := range survivor.Uses {
		if use.Removed {
			continue
		}
		targets := []*Block{use.Block}
		if use.Op == Phi {
			// A phi uses the survivor at the end of the predecessor of every
			// input slot the survivor fills.
			targets = nil
			for idx, arg := range use.Args {
				if arg == survivor && idx < len(use.Block.Preds) {
					targets = append(targets, use.Block.Preds[idx])
				}
			}
		}
		for _, target := range targets {
			assert.True(t, survivor.Block == target || Dominates(survivor.Block, target),
				"GCM must reschedule the survivor so its block dominates every use")
		}
	}
}

func TestScenarioMaxOptimizableSizeSkipsOptimization(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("let a = 0; ")
	for i := 0; i < 10; i++ {
		sb.WriteString("a = a + 1; ")
	}
	sb.WriteString("return a;")

	fn := buildSource(t, sb.String())
	cfg := Config{MaxOptimizableSize: 1}

	before := Print(buildSource(t, sb.String()))
	runStages(fn, cfg)
	after := Print(fn)

	assert.Equal(t, before, after, "structurally identical to build output when optimization is skipped")
	assert.True(t, fn.Root.IsReachable(), "FindReachableBlocks still runs unconditionally below GVN/DCE/GCM")
	assert.Equal(t, 0, fn.Root.DominatorDepth, "DeriveDominators still runs unconditionally below GVN/DCE/GCM")
}
