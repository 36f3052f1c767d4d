package ir

// GCM implements global code motion: every floating (non-pinned)
// instruction is first pushed as early as its dominance-respecting operands
// allow (schedule-early), then pulled as late as the dominator-tree lowest
// common ancestor of all its uses allows, settling on whichever block along
// that early-to-late range has the smallest loop depth (schedule-late).
// Pinned instructions never move; they anchor the range their floating
// operands and users are measured against. Requires DeriveDominators to
// have run (for DominatorDepth/Dominates) and loop headers to already carry
// Block.loop (set by MarkLoop during construction).
func GCM(fn *Function) {
	computeLoopDepths(fn)

	early := make(map[int]*Block, fn.InstrCount())
	late := make(map[int]*Block, fn.InstrCount())
	visitedEarly := make(map[int]bool)
	visitedLate := make(map[int]bool)

	var scheduleEarly func(instr *Instruction) *Block
	scheduleEarly = func(instr *Instruction) *Block {
		if instr == nil {
			return fn.Root
		}
		if instr.Pinned {
			return instr.Block
		}
		if visitedEarly[instr.ID] {
			return early[instr.ID]
		}
		visitedEarly[instr.ID] = true
		best := fn.Root
		for _, arg := range instr.Args {
			ab := scheduleEarly(arg)
			if ab.DominatorDepth > best.DominatorDepth {
				best = ab
			}
		}
		for _, e := range instr.EffectsIn {
			eb := scheduleEarly(e)
			if eb.DominatorDepth > best.DominatorDepth {
				best = eb
			}
		}
		early[instr.ID] = best
		return best
	}

	var scheduleLate func(instr *Instruction) *Block
	scheduleLate = func(instr *Instruction) *Block {
		if instr.Pinned {
			return instr.Block
		}
		if visitedLate[instr.ID] {
			return late[instr.ID]
		}
		visitedLate[instr.ID] = true

		var lca *Block
		for _, user := range instr.Uses {
			if user.Removed {
				continue
			}
			if user.Op == Phi {
				// A phi uses its operand at the end of the predecessor for
				// each input slot the operand fills, not in the phi's block.
				matched := false
				for idx, arg := range user.Args {
					if arg == instr && idx < len(user.Block.Preds) {
						lca = FindLCA(lca, user.Block.Preds[idx])
						matched = true
					}
				}
				if !matched {
					lca = FindLCA(lca, user.Block)
				}
				continue
			}
			lca = FindLCA(lca, scheduleLate(user))
		}
		for _, user := range instr.EffectsOut {
			if user.Removed {
				continue
			}
			lca = FindLCA(lca, scheduleLate(user))
		}

		if lca == nil {
			lca = scheduleEarly(instr)
		}

		earlyBlock := scheduleEarly(instr)
		best := lca
		for b := lca; b != nil; b = b.Dominator {
			if b.LoopDepth < best.LoopDepth {
				best = b
			}
			if b == earlyBlock {
				break
			}
		}
		late[instr.ID] = best
		return best
	}

	var floating []*Instruction
	for _, b := range fn.Blocks {
		for _, instr := range b.Instrs {
			if !instr.Removed && !instr.Pinned {
				floating = append(floating, instr)
			}
		}
	}
	for _, instr := range floating {
		scheduleEarly(instr)
	}
	for _, instr := range floating {
		scheduleLate(instr)
	}

	placements := make(map[int][]*Instruction)
	for _, instr := range floating {
		target := late[instr.ID]
		placements[target.ID] = append(placements[target.ID], instr)
	}

	for _, b := range fn.Blocks {
		var pinned []*Instruction
		for _, instr := range b.Instrs {
			if instr.Pinned && !instr.Removed {
				pinned = append(pinned, instr)
			}
		}
		b.Instrs = topoOrder(append(pinned, placements[b.ID]...))
		for _, instr := range b.Instrs {
			instr.Block = b
		}
	}
}

// phiPredecessorFor returns the predecessor block through which phi
// receives operand, i.e. the block whose Succs reach phi's block at the
// position matching operand among phi.Args.
func phiPredecessorFor(phi, operand *Instruction) *Block {
	for idx, arg := range phi.Args {
		if arg == operand && idx < len(phi.Block.Preds) {
			return phi.Block.Preds[idx]
		}
	}
	return nil
}

// computeLoopDepths approximates natural-loop nesting depth for each block
// as the number of dominator-tree ancestors (inclusive) marked as loop
// headers. A block that follows a loop (its exit and anything after it) is
// also dominated by that loop's header and so counts it too; the count is
// therefore an upper bound on the true nesting depth, not an exact one.
func computeLoopDepths(fn *Function) {
	for _, b := range fn.Blocks {
		depth := 0
		for c := b; c != nil; c = c.Dominator {
			if c.loop {
				depth++
			}
		}
		b.LoopDepth = depth
	}
}

// isTerminator reports whether instr ends its block's control flow. A
// terminator must always be the last instruction in its block: nothing else
// in the block can have a control-flow successor placed after it, and no
// data/effect edge ever runs from a later instruction back into one (the
// builder never emits anything after a block-ending instruction).
func isTerminator(op Opcode) bool {
	switch op {
	case If, Goto, Return:
		return true
	default:
		return false
	}
}

// topoOrder returns instrs reordered so that every instruction appears
// after its Args and EffectsIn dependencies that are also in instrs,
// breaking ties by the instructions' relative input order (stable Kahn's
// algorithm) so pinned terminators and scheduling-unaffected instructions
// keep their original position. A plain dependency-respecting order is not
// enough on its own: a floating instruction with no in-block data
// dependency on the block's terminator (e.g. a loop-invariant literal
// scheduled into a pre-header that merely ends in Goto) can otherwise sort
// ahead of it purely by original index, leaving the terminator stranded
// mid-block. Terminators are therefore always moved to the end, after the
// dependency sort, preserving the sorted order of everything else.
func topoOrder(instrs []*Instruction) []*Instruction {
	index := make(map[int]int, len(instrs))
	for i, instr := range instrs {
		index[instr.ID] = i
	}
	inDeg := make([]int, len(instrs))
	deps := make([][]int, len(instrs))
	for i, instr := range instrs {
		seen := make(map[int]bool)
		for _, a := range instr.Args {
			if j, ok := index[a.ID]; ok && !seen[j] {
				deps[j] = append(deps[j], i)
				inDeg[i]++
				seen[j] = true
			}
		}
		for _, e := range instr.EffectsIn {
			if j, ok := index[e.ID]; ok && !seen[j] {
				deps[j] = append(deps[j], i)
				inDeg[i]++
				seen[j] = true
			}
		}
	}

	var ready []int
	for i := range instrs {
		if inDeg[i] == 0 {
			ready = append(ready, i)
		}
	}

	out := make([]*Instruction, 0, len(instrs))
	placed := make([]bool, len(instrs))
	for len(out) < len(instrs) {
		if len(ready) == 0 {
			// Dependency cycle (shouldn't occur outside Phi, which is
			// always pinned and thus never reordered here); fall back to
			// input order for whatever remains.
			for i := range instrs {
				if !placed[i] {
					ready = append(ready, i)
				}
			}
		}
		// Pick the lowest original-index ready node to keep output stable.
		best := 0
		for i := 1; i < len(ready); i++ {
			if ready[i] < ready[best] {
				best = i
			}
		}
		n := ready[best]
		ready = append(ready[:best], ready[best+1:]...)
		if placed[n] {
			continue
		}
		placed[n] = true
		out = append(out, instrs[n])
		for _, dep := range deps[n] {
			inDeg[dep]--
			if inDeg[dep] == 0 {
				ready = append(ready, dep)
			}
		}
	}

	rest := make([]*Instruction, 0, len(out))
	var terminators []*Instruction
	for _, instr := range out {
		if isTerminator(instr.Op) {
			terminators = append(terminators, instr)
		} else {
			rest = append(rest, instr)
		}
	}
	return append(rest, terminators...)
}
