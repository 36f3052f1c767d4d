package ir

// FindEffects walks fn in reverse-postorder and builds the effect/dependence
// sublattice: for every instruction i and every earlier instruction p (in
// reverse-postorder) that has side effects or GVN side effects, where
// p.Effects(i) holds, it records i as one of p's
// EffectsOut and p as one of i's EffectsIn. GVN and GCM both treat these
// edges as extra must-precede constraints layered on top of the ordinary
// SSA def/use graph, so a store is never hoisted past a load it may
// invalidate and vice versa.
func FindEffects(fn *Function) {
	for _, b := range fn.Blocks {
		for _, instr := range b.Instrs {
			instr.EffectsIn = nil
			instr.EffectsOut = nil
		}
	}

	var seen []*Instruction
	for _, b := range reversePostorder(fn) {
		for _, instr := range b.Instrs {
			for _, p := range seen {
				if p.Effects(instr) {
					p.EffectsOut = append(p.EffectsOut, instr)
					instr.EffectsIn = append(instr.EffectsIn, p)
				}
			}
			if instr.HasSideEffects() || instr.HasGVNSideEffects() {
				seen = append(seen, instr)
			}
		}
	}
}

// reversePostorder returns fn's blocks ordered so that every block appears
// after all of its predecessors reachable from the root (standard forward
// dataflow order); blocks FindReachableBlocks never reached are appended
// last, in arena order, so every block is still visited exactly once.
func reversePostorder(fn *Function) []*Block {
	visited := make(map[int]bool)
	var post []*Block

	var visit func(b *Block)
	visit = func(b *Block) {
		if visited[b.ID] {
			return
		}
		visited[b.ID] = true
		for _, s := range b.Succs {
			visit(s)
		}
		post = append(post, b)
	}
	visit(fn.Root)

	order := make([]*Block, 0, len(post))
	for i := len(post) - 1; i >= 0; i-- {
		order = append(order, post[i])
	}
	for _, b := range fn.Blocks {
		if !visited[b.ID] {
			order = append(order, b)
		}
	}
	return order
}
