package ir

// GVN performs global value numbering: a single hash table, persistent for
// the whole function, maps a structural hash to every live congruence-class
// representative found so far, and every instruction is checked against its
// congruence class before being added. Two pure, side-effect-consistent
// instructions anywhere in the function — not only when one dominates the
// other — collapse to one survivor; this is what makes the pass global
// rather than a per-branch local one (SPEC's "Literals with equal root-slot
// identity are congruent regardless of block" generalizes to any pure
// expression here, not just literals). Replacing a candidate whose block
// does not dominate the survivor's block temporarily leaves the survivor's
// uses not strictly dominated by its definition; GCM, which always runs
// immediately after GVN in the fixed pipeline, repairs this by rescheduling
// the survivor to the dominator-tree LCA of its (now unified) uses. The
// traversal still walks the dominator tree in preorder, not for visibility
// scoping but so that every argument is already canonicalized by the time
// its user is hashed (see gvnHash). Requires DeriveDominators and
// FindEffects to have run.
func GVN(fn *Function) {
	table := make(map[uint32][]*Instruction)

	var visit func(b *Block)
	visit = func(b *Block) {
		for _, instr := range b.Instrs {
			if instr.Removed || !instr.eligibleForGVN() {
				continue
			}
			h := instr.gvnHash()
			replaced := false
			for _, c := range table[h] {
				if c.Removed {
					continue
				}
				if instr.isGVNEqual(c) && instr.hasSameEffectsAs(c) {
					replaceInstruction(instr, c)
					replaced = true
					break
				}
			}
			if !replaced {
				table[h] = append(table[h], instr)
			}
		}

		for _, child := range b.Dominates {
			visit(child)
		}
	}
	visit(fn.Root)
}

// eligibleForGVN excludes anything pinned or with GVN side effects: control
// terminators, stores, calls, allocations, closures and phis never
// participate in value numbering.
func (i *Instruction) eligibleForGVN() bool {
	return !i.Pinned && !i.Op.hasGVNSideEffects()
}

// replaceInstruction redirects every use of old to canonical and detaches
// old from the graph; the block-local splice of old out of Instrs is left
// to DCE, which already drops Removed instructions during its sweep.
func replaceInstruction(old, canonical *Instruction) {
	for _, user := range append([]*Instruction(nil), old.Uses...) {
		user.ReplaceArg(old, canonical)
	}
	old.Remove()
}

// gvnHash computes (and caches) a structural hash over opcode, payload, and
// argument identity. Because GVN visits in dominator preorder, every
// argument has already been canonicalized by the time its user is hashed,
// so hashing argument identity (not recursing into argument structure) is
// sufficient and cycle-safe by construction: no recursive descent, no guard
// needed.
func (i *Instruction) gvnHash() uint32 {
	if i.hashed {
		return i.hash
	}
	h := jenkinsSeed
	h = jenkinsMix(h, uint32(i.Op))
	h = jenkinsMix(h, hashString(i.BinOpKind))
	h = jenkinsMix(h, uint32(i.ContextDepth))
	h = jenkinsMix(h, uint32(i.ContextIndex))
	h = jenkinsMix(h, uint32(i.ArgIndex))
	h = jenkinsMix(h, uint32(i.AllocSize))
	h = jenkinsMix(h, uint32(i.Literal.Kind))
	h = jenkinsMix(h, hashString(i.Literal.Num))
	h = jenkinsMix(h, hashString(i.Literal.Str))
	if i.Literal.Bool {
		h = jenkinsMix(h, 1)
	}
	for _, arg := range i.Args {
		h = jenkinsMix(h, uint32(arg.ID))
	}
	i.hash = jenkinsFinish(h)
	i.hashed = true
	return i.hash
}

const jenkinsSeed uint32 = 0x9e3779b9

func jenkinsMix(h, v uint32) uint32 {
	h += v
	h += h << 10
	h ^= h >> 6
	return h
}

func jenkinsFinish(h uint32) uint32 {
	h += h << 3
	h ^= h >> 11
	h += h << 15
	return h
}

func hashString(s string) uint32 {
	var h uint32 = 2166136261
	for i := 0; i < len(s); i++ {
		h ^= uint32(s[i])
		h *= 16777619
	}
	return h
}

// isGVNEqual compares everything gvnHash folds in, plus the arguments
// themselves (by identity, post-canonicalization).
func (i *Instruction) isGVNEqual(o *Instruction) bool {
	if i.Op != o.Op || i.BinOpKind != o.BinOpKind {
		return false
	}
	if i.ContextDepth != o.ContextDepth || i.ContextIndex != o.ContextIndex {
		return false
	}
	if i.ArgIndex != o.ArgIndex || i.AllocSize != o.AllocSize {
		return false
	}
	if i.Literal != o.Literal {
		return false
	}
	if len(i.Args) != len(o.Args) {
		return false
	}
	for idx := range i.Args {
		if i.Args[idx] != o.Args[idx] {
			return false
		}
	}
	return true
}

// hasSameEffectsAs reports whether i and the candidate c have identical
// EffectsIn lists (the same effectful instructions, in the same order), so
// that no effect edge reaches one of them without reaching the other. c need
// not dominate i.
func (i *Instruction) hasSameEffectsAs(c *Instruction) bool {
	if len(i.EffectsIn) != len(c.EffectsIn) {
		return false
	}
	for idx := range i.EffectsIn {
		if i.EffectsIn[idx] != c.EffectsIn[idx] {
			return false
		}
	}
	return true
}
