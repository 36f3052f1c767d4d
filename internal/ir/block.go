package ir

import "tinyjit/internal/scope"

// Block is a CFG node with 0–2 predecessors and 0–2 successors (every
// construct this front end supports — If/While — only ever needs binary
// branching).
type Block struct {
	ID   int
	Fn   *Function
	Env  *Environment

	Instrs []*Instruction
	Phis   []*Instruction

	Preds []*Block
	Succs []*Block

	ended bool
	loop  bool

	// Dominator-tree augmentation (Lengauer–Tarjan), populated by
	// DeriveDominators.
	dfsID         int
	parent        *Block
	ancestor      *Block
	label         *Block
	semi          *Block
	Dominator     *Block
	DominatorDepth int
	Dominates     []*Block
	LoopDepth     int

	reachableFrom map[int]bool
}

func newBlock(fn *Function) *Block {
	b := &Block{ID: fn.nextBlockID, Fn: fn}
	fn.nextBlockID++
	fn.Blocks = append(fn.Blocks, b)
	return b
}

// Add appends a new instruction of opcode op to the block and returns it.
func (b *Block) Add(op Opcode) *Instruction {
	return b.add(op, nil)
}

// AddWithSlot is Add but also sets the instruction's slot (Phi's merged
// variable, Literal's interned constant).
func (b *Block) AddWithSlot(op Opcode, slot scope.Slot) *Instruction {
	return b.add(op, &slot)
}

func (b *Block) add(op Opcode, slot *scope.Slot) *Instruction {
	if b.ended {
		panic("ir: block already ended, cannot add instruction " + op.String())
	}
	instr := &Instruction{
		ID:     b.Fn.nextInstrID,
		Op:     op,
		Block:  b,
		Slot:   slot,
		Pinned: op.isPinned(),
	}
	b.Fn.nextInstrID++
	b.Instrs = append(b.Instrs, instr)
	return instr
}

// AddInstr is used by passes that already built an Instruction elsewhere
// (e.g. GCM relocating one from another block) and just need it appended.
func (b *Block) AddInstr(instr *Instruction) {
	instr.Block = b
	b.Instrs = append(b.Instrs, instr)
}

// Assign records value as the current definition of slot in this block's
// environment. Stack slots only — see Environment.
func (b *Block) Assign(slot scope.Slot, value *Instruction) *Instruction {
	b.Env.Set(slot.Index, value)
	return value
}

func (b *Block) addSuccessor(t *Block) {
	b.Succs = append(b.Succs, t)
	t.Preds = append(t.Preds, b)
}

// Goto terminates the block with an unconditional branch to target.
func (b *Block) Goto(target *Block) *Instruction {
	instr := b.Add(Goto)
	b.addSuccessor(target)
	b.ended = true
	return instr
}

// Branch terminates the block conditionally; successors are t then f, in
// that order (so successor index 0 is the true arm).
func (b *Block) Branch(cond *Instruction, t, f *Block) *Instruction {
	instr := b.Add(If)
	instr.AddArg(cond)
	b.addSuccessor(t)
	b.addSuccessor(f)
	b.ended = true
	return instr
}

// Return terminates the block and marks control exit.
func (b *Block) Return(value *Instruction) *Instruction {
	instr := b.Add(Return)
	if value != nil {
		instr.AddArg(value)
	}
	b.ended = true
	return instr
}

func (b *Block) IsEnded() bool { return b.ended }
func (b *Block) IsEmpty() bool { return len(b.Instrs) == 0 && len(b.Phis) == 0 }
func (b *Block) IsLoop() bool  { return b.loop }

// CreatePhi appends a new, still-open Phi for slot to this block's phi list.
func (b *Block) CreatePhi(slot scope.Slot) *Instruction {
	phi := &Instruction{ID: b.Fn.nextInstrID, Op: Phi, Block: b, Slot: &slot, Pinned: true}
	b.Fn.nextInstrID++
	b.Phis = append(b.Phis, phi)
	return phi
}

// MarkPreLoop creates an open phi (one input so far, the value flowing in
// from the pre-loop block) for every slot live in the environment, so the
// loop body sees a merge candidate for variables mutated inside the loop.
func (b *Block) MarkPreLoop() {
	for idx := 0; idx < b.Env.size(); idx++ {
		incoming := b.Env.At(idx)
		if incoming == nil {
			continue
		}
		phi := b.CreatePhi(scope.NewStack(idx))
		phi.AddArg(incoming)
		b.Env.SetPhi(idx, phi)
		b.Env.Set(idx, phi)
	}
}

// MarkLoop closes the loop: every phi opened by MarkPreLoop receives its
// second input, the value flowing around the back edge, from the current
// (end-of-body) environment.
func (b *Block) MarkLoop(backEdgeEnv *Environment) {
	b.loop = true
	for idx := 0; idx < b.Env.size(); idx++ {
		phi := b.Env.PhiAt(idx)
		if phi == nil {
			continue
		}
		back := backEdgeEnv.At(idx)
		if back == nil {
			back = phi
		}
		phi.AddArg(back)
	}
}
