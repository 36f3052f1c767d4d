package ir

// Environment maps each live stack slot to the instruction that currently
// defines it (and, while a loop header's phi is still open, the phi
// awaiting its back-edge input). Captured (Context) slots never appear here
// — they are read/written through LoadContext/StoreContext against the
// enclosing function's own environment instead.
type Environment struct {
	defs []*Instruction
	phis []*Instruction
}

func NewEnvironment(stackSlots int) *Environment {
	return &Environment{
		defs: make([]*Instruction, stackSlots),
		phis: make([]*Instruction, stackSlots),
	}
}

// Copy produces an independent snapshot of e, copied immediately (nothing is
// shared with e), as happens on entry to a block with a single predecessor
// or a merge block.
func (e *Environment) Copy() *Environment {
	cp := &Environment{
		defs: make([]*Instruction, len(e.defs)),
		phis: make([]*Instruction, len(e.phis)),
	}
	copy(cp.defs, e.defs)
	copy(cp.phis, e.phis)
	return cp
}

func (e *Environment) grow(n int) {
	for len(e.defs) <= n {
		e.defs = append(e.defs, nil)
		e.phis = append(e.phis, nil)
	}
}

func (e *Environment) At(i int) *Instruction {
	if i < 0 || i >= len(e.defs) {
		return nil
	}
	return e.defs[i]
}

func (e *Environment) Set(i int, v *Instruction) {
	e.grow(i)
	e.defs[i] = v
}

func (e *Environment) PhiAt(i int) *Instruction {
	if i < 0 || i >= len(e.phis) {
		return nil
	}
	return e.phis[i]
}

func (e *Environment) SetPhi(i int, p *Instruction) {
	e.grow(i)
	e.phis[i] = p
}

func (e *Environment) size() int { return len(e.defs) }
