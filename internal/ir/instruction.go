package ir

import "tinyjit/internal/scope"

// Instruction is one HIR node. Argument and use edges are maintained in
// lockstep by AddArg/RemoveArg/ReplaceArg/Remove: every argument edge has a
// matching reverse use edge, and vice versa (Testable Property 3).
type Instruction struct {
	ID     int
	Op     Opcode
	Block  *Block
	Args   []*Instruction
	Uses   []*Instruction
	Slot   *scope.Slot // Phi: merged variable; Literal: interned constant identity
	Repr   Representation

	EffectsIn  []*Instruction
	EffectsOut []*Instruction

	Pinned  bool
	Removed bool
	IsLive  bool

	// GVN scratch state.
	hashed bool
	hash   uint32

	// Visit-coloring counters paired with Function's generation counters.
	// No pass reads or writes them; the passes use their own visited maps.
	gcmVisited int
	gvnVisited int

	// Opcode-specific payload.
	BinOpKind    string // "+", "-", ..., valid when Op == BinOp
	AllocSize    int    // valid when Op == AllocateObject/AllocateArray
	Literal      LiteralValue
	Fn           *Function // valid when Op == FunctionOp
	ContextDepth int
	ContextIndex int
	ArgIndex     int // valid when Op == LoadArg/StoreArg: positional argument index
}

// LiteralValue is the payload of a Literal instruction.
type LiteralValue struct {
	Kind  LiteralKind
	Num   string
	Str   string
	Bool  bool
}

type LiteralKind int

const (
	LitNumber LiteralKind = iota
	LitString
	LitBool
	LitNil
)

// AddArg appends arg as an argument and records the reverse use edge.
func (i *Instruction) AddArg(arg *Instruction) {
	i.Args = append(i.Args, arg)
	if arg != nil {
		arg.Uses = append(arg.Uses, i)
	}
}

// ReplaceArg rewrites every argument edge pointing at o to point at n,
// keeping n's use list and o's use list consistent.
func (i *Instruction) ReplaceArg(o, n *Instruction) {
	for idx, a := range i.Args {
		if a == o {
			i.Args[idx] = n
			o.removeUse(i)
			n.Uses = append(n.Uses, i)
		}
	}
}

func (i *Instruction) removeUse(user *Instruction) {
	for idx, u := range i.Uses {
		if u == user {
			i.Uses = append(i.Uses[:idx], i.Uses[idx+1:]...)
			return
		}
	}
}

// Remove detaches the instruction from its arguments' use lists and marks it
// removed. It does not touch the block's instruction list; callers (DCE,
// GVN) splice that separately so removal during iteration stays simple.
func (i *Instruction) Remove() {
	for _, a := range i.Args {
		a.removeUse(i)
	}
	i.Args = nil
	i.Removed = true
}

func (i *Instruction) HasSideEffects() bool    { return i.Op.hasSideEffects() }
func (i *Instruction) HasGVNSideEffects() bool { return i.Op.hasGVNSideEffects() }

// Effects reports whether executing i invalidates the memory identity other
// depends on — the declarative per-opcode property behind FindEffects.
func (i *Instruction) Effects(other *Instruction) bool {
	switch i.Op {
	case StoreProperty, DeleteProperty:
		// A store/delete on object X invalidates loads/stores that share
		// that same base-object argument.
		if len(i.Args) == 0 || len(other.Args) == 0 {
			return false
		}
		return i.Args[0] == other.Args[0] &&
			(other.Op == LoadProperty || other.Op == StoreProperty || other.Op == DeleteProperty || other.Op == Call)
	case StoreArg, StoreVarArg:
		// Arguments escape: conservatively, a store-arg effects every
		// later instruction, whatever its opcode.
		return true
	case StoreContext:
		return other.Op == LoadContext
	case Call, CollectGarbage:
		return true
	default:
		return false
	}
}
