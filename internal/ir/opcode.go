// Package ir is the middle-end: HIR construction in SSA form from an AST,
// dominator-tree computation, an effect/dependence sublattice, global value
// numbering, dead-code elimination, and global code motion.
package ir

// Opcode is the closed instruction vocabulary the middle-end knows about.
type Opcode int

const (
	Nop Opcode = iota
	Nil
	Entry
	Return
	FunctionOp
	LoadArg
	LoadVarArg
	StoreArg
	StoreVarArg
	AlignStack
	LoadContext
	StoreContext
	LoadProperty
	StoreProperty
	DeleteProperty
	If
	Literal
	Goto
	Not
	BinOp
	Typeof
	Sizeof
	Keysof
	Clone
	Call
	CollectGarbage
	GetStackTrace
	AllocateObject
	AllocateArray
	Phi
)

var opcodeNames = [...]string{
	Nop:            "Nop",
	Nil:            "Nil",
	Entry:          "Entry",
	Return:         "Return",
	FunctionOp:     "Function",
	LoadArg:        "LoadArg",
	LoadVarArg:     "LoadVarArg",
	StoreArg:       "StoreArg",
	StoreVarArg:    "StoreVarArg",
	AlignStack:     "AlignStack",
	LoadContext:    "LoadContext",
	StoreContext:   "StoreContext",
	LoadProperty:   "LoadProperty",
	StoreProperty:  "StoreProperty",
	DeleteProperty: "DeleteProperty",
	If:             "If",
	Literal:        "Literal",
	Goto:           "Goto",
	Not:            "Not",
	BinOp:          "BinOp",
	Typeof:         "Typeof",
	Sizeof:         "Sizeof",
	Keysof:         "Keysof",
	Clone:          "Clone",
	Call:           "Call",
	CollectGarbage: "CollectGarbage",
	GetStackTrace:  "GetStackTrace",
	AllocateObject: "AllocateObject",
	AllocateArray:  "AllocateArray",
	Phi:            "Phi",
}

func (o Opcode) String() string {
	if int(o) < len(opcodeNames) {
		return opcodeNames[o]
	}
	return "Unknown"
}

// Representation is a bitset over the value-class lattice. Subset relations
// (Smi/HeapNumber ⊂ Number, NumMap ⊂ Object ⊂ Array) are encoded so that
// Number includes every bit Smi and HeapNumber set, Object includes every bit
// NumMap sets, and so on; `a & b` is then exactly the lattice meet.
type Representation uint32

const (
	RNil Representation = 1 << iota
	RSmi
	RHeapNumber
	RString
	RBoolean
	RNumMapOwn
	RObjectOwn
	RArrayOwn
	RFunction
	RHole
)

const (
	RNumber = RSmi | RHeapNumber
	RNumMap = RNumMapOwn
	RObject = RNumMap | RObjectOwn
	RArray  = RObject | RArrayOwn
	RUnknown Representation = 0
	RAny            = RNil | RNumber | RString | RBoolean | RObject | RArray | RFunction | RHole
)

// hasSideEffects reports whether an opcode is observably ordered: it is
// pinned, never hoisted/sunk/deduplicated.
func (o Opcode) hasSideEffects() bool {
	switch o {
	case Entry, Return, If, Goto,
		StoreArg, StoreVarArg, StoreContext, StoreProperty, DeleteProperty,
		AlignStack, Call, CollectGarbage, GetStackTrace:
		return true
	default:
		return false
	}
}

// hasGVNSideEffects reports whether instances of the opcode are never GVN
// congruent even though they may be schedulable (AllocateObject/Array: fresh
// identity every time; Function: closure identity matters).
func (o Opcode) hasGVNSideEffects() bool {
	switch o {
	case AllocateObject, AllocateArray, FunctionOp, Phi:
		return true
	default:
		return o.hasSideEffects()
	}
}

// isPinned reports whether instructions of this opcode are pinned at
// creation regardless of GVN/GCM outcome: terminators plus anything with
// side effects.
func (o Opcode) isPinned() bool {
	switch o {
	case If, Goto, Return, Entry:
		return true
	default:
		return o.hasSideEffects()
	}
}
