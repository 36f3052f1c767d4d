package ir

// PrunePhis collapses trivial phis: a phi whose arguments, once self-
// references are ignored, all resolve to the same single value carries no
// information and is replaced everywhere by that value. Construction leaves
// these behind routinely — MarkPreLoop opens a phi for every live slot even
// when the loop body never reassigns it. (An if/else join only opens a phi
// for slots whose definitions differ between the arms.)
//
// Pruning one phi can make another trivial (the first phi's only remaining
// user might itself become single-valued), so this iterates to a fixpoint.
func PrunePhis(fn *Function) {
	for {
		changed := false
		for _, b := range fn.Blocks {
			kept := b.Phis[:0]
			for _, phi := range b.Phis {
				if phi.Removed {
					continue
				}
				if same, ok := trivialValue(phi); ok {
					replaceInstruction(phi, same)
					changed = true
					continue
				}
				kept = append(kept, phi)
			}
			b.Phis = kept
		}
		if !changed {
			return
		}
	}
}

// trivialValue reports the single non-self argument a phi's arguments all
// agree on, if any. A phi with zero non-self arguments is reported as not
// trivial, so PrunePhis keeps it.
func trivialValue(phi *Instruction) (*Instruction, bool) {
	var same *Instruction
	for _, arg := range phi.Args {
		if arg == nil || arg == phi {
			continue
		}
		if same == nil {
			same = arg
			continue
		}
		if same != arg {
			return nil, false
		}
	}
	if same == nil {
		return nil, false
	}
	return same, true
}
