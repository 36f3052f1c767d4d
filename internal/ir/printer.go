package ir

import (
	"fmt"
	"strconv"
	"strings"
)

// Print renders fn's current block list as the stable textual pretty-print
// format used by golden tests:
//
//	[Block#<id> {<env_slot_ids>} <phis...> <instrs...> [<pred_ids>]]>[<succ_ids>]
//
// An instruction line reads `i<id> = <OpcodeName>[<payload>](i<arg_id>, …)`;
// a phi reads `@[<input_ids>]:<id>`. Blocks are printed in reverse
// postorder, matching the order the middle-end hands to the LIR stage.
func Print(fn *Function) string {
	var sb strings.Builder
	for _, b := range reversePostorder(fn) {
		printBlock(&sb, b)
	}
	return sb.String()
}

func printBlock(sb *strings.Builder, b *Block) {
	fmt.Fprintf(sb, "[Block#%d {%s}", b.ID, envSlotIDs(b))

	for _, phi := range b.Phis {
		sb.WriteString(" ")
		sb.WriteString(printPhi(phi))
	}
	for _, instr := range b.Instrs {
		sb.WriteString(" ")
		sb.WriteString(printInstr(instr))
	}

	fmt.Fprintf(sb, " %s]>%s\n", idList(b.Preds), idList(b.Succs))
}

func envSlotIDs(b *Block) string {
	if b.Env == nil {
		return ""
	}
	var ids []string
	for i := 0; i < b.Env.size(); i++ {
		if v := b.Env.At(i); v != nil {
			ids = append(ids, "i"+strconv.Itoa(v.ID))
		}
	}
	return strings.Join(ids, ",")
}

func idList(blocks []*Block) string {
	ids := make([]string, len(blocks))
	for i, b := range blocks {
		ids[i] = strconv.Itoa(b.ID)
	}
	return "[" + strings.Join(ids, ",") + "]"
}

func printPhi(phi *Instruction) string {
	args := make([]string, len(phi.Args))
	for i, a := range phi.Args {
		if a == nil {
			args[i] = "nil"
			continue
		}
		args[i] = strconv.Itoa(a.ID)
	}
	return fmt.Sprintf("@[%s]:%d", strings.Join(args, ","), phi.ID)
}

func printInstr(instr *Instruction) string {
	args := make([]string, len(instr.Args))
	for i, a := range instr.Args {
		args[i] = "i" + strconv.Itoa(a.ID)
	}
	payload := instrPayload(instr)
	return fmt.Sprintf("i%d = %s[%s](%s)", instr.ID, instr.Op.String(), payload, strings.Join(args, ","))
}

// instrPayload renders an opcode's non-argument data: the operator for
// BinOp, the literal's textual value, the slot address for context
// load/stores, the argument index for LoadArg/StoreArg, and the allocation
// size for AllocateObject/AllocateArray.
func instrPayload(instr *Instruction) string {
	switch instr.Op {
	case BinOp:
		return instr.BinOpKind
	case Literal:
		return printLiteral(instr.Literal)
	case LoadContext, StoreContext:
		return fmt.Sprintf("%d,%d", instr.ContextDepth, instr.ContextIndex)
	case LoadArg, StoreArg:
		return strconv.Itoa(instr.ArgIndex)
	case AllocateObject, AllocateArray:
		return strconv.Itoa(instr.AllocSize)
	case FunctionOp:
		if instr.Fn != nil {
			return instr.Fn.Name
		}
		return ""
	default:
		return ""
	}
}

func printLiteral(v LiteralValue) string {
	switch v.Kind {
	case LitNumber:
		return v.Num
	case LitString:
		return strconv.Quote(v.Str)
	case LitBool:
		return strconv.FormatBool(v.Bool)
	default: // LitNil
		return "nil"
	}
}
