package ir

import (
	"strconv"

	"tinyjit/internal/ast"
	"tinyjit/internal/scope"
)

// loopInfo mirrors candor's BreakContinueInfo: one record per enclosing
// loop, recording where a break/continue inside it should jump.
type loopInfo struct {
	continueTarget *Block
	breakTarget    *Block
}

// Builder performs the recursive preorder AST walk described in the SSA
// construction section: it emits instructions into the current block,
// maintains the current block's environment, and creates phis on demand at
// control-flow merges.
type Builder struct {
	prog      *Program
	fn        *Function
	cur       *Block
	loopStack []*loopInfo
}

// Build constructs a Program from a resolved AST (every Ident must already
// carry a scope.Slot — see internal/resolve). The top-level function literal
// becomes Function 0; nested function literals are enqueued as additional
// Functions in the same Program, each with their own arena of blocks.
func Build(prog *ast.Program) *Program {
	p := NewProgram()
	b := &Builder{prog: p}
	b.buildFunction(prog.Func)
	return p
}

func (b *Builder) buildFunction(lit *ast.FunctionLit) *Function {
	outerFn, outerCur, outerLoops := b.fn, b.cur, b.loopStack

	fn := newFunction(b.prog, lit.Name, len(lit.Params))
	b.fn, b.cur, b.loopStack = fn, fn.Root, nil

	b.cur.Add(Entry)
	for i, param := range lit.Params {
		instr := b.cur.Add(LoadArg)
		instr.ArgIndex = i
		if param.Slot != nil {
			b.cur.Assign(*param.Slot, instr)
		}
	}

	b.buildBlock(lit.Body)

	if !b.cur.IsEnded() {
		b.cur.Return(nil)
	}

	b.fn, b.cur, b.loopStack = outerFn, outerCur, outerLoops
	return fn
}

func (b *Builder) buildBlock(block *ast.BlockStmt) {
	for _, stmt := range block.Stmts {
		if b.cur.IsEnded() {
			break
		}
		b.buildStmt(stmt)
	}
}

func (b *Builder) buildStmt(stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.LetStmt:
		value := b.buildExpr(s.Value)
		if s.Name.Slot != nil {
			b.cur.Assign(*s.Name.Slot, value)
		}
	case *ast.AssignStmt:
		value := b.buildExpr(s.Value)
		b.buildAssign(s.Target, value)
	case *ast.ExprStmt:
		b.buildExpr(s.X)
	case *ast.IfStmt:
		b.buildIf(s)
	case *ast.WhileStmt:
		b.buildWhile(s)
	case *ast.BreakStmt:
		if len(b.loopStack) > 0 {
			b.cur.Goto(b.loopStack[len(b.loopStack)-1].breakTarget)
		}
	case *ast.ContinueStmt:
		if len(b.loopStack) > 0 {
			b.cur.Goto(b.loopStack[len(b.loopStack)-1].continueTarget)
		}
	case *ast.ReturnStmt:
		var value *Instruction
		if s.Value != nil {
			value = b.buildExpr(s.Value)
		}
		b.cur.Return(value)
	case *ast.BadStmt:
		// parse-time error already reported; nothing to build
	}
}

func (b *Builder) buildAssign(target ast.Expr, value *Instruction) {
	switch t := target.(type) {
	case *ast.Ident:
		if t.Slot == nil {
			return
		}
		switch t.Slot.Kind {
		case scope.Stack:
			b.cur.Assign(*t.Slot, value)
		case scope.Context:
			instr := b.cur.Add(StoreContext)
			instr.ContextDepth = t.Slot.Depth
			instr.ContextIndex = t.Slot.Index
			instr.AddArg(value)
		}
	case *ast.MemberExpr:
		obj := b.buildExpr(t.Target)
		key := b.buildPropertyKey(t)
		instr := b.cur.Add(StoreProperty)
		instr.AddArg(obj)
		instr.AddArg(key)
		instr.AddArg(value)
	}
}

// buildPropertyKey builds the key operand of a member access: the index
// expression when Computed, or an interned string literal for the `.field`
// shorthand.
func (b *Builder) buildPropertyKey(m *ast.MemberExpr) *Instruction {
	if m.Computed {
		return b.buildExpr(m.Property)
	}
	name := m.Property.(*ast.Ident).Name
	return b.emitStringLiteral(m.Property.NodePos(), m.Property.NodeEndPos(), name)
}

func (b *Builder) buildIf(s *ast.IfStmt) {
	cond := b.buildExpr(s.Cond)

	tBlock := b.fn.NewBlock()
	tBlock.Env = b.cur.Env.Copy()
	fBlock := b.fn.NewBlock()
	fBlock.Env = b.cur.Env.Copy()
	b.cur.Branch(cond, tBlock, fBlock)

	b.cur = tBlock
	b.buildBlock(s.Then)
	tExit := b.cur

	b.cur = fBlock
	if s.Else != nil {
		switch e := s.Else.(type) {
		case *ast.BlockStmt:
			b.buildBlock(e)
		default:
			b.buildStmt(e)
		}
	}
	fExit := b.cur

	if tExit.IsEnded() && fExit.IsEnded() {
		b.cur = tExit // both arms terminated; rest of the enclosing block is unreachable
		return
	}

	join := b.fn.NewBlock()
	var envs []*Environment
	var preds []*Block
	if !tExit.IsEnded() {
		envs = append(envs, tExit.Env)
		preds = append(preds, tExit)
	}
	if !fExit.IsEnded() {
		envs = append(envs, fExit.Env)
		preds = append(preds, fExit)
	}

	join.Env = b.mergeEnvironments(join, envs, preds)
	for _, p := range preds {
		p.Goto(join)
	}
	b.cur = join
}

// mergeEnvironments builds the join block's environment: slots whose
// incoming definition agrees across every contributing predecessor pass
// through unchanged; slots that diverge get a Phi in join, one argument per
// predecessor in preds order (matching envs and, once Goto has run, join's
// own Preds order). A slot left undefined on some predecessor (e.g. an
// if/else arm that never assigns it) reads back as nil from that
// predecessor's Environment. A bare nil Phi argument would let PrunePhis
// silently collapse the Phi to whatever the other arms agreed on, treating
// the undefined path as if it too carried that value, so an explicit Nil
// literal is materialized in that predecessor block and used as the Phi
// argument instead.
func (b *Builder) mergeEnvironments(join *Block, envs []*Environment, preds []*Block) *Environment {
	if len(envs) == 1 {
		return envs[0].Copy()
	}

	width := 0
	for _, e := range envs {
		if e.size() > width {
			width = e.size()
		}
	}

	merged := NewEnvironment(width)
	for idx := 0; idx < width; idx++ {
		first := envs[0].At(idx)
		agree := true
		for _, e := range envs[1:] {
			if e.At(idx) != first {
				agree = false
				break
			}
		}
		if agree {
			merged.Set(idx, first)
			continue
		}
		phi := join.CreatePhi(scope.NewStack(idx))
		for i, e := range envs {
			v := e.At(idx)
			if v == nil {
				v = b.emitNilLiteralIn(preds[i])
			}
			phi.AddArg(v)
		}
		merged.Set(idx, phi)
	}
	return merged
}

func (b *Builder) buildWhile(s *ast.WhileStmt) {
	preHeader := b.cur
	header := b.fn.NewBlock()
	header.Env = preHeader.Env.Copy()
	preHeader.Goto(header)

	b.cur = header
	header.MarkPreLoop()
	cond := b.buildExpr(s.Cond)

	body := b.fn.NewBlock()
	body.Env = header.Env.Copy()
	exit := b.fn.NewBlock()
	exit.Env = header.Env.Copy()
	header.Branch(cond, body, exit)

	b.loopStack = append(b.loopStack, &loopInfo{continueTarget: header, breakTarget: exit})
	b.cur = body
	b.buildBlock(s.Body)
	bodyExit := b.cur
	b.loopStack = b.loopStack[:len(b.loopStack)-1]

	if !bodyExit.IsEnded() {
		bodyExit.Goto(header)
		header.MarkLoop(bodyExit.Env)
	}

	b.cur = exit
}

func (b *Builder) buildExpr(expr ast.Expr) *Instruction {
	switch e := expr.(type) {
	case *ast.Ident:
		return b.readIdent(e)
	case *ast.NumberLit:
		return b.emitNumberLiteral(e)
	case *ast.StringLit:
		return b.emitStringLiteral(e.Pos, e.EndPos, e.Value)
	case *ast.NilLit:
		return b.emitNilLiteral()
	case *ast.BoolLit:
		return b.emitBoolLiteral(e.Value)
	case *ast.BinaryExpr:
		return b.buildBinaryExpr(e)
	case *ast.UnaryExpr:
		return b.buildUnaryExpr(e)
	case *ast.TypeofExpr:
		v := b.buildExpr(e.Value)
		instr := b.cur.Add(Typeof)
		instr.AddArg(v)
		instr.Repr = RString
		return instr
	case *ast.SizeofExpr:
		v := b.buildExpr(e.Value)
		instr := b.cur.Add(Sizeof)
		instr.AddArg(v)
		instr.Repr = RSmi
		return instr
	case *ast.KeysofExpr:
		v := b.buildExpr(e.Value)
		instr := b.cur.Add(Keysof)
		instr.AddArg(v)
		instr.Repr = RArray
		return instr
	case *ast.CloneExpr:
		v := b.buildExpr(e.Value)
		instr := b.cur.Add(Clone)
		instr.AddArg(v)
		return instr
	case *ast.DeleteExpr:
		return b.buildDelete(e)
	case *ast.CallExpr:
		return b.buildCall(e)
	case *ast.MemberExpr:
		obj := b.buildExpr(e.Target)
		key := b.buildPropertyKey(e)
		instr := b.cur.Add(LoadProperty)
		instr.AddArg(obj)
		instr.AddArg(key)
		return instr
	case *ast.ObjectLit:
		return b.buildObjectLit(e)
	case *ast.ArrayLit:
		return b.buildArrayLit(e)
	case *ast.FunctionLit:
		nested := b.buildFunction(e)
		instr := b.cur.Add(FunctionOp)
		instr.Fn = nested
		instr.Repr = RFunction
		return instr
	case *ast.BadExpr:
		return b.emitNilLiteral()
	default:
		return b.emitNilLiteral()
	}
}

// readIdent resolves an identifier read against the current environment
// (Stack), the enclosing function's context slots (Context), or lazily
// creates a placeholder if the environment has never seen the slot.
func (b *Builder) readIdent(id *ast.Ident) *Instruction {
	if id.Slot == nil {
		return b.emitNilLiteral()
	}
	switch id.Slot.Kind {
	case scope.Context:
		instr := b.cur.Add(LoadContext)
		instr.ContextDepth = id.Slot.Depth
		instr.ContextIndex = id.Slot.Index
		return instr
	default: // Stack
		if v := b.cur.Env.At(id.Slot.Index); v != nil {
			return v
		}
		instr := b.cur.Add(Nil)
		b.cur.Assign(*id.Slot, instr)
		return instr
	}
}

func (b *Builder) buildDelete(e *ast.DeleteExpr) *Instruction {
	member, ok := e.Target.(*ast.MemberExpr)
	if !ok {
		return b.buildExpr(e.Target)
	}
	obj := b.buildExpr(member.Target)
	key := b.buildPropertyKey(member)
	instr := b.cur.Add(DeleteProperty)
	instr.AddArg(obj)
	instr.AddArg(key)
	return instr
}

func (b *Builder) buildCall(e *ast.CallExpr) *Instruction {
	callee := b.buildExpr(e.Callee)

	align := b.cur.Add(AlignStack)

	// Push arguments in reverse so positional index 0 lands closest to the
	// call, matching the calling convention's stack layout.
	argInstrs := make([]*Instruction, len(e.Args))
	for i := len(e.Args) - 1; i >= 0; i-- {
		value := b.buildExpr(e.Args[i])
		store := b.cur.Add(StoreArg)
		store.ArgIndex = i
		store.AddArg(value)
		argInstrs[i] = store
	}

	call := b.cur.Add(Call)
	call.AddArg(callee)
	call.AddArg(align)
	for _, store := range argInstrs {
		call.AddArg(store)
	}
	return call
}

func (b *Builder) buildObjectLit(e *ast.ObjectLit) *Instruction {
	alloc := b.cur.Add(AllocateObject)
	alloc.AllocSize = len(e.Fields)
	alloc.Repr = RObject
	for _, field := range e.Fields {
		key := b.emitStringLiteral(field.Pos, field.EndPos, field.Key)
		value := b.buildExpr(field.Value)
		store := b.cur.Add(StoreProperty)
		store.AddArg(alloc)
		store.AddArg(key)
		store.AddArg(value)
	}
	return alloc
}

func (b *Builder) buildArrayLit(e *ast.ArrayLit) *Instruction {
	alloc := b.cur.Add(AllocateArray)
	alloc.AllocSize = len(e.Elements)
	alloc.Repr = RArray
	for i, elem := range e.Elements {
		key := b.emitNumberLiteralFromInt(i)
		value := b.buildExpr(elem)
		store := b.cur.Add(StoreProperty)
		store.AddArg(alloc)
		store.AddArg(key)
		store.AddArg(value)
	}
	return alloc
}

func (b *Builder) buildUnaryExpr(e *ast.UnaryExpr) *Instruction {
	value := b.buildExpr(e.Value)
	switch e.Op {
	case "!":
		instr := b.cur.Add(Not)
		instr.AddArg(value)
		instr.Repr = RBoolean
		return instr
	default: // "-"
		zero := b.emitNumberLiteralFromInt(0)
		instr := b.cur.Add(BinOp)
		instr.BinOpKind = "-"
		instr.AddArg(zero)
		instr.AddArg(value)
		instr.Repr = calcBinOpRepr("-", zero, value)
		return instr
	}
}

func (b *Builder) buildBinaryExpr(e *ast.BinaryExpr) *Instruction {
	left := b.buildExpr(e.Left)
	right := b.buildExpr(e.Right)
	instr := b.cur.Add(BinOp)
	instr.BinOpKind = e.Op
	instr.AddArg(left)
	instr.AddArg(right)
	instr.Repr = calcBinOpRepr(e.Op, left, right)
	return instr
}

// calcBinOpRepr implements the representation rule of the BinOp opcode:
// `+` is String if either operand is String, else narrowed to
// {Smi, HeapNumber, Nil}; other arithmetic is Number; comparisons and
// logical connectives are Boolean.
func calcBinOpRepr(op string, left, right *Instruction) Representation {
	switch op {
	case "+":
		if left.Repr&RString != 0 || right.Repr&RString != 0 {
			return RString
		}
		return (left.Repr | right.Repr) & (RNumber | RNil)
	case "-", "*", "/", "%":
		return RNumber
	case "==", "!=", "<", "<=", ">", ">=", "&&", "||":
		return RBoolean
	default:
		return RUnknown
	}
}

const smiMax = 1 << 30

func (b *Builder) emitNumberLiteral(e *ast.NumberLit) *Instruction {
	slot := b.prog.Consts.Put("num:" + e.Value)
	instr := b.cur.AddWithSlot(Literal, slot)
	instr.Literal = LiteralValue{Kind: LitNumber, Num: e.Value}
	instr.Repr = numberRepr(e.Value)
	return instr
}

func (b *Builder) emitNumberLiteralFromInt(n int) *Instruction {
	text := strconv.Itoa(n)
	slot := b.prog.Consts.Put("num:" + text)
	instr := b.cur.AddWithSlot(Literal, slot)
	instr.Literal = LiteralValue{Kind: LitNumber, Num: text}
	instr.Repr = numberRepr(text)
	return instr
}

func numberRepr(text string) Representation {
	v, err := strconv.ParseInt(text, 0, 64)
	if err == nil && v > -smiMax && v < smiMax {
		return RSmi
	}
	return RHeapNumber
}

func (b *Builder) emitStringLiteral(pos, end ast.Position, value string) *Instruction {
	_ = pos
	_ = end
	slot := b.prog.Consts.Put("str:" + value)
	instr := b.cur.AddWithSlot(Literal, slot)
	instr.Literal = LiteralValue{Kind: LitString, Str: value}
	instr.Repr = RString
	return instr
}

func (b *Builder) emitNilLiteral() *Instruction {
	return b.emitNilLiteralIn(b.cur)
}

// emitNilLiteralIn appends a Nil literal to blk rather than b.cur, for
// materializing a value into a predecessor other than the block currently
// being built (e.g. the undefined arm of an if/else join).
func (b *Builder) emitNilLiteralIn(blk *Block) *Instruction {
	slot := b.prog.Consts.Put("nil")
	instr := blk.AddWithSlot(Literal, slot)
	instr.Literal = LiteralValue{Kind: LitNil}
	instr.Repr = RNil
	return instr
}

func (b *Builder) emitBoolLiteral(v bool) *Instruction {
	key := "bool:false"
	if v {
		key = "bool:true"
	}
	slot := b.prog.Consts.Put(key)
	instr := b.cur.AddWithSlot(Literal, slot)
	instr.Literal = LiteralValue{Kind: LitBool, Bool: v}
	instr.Repr = RBoolean
	return instr
}
