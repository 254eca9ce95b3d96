package ir

// Builder accumulates a Function's blocks/instructions through a
// StartFunction/NewBlock/EmitX helper-method API.
type Builder struct {
	prog     *Program
	fn       *Function
	block    *BasicBlock
	nextVal  ValueID
	labelSeq int
}

// NewBuilder returns a Builder appending to prog.
func NewBuilder(prog *Program) *Builder { return &Builder{prog: prog} }

// StartFunction begins a new Function, appends it to the program, and
// opens its entry block.
func (b *Builder) StartFunction(name string, params []Param, ret *TypeRef, public bool) *Function {
	fn := &Function{Name: name, Params: params, RetType: ret, Public: public}
	b.prog.Functions = append(b.prog.Functions, fn)
	b.fn = fn
	b.nextVal = 0
	for _, p := range params {
		if int(p.Value) >= int(b.nextVal) {
			b.nextVal = p.Value + 1
		}
	}
	b.NewBlock("entry")
	return fn
}

// NewBlock appends and switches to a fresh block with a unique label
// derived from hint.
func (b *Builder) NewBlock(hint string) *BasicBlock {
	label := hint
	for b.labelExists(label) {
		b.labelSeq++
		label = hint + "." + itoa(b.labelSeq)
	}
	bb := &BasicBlock{Label: label}
	b.fn.Blocks = append(b.fn.Blocks, bb)
	b.block = bb
	return bb
}

func (b *Builder) labelExists(label string) bool {
	for _, bb := range b.fn.Blocks {
		if bb.Label == label {
			return true
		}
	}
	return false
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

func (b *Builder) newValue(t *TypeRef) ValueID {
	id := b.nextVal
	b.nextVal++
	return id
}

// CurrentBlock returns the block currently being appended to.
func (b *Builder) CurrentBlock() *BasicBlock { return b.block }

// Emit appends instr (assigning a fresh Result id if instr produces a
// value) to the current block and returns the produced ValueID.
func (b *Builder) Emit(op Op, t *TypeRef, args ...ValueID) ValueID {
	id := b.newValue(t)
	b.block.Instrs = append(b.block.Instrs, Instruction{Result: id, Type: t, Op: op, Args: args})
	return id
}

// EmitConst emits a constant-materializing instruction (in LLVM-text terms
// this is folded directly into operand position by internal/llvmir, but
// keeping it as a pseudo-instruction here lets internal/ir's optimizer
// fold constant arithmetic uniformly).
func (b *Builder) EmitConst(t *TypeRef, c Constant) ValueID {
	id := b.newValue(t)
	b.block.Instrs = append(b.block.Instrs, Instruction{Result: id, Type: t, Op: OpNop, Const: &c})
	return id
}

// EmitICmp emits an integer comparison.
func (b *Builder) EmitICmp(pred IntPredicate, lhs, rhs ValueID) ValueID {
	id := b.newValue(boolType)
	b.block.Instrs = append(b.block.Instrs, Instruction{Result: id, Type: boolType, Op: OpICmp, Args: []ValueID{lhs, rhs}, IntPred: pred})
	return id
}

// EmitFCmp emits a float comparison.
func (b *Builder) EmitFCmp(pred FloatPredicate, lhs, rhs ValueID) ValueID {
	id := b.newValue(boolType)
	b.block.Instrs = append(b.block.Instrs, Instruction{Result: id, Type: boolType, Op: OpFCmp, Args: []ValueID{lhs, rhs}, FloatPred: pred})
	return id
}

// EmitCall emits a non-terminating call instruction (its result is used by
// a later instruction; for a diverging tail call use SetTermCall instead).
func (b *Builder) EmitCall(t *TypeRef, callee string, args ...ValueID) ValueID {
	id := b.newValue(t)
	b.block.Instrs = append(b.block.Instrs, Instruction{Result: id, Type: t, Op: OpCall, Callee: callee, CalleeArgs: args})
	return id
}

// EmitAlloca emits a stack allocation of elemType, producing a TPtr value.
func (b *Builder) EmitAlloca(elemType *TypeRef, align int) ValueID {
	ptrType := &TypeRef{Kind: TPtr, Elem: elemType}
	id := b.newValue(ptrType)
	b.block.Instrs = append(b.block.Instrs, Instruction{Result: id, Type: ptrType, Op: OpAlloca, Align: align})
	return id
}

// SetTermJump closes the current block with an unconditional jump.
func (b *Builder) SetTermJump(label string) {
	b.block.Term = &Terminator{Kind: TermJump, IfTrue: label}
}

// SetTermCondJump closes the current block with a conditional branch.
func (b *Builder) SetTermCondJump(cond ValueID, ifTrue, ifFalse string) {
	b.block.Term = &Terminator{Kind: TermCondJump, Cond: cond, IfTrue: ifTrue, IfFalse: ifFalse}
}

// SetTermReturn closes the current block returning val.
func (b *Builder) SetTermReturn(val ValueID) {
	b.block.Term = &Terminator{Kind: TermReturn, RetVal: val, RetValid: true}
}

// SetTermReturnUnit closes the current block with a bare `return`.
func (b *Builder) SetTermReturnUnit() {
	b.block.Term = &Terminator{Kind: TermReturn}
}

// SetTermCall closes the current block with a non-returning (diverging)
// call terminator.
func (b *Builder) SetTermCall(callee string, args ...ValueID) {
	b.block.Term = &Terminator{Kind: TermCall, Callee: callee, CallArgs: args}
}

var boolType = &TypeRef{Kind: TBool}
