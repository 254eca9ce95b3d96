package ir

// FoldConstants performs straight-line constant folding over every
// function in prog: it fully resolves arithmetic on two constant operands
// and rewrites the instruction in place (`10*20+500/10` folds to
// `ret i32 250`).
func FoldConstants(prog *Program) {
	for _, fn := range prog.Functions {
		foldFunction(fn)
	}
}

func foldFunction(fn *Function) {
	for _, bb := range fn.Blocks {
		consts := map[ValueID]*Constant{}
		folded := make([]Instruction, 0, len(bb.Instrs))
		for _, in := range bb.Instrs {
			if in.Const != nil {
				consts[in.Result] = in.Const
				folded = append(folded, in)
				continue
			}
			if c, ok := tryFold(in, consts); ok {
				consts[in.Result] = c
				folded = append(folded, Instruction{Result: in.Result, Type: in.Type, Op: OpNop, Const: c})
				continue
			}
			folded = append(folded, in)
		}
		bb.Instrs = folded
	}
}

func tryFold(in Instruction, consts map[ValueID]*Constant) (*Constant, bool) {
	if len(in.Args) != 2 {
		return nil, false
	}
	lhs, lok := consts[in.Args[0]]
	rhs, rok := consts[in.Args[1]]
	if !lok || !rok {
		return nil, false
	}
	switch in.Op {
	case OpAdd:
		if lhs.IsInt && rhs.IsInt {
			return &Constant{IsInt: true, Int: lhs.Int + rhs.Int}, true
		}
	case OpSub:
		if lhs.IsInt && rhs.IsInt {
			return &Constant{IsInt: true, Int: lhs.Int - rhs.Int}, true
		}
	case OpMul:
		if lhs.IsInt && rhs.IsInt {
			return &Constant{IsInt: true, Int: lhs.Int * rhs.Int}, true
		}
	case OpSDiv, OpUDiv:
		if lhs.IsInt && rhs.IsInt && rhs.Int != 0 {
			return &Constant{IsInt: true, Int: lhs.Int / rhs.Int}, true
		}
	case OpSRem, OpURem:
		if lhs.IsInt && rhs.IsInt && rhs.Int != 0 {
			return &Constant{IsInt: true, Int: lhs.Int % rhs.Int}, true
		}
	case OpFAdd:
		if lhs.IsFloat && rhs.IsFloat {
			return &Constant{IsFloat: true, Float: lhs.Float + rhs.Float}, true
		}
	case OpFSub:
		if lhs.IsFloat && rhs.IsFloat {
			return &Constant{IsFloat: true, Float: lhs.Float - rhs.Float}, true
		}
	case OpFMul:
		if lhs.IsFloat && rhs.IsFloat {
			return &Constant{IsFloat: true, Float: lhs.Float * rhs.Float}, true
		}
	case OpFDiv:
		if lhs.IsFloat && rhs.IsFloat && rhs.Float != 0 {
			return &Constant{IsFloat: true, Float: lhs.Float / rhs.Float}, true
		}
	case OpICmp:
		if lhs.IsInt && rhs.IsInt {
			return &Constant{IsBool: true, Bool: evalIntPred(in.IntPred, lhs.Int, rhs.Int)}, true
		}
	}
	return nil, false
}

func evalIntPred(pred IntPredicate, a, b int64) bool {
	switch pred {
	case IEQ:
		return a == b
	case INE:
		return a != b
	case ISGT, IUGT:
		return a > b
	case ISGE, IUGE:
		return a >= b
	case ISLT, IULT:
		return a < b
	case ISLE, IULE:
		return a <= b
	default:
		return false
	}
}
