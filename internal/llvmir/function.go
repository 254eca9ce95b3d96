package llvmir

import (
	"fmt"
	"strings"

	"github.com/seenlang/seenc/internal/ir"
)

func writeFunction(sb *strings.Builder, fn *ir.Function, cfg Config, debugIdx int) *UnsupportedConstructError {
	linkage := "define internal"
	if fn.Public {
		linkage = "define"
	}
	params := make([]string, len(fn.Params))
	for i, p := range fn.Params {
		params[i] = fmt.Sprintf("%s %%%s", llvmType(p.Type), paramName(p))
	}
	debugSuffix := ""
	if cfg.DebugInfo {
		debugSuffix = fmt.Sprintf(" !dbg !%d", debugIdx+1)
	}
	fmt.Fprintf(sb, "%s %s%s @%s(%s)%s {\n", linkage, cfg.CConv.llvmKeyword(), llvmType(fn.RetType), fn.Name, strings.Join(params, ", "), debugSuffix)

	// Constant-valued instructions never print their own line: constant
	// folding (internal/ir.FoldConstants) reduces whole expression trees
	// to a single Constant-carrying value, and the printer inlines that
	// literal at every point the value is referenced — producing e.g.
	// exactly `ret i32 250` for a fully-folded arithmetic expression,
	// with no intervening bookkeeping instructions.
	consts := map[ir.ValueID]*ir.Constant{}
	for _, bb := range fn.Blocks {
		for _, in := range bb.Instrs {
			if in.Const != nil {
				consts[in.Result] = in.Const
			}
		}
	}

	for _, bb := range fn.Blocks {
		fmt.Fprintf(sb, "%s:\n", bb.Label)
		for _, in := range bb.Instrs {
			if in.Const != nil {
				continue
			}
			line, err := formatInstruction(in, consts)
			if err != nil {
				return err
			}
			sb.WriteString("  ")
			sb.WriteString(line)
			sb.WriteString("\n")
		}
		if bb.Term == nil {
			return &UnsupportedConstructError{Construct: "block", Detail: "block " + bb.Label + " has no terminator"}
		}
		sb.WriteString("  ")
		sb.WriteString(formatTerminator(bb.Term, fn.RetType, consts))
		sb.WriteString("\n")
	}
	sb.WriteString("}\n")

	if cfg.DebugInfo {
		fmt.Fprintf(sb, "!%d = distinct !DISubprogram(name: %q, unit: !0)\n", debugIdx+1, fn.Name)
	}
	return nil
}

func paramName(p ir.Param) string {
	if p.Name != "" {
		return p.Name
	}
	return fmt.Sprintf("%d", p.Value)
}

func valRef(id ir.ValueID) string { return fmt.Sprintf("%%v%d", id) }

// operandRef renders id as it should appear in operand position: a folded
// constant inlines as its literal text, anything else stays a %vN
// reference. This is what lets a fully-folded expression tree collapse to
// a single `ret i32 250` with no materializing instruction in between.
func operandRef(id ir.ValueID, consts map[ir.ValueID]*ir.Constant) string {
	if c, ok := consts[id]; ok {
		return constLiteral(nil, c)
	}
	return valRef(id)
}

func formatInstruction(in ir.Instruction, consts map[ir.ValueID]*ir.Constant) (string, *UnsupportedConstructError) {
	switch in.Op {
	case ir.OpAdd:
		return binOpLine(in, "add", consts), nil
	case ir.OpSub:
		return binOpLine(in, "sub", consts), nil
	case ir.OpMul:
		return binOpLine(in, "mul", consts), nil
	case ir.OpSDiv:
		return binOpLine(in, "sdiv", consts), nil
	case ir.OpUDiv:
		return binOpLine(in, "udiv", consts), nil
	case ir.OpSRem:
		return binOpLine(in, "srem", consts), nil
	case ir.OpURem:
		return binOpLine(in, "urem", consts), nil
	case ir.OpAnd:
		return binOpLine(in, "and", consts), nil
	case ir.OpOr:
		return binOpLine(in, "or", consts), nil
	case ir.OpXor:
		return binOpLine(in, "xor", consts), nil
	case ir.OpShl:
		return binOpLine(in, "shl", consts), nil
	case ir.OpLShr:
		return binOpLine(in, "lshr", consts), nil
	case ir.OpAShr:
		return binOpLine(in, "ashr", consts), nil
	case ir.OpFAdd:
		return binOpLine(in, "fadd", consts), nil
	case ir.OpFSub:
		return binOpLine(in, "fsub", consts), nil
	case ir.OpFMul:
		return binOpLine(in, "fmul", consts), nil
	case ir.OpFDiv:
		return binOpLine(in, "fdiv", consts), nil
	case ir.OpICmp:
		return fmt.Sprintf("%s = icmp %s %s %s, %s", valRef(in.Result), intPredName(in.IntPred), argType(in), operandRef(in.Args[0], consts), operandRef(in.Args[1], consts)), nil
	case ir.OpFCmp:
		return fmt.Sprintf("%s = fcmp %s %s %s, %s", valRef(in.Result), floatPredName(in.FloatPred), argType(in), operandRef(in.Args[0], consts), operandRef(in.Args[1], consts)), nil
	case ir.OpLoad:
		return fmt.Sprintf("%s = load %s, %s* %s, align %d", valRef(in.Result), llvmType(in.Type), llvmType(in.Type), operandRef(in.Args[0], consts), nz(in.Align)), nil
	case ir.OpStore:
		return fmt.Sprintf("store %s %s, %s* %s, align %d", llvmType(in.Type), operandRef(in.Args[0], consts), llvmType(in.Type), operandRef(in.Args[1], consts), nz(in.Align)), nil
	case ir.OpAlloca:
		return fmt.Sprintf("%s = alloca %s, align %d", valRef(in.Result), llvmType(in.Type), nz(in.Align)), nil
	case ir.OpGetElementPtr:
		return fmt.Sprintf("%s = getelementptr inbounds %s, %s* %s, i32 0, i32 %d", valRef(in.Result), llvmType(in.Type), llvmType(in.Type), operandRef(in.Args[0], consts), in.Field), nil
	case ir.OpExtractValue:
		return fmt.Sprintf("%s = extractvalue %s %s, %d", valRef(in.Result), llvmType(in.Type), operandRef(in.Args[0], consts), in.Field), nil
	case ir.OpPhi:
		return fmt.Sprintf("%s = phi %s ; phi", valRef(in.Result), llvmType(in.Type)), nil
	case ir.OpSExt:
		return castLine(in, "sext", consts), nil
	case ir.OpZExt:
		return castLine(in, "zext", consts), nil
	case ir.OpTrunc:
		return castLine(in, "trunc", consts), nil
	case ir.OpFPExt:
		return castLine(in, "fpext", consts), nil
	case ir.OpFPTrunc:
		return castLine(in, "fptrunc", consts), nil
	case ir.OpSIToFP:
		return castLine(in, "sitofp", consts), nil
	case ir.OpUIToFP:
		return castLine(in, "uitofp", consts), nil
	case ir.OpFPToSI:
		return castLine(in, "fptosi", consts), nil
	case ir.OpFPToUI:
		return castLine(in, "fptoui", consts), nil
	case ir.OpBitcast:
		return castLine(in, "bitcast", consts), nil
	case ir.OpCall:
		return callLine(in, consts), nil
	case ir.OpStrConcat:
		return fmt.Sprintf("%s = call i8* @seen_str_concat(i8* %s, i8* %s)", valRef(in.Result), operandRef(in.Args[0], consts), operandRef(in.Args[1], consts)), nil
	case ir.OpStrLen:
		return fmt.Sprintf("%s = call i64 @seen_str_len(i8* %s)", valRef(in.Result), operandRef(in.Args[0], consts)), nil
	case ir.OpNop:
		return fmt.Sprintf("; nop %s", valRef(in.Result)), nil
	default:
		return "", &UnsupportedConstructError{Construct: "instruction", Detail: fmt.Sprintf("unknown op %d", in.Op)}
	}
}

func nz(n int) int {
	if n == 0 {
		return 4
	}
	return n
}

func argType(in ir.Instruction) string {
	// Comparison operands are always printed as i32; the operands' own
	// types are not consulted.
	return "i32"
}

func binOpLine(in ir.Instruction, mnemonic string, consts map[ir.ValueID]*ir.Constant) string {
	nsw := ""
	return fmt.Sprintf("%s = %s%s %s %s, %s", valRef(in.Result), mnemonic, nsw, llvmType(in.Type), operandRef(in.Args[0], consts), operandRef(in.Args[1], consts))
}

func castLine(in ir.Instruction, mnemonic string, consts map[ir.ValueID]*ir.Constant) string {
	return fmt.Sprintf("%s = %s %s %s to %s", valRef(in.Result), mnemonic, "i32", operandRef(in.Args[0], consts), llvmType(in.Type))
}

func callLine(in ir.Instruction, consts map[ir.ValueID]*ir.Constant) string {
	args := make([]string, len(in.CalleeArgs))
	for i, a := range in.CalleeArgs {
		args[i] = "i32 " + operandRef(a, consts)
	}
	return fmt.Sprintf("%s = call %s @%s(%s)", valRef(in.Result), llvmType(in.Type), in.Callee, strings.Join(args, ", "))
}

func constLiteral(t *ir.TypeRef, c *ir.Constant) string {
	if c.IsInt {
		return fmt.Sprintf("%d", c.Int)
	}
	if c.IsFloat {
		return fmt.Sprintf("%g", c.Float)
	}
	if c.IsBool {
		if c.Bool {
			return "1"
		}
		return "0"
	}
	return "0"
}

func intPredName(p ir.IntPredicate) string {
	switch p {
	case ir.IEQ:
		return "eq"
	case ir.INE:
		return "ne"
	case ir.ISGT:
		return "sgt"
	case ir.ISGE:
		return "sge"
	case ir.ISLT:
		return "slt"
	case ir.ISLE:
		return "sle"
	case ir.IUGT:
		return "ugt"
	case ir.IUGE:
		return "uge"
	case ir.IULT:
		return "ult"
	case ir.IULE:
		return "ule"
	default:
		return "eq"
	}
}

func floatPredName(p ir.FloatPredicate) string {
	switch p {
	case ir.FOEQ:
		return "oeq"
	case ir.FONE:
		return "one"
	case ir.FOGT:
		return "ogt"
	case ir.FOGE:
		return "oge"
	case ir.FOLT:
		return "olt"
	case ir.FOLE:
		return "ole"
	case ir.FUEQ:
		return "ueq"
	case ir.FUNE:
		return "une"
	case ir.FUGT:
		return "ugt"
	case ir.FUGE:
		return "uge"
	case ir.FULT:
		return "ult"
	case ir.FULE:
		return "ule"
	default:
		return "oeq"
	}
}

func formatTerminator(t *ir.Terminator, retType *ir.TypeRef, consts map[ir.ValueID]*ir.Constant) string {
	switch t.Kind {
	case ir.TermJump:
		return fmt.Sprintf("br label %%%s", t.IfTrue)
	case ir.TermCondJump:
		return fmt.Sprintf("br i1 %s, label %%%s, label %%%s", operandRef(t.Cond, consts), t.IfTrue, t.IfFalse)
	case ir.TermReturn:
		if !t.RetValid || retType == nil || retType.Kind == ir.TUnit {
			return "ret void"
		}
		return fmt.Sprintf("ret %s %s", llvmType(retType), operandRef(t.RetVal, consts))
	case ir.TermCall:
		args := make([]string, len(t.CallArgs))
		for i, a := range t.CallArgs {
			args[i] = "i32 " + operandRef(a, consts)
		}
		return fmt.Sprintf("tail call void @%s(%s) noreturn\n  unreachable", t.Callee, strings.Join(args, ", "))
	default:
		return "unreachable"
	}
}
