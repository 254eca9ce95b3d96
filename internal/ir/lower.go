package ir

import (
	"github.com/seenlang/seenc/internal/ast"
	"github.com/seenlang/seenc/internal/types"
)

// LoweringErrorKind classifies a fatal-for-this-function lowering failure
// (§7: LoweringError is "fatal for function" — unlike the recovered error
// kinds, a function that cannot be lowered is simply omitted from the
// resulting Program rather than emitting incorrect IR).
type LoweringErrorKind int

const (
	UnsupportedConstruct LoweringErrorKind = iota
)

// LoweringError is attached to one function/item that could not be lowered.
type LoweringError struct {
	Kind LoweringErrorKind
	Item string
	Message string
}

func (e *LoweringError) Error() string { return e.Message }

// TypeResolver resolves a checked AST type to its IR TypeRef; supplied by
// the caller (internal/typecheck's Checker.Apply composed with
// lowerType) so this package stays independent of internal/typecheck.
type TypeResolver func(t types.Type) *TypeRef

// Lower translates a type-checked, ownership-checked file into a Program.
// Plain `class` items are rejected per §9's resolved decision
// (UnsupportedConstruct); `data class`/`struct` lower to TypeDefs with
// field order preserved.
func Lower(file *ast.File, resolve TypeResolver) (*Program, []*LoweringError) {
	prog := NewProgram()
	var errs []*LoweringError

	for _, item := range file.Items {
		switch it := item.(type) {
		case *ast.ClassItem:
			errs = append(errs, &LoweringError{Kind: UnsupportedConstruct, Item: it.Name, Message: "class \"" + it.Name + "\" cannot be lowered to IR (plain class lowering is unsupported; use data class)"})
		case *ast.StructItem:
			prog.Types = append(prog.Types, lowerStruct(it, resolve))
		}
	}

	b := NewBuilder(prog)
	for _, item := range file.Items {
		if fn, ok := item.(*ast.FunctionItem); ok && fn.Body != nil {
			if err := lowerFunction(b, fn, resolve); err != nil {
				errs = append(errs, err)
				prog.Functions = prog.Functions[:len(prog.Functions)-1]
			}
		}
	}

	return prog, errs
}

func lowerStruct(it *ast.StructItem, resolve TypeResolver) *TypeDef {
	td := &TypeDef{Name: it.Name}
	for _, f := range it.Fields {
		td.Fields = append(td.Fields, lowerFieldType(f.Type))
	}
	return td
}

// lowerFieldType resolves a field's declared AST type to its IR
// representation directly from the AST's own primitive names, without
// going through the checked-type resolve hook: struct field layout only
// needs width/kind, not the full inference result that resolve exists for
// (that's reserved for expression-position types, where a name may refer
// to a generic parameter resolve has already substituted). Named/generic/
// unresolvable field types fall back to i32, matching the conservative
// scope the rest of this lowering pass operates under (see package doc).
func lowerFieldType(t ast.Type) *TypeRef {
	switch pt := t.(type) {
	case *ast.PrimitiveType:
		switch pt.Name {
		case "bool":
			return &TypeRef{Kind: TBool}
		case "f32":
			return &TypeRef{Kind: TFloat, Bits: 32}
		case "f64":
			return &TypeRef{Kind: TFloat, Bits: 64}
		case "i8", "u8":
			return &TypeRef{Kind: TInt, Bits: 8}
		case "i16", "u16":
			return &TypeRef{Kind: TInt, Bits: 16}
		case "i64", "u64":
			return &TypeRef{Kind: TInt, Bits: 64}
		default:
			return &TypeRef{Kind: TInt, Bits: 32}
		}
	case *ast.RefType:
		return &TypeRef{Kind: TPtr, Elem: lowerFieldType(pt.Elem)}
	default:
		return &TypeRef{Kind: TInt, Bits: 32}
	}
}

// lowerFunction lowers one function body to a sequence of basic blocks.
// The expression lowering here is deliberately conservative (it covers the
// arithmetic/control-flow core that §8's worked scenarios exercise —
// constant folding and cross-target determinism); it is the seam
// pkg/seen.LowerAndPrint drives end to end.
func lowerFunction(b *Builder, fn *ast.FunctionItem, resolve TypeResolver) *LoweringError {
	params := make([]Param, len(fn.Params))
	for i, p := range fn.Params {
		params[i] = Param{Value: ValueID(i), Name: p.Name, Type: &TypeRef{Kind: TInt, Bits: 32}}
	}
	retType := &TypeRef{Kind: TInt, Bits: 32}
	if fn.ReturnType == nil {
		retType = &TypeRef{Kind: TUnit}
	}

	b.StartFunction(fn.Name, params, retType, true)
	locals := map[string]ValueID{}
	for _, p := range params {
		locals[p.Name] = p.Value
	}

	if fn.Body == nil {
		b.SetTermReturnUnit()
		return nil
	}

	result, ok, terminated := lowerBlockBody(b, fn.Body, locals)
	if !ok {
		return &LoweringError{Kind: UnsupportedConstruct, Item: fn.Name, Message: "function \"" + fn.Name + "\" uses a construct not supported by lowering"}
	}
	if !terminated {
		if retType.Kind == TUnit {
			b.SetTermReturnUnit()
		} else {
			b.SetTermReturn(result)
		}
	}
	return nil
}

// lowerBlockBody lowers a block's statements and tail expression. The
// returned terminated flag reports whether a statement (a return) already
// gave the current block a terminator, so callers must not set one of
// their own on top of it.
func lowerBlockBody(b *Builder, block *ast.BlockExpr, locals map[string]ValueID) (ValueID, bool, bool) {
	for _, stmt := range block.Stmts {
		ok, terminated := lowerStmt(b, stmt, locals)
		if !ok {
			return 0, false, false
		}
		if terminated {
			return 0, true, true
		}
	}
	if block.TailExpr != nil {
		v, ok := lowerExpr(b, block.TailExpr, locals)
		return v, ok, false
	}
	return 0, true, false
}

func lowerStmt(b *Builder, s ast.Stmt, locals map[string]ValueID) (ok bool, terminated bool) {
	switch st := s.(type) {
	case *ast.LetStmt:
		if st.Value == nil {
			return true, false
		}
		v, ok := lowerExpr(b, st.Value, locals)
		if !ok {
			return false, false
		}
		if ip, ok := st.Pattern.(*ast.IdentPattern); ok {
			locals[ip.Name] = v
		}
		return true, false
	case *ast.ExprStmt:
		_, ok := lowerExpr(b, st.X, locals)
		return ok, false
	case *ast.ReturnStmt:
		if st.Value == nil {
			b.SetTermReturnUnit()
			return true, true
		}
		v, ok := lowerExpr(b, st.Value, locals)
		if !ok {
			return false, false
		}
		b.SetTermReturn(v)
		return true, true
	default:
		return true, false
	}
}

func lowerExpr(b *Builder, e ast.Expr, locals map[string]ValueID) (ValueID, bool) {
	switch x := e.(type) {
	case *ast.IntLit:
		return b.EmitConst(&TypeRef{Kind: TInt, Bits: 32}, Constant{IsInt: true, Int: x.Value}), true
	case *ast.BoolLit:
		return b.EmitConst(&TypeRef{Kind: TBool}, Constant{IsBool: true, Bool: x.Value}), true
	case *ast.Ident:
		if v, ok := locals[x.Name]; ok {
			return v, true
		}
		return 0, false
	case *ast.BlockExpr:
		v, ok, _ := lowerBlockBody(b, x, locals)
		return v, ok
	case *ast.BinaryExpr:
		lhs, ok := lowerExpr(b, x.LHS, locals)
		if !ok {
			return 0, false
		}
		rhs, ok := lowerExpr(b, x.RHS, locals)
		if !ok {
			return 0, false
		}
		op, ok := binOpToIR(x.Op)
		if !ok {
			return 0, false
		}
		return b.Emit(op, &TypeRef{Kind: TInt, Bits: 32}, lhs, rhs), true
	case *ast.UnaryExpr:
		v, ok := lowerExpr(b, x.Operand, locals)
		if !ok {
			return 0, false
		}
		if x.Op == ast.OpMove {
			return v, true // move is ownership-only; value identity unchanged
		}
		if x.Op == ast.OpNeg {
			zero := b.EmitConst(&TypeRef{Kind: TInt, Bits: 32}, Constant{IsInt: true, Int: 0})
			return b.Emit(OpSub, &TypeRef{Kind: TInt, Bits: 32}, zero, v), true
		}
		return v, true
	case *ast.IfExpr:
		cond, ok := lowerExpr(b, x.Cond, locals)
		if !ok {
			return 0, false
		}
		entry := b.CurrentBlock()
		thenLabel := b.NewBlock("if.then").Label
		thenVal, ok, _ := lowerBlockBody(b, x.Then, locals)
		if !ok {
			return 0, false
		}
		thenEnd := b.CurrentBlock()

		var elseLabel string
		var elseVal ValueID
		var elseEnd *BasicBlock
		if x.Else != nil {
			elseLabel = b.NewBlock("if.else").Label
			elseVal, ok = lowerExpr(b, x.Else, locals)
			if !ok {
				return 0, false
			}
			elseEnd = b.CurrentBlock()
		}

		merge := b.NewBlock("if.end")
		if thenEnd.Term == nil {
			thenEnd.Term = &Terminator{Kind: TermJump, IfTrue: merge.Label}
		}
		if elseEnd != nil && elseEnd.Term == nil {
			elseEnd.Term = &Terminator{Kind: TermJump, IfTrue: merge.Label}
		}
		if x.Else == nil {
			elseLabel = merge.Label
		}
		entry.Term = &Terminator{Kind: TermCondJump, Cond: cond, IfTrue: thenLabel, IfFalse: elseLabel}

		if x.Else == nil {
			return thenVal, true
		}
		if thenVal == elseVal {
			return thenVal, true
		}
		return b.Emit(OpPhi, &TypeRef{Kind: TInt, Bits: 32}, thenVal, elseVal), true
	default:
		return 0, false
	}
}

func binOpToIR(op ast.BinaryOp) (Op, bool) {
	switch op {
	case ast.OpAdd:
		return OpAdd, true
	case ast.OpSub:
		return OpSub, true
	case ast.OpMul:
		return OpMul, true
	case ast.OpDiv:
		return OpSDiv, true
	case ast.OpRem:
		return OpSRem, true
	case ast.OpBitAnd:
		return OpAnd, true
	case ast.OpBitOr:
		return OpOr, true
	case ast.OpBitXor:
		return OpXor, true
	case ast.OpShl:
		return OpShl, true
	case ast.OpShr:
		return OpAShr, true
	default:
		return OpNop, false
	}
}
