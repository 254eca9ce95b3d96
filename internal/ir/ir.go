// Package ir is the SSA-form intermediate representation between the
// type/ownership-checked AST and the LLVM IR text printer (§3.6):
// a Program/Function/BasicBlock/Value/TypeRef/Constant/Op/Instruction/
// Terminator model with a StartFunction/NewBlock/EmitX builder idiom and
// a constant-folding optimize pass, with the full int/float predicate
// sets and a Call-as-terminator variant for non-returning calls.
package ir

import "fmt"

// ValueID names an SSA value within one function.
type ValueID int

// TypeRef is the IR's own flattened type representation (deliberately
// narrower than internal/types.Type: by the time lowering runs, every
// type is concrete — no type variables, no Hole).
type TypeRef struct {
	Kind  TypeKind
	Elem  *TypeRef // Array/Ref element
	Len   int64    // Array length
	Name  string   // Struct/Enum name
	Bits  int      // Int/Float width
	Unsig bool     // unsigned integer
}

type TypeKind int

const (
	TInt TypeKind = iota
	TFloat
	TBool
	TUnit
	TArray
	TStruct
	TPtr // lowered form of Ref
)

func (t *TypeRef) String() string {
	switch t.Kind {
	case TInt:
		if t.Unsig {
			return fmt.Sprintf("u%d", t.Bits)
		}
		return fmt.Sprintf("i%d", t.Bits)
	case TFloat:
		return fmt.Sprintf("f%d", t.Bits)
	case TBool:
		return "bool"
	case TUnit:
		return "unit"
	case TArray:
		return fmt.Sprintf("[%s; %d]", t.Elem, t.Len)
	case TStruct:
		return t.Name
	case TPtr:
		return "*" + t.Elem.String()
	default:
		return "?"
	}
}

// Constant is a compile-time-known value attached to a Value.
type Constant struct {
	IsInt   bool
	IsFloat bool
	IsBool  bool
	Int     int64
	Float   float64
	Bool    bool
}

// Value is one SSA definition: either the result of an Instruction or a
// block parameter (phi input).
type Value struct {
	ID    ValueID
	Type  *TypeRef
	Const *Constant // non-nil for constant-folded / literal values
}

// Op enumerates every IR instruction opcode (§3.6), a strict subset of the
// teacher's Op enum with blockchain ops removed and predicate variants
// expanded.
type Op int

const (
	OpAdd Op = iota
	OpSub
	OpMul
	OpSDiv
	OpUDiv
	OpSRem
	OpURem
	OpAnd
	OpOr
	OpXor
	OpShl
	OpLShr
	OpAShr
	OpICmp
	OpFAdd
	OpFSub
	OpFMul
	OpFDiv
	OpFCmp
	OpLoad
	OpStore
	OpAlloca
	OpGetElementPtr
	OpExtractValue
	OpPhi
	OpSExt
	OpZExt
	OpTrunc
	OpFPExt
	OpFPTrunc
	OpSIToFP
	OpUIToFP
	OpFPToSI
	OpFPToUI
	OpBitcast
	OpCall
	OpStrConcat
	OpStrLen
	OpNop
)

// IntPredicate enumerates the signed/unsigned integer comparison kinds.
type IntPredicate int

const (
	IEQ IntPredicate = iota
	INE
	ISGT
	ISGE
	ISLT
	ISLE
	IUGT
	IUGE
	IULT
	IULE
)

// FloatPredicate enumerates ordered/unordered float comparison kinds.
type FloatPredicate int

const (
	FOEQ FloatPredicate = iota
	FONE
	FOGT
	FOGE
	FOLT
	FOLE
	FUEQ
	FUNE
	FUGT
	FUGE
	FULT
	FULE
)

// Instruction is one non-terminating IR operation, producing at most one
// SSA value (Result).
type Instruction struct {
	Result    ValueID
	Type      *TypeRef
	Op        Op
	Args      []ValueID
	IntPred   IntPredicate
	FloatPred FloatPredicate
	Const     *Constant
	Align     int    // Load/Store/Alloca alignment in bytes
	Field     int    // GetElementPtr/ExtractValue field index
	Callee    string // Call
	CalleeArgs []ValueID
}

// TermKind discriminates a BasicBlock's single terminator (§3.6: every
// block ends in exactly one of these).
type TermKind int

const (
	TermJump TermKind = iota
	TermCondJump
	TermReturn
	TermCall // non-returning call (diverging function, e.g. panics)
)

// Terminator is the mandatory final control-transfer of a BasicBlock.
type Terminator struct {
	Kind     TermKind
	Cond     ValueID  // CondJump
	IfTrue   string   // CondJump / Jump target label
	IfFalse  string   // CondJump
	RetVal   ValueID  // Return; meaningful only when RetValid is set
	RetValid bool
	Callee   string // TermCall
	CallArgs []ValueID
}

// BasicBlock is a label, a straight-line instruction list, and exactly one
// terminator.
type BasicBlock struct {
	Label  string
	Instrs []Instruction
	Term   *Terminator
}

// Param is one function parameter's SSA value id and type.
type Param struct {
	Value ValueID
	Type  *TypeRef
	Name  string
}

// Function is one lowered function: parameters, return type, and an
// ordered list of basic blocks (the first is the entry block).
type Function struct {
	Name    string
	Params  []Param
	RetType *TypeRef
	Blocks  []*BasicBlock
	Public  bool
}

// TypeDef is a named aggregate type definition (struct/data class lowering).
type TypeDef struct {
	Name   string
	Fields []*TypeRef
}

// GlobalKind distinguishes a read-only constant from a mutable global.
type GlobalKind int

const (
	GlobalConst GlobalKind = iota
	GlobalMutable
)

// Global is a module-level constant or mutable variable.
type Global struct {
	Name   string
	Type   *TypeRef
	Kind   GlobalKind
	Const  *Constant
	Public bool
	ThreadLocal bool
}

// Program is the top-level lowered unit: every function/type/global that
// will be printed by internal/llvmir, in deterministic declaration order.
type Program struct {
	Types     []*TypeDef
	Globals   []*Global
	Functions []*Function
}

// NewProgram returns an empty Program ready for a Builder to populate.
func NewProgram() *Program { return &Program{} }
