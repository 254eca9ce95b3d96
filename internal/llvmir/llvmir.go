// Package llvmir renders a lowered ir.Program as textual LLVM IR (§4.5).
// No interpreter or direct machine-code emitter is part of this package;
// the per-opcode switch-dispatch lowering emits LLVM IR text lines only.
package llvmir

import (
	"fmt"
	"sort"
	"strings"

	"github.com/seenlang/seenc/internal/ir"
)

// CallingConvention selects the LLVM calling-convention keyword emitted on
// function definitions (§4.5).
type CallingConvention int

const (
	CConvC CallingConvention = iota
	CConvFast
)

func (c CallingConvention) llvmKeyword() string {
	if c == CConvFast {
		return "fastcc "
	}
	return ""
}

// Target enumerates the supported target triples (§4.5).
type Target int

const (
	TargetX86_64Linux Target = iota
	TargetAArch64Linux
	TargetWasm32
	TargetX86_64Windows
)

func (t Target) Triple() string {
	switch t {
	case TargetAArch64Linux:
		return "aarch64-unknown-linux-gnu"
	case TargetWasm32:
		return "wasm32-unknown-unknown"
	case TargetX86_64Windows:
		return "x86_64-pc-windows-msvc"
	default:
		return "x86_64-unknown-linux-gnu"
	}
}

// Config controls printer output (§4.5): target triple, advisory
// optimization level, calling convention, and debug-info emission.
type Config struct {
	Target   Target
	OptLevel int // 0-3, advisory only; the printer does not read it and emits no nsw/nuw hints or opt-level metadata
	CConv    CallingConvention
	DebugInfo bool
	// CompileUnitID is carried for consumers; the printer does not read it.
	CompileUnitID string
	SourceFile    string
}

// DefaultConfig returns the baseline target: x86_64-unknown-linux-gnu,
// opt level 0, C calling convention, no debug info.
func DefaultConfig() Config {
	return Config{Target: TargetX86_64Linux, OptLevel: 0, CConv: CConvC}
}

// UnsupportedConstructError is fatal for the offending function only — emitted
// instead of the LLVM text that function would have produced (§4.5), e.g.
// for a block with no terminator.
type UnsupportedConstructError struct {
	Construct string
	Detail    string
}

func (e *UnsupportedConstructError) Error() string {
	return fmt.Sprintf("unsupported construct %q: %s", e.Construct, e.Detail)
}

// Print renders prog as deterministic LLVM IR text under cfg. Output is
// byte-identical for byte-identical (prog, cfg) pairs (§8 determinism
// property): every map/slice walk below iterates in an explicitly sorted
// or already-ordered sequence, never live Go map order.
func Print(prog *ir.Program, cfg Config) (string, []*UnsupportedConstructError) {
	var sb strings.Builder
	var errs []*UnsupportedConstructError

	writeHeader(&sb, cfg)
	writeTargetTriple(&sb, cfg)
	sb.WriteString("\n")

	writeTypeDefs(&sb, prog.Types)
	if len(prog.Types) > 0 {
		sb.WriteString("\n")
	}

	writeGlobals(&sb, prog.Globals)
	if len(prog.Globals) > 0 {
		sb.WriteString("\n")
	}

	writeExternalDecls(&sb, prog)

	names := make([]string, len(prog.Functions))
	byName := map[string]*ir.Function{}
	for i, fn := range prog.Functions {
		names[i] = fn.Name
		byName[fn.Name] = fn
	}
	sort.Strings(names)
	for i, name := range names {
		fn := byName[name]
		var fsb strings.Builder
		if err := writeFunction(&fsb, fn, cfg, i); err != nil {
			errs = append(errs, err)
			continue
		}
		sb.WriteString(fsb.String())
		sb.WriteString("\n")
	}

	return sb.String(), errs
}

func writeHeader(sb *strings.Builder, cfg Config) {
	sb.WriteString("; ModuleID = 'seen'\n")
	sb.WriteString("; generated by seenc — do not edit\n")
}

func writeTargetTriple(sb *strings.Builder, cfg Config) {
	fmt.Fprintf(sb, "target triple = %q\n", cfg.Target.Triple())
}

func writeTypeDefs(sb *strings.Builder, types []*ir.TypeDef) {
	names := make([]string, len(types))
	byName := map[string]*ir.TypeDef{}
	for i, t := range types {
		names[i] = t.Name
		byName[t.Name] = t
	}
	sort.Strings(names)
	for _, name := range names {
		t := byName[name]
		parts := make([]string, len(t.Fields))
		for i, f := range t.Fields {
			parts[i] = llvmType(f)
		}
		fmt.Fprintf(sb, "%%%s = type { %s }\n", t.Name, strings.Join(parts, ", "))
	}
}

func writeGlobals(sb *strings.Builder, globals []*ir.Global) {
	names := make([]string, len(globals))
	byName := map[string]*ir.Global{}
	for i, g := range globals {
		names[i] = g.Name
		byName[g.Name] = g
	}
	sort.Strings(names)
	for _, name := range names {
		g := byName[name]
		vis := "internal"
		if g.Public {
			vis = "external"
		}
		tl := ""
		if g.ThreadLocal {
			tl = "thread_local "
		}
		qual := "constant"
		if g.Kind == ir.GlobalMutable {
			qual = "global"
		}
		val := constInitializer(g.Type, g.Const)
		fmt.Fprintf(sb, "@%s = %s %s%s %s %s\n", g.Name, vis, tl, qual, llvmType(g.Type), val)
	}
}

func constInitializer(t *ir.TypeRef, c *ir.Constant) string {
	if c == nil {
		return "zeroinitializer"
	}
	if c.IsInt {
		return itoa64(c.Int)
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
	return "zeroinitializer"
}

// writeExternalDecls emits `declare` lines for the small fixed set of
// runtime intrinsics the string-concat/length IR ops lower to (§3.6).
func writeExternalDecls(sb *strings.Builder, prog *ir.Program) {
	needsConcat, needsLen := false, false
	for _, fn := range prog.Functions {
		for _, bb := range fn.Blocks {
			for _, in := range bb.Instrs {
				if in.Op == ir.OpStrConcat {
					needsConcat = true
				}
				if in.Op == ir.OpStrLen {
					needsLen = true
				}
			}
		}
	}
	if needsConcat {
		sb.WriteString("declare i8* @seen_str_concat(i8*, i8*)\n")
	}
	if needsLen {
		sb.WriteString("declare i64 @seen_str_len(i8*)\n")
	}
	if needsConcat || needsLen {
		sb.WriteString("\n")
	}
}

func llvmType(t *ir.TypeRef) string {
	if t == nil {
		return "void"
	}
	switch t.Kind {
	case ir.TInt:
		return fmt.Sprintf("i%d", t.Bits)
	case ir.TFloat:
		if t.Bits == 32 {
			return "float"
		}
		return "double"
	case ir.TBool:
		return "i1"
	case ir.TUnit:
		return "void"
	case ir.TArray:
		return fmt.Sprintf("[%d x %s]", t.Len, llvmType(t.Elem))
	case ir.TStruct:
		return "%" + t.Name
	case ir.TPtr:
		return llvmType(t.Elem) + "*"
	default:
		return "void"
	}
}

func itoa64(n int64) string { return fmt.Sprintf("%d", n) }
