package llvmir_test

import (
	"strings"
	"testing"

	"github.com/seenlang/seenc/internal/ir"
	"github.com/seenlang/seenc/internal/llvmir"
)

func i32() *ir.TypeRef { return &ir.TypeRef{Kind: ir.TInt, Bits: 32} }

func TestTargetTriple(t *testing.T) {
	cases := []struct {
		target llvmir.Target
		want   string
	}{
		{llvmir.TargetX86_64Linux, "x86_64-unknown-linux-gnu"},
		{llvmir.TargetAArch64Linux, "aarch64-unknown-linux-gnu"},
		{llvmir.TargetWasm32, "wasm32-unknown-unknown"},
		{llvmir.TargetX86_64Windows, "x86_64-pc-windows-msvc"},
	}
	for _, c := range cases {
		if got := c.target.Triple(); got != c.want {
			t.Errorf("Triple() = %q, want %q", got, c.want)
		}
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := llvmir.DefaultConfig()
	if cfg.Target != llvmir.TargetX86_64Linux || cfg.OptLevel != 0 || cfg.CConv != llvmir.CConvC {
		t.Errorf("unexpected default config: %+v", cfg)
	}
}

// buildFoldedProgram builds a program whose single function returns the
// already-folded constant 250 (10*20+500/10), matching what
// internal/ir.FoldConstants produces for that expression.
func buildFoldedProgram(name string, public bool) *ir.Program {
	prog := ir.NewProgram()
	b := ir.NewBuilder(prog)
	b.StartFunction(name, nil, i32(), public)
	v := b.EmitConst(i32(), ir.Constant{IsInt: true, Int: 250})
	b.SetTermReturn(v)
	return prog
}

func TestPrintFoldedConstantScenario(t *testing.T) {
	prog := buildFoldedProgram("main", true)
	out, errs := llvmir.Print(prog, llvmir.DefaultConfig())
	if len(errs) != 0 {
		t.Fatalf("unexpected print errors: %v", errs)
	}
	if !strings.Contains(out, "ret i32 250") {
		t.Errorf("expected the folded constant to print as a literal return, got:\n%s", out)
	}
	if strings.Contains(out, "%v0") {
		t.Errorf("expected no intervening %%vN bookkeeping for a fully-folded value, got:\n%s", out)
	}
}

func TestPrintIsDeterministicAcrossRepeatedCalls(t *testing.T) {
	prog := buildFoldedProgram("main", true)
	first, _ := llvmir.Print(prog, llvmir.DefaultConfig())
	second, _ := llvmir.Print(prog, llvmir.DefaultConfig())
	if first != second {
		t.Errorf("expected byte-identical output for repeated prints of the same program")
	}
}

func TestPrintOrdersFunctionsByNameRegardlessOfInsertionOrder(t *testing.T) {
	prog := ir.NewProgram()
	b := ir.NewBuilder(prog)
	b.StartFunction("zeta", nil, i32(), true)
	b.EmitConst(i32(), ir.Constant{IsInt: true, Int: 1})
	b.SetTermReturn(ir.ValueID(0))
	b.StartFunction("alpha", nil, i32(), true)
	b.EmitConst(i32(), ir.Constant{IsInt: true, Int: 2})
	b.SetTermReturn(ir.ValueID(0))

	out, errs := llvmir.Print(prog, llvmir.DefaultConfig())
	if len(errs) != 0 {
		t.Fatalf("unexpected print errors: %v", errs)
	}
	alphaIdx := strings.Index(out, "@alpha")
	zetaIdx := strings.Index(out, "@zeta")
	if alphaIdx == -1 || zetaIdx == -1 || alphaIdx > zetaIdx {
		t.Errorf("expected alpha to print before zeta regardless of build order, got:\n%s", out)
	}
}

func TestPrintCrossTargetOnlyTripleLineDiffers(t *testing.T) {
	prog := buildFoldedProgram("main", true)

	cfgLinux := llvmir.DefaultConfig()
	cfgLinux.Target = llvmir.TargetX86_64Linux
	cfgArm := llvmir.DefaultConfig()
	cfgArm.Target = llvmir.TargetAArch64Linux
	cfgWasm := llvmir.DefaultConfig()
	cfgWasm.Target = llvmir.TargetWasm32

	outLinux, _ := llvmir.Print(prog, cfgLinux)
	outArm, _ := llvmir.Print(prog, cfgArm)
	outWasm, _ := llvmir.Print(prog, cfgWasm)

	stripTriple := func(s string) string {
		lines := strings.Split(s, "\n")
		out := make([]string, 0, len(lines))
		for _, l := range lines {
			if strings.HasPrefix(l, "target triple") {
				continue
			}
			out = append(out, l)
		}
		return strings.Join(out, "\n")
	}

	if stripTriple(outLinux) != stripTriple(outArm) || stripTriple(outLinux) != stripTriple(outWasm) {
		t.Errorf("expected only the target triple line to vary across targets")
	}
	if outLinux == outArm || outLinux == outWasm {
		t.Errorf("expected different targets to actually change the printed triple")
	}
}

func TestPrintMissingTerminatorReturnsUnsupportedConstructError(t *testing.T) {
	prog := ir.NewProgram()
	b := ir.NewBuilder(prog)
	b.StartFunction("broken", nil, i32(), true)
	// no terminator set

	_, errs := llvmir.Print(prog, llvmir.DefaultConfig())
	if len(errs) != 1 {
		t.Fatalf("expected exactly one unsupported-construct error, got %v", errs)
	}
	if errs[0].Error() == "" {
		t.Error("expected a non-empty error message")
	}
}

func TestPrintInternalLinkageForNonPublicFunction(t *testing.T) {
	prog := buildFoldedProgram("helper", false)
	out, errs := llvmir.Print(prog, llvmir.DefaultConfig())
	if len(errs) != 0 {
		t.Fatalf("unexpected print errors: %v", errs)
	}
	if !strings.Contains(out, "define internal") {
		t.Errorf("expected a non-public function to use internal linkage, got:\n%s", out)
	}
}

func TestPrintEmitsStructTypeDef(t *testing.T) {
	prog := ir.NewProgram()
	prog.Types = append(prog.Types, &ir.TypeDef{Name: "Point", Fields: []*ir.TypeRef{i32(), i32()}})
	b := ir.NewBuilder(prog)
	b.StartFunction("f", nil, i32(), true)
	v := b.EmitConst(i32(), ir.Constant{IsInt: true, Int: 0})
	b.SetTermReturn(v)

	out, errs := llvmir.Print(prog, llvmir.DefaultConfig())
	if len(errs) != 0 {
		t.Fatalf("unexpected print errors: %v", errs)
	}
	if !strings.Contains(out, "%Point = type { i32, i32 }") {
		t.Errorf("expected a printed struct type definition, got:\n%s", out)
	}
}
