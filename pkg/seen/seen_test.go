package seen_test

import (
	"context"
	"strings"
	"testing"

	"github.com/seenlang/seenc/internal/diag"
	"github.com/seenlang/seenc/internal/langpack"
	"github.com/seenlang/seenc/internal/llvmir"
	"github.com/seenlang/seenc/internal/span"
	"github.com/seenlang/seenc/internal/testsupport"
	"github.com/seenlang/seenc/pkg/seen"
)

func fixturePack(t *testing.T) *langpack.Pack {
	t.Helper()
	return testsupport.EnglishPack()
}

func TestLexProducesTokensWithNoDiagnostics(t *testing.T) {
	pack := fixturePack(t)
	fs := span.NewFileSet()
	fileID := fs.AddFile("t.seen", "fun f() -> i32 { return 1 }")

	toks, bag := seen.Lex(fileID, "fun f() -> i32 { return 1 }", pack)
	if bag.HasFatal() {
		t.Fatalf("expected no fatal lex diagnostics, got %v", bag.All())
	}
	if len(toks) == 0 {
		t.Error("expected a non-empty token stream")
	}
}

func TestLexReportsUnterminatedString(t *testing.T) {
	pack := fixturePack(t)
	fs := span.NewFileSet()
	src := `fun f() { let s = "unterminated }`
	fileID := fs.AddFile("t.seen", src)

	_, bag := seen.Lex(fileID, src, pack)
	if !bag.HasFatal() {
		t.Error("expected an unterminated string literal to produce a fatal lex diagnostic")
	}
}

func TestParseRecoversFromErrorsAndReportsThem(t *testing.T) {
	pack := fixturePack(t)
	fs := span.NewFileSet()
	src := `fun ( { } fun ok() { }`
	fileID := fs.AddFile("t.seen", src)

	toks, lexBag := seen.Lex(fileID, src, pack)
	if lexBag.HasFatal() {
		t.Fatalf("unexpected lex error: %v", lexBag.All())
	}
	_, parseBag := seen.Parse(fileID, toks)
	if parseBag.Len() == 0 {
		t.Error("expected at least one recovered parse diagnostic for a malformed parameter list")
	}
}

func mustPipelineFile(t *testing.T, src string) (*seen.UnitResult, *langpack.Pack) {
	t.Helper()
	pack := fixturePack(t)
	fs := span.NewFileSet()
	fileID := fs.AddFile("t.seen", src)
	toks, lexBag := seen.Lex(fileID, src, pack)
	if lexBag.HasFatal() {
		t.Fatalf("unexpected lex error: %v", lexBag.All())
	}
	file, parseBag := seen.Parse(fileID, toks)
	if parseBag.Len() != 0 {
		t.Fatalf("unexpected parse errors: %v", parseBag.All())
	}
	return &seen.UnitResult{File: seen.SourceFile{ID: fileID, Src: src}, AST: file}, pack
}

func TestTypecheckReturnsNoErrorsForWellTypedFile(t *testing.T) {
	unit, _ := mustPipelineFile(t, `fun add(x: i32, y: i32) -> i32 { return x + y }`)
	_, bag := seen.Typecheck(unit.AST)
	if bag.Len() != 0 {
		t.Errorf("expected no typecheck diagnostics, got %v", bag.All())
	}
}

func TestTypecheckReportsRecoveredMismatch(t *testing.T) {
	unit, _ := mustPipelineFile(t, `fun f() -> i32 { return true }`)
	_, bag := seen.Typecheck(unit.AST)
	if bag.Len() == 0 {
		t.Fatal("expected a recovered type mismatch diagnostic")
	}
	d := bag.All()[0]
	if d.Stage != diag.StageTypecheck || d.Severity != diag.SevRecovered {
		t.Errorf("expected a recovered typecheck-stage diagnostic, got %+v", d)
	}
}

func TestAnalyzeOwnershipReportsUseAfterMove(t *testing.T) {
	unit, _ := mustPipelineFile(t, `fun f(x: Foo) { let y = move x; let z = x }`)
	_, bag := seen.AnalyzeOwnership(unit.AST)
	if bag.Len() == 0 {
		t.Error("expected a reported ownership diagnostic for a use after move")
	}
	found := false
	for _, d := range bag.All() {
		if d.Code == "UseAfterMove" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a UseAfterMove diagnostic code, got %v", bag.All())
	}
}

func TestAnalyzeOwnershipHasNoErrorsForCleanFile(t *testing.T) {
	unit, _ := mustPipelineFile(t, `fun f(x: Foo) -> Foo { return x }`)
	_, bag := seen.AnalyzeOwnership(unit.AST)
	if bag.Len() != 0 {
		t.Errorf("expected no ownership diagnostics, got %v", bag.All())
	}
}

func TestLowerAndPrintFoldsConstantsEndToEnd(t *testing.T) {
	unit, _ := mustPipelineFile(t, `fun f() -> i32 { return 10 * 20 + 500 / 10 }`)
	checker, tcBag := seen.Typecheck(unit.AST)
	if tcBag.Len() != 0 {
		t.Fatalf("unexpected typecheck diagnostics: %v", tcBag.All())
	}
	resolve := seen.TypeResolver(checker)

	text, bag := seen.LowerAndPrint(unit.AST, resolve, llvmir.DefaultConfig(), seen.DefaultLowerOptions())
	if bag.HasFatal() {
		t.Fatalf("unexpected fatal lowering diagnostics: %v", bag.All())
	}
	if !strings.Contains(text, "ret i32 250") {
		t.Errorf("expected the folded constant expression to print as `ret i32 250`, got:\n%s", text)
	}
}

func TestLowerAndPrintWithoutOptimizeStillProducesValidIR(t *testing.T) {
	unit, _ := mustPipelineFile(t, `fun f(x: i32) -> i32 { return x + 1 }`)
	checker, tcBag := seen.Typecheck(unit.AST)
	if tcBag.Len() != 0 {
		t.Fatalf("unexpected typecheck diagnostics: %v", tcBag.All())
	}
	resolve := seen.TypeResolver(checker)

	opts := seen.LowerOptions{Optimize: false, Verify: true}
	text, bag := seen.LowerAndPrint(unit.AST, resolve, llvmir.DefaultConfig(), opts)
	if bag.HasFatal() {
		t.Fatalf("unexpected fatal diagnostics: %v", bag.All())
	}
	if !strings.Contains(text, "@f(") {
		t.Errorf("expected printed IR to define function f, got:\n%s", text)
	}
}

func TestCompileAllRunsEveryFileConcurrentlyAndReportsPerFileDiagnostics(t *testing.T) {
	pack := fixturePack(t)
	fs := span.NewFileSet()
	goodSrc := `fun add(x: i32, y: i32) -> i32 { return x + y }`
	badSrc := `fun f() -> i32 { return true }`
	goodID := fs.AddFile("good.seen", goodSrc)
	badID := fs.AddFile("bad.seen", badSrc)

	files := []seen.SourceFile{
		{ID: goodID, Name: "good.seen", Src: goodSrc},
		{ID: badID, Name: "bad.seen", Src: badSrc},
	}

	results, err := seen.CompileAll(context.Background(), files, pack)
	if err != nil {
		t.Fatalf("CompileAll: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Diags.Len() != 0 {
		t.Errorf("expected the well-typed file to have no diagnostics, got %v", results[0].Diags.All())
	}
	if results[1].Diags.Len() == 0 {
		t.Error("expected the mismatched-return file to report a diagnostic")
	}
}

func TestCompileAllHonorsContextCancellation(t *testing.T) {
	pack := fixturePack(t)
	fs := span.NewFileSet()
	src := `fun f() -> i32 { return 1 }`
	fileID := fs.AddFile("t.seen", src)
	files := []seen.SourceFile{{ID: fileID, Name: "t.seen", Src: src}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := seen.CompileAll(ctx, files, pack)
	if err == nil {
		t.Error("expected CompileAll to return an error for an already-cancelled context")
	}
}
