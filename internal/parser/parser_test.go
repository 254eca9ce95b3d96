package parser_test

import (
	"strings"
	"testing"

	"github.com/seenlang/seenc/internal/ast"
	"github.com/seenlang/seenc/internal/lexer"
	"github.com/seenlang/seenc/internal/parser"
	"github.com/seenlang/seenc/internal/span"
	"github.com/seenlang/seenc/internal/testsupport"
)

// mustParse lexes and parses src, failing the test on any lex or parse
// error, and returns the resulting file.
func mustParse(t *testing.T, src string) *ast.File {
	t.Helper()
	pack := testsupport.EnglishPack()
	fs := span.NewFileSet()
	fileID := fs.AddFile("test.seen", src)

	toks, err := lexer.Tokenize(fileID, src, pack)
	if err != nil {
		t.Fatalf("unexpected lex error: %v", err)
	}
	file, errs := parser.ParseFile(fileID, toks)
	if len(errs) > 0 {
		msgs := make([]string, len(errs))
		for i, e := range errs {
			msgs[i] = e.Error()
		}
		t.Fatalf("unexpected parse errors:\n%s", strings.Join(msgs, "\n"))
	}
	return file
}

// parseWithErrors parses src and asserts at least one parse error occurred.
func parseWithErrors(t *testing.T, src string) (*ast.File, []*parser.ParseError) {
	t.Helper()
	pack := testsupport.EnglishPack()
	fs := span.NewFileSet()
	fileID := fs.AddFile("test.seen", src)

	toks, err := lexer.Tokenize(fileID, src, pack)
	if err != nil {
		t.Fatalf("unexpected lex error: %v", err)
	}
	file, errs := parser.ParseFile(fileID, toks)
	if len(errs) == 0 {
		t.Fatal("expected parse errors, got none")
	}
	return file, errs
}

func firstItem(t *testing.T, file *ast.File) ast.Item {
	t.Helper()
	if len(file.Items) == 0 {
		t.Fatal("expected at least one item, got none")
	}
	return file.Items[0]
}

func TestParseFunctionSimple(t *testing.T) {
	file := mustParse(t, `fun add(x: i32, y: i32) -> i32 { return x + y }`)
	fn, ok := firstItem(t, file).(*ast.FunctionItem)
	if !ok {
		t.Fatalf("expected *ast.FunctionItem, got %T", firstItem(t, file))
	}
	if fn.Name != "add" {
		t.Errorf("name = %q, want add", fn.Name)
	}
	if fn.Vis != ast.VisPrivate {
		t.Errorf("expected default visibility to be private, got %v", fn.Vis)
	}
	if len(fn.Params) != 2 || fn.Params[0].Name != "x" || fn.Params[1].Name != "y" {
		t.Fatalf("unexpected params: %+v", fn.Params)
	}
	if fn.ReturnType == nil {
		t.Fatal("expected a return type")
	}
	if fn.Body == nil {
		t.Fatal("expected a body")
	}
}

func TestParseFunctionPublic(t *testing.T) {
	file := mustParse(t, `public fun greet() { }`)
	fn := firstItem(t, file).(*ast.FunctionItem)
	if fn.Vis != ast.VisPublic {
		t.Errorf("expected public visibility, got %v", fn.Vis)
	}
}

func TestParseExpressionBodiedFunction(t *testing.T) {
	file := mustParse(t, `fun square(x: i32) -> i32 = x * x`)
	fn := firstItem(t, file).(*ast.FunctionItem)
	if fn.Body == nil || fn.Body.TailExpr == nil {
		t.Fatal("expected the expression body to desugar into a tail expression")
	}
	bin, ok := fn.Body.TailExpr.(*ast.BinaryExpr)
	if !ok {
		t.Fatalf("expected *ast.BinaryExpr tail, got %T", fn.Body.TailExpr)
	}
	if bin.Op != ast.OpMul {
		t.Errorf("op = %v, want OpMul", bin.Op)
	}
}

func TestParseLetStatement(t *testing.T) {
	file := mustParse(t, `fun f() { let x: i32 = 42 }`)
	fn := firstItem(t, file).(*ast.FunctionItem)
	if len(fn.Body.Stmts) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(fn.Body.Stmts))
	}
	let, ok := fn.Body.Stmts[0].(*ast.LetStmt)
	if !ok {
		t.Fatalf("expected *ast.LetStmt, got %T", fn.Body.Stmts[0])
	}
	pat, ok := let.Pattern.(*ast.IdentPattern)
	if !ok || pat.Name != "x" {
		t.Errorf("pattern = %+v, want IdentPattern(x)", let.Pattern)
	}
	if let.Mut {
		t.Error("let should not be mutable")
	}
	lit, ok := let.Value.(*ast.IntLit)
	if !ok || lit.Value != 42 {
		t.Errorf("value = %+v, want IntLit(42)", let.Value)
	}
}

func TestParseMutableLet(t *testing.T) {
	file := mustParse(t, `fun f() { let mut x = 1 }`)
	fn := firstItem(t, file).(*ast.FunctionItem)
	let := fn.Body.Stmts[0].(*ast.LetStmt)
	if !let.Mut {
		t.Error("expected let to be mutable")
	}
	pat, ok := let.Pattern.(*ast.IdentPattern)
	if !ok || pat.Name != "x" {
		t.Errorf("pattern = %+v, want IdentPattern(x)", let.Pattern)
	}
}

func TestParseStruct(t *testing.T) {
	file := mustParse(t, `struct Point { x: i32, y: i32 }`)
	st, ok := firstItem(t, file).(*ast.StructItem)
	if !ok {
		t.Fatalf("expected *ast.StructItem, got %T", firstItem(t, file))
	}
	if st.Name != "Point" {
		t.Errorf("name = %q, want Point", st.Name)
	}
	if len(st.Fields) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(st.Fields))
	}
	if st.Fields[0].Name != "x" || st.Fields[1].Name != "y" {
		t.Errorf("unexpected field names: %+v", st.Fields)
	}
}

func TestParseDataClass(t *testing.T) {
	file := mustParse(t, `data class Point { x: i32, y: i32 }`)
	st := firstItem(t, file).(*ast.StructItem)
	if !st.DataClass {
		t.Error("expected DataClass to be true")
	}
}

func TestParseEnumWithVariants(t *testing.T) {
	file := mustParse(t, `enum Option { Some(i32), None }`)
	en, ok := firstItem(t, file).(*ast.EnumItem)
	if !ok {
		t.Fatalf("expected *ast.EnumItem, got %T", firstItem(t, file))
	}
	if len(en.Variants) != 2 {
		t.Fatalf("expected 2 variants, got %d", len(en.Variants))
	}
	if en.Variants[0].Name != "Some" || len(en.Variants[0].Fields) != 1 {
		t.Errorf("Some variant malformed: %+v", en.Variants[0])
	}
	if en.Variants[1].Name != "None" || len(en.Variants[1].Fields) != 0 {
		t.Errorf("None variant malformed: %+v", en.Variants[1])
	}
}

func TestParseGenericFunction(t *testing.T) {
	file := mustParse(t, `fun identity<T>(x: T) -> T { return x }`)
	fn := firstItem(t, file).(*ast.FunctionItem)
	if len(fn.Generics) != 1 || fn.Generics[0].Name != "T" {
		t.Fatalf("expected one generic param T, got %+v", fn.Generics)
	}
}

func TestParseGenericBound(t *testing.T) {
	file := mustParse(t, `fun max<T: Comparable>(a: T, b: T) -> T { return a }`)
	fn := firstItem(t, file).(*ast.FunctionItem)
	if len(fn.Generics) != 1 || len(fn.Generics[0].Bounds) != 1 {
		t.Fatalf("expected one bound on T, got %+v", fn.Generics)
	}
}

func TestParseExtensionFunction(t *testing.T) {
	file := mustParse(t, `fun String.shout() -> String { return self }`)
	fn := firstItem(t, file).(*ast.FunctionItem)
	if fn.ExtensionOf == nil {
		t.Fatal("expected ExtensionOf to be set for an extension function")
	}
	if fn.Name != "shout" {
		t.Errorf("name = %q, want shout", fn.Name)
	}
}

func TestParseNullableType(t *testing.T) {
	file := mustParse(t, `fun f(x: i32?) { }`)
	fn := firstItem(t, file).(*ast.FunctionItem)
	if _, ok := fn.Params[0].Type.(*ast.NullableType); !ok {
		t.Fatalf("expected NullableType, got %T", fn.Params[0].Type)
	}
}

func TestParseNestedNullableIsRejected(t *testing.T) {
	_, errs := parseWithErrors(t, `fun f(x: i32??) { }`)
	found := false
	for _, e := range errs {
		if e.Code == "parser/nested-nullable" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a parser/nested-nullable error, got: %v", errs)
	}
}

func TestParseIfExpression(t *testing.T) {
	file := mustParse(t, `fun f(x: i32) -> i32 { if x > 0 { return 1 } else { return -1 } }`)
	fn := firstItem(t, file).(*ast.FunctionItem)
	ifExpr, ok := fn.Body.TailExpr.(*ast.IfExpr)
	if !ok {
		t.Fatalf("expected *ast.IfExpr tail, got %T", fn.Body.TailExpr)
	}
	if ifExpr.Then == nil || ifExpr.Else == nil {
		t.Fatal("expected both then and else branches")
	}
}

func TestParseWhileLoop(t *testing.T) {
	file := mustParse(t, `fun f() { while true { break } }`)
	fn := firstItem(t, file).(*ast.FunctionItem)
	if _, ok := fn.Body.TailExpr.(*ast.WhileExpr); !ok {
		t.Fatalf("expected *ast.WhileExpr tail, got %T", fn.Body.TailExpr)
	}
}

func TestParseForLoop(t *testing.T) {
	file := mustParse(t, `fun f() { for i in xs { } }`)
	fn := firstItem(t, file).(*ast.FunctionItem)
	forExpr, ok := fn.Body.TailExpr.(*ast.ForExpr)
	if !ok {
		t.Fatalf("expected *ast.ForExpr tail, got %T", fn.Body.TailExpr)
	}
	pat, ok := forExpr.Pattern.(*ast.IdentPattern)
	if !ok || pat.Name != "i" {
		t.Errorf("expected loop pattern `i`, got %+v", forExpr.Pattern)
	}
}

func TestParseSafeCallAndElvis(t *testing.T) {
	file := mustParse(t, `fun f(x: Foo?) -> i32 { return x?.value ?: 0 }`)
	fn := firstItem(t, file).(*ast.FunctionItem)
	ret := fn.Body.Stmts[0].(*ast.ReturnStmt)
	bin, ok := ret.Value.(*ast.BinaryExpr)
	if !ok {
		t.Fatalf("expected elvis to parse as a BinaryExpr, got %T", ret.Value)
	}
	if bin.Op != ast.OpElvis {
		t.Errorf("op = %v, want OpElvis", bin.Op)
	}
	field, ok := bin.LHS.(*ast.FieldExpr)
	if !ok || !field.Safe {
		t.Fatalf("expected a safe FieldExpr on the left, got %+v", bin.LHS)
	}
}

func TestParseForceUnwrap(t *testing.T) {
	file := mustParse(t, `fun f(x: i32?) -> i32 { return x!! }`)
	fn := firstItem(t, file).(*ast.FunctionItem)
	ret := fn.Body.Stmts[0].(*ast.ReturnStmt)
	if _, ok := ret.Value.(*ast.ForceUnwrapExpr); !ok {
		t.Fatalf("expected *ast.ForceUnwrapExpr, got %T", ret.Value)
	}
}

func TestParseMoveExpression(t *testing.T) {
	file := mustParse(t, `fun f(x: Foo) { let y = move x }`)
	fn := firstItem(t, file).(*ast.FunctionItem)
	let := fn.Body.Stmts[0].(*ast.LetStmt)
	un, ok := let.Value.(*ast.UnaryExpr)
	if !ok || un.Op != ast.OpMove {
		t.Fatalf("expected a move UnaryExpr, got %+v", let.Value)
	}
}

func TestParseClosureWithParams(t *testing.T) {
	file := mustParse(t, `fun f() { let add = { a, b -> a + b } }`)
	fn := firstItem(t, file).(*ast.FunctionItem)
	let := fn.Body.Stmts[0].(*ast.LetStmt)
	closure, ok := let.Value.(*ast.ClosureExpr)
	if !ok {
		t.Fatalf("expected *ast.ClosureExpr, got %T", let.Value)
	}
	if len(closure.Params) != 2 {
		t.Fatalf("expected 2 params, got %d", len(closure.Params))
	}
}

func TestParseMatchExpression(t *testing.T) {
	file := mustParse(t, `fun f(x: i32) -> bool { match x { 1 -> true, _ -> false } }`)
	fn := firstItem(t, file).(*ast.FunctionItem)
	m, ok := fn.Body.TailExpr.(*ast.MatchExpr)
	if !ok {
		t.Fatalf("expected *ast.MatchExpr tail, got %T", fn.Body.TailExpr)
	}
	if len(m.Arms) != 2 {
		t.Fatalf("expected 2 arms, got %d", len(m.Arms))
	}
	if _, ok := m.Arms[1].Pattern.(*ast.WildcardPattern); !ok {
		t.Errorf("expected the second arm's pattern to be a wildcard, got %+v", m.Arms[1].Pattern)
	}
}

func TestParsePrecedence(t *testing.T) {
	// 1 + 2 * 3 must bind as 1 + (2 * 3).
	file := mustParse(t, `fun f() -> i32 { 1 + 2 * 3 }`)
	fn := firstItem(t, file).(*ast.FunctionItem)
	top, ok := fn.Body.TailExpr.(*ast.BinaryExpr)
	if !ok || top.Op != ast.OpAdd {
		t.Fatalf("expected top-level OpAdd, got %+v", fn.Body.TailExpr)
	}
	right, ok := top.RHS.(*ast.BinaryExpr)
	if !ok || right.Op != ast.OpMul {
		t.Fatalf("expected right child OpMul, got %+v", top.RHS)
	}
}

func TestParseImplBlock(t *testing.T) {
	file := mustParse(t, `impl Shape for Circle { fun area() -> f64 { return 0.0 } }`)
	im, ok := firstItem(t, file).(*ast.ImplItem)
	if !ok {
		t.Fatalf("expected *ast.ImplItem, got %T", firstItem(t, file))
	}
	if im.Trait == nil || im.ForType == nil {
		t.Fatal("expected both Trait and ForType to be set")
	}
	if len(im.Methods) != 1 {
		t.Fatalf("expected 1 method, got %d", len(im.Methods))
	}
}

func TestParseErrorRecoversAndContinues(t *testing.T) {
	// The first item is malformed; the parser should still recover and find
	// the second.
	file, errs := parseWithErrors(t, "fun ( { } fun ok() { }")
	if len(errs) == 0 {
		t.Fatal("expected at least one recovered error")
	}
	found := false
	for _, it := range file.Items {
		if fn, ok := it.(*ast.FunctionItem); ok && fn.Name == "ok" {
			found = true
		}
	}
	if !found {
		t.Error("expected parser to recover and still parse the later `ok` function")
	}
}

func TestParseNodeIDsAreUnique(t *testing.T) {
	file := mustParse(t, `fun f(x: i32) -> i32 { let y = x + 1; return y }`)
	seen := map[ast.NodeID]bool{}
	note := func(id ast.NodeID) {
		if seen[id] {
			t.Errorf("duplicate node id %d", id)
		}
		seen[id] = true
	}
	note(file.ID)
	fn := firstItem(t, file).(*ast.FunctionItem)
	note(fn.ID)
	for _, p := range fn.Params {
		note(p.ID)
	}
	note(fn.Body.ID)
	for _, s := range fn.Body.Stmts {
		note(s.NodeID())
	}
	if len(seen) < 4 {
		t.Fatalf("expected several distinct node ids, got %d", len(seen))
	}
}
