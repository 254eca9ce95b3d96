package ownership_test

import (
	"testing"

	"github.com/seenlang/seenc/internal/ast"
	"github.com/seenlang/seenc/internal/lexer"
	"github.com/seenlang/seenc/internal/ownership"
	"github.com/seenlang/seenc/internal/parser"
	"github.com/seenlang/seenc/internal/span"
	"github.com/seenlang/seenc/internal/testsupport"
)

func mustParse(t *testing.T, src string) *ast.File {
	t.Helper()
	pack := testsupport.EnglishPack()
	fs := span.NewFileSet()
	fileID := fs.AddFile("t.seen", src)
	toks, err := lexer.Tokenize(fileID, src, pack)
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}
	file, errs := parser.ParseFile(fileID, toks)
	if len(errs) > 0 {
		t.Fatalf("parse errors: %v", errs)
	}
	return file
}

func classesOf(errs []*ownership.OwnershipError) []ownership.BugClass {
	out := make([]ownership.BugClass, len(errs))
	for i, e := range errs {
		out[i] = e.Class
	}
	return out
}

func hasClass(errs []*ownership.OwnershipError, class ownership.BugClass) bool {
	for _, c := range classesOf(errs) {
		if c == class {
			return true
		}
	}
	return false
}

func TestCheckUseAfterMove(t *testing.T) {
	file := mustParse(t, `fun f(x: Foo) { let y = move x; let z = x }`)
	_, errs := ownership.Check(file)
	if !hasClass(errs, ownership.UseAfterMove) {
		t.Errorf("expected UseAfterMove, got %v", classesOf(errs))
	}
}

func TestCheckNoErrorWithoutMove(t *testing.T) {
	file := mustParse(t, `fun f(x: Foo) -> Foo { return x }`)
	_, errs := ownership.Check(file)
	if len(errs) != 0 {
		t.Errorf("expected no ownership errors, got %v", errs)
	}
}

func TestCheckBorrowAfterMove(t *testing.T) {
	file := mustParse(t, `fun f(x: Foo) { let y = move x; let z = x.value }`)
	_, errs := ownership.Check(file)
	if !hasClass(errs, ownership.BorrowAfterMove) {
		t.Errorf("expected BorrowAfterMove, got %v", classesOf(errs))
	}
}

func TestCheckMoveTwiceReportsUseAfterMove(t *testing.T) {
	file := mustParse(t, `fun f(x: Foo) { let y = move x; let z = move x }`)
	_, errs := ownership.Check(file)
	if !hasClass(errs, ownership.UseAfterMove) {
		t.Errorf("expected a second move of the same binding to report UseAfterMove, got %v", classesOf(errs))
	}
}

func TestCheckMoveInsideNestedBlockIsVisibleAfterItCloses(t *testing.T) {
	// A move of an outer binding from inside a nested block must still be
	// visible to a use in the enclosing scope once the block closes.
	file := mustParse(t, `fun f(x: Foo) { if true { let y = move x } let z = x }`)
	_, errs := ownership.Check(file)
	if !hasClass(errs, ownership.UseAfterMove) {
		t.Errorf("expected the move inside the if-block to be visible after it closes, got %v", classesOf(errs))
	}
}

func TestCheckFieldAccessAfterMoveOnDifferentBindingIsFine(t *testing.T) {
	file := mustParse(t, `fun f(a: Foo, b: Foo) { let x = move a; let y = b.value }`)
	_, errs := ownership.Check(file)
	if len(errs) != 0 {
		t.Errorf("moving a should not affect borrows of an unrelated binding b, got %v", errs)
	}
}

func TestRegionTreeBackwardShiftDeactivation(t *testing.T) {
	tree := ownership.NewRegionTree()
	if !tree.IsActive(tree.Root()) {
		t.Fatal("root region should start active")
	}
	child := tree.CreateRegion(tree.Root())
	grandchild := tree.CreateRegion(child)
	if !tree.IsActive(child) || !tree.IsActive(grandchild) {
		t.Fatal("newly created regions should be active")
	}

	tree.ExitRegion(child)
	if tree.IsActive(child) {
		t.Error("exiting a region should deactivate it")
	}
	if tree.IsActive(grandchild) {
		t.Error("exiting a region should deactivate its whole subtree")
	}
	if !tree.IsActive(tree.Root()) {
		t.Error("exiting a child region must not deactivate the root")
	}
}

func TestRegionTreeEnterReactivatesOnlyTargetRegion(t *testing.T) {
	tree := ownership.NewRegionTree()
	child := tree.CreateRegion(tree.Root())
	tree.ExitRegion(child)
	tree.EnterRegion(child)
	if !tree.IsActive(child) {
		t.Error("re-entering a region should make it active again")
	}
}

func TestModeString(t *testing.T) {
	cases := []struct {
		mode ownership.Mode
		want string
	}{
		{ownership.ModeOwn, "own"},
		{ownership.ModeBorrow, "borrow"},
		{ownership.ModeBorrowMut, "borrow_mut"},
		{ownership.ModeMove, "move"},
		{ownership.ModeCopy, "copy"},
	}
	for _, c := range cases {
		if got := c.mode.String(); got != c.want {
			t.Errorf("%d.String() = %q, want %q", c.mode, got, c.want)
		}
	}
}
