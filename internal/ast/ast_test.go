package ast_test

import (
	"testing"

	"github.com/seenlang/seenc/internal/ast"
	"github.com/seenlang/seenc/internal/span"
)

func TestIDGenMonotonic(t *testing.T) {
	var g ast.IDGen
	first := g.Next()
	second := g.Next()
	third := g.Next()
	if !(first < second && second < third) {
		t.Fatalf("ids not monotonic: %d, %d, %d", first, second, third)
	}
}

func TestIDGenStartsAtZero(t *testing.T) {
	var g ast.IDGen
	if id := g.Next(); id != 0 {
		t.Errorf("first id = %d, want 0", id)
	}
}

func TestIDGenIndependentPerInstance(t *testing.T) {
	var a, b ast.IDGen
	a.Next()
	a.Next()
	// b is a fresh generator; it must not observe a's allocations.
	if id := b.Next(); id != 0 {
		t.Errorf("fresh generator started at %d, want 0", id)
	}
}

func TestBaseNodeIDAndSpan(t *testing.T) {
	sp := span.Span{Start: span.Position{Line: 1, Column: 1}, End: span.Position{Line: 1, Column: 5}, FileID: 0}
	lit := &ast.IntLit{Base: ast.Base{ID: 7, Span: sp}, Value: 42}

	if lit.NodeID() != 7 {
		t.Errorf("NodeID() = %d, want 7", lit.NodeID())
	}
	if lit.NodeSpan() != sp {
		t.Errorf("NodeSpan() = %+v, want %+v", lit.NodeSpan(), sp)
	}
}

// Every node kind must satisfy the Node interface; this is a compile-time
// check as much as a runtime one — if a node's method set regresses (e.g.
// someone adds a pointer-only method), these assignments stop compiling.
func TestNodeInterfaceSatisfaction(t *testing.T) {
	var nodes = []ast.Node{
		&ast.File{},
		&ast.FunctionItem{},
		&ast.StructItem{},
		&ast.EnumItem{},
		&ast.TraitItem{},
		&ast.ImplItem{},
		&ast.TypeAliasItem{},
		&ast.ConstItem{},
		&ast.GlobalItem{},
		&ast.LetStmt{},
		&ast.ExprStmt{},
		&ast.ReturnStmt{},
		&ast.BreakStmt{},
		&ast.ContinueStmt{},
		&ast.ItemStmt{},
		&ast.WildcardPattern{},
		&ast.IdentPattern{},
		&ast.LiteralPattern{},
		&ast.TuplePattern{},
		&ast.StructPattern{},
		&ast.VariantPattern{},
		&ast.GuardedPattern{},
		&ast.IntLit{},
		&ast.FloatLit{},
		&ast.BoolLit{},
		&ast.CharLit{},
		&ast.NullLit{},
		&ast.StringLit{},
		&ast.InterpolatedStringLit{},
		&ast.Ident{},
		&ast.SelfExpr{},
		&ast.BinaryExpr{},
		&ast.UnaryExpr{},
		&ast.AssignExpr{},
		&ast.CallExpr{},
		&ast.FieldExpr{},
		&ast.IndexExpr{},
		&ast.ForceUnwrapExpr{},
		&ast.CastExpr{},
		&ast.IsExpr{},
		&ast.BlockExpr{},
		&ast.IfExpr{},
		&ast.MatchExpr{},
		&ast.WhileExpr{},
		&ast.ForExpr{},
		&ast.ClosureExpr{},
		&ast.TupleExpr{},
		&ast.ArrayExpr{},
		&ast.NamedType{},
		&ast.PrimitiveType{},
		&ast.TupleType{},
		&ast.ArrayType{},
		&ast.FnType{},
		&ast.RefType{},
		&ast.NullableType{},
		&ast.InferType{},
	}
	for _, n := range nodes {
		if n.NodeID() != 0 {
			t.Errorf("zero-value node %T should have NodeID 0, got %d", n, n.NodeID())
		}
	}
}

func TestItemStmtSatisfiesBothStmtAndCarriesItem(t *testing.T) {
	fn := &ast.FunctionItem{Base: ast.Base{ID: 1}, Name: "f"}
	st := &ast.ItemStmt{Base: ast.Base{ID: 2}, Item: fn}
	var _ ast.Stmt = st
	if st.Item.(*ast.FunctionItem).Name != "f" {
		t.Error("expected the wrapped item to round-trip through ItemStmt.Item")
	}
}
