package types_test

import (
	"testing"

	"github.com/seenlang/seenc/internal/types"
)

func TestPrimitiveByName(t *testing.T) {
	if types.PrimitiveByName("i32") != types.I32 {
		t.Error("expected PrimitiveByName(i32) to return the I32 singleton")
	}
	if types.PrimitiveByName("nope") != nil {
		t.Error("expected PrimitiveByName of an unknown name to return nil")
	}
}

func TestIsIntegralAndUnsigned(t *testing.T) {
	if !types.IsIntegral(types.I32) || types.IsUnsigned(types.I32) {
		t.Error("i32 should be integral but signed")
	}
	if !types.IsIntegral(types.U8) || !types.IsUnsigned(types.U8) {
		t.Error("u8 should be integral and unsigned")
	}
	if types.IsIntegral(types.F64) {
		t.Error("f64 should not be integral")
	}
}

func TestIsFloat(t *testing.T) {
	if !types.IsFloat(types.F32) || !types.IsFloat(types.F64) {
		t.Error("f32 and f64 should be float")
	}
	if types.IsFloat(types.I32) {
		t.Error("i32 should not be float")
	}
}

func TestNewNullableCollapsesNesting(t *testing.T) {
	once := types.NewNullable(types.I32)
	twice := types.NewNullable(once)
	if twice != once {
		t.Error("expected NewNullable of an already-nullable type to be idempotent, not wrap again")
	}
	n, ok := twice.(*types.Nullable)
	if !ok {
		t.Fatalf("expected *types.Nullable, got %T", twice)
	}
	if n.Elem != types.I32 {
		t.Errorf("Elem = %v, want i32", n.Elem)
	}
}

func TestEqualForCompoundTypes(t *testing.T) {
	a := &types.Tuple{Elems: []types.Type{types.I32, types.Bool}}
	b := &types.Tuple{Elems: []types.Type{types.I32, types.Bool}}
	c := &types.Tuple{Elems: []types.Type{types.I32, types.I32}}
	if !a.Equal(b) {
		t.Error("expected structurally identical tuples to be equal")
	}
	if a.Equal(c) {
		t.Error("expected tuples with different element types to differ")
	}
}

func TestRefEqualRespectsMutability(t *testing.T) {
	mutRef := &types.Ref{Mut: true, Elem: types.I32}
	immRef := &types.Ref{Mut: false, Elem: types.I32}
	if mutRef.Equal(immRef) {
		t.Error("&mut T and &T must not be equal")
	}
}

func TestIsSubtypeReflexiveAndNullableWidening(t *testing.T) {
	if !types.IsSubtype(types.I32, types.I32) {
		t.Error("expected T <: T (reflexivity)")
	}
	nullableI32 := types.NewNullable(types.I32)
	if !types.IsSubtype(types.I32, nullableI32) {
		t.Error("expected T <: T? (§4.3 widening)")
	}
	if types.IsSubtype(nullableI32, types.I32) {
		t.Error("T? must not be a subtype of T")
	}
	if types.IsSubtype(types.Bool, nullableI32) {
		t.Error("unrelated types must not be subtypes through nullability")
	}
}

func TestIsCopyable(t *testing.T) {
	if !types.IsCopyable(types.I32) {
		t.Error("primitives should be copyable")
	}
	if !types.IsCopyable(types.Unit) {
		t.Error("unit should be copyable")
	}
	if !types.IsCopyable(types.NewNullable(types.I32)) {
		t.Error("a nullable wrapping a copyable type should be copyable")
	}
	tup := &types.Tuple{Elems: []types.Type{types.I32, types.Bool}}
	if !types.IsCopyable(tup) {
		t.Error("a tuple of copyable elements should be copyable")
	}
	st := &types.Struct{Name: "Point", Fields: []types.Field{{Name: "x", Type: types.I32}}}
	if types.IsCopyable(st) {
		t.Error("structs are move-by-default, never copyable")
	}
}

func TestStructAndEnumEqualByName(t *testing.T) {
	a := &types.Struct{Name: "Point"}
	b := &types.Struct{Name: "Point"}
	c := &types.Struct{Name: "Vec3"}
	if !a.Equal(b) {
		t.Error("structs with the same name should be equal")
	}
	if a.Equal(c) {
		t.Error("structs with different names should not be equal")
	}
}

func TestHoleOnlyEqualsHole(t *testing.T) {
	h := &types.Hole{}
	if !h.Equal(&types.Hole{}) {
		t.Error("a Hole should equal another Hole")
	}
	if h.Equal(types.I32) {
		t.Error("a Hole should not equal a concrete type")
	}
}

func TestForallEqual(t *testing.T) {
	f1 := &types.Forall{Binders: []string{"T"}, Body: types.I32}
	f2 := &types.Forall{Binders: []string{"T"}, Body: types.I32}
	f3 := &types.Forall{Binders: []string{"T", "U"}, Body: types.I32}
	if !f1.Equal(f2) {
		t.Error("foralls with the same binder count and body should be equal")
	}
	if f1.Equal(f3) {
		t.Error("foralls with different binder counts should not be equal")
	}
}
