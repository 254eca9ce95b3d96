package types_test

import (
	"testing"

	"github.com/seenlang/seenc/internal/types"
)

func TestSubstApplyResolvesVariable(t *testing.T) {
	s := types.NewSubst()
	s.Bind(1, types.I32)
	v := &types.Var{ID: 1, Name: "T"}
	if got := s.Apply(v); got != types.I32 {
		t.Errorf("Apply(var 1) = %v, want i32", got)
	}
}

func TestSubstApplyChasesChains(t *testing.T) {
	s := types.NewSubst()
	s.Bind(1, &types.Var{ID: 2, Name: "U"})
	s.Bind(2, types.Bool)
	v := &types.Var{ID: 1}
	if got := s.Apply(v); got != types.Bool {
		t.Errorf("Apply should chase variable chains to bool, got %v", got)
	}
}

func TestSubstApplyUnboundVariableReturnsItself(t *testing.T) {
	s := types.NewSubst()
	v := &types.Var{ID: 99}
	if got := s.Apply(v); got != v {
		t.Errorf("Apply(unbound var) = %v, want the same var", got)
	}
}

func TestSubstApplyIntoCompoundTypes(t *testing.T) {
	s := types.NewSubst()
	s.Bind(1, types.I32)
	tup := &types.Tuple{Elems: []types.Type{&types.Var{ID: 1}, types.Bool}}
	got := s.Apply(tup).(*types.Tuple)
	if !got.Elems[0].Equal(types.I32) || !got.Elems[1].Equal(types.Bool) {
		t.Errorf("Apply into tuple = %v", got)
	}
}

func TestSubstLookup(t *testing.T) {
	s := types.NewSubst()
	if _, ok := s.Lookup(1); ok {
		t.Error("expected no binding for an unbound id")
	}
	s.Bind(1, types.I32)
	got, ok := s.Lookup(1)
	if !ok || got != types.I32 {
		t.Errorf("Lookup(1) = %v, %v, want i32, true", got, ok)
	}
}

func TestComposeAppliesSecondSubstThroughFirst(t *testing.T) {
	s := types.NewSubst()
	s.Bind(1, &types.Var{ID: 2})
	next := types.NewSubst()
	next.Bind(2, types.F64)

	composed := types.Compose(s, next)
	got := composed.Apply(&types.Var{ID: 1})
	if got != types.F64 {
		t.Errorf("composed Apply(var 1) = %v, want f64", got)
	}
}

func TestComposePreservesSecondOnlyBindings(t *testing.T) {
	s := types.NewSubst()
	next := types.NewSubst()
	next.Bind(5, types.Char)

	composed := types.Compose(s, next)
	got, ok := composed.Lookup(5)
	if !ok || got != types.Char {
		t.Errorf("composed Lookup(5) = %v, %v, want char, true", got, ok)
	}
}

func TestOccursDetectsSelfReference(t *testing.T) {
	s := types.NewSubst()
	fn := &types.Fn{Params: []types.Type{&types.Var{ID: 1}}, Ret: types.Unit}
	if !types.Occurs(s, 1, fn) {
		t.Error("expected Occurs to find variable 1 inside its own parameter list")
	}
	if types.Occurs(s, 2, fn) {
		t.Error("variable 2 does not occur in fn")
	}
}

func TestOccursChasesExistingBindings(t *testing.T) {
	s := types.NewSubst()
	s.Bind(2, &types.Var{ID: 1})
	if !types.Occurs(s, 1, &types.Var{ID: 2}) {
		t.Error("expected Occurs to chase var 2's binding and find var 1 inside it")
	}
}
