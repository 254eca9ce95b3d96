package main

import (
	"testing"

	"github.com/seenlang/seenc/internal/llvmir"
)

func TestTargetFromFlag(t *testing.T) {
	cases := []struct {
		name string
		want llvmir.Target
	}{
		{"aarch64-linux", llvmir.TargetAArch64Linux},
		{"wasm32", llvmir.TargetWasm32},
		{"x86_64-linux", llvmir.TargetX86_64Linux},
		{"nonsense", llvmir.TargetX86_64Linux},
	}
	for _, c := range cases {
		if got := targetFromFlag(c.name); got != c.want {
			t.Errorf("targetFromFlag(%q) = %v, want %v", c.name, got, c.want)
		}
	}
}
