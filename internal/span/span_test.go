package span_test

import (
	"testing"

	"github.com/seenlang/seenc/internal/span"
)

func TestPositionLess(t *testing.T) {
	a := span.Position{Line: 1, Column: 1, Offset: 0}
	b := span.Position{Line: 1, Column: 5, Offset: 4}
	if !a.Less(b) {
		t.Error("expected a < b")
	}
	if b.Less(a) {
		t.Error("expected !(b < a)")
	}
}

func TestSpanContains(t *testing.T) {
	outer := span.Span{Start: span.Position{Offset: 0}, End: span.Position{Offset: 10}, FileID: 0}
	inner := span.Span{Start: span.Position{Offset: 2}, End: span.Position{Offset: 5}, FileID: 0}
	other := span.Span{Start: span.Position{Offset: 2}, End: span.Position{Offset: 5}, FileID: 1}

	if !outer.Contains(inner) {
		t.Error("expected outer to contain inner")
	}
	if outer.Contains(other) {
		t.Error("spans from different files must never contain one another")
	}
	if inner.Contains(outer) {
		t.Error("a smaller span must not contain a larger one")
	}
}

func TestJoin(t *testing.T) {
	a := span.Span{Start: span.Position{Offset: 5}, End: span.Position{Offset: 10}, FileID: 0}
	b := span.Span{Start: span.Position{Offset: 2}, End: span.Position{Offset: 7}, FileID: 0}
	got := span.Join(a, b)
	if got.Start.Offset != 2 || got.End.Offset != 10 {
		t.Errorf("Join = [%d,%d], want [2,10]", got.Start.Offset, got.End.Offset)
	}
}

func TestFileSetAddFileAssignsSequentialIDs(t *testing.T) {
	fs := span.NewFileSet()
	id0 := fs.AddFile("a.seen", "aaa")
	id1 := fs.AddFile("b.seen", "bbb")
	if id0 != 0 || id1 != 1 {
		t.Errorf("ids = %d, %d, want 0, 1", id0, id1)
	}
	if fs.File(id0).Name != "a.seen" {
		t.Errorf("File(0).Name = %q, want a.seen", fs.File(id0).Name)
	}
	if fs.File(span.FileID(99)) != nil {
		t.Error("expected nil for an unregistered file id")
	}
}

func TestFileText(t *testing.T) {
	fs := span.NewFileSet()
	id := fs.AddFile("t.seen", "hello world")
	f := fs.File(id)
	sp := span.Span{Start: span.Position{Offset: 6}, End: span.Position{Offset: 11}, FileID: id}
	if got := f.Text(sp); got != "world" {
		t.Errorf("Text = %q, want %q", got, "world")
	}
}

func TestFileTextOutOfRange(t *testing.T) {
	fs := span.NewFileSet()
	id := fs.AddFile("t.seen", "hi")
	f := fs.File(id)
	sp := span.Span{Start: span.Position{Offset: 0}, End: span.Position{Offset: 99}, FileID: id}
	if got := f.Text(sp); got != "" {
		t.Errorf("Text out of range = %q, want empty string", got)
	}
}

func TestPositionFromOffset(t *testing.T) {
	content := "foo\nbar\nbaz"
	cases := []struct {
		offset     int
		line, col int
	}{
		{0, 1, 1},
		{3, 1, 4},
		{4, 2, 1},
		{7, 2, 4},
		{8, 3, 1},
	}
	for _, c := range cases {
		got := span.PositionFromOffset(content, c.offset)
		if got.Line != c.line || got.Column != c.col {
			t.Errorf("PositionFromOffset(%d) = %d:%d, want %d:%d", c.offset, got.Line, got.Column, c.line, c.col)
		}
	}
}
