package langpack_test

import (
	"os"
	"testing"
	"time"

	"github.com/seenlang/seenc/internal/langpack"
	"github.com/seenlang/seenc/internal/token"
)

const miniPack = `
name = "mini"
description = "minimal pack for tests"

[keywords]
fun = "KeywordFun"
if = "KeywordIf"

[operators]
"+" = "Plus"
"==" = "Equal"
"=" = "Assign"
`

func TestLoadStringKeywordsAndOperators(t *testing.T) {
	pack, err := langpack.LoadString(miniPack)
	if err != nil {
		t.Fatalf("LoadString: %v", err)
	}
	if kind, ok := pack.Keyword("fun"); !ok || kind != token.KW_FUN {
		t.Errorf("Keyword(fun) = %v, %v, want KW_FUN, true", kind, ok)
	}
	if _, ok := pack.Keyword("nope"); ok {
		t.Error("expected Keyword(nope) to report false")
	}
}

func TestMatchOperatorLongestMatch(t *testing.T) {
	pack, err := langpack.LoadString(miniPack)
	if err != nil {
		t.Fatalf("LoadString: %v", err)
	}
	kind, spelling, ok := pack.MatchOperator("==x")
	if !ok || kind != token.EQ || spelling != "==" {
		t.Errorf("MatchOperator(==x) = %v %q %v, want EQ == true", kind, spelling, ok)
	}
	kind, spelling, ok = pack.MatchOperator("=x")
	if !ok || kind != token.ASSIGN || spelling != "=" {
		t.Errorf("MatchOperator(=x) = %v %q %v, want ASSIGN = true", kind, spelling, ok)
	}
	if _, _, ok := pack.MatchOperator("?x"); ok {
		t.Error("expected no match for an operator the pack doesn't define")
	}
}

func TestLoadStringRejectsUnknownTag(t *testing.T) {
	_, err := langpack.LoadString(`
[keywords]
fun = "NotARealTag"
`)
	if err == nil {
		t.Fatal("expected an error for an unrecognized keyword tag")
	}
}

func TestLoadStringRejectsEmptyKeywords(t *testing.T) {
	_, err := langpack.LoadString(`
[operators]
"+" = "Plus"
`)
	if err != langpack.ErrNoKeywords {
		t.Errorf("err = %v, want ErrNoKeywords", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := langpack.Load("/does/not/exist.toml")
	if err == nil {
		t.Fatal("expected an error loading a nonexistent file")
	}
}

func TestLoaderCachesUntilExpiry(t *testing.T) {
	loader := langpack.NewLoaderWithExpiry(time.Minute)

	dir := t.TempDir()
	path := dir + "/pack.toml"
	if err := os.WriteFile(path, []byte(miniPack), 0o644); err != nil {
		t.Fatal(err)
	}

	p1, err := loader.Get(path)
	if err != nil {
		t.Fatal(err)
	}
	p2, err := loader.Get(path)
	if err != nil {
		t.Fatal(err)
	}
	if p1 != p2 {
		t.Error("expected the same cached *Pack on a second Get before expiry")
	}

	loader.Invalidate(path)
	p3, err := loader.Get(path)
	if err != nil {
		t.Fatal(err)
	}
	if p3 == p1 {
		t.Error("expected a fresh *Pack after Invalidate")
	}
}
