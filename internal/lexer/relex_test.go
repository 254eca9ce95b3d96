package lexer_test

import (
	"testing"

	"github.com/seenlang/seenc/internal/lexer"
	"github.com/seenlang/seenc/internal/span"
	"github.com/seenlang/seenc/internal/testsupport"
	"github.com/seenlang/seenc/internal/token"
)

func TestRelexInterpolationsProducesRealSubTokens(t *testing.T) {
	pack := testsupport.EnglishPack()
	fs := span.NewFileSet()
	input := `"sum is {a + b}"`
	fileID := fs.AddFile("t.seen", input)

	toks, err := lexer.Tokenize(fileID, input, pack)
	if err != nil {
		t.Fatal(err)
	}
	toks, err = lexer.RelexInterpolations(toks, fileID, pack)
	if err != nil {
		t.Fatal(err)
	}

	var exprTok *token.Token
	for i := range toks {
		if toks[i].Kind == token.STR_EXPR {
			exprTok = &toks[i]
		}
	}
	if exprTok == nil {
		t.Fatal("no STR_EXPR token found")
	}
	if len(exprTok.SubTokens) == 0 {
		t.Fatal("expected SubTokens to be populated")
	}

	var kinds []token.Kind
	for _, sub := range exprTok.SubTokens {
		kinds = append(kinds, sub.Kind)
	}
	want := []token.Kind{token.IDENT, token.PLUS, token.IDENT, token.EOF}
	if len(kinds) != len(want) {
		t.Fatalf("got %d sub-tokens (%v), want %d (%v)", len(kinds), kinds, len(want), want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("sub-token[%d] = %s, want %s", i, kinds[i], want[i])
		}
	}
}

func TestRelexInterpolationsSpansAreFileAbsolute(t *testing.T) {
	pack := testsupport.EnglishPack()
	fs := span.NewFileSet()
	input := `"x={value}"`
	fileID := fs.AddFile("t.seen", input)

	toks, err := lexer.Tokenize(fileID, input, pack)
	if err != nil {
		t.Fatal(err)
	}
	toks, err = lexer.RelexInterpolations(toks, fileID, pack)
	if err != nil {
		t.Fatal(err)
	}

	var exprTok *token.Token
	for i := range toks {
		if toks[i].Kind == token.STR_EXPR {
			exprTok = &toks[i]
		}
	}
	if exprTok == nil || len(exprTok.SubTokens) == 0 {
		t.Fatal("expected a populated STR_EXPR with sub-tokens")
	}
	sub := exprTok.SubTokens[0]
	// "value" begins right where the STR_EXPR segment's own span begins.
	if sub.Span.Start != exprTok.Span.Start {
		t.Errorf("sub-token start = %s, want to match STR_EXPR start %s", sub.Span.Start, exprTok.Span.Start)
	}
	if sub.Span.FileID != fileID {
		t.Errorf("sub-token FileID = %v, want %v", sub.Span.FileID, fileID)
	}
}

// TestRelexInterpolationsNested exercises the recursive case directly: a
// STR_EXPR segment whose own raw text is itself an interpolated string
// literal, so RelexInterpolations must recurse into the sub-token stream it
// just produced rather than stopping one level deep.
func TestRelexInterpolationsNested(t *testing.T) {
	pack := testsupport.EnglishPack()
	fs := span.NewFileSet()
	outer := `"wrap {` + `"a {x}"` + `}"`
	fileID := fs.AddFile("t.seen", outer)

	toks, err := lexer.Tokenize(fileID, outer, pack)
	if err != nil {
		t.Fatal(err)
	}
	relexed, err := lexer.RelexInterpolations(toks, fileID, pack)
	if err != nil {
		t.Fatal(err)
	}

	var outerExpr *token.Token
	for i := range relexed {
		if relexed[i].Kind == token.STR_EXPR {
			outerExpr = &relexed[i]
		}
	}
	if outerExpr == nil || len(outerExpr.SubTokens) == 0 {
		t.Fatal("expected the outer STR_EXPR to carry relexed SubTokens")
	}

	var innerExpr *token.Token
	for i := range outerExpr.SubTokens {
		if outerExpr.SubTokens[i].Kind == token.STR_EXPR {
			innerExpr = &outerExpr.SubTokens[i]
		}
	}
	if innerExpr == nil {
		t.Fatal("expected a nested STR_EXPR among the outer segment's SubTokens")
	}
	if len(innerExpr.SubTokens) == 0 || innerExpr.SubTokens[0].Kind != token.IDENT {
		t.Fatal("expected the nested STR_EXPR to itself carry relexed SubTokens")
	}
}
