package seen

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/seenlang/seenc/internal/ast"
	"github.com/seenlang/seenc/internal/diag"
	"github.com/seenlang/seenc/internal/langpack"
	"github.com/seenlang/seenc/internal/span"
)

// SourceFile is one input to CompileAll: its already-registered file id and
// raw text.
type SourceFile struct {
	ID   span.FileID
	Name string
	Src  string
}

// UnitResult is one file's outcome through lex/parse/typecheck/ownership,
// bundled so CompileAll can report per-file diagnostics without losing
// which file they came from.
type UnitResult struct {
	File  SourceFile
	AST   *ast.File
	Diags *diag.Bag
}

// CompileAll runs lex, parse, typecheck, and ownership analysis for every
// file concurrently (§6.2's multi-file driver note): one errgroup goroutine
// per file, with no limit on how many run at once, each checking ctx for
// cancellation before it starts its file. Lowering is deliberately left to the caller: it needs a
// whole-program view (cross-file type resolution) that per-file concurrency
// here would only complicate.
func CompileAll(ctx context.Context, files []SourceFile, pack *langpack.Pack) ([]*UnitResult, error) {
	results := make([]*UnitResult, len(files))
	g, ctx := errgroup.WithContext(ctx)
	for i, f := range files {
		i, f := i, f
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = compileUnit(f, pack)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func compileUnit(f SourceFile, pack *langpack.Pack) *UnitResult {
	bag := diag.NewBag()

	toks, lexDiags := Lex(f.ID, f.Src, pack)
	bag.Merge(lexDiags)
	if lexDiags.HasFatal() {
		return &UnitResult{File: f, Diags: bag}
	}

	file, parseDiags := Parse(f.ID, toks)
	bag.Merge(parseDiags)

	if file == nil {
		return &UnitResult{File: f, Diags: bag}
	}

	_, tcDiags := Typecheck(file)
	bag.Merge(tcDiags)

	_, ownDiags := AnalyzeOwnership(file)
	bag.Merge(ownDiags)

	return &UnitResult{File: f, AST: file, Diags: bag}
}
