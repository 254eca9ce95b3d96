// Package seen is the consumer-facing surface of the compiler core (§6.2):
// five entry points, one per pipeline stage, plus CompileAll for driving
// many files through the whole pipeline concurrently. Each stage function
// takes exactly the inputs the next stage needs and returns every
// recovered diagnostic alongside its best-effort result, rather than
// stopping at the first error (§7).
package seen

import (
	"github.com/seenlang/seenc/internal/ast"
	"github.com/seenlang/seenc/internal/diag"
	"github.com/seenlang/seenc/internal/ir"
	"github.com/seenlang/seenc/internal/langpack"
	"github.com/seenlang/seenc/internal/lexer"
	"github.com/seenlang/seenc/internal/llvmir"
	"github.com/seenlang/seenc/internal/ownership"
	"github.com/seenlang/seenc/internal/parser"
	"github.com/seenlang/seenc/internal/span"
	"github.com/seenlang/seenc/internal/token"
	"github.com/seenlang/seenc/internal/typecheck"
	"github.com/seenlang/seenc/internal/types"
)

// Lex tokenizes src under the given file id and keyword pack, then relexes
// every interpolated string segment's raw STR_EXPR text through the same
// pack so Parse can build each embedded expression from real,
// file-position-correct tokens rather than reparsing a string (§3.2, §4.1).
func Lex(fileID span.FileID, src string, pack *langpack.Pack) ([]token.Token, *diag.Bag) {
	toks, err := lexer.Tokenize(fileID, src, pack)
	bag := diag.NewBag()
	if err == nil {
		toks, err = lexer.RelexInterpolations(toks, fileID, pack)
	}
	if err != nil {
		if lexErr, ok := err.(*lexer.LexicalError); ok {
			bag.Add(&diag.Diagnostic{
				Stage:    diag.StageLex,
				Code:     lexErrorKindName(lexErr.Kind),
				Severity: diag.SevFatalFile,
				Span:     lexErr.Span,
				Message:  lexErr.Message,
			})
		} else {
			bag.Add(&diag.Diagnostic{Stage: diag.StageLex, Severity: diag.SevFatalFile, Message: err.Error()})
		}
	}
	return toks, bag
}

func lexErrorKindName(k lexer.ErrorKind) string {
	switch k {
	case lexer.UnterminatedString:
		return "UnterminatedString"
	case lexer.InvalidEscape:
		return "InvalidEscape"
	case lexer.InvalidUTF8:
		return "InvalidUTF8"
	case lexer.MaxNestingExceeded:
		return "MaxNestingExceeded"
	default:
		return "LexicalError"
	}
}

func bugClassName(c ownership.BugClass) string {
	switch c {
	case ownership.UseAfterMove:
		return "UseAfterMove"
	case ownership.DoubleMutableBorrow:
		return "DoubleMutableBorrow"
	case ownership.ConflictingBorrow:
		return "ConflictingBorrow"
	case ownership.BorrowAfterMove:
		return "BorrowAfterMove"
	default:
		return "OwnershipError"
	}
}

// Parse builds a span-annotated AST from a token stream, recovering from
// each ParseError rather than aborting the file (§7).
func Parse(fileID span.FileID, toks []token.Token) (*ast.File, *diag.Bag) {
	file, errs := parser.ParseFile(fileID, toks)
	bag := diag.NewBag()
	for _, e := range errs {
		bag.Add(&diag.Diagnostic{
			Stage:    diag.StageParse,
			Code:     e.Code,
			Severity: diag.SevRecovered,
			Span:     e.Span,
			Message:  e.Message,
		})
	}
	return file, bag
}

// Typecheck runs inference/checking over file, returning the Checker (so
// callers can Apply() it over their own types.Type values, e.g. to build
// a TypeResolver for LowerAndPrint) and a bag of recovered TypeErrors.
func Typecheck(file *ast.File) (*typecheck.Checker, *diag.Bag) {
	checker, errs := typecheck.Check(file)
	bag := diag.NewBag()
	for _, e := range errs {
		bag.Add(&diag.Diagnostic{
			Stage:     diag.StageTypecheck,
			Code:      string(e.Code),
			Severity:  diag.SevRecovered,
			Span:      e.Span,
			Secondary: e.Secondary,
			Message:   e.Message,
		})
	}
	return checker, bag
}

// AnalyzeOwnership runs the borrow/move/region checker over file, returning
// the Checker (its RegionTree may be inspected by tooling) and a bag of
// recovered OwnershipErrors (§5).
func AnalyzeOwnership(file *ast.File) (*ownership.Checker, *diag.Bag) {
	checker, errs := ownership.Check(file)
	bag := diag.NewBag()
	for _, e := range errs {
		bag.Add(&diag.Diagnostic{
			Stage:     diag.StageOwnership,
			Code:      bugClassName(e.Class),
			Severity:  diag.SevRecovered,
			Span:      e.Span,
			Secondary: e.Secondary,
			Message:   e.Message,
		})
	}
	return checker, bag
}

// TypeResolver adapts a typecheck.Checker into the ir.TypeResolver lowering
// needs, applying the checker's final substitution before flattening to
// the IR's own narrower TypeRef shape.
func TypeResolver(checker *typecheck.Checker) ir.TypeResolver {
	return func(t types.Type) *ir.TypeRef {
		return flattenType(checker.Apply(t))
	}
}

func flattenType(t types.Type) *ir.TypeRef {
	switch v := t.(type) {
	case *types.Primitive:
		return flattenPrimitive(v)
	case *types.UnitType:
		return &ir.TypeRef{Kind: ir.TUnit}
	case *types.Array:
		return &ir.TypeRef{Kind: ir.TArray, Elem: flattenType(v.Elem), Len: v.Len}
	case *types.Ref:
		return &ir.TypeRef{Kind: ir.TPtr, Elem: flattenType(v.Elem)}
	case *types.Nullable:
		return flattenType(v.Elem)
	case *types.Struct:
		return &ir.TypeRef{Kind: ir.TStruct, Name: v.Name}
	case *types.Enum:
		return &ir.TypeRef{Kind: ir.TStruct, Name: v.Name}
	default:
		return &ir.TypeRef{Kind: ir.TInt, Bits: 32}
	}
}

func flattenPrimitive(p *types.Primitive) *ir.TypeRef {
	switch p {
	case types.Bool:
		return &ir.TypeRef{Kind: ir.TBool}
	case types.F32:
		return &ir.TypeRef{Kind: ir.TFloat, Bits: 32}
	case types.F64:
		return &ir.TypeRef{Kind: ir.TFloat, Bits: 64}
	case types.I8:
		return &ir.TypeRef{Kind: ir.TInt, Bits: 8}
	case types.U8:
		return &ir.TypeRef{Kind: ir.TInt, Bits: 8, Unsig: true}
	case types.I16:
		return &ir.TypeRef{Kind: ir.TInt, Bits: 16}
	case types.U16:
		return &ir.TypeRef{Kind: ir.TInt, Bits: 16, Unsig: true}
	case types.I32:
		return &ir.TypeRef{Kind: ir.TInt, Bits: 32}
	case types.U32:
		return &ir.TypeRef{Kind: ir.TInt, Bits: 32, Unsig: true}
	case types.I64:
		return &ir.TypeRef{Kind: ir.TInt, Bits: 64}
	case types.U64:
		return &ir.TypeRef{Kind: ir.TInt, Bits: 64, Unsig: true}
	default:
		return &ir.TypeRef{Kind: ir.TInt, Bits: 32}
	}
}

// LowerOptions toggles the optional passes LowerAndPrint runs between
// lowering and printing.
type LowerOptions struct {
	Optimize bool // fold constants (§8 scenario 5's constant-folding requirement)
	Verify   bool // run internal/ir.Verify's structural sanity pass before printing
}

// DefaultLowerOptions matches the demo driver's stated defaults: both
// optional passes on.
func DefaultLowerOptions() LowerOptions { return LowerOptions{Optimize: true, Verify: true} }

// LowerAndPrint lowers a checked file to IR, optionally optimizes and
// verifies it, and prints deterministic LLVM IR text (§6.2's fifth entry
// point). A function that fails to lower is simply omitted from the
// result (§7's "fatal for function" semantics), reported as a diag with
// SevFatalFunction.
func LowerAndPrint(file *ast.File, resolve ir.TypeResolver, cfg llvmir.Config, opts LowerOptions) (string, *diag.Bag) {
	bag := diag.NewBag()

	prog, lowerErrs := ir.Lower(file, resolve)
	for _, e := range lowerErrs {
		bag.Add(&diag.Diagnostic{
			Stage:    diag.StageLower,
			Code:     "UnsupportedConstruct",
			Severity: diag.SevFatalFunction,
			Message:  e.Item + ": " + e.Message,
		})
	}

	if opts.Optimize {
		ir.FoldConstants(prog)
	}

	if opts.Verify {
		for _, e := range ir.Verify(prog) {
			bag.Add(&diag.Diagnostic{
				Stage:    diag.StageLower,
				Code:     "VerifyError",
				Severity: diag.SevFatalFunction,
				Message:  e.Function + "/" + e.Block + ": " + e.Message,
			})
		}
	}

	text, printErrs := llvmir.Print(prog, cfg)
	for _, e := range printErrs {
		bag.Add(&diag.Diagnostic{
			Stage:    diag.StagePrint,
			Code:     "UnsupportedConstruct",
			Severity: diag.SevFatalFunction,
			Message:  e.Error(),
		})
	}
	return text, bag
}
