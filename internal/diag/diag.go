// Package diag unifies the per-stage error taxonomy (§7) behind one
// machine-readable shape, wrapping the ad hoc error types each pipeline
// stage already defines (lexer.LexicalError, parser.ParseError,
// typecheck.TypeError, ownership.OwnershipError, ir.LoweringError,
// ir.VerifyError, llvmir.UnsupportedConstructError) behind a Diagnostic
// that carries a primary span, secondary spans, and a severity drawn
// directly from §7's recovered-vs-fatal table.
package diag

import (
	"fmt"

	"github.com/seenlang/seenc/internal/span"
)

// Severity distinguishes a recovered diagnostic (checking continues) from
// one that is fatal for its enclosing unit (§7).
type Severity int

const (
	// SevRecovered is a diagnostic the stage continues past: ParseError,
	// TypeError, OwnershipError.
	SevRecovered Severity = iota
	// SevFatalFile is fatal for the whole file being processed: LexicalError.
	SevFatalFile
	// SevFatalFunction is fatal only for the offending function/item:
	// LoweringError, RegionError.
	SevFatalFunction
)

func (s Severity) String() string {
	switch s {
	case SevFatalFile:
		return "fatal(file)"
	case SevFatalFunction:
		return "fatal(function)"
	default:
		return "recovered"
	}
}

// Stage names which pipeline phase produced a Diagnostic, mirroring the
// five public entry points (§6.2).
type Stage string

const (
	StageLex         Stage = "lex"
	StageParse       Stage = "parse"
	StageTypecheck   Stage = "typecheck"
	StageOwnership   Stage = "ownership"
	StageLower       Stage = "lower"
	StagePrint       Stage = "print"
)

// Diagnostic is the unified, printable shape every stage-specific error is
// normalized into before being handed back across a public API boundary.
type Diagnostic struct {
	Stage     Stage
	Code      string
	Severity  Severity
	Span      span.Span
	Secondary []span.Span
	Message   string
}

func (d *Diagnostic) Error() string {
	return fmt.Sprintf("%s[%s] %s: %s", d.Stage, d.Code, d.Span, d.Message)
}

// Bag accumulates Diagnostics across a whole compile, in the order they
// were produced, and reports whether any of them was fatal (as opposed to
// merely recovered).
type Bag struct {
	diags []*Diagnostic
}

func NewBag() *Bag { return &Bag{} }

func (b *Bag) Add(d *Diagnostic) { b.diags = append(b.diags, d) }

func (b *Bag) All() []*Diagnostic { return b.diags }

func (b *Bag) HasFatal() bool {
	for _, d := range b.diags {
		if d.Severity != SevRecovered {
			return true
		}
	}
	return false
}

func (b *Bag) Len() int { return len(b.diags) }

// Merge appends every diagnostic from other onto b, in order.
func (b *Bag) Merge(other *Bag) {
	if other == nil {
		return
	}
	b.diags = append(b.diags, other.diags...)
}
