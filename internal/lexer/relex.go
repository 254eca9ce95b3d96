package lexer

import (
	"github.com/seenlang/seenc/internal/langpack"
	"github.com/seenlang/seenc/internal/span"
	"github.com/seenlang/seenc/internal/token"
)

// RelexInterpolations walks a completed token stream and, for every
// STR_EXPR segment, tokenizes its raw text a second time through the same
// language pack, shifting every resulting span back into the enclosing
// file's coordinates so the parser can build real sub-expressions from
// real tokens instead of reparsing a string (§3.2). Nested interpolations
// inside a segment are relexed
// recursively. toks is mutated in place and returned for convenience.
func RelexInterpolations(toks []token.Token, fileID span.FileID, pack *langpack.Pack) ([]token.Token, error) {
	for i := range toks {
		if toks[i].Kind != token.STR_EXPR || toks[i].StrVal == "" {
			continue
		}
		sub, err := Tokenize(fileID, toks[i].StrVal, pack)
		if err != nil {
			return nil, err
		}
		shiftTokens(sub, toks[i].Span.Start)
		sub, err = RelexInterpolations(sub, fileID, pack)
		if err != nil {
			return nil, err
		}
		toks[i].SubTokens = sub
	}
	return toks, nil
}

// shiftTokens rewrites every span in toks, produced by tokenizing a bare
// substring starting at (line 1, col 1, offset 0), into the coordinate
// space of the enclosing file whose matching text actually begins at
// origin.
func shiftTokens(toks []token.Token, origin span.Position) {
	for i := range toks {
		toks[i].Span.Start = shiftPos(origin, toks[i].Span.Start)
		toks[i].Span.End = shiftPos(origin, toks[i].Span.End)
	}
}

func shiftPos(origin, p span.Position) span.Position {
	if p.Line == 1 {
		return span.Position{Line: origin.Line, Column: origin.Column + p.Column - 1, Offset: origin.Offset + p.Offset}
	}
	return span.Position{Line: origin.Line + p.Line - 1, Column: p.Column, Offset: origin.Offset + p.Offset}
}
