package parser

import (
	"github.com/seenlang/seenc/internal/ast"
	"github.com/seenlang/seenc/internal/span"
	"github.com/seenlang/seenc/internal/token"
)

// parsePattern parses a pattern-position node (§3.5): wildcard, binding,
// literal, tuple, struct, or enum-variant, each optionally wrapped by
// parseMatch's own guard handling above this function.
func (p *Parser) parsePattern() ast.Pattern {
	id := p.nextID()
	start := p.cur().Span

	switch p.cur().Kind {
	case token.UNDERSCORE:
		p.advance()
		return &ast.WildcardPattern{Base: ast.Base{ID: id, Span: start}}
	case token.INT, token.FLOAT, token.STRING, token.CHAR, token.BOOL, token.KW_NULL:
		lit := p.parsePrimary()
		return &ast.LiteralPattern{Base: ast.Base{ID: id, Span: lit.NodeSpan()}, Value: lit}
	case token.LPAREN:
		p.advance()
		p.skipNewlines()
		var elems []ast.Pattern
		for !p.check(token.RPAREN) && !p.check(token.EOF) {
			elems = append(elems, p.parsePattern())
			p.skipNewlines()
			if !p.match(token.COMMA) {
				break
			}
			p.skipNewlines()
		}
		p.expect(token.RPAREN)
		return &ast.TuplePattern{Base: ast.Base{ID: id, Span: span.Join(start, p.cur().Span)}, Elems: elems}
	case token.KW_MUT:
		p.advance()
		name := p.identName()
		return &ast.IdentPattern{Base: ast.Base{ID: id, Span: span.Join(start, p.cur().Span)}, Name: name, Mut: true}
	case token.IDENT:
		return p.parsePathOrBindingPattern(id, start)
	default:
		p.errorf(p.cur().Span, "parser/expect-pattern", "expected a pattern, found %s", p.cur().Kind)
		p.advance()
		return &ast.WildcardPattern{Base: ast.Base{ID: id, Span: start}}
	}
}

// parsePathOrBindingPattern disambiguates a plain identifier binding
// (`x`) from a path that names a struct (`Point { x, y }`) or enum variant
// (`Some(x)` / `Option::Some(x)`).
func (p *Parser) parsePathOrBindingPattern(id ast.NodeID, start span.Span) ast.Pattern {
	name := p.identName()
	path := []string{name}
	for p.match(token.COLON_COLON) {
		path = append(path, p.identName())
	}

	switch p.cur().Kind {
	case token.LBRACE:
		p.advance()
		p.skipNewlines()
		var fields []ast.FieldPattern
		rest := false
		for !p.check(token.RBRACE) && !p.check(token.EOF) {
			if p.check(token.DOT_DOT) {
				p.advance()
				rest = true
				break
			}
			fid := p.nextID()
			fstart := p.cur().Span
			fname := p.identName()
			var fpat ast.Pattern
			if p.match(token.COLON) {
				fpat = p.parsePattern()
			} else {
				fpat = &ast.IdentPattern{Base: ast.Base{ID: p.nextID(), Span: fstart}, Name: fname}
			}
			fields = append(fields, ast.FieldPattern{Base: ast.Base{ID: fid, Span: span.Join(fstart, p.cur().Span)}, Name: fname, Pattern: fpat})
			p.skipNewlines()
			if !p.match(token.COMMA) {
				break
			}
			p.skipNewlines()
		}
		p.expect(token.RBRACE)
		return &ast.StructPattern{Base: ast.Base{ID: id, Span: span.Join(start, p.cur().Span)}, Path: path, Fields: fields, Rest: rest}
	case token.LPAREN:
		p.advance()
		p.skipNewlines()
		var elems []ast.Pattern
		for !p.check(token.RPAREN) && !p.check(token.EOF) {
			elems = append(elems, p.parsePattern())
			p.skipNewlines()
			if !p.match(token.COMMA) {
				break
			}
			p.skipNewlines()
		}
		p.expect(token.RPAREN)
		return &ast.VariantPattern{Base: ast.Base{ID: id, Span: span.Join(start, p.cur().Span)}, Path: path, Fields: elems}
	default:
		if len(path) > 1 {
			return &ast.VariantPattern{Base: ast.Base{ID: id, Span: span.Join(start, p.cur().Span)}, Path: path}
		}
		return &ast.IdentPattern{Base: ast.Base{ID: id, Span: span.Join(start, p.cur().Span)}, Name: name}
	}
}
