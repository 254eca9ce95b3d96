// Package parser implements a hand-written recursive-descent parser with a
// Pratt-precedence expression parser: a curToken/peekToken cursor with a
// synchronize-on-error recovery idiom, and a twelve-level operator
// precedence ladder.
package parser

import (
	"fmt"

	"github.com/seenlang/seenc/internal/ast"
	"github.com/seenlang/seenc/internal/span"
	"github.com/seenlang/seenc/internal/token"
)

// maxNestingDepth is the boundary enforced by §8: input nested deeper than
// 128 levels is rejected with a diagnostic rather than overflowing the
// recursive descent.
const maxNestingDepth = 128

// ParseError is recovered: the parser records it and attempts to
// synchronize to the next statement/item boundary rather than aborting.
type ParseError struct {
	Span    span.Span
	Message string
	Code    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at %s: %s", e.Span, e.Message)
}

// Parser consumes a token stream (produced by internal/lexer, with
// COMMENT tokens already filtered out by the caller or here) and builds an
// ast.File.
type Parser struct {
	fileID span.FileID
	toks   []token.Token
	pos    int
	ids    *ast.IDGen
	errs   []*ParseError
	depth  int
}

// New returns a Parser over toks (NEWLINE-sensitive; COMMENT tokens are
// filtered out here so callers need not pre-filter).
func New(fileID span.FileID, toks []token.Token) *Parser {
	filtered := make([]token.Token, 0, len(toks))
	for _, t := range toks {
		if t.Kind != token.COMMENT {
			filtered = append(filtered, t)
		}
	}
	return &Parser{fileID: fileID, toks: filtered, ids: &ast.IDGen{}}
}

// ParseFile parses a complete source file into an *ast.File, returning any
// recovered parse errors alongside the best-effort AST (§4 "errors are
// recovered, not fatal").
func ParseFile(fileID span.FileID, toks []token.Token) (*ast.File, []*ParseError) {
	p := New(fileID, toks)
	file := p.parseFile()
	return file, p.errs
}

// ---- token cursor -----------------------------------------------------------

func (p *Parser) cur() token.Token {
	if p.pos >= len(p.toks) {
		return token.Token{Kind: token.EOF}
	}
	return p.toks[p.pos]
}

func (p *Parser) peekAt(ahead int) token.Token {
	i := p.pos + ahead
	if i >= len(p.toks) {
		return token.Token{Kind: token.EOF}
	}
	return p.toks[i]
}

func (p *Parser) advance() token.Token {
	t := p.cur()
	if p.pos < len(p.toks) {
		p.pos++
	}
	return t
}

func (p *Parser) check(k token.Kind) bool { return p.cur().Kind == k }

func (p *Parser) match(k token.Kind) bool {
	if p.check(k) {
		p.advance()
		return true
	}
	return false
}

// skipNewlines consumes any run of NEWLINE tokens; used at points where a
// line break is insignificant (inside parens/brackets, after binary
// operators, before `{`).
func (p *Parser) skipNewlines() {
	for p.check(token.NEWLINE) {
		p.advance()
	}
}

func (p *Parser) expect(k token.Kind) (token.Token, bool) {
	if p.check(k) {
		return p.advance(), true
	}
	p.errorf(p.cur().Span, "parser/expect", "expected %s, found %s", k, p.cur().Kind)
	return p.cur(), false
}

func (p *Parser) errorf(sp span.Span, code, format string, args ...interface{}) {
	p.errs = append(p.errs, &ParseError{Span: sp, Code: code, Message: fmt.Sprintf(format, args...)})
}

func (p *Parser) nextID() ast.NodeID { return p.ids.Next() }

func (p *Parser) enter() bool {
	p.depth++
	if p.depth > maxNestingDepth {
		p.errorf(p.cur().Span, "parser/max-depth", "maximum nesting depth (%d) exceeded", maxNestingDepth)
		return false
	}
	return true
}

func (p *Parser) leave() { p.depth-- }

// synchronize skips tokens until a plausible statement/item boundary:
// fun/struct/enum/class/trait/impl/let/var or a depth-0 closing brace.
func (p *Parser) synchronize() {
	depth := 0
	for !p.check(token.EOF) {
		switch p.cur().Kind {
		case token.LBRACE:
			depth++
		case token.RBRACE:
			if depth == 0 {
				return
			}
			depth--
		case token.KW_FUN, token.KW_STRUCT, token.KW_ENUM, token.KW_CLASS,
			token.KW_TRAIT, token.KW_IMPL, token.KW_LET, token.KW_VAR:
			if depth == 0 {
				return
			}
		}
		p.advance()
	}
}

// ---- top level --------------------------------------------------------------

func (p *Parser) parseFile() *ast.File {
	id := p.nextID()
	start := p.cur().Span
	var items []ast.Item
	p.skipNewlines()
	for !p.check(token.EOF) {
		if item := p.parseItemRecovering(); item != nil {
			items = append(items, item)
		}
		p.skipNewlines()
	}
	end := start
	if len(items) > 0 {
		end = items[len(items)-1].NodeSpan()
	}
	return &ast.File{
		Base:   ast.Base{ID: id, Span: span.Join(start, end)},
		FileID: p.fileID,
		Items:  items,
	}
}

func (p *Parser) parseItemRecovering() ast.Item {
	before := p.pos
	item := p.parseItem()
	if item == nil && p.pos == before {
		// Guard against infinite loops on unrecognized tokens.
		p.errorf(p.cur().Span, "parser/unexpected-token", "unexpected token %s", p.cur().Kind)
		p.advance()
		p.synchronize()
		return nil
	}
	return item
}

func (p *Parser) parseVisibility() ast.Visibility {
	if p.match(token.KW_PUBLIC) {
		return ast.VisPublic
	}
	p.match(token.KW_PRIVATE)
	return ast.VisPrivate
}

func (p *Parser) parseItem() ast.Item {
	vis := p.parseVisibility()
	switch p.cur().Kind {
	case token.KW_FUN:
		return p.parseFunction(vis)
	case token.KW_DATA:
		p.advance()
		if _, ok := p.expect(token.KW_CLASS); !ok {
			p.synchronize()
			return nil
		}
		return p.parseStructLike(vis, true)
	case token.KW_STRUCT:
		return p.parseStructLike(vis, false)
	case token.KW_CLASS:
		return p.parseClass(vis)
	case token.KW_ENUM:
		return p.parseEnum(vis)
	case token.KW_TRAIT, token.KW_INTERFACE:
		return p.parseTrait(vis)
	case token.KW_IMPL:
		return p.parseImpl()
	case token.KW_TYPE:
		return p.parseTypeAlias(vis)
	case token.KW_CONST:
		return p.parseConst(vis)
	case token.KW_STATIC, token.KW_VAR:
		return p.parseGlobal(vis)
	default:
		p.errorf(p.cur().Span, "parser/unexpected-item", "expected item declaration, found %s", p.cur().Kind)
		p.synchronize()
		return nil
	}
}

func (p *Parser) parseGenerics() []ast.GenericParam {
	if !p.match(token.LANGLE) {
		return nil
	}
	var gs []ast.GenericParam
	for !p.check(token.RANGLE) && !p.check(token.EOF) {
		id := p.nextID()
		start := p.cur().Span
		name := p.identName()
		var bounds []ast.Type
		if p.match(token.COLON) {
			bounds = append(bounds, p.parseType())
			for p.match(token.PLUS) {
				bounds = append(bounds, p.parseType())
			}
		}
		gs = append(gs, ast.GenericParam{Base: ast.Base{ID: id, Span: span.Join(start, p.cur().Span)}, Name: name, Bounds: bounds})
		if !p.match(token.COMMA) {
			break
		}
	}
	p.expect(token.RANGLE)
	return gs
}

func (p *Parser) identName() string {
	t := p.cur()
	if t.Kind == token.IDENT {
		p.advance()
		return t.Lexeme
	}
	p.errorf(t.Span, "parser/expect-ident", "expected identifier, found %s", t.Kind)
	return ""
}

func (p *Parser) parseParams() []ast.Param {
	p.expect(token.LPAREN)
	p.skipNewlines()
	var params []ast.Param
	for !p.check(token.RPAREN) && !p.check(token.EOF) {
		id := p.nextID()
		start := p.cur().Span
		if p.check(token.KW_SELF) {
			p.advance()
			params = append(params, ast.Param{Base: ast.Base{ID: id, Span: span.Join(start, p.cur().Span)}, Name: "self"})
		} else {
			name := p.identName()
			var typ ast.Type
			if p.match(token.COLON) {
				typ = p.parseType()
			}
			var def ast.Expr
			if p.match(token.ASSIGN) {
				def = p.parseExpr()
			}
			params = append(params, ast.Param{
				Base: ast.Base{ID: id, Span: span.Join(start, p.cur().Span)},
				Name: name, Type: typ, Default: def,
			})
		}
		p.skipNewlines()
		if !p.match(token.COMMA) {
			break
		}
		p.skipNewlines()
	}
	p.skipNewlines()
	p.expect(token.RPAREN)
	return params
}

// parseFunction parses `fun name(...) -> Ret { body }`, including the
// extension-function form `fun Receiver.name(...)` (§3.3).
func (p *Parser) parseFunction(vis ast.Visibility) *ast.FunctionItem {
	id := p.nextID()
	start := p.cur().Span
	p.expect(token.KW_FUN)
	generics := p.parseGenerics()

	name := p.identName()
	var ext ast.Type
	if p.match(token.DOT) {
		ext = &ast.NamedType{Base: ast.Base{ID: p.nextID(), Span: start}, Path: []string{name}}
		name = p.identName()
	}
	if generics == nil {
		generics = p.parseGenerics()
	}

	params := p.parseParams()
	var ret ast.Type
	if p.match(token.ARROW) {
		ret = p.parseType()
	}

	p.skipNewlines()
	var body *ast.BlockExpr
	if p.check(token.LBRACE) {
		body = p.parseBlock()
	} else if p.match(token.ASSIGN) {
		// expression-bodied function sugar: fun f() -> T = expr
		e := p.parseExpr()
		body = &ast.BlockExpr{Base: ast.Base{ID: p.nextID(), Span: e.NodeSpan()}, TailExpr: e}
	}

	return &ast.FunctionItem{
		Base:        ast.Base{ID: id, Span: span.Join(start, p.cur().Span)},
		Vis:         vis,
		Name:        name,
		Generics:    generics,
		ExtensionOf: ext,
		Params:      params,
		ReturnType:  ret,
		Body:        body,
	}
}

func (p *Parser) parseFields() []ast.Field {
	p.expect(token.LBRACE)
	p.skipNewlines()
	var fields []ast.Field
	for !p.check(token.RBRACE) && !p.check(token.EOF) {
		id := p.nextID()
		start := p.cur().Span
		fvis := p.parseVisibility()
		name := p.identName()
		p.expect(token.COLON)
		typ := p.parseType()
		fields = append(fields, ast.Field{Base: ast.Base{ID: id, Span: span.Join(start, p.cur().Span)}, Vis: fvis, Name: name, Type: typ})
		p.skipNewlines()
		if !p.match(token.COMMA) {
			p.skipNewlines()
			continue
		}
		p.skipNewlines()
	}
	p.expect(token.RBRACE)
	return fields
}

func (p *Parser) parseStructLike(vis ast.Visibility, dataClass bool) *ast.StructItem {
	id := p.nextID()
	start := p.cur().Span
	if !dataClass {
		p.expect(token.KW_STRUCT)
	}
	name := p.identName()
	generics := p.parseGenerics()
	fields := p.parseFields()
	return &ast.StructItem{
		Base: ast.Base{ID: id, Span: span.Join(start, p.cur().Span)},
		Vis: vis, Name: name, Generics: generics, Fields: fields, DataClass: dataClass,
	}
}

func (p *Parser) parseClass(vis ast.Visibility) *ast.ClassItem {
	id := p.nextID()
	start := p.cur().Span
	p.expect(token.KW_CLASS)
	name := p.identName()
	generics := p.parseGenerics()
	p.expect(token.LBRACE)
	p.skipNewlines()
	var fields []ast.Field
	var methods []*ast.FunctionItem
	for !p.check(token.RBRACE) && !p.check(token.EOF) {
		if p.check(token.KW_FUN) || p.check(token.KW_PUBLIC) || p.check(token.KW_PRIVATE) {
			mvis := p.parseVisibility()
			if p.check(token.KW_FUN) {
				methods = append(methods, p.parseFunction(mvis))
				p.skipNewlines()
				continue
			}
		}
		fid := p.nextID()
		fstart := p.cur().Span
		fvis := p.parseVisibility()
		fname := p.identName()
		p.expect(token.COLON)
		ftype := p.parseType()
		fields = append(fields, ast.Field{Base: ast.Base{ID: fid, Span: span.Join(fstart, p.cur().Span)}, Vis: fvis, Name: fname, Type: ftype})
		p.skipNewlines()
		p.match(token.COMMA)
		p.skipNewlines()
	}
	p.expect(token.RBRACE)
	return &ast.ClassItem{
		Base: ast.Base{ID: id, Span: span.Join(start, p.cur().Span)},
		Vis: vis, Name: name, Generics: generics, Fields: fields, Methods: methods,
	}
}

func (p *Parser) parseEnum(vis ast.Visibility) *ast.EnumItem {
	id := p.nextID()
	start := p.cur().Span
	p.expect(token.KW_ENUM)
	name := p.identName()
	generics := p.parseGenerics()
	p.expect(token.LBRACE)
	p.skipNewlines()
	var variants []ast.EnumVariant
	for !p.check(token.RBRACE) && !p.check(token.EOF) {
		vid := p.nextID()
		vstart := p.cur().Span
		vname := p.identName()
		var fields []ast.Field
		if p.match(token.LPAREN) {
			for !p.check(token.RPAREN) && !p.check(token.EOF) {
				fid := p.nextID()
				fstart := p.cur().Span
				ftype := p.parseType()
				fields = append(fields, ast.Field{Base: ast.Base{ID: fid, Span: span.Join(fstart, p.cur().Span)}, Type: ftype})
				if !p.match(token.COMMA) {
					break
				}
			}
			p.expect(token.RPAREN)
		}
		variants = append(variants, ast.EnumVariant{Base: ast.Base{ID: vid, Span: span.Join(vstart, p.cur().Span)}, Name: vname, Fields: fields})
		p.skipNewlines()
		if !p.match(token.COMMA) {
			p.skipNewlines()
			continue
		}
		p.skipNewlines()
	}
	p.expect(token.RBRACE)
	return &ast.EnumItem{Base: ast.Base{ID: id, Span: span.Join(start, p.cur().Span)}, Vis: vis, Name: name, Generics: generics, Variants: variants}
}

func (p *Parser) parseTrait(vis ast.Visibility) *ast.TraitItem {
	id := p.nextID()
	start := p.cur().Span
	p.advance() // trait | interface
	name := p.identName()
	generics := p.parseGenerics()
	p.expect(token.LBRACE)
	p.skipNewlines()
	var methods []*ast.FunctionItem
	for !p.check(token.RBRACE) && !p.check(token.EOF) {
		mvis := p.parseVisibility()
		methods = append(methods, p.parseFunction(mvis))
		p.skipNewlines()
	}
	p.expect(token.RBRACE)
	return &ast.TraitItem{Base: ast.Base{ID: id, Span: span.Join(start, p.cur().Span)}, Vis: vis, Name: name, Generics: generics, Methods: methods}
}

func (p *Parser) parseImpl() *ast.ImplItem {
	id := p.nextID()
	start := p.cur().Span
	p.expect(token.KW_IMPL)
	generics := p.parseGenerics()
	first := p.parseType()
	var traitType, forType ast.Type
	if p.match(token.KW_FOR) {
		traitType = first
		forType = p.parseType()
	} else {
		forType = first
	}
	p.expect(token.LBRACE)
	p.skipNewlines()
	var methods []*ast.FunctionItem
	for !p.check(token.RBRACE) && !p.check(token.EOF) {
		mvis := p.parseVisibility()
		methods = append(methods, p.parseFunction(mvis))
		p.skipNewlines()
	}
	p.expect(token.RBRACE)
	return &ast.ImplItem{Base: ast.Base{ID: id, Span: span.Join(start, p.cur().Span)}, Generics: generics, Trait: traitType, ForType: forType, Methods: methods}
}

func (p *Parser) parseTypeAlias(vis ast.Visibility) *ast.TypeAliasItem {
	id := p.nextID()
	start := p.cur().Span
	p.expect(token.KW_TYPE)
	name := p.identName()
	generics := p.parseGenerics()
	p.expect(token.ASSIGN)
	aliased := p.parseType()
	return &ast.TypeAliasItem{Base: ast.Base{ID: id, Span: span.Join(start, p.cur().Span)}, Vis: vis, Name: name, Generics: generics, Aliased: aliased}
}

func (p *Parser) parseConst(vis ast.Visibility) *ast.ConstItem {
	id := p.nextID()
	start := p.cur().Span
	p.expect(token.KW_CONST)
	name := p.identName()
	var typ ast.Type
	if p.match(token.COLON) {
		typ = p.parseType()
	}
	p.expect(token.ASSIGN)
	val := p.parseExpr()
	return &ast.ConstItem{Base: ast.Base{ID: id, Span: span.Join(start, p.cur().Span)}, Vis: vis, Name: name, Type: typ, Value: val}
}

func (p *Parser) parseGlobal(vis ast.Visibility) *ast.GlobalItem {
	id := p.nextID()
	start := p.cur().Span
	mut := p.match(token.KW_VAR)
	if !mut {
		p.expect(token.KW_STATIC)
		mut = p.match(token.KW_MUT)
	}
	name := p.identName()
	var typ ast.Type
	if p.match(token.COLON) {
		typ = p.parseType()
	}
	p.expect(token.ASSIGN)
	val := p.parseExpr()
	return &ast.GlobalItem{Base: ast.Base{ID: id, Span: span.Join(start, p.cur().Span)}, Vis: vis, Name: name, Mut: mut, Type: typ, Value: val}
}

// ---- types -------------------------------------------------------------------

var primitiveNames = map[string]bool{
	"i8": true, "i16": true, "i32": true, "i64": true,
	"u8": true, "u16": true, "u32": true, "u64": true,
	"f32": true, "f64": true, "bool": true, "char": true, "str": true, "unit": true,
}

func (p *Parser) parseType() ast.Type {
	if !p.enter() {
		return &ast.InferType{Base: ast.Base{ID: p.nextID(), Span: p.cur().Span}}
	}
	defer p.leave()

	t := p.parseTypeAtom()
	for p.check(token.QUESTION) {
		start := t.NodeSpan()
		p.advance()
		if _, isNullable := t.(*ast.NullableType); isNullable {
			p.errorf(p.cur().Span, "parser/nested-nullable", "nested nullable type is not allowed")
			continue
		}
		t = &ast.NullableType{Base: ast.Base{ID: p.nextID(), Span: span.Join(start, p.cur().Span)}, Elem: t}
	}
	return t
}

func (p *Parser) parseTypeAtom() ast.Type {
	id := p.nextID()
	start := p.cur().Span
	switch p.cur().Kind {
	case token.AMP:
		p.advance()
		mut := p.match(token.KW_MUT)
		elem := p.parseType()
		return &ast.RefType{Base: ast.Base{ID: id, Span: span.Join(start, p.cur().Span)}, Mut: mut, Elem: elem}
	case token.LPAREN:
		p.advance()
		// Disambiguate fn type `(T1, T2) -> R` from tuple type `(T1, T2)`.
		var elems []ast.Type
		for !p.check(token.RPAREN) && !p.check(token.EOF) {
			elems = append(elems, p.parseType())
			if !p.match(token.COMMA) {
				break
			}
		}
		p.expect(token.RPAREN)
		if p.match(token.ARROW) {
			ret := p.parseType()
			return &ast.FnType{Base: ast.Base{ID: id, Span: span.Join(start, p.cur().Span)}, Params: elems, Ret: ret}
		}
		return &ast.TupleType{Base: ast.Base{ID: id, Span: span.Join(start, p.cur().Span)}, Elems: elems}
	case token.LBRACKET:
		p.advance()
		elem := p.parseType()
		p.expect(token.SEMICOLON)
		lenTok, _ := p.expect(token.INT)
		p.expect(token.RBRACKET)
		return &ast.ArrayType{Base: ast.Base{ID: id, Span: span.Join(start, p.cur().Span)}, Elem: elem, Len: lenTok.IntVal}
	case token.UNDERSCORE:
		p.advance()
		return &ast.InferType{Base: ast.Base{ID: id, Span: span.Join(start, p.cur().Span)}}
	case token.IDENT:
		name := p.identName()
		if primitiveNames[name] {
			return &ast.PrimitiveType{Base: ast.Base{ID: id, Span: span.Join(start, p.cur().Span)}, Name: name}
		}
		path := []string{name}
		for p.match(token.COLON_COLON) {
			path = append(path, p.identName())
		}
		var args []ast.Type
		if p.match(token.LANGLE) {
			for !p.check(token.RANGLE) && !p.check(token.EOF) {
				args = append(args, p.parseType())
				if !p.match(token.COMMA) {
					break
				}
			}
			p.expect(token.RANGLE)
		}
		return &ast.NamedType{Base: ast.Base{ID: id, Span: span.Join(start, p.cur().Span)}, Path: path, Args: args}
	default:
		p.errorf(p.cur().Span, "parser/expect-type", "expected a type, found %s", p.cur().Kind)
		return &ast.InferType{Base: ast.Base{ID: id, Span: start}}
	}
}
