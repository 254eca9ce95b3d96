package parser

import (
	"github.com/seenlang/seenc/internal/ast"
	"github.com/seenlang/seenc/internal/span"
	"github.com/seenlang/seenc/internal/token"
)

// precedence levels, lowest to highest, exactly matching §4.2:
//   assignment (right) < elvis (right) < logical-or < logical-and <
//   equality < comparison < range < additive < multiplicative < unary <
//   power/cast < postfix
const (
	precNone = iota
	precAssignment
	precElvis
	precLogicalOr
	precLogicalAnd
	precEquality
	precComparison
	precRange
	precAdditive
	precMultiplicative
	precUnary
	precCast
	precPostfix
)

func binOpPrec(k token.Kind) (int, ast.BinaryOp, bool) {
	switch k {
	case token.OR_OR:
		return precLogicalOr, ast.OpOr, true
	case token.AND_AND:
		return precLogicalAnd, ast.OpAnd, true
	case token.EQ:
		return precEquality, ast.OpEq, true
	case token.NEQ:
		return precEquality, ast.OpNeq, true
	case token.LANGLE:
		return precComparison, ast.OpLt, true
	case token.LTE:
		return precComparison, ast.OpLte, true
	case token.RANGLE:
		return precComparison, ast.OpGt, true
	case token.GTE:
		return precComparison, ast.OpGte, true
	case token.DOT_DOT:
		return precRange, ast.OpRangeInclusive, true
	case token.DOT_DOT_LT:
		return precRange, ast.OpRangeExclusive, true
	case token.PLUS:
		return precAdditive, ast.OpAdd, true
	case token.MINUS:
		return precAdditive, ast.OpSub, true
	case token.STAR:
		return precMultiplicative, ast.OpMul, true
	case token.SLASH:
		return precMultiplicative, ast.OpDiv, true
	case token.PERCENT:
		return precMultiplicative, ast.OpRem, true
	case token.AMP:
		return precMultiplicative, ast.OpBitAnd, true
	case token.PIPE:
		return precMultiplicative, ast.OpBitOr, true
	case token.CARET:
		return precMultiplicative, ast.OpBitXor, true
	case token.LSHIFT:
		return precMultiplicative, ast.OpShl, true
	case token.RSHIFT:
		return precMultiplicative, ast.OpShr, true
	default:
		return precNone, 0, false
	}
}

// parseExpr is the entry point for the Pratt parser, starting at the
// lowest (assignment) precedence level.
func (p *Parser) parseExpr() ast.Expr {
	if !p.enter() {
		return &ast.NullLit{Base: ast.Base{ID: p.nextID(), Span: p.cur().Span}}
	}
	defer p.leave()
	return p.parseAssignment()
}

// parseAssignment handles `target = value` and compound forms; right-
// associative, lowest precedence.
func (p *Parser) parseAssignment() ast.Expr {
	lhs := p.parseElvis()
	var op ast.AssignOp
	switch p.cur().Kind {
	case token.ASSIGN:
		op = ast.AssignPlain
	case token.PLUS_EQ:
		op = ast.AssignAdd
	case token.MINUS_EQ:
		op = ast.AssignSub
	case token.STAR_EQ:
		op = ast.AssignMul
	case token.SLASH_EQ:
		op = ast.AssignDiv
	case token.PERCENT_EQ:
		op = ast.AssignRem
	default:
		return lhs
	}
	p.advance()
	p.skipNewlines()
	value := p.parseAssignment() // right-associative
	return &ast.AssignExpr{Base: ast.Base{ID: p.nextID(), Span: span.Join(lhs.NodeSpan(), value.NodeSpan())}, Op: op, Target: lhs, Value: value}
}

// parseElvis handles the right-associative `?:` operator.
func (p *Parser) parseElvis() ast.Expr {
	lhs := p.parseBinary(precLogicalOr)
	if p.check(token.ELVIS) {
		p.advance()
		p.skipNewlines()
		rhs := p.parseElvis() // right-associative
		return &ast.BinaryExpr{Base: ast.Base{ID: p.nextID(), Span: span.Join(lhs.NodeSpan(), rhs.NodeSpan())}, Op: ast.OpElvis, LHS: lhs, RHS: rhs}
	}
	return lhs
}

// parseBinary implements standard left-associative Pratt climbing for all
// levels between logical-or and multiplicative inclusive.
func (p *Parser) parseBinary(minPrec int) ast.Expr {
	lhs := p.parseUnary()
	for {
		prec, op, ok := binOpPrec(p.cur().Kind)
		if !ok || prec < minPrec {
			return lhs
		}
		p.advance()
		p.skipNewlines()
		rhs := p.parseBinaryAtLeast(prec + 1)
		lhs = &ast.BinaryExpr{Base: ast.Base{ID: p.nextID(), Span: span.Join(lhs.NodeSpan(), rhs.NodeSpan())}, Op: op, LHS: lhs, RHS: rhs}
	}
}

func (p *Parser) parseBinaryAtLeast(minPrec int) ast.Expr {
	lhs := p.parseUnary()
	for {
		prec, op, ok := binOpPrec(p.cur().Kind)
		if !ok || prec < minPrec {
			return lhs
		}
		p.advance()
		p.skipNewlines()
		rhs := p.parseBinaryAtLeast(prec + 1)
		lhs = &ast.BinaryExpr{Base: ast.Base{ID: p.nextID(), Span: span.Join(lhs.NodeSpan(), rhs.NodeSpan())}, Op: op, LHS: lhs, RHS: rhs}
	}
}

// parseUnary handles prefix `-`, `!`, `not`, and `move`.
func (p *Parser) parseUnary() ast.Expr {
	id := p.nextID()
	start := p.cur().Span
	switch p.cur().Kind {
	case token.MINUS:
		p.advance()
		x := p.parseUnary()
		return &ast.UnaryExpr{Base: ast.Base{ID: id, Span: span.Join(start, x.NodeSpan())}, Op: ast.OpNeg, Operand: x}
	case token.BANG:
		p.advance()
		x := p.parseUnary()
		return &ast.UnaryExpr{Base: ast.Base{ID: id, Span: span.Join(start, x.NodeSpan())}, Op: ast.OpNot, Operand: x}
	case token.KW_NOT:
		p.advance()
		x := p.parseUnary()
		return &ast.UnaryExpr{Base: ast.Base{ID: id, Span: span.Join(start, x.NodeSpan())}, Op: ast.OpNot, Operand: x}
	case token.TILDE:
		p.advance()
		x := p.parseUnary()
		return &ast.UnaryExpr{Base: ast.Base{ID: id, Span: span.Join(start, x.NodeSpan())}, Op: ast.OpBitNot, Operand: x}
	case token.KW_MOVE:
		p.advance()
		x := p.parseUnary()
		return &ast.UnaryExpr{Base: ast.Base{ID: id, Span: span.Join(start, x.NodeSpan())}, Op: ast.OpMove, Operand: x}
	default:
		return p.parseCast()
	}
}

// parseCast handles `expr as Type` / `expr is Type`, just above unary.
func (p *Parser) parseCast() ast.Expr {
	x := p.parsePostfix()
	for {
		switch p.cur().Kind {
		case token.KW_AS:
			p.advance()
			t := p.parseType()
			x = &ast.CastExpr{Base: ast.Base{ID: p.nextID(), Span: span.Join(x.NodeSpan(), t.NodeSpan())}, X: x, Type: t}
		case token.KW_IS:
			p.advance()
			t := p.parseType()
			x = &ast.IsExpr{Base: ast.Base{ID: p.nextID(), Span: span.Join(x.NodeSpan(), t.NodeSpan())}, X: x, Type: t}
		default:
			return x
		}
	}
}

// parsePostfix handles `.`/`?.` field access, `(...)` calls (with trailing
// lambda sugar), `[...]` indexing, and postfix `!!`.
func (p *Parser) parsePostfix() ast.Expr {
	x := p.parsePrimary()
	for {
		switch p.cur().Kind {
		case token.DOT, token.QUESTION_DOT:
			safe := p.cur().Kind == token.QUESTION_DOT
			p.advance()
			name := p.identName()
			x = &ast.FieldExpr{Base: ast.Base{ID: p.nextID(), Span: span.Join(x.NodeSpan(), p.cur().Span)}, Receiver: x, Name: name, Safe: safe}
		case token.LPAREN:
			x = p.parseCall(x)
		case token.LBRACE:
			// Trailing-lambda sugar: `foo(x) { ... }` / `foo { ... }`. Only
			// applies right after a call-like primary (ident/field/call).
			if !p.canTakeTrailingLambda(x) {
				return x
			}
			lam := p.parseClosureBlock()
			if call, ok := x.(*ast.CallExpr); ok && call.TrailingLambda == nil {
				call.TrailingLambda = lam
				call.Span = span.Join(call.Span, lam.NodeSpan())
			} else {
				x = &ast.CallExpr{Base: ast.Base{ID: p.nextID(), Span: span.Join(x.NodeSpan(), lam.NodeSpan())}, Callee: x, TrailingLambda: lam}
			}
		case token.LBRACKET:
			p.advance()
			idx := p.parseExpr()
			p.expect(token.RBRACKET)
			x = &ast.IndexExpr{Base: ast.Base{ID: p.nextID(), Span: span.Join(x.NodeSpan(), p.cur().Span)}, Receiver: x, Index: idx}
		case token.BANG_BANG:
			p.advance()
			x = &ast.ForceUnwrapExpr{Base: ast.Base{ID: p.nextID(), Span: span.Join(x.NodeSpan(), p.cur().Span)}, Operand: x}
		default:
			return x
		}
	}
}

// canTakeTrailingLambda restricts trailing-lambda sugar to call-shaped
// receivers, so that e.g. `if cond { ... }` is never misparsed as a call.
func (p *Parser) canTakeTrailingLambda(x ast.Expr) bool {
	switch x.(type) {
	case *ast.CallExpr, *ast.Ident, *ast.FieldExpr:
		return true
	default:
		return false
	}
}

func (p *Parser) parseCall(callee ast.Expr) ast.Expr {
	start := callee.NodeSpan()
	p.advance() // (
	p.skipNewlines()
	var args []ast.Expr
	for !p.check(token.RPAREN) && !p.check(token.EOF) {
		args = append(args, p.parseExpr())
		p.skipNewlines()
		if !p.match(token.COMMA) {
			break
		}
		p.skipNewlines()
	}
	p.expect(token.RPAREN)
	return &ast.CallExpr{Base: ast.Base{ID: p.nextID(), Span: span.Join(start, p.cur().Span)}, Callee: callee, Args: args}
}

// parseClosureBlock parses a `{ params -> body }` or `{ stmts }`
// (implicit `it`) closure literal used both as a primary expression and as
// trailing-lambda sugar.
func (p *Parser) parseClosureBlock() *ast.ClosureExpr {
	id := p.nextID()
	start := p.cur().Span
	p.expect(token.LBRACE)
	p.skipNewlines()

	var params []ast.Param
	if p.looksLikeClosureParamList() {
		for !p.check(token.ARROW) && !p.check(token.EOF) {
			pid := p.nextID()
			pstart := p.cur().Span
			name := p.identName()
			var typ ast.Type
			if p.match(token.COLON) {
				typ = p.parseType()
			}
			params = append(params, ast.Param{Base: ast.Base{ID: pid, Span: span.Join(pstart, p.cur().Span)}, Name: name, Type: typ})
			if !p.match(token.COMMA) {
				break
			}
		}
		p.expect(token.ARROW)
		p.skipNewlines()
	}

	var stmts []ast.Stmt
	var tail ast.Expr
	for !p.check(token.RBRACE) && !p.check(token.EOF) {
		s, last := p.parseBlockMember()
		if last != nil {
			tail = last
			break
		}
		if s != nil {
			stmts = append(stmts, s)
		}
		p.skipNewlines()
	}
	p.expect(token.RBRACE)

	body := ast.Expr(&ast.BlockExpr{Base: ast.Base{ID: p.nextID(), Span: span.Join(start, p.cur().Span)}, Stmts: stmts, TailExpr: tail})
	return &ast.ClosureExpr{Base: ast.Base{ID: id, Span: span.Join(start, p.cur().Span)}, Params: params, Body: body, IsBlock: true}
}

// looksLikeClosureParamList performs fixed lookahead for `ident (, ident)* ->`
// immediately after `{`, to disambiguate a parameter list from a body that
// merely starts with an identifier.
func (p *Parser) looksLikeClosureParamList() bool {
	i := 0
	if p.peekAt(i).Kind != token.IDENT {
		return false
	}
	i++
	for p.peekAt(i).Kind == token.COLON {
		// skip a type annotation conservatively until comma/arrow
		for p.peekAt(i).Kind != token.COMMA && p.peekAt(i).Kind != token.ARROW && p.peekAt(i).Kind != token.EOF {
			i++
		}
	}
	for p.peekAt(i).Kind == token.COMMA {
		i++
		if p.peekAt(i).Kind != token.IDENT {
			return false
		}
		i++
	}
	return p.peekAt(i).Kind == token.ARROW
}

func (p *Parser) parsePrimary() ast.Expr {
	id := p.nextID()
	start := p.cur().Span
	t := p.cur()
	switch t.Kind {
	case token.INT:
		p.advance()
		return &ast.IntLit{Base: ast.Base{ID: id, Span: t.Span}, Value: t.IntVal}
	case token.FLOAT:
		p.advance()
		return &ast.FloatLit{Base: ast.Base{ID: id, Span: t.Span}, Text: t.FloatLit}
	case token.BOOL:
		p.advance()
		return &ast.BoolLit{Base: ast.Base{ID: id, Span: t.Span}, Value: t.BoolVal}
	case token.CHAR:
		p.advance()
		return &ast.CharLit{Base: ast.Base{ID: id, Span: t.Span}, Value: t.CharVal}
	case token.KW_NULL:
		p.advance()
		return &ast.NullLit{Base: ast.Base{ID: id, Span: t.Span}}
	case token.KW_SELF:
		p.advance()
		return &ast.SelfExpr{Base: ast.Base{ID: id, Span: t.Span}}
	case token.STRING:
		p.advance()
		return &ast.StringLit{Base: ast.Base{ID: id, Span: t.Span}, Value: t.StrVal}
	case token.STR_START:
		return p.parseInterpolatedString(id, start, t)
	case token.IDENT:
		p.advance()
		return &ast.Ident{Base: ast.Base{ID: id, Span: t.Span}, Name: t.Lexeme}
	case token.LPAREN:
		p.advance()
		p.skipNewlines()
		if p.check(token.RPAREN) {
			p.advance()
			return &ast.TupleExpr{Base: ast.Base{ID: id, Span: span.Join(start, p.cur().Span)}}
		}
		first := p.parseExpr()
		p.skipNewlines()
		if p.match(token.COMMA) {
			elems := []ast.Expr{first}
			p.skipNewlines()
			for !p.check(token.RPAREN) && !p.check(token.EOF) {
				elems = append(elems, p.parseExpr())
				p.skipNewlines()
				if !p.match(token.COMMA) {
					break
				}
				p.skipNewlines()
			}
			p.expect(token.RPAREN)
			return &ast.TupleExpr{Base: ast.Base{ID: id, Span: span.Join(start, p.cur().Span)}, Elems: elems}
		}
		p.expect(token.RPAREN)
		return first
	case token.LBRACKET:
		p.advance()
		p.skipNewlines()
		var elems []ast.Expr
		for !p.check(token.RBRACKET) && !p.check(token.EOF) {
			elems = append(elems, p.parseExpr())
			p.skipNewlines()
			if !p.match(token.COMMA) {
				break
			}
			p.skipNewlines()
		}
		p.expect(token.RBRACKET)
		return &ast.ArrayExpr{Base: ast.Base{ID: id, Span: span.Join(start, p.cur().Span)}, Elems: elems}
	case token.LBRACE:
		return p.parseClosureBlock()
	case token.KW_IF:
		return p.parseIf()
	case token.KW_WHEN, token.KW_MATCH:
		return p.parseMatch()
	case token.KW_WHILE:
		return p.parseWhile()
	case token.KW_FOR:
		return p.parseFor()
	default:
		p.errorf(t.Span, "parser/expect-expr", "expected an expression, found %s", t.Kind)
		p.advance()
		return &ast.NullLit{Base: ast.Base{ID: id, Span: t.Span}}
	}
}

// parseInterpolatedString consumes a STR_START (STR_EXPR STR_MID)* STR_EXPR
// STR_END token run into an InterpolatedStringLit, reparsing each STR_EXPR's
// raw text as a nested expression (§3.2).
func (p *Parser) parseInterpolatedString(id ast.NodeID, start span.Span, first token.Token) ast.Expr {
	p.advance()
	chunks := []string{first.StrVal}
	var exprs []ast.Expr
	for {
		if !p.check(token.STR_EXPR) {
			p.errorf(p.cur().Span, "parser/bad-interpolation", "expected interpolation expression")
			break
		}
		exprTok := p.advance()
		sub := subParseExpr(p.fileID, exprTok, p.ids)
		exprs = append(exprs, sub)

		switch p.cur().Kind {
		case token.STR_MID:
			mid := p.advance()
			chunks = append(chunks, mid.StrVal)
		case token.STR_END:
			end := p.advance()
			chunks = append(chunks, end.StrVal)
			return &ast.InterpolatedStringLit{Base: ast.Base{ID: id, Span: span.Join(start, end.Span)}, Chunks: chunks, Exprs: exprs}
		default:
			p.errorf(p.cur().Span, "parser/bad-interpolation", "malformed string interpolation")
			return &ast.InterpolatedStringLit{Base: ast.Base{ID: id, Span: span.Join(start, p.cur().Span)}, Chunks: chunks, Exprs: exprs}
		}
	}
	return &ast.InterpolatedStringLit{Base: ast.Base{ID: id, Span: span.Join(start, p.cur().Span)}, Chunks: chunks, Exprs: exprs}
}

// subParseExpr parses one interpolation segment's already-relexed token run
// (t.SubTokens, populated by internal/lexer.RelexInterpolations, §3.2, §4.1)
// against the same file/node-id space as the enclosing parse, sharing ids
// with the outer parser so ids remain globally monotonic within the file.
// Callers that skip the relex pass get a single-identifier placeholder
// spanning the segment instead of a parse failure.
func subParseExpr(fileID span.FileID, t token.Token, ids *ast.IDGen) ast.Expr {
	sub := &Parser{fileID: fileID, ids: ids}
	if len(t.SubTokens) > 0 {
		sub.toks = t.SubTokens
		return sub.parseExpr()
	}
	sub.toks = []token.Token{{Kind: token.IDENT, Span: t.Span, Lexeme: t.StrVal}, {Kind: token.EOF, Span: t.Span}}
	return sub.parseExpr()
}

func (p *Parser) parseBlock() *ast.BlockExpr {
	id := p.nextID()
	start := p.cur().Span
	p.expect(token.LBRACE)
	p.skipNewlines()
	var stmts []ast.Stmt
	var tail ast.Expr
	for !p.check(token.RBRACE) && !p.check(token.EOF) {
		s, last := p.parseBlockMember()
		if last != nil {
			tail = last
			p.skipNewlines()
			break
		}
		if s != nil {
			stmts = append(stmts, s)
		}
		p.skipNewlines()
	}
	p.expect(token.RBRACE)
	return &ast.BlockExpr{Base: ast.Base{ID: id, Span: span.Join(start, p.cur().Span)}, Stmts: stmts, TailExpr: tail}
}

// parseBlockMember parses one statement, returning (stmt, nil) normally,
// or (nil, expr) when the member is the block's trailing-expression value
// (§4.4): an expression statement immediately followed by `}` with no
// statement terminator.
func (p *Parser) parseBlockMember() (ast.Stmt, ast.Expr) {
	switch p.cur().Kind {
	case token.KW_LET, token.KW_VAR:
		return p.parseLet(), nil
	case token.KW_RETURN:
		return p.parseReturn(), nil
	case token.KW_BREAK:
		t := p.advance()
		return &ast.BreakStmt{Base: ast.Base{ID: p.nextID(), Span: t.Span}}, nil
	case token.KW_CONTINUE:
		t := p.advance()
		return &ast.ContinueStmt{Base: ast.Base{ID: p.nextID(), Span: t.Span}}, nil
	case token.KW_FUN, token.KW_STRUCT, token.KW_ENUM, token.KW_CLASS, token.KW_TRAIT, token.KW_IMPL, token.KW_CONST:
		item := p.parseItem()
		if item == nil {
			return nil, nil
		}
		return &ast.ItemStmt{Base: ast.Base{ID: p.nextID(), Span: item.NodeSpan()}, Item: item}, nil
	default:
		e := p.parseExpr()
		if p.check(token.RBRACE) {
			return nil, e
		}
		p.match(token.SEMICOLON)
		return &ast.ExprStmt{Base: ast.Base{ID: p.nextID(), Span: e.NodeSpan()}, X: e}, nil
	}
}

func (p *Parser) parseLet() *ast.LetStmt {
	id := p.nextID()
	start := p.cur().Span
	mut := p.cur().Kind == token.KW_VAR
	p.advance() // let | var
	innerMut := p.match(token.KW_MUT)
	pat := p.parsePattern()
	var typ ast.Type
	if p.match(token.COLON) {
		typ = p.parseType()
	}
	var val ast.Expr
	if p.match(token.ASSIGN) {
		val = p.parseExpr()
	}
	p.match(token.SEMICOLON)
	return &ast.LetStmt{Base: ast.Base{ID: id, Span: span.Join(start, p.cur().Span)}, Pattern: pat, Type: typ, Mut: mut || innerMut, Value: val}
}

func (p *Parser) parseReturn() *ast.ReturnStmt {
	id := p.nextID()
	start := p.cur().Span
	p.advance()
	var val ast.Expr
	if !p.check(token.RBRACE) && !p.check(token.SEMICOLON) && !p.check(token.NEWLINE) && !p.check(token.EOF) {
		val = p.parseExpr()
	}
	p.match(token.SEMICOLON)
	return &ast.ReturnStmt{Base: ast.Base{ID: id, Span: span.Join(start, p.cur().Span)}, Value: val}
}

func (p *Parser) parseIf() ast.Expr {
	id := p.nextID()
	start := p.cur().Span
	p.expect(token.KW_IF)
	cond := p.parseExpr()
	p.skipNewlines()
	then := p.parseBlock()
	var els ast.Expr
	save := p.pos
	p.skipNewlines()
	if p.match(token.KW_ELSE) {
		p.skipNewlines()
		if p.check(token.KW_IF) {
			els = p.parseIf()
		} else {
			els = p.parseBlock()
		}
	} else {
		p.pos = save
	}
	return &ast.IfExpr{Base: ast.Base{ID: id, Span: span.Join(start, p.cur().Span)}, Cond: cond, Then: then, Else: els}
}

func (p *Parser) parseMatch() ast.Expr {
	id := p.nextID()
	start := p.cur().Span
	p.advance() // when | match
	scrutinee := p.parseExpr()
	p.skipNewlines()
	p.expect(token.LBRACE)
	p.skipNewlines()
	var arms []ast.MatchArm
	for !p.check(token.RBRACE) && !p.check(token.EOF) {
		aid := p.nextID()
		astart := p.cur().Span
		pat := p.parsePattern()
		if p.match(token.KW_IF) {
			guard := p.parseExpr()
			pat = &ast.GuardedPattern{Base: ast.Base{ID: p.nextID(), Span: span.Join(pat.NodeSpan(), guard.NodeSpan())}, Inner: pat, Guard: guard}
		}
		p.expect(token.ARROW)
		body := p.parseExpr()
		arms = append(arms, ast.MatchArm{Base: ast.Base{ID: aid, Span: span.Join(astart, body.NodeSpan())}, Pattern: pat, Body: body})
		p.skipNewlines()
		p.match(token.COMMA)
		p.skipNewlines()
	}
	p.expect(token.RBRACE)
	return &ast.MatchExpr{Base: ast.Base{ID: id, Span: span.Join(start, p.cur().Span)}, Scrutinee: scrutinee, Arms: arms}
}

func (p *Parser) parseWhile() ast.Expr {
	id := p.nextID()
	start := p.cur().Span
	p.expect(token.KW_WHILE)
	cond := p.parseExpr()
	p.skipNewlines()
	body := p.parseBlock()
	return &ast.WhileExpr{Base: ast.Base{ID: id, Span: span.Join(start, p.cur().Span)}, Cond: cond, Body: body}
}

func (p *Parser) parseFor() ast.Expr {
	id := p.nextID()
	start := p.cur().Span
	p.expect(token.KW_FOR)
	pat := p.parsePattern()
	p.expect(token.KW_IN)
	iter := p.parseExpr()
	p.skipNewlines()
	body := p.parseBlock()
	return &ast.ForExpr{Base: ast.Base{ID: id, Span: span.Join(start, p.cur().Span)}, Pattern: pat, Iter: iter, Body: body}
}
