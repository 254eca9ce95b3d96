package serialize

import (
	"fmt"

	"github.com/seenlang/seenc/internal/ast"
)

func encodeBlock(b *ast.BlockExpr) *node {
	n := &node{tag: "BlockExpr", id: uint32(b.ID), sp: b.Span, ints: []int64{int64(len(b.Stmts))}}
	for _, s := range b.Stmts {
		n.kids = append(n.kids, encodeStmt(s))
	}
	n.kids = append(n.kids, optExpr(b.TailExpr))
	return n
}

func decodeBlock(n *node) (*ast.BlockExpr, error) {
	nStmts := int(n.ints[0])
	b := &ast.BlockExpr{Base: base(n)}
	for _, k := range n.kids[:nStmts] {
		s, err := decodeStmt(k)
		if err != nil {
			return nil, err
		}
		b.Stmts = append(b.Stmts, s)
	}
	tail, err := decodeOptExpr(n.kids[nStmts])
	if err != nil {
		return nil, err
	}
	b.TailExpr = tail
	return b, nil
}

func encodeExpr(e ast.Expr) *node {
	switch v := e.(type) {
	case *ast.IntLit:
		return &node{tag: "IntLit", id: uint32(v.ID), sp: v.Span, ints: []int64{v.Value}}
	case *ast.FloatLit:
		return &node{tag: "FloatLit", id: uint32(v.ID), sp: v.Span, strs: []string{v.Text}}
	case *ast.BoolLit:
		return &node{tag: "BoolLit", id: uint32(v.ID), sp: v.Span, ints: []int64{boolInt(v.Value)}}
	case *ast.CharLit:
		return &node{tag: "CharLit", id: uint32(v.ID), sp: v.Span, ints: []int64{int64(v.Value)}}
	case *ast.NullLit:
		return &node{tag: "NullLit", id: uint32(v.ID), sp: v.Span}
	case *ast.StringLit:
		return &node{tag: "StringLit", id: uint32(v.ID), sp: v.Span, strs: []string{v.Value}}
	case *ast.InterpolatedStringLit:
		n := &node{tag: "InterpolatedStringLit", id: uint32(v.ID), sp: v.Span, strs: v.Chunks, ints: []int64{int64(len(v.Chunks))}}
		for _, x := range v.Exprs {
			n.kids = append(n.kids, encodeExpr(x))
		}
		return n
	case *ast.Ident:
		return &node{tag: "Ident", id: uint32(v.ID), sp: v.Span, strs: []string{v.Name}}
	case *ast.SelfExpr:
		return &node{tag: "SelfExpr", id: uint32(v.ID), sp: v.Span}
	case *ast.BinaryExpr:
		return &node{tag: "BinaryExpr", id: uint32(v.ID), sp: v.Span, ints: []int64{int64(v.Op)}, kids: []*node{encodeExpr(v.LHS), encodeExpr(v.RHS)}}
	case *ast.UnaryExpr:
		return &node{tag: "UnaryExpr", id: uint32(v.ID), sp: v.Span, ints: []int64{int64(v.Op)}, kids: []*node{encodeExpr(v.Operand)}}
	case *ast.AssignExpr:
		return &node{tag: "AssignExpr", id: uint32(v.ID), sp: v.Span, ints: []int64{int64(v.Op)}, kids: []*node{encodeExpr(v.Target), encodeExpr(v.Value)}}
	case *ast.CallExpr:
		n := &node{tag: "CallExpr", id: uint32(v.ID), sp: v.Span, ints: []int64{int64(len(v.Args))}}
		n.kids = append(n.kids, encodeExpr(v.Callee))
		for _, a := range v.Args {
			n.kids = append(n.kids, encodeExpr(a))
		}
		if v.TrailingLambda != nil {
			n.kids = append(n.kids, encodeExpr(v.TrailingLambda))
		} else {
			n.kids = append(n.kids, nil)
		}
		return n
	case *ast.FieldExpr:
		return &node{tag: "FieldExpr", id: uint32(v.ID), sp: v.Span, ints: []int64{boolInt(v.Safe)}, strs: []string{v.Name}, kids: []*node{encodeExpr(v.Receiver)}}
	case *ast.IndexExpr:
		return &node{tag: "IndexExpr", id: uint32(v.ID), sp: v.Span, kids: []*node{encodeExpr(v.Receiver), encodeExpr(v.Index)}}
	case *ast.ForceUnwrapExpr:
		return &node{tag: "ForceUnwrapExpr", id: uint32(v.ID), sp: v.Span, kids: []*node{encodeExpr(v.Operand)}}
	case *ast.CastExpr:
		return &node{tag: "CastExpr", id: uint32(v.ID), sp: v.Span, kids: []*node{encodeExpr(v.X), encodeType(v.Type)}}
	case *ast.IsExpr:
		return &node{tag: "IsExpr", id: uint32(v.ID), sp: v.Span, kids: []*node{encodeExpr(v.X), encodeType(v.Type)}}
	case *ast.BlockExpr:
		return encodeBlock(v)
	case *ast.IfExpr:
		n := &node{tag: "IfExpr", id: uint32(v.ID), sp: v.Span}
		n.kids = append(n.kids, encodeExpr(v.Cond), encodeBlock(v.Then), optExpr(v.Else))
		return n
	case *ast.MatchExpr:
		n := &node{tag: "MatchExpr", id: uint32(v.ID), sp: v.Span, ints: []int64{int64(len(v.Arms))}}
		n.kids = append(n.kids, encodeExpr(v.Scrutinee))
		for _, a := range v.Arms {
			an := &node{tag: "MatchArm", id: uint32(a.ID), sp: a.Span, kids: []*node{encodePattern(a.Pattern), encodeExpr(a.Body)}}
			n.kids = append(n.kids, an)
		}
		return n
	case *ast.WhileExpr:
		return &node{tag: "WhileExpr", id: uint32(v.ID), sp: v.Span, kids: []*node{encodeExpr(v.Cond), encodeBlock(v.Body)}}
	case *ast.ForExpr:
		return &node{tag: "ForExpr", id: uint32(v.ID), sp: v.Span, kids: []*node{encodePattern(v.Pattern), encodeExpr(v.Iter), encodeBlock(v.Body)}}
	case *ast.ClosureExpr:
		n := &node{tag: "ClosureExpr", id: uint32(v.ID), sp: v.Span, ints: []int64{boolInt(v.IsBlock), int64(len(v.Params))}}
		n.kids = append(n.kids, encodeParams(v.Params)...)
		n.kids = append(n.kids, encodeExpr(v.Body))
		return n
	case *ast.TupleExpr:
		n := &node{tag: "TupleExpr", id: uint32(v.ID), sp: v.Span}
		for _, e := range v.Elems {
			n.kids = append(n.kids, encodeExpr(e))
		}
		return n
	case *ast.ArrayExpr:
		n := &node{tag: "ArrayExpr", id: uint32(v.ID), sp: v.Span}
		for _, e := range v.Elems {
			n.kids = append(n.kids, encodeExpr(e))
		}
		return n
	case *ast.StructLit:
		n := &node{tag: "StructLit", id: uint32(v.ID), sp: v.Span, strs: v.Path}
		for _, f := range v.Fields {
			fn := &node{tag: "StructLitField", id: uint32(f.ID), sp: f.Span, strs: []string{f.Name}, kids: []*node{encodeExpr(f.Value)}}
			n.kids = append(n.kids, fn)
		}
		return n
	default:
		panic(fmt.Sprintf("serialize: unhandled expr type %T", e))
	}
}

func decodeExpr(n *node) (ast.Expr, error) {
	switch n.tag {
	case "IntLit":
		return &ast.IntLit{Base: base(n), Value: n.ints[0]}, nil
	case "FloatLit":
		return &ast.FloatLit{Base: base(n), Text: n.strs[0]}, nil
	case "BoolLit":
		return &ast.BoolLit{Base: base(n), Value: n.ints[0] != 0}, nil
	case "CharLit":
		return &ast.CharLit{Base: base(n), Value: rune(n.ints[0])}, nil
	case "NullLit":
		return &ast.NullLit{Base: base(n)}, nil
	case "StringLit":
		return &ast.StringLit{Base: base(n), Value: n.strs[0]}, nil
	case "InterpolatedStringLit":
		s := &ast.InterpolatedStringLit{Base: base(n), Chunks: n.strs}
		for _, k := range n.kids {
			x, err := decodeExpr(k)
			if err != nil {
				return nil, err
			}
			s.Exprs = append(s.Exprs, x)
		}
		return s, nil
	case "Ident":
		return &ast.Ident{Base: base(n), Name: n.strs[0]}, nil
	case "SelfExpr":
		return &ast.SelfExpr{Base: base(n)}, nil
	case "BinaryExpr":
		lhs, err := decodeExpr(n.kids[0])
		if err != nil {
			return nil, err
		}
		rhs, err := decodeExpr(n.kids[1])
		if err != nil {
			return nil, err
		}
		return &ast.BinaryExpr{Base: base(n), Op: ast.BinaryOp(n.ints[0]), LHS: lhs, RHS: rhs}, nil
	case "UnaryExpr":
		op, err := decodeExpr(n.kids[0])
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpr{Base: base(n), Op: ast.UnaryOp(n.ints[0]), Operand: op}, nil
	case "AssignExpr":
		target, err := decodeExpr(n.kids[0])
		if err != nil {
			return nil, err
		}
		val, err := decodeExpr(n.kids[1])
		if err != nil {
			return nil, err
		}
		return &ast.AssignExpr{Base: base(n), Op: ast.AssignOp(n.ints[0]), Target: target, Value: val}, nil
	case "CallExpr":
		nArgs := int(n.ints[0])
		callee, err := decodeExpr(n.kids[0])
		if err != nil {
			return nil, err
		}
		c := &ast.CallExpr{Base: base(n), Callee: callee}
		for _, k := range n.kids[1 : 1+nArgs] {
			a, err := decodeExpr(k)
			if err != nil {
				return nil, err
			}
			c.Args = append(c.Args, a)
		}
		if lamNode := n.kids[1+nArgs]; lamNode != nil {
			lam, err := decodeExpr(lamNode)
			if err != nil {
				return nil, err
			}
			c.TrailingLambda = lam.(*ast.ClosureExpr)
		}
		return c, nil
	case "FieldExpr":
		recv, err := decodeExpr(n.kids[0])
		if err != nil {
			return nil, err
		}
		return &ast.FieldExpr{Base: base(n), Receiver: recv, Name: n.strs[0], Safe: n.ints[0] != 0}, nil
	case "IndexExpr":
		recv, err := decodeExpr(n.kids[0])
		if err != nil {
			return nil, err
		}
		idx, err := decodeExpr(n.kids[1])
		if err != nil {
			return nil, err
		}
		return &ast.IndexExpr{Base: base(n), Receiver: recv, Index: idx}, nil
	case "ForceUnwrapExpr":
		op, err := decodeExpr(n.kids[0])
		if err != nil {
			return nil, err
		}
		return &ast.ForceUnwrapExpr{Base: base(n), Operand: op}, nil
	case "CastExpr":
		x, err := decodeExpr(n.kids[0])
		if err != nil {
			return nil, err
		}
		t, err := decodeType(n.kids[1])
		if err != nil {
			return nil, err
		}
		return &ast.CastExpr{Base: base(n), X: x, Type: t}, nil
	case "IsExpr":
		x, err := decodeExpr(n.kids[0])
		if err != nil {
			return nil, err
		}
		t, err := decodeType(n.kids[1])
		if err != nil {
			return nil, err
		}
		return &ast.IsExpr{Base: base(n), X: x, Type: t}, nil
	case "BlockExpr":
		return decodeBlock(n)
	case "IfExpr":
		cond, err := decodeExpr(n.kids[0])
		if err != nil {
			return nil, err
		}
		then, err := decodeBlock(n.kids[1])
		if err != nil {
			return nil, err
		}
		els, err := decodeOptExpr(n.kids[2])
		if err != nil {
			return nil, err
		}
		return &ast.IfExpr{Base: base(n), Cond: cond, Then: then, Else: els}, nil
	case "MatchExpr":
		nArms := int(n.ints[0])
		scrutinee, err := decodeExpr(n.kids[0])
		if err != nil {
			return nil, err
		}
		m := &ast.MatchExpr{Base: base(n), Scrutinee: scrutinee}
		for _, k := range n.kids[1 : 1+nArms] {
			pat, err := decodePattern(k.kids[0])
			if err != nil {
				return nil, err
			}
			body, err := decodeExpr(k.kids[1])
			if err != nil {
				return nil, err
			}
			m.Arms = append(m.Arms, ast.MatchArm{Base: base(k), Pattern: pat, Body: body})
		}
		return m, nil
	case "WhileExpr":
		cond, err := decodeExpr(n.kids[0])
		if err != nil {
			return nil, err
		}
		body, err := decodeBlock(n.kids[1])
		if err != nil {
			return nil, err
		}
		return &ast.WhileExpr{Base: base(n), Cond: cond, Body: body}, nil
	case "ForExpr":
		pat, err := decodePattern(n.kids[0])
		if err != nil {
			return nil, err
		}
		iter, err := decodeExpr(n.kids[1])
		if err != nil {
			return nil, err
		}
		body, err := decodeBlock(n.kids[2])
		if err != nil {
			return nil, err
		}
		return &ast.ForExpr{Base: base(n), Pattern: pat, Iter: iter, Body: body}, nil
	case "ClosureExpr":
		nParams := int(n.ints[1])
		params, err := decodeParams(n.kids[:nParams])
		if err != nil {
			return nil, err
		}
		body, err := decodeExpr(n.kids[nParams])
		if err != nil {
			return nil, err
		}
		return &ast.ClosureExpr{Base: base(n), Params: params, Body: body, IsBlock: n.ints[0] != 0}, nil
	case "TupleExpr":
		t := &ast.TupleExpr{Base: base(n)}
		for _, k := range n.kids {
			e, err := decodeExpr(k)
			if err != nil {
				return nil, err
			}
			t.Elems = append(t.Elems, e)
		}
		return t, nil
	case "ArrayExpr":
		a := &ast.ArrayExpr{Base: base(n)}
		for _, k := range n.kids {
			e, err := decodeExpr(k)
			if err != nil {
				return nil, err
			}
			a.Elems = append(a.Elems, e)
		}
		return a, nil
	case "StructLit":
		s := &ast.StructLit{Base: base(n), Path: n.strs}
		for _, k := range n.kids {
			val, err := decodeExpr(k.kids[0])
			if err != nil {
				return nil, err
			}
			s.Fields = append(s.Fields, ast.StructLitField{Base: base(k), Name: k.strs[0], Value: val})
		}
		return s, nil
	default:
		return nil, fmt.Errorf("serialize: unhandled expr tag %q", n.tag)
	}
}
