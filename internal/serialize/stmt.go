package serialize

import (
	"fmt"

	"github.com/seenlang/seenc/internal/ast"
)

func encodeStmt(s ast.Stmt) *node {
	switch v := s.(type) {
	case *ast.LetStmt:
		n := &node{tag: "LetStmt", id: uint32(v.ID), sp: v.Span, ints: []int64{boolInt(v.Mut)}}
		n.kids = append(n.kids, encodePattern(v.Pattern), optType(v.Type), optExpr(v.Value))
		return n
	case *ast.ExprStmt:
		return &node{tag: "ExprStmt", id: uint32(v.ID), sp: v.Span, kids: []*node{encodeExpr(v.X)}}
	case *ast.ReturnStmt:
		return &node{tag: "ReturnStmt", id: uint32(v.ID), sp: v.Span, kids: []*node{optExpr(v.Value)}}
	case *ast.BreakStmt:
		return &node{tag: "BreakStmt", id: uint32(v.ID), sp: v.Span}
	case *ast.ContinueStmt:
		return &node{tag: "ContinueStmt", id: uint32(v.ID), sp: v.Span}
	case *ast.ItemStmt:
		return &node{tag: "ItemStmt", id: uint32(v.ID), sp: v.Span, kids: []*node{encodeItem(v.Item)}}
	default:
		panic("serialize: unhandled stmt node")
	}
}

func decodeStmt(n *node) (ast.Stmt, error) {
	switch n.tag {
	case "LetStmt":
		pat, err := decodePattern(n.kids[0])
		if err != nil {
			return nil, err
		}
		typ, err := decodeOptType(n.kids[1])
		if err != nil {
			return nil, err
		}
		val, err := decodeOptExpr(n.kids[2])
		if err != nil {
			return nil, err
		}
		return &ast.LetStmt{Base: base(n), Pattern: pat, Type: typ, Mut: n.ints[0] != 0, Value: val}, nil
	case "ExprStmt":
		x, err := decodeExpr(n.kids[0])
		if err != nil {
			return nil, err
		}
		return &ast.ExprStmt{Base: base(n), X: x}, nil
	case "ReturnStmt":
		v, err := decodeOptExpr(n.kids[0])
		if err != nil {
			return nil, err
		}
		return &ast.ReturnStmt{Base: base(n), Value: v}, nil
	case "BreakStmt":
		return &ast.BreakStmt{Base: base(n)}, nil
	case "ContinueStmt":
		return &ast.ContinueStmt{Base: base(n)}, nil
	case "ItemStmt":
		it, err := decodeItem(n.kids[0])
		if err != nil {
			return nil, err
		}
		return &ast.ItemStmt{Base: base(n), Item: it}, nil
	default:
		return nil, fmt.Errorf("serialize: unhandled stmt tag %q", n.tag)
	}
}
