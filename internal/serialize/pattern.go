package serialize

import (
	"fmt"

	"github.com/seenlang/seenc/internal/ast"
)

func encodePattern(p ast.Pattern) *node {
	switch v := p.(type) {
	case *ast.WildcardPattern:
		return &node{tag: "WildcardPattern", id: uint32(v.ID), sp: v.Span}
	case *ast.IdentPattern:
		return &node{tag: "IdentPattern", id: uint32(v.ID), sp: v.Span, ints: []int64{boolInt(v.Mut)}, strs: []string{v.Name}}
	case *ast.LiteralPattern:
		return &node{tag: "LiteralPattern", id: uint32(v.ID), sp: v.Span, kids: []*node{encodeExpr(v.Value)}}
	case *ast.TuplePattern:
		n := &node{tag: "TuplePattern", id: uint32(v.ID), sp: v.Span}
		for _, e := range v.Elems {
			n.kids = append(n.kids, encodePattern(e))
		}
		return n
	case *ast.StructPattern:
		n := &node{tag: "StructPattern", id: uint32(v.ID), sp: v.Span, ints: []int64{boolInt(v.Rest), int64(len(v.Path))}, strs: v.Path}
		for _, f := range v.Fields {
			fn := &node{tag: "FieldPattern", id: uint32(f.ID), sp: f.Span, strs: []string{f.Name}, kids: []*node{encodePattern(f.Pattern)}}
			n.kids = append(n.kids, fn)
		}
		return n
	case *ast.VariantPattern:
		n := &node{tag: "VariantPattern", id: uint32(v.ID), sp: v.Span, strs: v.Path}
		for _, f := range v.Fields {
			n.kids = append(n.kids, encodePattern(f))
		}
		return n
	case *ast.GuardedPattern:
		return &node{tag: "GuardedPattern", id: uint32(v.ID), sp: v.Span, kids: []*node{encodePattern(v.Inner), encodeExpr(v.Guard)}}
	default:
		panic("serialize: unhandled pattern node")
	}
}

func decodePattern(n *node) (ast.Pattern, error) {
	switch n.tag {
	case "WildcardPattern":
		return &ast.WildcardPattern{Base: base(n)}, nil
	case "IdentPattern":
		return &ast.IdentPattern{Base: base(n), Name: n.strs[0], Mut: n.ints[0] != 0}, nil
	case "LiteralPattern":
		e, err := decodeExpr(n.kids[0])
		if err != nil {
			return nil, err
		}
		return &ast.LiteralPattern{Base: base(n), Value: e}, nil
	case "TuplePattern":
		pt := &ast.TuplePattern{Base: base(n)}
		for _, k := range n.kids {
			e, err := decodePattern(k)
			if err != nil {
				return nil, err
			}
			pt.Elems = append(pt.Elems, e)
		}
		return pt, nil
	case "StructPattern":
		sp := &ast.StructPattern{Base: base(n), Rest: n.ints[0] != 0, Path: n.strs}
		for _, k := range n.kids {
			inner, err := decodePattern(k.kids[0])
			if err != nil {
				return nil, err
			}
			sp.Fields = append(sp.Fields, ast.FieldPattern{Base: base(k), Name: k.strs[0], Pattern: inner})
		}
		return sp, nil
	case "VariantPattern":
		vp := &ast.VariantPattern{Base: base(n), Path: n.strs}
		for _, k := range n.kids {
			e, err := decodePattern(k)
			if err != nil {
				return nil, err
			}
			vp.Fields = append(vp.Fields, e)
		}
		return vp, nil
	case "GuardedPattern":
		inner, err := decodePattern(n.kids[0])
		if err != nil {
			return nil, err
		}
		guard, err := decodeExpr(n.kids[1])
		if err != nil {
			return nil, err
		}
		return &ast.GuardedPattern{Base: base(n), Inner: inner, Guard: guard}, nil
	default:
		return nil, fmt.Errorf("serialize: unhandled pattern tag %q", n.tag)
	}
}
