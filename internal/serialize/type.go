package serialize

import (
	"fmt"

	"github.com/seenlang/seenc/internal/ast"
)

func encodeType(t ast.Type) *node {
	switch v := t.(type) {
	case *ast.NamedType:
		n := &node{tag: "NamedType", id: uint32(v.ID), sp: v.Span, strs: v.Path}
		for _, a := range v.Args {
			n.kids = append(n.kids, encodeType(a))
		}
		return n
	case *ast.PrimitiveType:
		return &node{tag: "PrimitiveType", id: uint32(v.ID), sp: v.Span, strs: []string{v.Name}}
	case *ast.TupleType:
		n := &node{tag: "TupleType", id: uint32(v.ID), sp: v.Span}
		for _, e := range v.Elems {
			n.kids = append(n.kids, encodeType(e))
		}
		return n
	case *ast.ArrayType:
		return &node{tag: "ArrayType", id: uint32(v.ID), sp: v.Span, ints: []int64{v.Len}, kids: []*node{encodeType(v.Elem)}}
	case *ast.FnType:
		n := &node{tag: "FnType", id: uint32(v.ID), sp: v.Span, ints: []int64{int64(len(v.Params))}}
		for _, p := range v.Params {
			n.kids = append(n.kids, encodeType(p))
		}
		n.kids = append(n.kids, encodeType(v.Ret))
		return n
	case *ast.RefType:
		return &node{tag: "RefType", id: uint32(v.ID), sp: v.Span, ints: []int64{boolInt(v.Mut)}, kids: []*node{encodeType(v.Elem)}}
	case *ast.NullableType:
		return &node{tag: "NullableType", id: uint32(v.ID), sp: v.Span, kids: []*node{encodeType(v.Elem)}}
	case *ast.InferType:
		return &node{tag: "InferType", id: uint32(v.ID), sp: v.Span}
	default:
		panic("serialize: unhandled type node")
	}
}

func decodeType(n *node) (ast.Type, error) {
	switch n.tag {
	case "NamedType":
		t := &ast.NamedType{Base: base(n), Path: n.strs}
		for _, k := range n.kids {
			a, err := decodeType(k)
			if err != nil {
				return nil, err
			}
			t.Args = append(t.Args, a)
		}
		return t, nil
	case "PrimitiveType":
		return &ast.PrimitiveType{Base: base(n), Name: n.strs[0]}, nil
	case "TupleType":
		t := &ast.TupleType{Base: base(n)}
		for _, k := range n.kids {
			e, err := decodeType(k)
			if err != nil {
				return nil, err
			}
			t.Elems = append(t.Elems, e)
		}
		return t, nil
	case "ArrayType":
		elem, err := decodeType(n.kids[0])
		if err != nil {
			return nil, err
		}
		return &ast.ArrayType{Base: base(n), Elem: elem, Len: n.ints[0]}, nil
	case "FnType":
		nParams := int(n.ints[0])
		t := &ast.FnType{Base: base(n)}
		for _, k := range n.kids[:nParams] {
			p, err := decodeType(k)
			if err != nil {
				return nil, err
			}
			t.Params = append(t.Params, p)
		}
		ret, err := decodeType(n.kids[nParams])
		if err != nil {
			return nil, err
		}
		t.Ret = ret
		return t, nil
	case "RefType":
		elem, err := decodeType(n.kids[0])
		if err != nil {
			return nil, err
		}
		return &ast.RefType{Base: base(n), Mut: n.ints[0] != 0, Elem: elem}, nil
	case "NullableType":
		elem, err := decodeType(n.kids[0])
		if err != nil {
			return nil, err
		}
		return &ast.NullableType{Base: base(n), Elem: elem}, nil
	case "InferType":
		return &ast.InferType{Base: base(n)}, nil
	default:
		return nil, fmt.Errorf("serialize: unhandled type tag %q", n.tag)
	}
}
