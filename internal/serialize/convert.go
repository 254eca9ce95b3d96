package serialize

import (
	"fmt"

	"github.com/seenlang/seenc/internal/ast"
)

// ---- shared helpers ---------------------------------------------------------

func base(n *node) ast.Base { return ast.Base{ID: ast.NodeID(n.id), Span: n.sp} }

func encodeVis(v ast.Visibility) int64 { return int64(v) }
func decodeVis(v int64) ast.Visibility { return ast.Visibility(v) }

func encodeGenerics(gs []ast.GenericParam) []*node {
	out := make([]*node, len(gs))
	for i, g := range gs {
		n := &node{tag: "GenericParam", id: uint32(g.ID), sp: g.Span, strs: []string{g.Name}}
		for _, b := range g.Bounds {
			n.kids = append(n.kids, encodeType(b))
		}
		out[i] = n
	}
	return out
}

func decodeGenerics(ns []*node) ([]ast.GenericParam, error) {
	out := make([]ast.GenericParam, len(ns))
	for i, n := range ns {
		g := ast.GenericParam{Base: base(n), Name: n.strs[0]}
		for _, k := range n.kids {
			t, err := decodeType(k)
			if err != nil {
				return nil, err
			}
			g.Bounds = append(g.Bounds, t)
		}
		out[i] = g
	}
	return out, nil
}

func encodeParams(ps []ast.Param) []*node {
	out := make([]*node, len(ps))
	for i, p := range ps {
		n := &node{tag: "Param", id: uint32(p.ID), sp: p.Span, strs: []string{p.Name}}
		n.kids = append(n.kids, optType(p.Type))
		n.kids = append(n.kids, optExpr(p.Default))
		out[i] = n
	}
	return out
}

func decodeParams(ns []*node) ([]ast.Param, error) {
	out := make([]ast.Param, len(ns))
	for i, n := range ns {
		p := ast.Param{Base: base(n), Name: n.strs[0]}
		t, err := decodeOptType(n.kids[0])
		if err != nil {
			return nil, err
		}
		p.Type = t
		e, err := decodeOptExpr(n.kids[1])
		if err != nil {
			return nil, err
		}
		p.Default = e
		out[i] = p
	}
	return out, nil
}

func encodeFields(fs []ast.Field) []*node {
	out := make([]*node, len(fs))
	for i, f := range fs {
		out[i] = &node{tag: "Field", id: uint32(f.ID), sp: f.Span, ints: []int64{encodeVis(f.Vis)}, strs: []string{f.Name}, kids: []*node{encodeType(f.Type)}}
	}
	return out
}

func decodeFields(ns []*node) ([]ast.Field, error) {
	out := make([]ast.Field, len(ns))
	for i, n := range ns {
		t, err := decodeType(n.kids[0])
		if err != nil {
			return nil, err
		}
		out[i] = ast.Field{Base: base(n), Vis: decodeVis(n.ints[0]), Name: n.strs[0], Type: t}
	}
	return out, nil
}

func optType(t ast.Type) *node {
	if t == nil {
		return nil
	}
	return encodeType(t)
}

func decodeOptType(n *node) (ast.Type, error) {
	if n == nil {
		return nil, nil
	}
	return decodeType(n)
}

func optExpr(e ast.Expr) *node {
	if e == nil {
		return nil
	}
	return encodeExpr(e)
}

func decodeOptExpr(n *node) (ast.Expr, error) {
	if n == nil {
		return nil, nil
	}
	return decodeExpr(n)
}

// ---- items -------------------------------------------------------------------

func encodeItem(it ast.Item) *node {
	switch v := it.(type) {
	case *ast.FunctionItem:
		n := &node{tag: "FunctionItem", id: uint32(v.ID), sp: v.Span, ints: []int64{encodeVis(v.Vis), boolInt(v.IsAsync)}, strs: []string{v.Name}}
		n.kids = append(n.kids, encodeGenerics(v.Generics)...)
		n.kids = append(n.kids, optType(v.ExtensionOf))
		n.kids = append(n.kids, encodeParams(v.Params)...)
		n.kids = append(n.kids, optType(v.ReturnType))
		if v.Body != nil {
			n.kids = append(n.kids, encodeExpr(v.Body))
		} else {
			n.kids = append(n.kids, nil)
		}
		n.ints = append(n.ints, int64(len(v.Generics)), int64(len(v.Params)))
		return n
	case *ast.StructItem:
		n := &node{tag: "StructItem", id: uint32(v.ID), sp: v.Span, ints: []int64{encodeVis(v.Vis), boolInt(v.DataClass), int64(len(v.Generics))}, strs: []string{v.Name}}
		n.kids = append(n.kids, encodeGenerics(v.Generics)...)
		n.kids = append(n.kids, encodeFields(v.Fields)...)
		return n
	case *ast.ClassItem:
		n := &node{tag: "ClassItem", id: uint32(v.ID), sp: v.Span, ints: []int64{encodeVis(v.Vis), int64(len(v.Generics)), int64(len(v.Fields))}, strs: []string{v.Name}}
		n.kids = append(n.kids, encodeGenerics(v.Generics)...)
		n.kids = append(n.kids, encodeFields(v.Fields)...)
		for _, m := range v.Methods {
			n.kids = append(n.kids, encodeItem(m))
		}
		return n
	case *ast.EnumItem:
		n := &node{tag: "EnumItem", id: uint32(v.ID), sp: v.Span, ints: []int64{encodeVis(v.Vis), int64(len(v.Generics))}, strs: []string{v.Name}}
		n.kids = append(n.kids, encodeGenerics(v.Generics)...)
		for _, variant := range v.Variants {
			vn := &node{tag: "EnumVariant", id: uint32(variant.ID), sp: variant.Span, strs: []string{variant.Name}}
			vn.kids = encodeFields(variant.Fields)
			n.kids = append(n.kids, vn)
		}
		return n
	case *ast.TraitItem:
		n := &node{tag: "TraitItem", id: uint32(v.ID), sp: v.Span, ints: []int64{encodeVis(v.Vis), int64(len(v.Generics))}, strs: []string{v.Name}}
		n.kids = append(n.kids, encodeGenerics(v.Generics)...)
		for _, m := range v.Methods {
			n.kids = append(n.kids, encodeItem(m))
		}
		return n
	case *ast.ImplItem:
		n := &node{tag: "ImplItem", id: uint32(v.ID), sp: v.Span, ints: []int64{int64(len(v.Generics))}}
		n.kids = append(n.kids, encodeGenerics(v.Generics)...)
		n.kids = append(n.kids, optType(v.Trait))
		n.kids = append(n.kids, encodeType(v.ForType))
		for _, m := range v.Methods {
			n.kids = append(n.kids, encodeItem(m))
		}
		return n
	case *ast.TypeAliasItem:
		n := &node{tag: "TypeAliasItem", id: uint32(v.ID), sp: v.Span, ints: []int64{encodeVis(v.Vis), int64(len(v.Generics))}, strs: []string{v.Name}}
		n.kids = append(n.kids, encodeGenerics(v.Generics)...)
		n.kids = append(n.kids, encodeType(v.Aliased))
		return n
	case *ast.ConstItem:
		n := &node{tag: "ConstItem", id: uint32(v.ID), sp: v.Span, ints: []int64{encodeVis(v.Vis)}, strs: []string{v.Name}}
		n.kids = append(n.kids, optType(v.Type), encodeExpr(v.Value))
		return n
	case *ast.GlobalItem:
		n := &node{tag: "GlobalItem", id: uint32(v.ID), sp: v.Span, ints: []int64{encodeVis(v.Vis), boolInt(v.Mut)}, strs: []string{v.Name}}
		n.kids = append(n.kids, optType(v.Type), encodeExpr(v.Value))
		return n
	default:
		panic(fmt.Sprintf("serialize: unhandled item type %T", it))
	}
}

func decodeItem(n *node) (ast.Item, error) {
	switch n.tag {
	case "FunctionItem":
		nGen, nParams := int(n.ints[2]), int(n.ints[3])
		idx := 0
		gens, err := decodeGenerics(n.kids[idx : idx+nGen])
		if err != nil {
			return nil, err
		}
		idx += nGen
		ext, err := decodeOptType(n.kids[idx])
		if err != nil {
			return nil, err
		}
		idx++
		params, err := decodeParams(n.kids[idx : idx+nParams])
		if err != nil {
			return nil, err
		}
		idx += nParams
		ret, err := decodeOptType(n.kids[idx])
		if err != nil {
			return nil, err
		}
		idx++
		var body *ast.BlockExpr
		if n.kids[idx] != nil {
			e, err := decodeExpr(n.kids[idx])
			if err != nil {
				return nil, err
			}
			body = e.(*ast.BlockExpr)
		}
		return &ast.FunctionItem{Base: base(n), Vis: decodeVis(n.ints[0]), IsAsync: n.ints[1] != 0, Name: n.strs[0], Generics: gens, ExtensionOf: ext, Params: params, ReturnType: ret, Body: body}, nil
	case "StructItem":
		nGen := int(n.ints[2])
		gens, err := decodeGenerics(n.kids[:nGen])
		if err != nil {
			return nil, err
		}
		fields, err := decodeFields(n.kids[nGen:])
		if err != nil {
			return nil, err
		}
		return &ast.StructItem{Base: base(n), Vis: decodeVis(n.ints[0]), DataClass: n.ints[1] != 0, Name: n.strs[0], Generics: gens, Fields: fields}, nil
	case "ClassItem":
		nGen, nFields := int(n.ints[1]), int(n.ints[2])
		gens, err := decodeGenerics(n.kids[:nGen])
		if err != nil {
			return nil, err
		}
		fields, err := decodeFields(n.kids[nGen : nGen+nFields])
		if err != nil {
			return nil, err
		}
		var methods []*ast.FunctionItem
		for _, k := range n.kids[nGen+nFields:] {
			it, err := decodeItem(k)
			if err != nil {
				return nil, err
			}
			methods = append(methods, it.(*ast.FunctionItem))
		}
		return &ast.ClassItem{Base: base(n), Vis: decodeVis(n.ints[0]), Name: n.strs[0], Generics: gens, Fields: fields, Methods: methods}, nil
	case "EnumItem":
		nGen := int(n.ints[1])
		gens, err := decodeGenerics(n.kids[:nGen])
		if err != nil {
			return nil, err
		}
		var variants []ast.EnumVariant
		for _, k := range n.kids[nGen:] {
			fields, err := decodeFields(k.kids)
			if err != nil {
				return nil, err
			}
			variants = append(variants, ast.EnumVariant{Base: base(k), Name: k.strs[0], Fields: fields})
		}
		return &ast.EnumItem{Base: base(n), Vis: decodeVis(n.ints[0]), Name: n.strs[0], Generics: gens, Variants: variants}, nil
	case "TraitItem":
		nGen := int(n.ints[1])
		gens, err := decodeGenerics(n.kids[:nGen])
		if err != nil {
			return nil, err
		}
		var methods []*ast.FunctionItem
		for _, k := range n.kids[nGen:] {
			it, err := decodeItem(k)
			if err != nil {
				return nil, err
			}
			methods = append(methods, it.(*ast.FunctionItem))
		}
		return &ast.TraitItem{Base: base(n), Vis: decodeVis(n.ints[0]), Name: n.strs[0], Generics: gens, Methods: methods}, nil
	case "ImplItem":
		nGen := int(n.ints[0])
		gens, err := decodeGenerics(n.kids[:nGen])
		if err != nil {
			return nil, err
		}
		idx := nGen
		trait, err := decodeOptType(n.kids[idx])
		if err != nil {
			return nil, err
		}
		idx++
		forType, err := decodeType(n.kids[idx])
		if err != nil {
			return nil, err
		}
		idx++
		var methods []*ast.FunctionItem
		for _, k := range n.kids[idx:] {
			it, err := decodeItem(k)
			if err != nil {
				return nil, err
			}
			methods = append(methods, it.(*ast.FunctionItem))
		}
		return &ast.ImplItem{Base: base(n), Generics: gens, Trait: trait, ForType: forType, Methods: methods}, nil
	case "TypeAliasItem":
		nGen := int(n.ints[1])
		gens, err := decodeGenerics(n.kids[:nGen])
		if err != nil {
			return nil, err
		}
		aliased, err := decodeType(n.kids[nGen])
		if err != nil {
			return nil, err
		}
		return &ast.TypeAliasItem{Base: base(n), Vis: decodeVis(n.ints[0]), Name: n.strs[0], Generics: gens, Aliased: aliased}, nil
	case "ConstItem":
		t, err := decodeOptType(n.kids[0])
		if err != nil {
			return nil, err
		}
		val, err := decodeExpr(n.kids[1])
		if err != nil {
			return nil, err
		}
		return &ast.ConstItem{Base: base(n), Vis: decodeVis(n.ints[0]), Name: n.strs[0], Type: t, Value: val}, nil
	case "GlobalItem":
		t, err := decodeOptType(n.kids[0])
		if err != nil {
			return nil, err
		}
		val, err := decodeExpr(n.kids[1])
		if err != nil {
			return nil, err
		}
		return &ast.GlobalItem{Base: base(n), Vis: decodeVis(n.ints[0]), Mut: n.ints[1] != 0, Name: n.strs[0], Type: t, Value: val}, nil
	default:
		return nil, fmt.Errorf("serialize: unhandled item tag %q", n.tag)
	}
}

func boolInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
