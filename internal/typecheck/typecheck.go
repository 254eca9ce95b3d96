// Package typecheck implements the two-pass Hindley-Milner-style checker
// of §4.3: a signature-collection pass builds a global symbol table, then
// a body-checking pass runs constraint-based inference with nullable
// subtyping, generic instantiation, extension-method resolution, and
// unification with an occurs-check. Functions are looked up by name alone:
// there is no overload resolution, and a later declaration of a name
// replaces an earlier one.
package typecheck

import (
	"fmt"

	"github.com/seenlang/seenc/internal/ast"
	"github.com/seenlang/seenc/internal/span"
	"github.com/seenlang/seenc/internal/types"
)

// ErrorCode enumerates the failure modes named in §4.3/§7.
type ErrorCode string

const (
	TypeMismatch       ErrorCode = "TypeMismatch"
	OccursCheckFailed  ErrorCode = "OccursCheckFailed"
	UnknownName        ErrorCode = "UnknownName"
	MethodNotFound     ErrorCode = "MethodNotFound"
	MethodNotVisible   ErrorCode = "MethodNotVisible"
	ArityMismatch      ErrorCode = "ArityMismatch"
	NonExhaustiveMatch ErrorCode = "NonExhaustiveMatch"
	AmbiguousType      ErrorCode = "AmbiguousType"
)

// TypeError is recovered: the checker substitutes a types.Hole for the
// offending subexpression and continues (§4.3 "type errors are recovered,
// not fatal; a Hole type is substituted so checking can continue").
type TypeError struct {
	Code      ErrorCode
	Span      span.Span
	Secondary []span.Span
	Message   string
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("type error [%s] at %s: %s", e.Code, e.Span, e.Message)
}

// funcSig is one entry in the global signature table built during pass 1.
type funcSig struct {
	generics []string
	params   []types.Type
	ret      types.Type
}

// extKey identifies an extension method by (receiver type name, method name).
type extKey struct {
	receiver string
	method   string
}

// Checker holds the whole-program state threaded through both passes.
type Checker struct {
	funcs   map[string]*funcSig
	structs map[string]*types.Struct
	enums   map[string]*types.Enum
	classes map[string]*types.Class
	exts    map[extKey]*funcSig

	errs []*TypeError

	nextVar int
	subst   *types.Subst

	// scopes is a stack of lexical scopes mapping local names to their
	// (possibly still-unresolved) type.
	scopes []map[string]types.Type
}

// NewChecker returns an empty, ready-to-populate Checker.
func NewChecker() *Checker {
	return &Checker{
		funcs:   map[string]*funcSig{},
		structs: map[string]*types.Struct{},
		enums:   map[string]*types.Enum{},
		classes: map[string]*types.Class{},
		exts:    map[extKey]*funcSig{},
		subst:   types.NewSubst(),
	}
}

// Check runs both passes over file and returns the recovered type errors.
// The AST itself is not mutated; callers that need per-node resolved types
// should re-run Apply(t) via the returned Checker where needed (e.g. from
// internal/ir during lowering).
func Check(file *ast.File) (*Checker, []*TypeError) {
	c := NewChecker()
	c.collectSignatures(file)
	c.pushScope()
	for _, item := range file.Items {
		c.checkItem(item)
	}
	c.popScope()
	return c, c.errs
}

func (c *Checker) errorf(sp span.Span, code ErrorCode, format string, args ...interface{}) types.Type {
	c.errs = append(c.errs, &TypeError{Code: code, Span: sp, Message: fmt.Sprintf(format, args...)})
	return &types.Hole{}
}

func (c *Checker) freshVar(hint string) *types.Var {
	c.nextVar++
	return &types.Var{ID: c.nextVar, Name: hint}
}

func (c *Checker) pushScope() { c.scopes = append(c.scopes, map[string]types.Type{}) }
func (c *Checker) popScope()  { c.scopes = c.scopes[:len(c.scopes)-1] }

func (c *Checker) bind(name string, t types.Type) {
	c.scopes[len(c.scopes)-1][name] = t
}

func (c *Checker) lookup(name string) (types.Type, bool) {
	for i := len(c.scopes) - 1; i >= 0; i-- {
		if t, ok := c.scopes[i][name]; ok {
			return t, true
		}
	}
	return nil, false
}

// ---- pass 1: signature collection -----------------------------------------

func (c *Checker) collectSignatures(file *ast.File) {
	for _, item := range file.Items {
		c.collectItemSignature(item)
	}
}

func (c *Checker) collectItemSignature(item ast.Item) {
	switch it := item.(type) {
	case *ast.FunctionItem:
		sig := c.funcSigFromItem(it)
		if it.ExtensionOf != nil {
			recv := c.resolveTypeName(it.ExtensionOf)
			c.exts[extKey{receiver: recv, method: it.Name}] = sig
		} else {
			c.funcs[it.Name] = sig
		}
	case *ast.StructItem:
		c.structs[it.Name] = c.structTypeFromItem(it)
	case *ast.ClassItem:
		c.classes[it.Name] = c.classTypeFromItem(it)
	case *ast.EnumItem:
		c.enums[it.Name] = c.enumTypeFromItem(it)
	case *ast.TraitItem:
		for _, m := range it.Methods {
			c.funcs[it.Name+"::"+m.Name] = c.funcSigFromItem(m)
		}
	case *ast.ImplItem:
		recv := c.resolveTypeName(it.ForType)
		for _, m := range it.Methods {
			c.exts[extKey{receiver: recv, method: m.Name}] = c.funcSigFromItem(m)
		}
	case *ast.ConstItem:
		if it.Type != nil {
			c.bind(it.Name, c.resolveASTType(it.Type))
		}
	case *ast.GlobalItem:
		if it.Type != nil {
			c.bind(it.Name, c.resolveASTType(it.Type))
		}
	}
}

func (c *Checker) funcSigFromItem(it *ast.FunctionItem) *funcSig {
	sig := &funcSig{}
	for _, g := range it.Generics {
		sig.generics = append(sig.generics, g.Name)
	}
	for _, p := range it.Params {
		if p.Type != nil {
			sig.params = append(sig.params, c.resolveASTType(p.Type))
		} else {
			sig.params = append(sig.params, c.freshVar(p.Name))
		}
	}
	if it.ReturnType != nil {
		sig.ret = c.resolveASTType(it.ReturnType)
	} else {
		sig.ret = types.Unit
	}
	return sig
}

func (c *Checker) structTypeFromItem(it *ast.StructItem) *types.Struct {
	s := &types.Struct{Name: it.Name, DataClass: it.DataClass}
	for _, f := range it.Fields {
		s.Fields = append(s.Fields, types.Field{Name: f.Name, Type: c.resolveASTType(f.Type)})
	}
	return s
}

func (c *Checker) classTypeFromItem(it *ast.ClassItem) *types.Class {
	cl := &types.Class{Name: it.Name}
	for _, f := range it.Fields {
		cl.Fields = append(cl.Fields, types.Field{Name: f.Name, Type: c.resolveASTType(f.Type)})
	}
	return cl
}

func (c *Checker) enumTypeFromItem(it *ast.EnumItem) *types.Enum {
	e := &types.Enum{Name: it.Name}
	for _, v := range it.Variants {
		variant := types.Variant{Name: v.Name}
		for _, f := range v.Fields {
			variant.Fields = append(variant.Fields, types.Field{Name: f.Name, Type: c.resolveASTType(f.Type)})
		}
		e.Variants = append(e.Variants, variant)
	}
	return e
}

func (c *Checker) resolveTypeName(t ast.Type) string {
	if nt, ok := t.(*ast.NamedType); ok && len(nt.Path) > 0 {
		return nt.Path[len(nt.Path)-1]
	}
	return ""
}

// resolveASTType converts a parsed ast.Type into a types.Type, resolving
// named references against the structs/enums/classes collected so far.
func (c *Checker) resolveASTType(t ast.Type) types.Type {
	switch tt := t.(type) {
	case nil:
		return c.freshVar("")
	case *ast.InferType:
		return c.freshVar("")
	case *ast.PrimitiveType:
		if p := types.PrimitiveByName(tt.Name); p != nil {
			return p
		}
		if tt.Name == "unit" {
			return types.Unit
		}
		return c.errorf(tt.Span, UnknownName, "unknown primitive type %q", tt.Name)
	case *ast.TupleType:
		elems := make([]types.Type, len(tt.Elems))
		for i, e := range tt.Elems {
			elems[i] = c.resolveASTType(e)
		}
		return &types.Tuple{Elems: elems}
	case *ast.ArrayType:
		return &types.Array{Elem: c.resolveASTType(tt.Elem), Len: tt.Len}
	case *ast.FnType:
		params := make([]types.Type, len(tt.Params))
		for i, p := range tt.Params {
			params[i] = c.resolveASTType(p)
		}
		return &types.Fn{Params: params, Ret: c.resolveASTType(tt.Ret)}
	case *ast.RefType:
		return &types.Ref{Mut: tt.Mut, Elem: c.resolveASTType(tt.Elem)}
	case *ast.NullableType:
		return types.NewNullable(c.resolveASTType(tt.Elem))
	case *ast.NamedType:
		name := tt.Path[len(tt.Path)-1]
		if s, ok := c.structs[name]; ok {
			return s
		}
		if e, ok := c.enums[name]; ok {
			return e
		}
		if cl, ok := c.classes[name]; ok {
			return cl
		}
		// Unresolved generic binder or forward reference: treated as an
		// opaque named type variable rather than an immediate error,
		// since struct/enum declarations may appear after their use.
		return &types.Var{ID: -hashName(name), Name: name}
	default:
		return c.freshVar("")
	}
}

func hashName(s string) int {
	h := 0
	for _, r := range s {
		h = h*131 + int(r)
	}
	if h < 0 {
		h = -h
	}
	return h
}

// ---- pass 2: body checking --------------------------------------------------

func (c *Checker) checkItem(item ast.Item) {
	switch it := item.(type) {
	case *ast.FunctionItem:
		c.checkFunctionBody(it)
	case *ast.ImplItem:
		for _, m := range it.Methods {
			c.checkFunctionBody(m)
		}
	case *ast.TraitItem:
		for _, m := range it.Methods {
			if m.Body != nil {
				c.checkFunctionBody(m)
			}
		}
	case *ast.ConstItem:
		c.pushScope()
		c.inferExpr(it.Value)
		c.popScope()
	case *ast.GlobalItem:
		c.pushScope()
		c.inferExpr(it.Value)
		c.popScope()
	}
}

func (c *Checker) checkFunctionBody(it *ast.FunctionItem) {
	if it.Body == nil {
		return
	}
	sig := c.funcs[it.Name]
	if it.ExtensionOf != nil {
		sig = c.exts[extKey{receiver: c.resolveTypeName(it.ExtensionOf), method: it.Name}]
	}
	c.pushScope()
	if it.ExtensionOf != nil {
		c.bind("self", c.resolveASTType(it.ExtensionOf))
	}
	for i, p := range it.Params {
		if sig != nil && i < len(sig.params) {
			c.bind(p.Name, sig.params[i])
		} else {
			c.bind(p.Name, c.freshVar(p.Name))
		}
	}
	bodyType := c.inferBlock(it.Body)
	if sig != nil {
		c.unify(it.Body.Span, sig.ret, bodyType)
	}
	c.popScope()
}

// inferExpr is the constraint-based inference entry point for one
// expression node, returning its (possibly still variable) type.
func (c *Checker) inferExpr(e ast.Expr) types.Type {
	switch x := e.(type) {
	case *ast.IntLit:
		return types.I32
	case *ast.FloatLit:
		return types.F64
	case *ast.BoolLit:
		return types.Bool
	case *ast.CharLit:
		return types.Char
	case *ast.StringLit:
		return types.Str
	case *ast.NullLit:
		return types.NewNullable(c.freshVar("null"))
	case *ast.InterpolatedStringLit:
		for _, sub := range x.Exprs {
			c.inferExpr(sub)
		}
		return types.Str
	case *ast.SelfExpr:
		if t, ok := c.lookup("self"); ok {
			return t
		}
		return c.errorf(x.Span, UnknownName, "self used outside a method")
	case *ast.Ident:
		if t, ok := c.lookup(x.Name); ok {
			return t
		}
		if sig, ok := c.funcs[x.Name]; ok {
			return c.instantiate(sig)
		}
		return c.errorf(x.Span, UnknownName, "unknown name %q", x.Name)
	case *ast.BinaryExpr:
		return c.inferBinary(x)
	case *ast.UnaryExpr:
		return c.inferUnary(x)
	case *ast.AssignExpr:
		target := c.inferExpr(x.Target)
		val := c.inferExpr(x.Value)
		c.unify(x.Span, target, val)
		return types.Unit
	case *ast.CallExpr:
		return c.inferCall(x)
	case *ast.FieldExpr:
		return c.inferField(x)
	case *ast.IndexExpr:
		recv := c.inferExpr(x.Receiver)
		c.inferExpr(x.Index)
		if arr, ok := c.subst.Apply(recv).(*types.Array); ok {
			return arr.Elem
		}
		return c.freshVar("elem")
	case *ast.ForceUnwrapExpr:
		inner := c.inferExpr(x.Operand)
		if n, ok := c.subst.Apply(inner).(*types.Nullable); ok {
			return n.Elem
		}
		return inner
	case *ast.CastExpr:
		c.inferExpr(x.X)
		return c.resolveASTType(x.Type)
	case *ast.IsExpr:
		c.inferExpr(x.X)
		return types.Bool
	case *ast.BlockExpr:
		return c.inferBlock(x)
	case *ast.IfExpr:
		c.unify(x.Cond.NodeSpan(), types.Bool, c.inferExpr(x.Cond))
		thenT := c.inferBlock(x.Then)
		if x.Else == nil {
			return types.Unit
		}
		elseT := c.inferExpr(x.Else)
		c.unify(x.Span, thenT, elseT)
		return thenT
	case *ast.MatchExpr:
		return c.inferMatch(x)
	case *ast.WhileExpr:
		c.unify(x.Cond.NodeSpan(), types.Bool, c.inferExpr(x.Cond))
		c.inferBlock(x.Body)
		return types.Unit
	case *ast.ForExpr:
		iterT := c.inferExpr(x.Iter)
		c.pushScope()
		c.bindPattern(x.Pattern, elementTypeOf(iterT))
		c.inferBlock(x.Body)
		c.popScope()
		return types.Unit
	case *ast.ClosureExpr:
		return c.inferClosure(x)
	case *ast.TupleExpr:
		elems := make([]types.Type, len(x.Elems))
		for i, el := range x.Elems {
			elems[i] = c.inferExpr(el)
		}
		return &types.Tuple{Elems: elems}
	case *ast.ArrayExpr:
		var elemT types.Type = c.freshVar("elem")
		for _, el := range x.Elems {
			t := c.inferExpr(el)
			c.unify(el.NodeSpan(), elemT, t)
		}
		return &types.Array{Elem: elemT, Len: int64(len(x.Elems))}
	case *ast.StructLit:
		return c.inferStructLit(x)
	default:
		return c.freshVar("")
	}
}

func elementTypeOf(t types.Type) types.Type {
	switch a := t.(type) {
	case *types.Array:
		return a.Elem
	default:
		return &types.Var{ID: 0, Name: "elem"}
	}
}

func (c *Checker) inferBlock(b *ast.BlockExpr) types.Type {
	c.pushScope()
	defer c.popScope()
	for _, s := range b.Stmts {
		c.checkStmt(s)
	}
	if b.TailExpr != nil {
		return c.inferExpr(b.TailExpr)
	}
	return types.Unit
}

func (c *Checker) checkStmt(s ast.Stmt) {
	switch st := s.(type) {
	case *ast.LetStmt:
		var declared types.Type
		if st.Type != nil {
			declared = c.resolveASTType(st.Type)
		}
		var valueT types.Type
		if st.Value != nil {
			valueT = c.inferExpr(st.Value)
		} else {
			valueT = c.freshVar("let")
		}
		if declared != nil {
			c.unify(st.Span, declared, valueT)
			c.bindPattern(st.Pattern, declared)
		} else {
			c.bindPattern(st.Pattern, valueT)
		}
	case *ast.ExprStmt:
		c.inferExpr(st.X)
	case *ast.ReturnStmt:
		if st.Value != nil {
			c.inferExpr(st.Value)
		}
	case *ast.ItemStmt:
		c.collectItemSignature(st.Item)
		c.checkItem(st.Item)
	}
}

func (c *Checker) bindPattern(p ast.Pattern, t types.Type) {
	switch pt := p.(type) {
	case *ast.IdentPattern:
		c.bind(pt.Name, t)
	case *ast.WildcardPattern:
		// no binding
	case *ast.TuplePattern:
		if tup, ok := c.subst.Apply(t).(*types.Tuple); ok && len(tup.Elems) == len(pt.Elems) {
			for i, el := range pt.Elems {
				c.bindPattern(el, tup.Elems[i])
			}
		} else {
			for _, el := range pt.Elems {
				c.bindPattern(el, c.freshVar(""))
			}
		}
	case *ast.StructPattern:
		st := c.resolveStructFieldTypes(pt.Path, t)
		for _, f := range pt.Fields {
			ft, ok := st[f.Name]
			if !ok {
				ft = c.freshVar(f.Name)
			}
			c.bindPattern(f.Pattern, ft)
		}
	case *ast.VariantPattern:
		for _, f := range pt.Fields {
			c.bindPattern(f, c.freshVar(""))
		}
	case *ast.GuardedPattern:
		c.bindPattern(pt.Inner, t)
		c.inferExpr(pt.Guard)
	}
}

func (c *Checker) resolveStructFieldTypes(path []string, t types.Type) map[string]types.Type {
	name := ""
	if len(path) > 0 {
		name = path[len(path)-1]
	}
	out := map[string]types.Type{}
	if s, ok := c.structs[name]; ok {
		for _, f := range s.Fields {
			out[f.Name] = f.Type
		}
		return out
	}
	if s, ok := c.subst.Apply(t).(*types.Struct); ok {
		for _, f := range s.Fields {
			out[f.Name] = f.Type
		}
	}
	return out
}

func (c *Checker) inferBinary(x *ast.BinaryExpr) types.Type {
	lt := c.inferExpr(x.LHS)
	rt := c.inferExpr(x.RHS)
	switch x.Op {
	case ast.OpAnd, ast.OpOr:
		c.unify(x.LHS.NodeSpan(), types.Bool, lt)
		c.unify(x.RHS.NodeSpan(), types.Bool, rt)
		return types.Bool
	case ast.OpEq, ast.OpNeq, ast.OpLt, ast.OpLte, ast.OpGt, ast.OpGte:
		c.unify(x.Span, lt, rt)
		return types.Bool
	case ast.OpElvis:
		if n, ok := c.subst.Apply(lt).(*types.Nullable); ok {
			c.unify(x.RHS.NodeSpan(), n.Elem, rt)
			return n.Elem
		}
		c.unify(x.Span, lt, rt)
		return lt
	case ast.OpRangeInclusive, ast.OpRangeExclusive:
		c.unify(x.Span, lt, rt)
		return &types.Array{Elem: lt, Len: -1} // range; element type only meaningful for `for`
	default:
		c.unify(x.Span, lt, rt)
		return lt
	}
}

func (c *Checker) inferUnary(x *ast.UnaryExpr) types.Type {
	t := c.inferExpr(x.Operand)
	switch x.Op {
	case ast.OpNot:
		c.unify(x.Span, types.Bool, t)
		return types.Bool
	case ast.OpMove:
		// `move` is ownership-analyzer-relevant only (§9 resolved
		// decision); it is type-preserving.
		return t
	default:
		return t
	}
}

func (c *Checker) inferCall(x *ast.CallExpr) types.Type {
	var sig *funcSig
	switch callee := x.Callee.(type) {
	case *ast.Ident:
		if s, ok := c.funcs[callee.Name]; ok {
			sig = s
		}
	}
	args := x.Args
	if x.TrailingLambda != nil {
		args = append(append([]ast.Expr{}, args...), x.TrailingLambda)
	}
	if sig == nil {
		for _, a := range args {
			c.inferExpr(a)
		}
		calleeT := c.inferExpr(x.Callee)
		if fn, ok := c.subst.Apply(calleeT).(*types.Fn); ok {
			return fn.Ret
		}
		return c.freshVar("call")
	}
	if len(args) != len(sig.params) {
		c.errorf(x.Span, ArityMismatch, "expected %d arguments, found %d", len(sig.params), len(args))
	}
	instSig := c.instantiateSig(sig)
	for i, a := range args {
		at := c.inferExpr(a)
		if i < len(instSig.params) {
			c.unify(a.NodeSpan(), instSig.params[i], at)
		}
	}
	return instSig.ret
}

// inferField resolves `.`/`?.` access: struct field lookup first, then
// extension-method lookup by receiver type name (§4.3 extension-method
// resolution).
func (c *Checker) inferField(x *ast.FieldExpr) types.Type {
	recvT := c.inferExpr(x.Receiver)
	resolved := c.subst.Apply(recvT)
	if x.Safe {
		if n, ok := resolved.(*types.Nullable); ok {
			resolved = n.Elem
		}
	}
	switch st := resolved.(type) {
	case *types.Struct:
		for _, f := range st.Fields {
			if f.Name == x.Name {
				return c.wrapSafe(x.Safe, f.Type)
			}
		}
	case *types.Class:
		for _, f := range st.Fields {
			if f.Name == x.Name {
				return c.wrapSafe(x.Safe, f.Type)
			}
		}
	}
	recvName := ""
	switch st := resolved.(type) {
	case *types.Struct:
		recvName = st.Name
	case *types.Class:
		recvName = st.Name
	case *types.Enum:
		recvName = st.Name
	}
	if sig, ok := c.exts[extKey{receiver: recvName, method: x.Name}]; ok {
		return c.wrapSafe(x.Safe, c.instantiate(sig))
	}
	return c.errorf(x.Span, MethodNotFound, "no field or method %q on %s", x.Name, resolved)
}

func (c *Checker) wrapSafe(safe bool, t types.Type) types.Type {
	if safe {
		return types.NewNullable(t)
	}
	return t
}

func (c *Checker) inferClosure(x *ast.ClosureExpr) types.Type {
	c.pushScope()
	params := make([]types.Type, 0, len(x.Params))
	if len(x.Params) == 0 {
		// implicit single parameter `it` (§3.3)
		itT := c.freshVar("it")
		c.bind("it", itT)
		params = append(params, itT)
	}
	for _, p := range x.Params {
		var pt types.Type
		if p.Type != nil {
			pt = c.resolveASTType(p.Type)
		} else {
			pt = c.freshVar(p.Name)
		}
		c.bind(p.Name, pt)
		params = append(params, pt)
	}
	ret := c.inferExpr(x.Body)
	c.popScope()
	return &types.Fn{Params: params, Ret: ret}
}

func (c *Checker) inferMatch(x *ast.MatchExpr) types.Type {
	scrutT := c.inferExpr(x.Scrutinee)
	scrutEnum, _ := c.subst.Apply(scrutT).(*types.Enum)
	var result types.Type = c.freshVar("match")
	first := true
	coveredVariants := map[string]bool{}
	hasWildcard := false
	for _, arm := range x.Arms {
		c.pushScope()
		c.bindPattern(arm.Pattern, scrutT)
		// A bare identifier that names a variant of the scrutinee's enum is
		// that variant, not a catch-all binding.
		bareVariant := false
		if ip, ok := arm.Pattern.(*ast.IdentPattern); ok && scrutEnum != nil {
			for _, v := range scrutEnum.Variants {
				if v.Name == ip.Name {
					coveredVariants[v.Name] = true
					bareVariant = true
				}
			}
		}
		if !bareVariant {
			recordCoverage(arm.Pattern, coveredVariants, &hasWildcard)
		}
		armT := c.inferExpr(arm.Body)
		if first {
			result = armT
			first = false
		} else {
			c.unify(arm.Span, result, armT)
		}
		c.popScope()
	}
	if en, ok := c.subst.Apply(scrutT).(*types.Enum); ok && !hasWildcard {
		for _, v := range en.Variants {
			if !coveredVariants[v.Name] {
				c.errorf(x.Span, NonExhaustiveMatch, "match is not exhaustive: missing variant %q", v.Name)
				break
			}
		}
	}
	return result
}

func recordCoverage(p ast.Pattern, covered map[string]bool, hasWildcard *bool) {
	switch pt := p.(type) {
	case *ast.WildcardPattern:
		*hasWildcard = true
	case *ast.IdentPattern:
		*hasWildcard = true // an irrefutable binding also covers everything
	case *ast.VariantPattern:
		if len(pt.Path) > 0 {
			covered[pt.Path[len(pt.Path)-1]] = true
		}
	case *ast.GuardedPattern:
		// A guarded arm never counts toward exhaustiveness, since the
		// guard may reject the match at runtime.
	}
}

func (c *Checker) inferStructLit(x *ast.StructLit) types.Type {
	name := ""
	if len(x.Path) > 0 {
		name = x.Path[len(x.Path)-1]
	}
	for _, f := range x.Fields {
		c.inferExpr(f.Value)
	}
	if s, ok := c.structs[name]; ok {
		return s
	}
	if cl, ok := c.classes[name]; ok {
		return cl
	}
	return c.errorf(x.Span, UnknownName, "unknown struct/class %q", name)
}

// instantiate creates a fresh copy of sig's generic parameters as a
// callable Fn type (generic instantiation, §4.3).
func (c *Checker) instantiate(sig *funcSig) types.Type {
	inst := c.instantiateSig(sig)
	return &types.Fn{Params: inst.params, Ret: inst.ret}
}

func (c *Checker) instantiateSig(sig *funcSig) *funcSig {
	if len(sig.generics) == 0 {
		return sig
	}
	fresh := map[string]types.Type{}
	for _, g := range sig.generics {
		fresh[g] = c.freshVar(g)
	}
	var sub func(types.Type) types.Type
	sub = func(t types.Type) types.Type {
		if v, ok := t.(*types.Var); ok && v.Name != "" {
			if f, ok := fresh[v.Name]; ok {
				return f
			}
		}
		return t
	}
	out := &funcSig{ret: sub(sig.ret)}
	for _, p := range sig.params {
		out.params = append(out.params, sub(p))
	}
	return out
}

// unify implements constraint-based unification with an occurs-check. On
// success it extends c.subst; on failure it records a recovered TypeError
// and leaves the substitution unchanged — checking continues with a Hole
// standing in for the failed unification's result where needed (§4.3).
func (c *Checker) unify(sp span.Span, a, b types.Type) {
	a = c.subst.Apply(a)
	b = c.subst.Apply(b)

	if a.Equal(b) {
		return
	}
	if av, ok := a.(*types.Var); ok {
		c.bindVar(sp, av, b)
		return
	}
	if bv, ok := b.(*types.Var); ok {
		c.bindVar(sp, bv, a)
		return
	}
	if types.IsSubtype(a, b) || types.IsSubtype(b, a) {
		return
	}

	switch at := a.(type) {
	case *types.Tuple:
		bt, ok := b.(*types.Tuple)
		if !ok || len(at.Elems) != len(bt.Elems) {
			c.errorf(sp, TypeMismatch, "cannot unify %s with %s", a, b)
			return
		}
		for i := range at.Elems {
			c.unify(sp, at.Elems[i], bt.Elems[i])
		}
		return
	case *types.Array:
		bt, ok := b.(*types.Array)
		if !ok {
			c.errorf(sp, TypeMismatch, "cannot unify %s with %s", a, b)
			return
		}
		c.unify(sp, at.Elem, bt.Elem)
		return
	case *types.Fn:
		bt, ok := b.(*types.Fn)
		if !ok || len(at.Params) != len(bt.Params) {
			c.errorf(sp, TypeMismatch, "cannot unify %s with %s", a, b)
			return
		}
		for i := range at.Params {
			c.unify(sp, at.Params[i], bt.Params[i])
		}
		c.unify(sp, at.Ret, bt.Ret)
		return
	case *types.Ref:
		bt, ok := b.(*types.Ref)
		if !ok || at.Mut != bt.Mut {
			c.errorf(sp, TypeMismatch, "cannot unify %s with %s", a, b)
			return
		}
		c.unify(sp, at.Elem, bt.Elem)
		return
	case *types.Nullable:
		bt, ok := b.(*types.Nullable)
		if !ok {
			c.errorf(sp, TypeMismatch, "cannot unify %s with %s", a, b)
			return
		}
		c.unify(sp, at.Elem, bt.Elem)
		return
	case *types.Hole:
		return // already-erroneous; don't cascade further diagnostics
	}
	if _, ok := b.(*types.Hole); ok {
		return
	}
	c.errorf(sp, TypeMismatch, "cannot unify %s with %s", a, b)
}

func (c *Checker) bindVar(sp span.Span, v *types.Var, t types.Type) {
	if v2, ok := t.(*types.Var); ok && v2.ID == v.ID {
		return
	}
	if types.Occurs(c.subst, v.ID, t) {
		c.errorf(sp, OccursCheckFailed, "occurs check failed: %s occurs in %s", v, t)
		return
	}
	c.subst.Bind(v.ID, t)
}

// Apply resolves t through the checker's final substitution; used by
// internal/ir to read out concrete types after checking completes. Any
// variable left unresolved (AmbiguousType) is defaulted to a Hole.
func (c *Checker) Apply(t types.Type) types.Type {
	resolved := c.subst.Apply(t)
	if v, ok := resolved.(*types.Var); ok {
		_ = v
		return &types.Hole{}
	}
	return resolved
}
