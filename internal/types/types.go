// Package types is the concrete type representation shared by
// internal/typecheck and internal/ir: a Kind enum, a Type interface,
// singleton primitives with an Equal/String idiom, and type variables,
// forall binders, and a nullable wrapper distinct from refs.
package types

import (
	"fmt"
	"strings"
)

// Kind discriminates the concrete shape of a Type.
type Kind int

const (
	KindPrimitive Kind = iota
	KindTuple
	KindArray
	KindFn
	KindRef
	KindNullable
	KindStruct
	KindEnum
	KindTypeVar
	KindForall
	KindUnit
	KindHole // unresolved/inference-failed placeholder (AmbiguousType, §4.3)
)

// Type is any concrete or partially-inferred type value.
type Type interface {
	Kind() Kind
	String() string
	// Equal reports structural equality after substitution; callers must
	// zonk/resolve type variables before comparing inference-time types.
	Equal(other Type) bool
}

// Primitive is a built-in scalar type. Instances are interned singletons,
// so identity comparison is equivalent to kind comparison.
type Primitive struct{ name string }

func (p *Primitive) Kind() Kind   { return KindPrimitive }
func (p *Primitive) String() string { return p.name }
func (p *Primitive) Equal(o Type) bool {
	op, ok := o.(*Primitive)
	return ok && op.name == p.name
}

var (
	I8   = &Primitive{"i8"}
	I16  = &Primitive{"i16"}
	I32  = &Primitive{"i32"}
	I64  = &Primitive{"i64"}
	U8   = &Primitive{"u8"}
	U16  = &Primitive{"u16"}
	U32  = &Primitive{"u32"}
	U64  = &Primitive{"u64"}
	F32  = &Primitive{"f32"}
	F64  = &Primitive{"f64"}
	Bool = &Primitive{"bool"}
	Char = &Primitive{"char"}
	Str  = &Primitive{"str"}
)

// Unit is the zero-element tuple / void return type.
var Unit = &UnitType{}

type UnitType struct{}

func (*UnitType) Kind() Kind     { return KindUnit }
func (*UnitType) String() string { return "unit" }
func (*UnitType) Equal(o Type) bool {
	_, ok := o.(*UnitType)
	return ok
}

var primitivesByName = map[string]*Primitive{
	"i8": I8, "i16": I16, "i32": I32, "i64": I64,
	"u8": U8, "u16": U16, "u32": U32, "u64": U64,
	"f32": F32, "f64": F64, "bool": Bool, "char": Char, "str": Str,
}

// PrimitiveByName returns the singleton Primitive for name, or nil.
func PrimitiveByName(name string) *Primitive { return primitivesByName[name] }

func IsIntegral(t Type) bool {
	p, ok := t.(*Primitive)
	if !ok {
		return false
	}
	switch p {
	case I8, I16, I32, I64, U8, U16, U32, U64:
		return true
	}
	return false
}

func IsUnsigned(t Type) bool {
	p, ok := t.(*Primitive)
	if !ok {
		return false
	}
	switch p {
	case U8, U16, U32, U64:
		return true
	}
	return false
}

func IsFloat(t Type) bool {
	p, ok := t.(*Primitive)
	return ok && (p == F32 || p == F64)
}

// Tuple is a fixed-arity product type.
type Tuple struct{ Elems []Type }

func (t *Tuple) Kind() Kind { return KindTuple }
func (t *Tuple) String() string {
	parts := make([]string, len(t.Elems))
	for i, e := range t.Elems {
		parts[i] = e.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
func (t *Tuple) Equal(o Type) bool {
	ot, ok := o.(*Tuple)
	if !ok || len(ot.Elems) != len(t.Elems) {
		return false
	}
	for i := range t.Elems {
		if !t.Elems[i].Equal(ot.Elems[i]) {
			return false
		}
	}
	return true
}

// Array is `[T; N]`.
type Array struct {
	Elem Type
	Len  int64
}

func (a *Array) Kind() Kind     { return KindArray }
func (a *Array) String() string { return fmt.Sprintf("[%s; %d]", a.Elem, a.Len) }
func (a *Array) Equal(o Type) bool {
	oa, ok := o.(*Array)
	return ok && a.Len == oa.Len && a.Elem.Equal(oa.Elem)
}

// Fn is a first-class function type.
type Fn struct {
	Params []Type
	Ret    Type
}

func (f *Fn) Kind() Kind { return KindFn }
func (f *Fn) String() string {
	parts := make([]string, len(f.Params))
	for i, p := range f.Params {
		parts[i] = p.String()
	}
	return "(" + strings.Join(parts, ", ") + ") -> " + f.Ret.String()
}
func (f *Fn) Equal(o Type) bool {
	of, ok := o.(*Fn)
	if !ok || len(of.Params) != len(f.Params) || !f.Ret.Equal(of.Ret) {
		return false
	}
	for i := range f.Params {
		if !f.Params[i].Equal(of.Params[i]) {
			return false
		}
	}
	return true
}

// Ref is `&T` / `&mut T`.
type Ref struct {
	Mut  bool
	Elem Type
}

func (r *Ref) Kind() Kind { return KindRef }
func (r *Ref) String() string {
	if r.Mut {
		return "&mut " + r.Elem.String()
	}
	return "&" + r.Elem.String()
}
func (r *Ref) Equal(o Type) bool {
	or, ok := o.(*Ref)
	return ok && or.Mut == r.Mut && r.Elem.Equal(or.Elem)
}

// Nullable is `T?`, a distinct wrapper from Ref: nullability is a type-
// level concern (subtyping, §4.3) independent of borrowing. Nullable(Nullable(T))
// never occurs — the parser and constructors here both forbid it.
type Nullable struct{ Elem Type }

func NewNullable(elem Type) Type {
	if n, ok := elem.(*Nullable); ok {
		return n // idempotent: nullable-of-nullable collapses, never nests
	}
	return &Nullable{Elem: elem}
}

func (n *Nullable) Kind() Kind     { return KindNullable }
func (n *Nullable) String() string { return n.Elem.String() + "?" }
func (n *Nullable) Equal(o Type) bool {
	on, ok := o.(*Nullable)
	return ok && n.Elem.Equal(on.Elem)
}

// Field is one struct/enum-variant field.
type Field struct {
	Name string
	Type Type
}

// Struct is a nominal product type (backs both `struct` and `data class`).
type Struct struct {
	Name   string
	Fields []Field
	// DataClass is true for structs produced from a `data class`
	// declaration and false for a plain `struct`; both lower fully to IR
	// the same way (§9 resolved decision). Plain `class` declarations are
	// represented by Class, not Struct.
	DataClass bool
}

func (s *Struct) Kind() Kind     { return KindStruct }
func (s *Struct) String() string { return s.Name }
func (s *Struct) Equal(o Type) bool {
	os, ok := o.(*Struct)
	return ok && os.Name == s.Name
}

// Variant is one case of an Enum.
type Variant struct {
	Name   string
	Fields []Field
}

// Enum is a nominal sum type.
type Enum struct {
	Name     string
	Variants []Variant
}

func (e *Enum) Kind() Kind     { return KindEnum }
func (e *Enum) String() string { return e.Name }
func (e *Enum) Equal(o Type) bool {
	oe, ok := o.(*Enum)
	return ok && oe.Name == e.Name
}

// Class represents a plain `class` declaration's type. It type-checks like
// a Struct but internal/ir.Lower rejects lowering it (§9 resolved decision).
type Class struct {
	Name   string
	Fields []Field
}

func (c *Class) Kind() Kind     { return KindStruct }
func (c *Class) String() string { return c.Name }
func (c *Class) Equal(o Type) bool {
	oc, ok := o.(*Class)
	return ok && oc.Name == c.Name
}

// Var is an inference-time type variable, unified by internal/typecheck.
type Var struct {
	ID   int
	Name string // display hint only, not part of identity
}

func (v *Var) Kind() Kind     { return KindTypeVar }
func (v *Var) String() string { return fmt.Sprintf("'%d", v.ID) }
func (v *Var) Equal(o Type) bool {
	ov, ok := o.(*Var)
	return ok && ov.ID == v.ID
}

// Forall is a universally quantified (generic) type scheme: `forall<T> T -> T`.
type Forall struct {
	Binders []string
	Body    Type
}

func (f *Forall) Kind() Kind { return KindForall }
func (f *Forall) String() string {
	return "forall<" + strings.Join(f.Binders, ", ") + "> " + f.Body.String()
}
func (f *Forall) Equal(o Type) bool {
	of, ok := o.(*Forall)
	if !ok || len(of.Binders) != len(f.Binders) {
		return false
	}
	return f.Body.Equal(of.Body)
}

// Hole stands in for a type the checker could not resolve (AmbiguousType,
// §4.3, §7). Equal holds only between Holes; the unifier accepts a Hole
// against any type without reporting a further error, so one failure does
// not cascade into more diagnostics.
type Hole struct{}

func (*Hole) Kind() Kind     { return KindHole }
func (*Hole) String() string { return "<error>" }
func (h *Hole) Equal(o Type) bool {
	_, ok := o.(*Hole)
	return ok
}

// IsNullable reports whether t's top level is a Nullable wrapper.
func IsNullable(t Type) bool {
	_, ok := t.(*Nullable)
	return ok
}

// IsSubtype implements the one named subtyping rule in §4.3: T <: T? for
// every T (besides reflexivity). No other subtyping (no struct-field
// variance, no enum subtyping) exists in this type system.
func IsSubtype(sub, super Type) bool {
	if sub.Equal(super) {
		return true
	}
	if n, ok := super.(*Nullable); ok {
		if _, subIsNullable := sub.(*Nullable); subIsNullable {
			return sub.Equal(n)
		}
		return sub.Equal(n.Elem)
	}
	return false
}

// IsCopyable reports whether values of t are implicitly duplicated rather
// than moved by the ownership analyzer: primitives and unit, nullables of a
// copyable type, and tuples whose elements are all copyable. Structs, enums,
// arrays and every other type are always moved.
func IsCopyable(t Type) bool {
	switch t.Kind() {
	case KindPrimitive, KindUnit:
		return true
	case KindNullable:
		return IsCopyable(t.(*Nullable).Elem)
	case KindTuple:
		for _, e := range t.(*Tuple).Elems {
			if !IsCopyable(e) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
