// Package ast defines the span-annotated, node-id-stamped abstract syntax
// tree produced by internal/parser (§3). Every node embeds Base, which
// carries its Span and a node id assigned depth-first pre-order by a single
// per-tree IDGen — node ids are never shared across two different parses.
package ast

import "github.com/seenlang/seenc/internal/span"

// NodeID uniquely identifies a node within one AST (§3.3: "a monotonically
// increasing 32-bit id assigned depth-first pre-order").
type NodeID uint32

// IDGen allocates NodeIDs in depth-first pre-order for a single parse. The
// parser creates exactly one IDGen per file and threads it through every
// constructor so ids are assigned in traversal order, never shared between
// two ASTs.
type IDGen struct{ next uint32 }

// Next returns the next NodeID and advances the generator.
func (g *IDGen) Next() NodeID {
	id := NodeID(g.next)
	g.next++
	return id
}

// Base is embedded in every AST node to provide its span and node id.
type Base struct {
	ID   NodeID
	Span span.Span
}

func (b Base) NodeID() NodeID  { return b.ID }
func (b Base) NodeSpan() span.Span { return b.Span }

// Node is satisfied by every AST node.
type Node interface {
	NodeID() NodeID
	NodeSpan() span.Span
	nodeKind() string
}

// ---- Files / items -------------------------------------------------------

// File is the root of one parsed source file.
type File struct {
	Base
	FileID span.FileID
	Items  []Item
}

func (*File) nodeKind() string { return "File" }

// Item is any top-level (or impl-block/trait-body) declaration.
type Item interface {
	Node
	itemNode()
}

// Visibility records the public/private distinction derived from the
// lexer's IsPublic rule and/or an explicit `public`/`private` modifier.
type Visibility int

const (
	VisPrivate Visibility = iota
	VisPublic
)

// Param is one function/closure parameter.
type Param struct {
	Base
	Name    string
	Type    Type // nil when the parameter's type is inferred (closures)
	Default Expr // nil when there is no default value
}

// GenericParam is one `<T: Bound>`-style type parameter.
type GenericParam struct {
	Base
	Name   string
	Bounds []Type
}

// FunctionItem is a top-level, method, or extension function.
//
// ExtensionOf is nil for ordinary functions and non-nil for
// `fun Receiver.name(...)` extension-method declarations (§3.3).
type FunctionItem struct {
	Base
	Vis         Visibility
	Name        string
	Generics    []GenericParam
	ExtensionOf Type
	Params      []Param
	ReturnType  Type // nil means inferred/Unit
	Body        *BlockExpr
	IsAsync     bool
}

func (*FunctionItem) itemNode()        {}
func (*FunctionItem) nodeKind() string { return "FunctionItem" }

// Field is one struct/data-class field.
type Field struct {
	Base
	Vis  Visibility
	Name string
	Type Type
}

// StructItem covers both `struct` and `data class` (DataClass=true), which
// share a shape and differ only in lowering behaviour (§4.5): data classes
// lower fully to IR; plain classes are rejected at lowering time.
type StructItem struct {
	Base
	Vis       Visibility
	Name      string
	Generics  []GenericParam
	Fields    []Field
	DataClass bool
}

func (*StructItem) itemNode()        {}
func (*StructItem) nodeKind() string { return "StructItem" }

// ClassItem is a plain `class` declaration: parses to a full AST item, but
// internal/ir.Lower rejects it with a LoweringError of kind
// UnsupportedConstruct (§4.5, §9).
type ClassItem struct {
	Base
	Vis      Visibility
	Name     string
	Generics []GenericParam
	Fields   []Field
	Methods  []*FunctionItem
}

func (*ClassItem) itemNode()        {}
func (*ClassItem) nodeKind() string { return "ClassItem" }

// EnumVariant is one `enum` case, optionally carrying positional fields.
type EnumVariant struct {
	Base
	Name   string
	Fields []Field
}

// EnumItem is an algebraic data type declaration.
type EnumItem struct {
	Base
	Vis      Visibility
	Name     string
	Generics []GenericParam
	Variants []EnumVariant
}

func (*EnumItem) itemNode()        {}
func (*EnumItem) nodeKind() string { return "EnumItem" }

// TraitItem declares a set of method signatures (and optional default
// bodies) a type may implement.
type TraitItem struct {
	Base
	Vis      Visibility
	Name     string
	Generics []GenericParam
	Methods  []*FunctionItem
}

func (*TraitItem) itemNode()        {}
func (*TraitItem) nodeKind() string { return "TraitItem" }

// ImplItem is an `impl Trait for Type { ... }` or inherent `impl Type { ... }`.
type ImplItem struct {
	Base
	Generics []GenericParam
	Trait    Type // nil for an inherent impl
	ForType  Type
	Methods  []*FunctionItem
}

func (*ImplItem) itemNode()        {}
func (*ImplItem) nodeKind() string { return "ImplItem" }

// TypeAliasItem is `type Name = Type`.
type TypeAliasItem struct {
	Base
	Vis      Visibility
	Name     string
	Generics []GenericParam
	Aliased  Type
}

func (*TypeAliasItem) itemNode()        {}
func (*TypeAliasItem) nodeKind() string { return "TypeAliasItem" }

// ConstItem is a top-level `const NAME: Type = expr`.
type ConstItem struct {
	Base
	Vis   Visibility
	Name  string
	Type  Type
	Value Expr
}

func (*ConstItem) itemNode()        {}
func (*ConstItem) nodeKind() string { return "ConstItem" }

// GlobalItem is a top-level mutable `static`/`var` binding.
type GlobalItem struct {
	Base
	Vis   Visibility
	Name  string
	Mut   bool
	Type  Type
	Value Expr
}

func (*GlobalItem) itemNode()        {}
func (*GlobalItem) nodeKind() string { return "GlobalItem" }

// ---- Types ----------------------------------------------------------------

// Type is any type-reference node (§3.4).
type Type interface {
	Node
	typeNode()
}

// NamedType is a path, optionally generic, e.g. `Map<K, V>`.
type NamedType struct {
	Base
	Path []string
	Args []Type
}

func (*NamedType) typeNode()         {}
func (*NamedType) nodeKind() string { return "NamedType" }

// PrimitiveType is a built-in scalar type name (i32, f64, bool, char, str, unit, ...).
type PrimitiveType struct {
	Base
	Name string
}

func (*PrimitiveType) typeNode()         {}
func (*PrimitiveType) nodeKind() string { return "PrimitiveType" }

// TupleType is `(T1, T2, ...)`.
type TupleType struct {
	Base
	Elems []Type
}

func (*TupleType) typeNode()         {}
func (*TupleType) nodeKind() string { return "TupleType" }

// ArrayType is `[T; N]`.
type ArrayType struct {
	Base
	Elem Type
	Len  int64
}

func (*ArrayType) typeNode()         {}
func (*ArrayType) nodeKind() string { return "ArrayType" }

// FnType is a first-class function type `(T1, T2) -> R`.
type FnType struct {
	Base
	Params []Type
	Ret    Type
}

func (*FnType) typeNode()         {}
func (*FnType) nodeKind() string { return "FnType" }

// RefType is `&T` or `&mut T`.
type RefType struct {
	Base
	Mut  bool
	Elem Type
}

func (*RefType) typeNode()         {}
func (*RefType) nodeKind() string { return "RefType" }

// NullableType is `T?`. Nullable(Nullable(T)) is rejected by the parser
// (§3.4 invariant), so this wrapper is never legally nested in itself.
type NullableType struct {
	Base
	Elem Type
}

func (*NullableType) typeNode()         {}
func (*NullableType) nodeKind() string { return "NullableType" }

// InferType is the `_` placeholder, or the implicit absence of a type
// annotation, to be resolved by internal/typecheck.
type InferType struct {
	Base
}

func (*InferType) typeNode()         {}
func (*InferType) nodeKind() string { return "InferType" }

// ---- Statements -------------------------------------------------------------

// Stmt is any statement-position node.
type Stmt interface {
	Node
	stmtNode()
}

// LetStmt is `let`/`var` (Mut distinguishes the two) with an optional type
// annotation and optional pattern destructuring.
type LetStmt struct {
	Base
	Pattern Pattern
	Type    Type // nil if inferred
	Mut     bool
	Value   Expr // nil for a bare declaration
}

func (*LetStmt) stmtNode()         {}
func (*LetStmt) nodeKind() string { return "LetStmt" }

// ExprStmt wraps an expression used as a statement.
type ExprStmt struct {
	Base
	X Expr
}

func (*ExprStmt) stmtNode()         {}
func (*ExprStmt) nodeKind() string { return "ExprStmt" }

// ReturnStmt is `return expr?`.
type ReturnStmt struct {
	Base
	Value Expr // nil for a bare `return`
}

func (*ReturnStmt) stmtNode()         {}
func (*ReturnStmt) nodeKind() string { return "ReturnStmt" }

// BreakStmt is `break`.
type BreakStmt struct{ Base }

func (*BreakStmt) stmtNode()         {}
func (*BreakStmt) nodeKind() string { return "BreakStmt" }

// ContinueStmt is `continue`.
type ContinueStmt struct{ Base }

func (*ContinueStmt) stmtNode()         {}
func (*ContinueStmt) nodeKind() string { return "ContinueStmt" }

// ItemStmt allows a local item (e.g. a nested function) inside a block.
type ItemStmt struct {
	Base
	Item Item
}

func (*ItemStmt) stmtNode()         {}
func (*ItemStmt) nodeKind() string { return "ItemStmt" }

// ---- Patterns ---------------------------------------------------------------

// Pattern is any pattern-position node used in `let`, `match`/`when` arms,
// and `for` loops (§3.5).
type Pattern interface {
	Node
	patternNode()
}

// WildcardPattern is `_`.
type WildcardPattern struct{ Base }

func (*WildcardPattern) patternNode()      {}
func (*WildcardPattern) nodeKind() string { return "WildcardPattern" }

// IdentPattern binds a name (the common case: `let x = ...`).
type IdentPattern struct {
	Base
	Name string
	Mut  bool
}

func (*IdentPattern) patternNode()      {}
func (*IdentPattern) nodeKind() string { return "IdentPattern" }

// LiteralPattern matches a literal value exactly.
type LiteralPattern struct {
	Base
	Value Expr // an IntLit/FloatLit/StringLit/CharLit/BoolLit
}

func (*LiteralPattern) patternNode()      {}
func (*LiteralPattern) nodeKind() string { return "LiteralPattern" }

// TuplePattern destructures a tuple.
type TuplePattern struct {
	Base
	Elems []Pattern
}

func (*TuplePattern) patternNode()      {}
func (*TuplePattern) nodeKind() string { return "TuplePattern" }

// FieldPattern is one `name: pattern` entry in a StructPattern.
type FieldPattern struct {
	Base
	Name    string
	Pattern Pattern
}

// StructPattern destructures a struct/data class by field name.
type StructPattern struct {
	Base
	Path   []string
	Fields []FieldPattern
	Rest   bool // trailing `..`
}

func (*StructPattern) patternNode()      {}
func (*StructPattern) nodeKind() string { return "StructPattern" }

// VariantPattern matches an enum variant, optionally destructuring its fields.
type VariantPattern struct {
	Base
	Path   []string
	Fields []Pattern
}

func (*VariantPattern) patternNode()      {}
func (*VariantPattern) nodeKind() string { return "VariantPattern" }

// GuardedPattern attaches an `if` guard expression to another pattern.
type GuardedPattern struct {
	Base
	Inner Pattern
	Guard Expr
}

func (*GuardedPattern) patternNode()      {}
func (*GuardedPattern) nodeKind() string { return "GuardedPattern" }

// ---- Expressions ------------------------------------------------------------

// Expr is any expression-position node.
type Expr interface {
	Node
	exprNode()
}

// Literal kinds.

type IntLit struct {
	Base
	Value int64
}

func (*IntLit) exprNode()         {}
func (*IntLit) nodeKind() string { return "IntLit" }

type FloatLit struct {
	Base
	Text string
}

func (*FloatLit) exprNode()         {}
func (*FloatLit) nodeKind() string { return "FloatLit" }

type BoolLit struct {
	Base
	Value bool
}

func (*BoolLit) exprNode()         {}
func (*BoolLit) nodeKind() string { return "BoolLit" }

type CharLit struct {
	Base
	Value rune
}

func (*CharLit) exprNode()         {}
func (*CharLit) nodeKind() string { return "CharLit" }

type NullLit struct{ Base }

func (*NullLit) exprNode()         {}
func (*NullLit) nodeKind() string { return "NullLit" }

// StringLit is a non-interpolated string literal.
type StringLit struct {
	Base
	Value string
}

func (*StringLit) exprNode()         {}
func (*StringLit) nodeKind() string { return "StringLit" }

// InterpolatedStringLit is the desugared form of `"a{b}c"`: alternating
// literal chunks and embedded expressions, chunks always one longer than
// exprs (§3.2, §4.1 STR_START/STR_MID/STR_END/STR_EXPR token sequence).
type InterpolatedStringLit struct {
	Base
	Chunks []string
	Exprs  []Expr
}

func (*InterpolatedStringLit) exprNode()         {}
func (*InterpolatedStringLit) nodeKind() string { return "InterpolatedStringLit" }

// Ident is a name reference.
type Ident struct {
	Base
	Name string
}

func (*Ident) exprNode()         {}
func (*Ident) nodeKind() string { return "Ident" }

// SelfExpr is the receiver keyword `self`.
type SelfExpr struct{ Base }

func (*SelfExpr) exprNode()         {}
func (*SelfExpr) nodeKind() string { return "SelfExpr" }

// BinaryOp enumerates all binary operators, including the range and elvis
// forms (§4.2).
type BinaryOp int

const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpDiv
	OpRem
	OpBitAnd
	OpBitOr
	OpBitXor
	OpShl
	OpShr
	OpEq
	OpNeq
	OpLt
	OpLte
	OpGt
	OpGte
	OpAnd
	OpOr
	OpRangeInclusive // ..
	OpRangeExclusive // ..<
	OpElvis          // ?:
)

// BinaryExpr is `lhs op rhs`.
type BinaryExpr struct {
	Base
	Op  BinaryOp
	LHS Expr
	RHS Expr
}

func (*BinaryExpr) exprNode()         {}
func (*BinaryExpr) nodeKind() string { return "BinaryExpr" }

// UnaryOp enumerates prefix operators, including `move` and the logical `not`.
type UnaryOp int

const (
	OpNeg UnaryOp = iota
	OpNot
	OpBitNot
	OpMove
)

// UnaryExpr is `op operand`.
type UnaryExpr struct {
	Base
	Op      UnaryOp
	Operand Expr
}

func (*UnaryExpr) exprNode()         {}
func (*UnaryExpr) nodeKind() string { return "UnaryExpr" }

// AssignExpr is `target = value` or a compound form (`+=`, etc, desugared
// into Op != OpAssign meaning "target = target op value").
type AssignOp int

const (
	AssignPlain AssignOp = iota
	AssignAdd
	AssignSub
	AssignMul
	AssignDiv
	AssignRem
)

type AssignExpr struct {
	Base
	Op     AssignOp
	Target Expr
	Value  Expr
}

func (*AssignExpr) exprNode()         {}
func (*AssignExpr) nodeKind() string { return "AssignExpr" }

// CallExpr is `callee(args...)`.
type CallExpr struct {
	Base
	Callee Expr
	Args   []Expr
	// TrailingLambda holds a desugared trailing-lambda argument (§4.2's
	// trailing-lambda sugar: `foo(x) { ... }` parses as a CallExpr whose
	// last argument is this closure).
	TrailingLambda *ClosureExpr
}

func (*CallExpr) exprNode()         {}
func (*CallExpr) nodeKind() string { return "CallExpr" }

// FieldExpr is `.` or safe-call `?.` field/method access.
type FieldExpr struct {
	Base
	Receiver Expr
	Name     string
	Safe     bool // true for `?.`
}

func (*FieldExpr) exprNode()         {}
func (*FieldExpr) nodeKind() string { return "FieldExpr" }

// IndexExpr is `recv[index]`.
type IndexExpr struct {
	Base
	Receiver Expr
	Index    Expr
}

func (*IndexExpr) exprNode()         {}
func (*IndexExpr) nodeKind() string { return "IndexExpr" }

// ForceUnwrapExpr is the postfix `!!` operator.
type ForceUnwrapExpr struct {
	Base
	Operand Expr
}

func (*ForceUnwrapExpr) exprNode()         {}
func (*ForceUnwrapExpr) nodeKind() string { return "ForceUnwrapExpr" }

// CastExpr is `expr as Type`.
type CastExpr struct {
	Base
	X    Expr
	Type Type
}

func (*CastExpr) exprNode()         {}
func (*CastExpr) nodeKind() string { return "CastExpr" }

// IsExpr is `expr is Type`.
type IsExpr struct {
	Base
	X    Expr
	Type Type
}

func (*IsExpr) exprNode()         {}
func (*IsExpr) nodeKind() string { return "IsExpr" }

// BlockExpr is `{ stmt* tailExpr? }`; if TailExpr is non-nil its value is
// the block's value (§4.2 "trailing expression is the block's value").
type BlockExpr struct {
	Base
	Stmts    []Stmt
	TailExpr Expr
}

func (*BlockExpr) exprNode()         {}
func (*BlockExpr) nodeKind() string { return "BlockExpr" }

// IfExpr is `if cond { then } else { else }`, usable as an expression.
type IfExpr struct {
	Base
	Cond Expr
	Then *BlockExpr
	Else Expr // *BlockExpr or *IfExpr, nil if no else
}

func (*IfExpr) exprNode()         {}
func (*IfExpr) nodeKind() string { return "IfExpr" }

// MatchArm is one `pattern -> body` arm of a match/when expression.
type MatchArm struct {
	Base
	Pattern Pattern
	Body    Expr
}

// MatchExpr is `match scrutinee { arm* }` (spec's `when`/`match`).
type MatchExpr struct {
	Base
	Scrutinee Expr
	Arms      []MatchArm
}

func (*MatchExpr) exprNode()         {}
func (*MatchExpr) nodeKind() string { return "MatchExpr" }

// WhileExpr is `while cond { body }`.
type WhileExpr struct {
	Base
	Cond Expr
	Body *BlockExpr
}

func (*WhileExpr) exprNode()         {}
func (*WhileExpr) nodeKind() string { return "WhileExpr" }

// ForExpr is `for pattern in iter { body }`.
type ForExpr struct {
	Base
	Pattern Pattern
	Iter    Expr
	Body    *BlockExpr
}

func (*ForExpr) exprNode()         {}
func (*ForExpr) nodeKind() string { return "ForExpr" }

// ClosureExpr is `{ params -> body }` or the implicit-`it` single-parameter
// form (Params is empty and the body refers to `it`, resolved in
// internal/typecheck, §3.3).
type ClosureExpr struct {
	Base
	Params  []Param
	Body    Expr
	IsBlock bool // true if Body is a *BlockExpr rather than a bare expr
}

func (*ClosureExpr) exprNode()         {}
func (*ClosureExpr) nodeKind() string { return "ClosureExpr" }

// TupleExpr is `(e1, e2, ...)`.
type TupleExpr struct {
	Base
	Elems []Expr
}

func (*TupleExpr) exprNode()         {}
func (*TupleExpr) nodeKind() string { return "TupleExpr" }

// ArrayExpr is `[e1, e2, ...]`.
type ArrayExpr struct {
	Base
	Elems []Expr
}

func (*ArrayExpr) exprNode()         {}
func (*ArrayExpr) nodeKind() string { return "ArrayExpr" }

// StructLitField is one `name: value` entry in a StructLit.
type StructLitField struct {
	Base
	Name  string
	Value Expr
}

// StructLit is `Path { field: value, ... }`.
type StructLit struct {
	Base
	Path   []string
	Fields []StructLitField
}

func (*StructLit) exprNode()         {}
func (*StructLit) nodeKind() string { return "StructLit" }
