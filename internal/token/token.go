// Package token defines the lexical token kinds for the Seen language.
//
// Design principles (carried over from the single-language PROBE lexer this
// package generalizes, see DESIGN.md):
//   - token spellings are never hard-coded here for keywords/operators; a
//     langpack.Pack supplies the spelling-to-Kind mapping at lex time, so
//     the same Kind enumeration serves every natural-language keyword pack.
//   - every Kind from the fixed enumeration below is a legal value for a
//     TOML language-pack tag (see internal/langpack); the loader rejects any
//     tag string that does not name one of these.
package token

import (
	"fmt"

	"github.com/seenlang/seenc/internal/span"
)

// Kind is the set of lexical token kinds.
type Kind int

const (
	// Special
	ILLEGAL Kind = iota
	EOF
	COMMENT
	NEWLINE

	// Literals
	IDENT
	INT
	FLOAT
	STRING
	CHAR
	BOOL

	// String interpolation sub-tokens.
	STR_START
	STR_MID
	STR_END
	STR_EXPR

	operatorStart

	// Arithmetic / bitwise
	PLUS
	MINUS
	STAR
	SLASH
	PERCENT
	AMP
	PIPE
	CARET
	TILDE
	LSHIFT
	RSHIFT

	// Comparison
	EQ
	NEQ
	LT
	GT
	LTE
	GTE

	// Assignment
	ASSIGN
	PLUS_EQ
	MINUS_EQ
	STAR_EQ
	SLASH_EQ
	PERCENT_EQ

	// Logical
	AND_AND
	OR_OR
	BANG

	// Nullable / Kotlin-style operators
	QUESTION
	QUESTION_DOT
	ELVIS
	BANG_BANG

	// Punctuation
	DOT
	DOT_DOT
	DOT_DOT_LT
	ARROW
	FAT_ARROW
	COLON
	COLON_COLON
	COMMA
	SEMICOLON
	AT
	UNDERSCORE
	LANGLE
	RANGLE

	LPAREN
	RPAREN
	LBRACE
	RBRACE
	LBRACKET
	RBRACKET

	operatorEnd

	keywordStart

	// Declarations
	KW_FUN
	KW_LET
	KW_VAR
	KW_MUT
	KW_STRUCT
	KW_ENUM
	KW_CLASS
	KW_DATA
	KW_IMPL
	KW_TRAIT
	KW_INTERFACE
	KW_TYPE
	KW_CONST
	KW_STATIC
	KW_OBJECT
	KW_COMPANION

	// Modifiers / visibility
	KW_PUBLIC
	KW_PRIVATE
	KW_OPEN
	KW_FINAL
	KW_ABSTRACT
	KW_OVERRIDE
	KW_SEALED
	KW_LATEINIT
	KW_INLINE
	KW_REIFIED
	KW_CROSSINLINE
	KW_NOINLINE
	KW_OPERATOR
	KW_INFIX
	KW_TAILREC
	KW_SUSPEND

	// Control flow
	KW_IF
	KW_ELSE
	KW_WHEN
	KW_MATCH
	KW_WHILE
	KW_FOR
	KW_IN
	KW_IS
	KW_AS
	KW_RETURN
	KW_BREAK
	KW_CONTINUE
	KW_TRY
	KW_CATCH
	KW_FINALLY
	KW_THROW

	// Module / imports
	KW_USE
	KW_IMPORT
	KW_MODULE
	KW_BY

	// Literals / word operators
	KW_TRUE
	KW_FALSE
	KW_NULL
	KW_AND
	KW_OR
	KW_NOT
	KW_SELF

	// Ownership
	KW_MOVE
	KW_BORROW
	KW_INOUT
	KW_COPY

	// Concurrency sugar
	KW_ASYNC
	KW_AWAIT
	KW_SPAWN
	KW_LAUNCH
	KW_FLOW

	keywordEnd
)

var kindNames = [...]string{
	ILLEGAL:   "ILLEGAL",
	EOF:       "EOF",
	COMMENT:   "COMMENT",
	NEWLINE:   "NEWLINE",
	IDENT:     "IDENT",
	INT:       "INT",
	FLOAT:     "FLOAT",
	STRING:    "STRING",
	CHAR:      "CHAR",
	BOOL:      "BOOL",
	STR_START: "STR_START",
	STR_MID:   "STR_MID",
	STR_END:   "STR_END",
	STR_EXPR:  "STR_EXPR",

	PLUS: "+", MINUS: "-", STAR: "*", SLASH: "/", PERCENT: "%",
	AMP: "&", PIPE: "|", CARET: "^", TILDE: "~",
	LSHIFT: "<<", RSHIFT: ">>",

	EQ: "==", NEQ: "!=", LT: "<", GT: ">", LTE: "<=", GTE: ">=",

	ASSIGN: "=", PLUS_EQ: "+=", MINUS_EQ: "-=", STAR_EQ: "*=",
	SLASH_EQ: "/=", PERCENT_EQ: "%=",

	AND_AND: "&&", OR_OR: "||", BANG: "!",

	QUESTION: "?", QUESTION_DOT: "?.", ELVIS: "?:", BANG_BANG: "!!",

	DOT: ".", DOT_DOT: "..", DOT_DOT_LT: "..<",
	ARROW: "->", FAT_ARROW: "=>",
	COLON: ":", COLON_COLON: "::",
	COMMA: ",", SEMICOLON: ";", AT: "@", UNDERSCORE: "_",
	LANGLE: "<", RANGLE: ">",

	LPAREN: "(", RPAREN: ")", LBRACE: "{", RBRACE: "}",
	LBRACKET: "[", RBRACKET: "]",

	KW_FUN: "fun", KW_LET: "let", KW_VAR: "var", KW_MUT: "mut",
	KW_STRUCT: "struct", KW_ENUM: "enum", KW_CLASS: "class", KW_DATA: "data",
	KW_IMPL: "impl", KW_TRAIT: "trait", KW_INTERFACE: "interface",
	KW_TYPE: "type", KW_CONST: "const", KW_STATIC: "static",
	KW_OBJECT: "object", KW_COMPANION: "companion",

	KW_PUBLIC: "public", KW_PRIVATE: "private", KW_OPEN: "open",
	KW_FINAL: "final", KW_ABSTRACT: "abstract", KW_OVERRIDE: "override",
	KW_SEALED: "sealed", KW_LATEINIT: "lateinit", KW_INLINE: "inline",
	KW_REIFIED: "reified", KW_CROSSINLINE: "crossinline",
	KW_NOINLINE: "noinline", KW_OPERATOR: "operator", KW_INFIX: "infix",
	KW_TAILREC: "tailrec", KW_SUSPEND: "suspend",

	KW_IF: "if", KW_ELSE: "else", KW_WHEN: "when", KW_MATCH: "match",
	KW_WHILE: "while", KW_FOR: "for", KW_IN: "in", KW_IS: "is", KW_AS: "as",
	KW_RETURN: "return", KW_BREAK: "break", KW_CONTINUE: "continue",
	KW_TRY: "try", KW_CATCH: "catch", KW_FINALLY: "finally", KW_THROW: "throw",

	KW_USE: "use", KW_IMPORT: "import", KW_MODULE: "module", KW_BY: "by",

	KW_TRUE: "true", KW_FALSE: "false", KW_NULL: "null",
	KW_AND: "and", KW_OR: "or", KW_NOT: "not", KW_SELF: "self",

	KW_MOVE: "move", KW_BORROW: "borrow", KW_INOUT: "inout", KW_COPY: "copy",

	KW_ASYNC: "async", KW_AWAIT: "await", KW_SPAWN: "spawn",
	KW_LAUNCH: "launch", KW_FLOW: "flow",
}

// String returns the canonical (English) spelling of k, used for error
// messages and as the default fallback display form; actual source
// spellings come from the active language pack.
func (k Kind) String() string {
	if int(k) >= 0 && int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return fmt.Sprintf("token(%d)", int(k))
}

// IsKeyword reports whether k is one of the enumerated keyword kinds.
func (k Kind) IsKeyword() bool { return k > keywordStart && k < keywordEnd }

// IsOperator reports whether k is one of the enumerated operator/punctuation kinds.
func (k Kind) IsOperator() bool { return k > operatorStart && k < operatorEnd }

// IsLiteral reports whether k carries a literal value.
func (k Kind) IsLiteral() bool {
	switch k {
	case IDENT, INT, FLOAT, STRING, CHAR, BOOL:
		return true
	default:
		return false
	}
}

// KindByName looks up a Kind by its canonical tag name, e.g. "KeywordFun" is
// not how this package spells it (that's the original-language form); the
// langpack loader maps pack tag strings like "KeywordFun" onto these Kinds
// via the table in internal/langpack, not via this function directly.
func KindByName(name string) (Kind, bool) {
	for i, n := range kindNames {
		if n == name {
			return Kind(i), true
		}
	}
	return ILLEGAL, false
}

// Token is a single lexical token: a kind, the span it covers, and the
// decoded/carried literal payload appropriate to its kind.
type Token struct {
	Kind     Kind
	Span     span.Span
	Lexeme   string // original source spelling (identifiers, operators, keywords)
	IntVal   int64  // populated for INT
	FloatLit string // populated for FLOAT (raw lexeme, not a parsed float64)
	StrVal   string // decoded content, for STRING/STR_START/STR_MID/STR_END
	CharVal  rune   // populated for CHAR
	BoolVal  bool   // populated for BOOL
	IsPublic bool   // populated for IDENT: true if first rune is uppercase
	// SubTokens holds the fully re-lexed token run (file-position-correct,
	// EOF-terminated) for a STR_EXPR segment, populated by
	// internal/lexer.RelexInterpolations. Empty until that pass runs.
	SubTokens []Token
}

func (t Token) String() string {
	switch t.Kind {
	case IDENT:
		return fmt.Sprintf("IDENT(%s)", t.Lexeme)
	case INT:
		return fmt.Sprintf("INT(%d)", t.IntVal)
	case STRING:
		return fmt.Sprintf("STRING(%q)", t.StrVal)
	default:
		return t.Kind.String()
	}
}
