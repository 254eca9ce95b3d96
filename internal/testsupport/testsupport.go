// Package testsupport holds fixtures shared by this module's test suites: a
// complete English language pack so lexer/parser/typecheck/ownership tests
// can exercise real TOML-driven keyword/operator lookup instead of each
// package hand-rolling its own partial pack.
package testsupport

import (
	"github.com/seenlang/seenc/internal/langpack"
)

// englishPackTOML spells every keyword and operator tag this module's token
// set defines (internal/token), in English, so it can stand in for any
// natural-language pack in tests.
const englishPackTOML = `
name = "english"
description = "reference English keyword pack for tests"

[keywords]
fun = "KeywordFun"
let = "KeywordLet"
var = "KeywordVar"
mut = "KeywordMut"
struct = "KeywordStruct"
enum = "KeywordEnum"
class = "KeywordClass"
data = "KeywordData"
impl = "KeywordImpl"
trait = "KeywordTrait"
interface = "KeywordInterface"
type = "KeywordType"
const = "KeywordConst"
static = "KeywordStatic"
object = "KeywordObject"
companion = "KeywordCompanion"
public = "KeywordPublic"
private = "KeywordPrivate"
open = "KeywordOpen"
final = "KeywordFinal"
abstract = "KeywordAbstract"
override = "KeywordOverride"
sealed = "KeywordSealed"
lateinit = "KeywordLateinit"
inline = "KeywordInline"
reified = "KeywordReified"
crossinline = "KeywordCrossinline"
noinline = "KeywordNoinline"
operator = "KeywordOperator"
infix = "KeywordInfix"
tailrec = "KeywordTailrec"
suspend = "KeywordSuspend"
if = "KeywordIf"
else = "KeywordElse"
when = "KeywordWhen"
match = "KeywordMatch"
while = "KeywordWhile"
for = "KeywordFor"
in = "KeywordIn"
is = "KeywordIs"
as = "KeywordAs"
return = "KeywordReturn"
break = "KeywordBreak"
continue = "KeywordContinue"
try = "KeywordTry"
catch = "KeywordCatch"
finally = "KeywordFinally"
throw = "KeywordThrow"
use = "KeywordUse"
import = "KeywordImport"
module = "KeywordModule"
by = "KeywordBy"
true = "KeywordTrue"
false = "KeywordFalse"
null = "KeywordNull"
and = "KeywordAnd"
or = "KeywordOr"
not = "KeywordNot"
self = "KeywordSelf"
move = "KeywordMove"
borrow = "KeywordBorrow"
inout = "KeywordInout"
copy = "KeywordCopy"
async = "KeywordAsync"
await = "KeywordAwait"
spawn = "KeywordSpawn"
launch = "KeywordLaunch"
flow = "KeywordFlow"

[operators]
"+" = "Plus"
"-" = "Minus"
"*" = "Star"
"/" = "Slash"
"%" = "Percent"
"&" = "Amp"
"|" = "Pipe"
"^" = "Caret"
"~" = "Tilde"
"<<" = "LShift"
">>" = "RShift"
"==" = "Equal"
"!=" = "NotEqual"
"<" = "Less"
">" = "Greater"
"<=" = "LessEqual"
">=" = "GreaterEqual"
"=" = "Assign"
"+=" = "PlusEqual"
"-=" = "MinusEqual"
"*=" = "StarEqual"
"/=" = "SlashEqual"
"%=" = "PercentEqual"
"&&" = "AndAnd"
"||" = "OrOr"
"!" = "Bang"
"?" = "Question"
"?." = "QuestionDot"
"?:" = "Elvis"
"!!" = "BangBang"
"." = "Dot"
".." = "DotDot"
"..<" = "DotDotLess"
"->" = "Arrow"
"=>" = "FatArrow"
":" = "Colon"
"::" = "ColonColon"
"," = "Comma"
";" = "Semicolon"
"@" = "At"
"_" = "Underscore"
"(" = "LParen"
")" = "RParen"
"{" = "LBrace"
"}" = "RBrace"
"[" = "LBracket"
"]" = "RBracket"
`

// EnglishPack returns the shared test pack, freshly parsed per call so tests
// can't accidentally mutate shared state through it.
func EnglishPack() *langpack.Pack {
	pack, err := langpack.LoadString(englishPackTOML)
	if err != nil {
		panic("testsupport: invalid embedded pack: " + err.Error())
	}
	return pack
}
