// Package langpack loads TOML language packs that control keyword and
// operator spelling for the lexer (§6.1), with a cache-with-expiry
// loader on top of a plain naoina/toml decode.
package langpack

import (
	"bufio"
	"fmt"
	"os"
	"reflect"
	"sort"
	"strings"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru"
	"github.com/naoina/toml"

	"github.com/seenlang/seenc/internal/token"
)

// tomlSettings passes TOML keys through unnormalized, since pack keys
// are arbitrary source spellings (including non-Latin scripts), not Go
// field names.
var tomlSettings = toml.Config{
	NormFieldName: func(_ reflect.Type, key string) string { return key },
}

// rawPack is the shape of the on-disk TOML document.
type rawPack struct {
	Name        string            `toml:"name"`
	Description string            `toml:"description"`
	Keywords    map[string]string `toml:"keywords"`
	Operators   map[string]string `toml:"operators"`
}

// Pack is an immutable, loaded language pack: the lexer consults it to map
// source spellings onto token.Kind values.
type Pack struct {
	Name        string
	Description string

	keywords map[string]token.Kind
	// operatorsByLen holds operator spellings grouped by byte length in
	// descending order, so the lexer can do a longest-match scan (§4.1).
	operatorsByLen [][]operatorEntry
}

type operatorEntry struct {
	spelling string
	kind     token.Kind
}

// Keyword looks up a keyword spelling in the pack. Returns false if
// spelling is not a keyword in this pack (it should then be treated as an
// ordinary identifier).
func (p *Pack) Keyword(spelling string) (token.Kind, bool) {
	k, ok := p.keywords[spelling]
	return k, ok
}

// MatchOperator tries the longest pack-defined operator spelling at the
// start of s and returns the matched kind, the matched spelling, and true
// on success.
func (p *Pack) MatchOperator(s string) (token.Kind, string, bool) {
	for _, bucket := range p.operatorsByLen {
		for _, e := range bucket {
			if len(s) >= len(e.spelling) && s[:len(e.spelling)] == e.spelling {
				return e.kind, e.spelling, true
			}
		}
	}
	return token.ILLEGAL, "", false
}

// ErrNoKeywords is returned when a pack defines zero keywords.
var ErrNoKeywords = fmt.Errorf("language pack has no [keywords] entries")

// Load parses and validates the TOML document at path into a Pack.
func Load(path string) (*Pack, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("langpack: open %s: %w", path, err)
	}
	defer f.Close()

	var raw rawPack
	if err := tomlSettings.NewDecoder(bufio.NewReader(f)).Decode(&raw); err != nil {
		if lineErr, ok := err.(*toml.LineError); ok {
			return nil, fmt.Errorf("langpack: %s:%d: %w", path, lineErr.Line, lineErr.Err)
		}
		return nil, fmt.Errorf("langpack: decode %s: %w", path, err)
	}
	return fromRaw(raw)
}

// LoadString parses and validates a TOML document already held in memory,
// the same shape Load reads from disk. Used by embedded/default packs and
// by tests that want a realistic Pack without a file on disk.
func LoadString(doc string) (*Pack, error) {
	var raw rawPack
	if err := tomlSettings.NewDecoder(strings.NewReader(doc)).Decode(&raw); err != nil {
		if lineErr, ok := err.(*toml.LineError); ok {
			return nil, fmt.Errorf("langpack: line %d: %w", lineErr.Line, lineErr.Err)
		}
		return nil, fmt.Errorf("langpack: decode: %w", err)
	}
	return fromRaw(raw)
}

func fromRaw(raw rawPack) (*Pack, error) {
	if len(raw.Keywords) == 0 {
		return nil, ErrNoKeywords
	}

	p := &Pack{
		Name:        raw.Name,
		Description: raw.Description,
		keywords:    make(map[string]token.Kind, len(raw.Keywords)),
	}

	for spelling, tag := range raw.Keywords {
		kind, ok := token.KindByName(tagToCanonical(tag))
		if !ok {
			return nil, fmt.Errorf("langpack: unknown token-kind tag %q for keyword %q", tag, spelling)
		}
		p.keywords[spelling] = kind
	}

	byLen := map[int][]operatorEntry{}
	maxLen := 0
	for spelling, tag := range raw.Operators {
		kind, ok := token.KindByName(tagToCanonical(tag))
		if !ok {
			return nil, fmt.Errorf("langpack: unknown token-kind tag %q for operator %q", tag, spelling)
		}
		l := len(spelling)
		byLen[l] = append(byLen[l], operatorEntry{spelling: spelling, kind: kind})
		if l > maxLen {
			maxLen = l
		}
	}
	for l := maxLen; l >= 1; l-- {
		if entries, ok := byLen[l]; ok {
			sort.Slice(entries, func(i, j int) bool { return entries[i].spelling < entries[j].spelling })
			p.operatorsByLen = append(p.operatorsByLen, entries)
		}
	}

	return p, nil
}

// tagToCanonical maps a TOML pack tag, conventionally written
// "KeywordFun"/"Plus", onto this module's canonical lower-case Kind name
// ("fun"/"+"). Packs may also spell the tag as the canonical name directly.
func tagToCanonical(tag string) string {
	if k, ok := tagAliases[tag]; ok {
		return k
	}
	return tag
}

var tagAliases = buildTagAliases()

func buildTagAliases() map[string]string {
	// Pack authors write tags like "KeywordFun" or "Plus"; this table maps
	// the CamelCase tag vocabulary from the TOML format (§6.1) onto the
	// canonical spellings token.KindByName already understands.
	m := map[string]string{
		"KeywordFun": "fun", "KeywordLet": "let", "KeywordVar": "var",
		"KeywordMut": "mut", "KeywordStruct": "struct", "KeywordEnum": "enum",
		"KeywordClass": "class", "KeywordData": "data", "KeywordImpl": "impl",
		"KeywordTrait": "trait", "KeywordInterface": "interface", "KeywordType": "type",
		"KeywordConst": "const", "KeywordStatic": "static", "KeywordObject": "object",
		"KeywordCompanion": "companion", "KeywordIf": "if", "KeywordElse": "else",
		"KeywordWhen": "when", "KeywordMatch": "match", "KeywordWhile": "while",
		"KeywordFor": "for", "KeywordIn": "in", "KeywordIs": "is", "KeywordAs": "as",
		"KeywordReturn": "return", "KeywordBreak": "break", "KeywordContinue": "continue",
		"KeywordTry": "try", "KeywordCatch": "catch", "KeywordFinally": "finally",
		"KeywordThrow": "throw", "KeywordUse": "use", "KeywordImport": "import",
		"KeywordModule": "module", "KeywordBy": "by", "KeywordTrue": "true",
		"KeywordFalse": "false", "KeywordNull": "null", "KeywordAnd": "and",
		"KeywordOr": "or", "KeywordNot": "not", "KeywordSelf": "self",
		"KeywordMove": "move", "KeywordBorrow": "borrow", "KeywordInout": "inout",
		"KeywordCopy": "copy", "KeywordAsync": "async", "KeywordAwait": "await",
		"KeywordSpawn": "spawn", "KeywordLaunch": "launch", "KeywordFlow": "flow",
		"KeywordPublic": "public", "KeywordPrivate": "private", "KeywordOpen": "open",
		"KeywordFinal": "final", "KeywordAbstract": "abstract", "KeywordOverride": "override",
		"KeywordSealed": "sealed", "KeywordLateinit": "lateinit", "KeywordInline": "inline",
		"KeywordReified": "reified", "KeywordCrossinline": "crossinline",
		"KeywordNoinline": "noinline", "KeywordOperator": "operator", "KeywordInfix": "infix",
		"KeywordTailrec": "tailrec", "KeywordSuspend": "suspend",
		"Plus": "+", "Minus": "-", "Star": "*", "Slash": "/", "Percent": "%",
		"Amp": "&", "Pipe": "|", "Caret": "^", "Tilde": "~",
		"LShift": "<<", "RShift": ">>",
		"Equal": "==", "NotEqual": "!=", "Less": "<", "Greater": ">",
		"LessEqual": "<=", "GreaterEqual": ">=",
		"Assign": "=", "PlusEqual": "+=", "MinusEqual": "-=", "StarEqual": "*=",
		"SlashEqual": "/=", "PercentEqual": "%=",
		"AndAnd": "&&", "OrOr": "||", "Bang": "!",
		"Question": "?", "QuestionDot": "?.", "Elvis": "?:", "BangBang": "!!",
		"Dot": ".", "DotDot": "..", "DotDotLess": "..<", "Arrow": "->", "FatArrow": "=>",
		"Colon": ":", "ColonColon": "::", "Comma": ",", "Semicolon": ";",
		"At": "@", "Underscore": "_",
		"LParen": "(", "RParen": ")", "LBrace": "{", "RBrace": "}",
		"LBracket": "[", "RBracket": "]",
	}
	return m
}

// Loader caches parsed packs keyed by the file path as given with a configurable
// expiry (default 3600s per §6.1).
type Loader struct {
	mu     sync.Mutex
	cache  *lru.Cache
	expiry time.Duration
	now    func() time.Time
}

type cacheEntry struct {
	pack     *Pack
	loadedAt time.Time
}

// NewLoader returns a Loader with the default 3600-second cache expiry.
func NewLoader() *Loader {
	return NewLoaderWithExpiry(3600 * time.Second)
}

// NewLoaderWithExpiry returns a Loader with a custom cache expiry. An expiry
// of 0 means cache entries never expire.
func NewLoaderWithExpiry(expiry time.Duration) *Loader {
	c, _ := lru.New(256)
	return &Loader{cache: c, expiry: expiry, now: time.Now}
}

// Get returns the cached pack for path if present and unexpired, otherwise
// loads, validates, caches, and returns it.
func (l *Loader) Get(path string) (*Pack, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if v, ok := l.cache.Get(path); ok {
		entry := v.(cacheEntry)
		if l.expiry == 0 || l.now().Sub(entry.loadedAt) < l.expiry {
			return entry.pack, nil
		}
		l.cache.Remove(path)
	}

	pack, err := Load(path)
	if err != nil {
		return nil, err
	}
	l.cache.Add(path, cacheEntry{pack: pack, loadedAt: l.now()})
	return pack, nil
}

// Invalidate clears one cached pack immediately.
func (l *Loader) Invalidate(path string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cache.Remove(path)
}
