// Package obfuscate implements a lex-only, reversible source
// transformer: every multi-character symbol, macro and preprocessor
// identifier is rewritten through a bijective name<->name map
// (single-character, system task/function and escaped identifiers are
// kept as written), while every other token passes through unchanged.
// Shares its core primitive, bmap.BijectiveMap, with the symbol
// table's substring-ownership discipline.
package obfuscate

import (
	"bufio"
	"fmt"
	"io"
	"math/rand"
	"strings"

	"github.com/emirpasic/gods/sets/treeset"
	"github.com/minio/highwayhash"
	"github.com/pkg/errors"
	"github.com/svlang/svkit/bmap"
	"github.com/svlang/svkit/token"
)

// Mode selects encode (rewrite on first sight) or decode (lookup-only)
// behavior.
type Mode int

const (
	Encode Mode = iota
	Decode
)

// builtinFunctionNames are the 22 SystemVerilog built-in math function
// names that may be pinned via identity mappings before encoding, so
// that obfuscated output can still call them.
var builtinFunctionNames = []string{
	"clog2", "ln", "log10", "exp", "sqrt", "pow",
	"floor", "ceil", "sin", "cos", "tan", "asin",
	"acos", "atan", "atan2", "hypot", "sinh", "cosh",
	"tanh", "asinh", "acosh", "atanh",
}

// Obfuscator holds the bijective identifier map and the
// random-identifier generator used in Encode mode.
type Obfuscator struct {
	mode    Mode
	names   *bmap.BijectiveMap[string, string]
	pinned  *treeset.Set // identifiers pinned to themselves, never remapped
	randGen func(length int) string
}

// New constructs an Obfuscator in the given mode with the default
// equal-length random-identifier generator.
func New(mode Mode) *Obfuscator {
	return &Obfuscator{
		mode:    mode,
		names:   bmap.New[string, string](),
		pinned:  treeset.NewWithStringComparator(),
		randGen: defaultRandomIdentifier,
	}
}

// highwayhashKey is a fixed 32-byte key for NewSeeded's seed
// derivation. A fixed key is fine here: the
// goal is a stable mapping from a caller-supplied seed phrase to a
// reproducible PRNG stream, not a cryptographic secret.
var highwayhashKey = []byte("svkit-obfuscate-seed-key-0123456")

// NewSeeded constructs an Obfuscator whose random-identifier generator
// is deterministic for a given seedMaterial: the same seedMaterial
// fed to two Encode-mode passes over equivalent input produces the
// same replacement identifiers, letting a CI run's obfuscated output
// stay diff-stable across re-runs. seedMaterial is hashed with
// highwayhash rather than used as a PRNG seed directly, so a short or
// low-entropy phrase still spreads across the full 64-bit seed space.
func NewSeeded(mode Mode, seedMaterial []byte) (*Obfuscator, error) {
	hash, err := highwayhash.New64(highwayhashKey)
	if err != nil {
		return nil, errors.Wrap(err, "obfuscate: constructing seed hash")
	}
	if _, err := hash.Write(seedMaterial); err != nil {
		return nil, errors.Wrap(err, "obfuscate: hashing seed material")
	}
	src := rand.NewSource(int64(hash.Sum64()))
	gen := rand.New(src)

	o := New(mode)
	o.randGen = func(length int) string { return randomIdentifier(gen, length) }
	return o, nil
}

// LoadMapFrom copies the bijective identifier map from src into o,
// letting a Decode-mode Obfuscator reuse the map an Encode-mode pass
// just built without going through the text save/load format.
func (o *Obfuscator) LoadMapFrom(src *Obfuscator) {
	fresh := bmap.New[string, string]()
	for k, v := range src.names.ForwardView() {
		fresh.Insert(k, v)
	}
	o.names = fresh
}

// PreserveBuiltinFunctions pins every IEEE 1800-2017 built-in math
// function name to itself so encode() never remaps a call to abs(),
// sin(), etc.
func (o *Obfuscator) PreserveBuiltinFunctions() {
	for _, name := range builtinFunctionNames {
		o.pin(name)
	}
}

// PreserveInterfaceNames pins every name in names (module/interface
// names collected by the caller from a prior parse) to itself.
func (o *Obfuscator) PreserveInterfaceNames(names []string) {
	for _, name := range names {
		o.pin(name)
	}
}

func (o *Obfuscator) pin(name string) {
	if _, ok := o.names.FindForward(name); ok {
		return
	}
	if o.names.Insert(name, name) {
		o.pinned.Add(name)
	}
}

func defaultRandomIdentifier(length int) string {
	return randomIdentifier(rand.New(rand.NewSource(rand.Int63())), length)
}

// randomIdentifier draws an equal-length random identifier from gen,
// the shared generator both defaultRandomIdentifier's
// package-global-seeded case and NewSeeded's deterministic case draw
// from.
func randomIdentifier(gen *rand.Rand, length int) string {
	const alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
	b := make([]byte, length)
	b[0] = alphabet[gen.Intn(26)] // keep first char a letter, never a digit
	for i := 1; i < length; i++ {
		b[i] = alphabet[gen.Intn(len(alphabet))]
	}
	return string(b)
}

// mapIdentifier resolves text through the bijective map according to
// mode: Encode mints a fresh equal-length identifier on first sight
// (retrying on keyword collision), Decode looks up only, passing
// unseen identifiers through unchanged.
func (o *Obfuscator) mapIdentifier(text string) (string, error) {
	if len(text) == 1 {
		// Single-character identifiers are preserved rather than
		// substituted: a one-letter name has no room for a distinct
		// equal-length replacement anyway.
		return text, nil
	}
	if o.mode == Decode {
		if k, ok := o.names.FindReverse(text); ok {
			return k, nil
		}
		return text, nil
	}
	if v, ok := o.names.FindForward(text); ok {
		return v, nil
	}
	length := len(text)
	var genErr error
	result := o.names.InsertUsingValueGenerator(text, func() string {
		for attempts := 0; attempts < 10000; attempts++ {
			candidate := o.randGen(length)
			if _, isKeyword := token.Keywords[candidate]; isKeyword {
				continue
			}
			if len(candidate) != length {
				continue
			}
			return candidate
		}
		genErr = errors.Errorf("obfuscate: could not generate a fresh %d-byte identifier for %q", length, text)
		return text // unreachable in practice; genErr short-circuits below
	})
	if genErr != nil {
		return "", genErr
	}
	if len(result) != len(text) {
		// The equal-length invariant is load-bearing for Decode's
		// lookup-only behavior, so a violation is surfaced as an
		// error rather than silently accepted.
		return "", errors.Errorf("obfuscate: generated identifier %q has different length than %q", result, text)
	}
	return result, nil
}

// Obfuscate lexes src and re-emits it token by token, obfuscating
// identifiers per token kind. It does not perform the post-transform
// equivalence/decode verification pass — callers that need the full
// verified pipeline should call EncodeVerified instead.
func Obfuscate(src []byte, o *Obfuscator) (string, error) {
	toks := Lex(src)
	var out strings.Builder
	prevEnd := 0
	for _, tok := range toks {
		// Whitespace carries no lexical identity of its own in this
		// lexer (it is simply skipped during lexing), so the gap
		// between consecutive tokens is re-emitted verbatim to
		// preserve the source's formatting exactly.
		out.Write(src[prevEnd:tok.Range().Start])
		text, err := o.rewriteToken(tok)
		if err != nil {
			return "", err
		}
		out.WriteString(text)
		prevEnd = tok.Range().End
	}
	out.Write(src[prevEnd:])
	return out.String(), nil
}

func (o *Obfuscator) rewriteToken(tok token.Token) (string, error) {
	switch tok.TokenKind() {
	case token.EOF:
		return "", nil
	case token.SymbolIdentifier, token.PPIdentifier:
		return o.mapIdentifier(tok.Text)
	case token.MacroIdentifier, token.MacroCallId, token.MacroIdItem:
		if len(tok.Text) == 0 {
			return tok.Text, nil
		}
		sigil := tok.Text[:1]
		rest := tok.Text[1:]
		if rest == "" {
			return sigil, nil
		}
		mapped, err := o.mapIdentifier(rest)
		if err != nil {
			return "", err
		}
		return sigil + mapped, nil
	case token.SystemTFIdentifier:
		return tok.Text, nil
	case token.MacroArg, token.PPDefineBody:
		return o.reobfuscateBody(tok.Text)
	default:
		return tok.Text, nil
	}
}

// reobfuscateBody recursively re-lexes and obfuscates the text of an
// unlexed macro argument / `define body.
func (o *Obfuscator) reobfuscateBody(text string) (string, error) {
	return Obfuscate([]byte(text), o)
}

// Save writes the current bijective map to w as one
// "<original> <obfuscated>\n" line per pair, in deterministic order.
func (o *Obfuscator) Save(w io.Writer) error {
	keys := treeset.NewWithStringComparator()
	for k := range o.names.ForwardView() {
		keys.Add(k)
	}
	bw := bufio.NewWriter(w)
	for _, k := range keys.Values() {
		key := k.(string)
		v, _ := o.names.FindForward(key)
		if _, err := fmt.Fprintf(bw, "%s %s\n", key, v); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Load populates the bijective map from r, which holds the format
// Save writes. Lines with fewer than two whitespace-separated fields
// are a load error; leading/trailing whitespace is stripped from each
// line before splitting.
func Load(r io.Reader, mode Mode) (*Obfuscator, error) {
	o := New(mode)
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			return nil, errors.Errorf("obfuscate: load error at line %d: expected 2 fields, got %d", lineNo, len(fields))
		}
		if !o.names.Insert(fields[0], fields[1]) {
			return nil, errors.Errorf("obfuscate: load error at line %d: duplicate mapping for %q or %q", lineNo, fields[0], fields[1])
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return o, nil
}
