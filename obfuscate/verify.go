package obfuscate

import (
	"github.com/pkg/errors"
	"github.com/svlang/svkit/token"
)

// Equivalent reports whether b is obfuscation-equivalent to a: the
// same token sequence, where identifier-kind tokens are allowed to
// differ in text (substitution) but every other token must match
// kind and text exactly. Encode's output must satisfy this against
// its input.
func Equivalent(a, b []byte) bool {
	ta, aHasErr := lexChecked(a)
	tb, bHasErr := lexChecked(b)
	if aHasErr != bHasErr {
		// A lexical error on only one side is itself non-equivalence.
		return false
	}
	if len(ta) != len(tb) {
		return false
	}
	for i := range ta {
		if ta[i].TokenKind() != tb[i].TokenKind() {
			return false
		}
		if !ta[i].TokenKind().IsIdentifierKind() && ta[i].Text != tb[i].Text {
			return false
		}
	}
	return true
}

func lexChecked(src []byte) ([]token.Token, bool) {
	toks := Lex(src)
	hasErr := false
	for _, t := range toks {
		if t.TokenKind() == token.LexError {
			hasErr = true
			break
		}
	}
	return toks, hasErr
}

// EncodeVerified runs Obfuscate in Encode mode and then performs two
// post-transform checks: the output must be obfuscation-equivalent to
// the input, and decoding the output with the map just built must
// reproduce the input byte-for-byte. A verification failure is an
// internal invariant failure, surfaced as a wrapped error asking the
// caller to file a bug.
func EncodeVerified(src []byte, o *Obfuscator) (string, error) {
	if o.mode != Encode {
		return "", errors.New("obfuscate: EncodeVerified requires an Obfuscator in Encode mode")
	}
	out, err := Obfuscate(src, o)
	if err != nil {
		return "", err
	}
	if !Equivalent(src, []byte(out)) {
		return "", errors.New("obfuscate: internal invariant failure: encoded output is not obfuscation-equivalent to input; please file a bug")
	}
	decoder := New(Decode)
	decoder.names = o.names
	decoded, err := Obfuscate([]byte(out), decoder)
	if err != nil {
		return "", errors.Wrap(err, "obfuscate: decode verification pass failed")
	}
	if decoded != string(src) {
		return "", errors.New("obfuscate: internal invariant failure: decode(encode(s)) != s; please file a bug")
	}
	return out, nil
}
