package obfuscate

import (
	"strings"
	"unicode"

	"github.com/svlang/svkit/token"
)

// Lex is svkit's lex-only view of the source: a minimal
// SystemVerilog-flavored tokenizer sufficient to classify identifiers,
// macro tokens, strings, comments, and everything else that must pass
// through unchanged. It intentionally does not build a CST (the
// obfuscator operates purely at the token stream level) and
// intentionally does not implement the full IEEE 1800-2017 lexical
// grammar — only as much as obfuscation (and parseengine's structural
// pass, which drives the same tokenizer) needs to distinguish token
// classes. A byte it does not classify yields a single one-byte
// Unspecified token and lexing resumes after it; no LexError token is
// ever emitted.
//
// Exported so parseengine can drive the same tokenizer the obfuscator
// uses instead of duplicating it — both packages need the identical
// token classification, just for different downstream purposes.
func Lex(src []byte) []token.Token {
	var toks []token.Token
	i := 0
	n := len(src)
	push := func(kind token.Kind, start, end int) {
		toks = append(toks, token.NewToken(kind, token.ByteRange{Start: start, End: end}, src))
	}

	for i < n {
		c := src[i]
		switch {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			i++
		case c == '/' && i+1 < n && src[i+1] == '/':
			start := i
			for i < n && src[i] != '\n' {
				i++
			}
			push(token.EOLComment, start, i)
		case c == '/' && i+1 < n && src[i+1] == '*':
			start := i
			i += 2
			for i+1 < n && !(src[i] == '*' && src[i+1] == '/') {
				i++
			}
			if i+1 < n {
				i += 2
			} else {
				i = n
			}
			push(token.BlockComment, start, i)
		case c == '`':
			start := i
			i++
			for i < n && isIdentByte(src[i]) {
				i++
			}
			word := string(src[start+1 : i])
			switch word {
			case "define":
				push(token.PPDefine, start, i)
				lexDefineBody(src, &i, &toks)
			case "ifdef":
				push(token.PPIfdef, start, i)
			case "ifndef":
				push(token.PPIfndef, start, i)
			case "else":
				push(token.PPElse, start, i)
			case "elsif":
				push(token.PPElsif, start, i)
			case "endif":
				push(token.PPEndif, start, i)
			case "undef":
				push(token.PPUndef, start, i)
			case "include":
				push(token.PPInclude, start, i)
			default:
				// A macro call/use: `FOO or `FOO(args).
				push(token.MacroCallId, start, i)
			}
		case c == '$':
			start := i
			i++
			for i < n && isIdentByte(src[i]) {
				i++
			}
			push(token.SystemTFIdentifier, start, i)
		case c == '"':
			start := i
			i++
			for i < n && src[i] != '"' {
				if src[i] == '\\' && i+1 < n {
					i++
				}
				i++
			}
			if i < n {
				i++
			}
			push(token.StringLiteral, start, i)
		case unicode.IsDigit(rune(c)):
			start := i
			for i < n && (isIdentByte(src[i]) || src[i] == '\'') {
				i++
			}
			push(token.NumericLiteral, start, i)
		case isIdentStartByte(c):
			start := i
			for i < n && isIdentByte(src[i]) {
				i++
			}
			word := string(src[start:i])
			if _, isKw := token.Keywords[word]; isKw {
				push(token.Keywords[word], start, i)
			} else {
				push(token.SymbolIdentifier, start, i)
			}
		case c == '\\':
			// Escaped identifier: \foo<ws>
			start := i
			i++
			for i < n && src[i] != ' ' && src[i] != '\t' && src[i] != '\n' {
				i++
			}
			push(token.EscapedIdentifier, start, i)
		default:
			start := i
			kind, width := classifyPunct(src[i:])
			i += width
			push(kind, start, i)
		}
	}
	push(token.EOF, n, n)
	return toks
}

// lexDefineBody consumes the remainder of a `define line (honoring
// line continuations via trailing backslash) as a single unlexed
// PP_define_body token, re-lexed later by reobfuscateBody.
func lexDefineBody(src []byte, i *int, toks *[]token.Token) {
	n := len(src)
	// Skip whitespace up to (not including) the macro name, which the
	// surrounding obfuscate loop still needs to see as an identifier;
	// here we only swallow the rest-of-line body after the name.
	for *i < n && (src[*i] == ' ' || src[*i] == '\t') {
		*i++
	}
	nameStart := *i
	for *i < n && isIdentByte(src[*i]) {
		*i++
	}
	if *i > nameStart {
		*toks = append(*toks, token.NewToken(token.SymbolIdentifier, token.ByteRange{Start: nameStart, End: *i}, src))
	}
	// optional macro parameter list (args)
	if *i < n && src[*i] == '(' {
		for *i < n && src[*i] != ')' {
			*i++
		}
		if *i < n {
			*i++
		}
	}
	bodyStart := *i
	for *i < n {
		if src[*i] == '\n' {
			if *i > 0 && src[*i-1] == '\\' {
				*i++
				continue
			}
			break
		}
		*i++
	}
	if *i > bodyStart {
		*toks = append(*toks, token.NewToken(token.PPDefineBody, token.ByteRange{Start: bodyStart, End: *i}, src))
	}
}

func isIdentStartByte(c byte) bool {
	return c == '_' || unicode.IsLetter(rune(c))
}

func isIdentByte(c byte) bool {
	return c == '_' || c == '$' || unicode.IsLetter(rune(c)) || unicode.IsDigit(rune(c))
}

func classifyPunct(rest []byte) (token.Kind, int) {
	if strings.HasPrefix(string(rest), "<=") {
		return token.NonblockingAssign, 2
	}
	if strings.HasPrefix(string(rest), "::") {
		return token.ColonColon, 2
	}
	switch rest[0] {
	case ';':
		return token.Semicolon, 1
	case ',':
		return token.Comma, 1
	case '.':
		return token.Dot, 1
	case '(':
		return token.LParen, 1
	case ')':
		return token.RParen, 1
	case '{':
		return token.LBrace, 1
	case '}':
		return token.RBrace, 1
	case '[':
		return token.LBracket, 1
	case ']':
		return token.RBracket, 1
	case '#':
		return token.Hash, 1
	case '@':
		return token.At, 1
	case '=':
		return token.Equals, 1
	default:
		return token.Unspecified, 1
	}
}
