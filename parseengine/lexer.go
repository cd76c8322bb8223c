// Package parseengine implements the parsing engine adapter: svkit's
// own `Lex`/`Parse` pair satisfying the black-box boundary
// project.OpenTranslationUnit drives. It is a deliberately partial
// recursive-descent structural pass (no full IEEE 1800-2017 grammar
// is attempted) over the same tokenizer the obfuscator uses,
// recognising just enough of the
// declaration/reference shapes symtab and the lint rule catalogue
// already understand: module/package/class/function/task/generate
// nesting, parameter and data declarations, and identifier references
// appearing on the right-hand side of an assignment.
package parseengine

import (
	"github.com/svlang/svkit/diag"
	"github.com/svlang/svkit/obfuscate"
	"github.com/svlang/svkit/token"
)

// Lex tokenizes src via the shared SystemVerilog-flavored tokenizer
// (obfuscate.Lex), translating any LexError tokens into diagnostics
// instead of silently dropping them.
func Lex(src []byte) ([]token.Token, []diag.Diagnostic) {
	toks := obfuscate.Lex(src)
	var diags []diag.Diagnostic
	for _, tok := range toks {
		if tok.TokenKind() == token.LexError {
			diags = append(diags, diag.Diagnostic{
				Severity: diag.Error,
				Stage:    diag.StageLexical,
				Message:  "unrecognised character",
			})
		}
	}
	return toks, diags
}
