// Package format declares the formatter alignment surface: interface
// types a future wrap-optimization search would implement, without
// implementing that search itself.
//
// Built around PreFormatToken, the formatter-facing view of a token
// that carries the source-gap and line-break metadata a layout pass
// needs alongside its text.
package format

import "github.com/svlang/svkit/token"

// PreFormatToken is the formatter-facing view of one token: its
// original token plus the mutable spacing/break decisions a
// line-wrap solver would assign to it.
type PreFormatToken struct {
	Token            token.Token
	SpacesBefore     int
	BreakBefore      bool
	IndentLevel      int
	ForceNoLineBreak bool
}

// AlignedFormattingHandler is implemented by a formatter rule that
// wants its own column-alignment behavior (aligning `=` in a run of
// assignments, aligning port connections in an instantiation list,
// etc). A no-op stub satisfies this trivially.
type AlignedFormattingHandler interface {
	// Align receives one alignment group's tokens (already split from
	// neighboring groups by the caller) and returns their column
	// positions, one per token, in group order.
	Align(group []PreFormatToken) []int
}

// TabularAlignTokens is the function signature a concrete line-wrap
// solver would implement: given a full file's PreFormatTokens and a
// target column width, produce the finished (possibly multi-line)
// rendering. Declared, not implemented — the line-wrap search itself
// is out of scope.
type TabularAlignTokens func(tokens []PreFormatToken, columnLimit int) (string, error)

// NoopFormatter is the no-op AlignedFormattingHandler /
// TabularAlignTokens that cmd/svfmt and the LSP formatting handlers
// wire in, since no real formatter exists: Align leaves every token at
// column 0, and Render emits each token's text verbatim, preceded (for
// every token but the first) by a single newline where BreakBefore is
// set, or otherwise by SpacesBefore spaces.
type NoopFormatter struct{}

func (NoopFormatter) Align(group []PreFormatToken) []int {
	return make([]int, len(group))
}

// Render implements TabularAlignTokens's signature for NoopFormatter:
// it ignores columnLimit entirely, since no wrap search is performed.
func (NoopFormatter) Render(tokens []PreFormatToken, columnLimit int) (string, error) {
	var out []byte
	for i, t := range tokens {
		if i > 0 {
			if t.BreakBefore {
				out = append(out, '\n')
			} else if t.SpacesBefore > 0 {
				for s := 0; s < t.SpacesBefore; s++ {
					out = append(out, ' ')
				}
			}
		}
		out = append(out, t.Token.Text...)
	}
	return string(out), nil
}
