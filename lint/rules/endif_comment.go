package rules

import (
	"strings"

	"github.com/svlang/svkit/lint"
	"github.com/svlang/svkit/token"
)

const EndifCommentName = "endif-comment"

// endifCommentRule is a TokenStreamLintRule: it tracks the name
// introduced by each `ifdef/`ifndef and, for every `endif, requires
// the very next comment token to mention that name.
type endifCommentRule struct {
	lint.BaseRule

	ifdefNames   []string // stack of names, pushed on `ifdef/`ifndef
	awaitingName bool      // true right after seeing `ifdef/`ifndef
	pending      *endifPending
}

type endifPending struct {
	tok  token.Token
	name string
}

func newEndifCommentRule() lint.Rule {
	return &endifCommentRule{BaseRule: lint.NewBaseRule(EndifCommentName, "")}
}

func (r *endifCommentRule) HandleToken(tok token.Token) {
	// A pending `endif expects the very next token to be a comment
	// naming it; anything else (including a new directive) is itself
	// the violation.
	if r.pending != nil {
		isComment := tok.TokenKind() == token.EOLComment || tok.TokenKind() == token.BlockComment
		if isComment && strings.Contains(tok.Text, r.pending.name) {
			r.pending = nil
		} else {
			r.Violate(&lint.LintViolation{
				Token:  r.pending.tok,
				Reason: "`endif must be followed by a comment naming `" + r.pending.name,
			})
			r.pending = nil
		}
	}

	switch tok.TokenKind() {
	case token.PPIfdef, token.PPIfndef:
		r.ifdefNames = append(r.ifdefNames, "")
		r.awaitingName = true
	case token.SymbolIdentifier:
		if r.awaitingName && len(r.ifdefNames) > 0 {
			r.ifdefNames[len(r.ifdefNames)-1] = tok.Text
			r.awaitingName = false
		}
	case token.PPEndif:
		name := "<unknown>"
		if len(r.ifdefNames) > 0 {
			name = r.ifdefNames[len(r.ifdefNames)-1]
			r.ifdefNames = r.ifdefNames[:len(r.ifdefNames)-1]
		}
		r.pending = &endifPending{tok: tok, name: name}
	}
}

func init() { lint.Default.Register(EndifCommentName, newEndifCommentRule, false) }
