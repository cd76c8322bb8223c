package rules

import (
	"github.com/svlang/svkit/lint"
	"github.com/svlang/svkit/token"
)

const PosixEOFName = "posix-eof"

// posixEOFRule is a TextStructureLintRule (needs the raw source to
// tell whether the very last byte is a newline, which a per-token or
// per-line view cannot answer on its own).
type posixEOFRule struct {
	lint.BaseRule
}

func newPosixEOFRule() lint.Rule {
	return &posixEOFRule{BaseRule: lint.NewBaseRule(PosixEOFName, "")}
}

func (r *posixEOFRule) HandleTextStructure(ts *lint.TextStructure) {
	n := len(ts.Source)
	if n == 0 || ts.Source[n-1] == '\n' {
		return
	}
	r.Violate(&lint.LintViolation{
		Token:  token.NewToken(token.Unspecified, token.ByteRange{Start: n, End: n}, ts.Source),
		Reason: "file does not end with a newline",
	})
}

func init() { lint.Default.Register(PosixEOFName, newPosixEOFRule, true) }
