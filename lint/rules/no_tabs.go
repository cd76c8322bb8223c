// Package rules is svkit's default lint rule catalogue: a small,
// representative set of rules exercising all four rule kinds, each
// registered into lint.Default from its own file's init(), one rule
// per file.
package rules

import (
	"strings"

	"github.com/svlang/svkit/lint"
	"github.com/svlang/svkit/token"
)

const NoTabsName = "no-tabs"

type noTabsRule struct {
	lint.BaseRule
}

func newNoTabsRule() lint.Rule {
	return &noTabsRule{BaseRule: lint.NewBaseRule(NoTabsName, "")}
}

func (r *noTabsRule) HandleLine(lineNumber int, line string) {
	col := strings.IndexByte(line, '\t')
	if col < 0 {
		return
	}
	r.Violate(&lint.LintViolation{
		Token:  token.NewToken(token.Unspecified, token.ByteRange{Start: col, End: col + 1}, []byte(line)),
		Reason: "line contains a tab character; use spaces for indentation",
	})
}

func init() { lint.Default.Register(NoTabsName, newNoTabsRule, true) }
