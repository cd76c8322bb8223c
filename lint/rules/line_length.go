package rules

import (
	"strconv"

	"github.com/svlang/svkit/lint"
	"github.com/svlang/svkit/token"
)

const LineLengthName = "line-length"

const defaultMaxLineLength = 100

type lineLengthRule struct {
	lint.BaseRule
	max int
}

func newLineLengthRule() lint.Rule {
	return &lineLengthRule{BaseRule: lint.NewBaseRule(LineLengthName, ""), max: defaultMaxLineLength}
}

// Configure accepts a bare integer config string, e.g. "=120" in a
// rule bundle entry line-length=120.
func (r *lineLengthRule) Configure(config string) error {
	n, err := strconv.Atoi(config)
	if err != nil {
		return err
	}
	r.max = n
	return nil
}

func (r *lineLengthRule) HandleLine(lineNumber int, line string) {
	if len(line) <= r.max {
		return
	}
	r.Violate(&lint.LintViolation{
		Token: token.NewToken(token.Unspecified, token.ByteRange{Start: r.max, End: len(line)}, []byte(line)),
		Reason: "line exceeds maximum length of " + strconv.Itoa(r.max) + " characters",
	})
}

func init() { lint.Default.Register(LineLengthName, newLineLengthRule, true) }
