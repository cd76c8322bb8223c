package lint_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/svlang/svkit/cst"
	"github.com/svlang/svkit/diag"
	"github.com/svlang/svkit/lint"
	"github.com/svlang/svkit/token"
)

// tabRule flags every literal tab character in the token stream,
// named "no-tabs" the way the default rule catalogue does.
type tabRule struct {
	lint.BaseRule
}

func newTabRule() lint.Rule {
	r := &tabRule{BaseRule: lint.NewBaseRule("no-tabs", "")}
	return r
}

func (r *tabRule) HandleToken(tok token.Token) {
	if strings.Contains(tok.Text, "\t") {
		r.Violate(&lint.LintViolation{Token: tok, Reason: "tab character found"})
	}
}

func fakeLexParse(path string, source []byte) (*lint.TextStructure, *diag.Bag) {
	toks := []token.Token{
		token.NewToken(token.SymbolIdentifier, token.ByteRange{Start: 0, End: 3}, source),
	}
	if idx := strings.IndexByte(string(source), '\t'); idx >= 0 {
		toks = append(toks, token.NewToken(token.Unspecified, token.ByteRange{Start: idx, End: idx + 1}, source))
	}
	return &lint.TextStructure{
		Path:   path,
		Source: source,
		Tokens: toks,
		Tree:   cst.NodeSymbol(cst.NewNode(cst.TagSourceFile)),
	}, &diag.Bag{}
}

func TestRunFile_DeterministicOrder(t *testing.T) {
	reg := lint.NewRegistry()
	reg.Register("no-tabs", newTabRule, true)

	src := []byte("a\tb")
	enabled := map[string]string{"no-tabs": ""}

	run := func() []lint.ViolationWithStatus {
		vs, _ := lint.RunFile("f.sv", src, enabled, reg, nil, fakeLexParse, nil)
		return vs
	}
	first := run()
	second := run()
	require.Len(t, first, 1)
	assert.Equal(t, first, second)
	assert.Equal(t, "no-tabs", first[0].Rule)
}

// TestWaiver_FiltersMatchingViolation checks that a violation at
// line 17 of mod.sv is filtered by a matching waiver, and reported
// exactly once without one.
func TestWaiver_FiltersMatchingViolation(t *testing.T) {
	reg := lint.NewRegistry()
	reg.Register("no-tabs", newTabRule, true)
	enabled := map[string]string{"no-tabs": ""}

	src := []byte(strings.Repeat("x\n", 16) + "a\tb\n")

	withoutWaiver, _ := lint.RunFile("mod.sv", src, enabled, reg, nil, fakeLexParse, nil)
	require.Len(t, withoutWaiver, 1)

	waivers, err := lint.ParseWaiverFile(strings.NewReader(`waive --rule=no-tabs --line=17 --location="mod.sv"`))
	require.NoError(t, err)

	withWaiver, _ := lint.RunFile("mod.sv", src, enabled, reg, waivers, fakeLexParse, nil)
	assert.Empty(t, withWaiver)
}

func TestRuleBundle_ParseAndResolve(t *testing.T) {
	reg := lint.NewRegistry()
	reg.Register("a", newTabRule, true)
	reg.Register("b", newTabRule, true)
	reg.Register("c", newTabRule, false)

	b := lint.ParseRuleBundle("a,-b,c=strict,")
	assert.NotEmpty(t, b.Warnings, "trailing comma produces a warning")

	resolved := b.Resolve(reg, lint.RuleSetDefault)
	_, hasB := resolved["b"]
	assert.False(t, hasB)
	assert.Equal(t, "strict", resolved["c"])
	assert.Equal(t, "", resolved["a"])
}

func TestRuleBundle_DuplicateEntryWinsLast(t *testing.T) {
	b := lint.ParseRuleBundle("rule=first,rule=second")
	assert.Equal(t, "second", b.Enabled["rule"])
	assert.NotEmpty(t, b.Warnings)
}

func TestRuleBundle_Merge_LaterFileOverrides(t *testing.T) {
	base := lint.ParseRuleBundle("a,b")
	override := lint.ParseRuleBundle("-a")
	merged := base.Merge(override)
	_, hasA := merged.Enabled["a"]
	assert.False(t, hasA)
	assert.True(t, merged.Disabled["a"])
	_, hasB := merged.Enabled["b"]
	assert.True(t, hasB)
}
