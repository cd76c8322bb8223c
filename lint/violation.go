package lint

import (
	"github.com/emirpasic/gods/sets/treeset"
	"github.com/svlang/svkit/cst"
	"github.com/svlang/svkit/token"
)

// LintViolation is one rule firing at one token, optionally carrying
// autofixes and related tokens for richer diagnostics.
type LintViolation struct {
	Root          *cst.Symbol
	Token         token.Token
	Reason        string
	Context       *cst.SyntaxTreeContext
	Autofixes     []AutoFix
	RelatedTokens []token.Token
}

// violationComparator orders LintViolations by start offset, then end
// offset, then reason, giving LintRuleStatus's OrderedSet (and
// the C10 merge step that keys by (offset, rule_name)) a single
// deterministic total order regardless of insertion order (P8).
func violationComparator(a, b interface{}) int {
	va, vb := a.(*LintViolation), b.(*LintViolation)
	if d := va.Token.Range().Start - vb.Token.Range().Start; d != 0 {
		return d
	}
	if d := va.Token.Range().End - vb.Token.Range().End; d != 0 {
		return d
	}
	if va.Reason != vb.Reason {
		if va.Reason < vb.Reason {
			return -1
		}
		return 1
	}
	return 0
}

// LintRuleStatus is one rule's Report() result: its name, an optional
// documentation URL, and the ordered set of violations it found.
type LintRuleStatus struct {
	LintRuleName string
	URL          string
	violations   *treeset.Set
}

// NewLintRuleStatus constructs an empty status for the named rule.
func NewLintRuleStatus(name, url string) *LintRuleStatus {
	return &LintRuleStatus{
		LintRuleName: name,
		URL:          url,
		violations:   treeset.NewWith(violationComparator),
	}
}

// Add records v, deduplicating identical (start, end, reason) triples.
func (s *LintRuleStatus) Add(v *LintViolation) { s.violations.Add(v) }

// Violations returns the accumulated violations in deterministic
// order.
func (s *LintRuleStatus) Violations() []*LintViolation {
	vals := s.violations.Values()
	out := make([]*LintViolation, len(vals))
	for i, v := range vals {
		out[i] = v.(*LintViolation)
	}
	return out
}

// WaiveViolations removes every violation for which predicate returns
// true, returning the count removed.
func (s *LintRuleStatus) WaiveViolations(predicate func(*LintViolation) bool) int {
	var toRemove []interface{}
	for _, v := range s.violations.Values() {
		lv := v.(*LintViolation)
		if predicate(lv) {
			toRemove = append(toRemove, v)
		}
	}
	s.violations.Remove(toRemove...)
	return len(toRemove)
}

// IsClean reports whether the rule found no (surviving) violations.
func (s *LintRuleStatus) IsClean() bool { return s.violations.Empty() }
