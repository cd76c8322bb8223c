package lint

import (
	"strings"

	"github.com/svlang/svkit/cst"
	"github.com/svlang/svkit/diag"
)

// ViolationWithStatus pairs a violation with the name of the rule
// that raised it, the unit the merge step keys by (token byte
// offset, rule name).
type ViolationWithStatus struct {
	Rule      string
	Violation *LintViolation
}

// LexParseFunc is the external lex+parse boundary (Non-goals: the
// grammar itself is out of scope). It returns the built TextStructure
// plus any lex/parse diagnostics.
type LexParseFunc func(path string, source []byte) (*TextStructure, *diag.Bag)

// RunFile executes the full per-file pipeline: lex+parse, then every
// enabled rule of every kind, merged into one
// deterministically ordered slice, with waivers applied. table is
// handed to every constructed rule that implements SymbolTableAware;
// pass nil when no project-wide symbol table is available (those
// rules then report nothing, same as if they weren't enabled).
func RunFile(path string, source []byte, enabled map[string]string, reg *Registry, waivers []Waiver, lexParse LexParseFunc, table interface{}) ([]ViolationWithStatus, *diag.Bag) {
	bag := &diag.Bag{}
	ts, lpDiags := lexParse(path, source)
	bag.Extend(lpDiags)

	var statuses []*LintRuleStatus
	for name, cfg := range enabled {
		rule, ok := reg.New(name)
		if !ok {
			bag.Addf(diag.Warning, diag.StageInput, path, "unknown lint rule %q", name)
			continue
		}
		if aware, ok := rule.(SymbolTableAware); ok {
			aware.BindSymbolTable(table)
		}
		if cfg != "" {
			if err := rule.Configure(cfg); err != nil {
				bag.Addf(diag.Error, diag.StageInput, path, "rule %q: bad config %q: %v", name, cfg, err)
				continue
			}
		}
		runRule(rule, ts)
		statuses = append(statuses, rule.Report())
	}

	merged := mergeStatuses(statuses)
	merged = applyWaivers(merged, waivers, path, ts.Source)
	return merged, bag
}

func runRule(rule Rule, ts *TextStructure) {
	switch r := rule.(type) {
	case TokenStreamLintRule:
		for _, tok := range ts.Tokens {
			r.HandleToken(tok)
		}
	case LineLintRule:
		for i, line := range ts.Lines {
			r.HandleLine(i+1, line)
		}
	case TextStructureLintRule:
		r.HandleTextStructure(ts)
	case SyntaxTreeLintRule:
		cst.WalkWithContext(ts.Tree, cst.ContextVisitFunc{
			Node: func(n *cst.Node, ctx *cst.SyntaxTreeContext) { r.HandleNode(n, ctx) },
			Leaf: func(l *cst.Leaf, ctx *cst.SyntaxTreeContext) { r.HandleLeaf(l, ctx) },
		})
	}
}

// mergeStatuses flattens every rule's violations into one slice,
// ordered by (byte offset, rule name) so repeated runs over the same
// input always report violations in the same order.
func mergeStatuses(statuses []*LintRuleStatus) []ViolationWithStatus {
	var out []ViolationWithStatus
	for _, s := range statuses {
		for _, v := range s.Violations() {
			out = append(out, ViolationWithStatus{Rule: s.LintRuleName, Violation: v})
		}
	}
	sortByOffsetThenRule(out)
	return out
}

func sortByOffsetThenRule(vs []ViolationWithStatus) {
	// Simple stable insertion sort: the input sizes here are per-file
	// violation counts, never large enough to warrant sort.Slice's
	// extra indirection, and insertion sort keeps the comparison
	// logic inline and easy to read alongside violationComparator.
	for i := 1; i < len(vs); i++ {
		j := i
		for j > 0 && less(vs[j], vs[j-1]) {
			vs[j], vs[j-1] = vs[j-1], vs[j]
			j--
		}
	}
}

func less(a, b ViolationWithStatus) bool {
	if a.Violation.Token.Range().Start != b.Violation.Token.Range().Start {
		return a.Violation.Token.Range().Start < b.Violation.Token.Range().Start
	}
	return a.Rule < b.Rule
}

func applyWaivers(vs []ViolationWithStatus, waivers []Waiver, path string, source []byte) []ViolationWithStatus {
	if len(waivers) == 0 {
		return vs
	}
	var out []ViolationWithStatus
	for _, v := range vs {
		line := lineOf(source, v.Violation.Token.Range().Start)
		waived := false
		for _, w := range waivers {
			if w.Matches(v.Rule, line, path) {
				waived = true
				break
			}
		}
		if !waived {
			out = append(out, v)
		}
	}
	return out
}

// lineOf computes the 1-based line number containing byte offset in
// source by counting preceding newlines. A minimal stand-in for a
// proper byte-offset/line-column map; deliberately not cached or
// incremental.
func lineOf(source []byte, offset int) int {
	if offset > len(source) {
		offset = len(source)
	}
	return 1 + strings.Count(string(source[:offset]), "\n")
}

// LineOf is the exported form of lineOf, used by callers outside this
// package (the violation fixer's per-file commit, the LSP diagnostic
// translator) that need the same byte-offset-to-line mapping.
func LineOf(source []byte, offset int) int { return lineOf(source, offset) }
