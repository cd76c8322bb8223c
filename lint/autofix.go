package lint

import (
	"sort"
	"strings"

	"github.com/svlang/svkit/token"
)

// ReplacementEdit replaces the bytes in Fragment with Replacement.
// Fragment MUST be a subrange of the base string AutoFix.Apply is
// called with (invariant 4 of the data model).
type ReplacementEdit struct {
	Fragment    token.ByteRange
	Replacement string
}

// AutoFix is a set of non-overlapping ReplacementEdits attached to a
// LintViolation.
type AutoFix struct {
	edits []ReplacementEdit
}

// NewAutoFix constructs an AutoFix from a set of edits, rejecting any
// two that overlap (matching AddEdits' conflict contract).
func NewAutoFix(edits ...ReplacementEdit) (AutoFix, bool) {
	var fix AutoFix
	if !fix.AddEdits(edits) {
		return AutoFix{}, false
	}
	return fix, true
}

// Edits returns the edits in fragment-start order.
func (f AutoFix) Edits() []ReplacementEdit {
	out := append([]ReplacementEdit{}, f.edits...)
	sort.Slice(out, func(i, j int) bool { return out[i].Fragment.Start < out[j].Fragment.Start })
	return out
}

// AddEdits adds every edit in edits to f, rejecting (and leaving f
// unchanged) if any new edit conflicts with an edit already present
// or with another new edit.
func (f *AutoFix) AddEdits(edits []ReplacementEdit) bool {
	candidate := append([]ReplacementEdit{}, f.edits...)
	candidate = append(candidate, edits...)
	sort.Slice(candidate, func(i, j int) bool { return candidate[i].Fragment.Start < candidate[j].Fragment.Start })
	for i := 1; i < len(candidate); i++ {
		if candidate[i-1].Fragment.Overlaps(candidate[i].Fragment) {
			return false
		}
	}
	f.edits = candidate
	return true
}

// Apply concatenates base with every edit's Replacement substituted
// in, in fragment-start order. An empty edit set returns base
// unchanged. Edits whose Fragment falls outside base are a programmer
// error and panic rather than silently truncate.
func (f AutoFix) Apply(base string) string {
	edits := f.Edits()
	if len(edits) == 0 {
		return base
	}
	var out strings.Builder
	prevEnd := 0
	for _, e := range edits {
		if e.Fragment.Start < prevEnd || e.Fragment.End > len(base) || e.Fragment.Start > e.Fragment.End {
			panic("lint: AutoFix.Apply: edit fragment is not a disjoint subrange of base")
		}
		out.WriteString(base[prevEnd:e.Fragment.Start])
		out.WriteString(e.Replacement)
		prevEnd = e.Fragment.End
	}
	out.WriteString(base[prevEnd:])
	return out.String()
}
