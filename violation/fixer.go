// Package violation implements violation handling: the interactive
// apply/reject state machine a linter CLI/LSP drives over one file's
// violations, and the two ways an outstanding violation set can be
// discharged — committing accepted autofixes back to the file, or
// printing waiver lines that silence them without touching source.
//
// Built on the lint package's existing AutoFix/Waiver machinery
// (lint/autofix.go, lint/waiver.go): this package is a thin state
// machine over lint.ViolationWithStatus, never reimplementing edit
// application or waiver rendering.
package violation

import (
	"fmt"
	"io"

	"github.com/svlang/svkit/lint"
)

// Decision is the per-violation disposition a ViolationFixer tracks.
type Decision int

const (
	Pending Decision = iota
	Applied
	Rejected
)

func (d Decision) String() string {
	switch d {
	case Applied:
		return "applied"
	case Rejected:
		return "rejected"
	default:
		return "pending"
	}
}

// ViolationFixer drives the apply/reject decisions for every
// violation found in one file, then commits the accepted autofixes.
type ViolationFixer struct {
	Path       string
	violations []lint.ViolationWithStatus
	decisions  []Decision
}

// NewViolationFixer wraps the merged, waiver-filtered violations
// RunFile returned for path.
func NewViolationFixer(path string, violations []lint.ViolationWithStatus) *ViolationFixer {
	return &ViolationFixer{
		Path:       path,
		violations: violations,
		decisions:  make([]Decision, len(violations)),
	}
}

// Violations returns the wrapped violations, index-aligned with every
// decision-querying method below.
func (f *ViolationFixer) Violations() []lint.ViolationWithStatus { return f.violations }

// Decision reports the current disposition of violation i.
func (f *ViolationFixer) Decision(i int) Decision {
	if i < 0 || i >= len(f.decisions) {
		return Pending
	}
	return f.decisions[i]
}

// Apply marks violation i for fixing. It fails (returns false) when i
// is out of range or the violation carries no autofix to apply.
func (f *ViolationFixer) Apply(i int) bool {
	if !f.hasFix(i) {
		return false
	}
	f.decisions[i] = Applied
	return true
}

// Reject marks violation i as deliberately left unfixed.
func (f *ViolationFixer) Reject(i int) bool {
	if i < 0 || i >= len(f.violations) {
		return false
	}
	f.decisions[i] = Rejected
	return true
}

// ApplyAllForRule applies every still-pending, fixable violation
// raised by rule, returning the count applied.
func (f *ViolationFixer) ApplyAllForRule(rule string) int {
	n := 0
	for i, v := range f.violations {
		if v.Rule == rule && f.hasFix(i) {
			f.decisions[i] = Applied
			n++
		}
	}
	return n
}

// RejectAllForRule rejects every violation raised by rule, returning
// the count rejected.
func (f *ViolationFixer) RejectAllForRule(rule string) int {
	n := 0
	for i, v := range f.violations {
		if v.Rule == rule {
			f.decisions[i] = Rejected
			n++
		}
	}
	return n
}

// ApplyAll applies every fixable violation, returning the count
// applied.
func (f *ViolationFixer) ApplyAll() int {
	n := 0
	for i := range f.violations {
		if f.hasFix(i) {
			f.decisions[i] = Applied
			n++
		}
	}
	return n
}

// RejectAll rejects every violation, returning the count rejected.
func (f *ViolationFixer) RejectAll() int {
	for i := range f.violations {
		f.decisions[i] = Rejected
	}
	return len(f.violations)
}

func (f *ViolationFixer) hasFix(i int) bool {
	return i >= 0 && i < len(f.violations) && len(f.violations[i].Violation.Autofixes) > 0
}

// PrintFix writes a one-line human-readable summary of violation i's
// reason and disposition to w.
func (f *ViolationFixer) PrintFix(w io.Writer, i int) {
	if i < 0 || i >= len(f.violations) {
		return
	}
	v := f.violations[i]
	fmt.Fprintf(w, "[%s] %s:%d: %s (%s)\n", v.Rule, f.Path, v.Violation.Token.Range().Start, v.Violation.Reason, f.decisions[i])
}

// PrintAppliedFixes writes PrintFix for every violation currently
// marked Applied, in original (offset, rule) order.
func (f *ViolationFixer) PrintAppliedFixes(w io.Writer) {
	for i, d := range f.decisions {
		if d == Applied {
			f.PrintFix(w, i)
		}
	}
}

// Pending returns the indices of violations neither applied nor
// rejected yet.
func (f *ViolationFixer) Pending() []int {
	var out []int
	for i, d := range f.decisions {
		if d == Pending {
			out = append(out, i)
		}
	}
	return out
}

// Commit merges the autofixes of every Applied violation (via
// lint.AutoFix.AddEdits, which already rejects overlaps) and applies
// the merged edit set to source, returning the fixed content. It
// fails if two applied violations' autofixes overlap — the caller
// should Reject one of the conflicting violations and retry.
func (f *ViolationFixer) Commit(source []byte) (string, error) {
	var merged lint.AutoFix
	for i, v := range f.violations {
		if f.decisions[i] != Applied {
			continue
		}
		for _, fix := range v.Violation.Autofixes {
			if !merged.AddEdits(fix.Edits()) {
				return "", fmt.Errorf("violation: conflicting autofix edits for rule %q in %s", v.Rule, f.Path)
			}
		}
	}
	return merged.Apply(string(source)), nil
}
