package violation

import (
	"io"

	"github.com/svlang/svkit/lint"
)

// ViolationWaiverPrinter emits `waive` lines (lint.RenderWaiverLine)
// for violations a ViolationFixer left Rejected or Pending — the
// other way (besides committing an autofix) an outstanding violation
// gets discharged.
type ViolationWaiverPrinter struct {
	Path   string
	Source []byte
}

// NewViolationWaiverPrinter builds a printer for the file at path
// whose raw bytes are source, needed to translate each violation's
// byte offset into the 1-based line number a waiver line names.
func NewViolationWaiverPrinter(path string, source []byte) *ViolationWaiverPrinter {
	return &ViolationWaiverPrinter{Path: path, Source: source}
}

// PrintOutstanding writes one waive line per violation in fixer that
// is not Applied (Rejected or still Pending), in the fixer's existing
// (offset, rule) order (P8). Already-applied violations need no
// waiver: their underlying defect no longer exists in the committed
// file.
func (p *ViolationWaiverPrinter) PrintOutstanding(w io.Writer, fixer *ViolationFixer) {
	for i, v := range fixer.Violations() {
		if fixer.Decision(i) == Applied {
			continue
		}
		line := lint.LineOf(p.Source, v.Violation.Token.Range().Start)
		io.WriteString(w, lint.RenderWaiverLine(v.Rule, line, p.Path)+"\n")
	}
}

// PrintAll writes a waive line for every violation in fixer
// regardless of disposition, the "waive everything this run found"
// shortcut some CI pipelines want.
func (p *ViolationWaiverPrinter) PrintAll(w io.Writer, fixer *ViolationFixer) {
	for _, v := range fixer.Violations() {
		line := lint.LineOf(p.Source, v.Violation.Token.Range().Start)
		io.WriteString(w, lint.RenderWaiverLine(v.Rule, line, p.Path)+"\n")
	}
}
