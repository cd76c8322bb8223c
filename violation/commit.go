package violation

import (
	"context"
	"fmt"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/svlang/svkit/project"
)

// Committer writes a ViolationFixer's accepted edits back to a
// VerilogProject's FileSystem, or renders them as a unified diff
// instead of touching disk.
type Committer struct {
	FS project.FileSystem
}

// NewCommitter wraps fs for committing fixer results.
func NewCommitter(fs project.FileSystem) *Committer {
	return &Committer{FS: fs}
}

// WriteInPlace reads path's current content, verifies it still
// matches expectedBefore byte-for-byte (the conflict check: someone
// else may have edited the file between lexing it and accepting
// fixes), computes the committed content via fixer.Commit, and writes
// it back.
func (c *Committer) WriteInPlace(ctx context.Context, fixer *ViolationFixer, path string, expectedBefore []byte) error {
	current, err := c.FS.ReadFile(ctx, path)
	if err != nil {
		return fmt.Errorf("violation: reading %s before commit: %w", path, err)
	}
	if string(current) != string(expectedBefore) {
		return fmt.Errorf("violation: %s changed on disk since it was linted, refusing to overwrite", path)
	}
	fixed, err := fixer.Commit(expectedBefore)
	if err != nil {
		return err
	}
	return c.FS.WriteFile(ctx, path, []byte(fixed))
}

// UnifiedDiff renders the committed content of fixer's accepted fixes
// against source as a unified diff, without writing anything. Used by
// callers that want a reviewable patch stream instead of an in-place
// edit.
func UnifiedDiff(path string, source []byte, fixer *ViolationFixer) (string, error) {
	fixed, err := fixer.Commit(source)
	if err != nil {
		return "", err
	}
	if fixed == string(source) {
		return "", nil
	}
	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(source)),
		B:        difflib.SplitLines(fixed),
		FromFile: path,
		ToFile:   path,
		Context:  3,
	}
	return difflib.GetUnifiedDiffString(diff)
}

// SummarizeDecisions renders a short text summary of every decision
// in fixer, one line per violation, for CLI output.
func SummarizeDecisions(fixer *ViolationFixer) string {
	var sb strings.Builder
	for i, v := range fixer.Violations() {
		fmt.Fprintf(&sb, "[%s] line offset %d: %s -> %s\n", v.Rule, v.Violation.Token.Range().Start, v.Violation.Reason, fixer.Decision(i))
	}
	return sb.String()
}
