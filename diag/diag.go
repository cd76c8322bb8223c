// Package diag defines the Diagnostic value every pipeline stage
// returns alongside its primary result: a uniform way to report
// input errors, lexical/syntactic errors, semantic
// diagnostics, rule violations, autofix conflicts, and internal
// invariant failures without panicking.
package diag

import (
	"fmt"

	"github.com/svlang/svkit/token"
)

// Severity ranks how serious a Diagnostic is.
type Severity int

const (
	Info Severity = iota
	Warning
	Error
	Fatal
)

func (s Severity) String() string {
	switch s {
	case Info:
		return "info"
	case Warning:
		return "warning"
	case Error:
		return "error"
	case Fatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// Stage identifies which pipeline stage produced a Diagnostic.
type Stage int

const (
	StageInput Stage = iota
	StageLexical
	StageSyntactic
	StageSemantic
	StageRule
	StageAutofix
	StageInternal
)

func (s Stage) String() string {
	switch s {
	case StageInput:
		return "input"
	case StageLexical:
		return "lexical"
	case StageSyntactic:
		return "syntactic"
	case StageSemantic:
		return "semantic"
	case StageRule:
		return "rule"
	case StageAutofix:
		return "autofix"
	case StageInternal:
		return "internal"
	default:
		return "unknown"
	}
}

// Diagnostic is the common currency returned by every pipeline stage.
type Diagnostic struct {
	Severity Severity
	Stage    Stage
	Message  string
	Path     string
	Pos      *token.Position
	Err      error
}

func (d Diagnostic) Error() string {
	loc := d.Path
	if d.Pos != nil {
		loc = fmt.Sprintf("%s:%s", d.Path, d.Pos)
	}
	if loc == "" {
		return fmt.Sprintf("%s(%s): %s", d.Severity, d.Stage, d.Message)
	}
	return fmt.Sprintf("%s: %s(%s): %s", loc, d.Severity, d.Stage, d.Message)
}

// Bag is an ordered collection of Diagnostics accumulated across a
// pipeline run. Stages concatenate Bags; callers pick the first fatal
// status among them to decide whether to keep going.
type Bag struct {
	items []Diagnostic
}

// Add appends d to the bag.
func (b *Bag) Add(d Diagnostic) { b.items = append(b.items, d) }

// Addf is a convenience constructor-and-add.
func (b *Bag) Addf(sev Severity, stage Stage, path string, format string, args ...interface{}) {
	b.Add(Diagnostic{Severity: sev, Stage: stage, Path: path, Message: fmt.Sprintf(format, args...)})
}

// Extend appends every Diagnostic from other into b.
func (b *Bag) Extend(other *Bag) {
	if other == nil {
		return
	}
	b.items = append(b.items, other.items...)
}

// Items returns the accumulated Diagnostics in insertion order.
func (b *Bag) Items() []Diagnostic { return b.items }

// HasFatal reports whether any accumulated Diagnostic is Fatal.
func (b *Bag) HasFatal() bool { return b.firstSeverityAtLeast(Fatal) != nil }

// HasErrorOrWorse reports whether any accumulated Diagnostic is Error
// or Fatal.
func (b *Bag) HasErrorOrWorse() bool { return b.firstSeverityAtLeast(Error) != nil }

func (b *Bag) firstSeverityAtLeast(min Severity) *Diagnostic {
	for i := range b.items {
		if b.items[i].Severity >= min {
			return &b.items[i]
		}
	}
	return nil
}
