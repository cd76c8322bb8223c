package lint

import (
	"github.com/svlang/svkit/cst"
	"github.com/svlang/svkit/token"
)

// TextStructure is the full per-file artifact every rule kind reads
// from: its token stream, its lines, and its parsed CST, alongside
// lex/parse status. It is the project file model's (C6) output and
// the lint orchestrator's (C10) input.
type TextStructure struct {
	Path       string
	Source     []byte
	Tokens     []token.Token
	Lines      []string
	Tree       *cst.Symbol
	LexClean   bool
	ParseClean bool
}

// TokenStreamLintRule sees every token of a file in order.
type TokenStreamLintRule interface {
	Rule
	HandleToken(tok token.Token)
}

// LineLintRule sees each source line, by 1-based line number.
type LineLintRule interface {
	Rule
	HandleLine(lineNumber int, line string)
}

// TextStructureLintRule sees the full TextStructure once.
type TextStructureLintRule interface {
	Rule
	HandleTextStructure(ts *TextStructure)
}

// SyntaxTreeLintRule sees every leaf and node of the CST, with the
// ancestor context active at that point.
type SyntaxTreeLintRule interface {
	Rule
	HandleLeaf(l *cst.Leaf, ctx *cst.SyntaxTreeContext)
	HandleNode(n *cst.Node, ctx *cst.SyntaxTreeContext)
}

// Rule is the contract every lint rule kind embeds: a name, a config
// string setter, and a Report() that flushes its accumulated
// LintRuleStatus. A single rule implements exactly one of the four
// kind interfaces above (tagged by which extra methods it has).
type Rule interface {
	Name() string
	URL() string
	Configure(config string) error
	Report() *LintRuleStatus
}

// SymbolTableAware is implemented by rules that need a project-wide
// resolved symbol table bound in before they can fire (for example
// unqualified-reference-no-typo). RunFile binds one into every rule
// instance it constructs that implements this interface, right after
// construction and before Configure.
//
// The table is threaded through as an opaque interface{} rather than
// a *symtab.SymbolTable: symtab depends on project, and project holds
// a *lint.TextStructure on every ProjectFile, so lint importing symtab
// back would be a cycle. Implementations live in packages that
// already import symtab directly (lint/rules) and assert the
// concrete type back out themselves.
type SymbolTableAware interface {
	Rule
	BindSymbolTable(table interface{})
}

// BaseRule is embedded by concrete rules to provide Name/URL/Report
// and a private accumulator, a shared-bookkeeping idiom rather than
// repeating the same field set on every rule type.
type BaseRule struct {
	name   string
	url    string
	status *LintRuleStatus
}

// NewBaseRule constructs a BaseRule and its backing LintRuleStatus.
func NewBaseRule(name, url string) BaseRule {
	return BaseRule{name: name, url: url, status: NewLintRuleStatus(name, url)}
}

func (b *BaseRule) Name() string { return b.name }
func (b *BaseRule) URL() string  { return b.url }

// Configure is a no-op default; rules taking a config string override
// it.
func (b *BaseRule) Configure(string) error { return nil }

func (b *BaseRule) Report() *LintRuleStatus { return b.status }

// Violate records a new violation against the rule's own status.
func (b *BaseRule) Violate(v *LintViolation) { b.status.Add(v) }
