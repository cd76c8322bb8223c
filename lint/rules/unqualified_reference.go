package rules

import (
	"fmt"

	"github.com/svlang/svkit/cst"
	"github.com/svlang/svkit/lint"
	"github.com/svlang/svkit/symtab"
	"github.com/svlang/svkit/token"
)

const UnqualifiedReferenceNoTypoName = "unqualified-reference-no-typo"

// unqualifiedReferenceRule flags a bare (unqualified, single
// identifier) kReference whose spelling matches no symbol declared
// anywhere in the project's symbol table — the common signature of a
// typo'd identifier, since a genuine reference to an undeclared
// design element is far rarer than a misspelling of a real one.
//
// Unlike the other default rules, this one needs a resolved
// symtab.SymbolTable injected before it can do anything; run through
// the generic registry without one, it is inert (reports nothing)
// rather than panicking, so --rules=all remains safe to run against
// files opened without a project.
type unqualifiedReferenceRule struct {
	lint.BaseRule
	table *symtab.SymbolTable
	known map[string]struct{}
}

func newUnqualifiedReferenceRule() lint.Rule {
	return &unqualifiedReferenceRule{BaseRule: lint.NewBaseRule(UnqualifiedReferenceNoTypoName, "")}
}

// NewUnqualifiedReferenceRule constructs the rule pre-bound to table,
// for callers (CLI, LSP) that have already built and resolved a
// project-wide symbol table and want this rule to actually fire.
func NewUnqualifiedReferenceRule(table *symtab.SymbolTable) lint.Rule {
	r := &unqualifiedReferenceRule{BaseRule: lint.NewBaseRule(UnqualifiedReferenceNoTypoName, "")}
	r.SetSymbolTable(table)
	return r
}

// SetSymbolTable binds (or rebinds) the symbol table this rule checks
// references against, snapshotting its declared names.
func (r *unqualifiedReferenceRule) SetSymbolTable(table *symtab.SymbolTable) {
	r.table = table
	r.known = declaredNames(table)
}

// BindSymbolTable implements lint.SymbolTableAware, the path RunFile
// uses to bind a table into a rule it constructed generically from
// the registry (CLI/LSP usage). table's concrete type must be
// *symtab.SymbolTable or nil; anything else leaves the rule inert.
func (r *unqualifiedReferenceRule) BindSymbolTable(table interface{}) {
	t, _ := table.(*symtab.SymbolTable)
	r.SetSymbolTable(t)
}

func (r *unqualifiedReferenceRule) HandleLeaf(*cst.Leaf, *cst.SyntaxTreeContext) {}

func (r *unqualifiedReferenceRule) HandleNode(n *cst.Node, ctx *cst.SyntaxTreeContext) {
	if r.table == nil || n.Tag != cst.TagReference || len(n.Children) != 1 {
		return
	}
	leaf := n.Children[0].AsLeaf()
	if leaf == nil || !leaf.Token.TokenKind().IsIdentifierKind() {
		return
	}
	name := leaf.Token.Text
	if _, ok := r.known[name]; ok {
		return
	}
	r.Violate(&lint.LintViolation{
		Token:   leaf.Token,
		Context: ctx,
		Reason:  fmt.Sprintf("unqualified reference %q matches no declared symbol; possible typo", name),
	})
}

// declaredNames flattens every identifier declared anywhere in
// table's scope tree into a lookup set. A flat, scope-blind set
// trades precision (a name only valid in a sibling scope still
// silences the check) for simplicity: it is enough to catch the
// typo case this rule targets without re-deriving full lexical
// scoping inside the lint pass.
func declaredNames(table *symtab.SymbolTable) map[string]struct{} {
	out := map[string]struct{}{}
	if table == nil || table.Root == nil {
		return out
	}
	var walk func(n *symtab.SymbolTableNode)
	walk = func(n *symtab.SymbolTableNode) {
		for _, c := range n.ChildValues() {
			out[c.Identifier] = struct{}{}
			walk(c)
		}
	}
	walk(table.Root)
	return out
}

func init() { lint.Default.Register(UnqualifiedReferenceNoTypoName, newUnqualifiedReferenceRule, false) }
