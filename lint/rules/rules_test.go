package rules_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/svlang/svkit/cst"
	"github.com/svlang/svkit/lint"
	"github.com/svlang/svkit/lint/rules"
	"github.com/svlang/svkit/symtab"
	"github.com/svlang/svkit/token"
)

func TestDefaultRegistry_HasCatalogueRules(t *testing.T) {
	names := lint.Default.Names()
	assert.Contains(t, names, "no-tabs")
	assert.Contains(t, names, "line-length")
	assert.Contains(t, names, "posix-eof")
	assert.Contains(t, names, "endif-comment")
	assert.Contains(t, names, "module-filename")
	assert.Contains(t, names, "unqualified-reference-no-typo")
}

func TestNoTabsRule(t *testing.T) {
	rule, ok := lint.Default.New("no-tabs")
	assert.True(t, ok)
	lr := rule.(lint.LineLintRule)
	lr.HandleLine(1, "\twire a;")
	assert.Len(t, rule.Report().Violations(), 1)
}

func TestLineLengthRule_Configurable(t *testing.T) {
	rule, _ := lint.Default.New("line-length")
	require := rule.Configure("10")
	assert.NoError(t, require)
	lr := rule.(lint.LineLintRule)
	lr.HandleLine(1, "0123456789ABCDEF")
	assert.Len(t, rule.Report().Violations(), 1)
}

func TestPosixEOFRule(t *testing.T) {
	rule, _ := lint.Default.New("posix-eof")
	tr := rule.(lint.TextStructureLintRule)

	tr.HandleTextStructure(&lint.TextStructure{Source: []byte("endmodule\n")})
	assert.Empty(t, rule.Report().Violations())

	rule2, _ := lint.Default.New("posix-eof")
	tr2 := rule2.(lint.TextStructureLintRule)
	tr2.HandleTextStructure(&lint.TextStructure{Source: []byte("endmodule")})
	assert.Len(t, rule2.Report().Violations(), 1)
}

func TestEndifCommentRule(t *testing.T) {
	src := []byte("`ifdef FOO\n`endif\n")
	toks := []token.Token{
		token.NewToken(token.PPIfdef, token.ByteRange{Start: 0, End: 6}, src),
		token.NewToken(token.SymbolIdentifier, token.ByteRange{Start: 7, End: 10}, src),
		token.NewToken(token.PPEndif, token.ByteRange{Start: 11, End: 17}, src),
		token.NewToken(token.EOF, token.ByteRange{Start: len(src), End: len(src)}, src),
	}

	rule, _ := lint.Default.New("endif-comment")
	tsr := rule.(lint.TokenStreamLintRule)
	for _, tok := range toks {
		tsr.HandleToken(tok)
	}
	assert.Len(t, rule.Report().Violations(), 1, "missing trailing comment should be flagged")

	rule2, _ := lint.Default.New("endif-comment")
	tsr2 := rule2.(lint.TokenStreamLintRule)
	srcGood := []byte("`ifdef FOO\n`endif // FOO\n")
	goodToks := []token.Token{
		token.NewToken(token.PPIfdef, token.ByteRange{Start: 0, End: 6}, srcGood),
		token.NewToken(token.SymbolIdentifier, token.ByteRange{Start: 7, End: 10}, srcGood),
		token.NewToken(token.PPEndif, token.ByteRange{Start: 11, End: 17}, srcGood),
		token.NewToken(token.EOLComment, token.ByteRange{Start: 18, End: 25}, srcGood),
		token.NewToken(token.EOF, token.ByteRange{Start: len(srcGood), End: len(srcGood)}, srcGood),
	}
	for _, tok := range goodToks {
		tsr2.HandleToken(tok)
	}
	assert.Empty(t, rule2.Report().Violations())
}

func TestUnqualifiedReferenceNoTypoRule(t *testing.T) {
	st := symtab.New(nil)
	src := []byte("localparam int goo = 1;")
	paramDecl := cst.NodeSymbol(cst.NewNode(cst.TagParamDeclaration,
		cst.LeafSymbol(cst.NewLeaf(token.NewToken(token.KwLocalparam, token.ByteRange{Start: 0, End: 10}, src))),
		cst.LeafSymbol(cst.NewLeaf(token.NewToken(token.KwLogic, token.ByteRange{Start: 11, End: 14}, src))),
		cst.LeafSymbol(cst.NewLeaf(token.NewToken(token.SymbolIdentifier, token.ByteRange{Start: 15, End: 18}, src))),
		cst.NodeSymbol(cst.NewNode(cst.TagExpression, cst.LeafSymbol(cst.NewLeaf(token.NewToken(token.NumericLiteral, token.ByteRange{Start: 21, End: 22}, src))))),
	))
	st.Build(cst.NodeSymbol(cst.NewNode(cst.TagSourceFile, paramDecl)), "top.sv")

	rule := rules.NewUnqualifiedReferenceRule(st)
	nr := rule.(lint.SyntaxTreeLintRule)

	knownRef := cst.NewNode(cst.TagReference,
		cst.LeafSymbol(cst.NewLeaf(token.NewToken(token.SymbolIdentifier, token.ByteRange{Start: 0, End: 3}, []byte("goo")))))
	nr.HandleNode(knownRef, &cst.SyntaxTreeContext{})
	assert.Empty(t, rule.Report().Violations(), "goo is declared, must not be flagged")

	typoRef := cst.NewNode(cst.TagReference,
		cst.LeafSymbol(cst.NewLeaf(token.NewToken(token.SymbolIdentifier, token.ByteRange{Start: 0, End: 3}, []byte("goe")))))
	nr.HandleNode(typoRef, &cst.SyntaxTreeContext{})
	assert.Len(t, rule.Report().Violations(), 1, "goe matches no declared symbol")
}

func TestModuleFilenameRule(t *testing.T) {
	src := []byte("module other; endmodule")
	nameLeaf := cst.LeafSymbol(cst.NewLeaf(token.NewToken(token.SymbolIdentifier, token.ByteRange{Start: 7, End: 12}, src)))
	kwLeaf := cst.LeafSymbol(cst.NewLeaf(token.NewToken(token.KwModule, token.ByteRange{Start: 0, End: 6}, src)))
	tree := cst.NodeSymbol(cst.NewNode(cst.TagSourceFile,
		cst.NodeSymbol(cst.NewNode(cst.TagModuleDeclaration, kwLeaf, nameLeaf)),
	))

	rule, _ := lint.Default.New("module-filename")
	tr := rule.(lint.TextStructureLintRule)
	tr.HandleTextStructure(&lint.TextStructure{Path: "top.sv", Source: src, Tree: tree})
	assert.Len(t, rule.Report().Violations(), 1)
}
