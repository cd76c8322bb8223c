package parseengine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/svlang/svkit/cst"
	"github.com/svlang/svkit/parseengine"
	"github.com/svlang/svkit/symtab"
)

func parseSource(t *testing.T, src string) *cst.Symbol {
	t.Helper()
	toks, lexDiags := parseengine.Lex([]byte(src))
	require.Empty(t, lexDiags)
	tree, parseDiags := parseengine.Parse(toks)
	require.Empty(t, parseDiags)
	return tree
}

func TestParse_ModuleWithDataDeclaration(t *testing.T) {
	tree := parseSource(t, "module m; wire a; endmodule")
	n, ok := cst.SymbolCastToNode(tree)
	require.True(t, ok)
	assert.Equal(t, cst.TagSourceFile, n.Tag)
	require.Len(t, n.Children, 1)

	mod, ok := cst.SymbolCastToNode(n.Children[0])
	require.True(t, ok)
	assert.Equal(t, cst.TagModuleDeclaration, mod.Tag)
	nameLeaf, ok := cst.SymbolCastToLeaf(mod.Child(1))
	require.True(t, ok)
	assert.Equal(t, "m", nameLeaf.Token.Text)

	body, ok := cst.SymbolCastToNode(mod.Child(2))
	require.True(t, ok)
	assert.Equal(t, cst.TagModuleItemList, body.Tag)
	require.Len(t, body.Children, 1)
	decl, ok := cst.SymbolCastToNode(body.Children[0])
	require.True(t, ok)
	assert.Equal(t, cst.TagDataDeclaration, decl.Tag)
	declName, ok := cst.SymbolCastToLeaf(decl.Child(1))
	require.True(t, ok)
	assert.Equal(t, "a", declName.Token.Text)
}

func TestParse_PackageWithLocalparam(t *testing.T) {
	tree := parseSource(t, "package p_pkg; localparam goo = 1; endpackage")
	n, _ := cst.SymbolCastToNode(tree)
	pkg, ok := cst.SymbolCastToNode(n.Children[0])
	require.True(t, ok)
	assert.Equal(t, cst.TagPackageDeclaration, pkg.Tag)
	nameLeaf, _ := cst.SymbolCastToLeaf(pkg.Child(1))
	assert.Equal(t, "p_pkg", nameLeaf.Token.Text)

	body, _ := cst.SymbolCastToNode(pkg.Child(2))
	require.Len(t, body.Children, 1)
	param, ok := cst.SymbolCastToNode(body.Children[0])
	require.True(t, ok)
	assert.Equal(t, cst.TagParamDeclaration, param.Tag)
	paramName, _ := cst.SymbolCastToLeaf(param.Child(2))
	assert.Equal(t, "goo", paramName.Token.Text)
}

func TestParse_FunctionHeaderWithReturnType(t *testing.T) {
	tree := parseSource(t, "function int add(); wire a; endfunction")
	n, _ := cst.SymbolCastToNode(tree)
	fn, ok := cst.SymbolCastToNode(n.Children[0])
	require.True(t, ok)
	assert.Equal(t, cst.TagFunctionDeclaration, fn.Tag)
	nameLeaf, ok := cst.SymbolCastToLeaf(fn.Child(1))
	require.True(t, ok)
	assert.Equal(t, "add", nameLeaf.Token.Text)
}

func TestParse_AssignmentExtractsQualifiedReference(t *testing.T) {
	tree := parseSource(t, "module m; wire baz; initial baz = p_pkg::goo; endmodule")
	n, _ := cst.SymbolCastToNode(tree)
	mod, _ := cst.SymbolCastToNode(n.Children[0])
	body, _ := cst.SymbolCastToNode(mod.Child(2))

	var refNode *cst.Node
	for _, c := range body.Children {
		if cn, ok := cst.SymbolCastToNode(c); ok && cn.Tag == cst.TagReference {
			refNode = cn
		}
	}
	require.NotNil(t, refNode, "expected an extracted reference item in %v", body.Children)
	chain, ok := cst.SymbolCastToNode(refNode.Child(0))
	require.True(t, ok)
	assert.Equal(t, cst.TagQualifiedId, chain.Tag)
	first, _ := cst.SymbolCastToLeaf(chain.Children[0])
	last, _ := cst.SymbolCastToLeaf(chain.Children[2])
	assert.Equal(t, "p_pkg", first.Token.Text)
	assert.Equal(t, "goo", last.Token.Text)
}

func TestParse_GenerateBlockIsAnonymousScope(t *testing.T) {
	tree := parseSource(t, "module m; generate wire a; endgenerate endmodule")
	n, _ := cst.SymbolCastToNode(tree)
	mod, _ := cst.SymbolCastToNode(n.Children[0])
	body, _ := cst.SymbolCastToNode(mod.Child(2))
	require.Len(t, body.Children, 1)
	gen, ok := cst.SymbolCastToNode(body.Children[0])
	require.True(t, ok)
	assert.Equal(t, cst.TagGenerateBlock, gen.Tag)
	assert.Nil(t, gen.Child(0))
}

// TestParse_RoundTripThroughSymbolTable exercises the same cross-file
// resolution scenario symtab's own tests hand-construct, but fed
// through the real Lex/Parse pipeline instead of a hand-built tree.
func TestParse_RoundTripThroughSymbolTable(t *testing.T) {
	fileX := parseSource(t, "package p_pkg; localparam goo = 1; endpackage")
	fileY := parseSource(t, "module m; localparam baz = p_pkg::goo; endmodule")

	st := symtab.New(nil)
	bagX := st.Build(fileX, "X.sv")
	bagY := st.Build(fileY, "Y.sv")
	require.Empty(t, bagX.Items())
	require.Empty(t, bagY.Items())

	st.ResolveLocallyOnly()
	resolveBag := st.Resolve()
	assert.Empty(t, resolveBag.Items())
}

func TestParse_MissingEndKeywordReportsDiagnostic(t *testing.T) {
	toks, _ := parseengine.Lex([]byte("module m; wire a;"))
	_, diags := parseengine.Parse(toks)
	require.NotEmpty(t, diags)
}
