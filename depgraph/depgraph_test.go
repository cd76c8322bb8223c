package depgraph_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/svlang/svkit/cst"
	"github.com/svlang/svkit/depgraph"
	"github.com/svlang/svkit/symtab"
	"github.com/svlang/svkit/token"
)

func leaf(kind token.Kind, text string) *cst.Symbol {
	return cst.LeafSymbol(cst.NewLeaf(token.NewToken(kind, token.ByteRange{Start: 0, End: len(text)}, []byte(text))))
}

// File X: package p_pkg; localparam int goo = 1; endpackage
func buildFileX() *cst.Symbol {
	paramDecl := cst.NodeSymbol(cst.NewNode(cst.TagParamDeclaration,
		leaf(token.KwLocalparam, "localparam"),
		leaf(token.KwLogic, "int"),
		leaf(token.SymbolIdentifier, "goo"),
		cst.NodeSymbol(cst.NewNode(cst.TagExpression, leaf(token.NumericLiteral, "1"))),
	))
	itemList := cst.NodeSymbol(cst.NewNode(cst.TagModuleItemList, paramDecl))
	pkgDecl := cst.NodeSymbol(cst.NewNode(cst.TagPackageDeclaration,
		leaf(token.KwPackage, "package"),
		leaf(token.SymbolIdentifier, "p_pkg"),
		itemList,
	))
	return cst.NodeSymbol(cst.NewNode(cst.TagSourceFile, pkgDecl))
}

// File Y: localparam int baz = p_pkg::goo;
func buildFileY() *cst.Symbol {
	qualifiedID := cst.NewNode(cst.TagQualifiedId,
		leaf(token.SymbolIdentifier, "p_pkg"),
		leaf(token.ColonColon, "::"),
		leaf(token.SymbolIdentifier, "goo"),
	)
	reference := cst.NodeSymbol(cst.NewNode(cst.TagReference, cst.NodeSymbol(qualifiedID)))
	expr := cst.NodeSymbol(cst.NewNode(cst.TagExpression, reference))
	paramDecl := cst.NodeSymbol(cst.NewNode(cst.TagParamDeclaration,
		leaf(token.KwLocalparam, "localparam"),
		leaf(token.KwLogic, "int"),
		leaf(token.SymbolIdentifier, "baz"),
		expr,
	))
	return cst.NodeSymbol(cst.NewNode(cst.TagSourceFile, paramDecl))
}

func TestBuild_FileDependencyEdge(t *testing.T) {
	st := symtab.New(nil)
	st.Build(buildFileX(), "X.sv")
	st.Build(buildFileY(), "Y.sv")
	st.ResolveLocallyOnly()
	st.Resolve()

	g := depgraph.Build(st)
	assert.Equal(t, []string{"p_pkg"}, g.DependsOn("Y.sv", "X.sv"))
	assert.Empty(t, g.DependsOn("X.sv", "Y.sv"), "dependency edges are directional")
}

func TestBuild_NoSelfEdges(t *testing.T) {
	st := symtab.New(nil)
	st.Build(buildFileX(), "X.sv")
	st.ResolveLocallyOnly()
	st.Resolve()

	g := depgraph.Build(st)
	assert.Empty(t, g.Dependencies("X.sv"), "a==b must never produce an edge")
}

func TestTraverseDependencyEdges_Deterministic(t *testing.T) {
	st := symtab.New(nil)
	st.Build(buildFileX(), "X.sv")
	st.Build(buildFileY(), "Y.sv")
	st.ResolveLocallyOnly()
	st.Resolve()

	g := depgraph.Build(st)
	var sb strings.Builder
	g.Dump(&sb)
	require.Equal(t, "Y.sv -> X.sv: p_pkg\n", sb.String())
}
