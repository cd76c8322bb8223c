package cst_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/svlang/svkit/cst"
	"github.com/svlang/svkit/token"
)

// buildWireDecl builds a tiny CST for `wire [1:0] w;` shaped as:
//
//	kDataDeclaration
//	  Leaf("wire")
//	  kPackedDimensions
//	    Leaf("[")
//	    Leaf("1:0")
//	    Leaf("]")
//	  Leaf("w")
//	  Leaf(";")
func buildWireDecl() *cst.Symbol {
	src := []byte("wire [1:0] w;")
	leafAt := func(kind token.Kind, start, end int) *cst.Symbol {
		return cst.LeafSymbol(cst.NewLeaf(token.NewToken(kind, token.ByteRange{Start: start, End: end}, src)))
	}
	packed := cst.NewNode(cst.TagPackedDimensions,
		leafAt(token.LBracket, 5, 6),
		leafAt(token.NumericLiteral, 6, 9),
		leafAt(token.RBracket, 9, 10),
	)
	decl := cst.NewNode(cst.TagDataDeclaration,
		leafAt(token.KwWire, 0, 4),
		cst.NodeSymbol(packed),
		leafAt(token.SymbolIdentifier, 11, 12),
		leafAt(token.Semicolon, 12, 13),
	)
	return cst.NodeSymbol(decl)
}

// buildArrayDecl builds `wire w[4];` which has an *unpacked* dimension
// instead of a packed one.
func buildArrayDecl() *cst.Symbol {
	src := []byte("wire w[4];")
	leafAt := func(kind token.Kind, start, end int) *cst.Symbol {
		return cst.LeafSymbol(cst.NewLeaf(token.NewToken(kind, token.ByteRange{Start: start, End: end}, src)))
	}
	unpacked := cst.NewNode(cst.TagUnpackedDimensions,
		leafAt(token.LBracket, 6, 7),
		leafAt(token.NumericLiteral, 7, 8),
		leafAt(token.RBracket, 8, 9),
	)
	decl := cst.NewNode(cst.TagDataDeclaration,
		leafAt(token.KwWire, 0, 4),
		leafAt(token.SymbolIdentifier, 5, 6),
		cst.NodeSymbol(unpacked),
		leafAt(token.Semicolon, 9, 10),
	)
	return cst.NodeSymbol(decl)
}

// TestSearch_PackedVsUnpackedDimensions is scenario S3.
func TestSearch_PackedVsUnpackedDimensions(t *testing.T) {
	wire := buildWireDecl()
	assert.Len(t, cst.Search(wire, cst.NodekPackedDimensions()), 1)
	assert.Len(t, cst.Search(wire, cst.NodekUnpackedDimensions()), 0)

	arr := buildArrayDecl()
	assert.Len(t, cst.Search(arr, cst.NodekPackedDimensions()), 0)
	assert.Len(t, cst.Search(arr, cst.NodekUnpackedDimensions()), 1)
}

// TestDescendPath_RoundTrips_EveryLeaf is property P1.
func TestDescendPath_RoundTrips_EveryLeaf(t *testing.T) {
	root := buildWireDecl()

	var leaves []*cst.Leaf
	var paths []cst.Path
	cst.WalkWithPath(root, cst.PathVisitFunc{
		Leaf: func(l *cst.Leaf, path cst.Path) {
			leaves = append(leaves, l)
			p := append(cst.Path{}, path...)
			paths = append(paths, p)
		},
	})

	assert.NotEmpty(t, leaves)
	for i, l := range leaves {
		got := cst.DescendPath(root, paths[i])
		assert.True(t, got.IsLeaf())
		assert.Same(t, l, got.AsLeaf())
	}
}

func TestComparePath_Lexicographic(t *testing.T) {
	assert.Equal(t, -1, cst.ComparePath(cst.Path{0, 1}, cst.Path{0, 2}))
	assert.Equal(t, 1, cst.ComparePath(cst.Path{1}, cst.Path{0, 9}))
	assert.Equal(t, 0, cst.ComparePath(cst.Path{0, 1}, cst.Path{0, 1}))
	assert.Equal(t, -1, cst.ComparePath(cst.Path{0}, cst.Path{0, 0}))
}

func TestSyntaxTreeContext_IsInsideAndDirectParent(t *testing.T) {
	root := buildWireDecl()
	var sawPackedInsideDecl, directParentIsDecl bool
	cst.WalkWithContext(root, cst.ContextVisitFunc{
		Node: func(n *cst.Node, ctx *cst.SyntaxTreeContext) {
			if n.Tag == cst.TagPackedDimensions {
				sawPackedInsideDecl = ctx.IsInside(cst.TagDataDeclaration)
				directParentIsDecl = ctx.DirectParentIs(cst.TagDataDeclaration)
			}
		},
	})
	assert.True(t, sawPackedInsideDecl)
	assert.True(t, directParentIsDecl)
}

func TestGetSubtreeAsNode_TolerantOfMismatch(t *testing.T) {
	root := buildWireDecl()
	n, ok := cst.SymbolCastToNode(root)
	assert.True(t, ok)

	packed, ok := cst.GetSubtreeAsNode(cst.NodeSymbol(n), cst.TagDataDeclaration, 1, cst.TagPackedDimensions)
	assert.True(t, ok)
	assert.Equal(t, cst.TagPackedDimensions, packed.Tag)

	_, ok = cst.GetSubtreeAsNode(cst.NodeSymbol(n), cst.TagDataDeclaration, 0, cst.TagPackedDimensions)
	assert.False(t, ok, "child 0 is a Leaf, not a Node")

	_, ok = cst.GetSubtreeAsNode(cst.NodeSymbol(n), cst.TagDataDeclaration, 99, cst.TagUnspecified)
	assert.False(t, ok, "out of range child index must not panic")
}

func TestGetLeftmostAndRightmostLeaf(t *testing.T) {
	root := buildWireDecl()
	left := cst.GetLeftmostLeaf(root)
	right := cst.GetRightmostLeaf(root)
	assert.Equal(t, token.KwWire, left.Token.TokenKind())
	assert.Equal(t, token.Semicolon, right.Token.TokenKind())
}

func TestWalk_SkipsNilChildSlotsButNotPathPositions(t *testing.T) {
	src := []byte("x")
	leaf := cst.LeafSymbol(cst.NewLeaf(token.NewToken(token.SymbolIdentifier, token.ByteRange{Start: 0, End: 1}, src)))
	n := cst.NewNode(cst.TagIdentifierList, nil, leaf, nil)
	root := cst.NodeSymbol(n)

	var visitedPaths []cst.Path
	cst.WalkWithPath(root, cst.PathVisitFunc{
		Leaf: func(l *cst.Leaf, path cst.Path) {
			visitedPaths = append(visitedPaths, append(cst.Path{}, path...))
		},
	})
	assert.Equal(t, []cst.Path{{1}}, visitedPaths, "nil slots at 0 and 2 must not be visited, but index 1 reflects their presence")
}
