package symtab_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/svlang/svkit/cst"
	"github.com/svlang/svkit/symtab"
	"github.com/svlang/svkit/token"
)

// leaf builds a *cst.Symbol Leaf around a token of kind/text; the
// token's byte range is irrelevant to these tests so it is zeroed.
func leaf(kind token.Kind, text string) *cst.Symbol {
	return cst.LeafSymbol(cst.NewLeaf(token.NewToken(kind, token.ByteRange{Start: 0, End: len(text)}, []byte(text))))
}

// buildFileX models `package p_pkg; localparam int goo = 1; endpackage`.
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

// buildFileY models `localparam int baz = p_pkg::goo;`.
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

func TestResolveLocallyOnly_FindsSiblingScopeOnly(t *testing.T) {
	st := symtab.New(nil)
	bagX := st.Build(buildFileX(), "X.sv")
	bagY := st.Build(buildFileY(), "Y.sv")
	assert.Empty(t, bagX.Items())
	assert.Empty(t, bagY.Items())

	_, ok := st.Root.Child("baz")
	require.True(t, ok)
	require.Len(t, st.Root.LocalReferencesToBind, 1)
	rootComp := st.Component(st.Root.LocalReferencesToBind[0].Root)
	require.NotNil(t, rootComp)
	assert.Nil(t, rootComp.ResolvedSymbol, "nothing resolves until Pass B/C run")

	st.ResolveLocallyOnly()
	assert.NotNil(t, rootComp.ResolvedSymbol, "p_pkg is a direct sibling of baz, so local search in Pass B must find it")

	goo := st.Component(rootComp.Children[0])
	require.NotNil(t, goo)
	assert.NotNil(t, goo.ResolvedSymbol, "goo resolves as a direct member of the now-resolved p_pkg")
}

func TestSymbolResolutionAcrossFiles(t *testing.T) {
	st := symtab.New(nil)
	st.Build(buildFileX(), "X.sv")
	st.Build(buildFileY(), "Y.sv")
	st.ResolveLocallyOnly()
	resolveBag := st.Resolve()
	assert.Empty(t, resolveBag.Items())

	_, ok := st.Root.Child("baz")
	require.True(t, ok)
	require.Len(t, st.Root.LocalReferencesToBind, 1)
	pkgComp := st.Component(st.Root.LocalReferencesToBind[0].Root)
	require.NotNil(t, pkgComp.ResolvedSymbol)
	assert.Equal(t, "X.sv", pkgComp.ResolvedSymbol.FileOrigin)
	assert.Equal(t, symtab.Package, pkgComp.ResolvedSymbol.Metatype)
}

func TestMetatypeMatches(t *testing.T) {
	assert.True(t, symtab.Module.Matches(symtab.Unspecified))
	assert.True(t, symtab.Function.Matches(symtab.Callable))
	assert.True(t, symtab.Task.Matches(symtab.Callable))
	assert.False(t, symtab.Module.Matches(symtab.Callable))
	assert.True(t, symtab.Package.Matches(symtab.Package))
	assert.False(t, symtab.Package.Matches(symtab.Class))
}

func TestDuplicateSymbolDiagnostic(t *testing.T) {
	st := symtab.New(nil)
	st.Build(buildFileX(), "X.sv")
	bag := st.Build(buildFileX(), "X2.sv") // redeclares p_pkg
	require.NotEmpty(t, bag.Items())
	assert.Equal(t, "X2.sv", bag.Items()[0].Path)
}

// buildTypeScopeFile models `module cfg_t; localparam int val = 1; endmodule`,
// standing in for a user-defined type with a member named "val".
func buildTypeScopeFile() *cst.Symbol {
	paramDecl := cst.NodeSymbol(cst.NewNode(cst.TagParamDeclaration,
		leaf(token.KwLocalparam, "localparam"),
		leaf(token.KwLogic, "int"),
		leaf(token.SymbolIdentifier, "val"),
		cst.NodeSymbol(cst.NewNode(cst.TagExpression, leaf(token.NumericLiteral, "1"))),
	))
	itemList := cst.NodeSymbol(cst.NewNode(cst.TagModuleItemList, paramDecl))
	moduleDecl := cst.NodeSymbol(cst.NewNode(cst.TagModuleDeclaration,
		leaf(token.KwModule, "module"),
		leaf(token.SymbolIdentifier, "cfg_t"),
		itemList,
	))
	return cst.NodeSymbol(cst.NewNode(cst.TagSourceFile, moduleDecl))
}

// buildTypeUserFile models `cfg_t cfg; localparam int x = cfg.val;`: a
// variable declared with a user-defined type, then a hierarchy
// reference through it.
func buildTypeUserFile() *cst.Symbol {
	dataDecl := cst.NodeSymbol(cst.NewNode(cst.TagDataDeclaration,
		leaf(token.SymbolIdentifier, "cfg_t"),
		leaf(token.SymbolIdentifier, "cfg"),
	))
	hierExt := cst.NewNode(cst.TagHierarchyExtension,
		leaf(token.SymbolIdentifier, "cfg"),
		leaf(token.Dot, "."),
		leaf(token.SymbolIdentifier, "val"),
	)
	reference := cst.NodeSymbol(cst.NewNode(cst.TagReference, cst.NodeSymbol(hierExt)))
	expr := cst.NodeSymbol(cst.NewNode(cst.TagExpression, reference))
	paramDecl := cst.NodeSymbol(cst.NewNode(cst.TagParamDeclaration,
		leaf(token.KwLocalparam, "localparam"),
		leaf(token.KwLogic, "int"),
		leaf(token.SymbolIdentifier, "x"),
		expr,
	))
	return cst.NodeSymbol(cst.NewNode(cst.TagSourceFile, dataDecl, paramDecl))
}

// TestMemberOfTypeOfParent_ResolvesThroughDeclaredType checks that
// `cfg.val`, where cfg was declared with user-defined type cfg_t,
// resolves "val" inside cfg_t's own scope rather than falling back to
// cfg's (empty) own scope.
func TestMemberOfTypeOfParent_ResolvesThroughDeclaredType(t *testing.T) {
	st := symtab.New(nil)
	st.Build(buildTypeScopeFile(), "cfg_t.sv")
	st.Build(buildTypeUserFile(), "user.sv")
	st.ResolveLocallyOnly()
	st.Resolve()

	cfg, ok := st.Root.Child("cfg")
	require.True(t, ok)
	require.NotEqual(t, symtab.NoComponent, cfg.DeclaredType.UserDefinedType)

	typeComp := st.Component(cfg.DeclaredType.UserDefinedType)
	require.NotNil(t, typeComp)
	require.NotNil(t, typeComp.ResolvedSymbol, "cfg_t must resolve to the module declaring it")
	assert.Equal(t, "cfg_t", typeComp.ResolvedSymbol.Identifier)

	_, ok = st.Root.Child("x")
	require.True(t, ok)
	require.Len(t, st.Root.LocalReferencesToBind, 2, "one entry for the cfg_t type reference, one for the cfg.val chain")
	chain := st.Root.LocalReferencesToBind[1]
	chainRoot := st.Component(chain.Root)
	require.NotNil(t, chainRoot)
	assert.Equal(t, "cfg", chainRoot.Identifier)
	require.Len(t, chainRoot.Children, 1)
	val := st.Component(chainRoot.Children[0])
	require.NotNil(t, val)
	require.NotNil(t, val.ResolvedSymbol, "val must resolve through cfg's declared type cfg_t, not cfg's own (empty) scope")
	assert.Equal(t, "cfg_t.sv", val.ResolvedSymbol.FileOrigin)
}

func TestCreateAnonymousScope(t *testing.T) {
	st := symtab.New(nil)
	name1 := st.Root.CreateAnonymousScope("generate")
	st.Root.AddChild(&symtab.SymbolTableNode{Identifier: name1, Metatype: symtab.Generate})
	name2 := st.Root.CreateAnonymousScope("generate")
	assert.NotEqual(t, name1, name2)
}
