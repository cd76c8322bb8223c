package symtab

import (
	"fmt"
	"io"
	"strings"

	"github.com/svlang/svkit/cst"
	"github.com/svlang/svkit/diag"
	"github.com/svlang/svkit/project"
	"github.com/svlang/svkit/token"
)

// SymbolTable is a project-scoped hierarchical symbol table: one Root
// scope, grown across possibly many files' Build calls, plus the
// arena backing every DependentReferences tree's ReferenceComponents.
//
// A SymbolTable holds a *project.VerilogProject, and construction of
// the table must precede destruction of the
// project — svkit's Project field just documents that ordering
// requirement; Build itself is fed an already-opened *cst.Symbol so
// the table does not need to reach back into the project to read
// files it hasn't been handed.
type SymbolTable struct {
	Root    *SymbolTableNode
	Project *project.VerilogProject

	arena []ReferenceComponent
}

// New constructs an empty SymbolTable rooted at a synthetic $root
// scope. proj may be nil for tests that build directly from
// hand-constructed CST trees.
func New(proj *project.VerilogProject) *SymbolTable {
	return &SymbolTable{
		Root:    newNode("$root", Root, "", token.Token{}, nil),
		Project: proj,
	}
}

// Build walks tree (a file's parsed CST, typically TagSourceFile) and
// inserts its declarations and reference chains into the table,
// tagging every node and reference it creates with fileOrigin. Build
// may be called once per file, in any order; duplicate top-level
// symbols across files are reported as semantic diagnostics, first
// declaration wins.
func (t *SymbolTable) Build(tree *cst.Symbol, fileOrigin string) *diag.Bag {
	bag := &diag.Bag{}
	t.buildNode(t.Root, tree, fileOrigin, bag)
	return bag
}

func (t *SymbolTable) buildNode(scope *SymbolTableNode, sym *cst.Symbol, fileOrigin string, bag *diag.Bag) {
	n, ok := cst.SymbolCastToNode(sym)
	if !ok {
		return
	}
	switch n.Tag {
	case cst.TagSourceFile, cst.TagModuleItemList:
		for _, c := range n.Children {
			t.buildNode(scope, c, fileOrigin, bag)
		}

	case cst.TagModuleDeclaration:
		t.declareScope(scope, n, Module, 1, 2, fileOrigin, bag)

	case cst.TagPackageDeclaration:
		t.declareScope(scope, n, Package, 1, 2, fileOrigin, bag)

	case cst.TagClassDeclaration:
		t.declareScope(scope, n, Class, 1, 2, fileOrigin, bag)

	case cst.TagFunctionDeclaration:
		t.declareScope(scope, n, Function, 1, 2, fileOrigin, bag)

	case cst.TagTaskDeclaration:
		t.declareScope(scope, n, Task, 1, 2, fileOrigin, bag)

	case cst.TagGenerateBlock:
		name := ""
		origin := token.Token{}
		if leaf, ok := cst.SymbolCastToLeaf(n.Child(0)); ok {
			name, origin = leaf.Token.Text, leaf.Token
		} else {
			name = scope.CreateAnonymousScope("generate")
		}
		child := newNode(name, Generate, fileOrigin, origin, scope)
		if !scope.AddChild(child) {
			bag.Addf(diag.Error, diag.StageSemantic, fileOrigin, "duplicate symbol %q", name)
			return
		}
		t.buildNode(child, n.Child(1), fileOrigin, bag)

	case cst.TagParamDeclaration:
		nameLeaf, ok := cst.GetSubtreeAsLeaf(sym, cst.TagParamDeclaration, 2)
		if !ok {
			return
		}
		child := newNode(nameLeaf.Token.Text, Parameter, fileOrigin, nameLeaf.Token, scope)
		if typeLeaf, ok := cst.GetSubtreeAsLeaf(sym, cst.TagParamDeclaration, 1); ok && typeLeaf.Token.TokenKind().IsIdentifierKind() {
			idx := t.newComponent(Unqualified, typeLeaf.Token.Text, Unspecified)
			child.DeclaredType.UserDefinedType = idx
			scope.LocalReferencesToBind = append(scope.LocalReferencesToBind, DependentReferences{Root: idx, FileOrigin: fileOrigin})
		}
		if !scope.AddChild(child) {
			bag.Addf(diag.Error, diag.StageSemantic, fileOrigin, "duplicate symbol %q", nameLeaf.Token.Text)
			return
		}
		if expr := n.Child(3); expr != nil {
			t.collectReference(scope, expr, fileOrigin)
		}

	case cst.TagDataDeclaration:
		nameLeaf, ok := cst.GetSubtreeAsLeaf(sym, cst.TagDataDeclaration, 1)
		if !ok {
			return
		}
		child := newNode(nameLeaf.Token.Text, DataNetVariableInstance, fileOrigin, nameLeaf.Token, scope)
		if typeLeaf, ok := cst.GetSubtreeAsLeaf(sym, cst.TagDataDeclaration, 0); ok && typeLeaf.Token.TokenKind().IsIdentifierKind() {
			// The type leaf names a user-defined type (a builtin type
			// keyword like wire/reg/logic never lexes as an identifier
			// kind), so it is itself a reference that must resolve
			// before MemberOfTypeOfParent lookups through this variable
			// can follow it into the type's scope.
			idx := t.newComponent(Unqualified, typeLeaf.Token.Text, Unspecified)
			child.DeclaredType.UserDefinedType = idx
			scope.LocalReferencesToBind = append(scope.LocalReferencesToBind, DependentReferences{Root: idx, FileOrigin: fileOrigin})
		}
		if !scope.AddChild(child) {
			bag.Addf(diag.Error, diag.StageSemantic, fileOrigin, "duplicate symbol %q", nameLeaf.Token.Text)
		}

	case cst.TagExpression, cst.TagReference:
		t.collectReference(scope, sym, fileOrigin)
	}
}

// declareScope handles the common shape {kw, nameLeaf, body} shared by
// module/package/class/function/task declarations: declare a child
// scope of the given metatype and recurse Build into its body.
func (t *SymbolTable) declareScope(scope *SymbolTableNode, n *cst.Node, metatype Metatype, nameIdx, bodyIdx int, fileOrigin string, bag *diag.Bag) {
	nameLeaf, ok := cst.SymbolCastToLeaf(n.Child(nameIdx))
	if !ok {
		return
	}
	child := newNode(nameLeaf.Token.Text, metatype, fileOrigin, nameLeaf.Token, scope)
	if !scope.AddChild(child) {
		bag.Addf(diag.Error, diag.StageSemantic, fileOrigin, "duplicate symbol %q", nameLeaf.Token.Text)
		return
	}
	t.buildNode(child, n.Child(bodyIdx), fileOrigin, bag)
}

// collectReference recognises a TagExpression wrapping a TagReference
// (unwrapping until it finds one) and appends the reference tree it
// builds to scope's LocalReferencesToBind.
func (t *SymbolTable) collectReference(scope *SymbolTableNode, sym *cst.Symbol, fileOrigin string) {
	n, ok := cst.SymbolCastToNode(sym)
	if !ok {
		return
	}
	switch n.Tag {
	case cst.TagExpression:
		t.collectReference(scope, n.Child(0), fileOrigin)
	case cst.TagReference:
		idx := t.buildReferenceTree(n.Child(0))
		if idx != NoComponent {
			scope.LocalReferencesToBind = append(scope.LocalReferencesToBind, DependentReferences{Root: idx, FileOrigin: fileOrigin})
		}
	}
}

// buildReferenceTree converts a reference's inner syntax (a bare
// identifier leaf, a kQualifiedId chain `a::b::c`, or a
// kHierarchyExtension chain `a.b.c`) into arena components, returning
// the root's index.
func (t *SymbolTable) buildReferenceTree(sym *cst.Symbol) ComponentIndex {
	if leaf, ok := cst.SymbolCastToLeaf(sym); ok {
		return t.newComponent(Unqualified, leaf.Token.Text, Unspecified)
	}
	n, ok := cst.SymbolCastToNode(sym)
	if !ok {
		return NoComponent
	}
	switch n.Tag {
	case cst.TagQualifiedId:
		return t.buildChainTree(n, DirectMember)
	case cst.TagHierarchyExtension:
		return t.buildChainTree(n, MemberOfTypeOfParent)
	default:
		return NoComponent
	}
}

// buildChainTree walks a.Children in stride 2 (identifier, separator,
// identifier, separator, ...), the root at index 0 being Unqualified
// and every subsequent identifier a descendantKind child of the one
// before it.
func (t *SymbolTable) buildChainTree(n *cst.Node, descendantKind RefKind) ComponentIndex {
	root := NoComponent
	prev := NoComponent
	for i := 0; i < len(n.Children); i += 2 {
		leaf, ok := cst.SymbolCastToLeaf(n.Children[i])
		if !ok {
			continue
		}
		var idx ComponentIndex
		if i == 0 {
			idx = t.newComponent(Unqualified, leaf.Token.Text, Unspecified)
			root = idx
		} else {
			idx = t.newComponent(descendantKind, leaf.Token.Text, Unspecified)
			t.addChild(prev, idx)
		}
		prev = idx
	}
	return root
}

// walk visits every SymbolTableNode in the table in pre-order.
func (t *SymbolTable) walk(fn func(*SymbolTableNode)) {
	var rec func(n *SymbolTableNode)
	rec = func(n *SymbolTableNode) {
		fn(n)
		for _, c := range n.ChildValues() {
			rec(c)
		}
	}
	rec(t.Root)
}

// ResolveLocallyOnly is Pass B: for every still-unresolved reference
// tree, attempt to resolve its base component against only the scope
// that owns it — no upward search. Silent on failure, since this
// pass is a pruning optimisation rather than the final word on
// whether a reference resolves.
func (t *SymbolTable) ResolveLocallyOnly() {
	t.walk(func(scope *SymbolTableNode) {
		for i := range scope.LocalReferencesToBind {
			root := t.Component(scope.LocalReferencesToBind[i].Root)
			if root == nil || root.ResolvedSymbol != nil {
				continue
			}
			if t.resolveBase(root, scope, false) {
				t.resolveDescendants(root)
			}
		}
	})
}

// Resolve is Pass C: for every still-unresolved base component, search
// upward from its owning scope to Root. Failed resolutions and
// metatype mismatches are reported as diagnostics but leave
// ResolvedSymbol nil.
func (t *SymbolTable) Resolve() *diag.Bag {
	bag := &diag.Bag{}
	t.walk(func(scope *SymbolTableNode) {
		for i := range scope.LocalReferencesToBind {
			ref := scope.LocalReferencesToBind[i]
			root := t.Component(ref.Root)
			if root == nil {
				continue
			}
			if root.ResolvedSymbol == nil {
				if t.resolveBase(root, scope, true) {
					t.resolveDescendants(root)
				} else {
					bag.Addf(diag.Warning, diag.StageSemantic, ref.FileOrigin,
						"unresolved reference %q", root.Identifier)
				}
			}
		}
	})
	return bag
}

// resolveBase tries to bind comp against scope's own children, and
// (when allowUpward and comp is not an Immediate base) against each
// ancestor scope in turn up to Root, per the "search order for an
// Unqualified base" rule.
func (t *SymbolTable) resolveBase(comp *ReferenceComponent, scope *SymbolTableNode, allowUpward bool) bool {
	if comp.ResolvedSymbol != nil {
		return true
	}
	for s := scope; s != nil; s = s.Parent {
		if candidate, ok := s.Child(comp.Identifier); ok && candidate.Metatype.Matches(comp.RequiredMetatype) {
			comp.ResolvedSymbol = candidate
			return true
		}
		if !allowUpward || comp.Kind == Immediate {
			break
		}
	}
	return false
}

// resolveDescendants binds comp's children (DirectMember into the
// resolved symbol's own scope; MemberOfTypeOfParent into the scope of
// its declared-type's user-defined-type) once comp itself is resolved.
func (t *SymbolTable) resolveDescendants(comp *ReferenceComponent) {
	if comp.ResolvedSymbol == nil {
		return
	}
	target := comp.ResolvedSymbol
	for _, idx := range comp.Children {
		child := t.Component(idx)
		if child == nil {
			continue
		}
		searchScope := target
		if child.Kind == MemberOfTypeOfParent && target.DeclaredType.UserDefinedType != NoComponent {
			if typeComp := t.Component(target.DeclaredType.UserDefinedType); typeComp != nil && typeComp.ResolvedSymbol != nil {
				searchScope = typeComp.ResolvedSymbol
			}
		}
		if found, ok := searchScope.Child(child.Identifier); ok && found.Metatype.Matches(child.RequiredMetatype) {
			child.ResolvedSymbol = found
		}
		t.resolveDescendants(child)
	}
}

// PrintSymbolDefinitions dumps the symbol tree with indentation,
// metatype, and file origin.
func (t *SymbolTable) PrintSymbolDefinitions(w io.Writer) {
	var rec func(n *SymbolTableNode, depth int)
	rec = func(n *SymbolTableNode, depth int) {
		if n.Parent != nil { // skip printing the synthetic $root line itself
			fmt.Fprintf(w, "%s%s (%s) [%s]\n", strings.Repeat("  ", depth-1), n.Identifier, n.Metatype, n.FileOrigin)
		}
		nextDepth := depth
		if n.Parent != nil {
			nextDepth = depth + 1
		}
		for _, c := range n.ChildValues() {
			rec(c, nextDepth)
		}
	}
	rec(t.Root, 1)
}

// PrintSymbolReferences dumps every reference chain in the table and
// whether it resolved.
func (t *SymbolTable) PrintSymbolReferences(w io.Writer) {
	t.walk(func(scope *SymbolTableNode) {
		for _, ref := range scope.LocalReferencesToBind {
			root := t.Component(ref.Root)
			if root == nil {
				continue
			}
			t.printChain(w, root, ref.FileOrigin)
		}
	})
}

func (t *SymbolTable) printChain(w io.Writer, comp *ReferenceComponent, fileOrigin string) {
	status := "unresolved"
	if comp.ResolvedSymbol != nil {
		status = "resolved -> " + comp.ResolvedSymbol.FileOrigin
	}
	fmt.Fprintf(w, "%s (%s) [%s]: %s\n", comp.Identifier, comp.Kind, fileOrigin, status)
	for _, idx := range comp.Children {
		if child := t.Component(idx); child != nil {
			t.printChain(w, child, fileOrigin)
		}
	}
}
