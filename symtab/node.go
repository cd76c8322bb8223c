package symtab

import (
	"strconv"

	"github.com/emirpasic/gods/maps/linkedhashmap"

	"github.com/svlang/svkit/token"
)

// DeclarationTypeInfo is the declared-type half of a SymbolTableNode:
// where it was written, its direction (for ports), raw type-spec
// tokens, and — for a user-defined type reference — the arena index
// of the ReferenceComponent naming it, resolved in a later pass the
// same way any other reference is.
type DeclarationTypeInfo struct {
	SyntaxOrigin       token.Token
	Direction          string
	TypeSpecifications []string
	UserDefinedType    ComponentIndex // NoComponent if not a user-defined type
	Implicit           bool
}

// SymbolTableNode is one entry of the symbol table: a declaration
// (module, package, parameter, ...) together with its own nested
// scope of children and the reference trees that must be resolved
// relative to it.
type SymbolTableNode struct {
	Identifier   string
	Metatype     Metatype
	FileOrigin   string
	SyntaxOrigin token.Token

	DeclaredType DeclarationTypeInfo
	ParentType   *DeclarationTypeInfo // single inheritance only

	LocalReferencesToBind []DependentReferences
	AnonymousScopeNames   []string

	Parent   *SymbolTableNode
	Children *linkedhashmap.Map // identifier -> *SymbolTableNode, insertion order preserved for deterministic printing
}

// newNode constructs an empty SymbolTableNode under parent.
func newNode(identifier string, metatype Metatype, fileOrigin string, origin token.Token, parent *SymbolTableNode) *SymbolTableNode {
	return &SymbolTableNode{
		Identifier:   identifier,
		Metatype:     metatype,
		FileOrigin:   fileOrigin,
		SyntaxOrigin: origin,
		DeclaredType: DeclarationTypeInfo{UserDefinedType: NoComponent},
		Parent:       parent,
		Children:     linkedhashmap.New(),
	}
}

// Child looks up an immediate child by identifier.
func (n *SymbolTableNode) Child(identifier string) (*SymbolTableNode, bool) {
	v, ok := n.Children.Get(identifier)
	if !ok {
		return nil, false
	}
	return v.(*SymbolTableNode), true
}

// AddChild inserts child into n's scope keyed by its own identifier.
// Returns false (and leaves n unchanged) if a child with the same
// identifier already exists — callers use this to detect
// kDuplicateSymbol during Build.
func (n *SymbolTableNode) AddChild(child *SymbolTableNode) bool {
	if _, exists := n.Children.Get(child.Identifier); exists {
		return false
	}
	child.Parent = n
	n.Children.Put(child.Identifier, child)
	return true
}

// ChildValues returns n's children in insertion order.
func (n *SymbolTableNode) ChildValues() []*SymbolTableNode {
	vals := n.Children.Values()
	out := make([]*SymbolTableNode, len(vals))
	for i, v := range vals {
		out[i] = v.(*SymbolTableNode)
	}
	return out
}

// CreateAnonymousScope mints a uniquified child identifier from base
// (e.g. a generate block with no label) and returns it. The name is
// stored in n.AnonymousScopeNames, since it has no backing sub-view
// of a live source buffer the way a declared identifier's token does.
func (n *SymbolTableNode) CreateAnonymousScope(base string) string {
	candidate := base
	suffix := 0
	for {
		if _, exists := n.Children.Get(candidate); !exists {
			break
		}
		suffix++
		candidate = base + "$" + strconv.Itoa(suffix)
	}
	n.AnonymousScopeNames = append(n.AnonymousScopeNames, candidate)
	return n.AnonymousScopeNames[len(n.AnonymousScopeNames)-1]
}
