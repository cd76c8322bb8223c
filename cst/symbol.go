// Package cst implements the concrete syntax tree data model shared
// by the lint engine, formatter, and symbol table: a polymorphic
// Node/Leaf symbol, ancestor-path and context visitors, and
// structural search helpers. Built as an arbitrary-depth polymorphic
// tree with ordered children, rather than a fixed struct shape per
// production.
package cst

import "github.com/svlang/svkit/token"

// NodeTag identifies the grammar production a Node instance stands
// for. The concrete set of tags is a grammar concern (out of scope);
// svkit declares only the tags its own rules and tests reference.
type NodeTag int

const (
	TagUnspecified NodeTag = iota
	TagSourceFile
	TagModuleDeclaration
	TagModuleHeader
	TagModuleItemList
	TagPackageDeclaration
	TagClassDeclaration
	TagDataDeclaration
	TagPackedDimensions
	TagUnpackedDimensions
	TagParamDeclaration
	TagNetVariableAssignment
	TagExpression
	TagReference
	TagReferenceCallBase
	TagLocalRoot
	TagQualifiedId
	TagHierarchyExtension
	TagFunctionDeclaration
	TagTaskDeclaration
	TagGenerateBlock
	TagGenerateIfClause
	TagPortActualList
	TagActualNamedPort
	TagIdentifierList
	TagStatement
)

var tagNames = map[NodeTag]string{
	TagUnspecified:           "kUnspecified",
	TagSourceFile:            "kSourceFile",
	TagModuleDeclaration:     "kModuleDeclaration",
	TagModuleHeader:          "kModuleHeader",
	TagModuleItemList:        "kModuleItemList",
	TagPackageDeclaration:    "kPackageDeclaration",
	TagClassDeclaration:      "kClassDeclaration",
	TagDataDeclaration:       "kDataDeclaration",
	TagPackedDimensions:      "kPackedDimensions",
	TagUnpackedDimensions:    "kUnpackedDimensions",
	TagParamDeclaration:      "kParamDeclaration",
	TagNetVariableAssignment: "kNetVariableAssignment",
	TagExpression:            "kExpression",
	TagReference:             "kReference",
	TagReferenceCallBase:     "kReferenceCallBase",
	TagLocalRoot:             "kLocalRoot",
	TagQualifiedId:           "kQualifiedId",
	TagHierarchyExtension:    "kHierarchyExtension",
	TagFunctionDeclaration:   "kFunctionDeclaration",
	TagTaskDeclaration:       "kTaskDeclaration",
	TagGenerateBlock:         "kGenerateBlock",
	TagGenerateIfClause:      "kGenerateIfClause",
	TagPortActualList:        "kPortActualList",
	TagActualNamedPort:       "kActualNamedPort",
	TagIdentifierList:        "kIdentifierList",
	TagStatement:             "kStatement",
}

func (t NodeTag) String() string {
	if name, ok := tagNames[t]; ok {
		return name
	}
	return "kUnknownTag"
}

// Symbol is the polymorphic CST value: exactly one of Node or Leaf is
// non-nil. A nil *Symbol stands for an absent optional child slot
// (error-recovery shapes, elided grammar positions) — it is a valid
// value to carry in a Node's Children, distinct from Symbol itself
// being nil only at the very root's parent (which does not exist).
type Symbol struct {
	node *Node
	leaf *Leaf
}

// Node wraps a Symbol around a Node value.
func NodeSymbol(n *Node) *Symbol { return &Symbol{node: n} }

// LeafSymbol wraps a Symbol around a Leaf value.
func LeafSymbol(l *Leaf) *Symbol { return &Symbol{leaf: l} }

// IsNode reports whether s holds a Node.
func (s *Symbol) IsNode() bool { return s != nil && s.node != nil }

// IsLeaf reports whether s holds a Leaf.
func (s *Symbol) IsLeaf() bool { return s != nil && s.leaf != nil }

// AsNode returns the underlying Node, or nil if s is not a Node (this
// never panics, unlike the C++ original's tagged-union cast, so
// error-recovery trees can be probed tolerantly — see GetSubtreeAsNode).
func (s *Symbol) AsNode() *Node {
	if s == nil {
		return nil
	}
	return s.node
}

// AsLeaf returns the underlying Leaf, or nil if s is not a Leaf.
func (s *Symbol) AsLeaf() *Leaf {
	if s == nil {
		return nil
	}
	return s.leaf
}

// Node is a CST interior node: a tagged, ordered list of children.
// Children order is significant and nil entries preserve positional
// slots so a child's index is stable across productions.
type Node struct {
	Tag      NodeTag
	Children []*Symbol
}

// NewNode constructs a Node from its tag and children.
func NewNode(tag NodeTag, children ...*Symbol) *Node {
	return &Node{Tag: tag, Children: children}
}

// Child returns the i'th child, or nil if out of range or the slot is
// empty. Never panics.
func (n *Node) Child(i int) *Symbol {
	if n == nil || i < 0 || i >= len(n.Children) {
		return nil
	}
	return n.Children[i]
}

// Leaf is a CST terminal node: a single token.
type Leaf struct {
	Token token.Token
}

// NewLeaf constructs a Leaf around tok.
func NewLeaf(tok token.Token) *Leaf {
	return &Leaf{Token: tok}
}

// GetLeftmostLeaf returns the first Leaf encountered by a pre-order,
// left-to-right walk of s, or nil if s contains no leaves (an empty
// subtree made entirely of nil child slots).
func GetLeftmostLeaf(s *Symbol) *Leaf {
	if s == nil {
		return nil
	}
	if s.IsLeaf() {
		return s.AsLeaf()
	}
	n := s.AsNode()
	if n == nil {
		return nil
	}
	for _, c := range n.Children {
		if l := GetLeftmostLeaf(c); l != nil {
			return l
		}
	}
	return nil
}

// GetRightmostLeaf returns the last Leaf encountered by a pre-order,
// left-to-right walk of s (i.e. the first leaf found scanning
// children right-to-left), or nil if s contains no leaves.
func GetRightmostLeaf(s *Symbol) *Leaf {
	if s == nil {
		return nil
	}
	if s.IsLeaf() {
		return s.AsLeaf()
	}
	n := s.AsNode()
	if n == nil {
		return nil
	}
	for i := len(n.Children) - 1; i >= 0; i-- {
		if l := GetRightmostLeaf(n.Children[i]); l != nil {
			return l
		}
	}
	return nil
}

// SymbolCastToNode returns (node, true) if s holds a Node, else
// (nil, false). Tolerant, never panics.
func SymbolCastToNode(s *Symbol) (*Node, bool) {
	if s == nil || s.node == nil {
		return nil, false
	}
	return s.node, true
}

// SymbolCastToLeaf returns (leaf, true) if s holds a Leaf, else
// (nil, false).
func SymbolCastToLeaf(s *Symbol) (*Leaf, bool) {
	if s == nil || s.leaf == nil {
		return nil, false
	}
	return s.leaf, true
}

// GetSubtreeAsNode fetches n.Child(childIndex), asserting it is a Node
// with tag expectedChildTag (when non-zero-value-checked by caller via
// ok). Returns (nil, false) for an absent slot, a Leaf slot, or a tag
// mismatch rather than panicking — callers that must treat a mismatch
// as a programmer error should check the second return explicitly. The
// expectedParentTag is checked as a sanity assertion on n itself.
func GetSubtreeAsNode(parent *Symbol, expectedParentTag NodeTag, childIndex int, expectedChildTag NodeTag) (*Node, bool) {
	n, ok := SymbolCastToNode(parent)
	if !ok || n.Tag != expectedParentTag {
		return nil, false
	}
	child := n.Child(childIndex)
	childNode, ok := SymbolCastToNode(child)
	if !ok {
		return nil, false
	}
	if expectedChildTag != TagUnspecified && childNode.Tag != expectedChildTag {
		return nil, false
	}
	return childNode, true
}

// GetSubtreeAsLeaf fetches n.Child(childIndex), asserting it is a Leaf.
func GetSubtreeAsLeaf(parent *Symbol, expectedParentTag NodeTag, childIndex int) (*Leaf, bool) {
	n, ok := SymbolCastToNode(parent)
	if !ok || n.Tag != expectedParentTag {
		return nil, false
	}
	child := n.Child(childIndex)
	return SymbolCastToLeaf(child)
}
