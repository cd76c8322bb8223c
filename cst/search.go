package cst

import "github.com/svlang/svkit/token"

// Predicate matches a Symbol during a Search. Closed-set factory
// functions (NodekPackedDimensions, NodekUnpackedDimensions, ...)
// below construct the common tag-equality predicates; rules needing a
// bespoke shape can supply any func(*Symbol) bool.
type Predicate func(s *Symbol) bool

// Match records one subtree that satisfied a Search predicate,
// alongside the SyntaxTreeContext active at the point it was found.
type Match struct {
	Symbol  *Symbol
	Context *SyntaxTreeContext
}

// Search performs a pre-order DFS over root, recording every subtree
// (Node or Leaf) for which predicate returns true. Matching does not
// stop descent into a matched subtree — nested matches are recorded
// too, matching the source's search-syntax-tree contract.
func Search(root *Symbol, predicate Predicate) []Match {
	var matches []Match
	ctx := &SyntaxTreeContext{}
	var walk func(s *Symbol)
	walk = func(s *Symbol) {
		if s == nil {
			return
		}
		if predicate(s) {
			// Snapshot the context stack so later Pop calls cannot
			// mutate a caller-visible Match.
			snapshot := &SyntaxTreeContext{stack: append([]*Node{}, ctx.Ancestors()...)}
			matches = append(matches, Match{Symbol: s, Context: snapshot})
		}
		if s.IsLeaf() {
			return
		}
		n := s.AsNode()
		if n == nil {
			return
		}
		ctx.WithNode(n, func() {
			for _, c := range n.Children {
				walk(c)
			}
		})
	}
	walk(root)
	return matches
}

// TagPredicate returns a Predicate matching Nodes carrying tag. This
// is the generic form of the per-tag Nodek* factory functions below.
func TagPredicate(tag NodeTag) Predicate {
	return func(s *Symbol) bool {
		n, ok := SymbolCastToNode(s)
		return ok && n.Tag == tag
	}
}

// The following are closed-set factory functions, one per NodeTag,
// generated here for the tags svkit's rules and tests actually
// reference; add one per new tag consumed.

func NodekPackedDimensions() Predicate   { return TagPredicate(TagPackedDimensions) }
func NodekUnpackedDimensions() Predicate { return TagPredicate(TagUnpackedDimensions) }
func NodekModuleDeclaration() Predicate  { return TagPredicate(TagModuleDeclaration) }
func NodekClassDeclaration() Predicate   { return TagPredicate(TagClassDeclaration) }
func NodekPackageDeclaration() Predicate { return TagPredicate(TagPackageDeclaration) }
func NodekDataDeclaration() Predicate    { return TagPredicate(TagDataDeclaration) }
func NodekReference() Predicate          { return TagPredicate(TagReference) }
func NodekGenerateBlock() Predicate      { return TagPredicate(TagGenerateBlock) }
func NodekFunctionDeclaration() Predicate {
	return TagPredicate(TagFunctionDeclaration)
}
func NodekTaskDeclaration() Predicate { return TagPredicate(TagTaskDeclaration) }

// LeafTokenKindPredicate returns a Predicate matching Leaf tokens
// whose kind satisfies matches, the leaf-side analogue of TagPredicate.
func LeafTokenKindPredicate(matches func(k token.Kind) bool) Predicate {
	return func(s *Symbol) bool {
		l, ok := SymbolCastToLeaf(s)
		if !ok {
			return false
		}
		return matches(l.Token.TokenKind())
	}
}
