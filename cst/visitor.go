package cst

// SymbolVisitor is the base traversal contract: implementations
// dispatch on whichever of VisitNode/VisitLeaf the symbol holds.
// Visitors never mutate the tree they walk.
type SymbolVisitor interface {
	VisitNode(n *Node)
	VisitLeaf(l *Leaf)
}

// Walk performs a pre-order traversal of s, invoking v on every Node
// and Leaf encountered (leaves are visited; nil child slots are
// skipped but still counted by WalkWithPath below).
func Walk(s *Symbol, v SymbolVisitor) {
	if s == nil {
		return
	}
	if s.IsLeaf() {
		v.VisitLeaf(s.AsLeaf())
		return
	}
	n := s.AsNode()
	if n == nil {
		return
	}
	v.VisitNode(n)
	for _, c := range n.Children {
		Walk(c, v)
	}
}

// SyntaxTreeContext is a stack of ancestor Nodes maintained while
// recursing. Lint rules query it to ask "is the current leaf/node
// inside a module declaration" etc., without the Symbol itself
// needing an upward back-pointer field.
type SyntaxTreeContext struct {
	stack []*Node
}

// Push appends n to the ancestor stack. Paired with Pop; prefer
// WithNode for automatic release.
func (c *SyntaxTreeContext) Push(n *Node) { c.stack = append(c.stack, n) }

// Pop removes the most recently pushed ancestor.
func (c *SyntaxTreeContext) Pop() {
	if len(c.stack) == 0 {
		return
	}
	c.stack = c.stack[:len(c.stack)-1]
}

// WithNode pushes n, runs fn, and guarantees Pop runs afterward even
// if fn panics, a defer-based stand-in for an RAII scope guard.
func (c *SyntaxTreeContext) WithNode(n *Node, fn func()) {
	c.Push(n)
	defer c.Pop()
	fn()
}

// IsInside reports whether any ancestor on the stack carries tag.
func (c *SyntaxTreeContext) IsInside(tag NodeTag) bool {
	for _, n := range c.stack {
		if n.Tag == tag {
			return true
		}
	}
	return false
}

// DirectParentIs reports whether the nearest ancestor carries tag.
func (c *SyntaxTreeContext) DirectParentIs(tag NodeTag) bool {
	if len(c.stack) == 0 {
		return false
	}
	return c.stack[len(c.stack)-1].Tag == tag
}

// Nearest returns the nearest ancestor, or nil at the root.
func (c *SyntaxTreeContext) Nearest() *Node {
	if len(c.stack) == 0 {
		return nil
	}
	return c.stack[len(c.stack)-1]
}

// Ancestors returns the ancestor stack, root-first. The returned
// slice is owned by the context and must not be retained across
// further Push/Pop calls.
func (c *SyntaxTreeContext) Ancestors() []*Node { return c.stack }

// ContextVisitFunc is invoked once per Node/Leaf encountered during a
// WalkWithContext traversal, alongside the context active at that
// point.
type ContextVisitFunc struct {
	Node func(n *Node, ctx *SyntaxTreeContext)
	Leaf func(l *Leaf, ctx *SyntaxTreeContext)
}

// WalkWithContext performs a pre-order traversal of s, maintaining a
// SyntaxTreeContext of ancestor Nodes and invoking fn.Node / fn.Leaf
// at each step.
func WalkWithContext(s *Symbol, fn ContextVisitFunc) {
	ctx := &SyntaxTreeContext{}
	walkWithContext(s, fn, ctx)
}

func walkWithContext(s *Symbol, fn ContextVisitFunc, ctx *SyntaxTreeContext) {
	if s == nil {
		return
	}
	if s.IsLeaf() {
		if fn.Leaf != nil {
			fn.Leaf(s.AsLeaf(), ctx)
		}
		return
	}
	n := s.AsNode()
	if n == nil {
		return
	}
	if fn.Node != nil {
		fn.Node(n, ctx)
	}
	ctx.WithNode(n, func() {
		for _, c := range n.Children {
			walkWithContext(c, fn, ctx)
		}
	})
}

// Path is an ancestor index path [i0, i1, ...] from the tree root
// down to a particular Symbol, as materialised by WalkWithPath.
// Paths compare lexicographically (see ComparePath).
type Path []int

// ComparePath lexicographically compares two paths, returning -1, 0,
// or 1 the way bytes.Compare does for byte slices.
func ComparePath(a, b Path) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	default:
		return 0
	}
}

// PathVisitFunc is invoked once per Node/Leaf during a WalkWithPath
// traversal, alongside its materialised Path.
type PathVisitFunc struct {
	Node func(n *Node, path Path)
	Leaf func(l *Leaf, path Path)
}

// WalkWithPath performs a pre-order traversal of s, accumulating a
// Path. Every child slot consumes a path position whether or not it
// is nil, so the path tracks positional index exactly even across
// error-recovery trees with absent children.
func WalkWithPath(s *Symbol, fn PathVisitFunc) {
	walkWithPath(s, fn, nil)
}

func walkWithPath(s *Symbol, fn PathVisitFunc, path Path) {
	if s == nil {
		return
	}
	if s.IsLeaf() {
		if fn.Leaf != nil {
			fn.Leaf(s.AsLeaf(), path)
		}
		return
	}
	n := s.AsNode()
	if n == nil {
		return
	}
	if fn.Node != nil {
		fn.Node(n, path)
	}
	for i, c := range n.Children {
		childPath := make(Path, len(path)+1)
		copy(childPath, path)
		childPath[len(path)] = i
		walkWithPath(c, fn, childPath)
	}
}

// DescendPath navigates from root down through the given index path,
// returning the Symbol found there, or nil if the path runs off the
// tree (out-of-range index, or descends into a Leaf). Property P1
// requires DescendPath(T, PathOf(L)) == L for every leaf L of T.
func DescendPath(root *Symbol, path Path) *Symbol {
	cur := root
	for _, idx := range path {
		if cur == nil || !cur.IsNode() {
			return nil
		}
		cur = cur.AsNode().Child(idx)
	}
	return cur
}

// PathOf returns the Path at which target is found within root (by
// pointer identity, comparing the underlying Node/Leaf), or nil with
// ok=false if target is not reachable from root.
func PathOf(root *Symbol, target *Symbol) (Path, bool) {
	var found Path
	var ok bool
	var walk func(s *Symbol, path Path)
	walk = func(s *Symbol, path Path) {
		if ok || s == nil {
			return
		}
		if sameSymbol(s, target) {
			found = append(Path{}, path...)
			ok = true
			return
		}
		n := s.AsNode()
		if n == nil {
			return
		}
		for i, c := range n.Children {
			walk(c, append(path, i))
			if ok {
				return
			}
		}
	}
	walk(root, nil)
	return found, ok
}

func sameSymbol(a, b *Symbol) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.IsLeaf() && b.IsLeaf() {
		return a.AsLeaf() == b.AsLeaf()
	}
	if a.IsNode() && b.IsNode() {
		return a.AsNode() == b.AsNode()
	}
	return false
}
