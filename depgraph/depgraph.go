// Package depgraph implements the file dependency graph: derived once
// from a built (not necessarily resolved-everywhere) SymbolTable,
// after which every field is immutable.
//
// `file_deps[a][b]` is backed by
// `github.com/emirpasic/gods/sets/treeset` rather than a bare
// `map[string]struct{}`, the same determinism-over-iteration-order
// idiom `lint`'s violation OrderedSet and `obfuscate`'s pinned-name set use,
// grounded in `foursquare-scala-gazelle`'s gods usage.
package depgraph

import (
	"fmt"
	"io"
	"sort"

	"github.com/emirpasic/gods/sets/treeset"

	"github.com/svlang/svkit/symtab"
)

// Graph is the file dependency graph: file_deps[a][b] holds the set
// of symbol names defined in file b and referenced from file a's root
// scope.
type Graph struct {
	fileDeps map[string]map[string]*treeset.Set
}

// Build derives a Graph from t. Only references attached directly to
// t.Root's scope are considered; references nested inside a
// module/package/etc. scope do not contribute an edge, keeping this a
// file-level (not declaration-level) dependency model.
func Build(t *symtab.SymbolTable) *Graph {
	g := &Graph{fileDeps: map[string]map[string]*treeset.Set{}}
	for _, ref := range t.Root.LocalReferencesToBind {
		root := t.Component(ref.Root)
		if root == nil || root.ResolvedSymbol == nil {
			continue
		}
		a, b := ref.FileOrigin, root.ResolvedSymbol.FileOrigin
		if a == "" || b == "" || a == b {
			continue
		}
		g.addEdge(a, b, root.Identifier)
	}
	return g
}

func (g *Graph) addEdge(a, b, name string) {
	perFile, ok := g.fileDeps[a]
	if !ok {
		perFile = map[string]*treeset.Set{}
		g.fileDeps[a] = perFile
	}
	set, ok := perFile[b]
	if !ok {
		set = treeset.NewWithStringComparator()
		perFile[b] = set
	}
	set.Add(name)
}

// DependsOn returns the symbol names file a references that are
// defined in file b, in deterministic sorted order.
func (g *Graph) DependsOn(a, b string) []string {
	perFile, ok := g.fileDeps[a]
	if !ok {
		return nil
	}
	set, ok := perFile[b]
	if !ok {
		return nil
	}
	return stringValues(set)
}

// Dependencies returns, for referencing file a, every file it depends
// on (sorted).
func (g *Graph) Dependencies(a string) []string {
	perFile, ok := g.fileDeps[a]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(perFile))
	for b := range perFile {
		out = append(out, b)
	}
	sort.Strings(out)
	return out
}

// TraverseDependencyEdges visits every (a, b, name) edge in
// deterministic order: a ascending, then b ascending, then name
// ascending within the pair.
func (g *Graph) TraverseDependencyEdges(visit func(a, b, name string)) {
	referencers := make([]string, 0, len(g.fileDeps))
	for a := range g.fileDeps {
		referencers = append(referencers, a)
	}
	sort.Strings(referencers)
	for _, a := range referencers {
		for _, b := range g.Dependencies(a) {
			for _, name := range g.DependsOn(a, b) {
				visit(a, b, name)
			}
		}
	}
}

// Dump writes a text rendering of every edge, one per line.
func (g *Graph) Dump(w io.Writer) {
	g.TraverseDependencyEdges(func(a, b, name string) {
		fmt.Fprintf(w, "%s -> %s: %s\n", a, b, name)
	})
}

func stringValues(set *treeset.Set) []string {
	vals := set.Values()
	out := make([]string, len(vals))
	for i, v := range vals {
		out[i] = v.(string)
	}
	return out
}
