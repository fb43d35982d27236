// Package search finds products by case-insensitive substring match on
// their ID or title.
//
// Nodes are scanned in graph order and each node is tested on its ID
// before its title, so an ID hit on an earlier node always beats a title
// hit on a later one.
package search

import (
	"strings"

	"github.com/matzehuels/cobuy/pkg/core/graph"
)

// Index holds lower-cased copies of every node's ID and title.
// It is immutable and safe for concurrent use.
type Index struct {
	nodes  []graph.Node
	ids    []string
	titles []string
}

// New builds an index over the nodes of g.
func New(g *graph.Graph) *Index {
	nodes := g.Nodes()
	idx := &Index{
		nodes:  nodes,
		ids:    make([]string, len(nodes)),
		titles: make([]string, len(nodes)),
	}
	for i, n := range nodes {
		idx.ids[i] = strings.ToLower(n.ID)
		idx.titles[i] = strings.ToLower(n.Title)
	}
	return idx
}

// Len returns the number of indexed nodes.
func (idx *Index) Len() int { return len(idx.nodes) }

// FindFirst returns the first node whose ID or title contains query,
// ignoring case. An empty query never matches.
func (idx *Index) FindFirst(query string) (graph.Node, bool) {
	q := strings.ToLower(query)
	if q == "" {
		return graph.Node{}, false
	}
	for i := range idx.nodes {
		if idx.matches(i, q) {
			return idx.nodes[i], true
		}
	}
	return graph.Node{}, false
}

// FindAll returns matching nodes in graph order, at most limit of them.
// A non-positive limit returns every match. An empty query returns nil.
func (idx *Index) FindAll(query string, limit int) []graph.Node {
	q := strings.ToLower(query)
	if q == "" {
		return nil
	}
	var out []graph.Node
	for i := range idx.nodes {
		if !idx.matches(i, q) {
			continue
		}
		out = append(out, idx.nodes[i])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

func (idx *Index) matches(i int, q string) bool {
	return strings.Contains(idx.ids[i], q) || strings.Contains(idx.titles[i], q)
}
