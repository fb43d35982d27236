package pipeline

import (
	"github.com/matzehuels/cobuy/pkg/core/graph"
	"github.com/matzehuels/cobuy/pkg/core/hierarchy"
	"github.com/matzehuels/cobuy/pkg/core/metrics"
	"github.com/matzehuels/cobuy/pkg/core/search"
	"github.com/matzehuels/cobuy/pkg/errors"
)

// Analysis is an immutable snapshot of one loaded graph and everything
// derived from it at load time. It is safe for concurrent use.
type Analysis struct {
	Graph   *graph.Graph
	Metrics metrics.Metrics
	Stats   metrics.Stats
	Index   *search.Index

	// Hash is the content hash of the graph, used in cache keys.
	Hash string

	// MaxDepth is the tree depth used when a caller passes 0.
	MaxDepth int

	Timings   Timings
	CacheInfo CacheInfo
}

// NodeDetail is everything the detail panel shows for one product.
type NodeDetail struct {
	Node         graph.Node `json:"node"`
	Degree       int        `json:"degree"`
	Eccentricity int        `json:"eccentricity"`
	// Rank is the 1-based position by descending degree.
	Rank    int      `json:"rank"`
	Related []string `json:"related"`
}

// Node returns the node with the given ID or an [errors.ErrCodeNodeNotFound]
// error.
func (a *Analysis) Node(id string) (graph.Node, error) {
	n, ok := a.Graph.Node(id)
	if !ok {
		return graph.Node{}, errors.New(errors.ErrCodeNodeNotFound, "node %q not found", id)
	}
	return n, nil
}

// Hierarchy extracts the outgoing tree rooted at id. A depth of 0 uses
// the analysis default; other values must pass [errors.ValidateDepth].
func (a *Analysis) Hierarchy(id string, depth int) (*hierarchy.Node, error) {
	root, err := a.Node(id)
	if err != nil {
		return nil, err
	}
	depth, err = a.resolveDepth(depth)
	if err != nil {
		return nil, err
	}
	return hierarchy.Build(a.Graph, root, depth), nil
}

func (a *Analysis) resolveDepth(depth int) (int, error) {
	if depth == 0 {
		depth = a.MaxDepth
	}
	if depth == 0 {
		depth = DefaultMaxDepth
	}
	if err := errors.ValidateDepth(depth); err != nil {
		return 0, err
	}
	return depth, nil
}

// Related returns the IDs linked to id in either direction, in first-seen
// order. The node itself is never included.
func (a *Analysis) Related(id string) ([]string, error) {
	if _, err := a.Node(id); err != nil {
		return nil, err
	}
	related := a.Graph.RelatedIDs(id)
	if related == nil {
		related = []string{}
	}
	return related, nil
}

// Search returns the first node matching query. Not finding one is a
// normal outcome, reported by the boolean.
func (a *Analysis) Search(query string) (graph.Node, bool) {
	return a.Index.FindFirst(query)
}

// SearchAll returns up to limit matches; a non-positive limit means
// [DefaultSearchLimit].
func (a *Analysis) SearchAll(query string, limit int) []graph.Node {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	return a.Index.FindAll(query, limit)
}

// Detail gathers the metrics, rank and related set of one node.
func (a *Analysis) Detail(id string) (NodeDetail, error) {
	n, err := a.Node(id)
	if err != nil {
		return NodeDetail{}, err
	}
	related, _ := a.Related(id)
	rank, _ := metrics.Rank(a.Graph, a.Metrics, id)
	m := a.Metrics[id]
	return NodeDetail{
		Node:         n,
		Degree:       m.Degree,
		Eccentricity: m.Eccentricity,
		Rank:         rank,
		Related:      related,
	}, nil
}

// TopByDegree returns the n best-connected products.
func (a *Analysis) TopByDegree(n int) []metrics.Ranked {
	if n <= 0 {
		n = DefaultTopN
	}
	return metrics.TopByDegree(a.Graph, a.Metrics, n)
}
