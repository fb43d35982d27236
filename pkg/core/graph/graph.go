package graph

import (
	"errors"
	"slices"
)

var (
	// ErrInvalidNodeID is returned by [New] when a node has an empty ID.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [New] when two nodes share an ID.
	ErrDuplicateNodeID = errors.New("duplicate node ID")
)

// Node is a product in the co-purchase graph.
//
// ID is the identity (typically an ASIN). Title and Thumbnail are carried
// through to consumers unchanged; Thumbnail may be empty.
type Node struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Thumbnail string `json:"thumbnailUrl,omitempty"`
}

// Link is a directed "frequently bought with" edge between two node IDs.
// Either endpoint may reference an ID that is not in the graph; such links
// are kept but cannot be traversed through the missing side.
type Link struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// Graph is an immutable, indexed view of nodes and links.
//
// Nodes and links keep their input order, which is observable through
// [Graph.Nodes], [Graph.Links], [Graph.OutLinks] and search scan order.
// Source and target indices are built once by [New] so that neighbor
// lookups are O(degree) instead of a scan over every link.
//
// The zero value is an empty graph. A Graph is safe for concurrent reads.
type Graph struct {
	nodes    []Node
	links    []Link
	byID     map[string]int
	outgoing map[string][]int // source ID -> link positions
	incoming map[string][]int // target ID -> link positions
}

// New builds a Graph from nodes and links, copying both slices.
// Returns ErrInvalidNodeID if a node ID is empty, or ErrDuplicateNodeID if
// two nodes share an ID. Links are never rejected: dangling endpoints are
// legal and handled by each traversal.
func New(nodes []Node, links []Link) (*Graph, error) {
	g := &Graph{
		nodes:    slices.Clone(nodes),
		links:    slices.Clone(links),
		byID:     make(map[string]int, len(nodes)),
		outgoing: make(map[string][]int),
		incoming: make(map[string][]int),
	}
	for i, n := range g.nodes {
		if n.ID == "" {
			return nil, ErrInvalidNodeID
		}
		if _, exists := g.byID[n.ID]; exists {
			return nil, ErrDuplicateNodeID
		}
		g.byID[n.ID] = i
	}
	for i, l := range g.links {
		g.outgoing[l.Source] = append(g.outgoing[l.Source], i)
		g.incoming[l.Target] = append(g.incoming[l.Target], i)
	}
	return g, nil
}

// Node returns the node with the given ID and true, or a zero Node and false.
func (g *Graph) Node(id string) (Node, bool) {
	i, ok := g.byID[id]
	if !ok {
		return Node{}, false
	}
	return g.nodes[i], true
}

// Has reports whether a node with the given ID exists.
func (g *Graph) Has(id string) bool {
	_, ok := g.byID[id]
	return ok
}

// Index returns the position of the node in input order, or -1.
func (g *Graph) Index(id string) int {
	if i, ok := g.byID[id]; ok {
		return i
	}
	return -1
}

// Nodes returns a copy of all nodes in input order.
func (g *Graph) Nodes() []Node { return slices.Clone(g.nodes) }

// Links returns a copy of all links in input order.
func (g *Graph) Links() []Link { return slices.Clone(g.links) }

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// LinkCount returns the number of links, dangling ones included.
func (g *Graph) LinkCount() int { return len(g.links) }

// OutLinks returns the links whose Source is id, in input order.
// Returns nil if there are none. The ID does not need to be a node.
func (g *Graph) OutLinks(id string) []Link { return g.collect(g.outgoing[id]) }

// InLinks returns the links whose Target is id, in input order.
// Returns nil if there are none. The ID does not need to be a node.
func (g *Graph) InLinks(id string) []Link { return g.collect(g.incoming[id]) }

// Successors returns the Target of every outgoing link of id, in link order.
// Duplicates and dangling targets are included.
func (g *Graph) Successors(id string) []string {
	pos := g.outgoing[id]
	if len(pos) == 0 {
		return nil
	}
	out := make([]string, len(pos))
	for i, p := range pos {
		out[i] = g.links[p].Target
	}
	return out
}

// Predecessors returns the Source of every incoming link of id, in link order.
// Duplicates and dangling sources are included.
func (g *Graph) Predecessors(id string) []string {
	pos := g.incoming[id]
	if len(pos) == 0 {
		return nil
	}
	out := make([]string, len(pos))
	for i, p := range pos {
		out[i] = g.links[p].Source
	}
	return out
}

func (g *Graph) collect(pos []int) []Link {
	if len(pos) == 0 {
		return nil
	}
	out := make([]Link, len(pos))
	for i, p := range pos {
		out[i] = g.links[p]
	}
	return out
}
