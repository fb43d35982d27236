package hierarchy

import (
	"encoding/json"
	"slices"

	"github.com/matzehuels/cobuy/pkg/core/graph"
)

// DefaultMaxDepth is the number of tree levels shown when the caller does
// not choose one.
const DefaultMaxDepth = 3

// Node is one entry of an extracted tree. Children is never nil.
type Node struct {
	Source   graph.Node
	Children []*Node
}

// Build returns the tree rooted at root, following outgoing links of g up to
// maxDepth levels. A maxDepth below 1 is treated as 1.
//
// Children appear in link order, one per distinct target. The root does not
// need to be a node of g; its outgoing links are followed all the same.
func Build(g *graph.Graph, root graph.Node, maxDepth int) *Node {
	b := &builder{g: g, maxDepth: max(maxDepth, 1)}
	return b.build(root, 0)
}

type builder struct {
	g        *graph.Graph
	maxDepth int
	path     []string // IDs from the root to the node being expanded
}

func (b *builder) build(n graph.Node, depth int) *Node {
	out := &Node{Source: n, Children: []*Node{}}
	if depth+1 >= b.maxDepth {
		return out
	}

	b.path = append(b.path, n.ID)
	defer func() { b.path = b.path[:len(b.path)-1] }()

	seen := make(map[string]bool)
	for _, target := range b.g.Successors(n.ID) {
		if seen[target] || slices.Contains(b.path, target) {
			continue
		}
		seen[target] = true
		child, ok := b.g.Node(target)
		if !ok {
			continue
		}
		out.Children = append(out.Children, b.build(child, depth+1))
	}
	return out
}

// Size returns the number of nodes in the tree.
func (n *Node) Size() int {
	size := 0
	n.Walk(func(*Node, int) bool {
		size++
		return true
	})
	return size
}

// Height returns the number of levels in the tree; a lone root has height 1.
func (n *Node) Height() int {
	h := 0
	n.Walk(func(_ *Node, depth int) bool {
		h = max(h, depth+1)
		return true
	})
	return h
}

// Walk visits the tree depth-first in pre-order, passing each node and its
// depth (root = 0). Returning false from fn skips that node's children.
func (n *Node) Walk(fn func(node *Node, depth int) bool) {
	n.walk(fn, 0)
}

func (n *Node) walk(fn func(*Node, int) bool, depth int) {
	if !fn(n, depth) {
		return
	}
	for _, c := range n.Children {
		c.walk(fn, depth+1)
	}
}

type jsonNode struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	Thumbnail string  `json:"thumbnailUrl"`
	Children  []*Node `json:"children"`
}

// MarshalJSON flattens the source node next to its children.
func (n *Node) MarshalJSON() ([]byte, error) {
	children := n.Children
	if children == nil {
		children = []*Node{}
	}
	return json.Marshal(jsonNode{
		ID:        n.Source.ID,
		Title:     n.Source.Title,
		Thumbnail: n.Source.Thumbnail,
		Children:  children,
	})
}

// UnmarshalJSON reads the shape written by MarshalJSON.
func (n *Node) UnmarshalJSON(data []byte) error {
	var j jsonNode
	if err := json.Unmarshal(data, &j); err != nil {
		return err
	}
	n.Source = graph.Node{ID: j.ID, Title: j.Title, Thumbnail: j.Thumbnail}
	n.Children = j.Children
	if n.Children == nil {
		n.Children = []*Node{}
	}
	return nil
}
