package metrics

import (
	"cmp"
	"slices"

	"gonum.org/v1/gonum/graph/network"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"github.com/matzehuels/cobuy/pkg/core/graph"
)

// PageRank damping and convergence tolerance.
const (
	pageRankDamping   = 0.85
	pageRankTolerance = 1e-6
)

// Component is one weakly connected component, members in input order.
type Component struct {
	Nodes []string `json:"nodes"`
}

// gonumView is the gonum representation of a graph. Node i of the graph
// becomes gonum node i. Self-links and dangling links are dropped because
// simple graphs reject self edges and cannot hold unknown endpoints.
type gonumView struct {
	directed   *simple.DirectedGraph
	undirected *simple.UndirectedGraph
	ids        []string
}

func toGonum(g *graph.Graph) *gonumView {
	v := &gonumView{
		directed:   simple.NewDirectedGraph(),
		undirected: simple.NewUndirectedGraph(),
	}
	for i, n := range g.Nodes() {
		v.ids = append(v.ids, n.ID)
		v.directed.AddNode(simple.Node(int64(i)))
		v.undirected.AddNode(simple.Node(int64(i)))
	}
	for _, l := range g.Links() {
		from, to := g.Index(l.Source), g.Index(l.Target)
		if from < 0 || to < 0 || from == to {
			continue
		}
		f, t := simple.Node(int64(from)), simple.Node(int64(to))
		v.directed.SetEdge(simple.Edge{F: f, T: t})
		if !v.undirected.HasEdgeBetween(f.ID(), t.ID()) {
			v.undirected.SetEdge(simple.Edge{F: f, T: t})
		}
	}
	return v
}

// Components returns the weakly connected components of g, largest first.
// Components of equal size are ordered by their earliest member.
// Isolated nodes form singleton components.
func Components(g *graph.Graph) []Component {
	if g.NodeCount() == 0 {
		return nil
	}
	v := toGonum(g)

	var groups [][]int64
	for _, cc := range topo.ConnectedComponents(v.undirected) {
		ids := make([]int64, len(cc))
		for i, n := range cc {
			ids[i] = n.ID()
		}
		slices.Sort(ids)
		groups = append(groups, ids)
	}
	slices.SortStableFunc(groups, func(a, b []int64) int {
		if c := cmp.Compare(len(b), len(a)); c != 0 {
			return c
		}
		return cmp.Compare(a[0], b[0])
	})

	out := make([]Component, len(groups))
	for i, ids := range groups {
		out[i].Nodes = make([]string, len(ids))
		for j, id := range ids {
			out[i].Nodes[j] = v.ids[id]
		}
	}
	return out
}

// PageRank scores every node of g following directed links. Scores sum to
// roughly 1. Self-links and dangling links do not contribute.
func PageRank(g *graph.Graph) map[string]float64 {
	out := make(map[string]float64, g.NodeCount())
	if g.NodeCount() == 0 {
		return out
	}
	v := toGonum(g)
	for id, score := range network.PageRank(v.directed, pageRankDamping, pageRankTolerance) {
		out[v.ids[id]] = score
	}
	return out
}

// TopByPageRank returns up to n node IDs with the highest PageRank, ties
// broken by input order. A non-positive n returns every node.
func TopByPageRank(g *graph.Graph, n int) []Scored {
	scores := PageRank(g)
	out := make([]Scored, 0, len(scores))
	for _, node := range g.Nodes() {
		out = append(out, Scored{Node: node, Score: scores[node.ID]})
	}
	slices.SortStableFunc(out, func(a, b Scored) int {
		return cmp.Compare(b.Score, a.Score)
	})
	if n > 0 && n < len(out) {
		out = out[:n]
	}
	return out
}

// Scored pairs a node with a real-valued score.
type Scored struct {
	Node  graph.Node `json:"node"`
	Score float64    `json:"score"`
}
