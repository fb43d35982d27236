package metrics

import (
	"cmp"
	"slices"

	"github.com/matzehuels/cobuy/pkg/core/graph"
)

// Stats summarizes a graph and its metrics for display counters.
type Stats struct {
	NodeCount int `json:"node_count"`
	LinkCount int `json:"link_count"`
	MaxDegree int `json:"max_degree"`
	// MeanEccentricity averages over nodes with eccentricity > 0.
	// It is 0 when no node qualifies.
	MeanEccentricity float64 `json:"mean_eccentricity"`
	// Components is the number of weakly connected components.
	Components int `json:"components"`
	// LargestComponent is the node count of the biggest component.
	LargestComponent int `json:"largest_component"`
}

// Summarize derives aggregate statistics. An empty graph yields zero values
// rather than an undefined maximum.
func Summarize(g *graph.Graph, m Metrics) Stats {
	s := Stats{
		NodeCount: g.NodeCount(),
		LinkCount: g.LinkCount(),
	}

	var sum, qualifying int
	for _, nm := range m {
		s.MaxDegree = max(s.MaxDegree, nm.Degree)
		if nm.Eccentricity > 0 {
			sum += nm.Eccentricity
			qualifying++
		}
	}
	if qualifying > 0 {
		s.MeanEccentricity = float64(sum) / float64(qualifying)
	}

	comps := Components(g)
	s.Components = len(comps)
	if len(comps) > 0 {
		s.LargestComponent = len(comps[0].Nodes)
	}
	return s
}

// Ranked pairs a node with its metrics for ordered listings.
type Ranked struct {
	Node graph.Node `json:"node"`
	NodeMetrics
	Rank int `json:"rank"`
}

// ByDegree returns every node ordered by descending degree. Ties keep input
// order, and Rank is the 1-based position in that order.
func ByDegree(g *graph.Graph, m Metrics) []Ranked {
	nodes := g.Nodes()
	out := make([]Ranked, len(nodes))
	for i, n := range nodes {
		out[i] = Ranked{Node: n, NodeMetrics: m[n.ID]}
	}
	slices.SortStableFunc(out, func(a, b Ranked) int {
		return cmp.Compare(b.Degree, a.Degree)
	})
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}

// Rank returns the 1-based position of id in [ByDegree] order.
func Rank(g *graph.Graph, m Metrics, id string) (int, bool) {
	for _, r := range ByDegree(g, m) {
		if r.Node.ID == id {
			return r.Rank, true
		}
	}
	return 0, false
}

// TopByDegree returns the first n entries of [ByDegree]. A non-positive n
// returns every node.
func TopByDegree(g *graph.Graph, m Metrics, n int) []Ranked {
	all := ByDegree(g, m)
	if n <= 0 || n >= len(all) {
		return all
	}
	return all[:n]
}
