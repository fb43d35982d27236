package metrics

import (
	"context"

	"github.com/matzehuels/cobuy/pkg/core/graph"
)

// NodeMetrics holds the derived values for one node.
type NodeMetrics struct {
	// Degree counts link endpoints touching the node, direction ignored.
	// A self-link counts twice.
	Degree int `json:"degree"`
	// Eccentricity is the largest undirected BFS distance from the node to
	// any node it can reach. Isolated nodes have eccentricity 0.
	Eccentricity int `json:"eccentricity"`
}

// Metrics maps every node ID of a graph to its derived values.
// It never contains IDs that are not nodes of the graph it was computed from.
type Metrics map[string]NodeMetrics

// Compute derives degree and eccentricity for every node of g.
//
// Compute runs one BFS per node, so it is O(V·(V+E)). That is fine for
// interactive graphs of a few thousand nodes; use [ComputeContext] to bound
// the work on larger inputs.
func Compute(g *graph.Graph) Metrics {
	m, _ := ComputeContext(context.Background(), g)
	return m
}

// ComputeContext is [Compute] with cancellation checked between BFS passes.
// On cancellation it returns nil and the context error; partial results are
// never returned.
func ComputeContext(ctx context.Context, g *graph.Graph) (Metrics, error) {
	degrees := Degrees(g)
	m := make(Metrics, g.NodeCount())
	for _, n := range g.Nodes() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		m[n.ID] = NodeMetrics{
			Degree:       degrees[n.ID],
			Eccentricity: Eccentricity(g, n.ID),
		}
	}
	return m, nil
}

// Degrees counts, for each node, the link endpoints that touch it.
//
// Every node starts at 0. Each link increments its source and its target
// independently, so a self-link adds 2 to one node. An endpoint that is not
// a node is skipped without affecting the other endpoint.
func Degrees(g *graph.Graph) map[string]int {
	deg := make(map[string]int, g.NodeCount())
	for _, n := range g.Nodes() {
		deg[n.ID] = 0
	}
	for _, l := range g.Links() {
		if _, ok := deg[l.Source]; ok {
			deg[l.Source]++
		}
		if _, ok := deg[l.Target]; ok {
			deg[l.Target]++
		}
	}
	return deg
}

// Eccentricity returns the maximum BFS depth reached from id when every
// link is walked in both directions. Links to IDs that are not nodes are
// not followed. Returns 0 for an isolated or unknown node.
func Eccentricity(g *graph.Graph, id string) int {
	if !g.Has(id) {
		return 0
	}

	type item struct {
		id    string
		depth int
	}

	visited := map[string]bool{id: true}
	queue := []item{{id: id}}
	maxDepth := 0

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur.depth > maxDepth {
			maxDepth = cur.depth
		}
		for _, next := range g.Neighbors(cur.id) {
			if visited[next] {
				continue
			}
			visited[next] = true
			queue = append(queue, item{id: next, depth: cur.depth + 1})
		}
	}
	return maxDepth
}
