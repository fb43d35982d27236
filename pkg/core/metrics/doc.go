// Package metrics derives per-node connectivity values from a co-purchase graph.
//
// # Degree
//
// [Degrees] counts link endpoints: each link adds one to its source and one
// to its target, so the degrees of a graph without dangling links always sum
// to twice its link count. A self-link adds two to the same node. Endpoints
// that are not nodes are skipped, so the result never holds extra IDs.
//
// # Eccentricity
//
// [Eccentricity] is the greatest breadth-first distance from a node to any
// node it can reach when links are walked in both directions. This differs
// on purpose from the hierarchy package, which follows outgoing links only:
// eccentricity measures overall connectivity, the hierarchy shows what a
// product leads to.
//
// # Aggregates
//
// [Summarize] produces the display counters: node and link counts, maximum
// degree, and mean eccentricity over non-isolated nodes. [ByDegree] and
// [Rank] order products by degree. [Components] and [PageRank] use gonum
// for weakly connected components and link-following importance.
//
// # Cost
//
// [Compute] is O(V·(V+E)). Use [ComputeContext] when the input size is not
// known to be interactive scale.
package metrics
