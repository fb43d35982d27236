// Package graph provides the in-memory store for product co-purchase graphs.
//
// # Overview
//
// A co-purchase graph has products as nodes and directed "frequently bought
// with" links between them. This package holds one loaded graph as an
// immutable, indexed value that the metrics, hierarchy and search packages
// read from.
//
// # Basic Usage
//
// Build a graph with [New]. Node IDs must be unique and non-empty; links may
// reference IDs that do not exist:
//
//	g, err := graph.New(
//	    []graph.Node{{ID: "A", Title: "Kettle"}, {ID: "B", Title: "Teapot"}},
//	    []graph.Link{{Source: "A", Target: "B"}},
//	)
//
// Query it with [Graph.Node], [Graph.OutLinks], [Graph.InLinks],
// [Graph.Successors] and [Graph.Predecessors]. [Graph.Related] answers the
// "which products are directly linked to this one" question used for
// highlighting.
//
// # Dangling Links
//
// Links whose source or target is not a node are kept in [Graph.Links] and
// still count toward degree, but no traversal steps through the missing
// side. [Graph.Neighbors] applies that filter for traversals.
//
// # Replacement
//
// There is no mutation API. Loading a new document produces a new Graph
// that replaces the old one wholesale (see pkg/session).
package graph
