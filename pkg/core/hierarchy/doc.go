// Package hierarchy extracts a bounded-depth tree of "bought with" links
// rooted at a selected product.
//
// [Build] follows outgoing links only. A node at depth d gets children only
// when d+1 < maxDepth, so maxDepth counts levels including the root: a
// maxDepth of 1 yields the root alone, 3 (the [DefaultMaxDepth]) yields
// root, children and grandchildren.
//
// Cycles are cut per path. A target that already appears between the root
// and the current node is pruned, but the same product may appear on
// several branches, so a diamond A→B→D, A→C→D shows D twice. Targets that
// are not nodes of the graph are dropped silently.
//
// The resulting [Node] marshals to the nested shape consumed by tree
// views:
//
//	{"id": "A", "title": "...", "thumbnailUrl": "...", "children": [...]}
package hierarchy
