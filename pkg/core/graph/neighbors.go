package graph

// Related returns the set of node IDs directly linked to id in either
// direction: every Target of a link from id and every Source of a link to
// id. The ID itself is never included, so a self-link contributes nothing.
//
// IDs are returned as seen on the links; a dangling endpoint is included
// because highlighting consumers simply ignore IDs they cannot place.
func (g *Graph) Related(id string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, r := range g.RelatedIDs(id) {
		set[r] = struct{}{}
	}
	return set
}

// RelatedIDs returns the same IDs as [Graph.Related] as a slice ordered by
// first appearance: outgoing targets first, then incoming sources.
func (g *Graph) RelatedIDs(id string) []string {
	seen := map[string]bool{id: true}
	var out []string
	add := func(other string) {
		if !seen[other] {
			seen[other] = true
			out = append(out, other)
		}
	}
	for _, t := range g.Successors(id) {
		add(t)
	}
	for _, s := range g.Predecessors(id) {
		add(s)
	}
	return out
}

// Neighbors returns the IDs reachable in one step when links are treated
// as bidirectional, restricted to IDs that exist as nodes. Order follows
// outgoing links then incoming links; duplicates are kept so callers
// deduplicate with their own visited set.
func (g *Graph) Neighbors(id string) []string {
	var out []string
	for _, t := range g.Successors(id) {
		if g.Has(t) {
			out = append(out, t)
		}
	}
	for _, s := range g.Predecessors(id) {
		if g.Has(s) {
			out = append(out, s)
		}
	}
	return out
}
