package hierarchy_test

import (
	"fmt"
	"strings"

	"github.com/matzehuels/cobuy/pkg/core/graph"
	"github.com/matzehuels/cobuy/pkg/core/hierarchy"
)

func ExampleBuild() {
	g, _ := graph.New(
		[]graph.Node{
			{ID: "A", Title: "Tent"},
			{ID: "B", Title: "Sleeping Bag"},
			{ID: "C", Title: "Camping Stove"},
		},
		[]graph.Link{
			{Source: "A", Target: "B"},
			{Source: "B", Target: "C"},
			{Source: "C", Target: "A"},
		},
	)
	root, _ := g.Node("A")

	tree := hierarchy.Build(g, root, 5)
	tree.Walk(func(n *hierarchy.Node, depth int) bool {
		fmt.Printf("%s%s\n", strings.Repeat("  ", depth), n.Source.Title)
		return true
	})
	// Output:
	// Tent
	//   Sleeping Bag
	//     Camping Stove
}
