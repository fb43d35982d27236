package search_test

import (
	"fmt"

	"github.com/matzehuels/cobuy/pkg/core/graph"
	"github.com/matzehuels/cobuy/pkg/core/search"
)

func ExampleIndex_FindFirst() {
	g, _ := graph.New([]graph.Node{
		{ID: "ABC123", Title: "Widget"},
		{ID: "X9", Title: "abc gadget"},
	}, nil)

	n, ok := search.New(g).FindFirst("abc")
	fmt.Println(n.ID, ok)
	// Output: ABC123 true
}
