package metrics_test

import (
	"fmt"

	"github.com/matzehuels/cobuy/pkg/core/graph"
	"github.com/matzehuels/cobuy/pkg/core/metrics"
)

func ExampleCompute() {
	g, _ := graph.New(
		[]graph.Node{{ID: "A"}, {ID: "B"}, {ID: "C"}},
		[]graph.Link{{Source: "A", Target: "B"}, {Source: "B", Target: "C"}},
	)

	m := metrics.Compute(g)
	for _, id := range []string{"A", "B", "C"} {
		fmt.Printf("%s degree=%d eccentricity=%d\n", id, m[id].Degree, m[id].Eccentricity)
	}
	// Output:
	// A degree=1 eccentricity=2
	// B degree=2 eccentricity=1
	// C degree=1 eccentricity=2
}

func ExampleSummarize() {
	g, _ := graph.New(
		[]graph.Node{{ID: "A"}, {ID: "B"}, {ID: "C"}, {ID: "D"}},
		[]graph.Link{{Source: "A", Target: "B"}, {Source: "B", Target: "C"}},
	)

	s := metrics.Summarize(g, metrics.Compute(g))
	fmt.Printf("nodes=%d links=%d max_degree=%d mean_ecc=%.1f components=%d\n",
		s.NodeCount, s.LinkCount, s.MaxDegree, s.MeanEccentricity, s.Components)
	// Output:
	// nodes=4 links=2 max_degree=2 mean_ecc=1.7 components=2
}
