package hierarchy

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/matzehuels/cobuy/pkg/core/graph"
)

func mustGraph(t *testing.T, ids []string, links ...[2]string) *graph.Graph {
	t.Helper()
	nodes := make([]graph.Node, len(ids))
	for i, id := range ids {
		nodes[i] = graph.Node{ID: id, Title: "title " + id}
	}
	ls := make([]graph.Link, len(links))
	for i, l := range links {
		ls[i] = graph.Link{Source: l[0], Target: l[1]}
	}
	g, err := graph.New(nodes, ls)
	if err != nil {
		t.Fatalf("graph.New: %v", err)
	}
	return g
}

func root(t *testing.T, g *graph.Graph, id string) graph.Node {
	t.Helper()
	n, ok := g.Node(id)
	if !ok {
		t.Fatalf("node %s not found", id)
	}
	return n
}

// shape renders a tree as "A(B(C),D)" for compact comparisons.
func shape(n *Node) string {
	var sb strings.Builder
	sb.WriteString(n.Source.ID)
	if len(n.Children) > 0 {
		sb.WriteByte('(')
		for i, c := range n.Children {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(shape(c))
		}
		sb.WriteByte(')')
	}
	return sb.String()
}

func TestBuild(t *testing.T) {
	tests := []struct {
		name     string
		ids      []string
		links    [][2]string
		root     string
		maxDepth int
		want     string
	}{
		{
			name:     "ThreeCycle",
			ids:      []string{"A", "B", "C"},
			links:    [][2]string{{"A", "B"}, {"B", "C"}, {"C", "A"}},
			root:     "A",
			maxDepth: 5,
			want:     "A(B(C))",
		},
		{
			name:     "MaxDepthOne",
			ids:      []string{"A", "B"},
			links:    [][2]string{{"A", "B"}},
			root:     "A",
			maxDepth: 1,
			want:     "A",
		},
		{
			name:     "MaxDepthClamped",
			ids:      []string{"A", "B"},
			links:    [][2]string{{"A", "B"}},
			root:     "A",
			maxDepth: -4,
			want:     "A",
		},
		{
			name:     "DepthBound",
			ids:      []string{"A", "B", "C", "D"},
			links:    [][2]string{{"A", "B"}, {"B", "C"}, {"C", "D"}},
			root:     "A",
			maxDepth: 3,
			want:     "A(B(C))",
		},
		{
			name:     "DiamondAppearsTwice",
			ids:      []string{"A", "B", "C", "D"},
			links:    [][2]string{{"A", "B"}, {"A", "C"}, {"B", "D"}, {"C", "D"}},
			root:     "A",
			maxDepth: 3,
			want:     "A(B(D),C(D))",
		},
		{
			name:     "UnknownTargetPruned",
			ids:      []string{"A", "B"},
			links:    [][2]string{{"A", "ghost"}, {"A", "B"}},
			root:     "A",
			maxDepth: 3,
			want:     "A(B)",
		},
		{
			name:     "IncomingIgnored",
			ids:      []string{"A", "B"},
			links:    [][2]string{{"B", "A"}},
			root:     "A",
			maxDepth: 3,
			want:     "A",
		},
		{
			name:     "SelfLinkPruned",
			ids:      []string{"A", "B"},
			links:    [][2]string{{"A", "A"}, {"A", "B"}},
			root:     "A",
			maxDepth: 3,
			want:     "A(B)",
		},
		{
			name:     "DuplicateLinksOneChild",
			ids:      []string{"A", "B"},
			links:    [][2]string{{"A", "B"}, {"A", "B"}},
			root:     "A",
			maxDepth: 3,
			want:     "A(B)",
		},
		{
			name:     "LinkOrderKept",
			ids:      []string{"A", "B", "C"},
			links:    [][2]string{{"A", "C"}, {"A", "B"}},
			root:     "A",
			maxDepth: 2,
			want:     "A(C,B)",
		},
		{
			name:     "PathGuardAllowsSiblingRevisit",
			ids:      []string{"A", "B", "C"},
			links:    [][2]string{{"A", "B"}, {"B", "C"}, {"A", "C"}, {"C", "B"}},
			root:     "A",
			maxDepth: 4,
			want:     "A(B(C),C(B))",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := mustGraph(t, tt.ids, tt.links...)
			got := Build(g, root(t, g, tt.root), tt.maxDepth)
			if s := shape(got); s != tt.want {
				t.Errorf("Build = %s, want %s", s, tt.want)
			}
		})
	}
}

func TestBuildChildrenNeverNil(t *testing.T) {
	g := mustGraph(t, []string{"A", "B"}, [2]string{"A", "B"})
	tree := Build(g, root(t, g, "A"), DefaultMaxDepth)
	tree.Walk(func(n *Node, _ int) bool {
		if n.Children == nil {
			t.Errorf("node %s has nil Children", n.Source.ID)
		}
		return true
	})
}

func TestBuildNeverRepeatsOnPath(t *testing.T) {
	// complete digraph on four nodes
	ids := []string{"A", "B", "C", "D"}
	var links [][2]string
	for _, s := range ids {
		for _, d := range ids {
			if s != d {
				links = append(links, [2]string{s, d})
			}
		}
	}
	g := mustGraph(t, ids, links...)
	tree := Build(g, root(t, g, "A"), 10)

	var check func(n *Node, path map[string]bool)
	check = func(n *Node, path map[string]bool) {
		if path[n.Source.ID] {
			t.Fatalf("%s repeated on its own path", n.Source.ID)
		}
		path[n.Source.ID] = true
		for _, c := range n.Children {
			check(c, path)
		}
		delete(path, n.Source.ID)
	}
	check(tree, map[string]bool{})

	// root, 3 children, 6 grandchildren, 6 great-grandchildren
	if got := tree.Size(); got != 16 {
		t.Errorf("Size = %d, want 16", got)
	}
	if got := tree.Height(); got != 4 {
		t.Errorf("Height = %d, want 4", got)
	}
}

func TestWalkSkip(t *testing.T) {
	g := mustGraph(t, []string{"A", "B", "C"}, [2]string{"A", "B"}, [2]string{"B", "C"})
	tree := Build(g, root(t, g, "A"), 5)

	var visited []string
	tree.Walk(func(n *Node, depth int) bool {
		visited = append(visited, n.Source.ID)
		return depth < 1
	})
	if strings.Join(visited, ",") != "A,B" {
		t.Errorf("visited = %v, want [A B]", visited)
	}
}

func TestMarshalJSON(t *testing.T) {
	g, err := graph.New(
		[]graph.Node{
			{ID: "A", Title: "Alpha", Thumbnail: "http://img/a.jpg"},
			{ID: "B", Title: "Beta"},
		},
		[]graph.Link{{Source: "A", Target: "B"}},
	)
	if err != nil {
		t.Fatal(err)
	}
	tree := Build(g, root(t, g, "A"), 2)

	data, err := json.Marshal(tree)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	want := `{"id":"A","title":"Alpha","thumbnailUrl":"http://img/a.jpg","children":[{"id":"B","title":"Beta","thumbnailUrl":"","children":[]}]}`
	if string(data) != want {
		t.Errorf("Marshal =\n%s\nwant\n%s", data, want)
	}

	var back Node
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if shape(&back) != "A(B)" || back.Source.Thumbnail != "http://img/a.jpg" {
		t.Errorf("Unmarshal = %s %+v", shape(&back), back.Source)
	}
	if back.Children[0].Children == nil {
		t.Error("decoded leaf has nil Children")
	}
}
