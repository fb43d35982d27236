package search

import (
	"testing"

	"github.com/matzehuels/cobuy/pkg/core/graph"
)

func newIndex(t *testing.T, nodes ...graph.Node) *Index {
	t.Helper()
	g, err := graph.New(nodes, nil)
	if err != nil {
		t.Fatalf("graph.New: %v", err)
	}
	return New(g)
}

func TestFindFirst(t *testing.T) {
	idx := newIndex(t,
		graph.Node{ID: "ABC123", Title: "Widget"},
		graph.Node{ID: "X9", Title: "abc gadget"},
		graph.Node{ID: "B00Z", Title: "Desk Lamp"},
		graph.Node{ID: "lamp-2", Title: "Floor light"},
	)

	tests := []struct {
		query  string
		wantID string
		found  bool
	}{
		{"abc", "ABC123", true},
		{"ABC", "ABC123", true},
		{"gadget", "X9", true},
		{"GADGET", "X9", true},
		{"lamp", "B00Z", true},
		{"light", "lamp-2", true},
		{"b00", "B00Z", true},
		{"nothing", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			n, ok := idx.FindFirst(tt.query)
			if ok != tt.found {
				t.Fatalf("FindFirst(%q) found = %v, want %v", tt.query, ok, tt.found)
			}
			if n.ID != tt.wantID {
				t.Errorf("FindFirst(%q) = %s, want %s", tt.query, n.ID, tt.wantID)
			}
		})
	}
}

func TestFindFirstOrderBeatsFieldPreference(t *testing.T) {
	// a title hit on an earlier node wins over an ID hit on a later node
	idx := newIndex(t,
		graph.Node{ID: "P1", Title: "kettle"},
		graph.Node{ID: "KETTLE-2", Title: "Teapot"},
	)
	n, ok := idx.FindFirst("kettle")
	if !ok || n.ID != "P1" {
		t.Errorf("FindFirst = %s, %v, want P1", n.ID, ok)
	}
}

func TestFindAll(t *testing.T) {
	idx := newIndex(t,
		graph.Node{ID: "A", Title: "red mug"},
		graph.Node{ID: "B", Title: "blue mug"},
		graph.Node{ID: "C", Title: "plate"},
		graph.Node{ID: "MUG-D", Title: "cup"},
	)

	tests := []struct {
		query string
		limit int
		want  []string
	}{
		{"mug", 0, []string{"A", "B", "MUG-D"}},
		{"mug", 2, []string{"A", "B"}},
		{"plate", 5, []string{"C"}},
		{"none", 0, nil},
		{"", 0, nil},
	}

	for _, tt := range tests {
		got := idx.FindAll(tt.query, tt.limit)
		if len(got) != len(tt.want) {
			t.Errorf("FindAll(%q, %d) = %v, want %v", tt.query, tt.limit, got, tt.want)
			continue
		}
		for i := range got {
			if got[i].ID != tt.want[i] {
				t.Errorf("FindAll(%q, %d)[%d] = %s, want %s", tt.query, tt.limit, i, got[i].ID, tt.want[i])
			}
		}
	}
}

func TestEmptyIndex(t *testing.T) {
	idx := newIndex(t)
	if idx.Len() != 0 {
		t.Errorf("Len = %d, want 0", idx.Len())
	}
	if _, ok := idx.FindFirst("a"); ok {
		t.Error("empty index should not match")
	}
}
