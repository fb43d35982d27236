package graph

import (
	"slices"
	"testing"
)

func TestRelated(t *testing.T) {
	tests := []struct {
		name  string
		links []Link
		id    string
		want  []string
	}{
		{
			name:  "BothDirections",
			links: []Link{{"A", "B"}, {"C", "A"}},
			id:    "A",
			want:  []string{"B", "C"},
		},
		{
			name:  "SelfLinkExcluded",
			links: []Link{{"N", "N"}},
			id:    "N",
			want:  nil,
		},
		{
			name:  "SelfLinkWithOthers",
			links: []Link{{"N", "N"}, {"N", "A"}},
			id:    "N",
			want:  []string{"A"},
		},
		{
			name:  "DeduplicatesReciprocal",
			links: []Link{{"A", "B"}, {"B", "A"}, {"A", "B"}},
			id:    "A",
			want:  []string{"B"},
		},
		{
			name:  "Isolated",
			links: []Link{{"B", "C"}},
			id:    "A",
			want:  nil,
		},
		{
			name:  "DanglingIncluded",
			links: []Link{{"A", "ghost"}},
			id:    "A",
			want:  []string{"ghost"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := mustNew(t, nodes("A", "B", "C", "N"), tt.links)

			got := g.RelatedIDs(tt.id)
			if !slices.Equal(got, tt.want) {
				t.Errorf("RelatedIDs(%s) = %v, want %v", tt.id, got, tt.want)
			}

			set := g.Related(tt.id)
			if len(set) != len(tt.want) {
				t.Errorf("Related(%s) size = %d, want %d", tt.id, len(set), len(tt.want))
			}
			if _, self := set[tt.id]; self {
				t.Errorf("Related(%s) contains itself", tt.id)
			}
		})
	}
}

func TestNeighborsSkipsDangling(t *testing.T) {
	g := mustNew(t, nodes("A", "B"), []Link{
		{"A", "B"},
		{"A", "ghost"},
		{"phantom", "A"},
	})

	got := g.Neighbors("A")
	if !slices.Equal(got, []string{"B"}) {
		t.Errorf("Neighbors(A) = %v, want [B]", got)
	}
}
