package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/cobuy/pkg/core/graph"
)

// WriteJSON encodes v as indented JSON followed by a newline.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WriteGraph writes g in the document format read by [ReadJSON], so the
// output can be re-imported unchanged.
func WriteGraph(w io.Writer, g *graph.Graph) error {
	nodes := g.Nodes()
	links := g.Links()
	if nodes == nil {
		nodes = []graph.Node{}
	}
	if links == nil {
		links = []graph.Link{}
	}
	return WriteJSON(w, struct {
		Nodes []graph.Node `json:"nodes"`
		Links []graph.Link `json:"links"`
	}{nodes, links})
}

// ExportJSON writes v to a JSON file at path.
func ExportJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteJSON(f, v); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
