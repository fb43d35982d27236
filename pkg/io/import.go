package io

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"

	"github.com/matzehuels/cobuy/pkg/core/graph"
	"github.com/matzehuels/cobuy/pkg/errors"
)

// document is the raw top-level object. Fields stay undecoded until their
// presence and shape have been checked.
type document struct {
	Nodes json.RawMessage `json:"nodes"`
	Links json.RawMessage `json:"links"`
}

type node struct {
	ID          flexID `json:"id"`
	Title       string `json:"title"`
	Thumbnail   string `json:"thumbnailUrl,omitempty"`
	ThumbnailV1 string `json:"thumbnail,omitempty"`
	ThumbnailZH string `json:"缩略图,omitempty"`
}

func (n node) thumbnail() string {
	switch {
	case n.Thumbnail != "":
		return n.Thumbnail
	case n.ThumbnailV1 != "":
		return n.ThumbnailV1
	default:
		return n.ThumbnailZH
	}
}

type link struct {
	Source flexID `json:"source"`
	Target flexID `json:"target"`
}

// flexID accepts IDs written as JSON strings or numbers.
type flexID string

func (f *flexID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a string or number, got %s", data)
	}
	if _, err := strconv.ParseFloat(n.String(), 64); err != nil {
		return fmt.Errorf("id must be a string or number, got %s", data)
	}
	*f = flexID(n.String())
	return nil
}

// ReadJSON decodes a co-purchase document from r into a graph.
//
// The input must be a JSON object with "nodes" and "links" arrays:
//
//	{
//	  "nodes": [{"id": "B0001", "title": "Espresso Machine", "thumbnailUrl": "..."}],
//	  "links": [{"source": "B0001", "target": "B0002"}]
//	}
//
// Every failure is an [errors.Error] with code [errors.ErrCodeInvalidGraph]:
// malformed JSON, a missing or non-array "nodes" or "links" field, node IDs
// rejected by [errors.ValidateNodeID] and duplicate node IDs. Links to
// unknown IDs are accepted.
//
// ReadJSON does not close r.
func ReadJSON(r io.Reader) (*graph.Graph, error) {
	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidGraph, err, "decode document")
	}
	if err := requireArray("nodes", doc.Nodes); err != nil {
		return nil, err
	}
	if err := requireArray("links", doc.Links); err != nil {
		return nil, err
	}

	var rawNodes []node
	if err := json.Unmarshal(doc.Nodes, &rawNodes); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidGraph, err, "decode nodes")
	}
	var rawLinks []link
	if err := json.Unmarshal(doc.Links, &rawLinks); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidGraph, err, "decode links")
	}

	nodes := make([]graph.Node, len(rawNodes))
	for i, n := range rawNodes {
		if err := errors.ValidateNodeID(string(n.ID)); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidGraph, err, "node %d: %s", i, errors.UserMessage(err))
		}
		nodes[i] = graph.Node{ID: string(n.ID), Title: n.Title, Thumbnail: n.thumbnail()}
	}
	links := make([]graph.Link, len(rawLinks))
	for i, l := range rawLinks {
		links[i] = graph.Link{Source: string(l.Source), Target: string(l.Target)}
	}

	g, err := graph.New(nodes, links)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidGraph, err, "build graph")
	}
	return g, nil
}

func requireArray(field string, raw json.RawMessage) error {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return errors.New(errors.ErrCodeInvalidGraph, "missing %q field", field)
	}
	if trimmed[0] != '[' {
		return errors.New(errors.ErrCodeInvalidGraph, "%q must be an array", field)
	}
	return nil
}

// ImportJSON reads the document at path with [ReadJSON]. A missing file is
// reported with [errors.ErrCodeFileNotFound].
func ImportJSON(path string) (*graph.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}
