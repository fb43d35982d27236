package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// hashKey builds "prefix:sha256(json(parts))".
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(hash[:]))
}

// Hash returns the hex SHA-256 of data (64 characters).
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// Keyer builds cache keys for analysis results.
type Keyer interface {
	// MetricsKey addresses the per-node metrics of a graph.
	MetricsKey(graphHash string) string
	// PageRankKey addresses the PageRank scores of a graph.
	PageRankKey(graphHash string) string
	// HierarchyKey addresses one extracted tree.
	HierarchyKey(graphHash string, opts HierarchyKeyOpts) string
}

// HierarchyKeyOpts are the inputs that change an extracted tree.
type HierarchyKeyOpts struct {
	Root     string `json:"root"`
	MaxDepth int    `json:"max_depth"`
}

// DefaultKeyer is the standard [Keyer].
type DefaultKeyer struct{}

// NewDefaultKeyer returns a [DefaultKeyer].
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// MetricsKey returns "metrics:<graphHash>".
func (DefaultKeyer) MetricsKey(graphHash string) string {
	return "metrics:" + graphHash
}

// PageRankKey returns "pagerank:<graphHash>".
func (DefaultKeyer) PageRankKey(graphHash string) string {
	return "pagerank:" + graphHash
}

// HierarchyKey hashes the graph hash together with the tree options.
func (DefaultKeyer) HierarchyKey(graphHash string, opts HierarchyKeyOpts) string {
	return hashKey("tree", graphHash, opts)
}
