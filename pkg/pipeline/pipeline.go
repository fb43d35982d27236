// Package pipeline turns a co-purchase document into an analysis snapshot.
//
// This package implements the load → metrics → index sequence shared by the
// CLI and the API server. Centralizing it keeps caching, validation and
// instrumentation identical across entry points.
//
// # Architecture
//
// [Runner.Load] runs three stages:
//
//  1. Decode: read and validate the JSON document into a graph
//  2. Metrics: degree and eccentricity per node, cached by graph content hash
//  3. Index: build the search index and aggregate statistics
//
// The result is an immutable [Analysis]. Per-selection operations (tree,
// related set, search, detail) run against it without further I/O, apart
// from the optional tree and PageRank caches on the [Runner].
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	a, err := runner.LoadFile(ctx, "graph.json", pipeline.Options{})
//	if err != nil {
//	    return err
//	}
//	tree, err := a.Hierarchy("B0001", 0)
package pipeline

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/cobuy/pkg/core/hierarchy"
	"github.com/matzehuels/cobuy/pkg/errors"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultMaxDepth is the tree depth used when none is requested.
	DefaultMaxDepth = hierarchy.DefaultMaxDepth

	// DefaultTopN is the number of entries listed by rankings.
	DefaultTopN = 10

	// DefaultSearchLimit bounds listing searches.
	DefaultSearchLimit = 20
)

// Ranking names accepted by [ValidateRanking].
const (
	RankByDegree   = "degree"
	RankByPageRank = "pagerank"
)

// ValidRankings is the set of supported ranking orders.
var ValidRankings = map[string]bool{
	RankByDegree:   true,
	RankByPageRank: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options configure a load.
type Options struct {
	// MaxDepth is the default tree depth for this analysis.
	MaxDepth int `json:"max_depth,omitempty"`

	// Refresh bypasses cache reads; results are still written back.
	Refresh bool `json:"refresh,omitempty"`

	// Logger receives this load's debug output. Nil means the runner's
	// logger.
	Logger *log.Logger `json:"-"`

	validated bool
}

// ValidateAndSetDefaults fills defaults and rejects out-of-range values.
// It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.MaxDepth == 0 {
		o.MaxDepth = DefaultMaxDepth
	}
	if err := errors.ValidateDepth(o.MaxDepth); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateRanking checks that a ranking name is supported.
func ValidateRanking(by string) error {
	if !ValidRankings[by] {
		return errors.New(errors.ErrCodeInvalidInput,
			"invalid ranking: %q (must be one of: degree, pagerank)", by)
	}
	return nil
}

// =============================================================================
// Results
// =============================================================================

// Timings records how long each load stage took.
type Timings struct {
	Decode  time.Duration `json:"decode"`
	Metrics time.Duration `json:"metrics"`
	Index   time.Duration `json:"index"`
}

// Total sums all stages.
func (t Timings) Total() time.Duration {
	return t.Decode + t.Metrics + t.Index
}

// CacheInfo tracks which stages were served from cache.
type CacheInfo struct {
	MetricsHit bool `json:"metrics_hit"`
}

func (c CacheInfo) String() string {
	if c.MetricsHit {
		return "metrics cached"
	}
	return "metrics computed"
}
