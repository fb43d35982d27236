package pipeline

import (
	"bytes"
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/cobuy/pkg/cache"
	"github.com/matzehuels/cobuy/pkg/core/graph"
	"github.com/matzehuels/cobuy/pkg/core/hierarchy"
	"github.com/matzehuels/cobuy/pkg/core/metrics"
	"github.com/matzehuels/cobuy/pkg/core/search"
	cbio "github.com/matzehuels/cobuy/pkg/io"
	"github.com/matzehuels/cobuy/pkg/observability"
)

// Runner executes loads with caching. It holds no analysis state, so one
// Runner can serve many goroutines and sessions.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner. A nil cache disables caching, a nil keyer
// uses [cache.DefaultKeyer] and a nil logger uses log.Default().
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Load decodes a document from r and analyzes it. Any decode failure is an
// INVALID_GRAPH error and no analysis is returned.
func (r *Runner) Load(ctx context.Context, rd io.Reader, opts Options) (*Analysis, error) {
	return r.load(ctx, opts, func() (*graph.Graph, error) { return cbio.ReadJSON(rd) })
}

// LoadFile is [Runner.Load] on the file at path. An http(s) URL is
// downloaded instead.
func (r *Runner) LoadFile(ctx context.Context, path string, opts Options) (*Analysis, error) {
	return r.load(ctx, opts, func() (*graph.Graph, error) { return cbio.Import(ctx, path) })
}

func (r *Runner) load(ctx context.Context, opts Options, decode func() (*graph.Graph, error)) (*Analysis, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	hooks := observability.Analysis()
	hooks.OnLoadStart(ctx)
	start := time.Now()
	g, err := decode()
	elapsed := time.Since(start)
	if err != nil {
		hooks.OnLoadComplete(ctx, 0, 0, elapsed, err)
		r.logger(opts).Debug("load failed", "error", err, "duration", elapsed)
		return nil, err
	}
	hooks.OnLoadComplete(ctx, g.NodeCount(), g.LinkCount(), elapsed, nil)
	r.logger(opts).Debug("decoded document", "nodes", g.NodeCount(), "links", g.LinkCount(), "duration", elapsed)

	a, err := r.Analyze(ctx, g, opts)
	if err != nil {
		return nil, err
	}
	a.Timings.Decode = elapsed
	return a, nil
}

// Analyze derives metrics, statistics and the search index for an already
// built graph.
func (r *Runner) Analyze(ctx context.Context, g *graph.Graph, opts Options) (*Analysis, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	hash, err := GraphHash(g)
	if err != nil {
		return nil, err
	}

	a := &Analysis{Graph: g, Hash: hash, MaxDepth: opts.MaxDepth}

	metricsStart := time.Now()
	m, hit, err := r.MetricsWithCacheInfo(ctx, g, hash, opts.Refresh)
	a.Timings.Metrics = time.Since(metricsStart)
	observability.Analysis().OnMetricsComplete(ctx, g.NodeCount(), hit, a.Timings.Metrics, err)
	if err != nil {
		return nil, fmt.Errorf("metrics: %w", err)
	}
	a.Metrics = m
	a.CacheInfo.MetricsHit = hit

	indexStart := time.Now()
	a.Index = search.New(g)
	a.Stats = metrics.Summarize(g, m)
	a.Timings.Index = time.Since(indexStart)

	r.logger(opts).Debug("analyzed graph",
		"nodes", a.Stats.NodeCount,
		"links", a.Stats.LinkCount,
		"components", a.Stats.Components,
		"metrics_cached", hit,
		"duration", a.Timings.Metrics+a.Timings.Index)
	return a, nil
}

// GraphHash is the content hash of g in its canonical document encoding.
// Graphs with equal nodes and links in equal order share a hash.
func GraphHash(g *graph.Graph) (string, error) {
	var buf bytes.Buffer
	if err := cbio.WriteGraph(&buf, g); err != nil {
		return "", fmt.Errorf("hash graph: %w", err)
	}
	return cache.Hash(buf.Bytes()), nil
}

// MetricsWithCacheInfo returns per-node metrics for g and whether they came
// from the cache. Cached entries that do not cover exactly the nodes of g
// are ignored. Cache failures are logged and treated as misses.
func (r *Runner) MetricsWithCacheInfo(ctx context.Context, g *graph.Graph, hash string, refresh bool) (metrics.Metrics, bool, error) {
	key := r.Keyer.MetricsKey(hash)

	if !refresh {
		var cached metrics.Metrics
		if r.getJSON(ctx, "metrics", key, &cached) && coversNodes(g, cached) {
			return cached, true, nil
		}
	}

	m, err := metrics.ComputeContext(ctx, g)
	if err != nil {
		return nil, false, err
	}
	r.setJSON(ctx, "metrics", key, m, cache.TTLMetrics)
	return m, false, nil
}

// logger is opts.Logger, falling back to the runner's logger.
func (r *Runner) logger(opts Options) *log.Logger {
	if opts.Logger != nil {
		return opts.Logger
	}
	return r.Logger
}

func coversNodes(g *graph.Graph, m metrics.Metrics) bool {
	if len(m) != g.NodeCount() {
		return false
	}
	for _, n := range g.Nodes() {
		if _, ok := m[n.ID]; !ok {
			return false
		}
	}
	return true
}

// HierarchyWithCacheInfo is [Analysis.Hierarchy] backed by the tree cache.
func (r *Runner) HierarchyWithCacheInfo(ctx context.Context, a *Analysis, id string, depth int) (*hierarchy.Node, bool, error) {
	root, err := a.Node(id)
	if err != nil {
		return nil, false, err
	}
	depth, err = a.resolveDepth(depth)
	if err != nil {
		return nil, false, err
	}

	key := r.Keyer.HierarchyKey(a.Hash, cache.HierarchyKeyOpts{Root: id, MaxDepth: depth})
	var cached hierarchy.Node
	if r.getJSON(ctx, "tree", key, &cached) && cached.Source.ID == id {
		return &cached, true, nil
	}

	start := time.Now()
	tree := hierarchy.Build(a.Graph, root, depth)
	observability.Analysis().OnHierarchyComplete(ctx, id, tree.Size(), time.Since(start))
	r.setJSON(ctx, "tree", key, tree, cache.TTLHierarchy)
	return tree, false, nil
}

// Hierarchy is [Runner.HierarchyWithCacheInfo] without the hit flag.
func (r *Runner) Hierarchy(ctx context.Context, a *Analysis, id string, depth int) (*hierarchy.Node, error) {
	tree, _, err := r.HierarchyWithCacheInfo(ctx, a, id, depth)
	return tree, err
}

// TopByPageRank returns the n highest PageRank products of a, caching the
// full score map per graph.
func (r *Runner) TopByPageRank(ctx context.Context, a *Analysis, n int) []metrics.Scored {
	if n <= 0 {
		n = DefaultTopN
	}

	key := r.Keyer.PageRankKey(a.Hash)
	var scores map[string]float64
	if !r.getJSON(ctx, "pagerank", key, &scores) || len(scores) != a.Graph.NodeCount() {
		scores = metrics.PageRank(a.Graph)
		r.setJSON(ctx, "pagerank", key, scores, cache.TTLPageRank)
	}

	out := make([]metrics.Scored, 0, a.Graph.NodeCount())
	for _, node := range a.Graph.Nodes() {
		out = append(out, metrics.Scored{Node: node, Score: scores[node.ID]})
	}
	slices.SortStableFunc(out, func(x, y metrics.Scored) int {
		return cmp.Compare(y.Score, x.Score)
	})
	if n < len(out) {
		out = out[:n]
	}
	return out
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// getJSON reads key into v and reports a usable hit. Backend errors and
// undecodable entries count as misses.
func (r *Runner) getJSON(ctx context.Context, keyType, key string, v any) bool {
	hooks := observability.Cache()
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		hooks.OnCacheError(ctx, keyType, err)
		r.Logger.Warn("cache read failed", "type", keyType, "error", err)
		return false
	}
	if !hit {
		hooks.OnCacheMiss(ctx, keyType)
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		hooks.OnCacheMiss(ctx, keyType)
		r.Logger.Debug("discarding undecodable cache entry", "type", keyType, "error", err)
		return false
	}
	hooks.OnCacheHit(ctx, keyType)
	return true
}

func (r *Runner) setJSON(ctx context.Context, keyType, key string, v any, ttl time.Duration) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		observability.Cache().OnCacheError(ctx, keyType, err)
		r.Logger.Warn("cache write failed", "type", keyType, "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}
