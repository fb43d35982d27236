// Package pkg holds the libraries behind cobuy, a co-purchase graph
// analyzer.
//
// # Overview
//
// A co-purchase graph has products as nodes and directed "frequently
// bought with" links. cobuy loads such a graph once, derives per-product
// metrics and answers per-selection questions against an immutable
// snapshot:
//
//	JSON document (file or URL)
//	         ↓
//	    [io] (decode + validate)
//	         ↓
//	    [core/graph] (indexed store)
//	         ↓
//	    [pipeline] (metrics, search index, cached)
//	         ↓
//	    [session] / CLI / [server]
//
// # Core
//
// [core/graph] stores nodes and links with id, source and target indexes
// and resolves the related set of a node.
//
// [core/metrics] computes degree and eccentricity per node, summary
// statistics, degree rank, weakly connected components and PageRank.
//
// [core/hierarchy] extracts a bounded-depth tree of outgoing links with a
// path-scoped cycle guard.
//
// [core/search] finds products by case-insensitive id or title substring.
//
// # Infrastructure
//
// [pipeline] runs load → metrics → index and returns an [pipeline.Analysis]
// snapshot. [cache] provides null, file and Redis backends for derived
// results. [observability] exposes hooks with log and Prometheus
// implementations. [session] swaps snapshots atomically per client and
// [server] serves them over a JSON API. [httputil] fetches remote
// documents with retry.
//
// [core/graph]: https://pkg.go.dev/github.com/matzehuels/cobuy/pkg/core/graph
// [core/metrics]: https://pkg.go.dev/github.com/matzehuels/cobuy/pkg/core/metrics
// [core/hierarchy]: https://pkg.go.dev/github.com/matzehuels/cobuy/pkg/core/hierarchy
// [core/search]: https://pkg.go.dev/github.com/matzehuels/cobuy/pkg/core/search
// [io]: https://pkg.go.dev/github.com/matzehuels/cobuy/pkg/io
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/cobuy/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/cobuy/pkg/cache
// [observability]: https://pkg.go.dev/github.com/matzehuels/cobuy/pkg/observability
// [session]: https://pkg.go.dev/github.com/matzehuels/cobuy/pkg/session
// [server]: https://pkg.go.dev/github.com/matzehuels/cobuy/pkg/server
// [httputil]: https://pkg.go.dev/github.com/matzehuels/cobuy/pkg/httputil
package pkg
