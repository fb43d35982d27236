package observability

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "cobuy"

// PrometheusHooks records every hook category as Prometheus metrics.
type PrometheusHooks struct {
	loads         *prometheus.CounterVec
	loadDuration  prometheus.Histogram
	graphNodes    prometheus.Histogram
	metricsTime   *prometheus.HistogramVec
	treeSize      prometheus.Histogram
	cacheOps      *prometheus.CounterVec
	cacheBytes    *prometheus.CounterVec
	httpRequests  *prometheus.CounterVec
	httpDurations *prometheus.HistogramVec
}

// NewPrometheusHooks registers the collectors with reg.
func NewPrometheusHooks(reg prometheus.Registerer) *PrometheusHooks {
	f := promauto.With(reg)
	return &PrometheusHooks{
		loads: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "analysis",
			Name:      "loads_total",
			Help:      "Graph loads by outcome",
		}, []string{"status"}),
		loadDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "analysis",
			Name:      "load_duration_seconds",
			Help:      "Time to decode and index a graph",
			Buckets:   prometheus.DefBuckets,
		}),
		graphNodes: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "analysis",
			Name:      "graph_nodes",
			Help:      "Node count of loaded graphs",
			Buckets:   prometheus.ExponentialBuckets(10, 4, 8),
		}),
		metricsTime: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "analysis",
			Name:      "metrics_duration_seconds",
			Help:      "Time to obtain per-node metrics",
			Buckets:   prometheus.DefBuckets,
		}, []string{"cached"}),
		treeSize: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "analysis",
			Name:      "tree_size",
			Help:      "Node count of extracted trees",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
		}),
		cacheOps: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "operations_total",
			Help:      "Cache operations by key type and result",
		}, []string{"type", "result"}),
		cacheBytes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "written_bytes_total",
			Help:      "Bytes written to the cache",
		}, []string{"type"}),
		httpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "API requests by route and status",
		}, []string{"method", "route", "status"}),
		httpDurations: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "API request latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

func (p *PrometheusHooks) OnLoadStart(context.Context) {}

func (p *PrometheusHooks) OnLoadComplete(_ context.Context, nodes, _ int, d time.Duration, err error) {
	if err != nil {
		p.loads.WithLabelValues("error").Inc()
		return
	}
	p.loads.WithLabelValues("ok").Inc()
	p.loadDuration.Observe(d.Seconds())
	p.graphNodes.Observe(float64(nodes))
}

func (p *PrometheusHooks) OnMetricsComplete(_ context.Context, _ int, cached bool, d time.Duration, err error) {
	if err != nil {
		return
	}
	p.metricsTime.WithLabelValues(strconv.FormatBool(cached)).Observe(d.Seconds())
}

func (p *PrometheusHooks) OnHierarchyComplete(_ context.Context, _ string, size int, _ time.Duration) {
	p.treeSize.Observe(float64(size))
}

func (p *PrometheusHooks) OnCacheHit(_ context.Context, keyType string) {
	p.cacheOps.WithLabelValues(keyType, "hit").Inc()
}

func (p *PrometheusHooks) OnCacheMiss(_ context.Context, keyType string) {
	p.cacheOps.WithLabelValues(keyType, "miss").Inc()
}

func (p *PrometheusHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	p.cacheOps.WithLabelValues(keyType, "set").Inc()
	p.cacheBytes.WithLabelValues(keyType).Add(float64(size))
}

func (p *PrometheusHooks) OnCacheError(_ context.Context, keyType string, _ error) {
	p.cacheOps.WithLabelValues(keyType, "error").Inc()
}

func (p *PrometheusHooks) OnRequest(_ context.Context, method, route string, status int, d time.Duration) {
	p.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	p.httpDurations.WithLabelValues(method, route).Observe(d.Seconds())
}

var (
	_ AnalysisHooks = (*PrometheusHooks)(nil)
	_ CacheHooks    = (*PrometheusHooks)(nil)
	_ HTTPHooks     = (*PrometheusHooks)(nil)
)
