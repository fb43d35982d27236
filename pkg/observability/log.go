package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks writes analysis and cache events to a logger at debug level.
// Failures are logged at warn.
type LogHooks struct {
	Logger *log.Logger
}

// NewLogHooks returns hooks that log to l.
func NewLogHooks(l *log.Logger) *LogHooks {
	return &LogHooks{Logger: l}
}

func (h *LogHooks) OnLoadStart(context.Context) {
	h.Logger.Debug("loading graph")
}

func (h *LogHooks) OnLoadComplete(_ context.Context, nodes, links int, d time.Duration, err error) {
	if err != nil {
		h.Logger.Warn("load failed", "error", err, "elapsed", d)
		return
	}
	h.Logger.Debug("graph loaded", "nodes", nodes, "links", links, "elapsed", d)
}

func (h *LogHooks) OnMetricsComplete(_ context.Context, nodes int, cached bool, d time.Duration, err error) {
	if err != nil {
		h.Logger.Warn("metrics failed", "error", err, "elapsed", d)
		return
	}
	h.Logger.Debug("metrics ready", "nodes", nodes, "cached", cached, "elapsed", d)
}

func (h *LogHooks) OnHierarchyComplete(_ context.Context, root string, size int, d time.Duration) {
	h.Logger.Debug("tree built", "root", root, "size", size, "elapsed", d)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.Logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.Logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.Logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *LogHooks) OnCacheError(_ context.Context, keyType string, err error) {
	h.Logger.Warn("cache error, recomputing", "type", keyType, "error", err)
}

var (
	_ AnalysisHooks = (*LogHooks)(nil)
	_ CacheHooks    = (*LogHooks)(nil)
)
