// Package server exposes analysis sessions over a JSON HTTP API for a
// browser front end.
//
// # Routes
//
//	POST   /sessions                          load a document into a new session
//	PUT    /sessions/{sid}/graph              replace the session's graph
//	GET    /sessions/{sid}/stats              aggregate counters
//	GET    /sessions/{sid}/nodes/{id}         node detail; selects the node
//	GET    /sessions/{sid}/nodes/{id}/tree    outgoing tree, ?depth=N
//	GET    /sessions/{sid}/nodes/{id}/related IDs to highlight
//	GET    /sessions/{sid}/search             first match for ?q=
//	GET    /sessions/{sid}/matches            all matches for ?q=, ?limit=N
//	GET    /sessions/{sid}/top                ranking, ?by=degree|pagerank&n=N
//	GET    /sessions/{sid}/selection          detail of the selected node
//	DELETE /sessions/{sid}/selection          clear the selection
//	DELETE /sessions/{sid}                    drop the session
//	GET    /healthz
//	GET    /metrics                           Prometheus exposition
//
// Errors are returned as {"code": "...", "error": "..."} with the status
// derived from the code. A rejected PUT leaves the previous graph active.
package server

import (
	"context"
	stderrors "errors"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/cobuy/pkg/session"
)

// Defaults for [Config].
const (
	DefaultAddr            = "127.0.0.1:8080"
	DefaultMaxBodyBytes    = 64 << 20
	DefaultCleanupInterval = 5 * time.Minute
	shutdownTimeout        = 10 * time.Second
)

// Config configures a [Server].
type Config struct {
	Addr string
	// CORSOrigins lists origins allowed to call the API. Empty disables CORS.
	CORSOrigins []string
	// MaxBodyBytes bounds uploaded documents.
	MaxBodyBytes int64
	// CleanupInterval is how often idle sessions are expired.
	CleanupInterval time.Duration
	// Gatherer backs /metrics; nil uses the default registry.
	Gatherer prometheus.Gatherer
}

func (c *Config) setDefaults() {
	if c.Addr == "" {
		c.Addr = DefaultAddr
	}
	if c.MaxBodyBytes <= 0 {
		c.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if c.CleanupInterval <= 0 {
		c.CleanupInterval = DefaultCleanupInterval
	}
	if c.Gatherer == nil {
		c.Gatherer = prometheus.DefaultGatherer
	}
}

// Server serves the API for one session store.
type Server struct {
	store  *session.Store
	logger *log.Logger
	cfg    Config
}

// New creates a server. A nil logger uses log.Default().
func New(store *session.Store, logger *log.Logger, cfg Config) *Server {
	cfg.setDefaults()
	if logger == nil {
		logger = log.Default()
	}
	return &Server{store: store, logger: logger, cfg: cfg}
}

// Run listens on the configured address and serves until ctx is done, then
// shuts down gracefully. Idle sessions are expired in the background.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is [Server.Run] on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("serving API", "addr", ln.Addr().String())
		if err := srv.Serve(ln); !stderrors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return s.store.RunCleanup(ctx, s.cfg.CleanupInterval)
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
