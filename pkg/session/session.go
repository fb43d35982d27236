// Package session holds the graph a client is currently exploring.
//
// A [Session] owns one analysis snapshot and replaces it atomically on
// every successful load. Readers always see a complete snapshot, either the
// old one or the new one. A failed load leaves the old snapshot in place,
// so a bad upload never blanks a client's view.
//
// A [Store] keeps many sessions side by side, keyed by random UUIDs, and
// expires sessions that stay idle longer than their TTL.
//
// # Usage
//
//	store := session.NewStore(runner, pipeline.Options{}, session.DefaultTTL)
//	sess, err := store.Create(ctx, body)
//	if err != nil {
//	    return err // nothing was stored
//	}
//	a, err := sess.Snapshot()
package session

import (
	"context"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/cobuy/pkg/errors"
	"github.com/matzehuels/cobuy/pkg/pipeline"
)

// DefaultTTL is how long an untouched session survives.
const DefaultTTL = 2 * time.Hour

// Session is one client's view: the current snapshot plus the selected
// node. All methods are safe for concurrent use.
type Session struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`

	runner   *pipeline.Runner
	opts     pipeline.Options
	current  atomic.Pointer[pipeline.Analysis]
	selected atomic.Pointer[string]
	lastUsed atomic.Int64 // unix nanoseconds
}

// New creates an empty session with a fresh ID.
func New(runner *pipeline.Runner, opts pipeline.Options) *Session {
	s := &Session{
		ID:        uuid.NewString(),
		CreatedAt: time.Now(),
		runner:    runner,
		opts:      opts,
	}
	s.touch()
	return s
}

// Load analyzes the document in r and, on success, makes it the current
// snapshot. On failure the previous snapshot stays current and the error
// is returned unchanged. A selection that does not exist in the new graph
// is cleared.
func (s *Session) Load(ctx context.Context, r io.Reader) (*pipeline.Analysis, error) {
	a, err := s.runner.Load(ctx, r, s.opts)
	if err != nil {
		return nil, err
	}
	s.current.Store(a)
	if sel := s.selected.Load(); sel != nil && !a.Graph.Has(*sel) {
		s.selected.CompareAndSwap(sel, nil)
	}
	s.touch()
	return a, nil
}

// Current returns the active snapshot, or nil before the first load.
func (s *Session) Current() *pipeline.Analysis {
	s.touch()
	return s.current.Load()
}

// Snapshot is [Session.Current] with a NOT_FOUND error when nothing has
// been loaded yet.
func (s *Session) Snapshot() (*pipeline.Analysis, error) {
	a := s.Current()
	if a == nil {
		return nil, errors.New(errors.ErrCodeNotFound, "no graph loaded")
	}
	return a, nil
}

// Select marks id as the selected node and returns its detail.
func (s *Session) Select(id string) (pipeline.NodeDetail, error) {
	a, err := s.Snapshot()
	if err != nil {
		return pipeline.NodeDetail{}, err
	}
	d, err := a.Detail(id)
	if err != nil {
		return pipeline.NodeDetail{}, err
	}
	s.selected.Store(&id)
	return d, nil
}

// Selected returns the selected node ID, if any.
func (s *Session) Selected() (string, bool) {
	sel := s.selected.Load()
	if sel == nil {
		return "", false
	}
	return *sel, true
}

// ClearSelection drops the selected node.
func (s *Session) ClearSelection() {
	s.selected.Store(nil)
}

// Runner returns the runner the session loads with.
func (s *Session) Runner() *pipeline.Runner { return s.runner }

// LastUsed returns when the session was last read or loaded.
func (s *Session) LastUsed() time.Time {
	return time.Unix(0, s.lastUsed.Load())
}

func (s *Session) touch() {
	s.lastUsed.Store(time.Now().UnixNano())
}

// Store keeps sessions by ID.
type Store struct {
	runner *pipeline.Runner
	opts   pipeline.Options
	ttl    time.Duration

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewStore creates a store whose sessions load with runner and opts.
// A non-positive ttl disables expiry.
func NewStore(runner *pipeline.Runner, opts pipeline.Options, ttl time.Duration) *Store {
	return &Store{
		runner:   runner,
		opts:     opts,
		ttl:      ttl,
		sessions: make(map[string]*Session),
	}
}

// Create loads r into a new session and stores it. If the load fails no
// session is stored.
func (st *Store) Create(ctx context.Context, r io.Reader) (*Session, error) {
	s := New(st.runner, st.opts)
	if _, err := s.Load(ctx, r); err != nil {
		return nil, err
	}
	st.mu.Lock()
	st.sessions[s.ID] = s
	st.mu.Unlock()
	return s, nil
}

// Get returns the session with the given ID or a SESSION_NOT_FOUND error.
func (st *Store) Get(id string) (*Session, error) {
	st.mu.RLock()
	s, ok := st.sessions[id]
	st.mu.RUnlock()
	if !ok || st.expired(s, time.Now()) {
		return nil, errors.New(errors.ErrCodeSessionNotFound, "session %q not found", id)
	}
	return s, nil
}

// Delete removes a session. Deleting an unknown ID is a SESSION_NOT_FOUND
// error.
func (st *Store) Delete(id string) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	if _, ok := st.sessions[id]; !ok {
		return errors.New(errors.ErrCodeSessionNotFound, "session %q not found", id)
	}
	delete(st.sessions, id)
	return nil
}

// Len returns the number of stored sessions, expired ones included until
// the next [Store.Cleanup].
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// Cleanup removes sessions idle for longer than the TTL and returns how
// many were removed.
func (st *Store) Cleanup(now time.Time) int {
	st.mu.Lock()
	defer st.mu.Unlock()
	removed := 0
	for id, s := range st.sessions {
		if st.expired(s, now) {
			delete(st.sessions, id)
			removed++
		}
	}
	return removed
}

// RunCleanup calls [Store.Cleanup] every interval until ctx is done.
func (st *Store) RunCleanup(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			st.Cleanup(now)
		}
	}
}

func (st *Store) expired(s *Session, now time.Time) bool {
	return st.ttl > 0 && now.Sub(s.LastUsed()) > st.ttl
}
