package server

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/cobuy/pkg/buildinfo"
	"github.com/matzehuels/cobuy/pkg/core/graph"
	"github.com/matzehuels/cobuy/pkg/core/metrics"
	"github.com/matzehuels/cobuy/pkg/errors"
	"github.com/matzehuels/cobuy/pkg/pipeline"
	"github.com/matzehuels/cobuy/pkg/session"
)

type sessionResponse struct {
	ID    string        `json:"id"`
	Stats metrics.Stats `json:"stats"`
}

type relatedResponse struct {
	ID      string   `json:"id"`
	Related []string `json:"related"`
}

type errorResponse struct {
	Code  errors.Code `json:"code"`
	Error string      `json:"error"`
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"version":  buildinfo.Version,
		"sessions": s.store.Len(),
	})
}

// POST /sessions
func (s *Server) createSession(w http.ResponseWriter, r *http.Request) {
	body := http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	sess, err := s.store.Create(r.Context(), body)
	if err != nil {
		s.writeError(w, err)
		return
	}
	a := sess.Current()
	s.logger.Info("session created", "session", sess.ID, "nodes", a.Stats.NodeCount, "links", a.Stats.LinkCount)
	writeJSON(w, http.StatusCreated, sessionResponse{ID: sess.ID, Stats: a.Stats})
}

// DELETE /sessions/{sid}
func (s *Server) deleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(chi.URLParam(r, "sid")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PUT /sessions/{sid}/graph
func (s *Server) replaceGraph(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	body := http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	a, err := sess.Load(r.Context(), body)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{ID: sess.ID, Stats: a.Stats})
}

// GET /sessions/{sid}/stats
func (s *Server) stats(w http.ResponseWriter, r *http.Request) {
	a, ok := s.snapshot(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, a.Stats)
}

// GET /sessions/{sid}/nodes/{id}
func (s *Server) nodeDetail(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	id, ok := s.nodeID(w, r)
	if !ok {
		return
	}
	d, err := sess.Select(id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// GET /sessions/{sid}/selection
func (s *Server) selection(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	id, ok := sess.Selected()
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse{Code: errors.ErrCodeNotFound, Error: "no node selected"})
		return
	}
	a, err := sess.Snapshot()
	if err != nil {
		s.writeError(w, err)
		return
	}
	d, err := a.Detail(id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// DELETE /sessions/{sid}/selection
func (s *Server) clearSelection(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	sess.ClearSelection()
	w.WriteHeader(http.StatusNoContent)
}

// GET /sessions/{sid}/nodes/{id}/tree?depth=N
func (s *Server) tree(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	a, err := sess.Snapshot()
	if err != nil {
		s.writeError(w, err)
		return
	}
	id, ok := s.nodeID(w, r)
	if !ok {
		return
	}
	depth, ok := s.intParam(w, r, "depth")
	if !ok {
		return
	}
	tree, err := sess.Runner().Hierarchy(r.Context(), a, id, depth)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tree)
}

// GET /sessions/{sid}/nodes/{id}/related
func (s *Server) related(w http.ResponseWriter, r *http.Request) {
	a, ok := s.snapshot(w, r)
	if !ok {
		return
	}
	id, ok := s.nodeID(w, r)
	if !ok {
		return
	}
	related, err := a.Related(id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, relatedResponse{ID: id, Related: related})
}

// GET /sessions/{sid}/search?q=...
func (s *Server) search(w http.ResponseWriter, r *http.Request) {
	a, ok := s.snapshot(w, r)
	if !ok {
		return
	}
	q := r.URL.Query().Get("q")
	if err := errors.ValidateQuery(q); err != nil {
		s.writeError(w, err)
		return
	}
	n, found := a.Search(q)
	if !found {
		writeJSON(w, http.StatusNotFound, errorResponse{Code: errors.ErrCodeNotFound, Error: "no match"})
		return
	}
	writeJSON(w, http.StatusOK, n)
}

// GET /sessions/{sid}/matches?q=...&limit=N
func (s *Server) matches(w http.ResponseWriter, r *http.Request) {
	a, ok := s.snapshot(w, r)
	if !ok {
		return
	}
	q := r.URL.Query().Get("q")
	if err := errors.ValidateQuery(q); err != nil {
		s.writeError(w, err)
		return
	}
	limit, ok := s.intParam(w, r, "limit")
	if !ok {
		return
	}
	nodes := a.SearchAll(q, limit)
	if nodes == nil {
		nodes = []graph.Node{}
	}
	writeJSON(w, http.StatusOK, nodes)
}

// GET /sessions/{sid}/top?by=degree|pagerank&n=N
func (s *Server) top(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	a, err := sess.Snapshot()
	if err != nil {
		s.writeError(w, err)
		return
	}
	by := r.URL.Query().Get("by")
	if by == "" {
		by = pipeline.RankByDegree
	}
	if err := pipeline.ValidateRanking(by); err != nil {
		s.writeError(w, err)
		return
	}
	n, ok := s.intParam(w, r, "n")
	if !ok {
		return
	}
	if by == pipeline.RankByPageRank {
		writeJSON(w, http.StatusOK, sess.Runner().TopByPageRank(r.Context(), a, n))
		return
	}
	writeJSON(w, http.StatusOK, a.TopByDegree(n))
}

// =============================================================================
// Helpers
// =============================================================================

func (s *Server) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess, err := s.store.Get(chi.URLParam(r, "sid"))
	if err != nil {
		s.writeError(w, err)
		return nil, false
	}
	return sess, true
}

func (s *Server) snapshot(w http.ResponseWriter, r *http.Request) (*pipeline.Analysis, bool) {
	sess, ok := s.session(w, r)
	if !ok {
		return nil, false
	}
	a, err := sess.Snapshot()
	if err != nil {
		s.writeError(w, err)
		return nil, false
	}
	return a, true
}

func (s *Server) nodeID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := chi.URLParam(r, "id")
	if err := errors.ValidateNodeID(id); err != nil {
		s.writeError(w, err)
		return "", false
	}
	return id, true
}

// intParam parses an optional non-negative integer query parameter; absent
// means 0.
func (s *Server) intParam(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		s.writeError(w, errors.New(errors.ErrCodeInvalidInput, "%s must be a non-negative integer, got %q", name, raw))
		return 0, false
	}
	return v, true
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	var tooLarge *http.MaxBytesError
	if stderrors.As(err, &tooLarge) {
		err = errors.New(errors.ErrCodeTooLarge, "document exceeds %d bytes", tooLarge.Limit)
	}
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	status := errors.HTTPStatus(code)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request error", "error", err)
	}
	writeJSON(w, status, errorResponse{Code: code, Error: errors.UserMessage(err)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
