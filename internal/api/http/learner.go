package http

import (
	"net/http"
	"strconv"

	"github.com/mind-engage/grammaire/internal/learner"
	"github.com/mind-engage/grammaire/internal/quiz"
	syncx "github.com/mind-engage/grammaire/internal/sync"
)

// GET /learner/profile
func (s *Server) GetProfile(w http.ResponseWriter, r *http.Request) {
	p, err := s.d.Tracker.Profile(r.Context())
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, p)
}

// PUT /learner/profile  { "proficiency_level": "beginner|intermediate|advanced" }
func (s *Server) PutProfile(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProficiencyLevel string `json:"proficiency_level"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	l, err := learner.ParseLevel(req.ProficiencyLevel)
	if err != nil {
		writeErr(w, err)
		return
	}
	p, err := s.d.Tracker.SetLevel(r.Context(), l)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, p)
}

// GET /learner/history
func (s *Server) GetHistory(w http.ResponseWriter, r *http.Request) {
	h, err := s.d.Tracker.History(r.Context())
	if err != nil {
		writeErr(w, err)
		return
	}
	if h == nil {
		h = []quiz.SessionResult{}
	}
	writeJSON(w, h)
}

// GET /learner/events?after=<seq>&limit=<n>
func (s *Server) GetEvents(w http.ResponseWriter, r *http.Request) {
	if s.d.Events == nil {
		writeJSON(w, []syncx.Event{})
		return
	}
	q := r.URL.Query()
	var after int64
	if v := q.Get("after"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n < 0 {
			http.Error(w, "after must be a non-negative integer", http.StatusBadRequest)
			return
		}
		after = n
	}
	limit := 0
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 500 {
			http.Error(w, "limit must be between 1 and 500", http.StatusBadRequest)
			return
		}
		limit = n
	}
	evs, err := s.d.Events.Since(r.Context(), after, limit)
	if err != nil {
		writeErr(w, err)
		return
	}
	if evs == nil {
		evs = []syncx.Event{}
	}
	writeJSON(w, evs)
}
