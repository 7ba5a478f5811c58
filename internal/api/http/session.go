package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	authmw "github.com/mind-engage/grammaire/internal/auth/middleware"
	"github.com/mind-engage/grammaire/internal/bank"
	"github.com/mind-engage/grammaire/internal/grading"
	"github.com/mind-engage/grammaire/internal/quiz"
	"github.com/mind-engage/grammaire/internal/report"
	"github.com/mind-engage/grammaire/internal/storage"
	syncx "github.com/mind-engage/grammaire/internal/sync"
)

// POST /session  { "category_id": "..." }
func (s *Server) StartSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CategoryID string `json:"category_id"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.CategoryID == "" {
		http.Error(w, "category_id required", http.StatusBadRequest)
		return
	}
	snap, err := s.d.Engine.Start(req.CategoryID)
	if err != nil {
		writeErr(w, err)
		return
	}
	s.started(r.Context(), snap)
	writeJSON(w, snap)
}

func (s *Server) started(ctx context.Context, snap quiz.Snapshot) {
	data := map[string]string{"category_id": snap.CategoryID}
	if sub := authmw.SubjectFromContext(ctx); sub != "" {
		data["learner"] = sub
	}
	s.appendEvent(ctx, syncx.QuizStarted, snap.SessionID, data)
}

// completedEvent is the QuizCompleted payload.
type completedEvent struct {
	Learner string `json:"learner,omitempty"`
	quiz.SessionResult
}

// GET /session
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.d.Engine.Snapshot()
	if !ok {
		writeErr(w, quiz.ErrNoActiveSession)
		return
	}
	writeJSON(w, snap)
}

// PUT /session/answer  { "answer": <string | [string] | {string:string} | null> }
// The verdict is immediate feedback; scoring happens again on finish.
func (s *Server) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Answer json.RawMessage `json:"answer"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	a, err := grading.DecodeAnswer(req.Answer)
	if err != nil {
		writeErr(w, err)
		return
	}
	q, err := s.d.Engine.SubmitAnswer(a)
	if err != nil {
		writeErr(w, err)
		return
	}
	v := s.d.Evaluator.Evaluate(q, a)
	writeJSON(w, struct {
		QuestionID string          `json:"question_id"`
		Progress   quiz.Progress   `json:"progress"`
		Verdict    grading.Verdict `json:"verdict"`
	}{QuestionID: q.QuestionID(), Progress: s.d.Engine.Progress(), Verdict: v})
}

type stepResponse struct {
	Question *bank.Record  `json:"question,omitempty"`
	Progress quiz.Progress `json:"progress"`
	Done     bool          `json:"done,omitempty"`
	AtStart  bool          `json:"at_start,omitempty"`
}

func step(q bank.Question, p quiz.Progress) stepResponse {
	rec := bank.Redact(q)
	return stepResponse{Question: &rec, Progress: p}
}

// POST /session/next
func (s *Server) Next(w http.ResponseWriter, r *http.Request) {
	if s.d.Engine.State() == quiz.Idle {
		writeErr(w, quiz.ErrNoActiveSession)
		return
	}
	q, ok := s.d.Engine.Next()
	if !ok {
		writeJSON(w, stepResponse{Progress: s.d.Engine.Progress(), Done: true})
		return
	}
	writeJSON(w, step(q, s.d.Engine.Progress()))
}

// POST /session/previous
func (s *Server) Previous(w http.ResponseWriter, r *http.Request) {
	switch s.d.Engine.State() {
	case quiz.Idle:
		writeErr(w, quiz.ErrNoActiveSession)
		return
	case quiz.Completed:
		writeErr(w, quiz.ErrSessionCompleted)
		return
	}
	q, ok := s.d.Engine.Previous()
	if !ok {
		resp := stepResponse{Progress: s.d.Engine.Progress()}
		if cur, ok := s.d.Engine.CurrentQuestion(); ok {
			resp = step(cur, resp.Progress)
		}
		resp.AtStart = true
		writeJSON(w, resp)
		return
	}
	writeJSON(w, step(q, s.d.Engine.Progress()))
}

// POST /session/reset
func (s *Server) Reset(w http.ResponseWriter, r *http.Request) {
	snap, err := s.d.Engine.Reset()
	if err != nil {
		writeErr(w, err)
		return
	}
	s.started(r.Context(), snap)
	writeJSON(w, snap)
}

// POST /session/finish
func (s *Server) Finish(w http.ResponseWriter, r *http.Request) {
	res, err := s.d.Engine.Finish()
	if err != nil {
		writeErr(w, err)
		return
	}
	s.complete(r.Context(), res)
	writeJSON(w, res)
}

// GET /session/results
func (s *Server) Results(w http.ResponseWriter, r *http.Request) {
	res, err := s.d.Engine.Results()
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, res)
}

// GET /session/report
func (s *Server) Report(w http.ResponseWriter, r *http.Request) {
	res, err := s.d.Engine.Results()
	if err != nil {
		writeErr(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `inline; filename="`+res.SessionID+`.pdf"`)
	if s.d.Reports != nil {
		rc, err := s.d.Reports.Get(storage.ReportKey(res.SessionID))
		if err == nil {
			defer rc.Close()
			_, _ = io.Copy(w, rc)
			return
		}
		if !errors.Is(err, storage.ErrNotFound) {
			log.Printf("report %s: %v", res.SessionID, err)
		}
	}
	var buf bytes.Buffer
	if err := report.Render(&buf, res, s.d.Now()); err != nil {
		w.Header().Del("Content-Disposition")
		http.Error(w, "render report: "+err.Error(), http.StatusInternalServerError)
		return
	}
	_, _ = w.Write(buf.Bytes())
}

// complete runs the once-per-session side effects of a finished quiz.
// Failures are logged; the learner still gets the results.
func (s *Server) complete(ctx context.Context, res quiz.Results) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if res.SessionID == s.lastRecorded {
		return
	}
	sr := res.SessionResult(s.d.Now())
	if s.d.Tracker != nil {
		if _, err := s.d.Tracker.Record(ctx, sr); err != nil {
			log.Printf("record history %s: %v", res.SessionID, err)
			return
		}
	}
	s.lastRecorded = res.SessionID
	s.appendEvent(ctx, syncx.QuizCompleted, res.SessionID, completedEvent{
		Learner:       authmw.SubjectFromContext(ctx),
		SessionResult: sr,
	})

	if s.d.Reports == nil {
		return
	}
	var buf bytes.Buffer
	if err := report.Render(&buf, res, s.d.Now()); err != nil {
		log.Printf("render report %s: %v", res.SessionID, err)
		return
	}
	if _, err := s.d.Reports.Put(storage.ReportKey(res.SessionID), &buf); err != nil {
		log.Printf("store report %s: %v", res.SessionID, err)
	}
}

func (s *Server) appendEvent(ctx context.Context, typ, key string, data any) {
	if s.d.Events == nil {
		return
	}
	if err := s.d.Events.AppendJSON(ctx, typ, key, data); err != nil {
		log.Printf("event %s %s: %v", typ, key, err)
	}
}
