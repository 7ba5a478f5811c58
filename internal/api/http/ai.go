package http

import (
	"log"
	"net/http"
	"strings"

	"github.com/mind-engage/grammaire/internal/ai"
	"github.com/mind-engage/grammaire/internal/bank"
	"github.com/mind-engage/grammaire/internal/quiz"
	"github.com/mind-engage/grammaire/internal/report"
)

func (s *Server) aiReady(w http.ResponseWriter) bool {
	if s.d.Generator == nil || s.d.Tutor == nil {
		writeErr(w, ai.ErrNotConfigured)
		return false
	}
	return true
}

// POST /ai/quizzes  { "category_id": "...", "question_count": 5, "start": true }
//
// The generated category is added to the catalog. It is started only if the
// learner has not started or reset a session while the model was working.
func (s *Server) GenerateQuiz(w http.ResponseWriter, r *http.Request) {
	if !s.aiReady(w) {
		return
	}
	var req struct {
		CategoryID    string `json:"category_id"`
		QuestionCount int    `json:"question_count"`
		Start         bool   `json:"start"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.CategoryID == "" {
		http.Error(w, "category_id required", http.StatusBadRequest)
		return
	}
	epoch := s.d.Engine.Epoch()
	p, err := s.d.Tracker.Profile(r.Context())
	if err != nil {
		writeErr(w, err)
		return
	}
	cat, err := s.d.Generator.GenerateQuiz(r.Context(), req.CategoryID, req.QuestionCount, p)
	if err != nil {
		log.Printf("ai: generate %s: %v", req.CategoryID, err)
		writeAIErr(w, err)
		return
	}
	if err := s.d.Catalog.Put(cat); err != nil {
		writeErr(w, err)
		return
	}

	out := struct {
		Category bank.CategoryRecord `json:"category"`
		Started  bool                `json:"started"`
		Session  *quiz.Snapshot      `json:"session,omitempty"`
	}{Category: bank.RedactCategory(cat)}
	if req.Start {
		snap, ok, err := s.d.Engine.StartIfEpoch(cat.ID, epoch)
		if err != nil {
			writeErr(w, err)
			return
		}
		if ok {
			s.started(r.Context(), snap)
			out.Started, out.Session = true, &snap
		} else {
			log.Printf("ai: session changed while generating %s; not starting it", cat.ID)
		}
	}
	writeJSON(w, out)
}

// POST /ai/tutor  { "category_id": "..." }
func (s *Server) StartTutor(w http.ResponseWriter, r *http.Request) {
	if !s.aiReady(w) {
		return
	}
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
	p, err := s.d.Tracker.Profile(r.Context())
	if err != nil {
		writeErr(w, err)
		return
	}
	s.d.Tutor.Start(req.CategoryID, p)
	writeJSON(w, map[string]any{"started": true, "category_id": req.CategoryID})
}

// POST /ai/tutor/messages  { "message": "..." }
func (s *Server) SendTutor(w http.ResponseWriter, r *http.Request) {
	if !s.aiReady(w) {
		return
	}
	var req struct {
		Message string `json:"message"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		http.Error(w, "message required", http.StatusBadRequest)
		return
	}
	reply, err := s.d.Tutor.Send(r.Context(), req.Message)
	if err != nil {
		writeAIErr(w, err)
		return
	}
	writeJSON(w, reply)
}

// GET /ai/tutor/messages
func (s *Server) TutorHistory(w http.ResponseWriter, r *http.Request) {
	if !s.aiReady(w) {
		return
	}
	h := s.d.Tutor.History()
	if h == nil {
		h = []ai.Turn{}
	}
	writeJSON(w, h)
}

// POST /ai/analyze  analyses the stored answer to the current question.
func (s *Server) Analyze(w http.ResponseWriter, r *http.Request) {
	if !s.aiReady(w) {
		return
	}
	snap, ok := s.d.Engine.Snapshot()
	if !ok {
		writeErr(w, quiz.ErrNoActiveSession)
		return
	}
	q, ok := s.d.Engine.CurrentQuestion()
	if !ok {
		writeErr(w, quiz.ErrSessionCompleted)
		return
	}
	h, err := s.d.Tracker.History(r.Context())
	if err != nil {
		writeErr(w, err)
		return
	}
	text, err := s.d.Generator.AnalyzeAnswer(r.Context(),
		q.Prompt(),
		report.FormatAnswer(snap.Answer),
		report.FormatAnswer(quiz.CorrectAnswer(q)),
		len(h))
	if err != nil {
		writeAIErr(w, err)
		return
	}
	writeJSON(w, ai.Turn{Role: ai.RoleModel, Text: text})
}
