package http

import (
	"context"
	"database/sql"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/mind-engage/grammaire/internal/ai"
	authmw "github.com/mind-engage/grammaire/internal/auth/middleware"
	"github.com/mind-engage/grammaire/internal/bank"
	"github.com/mind-engage/grammaire/internal/grading"
	"github.com/mind-engage/grammaire/internal/learner"
	"github.com/mind-engage/grammaire/internal/quiz"
	"github.com/mind-engage/grammaire/internal/storage"
	syncx "github.com/mind-engage/grammaire/internal/sync"
)

// EventLog receives quiz lifecycle events and replays them to clients.
type EventLog interface {
	AppendJSON(ctx context.Context, typ, key string, data any) error
	Since(ctx context.Context, after int64, limit int) ([]syncx.Event, error)
}

// Deps are the collaborators behind the HTTP API. Events, Reports, DB,
// Generator, Tutor and Auth are optional.
type Deps struct {
	Catalog   *bank.Catalog
	Engine    *quiz.Engine
	Evaluator *grading.Evaluator
	Tracker   *learner.Tracker

	Events  EventLog
	Reports storage.BlobStore
	DB      *sql.DB

	Generator *ai.Generator
	Tutor     *ai.Tutor

	Auth        *authmw.AuthService
	CORSOrigins []string
	Timeout     time.Duration
	Now         func() time.Time
}

type Server struct {
	d Deps

	mu           sync.Mutex
	lastRecorded string // session id whose results went to the tracker
}

func NewServer(d Deps) *Server {
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.Timeout <= 0 {
		d.Timeout = 60 * time.Second
	}
	return &Server{d: d}
}

// Routes builds the router with the request middleware stack.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(s.d.Timeout))
	if len(s.d.CORSOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   s.d.CORSOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
			AllowedHeaders:   []string{"Authorization", "Content-Type"},
			ExposedHeaders:   []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", s.ready)

	if s.d.Auth != nil {
		r.Post("/auth/login", authmw.LoginHandler(s.d.Auth))
	}

	r.Get("/categories", ListCategoriesHandler(s.d.Catalog))
	r.Get("/categories/{categoryID}", GetCategoryHandler(s.d.Catalog))

	r.Group(func(pr chi.Router) {
		if s.d.Auth != nil {
			pr.Use(authmw.JWTMiddleware(s.d.Auth))
		}

		pr.Route("/session", func(sr chi.Router) {
			sr.Post("/", s.StartSession)
			sr.Get("/", s.GetSession)
			sr.Put("/answer", s.SubmitAnswer)
			sr.Post("/next", s.Next)
			sr.Post("/previous", s.Previous)
			sr.Post("/reset", s.Reset)
			sr.Post("/finish", s.Finish)
			sr.Get("/results", s.Results)
			sr.Get("/report", s.Report)
		})

		pr.Route("/learner", func(lr chi.Router) {
			lr.Get("/profile", s.GetProfile)
			lr.Put("/profile", s.PutProfile)
			lr.Get("/history", s.GetHistory)
			lr.Get("/events", s.GetEvents)
		})

		pr.Route("/ai", func(ar chi.Router) {
			ar.Post("/quizzes", s.GenerateQuiz)
			ar.Post("/tutor", s.StartTutor)
			ar.Post("/tutor/messages", s.SendTutor)
			ar.Get("/tutor/messages", s.TutorHistory)
			ar.Post("/analyze", s.Analyze)
		})
	})
	return r
}

func (s *Server) ready(w http.ResponseWriter, r *http.Request) {
	if s.d.DB != nil {
		if err := s.d.DB.PingContext(r.Context()); err != nil {
			http.Error(w, "db: "+err.Error(), http.StatusServiceUnavailable)
			return
		}
	}
	w.WriteHeader(200)
}
