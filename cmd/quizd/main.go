package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/mind-engage/grammaire/internal/ai"
	api "github.com/mind-engage/grammaire/internal/api/http"
	auth "github.com/mind-engage/grammaire/internal/auth/middleware"
	"github.com/mind-engage/grammaire/internal/bank"
	"github.com/mind-engage/grammaire/internal/config"
	"github.com/mind-engage/grammaire/internal/db"
	"github.com/mind-engage/grammaire/internal/grading"
	"github.com/mind-engage/grammaire/internal/learner"
	"github.com/mind-engage/grammaire/internal/quiz"
	storage "github.com/mind-engage/grammaire/internal/storage"
	syncx "github.com/mind-engage/grammaire/internal/sync"
)

func main() {
	cfg := config.FromEnv()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- DB ---
	openCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	dbh, err := db.Open(openCtx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	cancel()
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}
	defer dbh.Close()

	// --- Question bank ---
	catalog, err := bank.Default()
	if err != nil {
		log.Fatalf("built-in catalog: %v", err)
	}
	if cfg.CatalogPath != "" {
		if err := catalog.LoadFile(cfg.CatalogPath); err != nil {
			log.Fatalf("catalog %s: %v", cfg.CatalogPath, err)
		}
	}
	log.Printf("catalog: %d categories", catalog.Len())

	// --- Learner ---
	level, err := learner.ParseLevel(cfg.ProficiencyLevel)
	if err != nil {
		log.Printf("config: %v; using %s", err, learner.Beginner)
		level = learner.Beginner
	}
	tracker := learner.NewTracker(learner.NewSQLStore(dbh),
		learner.WithHistoryLimit(cfg.HistoryLimit),
		learner.WithDefaultLevel(level),
	)

	ev := grading.NewEvaluator()
	engine := quiz.NewEngine(catalog, ev)

	reports, err := storage.NewFSStore(cfg.ReportBasePath)
	if err != nil {
		log.Fatalf("report store: %v", err)
	}

	deps := api.Deps{
		Catalog:     catalog,
		Engine:      engine,
		Evaluator:   ev,
		Tracker:     tracker,
		Events:      syncx.NewEventRepo(dbh),
		Reports:     reports,
		DB:          dbh,
		CORSOrigins: cfg.CORSOrigins,
		Timeout:     cfg.AITimeout + 15*time.Second,
	}

	// --- AI (optional) ---
	if cfg.AIEnabled() {
		gem, err := ai.NewGeminiClient(ai.GeminiConfig{
			APIKey:  cfg.GeminiAPIKey,
			Model:   cfg.GeminiModel,
			BaseURL: cfg.GeminiBaseURL,
			Timeout: cfg.AITimeout,
		})
		if err != nil {
			log.Fatalf("ai: %v", err)
		}
		if cfg.AIPingOnStart {
			pingCtx, cancel := context.WithTimeout(ctx, cfg.AITimeout)
			if err := gem.Ping(pingCtx); err != nil {
				log.Printf("ai: ping %s failed: %v", gem.Model(), err)
			}
			cancel()
		}
		deps.Generator = ai.NewGenerator(gem)
		deps.Tutor = ai.NewTutor(gem)
		log.Printf("ai: enabled (model=%s)", gem.Model())
	} else {
		log.Printf("ai: disabled (GEMINI_API_KEY not set)")
	}

	// --- Auth (optional) ---
	if cfg.EnableAuth {
		if cfg.LearnerPassHash == "" {
			log.Fatalf("auth: ENABLE_AUTH requires LEARNER_PASS_HASH")
		}
		deps.Auth = auth.NewAuthService(cfg.AuthHMACSecret, cfg.LearnerUser, cfg.LearnerPassHash)
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           api.NewServer(deps).Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutCtx)
	}()

	log.Printf("listening on %s (db=%s, auth=%t)", cfg.HTTPAddr, cfg.DBDriver, cfg.EnableAuth)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}
