package learner_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/mind-engage/grammaire/internal/db"
	"github.com/mind-engage/grammaire/internal/learner"
	"github.com/mind-engage/grammaire/internal/quiz"
)

func result(cat string, correct, total int, i int) quiz.SessionResult {
	return quiz.SessionResult{
		CategoryID:   cat,
		SessionID:    fmt.Sprintf("s%d", i),
		Score:        quiz.Percent(correct, total),
		CorrectCount: correct,
		TotalCount:   total,
		Timestamp:    time.Date(2026, 3, 1, 10, i, 0, 0, time.UTC),
	}
}

func TestAnalyzeThresholds(t *testing.T) {
	h := []quiz.SessionResult{
		result("telling-time", 4, 5, 1), result("telling-time", 3, 4, 2), // avg 0.775
		result("subject-verb", 1, 5, 3), result("subject-verb", 2, 5, 4), // avg 0.3
		result("matching-articles", 5, 5, 5),                             // only one result
		result("writing-practice", 3, 5, 6), result("writing-practice", 3, 5, 7), // avg 0.6, neither
		result("free-writing", 0, 0, 8), result("free-writing", 0, 0, 9), // nothing graded
	}
	s, w := learner.Analyze(h)
	if len(s) != 1 || s[0] != "telling-time" {
		t.Errorf("strengths = %v", s)
	}
	if len(w) != 1 || w[0] != "subject-verb" {
		t.Errorf("weaknesses = %v", w)
	}
}

func TestParseLevel(t *testing.T) {
	if l, err := learner.ParseLevel(" Advanced "); err != nil || l != learner.Advanced {
		t.Fatalf("ParseLevel = %q, %v", l, err)
	}
	if _, err := learner.ParseLevel("expert"); !errors.Is(err, learner.ErrUnknownLevel) {
		t.Fatalf("err = %v", err)
	}
}

func openSQLite(t *testing.T) learner.Store {
	t.Helper()
	ctx := context.Background()
	conn, err := db.Open(ctx, db.DriverSQLite, "file::memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return learner.NewSQLStore(conn)
}

func TestTracker(t *testing.T) {
	stores := map[string]func(t *testing.T) learner.Store{
		"memory": func(*testing.T) learner.Store { return learner.NewMemoryStore() },
		"sqlite": openSQLite,
	}
	for name, mk := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			tr := learner.NewTracker(mk(t), learner.WithDefaultLevel(learner.Intermediate))

			p, err := tr.Profile(ctx)
			if err != nil {
				t.Fatal(err)
			}
			if p.ProficiencyLevel != learner.Intermediate || len(p.History) != 0 {
				t.Fatalf("fresh profile = %+v", p)
			}

			for i := 0; i < 12; i++ {
				if p, err = tr.Record(ctx, result("telling-time", 4, 5, i)); err != nil {
					t.Fatalf("record %d: %v", i, err)
				}
			}
			if len(p.History) != learner.DefaultHistoryLimit {
				t.Fatalf("history len = %d, want %d", len(p.History), learner.DefaultHistoryLimit)
			}
			if p.History[0].SessionID != "s2" || p.History[9].SessionID != "s11" {
				t.Fatalf("history kept the wrong window: first %s last %s", p.History[0].SessionID, p.History[9].SessionID)
			}
			if len(p.Strengths) != 1 || p.Strengths[0] != "telling-time" {
				t.Fatalf("strengths = %v", p.Strengths)
			}

			if _, err := tr.SetLevel(ctx, "expert"); !errors.Is(err, learner.ErrUnknownLevel) {
				t.Fatalf("SetLevel err = %v", err)
			}
			p, err = tr.SetLevel(ctx, learner.Advanced)
			if err != nil {
				t.Fatal(err)
			}
			if p.ProficiencyLevel != learner.Advanced || len(p.Strengths) != 1 || len(p.History) != 10 {
				t.Fatalf("after SetLevel = %+v", p)
			}
			got, err := tr.History(ctx)
			if err != nil {
				t.Fatal(err)
			}
			if !got[9].Timestamp.Equal(result("", 0, 0, 11).Timestamp) {
				t.Fatalf("timestamp round trip = %v", got[9].Timestamp)
			}
		})
	}
}

func TestHistoryLimitOption(t *testing.T) {
	ctx := context.Background()
	tr := learner.NewTracker(learner.NewMemoryStore(), learner.WithHistoryLimit(3))
	var p learner.Profile
	var err error
	for i := 0; i < 5; i++ {
		if p, err = tr.Record(ctx, result("subject-verb", 1, 5, i)); err != nil {
			t.Fatal(err)
		}
	}
	if len(p.History) != 3 || len(p.Weaknesses) != 1 {
		t.Fatalf("profile = %+v", p)
	}
}
