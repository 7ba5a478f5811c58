package learner

import (
	"context"
	"errors"
	"sync"

	"github.com/mind-engage/grammaire/internal/quiz"
)

const DefaultHistoryLimit = 10

// Tracker records finished sessions and keeps the learner profile derived
// from them.
type Tracker struct {
	store        Store
	limit        int
	defaultLevel Level

	mu sync.Mutex // serializes read-modify-write on the store
}

type TrackerOption func(*Tracker)

func WithHistoryLimit(n int) TrackerOption {
	return func(t *Tracker) {
		if n > 0 {
			t.limit = n
		}
	}
}

func WithDefaultLevel(l Level) TrackerOption { return func(t *Tracker) { t.defaultLevel = l } }

func NewTracker(s Store, opts ...TrackerOption) *Tracker {
	t := &Tracker{store: s, limit: DefaultHistoryLimit, defaultLevel: Beginner}
	for _, o := range opts {
		o(t)
	}
	return t
}

// Record appends r to the history, keeps the most recent results up to the
// limit and re-derives strengths and weaknesses.
func (t *Tracker) Record(ctx context.Context, r quiz.SessionResult) (Profile, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	h, err := t.store.LoadHistory(ctx)
	if err != nil {
		return Profile{}, err
	}
	h = append(h, r)
	if len(h) > t.limit {
		h = h[len(h)-t.limit:]
	}
	if err := t.store.SaveHistory(ctx, h); err != nil {
		return Profile{}, err
	}
	p, err := t.loadProfile(ctx)
	if err != nil {
		return Profile{}, err
	}
	p.Strengths, p.Weaknesses = Analyze(h)
	if err := t.store.SaveProfile(ctx, p); err != nil {
		return Profile{}, err
	}
	p.History = h
	return p, nil
}

// Profile returns the stored profile with its history.
func (t *Tracker) Profile(ctx context.Context) (Profile, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	p, err := t.loadProfile(ctx)
	if err != nil {
		return Profile{}, err
	}
	if p.History, err = t.store.LoadHistory(ctx); err != nil {
		return Profile{}, err
	}
	return p, nil
}

func (t *Tracker) History(ctx context.Context) ([]quiz.SessionResult, error) {
	return t.store.LoadHistory(ctx)
}

func (t *Tracker) SetLevel(ctx context.Context, l Level) (Profile, error) {
	if _, err := ParseLevel(string(l)); err != nil {
		return Profile{}, err
	}
	t.mu.Lock()
	p, err := t.loadProfile(ctx)
	if err == nil {
		p.ProficiencyLevel = l
		err = t.store.SaveProfile(ctx, p)
	}
	t.mu.Unlock()
	if err != nil {
		return Profile{}, err
	}
	return t.Profile(ctx)
}

func (t *Tracker) loadProfile(ctx context.Context) (Profile, error) {
	p, err := t.store.LoadProfile(ctx)
	if errors.Is(err, ErrNoProfile) {
		return Profile{ProficiencyLevel: t.defaultLevel}, nil
	}
	if err != nil {
		return Profile{}, err
	}
	if p.ProficiencyLevel == "" {
		p.ProficiencyLevel = t.defaultLevel
	}
	return p, nil
}
