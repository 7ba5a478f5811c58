package learner

import (
	"context"
	"sync"

	"github.com/mind-engage/grammaire/internal/quiz"
)

// Store persists the single learner's history and profile.
type Store interface {
	LoadHistory(ctx context.Context) ([]quiz.SessionResult, error)
	SaveHistory(ctx context.Context, h []quiz.SessionResult) error
	// LoadProfile returns ErrNoProfile when nothing has been saved yet.
	// The returned profile carries no history.
	LoadProfile(ctx context.Context) (Profile, error)
	SaveProfile(ctx context.Context, p Profile) error
}

type memoryStore struct {
	mu      sync.RWMutex
	history []quiz.SessionResult
	profile *Profile
}

func NewMemoryStore() Store {
	return &memoryStore{}
}

func (m *memoryStore) LoadHistory(context.Context) ([]quiz.SessionResult, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]quiz.SessionResult(nil), m.history...), nil
}

func (m *memoryStore) SaveHistory(_ context.Context, h []quiz.SessionResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.history = append([]quiz.SessionResult(nil), h...)
	return nil
}

func (m *memoryStore) LoadProfile(context.Context) (Profile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.profile == nil {
		return Profile{}, ErrNoProfile
	}
	p := *m.profile
	p.Strengths = append([]string(nil), p.Strengths...)
	p.Weaknesses = append([]string(nil), p.Weaknesses...)
	return p, nil
}

func (m *memoryStore) SaveProfile(_ context.Context, p Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p.History = nil
	p.Strengths = append([]string(nil), p.Strengths...)
	p.Weaknesses = append([]string(nil), p.Weaknesses...)
	m.profile = &p
	return nil
}
