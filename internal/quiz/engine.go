package quiz

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mind-engage/grammaire/internal/bank"
	"github.com/mind-engage/grammaire/internal/grading"
)

var (
	ErrNoActiveSession  = errors.New("no active quiz session")
	ErrSessionCompleted = errors.New("quiz session is completed")
)

// CategorySource resolves category ids. *bank.Catalog implements it.
type CategorySource interface {
	Get(id string) (bank.Category, error)
}

type State int

const (
	Idle State = iota
	InProgress
	Completed
)

func (s State) String() string {
	switch s {
	case InProgress:
		return "in_progress"
	case Completed:
		return "completed"
	}
	return "idle"
}

func (s State) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Progress is 1-based; {0,0} when no session exists.
type Progress struct {
	Current int `json:"current"`
	Total   int `json:"total"`
}

// Session is the single quiz run owned by an Engine.
type Session struct {
	ID          string
	Category    bank.Category
	Cursor      int
	Answers     []grading.Answer
	StartedAt   time.Time
	CompletedAt time.Time
}

// Snapshot is a copy of the session suitable for callers outside the
// engine. Question is the learner-safe view of the current question.
type Snapshot struct {
	SessionID   string         `json:"session_id"`
	CategoryID  string         `json:"category_id"`
	Title       string         `json:"title"`
	Tip         string         `json:"tip,omitempty"`
	State       State          `json:"state"`
	Progress    Progress       `json:"progress"`
	Question    *bank.Record   `json:"question,omitempty"`
	Answer      grading.Answer `json:"answer"`
	StartedAt   time.Time      `json:"started_at"`
	CompletedAt *time.Time     `json:"completed_at,omitempty"`
}

// Engine drives one quiz session at a time. All methods are safe for
// concurrent use; none of them block on I/O.
type Engine struct {
	src   CategorySource
	ev    *grading.Evaluator
	now   func() time.Time
	newID func() string

	mu    sync.Mutex
	state State
	sess  *Session
	epoch uint64
}

type EngineOption func(*Engine)

func WithClock(now func() time.Time) EngineOption { return func(e *Engine) { e.now = now } }
func WithIDs(next func() string) EngineOption     { return func(e *Engine) { e.newID = next } }

func NewEngine(src CategorySource, ev *grading.Evaluator, opts ...EngineOption) *Engine {
	e := &Engine{
		src:   src,
		ev:    ev,
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Start begins a session on the category. On error the previous session, if
// any, is left untouched. A session already in progress is replaced.
func (e *Engine) Start(categoryID string) (Snapshot, error) {
	cat, err := e.resolve(categoryID)
	if err != nil {
		return Snapshot{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.beginLocked(cat)
	return e.snapshotLocked(), nil
}

// StartIfEpoch starts categoryID only when no Start or Reset has happened
// since Epoch returned epoch. It reports false, leaving the engine alone,
// when the learner has moved on in the meantime.
func (e *Engine) StartIfEpoch(categoryID string, epoch uint64) (Snapshot, bool, error) {
	cat, err := e.resolve(categoryID)
	if err != nil {
		return Snapshot{}, false, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.epoch != epoch {
		return Snapshot{}, false, nil
	}
	e.beginLocked(cat)
	return e.snapshotLocked(), true, nil
}

func (e *Engine) resolve(categoryID string) (bank.Category, error) {
	cat, err := e.src.Get(categoryID)
	if err != nil {
		return bank.Category{}, err
	}
	if err := bank.Validate(cat); err != nil {
		return bank.Category{}, fmt.Errorf("start %q: %w", categoryID, err)
	}
	return cat, nil
}

func (e *Engine) beginLocked(cat bank.Category) {
	e.sess = &Session{
		ID:        e.newID(),
		Category:  cat,
		Answers:   make([]grading.Answer, len(cat.Questions)),
		StartedAt: e.now(),
	}
	e.state = InProgress
	e.epoch++
}

// Reset restarts the current category from the first question.
func (e *Engine) Reset() (Snapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.sess == nil {
		return Snapshot{}, ErrNoActiveSession
	}
	e.beginLocked(e.sess.Category)
	return e.snapshotLocked(), nil
}

func (e *Engine) CurrentQuestion() (bank.Question, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.currentLocked()
}

func (e *Engine) currentLocked() (bank.Question, bool) {
	if e.state != InProgress {
		return nil, false
	}
	qs := e.sess.Category.Questions
	if e.sess.Cursor < 0 || e.sess.Cursor >= len(qs) {
		return nil, false
	}
	return qs[e.sess.Cursor], true
}

// SubmitAnswer stores a at the cursor, replacing any earlier answer, and
// returns the question it was stored against. The answer's shape is not
// checked here.
func (e *Engine) SubmitAnswer(a grading.Answer) (bank.Question, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	switch e.state {
	case Idle:
		return nil, ErrNoActiveSession
	case Completed:
		return nil, ErrSessionCompleted
	}
	e.sess.Answers[e.sess.Cursor] = a
	return e.sess.Category.Questions[e.sess.Cursor], nil
}

// Next advances the cursor. At the last question it completes the session
// and returns false.
func (e *Engine) Next() (bank.Question, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != InProgress {
		return nil, false
	}
	if e.sess.Cursor >= len(e.sess.Category.Questions)-1 {
		e.completeLocked()
		return nil, false
	}
	e.sess.Cursor++
	return e.currentLocked()
}

// Previous moves the cursor back. At the first question it is a no-op.
func (e *Engine) Previous() (bank.Question, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != InProgress || e.sess.Cursor == 0 {
		return nil, false
	}
	e.sess.Cursor--
	return e.currentLocked()
}

func (e *Engine) Progress() Progress {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.progressLocked()
}

func (e *Engine) progressLocked() Progress {
	if e.sess == nil {
		return Progress{}
	}
	total := len(e.sess.Category.Questions)
	if e.state == Completed {
		return Progress{Current: total, Total: total}
	}
	return Progress{Current: e.sess.Cursor + 1, Total: total}
}

func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Epoch changes every time a session starts or resets.
func (e *Engine) Epoch() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.epoch
}

func (e *Engine) Snapshot() (Snapshot, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.sess == nil {
		return Snapshot{}, false
	}
	return e.snapshotLocked(), true
}

// AnswerAt returns the stored answer for question i.
func (e *Engine) AnswerAt(i int) (grading.Answer, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.sess == nil || i < 0 || i >= len(e.sess.Answers) {
		return nil, false
	}
	return e.sess.Answers[i], true
}

// Finish completes the session if needed and scores it.
func (e *Engine) Finish() (Results, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.sess == nil {
		return Results{}, ErrNoActiveSession
	}
	if e.state == InProgress {
		e.completeLocked()
	}
	return e.scoreLocked(), nil
}

// Results scores the answers given so far without changing state.
func (e *Engine) Results() (Results, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.sess == nil {
		return Results{}, ErrNoActiveSession
	}
	return e.scoreLocked(), nil
}

func (e *Engine) completeLocked() {
	e.state = Completed
	e.sess.CompletedAt = e.now()
}

func (e *Engine) scoreLocked() Results {
	res := Score(e.sess.Category, e.sess.Answers, e.ev)
	res.SessionID = e.sess.ID
	res.StartedAt = e.sess.StartedAt
	res.CompletedAt = e.sess.CompletedAt
	return res
}

func (e *Engine) snapshotLocked() Snapshot {
	s := Snapshot{
		SessionID:  e.sess.ID,
		CategoryID: e.sess.Category.ID,
		Title:      e.sess.Category.Title,
		Tip:        e.sess.Category.Tip,
		State:      e.state,
		Progress:   e.progressLocked(),
		StartedAt:  e.sess.StartedAt,
	}
	if q, ok := e.currentLocked(); ok {
		r := bank.Redact(q)
		s.Question = &r
		s.Answer = e.sess.Answers[e.sess.Cursor]
	}
	if !e.sess.CompletedAt.IsZero() {
		t := e.sess.CompletedAt
		s.CompletedAt = &t
	}
	return s
}
