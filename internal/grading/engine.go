package grading

import (
	"errors"
	"fmt"

	"github.com/mind-engage/grammaire/internal/bank"
)

var ErrEvaluation = errors.New("answer does not fit question")

// Part is the verdict for one blank or one matching pair.
type Part struct {
	ID       string `json:"id"`
	Given    string `json:"given"`
	Expected string `json:"expected"`
	Correct  bool   `json:"correct"`
}

// Verdict is the outcome of evaluating a single answer.
type Verdict struct {
	Kind        bank.Kind `json:"type"`
	Answered    bool      `json:"answered"`
	Correct     bool      `json:"correct"`
	Gradable    bool      `json:"gradable"`
	Blanks      []Part    `json:"blanks,omitempty"`
	Pairs       []Part    `json:"pairs,omitempty"`
	WordCount   int       `json:"word_count,omitempty"`
	WithinRange bool      `json:"within_range,omitempty"`
	Feedback    []string  `json:"feedback,omitempty"`
	Err         error     `json:"-"`
}

// strategy evaluates one question kind.
type strategy interface {
	evaluate(q bank.Question, a Answer) Verdict
}

// Evaluator routes by question kind to the matching strategy.
type Evaluator struct {
	strategies map[bank.Kind]strategy
}

type Option func(*config)

type config struct {
	MaxEditDistance int // near-miss feedback threshold; 0 disables it
}

func WithMaxEditDistance(n int) Option { return func(c *config) { c.MaxEditDistance = n } }

// NewEvaluator installs a strategy for every kind in bank.Kinds.
func NewEvaluator(opts ...Option) *Evaluator {
	cfg := &config{MaxEditDistance: 1}
	for _, o := range opts {
		o(cfg)
	}
	return &Evaluator{
		strategies: map[bank.Kind]strategy{
			bank.KindMultipleChoice: multipleChoiceStrategy{},
			bank.KindFillInBlank:    fillInBlankStrategy{maxEdit: cfg.MaxEditDistance},
			bank.KindTextInput:      textInputStrategy{maxEdit: cfg.MaxEditDistance},
			bank.KindMatching:       matchingStrategy{},
			bank.KindFreeWriting:    freeWritingStrategy{},
		},
	}
}

// Evaluate grades a against q. It never fails outright: an answer of the
// wrong shape is incorrect and the verdict carries an error wrapping
// ErrEvaluation.
func (e *Evaluator) Evaluate(q bank.Question, a Answer) Verdict {
	if q == nil {
		return Verdict{Err: fmt.Errorf("%w: no question", ErrEvaluation)}
	}
	s, ok := e.strategies[q.Kind()]
	if !ok {
		return Verdict{Kind: q.Kind(), Err: fmt.Errorf("%w: no strategy for %q", ErrEvaluation, q.Kind())}
	}
	v := s.evaluate(q, a)
	v.Kind = q.Kind()
	if a != nil && v.Err == nil {
		v.Answered = answered(a)
	}
	if !v.Answered {
		v.Correct = false
	}
	if v.Err != nil {
		v.Correct = false
		v.Feedback = append(v.Feedback, v.Err.Error())
	}
	return v
}

func mismatch(q bank.Question, a Answer) error {
	return fmt.Errorf("%w: %T for %s question %q", ErrEvaluation, a, q.Kind(), q.QuestionID())
}

// --- Strategies ---

type multipleChoiceStrategy struct{}

func (multipleChoiceStrategy) evaluate(q bank.Question, a Answer) Verdict {
	mc := q.(*bank.MultipleChoice)
	res := Verdict{Gradable: true}
	var sel []string
	switch v := a.(type) {
	case nil:
		return res
	case Selection:
		sel = v
	case Text:
		sel = []string{string(v)}
	default:
		res.Err = mismatch(q, a)
		return res
	}
	res.Correct = setEqual(toSet(mc.CorrectAnswers), toSet(sel))
	return res
}

type fillInBlankStrategy struct{ maxEdit int }

func (s fillInBlankStrategy) evaluate(q bank.Question, a Answer) Verdict {
	fb := q.(*bank.FillInBlank)
	res := Verdict{Gradable: true}
	var given Keyed
	switch v := a.(type) {
	case nil:
	case Keyed:
		given = v
	default:
		res.Err = mismatch(q, a)
	}
	res.Correct = a != nil && res.Err == nil
	near := false
	for _, b := range fb.Blanks {
		g := given[b.ID]
		accepted := append([]string{b.Answer}, fb.AlternativeAnswers[b.ID]...)
		p := Part{ID: b.ID, Given: g, Expected: b.Answer, Correct: matchesAny(g, accepted)}
		if !p.Correct {
			res.Correct = false
			if given != nil && nearMiss(g, accepted, s.maxEdit) {
				near = true
			}
		}
		res.Blanks = append(res.Blanks, p)
	}
	if near {
		res.Feedback = append(res.Feedback, "close match")
	}
	return res
}

type textInputStrategy struct{ maxEdit int }

func (s textInputStrategy) evaluate(q bank.Question, a Answer) Verdict {
	ti := q.(*bank.TextInput)
	res := Verdict{Gradable: true}
	switch v := a.(type) {
	case nil:
		return res
	case Text:
		accepted := append([]string{ti.CorrectAnswer}, ti.AlternativeAnswers...)
		res.Correct = matchesAny(string(v), accepted)
		if !res.Correct && nearMiss(string(v), accepted, s.maxEdit) {
			res.Feedback = append(res.Feedback, "close match")
		}
	default:
		res.Err = mismatch(q, a)
	}
	return res
}

type matchingStrategy struct{}

func (matchingStrategy) evaluate(q bank.Question, a Answer) Verdict {
	m := q.(*bank.Matching)
	res := Verdict{Gradable: true}
	var given Keyed
	switch v := a.(type) {
	case nil:
	case Keyed:
		given = v
	default:
		res.Err = mismatch(q, a)
	}
	res.Correct = given != nil
	for _, p := range m.Pairs {
		g := given[p.ID]
		part := Part{ID: p.ID, Given: g, Expected: p.Match, Correct: given != nil && g == p.Match}
		if !part.Correct {
			res.Correct = false
		}
		res.Pairs = append(res.Pairs, part)
	}
	return res
}

type freeWritingStrategy struct{}

func (freeWritingStrategy) evaluate(q bank.Question, a Answer) Verdict {
	fw := q.(*bank.FreeWriting)
	res := Verdict{Gradable: false}
	switch v := a.(type) {
	case nil:
	case Text:
		res.WordCount = WordCount(string(v))
	default:
		res.Err = mismatch(q, a)
		return res
	}
	res.WithinRange = WithinWordRange(res.WordCount, fw.MinWords, fw.MaxWords)
	return res
}

// helpers

func toSet(arr []string) map[string]struct{} {
	m := make(map[string]struct{}, len(arr))
	for _, s := range arr {
		m[s] = struct{}{}
	}
	return m
}

func setEqual(a, b map[string]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if _, ok := b[k]; !ok {
			return false
		}
	}
	return true
}
