package ai

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/mind-engage/grammaire/internal/bank"
	"github.com/mind-engage/grammaire/internal/learner"
)

// fakeModel replays canned replies and records prompts.
type fakeModel struct {
	mu      sync.Mutex
	replies []string
	err     error
	prompts []Prompt
}

func (f *fakeModel) Generate(_ context.Context, p Prompt) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, p)
	if f.err != nil {
		return "", f.err
	}
	if len(f.replies) == 0 {
		return "", ErrEmptyResponse
	}
	r := f.replies[0]
	f.replies = f.replies[1:]
	return r, nil
}

const generatedReply = "Voici le quiz :\n```json\n" + `{
  "questions": [
    {"type": "multiple-choice", "text": "Quelle heure est-il ? 12:00",
     "options": [{"id": "a", "text": "Il est midi"}, {"id": "b", "text": "Il est minuit"}],
     "correctAnswers": ["a"], "explanation": "Midi = 12:00."},
    {"id": "q2", "type": "fill-in-blank", "text": "J'ai ________ chien.",
     "blanks": [{"id": "blank1", "answer": "un"}]}
  ]
}` + "\n```"

func TestGenerateQuiz(t *testing.T) {
	m := &fakeModel{replies: []string{generatedReply}}
	g := NewGenerator(m)
	p := learner.Profile{ProficiencyLevel: learner.Intermediate, Weaknesses: []string{"telling-time"}}

	c, err := g.GenerateQuiz(context.Background(), "telling-time", 0, p)
	if err != nil {
		t.Fatalf("GenerateQuiz: %v", err)
	}
	if c.ID != "ai-generated-telling-time" || c.Title != "AI Generated Telling Time Quiz" || c.Icon != "🕒" {
		t.Fatalf("category = %q %q %q", c.ID, c.Title, c.Icon)
	}
	if c.Description != "A personalized quiz focused on telling time, tailored to your learning needs." {
		t.Errorf("description = %q", c.Description)
	}
	if len(c.Questions) != 2 || c.Questions[0].QuestionID() != "generated-1" || c.Questions[1].QuestionID() != "q2" {
		t.Fatalf("questions = %+v", c.Questions)
	}

	prompt := m.prompts[0].Turns[0].Text
	for _, want := range []string{
		"with 5 questions",
		"proficiency level is: intermediate",
		"Strengths: Not specified",
		"Areas to improve: telling-time",
		`exactly "________"`,
		"Only return the JSON, no other text.",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestParseQuizRejects(t *testing.T) {
	cases := map[string]string{
		"no json":      "Désolé, je ne peux pas.",
		"bad json":     "{questions: [}",
		"no questions": `{"questions": []}`,
		"unknown type": `{"questions": [{"id": "x", "type": "essay", "text": "?"}]}`,
		"marker count": `{"questions": [{"id": "x", "type": "fill-in-blank", "text": "Il est ________.", "blanks": []}]}`,
		"blank answer": `{"questions": [{"id": "x", "type": "fill-in-blank", "text": "Il est ________.", "blanks": [{"id": "blank1"}]}]}`,
		"pair match":   `{"questions": [{"id": "x", "type": "matching", "text": "Associe", "pairs": [{"id": "p1", "item": "livre"}]}]}`,
	}
	for name, reply := range cases {
		if _, err := ParseQuiz("subject-verb", reply); !errors.Is(err, ErrBadGeneration) {
			t.Errorf("%s: err = %v, want ErrBadGeneration", name, err)
		}
	}
	for _, name := range []string{"marker count", "blank answer", "pair match"} {
		if _, err := ParseQuiz("subject-verb", cases[name]); !errors.Is(err, bank.ErrInvalidQuestionData) {
			t.Errorf("%s: validation error not preserved: %v", name, err)
		}
	}
}

func TestCategoryTitleFallback(t *testing.T) {
	if got := CategoryTitle("passe-compose"); got != "Passe Compose" {
		t.Errorf("CategoryTitle = %q", got)
	}
	if got := categoryIcon("passe-compose"); got != "🤖" {
		t.Errorf("icon = %q", got)
	}
}

func TestAnalyzeAnswer(t *testing.T) {
	m := &fakeModel{replies: []string{"Presque !"}}
	out, err := NewGenerator(m).AnalyzeAnswer(context.Background(), "Il est ________.", "midi", "minuit", 3)
	if err != nil || out != "Presque !" {
		t.Fatalf("AnalyzeAnswer = %q, %v", out, err)
	}
	prompt := m.prompts[0].Turns[0].Text
	if !strings.Contains(prompt, "Student's answer: midi") || !strings.Contains(prompt, "Number of previous attempts: 3") {
		t.Errorf("prompt = %q", prompt)
	}
}
