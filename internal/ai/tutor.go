package ai

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/mind-engage/grammaire/internal/learner"
)

const (
	tutorTemperature = 0.7
	tutorMaxTokens   = 800
)

func tutorSystemPrompt(categoryID string, p learner.Profile) string {
	title := CategoryTitle(categoryID)
	focus := generalTopic
	if m, ok := categories[categoryID]; ok {
		focus = m.focus
	}
	var b strings.Builder
	fmt.Fprintf(&b, "You are a helpful and patient French language tutor specialized in %s.\n\n", title)
	fmt.Fprintf(&b, "Category: %s\nFocus Area: %s\nStudent Proficiency: %s\n", title, focus, p.ProficiencyLevel)
	if len(p.Strengths) > 0 {
		fmt.Fprintf(&b, "Student Strengths: %s\n", strings.Join(p.Strengths, ", "))
	}
	if len(p.Weaknesses) > 0 {
		fmt.Fprintf(&b, "Areas to Improve: %s\n", strings.Join(p.Weaknesses, ", "))
	}
	b.WriteString("\nImportant guidelines for your responses:\n")
	fmt.Fprintf(&b, "1. Explain in simple, clear language appropriate for a %s French student\n", p.ProficiencyLevel)
	b.WriteString(`2. Break down complex problems into easily understandable steps
3. Help with hints rather than immediately giving complete solutions
4. Be encouraging and patient
5. Use visual explanations when possible (with text characters)
6. Go through concepts fundamentally
7. Ask occasionally if the student can follow your explanation
8. Always write French words/phrases in bold or italic to highlight them
`)
	fmt.Fprintf(&b, "\nYour goal is to help the student improve their French grammar skills specifically related to %s.", title)
	return b.String()
}

// Tutor is a conversation about one category. Send calls are serialized;
// History may be read while a Send is in flight.
type Tutor struct {
	model Model

	sendMu sync.Mutex

	mu         sync.Mutex
	categoryID string
	system     string
	turns      []Turn
	gen        uint64
}

func NewTutor(m Model) *Tutor { return &Tutor{model: m} }

// Start discards any previous conversation.
func (t *Tutor) Start(categoryID string, p learner.Profile) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.categoryID = categoryID
	t.system = tutorSystemPrompt(categoryID, p)
	t.turns = nil
	t.gen++
}

func (t *Tutor) CategoryID() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.categoryID
}

// Send adds message to the conversation and returns the tutor's reply.
// On failure the conversation is left as it was. A reply that arrives
// after Start has been called again is returned but not recorded.
func (t *Tutor) Send(ctx context.Context, message string) (Turn, error) {
	t.sendMu.Lock()
	defer t.sendMu.Unlock()

	t.mu.Lock()
	if t.categoryID == "" {
		t.mu.Unlock()
		return Turn{}, ErrTutorNotStarted
	}
	gen := t.gen
	t.turns = append(t.turns, Turn{Role: RoleUser, Text: message})
	p := Prompt{
		System:          t.system,
		Turns:           append([]Turn(nil), t.turns...),
		Temperature:     tutorTemperature,
		MaxOutputTokens: tutorMaxTokens,
	}
	t.mu.Unlock()

	text, err := t.model.Generate(ctx, p)

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.gen != gen {
		if err != nil {
			return Turn{}, err
		}
		return Turn{Role: RoleModel, Text: text}, nil
	}
	if err != nil {
		t.turns = t.turns[:len(t.turns)-1]
		return Turn{}, err
	}
	reply := Turn{Role: RoleModel, Text: text}
	t.turns = append(t.turns, reply)
	return reply, nil
}

// History returns a copy of the conversation so far.
func (t *Tutor) History() []Turn {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]Turn(nil), t.turns...)
}
