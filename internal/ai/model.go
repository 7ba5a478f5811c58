package ai

import (
	"context"
	"errors"
)

var (
	ErrNotConfigured   = errors.New("AI is not configured")
	ErrBadGeneration   = errors.New("AI response is not a usable quiz")
	ErrEmptyResponse   = errors.New("AI returned no content")
	ErrTutorNotStarted = errors.New("tutor has not been started for a category")
)

const (
	RoleUser  = "user"
	RoleModel = "model"
)

// Turn is one message of a conversation.
type Turn struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// Prompt is a single generation request. Zero Temperature and
// MaxOutputTokens leave the model defaults in place.
type Prompt struct {
	System          string
	Turns           []Turn
	Temperature     float64
	MaxOutputTokens int
}

// UserPrompt is a one-turn prompt.
func UserPrompt(text string) Prompt {
	return Prompt{Turns: []Turn{{Role: RoleUser, Text: text}}}
}

// Model is a text generation backend.
type Model interface {
	Generate(ctx context.Context, p Prompt) (string, error)
}
