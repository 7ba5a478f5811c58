package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"
)

const (
	DefaultModel   = "gemini-1.5-flash"
	DefaultBaseURL = "https://generativelanguage.googleapis.com/"
)

var harmCategories = []genai.HarmCategory{
	genai.HarmCategoryHarassment,
	genai.HarmCategoryHateSpeech,
	genai.HarmCategorySexuallyExplicit,
	genai.HarmCategoryDangerousContent,
}

// APIError is a non-2xx reply from the Gemini API.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("gemini: %d %s", e.Status, e.Message)
}

type GeminiConfig struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
	// HTTPClient overrides the default client; Timeout is ignored when set.
	HTTPClient *http.Client
}

// GeminiClient adapts the genai SDK to Model.
type GeminiClient struct {
	client *genai.Client
	model  string
}

func NewGeminiClient(cfg GeminiConfig) (*GeminiClient, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrNotConfigured
	}
	h := cfg.HTTPClient
	if h == nil {
		h = &http.Client{Timeout: cfg.Timeout}
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	c, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:      cfg.APIKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPClient:  h,
		HTTPOptions: genai.HTTPOptions{BaseURL: cfg.BaseURL},
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: %w", err)
	}
	return &GeminiClient{client: c, model: cfg.Model}, nil
}

func (c *GeminiClient) Model() string { return c.model }

func contents(p Prompt) []*genai.Content {
	out := make([]*genai.Content, 0, len(p.Turns))
	for _, t := range p.Turns {
		role := genai.Role(genai.RoleUser)
		if t.Role == RoleModel {
			role = genai.RoleModel
		}
		out = append(out, genai.NewContentFromText(t.Text, role))
	}
	return out
}

func generateConfig(p Prompt) *genai.GenerateContentConfig {
	gc := &genai.GenerateContentConfig{MaxOutputTokens: int32(p.MaxOutputTokens)}
	if p.System != "" {
		gc.SystemInstruction = genai.NewContentFromText(p.System, genai.RoleUser)
	}
	if p.Temperature > 0 {
		gc.Temperature = genai.Ptr(float32(p.Temperature))
	}
	for _, cat := range harmCategories {
		gc.SafetySettings = append(gc.SafetySettings, &genai.SafetySetting{
			Category:  cat,
			Threshold: genai.HarmBlockThresholdBlockMediumAndAbove,
		})
	}
	return gc
}

// Generate sends p and returns the text of the first candidate.
func (c *GeminiClient) Generate(ctx context.Context, p Prompt) (string, error) {
	res, err := c.client.Models.GenerateContent(ctx, c.model, contents(p), generateConfig(p))
	if err != nil {
		var ge genai.APIError
		if errors.As(err, &ge) {
			msg := ge.Message
			if msg == "" {
				msg = ge.Status
			}
			return "", &APIError{Status: ge.Code, Message: msg}
		}
		return "", fmt.Errorf("gemini: %w", err)
	}
	if pf := res.PromptFeedback; pf != nil && pf.BlockReason != "" {
		return "", fmt.Errorf("%w: prompt blocked (%s)", ErrEmptyResponse, pf.BlockReason)
	}
	if len(res.Candidates) == 0 {
		return "", ErrEmptyResponse
	}
	text := res.Text()
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: finish reason %s", ErrEmptyResponse, res.Candidates[0].FinishReason)
	}
	return text, nil
}

// Ping checks the key and model with a trivial generation.
func (c *GeminiClient) Ping(ctx context.Context) error {
	_, err := c.Generate(ctx, UserPrompt(`Say "Hello" if this test was successful.`))
	return err
}
