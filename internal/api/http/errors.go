package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mind-engage/grammaire/internal/ai"
	"github.com/mind-engage/grammaire/internal/bank"
	"github.com/mind-engage/grammaire/internal/grading"
	"github.com/mind-engage/grammaire/internal/learner"
	"github.com/mind-engage/grammaire/internal/quiz"
)

// statusFor maps domain errors to HTTP status codes. AI failures are checked
// first since a rejected generation also wraps ErrInvalidQuestionData.
func statusFor(err error) int {
	var apiErr *ai.APIError
	switch {
	case errors.Is(err, ai.ErrNotConfigured):
		return http.StatusServiceUnavailable
	case errors.Is(err, ai.ErrBadGeneration), errors.Is(err, ai.ErrEmptyResponse), errors.As(err, &apiErr):
		return http.StatusBadGateway
	case errors.Is(err, ai.ErrTutorNotStarted):
		return http.StatusConflict
	case errors.Is(err, bank.ErrCategoryNotFound), errors.Is(err, quiz.ErrNoActiveSession):
		return http.StatusNotFound
	case errors.Is(err, bank.ErrInvalidQuestionData):
		return http.StatusUnprocessableEntity
	case errors.Is(err, quiz.ErrSessionCompleted):
		return http.StatusConflict
	case errors.Is(err, grading.ErrAnswerShape), errors.Is(err, learner.ErrUnknownLevel):
		return http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

func writeErr(w http.ResponseWriter, err error) {
	http.Error(w, err.Error(), statusFor(err))
}

// writeAIErr reports transport failures of the model as 502 rather than 500.
func writeAIErr(w http.ResponseWriter, err error) {
	code := statusFor(err)
	if code == http.StatusInternalServerError {
		code = http.StatusBadGateway
	}
	http.Error(w, err.Error(), code)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, "bad json: "+err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}
