// Package workflow runs the chat, evaluate, and improve round-trips against
// the configured LLM provider. It builds the answer and improvement prompts,
// resolves one evaluation prompt per criterion, and fans evaluations out
// concurrently while preserving request order.
package workflow

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/chateval/internal/evaluation"
	"github.com/JaimeStill/chateval/pkg/llm"
)

// Sentinel errors for workflow operations.
var (
	ErrEmptyMessage    = errors.New("message is required")
	ErrMissingExchange = errors.New("improve requires a question and a prior evaluation")
	ErrEvaluateFailed  = errors.New("evaluation failed")
)

// MapHTTPStatus maps workflow and provider errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrEmptyMessage),
		errors.Is(err, ErrMissingExchange),
		errors.Is(err, evaluation.ErrInvalidCriterion),
		errors.Is(err, evaluation.ErrEmptyCombined),
		errors.Is(err, evaluation.ErrMalformedEntry):
		return http.StatusBadRequest
	case errors.Is(err, llm.ErrMissingKey),
		errors.Is(err, llm.ErrUnauthorized):
		return llm.MapHTTPStatus(err)
	case errors.Is(err, llm.ErrEmptyReply):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
