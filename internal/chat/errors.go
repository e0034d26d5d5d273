package chat

import (
	"errors"

	"github.com/JaimeStill/chateval/internal/documents"
	"github.com/JaimeStill/chateval/internal/history"
	"github.com/JaimeStill/chateval/internal/sessions"
	"github.com/JaimeStill/chateval/internal/workflow"
)

// MapHTTPStatus maps errors from the systems a chat round-trip touches.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, sessions.ErrBusy),
		errors.Is(err, sessions.ErrNoSession),
		errors.Is(err, sessions.ErrEmptyPrompt):
		return sessions.MapHTTPStatus(err)
	case errors.Is(err, documents.ErrInvalidFile),
		errors.Is(err, documents.ErrNotPDF),
		errors.Is(err, documents.ErrFileTooLarge):
		return documents.MapHTTPStatus(err)
	case errors.Is(err, history.ErrNoEvaluation):
		return history.MapHTTPStatus(err)
	default:
		return workflow.MapHTTPStatus(err)
	}
}
