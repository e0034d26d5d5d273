package llm

import (
	"errors"
	"net/http"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/openai/openai-go"
)

var (
	ErrMissingKey   = errors.New("no API key provided")
	ErrUnauthorized = errors.New("invalid API key")
	ErrEmptyReply   = errors.New("provider returned no text")
)

// MapError translates provider SDK errors into package sentinels.
// Authentication failures become ErrUnauthorized; everything else is returned unchanged.
func MapError(err error) error {
	if err == nil {
		return nil
	}

	var aerr *anthropic.Error
	if errors.As(err, &aerr) && aerr.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}

	var oerr *openai.Error
	if errors.As(err, &oerr) && oerr.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}

	return err
}

// MapHTTPStatus returns the HTTP status for a provider error.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrMissingKey):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	default:
		return http.StatusBadGateway
	}
}
