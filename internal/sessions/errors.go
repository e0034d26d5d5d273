package sessions

import (
	"errors"
	"net/http"
)

var (
	ErrBusy        = errors.New("an operation of this kind is already in progress")
	ErrNoSession   = errors.New("request carries no session")
	ErrEmptyPrompt = errors.New("prompt is required")
)

// MapHTTPStatus maps session errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrBusy):
		return http.StatusConflict
	case errors.Is(err, ErrEmptyPrompt):
		return http.StatusBadRequest
	case errors.Is(err, ErrNoSession):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
