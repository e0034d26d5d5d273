package history

import (
	"errors"
	"net/http"
)

var (
	ErrNotFound           = errors.New("history record not found")
	ErrNoEvaluation       = errors.New("history record requires an evaluation")
	ErrUnsupportedVersion = errors.New("unsupported history format version")
	ErrInvalidFormat      = errors.New("export format must be json or csv")
	ErrInvalidDate        = errors.New("date must be RFC 3339 or YYYY-MM-DD")
)

// MapHTTPStatus maps history errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrNoEvaluation),
		errors.Is(err, ErrInvalidFormat),
		errors.Is(err, ErrInvalidDate):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
