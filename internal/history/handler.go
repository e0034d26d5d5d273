package history

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/JaimeStill/chateval/internal/evaluation"
	"github.com/JaimeStill/chateval/pkg/handlers"
	"github.com/JaimeStill/chateval/pkg/pagination"
	"github.com/JaimeStill/chateval/pkg/routes"
)

// DefaultLimit is the page size of GET /history when no limit is given.
const DefaultLimit = 50

// Source resolves the history store for the session carried by ctx. The
// store stays bound to the session until release is called.
type Source interface {
	History(ctx context.Context) (store *Store, release func(), err error)
}

// Handler provides HTTP endpoints over a session's evaluation history.
type Handler struct {
	src      Source
	logger   *slog.Logger
	maxLimit int
}

// NewHandler creates a history handler. maxLimit caps the limit query parameter.
func NewHandler(src Source, logger *slog.Logger, maxLimit int) *Handler {
	return &Handler{
		src:      src,
		logger:   logger.With("handler", "history"),
		maxLimit: maxLimit,
	}
}

// ListResponse is a window over the filtered history.
type ListResponse struct {
	Evaluations []View `json:"evaluations"`
	Total       int    `json:"total"`
	Limit       int    `json:"limit"`
	Offset      int    `json:"offset"`
	Page        int    `json:"page,omitempty"`
	TotalPages  int    `json:"total_pages,omitempty"`
}

// Routes returns the route group for history endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix:      "/history",
		Tags:        []string{"History"},
		Description: "Per-session evaluation history",
		Schemas:     Spec.Schemas,
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List, OpenAPI: Spec.List},
			{Method: "GET", Pattern: "/stats", Handler: h.Stats, OpenAPI: Spec.Stats},
			{Method: "GET", Pattern: "/export", Handler: h.Export, OpenAPI: Spec.Export},
			{Method: "GET", Pattern: "/{id}", Handler: h.Find, OpenAPI: Spec.Find},
			{Method: "DELETE", Pattern: "/{id}", Handler: h.Delete, OpenAPI: Spec.Delete},
		},
	}
}

// List returns filtered records newest first, windowed by limit/offset or by page/page_size.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	store, release, ok := h.store(w, r)
	if !ok {
		return
	}
	defer release()

	values := r.URL.Query()
	filter, err := FilterFromQuery(values)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	records := store.List(filter)

	if page, err := strconv.Atoi(values.Get("page")); err == nil {
		size, err := strconv.Atoi(values.Get("page_size"))
		if err != nil || size < 1 {
			size = DefaultLimit
		}
		if h.maxLimit > 0 {
			size = min(size, h.maxLimit)
		}

		items, totalPages := Paginate(records, page, size)
		offset := len(records)
		if page <= totalPages {
			offset = max(page-1, 0) * size
		}
		handlers.RespondJSON(w, http.StatusOK, ListResponse{
			Evaluations: Views(items),
			Total:       len(records),
			Limit:       size,
			Offset:      offset,
			Page:        page,
			TotalPages:  totalPages,
		})
		return
	}

	window := pagination.WindowFromQuery(values, DefaultLimit, h.maxLimit)
	handlers.RespondJSON(w, http.StatusOK, ListResponse{
		Evaluations: Views(pagination.Apply(window, records)),
		Total:       len(records),
		Limit:       window.Limit,
		Offset:      window.Offset,
	})
}

// Stats returns severity counts and the improvement rate.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	store, release, ok := h.store(w, r)
	if !ok {
		return
	}
	defer release()
	handlers.RespondJSON(w, http.StatusOK, store.Stats())
}

// Export downloads the full history as JSON or CSV.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	format, err := ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	store, release, ok := h.store(w, r)
	if !ok {
		return
	}
	defer release()

	data, err := Export(store.List(Filter{}), format)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondAttachment(w, format.Filename(time.Now()), format.ContentType(), data)
}

// Find returns one record.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	store, release, ok := h.store(w, r)
	if !ok {
		return
	}
	defer release()

	rec, err := store.Get(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, NewView(rec))
}

// Delete removes one record.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	store, release, ok := h.store(w, r)
	if !ok {
		return
	}
	defer release()

	if err := store.Delete(r.Context(), r.PathValue("id")); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *Handler) store(w http.ResponseWriter, r *http.Request) (*Store, func(), bool) {
	store, release, err := h.src.History(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return nil, nil, false
	}
	return store, release, true
}

// FilterFromQuery reads search, groundedness, severity, date_from, and date_to.
// A bare date for date_to covers the whole day.
func FilterFromQuery(values url.Values) (Filter, error) {
	f := Filter{
		Search:   values.Get("search"),
		Label:    values.Get("groundedness"),
		Severity: evaluation.Severity(values.Get("severity")),
	}

	if v := values.Get("date_from"); v != "" {
		t, _, err := parseDate(v)
		if err != nil {
			return Filter{}, err
		}
		f.From = &t
	}

	if v := values.Get("date_to"); v != "" {
		t, dateOnly, err := parseDate(v)
		if err != nil {
			return Filter{}, err
		}
		if dateOnly {
			t = t.Add(24*time.Hour - time.Nanosecond)
		}
		f.To = &t
	}

	return f, nil
}

func parseDate(s string) (time.Time, bool, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, false, nil
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, true, nil
	}
	return time.Time{}, false, ErrInvalidDate
}
