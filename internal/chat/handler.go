package chat

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/JaimeStill/chateval/internal/documents"
	"github.com/JaimeStill/chateval/pkg/formatting"
	"github.com/JaimeStill/chateval/pkg/handlers"
	"github.com/JaimeStill/chateval/pkg/llm"
	"github.com/JaimeStill/chateval/pkg/routes"
)

// Handler provides HTTP endpoints for the conversational operations.
type Handler struct {
	sys           System
	logger        *slog.Logger
	maxUploadSize int64
}

// NewHandler creates a Handler. maxUploadSize bounds the decoded PDF; the
// base64 request body may be a third larger.
func NewHandler(sys System, logger *slog.Logger, maxUploadSize int64) *Handler {
	return &Handler{
		sys:           sys,
		logger:        logger.With("handler", "chat"),
		maxUploadSize: maxUploadSize,
	}
}

// Routes returns the route group for the conversational endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix:      "",
		Tags:        []string{"Chat"},
		Description: "Chat with the session's PDF, evaluate, and improve answers",
		Schemas:     Spec.Schemas,
		Routes: []routes.Route{
			{Method: "POST", Pattern: "/chat", Handler: h.Chat, OpenAPI: Spec.Chat},
			{Method: "POST", Pattern: "/improve", Handler: h.Improve, OpenAPI: Spec.Improve},
			{Method: "POST", Pattern: "/upload_pdf", Handler: h.Upload, OpenAPI: Spec.Upload},
			{Method: "POST", Pattern: "/validate_api_key", Handler: h.ValidateKey, OpenAPI: Spec.ValidateKey},
			{Method: "POST", Pattern: "/clear_history", Handler: h.ClearHistory, OpenAPI: Spec.ClearHistory},
			{Method: "GET", Pattern: "/prompt_history", Handler: h.PromptHistory, OpenAPI: Spec.PromptHistory},
			{Method: "POST", Pattern: "/prompt_history", Handler: h.SavePrompt, OpenAPI: Spec.SavePrompt},
		},
	}
}

// Chat answers a question and evaluates the answer.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	req, err := handlers.DecodeJSON[ChatRequest](r)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	reply, err := h.sys.Chat(r.Context(), req)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, reply)
}

// Improve regenerates the latest answer from its evaluation feedback.
func (h *Handler) Improve(w http.ResponseWriter, r *http.Request) {
	req, err := handlers.DecodeJSON[ImproveRequest](r)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	reply, err := h.sys.Improve(r.Context(), req)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, reply)
}

// Upload decodes a base64 PDF and makes it the session's active document.
// Failures answer {"success": false, "error": "..."}.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	if h.maxUploadSize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize/3*4+4096)
	}

	req, err := handlers.DecodeJSON[UploadRequest](r)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			err = fmt.Errorf("%w: limit is %s", documents.ErrFileTooLarge, formatting.FormatBytes(h.maxUploadSize, 0))
			h.uploadFailed(w, http.StatusRequestEntityTooLarge, err)
			return
		}
		h.uploadFailed(w, http.StatusBadRequest, err)
		return
	}

	reply, err := h.sys.Upload(r.Context(), req)
	if err != nil {
		h.uploadFailed(w, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, reply)
}

// ValidateKey reports whether the provider accepts an API key.
func (h *Handler) ValidateKey(w http.ResponseWriter, r *http.Request) {
	req, err := handlers.DecodeJSON[ValidateKeyRequest](r)
	if err != nil {
		h.invalidKey(w, http.StatusBadRequest, err)
		return
	}

	if err := h.sys.ValidateKey(r.Context(), req.APIKey); err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, llm.ErrUnauthorized) {
			status = http.StatusUnauthorized
		}
		h.invalidKey(w, status, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, map[string]any{
		"valid":   true,
		"message": "API key is valid",
	})
}

// ClearHistory empties the session's evaluation history.
func (h *Handler) ClearHistory(w http.ResponseWriter, r *http.Request) {
	if err := h.sys.ClearHistory(r.Context()); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// PromptHistory returns the current evaluation prompt and its revisions.
func (h *Handler) PromptHistory(w http.ResponseWriter, r *http.Request) {
	ph, err := h.sys.PromptHistory(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, ph)
}

// SavePrompt records a revision of the evaluation prompt.
func (h *Handler) SavePrompt(w http.ResponseWriter, r *http.Request) {
	req, err := handlers.DecodeJSON[SavePromptRequest](r)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	ph, err := h.sys.SavePrompt(r.Context(), req.Prompt)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, ph)
}

func (h *Handler) uploadFailed(w http.ResponseWriter, status int, err error) {
	h.log(status, "upload failed", err)
	handlers.RespondJSON(w, status, map[string]any{
		"success": false,
		"error":   err.Error(),
	})
}

func (h *Handler) invalidKey(w http.ResponseWriter, status int, err error) {
	h.log(status, "api key rejected", err)
	handlers.RespondJSON(w, status, map[string]any{
		"valid": false,
		"error": err.Error(),
	})
}

func (h *Handler) log(status int, msg string, err error) {
	if status >= http.StatusInternalServerError {
		h.logger.Error(msg, "error", err, "status", status)
		return
	}
	h.logger.Warn(msg, "error", err, "status", status)
}
