package chat

import "context"

// System defines the public contract for the conversational operations of
// the session carried by ctx.
type System interface {
	Handler(maxUploadSize int64) *Handler

	Chat(ctx context.Context, req ChatRequest) (*Reply, error)
	// Improve regenerates the latest answer from its evaluation feedback.
	Improve(ctx context.Context, req ImproveRequest) (*Reply, error)
	// Upload makes the PDF the session's active document.
	Upload(ctx context.Context, req UploadRequest) (*UploadReply, error)
	// ValidateKey issues a minimal provider call with apiKey.
	ValidateKey(ctx context.Context, apiKey string) error
	// ClearHistory empties the session's evaluation history only.
	ClearHistory(ctx context.Context) error

	PromptHistory(ctx context.Context) (*PromptHistory, error)
	SavePrompt(ctx context.Context, prompt string) (*PromptHistory, error)
}
