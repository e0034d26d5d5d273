package documents

import (
	"context"
	"io"

	"github.com/google/uuid"

	"github.com/JaimeStill/chateval/pkg/pagination"
)

// System defines the public contract for document domain operations.
type System interface {
	Handler(maxUploadSize int64) *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Document], error)

	Find(ctx context.Context, id uuid.UUID) (*Document, error)
	// Latest returns the most recent upload of a session.
	Latest(ctx context.Context, sessionID string) (*Document, error)
	Create(ctx context.Context, cmd CreateCommand) (*Document, error)
	// Text returns the full text extracted at upload.
	Text(ctx context.Context, id uuid.UUID) (string, error)
	// Open streams the original file. The caller closes the reader.
	Open(ctx context.Context, id uuid.UUID) (io.ReadCloser, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
