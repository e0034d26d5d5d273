// Package documents implements the uploaded PDF domain. It extracts page
// counts and text from uploads, stores the original and its extracted text as
// blobs, and records metadata rows owned by the uploading session.
package documents

import (
	"time"

	"github.com/google/uuid"
)

// Document represents an uploaded PDF with its metadata and blob storage reference.
type Document struct {
	ID          uuid.UUID `json:"id"`
	SessionID   string    `json:"-"`
	Filename    string    `json:"filename"`
	ContentType string    `json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
	PageCount   *int      `json:"page_count"`
	TextLength  int       `json:"text_length"`
	StorageKey  string    `json:"storage_key"`
	UploadedAt  time.Time `json:"uploaded_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateCommand carries the data needed to store and register a new document.
// Data holds the raw file bytes and Text the full extracted text.
type CreateCommand struct {
	Data        []byte
	Text        string
	Filename    string
	ContentType string
	SessionID   string
	PageCount   *int
}
