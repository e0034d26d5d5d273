package documents

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
)

const contentTypePDF = "application/pdf"

// DecodeDataURI decodes a base64 PDF payload, with or without a
// data:application/pdf;base64, prefix.
func DecodeDataURI(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("%w: empty pdf_data", ErrInvalidFile)
	}

	if strings.HasPrefix(s, "data:") {
		meta, payload, ok := strings.Cut(s, ",")
		if !ok || !strings.HasSuffix(meta, ";base64") {
			return nil, fmt.Errorf("%w: data URI must be base64 encoded", ErrInvalidFile)
		}
		s = payload
	}

	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFile, err)
	}
	return data, nil
}

// Prepare validates a PDF upload and builds the command that registers it.
// Text is extracted page by page; the page count comes from pdfcpu and falls
// back to the text reader when pdfcpu cannot parse the file.
func Prepare(logger *slog.Logger, data []byte, filename, sessionID string) (CreateCommand, error) {
	if len(data) == 0 {
		return CreateCommand{}, fmt.Errorf("%w: empty file", ErrInvalidFile)
	}

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return CreateCommand{}, fmt.Errorf("%w: %v", ErrNotPDF, err)
	}

	text := extractText(reader)

	pages := reader.NumPage()
	if count, err := api.PageCount(bytes.NewReader(data), nil); err == nil {
		pages = count
	} else {
		logger.Warn("failed to extract PDF page count", "error", err)
	}

	return CreateCommand{
		Data:        data,
		Text:        text,
		Filename:    cleanFilename(filename),
		ContentType: contentTypePDF,
		SessionID:   sessionID,
		PageCount:   &pages,
	}, nil
}

// extractText collects the plain text of every page. The reader panics on
// some malformed content streams; whatever was read before that is kept.
func extractText(r *pdf.Reader) (text string) {
	var sb strings.Builder
	defer func() {
		if recover() != nil {
			text = sb.String()
		}
	}()

	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil || text == "" {
			continue
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	}
	return sb.String()
}

func cleanFilename(name string) string {
	name = filepath.Base(strings.TrimSpace(name))
	if name == "." || name == "/" || name == "" {
		return "document.pdf"
	}
	return name
}
