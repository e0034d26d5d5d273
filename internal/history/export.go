package history

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"time"
)

// Format is an export file format.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

// ParseFormat validates an export format. An empty value selects JSON.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case "", FormatJSON:
		return FormatJSON, nil
	case FormatCSV:
		return FormatCSV, nil
	default:
		return "", ErrInvalidFormat
	}
}

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	if f == FormatCSV {
		return "text/csv"
	}
	return "application/json"
}

// Filename returns the download name for an export taken at t.
func (f Format) Filename(t time.Time) string {
	return fmt.Sprintf("evaluation_history_%s.%s", t.Format("20060102_150405"), f)
}

var csvHeader = []string{
	"id", "timestamp", "question", "response", "groundedness_level",
	"evaluation_explanation", "pdf_filename", "improved_response",
}

// Export renders records in the requested format. For CSV the
// improved_response column holds the newest improvement of each record.
func Export(records []Record, f Format) ([]byte, error) {
	switch f {
	case FormatCSV:
		return exportCSV(records)
	case FormatJSON:
		return json.MarshalIndent(Views(records), "", "  ")
	default:
		return nil, ErrInvalidFormat
	}
}

func exportCSV(records []Record) ([]byte, error) {
	improvements := make(map[string]string)
	// Records are newest first, so the first improvement seen for a source wins.
	for _, r := range records {
		if r.ImprovedFrom == "" {
			continue
		}
		if _, ok := improvements[r.ImprovedFrom]; !ok {
			improvements[r.ImprovedFrom] = r.Response
		}
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}

	for _, r := range records {
		parsed, _ := r.Primary()
		row := []string{
			r.ID,
			r.Timestamp.Format(time.RFC3339),
			r.Question,
			r.Response,
			r.Label,
			parsed.Explanation,
			r.DocumentName,
			improvements[r.ID],
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("write csv: %w", err)
	}
	return buf.Bytes(), nil
}
