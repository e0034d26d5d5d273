// Package history keeps the per-session evaluation log: an ordered, capped,
// durably persisted list of question, response, and evaluation records.
package history

import (
	"time"

	"github.com/JaimeStill/chateval/internal/evaluation"
)

// Record is one evaluated exchange.
type Record struct {
	ID                 string             `json:"id"`
	Question           string             `json:"question"`
	Response           string             `json:"response"`
	RawEvaluation      string             `json:"evaluation"`
	CombinedEvaluation []evaluation.Entry `json:"combined_evaluation,omitempty"`
	Label              string             `json:"label"`
	Timestamp          time.Time          `json:"timestamp"`
	IsImproved         bool               `json:"is_improved"`
	DocumentName       string             `json:"document_name,omitempty"`
	ImprovedFrom       string             `json:"improved_from,omitempty"`
}

// Entry carries the data for a new record.
type Entry struct {
	Question     string
	Response     string
	Payload      evaluation.Payload
	DocumentName string
	ImprovedFrom string
	// Improved marks the record as produced by an improve round-trip.
	Improved bool
}

// Payload returns the record's evaluation as a tagged payload.
func (r Record) Payload() evaluation.Payload {
	if len(r.CombinedEvaluation) > 0 {
		if p, err := evaluation.Combined(r.CombinedEvaluation); err == nil {
			return p
		}
	}
	if r.RawEvaluation != "" {
		return evaluation.Single(r.RawEvaluation)
	}
	return evaluation.Payload{}
}

// Primary returns the parsed primary evaluation and its criterion.
func (r Record) Primary() (evaluation.Parsed, evaluation.Criterion) {
	e, _ := r.Payload().Primary()
	return evaluation.Parse(e.Raw), e.Criterion
}

// Severity classifies the record's stored label under its primary criterion.
func (r Record) Severity() evaluation.Severity {
	_, criterion := r.Primary()
	return evaluation.Classify(r.Label, criterion)
}

// View is the render-ready projection of a record.
type View struct {
	Record
	Explanation string                  `json:"explanation"`
	Severity    evaluation.Severity     `json:"severity"`
	Assessments []evaluation.Assessment `json:"assessments"`
}

// NewView derives the display fields for r.
func NewView(r Record) View {
	parsed, _ := r.Primary()
	return View{
		Record:      r,
		Explanation: parsed.Explanation,
		Severity:    r.Severity(),
		Assessments: r.Payload().Assessments(),
	}
}

// Views projects records in order.
func Views(records []Record) []View {
	out := make([]View, 0, len(records))
	for _, r := range records {
		out = append(out, NewView(r))
	}
	return out
}
