package history

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/JaimeStill/chateval/internal/evaluation"
)

// CurrentVersion is the envelope version written by Marshal.
const CurrentVersion = 1

// Envelope is the durable form of a record list.
type Envelope[T any] struct {
	Version int `json:"version"`
	Records []T `json:"records"`
}

// LegacyDecoder converts an unversioned JSON array into records.
type LegacyDecoder[T any] func(data []byte) ([]T, error)

// Marshal writes records in the current envelope version.
func Marshal[T any](records []T) ([]byte, error) {
	if records == nil {
		records = []T{}
	}
	return json.Marshal(Envelope[T]{Version: CurrentVersion, Records: records})
}

// Unmarshal reads a durable blob. A bare JSON array is treated as version 0
// and converted by legacy. Versions newer than CurrentVersion are rejected.
func Unmarshal[T any](data []byte, legacy LegacyDecoder[T]) ([]T, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return []T{}, nil
	}

	if trimmed[0] == '[' {
		if legacy == nil {
			return nil, fmt.Errorf("%w: 0", ErrUnsupportedVersion)
		}
		return legacy(trimmed)
	}

	var header struct {
		Version *int `json:"version"`
	}
	if err := json.Unmarshal(trimmed, &header); err != nil {
		return nil, fmt.Errorf("decode envelope: %w", err)
	}
	if header.Version == nil {
		return nil, fmt.Errorf("%w: missing version", ErrUnsupportedVersion)
	}
	if *header.Version != CurrentVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, *header.Version)
	}

	var env Envelope[T]
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return nil, fmt.Errorf("decode records: %w", err)
	}
	if env.Records == nil {
		env.Records = []T{}
	}
	return env.Records, nil
}

// Encode writes history records in the current envelope.
func Encode(records []Record) ([]byte, error) {
	return Marshal(records)
}

// Decode reads history records, migrating the unversioned browser format.
func Decode(data []byte) ([]Record, error) {
	return Unmarshal(data, decodeLegacy)
}

type legacyEntry struct {
	Type       string `json:"type"`
	Evaluation string `json:"evaluation"`
}

type legacyRecord struct {
	ID                 json.RawMessage `json:"id"`
	Question           string          `json:"question"`
	Response           string          `json:"response"`
	Evaluation         *string         `json:"evaluation"`
	CombinedEvaluation []legacyEntry   `json:"combinedEvaluation"`
	Timestamp          string          `json:"timestamp"`
	IsImproved         bool            `json:"isImproved"`
}

func decodeLegacy(data []byte) ([]Record, error) {
	var items []legacyRecord
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decode legacy history: %w", err)
	}

	records := make([]Record, 0, len(items))
	seen := make(map[string]bool, len(items))
	for _, item := range items {
		r := Record{
			ID:         strings.Trim(string(item.ID), `"`),
			Question:   item.Question,
			Response:   item.Response,
			IsImproved: item.IsImproved,
			Timestamp:  legacyTimestamp(item.Timestamp),
		}
		if item.Evaluation != nil {
			r.RawEvaluation = *item.Evaluation
		}
		for _, e := range item.CombinedEvaluation {
			criterion, err := evaluation.ParseCriterion(strings.TrimSpace(e.Type))
			if err != nil || e.Evaluation == "" {
				continue
			}
			r.CombinedEvaluation = append(r.CombinedEvaluation, evaluation.Entry{
				Criterion: criterion,
				Raw:       e.Evaluation,
			})
		}

		// Browser ids came from a per-page counter and may repeat.
		if r.ID == "" || r.ID == "null" || seen[r.ID] {
			r.ID = newID()
		}
		seen[r.ID] = true
		parsed, _ := r.Primary()
		r.Label = parsed.Label
		records = append(records, r)
	}

	return records, nil
}

// legacyTimestamp accepts the ISO strings the browser wrote; unparseable values become zero.
func legacyTimestamp(s string) time.Time {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC()
	}
	return time.Time{}
}
