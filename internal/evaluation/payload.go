package evaluation

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrEmptyCombined  = errors.New("combined evaluation must contain at least one entry")
	ErrMalformedEntry = errors.New("combined evaluation entry requires a criterion and evaluation text")
)

// Entry is one criterion's raw evaluation within a combined payload.
// It keeps the wire names used by clients: {"type", "evaluation"}.
type Entry struct {
	Criterion Criterion `json:"type"`
	Raw       string    `json:"evaluation"`
}

// Kind distinguishes the payload variants.
type Kind int

const (
	KindNone Kind = iota
	KindSingle
	KindCombined
)

// Payload is either a single raw evaluation or an ordered list of
// per-criterion evaluations. The zero value carries no evaluation.
type Payload struct {
	kind    Kind
	single  string
	entries []Entry
}

// Single wraps one raw evaluation text.
func Single(raw string) Payload {
	return Payload{kind: KindSingle, single: raw}
}

// Combined wraps per-criterion evaluations, rejecting empty or malformed lists.
func Combined(entries []Entry) (Payload, error) {
	if len(entries) == 0 {
		return Payload{}, ErrEmptyCombined
	}
	for i, e := range entries {
		if e.Criterion == None || e.Raw == "" {
			return Payload{}, fmt.Errorf("entry %d: %w", i, ErrMalformedEntry)
		}
	}
	return Payload{kind: KindCombined, entries: append([]Entry(nil), entries...)}, nil
}

// Resolve builds a payload from the two wire fields. A non-empty combined list
// takes precedence over the single text. Both empty yields the zero payload.
func Resolve(single string, combined []Entry) (Payload, error) {
	if len(combined) > 0 {
		return Combined(combined)
	}
	if single != "" {
		return Single(single), nil
	}
	return Payload{}, nil
}

func (p Payload) Kind() Kind { return p.kind }

// Empty reports whether the payload carries no evaluation.
func (p Payload) Empty() bool { return p.kind == KindNone }

// Entries returns the per-criterion entries. A single payload yields one entry
// with no criterion.
func (p Payload) Entries() []Entry {
	switch p.kind {
	case KindSingle:
		return []Entry{{Raw: p.single}}
	case KindCombined:
		return append([]Entry(nil), p.entries...)
	default:
		return nil
	}
}

// Primary returns the entry that represents the payload as a whole:
// the groundedness entry of a combined payload when present, otherwise its first entry.
func (p Payload) Primary() (Entry, bool) {
	switch p.kind {
	case KindSingle:
		return Entry{Raw: p.single}, true
	case KindCombined:
		for _, e := range p.entries {
			if e.Criterion == Groundedness {
				return e, true
			}
		}
		return p.entries[0], true
	default:
		return Entry{}, false
	}
}

// Raw returns the single evaluation text, or the primary entry's text for a combined payload.
func (p Payload) Raw() string {
	e, _ := p.Primary()
	return e.Raw
}

// Wire returns the payload split back into its two wire fields.
// Exactly one of the results is populated for a non-empty payload.
func (p Payload) Wire() (single string, combined []Entry) {
	switch p.kind {
	case KindSingle:
		return p.single, nil
	case KindCombined:
		return "", p.Entries()
	default:
		return "", nil
	}
}

type payloadJSON struct {
	Evaluation         string  `json:"evaluation,omitempty"`
	CombinedEvaluation []Entry `json:"combined_evaluation,omitempty"`
}

func (p Payload) MarshalJSON() ([]byte, error) {
	single, combined := p.Wire()
	return json.Marshal(payloadJSON{Evaluation: single, CombinedEvaluation: combined})
}

func (p *Payload) UnmarshalJSON(data []byte) error {
	var raw payloadJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	resolved, err := Resolve(raw.Evaluation, raw.CombinedEvaluation)
	if err != nil {
		return err
	}
	*p = resolved
	return nil
}

// Assessment is the render-ready view of one evaluation entry.
type Assessment struct {
	Criterion   Criterion `json:"criterion,omitempty"`
	Title       string    `json:"title"`
	Label       string    `json:"label"`
	Explanation string    `json:"explanation"`
	Severity    Severity  `json:"severity"`
	Style       Styling   `json:"style"`
}

// Assess parses and classifies one entry.
func Assess(e Entry) Assessment {
	parsed := Parse(e.Raw)
	severity := Classify(parsed.Label, e.Criterion)
	return Assessment{
		Criterion:   e.Criterion,
		Title:       e.Criterion.Title(),
		Label:       parsed.Label,
		Explanation: parsed.Explanation,
		Severity:    severity,
		Style:       Style(severity, e.Criterion),
	}
}

// Assessments returns the view of every entry in payload order.
func (p Payload) Assessments() []Assessment {
	entries := p.Entries()
	out := make([]Assessment, 0, len(entries))
	for _, e := range entries {
		out = append(out, Assess(e))
	}
	return out
}
