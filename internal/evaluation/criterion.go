// Package evaluation parses LLM evaluation text into a label and explanation,
// classifies labels into display severities, and models the single or
// multi-criterion evaluation payload returned from a chat exchange.
package evaluation

import (
	"encoding/json"
	"errors"
	"slices"
)

// ErrInvalidCriterion is returned when a criterion name is not recognized.
var ErrInvalidCriterion = errors.New("criterion must be groundedness, factual_accuracy, completeness, or relevance")

// Criterion is the dimension an evaluation judges.
type Criterion string

// Known evaluation criteria. None marks an evaluation with no declared criterion.
const (
	None            Criterion = ""
	Groundedness    Criterion = "groundedness"
	FactualAccuracy Criterion = "factual_accuracy"
	Completeness    Criterion = "completeness"
	Relevance       Criterion = "relevance"
)

var criteria = []Criterion{
	Groundedness,
	FactualAccuracy,
	Completeness,
	Relevance,
}

var titles = map[Criterion]string{
	Groundedness:    "Groundedness",
	FactualAccuracy: "Factual Accuracy",
	Completeness:    "Completeness",
	Relevance:       "Relevance",
}

// Criteria returns the known criteria in display order.
func Criteria() []Criterion {
	return slices.Clone(criteria)
}

// Title returns the human readable name of the criterion.
func (c Criterion) Title() string {
	if t, ok := titles[c]; ok {
		return t
	}
	return "Evaluation"
}

// ParseCriterion validates a string as a known criterion.
func ParseCriterion(s string) (Criterion, error) {
	v := Criterion(s)
	if !slices.Contains(criteria, v) {
		return None, ErrInvalidCriterion
	}
	return v, nil
}

// UnmarshalJSON validates that the decoded string is a known criterion.
func (c *Criterion) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	v, err := ParseCriterion(raw)
	if err != nil {
		return err
	}
	*c = v
	return nil
}
