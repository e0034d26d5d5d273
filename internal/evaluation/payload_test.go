package evaluation_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/JaimeStill/chateval/internal/evaluation"
)

func TestParseCriterion(t *testing.T) {
	for _, c := range evaluation.Criteria() {
		got, err := evaluation.ParseCriterion(string(c))
		if err != nil || got != c {
			t.Errorf("ParseCriterion(%q) = %q, %v", c, got, err)
		}
	}

	if _, err := evaluation.ParseCriterion("tone"); !errors.Is(err, evaluation.ErrInvalidCriterion) {
		t.Errorf("ParseCriterion(tone) error = %v, want ErrInvalidCriterion", err)
	}
}

func TestCriterionTitle(t *testing.T) {
	if got := evaluation.FactualAccuracy.Title(); got != "Factual Accuracy" {
		t.Errorf("Title() = %q, want Factual Accuracy", got)
	}
	if got := evaluation.None.Title(); got != "Evaluation" {
		t.Errorf("Title() = %q, want Evaluation", got)
	}
}

func TestCombinedRejectsMalformed(t *testing.T) {
	tests := []struct {
		name    string
		entries []evaluation.Entry
		want    error
	}{
		{"empty", nil, evaluation.ErrEmptyCombined},
		{"missing criterion", []evaluation.Entry{{Raw: "Label: Grounded"}}, evaluation.ErrMalformedEntry},
		{"missing text", []evaluation.Entry{{Criterion: evaluation.Relevance}}, evaluation.ErrMalformedEntry},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := evaluation.Combined(tt.entries); !errors.Is(err, tt.want) {
				t.Errorf("Combined() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestResolve(t *testing.T) {
	combined := []evaluation.Entry{
		{Criterion: evaluation.Relevance, Raw: "Label: Highly Relevant"},
		{Criterion: evaluation.Groundedness, Raw: "Label: Grounded"},
	}

	p, err := evaluation.Resolve("ignored", combined)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if p.Kind() != evaluation.KindCombined {
		t.Errorf("Kind() = %v, want combined", p.Kind())
	}

	primary, ok := p.Primary()
	if !ok || primary.Criterion != evaluation.Groundedness {
		t.Errorf("Primary() = %+v, want groundedness entry", primary)
	}

	single, err := evaluation.Resolve("Label: Grounded", nil)
	if err != nil || single.Kind() != evaluation.KindSingle || single.Raw() != "Label: Grounded" {
		t.Errorf("Resolve(single) = %+v, %v", single, err)
	}

	empty, err := evaluation.Resolve("", nil)
	if err != nil || !empty.Empty() {
		t.Errorf("Resolve(empty) = %+v, %v, want empty payload", empty, err)
	}
}

func TestPayloadPrimaryFallsBackToFirst(t *testing.T) {
	p, _ := evaluation.Combined([]evaluation.Entry{
		{Criterion: evaluation.Completeness, Raw: "Label: Complete"},
		{Criterion: evaluation.Relevance, Raw: "Label: Relevant"},
	})

	primary, _ := p.Primary()
	if primary.Criterion != evaluation.Completeness {
		t.Errorf("Primary().Criterion = %s, want completeness", primary.Criterion)
	}
}

func TestPayloadJSON(t *testing.T) {
	in := `{"combined_evaluation":[{"type":"groundedness","evaluation":"Label: Grounded\nExplanation: Yes."}]}`

	var p evaluation.Payload
	if err := json.Unmarshal([]byte(in), &p); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if p.Kind() != evaluation.KindCombined {
		t.Fatalf("Kind() = %v, want combined", p.Kind())
	}

	out, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(out) != in {
		t.Errorf("Marshal() = %s, want %s", out, in)
	}

	var bad evaluation.Payload
	err = json.Unmarshal([]byte(`{"combined_evaluation":[{"type":"tone","evaluation":"x"}]}`), &bad)
	if !errors.Is(err, evaluation.ErrInvalidCriterion) {
		t.Errorf("Unmarshal(unknown type) error = %v, want ErrInvalidCriterion", err)
	}
}

func TestAssessments(t *testing.T) {
	p, _ := evaluation.Combined([]evaluation.Entry{
		{Criterion: evaluation.Groundedness, Raw: "Label: Not Grounded\nExplanation: Unsupported."},
		{Criterion: evaluation.FactualAccuracy, Raw: "Label: Accurate\nExplanation: Correct."},
	})

	got := p.Assessments()
	if len(got) != 2 {
		t.Fatalf("len(Assessments()) = %d, want 2", len(got))
	}

	if got[0].Severity != evaluation.Negative || got[0].Title != "Groundedness" {
		t.Errorf("Assessments()[0] = %+v, want negative groundedness", got[0])
	}
	if got[1].Severity != evaluation.Positive || got[1].Explanation != "Correct." {
		t.Errorf("Assessments()[1] = %+v, want positive accuracy", got[1])
	}
	if got[0].Style.Icon != "fa-times-circle text-red-500" {
		t.Errorf("Assessments()[0].Style.Icon = %q", got[0].Style.Icon)
	}
}
