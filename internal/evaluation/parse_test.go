package evaluation_test

import (
	"testing"

	"github.com/JaimeStill/chateval/internal/evaluation"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want evaluation.Parsed
	}{
		{
			name: "label and explanation",
			raw:  "Label: Grounded\nExplanation: It matches.",
			want: evaluation.Parsed{Label: "Grounded", Explanation: "It matches."},
		},
		{
			name: "continuation lines joined with single spaces",
			raw:  "Label: Partially Grounded\nExplanation: Mostly ok.\nBut missing X.",
			want: evaluation.Parsed{Label: "Partially Grounded", Explanation: "Mostly ok. But missing X."},
		},
		{
			name: "empty input",
			raw:  "",
			want: evaluation.Parsed{},
		},
		{
			name: "first label wins",
			raw:  "Label: Grounded\nLabel: Not Grounded\nExplanation: First.",
			want: evaluation.Parsed{Label: "Grounded", Explanation: "First."},
		},
		{
			name: "preamble before explanation ignored",
			raw:  "Here is my assessment.\nLabel: Accurate\nSome aside\nExplanation: Facts check out.",
			want: evaluation.Parsed{Label: "Accurate", Explanation: "Facts check out."},
		},
		{
			name: "blank lines and padding inside explanation",
			raw:  "Label:   Complete  \nExplanation:  Covers all.\n\n   Every part.   \n\n",
			want: evaluation.Parsed{Label: "Complete", Explanation: "Covers all. Every part."},
		},
		{
			name: "crlf line endings",
			raw:  "Label: Relevant\r\nExplanation: On topic.\r\nStays focused.",
			want: evaluation.Parsed{Label: "Relevant", Explanation: "On topic. Stays focused."},
		},
		{
			name: "label after explanation is not appended",
			raw:  "Explanation: Reasoning.\nLabel: Grounded\nMore reasoning.",
			want: evaluation.Parsed{Label: "Grounded", Explanation: "Reasoning. More reasoning."},
		},
		{
			name: "second explanation line ignored",
			raw:  "Label: Grounded\nExplanation: One.\nExplanation: Two.",
			want: evaluation.Parsed{Label: "Grounded", Explanation: "One."},
		},
		{
			name: "empty explanation header keeps continuation",
			raw:  "Label: Grounded\nExplanation:\nDetails follow.",
			want: evaluation.Parsed{Label: "Grounded", Explanation: "Details follow."},
		},
		{
			name: "no recognized fields",
			raw:  "The response looks fine to me.",
			want: evaluation.Parsed{},
		},
		{
			name: "indented field is not recognized",
			raw:  "  Label: Grounded",
			want: evaluation.Parsed{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := evaluation.Parse(tt.raw)
			if got != tt.want {
				t.Errorf("Parse(%q) = %+v, want %+v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestParseIdempotent(t *testing.T) {
	raw := "Label: Not Grounded\nExplanation: Bad.\nReally bad."

	first := evaluation.Parse(raw)
	second := evaluation.Parse(raw)
	if first != second {
		t.Errorf("Parse() not deterministic: %+v vs %+v", first, second)
	}
}
