package evaluation

import "strings"

// Severity is the coarse display classification of an evaluation label.
type Severity string

const (
	Positive Severity = "positive"
	Partial  Severity = "partial"
	Negative Severity = "negative"
	Neutral  Severity = "neutral"
)

var negativeMarkers = []string{"not", "inaccurate", "incomplete", "irrelevant", "ungrounded", "poor"}

var partialMarkers = []string{"partial", "somewhat", "mostly", "fair"}

var positiveVocabulary = map[Criterion][]string{
	Groundedness:    {"grounded"},
	FactualAccuracy: {"accurate"},
	Completeness:    {"complete"},
	Relevance:       {"relevant", "highly relevant"},
	None:            {"grounded", "accurate", "complete", "relevant", "highly relevant", "good"},
}

// Classify maps a label to a severity. Negative markers are checked first, then
// partial markers, then the criterion's positive vocabulary. An unknown
// criterion uses the combined vocabulary.
func Classify(label string, criterion Criterion) Severity {
	l := strings.ToLower(label)

	if containsAny(l, negativeMarkers) {
		return Negative
	}
	if containsAny(l, partialMarkers) {
		return Partial
	}

	vocab, ok := positiveVocabulary[criterion]
	if !ok {
		vocab = positiveVocabulary[None]
	}
	if containsAny(l, vocab) {
		return Positive
	}

	return Neutral
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

// Styling is the presentation triple for a classified evaluation.
type Styling struct {
	Icon       string `json:"icon"`
	LabelColor string `json:"label_color"`
	Background string `json:"background"`
}

var (
	infoStyle = Styling{
		Icon:       "fa-info-circle text-blue-500",
		LabelColor: "text-blue-600 dark:text-blue-400",
		Background: "bg-blue-50 dark:bg-blue-900/20",
	}

	groundednessStyles = map[Severity]Styling{
		Positive: {
			Icon:       "fa-check-circle text-emerald-600",
			LabelColor: "text-emerald-700 dark:text-emerald-300",
			Background: "bg-emerald-50 dark:bg-emerald-900/20",
		},
		Partial: {
			Icon:       "fa-exclamation-triangle text-amber-500",
			LabelColor: "text-amber-700 dark:text-amber-300",
			Background: "bg-amber-50 dark:bg-amber-900/20",
		},
		Negative: {
			Icon:       "fa-times-circle text-red-500",
			LabelColor: "text-red-700 dark:text-red-300",
			Background: "bg-red-50 dark:bg-red-900/20",
		},
	}

	criterionStyles = map[Severity]Styling{
		Positive: {
			Icon:       "fa-check-circle text-green-500",
			LabelColor: "text-green-600 dark:text-green-400",
			Background: "bg-green-50 dark:bg-green-900/20",
		},
		Partial: {
			Icon:       "fa-exclamation-triangle text-amber-500",
			LabelColor: "text-amber-600 dark:text-amber-400",
			Background: "bg-amber-50 dark:bg-amber-900/20",
		},
		Negative: {
			Icon:       "fa-times-circle text-red-500",
			LabelColor: "text-red-600 dark:text-red-400",
			Background: "bg-red-50 dark:bg-red-900/20",
		},
	}
)

// Style returns the presentation triple for a severity under a criterion.
// Neutral always renders as informational.
func Style(severity Severity, criterion Criterion) Styling {
	if severity == Neutral {
		return infoStyle
	}
	palette := criterionStyles
	if criterion == Groundedness {
		palette = groundednessStyles
	}
	if s, ok := palette[severity]; ok {
		return s
	}
	return infoStyle
}
