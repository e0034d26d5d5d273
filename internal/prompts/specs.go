package prompts

import (
	"fmt"

	"github.com/JaimeStill/chateval/internal/evaluation"
)

const specFormat = `Provide your evaluation in the following format:
Label: [%s]
Explanation: [%s]

Behavioral constraints:
- Begin the first line with "Label:" followed by exactly one of the labels above
- Begin the second line with "Explanation:" and keep it to 2-3 sentences
- Do not add headings, markdown, or other fields`

var specs = map[evaluation.Criterion]string{
	evaluation.Groundedness: fmt.Sprintf(specFormat,
		"Grounded/Partially Grounded/Not Grounded",
		"Detailed explanation of your evaluation"),
	evaluation.FactualAccuracy: fmt.Sprintf(specFormat,
		"Accurate/Mostly Accurate/Inaccurate",
		"Detailed analysis of factual accuracy"),
	evaluation.Completeness: fmt.Sprintf(specFormat,
		"Complete/Partially Complete/Incomplete",
		"Analysis of what is covered and what is missing"),
	evaluation.Relevance: fmt.Sprintf(specFormat,
		"Highly Relevant/Relevant/Not Relevant",
		"Assessment of relevance and focus"),
}

// Spec returns the fixed output specification for a criterion.
// Specifications pin the Label/Explanation reply format that evaluation.Parse reads,
// so overrides replace instructions only.
// Returns evaluation.ErrInvalidCriterion if the criterion is not recognized.
func Spec(c evaluation.Criterion) (string, error) {
	text, ok := specs[c]
	if !ok {
		return "", evaluation.ErrInvalidCriterion
	}
	return text, nil
}

// Default returns the complete built-in prompt for a criterion: its
// instructions followed by its spec.
func Default(c evaluation.Criterion) (string, error) {
	inst, err := Instructions(c)
	if err != nil {
		return "", err
	}
	spec, err := Spec(c)
	if err != nil {
		return "", err
	}
	return inst + "\n\n" + spec, nil
}
