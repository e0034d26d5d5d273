package evaluation

import "strings"

const (
	labelField       = "Label:"
	explanationField = "Explanation:"
)

// Parsed is the structured form of an evaluation text.
type Parsed struct {
	Label       string `json:"label"`
	Explanation string `json:"explanation"`
}

// Parse extracts the label and explanation from raw evaluation text.
//
// The first Label: line sets the label. The first Explanation: line starts the
// explanation, and every later non-blank line that does not begin a field is
// appended with a single space. Text that matches neither yields empty fields.
func Parse(raw string) Parsed {
	var (
		p            Parsed
		haveLabel    bool
		inExplaining bool
	)

	for _, line := range strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n") {
		switch {
		case strings.HasPrefix(line, labelField):
			if !haveLabel {
				p.Label = strings.TrimSpace(strings.TrimPrefix(line, labelField))
				haveLabel = true
			}
		case strings.HasPrefix(line, explanationField):
			if !inExplaining {
				p.Explanation = strings.TrimSpace(strings.TrimPrefix(line, explanationField))
				inExplaining = true
			}
		case inExplaining:
			if trimmed := strings.TrimSpace(line); trimmed != "" {
				if p.Explanation == "" {
					p.Explanation = trimmed
				} else {
					p.Explanation += " " + trimmed
				}
			}
		}
	}

	return p
}
