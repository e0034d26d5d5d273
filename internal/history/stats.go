package history

import (
	"math"

	"github.com/JaimeStill/chateval/internal/evaluation"
)

// Stats summarizes a set of records.
type Stats struct {
	TotalEvaluations  int     `json:"total_evaluations"`
	Grounded          int     `json:"grounded"`
	PartiallyGrounded int     `json:"partially_grounded"`
	NotGrounded       int     `json:"not_grounded"`
	Improved          int     `json:"improved"`
	ImprovementRate   float64 `json:"improvement_rate"`
}

// Summarize counts records by groundedness severity; records evaluated only
// under other criteria count toward the total alone. The improvement rate is the
// percentage of original records that later received an improved answer,
// rounded to two decimals.
func Summarize(records []Record) Stats {
	st := Stats{TotalEvaluations: len(records)}

	sources := make(map[string]struct{})
	originals := 0
	for _, r := range records {
		if _, criterion := r.Primary(); criterion == evaluation.None || criterion == evaluation.Groundedness {
			switch evaluation.Classify(r.Label, criterion) {
			case evaluation.Positive:
				st.Grounded++
			case evaluation.Partial:
				st.PartiallyGrounded++
			case evaluation.Negative:
				st.NotGrounded++
			}
		}
		if r.IsImproved {
			st.Improved++
		} else {
			originals++
		}
		if r.ImprovedFrom != "" {
			sources[r.ImprovedFrom] = struct{}{}
		}
	}

	improvedOriginals := 0
	for _, r := range records {
		if _, ok := sources[r.ID]; ok && !r.IsImproved {
			improvedOriginals++
		}
	}

	if originals > 0 {
		rate := float64(improvedOriginals) / float64(originals) * 100
		st.ImprovementRate = math.Round(rate*100) / 100
	}
	return st
}

// Stats summarizes every record in the store.
func (s *Store) Stats() Stats {
	return Summarize(s.List(Filter{}))
}
