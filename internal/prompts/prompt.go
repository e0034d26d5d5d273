// Package prompts manages named evaluation prompt overrides per criterion.
// At most one override per criterion is active; without one, evaluations
// use the built-in instructions.
package prompts

import (
	"strings"

	"github.com/google/uuid"

	"github.com/JaimeStill/chateval/internal/evaluation"
)

// Prompt represents a named instruction override for an evaluation criterion.
type Prompt struct {
	ID           uuid.UUID            `json:"id"`
	Name         string               `json:"name"`
	Criterion    evaluation.Criterion `json:"criterion"`
	Instructions string               `json:"instructions"`
	Description  *string              `json:"description"`
	Active       bool                 `json:"active"`
}

// CreateCommand carries the data needed to create a new prompt override.
type CreateCommand struct {
	Name         string               `json:"name"`
	Criterion    evaluation.Criterion `json:"criterion"`
	Instructions string               `json:"instructions"`
	Description  *string              `json:"description"`
}

// UpdateCommand carries the data needed to update an existing prompt override.
type UpdateCommand struct {
	Name         string               `json:"name"`
	Criterion    evaluation.Criterion `json:"criterion"`
	Instructions string               `json:"instructions"`
	Description  *string              `json:"description"`
}

func validate(name string, c evaluation.Criterion, instructions string) error {
	if strings.TrimSpace(name) == "" || strings.TrimSpace(instructions) == "" {
		return ErrInvalidInput
	}
	_, err := evaluation.ParseCriterion(string(c))
	return err
}

// CriterionContent is the response type for criterion-scoped content endpoints.
type CriterionContent struct {
	Criterion evaluation.Criterion `json:"criterion"`
	Title     string               `json:"title"`
	Content   string               `json:"content"`
}
