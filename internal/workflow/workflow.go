package workflow

import (
	"context"
	"strings"

	"github.com/JaimeStill/chateval/internal/evaluation"
)

// Settings are the per-request evaluation choices.
// Criteria, when present, take precedence over Prompt.
type Settings struct {
	APIKey   string
	Prompt   string
	Criteria []CriterionRequest
}

// Result is the outcome of a chat or improve round-trip.
// Payload is empty when no evaluation ran.
type Result struct {
	Question string
	Response string
	Payload  evaluation.Payload
}

// Answer asks question against the document and evaluates the reply.
// Without criteria a document-backed answer gets a single groundedness
// evaluation; with neither criteria nor document nothing is evaluated.
func (rt *Runtime) Answer(ctx context.Context, question, document string, s Settings) (*Result, error) {
	if strings.TrimSpace(question) == "" {
		return nil, ErrEmptyMessage
	}

	client, err := rt.LLM.Client(s.APIKey)
	if err != nil {
		return nil, err
	}

	response, err := rt.complete(ctx, client, AnswerPrompt(question, document), rt.Options.ChatMaxTokens)
	if err != nil {
		return nil, err
	}

	result := &Result{Question: question, Response: response}
	target := Target{Question: question, Response: response, Document: document}

	switch {
	case len(s.Criteria) > 0:
		result.Payload, err = rt.EvaluateCriteria(ctx, client, target, s.Criteria)
	case document != "":
		result.Payload, err = rt.EvaluateSingle(ctx, client, target, s.Prompt)
	}
	if err != nil {
		return nil, err
	}

	rt.Logger.InfoContext(
		ctx, "answer complete",
		"document", document != "",
		"criteria", len(s.Criteria),
		"evaluated", !result.Payload.Empty(),
	)
	return result, nil
}

// Improve asks for a better answer from the prior evaluation feedback and
// re-evaluates it. The improved answer is always evaluated.
func (rt *Runtime) Improve(
	ctx context.Context,
	question, document string,
	feedback evaluation.Payload,
	s Settings,
) (*Result, error) {
	if strings.TrimSpace(question) == "" || feedback.Empty() {
		return nil, ErrMissingExchange
	}

	client, err := rt.LLM.Client(s.APIKey)
	if err != nil {
		return nil, err
	}

	prompt := ImprovePrompt(question, rt.context(document), feedback)
	response, err := rt.complete(ctx, client, prompt, rt.Options.ChatMaxTokens)
	if err != nil {
		return nil, err
	}

	result := &Result{Question: question, Response: response}
	target := Target{Question: question, Response: response, Document: document}

	if len(s.Criteria) > 0 {
		result.Payload, err = rt.EvaluateCriteria(ctx, client, target, s.Criteria)
	} else {
		result.Payload, err = rt.EvaluateSingle(ctx, client, target, s.Prompt)
	}
	if err != nil {
		return nil, err
	}

	rt.Logger.InfoContext(
		ctx, "improve complete",
		"combined", feedback.Kind() == evaluation.KindCombined,
		"criteria", len(s.Criteria),
	)
	return result, nil
}
