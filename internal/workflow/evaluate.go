package workflow

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/JaimeStill/chateval/internal/evaluation"
	"github.com/JaimeStill/chateval/pkg/llm"
)

// CriterionRequest asks for one evaluation. An empty Prompt selects the
// stored or built-in prompt; a missing type means groundedness.
type CriterionRequest struct {
	Criterion evaluation.Criterion `json:"type"`
	Prompt    string               `json:"prompt,omitempty"`
}

func (r CriterionRequest) criterion() evaluation.Criterion {
	if r.Criterion == evaluation.None {
		return evaluation.Groundedness
	}
	return r.Criterion
}

// Target is the exchange under evaluation. Document is the full session text;
// it is truncated to the context limit before it reaches a prompt.
type Target struct {
	Question string
	Response string
	Document string
}

// EvaluateCriteria runs one evaluation per criterion concurrently and returns
// a combined payload in request order. Any failure cancels the rest.
func (rt *Runtime) EvaluateCriteria(
	ctx context.Context,
	client llm.Client,
	target Target,
	criteria []CriterionRequest,
) (evaluation.Payload, error) {
	vars := rt.vars(target)
	entries := make([]evaluation.Entry, len(criteria))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(rt.Options.MaxConcurrency)

	for i, req := range criteria {
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}

			c := req.criterion()
			template, err := rt.evaluationTemplate(gctx, req, target.Document != "")
			if err != nil {
				return fmt.Errorf("%w: %s: %w", ErrEvaluateFailed, c, err)
			}

			raw, err := rt.complete(gctx, client, Render(template, vars), rt.Options.EvalMaxTokens)
			if err != nil {
				return fmt.Errorf("evaluate %s: %w", c, err)
			}

			entries[i] = evaluation.Entry{Criterion: c, Raw: raw}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return evaluation.Payload{}, err
	}

	rt.Logger.InfoContext(ctx, "criteria evaluated", "count", len(entries))
	return evaluation.Combined(entries)
}

// EvaluateSingle runs one evaluation with the caller's template, or with the
// groundedness prompt when template is blank.
func (rt *Runtime) EvaluateSingle(
	ctx context.Context,
	client llm.Client,
	target Target,
	template string,
) (evaluation.Payload, error) {
	if template == "" {
		composed, err := ComposePrompt(ctx, rt.Prompts, evaluation.Groundedness)
		if err != nil {
			return evaluation.Payload{}, fmt.Errorf("%w: %w", ErrEvaluateFailed, err)
		}
		template = composed
	}

	raw, err := rt.complete(ctx, client, Render(template, rt.vars(target)), rt.Options.EvalMaxTokens)
	if err != nil {
		return evaluation.Payload{}, fmt.Errorf("evaluate: %w", err)
	}

	return evaluation.Single(raw), nil
}

func (rt *Runtime) vars(target Target) Vars {
	return Vars{
		Document:  rt.context(target.Document),
		Question:  target.Question,
		Response:  target.Response,
		Timestamp: rt.Now(),
	}
}

func (rt *Runtime) complete(ctx context.Context, client llm.Client, prompt string, maxTokens int) (string, error) {
	resp, err := client.Complete(ctx, llm.Request{Prompt: prompt, MaxTokens: maxTokens})
	if err != nil {
		return "", err
	}
	return resp.Text, nil
}
